package sourcing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLine is one physical order-line entry held locally. It is created by
// spreadsheet import or paste, mutated in place by cell edits, and fully
// replaced on re-import. OfferID may be empty; such lines fall into the
// no-link bucket and are never matched.
type OrderLine struct {
	ID      uuid.UUID
	SheetID string

	// OfferID is the marketplace offer/listing identifier, the primary join
	// scope for all matching.
	OfferID string

	// OptionColor and OptionSize are the two human-typed option sub-fields.
	// Matching always operates on the composite (see Option).
	OptionColor string
	OptionSize  string

	Quantity int
	UnitCost decimal.Decimal

	// OrderNumber is the composite, human-entered order identifier used for
	// the delivery join.
	OrderNumber string

	Note       string
	CancelMark string
	ImageURL   string

	// Delivery enrichment, attached by the joiner. Empty on unmatched lines.
	DeliveryStatus string
	Carrier        string
	TrackingNo     string
	DeliveredAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrderLine creates an order line. Input is deliberately not validated
// beyond identity: source spreadsheets contain zero quantities, empty offer
// IDs and free-form option text, and all of those must load.
func NewOrderLine(sheetID, offerID, optionColor, optionSize string, quantity int) *OrderLine {
	now := time.Now()
	return &OrderLine{
		ID:          uuid.New(),
		SheetID:     sheetID,
		OfferID:     strings.TrimSpace(offerID),
		OptionColor: strings.TrimSpace(optionColor),
		OptionSize:  strings.TrimSpace(optionSize),
		Quantity:    quantity,
		UnitCost:    decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Option returns the composite option string the matching core operates on,
// in the form "color; size". A missing sub-field collapses to the other one.
func (l *OrderLine) Option() string {
	color := strings.TrimSpace(l.OptionColor)
	size := strings.TrimSpace(l.OptionSize)
	switch {
	case color == "":
		return size
	case size == "":
		return color
	default:
		return color + "; " + size
	}
}

// IsCancelled reports whether the line carries a cancel mark.
func (l *OrderLine) IsCancelled() bool {
	return strings.TrimSpace(l.CancelMark) != ""
}

// HasOfferLink reports whether the line carries an offer ID at all.
func (l *OrderLine) HasOfferLink() bool {
	return l.OfferID != ""
}

// AttachDelivery copies the pass-through logistics fields from a delivery
// record onto the line.
func (l *OrderLine) AttachDelivery(rec DeliveryRecord) {
	l.DeliveryStatus = rec.StatusCode
	l.Carrier = rec.Carrier
	l.TrackingNo = rec.TrackingNo
	l.DeliveredAt = rec.DeliveredAt
	l.UpdatedAt = time.Now()
}
