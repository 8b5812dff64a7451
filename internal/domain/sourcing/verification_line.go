package sourcing

import (
	"time"

	"github.com/shopspring/decimal"
)

// VerificationLine is one row of the marketplace verification export.
// Snapshots are loaded wholesale per reconciliation session and treated as
// immutable for the duration of a pass.
type VerificationLine struct {
	OfferID   string
	OptionRaw string
	Quantity  int

	// Auxiliary fields copied onto a matched OrderLine by explicit
	// enrichment, never silently.
	UnitPrice decimal.Decimal
	ImageURL  string
}

// VerificationSnapshot is the wholesale-loaded verification dataset for one
// sheet.
type VerificationSnapshot struct {
	SheetID  string
	Lines    []VerificationLine
	LoadedAt time.Time
}

// DeliveryRecord is one row of the external delivery/logistics registry,
// keyed by the canonical order number derived from the human-entered
// composite identifier.
type DeliveryRecord struct {
	CanonicalOrderNumber string
	StatusCode           string
	Carrier              string
	TrackingNo           string
	DeliveredAt          *time.Time
}
