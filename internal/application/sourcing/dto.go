package sourcing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sourcingops/backend/internal/domain/sourcing"
)

// OrderLineRow is one imported or pasted order-line row before it becomes a
// domain entity. Field coercion is permissive: importers map missing cells
// to empty strings and non-numeric quantities to zero.
type OrderLineRow struct {
	OfferID     string
	OptionColor string
	OptionSize  string
	Quantity    int
	UnitCost    decimal.Decimal
	OrderNumber string
	Note        string
	CancelMark  string
	ImageURL    string
}

// VerificationRow is one row of a marketplace verification export.
type VerificationRow struct {
	OfferID   string
	OptionRaw string
	Quantity  int
	UnitPrice decimal.Decimal
	ImageURL  string
}

// DeliveryRow is one row of a logistics registry upload. RawOrderNumber is
// the composite identifier when the registry does not pre-extract the
// canonical number.
type DeliveryRow struct {
	RawOrderNumber string
	StatusCode     string
	Carrier        string
	TrackingNo     string
	DeliveredAt    *time.Time
}

// UpdateOrderLineRequest carries a cell edit. Nil fields are untouched.
type UpdateOrderLineRequest struct {
	OfferID     *string
	OptionColor *string
	OptionSize  *string
	Quantity    *int
	UnitCost    *decimal.Decimal
	OrderNumber *string
	Note        *string
	CancelMark  *string
}

// PassReport aggregates one reconciliation pass for the operator.
type PassReport struct {
	SheetID    string    `json:"sheet_id"`
	TotalLines int       `json:"total_lines"`
	RanAt      time.Time `json:"ran_at"`

	Matched          int `json:"matched"`
	QuantityMismatch int `json:"quantity_mismatch"`
	IdentityMismatch int `json:"identity_mismatch"`
	Cancelled        int `json:"cancelled"`
	Unclassified     int `json:"unclassified"`

	// AmbiguousGroups counts verification groups with duplicate entries.
	// The cascade picks the first entry of such a group silently; the
	// count is surfaced so the operator knows it happened.
	AmbiguousGroups int `json:"ambiguous_groups"`
}

// PassResult is the full outcome of a reconciliation pass: the per-line
// assessments plus the aggregate report. It is re-derived from scratch on
// every call; nothing here is cached between edits.
type PassResult struct {
	Report      PassReport            `json:"report"`
	Assessments []sourcing.Assessment `json:"assessments"`
}

// EnrichmentChange describes one explicit field update made by enrichment.
type EnrichmentChange struct {
	LineID   string `json:"line_id"`
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// EnrichmentResult lists every change enrichment applied. Empty means the
// sheet was already consistent with the snapshot.
type EnrichmentResult struct {
	SheetID string             `json:"sheet_id"`
	Changes []EnrichmentChange `json:"changes"`
}
