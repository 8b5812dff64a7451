package sourcing

import (
	"context"

	"github.com/google/uuid"
)

// OrderLineRepository defines persistence for locally held order lines.
type OrderLineRepository interface {
	// FindByID finds a single order line.
	FindByID(ctx context.Context, id uuid.UUID) (*OrderLine, error)

	// FindBySheet returns every line of a sheet in import order.
	FindBySheet(ctx context.Context, sheetID string) ([]*OrderLine, error)

	// Save creates or updates a single line (cell edits).
	Save(ctx context.Context, line *OrderLine) error

	// SaveAll persists a batch of updated lines (delivery join, enrichment).
	SaveAll(ctx context.Context, lines []*OrderLine) error

	// ReplaceSheet atomically replaces all lines of a sheet. Re-import is a
	// full replace, never a merge.
	ReplaceSheet(ctx context.Context, sheetID string, lines []*OrderLine) error

	// CountBySheet counts the lines of a sheet.
	CountBySheet(ctx context.Context, sheetID string) (int64, error)
}

// VerificationSnapshotRepository persists wholesale-loaded verification
// datasets, one per sheet.
type VerificationSnapshotRepository interface {
	// FindBySheet returns the current snapshot for the sheet, or
	// shared.ErrNotFound when none has been loaded.
	FindBySheet(ctx context.Context, sheetID string) (*VerificationSnapshot, error)

	// Replace swaps the sheet's snapshot wholesale.
	Replace(ctx context.Context, snapshot *VerificationSnapshot) error
}

// DeliveryRecordRepository persists the external delivery/logistics
// registry.
type DeliveryRecordRepository interface {
	// FindAll returns the whole registry in load order.
	FindAll(ctx context.Context) ([]DeliveryRecord, error)

	// ReplaceAll swaps the registry wholesale.
	ReplaceAll(ctx context.Context, records []DeliveryRecord) error
}
