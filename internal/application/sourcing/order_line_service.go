package sourcing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sourcingops/backend/internal/domain/sourcing"
)

// OrderLineService handles order line listing, cell edits and the full
// replace performed by re-import. Classification is never triggered from
// here; callers re-run the reconciliation pass when they want fresh
// statuses.
type OrderLineService struct {
	lineRepo sourcing.OrderLineRepository
}

// NewOrderLineService creates a new OrderLineService.
func NewOrderLineService(lineRepo sourcing.OrderLineRepository) *OrderLineService {
	return &OrderLineService{lineRepo: lineRepo}
}

// List returns every line of a sheet in import order.
func (s *OrderLineService) List(ctx context.Context, sheetID string) ([]*sourcing.OrderLine, error) {
	return s.lineRepo.FindBySheet(ctx, sheetID)
}

// Get returns a single line.
func (s *OrderLineService) Get(ctx context.Context, id uuid.UUID) (*sourcing.OrderLine, error) {
	return s.lineRepo.FindByID(ctx, id)
}

// Update applies a cell edit to a line. Only the fields present in the
// request change; the edit is persisted immediately.
func (s *OrderLineService) Update(ctx context.Context, id uuid.UUID, req UpdateOrderLineRequest) (*sourcing.OrderLine, error) {
	line, err := s.lineRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.OfferID != nil {
		line.OfferID = *req.OfferID
	}
	if req.OptionColor != nil {
		line.OptionColor = *req.OptionColor
	}
	if req.OptionSize != nil {
		line.OptionSize = *req.OptionSize
	}
	if req.Quantity != nil {
		line.Quantity = *req.Quantity
	}
	if req.UnitCost != nil {
		line.UnitCost = *req.UnitCost
	}
	if req.OrderNumber != nil {
		line.OrderNumber = *req.OrderNumber
	}
	if req.Note != nil {
		line.Note = *req.Note
	}
	if req.CancelMark != nil {
		line.CancelMark = *req.CancelMark
	}
	line.UpdatedAt = time.Now()

	if err := s.lineRepo.Save(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

// ReplaceSheet swaps all lines of a sheet for freshly imported rows.
// Re-import is always a full replace, never a merge.
func (s *OrderLineService) ReplaceSheet(ctx context.Context, sheetID string, rows []OrderLineRow) ([]*sourcing.OrderLine, error) {
	lines := make([]*sourcing.OrderLine, 0, len(rows))
	for _, row := range rows {
		line := sourcing.NewOrderLine(sheetID, row.OfferID, row.OptionColor, row.OptionSize, row.Quantity)
		line.UnitCost = row.UnitCost
		line.OrderNumber = row.OrderNumber
		line.Note = row.Note
		line.CancelMark = row.CancelMark
		line.ImageURL = row.ImageURL
		lines = append(lines, line)
	}

	if err := s.lineRepo.ReplaceSheet(ctx, sheetID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}
