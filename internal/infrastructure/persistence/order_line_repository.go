package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sourcingops/backend/internal/domain/shared"
	"github.com/sourcingops/backend/internal/domain/sourcing"
	"github.com/sourcingops/backend/internal/infrastructure/persistence/models"
)

// GormOrderLineRepository implements OrderLineRepository using GORM
type GormOrderLineRepository struct {
	db *gorm.DB
}

// NewGormOrderLineRepository creates a new GormOrderLineRepository
func NewGormOrderLineRepository(db *gorm.DB) *GormOrderLineRepository {
	return &GormOrderLineRepository{db: db}
}

// FindByID finds an order line by its ID
func (r *GormOrderLineRepository) FindByID(ctx context.Context, id uuid.UUID) (*sourcing.OrderLine, error) {
	var model models.OrderLineModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySheet returns every line of a sheet in import order
func (r *GormOrderLineRepository) FindBySheet(ctx context.Context, sheetID string) ([]*sourcing.OrderLine, error) {
	var rows []models.OrderLineModel
	if err := r.db.WithContext(ctx).
		Where("sheet_id = ?", sheetID).
		Order("row_index ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	lines := make([]*sourcing.OrderLine, len(rows))
	for i := range rows {
		lines[i] = rows[i].ToDomain()
	}
	return lines, nil
}

// Save creates or updates a single line. The row index of an existing row
// is preserved; a new row is appended after the sheet's current rows.
func (r *GormOrderLineRepository) Save(ctx context.Context, line *sourcing.OrderLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.OrderLineModel
		err := tx.Select("row_index").First(&existing, "id = ?", line.ID).Error
		switch {
		case err == nil:
			return tx.Save(models.OrderLineFromDomain(line, existing.RowIndex)).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			rowIndex, err := nextRowIndex(tx, line.SheetID)
			if err != nil {
				return err
			}
			return tx.Create(models.OrderLineFromDomain(line, rowIndex)).Error
		default:
			return err
		}
	})
}

// SaveAll persists a batch of updated lines
func (r *GormOrderLineRepository) SaveAll(ctx context.Context, lines []*sourcing.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range lines {
			if err := tx.Model(&models.OrderLineModel{}).
				Where("id = ?", line.ID).
				Select("*").
				Omit("id", "row_index", "created_at").
				Updates(models.OrderLineFromDomain(line, 0)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceSheet atomically replaces all lines of a sheet
func (r *GormOrderLineRepository) ReplaceSheet(ctx context.Context, sheetID string, lines []*sourcing.OrderLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.OrderLineModel{}, "sheet_id = ?", sheetID).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}

		rows := make([]*models.OrderLineModel, len(lines))
		for i, line := range lines {
			rows[i] = models.OrderLineFromDomain(line, i)
		}
		return tx.CreateInBatches(rows, 500).Error
	})
}

// CountBySheet counts the lines of a sheet
func (r *GormOrderLineRepository) CountBySheet(ctx context.Context, sheetID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderLineModel{}).
		Where("sheet_id = ?", sheetID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func nextRowIndex(tx *gorm.DB, sheetID string) (int, error) {
	var max *int
	if err := tx.Model(&models.OrderLineModel{}).
		Where("sheet_id = ?", sheetID).
		Select("MAX(row_index)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}

// Ensure GormOrderLineRepository implements OrderLineRepository
var _ sourcing.OrderLineRepository = (*GormOrderLineRepository)(nil)
