package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/sourcingops/backend/internal/domain/shared"
	"github.com/sourcingops/backend/internal/domain/sourcing"
	"github.com/sourcingops/backend/internal/infrastructure/persistence/models"
)

// GormVerificationRepository implements VerificationSnapshotRepository using GORM
type GormVerificationRepository struct {
	db *gorm.DB
}

// NewGormVerificationRepository creates a new GormVerificationRepository
func NewGormVerificationRepository(db *gorm.DB) *GormVerificationRepository {
	return &GormVerificationRepository{db: db}
}

// FindBySheet returns the current snapshot for the sheet
func (r *GormVerificationRepository) FindBySheet(ctx context.Context, sheetID string) (*sourcing.VerificationSnapshot, error) {
	var rows []models.VerificationLineModel
	if err := r.db.WithContext(ctx).
		Where("sheet_id = ?", sheetID).
		Order("row_index ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.ErrNotFound
	}

	snapshot := &sourcing.VerificationSnapshot{
		SheetID:  sheetID,
		Lines:    make([]sourcing.VerificationLine, len(rows)),
		LoadedAt: rows[0].LoadedAt,
	}
	for i := range rows {
		snapshot.Lines[i] = rows[i].ToDomain()
	}
	return snapshot, nil
}

// Replace swaps the sheet's snapshot wholesale
func (r *GormVerificationRepository) Replace(ctx context.Context, snapshot *sourcing.VerificationSnapshot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.VerificationLineModel{}, "sheet_id = ?", snapshot.SheetID).Error; err != nil {
			return err
		}
		if len(snapshot.Lines) == 0 {
			return nil
		}

		rows := make([]*models.VerificationLineModel, len(snapshot.Lines))
		for i, line := range snapshot.Lines {
			rows[i] = models.VerificationLineFromDomain(snapshot.SheetID, i, line, snapshot.LoadedAt)
		}
		return tx.CreateInBatches(rows, 500).Error
	})
}

// Ensure GormVerificationRepository implements VerificationSnapshotRepository
var _ sourcing.VerificationSnapshotRepository = (*GormVerificationRepository)(nil)
