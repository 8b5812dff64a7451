package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/sourcingops/backend/internal/domain/sourcing"
	"github.com/sourcingops/backend/internal/infrastructure/persistence/models"
)

// GormDeliveryRepository implements DeliveryRecordRepository using GORM
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GormDeliveryRepository
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// FindAll returns the whole registry in load order
func (r *GormDeliveryRepository) FindAll(ctx context.Context) ([]sourcing.DeliveryRecord, error) {
	var rows []models.DeliveryRecordModel
	if err := r.db.WithContext(ctx).
		Order("row_index ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]sourcing.DeliveryRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].ToDomain()
	}
	return records, nil
}

// ReplaceAll swaps the registry wholesale
func (r *GormDeliveryRepository) ReplaceAll(ctx context.Context, records []sourcing.DeliveryRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.DeliveryRecordModel{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}

		rows := make([]*models.DeliveryRecordModel, len(records))
		for i, record := range records {
			rows[i] = models.DeliveryRecordFromDomain(i, record)
		}
		return tx.CreateInBatches(rows, 500).Error
	})
}

// Ensure GormDeliveryRepository implements DeliveryRecordRepository
var _ sourcing.DeliveryRecordRepository = (*GormDeliveryRepository)(nil)
