package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sourcingops/backend/internal/domain/ledger"
	"github.com/sourcingops/backend/internal/domain/shared"
	"github.com/sourcingops/backend/internal/infrastructure/persistence/models"
)

// GormLedgerRepository implements ledger.Repository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// FindAccount finds an account by ID
func (r *GormLedgerRepository) FindAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	var model models.LedgerAccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAccountByName finds an account by its unique name
func (r *GormLedgerRepository) FindAccountByName(ctx context.Context, name string) (*ledger.Account, error) {
	var model models.LedgerAccountModel
	if err := r.db.WithContext(ctx).First(&model, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SaveAccount creates or updates an account
func (r *GormLedgerRepository) SaveAccount(ctx context.Context, account *ledger.Account) error {
	return r.db.WithContext(ctx).Save(models.LedgerAccountFromDomain(account)).Error
}

// SaveTransaction appends a transaction to the statement
func (r *GormLedgerRepository) SaveTransaction(ctx context.Context, tx *ledger.Transaction) error {
	return r.db.WithContext(ctx).Create(models.LedgerTransactionFromDomain(tx)).Error
}

// ListTransactions returns an account's transactions, newest first
func (r *GormLedgerRepository) ListTransactions(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]ledger.Transaction, int64, error) {
	var total int64
	query := r.db.WithContext(ctx).
		Model(&models.LedgerTransactionModel{}).
		Where("account_id = ?", accountID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.LedgerTransactionModel
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	txs := make([]ledger.Transaction, len(rows))
	for i := range rows {
		txs[i] = rows[i].ToDomain()
	}
	return txs, total, nil
}

// Ensure GormLedgerRepository implements ledger.Repository
var _ ledger.Repository = (*GormLedgerRepository)(nil)
