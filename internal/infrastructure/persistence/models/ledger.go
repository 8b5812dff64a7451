package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sourcingops/backend/internal/domain/ledger"
)

// LedgerAccountModel is the persistence model for the ledger Account.
type LedgerAccountModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	Name      string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_ledger_accounts_name"`
	Balance   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LedgerAccountModel) TableName() string {
	return "ledger_accounts"
}

// ToDomain converts the persistence model to a domain Account.
func (m *LedgerAccountModel) ToDomain() *ledger.Account {
	return &ledger.Account{
		ID:        m.ID,
		Name:      m.Name,
		Balance:   m.Balance,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// LedgerAccountFromDomain converts a domain Account to its persistence model.
func LedgerAccountFromDomain(a *ledger.Account) *LedgerAccountModel {
	return &LedgerAccountModel{
		ID:        a.ID,
		Name:      a.Name,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// LedgerTransactionModel is the persistence model for a ledger Transaction.
type LedgerTransactionModel struct {
	ID           uuid.UUID              `gorm:"type:uuid;primary_key"`
	AccountID    uuid.UUID              `gorm:"type:uuid;not null;index:idx_ledger_tx_account"`
	Kind         ledger.TransactionKind `gorm:"type:varchar(20);not null"`
	Amount       decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Memo         string                 `gorm:"type:text"`
	BalanceAfter decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	CreatedAt    time.Time              `gorm:"not null;index:idx_ledger_tx_created"`
}

// TableName returns the table name for GORM
func (LedgerTransactionModel) TableName() string {
	return "ledger_transactions"
}

// ToDomain converts the persistence model to a domain Transaction.
func (m *LedgerTransactionModel) ToDomain() ledger.Transaction {
	return ledger.Transaction{
		ID:           m.ID,
		AccountID:    m.AccountID,
		Kind:         m.Kind,
		Amount:       m.Amount,
		Memo:         m.Memo,
		BalanceAfter: m.BalanceAfter,
		CreatedAt:    m.CreatedAt,
	}
}

// LedgerTransactionFromDomain converts a domain Transaction to its
// persistence model.
func LedgerTransactionFromDomain(t *ledger.Transaction) *LedgerTransactionModel {
	return &LedgerTransactionModel{
		ID:           t.ID,
		AccountID:    t.AccountID,
		Kind:         t.Kind,
		Amount:       t.Amount,
		Memo:         t.Memo,
		BalanceAfter: t.BalanceAfter,
		CreatedAt:    t.CreatedAt,
	}
}
