package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sourcingops/backend/internal/domain/shared"
)

// TransactionKind categorizes a ledger movement.
type TransactionKind string

const (
	KindTopup      TransactionKind = "TOPUP"
	KindPurchase   TransactionKind = "PURCHASE"
	KindRefund     TransactionKind = "REFUND"
	KindAdjustment TransactionKind = "ADJUSTMENT"
)

// IsValid checks if the kind is a known TransactionKind.
func (k TransactionKind) IsValid() bool {
	switch k {
	case KindTopup, KindPurchase, KindRefund, KindAdjustment:
		return true
	}
	return false
}

// Direction returns +1 for kinds that credit the balance and -1 for kinds
// that debit it. Adjustments carry their own sign in the amount.
func (k TransactionKind) Direction() decimal.Decimal {
	switch k {
	case KindPurchase:
		return decimal.NewFromInt(-1)
	default:
		return decimal.NewFromInt(1)
	}
}

// Transaction is one recorded ledger movement. Amounts are stored signed
// from the account's point of view.
type Transaction struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Kind      TransactionKind
	Amount    decimal.Decimal
	Memo      string
	// BalanceAfter snapshots the running balance at record time so the
	// statement reads without recomputation.
	BalanceAfter decimal.Decimal
	CreatedAt    time.Time
}

// Account is a purely arithmetic balance holder. The balance may go
// negative: the business settles overdrafts out of band, and the ledger
// records, it does not enforce.
type Account struct {
	ID        uuid.UUID
	Name      string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount creates an account with a zero balance.
func NewAccount(name string) (*Account, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	now := time.Now()
	return &Account{
		ID:        uuid.New(),
		Name:      name,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Record applies a movement to the account and returns the resulting
// transaction. The only rejected inputs are unknown kinds and zero
// amounts; negative resulting balances are recorded as-is.
func (a *Account) Record(kind TransactionKind, amount decimal.Decimal, memo string) (*Transaction, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Unknown transaction kind")
	}
	if amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount cannot be zero")
	}

	signed := amount
	if kind != KindAdjustment {
		signed = amount.Abs().Mul(kind.Direction())
	}

	a.Balance = a.Balance.Add(signed)
	a.UpdatedAt = time.Now()

	return &Transaction{
		ID:           uuid.New(),
		AccountID:    a.ID,
		Kind:         kind,
		Amount:       signed,
		Memo:         memo,
		BalanceAfter: a.Balance,
		CreatedAt:    a.UpdatedAt,
	}, nil
}
