package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/sourcingops/backend/internal/domain/ledger"
	"github.com/sourcingops/backend/internal/domain/shared"
)

// DefaultAccountName is the single operations account the dashboard books
// against. The ledger model supports more, the product uses one.
const DefaultAccountName = "operations"

// RecordTransactionRequest carries one ledger movement.
type RecordTransactionRequest struct {
	Kind   ledger.TransactionKind
	Amount decimal.Decimal
	Memo   string
}

// BalanceResponse is the current balance of the operations account.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// Service exposes the ledger's purely arithmetic bookkeeping.
type Service struct {
	repo ledger.Repository
}

// NewService creates a new ledger Service.
func NewService(repo ledger.Repository) *Service {
	return &Service{repo: repo}
}

// account returns the operations account, creating it on first use.
func (s *Service) account(ctx context.Context) (*ledger.Account, error) {
	acc, err := s.repo.FindAccountByName(ctx, DefaultAccountName)
	if err == nil {
		return acc, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	acc, err = ledger.NewAccount(DefaultAccountName)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveAccount(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// Balance returns the current balance.
func (s *Service) Balance(ctx context.Context) (*BalanceResponse, error) {
	acc, err := s.account(ctx)
	if err != nil {
		return nil, err
	}
	return &BalanceResponse{AccountID: acc.ID.String(), Balance: acc.Balance}, nil
}

// Record applies a movement and persists both the transaction and the
// updated balance.
func (s *Service) Record(ctx context.Context, req RecordTransactionRequest) (*ledger.Transaction, error) {
	acc, err := s.account(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := acc.Record(req.Kind, req.Amount, req.Memo)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveTransaction(ctx, tx); err != nil {
		return nil, err
	}
	if err := s.repo.SaveAccount(ctx, acc); err != nil {
		return nil, err
	}
	return tx, nil
}

// Transactions lists the statement, newest first.
func (s *Service) Transactions(ctx context.Context, limit, offset int) ([]ledger.Transaction, int64, error) {
	acc, err := s.account(ctx)
	if err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListTransactions(ctx, acc.ID, limit, offset)
}
