package ledger

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for ledger accounts and their
// transactions.
type Repository interface {
	// FindAccount finds an account by ID.
	FindAccount(ctx context.Context, id uuid.UUID) (*Account, error)

	// FindAccountByName finds an account by its unique name.
	FindAccountByName(ctx context.Context, name string) (*Account, error)

	// SaveAccount creates or updates an account.
	SaveAccount(ctx context.Context, account *Account) error

	// SaveTransaction appends a transaction to the statement. Callers save
	// the updated account in the same call path.
	SaveTransaction(ctx context.Context, tx *Transaction) error

	// ListTransactions returns an account's transactions, newest first.
	ListTransactions(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]Transaction, int64, error)
}
