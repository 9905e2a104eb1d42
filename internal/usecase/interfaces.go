package usecase

import (
	"context"
	"time"

	"github.com/iho/bankbook/internal/domain"
)

// UserRepository defines data access for users. Lookups by unique key return
// (nil, nil) when no record matches and domain.ErrStoreInconsistent when the
// store yields more than one record.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetByUsername matches the username case-insensitively.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Tx, id string) (*domain.Account, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Tx, id string, balance int64, updatedAt time.Time) error
	Delete(ctx context.Context, tx Tx, id string) error
}

// TransactionRepository defines data access for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Tx, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Tx, id string) (*domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
	Delete(ctx context.Context, tx Tx, id string) error
	DeleteByAccount(ctx context.Context, tx Tx, accountID string) error
}

// Tx represents a store transaction.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxManager handles store transaction lifecycle.
type TxManager interface {
	Begin(ctx context.Context) (Tx, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// PasswordHasher hashes and verifies passwords. Hashes are opaque: they are
// never compared directly, only through Verify.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches hash. A malformed hash is
	// reported as a mismatch, never as an error.
	Verify(plaintext, hash string) bool
}

// Retrier retries an operation on transient store failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
