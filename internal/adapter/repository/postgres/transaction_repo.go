package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bankbook/internal/domain"
	"github.com/iho/bankbook/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, account_id, name, counterparty, amount, created_at`

// Create inserts a transaction inside tx.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO transactions (id, account_id, name, counterparty, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := pgxTx.Exec(ctx, query,
		txn.ID,
		txn.AccountID,
		txn.Name,
		txn.Counterparty,
		txn.Amount,
		txn.CreatedAt,
	)

	return err
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	txn, err := scanTransaction(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return txn, nil
}

// GetByIDForUpdate retrieves a transaction by ID with a FOR UPDATE lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Tx, id string) (*domain.Transaction, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`

	txn, err := scanTransaction(pgxTx.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return txn, nil
}

// ListByAccount lists an account's transactions, newest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

// Delete removes a transaction inside tx.
func (r *TransactionRepository) Delete(ctx context.Context, tx usecase.Tx, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `DELETE FROM transactions WHERE id = $1`

	_, err := pgxTx.Exec(ctx, query, id)

	return err
}

// DeleteByAccount removes all of an account's transactions inside tx.
func (r *TransactionRepository) DeleteByAccount(ctx context.Context, tx usecase.Tx, accountID string) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `DELETE FROM transactions WHERE account_id = $1`

	_, err := pgxTx.Exec(ctx, query, accountID)

	return err
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := row.Scan(
		&txn.ID,
		&txn.AccountID,
		&txn.Name,
		&txn.Counterparty,
		&txn.Amount,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &txn, nil
}
