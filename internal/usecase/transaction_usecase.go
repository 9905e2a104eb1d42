package usecase

import (
	"context"
	"time"

	"github.com/iho/bankbook/internal/domain"
)

// TransactionUseCase handles transaction business logic. Creating or deleting
// a transaction and updating the owning account's cached balance happen inside
// one store transaction, so no reader ever observes one without the other.
type TransactionUseCase struct {
	txManager TxManager
	accounts  *AccountUseCase
	txnRepo   TransactionRepository
	idGen     IDGenerator
	retrier   Retrier
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TxManager,
	accounts *AccountUseCase,
	txnRepo TransactionRepository,
	idGen IDGenerator,
	retrier Retrier,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager: txManager,
		accounts:  accounts,
		txnRepo:   txnRepo,
		idGen:     idGen,
		retrier:   retrier,
	}
}

// CreateTransactionInput represents input for recording a transaction.
type CreateTransactionInput struct {
	AccountID    string
	Name         string
	Counterparty string
	Amount       int64 // minor units, signed
}

// CreateTransaction records a transaction on one of the caller's accounts and
// adds its amount to the account's cached balance.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, caller *domain.User, input CreateTransactionInput) (*domain.Transaction, error) {
	if err := domain.ValidateTransactionName(input.Name); err != nil {
		return nil, err
	}

	var txn *domain.Transaction

	err := uc.retrier.Retry(ctx, func() error {
		created, err := uc.createTransaction(ctx, caller, input)
		if err != nil {
			return err
		}

		txn = created

		return nil
	})
	if err != nil {
		return nil, err
	}

	return txn, nil
}

func (uc *TransactionUseCase) createTransaction(ctx context.Context, caller *domain.User, input CreateTransactionInput) (*domain.Transaction, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accounts.getOwnedForUpdate(ctx, tx, caller, input.AccountID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	txn := &domain.Transaction{
		ID:           uc.idGen.Generate(),
		AccountID:    account.ID,
		Name:         input.Name,
		Counterparty: input.Counterparty,
		Amount:       input.Amount,
		CreatedAt:    now,
	}

	if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	newBalance := account.ApplyAmount(txn.Amount)

	if err := uc.accounts.saveBalance(ctx, tx, account.ID, newBalance, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	account.Balance = newBalance
	account.UpdatedAt = now
	txn.AttachAccount(account)

	return txn, nil
}

// GetTransaction retrieves a transaction by ID on behalf of caller. The guard
// runs against the transaction's effective owner, the owner of its account.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, caller *domain.User, id string) (*domain.Transaction, error) {
	txn, err := uc.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	account, err := uc.accounts.GetAccount(ctx, caller, txn.AccountID)
	if err != nil {
		return nil, err
	}

	txn.AttachAccount(account)

	if !domain.Authorized(caller, txn) {
		return nil, domain.ErrNotFound
	}

	return txn, nil
}

// ListTransactions lists an account's transactions, newest first.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, caller *domain.User, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}

	if limit > 100 {
		limit = 100
	}

	account, err := uc.accounts.GetAccount(ctx, caller, accountID)
	if err != nil {
		return nil, err
	}

	txns, err := uc.txnRepo.ListByAccount(ctx, account.ID, limit, offset)
	if err != nil {
		return nil, err
	}

	for _, txn := range txns {
		txn.AttachAccount(account)
	}

	return txns, nil
}

// DeleteTransaction removes a transaction, first subtracting its amount from
// the account's cached balance. The reversal is computed from the stored
// amount before the record is deleted, and the account is persisted before
// the transaction row goes away.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, caller *domain.User, id string) error {
	return uc.retrier.Retry(ctx, func() error {
		return uc.deleteTransaction(ctx, caller, id)
	})
}

func (uc *TransactionUseCase) deleteTransaction(ctx context.Context, caller *domain.User, id string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	txn, err := uc.txnRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}

	account, err := uc.accounts.getOwnedForUpdate(ctx, tx, caller, txn.AccountID)
	if err != nil {
		return err
	}

	txn.AttachAccount(account)

	if !domain.Authorized(caller, txn) {
		return domain.ErrNotFound
	}

	now := time.Now().UTC()
	newBalance := account.ReverseAmount(txn.Amount)

	if err := uc.accounts.saveBalance(ctx, tx, account.ID, newBalance, now); err != nil {
		return err
	}

	if err := uc.txnRepo.Delete(ctx, tx, txn.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
