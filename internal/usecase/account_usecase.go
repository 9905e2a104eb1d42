package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/bankbook/internal/domain"
)

// AccountUseCase handles account business logic. Every read or mutation of an
// account on behalf of an external caller passes through domain.Authorized;
// absence and foreign ownership are reported identically as domain.ErrNotFound.
type AccountUseCase struct {
	txManager   TxManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TxManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	idGen IDGenerator,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name           string
	InitialBalance int64 // minor units
}

// CreateAccount creates a new account for owner. The display name must not be
// used by another of the owner's accounts; the comparison is case-sensitive.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, owner *domain.User, input CreateAccountInput) (*domain.Account, error) {
	if owner == nil {
		return nil, domain.ErrNotFound
	}

	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	existing, err := uc.accountRepo.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	for _, a := range existing {
		if a.Name == input.Name {
			return nil, domain.ErrDuplicateAccountName
		}
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:        uc.idGen.Generate(),
		UserID:    owner.ID,
		Name:      input.Name,
		Balance:   input.InitialBalance,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// ListAccounts lists the owner's accounts. A nil owner has no accounts and
// yields an empty list, never an error.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, owner *domain.User) ([]*domain.Account, error) {
	if owner == nil {
		return []*domain.Account{}, nil
	}

	accounts, err := uc.accountRepo.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	if accounts == nil {
		accounts = []*domain.Account{}
	}

	return accounts, nil
}

// GetAccount retrieves an account by ID on behalf of caller.
func (uc *AccountUseCase) GetAccount(ctx context.Context, caller *domain.User, id string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.Authorized(caller, account) {
		return nil, domain.ErrNotFound
	}

	return account, nil
}

// DeleteAccount deletes an account and all of its transactions. A missing
// account or a guard failure is a silent no-op, not an error.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, caller *domain.User, id string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}

		return err
	}

	if !domain.Authorized(caller, account) {
		return nil
	}

	if err := uc.txnRepo.DeleteByAccount(ctx, tx, account.ID); err != nil {
		return err
	}

	if err := uc.accountRepo.Delete(ctx, tx, account.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// getOwnedForUpdate resolves and locks an account inside tx, applying the
// guard. Absence and foreign ownership both surface as domain.ErrNotFound.
func (uc *AccountUseCase) getOwnedForUpdate(ctx context.Context, tx Tx, caller *domain.User, id string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if !domain.Authorized(caller, account) {
		return nil, domain.ErrNotFound
	}

	return account, nil
}

// saveBalance persists a mutated cached balance. This is a trusted internal
// path used by the transaction service; it is unexported so it can never be
// reached from the external boundary.
func (uc *AccountUseCase) saveBalance(ctx context.Context, tx Tx, id string, balance int64, updatedAt time.Time) error {
	return uc.accountRepo.UpdateBalance(ctx, tx, id, balance, updatedAt)
}
