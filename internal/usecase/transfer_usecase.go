package usecase

import (
	"context"

	"github.com/iho/bankbook/internal/domain"
)

// TransferUseCase moves money between two of a caller's accounts. A transfer
// is assembled from two independent transaction records, each committed in its
// own store transaction: a debit leg on the source account and a credit leg on
// the target. The legs are not atomic with each other; a failure after the
// debit leaves the debit applied.
type TransferUseCase struct {
	transactions *TransactionUseCase
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(transactions *TransactionUseCase) *TransferUseCase {
	return &TransferUseCase{transactions: transactions}
}

// CreateTransferInput represents input for a transfer.
type CreateTransferInput struct {
	FromAccountID string
	ToAccountID   string
	Name          string
	Amount        int64 // minor units, must be positive
}

// Transfer pairs the two legs of a completed transfer.
type Transfer struct {
	Debit  *domain.Transaction
	Credit *domain.Transaction
}

// CreateTransfer debits the source account and credits the target account.
// Both accounts must belong to caller; an account that is absent or owned by
// someone else yields domain.ErrNotFound.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, caller *domain.User, input CreateTransferInput) (*Transfer, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	if input.FromAccountID == input.ToAccountID {
		return nil, domain.ErrSameAccount
	}

	from, err := uc.transactions.accounts.GetAccount(ctx, caller, input.FromAccountID)
	if err != nil {
		return nil, err
	}

	to, err := uc.transactions.accounts.GetAccount(ctx, caller, input.ToAccountID)
	if err != nil {
		return nil, err
	}

	debit, err := uc.transactions.CreateTransaction(ctx, caller, CreateTransactionInput{
		AccountID:    from.ID,
		Name:         input.Name,
		Counterparty: to.Name,
		Amount:       -input.Amount,
	})
	if err != nil {
		return nil, err
	}

	credit, err := uc.transactions.CreateTransaction(ctx, caller, CreateTransactionInput{
		AccountID:    to.ID,
		Name:         input.Name,
		Counterparty: from.Name,
		Amount:       input.Amount,
	})
	if err != nil {
		return nil, err
	}

	return &Transfer{Debit: debit, Credit: credit}, nil
}
