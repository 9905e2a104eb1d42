package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/bankbook/internal/domain"
	"github.com/iho/bankbook/internal/usecase"
)

// RegisterRequest represents a request to register a user.
type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Username             string `json:"username"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Name:                 r.Name,
		Email:                r.Email,
		Username:             r.Username,
		Password:             r.Password,
		PasswordConfirmation: r.PasswordConfirmation,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateUsernameRequest represents a username change request.
type UpdateUsernameRequest struct {
	Username string `json:"username"`
}

// ChangePasswordRequest represents a password change request.
type ChangePasswordRequest struct {
	CurrentPassword         string `json:"current_password"`
	NewPassword             string `json:"new_password"`
	NewPasswordConfirmation string `json:"new_password_confirmation"`
}

// CreateAccountRequest represents a request to create an account. Monetary
// fields are decimal dollars on the wire and cents internally.
type CreateAccountRequest struct {
	Name           string          `json:"name"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:           r.Name,
		InitialBalance: domain.CentsFromDecimal(r.InitialBalance),
	}
}

// CreateTransactionRequest represents a request to record a transaction.
type CreateTransactionRequest struct {
	Name         string          `json:"name"`
	Counterparty string          `json:"counterparty"`
	Amount       decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input for the given account.
func (r *CreateTransactionRequest) ToUseCaseInput(accountID string) usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		AccountID:    accountID,
		Name:         r.Name,
		Counterparty: r.Counterparty,
		Amount:       domain.CentsFromDecimal(r.Amount),
	}
}

// CreateTransferRequest represents a request to move money between two
// accounts.
type CreateTransferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput() usecase.CreateTransferInput {
	return usecase.CreateTransferInput{
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Name:          r.Name,
		Amount:        domain.CentsFromDecimal(r.Amount),
	}
}
