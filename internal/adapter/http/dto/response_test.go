package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankbook/internal/domain"
)

func TestUserFromDomain_OmitsPasswordHash(t *testing.T) {
	now := time.Now()
	user := &domain.User{
		ID:           "user-1",
		Name:         "John Doe",
		Email:        "john@example.com",
		Username:     "johndoe",
		PasswordHash: "bcrypt-hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	resp := UserFromDomain(user)
	if resp.ID != "user-1" || resp.Email != "john@example.com" {
		t.Fatalf("unexpected user response: %+v", resp)
	}
}

func TestAccountFromDomain(t *testing.T) {
	now := time.Now()
	account := &domain.Account{
		ID:        "acc-1",
		UserID:    "user-1",
		Name:      "Checking",
		Balance:   12345,
		CreatedAt: now,
		UpdatedAt: now,
	}

	resp := AccountFromDomain(account)
	if resp.ID != account.ID {
		t.Fatalf("unexpected account response: %+v", resp)
	}
	if !resp.Balance.Equal(decimal.RequireFromString("123.45")) {
		t.Fatalf("expected balance 123.45 dollars, got %s", resp.Balance)
	}

	list := AccountsFromDomain([]*domain.Account{account})
	if len(list) != 1 || list[0].ID != account.ID {
		t.Fatalf("AccountsFromDomain returned %+v", list)
	}
}

func TestTransactionFromDomain(t *testing.T) {
	now := time.Now()
	txn := &domain.Transaction{
		ID:           "txn-1",
		AccountID:    "acc-1",
		Name:         "Groceries",
		Counterparty: "Corner Store",
		Amount:       -4599,
		CreatedAt:    now,
	}

	resp := TransactionFromDomain(txn)
	if resp.ID != txn.ID || resp.AccountID != txn.AccountID {
		t.Fatalf("unexpected transaction response: %+v", resp)
	}
	if !resp.Amount.Equal(decimal.RequireFromString("-45.99")) {
		t.Fatalf("expected amount -45.99 dollars, got %s", resp.Amount)
	}

	list := TransactionsFromDomain([]*domain.Transaction{txn})
	if len(list) != 1 || list[0].ID != txn.ID {
		t.Fatalf("TransactionsFromDomain returned %+v", list)
	}
}
