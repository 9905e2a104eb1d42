package dto

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/bankbook/internal/usecase"
)

func TestCreateAccountRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateAccountRequest{
		Name:           "Checking",
		InitialBalance: decimal.RequireFromString("125.50"),
	}

	got := req.ToUseCaseInput()
	want := usecase.CreateAccountInput{
		Name:           "Checking",
		InitialBalance: 12550,
	}

	if got != want {
		t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, want)
	}
}

func TestCreateTransactionRequest_ToUseCaseInput(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   int64
	}{
		{"cent-exact", "25.00", 2500},
		{"negative", "-9.99", -999},
		{"sub-cent digits truncated", "10.999", 1099},
		{"negative truncates toward zero", "-10.999", -1099},
		{"whole dollars", "3", 300},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := &CreateTransactionRequest{
				Name:         "Entry",
				Counterparty: "Acme Corp",
				Amount:       decimal.RequireFromString(tt.amount),
			}

			got := req.ToUseCaseInput("acc-1")
			if got.AccountID != "acc-1" || got.Name != "Entry" || got.Counterparty != "Acme Corp" {
				t.Fatalf("ToUseCaseInput() = %+v", got)
			}
			if got.Amount != tt.want {
				t.Fatalf("expected %d cents, got %d", tt.want, got.Amount)
			}
		})
	}
}

func TestCreateTransferRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateTransferRequest{
		FromAccountID: "acc-1",
		ToAccountID:   "acc-2",
		Name:          "Savings top-up",
		Amount:        decimal.RequireFromString("12.34"),
	}

	got := req.ToUseCaseInput()
	want := usecase.CreateTransferInput{
		FromAccountID: "acc-1",
		ToAccountID:   "acc-2",
		Name:          "Savings top-up",
		Amount:        1234,
	}

	if got != want {
		t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, want)
	}
}
