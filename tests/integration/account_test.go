package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/bankbook/internal/adapter/http/dto"
)

func TestAccountOwnership(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	srv := newTestServer(t)
	srv.DB.TruncateAll(ctx)

	alice := srv.DB.CreateTestUser(ctx, "Alice", "alice@example.com", "alice", "password1")
	bob := srv.DB.CreateTestUser(ctx, "Bob", "bob@example.com", "bob", "password2")
	aliceToken := srv.tokenFor(t, alice)
	bobToken := srv.tokenFor(t, bob)

	var accountID string

	t.Run("create account with initial balance", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/v1/accounts/", aliceToken, dto.CreateAccountRequest{
			Name:           "Checking",
			InitialBalance: decimal.RequireFromString("100.50"),
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		resp := decode[dto.AccountResponse](t, rec)
		if !resp.Balance.Equal(decimal.RequireFromString("100.5")) {
			t.Fatalf("expected balance 100.5, got %s", resp.Balance)
		}
		accountID = resp.ID
	})

	t.Run("duplicate name rejected, different case allowed", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/v1/accounts/", aliceToken, dto.CreateAccountRequest{
			Name: "Checking",
		})
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409 for duplicate name, got %d", rec.Code)
		}

		rec = srv.do(t, http.MethodPost, "/api/v1/accounts/", aliceToken, dto.CreateAccountRequest{
			Name: "checking",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 for different case, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("same name allowed for another user", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/v1/accounts/", bobToken, dto.CreateAccountRequest{
			Name: "Checking",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("owner can read, others cannot", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/accounts/"+accountID, aliceToken, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for owner, got %d", rec.Code)
		}

		rec = srv.do(t, http.MethodGet, "/api/v1/accounts/"+accountID, bobToken, nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for non-owner, got %d", rec.Code)
		}
	})

	t.Run("list returns only own accounts", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/accounts/", aliceToken, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		resp := decode[dto.ListAccountsResponse](t, rec)
		if len(resp.Accounts) != 2 {
			t.Fatalf("expected 2 accounts for alice, got %d", len(resp.Accounts))
		}
		for _, a := range resp.Accounts {
			if a.ID == "" {
				t.Fatalf("account missing ID: %+v", a)
			}
		}
	})

	t.Run("deleting a foreign account is a silent no-op", func(t *testing.T) {
		rec := srv.do(t, http.MethodDelete, "/api/v1/accounts/"+accountID, bobToken, nil)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}

		rec = srv.do(t, http.MethodGet, "/api/v1/accounts/"+accountID, aliceToken, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected account to survive, got %d", rec.Code)
		}
	})

	t.Run("owner delete cascades transactions", func(t *testing.T) {
		srv.DB.CreateTestTransaction(ctx, accountID, "Paycheck", "Acme Corp", 10050)

		rec := srv.do(t, http.MethodDelete, "/api/v1/accounts/"+accountID, aliceToken, nil)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
		}

		rec = srv.do(t, http.MethodGet, "/api/v1/accounts/"+accountID, aliceToken, nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected account gone, got %d", rec.Code)
		}

		var count int
		if err := srv.DB.Pool.QueryRow(ctx,
			"SELECT COUNT(*) FROM transactions WHERE account_id = $1", accountID,
		).Scan(&count); err != nil {
			t.Fatalf("failed to count transactions: %v", err)
		}
		if count != 0 {
			t.Fatalf("expected transactions removed with the account, found %d", count)
		}
	})
}
