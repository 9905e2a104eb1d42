package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/bankbook/internal/adapter/http/dto"
	"github.com/iho/bankbook/internal/domain"
	"github.com/iho/bankbook/internal/usecase"
)

type accountServiceStub struct {
	createFn func(ctx context.Context, owner *domain.User, input usecase.CreateAccountInput) (*domain.Account, error)
	getFn    func(ctx context.Context, caller *domain.User, id string) (*domain.Account, error)
	listFn   func(ctx context.Context, owner *domain.User) ([]*domain.Account, error)
	deleteFn func(ctx context.Context, caller *domain.User, id string) error
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, owner *domain.User, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, owner, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, caller *domain.User, id string) (*domain.Account, error) {
	return s.getFn(ctx, caller, id)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, owner *domain.User) ([]*domain.Account, error) {
	return s.listFn(ctx, owner)
}

func (s *accountServiceStub) DeleteAccount(ctx context.Context, caller *domain.User, id string) error {
	return s.deleteFn(ctx, caller, id)
}

func testCaller() *domain.User {
	return &domain.User{ID: "user-1", Username: "johndoe", Email: "john@example.com"}
}

func TestAccountHandler_Create_Success(t *testing.T) {
	account := &domain.Account{
		ID:      "acc-1",
		UserID:  "user-1",
		Name:    "Checking",
		Balance: 12550,
	}

	var captured usecase.CreateAccountInput
	var capturedOwner *domain.User
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, owner *domain.User, input usecase.CreateAccountInput) (*domain.Account, error) {
			capturedOwner = owner
			captured = input
			return account, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.CreateAccountRequest{
		Name:           "Checking",
		InitialBalance: decimal.RequireFromString("125.50"),
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	req = withCaller(req, testCaller())
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if capturedOwner == nil || capturedOwner.ID != "user-1" {
		t.Fatalf("expected authenticated caller to be passed as owner, got %+v", capturedOwner)
	}
	if captured.Name != "Checking" || captured.InitialBalance != 12550 {
		t.Fatalf("expected dollars converted to cents, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "acc-1" {
		t.Fatalf("expected account ID acc-1, got %s", resp.ID)
	}
	if !resp.Balance.Equal(decimal.RequireFromString("125.5")) {
		t.Fatalf("expected balance 125.5 dollars, got %s", resp.Balance)
	}
}

func TestAccountHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, owner *domain.User, input usecase.CreateAccountInput) (*domain.Account, error) {
			t.Fatal("CreateAccount should not be called for invalid payload")
			return nil, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString("{invalid json"))
	req = withCaller(req, testCaller())
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_DuplicateName(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, owner *domain.User, input usecase.CreateAccountInput) (*domain.Account, error) {
			return nil, domain.ErrDuplicateAccountName
		},
	}, nil)

	body, _ := json.Marshal(dto.CreateAccountRequest{Name: "Checking"})
	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	req = withCaller(req, testCaller())
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAccountHandler_Get(t *testing.T) {
	account := &domain.Account{ID: "acc-1", UserID: "user-1", Name: "Checking"}
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, caller *domain.User, id string) (*domain.Account, error) {
			if id != "acc-1" {
				t.Fatalf("expected id acc-1, got %s", id)
			}
			return account, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1", nil)
	req = withCaller(req, testCaller())
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, caller *domain.User, id string) (*domain.Account, error) {
			return nil, domain.ErrNotFound
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1", nil)
	req = withCaller(req, testCaller())
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_List(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, owner *domain.User) ([]*domain.Account, error) {
			if owner == nil || owner.ID != "user-1" {
				t.Fatalf("expected caller user-1, got %+v", owner)
			}
			return []*domain.Account{{ID: "acc-1"}, {ID: "acc-2"}}, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	req = withCaller(req, testCaller())
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListAccountsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Accounts) != 2 || resp.Total != 2 {
		t.Fatalf("expected 2 accounts, got %+v", resp)
	}
}

func TestAccountHandler_Delete(t *testing.T) {
	deleted := false
	handler := NewAccountHandler(&accountServiceStub{
		deleteFn: func(ctx context.Context, caller *domain.User, id string) error {
			deleted = true
			return nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/accounts/acc-1", nil)
	req = withCaller(req, testCaller())
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !deleted {
		t.Fatal("expected DeleteAccount to be called")
	}
}

func TestAccountHandler_Delete_ServiceError(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		deleteFn: func(ctx context.Context, caller *domain.User, id string) error {
			return errors.New("db error")
		},
	}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/accounts/acc-1", nil)
	req = withCaller(req, testCaller())
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
