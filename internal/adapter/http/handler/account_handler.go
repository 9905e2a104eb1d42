package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankbook/internal/adapter/http/dto"
	"github.com/iho/bankbook/internal/adapter/http/middleware"
	"github.com/iho/bankbook/internal/domain"
	"github.com/iho/bankbook/internal/infrastructure/metrics"
	"github.com/iho/bankbook/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, owner *domain.User, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, caller *domain.User, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, owner *domain.User) ([]*domain.Account, error)
	DeleteAccount(ctx context.Context, caller *domain.User, id string) error
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
	metrics   *metrics.Metrics
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService, m *metrics.Metrics) *AccountHandler {
	return &AccountHandler{accountUC: accountUC, metrics: m}
}

// Create creates a new account for the authenticated user.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUserFromContext(r.Context())

	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), caller, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create account", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.AccountsCreated.Inc()
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves one of the caller's accounts by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUserFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), caller, id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists the caller's accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUserFromContext(r.Context())

	accounts, err := h.accountUC.ListAccounts(r.Context(), caller)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// Delete removes one of the caller's accounts and its transactions. Deleting
// an account the caller cannot see succeeds with no effect.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUserFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	if err := h.accountUC.DeleteAccount(r.Context(), caller, id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete account", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.AccountsDeleted.Inc()
	}

	w.WriteHeader(http.StatusNoContent)
}
