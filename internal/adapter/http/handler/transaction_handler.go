package handler

import (
	"context"
	"encoding/json"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankbook/internal/adapter/http/dto"
	"github.com/iho/bankbook/internal/adapter/http/middleware"
	"github.com/iho/bankbook/internal/domain"
	"github.com/iho/bankbook/internal/infrastructure/metrics"
	"github.com/iho/bankbook/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	CreateTransaction(ctx context.Context, caller *domain.User, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, caller *domain.User, id string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, caller *domain.User, accountID string, limit, offset int) ([]*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, caller *domain.User, id string) error
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	txnUC   TransactionService
	metrics *metrics.Metrics
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(txnUC TransactionService, m *metrics.Metrics) *TransactionHandler {
	return &TransactionHandler{txnUC: txnUC, metrics: m}
}

// Create records a transaction on one of the caller's accounts.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUserFromContext(r.Context())

	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.txnUC.CreateTransaction(r.Context(), caller, req.ToUseCaseInput(accountID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create transaction", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.TransactionsCreated.Inc()
		h.metrics.TransactionAmount.Observe(math.Abs(float64(txn.Amount)))
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUserFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	txn, err := h.txnUC.GetTransaction(r.Context(), caller, id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// List lists an account's transactions, newest first.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUserFromContext(r.Context())

	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	txns, err := h.txnUC.ListTransactions(r.Context(), caller, accountID, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(txns),
		Total:        int64(len(txns)),
	})
}

// Delete removes a transaction and reverses its effect on the account balance.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUserFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	if err := h.txnUC.DeleteTransaction(r.Context(), caller, id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete transaction", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.TransactionsDeleted.Inc()
	}

	w.WriteHeader(http.StatusNoContent)
}
