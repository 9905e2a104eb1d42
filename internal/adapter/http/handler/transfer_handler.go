package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iho/bankbook/internal/adapter/http/dto"
	"github.com/iho/bankbook/internal/adapter/http/middleware"
	"github.com/iho/bankbook/internal/domain"
	"github.com/iho/bankbook/internal/infrastructure/metrics"
	"github.com/iho/bankbook/internal/usecase"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	CreateTransfer(ctx context.Context, caller *domain.User, input usecase.CreateTransferInput) (*usecase.Transfer, error)
}

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	transferUC TransferService
	metrics    *metrics.Metrics
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService, m *metrics.Metrics) *TransferHandler {
	return &TransferHandler{transferUC: transferUC, metrics: m}
}

// Create moves money between two of the caller's accounts. The two legs
// commit independently; clients should send an Idempotency-Key so a retry
// after a partial failure does not double-apply the debit.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUserFromContext(r.Context())

	var req dto.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	transfer, err := h.transferUC.CreateTransfer(r.Context(), caller, req.ToUseCaseInput())
	if err != nil {
		if h.metrics != nil {
			h.metrics.TransferErrors.WithLabelValues(errorType(err)).Inc()
		}
		writeError(w, mapDomainError(err), "failed to create transfer", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.TransfersCreated.Inc()
	}

	writeJSON(w, http.StatusCreated, dto.TransferResponse{
		Debit:  dto.TransactionFromDomain(transfer.Debit),
		Credit: dto.TransactionFromDomain(transfer.Credit),
	})
}

func errorType(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrSameAccount):
		return "same_account"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	default:
		return "internal"
	}
}
