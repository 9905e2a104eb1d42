package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/bankbook/internal/adapter/http/dto"
	"github.com/iho/bankbook/internal/adapter/http/middleware"
	"github.com/iho/bankbook/internal/domain"
	"github.com/iho/bankbook/internal/infrastructure/auth"
	"github.com/iho/bankbook/internal/infrastructure/metrics"
	"github.com/iho/bankbook/internal/usecase"
)

// UserService defines the behavior needed by AuthHandler.
type UserService interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateUsername(ctx context.Context, id, username string) (*domain.User, error)
	ChangePassword(ctx context.Context, id, current, password, confirmation string) error
}

// AuthHandler handles registration, login, and profile endpoints.
type AuthHandler struct {
	userUC     UserService
	jwtManager *auth.JWTManager
	metrics    *metrics.Metrics
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userUC UserService, jwtManager *auth.JWTManager, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		userUC:     userUC,
		jwtManager: jwtManager,
		metrics:    m,
	}
}

// Register creates a new user.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.Register(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to register", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.UserFromDomain(user))
}

// Login verifies credentials and returns a JWT token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if h.metrics != nil {
			h.metrics.AuthAttempts.WithLabelValues("failure").Inc()
		}
		writeError(w, mapDomainError(err), "invalid credentials", "")
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.AuthAttempts.WithLabelValues("success").Inc()
	}

	writeJSON(w, http.StatusOK, dto.TokenResponse{
		Token: token,
		User:  dto.UserFromDomain(user),
	})
}

// Me returns the current authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	user, err := h.userUC.GetUser(r.Context(), caller.ID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get user", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// UpdateUsername changes the current user's username.
func (h *AuthHandler) UpdateUsername(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.UpdateUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.UpdateUsername(r.Context(), caller.ID, req.Username)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update username", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// ChangePassword replaces the current user's password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	err := h.userUC.ChangePassword(r.Context(), caller.ID, req.CurrentPassword, req.NewPassword, req.NewPasswordConfirmation)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to change password", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
