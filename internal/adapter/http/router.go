package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/bankbook/internal/adapter/http/handler"
	"github.com/iho/bankbook/internal/adapter/http/middleware"
	"github.com/iho/bankbook/internal/infrastructure/auth"
	"github.com/iho/bankbook/internal/infrastructure/metrics"
	"github.com/iho/bankbook/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler        *handler.AuthHandler
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	TransferHandler    *handler.TransferHandler
	HealthHandler      *handler.HealthHandler
	JWTManager         *auth.JWTManager
	Metrics            *metrics.Metrics
	IdempotencyStore   usecase.IdempotencyStore
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)

	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Public auth endpoints
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
		})

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))

			r.Route("/me", func(r chi.Router) {
				r.Get("/", cfg.AuthHandler.Me)
				r.Put("/username", cfg.AuthHandler.UpdateUsername)
				r.Put("/password", cfg.AuthHandler.ChangePassword)
			})

			r.Route("/accounts", func(r chi.Router) {
				r.Post("/", cfg.AccountHandler.Create)
				r.Get("/", cfg.AccountHandler.List)
				r.Get("/{id}", cfg.AccountHandler.Get)
				r.Delete("/{id}", cfg.AccountHandler.Delete)
				r.Post("/{id}/transactions", cfg.TransactionHandler.Create)
				r.Get("/{id}/transactions", cfg.TransactionHandler.List)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/{id}", cfg.TransactionHandler.Get)
				r.Delete("/{id}", cfg.TransactionHandler.Delete)
			})

			r.Post("/transfers", cfg.TransferHandler.Create)
		})
	})

	return r
}
