package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Account metrics
	AccountsCreated prometheus.Counter
	AccountsDeleted prometheus.Counter

	// Transaction metrics
	TransactionsCreated prometheus.Counter
	TransactionsDeleted prometheus.Counter
	TransactionAmount   prometheus.Histogram

	// Transfer metrics
	TransfersCreated prometheus.Counter
	TransferErrors   *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
}

// New creates all metrics and registers them with the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates all metrics and registers them with reg.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankbook_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankbook_accounts_deleted_total",
			Help: "Total number of accounts deleted",
		}),

		TransactionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankbook_transactions_created_total",
			Help: "Total number of transactions recorded",
		}),
		TransactionsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankbook_transactions_deleted_total",
			Help: "Total number of transactions deleted",
		}),
		TransactionAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bankbook_transaction_amount_cents",
			Help:    "Absolute transaction amounts in cents",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
		}),

		TransfersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankbook_transfers_created_total",
			Help: "Total number of transfers created",
		}),
		TransferErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankbook_transfer_errors_total",
				Help: "Total number of transfer errors by type",
			},
			[]string{"error_type"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankbook_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankbook_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankbook_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
	}
}
