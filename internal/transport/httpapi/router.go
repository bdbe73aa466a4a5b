package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Fuzara/cashcraft/internal/transport/httpapi/handler"
	"github.com/Fuzara/cashcraft/internal/transport/httpapi/middleware"
	"github.com/Fuzara/cashcraft/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger             *logger.Logger
	AllowedOrigins     []string
	AuthHandler        *handler.AuthHandler
	WalletHandler      *handler.WalletHandler
	TransactionHandler *handler.TransactionHandler
	AnalyticsHandler   *handler.AnalyticsHandler
	LedgerHandler      *handler.LedgerHandler
	HealthHandler      *handler.HealthHandler
	JWTMiddleware      func(http.Handler) http.Handler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit()) // 100 req/s with burst of 20

	// Health and metrics endpoints (no authentication required)
	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
	}
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public)
		if cfg.AuthHandler != nil {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
		}

		// Protected routes (require JWT authentication)
		if cfg.JWTMiddleware != nil {
			r.Group(func(r chi.Router) {
				r.Use(cfg.JWTMiddleware)

				if cfg.WalletHandler != nil {
					r.Get("/wallets", cfg.WalletHandler.GetWallets)
					r.Post("/wallets", cfg.WalletHandler.CreateWallet)
					r.Get("/wallets/{id}", cfg.WalletHandler.GetWallet)
					r.Put("/wallets/{id}", cfg.WalletHandler.RenameWallet)
					r.Delete("/wallets/{id}", cfg.WalletHandler.DeleteWallet)
					r.Post("/wallets/{id}/deposit", cfg.WalletHandler.Deposit)
					r.Post("/wallets/{id}/move", cfg.WalletHandler.MoveFunds)
					r.Put("/wallets/{id}/balance", cfg.WalletHandler.SetBalance)
					r.Put("/wallets/{id}/allocation", cfg.WalletHandler.UpdateAllocation)
				}

				if cfg.TransactionHandler != nil {
					r.Get("/transactions", cfg.TransactionHandler.GetTransactions)
					r.Post("/transactions", cfg.TransactionHandler.CreateTransaction)
					r.Put("/transactions/{id}", cfg.TransactionHandler.UpdateTransaction)
					r.Delete("/transactions/{id}", cfg.TransactionHandler.DeleteTransaction)
				}

				if cfg.AnalyticsHandler != nil {
					r.Get("/analytics/summary", cfg.AnalyticsHandler.GetSummary)
				}

				if cfg.LedgerHandler != nil {
					r.Get("/ledger", cfg.LedgerHandler.Get)
					r.Post("/ledger/reset", cfg.LedgerHandler.Reset)
				}
			})
		}
	})

	return r
}
