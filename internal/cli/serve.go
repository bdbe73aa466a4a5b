package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Fuzara/cashcraft/internal/analytics"
	"github.com/Fuzara/cashcraft/internal/ledger"
	"github.com/Fuzara/cashcraft/internal/platform/user"
	"github.com/Fuzara/cashcraft/internal/storage"
	"github.com/Fuzara/cashcraft/internal/storage/postgresstore"
	"github.com/Fuzara/cashcraft/internal/storage/redisstore"
	"github.com/Fuzara/cashcraft/internal/storage/sqlitestore"
	"github.com/Fuzara/cashcraft/internal/transaction"
	"github.com/Fuzara/cashcraft/internal/transport/httpapi"
	"github.com/Fuzara/cashcraft/internal/transport/httpapi/handler"
	"github.com/Fuzara/cashcraft/internal/transport/httpapi/middleware"
	"github.com/Fuzara/cashcraft/internal/wallet"
	"github.com/Fuzara/cashcraft/pkg/config"
	"github.com/Fuzara/cashcraft/pkg/logger"
	"github.com/Fuzara/cashcraft/pkg/money"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the CashCraft API server",
	Long: `Start the HTTP API server. Configuration is read from the environment
(and a .env file when present). The storage backend is selected with
STORAGE_BACKEND: memory, redis, sqlite or postgres. External backends
fall back to in-memory storage when they become unreachable.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log := logger.NewDefault(cfg.Env)
	log.Info("Starting CashCraft API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"backend", cfg.StorageBackend,
	)

	backend, err := openStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.StorageBackend, err)
	}
	defer backend.Close()
	log.Info("Storage backend ready", "backend", cfg.StorageBackend)

	rate, err := money.ParseRate(cfg.ExchangeRate)
	if err != nil {
		return fmt.Errorf("parse EXCHANGE_RATE: %w", err)
	}

	store := ledger.NewStore(backend, log)

	walletSvc := wallet.NewService(store, log)
	transactionSvc := transaction.NewService(store, rate, log)
	analyticsSvc := analytics.NewService(store, rate, log)
	userSvc := user.NewService(user.NewKVRepository(backend), log)
	jwtSvc := middleware.NewJWTService(cfg.JWTSecret)

	router := httpapi.NewRouter(httpapi.Config{
		Logger:             log,
		AllowedOrigins:     cfg.AllowedOrigins,
		AuthHandler:        handler.NewAuthHandler(userSvc, jwtSvc),
		WalletHandler:      handler.NewWalletHandler(walletSvc),
		TransactionHandler: handler.NewTransactionHandler(transactionSvc),
		AnalyticsHandler:   handler.NewAnalyticsHandler(analyticsSvc),
		LedgerHandler:      handler.NewLedgerHandler(store),
		HealthHandler:      handler.NewHealthHandler(backend),
		JWTMiddleware:      middleware.JWTMiddleware(jwtSvc),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}

// openStorage builds the configured backend. External backends are wrapped
// in a fallback store so the API keeps serving from memory on outages.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		return storage.NewMemoryStore(), nil
	case config.BackendRedis:
		s, err := redisstore.New(ctx, cfg.RedisURL, cfg.RedisPassword, cfg.SessionTTL)
		if err != nil {
			return nil, err
		}
		return storage.NewFallbackStore(s, log), nil
	case config.BackendSQLite:
		s, err := sqlitestore.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return storage.NewFallbackStore(s, log), nil
	case config.BackendPostgres:
		s, err := postgresstore.New(ctx, postgresstore.Config{URL: cfg.DatabaseURL})
		if err != nil {
			return nil, err
		}
		return storage.NewFallbackStore(s, log), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
