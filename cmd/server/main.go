/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the leave entitlement HTTP service.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, then flags)
  2. Initialize logger
  3. Load the entitlement policy (UK standard unless POLICY_FILE is set)
  4. Initialize SQLite store
  5. Create holiday client and API handler
  6. Configure HTTP router
  7. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -addr    Listen address (default: $APP_ADDR or :8080)
  -db      SQLite database path (default: $DB_PATH or leave.db)
           Use ":memory:" for in-memory database
  -policy  Policy JSON file (default: $POLICY_FILE)

ENVIRONMENT:
  APP_ADDR, DB_PATH, HOLIDAY_API_URL, HOLIDAY_TIMEOUT, POLICY_FILE,
  CORS_ORIGINS, METRICS_ENABLED, APP_ENV. See config/config.go.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/leave.db"

  # Run with in-memory database and a custom policy
  ./server -db=":memory:" -policy=./policies/forty-hour.json

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Calculation history
*/
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/warp/leave-entitlement/api"
	"github.com/warp/leave-entitlement/config"
	"github.com/warp/leave-entitlement/factory"
	"github.com/warp/leave-entitlement/holidays"
	"github.com/warp/leave-entitlement/store/sqlite"
)

func main() {
	cfg := config.Load()

	// Flags
	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	policyFile := flag.String("policy", cfg.PolicyFile, "Entitlement policy JSON file")
	flag.Parse()

	logger, err := newLogger(cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// Policy
	policy := factory.UKStandard()
	if *policyFile != "" {
		loaded, err := factory.NewPolicyFactory().LoadFile(*policyFile)
		if err != nil {
			logger.Fatal("load policy failed", zap.String("file", *policyFile), zap.Error(err))
		}
		policy = *loaded
	}
	logger.Info("policy loaded",
		zap.String("id", policy.ID),
		zap.String("full_time_weekly_hours", policy.Config.FullTimeWeeklyHours.String()),
		zap.String("base_entitlement", policy.Config.BaseEntitlement().String()))

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		logger.Fatal("initialize database failed", zap.String("path", *dbPath), zap.Error(err))
	}
	defer store.Close()

	// Initialize handler
	client := holidays.NewClient(cfg.HolidayAPIURL, cfg.HolidayTimeout)
	handler := api.NewHandler(store, client, &policy)

	// Create router
	router := api.NewRouter(handler, api.RouterOptions{
		CORSOrigins:    cfg.CORSOrigins,
		MetricsEnabled: cfg.MetricsEnabled,
	})

	// Create server
	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second + cfg.HolidayTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting",
			zap.String("addr", *addr),
			zap.String("db", *dbPath),
			zap.String("holiday_api", cfg.HolidayAPIURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("server stopped")
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
