/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the scheduling & revenue-projection engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env / environment)
  2. Build the zap logger
  3. Initialize SQLite store
  4. Apply tunable defaults from the optional JSON file
  5. Create API handler with dependencies
  6. Start server with graceful shutdown

CONFIGURATION:
  APP_PORT       HTTP server port (default: 8080)
  DB_PATH        SQLite database path (default: scheduling.db)
                 Use ":memory:" for in-memory database
  DEFAULTS_PATH  Optional JSON file with seed values and
                 underperformance thresholds

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
  - factory/defaults.go: Tunable defaults file format
*/
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/chantela-crypto/MGMT-sub003/api"
	"github.com/chantela-crypto/MGMT-sub003/config"
	"github.com/chantela-crypto/MGMT-sub003/engine"
	"github.com/chantela-crypto/MGMT-sub003/factory"
	"github.com/chantela-crypto/MGMT-sub003/store/sqlite"
)

func main() {
	envFile := flag.String("env", "", "optional .env file to load")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fatal("failed to load configuration", err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.EncoderConfig.TimeKey = "ts"
	log, err := zapCfg.Build()
	if err != nil {
		fatal("failed to build logger", err)
	}
	defer func() { _ = log.Sync() }()

	// Initialize store
	store, err := sqlite.New(cfg.Store.Path)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store, engine.NopSink{}, log)

	// Apply tunable defaults, if configured
	if cfg.Defaults.Path != "" {
		data, err := os.ReadFile(cfg.Defaults.Path)
		if err != nil {
			log.Fatal("failed to read defaults file", zap.String("path", cfg.Defaults.Path), zap.Error(err))
		}
		seeds, thresholds, err := factory.ParseConfig(data)
		if err != nil {
			log.Fatal("failed to parse defaults file", zap.String("path", cfg.Defaults.Path), zap.Error(err))
		}
		handler.Planner.Defaults = seeds
		handler.Evaluator.Thresholds = thresholds
	}

	// Create router
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

func fatal(msg string, err error) {
	os.Stderr.WriteString(msg + ": " + err.Error() + "\n")
	os.Exit(1)
}
