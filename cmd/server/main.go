/*
main.go - Application entry point

PURPOSE:
  Starts the meal-plan API server.

STARTUP SEQUENCE:
  1. Parse flags / environment / config file
  2. Install the structured logger
  3. Open the SQLite store (read-only unless --init-schema)
  4. Create API handler and router
  5. Serve on 0.0.0.0:<port> with graceful shutdown

COMMAND-LINE FLAGS:
  --port              HTTP server port (default: 8080)
  --db                SQLite database path (default: ./db.db3)
  --config            Optional config file (yaml, json, toml)
  --log-level         debug, info, warn, error (default: info)
  --init-schema       Create the meals table if missing (dev only)
  --max-open-conns    Pooled connection limit (default: 16)
  --rate-limit        Requests per second, 0 disables (default: 100)
  --rate-burst        Rate limiter burst (default: 200)
  --shutdown-timeout  Grace period on SIGINT/SIGTERM (default: 30s)

ENVIRONMENT:
  Every flag can be set as DIMIGOMEAL_<FLAG>, dashes as underscores,
  e.g. DIMIGOMEAL_PORT=3000 DIMIGOMEAL_LOG_LEVEL=debug.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (--shutdown-timeout)
  3. Close database
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Configuration keys
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dimigomeal/dimigomeal-api/api"
	"github.com/dimigomeal/dimigomeal-api/config"
	"github.com/dimigomeal/dimigomeal-api/logging"
	"github.com/dimigomeal/dimigomeal-api/store/sqlite"
)

const name = "dimigomeal-api"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd(config.New()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:           name,
		Short:         "Serve daily and weekly meal plans as JSON",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configFile)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				return err
			}
			logger := logging.SetDefaultStructuredLogger(name, version, cfg.LogLevel)
			if err := run(cmd.Context(), cfg, logger); err != nil {
				logger.Error("server failed", "error", err)
				return err
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file path")
	flags.Int("port", 8080, "HTTP server port")
	flags.String("db", "./db.db3", "SQLite database path")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.Bool("init-schema", false, "create the meals table if missing (dev only)")
	flags.Int("max-open-conns", 16, "maximum pooled database connections")
	flags.Float64("rate-limit", 100, "requests per second, 0 disables")
	flags.Int("rate-burst", 200, "rate limiter burst size")
	flags.Duration("shutdown-timeout", 30*time.Second, "graceful shutdown timeout")
	flags.StringSlice("cors-origins", []string{"*"}, "allowed CORS origins")

	bindFlags(v, cmd)
	return cmd
}

// bindFlags makes explicitly set flags override env and file values.
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	for _, key := range []string{
		"port", "db", "log-level", "init-schema", "max-open-conns",
		"rate-limit", "rate-burst", "shutdown-timeout", "cors-origins",
	} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", key, err))
		}
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Initialize store
	store, err := sqlite.New(cfg.DBPath, sqlite.Options{
		ReadOnly:     !cfg.InitSchema,
		MaxOpenConns: cfg.MaxOpenConns,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	if cfg.InitSchema {
		if err := store.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		logger.Warn("meals table ensured; --init-schema is meant for development")
	}
	if err := store.Ping(ctx); err != nil {
		logger.Warn("store not ready at startup", "db", cfg.DBPath, "error", err)
	}

	handler := api.NewHandler(store, logger)
	router := api.NewRouter(handler, api.RouterOptions{
		RateLimit:   cfg.RateLimit,
		RateBurst:   cfg.RateBurst,
		CORSOrigins: cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr, "db", cfg.DBPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-sigCtx.Done():
	}

	logger.Info("shutting down server", "timeout", cfg.ShutdownTimeout.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
