package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"

	"github.com/vietddude/poolwatch/internal/control"
	"github.com/vietddude/poolwatch/internal/core/config"
	"github.com/vietddude/poolwatch/internal/infra/pool"
	"github.com/vietddude/poolwatch/internal/notify"
)

var (
	cfgPath string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "poolwatch",
	Short: "Connection pool health monitoring service",
	Long:  `Poolwatch samples a connection pool, scores its health, raises threshold alerts, and exports history as JSON, CSV, or Prometheus text.`,
	Run:   runMonitor,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
}

func runMonitor(cmd *cobra.Command, args []string) {
	_ = godotenv.Load()

	// Load Configuration
	cfg, err := config.Load(cfgPath)
	if err != nil {
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup logging
	slogLevel := slog.LevelInfo
	if isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	stylelog.InitDefault(&tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watched, err := openPool(ctx, cfg.Pool)
	if err != nil {
		slog.Error("Failed to connect to the watched pool", "error", err)
		os.Exit(1)
	}

	app, err := control.NewMonitor(control.Config{
		Port:     cfg.Server.Port,
		Monitor:  cfg.Monitor,
		Pool:     watched,
		Redis:    cfg.Redis,
		Database: cfg.Database,
	}, notify.NewWebhook(cfg.Monitor.Notifications))
	if err != nil {
		slog.Error("Failed to initialize monitor", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := app.Start(ctx); err != nil {
		slog.Error("Failed to start monitor", "error", err)
		os.Exit(1)
	}

	slog.Info("Monitor started", "config", cfgPath, "port", cfg.Server.Port)

	sig := <-sigChan
	slog.Info("Received signal, shutting down...", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := app.Stop(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
		os.Exit(1)
	}
}

func openPool(ctx context.Context, cfg config.PoolConfig) (pool.Pool, error) {
	if cfg.Driver == "sql" {
		return pool.OpenSQLPool(ctx, cfg.URL, cfg.MaxConns, cfg.MinConns)
	}
	return pool.OpenPgxPool(ctx, cfg.URL)
}
