package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	_ "modernc.org/sqlite"
)

func main() {
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	adapter, err := AdapterFor(os.Getenv(EnvDriver))
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}

	cfg, err := LoadConfig(adapter)
	if err != nil {
		logger.Fatal("configuration error", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := NewMCPServer(ctx, adapter, cfg, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		server.Shutdown()
	}()

	logger.Info("sql gateway mcp server started",
		zap.String("driver", cfg.Driver),
		zap.Bool("writes_enabled", cfg.AllowWrites),
	)

	if err := server.Run(); err != nil {
		if err == context.Canceled {
			logger.Info("server shutdown gracefully")
			return
		}
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

// newLogger builds the process logger. Output goes to stderr only:
// stdout carries the MCP transport and must stay clean.
func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if lvl := os.Getenv("MCP_LOG_LEVEL"); lvl != "" {
		if level, err := zapcore.ParseLevel(lvl); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(level)
		}
	}

	logger, err := cfg.Build()
	if err != nil {
		// Logging is best-effort; fall back to a no-op logger rather
		// than refusing to serve.
		return zap.NewNop()
	}
	return logger
}
