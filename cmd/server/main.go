package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/user/memory-beacon/config"
	"github.com/user/memory-beacon/internal/app"
	"github.com/user/memory-beacon/internal/game"
	"github.com/user/memory-beacon/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "./config/config.json", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		// Logger level depends on the config, so fall back to defaults here
		setupLogger("info").Fatal("Failed to load configuration", zap.Error(err))
	}

	// Set up logger
	logger := setupLogger(cfg.Server.LogLevel)
	defer logger.Sync()

	// Build the session
	session, closer, err := app.Build(cfg, logger, app.NewLogEffects(logger))
	if err != nil {
		logger.Fatal("Failed to build session", zap.Error(err))
	}
	defer closer.Close()

	// Start the frame loop
	autosave := time.Duration(cfg.Save.AutosaveInterval) * time.Second
	runner := game.NewRunner(session, cfg.Game.TickRate, autosave)
	go runner.Run()

	// Set up HTTP server
	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: server.NewRouter(runner, logger.Named("http")),
	}

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	waitForShutdown(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Failed to shut down HTTP server", zap.Error(err))
	}
	runner.Stop()
	logger.Info("Shutdown complete")
}

func setupLogger(level string) *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		config.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, _ := config.Build()
	return logger
}

func waitForShutdown(logger *zap.Logger) {
	// Set up channel for shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	sig := <-sigChan
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	// Perform cleanup
	logger.Info("Shutting down")
}
