package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/user/memory-beacon/config"
	"github.com/user/memory-beacon/internal/app"
	"github.com/user/memory-beacon/internal/game"
	"github.com/user/memory-beacon/internal/tui"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	configPath := flag.String("config", "./config/config.json", "Path to configuration file")
	logPath := flag.String("log", "./data/play.log", "Path to the log file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file
	logger, err := setupLogger(*logPath, cfg.Server.LogLevel)
	if err != nil {
		fmt.Printf("Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	session, closer, err := app.Build(cfg, logger, app.NewLogEffects(logger))
	if err != nil {
		fmt.Printf("Error building session: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	autosave := time.Duration(cfg.Save.AutosaveInterval) * time.Second
	runner := game.NewRunner(session, cfg.Game.TickRate, autosave)
	go runner.Run()
	defer runner.Stop()

	if err := tui.Run(runner); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger(path, level string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		config.Level = zap.NewAtomicLevelAt(lvl)
	}
	return config.Build()
}
