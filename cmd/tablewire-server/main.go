package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/tablewire/tablewire/internal/server"
)

var CLI struct {
	Seed     *int64 `arg:"" optional:"" help:"Deck seed; defaults to the clock"`
	Config   string `short:"c" long:"config" default:"tablewire-server.hcl" help:"Path to HCL configuration file"`
	Host     string `long:"host" help:"Bind address (overrides config)"`
	BasePort int    `short:"p" long:"base-port" help:"Port of seat 0 (overrides config)"`
	Stack    int    `long:"stack" help:"Starting stack in chips (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	Ops      string `long:"ops" help:"Ops HTTP listen address (overrides config)"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg, err := server.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		kctx.Exit(1)
	}

	// Apply command line overrides
	if CLI.Host != "" {
		cfg.Server.Host = CLI.Host
	}
	if CLI.BasePort != 0 {
		cfg.Server.BasePort = CLI.BasePort
	}
	if CLI.Stack != 0 {
		cfg.Table.StartingStack = CLI.Stack
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if CLI.Ops != "" {
		cfg.Ops.Listen = CLI.Ops
	}
	if CLI.Seed != nil {
		cfg.Table.Seed = *CLI.Seed
	}
	if cfg.Table.Seed == 0 {
		cfg.Table.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		kctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to build server", "error", err)
		kctx.Exit(1)
	}
	defer func() { _ = srv.Close() }()

	if err := srv.Listen(); err != nil {
		logger.Error("Failed to bind seat ports", "error", err)
		kctx.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		logger.Info("Shutting down", "signal", sig)
		cancel()
	}()

	if err := srv.Run(ctx); err != nil {
		logger.Error("Server failed", "error", err)
		kctx.Exit(1)
	}
	logger.Info("Table halted")
}
