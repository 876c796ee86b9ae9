package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/tablewire/tablewire/internal/client"
	"github.com/tablewire/tablewire/internal/tui"
)

const dialTimeout = 10 * time.Second

var CLI struct {
	Config   string `short:"c" long:"config" default:"tablewire-client.hcl" help:"Path to HCL configuration file"`
	Host     string `long:"host" help:"Server host (overrides config)"`
	BasePort int    `short:"p" long:"base-port" help:"Port of seat 0 (overrides config)"`
	Seat     int    `short:"s" long:"seat" default:"-1" help:"Seat to take, 0 through 5 (overrides config)"`
	Port     int    `long:"port" help:"Exact port to dial instead of base port plus seat (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	LogFile  string `long:"log-file" help:"Log file path (overrides config)"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg, err := client.LoadConfig(CLI.Config)
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
	if CLI.Seat >= 0 {
		cfg.Server.Seat = CLI.Seat
	}
	if CLI.Port != 0 {
		cfg.Server.Port = CLI.Port
	}
	if CLI.LogLevel != "" {
		cfg.UI.LogLevel = CLI.LogLevel
	}
	if CLI.LogFile != "" {
		cfg.UI.LogFile = CLI.LogFile
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		kctx.Exit(1)
	}

	// Log to a file so the TUI owns the terminal.
	logFile, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		fmt.Printf("Failed to open log file: %v\n", err)
		kctx.Exit(1)
	}
	defer func() { _ = logFile.Close() }()

	logger := log.New(logFile)
	switch cfg.UI.LogLevel {
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

	logger.Info("Starting client",
		"addr", cfg.Addr(),
		"seat", cfg.Server.Seat,
		"config", CLI.Config)

	c, err := client.Dial(cfg.Addr(), dialTimeout, logger)
	if err != nil {
		fmt.Printf("Failed to connect to %s: %v\n", cfg.Addr(), err)
		kctx.Exit(1)
	}
	defer func() { _ = c.Close() }()

	model := tui.New(cfg.Server.Seat, c, c.Packets(), logger)
	program := tea.NewProgram(model, tea.WithAltScreen())

	final, err := program.Run()
	if err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		kctx.Exit(1)
	}
	if m, ok := final.(*tui.Model); ok && m.Halted() {
		fmt.Println("Table halted by the server.")
	}
}
