package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/tablewire/tablewire/internal/game"
)

// Config is the complete server configuration. Every block is
// optional; a missing file yields the defaults, which match the wire
// protocol's historical constants.
type Config struct {
	Server  *ServerSettings  `hcl:"server,block"`
	Table   *TableSettings   `hcl:"table,block"`
	History *HistorySettings `hcl:"history,block"`
	Ops     *OpsSettings     `hcl:"ops,block"`
}

// ServerSettings controls the listening sockets and logging.
type ServerSettings struct {
	// Host is the bind address. Empty binds every interface.
	Host string `hcl:"host,optional"`
	// BasePort is the port of seat 0; seat i listens on BasePort+i.
	BasePort int `hcl:"base_port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableSettings controls the game itself.
type TableSettings struct {
	StartingStack int   `hcl:"starting_stack,optional"`
	Seed          int64 `hcl:"seed,optional"`
}

// HistorySettings selects the hand history backend.
type HistorySettings struct {
	Driver string `hcl:"driver,optional"`
	DSN    string `hcl:"dsn,optional"`
}

// OpsSettings controls the health and metrics endpoint.
type OpsSettings struct {
	// Listen is the address of the HTTP ops endpoint. Empty disables
	// it.
	Listen string `hcl:"listen,optional"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: &ServerSettings{
			Host:     "",
			BasePort: 2201,
			LogLevel: "info",
		},
		Table: &TableSettings{
			StartingStack: 100,
			Seed:          0,
		},
		History: &HistorySettings{
			Driver: "none",
		},
		Ops: &OpsSettings{},
	}
}

// LoadConfig reads an HCL configuration file, filling in defaults for
// anything unspecified. A missing file is not an error.
func LoadConfig(filename string) (*Config, error) {
	if filename == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	def := DefaultConfig()
	if config.Server == nil {
		config.Server = def.Server
	}
	if config.Table == nil {
		config.Table = def.Table
	}
	if config.History == nil {
		config.History = def.History
	}
	if config.Ops == nil {
		config.Ops = def.Ops
	}

	if config.Server.BasePort == 0 {
		config.Server.BasePort = def.Server.BasePort
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = def.Server.LogLevel
	}
	if config.Table.StartingStack == 0 {
		config.Table.StartingStack = def.Table.StartingStack
	}
	if config.History.Driver == "" {
		config.History.Driver = def.History.Driver
	}

	return &config, nil
}

// Validate checks the configuration for values the server cannot run
// with.
func (c *Config) Validate() error {
	if c.Server.BasePort < 1 || c.Server.BasePort+game.NumSeats-1 > 65535 {
		return fmt.Errorf("base port %d leaves no room for %d consecutive ports", c.Server.BasePort, game.NumSeats)
	}
	if c.Table.StartingStack <= 0 {
		return fmt.Errorf("starting stack must be positive, got %d", c.Table.StartingStack)
	}
	switch c.History.Driver {
	case "none":
	case "sqlite", "postgres":
		if c.History.DSN == "" {
			return fmt.Errorf("history driver %q requires a dsn", c.History.Driver)
		}
	default:
		return fmt.Errorf("unknown history driver %q", c.History.Driver)
	}
	return nil
}

// SeatAddr returns the listen address for one seat.
func (c *Config) SeatAddr(seat int) string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.BasePort+seat)
}
