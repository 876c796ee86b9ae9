package client

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/tablewire/tablewire/internal/game"
)

// Config is the client configuration. Both blocks are optional; a
// missing file yields the defaults.
type Config struct {
	Server *ServerSettings `hcl:"server,block"`
	UI     *UISettings     `hcl:"ui,block"`
}

// ServerSettings says which seat to take and where the table lives.
type ServerSettings struct {
	Host string `hcl:"host,optional"`
	// BasePort is the port of seat 0; the seat's port is BasePort+Seat.
	BasePort int `hcl:"base_port,optional"`
	Seat     int `hcl:"seat,optional"`
	// Port, when nonzero, overrides the computed seat port. Seat is
	// then display-only.
	Port int `hcl:"port,optional"`
}

// UISettings controls client logging. The log goes to a file so it
// does not fight the terminal UI for the screen.
type UISettings struct {
	LogFile  string `hcl:"log_file,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: &ServerSettings{
			Host:     "127.0.0.1",
			BasePort: 2201,
			Seat:     0,
		},
		UI: &UISettings{
			LogFile:  "tablewire-client.log",
			LogLevel: "warn",
		},
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
	if config.UI == nil {
		config.UI = def.UI
	}

	if config.Server.Host == "" {
		config.Server.Host = def.Server.Host
	}
	if config.Server.BasePort == 0 {
		config.Server.BasePort = def.Server.BasePort
	}
	if config.UI.LogFile == "" {
		config.UI.LogFile = def.UI.LogFile
	}
	if config.UI.LogLevel == "" {
		config.UI.LogLevel = def.UI.LogLevel
	}

	return &config, nil
}

// Validate checks the configuration for values the client cannot run
// with.
func (c *Config) Validate() error {
	if c.Server.Seat < 0 || c.Server.Seat >= game.NumSeats {
		return fmt.Errorf("seat must be 0 through %d, got %d", game.NumSeats-1, c.Server.Seat)
	}
	if c.Server.BasePort < 1 || c.Server.BasePort+game.NumSeats-1 > 65535 {
		return fmt.Errorf("base port %d leaves no room for %d consecutive ports", c.Server.BasePort, game.NumSeats)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Server.Port)
	}
	switch c.UI.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.UI.LogLevel)
	}
	return nil
}

// Addr returns the address of the configured seat's listener.
func (c *Config) Addr() string {
	port := c.Server.BasePort + c.Server.Seat
	if c.Server.Port != 0 {
		port = c.Server.Port
	}
	return fmt.Sprintf("%s:%d", c.Server.Host, port)
}
