package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, name := range []string{"", "/nonexistent/table.hcl"} {
		cfg, err := LoadConfig(name)
		require.NoError(t, err, "LoadConfig(%q)", name)
		assert.Equal(t, 2201, cfg.Server.BasePort)
		assert.Equal(t, "info", cfg.Server.LogLevel)
		assert.Equal(t, 100, cfg.Table.StartingStack)
		assert.EqualValues(t, 0, cfg.Table.Seed)
		assert.Equal(t, "none", cfg.History.Driver)
		assert.Empty(t, cfg.Ops.Listen)
		assert.NoError(t, cfg.Validate())
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.hcl")
	content := `
server {
  host      = "0.0.0.0"
  base_port = 9301
  log_level = "debug"
}

table {
  starting_stack = 250
  seed           = 42
}

history {
  driver = "sqlite"
  dsn    = "hands.db"
}

ops {
  listen = "127.0.0.1:9090"
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9301, cfg.Server.BasePort)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 250, cfg.Table.StartingStack)
	assert.EqualValues(t, 42, cfg.Table.Seed)
	assert.Equal(t, "sqlite", cfg.History.Driver)
	assert.Equal(t, "hands.db", cfg.History.DSN)
	assert.Equal(t, "127.0.0.1:9090", cfg.Ops.Listen)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.hcl")
	content := `
table {
  seed = 7
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.EqualValues(t, 7, cfg.Table.Seed)
	// Everything unspecified falls back to the defaults.
	assert.Equal(t, 2201, cfg.Server.BasePort)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 100, cfg.Table.StartingStack)
	assert.Equal(t, "none", cfg.History.Driver)
}

func TestLoadConfigBadSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.hcl")
	require.NoError(t, os.WriteFile(path, []byte("server {"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"base port too high", func(c *Config) { c.Server.BasePort = 65533 }, true},
		{"base port negative", func(c *Config) { c.Server.BasePort = -1 }, true},
		{"stack zero", func(c *Config) { c.Table.StartingStack = 0 }, true},
		{"unknown history driver", func(c *Config) { c.History.Driver = "bogus" }, true},
		{"sqlite without dsn", func(c *Config) { c.History.Driver = "sqlite" }, true},
		{"postgres with dsn", func(c *Config) {
			c.History.Driver = "postgres"
			c.History.DSN = "postgres://localhost/hands"
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSeatAddr(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ":2201", cfg.SeatAddr(0))
	assert.Equal(t, ":2206", cfg.SeatAddr(5))

	cfg.Server.Host = "10.0.0.7"
	cfg.Server.BasePort = 9300
	assert.Equal(t, "10.0.0.7:9302", cfg.SeatAddr(2))
}
