package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, 16, cfg.WSSendBuffer)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("STORE_DSN", "board.db")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "board.db", cfg.StoreDSN)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory without dsn", Config{StoreDriver: DriverMemory, WSSendBuffer: 16}, false},
		{"sqlite without dsn", Config{StoreDriver: DriverSQLite, WSSendBuffer: 16}, true},
		{"postgres with dsn", Config{StoreDriver: DriverPostgres, StoreDSN: "postgres://x", WSSendBuffer: 16}, false},
		{"unknown driver", Config{StoreDriver: "etcd", WSSendBuffer: 16}, true},
		{"zero buffer", Config{StoreDriver: DriverMemory}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
