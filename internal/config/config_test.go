package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, 10*time.Second, cfg.Order.TxTimeout)
	assert.Equal(t, 3, cfg.Order.MaxRetryAttempts)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_QUERY_TIMEOUT", "2s")
	t.Setenv("ORDER_MAX_RETRY_ATTEMPTS", "0")
	t.Setenv("HTTP_PORT", "8081")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 3307, cfg.Database.Port)
	assert.Equal(t, 2*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, 1, cfg.Order.MaxRetryAttempts)
	assert.Equal(t, 8081, cfg.Server.Port)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cafe.yaml")
	content := "db_name: cafe_prod\nlog_level: debug\ndb_migrate: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "cafe_prod", cfg.Database.Name)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Database.Migrate)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("ORDER_TX_TIMEOUT", "soon")

	cfg, err := Load(viper.New(), "")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
