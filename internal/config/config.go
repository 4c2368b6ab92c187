package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Order    OrderConfig
	Log      LogConfig
}

// ServerConfig configures the read-only menu board. Port 0 disables it.
type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
	Migrate         bool
}

type OrderConfig struct {
	TxTimeout        time.Duration
	MaxRetryAttempts int
}

type LogConfig struct {
	Level string
	File  string
}

// Load reads configuration from the environment, an optional .env file in the
// working directory and an optional config file. Values already bound on v
// (for example command line flags) take precedence.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", 0)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "cafe")
	v.SetDefault("DB_PASSWORD", "secret")
	v.SetDefault("DB_NAME", "cafe")
	v.SetDefault("DB_MAX_OPEN_CONNS", 4)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("DB_QUERY_TIMEOUT", "5s")
	v.SetDefault("DB_MIGRATE", false)
	v.SetDefault("ORDER_TX_TIMEOUT", "10s")
	v.SetDefault("ORDER_MAX_RETRY_ATTEMPTS", 3)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "cafe.log")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	connMaxLifetime, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, fmt.Errorf("parsing DB_CONN_MAX_LIFETIME: %w", err)
	}
	queryTimeout, err := time.ParseDuration(v.GetString("DB_QUERY_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("parsing DB_QUERY_TIMEOUT: %w", err)
	}
	txTimeout, err := time.ParseDuration(v.GetString("ORDER_TX_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("parsing ORDER_TX_TIMEOUT: %w", err)
	}

	maxRetryAttempts := v.GetInt("ORDER_MAX_RETRY_ATTEMPTS")
	if maxRetryAttempts < 1 {
		maxRetryAttempts = 1
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetInt("HTTP_PORT"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
			QueryTimeout:    queryTimeout,
			Migrate:         v.GetBool("DB_MIGRATE"),
		},
		Order: OrderConfig{
			TxTimeout:        txTimeout,
			MaxRetryAttempts: maxRetryAttempts,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
			File:  v.GetString("LOG_FILE"),
		},
	}

	return cfg, nil
}
