// Package config loads the paperless-mirror server configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the server.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Secrets   SecretsConfig   `yaml:"secrets"`
	Paperless PaperlessConfig `yaml:"paperless"`
	Sync      SyncConfig      `yaml:"sync"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds listener settings. An empty HTTPAddr disables the HTTP API.
type ServerConfig struct {
	GRPCAddr string `yaml:"grpc_addr"`
	HTTPAddr string `yaml:"http_addr"`
	TLSCert  string `yaml:"tls_cert"`
	TLSKey   string `yaml:"tls_key"`
	Dev      bool   `yaml:"dev"`
}

// DatabaseConfig holds PostgreSQL settings.
type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"max_conns"`
}

// AuthConfig holds bearer token settings.
type AuthConfig struct {
	JWTKey string `yaml:"jwt_key"`
}

// SecretsConfig holds the passphrase used to seal remote API tokens.
type SecretsConfig struct {
	Key string `yaml:"key"`
}

// PaperlessConfig holds remote client settings.
type PaperlessConfig struct {
	PageSize int           `yaml:"page_size"`
	Timeout  time.Duration `yaml:"timeout"`
}

// SyncConfig holds failure backoff settings for sync runs.
type SyncConfig struct {
	MaxFailures   int           `yaml:"max_failures"`
	FailureWindow time.Duration `yaml:"failure_window"`
	BlockFor      time.Duration `yaml:"block_for"`
}

// LogConfig holds logger settings. An empty File logs to stderr only.
type LogConfig struct {
	Debug      bool   `yaml:"debug"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Load reads and parses the config file at path and applies defaults.
// An empty path yields a default configuration.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errList []error
	if c.Auth.JWTKey == "" {
		errList = append(errList, errors.New("auth.jwt_key is required"))
	}
	if c.Secrets.Key == "" {
		errList = append(errList, errors.New("secrets.key is required"))
	}
	if c.Database.DSN == "" {
		errList = append(errList, errors.New("database.dsn is required"))
	}
	return errors.Join(errList...)
}
