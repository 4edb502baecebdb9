package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.GRPCAddr == "" {
		cfg.Server.GRPCAddr = ":8443"
	}
	if cfg.Paperless.PageSize == 0 {
		cfg.Paperless.PageSize = 100
	}
	if cfg.Paperless.Timeout == 0 {
		cfg.Paperless.Timeout = 30 * time.Second
	}
	if cfg.Sync.MaxFailures == 0 {
		cfg.Sync.MaxFailures = 5
	}
	if cfg.Sync.FailureWindow == 0 {
		cfg.Sync.FailureWindow = 15 * time.Minute
	}
	if cfg.Sync.BlockFor == 0 {
		cfg.Sync.BlockFor = 10 * time.Minute
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = 50
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = 3
	}
}
