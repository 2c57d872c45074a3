package config

import "time"

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "cobit5.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    8080,
			BaseURL: "http://localhost:8080",
		},
		Database: DatabaseConfig{
			Path: "data/cobit5.db",
		},
		Reports: ReportsConfig{
			OutputDir:    "reports",
			PollInterval: 5 * time.Second,
		},
		Storage: StorageConfig{
			Backend: StorageFS,
			S3: S3Config{
				Region: "us-east-1",
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
