package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/storage"
)

// EnvPrefix is the prefix of environment overrides. Nested keys are joined
// with a double underscore: COBIT5_SERVER__PORT sets server.port.
const EnvPrefix = "COBIT5_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (COBIT5_*). A .env file next to the config
// file is loaded first; variables already set in the environment win.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	dotenv := filepath.Join(filepath.Dir(path), ".env")
	if _, err := os.Stat(dotenv); err == nil {
		if err := godotenv.Load(dotenv); err != nil {
			return nil, fmt.Errorf("reading %s: %w", dotenv, err)
		}
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps COBIT5_REPORTS__OUTPUT_DIR to reports.output_dir.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"console": true,
	"json":    true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535, got %d", c.Server.Port)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Reports.PollInterval <= 0 {
		return fmt.Errorf("reports.poll_interval must be positive")
	}

	for _, u := range c.Reports.Webhooks {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return fmt.Errorf("reports.webhooks: %q is not an http(s) URL", u)
		}
	}

	switch c.Storage.Backend {
	case StorageFS:
		if c.Reports.OutputDir == "" {
			return fmt.Errorf("reports.output_dir is required for the fs backend")
		}
	case StorageS3:
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("invalid storage.backend %q: must be one of fs, s3", c.Storage.Backend)
	}

	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log.level %q: must be one of debug, info, warn, error", c.Log.Level)
	}
	if !validLogFormats[c.Log.Format] {
		return fmt.Errorf("invalid log.format %q: must be one of console, json", c.Log.Format)
	}

	return nil
}

// StorageOptions converts the storage section into the storage package's
// options. The fs backend writes under reports.output_dir.
func (c *Config) StorageOptions() storage.Config {
	return storage.Config{
		Backend: string(c.Storage.Backend),
		Dir:     c.Reports.OutputDir,
		S3: storage.S3Config{
			Bucket:          c.Storage.S3.Bucket,
			Region:          c.Storage.S3.Region,
			Endpoint:        c.Storage.S3.Endpoint,
			AccessKeyID:     c.Storage.S3.AccessKeyID,
			SecretAccessKey: c.Storage.S3.SecretAccessKey,
		},
	}
}
