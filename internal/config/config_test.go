package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Storage.Backend != StorageFS {
		t.Errorf("expected default backend %q, got %q", StorageFS, cfg.Storage.Backend)
	}
	if cfg.Reports.PollInterval != 5*time.Second {
		t.Errorf("expected default poll interval 5s, got %s", cfg.Reports.PollInterval)
	}
	if cfg.Reports.OutputDir != "reports" {
		t.Errorf("expected default output_dir %q, got %q", "reports", cfg.Reports.OutputDir)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cobit5.yml")

	original := DefaultConfig()
	original.Server.Port = 9090
	original.Database.Path = filepath.Join(dir, "audit.db")
	original.Reports.PollInterval = 30 * time.Second
	original.Storage.Backend = StorageS3
	original.Storage.S3.Bucket = "audit-reports"
	original.Storage.S3.Endpoint = "http://localhost:9000"

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Server.Port != 9090 {
		t.Errorf("port: got %d, want 9090", loaded.Server.Port)
	}
	if loaded.Database.Path != original.Database.Path {
		t.Errorf("database.path: got %q, want %q", loaded.Database.Path, original.Database.Path)
	}
	if loaded.Reports.PollInterval != 30*time.Second {
		t.Errorf("poll_interval: got %s, want 30s", loaded.Reports.PollInterval)
	}
	if loaded.Storage.Backend != StorageS3 || loaded.Storage.S3.Bucket != "audit-reports" {
		t.Errorf("storage: got %+v", loaded.Storage)
	}
	if loaded.Storage.S3.Endpoint != "http://localhost:9000" {
		t.Errorf("endpoint: got %q", loaded.Storage.S3.Endpoint)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cobit5.yml")

	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("COBIT5_SERVER__PORT", "7000")
	t.Setenv("COBIT5_REPORTS__OUTPUT_DIR", "/var/reports")
	t.Setenv("COBIT5_REPORTS__POLL_INTERVAL", "1m")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Server.Port != 7000 {
		t.Errorf("port override failed: got %d", loaded.Server.Port)
	}
	if loaded.Reports.OutputDir != "/var/reports" {
		t.Errorf("output_dir override failed: got %q", loaded.Reports.OutputDir)
	}
	if loaded.Reports.PollInterval != time.Minute {
		t.Errorf("poll_interval override failed: got %s", loaded.Reports.PollInterval)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cobit5.yml")

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("COBIT5_LOG__LEVEL=debug\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("COBIT5_LOG__LEVEL") })

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Log.Level != "debug" {
		t.Errorf("log.level from .env: got %q, want debug", loaded.Log.Level)
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"COBIT5_SERVER__PORT":              "server.port",
		"COBIT5_STORAGE__S3__BUCKET":       "storage.s3.bucket",
		"COBIT5_SERVER__ALLOW_ALL_ORIGINS": "server.allow_all_origins",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"empty database path", func(c *Config) { c.Database.Path = "" }},
		{"zero poll interval", func(c *Config) { c.Reports.PollInterval = 0 }},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "ftp" }},
		{"fs without output dir", func(c *Config) { c.Reports.OutputDir = "" }},
		{"s3 without bucket", func(c *Config) { c.Storage.Backend = StorageS3 }},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"webhook not http", func(c *Config) { c.Reports.Webhooks = []string{"ftp://hooks"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestStorageOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Reports.OutputDir = "/tmp/out"
	cfg.Storage.S3.Bucket = "b"

	opts := cfg.StorageOptions()
	if opts.Backend != "fs" || opts.Dir != "/tmp/out" || opts.S3.Bucket != "b" {
		t.Errorf("StorageOptions = %+v", opts)
	}
}
