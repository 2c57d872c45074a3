package config

import "time"

// StorageBackend selects where rendered reports are written.
type StorageBackend string

const (
	StorageFS StorageBackend = "fs"
	StorageS3 StorageBackend = "s3"
)

// Config is the top-level cobit5 configuration, corresponding to cobit5.yml.
type Config struct {
	Server   ServerConfig   `yaml:"server" koanf:"server"`
	Database DatabaseConfig `yaml:"database" koanf:"database"`
	Reports  ReportsConfig  `yaml:"reports" koanf:"reports"`
	Storage  StorageConfig  `yaml:"storage" koanf:"storage"`
	Log      LogConfig      `yaml:"log" koanf:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	// BaseURL prefixes the download links recorded on batch jobs.
	BaseURL string `yaml:"base_url" koanf:"base_url"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" koanf:"path"`
}

// ReportsConfig holds settings for the batch report worker.
type ReportsConfig struct {
	OutputDir    string        `yaml:"output_dir" koanf:"output_dir"`
	PollInterval time.Duration `yaml:"poll_interval" koanf:"poll_interval"`
	// Webhooks receive a JSON event whenever a batch job finishes.
	Webhooks []string `yaml:"webhooks,omitempty" koanf:"webhooks"`
}

type StorageConfig struct {
	Backend StorageBackend `yaml:"backend" koanf:"backend"`
	S3      S3Config       `yaml:"s3" koanf:"s3"`
}

// S3Config configures the S3-compatible backend. Endpoint is only needed for
// MinIO and similar services; empty credentials fall back to the default
// AWS credential chain.
type S3Config struct {
	Bucket          string `yaml:"bucket" koanf:"bucket"`
	Region          string `yaml:"region" koanf:"region"`
	Endpoint        string `yaml:"endpoint,omitempty" koanf:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id,omitempty" koanf:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty" koanf:"secret_access_key"`
}

type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
}
