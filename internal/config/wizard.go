package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to cobit5! Let's configure the report service.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. HTTP port.
	portPrompt := promptui.Prompt{
		Label:    "HTTP port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)
	cfg.Server.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	// 2. Database file.
	dbPrompt := promptui.Prompt{
		Label:   "SQLite database path",
		Default: cfg.Database.Path,
	}
	if cfg.Database.Path, err = dbPrompt.Run(); err != nil {
		return nil, fmt.Errorf("database path: %w", err)
	}

	// 3. Storage backend.
	backendPrompt := promptui.Select{
		Label: "Where should batch reports be stored",
		Items: []string{
			"fs - local directory",
			"s3 - S3 or MinIO bucket",
		},
	}
	backendIdx, _, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("storage backend: %w", err)
	}

	if backendIdx == 0 {
		cfg.Storage.Backend = StorageFS
		outputPrompt := promptui.Prompt{
			Label:   "Output directory for generated reports",
			Default: cfg.Reports.OutputDir,
		}
		if cfg.Reports.OutputDir, err = outputPrompt.Run(); err != nil {
			return nil, fmt.Errorf("output dir: %w", err)
		}
	} else {
		cfg.Storage.Backend = StorageS3
		if err := promptS3(&cfg.Storage.S3); err != nil {
			return nil, err
		}
	}

	// 4. Poll interval.
	pollPrompt := promptui.Prompt{
		Label:   "Job queue poll interval",
		Default: cfg.Reports.PollInterval.String(),
		Validate: func(s string) error {
			d, err := time.ParseDuration(s)
			if err != nil {
				return err
			}
			if d <= 0 {
				return fmt.Errorf("must be positive")
			}
			return nil
		},
	}
	pollStr, err := pollPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("poll interval: %w", err)
	}
	cfg.Reports.PollInterval, _ = time.ParseDuration(pollStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	if cfg.Storage.Backend == StorageS3 && cfg.Storage.S3.AccessKeyID == "" {
		fmt.Printf("\nNote: no S3 keys were saved; set %sSTORAGE__S3__ACCESS_KEY_ID and %sSTORAGE__S3__SECRET_ACCESS_KEY or use the AWS credential chain.\n", EnvPrefix, EnvPrefix)
	}
	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func promptS3(s3 *S3Config) error {
	var err error

	bucketPrompt := promptui.Prompt{
		Label: "Bucket",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("bucket is required")
			}
			return nil
		},
	}
	if s3.Bucket, err = bucketPrompt.Run(); err != nil {
		return fmt.Errorf("bucket: %w", err)
	}

	regionPrompt := promptui.Prompt{Label: "Region", Default: s3.Region}
	if s3.Region, err = regionPrompt.Run(); err != nil {
		return fmt.Errorf("region: %w", err)
	}

	endpointPrompt := promptui.Prompt{Label: "Custom endpoint (blank for AWS)"}
	if s3.Endpoint, err = endpointPrompt.Run(); err != nil {
		return fmt.Errorf("endpoint: %w", err)
	}
	return nil
}

func validatePort(s string) error {
	p, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if p < 1 || p > 65535 {
		return fmt.Errorf("must be between 1 and 65535")
	}
	return nil
}
