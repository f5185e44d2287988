package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Core settings
	Environment string
	ServiceName string
	Version     string
	LogLevel    string

	// Component configurations
	HTTP          HTTPConfig
	Fetch         FetchConfig
	Storage       StorageConfig
	Observability ObservabilityConfig
}

// HTTPConfig holds HTTP client configuration
type HTTPConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// FetchConfig controls how the task list is selected and executed
type FetchConfig struct {
	ManifestPath    string // empty selects the built-in bundle list
	BaseDir         string
	TaskTimeout     time.Duration
	ContinueOnError bool
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Provider string // "fs" or "s3"
	S3       S3Config
}

// S3Config holds AWS S3 sink configuration
type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string // Only for local development (LocalStack, MinIO)
	AccessKeyID     string
	SecretAccessKey string
}

// ObservabilityConfig holds metrics export configuration
type ObservabilityConfig struct {
	MetricsTextfile string
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	var errors []string

	if c.ServiceName == "" {
		errors = append(errors, "SERVICE_NAME is required")
	}

	if c.HTTP.Timeout <= 0 {
		errors = append(errors, "HTTP_TIMEOUT must be positive")
	}
	if c.Fetch.TaskTimeout < 0 {
		errors = append(errors, "FETCH_TASK_TIMEOUT cannot be negative")
	}
	if c.Fetch.BaseDir == "" {
		errors = append(errors, "FETCH_BASE_DIR cannot be empty")
	}

	if err := c.Storage.Validate(); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// Validate checks the storage provider and its provider-specific settings
func (s *StorageConfig) Validate() error {
	switch s.Provider {
	case ProviderFS:
		return nil
	case ProviderS3:
		if s.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_PROVIDER=s3")
		}
		if s.S3.Region == "" {
			return fmt.Errorf("AWS_REGION is required when STORAGE_PROVIDER=s3")
		}
		return nil
	default:
		return fmt.Errorf("unsupported STORAGE_PROVIDER: %q", s.Provider)
	}
}

// Storage provider names
const (
	ProviderFS = "fs"
	ProviderS3 = "s3"
)

// Environment detection methods

// IsLocal returns true if running in local/development environment
func (c *Config) IsLocal() bool {
	env := strings.ToLower(c.Environment)
	return env == "local" || env == "development" || env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "production" || env == "prod"
}

// IsTest returns true if running in test environment
func (c *Config) IsTest() bool {
	env := strings.ToLower(c.Environment)
	return env == "test" || env == "testing"
}
