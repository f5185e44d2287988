package config

import "time"

// DefaultHTTPConfig returns sensible defaults for HTTP client configuration
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Timeout:   120 * time.Second,
		UserAgent: "depfetch/1.0",
	}
}

// DefaultFetchConfig returns defaults that reproduce the plain bundle fetch:
// built-in list, working directory, stop at the first failure.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		ManifestPath:    "",
		BaseDir:         ".",
		TaskTimeout:     300 * time.Second,
		ContinueOnError: false,
	}
}

// DefaultStorageConfig returns sensible defaults for storage configuration
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		Provider: ProviderFS,
		S3:       DefaultS3Config(),
	}
}

// DefaultS3Config returns sensible defaults for S3 configuration
func DefaultS3Config() S3Config {
	return S3Config{
		Region: "us-east-2",
	}
}

// DefaultConfig returns a complete configuration with sensible defaults
// This is useful for testing or when you want to start with defaults and override specific parts
func DefaultConfig() *Config {
	return &Config{
		Environment: "local",
		ServiceName: "depfetch",
		Version:     "1.0.0",
		LogLevel:    "info",

		HTTP:    DefaultHTTPConfig(),
		Fetch:   DefaultFetchConfig(),
		Storage: DefaultStorageConfig(),
	}
}
