package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every key the provider reads so host settings do not leak in.
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"ENVIRONMENT", "ENV", "SERVICE_NAME", "SERVICE_VERSION", "LOG_LEVEL",
		"HTTP_TIMEOUT", "HTTP_USER_AGENT",
		"FETCH_MANIFEST", "FETCH_BASE_DIR", "FETCH_TASK_TIMEOUT", "FETCH_CONTINUE_ON_ERROR",
		"STORAGE_PROVIDER", "AWS_REGION", "S3_BUCKET", "S3_ENDPOINT",
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "METRICS_TEXTFILE",
	} {
		t.Setenv(key, "")
	}
}

// chdir switches the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestProvider_LoadDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	p := NewProvider()
	require.NoError(t, p.Load())

	cfg := p.MustGet()
	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, "depfetch", cfg.ServiceName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 120*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "depfetch/1.0", cfg.HTTP.UserAgent)
	assert.Equal(t, "", cfg.Fetch.ManifestPath)
	assert.Equal(t, ".", cfg.Fetch.BaseDir)
	assert.Equal(t, 300*time.Second, cfg.Fetch.TaskTimeout)
	assert.False(t, cfg.Fetch.ContinueOnError)
	assert.Equal(t, ProviderFS, cfg.Storage.Provider)
	assert.True(t, cfg.IsLocal())
}

func TestProvider_LoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("FETCH_TASK_TIMEOUT", "0")
	t.Setenv("FETCH_CONTINUE_ON_ERROR", "true")
	t.Setenv("FETCH_BASE_DIR", "/var/cache/bundles")
	t.Setenv("STORAGE_PROVIDER", "s3")
	t.Setenv("S3_BUCKET", "build-deps")

	p := NewProvider()
	require.NoError(t, p.Load())

	cfg := p.MustGet()
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, time.Duration(0), cfg.Fetch.TaskTimeout)
	assert.True(t, cfg.Fetch.ContinueOnError)
	assert.Equal(t, "/var/cache/bundles", cfg.Fetch.BaseDir)
	assert.Equal(t, ProviderS3, cfg.Storage.Provider)
	assert.Equal(t, "build-deps", cfg.Storage.S3.Bucket)
}

func TestProvider_InvalidDurationFallsBackToDefault(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("HTTP_TIMEOUT", "soon")

	p := NewProvider()
	require.NoError(t, p.Load())
	assert.Equal(t, 120*time.Second, p.MustGet().HTTP.Timeout)
}

func TestProvider_DotEnvLayering(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("LOG_LEVEL=debug\nHTTP_USER_AGENT=from-dotenv\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"),
		[]byte("HTTP_USER_AGENT=from-local\n"), 0o644))

	// godotenv.Load skips keys already present, so drop the blank overrides.
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("HTTP_USER_AGENT")
	t.Cleanup(func() {
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("HTTP_USER_AGENT")
	})

	p := NewProvider()
	require.NoError(t, p.Load())

	cfg := p.MustGet()
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "from-local", cfg.HTTP.UserAgent)
}

func TestProvider_ValidationFailure(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("STORAGE_PROVIDER", "s3")

	p := NewProvider()
	err := p.Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_BUCKET is required")
	assert.False(t, p.IsLoaded())
}

func TestProvider_GetBeforeLoad(t *testing.T) {
	p := NewProvider()

	_, err := p.Get()
	assert.Error(t, err)
	assert.Panics(t, func() { p.MustGet() })
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "non-positive http timeout",
			mutate:  func(c *Config) { c.HTTP.Timeout = 0 },
			wantErr: "HTTP_TIMEOUT must be positive",
		},
		{
			name:    "negative task timeout",
			mutate:  func(c *Config) { c.Fetch.TaskTimeout = -time.Second },
			wantErr: "FETCH_TASK_TIMEOUT cannot be negative",
		},
		{
			name:    "unknown storage provider",
			mutate:  func(c *Config) { c.Storage.Provider = "gcs" },
			wantErr: "unsupported STORAGE_PROVIDER",
		},
		{
			name: "s3 with bucket",
			mutate: func(c *Config) {
				c.Storage.Provider = ProviderS3
				c.Storage.S3.Bucket = "deps"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
