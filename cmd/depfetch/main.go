package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	httpadapter "depfetch/internal/adapters/http"
	"depfetch/internal/domain"
	"depfetch/internal/manifest"
	"depfetch/internal/service"
	"depfetch/shared/config"
	"depfetch/shared/observability"
	"depfetch/shared/observability/logger"
	"depfetch/shared/storage"
	"depfetch/shared/storage/types"
)

const (
	exitOK          = 0
	exitTaskFailure = 1
	exitSetup       = 2
)

func main() {
	os.Exit(run())
}

// Dependencies holds all initialized infrastructure components
type Dependencies struct {
	observability *observability.DefaultProvider
	storage       types.FileStorage
	httpClient    *httpadapter.Client
}

// Application holds the complete application stack
type Application struct {
	fetcher *service.Fetcher
	tasks   []domain.DownloadTask
	logger  observability.Logger
}

func run() int {
	cfg, err := loadConfiguration()
	if err != nil {
		fmt.Fprintf(os.Stderr, "depfetch: %v\n", err)
		return exitSetup
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithRunID(ctx, uuid.NewString())

	deps, err := initializeDependencies(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "depfetch: %v\n", err)
		return exitSetup
	}
	defer deps.observability.Close()

	app, err := buildApplication(cfg, deps)
	if err != nil {
		deps.observability.Logger("main").Error(ctx, "Failed to build application", err, nil)
		return exitSetup
	}

	code := startApplication(ctx, app)

	flushMetrics(ctx, cfg, deps, app.logger)

	return code
}

// loadConfiguration loads and validates the application configuration
func loadConfiguration() (*config.Config, error) {
	cfgProvider := config.GetProvider()
	if err := cfgProvider.Load(); err != nil {
		return nil, err
	}
	return cfgProvider.Get()
}

// initializeDependencies sets up all infrastructure dependencies
func initializeDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	// stdout stays free for whoever drives the build
	provider := observability.NewProvider(&observability.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		LogLevel:    cfg.LogLevel,
		LogOutput:   os.Stderr,
		AdditionalFields: observability.Fields{
			"version": cfg.Version,
		},
	})

	logStartup(ctx, cfg, provider.Logger("main"))

	storageClient, err := initializeStorage(ctx, cfg, provider)
	if err != nil {
		return nil, err
	}

	return &Dependencies{
		observability: provider,
		storage:       storageClient,
		httpClient:    httpadapter.NewClientWithConfig(cfg.HTTP),
	}, nil
}

// logStartup logs application startup information
func logStartup(ctx context.Context, cfg *config.Config, log observability.Logger) {
	log.Info(ctx, "Starting depfetch", observability.Fields{
		"environment":       cfg.Environment,
		"storage_provider":  cfg.Storage.Provider,
		"base_dir":          cfg.Fetch.BaseDir,
		"manifest":          cfg.Fetch.ManifestPath,
		"continue_on_error": cfg.Fetch.ContinueOnError,
	})
}

// initializeStorage sets up the storage sink with observability
func initializeStorage(ctx context.Context, cfg *config.Config, provider *observability.DefaultProvider) (types.FileStorage, error) {
	log := provider.Logger("storage")

	sink, err := storage.New(ctx, cfg, log, provider.Metrics("storage"))
	if err != nil {
		log.Error(ctx, "Failed to initialize storage", err, nil)
		return nil, err
	}

	log.Debug(ctx, "Storage initialized", observability.Fields{
		"provider": cfg.Storage.Provider,
	})
	return sink, nil
}

// buildApplication loads the task list and assembles the fetcher
func buildApplication(cfg *config.Config, deps *Dependencies) (*Application, error) {
	tasks, err := manifest.Load(cfg.Fetch.ManifestPath)
	if err != nil {
		return nil, err
	}

	log := deps.observability.Logger("fetcher")
	fetcher := service.NewFetcher(
		deps.httpClient,
		deps.storage,
		log,
		deps.observability.Metrics("fetcher"),
		service.WithContinueOnError(cfg.Fetch.ContinueOnError),
		service.WithTaskTimeout(cfg.Fetch.TaskTimeout),
	)

	return &Application{
		fetcher: fetcher,
		tasks:   tasks,
		logger:  log,
	}, nil
}

// startApplication runs every task and maps the outcome to an exit code
func startApplication(ctx context.Context, app *Application) int {
	report, err := app.fetcher.FetchAll(ctx, app.tasks)
	if err == nil {
		return exitOK
	}

	if errors.Is(err, context.Canceled) {
		app.logger.Warn(ctx, "Fetch interrupted", observability.Fields{
			"skipped": report.Skipped,
		})
	}

	for _, failure := range report.Failed {
		fmt.Fprintf(os.Stderr, "depfetch: %v\n", failure)
	}
	return exitTaskFailure
}

// flushMetrics writes the run's metrics for the textfile collector, if configured
func flushMetrics(ctx context.Context, cfg *config.Config, deps *Dependencies, log observability.Logger) {
	path := cfg.Observability.MetricsTextfile
	if path == "" {
		return
	}
	if err := deps.observability.WriteTextfile(path); err != nil {
		log.Warn(ctx, "Failed to write metrics textfile", observability.Fields{
			"path":  path,
			"error": err.Error(),
		})
	}
}
