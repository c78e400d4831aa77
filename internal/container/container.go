package container

import (
	"fmt"
	"net/http"

	"go-alpha-matte/internal/config"
	"go-alpha-matte/internal/extractor"
	"go-alpha-matte/internal/factory"
	"go-alpha-matte/internal/logger"
	"go-alpha-matte/internal/observer"
	"go-alpha-matte/internal/repository"
	"go-alpha-matte/internal/service"
	"go-alpha-matte/internal/storage"
	"go-alpha-matte/internal/transport"
	"go-alpha-matte/pkg/validation"
)

// Container holds all application dependencies.
type Container struct {
	config            *config.Config
	captureFetcher    storage.ImageFetcher
	engine            *extractor.Engine
	captureRepository repository.CapturePairRepository
	extractionService service.ExtractionService
	handler           http.Handler
}

// NewContainer builds the dependency graph from environment config.
func NewContainer() (*Container, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	fetcher, err := factory.NewStorageFactory().CreateStorage(factory.StorageType(cfg.StorageBackend), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage backend: %w", err)
	}

	// Local refs are plain paths; remote backends go through the URL
	// validator.
	var refValidator repository.RefValidator
	if cfg.StorageBackend != string(factory.LocalStorage) {
		urlValidator := validation.NewURLValidator()
		refValidator = urlValidator.ValidateCaptureURL
	}

	captureRepository := repository.NewCapturePairRepository(fetcher, refValidator)
	engine := extractor.NewEngine(extractor.Options{Workers: cfg.ExtractionWorkers})

	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(observer.NewMetricsObserver())

	extractionService := service.NewExtractionService(captureRepository, engine, events)
	handler := transport.NewHandler(extractionService, cfg)

	return &Container{
		config:            cfg,
		captureFetcher:    fetcher,
		engine:            engine,
		captureRepository: captureRepository,
		extractionService: extractionService,
		handler:           handler,
	}, nil
}

// Handler returns the HTTP handler.
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases held resources.
func (c *Container) Close() error {
	return c.engine.Close()
}
