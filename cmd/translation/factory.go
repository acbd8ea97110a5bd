package translation

import (
	"context"
	"fmt"

	"github.com/Taichi-iskw/rmtrans/internal/cache"
	"github.com/Taichi-iskw/rmtrans/internal/config"
	"github.com/Taichi-iskw/rmtrans/internal/logging"
	"github.com/Taichi-iskw/rmtrans/internal/repository"
	"github.com/Taichi-iskw/rmtrans/internal/service/translation"
	log "github.com/sirupsen/logrus"
)

// Remover is the part of the translation service the commands use
type Remover interface {
	Prepare(ctx context.Context, req translation.RemoveRequest) (*translation.Plan, error)
	Execute(ctx context.Context, plan *translation.Plan) (*translation.Result, error)
	Describe(ctx context.Context, contentID, locationID int64, localeLanguage string) (*translation.Plan, error)
}

// Services bundles what a command needs at run time
type Services struct {
	Remover  Remover
	Defaults config.DefaultsConfig
}

// ServiceCreator builds the services; the returned func releases them
type ServiceCreator interface {
	CreateService(ctx context.Context) (*Services, func(), error)
}

// ServiceFactory creates translation service instances
type ServiceFactory struct {
	logLevel *string
}

// NewServiceFactory creates a new service factory.
// logLevel, when it points at a non-empty value, overrides the configured level.
func NewServiceFactory(logLevel *string) *ServiceFactory {
	return &ServiceFactory{logLevel: logLevel}
}

// CreateService loads configuration and connects the repository and cache backends
func (f *ServiceFactory) CreateService(ctx context.Context) (*Services, func(), error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if f.logLevel == nil || *f.logLevel == "" {
		if err := logging.Configure(log.StandardLogger(), cfg.LogLevel, nil); err != nil {
			return nil, nil, err
		}
	}
	logger := log.StandardLogger()

	dbPool, err := config.NewDatabasePool(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	purger, err := cache.NewPurgerFromConfig(cfg, logger)
	if err != nil {
		dbPool.Close()
		return nil, nil, fmt.Errorf("failed to set up cache purging: %w", err)
	}

	repo := repository.NewRepository(dbPool)
	remover := translation.NewRemover(repo, purger, logger)

	cleanup := func() {
		if err := cache.Close(purger); err != nil {
			logger.WithError(err).Warn("failed to close cache connection")
		}
		dbPool.Close()
	}

	return &Services{Remover: remover, Defaults: cfg.Defaults}, cleanup, nil
}
