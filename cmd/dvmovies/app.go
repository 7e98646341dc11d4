package main

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/amaumene/dvmovies/internal/boxoffice"
	"github.com/amaumene/dvmovies/internal/cache"
	"github.com/amaumene/dvmovies/internal/config"
	"github.com/amaumene/dvmovies/internal/database"
	"github.com/amaumene/dvmovies/internal/handlers"
	"github.com/amaumene/dvmovies/internal/models"
	"github.com/amaumene/dvmovies/internal/services"
	"github.com/amaumene/dvmovies/pkg/httputil"
	"github.com/amaumene/dvmovies/pkg/logger"
)

// app wires the services of the serve command.
type app struct {
	cfg       *config.Config
	logger    logger.Logger
	store     database.MovieStore
	registry  database.RegistryCache
	memCache  *cache.LRUCache[string, *models.RegistryMovie]
	cleanup   *services.CleanupService
	snapshots *boxoffice.Provider
	container *services.Container
	handler   *handlers.Handler
}

func (a *app) InitializeLogger() {
	a.logger = logger.NewWithOptions(logger.Options{
		Level:  a.cfg.LogLevel,
		Format: a.cfg.LogFormat,
	})
}

func (a *app) InitializeDatabase() error {
	store, err := database.NewSQLite(a.cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize movie database: %w", err)
	}
	a.store = store
	a.logger.Infof("[App] movie database ready at %s", a.cfg.DatabasePath)

	registry, err := database.NewBolt(a.cfg.CachePath)
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("failed to initialize registry cache: %w", err)
	}
	a.registry = registry
	a.logger.Infof("[App] registry cache ready at %s", a.cfg.CachePath)
	return nil
}

func (a *app) InitializeSnapshots() {
	a.snapshots = boxoffice.NewProvider(a.cfg.BoxOfficePath, a.logger)
	if a.cfg.BoxOfficePath == "" {
		a.logger.Warnf("[App] BOXOFFICE_PATH not set, onscreen list will be empty")
		return
	}
	if err := a.snapshots.Reload(); err != nil {
		a.logger.Warnf("[App] failed to load box office snapshot: %v", err)
	}
}

func (a *app) InitializeServices() {
	httpClient := httputil.NewHTTPClient(a.cfg.HTTPTimeout)
	limiter := rate.NewLimiter(rate.Limit(a.cfg.UpstreamRate), a.cfg.UpstreamBurst)

	dataverse := services.NewDataverse(services.DataverseOptions{
		BaseURL:        a.cfg.DataverseBaseURL,
		APIKey:         a.cfg.DataverseAPIKey,
		Subtree:        a.cfg.DataverseSubtree,
		SearchPageSize: a.cfg.SearchPageSize,
		HTTPClient:     httpClient,
		Limiter:        limiter,
		Logger:         a.logger,
	})

	a.memCache = cache.New[string, *models.RegistryMovie](a.cfg.CacheSize, a.cfg.CacheTTL)
	a.cleanup = services.NewCleanupService(a.registry, a.memCache, a.logger)
	a.cleanup.SetRetentionPeriod(a.cfg.CacheTTL)
	kobis := services.NewKOBIS(services.KOBISOptions{
		BaseURL:    a.cfg.KOBISBaseURL,
		APIKey:     a.cfg.KOBISAPIKey,
		HTTPClient: httpClient,
		Limiter:    limiter,
		Cache:      a.memCache,
		Store:      a.registry,
		TTL:        a.cfg.CacheTTL,
		Logger:     a.logger,
	})

	classifier := services.Classifier{
		Location:   a.cfg.Location(),
		Membership: a.cfg.MembershipMode,
	}

	a.container = &services.Container{
		Catalog: services.NewCatalog(services.CatalogOptions{
			Source:       dataverse,
			Registry:     kobis,
			Classifier:   classifier,
			BulkPageSize: a.cfg.BulkPageSize,
			PageSize:     a.cfg.SearchPageSize,
			Logger:       a.logger,
		}),
		Store:      a.store,
		Snapshots:  a.snapshots,
		Classifier: classifier,
		Logger:     a.logger,
	}
	a.handler = handlers.New(a.container)

	a.logger.Infof("[App] services initialized (membership=%s, timezone=%s)", a.cfg.MembershipMode, a.cfg.Timezone)
}

// StartBackground starts the registry cleanup and the snapshot watcher.
func (a *app) StartBackground(ctx context.Context) {
	a.cleanup.Start(ctx)

	if err := a.snapshots.Watch(ctx); err != nil {
		a.logger.Warnf("[App] box office watcher disabled: %v", err)
	}
}

func (a *app) Close() {
	a.cleanup.Wait()
	a.snapshots.Wait()
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Errorf("[App] failed to close movie database: %v", err)
		}
	}
	if a.registry != nil {
		if err := a.registry.Close(); err != nil {
			a.logger.Errorf("[App] failed to close registry cache: %v", err)
		}
	}
}
