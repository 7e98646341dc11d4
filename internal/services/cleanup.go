package services

import (
	"context"
	"sync"
	"time"

	"github.com/amaumene/dvmovies/internal/cache"
	"github.com/amaumene/dvmovies/internal/database"
	"github.com/amaumene/dvmovies/internal/models"
	"github.com/amaumene/dvmovies/pkg/logger"
)

const (
	// Default cleanup settings
	defaultCleanupInterval = 1 * time.Hour
	defaultRetentionPeriod = 24 * time.Hour
)

// CleanupService periodically drops stale registry entries from the memory
// cache and the persistent cache.
type CleanupService struct {
	store           database.RegistryCache
	memory          *cache.LRUCache[string, *models.RegistryMovie]
	logger          logger.Logger
	interval        time.Duration
	retentionPeriod time.Duration
	mu              sync.Mutex
	running         bool
	wg              sync.WaitGroup
}

// NewCleanupService creates a new cleanup service. Either cache may be nil.
func NewCleanupService(store database.RegistryCache, memory *cache.LRUCache[string, *models.RegistryMovie], log logger.Logger) *CleanupService {
	if log == nil {
		log = logger.New()
	}
	return &CleanupService{
		store:           store,
		memory:          memory,
		logger:          log,
		interval:        defaultCleanupInterval,
		retentionPeriod: defaultRetentionPeriod,
	}
}

// SetRetentionPeriod sets how long registry entries are kept
func (c *CleanupService) SetRetentionPeriod(duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if duration > 0 {
		c.retentionPeriod = duration
	}
}

// SetInterval sets how often cleanup runs
func (c *CleanupService) SetInterval(duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if duration > 0 {
		c.interval = duration
	}
}

// Start runs one cleanup, then repeats it every interval until ctx is done.
func (c *CleanupService) Start(ctx context.Context) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	interval := c.interval
	c.mu.Unlock()

	c.logger.Infof("[Cleanup] starting with interval %v, retention %v", interval, c.retention())
	c.CleanupNow()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.cleanupLoop(ctx, interval)
	}()
}

// Wait blocks until the cleanup loop has exited.
func (c *CleanupService) Wait() {
	c.wg.Wait()
}

func (c *CleanupService) cleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			c.running = false
			c.mu.Unlock()
			c.logger.Debugf("[Cleanup] stopped")
			return
		case <-ticker.C:
			c.CleanupNow()
		}
	}
}

// CleanupNow performs one cleanup pass and returns the number of persistent
// entries removed.
func (c *CleanupService) CleanupNow() int {
	if c.memory != nil {
		c.memory.CleanExpired()
	}
	if c.store == nil {
		return 0
	}

	removed, err := c.store.DeleteRegistryOlderThan(c.retention())
	if err != nil {
		c.logger.Errorf("[Cleanup] failed to prune registry cache: %v", err)
		return 0
	}
	if removed > 0 {
		c.logger.Infof("[Cleanup] removed %d stale registry entries", removed)
	} else {
		c.logger.Debugf("[Cleanup] no stale registry entries")
	}
	return removed
}

func (c *CleanupService) retention() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.retentionPeriod
}
