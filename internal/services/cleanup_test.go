package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/amaumene/dvmovies/internal/cache"
	"github.com/amaumene/dvmovies/internal/database"
	"github.com/amaumene/dvmovies/internal/models"
	"github.com/amaumene/dvmovies/pkg/logger"
)

func TestCleanupNowPrunesStaleEntries(t *testing.T) {
	store, err := database.NewBolt(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.StoreRegistryMovie(&models.RegistryMovie{Code: "old", FetchedAt: time.Now().Add(-72 * time.Hour)}))
	require.NoError(t, store.StoreRegistryMovie(&models.RegistryMovie{Code: "fresh", FetchedAt: time.Now()}))

	c := NewCleanupService(store, nil, logger.Nop())
	c.SetRetentionPeriod(24 * time.Hour)
	assert.Equal(t, 1, c.CleanupNow())

	got, err := store.GetRegistryMovie("fresh")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestCleanupServiceStops(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	memory := cache.New[string, *models.RegistryMovie](10, time.Millisecond)
	memory.Set("a", &models.RegistryMovie{Code: "a"})

	c := NewCleanupService(nil, memory, logger.Nop())
	c.SetInterval(5 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)
	assert.Eventually(t, func() bool { return memory.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	c.Wait()
}
