// Package services implements the catalog clients and queries behind the
// HTTP handlers.
package services

import (
	"context"
	"time"

	"github.com/amaumene/dvmovies/internal/boxoffice"
	"github.com/amaumene/dvmovies/internal/database"
	"github.com/amaumene/dvmovies/internal/models"
	"github.com/amaumene/dvmovies/pkg/logger"
)

// Container holds all application services for dependency injection.
type Container struct {
	Catalog    CatalogService
	Store      database.MovieStore
	Snapshots  SnapshotProvider
	Classifier Classifier
	Logger     logger.Logger
}

// CatalogService defines the remote catalog queries.
type CatalogService interface {
	Search(ctx context.Context, q string) SearchOutcome
	Onscreen(ctx context.Context, snap *boxoffice.Snapshot) ([]models.Movie, error)
	ComingSoon(ctx context.Context, today time.Time) ([]models.Movie, error)
	Offscreen(ctx context.Context, snap *boxoffice.Snapshot, today time.Time) ([]models.Movie, error)
	LookupByMovieCode(ctx context.Context, code string) (*models.Movie, error)
}

// SnapshotProvider hands out the current box-office snapshot.
type SnapshotProvider interface {
	Current() *boxoffice.Snapshot
}
