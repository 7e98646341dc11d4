// Package database provides the local movie table and the registry cache.
package database

import (
	"context"
	"time"

	"github.com/amaumene/dvmovies/internal/models"
)

const (
	// Default database file permissions
	dbFileMode = 0600
	dbDirMode  = 0755
)

// MovieStore is the relational store behind the /movies/* local endpoints.
type MovieStore interface {
	// SearchMovies matches query against the text columns; empty query lists everything
	SearchMovies(ctx context.Context, query string) ([]models.StoredMovie, error)
	// MovieExists reports whether a movie with the same identity is stored
	MovieExists(ctx context.Context, key models.MovieKey) (bool, error)
	// InsertMovies stores a batch atomically, failing with DUPLICATE_RECORD on any duplicate
	InsertMovies(ctx context.Context, movies []models.Movie) ([]models.StoredMovie, error)
	// FilterByOpenYear returns movies released within [from, to]; nil bounds are open
	FilterByOpenYear(ctx context.Context, from, to *int) ([]models.StoredMovie, error)
	// FilterByGenres returns movies tagged with any of genres
	FilterByGenres(ctx context.Context, genres []string) ([]models.StoredMovie, error)
	// DeleteAll wipes the table and returns the number of removed rows
	DeleteAll(ctx context.Context) (int64, error)
	Close() error
}

// RegistryCache persists movie registry lookups between restarts.
type RegistryCache interface {
	// GetRegistryMovie returns nil without error when code is unknown
	GetRegistryMovie(code string) (*models.RegistryMovie, error)
	StoreRegistryMovie(movie *models.RegistryMovie) error
	// DeleteRegistryOlderThan removes entries fetched before now-age
	DeleteRegistryOlderThan(age time.Duration) (int, error)
	Close() error
}
