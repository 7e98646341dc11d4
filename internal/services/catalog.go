package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amaumene/dvmovies/internal/boxoffice"
	"github.com/amaumene/dvmovies/internal/constants"
	apperrors "github.com/amaumene/dvmovies/internal/errors"
	"github.com/amaumene/dvmovies/internal/models"
	"github.com/amaumene/dvmovies/pkg/logger"
)

// SearchStatus tells an empty search apart from a failed one.
type SearchStatus string

const (
	SearchOK     SearchStatus = "ok"
	SearchEmpty  SearchStatus = "empty"
	SearchFailed SearchStatus = "failed"
)

// SearchOutcome is the result of a free-text catalog search. Movies is
// never partial: a failed walk carries no movies.
type SearchOutcome struct {
	Status SearchStatus
	Movies []models.Movie
	Err    error
}

// CatalogSource is the remote catalog as seen by Catalog.
type CatalogSource interface {
	FetchAll(ctx context.Context, query string, perPage int, sortByName bool) ([]models.DataverseItem, error)
	FetchByName(ctx context.Context, name string) ([]models.DataverseItem, error)
}

// MovieRegistry resolves official movie codes.
type MovieRegistry interface {
	GetMovie(ctx context.Context, code string) (*models.RegistryMovie, error)
}

// CatalogOptions configures a Catalog.
type CatalogOptions struct {
	Source       CatalogSource
	Registry     MovieRegistry
	Classifier   Classifier
	BulkPageSize int
	PageSize     int
	Logger       logger.Logger
}

// Catalog answers catalog queries by combining the remote catalog, the
// description parser and the screening classifier.
type Catalog struct {
	source       CatalogSource
	registry     MovieRegistry
	classifier   Classifier
	bulkPageSize int
	pageSize     int
	logger       logger.Logger
}

func NewCatalog(opts CatalogOptions) *Catalog {
	c := &Catalog{
		source:       opts.Source,
		registry:     opts.Registry,
		classifier:   opts.Classifier,
		bulkPageSize: opts.BulkPageSize,
		pageSize:     opts.PageSize,
		logger:       opts.Logger,
	}
	if c.bulkPageSize <= 0 {
		c.bulkPageSize = constants.BulkPageSize
	}
	if c.pageSize <= 0 {
		c.pageSize = constants.SearchPageSize
	}
	if c.logger == nil {
		c.logger = logger.New()
	}
	return c
}

// Search walks every page matching q, "*" when q is empty.
func (c *Catalog) Search(ctx context.Context, q string) SearchOutcome {
	items, err := c.source.FetchAll(ctx, strings.TrimSpace(q), c.pageSize, false)
	if err != nil {
		c.logger.Warnf("[Catalog] search %q failed: %v", q, err)
		return SearchOutcome{Status: SearchFailed, Movies: []models.Movie{}, Err: err}
	}

	movies := Records(ParseItems(items, c.logger))
	if len(movies) == 0 {
		return SearchOutcome{Status: SearchEmpty, Movies: movies}
	}
	return SearchOutcome{Status: SearchOK, Movies: movies}
}

// Onscreen looks up every snapshot title by name and returns the movies of
// the datasets named exactly like it. A title whose lookup fails is skipped.
func (c *Catalog) Onscreen(ctx context.Context, snap *boxoffice.Snapshot) ([]models.Movie, error) {
	movies := []models.Movie{}

	for _, title := range snap.Titles() {
		items, err := c.source.FetchByName(ctx, title)
		if err != nil {
			if ctx.Err() != nil {
				return nil, apperrors.NewNetworkError("onscreen lookup aborted", ctx.Err())
			}
			c.logger.Warnf("[Catalog] lookup for %q failed, skipping: %v", title, err)
			continue
		}
		if len(items) == 0 {
			c.logger.Warnf("[Catalog] no search results for %q", title)
			continue
		}

		for _, cm := range ParseItems(MatchName(items, title), c.logger) {
			movies = append(movies, cm.Movie)
		}
	}
	return movies, nil
}

// ComingSoon returns the movies released after today.
func (c *Catalog) ComingSoon(ctx context.Context, today time.Time) ([]models.Movie, error) {
	movies, err := c.fetchCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return c.classifier.Classify(movies, nil, today).Upcoming, nil
}

// Offscreen returns the movies released before today that are not in snap.
func (c *Catalog) Offscreen(ctx context.Context, snap *boxoffice.Snapshot, today time.Time) ([]models.Movie, error) {
	movies, err := c.fetchCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return c.classifier.Classify(movies, snap, today).Ended, nil
}

func (c *Catalog) fetchCatalog(ctx context.Context) ([]models.CatalogMovie, error) {
	items, err := c.source.FetchAll(ctx, "", c.bulkPageSize, true)
	if err != nil {
		c.logger.Warnf("[Catalog] catalog walk failed: %v", err)
		return nil, err
	}
	return ParseItems(items, c.logger), nil
}

// LookupByMovieCode resolves code in the registry, searches the catalog for
// the registered name and returns the first movie whose running time equals
// the registered one. No match is a LOOKUP_MISS error.
func (c *Catalog) LookupByMovieCode(ctx context.Context, code string) (*models.Movie, error) {
	if c.registry == nil {
		return nil, apperrors.NewAPIKeyMissingError("movie registry")
	}

	registered, err := c.registry.GetMovie(ctx, code)
	if err != nil {
		return nil, err
	}

	items, err := c.source.FetchByName(ctx, registered.Name)
	if err != nil {
		c.logger.Warnf("[Catalog] lookup for %q failed: %v", registered.Name, err)
		return nil, err
	}
	if len(items) == 0 {
		c.logger.Warnf("[Catalog] no search results for %q", registered.Name)
	}

	for _, cm := range ParseItems(items, c.logger) {
		if cm.Movie.RunningTimeMinute == registered.ShowTime {
			movie := cm.Movie
			return &movie, nil
		}
	}
	return nil, apperrors.NewLookupMissError(fmt.Sprintf("%s (%s, %s min)", code, registered.Name, registered.ShowTime))
}
