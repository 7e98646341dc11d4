package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/dvmovies/internal/boxoffice"
	apperrors "github.com/amaumene/dvmovies/internal/errors"
	"github.com/amaumene/dvmovies/internal/models"
	"github.com/amaumene/dvmovies/pkg/logger"
)

type fakeSource struct {
	all      []models.DataverseItem
	allErr   error
	byName   map[string][]models.DataverseItem
	nameErr  map[string]error
	allCalls []int
}

func (f *fakeSource) FetchAll(_ context.Context, _ string, perPage int, _ bool) ([]models.DataverseItem, error) {
	f.allCalls = append(f.allCalls, perPage)
	if f.allErr != nil {
		return nil, f.allErr
	}
	return f.all, nil
}

func (f *fakeSource) FetchByName(_ context.Context, name string) ([]models.DataverseItem, error) {
	if err := f.nameErr[name]; err != nil {
		return nil, err
	}
	return f.byName[name], nil
}

type fakeRegistry map[string]*models.RegistryMovie

func (f fakeRegistry) GetMovie(_ context.Context, code string) (*models.RegistryMovie, error) {
	if m, ok := f[code]; ok {
		return m, nil
	}
	return nil, apperrors.NewLookupMissError("movie code " + code)
}

func item(name, openDate, runtime string) models.DataverseItem {
	return models.DataverseItem{
		Name:        name,
		GlobalID:    "doi:10.0/" + name,
		Description: fmt.Sprintf(`{'title': %q, 'openDate': %q, 'runningTimeMinute': %q, 'genre': ['드라마']}`, name, openDate, runtime),
	}
}

func newTestCatalog(src *fakeSource, reg MovieRegistry) *Catalog {
	return NewCatalog(CatalogOptions{
		Source:       src,
		Registry:     reg,
		Classifier:   Classifier{Location: time.UTC},
		BulkPageSize: 1000,
		PageSize:     10,
		Logger:       logger.Nop(),
	})
}

func TestCatalogSearch(t *testing.T) {
	src := &fakeSource{all: []models.DataverseItem{
		item("A", "2020.01.01", "100"),
		{Name: "empty"},
		{Name: "broken", Description: "not a record"},
	}}
	out := newTestCatalog(src, nil).Search(context.Background(), "A")

	assert.Equal(t, SearchOK, out.Status)
	assert.Equal(t, []string{"A"}, movieTitles(out.Movies))
	assert.Equal(t, []int{10}, src.allCalls)
}

func TestCatalogSearchEmptyAndFailed(t *testing.T) {
	out := newTestCatalog(&fakeSource{}, nil).Search(context.Background(), "nothing")
	assert.Equal(t, SearchEmpty, out.Status)
	assert.Empty(t, out.Movies)

	failing := &fakeSource{allErr: apperrors.NewNetworkError("boom", nil)}
	out = newTestCatalog(failing, nil).Search(context.Background(), "x")
	assert.Equal(t, SearchFailed, out.Status)
	assert.Empty(t, out.Movies)
	assert.True(t, apperrors.IsUpstreamFailure(out.Err))
}

func TestCatalogComingSoonAndOffscreen(t *testing.T) {
	src := &fakeSource{all: []models.DataverseItem{
		item("X", "2099.01.01", "90"),
		item("Y", "2000.01.01", "90"),
		item("Showing", "2023.12.01", "90"),
		item("Z", "", "90"),
	}}
	c := newTestCatalog(src, nil)
	today := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := boxoffice.NewSnapshot([]string{"Showing"}, "", today)

	upcoming, err := c.ComingSoon(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, movieTitles(upcoming))

	ended, err := c.Offscreen(context.Background(), snap, today)
	require.NoError(t, err)
	assert.Equal(t, []string{"Y"}, movieTitles(ended))
	assert.Equal(t, []int{1000, 1000}, src.allCalls)
}

func TestCatalogBulkFailure(t *testing.T) {
	src := &fakeSource{allErr: apperrors.NewNetworkError("boom", nil)}
	c := newTestCatalog(src, nil)

	movies, err := c.ComingSoon(context.Background(), time.Now())
	assert.Nil(t, movies)
	assert.True(t, apperrors.IsUpstreamFailure(err))
}

func TestCatalogOnscreen(t *testing.T) {
	src := &fakeSource{
		byName: map[string][]models.DataverseItem{
			"엘리멘탈": {item("엘리멘탈", "2023.06.14", "109"), item("엘리멘탈 2", "2025.01.01", "100")},
			"없는영화": {},
		},
		nameErr: map[string]error{"실패": apperrors.NewNetworkError("boom", nil)},
	}
	snap := boxoffice.NewSnapshot([]string{"실패", "엘리멘탈", "없는영화"}, "", time.Now())

	movies, err := newTestCatalog(src, nil).Onscreen(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, []string{"엘리멘탈"}, movieTitles(movies))
}

func TestCatalogLookupByMovieCode(t *testing.T) {
	src := &fakeSource{byName: map[string][]models.DataverseItem{
		"기생충": {item("기생충", "2019.05.30", "120"), item("기생충", "2019.05.30", "131")},
	}}
	reg := fakeRegistry{
		"20183782": {Code: "20183782", Name: "기생충", ShowTime: "131"},
		"1":        {Code: "1", Name: "기생충", ShowTime: "999"},
	}
	c := newTestCatalog(src, reg)

	movie, err := c.LookupByMovieCode(context.Background(), "20183782")
	require.NoError(t, err)
	assert.Equal(t, "131", movie.RunningTimeMinute)

	movie, err = c.LookupByMovieCode(context.Background(), "1")
	assert.Nil(t, movie)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeLookupMiss))

	_, err = c.LookupByMovieCode(context.Background(), "unknown")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeLookupMiss))
}
