package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/amaumene/dvmovies/internal/errors"
	"github.com/amaumene/dvmovies/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "movies.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleMovies() []models.Movie {
	return []models.Movie{
		{Title: "기생충", TitleEng: "Parasite", Genre: []string{"드라마", "스릴러"}, OpenDate: "2019.05.30", RunningTimeMinute: "131", Directors: "봉준호"},
		{Title: "올드보이", TitleEng: "Oldboy", Genre: []string{"스릴러"}, OpenDate: "2003.11.21", RunningTimeMinute: "120", Keywords: []string{"revenge"}},
		{Title: "미정", TitleEng: "Undated", Genre: []string{"코미디"}},
	}
}

func titles(movies []models.StoredMovie) []string {
	out := make([]string, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.Movie.Title)
	}
	return out
}

func TestInsertAndSearch(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	stored, err := store.InsertMovies(ctx, sampleMovies())
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.NotZero(t, stored[0].ID)

	all, err := store.SearchMovies(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, []string{"드라마", "스릴러"}, all[0].Movie.Genre)
	assert.Equal(t, []string{}, all[0].Movie.Keywords)

	found, err := store.SearchMovies(ctx, "oldboy")
	require.NoError(t, err)
	assert.Equal(t, []string{"올드보이"}, titles(found))

	found, err = store.SearchMovies(ctx, "봉준호")
	require.NoError(t, err)
	assert.Equal(t, []string{"기생충"}, titles(found))

	found, err = store.SearchMovies(ctx, "100%")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestInsertRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.InsertMovies(ctx, sampleMovies()[:1])
	require.NoError(t, err)

	_, err = store.InsertMovies(ctx, sampleMovies())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDuplicateRecord))

	all, err := store.SearchMovies(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1, "failed batch must not be partially stored")

	exists, err := store.MovieExists(ctx, sampleMovies()[0].Key())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInsertRejectsDuplicateWithinBatch(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	m := sampleMovies()[1]
	_, err := store.InsertMovies(ctx, []models.Movie{m, m})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDuplicateRecord))

	exists, err := store.MovieExists(ctx, m.Key())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFilterByOpenYear(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, err := store.InsertMovies(ctx, sampleMovies())
	require.NoError(t, err)

	year := func(y int) *int { return &y }

	tests := []struct {
		name     string
		from, to *int
		want     []string
	}{
		{"no bounds", nil, nil, []string{"기생충", "올드보이", "미정"}},
		{"from only", year(2010), nil, []string{"기생충"}},
		{"to only", nil, year(2010), []string{"올드보이"}},
		{"closed range", year(2000), year(2019), []string{"올드보이", "기생충"}},
		{"empty range", year(2020), year(2030), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.FilterByOpenYear(ctx, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestFilterByGenres(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, err := store.InsertMovies(ctx, sampleMovies())
	require.NoError(t, err)

	got, err := store.FilterByGenres(ctx, []string{"스릴러"})
	require.NoError(t, err)
	assert.Equal(t, []string{"기생충", "올드보이"}, titles(got))

	got, err = store.FilterByGenres(ctx, []string{"코미디", "드라마"})
	require.NoError(t, err)
	assert.Equal(t, []string{"기생충", "미정"}, titles(got))

	got, err = store.FilterByGenres(ctx, []string{"스릴"})
	require.NoError(t, err)
	assert.Empty(t, got, "genre match is exact, not substring")
}

func TestDeleteAll(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, err := store.InsertMovies(ctx, sampleMovies())
	require.NoError(t, err)

	n, err := store.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	all, err := store.SearchMovies(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}
