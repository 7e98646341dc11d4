package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/dvmovies/internal/boxoffice"
	"github.com/amaumene/dvmovies/internal/database"
	apperrors "github.com/amaumene/dvmovies/internal/errors"
	"github.com/amaumene/dvmovies/internal/models"
	"github.com/amaumene/dvmovies/internal/services"
	"github.com/amaumene/dvmovies/pkg/logger"
)

type fakeCatalog struct {
	search    services.SearchOutcome
	onscreen  []models.Movie
	upcoming  []models.Movie
	ended     []models.Movie
	err       error
	lookup    *models.Movie
	lookupErr error
	gotSnap   *boxoffice.Snapshot
}

func (f *fakeCatalog) Search(context.Context, string) services.SearchOutcome { return f.search }

func (f *fakeCatalog) Onscreen(_ context.Context, snap *boxoffice.Snapshot) ([]models.Movie, error) {
	f.gotSnap = snap
	return f.onscreen, f.err
}

func (f *fakeCatalog) ComingSoon(context.Context, time.Time) ([]models.Movie, error) {
	return f.upcoming, f.err
}

func (f *fakeCatalog) Offscreen(_ context.Context, snap *boxoffice.Snapshot, _ time.Time) ([]models.Movie, error) {
	f.gotSnap = snap
	return f.ended, f.err
}

func (f *fakeCatalog) LookupByMovieCode(context.Context, string) (*models.Movie, error) {
	return f.lookup, f.lookupErr
}

type staticSnapshot struct{ snap *boxoffice.Snapshot }

func (s staticSnapshot) Current() *boxoffice.Snapshot { return s.snap }

func setupRouter(t *testing.T, catalog *fakeCatalog) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := database.NewSQLite(filepath.Join(t.TempDir(), "movies.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	container := &services.Container{
		Catalog:    catalog,
		Store:      store,
		Snapshots:  staticSnapshot{boxoffice.NewSnapshot([]string{"범죄도시3", "엘리멘탈"}, "test", time.Now())},
		Classifier: services.Classifier{Location: time.UTC},
		Logger:     logger.Nop(),
	}

	r := gin.New()
	New(container).RegisterRoutes(r)
	return r
}

func do(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestReadMovies(t *testing.T) {
	catalog := &fakeCatalog{search: services.SearchOutcome{
		Status: services.SearchOK,
		Movies: []models.Movie{{Title: "기생충"}},
	}}
	r := setupRouter(t, catalog)

	w := do(r, http.MethodGet, "/movies/?q="+url.QueryEscape("기생충"), "")
	assert.Equal(t, http.StatusOK, w.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "기생충", got[0]["title"])
	assert.Equal(t, []any{}, got[0]["genre"])
}

func TestReadMoviesEmptyIsOK(t *testing.T) {
	r := setupRouter(t, &fakeCatalog{search: services.SearchOutcome{Status: services.SearchEmpty, Movies: []models.Movie{}}})

	w := do(r, http.MethodGet, "/movies/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestReadMoviesUpstreamFailure(t *testing.T) {
	r := setupRouter(t, &fakeCatalog{search: services.SearchOutcome{
		Status: services.SearchFailed,
		Movies: []models.Movie{},
		Err:    apperrors.NewNetworkError("status 500", nil),
	}})

	w := do(r, http.MethodGet, "/movies/", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"detail":"no search results"}`, w.Body.String())
}

func TestUploadTwiceIsRejected(t *testing.T) {
	r := setupRouter(t, &fakeCatalog{})
	body := `[{"title":"기생충","titleEng":"Parasite","genre":["드라마"],"openDate":"2019.05.30","runningTimeMinute":"131"}]`

	w := do(r, http.MethodPost, "/movies/upload/", body)
	require.Equal(t, http.StatusOK, w.Code)
	var stored []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	require.Len(t, stored, 1)
	assert.EqualValues(t, 1, stored[0]["id"])
	assert.Equal(t, "Parasite", stored[0]["titleEng"])

	w = do(r, http.MethodPost, "/movies/upload/", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"detail":"Movie already registered"}`, w.Body.String())
}

func TestUploadRejectsBadBody(t *testing.T) {
	r := setupRouter(t, &fakeCatalog{})

	w := do(r, http.MethodPost, "/movies/upload/", `{"title":"not a list"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLocalStoreEndpoints(t *testing.T) {
	r := setupRouter(t, &fakeCatalog{})
	body := `[
		{"title":"기생충","genre":["드라마","스릴러"],"openDate":"2019.05.30"},
		{"title":"올드보이","genre":["스릴러"],"openDate":"2003.11.21"},
		{"title":"극한직업","genre":"코미디","openDate":"2019.01.23"}
	]`
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/movies/upload/", body).Code)

	titlesOf := func(w *httptest.ResponseRecorder) []string {
		var got []models.Movie
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		out := []string{}
		for _, m := range got {
			out = append(out, m.Title)
		}
		return out
	}

	w := do(r, http.MethodGet, "/movies/search/?search_query="+url.QueryEscape("올드"), "")
	assert.Equal(t, []string{"올드보이"}, titlesOf(w))

	w = do(r, http.MethodGet, "/movies/filter_by_opendate/?openyear=2019&endyear=2019", "")
	assert.Equal(t, []string{"극한직업", "기생충"}, titlesOf(w))

	w = do(r, http.MethodGet, "/movies/filter_by_opendate/?openyear=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/movies/filter_by_genre/?genres="+url.QueryEscape("코미디")+"&genres="+url.QueryEscape("드라마"), "")
	assert.Equal(t, []string{"기생충", "극한직업"}, titlesOf(w))

	w = do(r, http.MethodPost, "/delete_all_records/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"All records deleted"}`, w.Body.String())

	w = do(r, http.MethodGet, "/movies/search/", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestScreeningEndpoints(t *testing.T) {
	catalog := &fakeCatalog{
		onscreen: []models.Movie{{Title: "엘리멘탈"}},
		upcoming: []models.Movie{{Title: "X", OpenDate: "2099.01.01"}},
		ended:    []models.Movie{{Title: "Y", OpenDate: "2000.01.01"}},
	}
	r := setupRouter(t, catalog)

	w := do(r, http.MethodGet, "/movies/today", "")
	assert.JSONEq(t, `["범죄도시3","엘리멘탈"]`, w.Body.String())

	w = do(r, http.MethodGet, "/movies/onscreen", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "엘리멘탈")
	assert.Equal(t, 2, catalog.gotSnap.Len())

	w = do(r, http.MethodGet, "/movies/comingsoon", "")
	assert.Contains(t, w.Body.String(), `"title":"X"`)

	w = do(r, http.MethodGet, "/movies/offscreen", "")
	assert.Contains(t, w.Body.String(), `"title":"Y"`)
}

func TestScreeningUpstreamFailure(t *testing.T) {
	r := setupRouter(t, &fakeCatalog{err: apperrors.NewNetworkError("status 500", nil)})

	assert.Equal(t, http.StatusBadGateway, do(r, http.MethodGet, "/movies/comingsoon", "").Code)
	assert.Equal(t, http.StatusBadGateway, do(r, http.MethodGet, "/movies/offscreen", "").Code)
}

func TestMovieID(t *testing.T) {
	r := setupRouter(t, &fakeCatalog{lookup: &models.Movie{Title: "기생충", RunningTimeMinute: "131"}})
	w := do(r, http.MethodGet, "/movieid/20183782", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"runningTimeMinute":"131"`)

	r = setupRouter(t, &fakeCatalog{lookupErr: apperrors.NewLookupMissError("20183782")})
	w = do(r, http.MethodGet, "/movieid/20183782", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())

	r = setupRouter(t, &fakeCatalog{lookupErr: apperrors.NewTimeoutError("kobis request", context.DeadlineExceeded)})
	w = do(r, http.MethodGet, "/movieid/20183782", "")
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	r := setupRouter(t, &fakeCatalog{})

	w := do(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = do(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
