package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/amaumene/dvmovies/internal/cache"
	"github.com/amaumene/dvmovies/internal/constants"
	"github.com/amaumene/dvmovies/internal/database"
	apperrors "github.com/amaumene/dvmovies/internal/errors"
	"github.com/amaumene/dvmovies/internal/metrics"
	"github.com/amaumene/dvmovies/internal/models"
	"github.com/amaumene/dvmovies/pkg/httputil"
	"github.com/amaumene/dvmovies/pkg/logger"
	"github.com/amaumene/dvmovies/pkg/security"
)

// KOBISOptions configures the movie registry client.
type KOBISOptions struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Cache      *cache.LRUCache[string, *models.RegistryMovie]
	Store      database.RegistryCache
	TTL        time.Duration
	Logger     logger.Logger
}

// KOBIS resolves movie codes against the Korean Box Office Information System.
type KOBIS struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cache.LRUCache[string, *models.RegistryMovie]
	store      database.RegistryCache
	ttl        time.Duration
	logger     logger.Logger
	validator  *security.APIKeyValidator
	now        func() time.Time
}

func NewKOBIS(opts KOBISOptions) *KOBIS {
	validator := security.NewAPIKeyValidator()

	k := &KOBIS{
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		apiKey:     validator.SanitizeAPIKey(opts.APIKey),
		httpClient: opts.HTTPClient,
		limiter:    opts.Limiter,
		cache:      opts.Cache,
		store:      opts.Store,
		ttl:        opts.TTL,
		logger:     opts.Logger,
		validator:  validator,
		now:        time.Now,
	}
	if k.baseURL == "" {
		k.baseURL = constants.DefaultKOBISBaseURL
	}
	if k.httpClient == nil {
		k.httpClient = httputil.NewDefaultHTTPClient()
	}
	if k.limiter == nil {
		k.limiter = rate.NewLimiter(rate.Limit(constants.UpstreamRateLimit), constants.UpstreamRateBurst)
	}
	if k.ttl <= 0 {
		k.ttl = time.Duration(constants.DefaultCacheTTL) * time.Hour
	}
	if k.cache == nil {
		k.cache = cache.New[string, *models.RegistryMovie](constants.DefaultCacheSize, k.ttl)
	}
	if k.logger == nil {
		k.logger = logger.New()
	}

	if k.apiKey != "" && !validator.IsValidKOBISKey(k.apiKey) {
		k.logger.Warnf("[KOBIS] API key %s does not look like a KOBIS key", validator.MaskAPIKey(k.apiKey))
	}
	return k
}

// GetMovie returns the registry entry for code, consulting the memory cache
// and the persistent cache before the API.
func (k *KOBIS) GetMovie(ctx context.Context, code string) (*models.RegistryMovie, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.NewLookupMissError("empty movie code")
	}

	if movie, found := k.cache.Get(code); found {
		metrics.IncRegistryCache(true)
		return movie, nil
	}

	if k.store != nil {
		cached, err := k.store.GetRegistryMovie(code)
		if err != nil {
			k.logger.Warnf("[KOBIS] failed to read cached movie %s: %v", code, err)
		} else if cached != nil && k.now().Sub(cached.FetchedAt) < k.ttl {
			metrics.IncRegistryCache(true)
			k.cache.Set(code, cached)
			return cached, nil
		}
	}
	metrics.IncRegistryCache(false)

	movie, err := k.fetchMovie(ctx, code)
	if err != nil {
		return nil, err
	}

	k.cache.Set(code, movie)
	if k.store != nil {
		if err := k.store.StoreRegistryMovie(movie); err != nil {
			k.logger.Warnf("[KOBIS] failed to cache movie %s: %v", code, err)
		}
	}
	return movie, nil
}

func (k *KOBIS) fetchMovie(ctx context.Context, code string) (*models.RegistryMovie, error) {
	if k.apiKey == "" {
		return nil, apperrors.NewAPIKeyMissingError("KOBIS")
	}
	if err := k.limiter.Wait(ctx); err != nil {
		return nil, apperrors.NewNetworkError("rate limiter wait aborted", err)
	}

	params := url.Values{}
	params.Set("key", k.apiKey)
	params.Set("movieCd", code)
	endpoint := k.baseURL + "/movie/searchMovieInfo.json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	k.logger.Debugf("[KOBIS] fetching movie info for %s", code)

	started := time.Now()
	resp, err := k.httpClient.Do(req)
	if err != nil {
		return nil, upstreamError(metrics.UpstreamKOBIS, started, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveUpstream(metrics.UpstreamKOBIS, metrics.OutcomeStatus, time.Since(started))
		return nil, apperrors.NewNetworkError(fmt.Sprintf("KOBIS API error: status %d", resp.StatusCode), nil)
	}

	var body models.KOBISMovieInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.ObserveUpstream(metrics.UpstreamKOBIS, metrics.OutcomeDecode, time.Since(started))
		return nil, apperrors.NewNetworkError("failed to decode KOBIS response", err)
	}
	if body.FaultInfo != nil {
		metrics.ObserveUpstream(metrics.UpstreamKOBIS, metrics.OutcomeStatus, time.Since(started))
		return nil, apperrors.NewNetworkError(fmt.Sprintf("KOBIS fault %s: %s", body.FaultInfo.ErrorCode, body.FaultInfo.Message), nil)
	}
	metrics.ObserveUpstream(metrics.UpstreamKOBIS, metrics.OutcomeOK, time.Since(started))

	if body.MovieInfoResult == nil || strings.TrimSpace(body.MovieInfoResult.MovieInfo.MovieNm) == "" {
		return nil, apperrors.NewLookupMissError("movie code " + code)
	}

	info := body.MovieInfoResult.MovieInfo
	return &models.RegistryMovie{
		Code:      code,
		Name:      strings.TrimSpace(info.MovieNm),
		NameEng:   info.MovieNmEn,
		ShowTime:  strings.TrimSpace(info.ShowTm),
		OpenDate:  info.OpenDt,
		FetchedAt: k.now(),
	}, nil
}
