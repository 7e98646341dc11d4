package services

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/amaumene/dvmovies/internal/constants"
	apperrors "github.com/amaumene/dvmovies/internal/errors"
	"github.com/amaumene/dvmovies/internal/metrics"
	"github.com/amaumene/dvmovies/internal/models"
	"github.com/amaumene/dvmovies/pkg/httputil"
	"github.com/amaumene/dvmovies/pkg/logger"
	"github.com/amaumene/dvmovies/pkg/security"
)

// DataverseOptions configures a Dataverse search client.
type DataverseOptions struct {
	BaseURL        string
	APIKey         string
	Subtree        string
	SearchPageSize int
	HTTPClient     *http.Client
	Limiter        *rate.Limiter
	Logger         logger.Logger
}

// Dataverse queries the search API of a Dataverse installation.
type Dataverse struct {
	baseURL        string
	apiKey         string
	subtree        string
	searchPageSize int
	httpClient     *http.Client
	limiter        *rate.Limiter
	logger         logger.Logger
}

// SearchParams describes a single search page request.
type SearchParams struct {
	Query   string
	Start   int
	PerPage int
	// SortByName asks for a stable name ordering, used by bulk walks
	SortByName bool
}

func NewDataverse(opts DataverseOptions) *Dataverse {
	validator := security.NewAPIKeyValidator()

	d := &Dataverse{
		baseURL:        opts.BaseURL,
		apiKey:         validator.SanitizeAPIKey(opts.APIKey),
		subtree:        opts.Subtree,
		searchPageSize: opts.SearchPageSize,
		httpClient:     opts.HTTPClient,
		limiter:        opts.Limiter,
		logger:         opts.Logger,
	}
	if d.subtree == "" {
		d.subtree = constants.DefaultDataverseSubtree
	}
	if d.searchPageSize <= 0 {
		d.searchPageSize = constants.SearchPageSize
	}
	if d.httpClient == nil {
		d.httpClient = httputil.NewDefaultHTTPClient()
	}
	if d.limiter == nil {
		d.limiter = rate.NewLimiter(rate.Limit(constants.UpstreamRateLimit), constants.UpstreamRateBurst)
	}
	if d.logger == nil {
		d.logger = logger.New()
	}

	if d.apiKey == "" {
		d.logger.Warnf("[Dataverse] no API key configured, only public datasets will be visible")
	} else if !validator.IsValidDataverseKey(d.apiKey) {
		d.logger.Warnf("[Dataverse] API key %s does not look like a Dataverse token", validator.MaskAPIKey(d.apiKey))
	}

	return d
}

// FetchAll walks every page of a search and returns the raw items.
//
// total_count is read from the first page only. The walk stops once
// start+perPage reaches it. Any failed page aborts the whole walk: callers
// never see a partial result.
func (d *Dataverse) FetchAll(ctx context.Context, query string, perPage int, sortByName bool) ([]models.DataverseItem, error) {
	if perPage <= 0 {
		perPage = d.searchPageSize
	}

	var (
		items    []models.DataverseItem
		consumed int
		total    int
		pages    int
	)

	for {
		page, err := d.FetchPage(ctx, SearchParams{
			Query:      query,
			Start:      consumed,
			PerPage:    perPage,
			SortByName: sortByName,
		})
		if err != nil {
			return nil, fmt.Errorf("search %q page %d: %w", query, pages+1, err)
		}
		if pages == 0 {
			total = page.TotalCount
		}
		pages++
		items = append(items, page.Items...)

		consumed += perPage
		if consumed >= total {
			break
		}
	}

	d.logger.Debugf("[Dataverse] search %q: %d items over %d pages (total_count=%d)", query, len(items), pages, total)
	return items, nil
}

// FetchByName runs a single-page search for a title.
func (d *Dataverse) FetchByName(ctx context.Context, name string) ([]models.DataverseItem, error) {
	page, err := d.FetchPage(ctx, SearchParams{Query: name, PerPage: d.searchPageSize})
	if err != nil {
		return nil, fmt.Errorf("search by name %q: %w", name, err)
	}
	return page.Items, nil
}

// FetchPage performs one search request.
func (d *Dataverse) FetchPage(ctx context.Context, p SearchParams) (*models.DataverseSearchData, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, apperrors.NewNetworkError("rate limiter wait aborted", err)
	}

	endpoint := d.baseURL + "/api/search?" + d.searchQuery(p).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if d.apiKey != "" {
		req.Header.Set(constants.DataverseKeyHeader, d.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, upstreamError(metrics.UpstreamDataverse, started, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveUpstream(metrics.UpstreamDataverse, metrics.OutcomeStatus, time.Since(started))
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		d.logger.Warnf("[Dataverse] search failed: status %d: %s", resp.StatusCode, string(body))
		return nil, apperrors.NewNetworkError(fmt.Sprintf("dataverse search returned status %d", resp.StatusCode), nil)
	}

	var result models.DataverseSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		metrics.ObserveUpstream(metrics.UpstreamDataverse, metrics.OutcomeDecode, time.Since(started))
		return nil, apperrors.NewNetworkError("failed to decode dataverse response", err)
	}
	if result.Status != "" && result.Status != "OK" {
		metrics.ObserveUpstream(metrics.UpstreamDataverse, metrics.OutcomeStatus, time.Since(started))
		return nil, apperrors.NewNetworkError(fmt.Sprintf("dataverse search status %s: %s", result.Status, result.Message), nil)
	}

	metrics.ObserveUpstream(metrics.UpstreamDataverse, metrics.OutcomeOK, time.Since(started))
	metrics.IncCatalogPage()
	return &result.Data, nil
}

func (d *Dataverse) searchQuery(p SearchParams) url.Values {
	q := p.Query
	if q == "" {
		q = "*"
	}
	perPage := p.PerPage
	if perPage <= 0 {
		perPage = d.searchPageSize
	}

	values := url.Values{}
	values.Set("q", q)
	values.Set("subtree", d.subtree)
	values.Set("start", strconv.Itoa(p.Start))
	values.Set("per_page", strconv.Itoa(perPage))
	if p.SortByName {
		values.Set("sort", "name")
		values.Set("order", "asc")
	}
	return values
}

// upstreamError classifies a transport error and records it.
func upstreamError(upstream string, started time.Time, err error) error {
	var netErr net.Error
	if stderrors.Is(err, context.DeadlineExceeded) || (stderrors.As(err, &netErr) && netErr.Timeout()) {
		metrics.ObserveUpstream(upstream, metrics.OutcomeTimeout, time.Since(started))
		return apperrors.NewTimeoutError(upstream+" request", err)
	}
	metrics.ObserveUpstream(upstream, metrics.OutcomeError, time.Since(started))
	return apperrors.NewNetworkError(upstream+" request failed", err)
}
