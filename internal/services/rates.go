package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/hliejun/ethereum-gateway/internal/config"
	"github.com/hliejun/ethereum-gateway/internal/models"
	"github.com/hliejun/ethereum-gateway/internal/normalizer"
	"github.com/hliejun/ethereum-gateway/pkg/cache"
	"github.com/hliejun/ethereum-gateway/pkg/logger"
	"github.com/hliejun/ethereum-gateway/pkg/metrics"
	"github.com/hliejun/ethereum-gateway/pkg/mutex"

	"go.uber.org/zap"
)

// ErrBadUpstreamData signals an upstream payload that decoded but failed
// normalization: required fields missing or unparsable.
var ErrBadUpstreamData = errors.New("invalid payload received from upstream")

// RatesClient issues latest-rates queries against the FX provider
type RatesClient struct {
	httpClient *http.Client
	config     *config.ProviderConfig
}

// NewRatesClient creates a client for the FX-rate provider
func NewRatesClient(cfg *config.ProviderConfig) *RatesClient {
	return &RatesClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		config: cfg,
	}
}

// GetLatest fetches the latest rates for the given symbols, with
// alternative-currency inclusion. The symbol precondition (non-empty,
// contains ETH) is enforced at the pipeline boundary, not here.
func (r *RatesClient) GetLatest(ctx context.Context, symbols []string) (models.RatesPayload, error) {
	params := url.Values{
		"app_id":           {r.config.APIKey},
		"show_alternative": {"1"},
		"symbols":          {strings.Join(symbols, ",")},
	}
	requestURL := r.config.BaseURL + "/latest.json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return models.RatesPayload{}, fmt.Errorf("building rates request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return models.RatesPayload{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.RatesPayload{}, fmt.Errorf("%w: unexpected status %d", ErrMalformedUpstream, resp.StatusCode)
	}

	var payload models.RatesPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.RatesPayload{}, fmt.Errorf("%w: %v", ErrMalformedUpstream, err)
	}

	return payload, nil
}

// RatesService integrates the FX client with rate-sheet caching and
// concurrency control, so a burst of identical lookups costs one upstream
// call. Sheets are cached already normalized.
type RatesService struct {
	client       RatesClientInterface
	cache        *cache.Cache
	requestMutex *mutex.RequestMutex
	metrics      *metrics.MetricsCollector
}

// NewRatesService creates a rates service around the given client
func NewRatesService(client RatesClientInterface, cfg *config.Config, collector *metrics.MetricsCollector) *RatesService {
	return &RatesService{
		client:       client,
		cache:        cache.New(cfg.Cache.TTL),
		requestMutex: mutex.New(cfg.Cache.CleanupInterval),
		metrics:      collector,
	}
}

// GetRates returns the normalized rate sheet for a symbol set, served from
// cache when fresh. A payload missing any required field yields
// ErrBadUpstreamData, never a partial sheet.
func (rs *RatesService) GetRates(ctx context.Context, symbols []string) (models.RateSheet, error) {
	log := logger.GetLogger().WithContext(ctx)
	key := symbolsKey(symbols)

	if cached, found := rs.cache.Get(key); found {
		log.Debug("Rate sheet cache hit", zap.String("symbols", key))
		rs.metrics.RecordCacheHit()
		return cached.(models.RateSheet), nil
	}
	rs.metrics.RecordCacheMiss()

	// Deduplicate concurrent fetches for the same symbol set.
	keyMutex := rs.requestMutex.GetMutex(key)
	keyMutex.Lock()
	defer keyMutex.Unlock()

	if cached, found := rs.cache.Get(key); found {
		rs.metrics.RecordCacheHit()
		return cached.(models.RateSheet), nil
	}

	start := time.Now()
	payload, err := rs.client.GetLatest(ctx, symbols)
	rs.metrics.RecordUpstreamCall(time.Since(start), err == nil)
	if err != nil {
		return models.RateSheet{}, err
	}

	sheet, ok := normalizer.ParseRates(payload)
	if !ok {
		log.Warn("Rejecting incomplete rate sheet", zap.String("symbols", key))
		return models.RateSheet{}, ErrBadUpstreamData
	}

	rs.cache.Set(key, sheet)
	return sheet, nil
}

// Stop shuts down the cache and mutex cleanup goroutines
func (rs *RatesService) Stop() {
	rs.cache.Stop()
	rs.requestMutex.Stop()
}

// symbolsKey builds a canonical cache key from a symbol set
func symbolsKey(symbols []string) string {
	normalized := make([]string, len(symbols))
	for i, symbol := range symbols {
		normalized[i] = strings.ToUpper(strings.TrimSpace(symbol))
	}
	sort.Strings(normalized)
	return strings.Join(normalized, ",")
}
