package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hliejun/ethereum-gateway/internal/config"
	"github.com/hliejun/ethereum-gateway/internal/models"
)

var (
	// ErrUpstreamUnavailable signals a transport-level failure reaching an
	// upstream provider: no response at all, as opposed to a structured
	// upstream error.
	ErrUpstreamUnavailable = errors.New("upstream unreachable")
	// ErrMalformedUpstream signals an upstream response whose envelope does
	// not indicate success or whose body cannot be decoded.
	ErrMalformedUpstream = errors.New("malformed upstream response")
)

// EthereumClient issues account-data queries against the blockchain provider
type EthereumClient struct {
	httpClient *http.Client
	config     *config.ProviderConfig
}

// NewEthereumClient creates a client for the account-data provider
func NewEthereumClient(cfg *config.ProviderConfig) *EthereumClient {
	return &EthereumClient{
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

// GetBalance fetches the wei-denominated balance for an address. The result
// is the provider's raw payload; normalization happens in the pipeline.
func (e *EthereumClient) GetBalance(ctx context.Context, address string) (json.RawMessage, error) {
	params := url.Values{
		"action":  {"balance"},
		"address": {address},
		"apikey":  {e.config.APIKey},
		"module":  {"account"},
		"tag":     {"latest"},
	}
	return e.query(ctx, params)
}

// GetTransactions fetches up to the 1000 most recent transactions for an
// address in descending order.
func (e *EthereumClient) GetTransactions(ctx context.Context, address string) (json.RawMessage, error) {
	params := url.Values{
		"action":  {"txlist"},
		"address": {address},
		"apikey":  {e.config.APIKey},
		"module":  {"account"},
		"offset":  {"1000"},
		"page":    {"1"},
		"sort":    {"desc"},
	}
	return e.query(ctx, params)
}

// query issues a single request and checks the provider's status envelope.
// A non-"1" status is a malformed upstream failure before any normalization
// is attempted. No retries: one failed call yields one failure.
func (e *EthereumClient) query(ctx context.Context, params url.Values) (json.RawMessage, error) {
	requestURL := e.config.BaseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building account-data request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrMalformedUpstream, resp.StatusCode)
	}

	var envelope models.AccountEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedUpstream, err)
	}

	if envelope.Status != "1" {
		return nil, fmt.Errorf("%w: envelope status %q", ErrMalformedUpstream, envelope.Status)
	}

	return envelope.Result, nil
}
