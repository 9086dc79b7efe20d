package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hliejun/ethereum-gateway/internal/config"
	"github.com/hliejun/ethereum-gateway/internal/models"
	"github.com/hliejun/ethereum-gateway/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRatesClient implements RatesClientInterface with canned payloads
type fakeRatesClient struct {
	payload   models.RatesPayload
	err       error
	callCount int64
}

func (f *fakeRatesClient) GetLatest(_ context.Context, _ []string) (models.RatesPayload, error) {
	atomic.AddInt64(&f.callCount, 1)
	return f.payload, f.err
}

func ratesTestConfig() *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			TTL:             time.Minute,
			CleanupInterval: time.Minute,
		},
	}
}

func TestRatesClientGetLatest(t *testing.T) {
	t.Run("QueryParameters", func(t *testing.T) {
		var gotPath string
		var gotQuery map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = map[string]string{}
			for key := range r.URL.Query() {
				gotQuery[key] = r.URL.Query().Get(key)
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"base":      "USD",
				"rates":     map[string]float64{"ETH": 0.00132, "SGD": 1.36},
				"timestamp": 1609459200,
			})
		}))
		defer server.Close()

		client := NewRatesClient(&config.ProviderConfig{
			BaseURL: server.URL,
			APIKey:  "rates-app-id",
			Timeout: 5 * time.Second,
		})

		payload, err := client.GetLatest(context.Background(), []string{"ETH", "SGD"})
		require.NoError(t, err)

		assert.Equal(t, "/latest.json", gotPath)
		assert.Equal(t, "rates-app-id", gotQuery["app_id"])
		assert.Equal(t, "1", gotQuery["show_alternative"])
		assert.Equal(t, "ETH,SGD", gotQuery["symbols"])

		assert.Equal(t, "USD", payload.Base)
		require.NotNil(t, payload.Timestamp)
		assert.Equal(t, int64(1609459200), *payload.Timestamp)
	})

	t.Run("TransportFailure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := NewRatesClient(&config.ProviderConfig{
			BaseURL: server.URL,
			Timeout: 5 * time.Second,
		})

		_, err := client.GetLatest(context.Background(), []string{"ETH"})
		assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	})
}

func TestRatesServiceGetRates(t *testing.T) {
	timestamp := int64(1609459200)

	t.Run("NormalizesPayload", func(t *testing.T) {
		client := &fakeRatesClient{
			payload: models.RatesPayload{
				Base:      "USD",
				Rates:     map[string]float64{"ETH": 0.00132},
				Timestamp: &timestamp,
			},
		}
		service := NewRatesService(client, ratesTestConfig(), metrics.NewMetricsCollector())
		defer service.Stop()

		sheet, err := service.GetRates(context.Background(), []string{"ETH"})
		require.NoError(t, err)
		assert.Equal(t, "USD", sheet.Base)
		assert.Equal(t, "1609459200", sheet.Timestamp)
	})

	t.Run("IncompletePayloadRejected", func(t *testing.T) {
		client := &fakeRatesClient{
			payload: models.RatesPayload{
				Base:  "USD",
				Rates: map[string]float64{"ETH": 0.00132},
				// Timestamp absent: the whole sheet must be rejected.
			},
		}
		service := NewRatesService(client, ratesTestConfig(), metrics.NewMetricsCollector())
		defer service.Stop()

		_, err := service.GetRates(context.Background(), []string{"ETH"})
		assert.ErrorIs(t, err, ErrBadUpstreamData)
	})

	t.Run("SecondLookupServedFromCache", func(t *testing.T) {
		client := &fakeRatesClient{
			payload: models.RatesPayload{
				Base:      "USD",
				Rates:     map[string]float64{"ETH": 0.00132},
				Timestamp: &timestamp,
			},
		}
		service := NewRatesService(client, ratesTestConfig(), metrics.NewMetricsCollector())
		defer service.Stop()

		_, err := service.GetRates(context.Background(), []string{"ETH"})
		require.NoError(t, err)
		_, err = service.GetRates(context.Background(), []string{"ETH"})
		require.NoError(t, err)

		assert.Equal(t, int64(1), atomic.LoadInt64(&client.callCount))
	})

	t.Run("CacheKeyIgnoresSymbolOrder", func(t *testing.T) {
		client := &fakeRatesClient{
			payload: models.RatesPayload{
				Base:      "USD",
				Rates:     map[string]float64{"ETH": 0.00132, "SGD": 1.36},
				Timestamp: &timestamp,
			},
		}
		service := NewRatesService(client, ratesTestConfig(), metrics.NewMetricsCollector())
		defer service.Stop()

		_, err := service.GetRates(context.Background(), []string{"ETH", "SGD"})
		require.NoError(t, err)
		_, err = service.GetRates(context.Background(), []string{"SGD", "ETH"})
		require.NoError(t, err)

		assert.Equal(t, int64(1), atomic.LoadInt64(&client.callCount))
	})

	t.Run("UpstreamErrorPropagates", func(t *testing.T) {
		client := &fakeRatesClient{err: ErrUpstreamUnavailable}
		service := NewRatesService(client, ratesTestConfig(), metrics.NewMetricsCollector())
		defer service.Stop()

		_, err := service.GetRates(context.Background(), []string{"ETH"})
		assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	})
}
