package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hliejun/ethereum-gateway/internal/config"
)

// HealthStatus represents the health status of a dependency
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck represents a single health check result
type HealthCheck struct {
	Service      string        `json:"service"`
	Status       HealthStatus  `json:"status"`
	Message      string        `json:"message,omitempty"`
	ResponseTime time.Duration `json:"response_time"`
	Timestamp    time.Time     `json:"timestamp"`
}

// UpstreamHealthChecker probes the two upstream providers for reachability.
// The gateway has no other external dependencies, so readiness reduces to
// being able to reach both providers.
type UpstreamHealthChecker struct {
	httpClient *http.Client
	ethereum   *config.ProviderConfig
	rates      *config.ProviderConfig
}

// NewUpstreamHealthChecker creates a health checker for both providers
func NewUpstreamHealthChecker(ethereum, rates *config.ProviderConfig) *UpstreamHealthChecker {
	return &UpstreamHealthChecker{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		ethereum:   ethereum,
		rates:      rates,
	}
}

// GetDetailedHealth probes every upstream provider and returns per-service
// check results
func (u *UpstreamHealthChecker) GetDetailedHealth(ctx context.Context) map[string]*HealthCheck {
	return map[string]*HealthCheck{
		"ethereum": u.probe(ctx, "ethereum", u.ethereum.BaseURL),
		"rates":    u.probe(ctx, "rates", u.rates.BaseURL),
	}
}

// probe issues a lightweight request to a provider base URL. Any response,
// including an application-level error page, proves reachability; only a
// transport failure or a 5xx marks the provider unhealthy.
func (u *UpstreamHealthChecker) probe(ctx context.Context, service, baseURL string) *HealthCheck {
	start := time.Now()
	check := &HealthCheck{
		Service:   service,
		Timestamp: start,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		check.Status = HealthStatusUnhealthy
		check.Message = fmt.Sprintf("invalid provider URL: %v", err)
		check.ResponseTime = time.Since(start)
		return check
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		check.Status = HealthStatusUnhealthy
		check.Message = fmt.Sprintf("probe failed: %v", err)
		check.ResponseTime = time.Since(start)
		return check
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		check.Status = HealthStatusUnhealthy
		check.Message = fmt.Sprintf("provider returned status %d", resp.StatusCode)
	} else {
		check.Status = HealthStatusHealthy
	}
	check.ResponseTime = time.Since(start)

	return check
}
