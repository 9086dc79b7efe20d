package handlers

import (
	"net/http"
	"time"

	"github.com/hliejun/ethereum-gateway/internal/services"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	healthChecker *services.UpstreamHealthChecker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(healthChecker *services.UpstreamHealthChecker) *HealthHandler {
	return &HealthHandler{
		healthChecker: healthChecker,
	}
}

// HealthResponse represents the overall health response
type HealthResponse struct {
	Status    services.HealthStatus            `json:"status"`
	Timestamp time.Time                        `json:"timestamp"`
	Services  map[string]*services.HealthCheck `json:"services"`
}

// GetHealth returns the overall health status including both upstream
// providers
func (h *HealthHandler) GetHealth(c *gin.Context) {
	serviceChecks := h.healthChecker.GetDetailedHealth(c.Request.Context())

	overallStatus := services.HealthStatusHealthy
	for _, check := range serviceChecks {
		if check.Status == services.HealthStatusUnhealthy {
			overallStatus = services.HealthStatusUnhealthy
			break
		}
	}

	statusCode := http.StatusOK
	if overallStatus == services.HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:    overallStatus,
		Timestamp: time.Now(),
		Services:  serviceChecks,
	})
}

// GetLiveness is a liveness probe: the process is up and serving
func (h *HealthHandler) GetLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now(),
	})
}

// GetReadiness is a readiness probe: ready only when both upstream
// providers are reachable
func (h *HealthHandler) GetReadiness(c *gin.Context) {
	serviceChecks := h.healthChecker.GetDetailedHealth(c.Request.Context())

	for _, check := range serviceChecks {
		if check.Status == services.HealthStatusUnhealthy {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "not ready",
				"services": serviceChecks,
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"services": serviceChecks,
	})
}
