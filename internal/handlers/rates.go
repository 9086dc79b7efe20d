package handlers

import (
	"errors"
	"net/http"
	"slices"

	"github.com/hliejun/ethereum-gateway/internal/models"
	"github.com/hliejun/ethereum-gateway/internal/services"
	"github.com/hliejun/ethereum-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RatesHandler handles currency exchange-rate lookups
type RatesHandler struct {
	ratesService services.RatesServiceInterface
}

// NewRatesHandler creates a new RatesHandler instance
func NewRatesHandler(ratesService services.RatesServiceInterface) *RatesHandler {
	return &RatesHandler{
		ratesService: ratesService,
	}
}

// GetRates handles POST /api/rates requests
func (h *RatesHandler) GetRates(c *gin.Context) {
	log := logger.GetLogger().WithContext(c.Request.Context())

	var req models.RatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := models.NewAppErrorWithDetails(
			models.ErrorCodeMalformedJSON,
			"Invalid JSON format",
			err.Error(),
		)
		models.HandleError(c, appErr, log)
		return
	}

	// Symbol set must be non-empty and include ETH before any network call.
	if len(req.Symbols) == 0 || !slices.Contains(req.Symbols, "ETH") {
		log.Warn("Invalid symbol set in rates request", zap.Strings("symbols", req.Symbols))

		appErr := models.NewAppError(models.ErrorCodeInvalidSymbols, "Invalid or missing currency codes.")
		models.HandleError(c, appErr, log)
		return
	}

	sheet, err := h.ratesService.GetRates(c.Request.Context(), req.Symbols)
	if err != nil {
		models.HandleError(c, mapRatesError(err, log), log)
		return
	}

	log.Info("Rates request completed",
		zap.Strings("symbols", req.Symbols),
		zap.String("base", sheet.Base),
	)

	c.JSON(http.StatusOK, sheet)
}

// mapRatesError converts FX provider failures to the gateway's status
// vocabulary
func mapRatesError(err error, log interface{ Error(string, ...zap.Field) }) *models.AppError {
	switch {
	case errors.Is(err, services.ErrUpstreamUnavailable):
		log.Error("FX provider unreachable", zap.Error(err))
		return models.NewUpstreamError("Service unavailable.", err)
	case errors.Is(err, services.ErrMalformedUpstream):
		log.Error("FX provider returned an unreadable response", zap.Error(err))
		return models.NewMalformedUpstreamError("Malformed response.")
	case errors.Is(err, services.ErrBadUpstreamData):
		log.Error("FX provider payload failed validation", zap.Error(err))
		return models.NewBadUpstreamDataError("Invalid rates received from proxy.")
	default:
		return models.NewAppErrorWithCause(models.ErrorCodeInternalError, "Internal server error", err)
	}
}
