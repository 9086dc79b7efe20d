package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hliejun/ethereum-gateway/internal/models"
	"github.com/hliejun/ethereum-gateway/internal/normalizer"
	"github.com/hliejun/ethereum-gateway/internal/services"
	"github.com/hliejun/ethereum-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BalanceHandler handles account balance lookups
type BalanceHandler struct {
	accountClient services.AccountClientInterface
}

// NewBalanceHandler creates a new BalanceHandler instance
func NewBalanceHandler(accountClient services.AccountClientInterface) *BalanceHandler {
	return &BalanceHandler{
		accountClient: accountClient,
	}
}

// GetBalance handles POST /api/balance requests
func (h *BalanceHandler) GetBalance(c *gin.Context) {
	log := logger.GetLogger().WithContext(c.Request.Context())

	var req models.BalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := models.NewAppErrorWithDetails(
			models.ErrorCodeMalformedJSON,
			"Invalid JSON format",
			err.Error(),
		)
		models.HandleError(c, appErr, log)
		return
	}

	if !isValidAddress(req.Address) {
		log.Warn("Invalid address in balance request", zap.String("address", req.Address))

		appErr := models.NewAppError(models.ErrorCodeInvalidAddress, "Invalid or missing address.")
		models.HandleError(c, appErr, log)
		return
	}

	raw, err := h.accountClient.GetBalance(c.Request.Context(), req.Address)
	if err != nil {
		models.HandleError(c, mapAccountError(err, log), log)
		return
	}

	var wei string
	if err := json.Unmarshal(raw, &wei); err != nil {
		log.Error("Unexpected balance payload shape", zap.Error(err))

		appErr := models.NewBadUpstreamDataError("Invalid balance received from proxy.")
		models.HandleError(c, appErr, log)
		return
	}

	response, ok := normalizer.ParseBalance(wei)
	if !ok {
		log.Error("Non-numeric balance from upstream", zap.String("result", wei))

		appErr := models.NewBadUpstreamDataError("Invalid balance received from proxy.")
		models.HandleError(c, appErr, log)
		return
	}

	log.Info("Balance request completed", zap.String("address", req.Address))

	c.JSON(http.StatusOK, response)
}

// isValidAddress validates the Ethereum account address format: exactly 42
// characters with the 0x prefix
func isValidAddress(address string) bool {
	return len(address) == 42 && strings.HasPrefix(address, "0x")
}

// mapAccountError converts account-data provider failures to the gateway's
// status vocabulary. Upstream detail is logged, never forwarded verbatim.
func mapAccountError(err error, log interface{ Error(string, ...zap.Field) }) *models.AppError {
	switch {
	case errors.Is(err, services.ErrUpstreamUnavailable):
		log.Error("Account-data provider unreachable", zap.Error(err))
		return models.NewUpstreamError("Service unavailable.", err)
	case errors.Is(err, services.ErrMalformedUpstream):
		log.Error("Account-data provider returned a failure envelope", zap.Error(err))
		return models.NewMalformedUpstreamError("Malformed response.")
	default:
		return models.NewAppErrorWithCause(models.ErrorCodeInternalError, "Internal server error", err)
	}
}
