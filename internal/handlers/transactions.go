package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hliejun/ethereum-gateway/internal/models"
	"github.com/hliejun/ethereum-gateway/internal/normalizer"
	"github.com/hliejun/ethereum-gateway/internal/services"
	"github.com/hliejun/ethereum-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TransactionsHandler handles transaction history lookups
type TransactionsHandler struct {
	accountClient services.AccountClientInterface
}

// NewTransactionsHandler creates a new TransactionsHandler instance
func NewTransactionsHandler(accountClient services.AccountClientInterface) *TransactionsHandler {
	return &TransactionsHandler{
		accountClient: accountClient,
	}
}

// GetTransactions handles POST /api/transactions requests
func (h *TransactionsHandler) GetTransactions(c *gin.Context) {
	log := logger.GetLogger().WithContext(c.Request.Context())

	var req models.TransactionsRequest
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
		log.Warn("Invalid address in transactions request", zap.String("address", req.Address))

		appErr := models.NewAppError(models.ErrorCodeInvalidAddress, "Invalid or missing address.")
		models.HandleError(c, appErr, log)
		return
	}

	raw, err := h.accountClient.GetTransactions(c.Request.Context(), req.Address)
	if err != nil {
		models.HandleError(c, mapAccountError(err, log), log)
		return
	}

	var records []models.AccountTransaction
	if err := json.Unmarshal(raw, &records); err != nil {
		log.Error("Unexpected transaction list shape", zap.Error(err))

		appErr := models.NewBadUpstreamDataError("Invalid transactions received from proxy.")
		models.HandleError(c, appErr, log)
		return
	}

	transactions, ok := normalizer.ParseTransactions(records, req.Address)
	if !ok {
		log.Error("Unparsable transaction records from upstream",
			zap.String("address", req.Address),
			zap.Int("record_count", len(records)),
		)

		appErr := models.NewBadUpstreamDataError("Invalid transactions received from proxy.")
		models.HandleError(c, appErr, log)
		return
	}

	log.Info("Transactions request completed",
		zap.String("address", req.Address),
		zap.Int("transaction_count", len(transactions)),
	)

	c.JSON(http.StatusOK, models.TransactionsResponse{Transactions: transactions})
}
