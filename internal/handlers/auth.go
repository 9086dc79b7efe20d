package handlers

import (
	"errors"
	"net/http"

	"github.com/hliejun/ethereum-gateway/internal/models"
	"github.com/hliejun/ethereum-gateway/internal/services"
	"github.com/hliejun/ethereum-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles the token-exchange route
type AuthHandler struct {
	tokenService services.TokenServiceInterface
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(tokenService services.TokenServiceInterface) *AuthHandler {
	return &AuthHandler{
		tokenService: tokenService,
	}
}

// ExchangeToken handles POST /api/auth requests. The caller presents the
// shared validation secret and receives a signed credential for subsequent
// protected requests.
func (h *AuthHandler) ExchangeToken(c *gin.Context) {
	log := logger.GetLogger().WithContext(c.Request.Context())

	var req models.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid JSON in token exchange", zap.Error(err))

		appErr := models.NewAppErrorWithDetails(
			models.ErrorCodeMalformedJSON,
			"Invalid JSON format",
			err.Error(),
		)
		models.HandleError(c, appErr, log)
		return
	}

	response, err := h.tokenService.Issue(req.Token)
	if err != nil {
		if errors.Is(err, services.ErrExchangeTokenInvalid) {
			log.Warn("Token exchange rejected", zap.String("client_ip", c.ClientIP()))

			appErr := models.NewAppError(models.ErrorCodeInvalidExchangeToken, "Invalid token.")
			models.HandleError(c, appErr, log)
			return
		}

		log.Error("Failed to sign credential", zap.Error(err))
		models.HandleError(c, err, log)
		return
	}

	log.Info("Credential issued", zap.String("client_ip", c.ClientIP()))

	c.JSON(http.StatusOK, response)
}
