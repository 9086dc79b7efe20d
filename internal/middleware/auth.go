package middleware

import (
	"errors"

	"github.com/hliejun/ethereum-gateway/internal/models"
	"github.com/hliejun/ethereum-gateway/internal/services"
	"github.com/hliejun/ethereum-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware creates a middleware verifying the caller's credential.
// The token is read from x-access-token or Authorization (with an optional
// Bearer prefix); the token-issuance route skips this guard entirely.
func AuthMiddleware(tokenService services.TokenServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger().WithContext(c.Request.Context())

		authToken := c.GetHeader("x-access-token")
		if authToken == "" {
			authToken = c.GetHeader("Authorization")
		}

		if err := tokenService.Verify(authToken); err != nil {
			log.Warn("Credential verification failed",
				zap.Error(err),
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			var appErr *models.AppError
			switch {
			case errors.Is(err, services.ErrTokenMissing):
				appErr = models.NewAppError(models.ErrorCodeMissingAuthToken, "Missing auth token.")
			case errors.Is(err, services.ErrTokenInvalid):
				appErr = models.NewAppError(models.ErrorCodeInvalidAuthToken, "Invalid auth token.")
			default:
				appErr = models.NewAppError(models.ErrorCodeCorruptedAuthToken, "Corrupted auth token.")
			}

			models.HandleError(c, appErr, log)
			c.Abort()
			return
		}

		c.Next()
	}
}
