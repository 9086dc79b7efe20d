package middleware

import (
	"net/http"

	"github.com/hliejun/ethereum-gateway/internal/config"
	"github.com/hliejun/ethereum-gateway/internal/models"
	"github.com/hliejun/ethereum-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CORSMiddleware creates a middleware enforcing the origin allow-list.
// Development mode answers any origin; production rejects cross-origin
// requests whose Origin is not allow-listed. Same-origin requests (no
// Origin header) always pass.
func CORSMiddleware(cfg *config.ServerConfig) gin.HandlerFunc {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowed[origin] = true
	}
	strict := cfg.Mode == config.ModeProduction

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		if origin != "" {
			if strict && !allowed[origin] {
				log := logger.GetLogger().WithContext(c.Request.Context())
				log.Warn("Rejecting cross-origin request",
					zap.String("origin", origin),
					zap.String("client_ip", c.ClientIP()),
				)

				appErr := models.NewAppError(models.ErrorCodeOriginRejected, "Origin not allowed.")
				models.HandleError(c, appErr, log)
				c.Abort()
				return
			}

			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, x-access-token")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
