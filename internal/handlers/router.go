package handlers

import (
	"github.com/hliejun/ethereum-gateway/internal/services"

	"github.com/gin-gonic/gin"
)

// Router handles HTTP routing setup
type Router struct {
	authHandler         *AuthHandler
	balanceHandler      *BalanceHandler
	ratesHandler        *RatesHandler
	transactionsHandler *TransactionsHandler
	healthHandler       *HealthHandler
}

// RouteGuards holds the middleware guards composed ahead of each route
// handler. Order per route: rate limit first, then authentication; the
// token-issuance route is never authenticated.
type RouteGuards struct {
	AuthLimit       gin.HandlerFunc
	BlockchainLimit gin.HandlerFunc
	RatesLimit      gin.HandlerFunc
	Authenticate    gin.HandlerFunc
}

// NewRouter creates a new Router instance with all handlers
func NewRouter(
	tokenService services.TokenServiceInterface,
	accountClient services.AccountClientInterface,
	ratesService services.RatesServiceInterface,
	healthHandler *HealthHandler,
) *Router {
	return &Router{
		authHandler:         NewAuthHandler(tokenService),
		balanceHandler:      NewBalanceHandler(accountClient),
		ratesHandler:        NewRatesHandler(ratesService),
		transactionsHandler: NewTransactionsHandler(accountClient),
		healthHandler:       healthHandler,
	}
}

// SetupRoutes configures all API routes with their guard chains
func (r *Router) SetupRoutes(engine *gin.Engine, guards RouteGuards) {
	api := engine.Group("/api")
	{
		api.POST("/auth", guards.AuthLimit, r.authHandler.ExchangeToken)
		api.POST("/balance", guards.BlockchainLimit, guards.Authenticate, r.balanceHandler.GetBalance)
		api.POST("/rates", guards.RatesLimit, guards.Authenticate, r.ratesHandler.GetRates)
		api.POST("/transactions", guards.BlockchainLimit, guards.Authenticate, r.transactionsHandler.GetTransactions)
	}
}

// SetupHealthRoutes configures health check routes
func (r *Router) SetupHealthRoutes(engine *gin.Engine) {
	health := engine.Group("/health")
	{
		health.GET("", r.healthHandler.GetHealth)
		health.GET("/live", r.healthHandler.GetLiveness)
		health.GET("/ready", r.healthHandler.GetReadiness)
	}
}
