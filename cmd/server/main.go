package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hliejun/ethereum-gateway/internal/config"
	"github.com/hliejun/ethereum-gateway/internal/handlers"
	"github.com/hliejun/ethereum-gateway/internal/middleware"
	"github.com/hliejun/ethereum-gateway/internal/services"
	"github.com/hliejun/ethereum-gateway/pkg/logger"
	"github.com/hliejun/ethereum-gateway/pkg/metrics"
	"github.com/hliejun/ethereum-gateway/pkg/ratelimiter"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server represents the main application server
type Server struct {
	httpServer     *http.Server
	config         *config.Config
	tokenService   *services.TokenService
	ethereumClient *services.EthereumClient
	ratesService   *services.RatesService
	authLimiter    *ratelimiter.Limiter
	ethLimiter     *ratelimiter.Limiter
	ratesLimiter   *ratelimiter.Limiter
	collector      *metrics.MetricsCollector
	healthChecker  *services.UpstreamHealthChecker
	router         *handlers.Router
}

func main() {
	cfg := config.LoadConfig()

	loggerConfig := &logger.Config{
		Level:       cfg.Logging.Level,
		Environment: cfg.Logging.Environment,
		OutputPaths: cfg.Logging.OutputPaths,
	}

	if err := logger.Initialize(loggerConfig); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.GetLogger()

	log.Info("Starting Ethereum gateway server",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("ethereum_api", cfg.Ethereum.BaseURL),
		zap.String("rates_api", cfg.Rates.BaseURL),
		zap.Strings("allowed_origins", cfg.Server.AllowedOrigins),
	)

	server := NewServer(cfg)

	if err := server.Start(); err != nil {
		log.Fatal("Server failed to start", zap.Error(err))
	}
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) *Server {
	log := logger.GetLogger()

	log.Debug("Initializing server components")

	collector := metrics.NewMetricsCollector()

	tokenService := services.NewTokenService(cfg)
	ethereumClient := services.NewEthereumClient(&cfg.Ethereum)
	ratesClient := services.NewRatesClient(&cfg.Rates)
	ratesService := services.NewRatesService(ratesClient, cfg, collector)

	authLimiter := ratelimiter.New("auth",
		cfg.RateLimit.Auth.Requests, cfg.RateLimit.Auth.Window,
		"Too many token requests from this IP, please try again later.")
	ethLimiter := ratelimiter.New("blockchain",
		cfg.RateLimit.Blockchain.Requests, cfg.RateLimit.Blockchain.Window,
		"Too many transaction requests from this IP, please try again later")
	ratesLimiter := ratelimiter.New("rates",
		cfg.RateLimit.Rates.Requests, cfg.RateLimit.Rates.Window,
		"Too many currency rate requests from this IP, please try again later.")

	healthChecker := services.NewUpstreamHealthChecker(&cfg.Ethereum, &cfg.Rates)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := handlers.NewRouter(tokenService, ethereumClient, ratesService, healthHandler)

	log.Info("Server components initialized successfully")

	return &Server{
		config:         cfg,
		tokenService:   tokenService,
		ethereumClient: ethereumClient,
		ratesService:   ratesService,
		authLimiter:    authLimiter,
		ethLimiter:     ethLimiter,
		ratesLimiter:   ratesLimiter,
		collector:      collector,
		healthChecker:  healthChecker,
		router:         router,
	}
}

// Start starts the HTTP server with graceful shutdown handling
func (s *Server) Start() error {
	log := logger.GetLogger()

	if os.Getenv("GIN_MODE") == "" && !s.config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	s.setupMiddleware(engine)
	s.setupRoutes(engine)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port),
		Handler:           engine,
		ReadTimeout:       s.config.Server.ReadTimeout,
		WriteTimeout:      s.config.Server.WriteTimeout,
		IdleTimeout:       s.config.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	log.Info("HTTP server configured",
		zap.String("address", s.httpServer.Addr),
		zap.Duration("read_timeout", s.config.Server.ReadTimeout),
		zap.Duration("write_timeout", s.config.Server.WriteTimeout),
	)

	s.startCleanupRoutines()

	go func() {
		log.Info("Starting HTTP server", zap.String("address", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	return s.waitForShutdown()
}

// setupMiddleware configures the middleware stack
func (s *Server) setupMiddleware(engine *gin.Engine) {
	engine.Use(logger.RecoveryMiddleware())
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.MetricsMiddleware(s.collector))
	engine.Use(middleware.CORSMiddleware(&s.config.Server))
}

// setupRoutes configures all application routes
func (s *Server) setupRoutes(engine *gin.Engine) {
	s.router.SetupHealthRoutes(engine)

	s.router.SetupRoutes(engine, handlers.RouteGuards{
		AuthLimit:       s.authLimiter.Middleware(),
		BlockchainLimit: s.ethLimiter.Middleware(),
		RatesLimit:      s.ratesLimiter.Middleware(),
		Authenticate:    middleware.AuthMiddleware(s.tokenService),
	})

	engine.GET("/metrics", s.metricsHandler)
	engine.GET("/status", s.statusHandler)
}

// metricsHandler provides the gateway metrics endpoint
func (s *Server) metricsHandler(c *gin.Context) {
	snapshot := s.collector.GetMetrics()
	c.JSON(http.StatusOK, gin.H{
		"service":                 "ethereum-gateway",
		"uptime":                  s.collector.GetUptime().String(),
		"metrics":                 snapshot,
		"success_rate_percent":    s.collector.GetSuccessRate(),
		"cache_hit_ratio_percent": s.collector.GetCacheHitRatio(),
	})
}

// statusHandler provides detailed status information
func (s *Server) statusHandler(c *gin.Context) {
	checks := s.healthChecker.GetDetailedHealth(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"service":  "ethereum-gateway",
		"status":   "running",
		"mode":     s.config.Server.Mode,
		"uptime":   s.collector.GetUptime().String(),
		"upstream": checks,
	})
}

// startCleanupRoutines starts background cleanup tasks for the rate-limit
// windows
func (s *Server) startCleanupRoutines() {
	log := logger.GetLogger()

	go func() {
		ticker := time.NewTicker(s.config.RateLimit.CleanupInterval)
		defer ticker.Stop()

		for range ticker.C {
			s.authLimiter.Cleanup()
			s.ethLimiter.Cleanup()
			s.ratesLimiter.Cleanup()
		}
	}()

	log.Info("Background cleanup routines started")
}

// waitForShutdown waits for interrupt signal and performs graceful shutdown
func (s *Server) waitForShutdown() error {
	log := logger.GetLogger()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info("Received shutdown signal", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	s.cleanup()

	log.Info("Server gracefully stopped")
	return nil
}

// cleanup performs cleanup of all services
func (s *Server) cleanup() {
	log := logger.GetLogger()

	log.Info("Cleaning up services...")

	if s.ratesService != nil {
		s.ratesService.Stop()
	}

	if err := logger.GetLogger().Sync(); err != nil {
		fmt.Printf("Error syncing logger: %v\n", err)
	}

	log.Info("Cleanup completed")
}
