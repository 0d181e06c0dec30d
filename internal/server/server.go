package server

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/usherd/usherd/internal/api/middleware"
	"github.com/usherd/usherd/internal/domain/seat"
	"github.com/usherd/usherd/internal/infrastructure/config"
	"github.com/usherd/usherd/internal/infrastructure/logging"
	"github.com/usherd/usherd/internal/infrastructure/monitoring"
	"github.com/usherd/usherd/internal/infrastructure/tracing"
)

// Server wraps the debug HTTP server and its dependencies
type Server struct {
	router   *gin.Engine
	seats    *seat.Manager
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
	instance string
}

// NewServer assembles the debug server around an existing seat registry.
// Every route is read-only: seat mutation stays with the daemon loop.
func NewServer(cfg *config.Config, seats *seat.Manager, logger *logging.Logger, metrics *monitoring.Metrics) *Server {
	instance := uuid.NewString()

	logger.Info("Initializing debug server",
		zap.String("instance", instance),
		zap.String("host", cfg.Debug.Host),
		zap.String("port", cfg.Debug.Port),
	)

	// Setup Gin router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	tracer := tracing.New("usherd", logger.Logger)

	// Middleware
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
	}

	handlers := NewHandlers(seats, instance)

	// Core endpoints
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Seat inspection
	router.GET("/seats", handlers.ListSeats)
	router.GET("/seats/:id", handlers.GetSeat)
	router.GET("/stats", handlers.Stats)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	logger.Info("Debug server initialized")

	return &Server{
		router:   router,
		seats:    seats,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
		instance: instance,
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := s.config.Debug.Host + ":" + s.config.Debug.Port
	s.logger.Info("Starting debug server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close flushes buffered log entries
func (s *Server) Close() error {
	s.logger.Info("Shutting down debug server...")
	s.logger.Sync()
	return nil
}
