// Package server exposes the dashboard HTTP API: the rendered insight board,
// action execution, the query assistant, analytics data, and a websocket feed
// of operation events.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pnl-insights/internal/analytics"
	"pnl-insights/internal/assistant"
	"pnl-insights/internal/common/config"
	"pnl-insights/internal/common/database"
	"pnl-insights/internal/common/errors"
	"pnl-insights/internal/common/logger"
	"pnl-insights/internal/common/observability"
	"pnl-insights/internal/insights/board"
)

// Server wires the dashboard components behind the HTTP API.
type Server struct {
	cfg       *config.Config
	board     *board.Board
	assistant *assistant.Service
	analytics *analytics.Service
	postgres  *database.PostgresClient
	redis     *database.RedisClient
	hub       *Hub
	errs      *errors.ErrorHandler
	obs       *observability.Observability
	logger    logger.Logger
	http      *http.Server
}

// Deps carries the constructed components into the server. Postgres, Redis,
// and Observability are optional; the corresponding endpoints degrade
// instead of failing at startup.
type Deps struct {
	Config        *config.Config
	Board         *board.Board
	Assistant     *assistant.Service
	Analytics     *analytics.Service
	Postgres      *database.PostgresClient
	Redis         *database.RedisClient
	Observability *observability.Observability
	Logger        logger.Logger
}

// New builds the server and its router.
func New(d Deps) *Server {
	s := &Server{
		cfg:       d.Config,
		board:     d.Board,
		assistant: d.Assistant,
		analytics: d.Analytics,
		postgres:  d.Postgres,
		redis:     d.Redis,
		hub:       NewHub(d.Logger),
		errs:      errors.NewErrorHandler(d.Logger),
		obs:       d.Observability,
		logger:    d.Logger.WithFields(map[string]interface{}{"component": "http-server"}),
	}

	s.board.OnOperation(s.hub.BroadcastOperation)
	s.board.OnRefresh(func(src board.Source) {
		s.hub.BroadcastSnapshotRefreshed(string(src))
	})

	s.http = &http.Server{
		Addr:         d.Config.Server.Addr(),
		Handler:      s.Router(),
		ReadTimeout:  config.GetDuration(d.Config.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(d.Config.Server.WriteTimeout),
		IdleTimeout:  2 * time.Minute,
	}

	return s
}

// Router assembles the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	if s.cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.logger, s.obs))
	r.Use(corsMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/", s.handleRoot)
		api.GET("/health", s.handleHealth)
		api.GET("/config", s.handleConfig)

		api.GET("/insights", s.handleInsights)
		api.POST("/insights/cards/:id/actions/:key/execute", s.handleExecuteAction)
		api.GET("/insights/cards/:id/rationale", s.handleRationale)
		api.GET("/insights/operations", s.handleOperations)

		api.POST("/genie/ask", s.handleAssistantAsk)

		api.GET("/analytics/kpis", s.handleKPIs)
		api.GET("/operations/alerts", s.handleAlerts)
		api.GET("/data/monthly-summary", s.handleMonthlySummary)
		api.GET("/data/store-summary", s.handleStoreSummary)
		api.GET("/data/top-stores", s.handleTopStores)
		api.POST("/data/upload", s.handleDataUpload)
		api.POST("/db/query", s.handleDBQuery)

		api.GET("/realtime/ws", s.hub.HandleWebSocket)
	}

	return r
}

// Start runs the hub and the HTTP listener. It blocks until the listener
// stops.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)

	s.logger.Info("http server listening", map[string]interface{}{"addr": s.http.Addr})
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
