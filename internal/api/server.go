// HTTP hosting layer exposing the simulator over REST and WebSocket.
package api

import (
	"context"
	"log/slog"
	"math"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"slicesim/internal/config"
	"slicesim/internal/sim"
	"slicesim/internal/store"
)

// Server wires the simulator and optional store into an echo application.
type Server struct {
	e      *echo.Echo
	sim    *sim.Simulator
	store  *store.Store
	cfg    *config.Config
	logger *slog.Logger
}

// NewServer builds the HTTP server. st may be nil when persistence is not
// configured.
func NewServer(simulator *sim.Simulator, st *store.Store, cfg *config.Config, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{e: e, sim: simulator, store: st, cfg: cfg, logger: logger}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.e.GET("/health", s.handleHealth)
	s.e.GET("/ws", s.handleWS)

	api := s.e.Group("/api")
	api.GET("/status", s.handleStatus)
	api.GET("/metrics", s.handleMetrics)
	api.GET("/metrics/history", s.handleMetricsHistory)
	api.GET("/devices", s.handleListDevices)
	api.POST("/devices", s.handleAddDevices)
	api.DELETE("/devices/:id", s.handleRemoveDevice)
	api.POST("/reset", s.handleReset)
	api.POST("/export", s.handleExport)

	v1 := s.e.Group("/api/v1")
	v1.POST("/auth/login", s.handleLogin)
	authed := v1.Group("", s.requireRole(roleViewer))
	authed.GET("/status", s.handleStatus)
	authed.GET("/metrics", s.handleMetrics)
	admin := v1.Group("", s.requireRole(roleAdmin))
	admin.POST("/reset", s.handleReset)
	admin.POST("/export", s.handleExport)
}

// Start begins serving on addr, blocking until shutdown.
func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// round2 rounds for display; the core keeps full precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
