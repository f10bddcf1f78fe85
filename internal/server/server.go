// Package server exposes the anonymization pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/piivault/piivault/internal/anonymizer"
	"github.com/piivault/piivault/internal/config"
	"github.com/piivault/piivault/internal/logger"
	"github.com/piivault/piivault/internal/websocket"
)

// Server represents the main API server
type Server struct {
	config     *config.Config
	logger     *logger.Logger
	anonymizer *anonymizer.Anonymizer
	router     *mux.Router
	server     *http.Server
	wsHub      *websocket.Hub
	limiter    *clientLimiter
}

// New creates a new API server instance
func New(cfg *config.Config, log *logger.Logger) (*Server, error) {
	anon, err := anonymizer.New(cfg, log.WithComponent("anonymizer"))
	if err != nil {
		return nil, fmt.Errorf("failed to create anonymizer: %w", err)
	}

	wsHub := websocket.NewHub(
		cfg.WebSocket.MaxConnections,
		cfg.WebSocket.ReadBufferSize,
		cfg.WebSocket.WriteBufferSize,
		cfg.WebSocket.AllowedOrigins,
		log.WithComponent("websocket").Logger,
	)

	server := &Server{
		config:     cfg,
		logger:     log.WithComponent("server"),
		anonymizer: anon,
		router:     mux.NewRouter(),
		wsHub:      wsHub,
	}

	if cfg.RateLimit.Enabled {
		server.limiter = newClientLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	server.setupRoutes()

	server.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return server, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Info endpoint
	s.router.HandleFunc("/info", s.handleInfo).Methods("GET")

	// WebSocket endpoint for the detection event stream
	if s.config.WebSocket.Enabled {
		s.router.HandleFunc(s.config.WebSocket.Path, s.handleWebSocket).Methods("GET")
	}

	// API endpoints
	api := s.router.PathPrefix("/v1").Subrouter()
	api.Use(s.loggingMiddleware)
	api.Use(s.rateLimitMiddleware)
	api.HandleFunc("/anonymize", s.handleAnonymize).Methods("POST")
	api.HandleFunc("/deanonymize", s.handleDeanonymize).Methods("POST")
	api.HandleFunc("/analyze", s.handleAnalyze).Methods("POST")
	api.HandleFunc("/entities", s.handleEntities).Methods("GET")
	api.HandleFunc("/stats", s.handleStats).Methods("GET")
	api.HandleFunc("/audit", s.handleAudit).Methods("GET")
	api.HandleFunc("/cache", s.handleClearCache).Methods("DELETE")
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting PIIVault API server",
		zap.Int("port", s.config.Server.Port),
		zap.String("language", s.config.Processing.Language),
		zap.String("cache_strategy", s.config.Cache.Strategy),
	)

	go s.wsHub.Run()
	s.wsHub.BroadcastSystemStatus("started")

	return s.server.ListenAndServe()
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping PIIVault API server")
	s.wsHub.BroadcastSystemStatus("shutting_down")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	return s.anonymizer.Close()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
}

// handleInfo handles info requests
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{
		"name":"piivault",
		"version":"0.1.0",
		"language":"%s",
		"cache_strategy":"%s",
		"cache_enabled":%t,
		"audit_enabled":%t
	}`, s.config.Processing.Language, s.config.Cache.Strategy, s.config.Cache.Enabled, s.config.Audit.Enabled)
}

// handleWebSocket handles WebSocket connections for the event stream
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.wsHub.HandleWebSocket(w, r)
}

// GetWebSocketHub returns the WebSocket hub for broadcasting events
func (s *Server) GetWebSocketHub() *websocket.Hub {
	return s.wsHub
}
