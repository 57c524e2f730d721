// Package server provides the HTTP server for the Fingerspell letter recognition system.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/fingerspell/internal/app"
	"github.com/ayusman/fingerspell/internal/server/api"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	App       *app.App
}

// Server represents the HTTP server for the Fingerspell application.
type Server struct {
	config      Config
	mux         *http.ServeMux
	start       time.Time
	predictions *PredictionsHandler
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	a := s.config.App
	if a == nil {
		return
	}

	control := api.NewControlHandler(a)
	s.mux.HandleFunc("/api/status", control.Status)
	s.mux.HandleFunc("/api/mode", control.SetMode)
	s.mux.HandleFunc("/api/recording", control.Recording)
	s.mux.HandleFunc("/api/export", control.Export)

	// Register the dataset archive if a store is configured
	if a.Store() != nil {
		datasetHandler := api.NewDatasetHandler(a, a.Store())
		s.mux.Handle("/api/datasets", datasetHandler)
		s.mux.Handle("/api/datasets/", datasetHandler)
	}

	s.mux.Handle("/api/stream", NewStreamHandler(a))
	s.predictions = NewPredictionsHandler(a)
	s.mux.Handle("/api/predictions", s.predictions)

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

// Close stops the background broadcast loop. Safe to call more than once.
func (s *Server) Close() {
	if s.predictions != nil {
		s.predictions.Close()
	}
}
