// Package server provides the HTTP web board: health, scores, the camera
// stream and a websocket carrying game state and player actions.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/neonlink/internal/game"
	"github.com/ayusman/neonlink/internal/server/api"
	"github.com/ayusman/neonlink/internal/store"
)

// FrameSource provides the latest JPEG camera frame, or nil.
// *tracker.Tracker satisfies it.
type FrameSource interface {
	JPEG() []byte
}

// StateSource provides the most recently published game state.
type StateSource interface {
	LatestState() game.State
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Frames    FrameSource
	State     StateSource

	// Actions receives player actions from the web board. Sends never block;
	// an action is dropped when the channel is full.
	Actions chan<- game.Action
}

// Server represents the HTTP server for the web board.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	state  *StateHandler
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

	if s.config.Store != nil {
		s.mux.Handle("/api/scores", api.NewScoresHandler(s.config.Store))
	}

	if s.config.Actions != nil {
		s.mux.Handle("/api/actions", api.NewActionHandler(s.sendAction))
	}

	if s.config.Frames != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Frames))
	}

	if s.config.State != nil {
		s.state = NewStateHandler(s.config.State, s.sendAction)
		s.mux.Handle("/api/state", s.state)
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// sendAction queues a for the game loop without blocking.
func (s *Server) sendAction(a game.Action) bool {
	if s.config.Actions == nil {
		return false
	}
	select {
	case s.config.Actions <- a:
		return true
	default:
		return false
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

// Close stops the state broadcaster and disconnects websocket clients.
func (s *Server) Close() {
	if s.state != nil {
		s.state.Close()
	}
}
