package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/foodmenu/internal/dashboard"
	"github.com/dukerupert/foodmenu/internal/handler"
	"github.com/dukerupert/foodmenu/internal/middleware"
	ws "github.com/dukerupert/foodmenu/internal/websocket"
)

// Options tunes the HTTP surface.
type Options struct {
	RateLimit      int
	OriginPatterns []string
}

type Server struct {
	ctrl            *dashboard.Controller
	hub             *ws.Hub
	foodH           *handler.FoodHandler
	templateHandler *handler.TemplateHandler
	rateLimiter     *middleware.RateLimiter
	opts            Options
	logger          *slog.Logger
}

// New wires handlers around ctrl. hub must be the same hub ctrl broadcasts to.
func New(ctrl *dashboard.Controller, hub *ws.Hub, opts Options, logger *slog.Logger) *Server {
	if opts.RateLimit <= 0 {
		opts.RateLimit = 60
	}
	return &Server{
		ctrl:            ctrl,
		hub:             hub,
		foodH:           handler.NewFoodHandler(ctrl, logger.With("component", "food")),
		templateHandler: handler.NewTemplateHandler(ctrl, logger.With("component", "template")),
		rateLimiter:     middleware.NewRateLimiter(opts.RateLimit, time.Minute),
		opts:            opts,
		logger:          logger,
	}
}

// RateLimiter returns the limiter for periodic cleanup.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// API routes
	mux.HandleFunc("GET /api/foods", s.foodH.List)
	mux.HandleFunc("POST /api/foods", s.limited(s.foodH.Create))
	mux.HandleFunc("PUT /api/foods/{id}/availability", s.limited(s.foodH.SetAvailability))
	mux.HandleFunc("POST /api/foods/{id}/edit", s.foodH.Edit)
	mux.HandleFunc("GET /api/foods/editing", s.foodH.Editing)
	mux.HandleFunc("PUT /api/foods/editing", s.limited(s.foodH.Update))
	mux.HandleFunc("DELETE /api/foods/{id}", s.limited(s.foodH.Delete))
	mux.HandleFunc("GET /api/surfaces", s.foodH.Surfaces)
	mux.HandleFunc("POST /api/surfaces/create/toggle", s.foodH.ToggleCreate)
	mux.HandleFunc("POST /api/surfaces/edit/toggle", s.foodH.ToggleEdit)

	// Pages
	mux.HandleFunc("GET /", s.templateHandler.Dashboard)
	mux.HandleFunc("GET /partials/foods", s.templateHandler.FoodList)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.opts.OriginPatterns, s.snapshot, s.logger.With("component", "websocket")))

	logged := middleware.RequestLogger(s.logger.With("component", "http"))(mux)
	return middleware.RequestID(logged)
}

// snapshot greets a new change-feed connection with the current mirror.
func (s *Server) snapshot() ws.Message {
	return ws.ListMessage("snapshot", s.ctrl.Items())
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := s.hub.Stats()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"foods":   len(s.ctrl.Items()),
		"clients": stats.Clients,
		"dropped": stats.Dropped,
	})
}

// limited applies the per-IP budget to mutating routes.
func (s *Server) limited(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP)
	wrapped := rl(h)
	return wrapped.ServeHTTP
}
