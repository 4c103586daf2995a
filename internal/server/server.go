package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/tidyhouse/internal/handler"
	"github.com/dukerupert/tidyhouse/internal/middleware"
	"github.com/dukerupert/tidyhouse/internal/service"
	ws "github.com/dukerupert/tidyhouse/internal/websocket"
)

// Options tunes the write rate limit.
type Options struct {
	RateLimit  int
	RateWindow time.Duration
}

type Server struct {
	hub         *ws.Hub
	roomH       *handler.RoomHandler
	taskH       *handler.TaskHandler
	dashboardH  *handler.DashboardHandler
	rateLimiter *middleware.RateLimiter
	opts        Options
	logger      *slog.Logger
}

// New wires the HTTP API around tracker. The server owns the websocket hub
// and registers it as the tracker's broadcaster.
func New(tracker *service.Tracker, opts Options, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	tracker.SetBroadcaster(hub)

	httpLogger := logger.With("component", "handler")
	return &Server{
		hub:         hub,
		roomH:       handler.NewRoomHandler(tracker, httpLogger),
		taskH:       handler.NewTaskHandler(tracker, httpLogger),
		dashboardH:  handler.NewDashboardHandler(tracker, httpLogger),
		rateLimiter: middleware.NewRateLimiter(),
		opts:        opts,
		logger:      logger,
	}
}

// Hub returns the websocket hub so other components can publish to it.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// StartCleanup periodically evicts expired rate limit entries until stop is
// closed.
func (s *Server) StartCleanup(stop <-chan struct{}) {
	s.rateLimiter.StartCleanup(5*time.Minute, stop)
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()
	outerMux.HandleFunc("GET /health", handler.Health)

	apiMux := http.NewServeMux()
	s.registerRoutes(apiMux)
	outerMux.Handle("/", middleware.RequireOwner(apiMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) limited(h http.HandlerFunc) http.Handler {
	return middleware.RateLimit(s.rateLimiter, middleware.OwnerKey, s.opts.RateLimit, s.opts.RateWindow)(h)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/rooms", s.roomH.List)
	mux.Handle("POST /api/rooms", s.limited(s.roomH.Create))
	mux.Handle("PUT /api/rooms/{id}", s.limited(s.roomH.Update))
	mux.Handle("DELETE /api/rooms/{id}", s.limited(s.roomH.Delete))

	mux.HandleFunc("GET /api/tasks", s.taskH.List)
	mux.Handle("POST /api/tasks", s.limited(s.taskH.Create))
	mux.Handle("PUT /api/tasks/{id}", s.limited(s.taskH.Update))
	mux.Handle("DELETE /api/tasks/{id}", s.limited(s.taskH.Delete))
	mux.Handle("POST /api/tasks/{id}/complete", s.limited(s.taskH.Complete))

	mux.HandleFunc("GET /api/dashboard", s.dashboardH.Get)

	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
}
