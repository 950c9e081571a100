// Package web serves the render engine over HTTP: template listing, PDF
// rendering, PNG thumbnails and a websocket feed of render events.
package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Config holds server configuration
type Config struct {
	Port           int
	CORSOrigins    []string
	MaxUploadBytes int64
	RenderTimeout  time.Duration
}

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	config     *Config
	listener   net.Listener
	handler    *Handler
	limiter    Limiter
	hub        *Hub
	log        *zerolog.Logger
}

// NewServer creates a server. limiter and hub may be nil; without a hub
// the /ws endpoint is not mounted.
func NewServer(cfg *Config, handler *Handler, limiter Limiter, hub *Hub, log *zerolog.Logger) *Server {
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = 30 * time.Second
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 8 << 20
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	srv := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		handler: handler,
		limiter: limiter,
		hub:     hub,
		log:     log,
	}

	srv.setupMiddleware()
	srv.setupRoutes()

	return srv
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.log))
	s.router.Use(middleware.Recoverer)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Document-ID", "X-Render-Fallbacks", "Retry-After"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handler.Health)

	if s.hub != nil {
		s.router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			ServeWs(s.hub, s.log, w, r)
		})
	}

	s.router.Route("/api/v1/templates", func(r chi.Router) {
		r.Get("/", s.handler.ListTemplates)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(s.config.RenderTimeout))
			r.Use(maxBody(s.config.MaxUploadBytes))
			if s.limiter != nil {
				r.Use(rateLimit(s.limiter))
			}
			r.Post("/{id}/render", s.handler.Render)
			r.Post("/{id}/thumbnail", s.handler.Thumbnail)
		})
	})
}

// Start listens on the configured port and serves until Stop.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		return err
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s.httpServer.Serve(listener)
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// BaseURL returns the server's base URL
func (s *Server) BaseURL() string {
	if s.listener != nil {
		return fmt.Sprintf("http://%s", s.listener.Addr().String())
	}
	return fmt.Sprintf("http://localhost:%d", s.config.Port)
}

// Router returns the underlying chi router.
func (s *Server) Router() *chi.Mux {
	return s.router
}
