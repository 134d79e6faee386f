// Package http exposes the demo service API consumed by the search
// comparison and chat clients.
package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/curio-labs/searchlab-core/internal/core/ports/driven"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	searchBackend driven.SearchBackend
	chatBackend   driven.ChatBackend

	store Pinger // state store health check (optional)
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Version        string
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8000,
		Version:        "dev",
		AllowedOrigins: []string{"*"},
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	searchBackend driven.SearchBackend,
	chatBackend driven.ChatBackend,
	store Pinger, // can be nil
) *Server {
	s := &Server{
		router:        http.NewServeMux(),
		version:       cfg.Version,
		searchBackend: searchBackend,
		chatBackend:   chatBackend,
		store:         store,
	}

	logging := NewLoggingMiddleware()
	recovery := NewRecoveryMiddleware()
	cors := NewCORSMiddleware(cfg.AllowedOrigins)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      recovery.Handler(logging.Handler(cors.Handler(s.router))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health endpoints
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Search endpoints, one per method plus the combined run
	s.router.HandleFunc("POST /api/search/all", s.handleSearchAll)
	s.router.HandleFunc("POST /api/search/{method}", s.handleSearchText)
	s.router.HandleFunc("POST /api/search/{method}/audio", s.handleSearchAudio)
	s.router.HandleFunc("POST /api/search/{method}/image", s.handleSearchImage)

	// Chat endpoints
	s.router.HandleFunc("GET /api/chat/state", s.handleChatState)
	s.router.HandleFunc("POST /api/chat/text", s.handleChatText)
	s.router.HandleFunc("POST /api/chat/audio", s.handleChatAudio)
	s.router.HandleFunc("POST /api/chat/image", s.handleChatImage)
	s.router.HandleFunc("POST /api/chat/snippet", s.handleChatSnippet)
	s.router.HandleFunc("POST /api/chat/clear", s.handleChatClear)
}

// Handler returns the configured handler chain, for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
