package ui

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/pkg/log"
)

// Server represents the read-only HTTP server
type Server struct {
	Logger  log.Logger
	Config  *cfg.Config
	Handler *Handler
	server  *http.Server
	port    int
}

// NewServer creates a new HTTP server around handler
func NewServer(logger log.Logger, config *cfg.Config, handler *Handler, port int) (*Server, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}
	if port <= 0 {
		port = config.Ui.Port
	}
	s := &Server{
		Logger:  logger,
		Config:  config,
		Handler: handler,
		port:    port,
	}
	// Tạo sẵn http.Server để Start và Stop chạy ở hai goroutine khác nhau
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Router builds the gin engine with every route registered
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())
	s.Handler.RegisterRoutes(router)
	return router
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	s.Logger.Info(context.Background(), "Starting UI server on port %d", s.port)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.Logger.Info(ctx, "Shutting down UI server")
	return s.server.Shutdown(ctx)
}

// Log request qua Logger của app thay cho gin.Logger()
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Debug(c.Request.Context(), "%s %s %d %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
