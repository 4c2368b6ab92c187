package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server runs the menu board next to the interactive client.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

func New(port int, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger.With(zap.String("component", "menu-board")),
	}
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Start() error {
	s.logger.Info("starting menu board", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("menu board failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("stopping menu board")
	return s.httpServer.Shutdown(ctx)
}
