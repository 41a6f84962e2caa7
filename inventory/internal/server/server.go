package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/Astemirdum/inventory-loan-service/inventory/config"
)

type Server struct {
	http *http.Server
}

func NewServer(cfg config.HTTPServer, router http.Handler) *Server {
	return &Server{
		http: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Run blocks until the server stops. A graceful Stop is not an error.
func (s *Server) Run() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
