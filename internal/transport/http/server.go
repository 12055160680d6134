package http

import (
	"context"
	"log"
	stdhttp "net/http"
	"time"
)

// Server is the localhost control server.
type Server struct {
	srv *stdhttp.Server
}

func NewServer(addr string, router stdhttp.Handler) *Server {
	return &Server{
		srv: &stdhttp.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// Start serves in a new goroutine. Errors other than a clean shutdown are
// sent on the returned channel.
func (s *Server) Start() <-chan error {
	errc := make(chan error, 1)
	go func() {
		log.Printf("[Control] Listening on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errc <- err
		}
	}()
	return errc
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
