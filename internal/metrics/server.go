package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the default Prometheus registry on /metrics, grounded on
// the example pack's infrastructure/metrics.Server (StartAsync + Stop pair
// over a single http.Server so the CLI can own its lifecycle).
type Server struct {
	server *http.Server
}

// NewServer binds a /metrics handler to addr (host:port, or ":0" for a
// random free port in tests).
func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &Server{server: &http.Server{Addr: addr, Handler: mux}}
}

// StartAsync begins serving in a background goroutine. Bind errors other
// than http.ErrServerClosed are silently dropped, matching the fire-and-
// forget lifecycle the CLI uses for an optional metrics listener.
func (s *Server) StartAsync() {
	go func() {
		_ = s.server.ListenAndServe()
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("metrics: shutdown: %w", err)
	}
	return nil
}
