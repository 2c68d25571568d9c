// Package health provides HTTP liveness and readiness endpoints
// and a JSON view of the picker counters.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// StatsFunc returns a JSON-encodable snapshot served on /stats.
type StatsFunc func() any

// Server provides health check endpoints.
type Server struct {
	port   int
	logger *zap.Logger
	server *http.Server
	ready  atomic.Bool
	stats  atomic.Pointer[StatsFunc]

	listening chan struct{}
	addr      net.Addr
}

// NewServer creates a new health check server. It reports not ready until
// SetReady(true) is called.
func NewServer(port int, logger *zap.Logger) *Server {
	s := &Server{
		port:      port,
		logger:    logger,
		listening: make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/stats", s.handleStats)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// SetStats installs the source for the /stats endpoint.
func (s *Server) SetStats(fn StatsFunc) {
	s.stats.Store(&fn)
}

// Start begins serving health endpoints. This method blocks until the server
// is shut down or encounters an error. It must be called at most once.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		s.logger.Error("health server listen", zap.Error(err))
		return err
	}
	s.addr = ln.Addr()
	close(s.listening)

	s.logger.Info("health server starting", zap.Stringer("addr", s.addr))

	if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
		s.logger.Error("health server error", zap.Error(err))
		return err
	}

	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.ready.Store(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s.logger.Info("health server shutting down")
	return s.server.Shutdown(shutdownCtx)
}

// Listening is closed once Start has bound its listener.
func (s *Server) Listening() <-chan struct{} {
	return s.listening
}

// Addr returns the bound address. It is only valid after Listening is closed.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// SetReady updates the readiness status.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady returns the current readiness status.
func (s *Server) IsReady() bool {
	return s.ready.Load()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = w.Write([]byte("ok"))
	}
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if s.ready.Load() {
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte("ready"))
		}
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte("not ready"))
		}
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	fn := s.stats.Load()
	if fn == nil || *fn == nil {
		http.Error(w, "stats not available", http.StatusServiceUnavailable)
		return
	}

	body, err := json.Marshal((*fn)())
	if err != nil {
		s.logger.Error("encode stats", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
