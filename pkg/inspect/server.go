package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Source produces the snapshot served by a Server.
type Source func() Tree

// Option configures a Server.
type Option func(*Server)

// WithFrames serves trace on /frames.
func WithFrames(trace *FrameTrace) Option {
	return func(s *Server) { s.frames = trace }
}

// Server serves snapshots over HTTP.
//
// Routes:
//
//	GET /health     liveness check
//	GET /tree       JSON snapshot
//	GET /graph.dot  Graphviz DOT source
//	GET /graph.svg  rendered diagram
//	GET /frames     recent tick samples, when a FrameTrace is attached
type Server struct {
	source Source
	logger *log.Logger
	frames *FrameTrace
	router chi.Router
}

// NewServer creates a server over source. A nil logger discards request logs.
func NewServer(source Source, logger *log.Logger, opts ...Option) *Server {
	s := &Server{source: source, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Get("/health", s.handleHealth)
	r.Get("/tree", s.handleTree)
	r.Get("/graph.dot", s.handleDOT)
	r.Get("/graph.svg", s.handleSVG)
	if s.frames != nil {
		r.Get("/frames", s.handleFrames)
	}
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled. The listener is bound
// before ready is called with its address, so callers learn the actual port
// when addr ends in ":0".
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("debug server listen: %w", err)
	}
	if ready != nil {
		ready(listener.Addr())
	}

	server := &http.Server{Handler: s, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- server.Serve(listener) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		if s.logger != nil {
			s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "took", time.Since(start))
		}
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) handleTree(w http.ResponseWriter, _ *http.Request) {
	tree := s.source()
	if tree.Root == nil {
		http.Error(w, "no tree", http.StatusServiceUnavailable)
		return
	}
	// Encode to a buffer first so encoding errors become a 500.
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleFrames(w http.ResponseWriter, _ *http.Request) {
	data, err := json.MarshalIndent(s.frames.Snapshot(), "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleDOT(w http.ResponseWriter, _ *http.Request) {
	tree := s.source()
	if tree.Root == nil {
		http.Error(w, "no tree", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.Write([]byte(ToDOT(tree)))
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	tree := s.source()
	if tree.Root == nil {
		http.Error(w, "no tree", http.StatusServiceUnavailable)
		return
	}
	svg, err := RenderSVG(r.Context(), ToDOT(tree))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}
