package collector

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes live captures over HTTP so other tooling can pull the
// element tree, screenshot or samples of any URL on demand.
type Server struct {
	collector *Collector
	logger    *slog.Logger
	http      *http.Server
}

// NewServer builds the capture server on addr (host:port).
func NewServer(addr string, c *Collector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{collector: c, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Get("/health", s.handleHealth)
	r.Get("/layout", s.handleLayout)
	r.Get("/screenshot", s.handleScreenshot)
	r.Get("/samples", s.handleSamples)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("capture server listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// capture runs a full page capture for the url query parameter, writing
// an error response and returning nil when anything goes wrong.
func (s *Server) capture(w http.ResponseWriter, r *http.Request) *Capture {
	pageURL := r.URL.Query().Get("url")
	if pageURL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing url parameter"})
		return nil
	}
	capture, err := s.collector.Capture(r.Context(), pageURL)
	if err != nil {
		s.logger.Error("capture failed", "url", pageURL, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return nil
	}
	return capture
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	capture := s.capture(w, r)
	if capture == nil {
		return
	}
	writeJSON(w, http.StatusOK, capture.Tree)
}

func (s *Server) handleScreenshot(w http.ResponseWriter, r *http.Request) {
	capture := s.capture(w, r)
	if capture == nil {
		return
	}
	if len(capture.Screenshot) == 0 {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "screenshot unavailable"})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(capture.Screenshot)
}

func (s *Server) handleSamples(w http.ResponseWriter, r *http.Request) {
	capture := s.capture(w, r)
	if capture == nil {
		return
	}
	writeJSON(w, http.StatusOK, capture.Report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
