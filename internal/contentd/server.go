// Package contentd is a local content service for cove. It answers chat
// webhooks with canned, keyword-driven replies after a configurable delay.
package contentd

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultDelay is the simulated processing time of a reply.
const DefaultDelay = 500 * time.Millisecond

// maxRequestBody caps the size of a chat request.
const maxRequestBody = 64 << 10

// Server handles the chat and health endpoints.
type Server struct {
	delay  time.Duration
	logger *log.Logger
	now    func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithDelay sets the simulated processing time.
func WithDelay(d time.Duration) Option {
	return func(s *Server) { s.delay = d }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithClock sets the time source used for response timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates a Server with DefaultDelay and the default logger.
func New(opts ...Option) *Server {
	s := &Server{
		delay:  DefaultDelay,
		logger: log.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Routes returns the HTTP handler with middleware applied.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Post("/api/chat", s.chat)
	return r
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.ChatID) == "" || strings.TrimSpace(req.UserName) == "" || strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing required fields"})
		return
	}

	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-r.Context().Done():
			s.logger.Debug("client gone before reply", "request_id", middleware.GetReqID(r.Context()))
			return
		}
	}

	content, rich := Reply(req.Message)
	writeJSON(w, http.StatusOK, ChatResponse{
		Content:   content,
		Message:   content,
		ChatID:    req.ChatID,
		UserName:  req.UserName,
		Category:  req.Category,
		Timestamp: s.now().UTC().Format(time.RFC3339Nano),
		Rich:      rich,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger logs each request with structured fields.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"latency_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
