// Package server implements the HTTP translation endpoint consumed by the
// controller's HTTP provider.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ZaguanLabs/livetl"
	"github.com/ZaguanLabs/livetl/backend"
	"github.com/ZaguanLabs/livetl/internal/logging"
)

// maxBodyBytes bounds the size of a translate request body.
const maxBodyBytes = 64 << 10

// Server handles translate requests with an Engine.
type Server struct {
	engine  backend.Engine
	metrics *Metrics
	logger  *slog.Logger
}

// Option is a functional option for configuring the Server.
type Option func(*Server)

// WithMetrics sets the collectors; NewHandler creates its own otherwise.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

type translateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"target_language"`
}

type translateResponse struct {
	Translation string `json:"translation"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type languageResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewHandler creates the HTTP handler for engine.
func NewHandler(engine backend.Engine, opts ...Option) http.Handler {
	s := &Server{
		engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Post("/api/translate", s.Translate)
	r.Get("/api/languages", s.Languages)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	return enableCORS(r)
}

// Translate handles POST /api/translate.
func (s *Server) Translate(w http.ResponseWriter, r *http.Request) {
	var body translateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		s.logger.Warn("translate: invalid request body", "error", err)
		return
	}

	req := livetl.TranslationRequest{
		Text:           strings.TrimSpace(body.Text),
		TargetLanguage: livetl.NormalizeLanguage(body.TargetLanguage),
	}
	if err := req.Validate(); err != nil {
		msg := "invalid request"
		switch {
		case errors.Is(err, livetl.ErrEmptyInput):
			msg = "text is required"
		case errors.Is(err, livetl.ErrUnknownLanguage):
			msg = "unknown target language"
		}
		s.fail(w, http.StatusBadRequest, msg)
		return
	}

	start := time.Now()
	translation, err := s.engine.Translate(r.Context(), req.Text, req.TargetLanguage)
	s.metrics.observeEngine(s.engine.Name(), time.Since(start))
	if err != nil {
		s.fail(w, http.StatusBadGateway, "translation failed")
		s.logger.Error("translate failed",
			"engine", s.engine.Name(),
			"language", req.TargetLanguage,
			"error", err,
		)
		return
	}

	s.metrics.observeRequest(http.StatusOK)
	writeJSON(w, http.StatusOK, translateResponse{Translation: translation})
}

// Languages handles GET /api/languages.
func (s *Server) Languages(w http.ResponseWriter, r *http.Request) {
	langs := livetl.Languages()
	resp := make([]languageResponse, len(langs))
	for i, l := range langs {
		resp[i] = languageResponse{Code: l.Code, Name: l.DisplayName}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) fail(w http.ResponseWriter, status int, msg string) {
	s.metrics.observeRequest(status)
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
