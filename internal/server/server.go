// Package server exposes the NER pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cognicore/nerkit/internal/htmltext"
	"github.com/cognicore/nerkit/pkg/nerkit/entity"
	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

const maxBodyBytes = 4 << 20

// Extractor is the pipeline behind the service.
type Extractor interface {
	ExtractText(ctx context.Context, text string) ([]entity.Entity, error)
	ExtractTokens(ctx context.Context, tokens []token.Token) ([]entity.Entity, error)
}

// Server serves entity extraction requests.
type Server struct {
	log     *slog.Logger
	ner     Extractor
	timeout time.Duration
}

// New creates a server. A nil logger discards records.
func New(ner Extractor, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{log: log, ner: ner, timeout: 30 * time.Second}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/api/ner", func(r chi.Router) {
		r.Get("/types", s.handleTypes)
		r.Post("/text", s.handleText)
		r.Post("/tokens", s.handleTokens)
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.timeout + 5*time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("ner server starting", slog.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

type errorResponse struct {
	Error string `json:"error"`
}

type textRequest struct {
	Text string `json:"text"`
	HTML bool   `json:"html,omitempty"`
}

type tokensRequest struct {
	Tokens []token.Token `json:"tokens"`
}

type entitiesResponse struct {
	Text     string          `json:"text,omitempty"`
	Entities []entity.Entity `json:"entities"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]entity.Type{"types": entity.Types()})
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !s.decode(w, r, &req) {
		return
	}

	text := req.Text
	if req.HTML {
		var err error
		if text, err = htmltext.String(req.Text); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	ents, err := s.ner.ExtractText(ctx, text)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := entitiesResponse{Entities: nonNil(ents)}
	if req.HTML {
		resp.Text = text
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	var req tokensRequest
	if !s.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	ents, err := s.ner.ExtractTokens(ctx, req.Tokens)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entitiesResponse{Entities: nonNil(ents)})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		writeJSON(w, http.StatusUnsupportedMediaType, errorResponse{Error: "content type must be application/json"})
		return false
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, internalerr.ErrInvalidFeatureInput):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, internalerr.ErrTaggerContract):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	s.log.Error("extraction failed",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Any("err", err))
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func nonNil(ents []entity.Entity) []entity.Entity {
	if ents == nil {
		return []entity.Entity{}
	}
	return ents
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
