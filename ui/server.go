// Package ui exposes stored simulation runs over a small read-only HTTP
// surface: run listings, tidy rate tables for plotting clients, and the
// run report rendered as HTML.
package ui

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"

	"github.com/GRousselet/post-nocrisis/app"
	"github.com/GRousselet/post-nocrisis/domain/core"
	"github.com/GRousselet/post-nocrisis/internal/report"
	"github.com/GRousselet/post-nocrisis/ports"
)

// Server serves stored simulation results.
type Server struct {
	store  ports.ResultReaderPort
	rates  *app.RatesService
	router chi.Router
}

// NewServer creates a server over a result store.
func NewServer(store ports.ResultReaderPort) *Server {
	s := &Server{
		store: store,
		rates: app.NewRatesService(store),
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{runID}/rates", s.handleRates)
	r.Get("/runs/{runID}/report", s.handleReport)
	s.router = r

	return s
}

// Handler returns the HTTP handler for mounting or serving.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving on the given address.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("[ui] serving simulation results on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, summaries)
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	runID := core.RunID(chi.URLParam(r, "runID"))
	rates, err := s.rates.Rates(r.Context(), runID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, rates)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	runID := core.RunID(chi.URLParam(r, "runID"))
	rates, err := s.rates.Rates(r.Context(), runID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	md, err := report.Markdown(rates)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(markdown.ToHTML([]byte(md), nil, nil))
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ui] failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if core.IsNotFound(err) {
		status = http.StatusNotFound
	} else if core.IsInvalidParameter(err) {
		status = http.StatusBadRequest
	}
	log.Printf("[ui] request failed: %v", err)
	http.Error(w, err.Error(), status)
}
