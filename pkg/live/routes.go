package live

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/fiber/internal/errors"
)

// Handler returns the session's HTTP routes:
//
//	GET  /          page with the live client
//	GET  /ws        websocket stream
//	GET  /snapshot  current HTML fragment
//	POST /publish   store a static snapshot
//	GET  /metrics   Prometheus metrics (with a Registry)
//	GET  /healthz   liveness
func (s *Session) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/ws", s.handleSocket)
	r.Get("/snapshot", s.handleSnapshot)
	r.Post("/publish", s.handlePublish)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	if s.cfg.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Registry, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Session) handlePage(w http.ResponseWriter, r *http.Request) {
	body, err := s.HTML(r.Context(), true)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	page, err := LivePage(s.cfg.Title, body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Session) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	body, err := s.HTML(r.Context(), false)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(body))
}

func (s *Session) handlePublish(w http.ResponseWriter, r *http.Request) {
	location, err := s.Publish(r.Context())
	switch {
	case errors.CodeOf(err) == "F017":
		http.Error(w, err.Error(), http.StatusNotImplemented)
		return
	case err != nil:
		s.logger.Error("publish failed", "request_id", middleware.GetReqID(r.Context()), "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	s.logger.Info("snapshot published", "location", location)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"location": location})
}
