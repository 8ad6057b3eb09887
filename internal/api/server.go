// Package api exposes the order store, the scheduling views and the
// analytics summary over HTTP JSON.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/calendar"
	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/store"
)

// HTTPServer serves the field-service API.
type HTTPServer struct {
	store       *store.Store
	rescheduler *calendar.Rescheduler
	grid        calendar.GridConfig
	apiKey      string
	logger      *zerolog.Logger
	srv         *http.Server
}

// Config holds server settings.
type Config struct {
	Port   int
	APIKey string
	Grid   calendar.GridConfig
}

// NewHTTPServer wires handlers over the store.
func NewHTTPServer(st *store.Store, cfg Config, logger *zerolog.Logger) *HTTPServer {
	s := &HTTPServer{
		store:       st,
		rescheduler: calendar.NewRescheduler(st, logger),
		grid:        cfg.Grid,
		apiKey:      cfg.APIKey,
		logger:      logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/orders", s.withAuth(s.handleOrders))
	mux.HandleFunc("/api/v1/orders/", s.withAuth(s.handleOrderByID))
	mux.HandleFunc("/api/v1/agenda", s.withAuth(s.handleAgenda))
	mux.HandleFunc("/api/v1/analytics", s.withAuth(s.handleAnalytics))
	mux.HandleFunc("/api/v1/analytics/export", s.withAuth(s.handleAnalyticsExport))
	mux.HandleFunc("/api/v1/technicians", s.withAuth(s.handleTechnicians))

	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the route handler, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.srv.Handler
}

// Start serves until the context is cancelled.
func (s *HTTPServer) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(ctxShutdown)
	}()

	s.logger.Info().Str("addr", s.srv.Addr).Msg("API server listening")
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" && r.Header.Get("x-api-key") != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
