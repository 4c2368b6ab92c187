package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type MenuHandler interface {
	HandleListMenu(w http.ResponseWriter, r *http.Request)
	HandleGetMenuItem(w http.ResponseWriter, r *http.Request)
}

// NewRouter exposes the read-only menu board and a health probe.
func NewRouter(db Pinger, menu MenuHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", healthHandler(db, logger))
	r.Get("/menu", menu.HandleListMenu)
	r.Get("/menu/{name}", menu.HandleGetMenuItem)

	return r
}

func healthHandler(db Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, body := http.StatusOK, map[string]string{"status": "ok"}
		if err := db.PingContext(ctx); err != nil {
			logger.Warn("health check failed", zap.Error(err))
			status, body = http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("failed to encode response", zap.Error(err))
		}
	}
}
