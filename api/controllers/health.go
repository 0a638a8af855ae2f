package controllers

import (
	"context"
	"net/http"

	"github.com/rentrackhq/rentrack-backend/api/responses"
	pkgerrors "github.com/rentrackhq/rentrack-backend/pkg/errors"
	"github.com/rentrackhq/rentrack-backend/pkg/logger"
)

// Pinger is the health check surface of a backing dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusOK, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and, when configured, redis. Nil pingers
// are skipped so a cache-less deployment still reports ready.
func HealthReady(logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}
		responses.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
