package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/routes-report/api/responses"
	"github.com/angelmondragon/routes-report/pkg/config"
	pkgerrors "github.com/angelmondragon/routes-report/pkg/errors"
	"github.com/angelmondragon/routes-report/pkg/logger"
)

const readyTimeout = 2 * time.Second

// Pinger is a dependency checked by the readiness probe.
type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RoutesReport-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the report cache backend.
func HealthReady(cfg *config.Config, logg *logger.Logger, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RoutesReport-Env", cfg.App.Env)
		if cache != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
			defer cancel()
			if err := cache.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache backend unreachable").
					WithDetails(map[string]any{"dependency": cfg.Cache.Backend}))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready", "cache": cfg.Cache.Backend})
	}
}
