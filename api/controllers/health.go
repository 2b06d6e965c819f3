package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/bottle-amigo/api/responses"
	"github.com/angelmondragon/bottle-amigo/pkg/config"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
)

const envHeader = "X-BottleAmigo-Env"

// Pinger is a dependency the portal cannot serve without.
type Pinger interface {
	Ping(ctx context.Context) error
}

// LoadIndicator reports the BFF calls currently in flight for a portal.
type LoadIndicator interface {
	Visible() bool
	InFlight() int64
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready once Redis answers; without it no session can
// be read. The consumer loading indicator is included when set.
func HealthReady(cfg *config.Config, logg *logger.Logger, redis Pinger, loading LoadIndicator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if redis != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := redis.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}
		body := map[string]any{"status": "ready"}
		if loading != nil {
			body["bffBusy"] = loading.Visible()
			body["bffInFlight"] = loading.InFlight()
		}
		responses.WriteSuccess(w, body)
	}
}
