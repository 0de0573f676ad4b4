package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/outletplus/pos-backend/api/responses"
	"github.com/outletplus/pos-backend/pkg/config"
	"github.com/outletplus/pos-backend/pkg/logger"
)

// Pinger is satisfied by backends that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status": "live",
			"env":    cfg.App.Env,
		})
	}
}

// HealthReady reports readiness of the backing services. Nil pingers
// are skipped so partial deployments stay diagnosable.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := make(map[string]string, len(deps))
		healthy := true
		for name, dep := range deps {
			if dep == nil {
				checks[name] = "skipped"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "down"
				healthy = false
				if logg != nil {
					logg.Warn(logg.WithFields(ctx, map[string]any{"dependency": name}), "readiness check failed")
				}
				continue
			}
			checks[name] = "up"
		}

		status := http.StatusOK
		state := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": state,
			"env":    cfg.App.Env,
			"checks": checks,
		})
	}
}

// ReadinessDeps collects the pingable backends for HealthReady.
func ReadinessDeps(dbPinger, redisPinger Pinger) map[string]Pinger {
	return map[string]Pinger{
		"database": dbPinger,
		"redis":    redisPinger,
	}
}
