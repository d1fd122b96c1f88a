package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/vendorpulse/vendorpulse-backend/api/responses"
	"github.com/vendorpulse/vendorpulse-backend/pkg/config"
	"github.com/vendorpulse/vendorpulse-backend/pkg/db"
	pkgerrors "github.com/vendorpulse/vendorpulse-backend/pkg/errors"
	"github.com/vendorpulse/vendorpulse-backend/pkg/logger"
	"github.com/vendorpulse/vendorpulse-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-VendorPulse-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-VendorPulse-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{}
		if dbP != nil {
			checks["database"] = "ok"
			if err := dbP.Ping(ctx); err != nil {
				checks["database"] = "down"
			}
		}
		if redisP != nil {
			checks["redis"] = "ok"
			if err := redisP.Ping(ctx); err != nil {
				checks["redis"] = "down"
			}
		}

		for _, state := range checks {
			if state != "ok" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeDependency, "dependency not ready").WithDetails(checks))
				return
			}
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
