package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/wayplan/backend/api/responses"
	"github.com/wayplan/backend/pkg/logger"
)

const readinessTimeout = 5 * time.Second

// Pinger is any dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController serves liveness and readiness probes.
type HealthController struct {
	db    Pinger
	redis Pinger
	logg  *logger.Logger
}

func NewHealthController(db, redis Pinger, logg *logger.Logger) *HealthController {
	return &HealthController{db: db, redis: redis, logg: logg}
}

func (c *HealthController) Live(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, map[string]string{"status": "ok"})
}

func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := c.db.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if err := c.redis.Ping(ctx); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	} else {
		checks["redis"] = "ok"
	}

	if !healthy {
		if c.logg != nil {
			c.logg.Warn(ctx, "readiness check failed")
		}
		responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, checks)
		return
	}
	responses.WriteSuccess(w, checks)
}

func (c *HealthController) Ping(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, map[string]string{"message": "pong"})
}
