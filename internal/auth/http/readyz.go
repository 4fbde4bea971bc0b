package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/freshmart/internal/auth/store"
	"github.com/aussiebroadwan/freshmart/pkg/httpx"
)

// ReadyzHandler is the readiness probe. It reports degraded with a 503 when
// the database is unreachable so the load balancer stops routing logins at
// a store that cannot serve them.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &HealthChecks{Database: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
