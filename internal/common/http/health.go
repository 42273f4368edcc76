package http

import (
	"context"
	"net/http"
	"time"

	commonerrors "github.com/AlibekovAA/auth-service/internal/common/errors"
	"github.com/AlibekovAA/auth-service/internal/common/logger"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

const healthPingTimeout = 2 * time.Second

// HealthHandler reports "ok" when the store answers a ping and
// "unavailable" with 503 otherwise. A nil pinger skips the check.
func HealthHandler(log *logger.Logger, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			WriteError(w, commonerrors.ErrMethodNotAllowed.HTTPStatus(), commonerrors.ErrMethodNotAllowed.Message())
			return
		}

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				log.WithFields(r.Context(), logger.Fields{"action": "health_db_unavailable"}).Warnf("health check: %v", err)
				WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}

		log.Debug("health check request")
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
