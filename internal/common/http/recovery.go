package http

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/AlibekovAA/auth-service/internal/common/logger"
	"github.com/AlibekovAA/auth-service/internal/observability/metrics"
)

func RecoveryMiddleware(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					metrics.PanicsRecovered.Inc()
					log.WithFields(r.Context(), logger.Fields{
						"path":   r.URL.Path,
						"action": "panic_recovered",
					}).Criticalf("panic recovered: %v\n%s", rec, debug.Stack())
					WriteFailure(w, http.StatusInternalServerError, "Server error", fmt.Sprint(rec))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
