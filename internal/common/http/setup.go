package http

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/AlibekovAA/auth-service/internal/common/constants"
	"github.com/AlibekovAA/auth-service/internal/common/httpmetrics"
	"github.com/AlibekovAA/auth-service/internal/common/logger"
)

func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{traceIDHeader},
		AllowCredentials: true,
	})
}

// BuildBaseHandler wraps handler with the middleware chain shared by every
// route: security headers, CORS, panic recovery, trace id, body limit and
// request metrics, outermost first.
func BuildBaseHandler(appName string, log *logger.Logger, allowedOrigins []string, handler http.Handler) http.Handler {
	metrics := httpmetrics.New(appName)
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	corsHandler := NewCORS(allowedOrigins).Handler

	return SecurityHeadersMiddleware(corsHandler(recovery(TraceIDMiddleware(maxRequestSize(metrics.Wrap(handler))))))
}
