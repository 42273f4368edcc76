package jwtverify

import (
	"context"
	"net/http"
	"strings"

	commonerrors "github.com/AlibekovAA/auth-service/internal/common/errors"
	commonhttp "github.com/AlibekovAA/auth-service/internal/common/http"
	"github.com/AlibekovAA/auth-service/internal/common/logger"
)

type contextKey string

const tokenKey contextKey = "bearer_token"

const bearerPrefix = "bearer "

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(raw) <= len(bearerPrefix) || !strings.EqualFold(raw[:len(bearerPrefix)], bearerPrefix) {
		return "", commonerrors.ErrMissingAuthorization
	}

	token := strings.TrimSpace(raw[len(bearerPrefix):])
	if token == "" {
		return "", commonerrors.ErrMissingAuthorization
	}
	return token, nil
}

// Middleware rejects requests without a bearer token. Signature and expiry
// are checked later, when the token is resolved to a user.
func Middleware(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r)
			if err != nil {
				log.WithFields(r.Context(), logger.Fields{
					"path":   r.URL.Path,
					"action": "bearer_missing",
				}).Warn("jwt auth failed: missing or invalid authorization header")
				commonhttp.HandleError(w, r, err, log)
				return
			}

			ctx := context.WithValue(r.Context(), tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok && token != ""
}
