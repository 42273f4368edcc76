package http

import (
	"net/http"

	"github.com/AlibekovAA/auth-service/internal/common/constants"
	commonerrors "github.com/AlibekovAA/auth-service/internal/common/errors"
)

func MaxRequestSizeMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = constants.DefaultMaxRequestSize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				WriteError(w, commonerrors.ErrRequestTooLarge.HTTPStatus(), commonerrors.ErrRequestTooLarge.Message())
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
