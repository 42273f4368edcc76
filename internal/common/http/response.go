package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	commonerrors "github.com/AlibekovAA/auth-service/internal/common/errors"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type Envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
	Detail any    `json:"detail"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Status: StatusSuccess, Data: data})
}

// WriteFailure writes an error envelope. data is nil for expected failures
// and carries diagnostic text for unexpected ones.
func WriteFailure(w http.ResponseWriter, status int, detail string, data any) {
	WriteJSON(w, status, Envelope{Status: StatusError, Data: data, Detail: detail})
}

func WriteError(w http.ResponseWriter, status int, detail string) {
	WriteFailure(w, status, detail, nil)
}

func DecodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func RequireMethod(method string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method != method {
				w.Header().Set("Allow", method)
				WriteError(w, commonerrors.ErrMethodNotAllowed.HTTPStatus(), commonerrors.ErrMethodNotAllowed.Message())
				return
			}
			next(w, r)
		}
	}
}

func WithTimeout(timeout time.Duration) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if timeout <= 0 {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next(w, r.WithContext(ctx))
		}
	}
}
