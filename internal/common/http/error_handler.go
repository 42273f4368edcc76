package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/AlibekovAA/auth-service/internal/common/constants"
	commonerrors "github.com/AlibekovAA/auth-service/internal/common/errors"
	"github.com/AlibekovAA/auth-service/internal/common/httpmetrics"
	"github.com/AlibekovAA/auth-service/internal/common/logger"
	"github.com/AlibekovAA/auth-service/internal/observability/metrics"
)

type ErrorHandler struct {
	log *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

// HandleError writes 4xx domain errors as {data:null, detail:message}.
// Everything else, 5xx domain errors included, becomes a 500 with
// detail "Server error" and the error text in data.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	if domainErr, ok := commonerrors.AsDomainError(err); ok && domainErr.HTTPStatus() < http.StatusInternalServerError {
		h.handleDomainError(w, r, domainErr)
		return
	}

	ctx := r.Context()
	traceID := getTraceIDFromContext(ctx)

	logFields := logger.Fields{
		"action": "unhandled_error",
	}
	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		logFields["error_code"] = domainErr.Code()
		metrics.DomainErrorsTotal.WithLabelValues(
			string(domainErr.Category()),
			domainErr.Code(),
			strconv.Itoa(http.StatusInternalServerError),
		).Inc()
	}
	if traceID != "" {
		w.Header().Set("X-Trace-ID", traceID)
	}

	h.log.WithFields(ctx, logFields).Errorf("unhandled error: %v", err)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteFailure(w, http.StatusInternalServerError, commonerrors.ErrInternalError.Message(), err.Error())
}

func (h *ErrorHandler) handleDomainError(w http.ResponseWriter, r *http.Request, err commonerrors.DomainError) {
	ctx := r.Context()
	traceID := getTraceIDFromContext(ctx)

	domainErr := err
	if traceID != "" && err.TraceID() == "" {
		domainErr = err.WithTraceID(traceID)
	}

	status := domainErr.HTTPStatus()

	if h.log.ShouldLog(logger.DEBUG) {
		h.log.WithFields(ctx, logger.Fields{
			"error_code": domainErr.Code(),
			"category":   string(domainErr.Category()),
			"status":     status,
			"action":     "domain_error",
		}).Debugf("domain error: %s", domainErr.Error())
	}

	metrics.DomainErrorsTotal.WithLabelValues(
		string(domainErr.Category()),
		domainErr.Code(),
		strconv.Itoa(status),
	).Inc()

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(status),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	if traceID != "" {
		w.Header().Set("X-Trace-ID", traceID)
	}

	WriteError(w, status, domainErr.Message())
}

func HandleError(w http.ResponseWriter, r *http.Request, err error, log *logger.Logger) {
	NewErrorHandler(log).HandleError(w, r, err)
}

func getTraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, _ := ctx.Value(constants.TraceIDKey).(string)
	return traceID
}
