package service

import (
	"github.com/AlibekovAA/auth-service/internal/observability/metrics"
)

const (
	resultSuccess  = "success"
	resultRejected = "rejected"
	resultError    = "error"
)

func incrementAccessTokensIssued() {
	metrics.AccessTokensIssued.Inc()
}

func recordRegistration(result string) {
	metrics.RegistrationsTotal.WithLabelValues(result).Inc()
}

func recordLogin(result string) {
	metrics.LoginsTotal.WithLabelValues(result).Inc()
}

func recordProfileEdit(result string) {
	metrics.ProfileEditsTotal.WithLabelValues(result).Inc()
}

// outcome classifies err for the result label: nil is success, 4xx domain
// errors are rejections and everything else is an error.
func outcome(err error) string {
	if err == nil {
		return resultSuccess
	}
	if isClientError(err) {
		return resultRejected
	}
	return resultError
}
