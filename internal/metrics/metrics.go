// Package metrics exposes Prometheus counters for authentication and the
// issue lifecycle.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "aits/internal/errors"
	"aits/internal/validation"
)

// Outcome labels.
const (
	OutcomeOK        = "ok"
	OutcomeForbidden = "forbidden"
	OutcomeRejected  = "rejected"
	OutcomeError     = "error"
)

var (
	issueOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aits",
		Name:      "issue_operations_total",
		Help:      "Issue create, assign and resolve attempts by outcome.",
	}, []string{"operation", "outcome"})

	authOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aits",
		Name:      "auth_operations_total",
		Help:      "Register, login, refresh and logout attempts by outcome.",
	}, []string{"operation", "outcome"})
)

// ObserveIssue counts one issue operation.
func ObserveIssue(operation string, err error) {
	issueOperations.WithLabelValues(operation, Outcome(err)).Inc()
}

// ObserveAuth counts one authentication operation.
func ObserveAuth(operation string, err error) {
	authOperations.WithLabelValues(operation, Outcome(err)).Inc()
}

// Outcome classifies err into a low-cardinality label.
func Outcome(err error) string {
	var verrs validation.Errors
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, apperrors.ErrForbidden):
		return OutcomeForbidden
	case errors.As(err, &verrs):
		return OutcomeRejected
	}
	if apperrors.MapErrorToHTTP(err).StatusCode < 500 {
		return OutcomeRejected
	}
	return OutcomeError
}
