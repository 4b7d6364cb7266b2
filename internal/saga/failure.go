package saga

import (
	"fmt"
	"net/http"
)

// FailureCode classifies why a saga ended in the failed state.
type FailureCode string

const (
	CodeValidation          FailureCode = "validation"
	CodeUserNotFound        FailureCode = "user_not_found"
	CodeUpstreamUnavailable FailureCode = "upstream_unavailable"
	CodeInventory           FailureCode = "inventory_error"
	CodePaymentDeclined     FailureCode = "payment_declined"
	CodeUnexpected          FailureCode = "unexpected_error"
)

// Failure is the error the orchestrator returns when a saga does not
// complete. It carries the HTTP status the transport layer should use and
// the human-readable reason that goes into the response envelope.
type Failure struct {
	Code       FailureCode
	Provider   string // which upstream was unreachable, if any
	HTTPStatus int
	Reason     string
	err        error
}

func (f *Failure) Error() string {
	if f.Provider != "" {
		return fmt.Sprintf("saga failed (%s, provider=%s): %s", f.Code, f.Provider, f.Reason)
	}
	return fmt.Sprintf("saga failed (%s): %s", f.Code, f.Reason)
}

func (f *Failure) Unwrap() error { return f.err }

// MetricReason maps the failure onto the label used by the
// orders_failed_total counter.
func (f *Failure) MetricReason() string {
	if f.Code == CodeUpstreamUnavailable {
		return f.Provider + "_service_error"
	}
	if f.Code == CodePaymentDeclined {
		return "payment_failed"
	}
	return string(f.Code)
}

func validationFailure(reason string) *Failure {
	return &Failure{Code: CodeValidation, HTTPStatus: http.StatusBadRequest, Reason: reason}
}

func userNotFoundFailure() *Failure {
	return &Failure{Code: CodeUserNotFound, HTTPStatus: http.StatusBadRequest, Reason: "User not found"}
}

func upstreamFailure(provider, reason string, err error) *Failure {
	return &Failure{
		Code:       CodeUpstreamUnavailable,
		Provider:   provider,
		HTTPStatus: http.StatusServiceUnavailable,
		Reason:     reason,
		err:        err,
	}
}

func inventoryFailure(status int, reason string, err error) *Failure {
	return &Failure{Code: CodeInventory, HTTPStatus: status, Reason: reason, err: err}
}

func paymentDeclinedFailure() *Failure {
	return &Failure{Code: CodePaymentDeclined, HTTPStatus: http.StatusPaymentRequired, Reason: "Payment failed"}
}

func unexpectedFailure(reason string) *Failure {
	return &Failure{Code: CodeUnexpected, HTTPStatus: http.StatusInternalServerError, Reason: reason}
}
