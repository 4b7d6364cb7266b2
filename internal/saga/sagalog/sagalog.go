// Package sagalog records every state transition an order saga goes through.
//
// The log is an append-only audit trail, separate from the per-order step
// trail: each entry carries the trace and span ids that were active when it
// was written, so a saga can be correlated with its distributed trace.
package sagalog

import "time"

// Status is the lifecycle state of a saga execution.
type Status string

const (
	StatusStarted      Status = "STARTED"
	StatusStepDone     Status = "STEP_DONE"
	StatusCompensating Status = "COMPENSATING"
	StatusCompleted    Status = "COMPLETED"
	StatusFailed       Status = "FAILED"
)

// Entry is a single transition in a saga's lifecycle.
type Entry struct {
	// SagaID is the order id, so the log can be joined with business data.
	SagaID string `json:"sagaId"`

	// Status is the lifecycle state at the time the entry was written.
	Status Status `json:"status"`

	// CurrentStep names the step that was just executed or failed.
	CurrentStep string `json:"currentStep,omitempty"`

	// Payload is the JSON-serialised input that started the saga,
	// written once on the STARTED entry.
	Payload string `json:"payload,omitempty"`

	// Errors accumulates failure details, one per failed step.
	Errors []string `json:"errors,omitempty"`

	// TraceID and SpanID identify the OpenTelemetry span that was active
	// when the entry was written; empty when no span was recording.
	TraceID string `json:"traceId,omitempty"`
	SpanID  string `json:"spanId,omitempty"`

	UpdatedAt time.Time `json:"updatedAt"`
}
