package sagalog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// NewEntry builds an Entry stamped with the trace and span ids from the
// active OpenTelemetry span in ctx. When the context carries no valid span
// (unit tests, tracing disabled) both ids stay empty.
func NewEntry(ctx context.Context, sagaID string, status Status, currentStep, payload string, errs []string) *Entry {
	entry := &Entry{
		SagaID:      sagaID,
		Status:      status,
		CurrentStep: currentStep,
		Payload:     payload,
		Errors:      errs,
		UpdatedAt:   time.Now().UTC(),
	}

	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		entry.TraceID = sc.TraceID().String()
		entry.SpanID = sc.SpanID().String()
	}
	return entry
}
