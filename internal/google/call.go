package google

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/sheetexport/internal/instrumentation"
)

// Call runs one Google API operation inside a client span, records its
// duration and status, and maps the returned error with MapError.
// metrics may be nil.
func Call(
	ctx context.Context,
	metrics *instrumentation.Metrics,
	service, operation string,
	fn func(ctx context.Context) error,
	attrs ...attribute.KeyValue,
) error {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, service, operation, attrs...)
	defer span.End()

	start := time.Now()
	err := MapError(fn(ctx))
	duration := time.Since(start)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}

	if metrics != nil {
		metrics.RecordGoogleAPIOperation(ctx, service, operation, status, duration)
	}

	return err
}
