package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/sheetexport/internal/instrumentation"
	"github.com/teemow/sheetexport/internal/logging"
)

// HeaderRequestID carries the request identifier in both directions.
const HeaderRequestID = "X-Request-ID"

// maxRequestIDLength bounds client supplied request IDs.
const maxRequestIDLength = 128

type requestIDKey struct{}

// RequestIDFromContext returns the request ID stored by the RequestID
// middleware, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// ContextWithRequestID returns ctx carrying id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID tags every request with an ID.
// A well-formed incoming X-Request-ID is kept; otherwise a new UUID is
// generated. The ID is echoed in the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(ContextWithRequestID(r.Context(), id)))
	})
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if c := id[i]; c < 0x21 || c > 0x7e {
			return false
		}
	}
	return true
}

// statusRecorder captures the status code and body size written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Instrument wraps next with a server span, HTTP metrics and an access log
// line per request. Only the URL path is recorded; the query string carries
// the password. metrics may be nil.
func Instrument(next http.Handler, metrics *instrumentation.Metrics, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		requestID := RequestIDFromContext(ctx)

		ctx, span := instrumentation.StartServerSpan(ctx, r.Method, r.URL.Path,
			attribute.String(instrumentation.SpanAttrRequestID, requestID))
		defer span.End()

		metrics.IncrementActiveRequests(ctx)
		defer metrics.DecrementActiveRequests(ctx)

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r.WithContext(ctx))

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		duration := time.Since(start)

		span.SetAttributes(attribute.Int(instrumentation.SpanAttrHTTPStatus, rec.status))
		if rec.status >= http.StatusInternalServerError {
			instrumentation.SetSpanError(span, errors.New(http.StatusText(rec.status)))
		} else {
			instrumentation.SetSpanSuccess(span)
		}

		metrics.RecordHTTPRequest(ctx, r.Method, r.URL.Path, rec.status, duration)

		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		attrs := []slog.Attr{
			logging.RequestID(requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int(logging.KeyStatus, rec.status),
			slog.Int("bytes", rec.bytes),
			slog.String(logging.KeyRemoteAddr, r.RemoteAddr),
			slog.Duration(logging.KeyDuration, duration),
		}
		if traceID := instrumentation.GetTraceID(ctx); traceID != "" {
			attrs = append(attrs, slog.String("trace_id", traceID))
		}
		logger.LogAttrs(ctx, level, "request", attrs...)
	})
}
