package restapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const RequestIDHeader = "X-Request-ID"

var (
	clientMeter              = otel.Meter("cofre/restapi")
	clientRequestDuration, _ = clientMeter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("REST request duration in seconds"),
		metric.WithUnit("s"),
	)
	clientRequestTotal, _ = clientMeter.Int64Counter("http.client.request.total",
		metric.WithDescription("Total REST requests"),
	)
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// requestID tags every request with an X-Request-ID unless the caller set one.
func requestID(next http.RoundTripper) http.RoundTripper {
	return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if r.Header.Get(RequestIDHeader) == "" {
			r = r.Clone(r.Context())
			r.Header.Set(RequestIDHeader, uuid.NewString())
		}
		return next.RoundTrip(r)
	})
}

// logging records method, path, status and duration of each request.
func logging(next http.RoundTripper, log zerolog.Logger) http.RoundTripper {
	return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		start := time.Now()
		resp, err := next.RoundTrip(r)
		duration := time.Since(start)

		status := 0
		if resp != nil {
			status = resp.StatusCode
		}

		attrs := metric.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.Int("http.status_code", status),
		)
		clientRequestDuration.Record(r.Context(), duration.Seconds(), attrs)
		clientRequestTotal.Add(r.Context(), 1, attrs)

		event := log.Debug()
		if err != nil {
			event = log.Warn().Err(err)
		} else if status >= 500 {
			event = log.Warn()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration", duration).
			Str("request_id", r.Header.Get(RequestIDHeader)).
			Msg("rest request")
		return resp, err
	})
}

// newTransport layers tracing, request ids and logging over base.
func newTransport(base http.RoundTripper, log zerolog.Logger) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return otelhttp.NewTransport(requestID(logging(base, log)))
}
