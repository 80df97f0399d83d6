package mutation

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	mutationTracer      = otel.Tracer("cofre/mutation")
	mutationMeter       = otel.Meter("cofre/mutation")
	mutationTotal, _    = mutationMeter.Int64Counter("mutation.total", metric.WithDescription("Mutations executed by operation and outcome"))
	mutationDuration, _ = mutationMeter.Float64Histogram("mutation.duration", metric.WithDescription("Write duration in seconds"), metric.WithUnit("s"))
)
