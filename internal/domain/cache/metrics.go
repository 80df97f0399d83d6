package cache

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	cacheTracer          = otel.Tracer("cofre/cache")
	cacheMeter           = otel.Meter("cofre/cache")
	fetchTotal, _        = cacheMeter.Int64Counter("cache.fetch.total", metric.WithDescription("Fetches issued by entity and outcome"))
	fetchAttached, _     = cacheMeter.Int64Counter("cache.fetch.attached", metric.WithDescription("Reads that joined an in-flight fetch instead of issuing one"))
	fetchDropped, _      = cacheMeter.Int64Counter("cache.fetch.dropped", metric.WithDescription("Fetch results discarded because the store was cleared"))
	fetchDuration, _     = cacheMeter.Float64Histogram("cache.fetch.duration", metric.WithDescription("Fetch duration in seconds"), metric.WithUnit("s"))
	invalidationTotal, _ = cacheMeter.Int64Counter("cache.invalidation.total", metric.WithDescription("Keys marked stale"))
)
