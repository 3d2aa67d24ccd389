package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/storeops/backend/internal/infrastructure/telemetry"
)

// httpInstruments holds the server-side HTTP instruments.
type httpInstruments struct {
	requests       metric.Int64Counter
	duration       metric.Float64Histogram
	activeRequests metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	requests, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Completed HTTP requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(telemetry.HTTPDurationBuckets...))
	if err != nil {
		return nil, err
	}

	active, err := meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("In-flight HTTP requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	return &httpInstruments{requests: requests, duration: duration, activeRequests: active}, nil
}

// HTTPMetrics records request counts, latency, and in-flight requests.
// Requests are labeled with the matched route pattern rather than the raw
// path to keep cardinality bounded.
func HTTPMetrics(provider *telemetry.MeterProvider) gin.HandlerFunc {
	if provider == nil || !provider.IsEnabled() {
		return func(c *gin.Context) { c.Next() }
	}
	return HTTPMetricsWithMeter(provider.Meter("http.server"))
}

// HTTPMetricsWithMeter builds the metrics middleware on an explicit meter
func HTTPMetricsWithMeter(meter metric.Meter) gin.HandlerFunc {
	instruments, err := newHTTPInstruments(meter)
	if err != nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		instruments.activeRequests.Add(ctx, 1)
		c.Next()
		instruments.activeRequests.Add(ctx, -1)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		baseAttrs := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
		}

		requestAttrs := append([]attribute.KeyValue{
			telemetry.AttrHTTPStatusCode.Int(c.Writer.Status()),
		}, baseAttrs...)
		if session, ok := GetSession(c); ok {
			requestAttrs = append(requestAttrs, telemetry.AttrStoreID.String(session.StoreID.String()))
		}

		instruments.requests.Add(ctx, 1, metric.WithAttributes(requestAttrs...))
		instruments.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(baseAttrs...))
	}
}
