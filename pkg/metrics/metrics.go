// Package metrics records generation outcomes with OpenTelemetry and exposes
// them through a private Prometheus registry. A run is short-lived, so the
// registry is written to a node-exporter textfile instead of being served.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

// Outcome labels a literal or package result.
type Outcome string

const (
	// OutcomeOK marks a literal that produced a constant.
	OutcomeOK Outcome = "ok"
	// OutcomeMalformed marks input that was not a single string literal.
	OutcomeMalformed Outcome = "malformed"
	// OutcomeEmbeddedNull marks a literal rejected for holding a null byte.
	OutcomeEmbeddedNull Outcome = "embedded_null"
	// OutcomeError marks any other failure.
	OutcomeError Outcome = "error"
)

// Recorder holds the instruments of one run.
type Recorder struct {
	registry *prometheus.Registry
	provider *sdkmetric.MeterProvider

	literals metric.Int64Counter
	packages metric.Int64Counter
	duration metric.Float64Histogram
}

// New creates a Recorder with its own registry so runs never share state.
func New() (*Recorder, error) {
	registry := prometheus.NewRegistry()

	exp, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	meter := provider.Meter("cstrgen")

	literals, err := meter.Int64Counter("cstrgen.literals",
		metric.WithDescription("Literals processed, by outcome."))
	if err != nil {
		return nil, fmt.Errorf("could not create literals counter: %w", err)
	}
	packages, err := meter.Int64Counter("cstrgen.packages",
		metric.WithDescription("Package directories processed, by outcome."))
	if err != nil {
		return nil, fmt.Errorf("could not create packages counter: %w", err)
	}
	duration, err := meter.Float64Histogram("cstrgen.package.duration",
		metric.WithDescription("Time spent generating one package directory."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...))
	if err != nil {
		return nil, fmt.Errorf("could not create duration histogram: %w", err)
	}

	return &Recorder{
		registry: registry,
		provider: provider,
		literals: literals,
		packages: packages,
		duration: duration,
	}, nil
}

// Literal counts one processed literal. A nil Recorder records nothing.
func (r *Recorder) Literal(ctx context.Context, outcome Outcome) {
	if r == nil {
		return
	}
	r.literals.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", string(outcome))))
}

// Package counts one processed package directory and its duration.
func (r *Recorder) Package(ctx context.Context, outcome Outcome, took time.Duration) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", string(outcome)))
	r.packages.Add(ctx, 1, attrs)
	r.duration.Record(ctx, took.Seconds(), attrs)
}

// Gatherer exposes the registry, mainly for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer { return r.registry }

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("could not write metrics textfile: %w", err)
	}

	return nil
}

// Shutdown releases the meter provider.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if err := r.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("could not shutdown meter provider: %w", err)
	}

	return nil
}
