// Copyright 2026 The Centreon Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// meterName is the instrumentation scope of every instrument.
const meterName = "centreon.dev/web/metrics"

// DefaultDurationBuckets are histogram boundaries for request duration in
// seconds. They cover sub-millisecond to 10 second responses.
var DefaultDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

var (
	// ErrEmptyServiceName is returned by New when the service name is empty.
	ErrEmptyServiceName = errors.New("service name cannot be empty")
	// ErrInvalidBuckets is returned by New for unsorted or empty buckets.
	ErrInvalidBuckets = errors.New("duration buckets must be non-empty and increasing")
	// ErrInvalidExportInterval is returned by New for a non-positive push
	// interval.
	ErrInvalidExportInterval = errors.New("export interval must be positive")
)

// DefaultExportInterval is the push period of the OTLP and stdout
// exporters.
const DefaultExportInterval = 30 * time.Second

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Recorder holds the instruments and the Prometheus registry they are
// exported to. All methods are safe for concurrent use.
type Recorder struct {
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	registry      *promclient.Registry
	handler       http.Handler
	logger        *slog.Logger

	requestDuration metric.Float64Histogram
	requestCount    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
	responseSize    metric.Int64Histogram
	diagnostics     metric.Int64Counter

	serviceName     string
	serviceVersion  string
	durationBuckets []float64
	readers         []sdkmetric.Reader
	filter          *pathFilter
	otlpEndpoint    string
	stdout          io.Writer
	exportInterval  time.Duration

	serviceNameAttr    attribute.KeyValue
	serviceVersionAttr attribute.KeyValue

	validationErrors []error
}

// New creates a Recorder.
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		serviceName:     "centreon-web",
		serviceVersion:  "dev",
		durationBuckets: DefaultDurationBuckets,
		exportInterval:  DefaultExportInterval,
		logger:          noopLogger,
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := r.initProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return r, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize metrics: %v", err))
	}
	return r
}

func (r *Recorder) validate() error {
	errs := r.validationErrors
	if r.serviceName == "" {
		errs = append(errs, ErrEmptyServiceName)
	}
	if len(r.durationBuckets) == 0 {
		errs = append(errs, ErrInvalidBuckets)
	}
	if (r.otlpEndpoint != "" || r.stdout != nil) && r.exportInterval <= 0 {
		errs = append(errs, ErrInvalidExportInterval)
	}
	for i := 1; i < len(r.durationBuckets); i++ {
		if r.durationBuckets[i] <= r.durationBuckets[i-1] {
			errs = append(errs, ErrInvalidBuckets)
			break
		}
	}
	return errors.Join(errs...)
}

func (r *Recorder) initProvider() error {
	r.registry = promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(r.registry))
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	providerOpts := []sdkmetric.Option{sdkmetric.WithReader(exporter)}
	for _, rd := range r.readers {
		providerOpts = append(providerOpts, sdkmetric.WithReader(rd))
	}
	if r.otlpEndpoint != "" {
		otlp, err := newOTLPExporter(r.otlpEndpoint)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		providerOpts = append(providerOpts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(otlp, sdkmetric.WithInterval(r.exportInterval)),
		))
		r.logger.Debug("pushing metrics over OTLP", "endpoint", r.otlpEndpoint, "interval", r.exportInterval)
	}
	if r.stdout != nil {
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(r.stdout))
		if err != nil {
			return fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		providerOpts = append(providerOpts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(r.exportInterval)),
		))
	}
	r.meterProvider = sdkmetric.NewMeterProvider(providerOpts...)
	r.meter = r.meterProvider.Meter(meterName)
	r.handler = promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})

	r.serviceNameAttr = attribute.String("service.name", r.serviceName)
	r.serviceVersionAttr = attribute.String("service.version", r.serviceVersion)

	return r.initInstruments()
}

func (r *Recorder) initInstruments() error {
	var err error

	r.requestDuration, err = r.meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("Duration of routed HTTP requests"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create request duration histogram: %w", err)
	}

	r.requestCount, err = r.meter.Int64Counter(
		"centreon.router.requests",
		metric.WithDescription("Routed HTTP requests by route template, method and status"),
	)
	if err != nil {
		return fmt.Errorf("failed to create request counter: %w", err)
	}

	r.activeRequests, err = r.meter.Int64UpDownCounter(
		"centreon.router.requests.active",
		metric.WithDescription("Requests being dispatched"),
	)
	if err != nil {
		return fmt.Errorf("failed to create active requests counter: %w", err)
	}

	r.responseSize, err = r.meter.Int64Histogram(
		"http.server.response.body.size",
		metric.WithDescription("Size of routed HTTP responses"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(100, 1000, 10000, 100000, 1000000),
	)
	if err != nil {
		return fmt.Errorf("failed to create response size histogram: %w", err)
	}

	r.diagnostics, err = r.meter.Int64Counter(
		"centreon.router.diagnostics",
		metric.WithDescription("Router diagnostic events by kind"),
	)
	if err != nil {
		return fmt.Errorf("failed to create diagnostics counter: %w", err)
	}

	return nil
}

func newOTLPExporter(endpoint string) (*otlpmetrichttp.Exporter, error) {
	insecure := false
	if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
		endpoint, insecure = rest, true
	} else if rest, ok := strings.CutPrefix(endpoint, "https://"); ok {
		endpoint = rest
	}
	if i := strings.IndexByte(endpoint, '/'); i >= 0 {
		endpoint = endpoint[:i]
	}

	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	return otlpmetrichttp.New(context.Background(), opts...)
}

// Handler serves the Prometheus exposition of the recorder's registry.
func (r *Recorder) Handler() http.Handler { return r.handler }

// ServiceName returns the service.name attribute value.
func (r *Recorder) ServiceName() string { return r.serviceName }

// Shutdown flushes and stops the meter provider.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if err := r.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("metrics shutdown: %w", err)
	}
	return nil
}
