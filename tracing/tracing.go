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

package tracing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"centreon.dev/web/router"
)

const (
	// SpanName is the name of the span opened for each request.
	SpanName = "router.dispatch"

	// DefaultServiceName is the service name used when none is provided.
	DefaultServiceName = "centreon-web"

	// DefaultSampleRate samples every request.
	DefaultSampleRate = 1.0

	tracerName = "centreon.dev/web/tracing"
)

// ErrInvalidSampleRate is returned for a sample rate outside [0, 1].
var ErrInvalidSampleRate = errors.New("sample rate must be between 0 and 1")

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// SpanStartHook runs after the request span is started.
type SpanStartHook func(ctx context.Context, span trace.Span, req *http.Request)

// SpanFinishHook runs before the request span ends.
type SpanFinishHook func(span trace.Span, statusCode int)

// Tracer implements router.ObservabilityRecorder with OpenTelemetry spans.
// All methods are safe for concurrent use.
type Tracer struct {
	tracer         trace.Tracer
	tracerProvider trace.TracerProvider
	sdkProvider    *sdktrace.TracerProvider // owned provider, nil when supplied by the caller
	propagator     propagation.TextMapPropagator
	logger         *slog.Logger

	serviceName    string
	serviceVersion string
	sampleRate     float64
	stdout         io.Writer
	otlpEndpoint   string
	otlpGRPC       bool
	recordHeaders  []string
	registerGlobal bool

	spanStartHook  SpanStartHook
	spanFinishHook SpanFinishHook
}

var _ router.ObservabilityRecorder = (*Tracer)(nil)

// New creates a Tracer.
func New(opts ...Option) (*Tracer, error) {
	t := &Tracer{
		serviceName:    DefaultServiceName,
		serviceVersion: "dev",
		sampleRate:     DefaultSampleRate,
		propagator:     propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
		logger:         noopLogger,
	}

	for _, opt := range opts {
		opt(t)
	}

	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("invalid tracing configuration: %w", err)
	}
	if err := t.initProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	return t, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Tracer {
	t, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize tracing: %v", err))
	}
	return t
}

func (t *Tracer) validate() error {
	if t.sampleRate < 0 || t.sampleRate > 1 {
		return fmt.Errorf("%w, got %v", ErrInvalidSampleRate, t.sampleRate)
	}
	return nil
}

func (t *Tracer) initProvider() error {
	if t.tracerProvider == nil {
		opts := []sdktrace.TracerProviderOption{
			sdktrace.WithResource(createResource(t.serviceName, t.serviceVersion)),
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(t.sampleRate))),
		}
		if t.stdout != nil {
			exporter, err := stdouttrace.New(stdouttrace.WithWriter(t.stdout))
			if err != nil {
				return fmt.Errorf("failed to create stdout exporter: %w", err)
			}
			opts = append(opts, sdktrace.WithBatcher(exporter))
		}
		if t.otlpEndpoint != "" {
			exporter, err := newOTLPExporter(t.otlpEndpoint, t.otlpGRPC)
			if err != nil {
				return fmt.Errorf("failed to create OTLP exporter: %w", err)
			}
			opts = append(opts, sdktrace.WithBatcher(exporter))
		}
		t.sdkProvider = sdktrace.NewTracerProvider(opts...)
		t.tracerProvider = t.sdkProvider
	}

	t.tracer = t.tracerProvider.Tracer(tracerName)

	if t.registerGlobal {
		otel.SetTracerProvider(t.tracerProvider)
		otel.SetTextMapPropagator(t.propagator)
	}

	t.logger.Debug("tracing initialized", "service", t.serviceName, "sample_rate", t.sampleRate, "otlp", t.otlpEndpoint, "otlp_grpc", t.otlpGRPC)
	return nil
}

func newOTLPExporter(endpoint string, useGRPC bool) (*otlptrace.Exporter, error) {
	insecure := false
	if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
		endpoint, insecure = rest, true
	} else if rest, ok := strings.CutPrefix(endpoint, "https://"); ok {
		endpoint = rest
	}
	if i := strings.IndexByte(endpoint, '/'); i >= 0 {
		endpoint = endpoint[:i]
	}

	// Neither client connects before the first export.
	if useGRPC {
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
		if insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		return otlptracegrpc.New(context.Background(), opts...)
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	return otlptracehttp.New(context.Background(), opts...)
}

func createResource(serviceName, serviceVersion string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	)
}

// Shutdown flushes and stops the tracer provider if New created it.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.sdkProvider == nil {
		return nil
	}
	if err := t.sdkProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("tracing shutdown: %w", err)
	}
	return nil
}

// Tracer returns the underlying OpenTelemetry tracer.
func (t *Tracer) Tracer() trace.Tracer { return t.tracer }

// OnRequestStart implements router.ObservabilityRecorder.
func (t *Tracer) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	ctx = t.propagator.Extract(ctx, propagation.HeaderCarrier(req.Header))

	ctx, span := t.tracer.Start(ctx, SpanName, trace.WithSpanKind(trace.SpanKindServer))
	if !span.IsRecording() {
		return ctx, nil
	}

	attrs := make([]attribute.KeyValue, 0, 5+len(t.recordHeaders))
	attrs = append(attrs,
		attribute.String("http.request.method", req.Method),
		attribute.String("url.path", req.URL.Path),
		attribute.String("server.address", req.Host),
		attribute.String("user_agent.original", req.UserAgent()),
		attribute.String("service.name", t.serviceName),
	)
	for _, h := range t.recordHeaders {
		if v := req.Header.Get(h); v != "" {
			attrs = append(attrs, attribute.String("http.request.header."+strings.ToLower(h), v))
		}
	}
	span.SetAttributes(attrs...)

	if t.spanStartHook != nil {
		t.spanStartHook(ctx, span, req)
	}
	return ctx, span
}

// WrapResponseWriter implements router.ObservabilityRecorder.
func (t *Tracer) WrapResponseWriter(w http.ResponseWriter, _ any) http.ResponseWriter {
	if _, ok := w.(router.ResponseInfo); ok {
		return w
	}
	return router.NewResponseWriter(w)
}

// OnRequestEnd implements router.ObservabilityRecorder.
func (t *Tracer) OnRequestEnd(_ context.Context, state any, w http.ResponseWriter, routePattern string) {
	span, ok := state.(trace.Span)
	if !ok {
		return
	}

	status := http.StatusOK
	if info, ok := w.(router.ResponseInfo); ok {
		status = info.StatusCode()
	}

	span.SetAttributes(
		attribute.String("http.route", routePattern),
		attribute.Int("http.response.status_code", status),
	)
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}

	if t.spanFinishHook != nil {
		t.spanFinishHook(span, status)
	}
	span.End()
}

// TraceID returns the trace id of the span in ctx, or "".
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// SpanID returns the span id of the span in ctx, or "".
func SpanID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.SpanID().String()
}
