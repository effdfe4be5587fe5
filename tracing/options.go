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
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Tracer.
type Option func(*Tracer)

// WithTracerProvider uses provider instead of creating one. Shutdown then
// leaves it alone.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(t *Tracer) {
		t.tracerProvider = provider
	}
}

// WithGlobalTracerProvider registers the provider and propagator as the
// OpenTelemetry globals.
func WithGlobalTracerProvider() Option {
	return func(t *Tracer) {
		t.registerGlobal = true
	}
}

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(t *Tracer) {
		t.serviceName = name
	}
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) Option {
	return func(t *Tracer) {
		t.serviceVersion = version
	}
}

// WithSampleRate samples a fraction of root spans, between 0 and 1.
// Sampled parents are always followed.
func WithSampleRate(rate float64) Option {
	return func(t *Tracer) {
		t.sampleRate = rate
	}
}

// WithStdout exports finished spans as JSON to w.
func WithStdout(w io.Writer) Option {
	return func(t *Tracer) {
		t.stdout = w
	}
}

// WithOTLP exports finished spans over OTLP/HTTP to endpoint, given as
// "host:port" or a URL. An "http://" URL disables TLS; any path is ignored
// in favor of the standard /v1/traces.
func WithOTLP(endpoint string) Option {
	return func(t *Tracer) {
		t.otlpEndpoint = endpoint
		t.otlpGRPC = false
	}
}

// WithOTLPGRPC exports finished spans over OTLP/gRPC to endpoint, given as
// "host:port" or a URL. An "http://" URL disables TLS.
//
//	tracing.WithOTLPGRPC("http://otel-collector:4317")
func WithOTLPGRPC(endpoint string) Option {
	return func(t *Tracer) {
		t.otlpEndpoint = endpoint
		t.otlpGRPC = true
	}
}

// WithPropagator replaces the W3C trace context and baggage propagator.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(t *Tracer) {
		t.propagator = p
	}
}

// WithHeaders records the named request headers as span attributes.
// Credentials should not be listed.
func WithHeaders(headers ...string) Option {
	return func(t *Tracer) {
		t.recordHeaders = append(t.recordHeaders, headers...)
	}
}

// WithLogger sets the logger for tracer events.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithSpanStartHook sets a hook run when a request span starts.
func WithSpanStartHook(hook SpanStartHook) Option {
	return func(t *Tracer) {
		t.spanStartHook = hook
	}
}

// WithSpanFinishHook sets a hook run before a request span ends.
func WithSpanFinishHook(hook SpanFinishHook) Option {
	return func(t *Tracer) {
		t.spanFinishHook = hook
	}
}
