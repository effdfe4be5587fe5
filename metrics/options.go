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
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Option configures a Recorder.
type Option func(*Recorder)

// WithServiceName sets the service.name attribute.
func WithServiceName(name string) Option {
	return func(r *Recorder) {
		r.serviceName = name
	}
}

// WithServiceVersion sets the service.version attribute.
func WithServiceVersion(version string) Option {
	return func(r *Recorder) {
		r.serviceVersion = version
	}
}

// WithDurationBuckets replaces DefaultDurationBuckets.
func WithDurationBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		r.durationBuckets = buckets
	}
}

// WithReader adds a reader next to the Prometheus exporter, for instance
// a periodic OTLP reader or a manual reader in tests.
func WithReader(reader sdkmetric.Reader) Option {
	return func(r *Recorder) {
		r.readers = append(r.readers, reader)
	}
}

// WithOTLP also pushes metrics to an OTLP/HTTP collector. endpoint is
// "host:port" or a URL; an http:// URL disables TLS.
//
//	metrics.WithOTLP("http://otel-collector:4318")
func WithOTLP(endpoint string) Option {
	return func(r *Recorder) {
		r.otlpEndpoint = endpoint
	}
}

// WithStdout also writes metrics as JSON to w every export interval and
// on Shutdown.
func WithStdout(w io.Writer) Option {
	return func(r *Recorder) {
		r.stdout = w
	}
}

// WithExportInterval sets how often metrics are pushed to the OTLP
// collector or written by WithStdout. Default: 30s.
func WithExportInterval(interval time.Duration) Option {
	return func(r *Recorder) {
		r.exportInterval = interval
	}
}

// WithLogger sets the logger for recorder events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithExcludePaths excludes exact request paths from recording.
//
//	metrics.WithExcludePaths("/metrics", "/healthz")
func WithExcludePaths(paths ...string) Option {
	return func(r *Recorder) {
		r.pathFilter().addPaths(paths...)
	}
}

// WithExcludePrefixes excludes request paths starting with any prefix.
func WithExcludePrefixes(prefixes ...string) Option {
	return func(r *Recorder) {
		r.pathFilter().addPrefixes(prefixes...)
	}
}

// WithExcludePatterns excludes request paths matching any regular
// expression. An invalid pattern makes New fail.
func WithExcludePatterns(patterns ...string) Option {
	return func(r *Recorder) {
		for _, pattern := range patterns {
			compiled, err := regexp.Compile(pattern)
			if err != nil {
				r.validationErrors = append(r.validationErrors,
					fmt.Errorf("invalid regex pattern for path exclusion %q: %w", pattern, err))
				continue
			}
			r.pathFilter().addPatterns(compiled)
		}
	}
}

func (r *Recorder) pathFilter() *pathFilter {
	if r.filter == nil {
		r.filter = newPathFilter()
	}
	return r.filter
}
