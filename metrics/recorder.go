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
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"centreon.dev/web/router"
)

var (
	_ router.ObservabilityRecorder = (*Recorder)(nil)
	_ router.DiagnosticHandler     = (*Recorder)(nil)
)

// requestState is carried between OnRequestStart and OnRequestEnd.
type requestState struct {
	start  time.Time
	method string
	attrs  []attribute.KeyValue
}

// OnRequestStart implements router.ObservabilityRecorder. Excluded paths
// return a nil state and are not recorded.
func (r *Recorder) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	if r.filter.shouldExclude(req.URL.Path) {
		return ctx, nil
	}

	st := &requestState{
		start:  time.Now(),
		method: req.Method,
		attrs:  []attribute.KeyValue{r.serviceNameAttr, r.serviceVersionAttr},
	}
	r.activeRequests.Add(ctx, 1, metric.WithAttributes(st.attrs...))
	return ctx, st
}

// WrapResponseWriter implements router.ObservabilityRecorder.
func (r *Recorder) WrapResponseWriter(w http.ResponseWriter, _ any) http.ResponseWriter {
	if _, ok := w.(router.ResponseInfo); ok {
		return w
	}
	return router.NewResponseWriter(w)
}

// OnRequestEnd implements router.ObservabilityRecorder. routePattern is
// the matched route template or one of the router's fallback patterns.
func (r *Recorder) OnRequestEnd(ctx context.Context, state any, w http.ResponseWriter, routePattern string) {
	st, ok := state.(*requestState)
	if !ok {
		return
	}

	status, size := http.StatusOK, int64(0)
	if info, ok := w.(router.ResponseInfo); ok {
		status, size = info.StatusCode(), info.Size()
	}

	r.activeRequests.Add(ctx, -1, metric.WithAttributes(st.attrs...))

	attrs := append(st.attrs,
		attribute.String("http.request.method", st.method),
		attribute.String("http.route", routePattern),
		attribute.Int("http.response.status_code", status),
		attribute.String("http.status_class", statusClass(status)),
	)
	set := metric.WithAttributes(attrs...)

	r.requestDuration.Record(ctx, time.Since(st.start).Seconds(), set)
	r.requestCount.Add(ctx, 1, set)
	if size > 0 {
		r.responseSize.Record(ctx, size, set)
	}
}

// OnDiagnostic implements router.DiagnosticHandler by counting events per
// kind.
func (r *Recorder) OnDiagnostic(e router.DiagnosticEvent) {
	r.diagnostics.Add(context.Background(), 1, metric.WithAttributes(
		r.serviceNameAttr,
		attribute.String("kind", string(e.Kind)),
	))
	r.logger.Debug("router diagnostic", "kind", e.Kind, "message", e.Message)
}

// statusClass returns the HTTP status class (2xx, 3xx, 4xx, 5xx).
func statusClass(statusCode int) string {
	if statusCode < 100 || statusCode > 599 {
		return "unknown"
	}
	return strconv.Itoa(statusCode/100) + "xx"
}
