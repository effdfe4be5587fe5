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

package router

import (
	"context"
	"net/http"
)

// Route patterns reported to ObservabilityRecorder when no binding served
// the request.
const (
	PatternNotFound         = "_not_found"
	PatternMethodNotAllowed = "_method_not_allowed"
)

// ObservabilityRecorder provides lifecycle hooks for each request.
// Implementations typically combine metrics collection and tracing.
//
// Lifecycle:
//  1. OnRequestStart(ctx, req) returns an enriched context and an opaque
//     state token. The enriched context is always used.
//  2. If state is nil the request is excluded: no wrapping, no OnRequestEnd.
//  3. WrapResponseWriter wraps the writer to capture status and size.
//  4. The request is dispatched.
//  5. OnRequestEnd receives the route pattern: the declared template, or
//     PatternNotFound / PatternMethodNotAllowed.
//
// All methods must be safe for concurrent use.
type ObservabilityRecorder interface {
	OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any)
	WrapResponseWriter(w http.ResponseWriter, state any) http.ResponseWriter
	OnRequestEnd(ctx context.Context, state any, writer http.ResponseWriter, routePattern string)
}

// ResponseInfo is implemented by response writers that track response metadata.
type ResponseInfo interface {
	StatusCode() int
	Size() int64
}

// MultiRecorder combines recorders. Start hooks run in order and end hooks
// in reverse order, each with its own state.
func MultiRecorder(recorders ...ObservabilityRecorder) ObservabilityRecorder {
	var rs []ObservabilityRecorder
	for _, r := range recorders {
		if r != nil {
			rs = append(rs, r)
		}
	}
	return multiRecorder(rs)
}

type multiRecorder []ObservabilityRecorder

type multiState []any

func (m multiRecorder) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	states := make(multiState, len(m))
	active := false
	for i, r := range m {
		ctx, states[i] = r.OnRequestStart(ctx, req.WithContext(ctx))
		active = active || states[i] != nil
	}
	if !active {
		return ctx, nil
	}
	return ctx, states
}

func (m multiRecorder) WrapResponseWriter(w http.ResponseWriter, state any) http.ResponseWriter {
	states, _ := state.(multiState)
	for i, r := range m {
		if i < len(states) && states[i] != nil {
			w = r.WrapResponseWriter(w, states[i])
		}
	}
	return w
}

func (m multiRecorder) OnRequestEnd(ctx context.Context, state any, w http.ResponseWriter, routePattern string) {
	states, _ := state.(multiState)
	for i := len(m) - 1; i >= 0; i-- {
		if i < len(states) && states[i] != nil {
			m[i].OnRequestEnd(ctx, states[i], w, routePattern)
		}
	}
}
