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

// DiagnosticEvent represents a router diagnostic or anomaly.
// These are informational events that may indicate configuration issues.
type DiagnosticEvent struct {
	Kind    DiagnosticKind
	Message string
	Fields  map[string]any // Structured context
}

// DiagnosticKind categorizes diagnostic events.
type DiagnosticKind string

const (
	// Table diagnostics
	DiagTableRebuilt       DiagnosticKind = "table_rebuilt"
	DiagCacheCorrupt       DiagnosticKind = "route_cache_corrupt"
	DiagRouteRegistered    DiagnosticKind = "route_registered"
	DiagRouteDenied        DiagnosticKind = "route_denied"
	DiagNotFoundOverridden DiagnosticKind = "not_found_overridden"

	// Reverse resolution diagnostics
	DiagUnresolvedParam DiagnosticKind = "unresolved_param"

	// Server diagnostics
	DiagH2CEnabled DiagnosticKind = "h2c_enabled"
)

// DiagnosticHandler receives diagnostic events from the router.
// Implementations may log, emit metrics, trace events, or ignore them.
// If none is configured, diagnostics are dropped.
//
//	handler := router.DiagnosticHandlerFunc(func(e router.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	r := router.MustNew(router.WithDiagnostics(handler))
type DiagnosticHandler interface {
	OnDiagnostic(DiagnosticEvent)
}

// DiagnosticHandlerFunc is a function adapter for DiagnosticHandler.
type DiagnosticHandlerFunc func(DiagnosticEvent)

// OnDiagnostic implements DiagnosticHandler.
func (f DiagnosticHandlerFunc) OnDiagnostic(e DiagnosticEvent) {
	f(e)
}

// MultiDiagnostics fans events out to several handlers.
func MultiDiagnostics(handlers ...DiagnosticHandler) DiagnosticHandler {
	return DiagnosticHandlerFunc(func(e DiagnosticEvent) {
		for _, h := range handlers {
			if h != nil {
				h.OnDiagnostic(e)
			}
		}
	})
}
