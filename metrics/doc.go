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

// Package metrics records router traffic with OpenTelemetry instruments
// exported in the Prometheus format.
//
// A Recorder is an ObservabilityRecorder for the router and a
// DiagnosticHandler at the same time:
//
//	rec := metrics.MustNew(metrics.WithServiceName("centreon-web"))
//	defer rec.Shutdown(context.Background())
//
//	r := router.MustNew(
//	    router.WithRegistry(reg),
//	    router.WithObservability(rec),
//	    router.WithDiagnostics(rec),
//	)
//	mux.Handle("/metrics", rec.Handler())
//
// Requests are labelled with the matched route template rather than the
// raw path, so cardinality is bounded by the route table. Unmatched
// requests share the "_not_found" label.
//
// The Recorder keeps its own Prometheus registry and never touches the
// global meter provider, so several recorders can live in one process.
package metrics
