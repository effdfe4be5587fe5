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

// Package tracing opens an OpenTelemetry span around every dispatched
// request.
//
//	tr := tracing.MustNew(tracing.WithServiceName("centreon-web"), tracing.WithStdout(os.Stderr))
//	defer tr.Shutdown(context.Background())
//
//	r := router.MustNew(router.WithRegistry(reg), router.WithObservability(tr))
//
// Spans are named "router.dispatch" and carry the matched route template
// as http.route once dispatch is over. Incoming W3C trace context headers
// are honoured.
//
// By default the package does not set the global tracer provider.
package tracing
