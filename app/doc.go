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

// Package app assembles the web front controller from its configuration:
// the route cache, the session store, controller discovery, metrics,
// tracing and the router itself.
//
//	cfg, err := config.Load(ctx)
//	if err != nil {
//	    return err
//	}
//	a, err := app.New(cfg)
//	if err != nil {
//	    return err
//	}
//	return a.Run(ctx)
//
// The HTTP handler serves the router under the configured base URL plus
// /healthz, /readyz and, when enabled, the Prometheus endpoint.
package app
