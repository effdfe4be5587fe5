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

package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

const (
	healthzPath  = "/healthz"
	readyzPath   = "/readyz"
	checkTimeout = time.Second
)

// CheckFunc reports whether a dependency is usable.
type CheckFunc func(ctx context.Context) error

var errNoRoutes = errors.New("route table not built")

// registerHealthEndpoints mounts the liveness and readiness probes. They
// sit outside the router so they answer while the route table is missing.
func (a *App) registerHealthEndpoints(mux *http.ServeMux) {
	mux.HandleFunc("GET "+healthzPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	checks := map[string]CheckFunc{
		"routes": a.routesReady,
		"cache":  a.cacheReady,
	}
	for name, fn := range a.checks {
		checks[name] = fn
	}

	mux.HandleFunc("GET "+readyzPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")

		failures := runChecks(r.Context(), checks, checkTimeout)
		if len(failures) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		a.logger.Warn("readiness check failed", "failures", failures)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{"failures": failures})
	})
}

func (a *App) routesReady(context.Context) error {
	if len(a.router.Routes()) == 0 {
		return errNoRoutes
	}
	return nil
}

func (a *App) cacheReady(ctx context.Context) error {
	_, _, err := a.cache.Get(ctx, a.config.Cache.Key)
	return err
}

// runChecks runs every check concurrently, each under its own timeout, and
// returns the failures by name.
func runChecks(ctx context.Context, checks map[string]CheckFunc, timeout time.Duration) map[string]string {
	type result struct {
		name string
		err  error
	}

	results := make(chan result, len(checks))
	for name, fn := range checks {
		go func() {
			checkCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			results <- result{name, fn(checkCtx)}
		}()
	}

	failures := make(map[string]string)
	for range len(checks) {
		r := <-results
		if r.err != nil {
			failures[r.name] = r.err.Error()
		}
	}
	return failures
}
