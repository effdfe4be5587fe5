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
	"log/slog"
	"strings"
	"time"

	"centreon.dev/web/acl"
	"centreon.dev/web/cache"
	problems "centreon.dev/web/errors"
	"centreon.dev/web/session"
)

// Option defines functional options for router configuration.
type Option func(*Router)

// WithBaseURL sets the prefix the application is served under, such as
// "/centreon". A trailing slash is ignored.
func WithBaseURL(base string) Option {
	return func(r *Router) {
		r.baseURL = strings.TrimRight(base, "/")
	}
}

// WithRegistry sets the controller registry used to resolve and create
// controllers. Without WithTableBuilder the registry also supplies the
// route table.
func WithRegistry(reg *Registry) Option {
	return func(r *Router) {
		r.registry = reg
	}
}

// WithTableBuilder sets where the route table comes from on a cache miss,
// typically a *discovery.Builder.
func WithTableBuilder(b TableBuilder) Option {
	return func(r *Router) {
		r.builder = b
	}
}

// WithCache sets the store the encoded route table is kept in.
// Default: an in-memory store.
func WithCache(store cache.Store) Option {
	return func(r *Router) {
		r.cache = store
	}
}

// WithCacheKey replaces the "routes" cache key.
func WithCacheKey(key string) Option {
	return func(r *Router) {
		r.cacheKey = key
	}
}

// WithCacheCodec sets how the route table is encoded in the cache.
// Default: cache.JSON.
func WithCacheCodec(codec cache.Codec) Option {
	return func(r *Router) {
		if codec != nil {
			r.codec = codec
		}
	}
}

// WithACL sets the evaluator consulted for every concrete route when the
// bindings are built. Denied routes answer 403 for every method.
// Default: acl.AllowAll.
func WithACL(ev acl.Evaluator) Option {
	return func(r *Router) {
		r.acl = ev
	}
}

// WithPerRequestACL additionally checks each request against the ACL of
// its session.
func WithPerRequestACL() Option {
	return func(r *Router) {
		r.perRequestACL = true
	}
}

// WithSessionStore sets where request sessions are loaded from.
// Without a store every request is anonymous.
func WithSessionStore(store session.Store) Option {
	return func(r *Router) {
		r.sessions = store
	}
}

// WithLogin sets the controller action anonymous requests are handed to.
// Requests to the login controller itself are never redirected.
// Without a login target anonymous requests get a 401 problem response.
func WithLogin(controllerID, action string) Option {
	return func(r *Router) {
		r.login = &loginTarget{controllerID: controllerID, action: action}
	}
}

// WithErrorFormatter sets how canned responses and action errors are
// rendered. Default: RFC 9457 problem details.
func WithErrorFormatter(f problems.Formatter) Option {
	return func(r *Router) {
		r.formatter = f
	}
}

// WithLogger sets the logger for build and dispatch events.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		r.logger = l
	}
}

// WithObservability sets the observability recorder.
// Use MultiRecorder to combine metrics and tracing.
func WithObservability(rec ObservabilityRecorder) Option {
	return func(r *Router) {
		r.observability = rec
	}
}

// WithDiagnostics sets a diagnostic handler for the router.
//
//	handler := router.DiagnosticHandlerFunc(func(e router.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	r := router.MustNew(router.WithDiagnostics(handler))
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(r *Router) {
		r.diagnostics = handler
	}
}

// WithH2C enables HTTP/2 Cleartext support in Serve.
//
// Only use in development or behind a trusted load balancer.
func WithH2C(enable bool) Option {
	return func(r *Router) {
		r.enableH2C = enable
	}
}

// WithServerTimeouts configures HTTP server timeouts used by Serve.
//
// Defaults (if not set):
//
//	ReadHeaderTimeout: 5s
//	ReadTimeout:       15s
//	WriteTimeout:      30s
//	IdleTimeout:       60s
func WithServerTimeouts(readHeader, read, write, idle time.Duration) Option {
	return func(r *Router) {
		r.serverTimeouts = &serverTimeouts{
			readHeader: readHeader,
			read:       read,
			write:      write,
			idle:       idle,
		}
	}
}

// serverTimeouts holds HTTP server timeout configuration.
type serverTimeouts struct {
	readHeader time.Duration
	read       time.Duration
	write      time.Duration
	idle       time.Duration
}

func defaultServerTimeouts() *serverTimeouts {
	return &serverTimeouts{
		readHeader: 5 * time.Second,
		read:       15 * time.Second,
		write:      30 * time.Second,
		idle:       60 * time.Second,
	}
}
