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

package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"centreon.dev/web/router"
)

type accessLogConfig struct {
	exclude  map[string]bool
	prefixes []string
	slow     time.Duration
}

// AccessLogOption configures AccessLog.
type AccessLogOption func(*accessLogConfig)

// WithExcludePaths skips logging for the given paths. A path ending in
// "/*" excludes everything below it.
func WithExcludePaths(paths ...string) AccessLogOption {
	return func(c *accessLogConfig) {
		for _, p := range paths {
			if prefix, ok := strings.CutSuffix(p, "/*"); ok {
				c.prefixes = append(c.prefixes, prefix+"/")
				continue
			}
			c.exclude[p] = true
		}
	}
}

// WithSlowThreshold logs requests slower than d at warn level.
func WithSlowThreshold(d time.Duration) AccessLogOption {
	return func(c *accessLogConfig) { c.slow = d }
}

func (c *accessLogConfig) skip(path string) bool {
	if c.exclude[path] {
		return true
	}
	for _, p := range c.prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// AccessLog logs one line per request: 5xx at error level, 4xx and slow
// requests at warn, everything else at info.
func AccessLog(logger *slog.Logger, opts ...AccessLogOption) Middleware {
	cfg := &accessLogConfig{exclude: make(map[string]bool)}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		if logger == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.skip(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rw := router.NewResponseWriter(w)
			next.ServeHTTP(rw, r)
			elapsed := time.Since(start)

			status := rw.StatusCode()
			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest, cfg.slow > 0 && elapsed > cfg.slow:
				level = slog.LevelWarn
			}

			logger.LogAttrs(r.Context(), level, "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int64("bytes", rw.Size()),
				slog.Duration("duration", elapsed),
				slog.String("remote", r.RemoteAddr),
				slog.String("user_agent", r.UserAgent()),
				slog.String("request_id", GetRequestID(r.Context())),
			)
		})
	}
}
