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
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	problems "centreon.dev/web/errors"
	"centreon.dev/web/router"
)

const defaultStackSize = 4 << 10

type recoveryConfig struct {
	logger     *slog.Logger
	formatter  problems.Formatter
	stackTrace bool
	stackSize  int
}

// RecoveryOption configures Recovery.
type RecoveryOption func(*recoveryConfig)

// WithRecoveryLogger sets the logger receiving panic reports. A nil logger
// disables them.
func WithRecoveryLogger(l *slog.Logger) RecoveryOption {
	return func(c *recoveryConfig) { c.logger = l }
}

// WithFormatter sets how the 500 response is rendered.
func WithFormatter(f problems.Formatter) RecoveryOption {
	return func(c *recoveryConfig) { c.formatter = f }
}

// WithStackTrace enables or disables stack capture. Default: true.
func WithStackTrace(enabled bool) RecoveryOption {
	return func(c *recoveryConfig) { c.stackTrace = enabled }
}

// WithStackSize caps the logged stack in bytes. Default: 4KB.
func WithStackSize(size int) RecoveryOption {
	return func(c *recoveryConfig) { c.stackSize = size }
}

// Recovery turns a panicking handler into a 500 response. The panic is
// logged and recorded on the active span. http.ErrAbortHandler is
// re-raised so the server aborts the connection as usual. When the handler
// had already started the response nothing more is written.
func Recovery(opts ...RecoveryOption) Middleware {
	cfg := &recoveryConfig{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		formatter:  problems.NewRFC9457(""),
		stackTrace: true,
		stackSize:  defaultStackSize,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := router.NewResponseWriter(w)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err := fmt.Errorf("panic: %v", rec)
				span := trace.SpanFromContext(r.Context())
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())

				if cfg.logger != nil {
					attrs := []any{
						"error", err,
						"method", r.Method,
						"path", r.URL.Path,
						"request_id", GetRequestID(r.Context()),
					}
					if cfg.stackTrace {
						stack := debug.Stack()
						if cfg.stackSize > 0 && len(stack) > cfg.stackSize {
							stack = stack[:cfg.stackSize]
						}
						attrs = append(attrs, "stack", string(stack))
					}
					cfg.logger.ErrorContext(r.Context(), "panic recovered", attrs...)
				}

				if rw.Written() {
					return
				}
				resp := cfg.formatter.Format(r, problems.WithStatus(nil, http.StatusInternalServerError))
				_ = problems.Write(rw, resp)
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
