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
	"context"
	"crypto/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// RequestIDHeader is the default request id header.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

type requestIDConfig struct {
	header        string
	generator     func() string
	allowClientID bool
}

// RequestIDOption configures RequestID.
type RequestIDOption func(*requestIDConfig)

// WithHeader sets the header carrying the request id.
func WithHeader(name string) RequestIDOption {
	return func(c *requestIDConfig) { c.header = name }
}

// WithGenerator sets the function generating new ids.
func WithGenerator(fn func() string) RequestIDOption {
	return func(c *requestIDConfig) { c.generator = fn }
}

// WithULID generates ULIDs instead of UUIDv7.
func WithULID() RequestIDOption {
	return WithGenerator(newULID)
}

// WithAllowClientID controls whether an id sent by the client is reused.
// Default: true.
func WithAllowClientID(allow bool) RequestIDOption {
	return func(c *requestIDConfig) { c.allowClientID = allow }
}

func newUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

var (
	ulidEntropy   = ulid.Monotonic(rand.Reader, 0)
	ulidEntropyMu sync.Mutex
)

func newULID() string {
	ulidEntropyMu.Lock()
	defer ulidEntropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// RequestID tags every request with an id, echoed in the response header
// and stored in the request context. UUIDv7 ids are generated by default.
func RequestID(opts ...RequestIDOption) Middleware {
	cfg := &requestIDConfig{
		header:        RequestIDHeader,
		generator:     newUUIDv7,
		allowClientID: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cfg.allowClientID {
				id = r.Header.Get(cfg.header)
			}
			if id == "" {
				id = cfg.generator()
			}

			w.Header().Set(cfg.header, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		})
	}
}

// GetRequestID returns the request id stored in ctx, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
