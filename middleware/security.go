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
	"net/http"
	"strconv"
)

type securityConfig struct {
	frameOptions   string
	nosniff        bool
	csp            string
	referrerPolicy string
	hstsMaxAge     int
	custom         map[string]string
}

// SecurityOption configures SecurityHeaders.
type SecurityOption func(*securityConfig)

// WithFrameOptions sets X-Frame-Options. "" omits the header.
func WithFrameOptions(v string) SecurityOption {
	return func(c *securityConfig) { c.frameOptions = v }
}

// WithContentSecurityPolicy sets Content-Security-Policy. "" omits it.
func WithContentSecurityPolicy(policy string) SecurityOption {
	return func(c *securityConfig) { c.csp = policy }
}

// WithReferrerPolicy sets Referrer-Policy. "" omits it.
func WithReferrerPolicy(policy string) SecurityOption {
	return func(c *securityConfig) { c.referrerPolicy = policy }
}

// WithHSTS sends Strict-Transport-Security with the given max-age in
// seconds on TLS requests. Zero disables it.
func WithHSTS(maxAge int) SecurityOption {
	return func(c *securityConfig) { c.hstsMaxAge = maxAge }
}

// WithCustomHeader adds a fixed response header.
func WithCustomHeader(name, value string) SecurityOption {
	return func(c *securityConfig) { c.custom[name] = value }
}

// SecurityHeaders sets protective response headers before the handler runs.
// Headers the handler sets itself take precedence.
func SecurityHeaders(opts ...SecurityOption) Middleware {
	cfg := &securityConfig{
		frameOptions:   "DENY",
		nosniff:        true,
		csp:            "default-src 'self'",
		referrerPolicy: "strict-origin-when-cross-origin",
		custom:         make(map[string]string),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	headers := http.Header{}
	if cfg.frameOptions != "" {
		headers.Set("X-Frame-Options", cfg.frameOptions)
	}
	if cfg.nosniff {
		headers.Set("X-Content-Type-Options", "nosniff")
	}
	if cfg.csp != "" {
		headers.Set("Content-Security-Policy", cfg.csp)
	}
	if cfg.referrerPolicy != "" {
		headers.Set("Referrer-Policy", cfg.referrerPolicy)
	}
	for k, v := range cfg.custom {
		headers.Set(k, v)
	}
	hsts := ""
	if cfg.hstsMaxAge > 0 {
		hsts = "max-age=" + strconv.Itoa(cfg.hstsMaxAge) + "; includeSubDomains"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for k := range headers {
				h.Set(k, headers.Get(k))
			}
			if hsts != "" && r.TLS != nil {
				h.Set("Strict-Transport-Security", hsts)
			}
			next.ServeHTTP(w, r)
		})
	}
}
