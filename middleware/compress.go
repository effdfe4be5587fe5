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
	"compress/gzip"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
)

type compressConfig struct {
	gzipLevel   int
	brotliLevel int
	brotli      bool
}

// CompressOption configures Compress.
type CompressOption func(*compressConfig)

// WithGzipLevel sets the gzip level. Default: gzip.DefaultCompression.
func WithGzipLevel(level int) CompressOption {
	return func(c *compressConfig) { c.gzipLevel = level }
}

// WithBrotliLevel sets the brotli level, 0 to 11. Default: 4.
func WithBrotliLevel(level int) CompressOption {
	return func(c *compressConfig) { c.brotliLevel = level }
}

// WithoutBrotli only ever answers with gzip.
func WithoutBrotli() CompressOption {
	return func(c *compressConfig) { c.brotli = false }
}

// Compress encodes responses with brotli or gzip, whichever the client
// accepts, brotli first. Responses the handler already encoded, bodiless
// statuses and binary media types are sent as is.
func Compress(opts ...CompressOption) Middleware {
	cfg := &compressConfig{
		gzipLevel:   gzip.DefaultCompression,
		brotliLevel: 4,
		brotli:      true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Accept-Encoding")

			encoding := cfg.negotiate(r.Header.Get("Accept-Encoding"))
			if encoding == "" || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			cw := &compressWriter{ResponseWriter: w, cfg: cfg, encoding: encoding}
			defer cw.close()
			next.ServeHTTP(cw, r)
		})
	}
}

func (c *compressConfig) negotiate(header string) string {
	var br, gz bool
	for part := range strings.SplitSeq(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if q, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			if v, err := strconv.ParseFloat(q, 64); err == nil && v == 0 {
				continue
			}
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "br":
			br = true
		case "gzip":
			gz = true
		case "*":
			br, gz = true, true
		}
	}
	switch {
	case br && c.brotli:
		return "br"
	case gz:
		return "gzip"
	default:
		return ""
	}
}

// incompressible lists media type prefixes that are already compressed.
var incompressible = []string{
	"image/png", "image/jpeg", "image/gif", "image/webp", "image/avif",
	"video/", "audio/", "font/woff",
	"application/zip", "application/gzip", "application/x-gzip", "application/octet-stream",
}

func compressible(contentType string) bool {
	ct := strings.ToLower(contentType)
	for _, p := range incompressible {
		if strings.HasPrefix(ct, p) {
			return false
		}
	}
	return true
}

type encoder interface {
	io.WriteCloser
	Flush() error
}

type compressWriter struct {
	http.ResponseWriter
	cfg      *compressConfig
	encoding string
	enc      encoder
	decided  bool
}

func (w *compressWriter) decide(status int) {
	if w.decided {
		return
	}
	w.decided = true

	h := w.Header()
	if h.Get("Content-Encoding") != "" || status < http.StatusOK ||
		status == http.StatusNoContent || status == http.StatusNotModified ||
		!compressible(h.Get("Content-Type")) {
		return
	}

	h.Set("Content-Encoding", w.encoding)
	h.Del("Content-Length")
	if w.encoding == "br" {
		w.enc = brotli.NewWriterLevel(w.ResponseWriter, w.cfg.brotliLevel)
		return
	}
	gz, err := gzip.NewWriterLevel(w.ResponseWriter, w.cfg.gzipLevel)
	if err != nil {
		gz = gzip.NewWriter(w.ResponseWriter)
	}
	w.enc = gz
}

func (w *compressWriter) WriteHeader(code int) {
	w.decide(code)
	w.ResponseWriter.WriteHeader(code)
}

func (w *compressWriter) Write(b []byte) (int, error) {
	if !w.decided {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", http.DetectContentType(b))
		}
		w.decide(http.StatusOK)
	}
	if w.enc == nil {
		return w.ResponseWriter.Write(b)
	}
	return w.enc.Write(b)
}

func (w *compressWriter) Flush() {
	if w.enc != nil {
		_ = w.enc.Flush()
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *compressWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func (w *compressWriter) close() {
	if w.enc != nil {
		_ = w.enc.Close()
	}
}
