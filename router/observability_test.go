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

//go:build !integration

package router

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxMarker struct{}

// recorder logs every hook call it sees.
type recorder struct {
	name string
	log  *callLog
}

type callLog struct {
	mu    sync.Mutex
	calls []string
	ends  []endCall
}

type endCall struct {
	pattern string
	status  int
	size    int64
}

func (l *callLog) add(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, s)
}

func (rec *recorder) OnRequestStart(ctx context.Context, _ *http.Request) (context.Context, any) {
	rec.log.add(rec.name + ":start")
	return context.WithValue(ctx, ctxMarker{}, rec.name), rec.name
}

func (rec *recorder) WrapResponseWriter(w http.ResponseWriter, _ any) http.ResponseWriter {
	rec.log.add(rec.name + ":wrap")
	return &ResponseWriter{ResponseWriter: w}
}

func (rec *recorder) OnRequestEnd(ctx context.Context, state any, w http.ResponseWriter, pattern string) {
	rec.log.add(rec.name + ":end:" + state.(string))
	info, ok := w.(ResponseInfo)
	if !ok {
		return
	}
	rec.log.mu.Lock()
	defer rec.log.mu.Unlock()
	rec.log.ends = append(rec.log.ends, endCall{pattern: pattern, status: info.StatusCode(), size: info.Size()})
}

func TestObservability_Patterns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		method      string
		target      string
		wantPattern string
		wantStatus  int
	}{
		{"matched route", http.MethodGet, "/centreon/hosts/1", "/hosts/[i:id]/[a:tab]?", http.StatusOK},
		{"not found", http.MethodGet, "/centreon/nowhere", PatternNotFound, http.StatusNotFound},
		{"method not allowed", http.MethodDelete, "/centreon/hosts", PatternMethodNotAllowed, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			log := &callLog{}
			f := newFixture(t)
			r := f.newTestRouter(t, WithObservability(&recorder{name: "a", log: log}))

			w := serve(r, tt.method, tt.target)
			assert.Equal(t, tt.wantStatus, w.Code)

			require.Len(t, log.ends, 1)
			assert.Equal(t, tt.wantPattern, log.ends[0].pattern)
			assert.Equal(t, tt.wantStatus, log.ends[0].status)
			assert.Positive(t, log.ends[0].size)
		})
	}
}

func TestMultiRecorder(t *testing.T) {
	t.Parallel()

	log := &callLog{}
	f := newFixture(t)
	r := f.newTestRouter(t, WithObservability(MultiRecorder(
		&recorder{name: "a", log: log},
		nil,
		&recorder{name: "b", log: log},
	)))

	serve(r, http.MethodGet, "/centreon/hosts")

	assert.Equal(t, []string{
		"a:start", "b:start",
		"a:wrap", "b:wrap",
		"b:end:b", "a:end:a",
	}, log.calls)
}

func TestResponseWriter(t *testing.T) {
	t.Parallel()

	w := NewResponseWriter(&nopWriter{header: http.Header{}})
	assert.Same(t, w, NewResponseWriter(w))
	assert.Equal(t, http.StatusOK, w.StatusCode())
	assert.False(t, w.Written())

	w.WriteHeader(http.StatusTeapot)
	w.WriteHeader(http.StatusOK)
	n, err := w.Write([]byte("tea"))
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Equal(t, http.StatusTeapot, w.StatusCode())
	assert.Equal(t, int64(3), w.Size())
	assert.True(t, w.Written())

	_, _, err = w.Hijack()
	require.ErrorIs(t, err, ErrResponseWriterNotHijacker)
	assert.NotPanics(t, w.Flush)
}

type nopWriter struct {
	header http.Header
}

func (w *nopWriter) Header() http.Header         { return w.header }
func (w *nopWriter) Write(b []byte) (int, error) { return len(b), nil }
func (w *nopWriter) WriteHeader(int)             {}
