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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathFor(t *testing.T) {
	t.Parallel()

	r := MustNew(WithRegistry(NewRegistry()), WithBaseURL("/centreon"))

	tests := []struct {
		name    string
		route   string
		params  map[string]string
		opts    []PathOption
		want    string
		wantErr error
	}{
		{name: "static", route: "/hosts", want: "/centreon/hosts"},
		{name: "required param", route: "/hosts/[i:id]", params: map[string]string{"id": "42"}, want: "/centreon/hosts/42"},
		{name: "optional omitted", route: "/hosts/[i:id]/[a:tab]?", params: map[string]string{"id": "42"}, want: "/centreon/hosts/42"},
		{name: "optional given", route: "/hosts/[i:id]/[a:tab]?", params: map[string]string{"id": "42", "tab": "graph"}, want: "/centreon/hosts/42/graph"},
		{name: "dot optional", route: "/export.[:format]?", params: map[string]string{"format": "csv"}, want: "/centreon/export.csv"},
		{name: "missing required", route: "/hosts/[i:id]", wantErr: ErrMissingRouteParameter},
		{name: "missing required lenient", route: "/hosts/[i:id]", opts: []PathOption{Lenient()}, want: "/centreon/hosts/[i:id]"},
		{name: "virtual", route: "@login", want: "/"},
		{name: "virtual kept", route: "@login", opts: []PathOption{KeepVirtual()}, want: "/centreon@login"},
		{name: "virtual with token", route: "@export/[i:id]", params: map[string]string{"id": "7"}, want: "/centreon@export/7"},
		{name: "virtual with token kept", route: "@export/[i:id]", params: map[string]string{"id": "7"}, opts: []PathOption{KeepVirtual()}, want: "/centreon@export/7"},
		{name: "virtual missing required", route: "@export/[i:id]", wantErr: ErrMissingRouteParameter},
		{name: "virtual missing required kept", route: "@export/[i:id]", opts: []PathOption{KeepVirtual()}, wantErr: ErrMissingRouteParameter},
		{name: "virtual optional omitted", route: "@export.[:format]?", want: "/centreon@export"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.PathFor(tt.route, tt.params, tt.opts...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), "id")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathFor_RoundTrip(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	r := f.newTestRouter(t)

	link := r.MustPathFor("/hosts/[i:id]/[a:tab]?", map[string]string{"id": "5", "tab": "graph"})
	w := serve(r, http.MethodGet, link)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"5","tab":"graph"}`, w.Body.String())

	assert.Panics(t, func() { r.MustPathFor("/hosts/[i:id]", nil) })
}

func TestPathFor_LenientDiagnostic(t *testing.T) {
	t.Parallel()

	diag := &recordingDiagnostics{}
	r := MustNew(WithRegistry(NewRegistry()), WithDiagnostics(diag))

	_, err := r.PathFor("/hosts/[i:id]/services/[i:sid]", map[string]string{"id": "1"}, Lenient())
	require.NoError(t, err)

	e, ok := diag.find(DiagUnresolvedParam)
	require.True(t, ok)
	assert.Equal(t, []string{"sid"}, e.Fields["missing"])
}

func TestCurrentURI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		base   string
		target string
		want   string
	}{
		{"strips base", "/centreon", "/centreon/hosts/1", "/hosts/1"},
		{"base only", "/centreon", "/centreon", "/"},
		{"base with slash", "/centreon", "/centreon/", "/"},
		{"foreign path kept", "/centreon", "/other/page", "/other/page"},
		{"literal prefix match", "/centreon", "/centreonx/a", "x/a"},
		{"no base", "", "/hosts", "/hosts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := MustNew(WithRegistry(NewRegistry()), WithBaseURL(tt.base))
			assert.Equal(t, tt.want, r.CurrentURI(httptest.NewRequest(http.MethodGet, tt.target, nil)))
		})
	}
}

func TestHasRoute(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	r := MustNew(WithRegistry(f.reg))
	assert.False(t, r.HasRoute("/hosts"), "nothing before Build")

	require.NoError(t, r.Build(t.Context()))
	assert.True(t, r.HasRoute("/hosts"))
	assert.True(t, r.HasRoute("@login"))
	assert.True(t, r.HasRoute("404"))
	assert.True(t, r.HasRoute("405"))
	assert.False(t, r.HasRoute("/nowhere"))
}
