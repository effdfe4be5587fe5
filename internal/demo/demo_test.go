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

package demo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centreon.dev/web/discovery"
	"centreon.dev/web/router"
	"centreon.dev/web/session"
)

func newDemoRouter(t *testing.T, auth session.Authenticator, store session.Store) *router.Router {
	t.Helper()

	reg := router.NewRegistry()
	require.NoError(t, Register(reg, auth))

	r, err := router.New(
		router.WithBaseURL("/centreon"),
		router.WithRegistry(reg),
		router.WithTableBuilder(discovery.NewBuilder(Modules(), reg, discovery.WithFS(FS))),
		router.WithSessionStore(store),
		router.WithLogin(LoginID, LoginAction),
	)
	require.NoError(t, err)
	require.NoError(t, r.Build(context.Background()))
	return r
}

func do(h http.Handler, req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func signIn(t *testing.T, h http.Handler, login, redirect string) (*httptest.ResponseRecorder, *http.Cookie) {
	t.Helper()

	form := url.Values{"login": {login}, "redirect": {redirect}}
	req := httptest.NewRequest(http.MethodPost, "/centreon/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := do(h, req)

	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		return w, nil
	}
	return w, cookies[0]
}

func TestModules_Discovery(t *testing.T) {
	t.Parallel()

	reg := router.NewRegistry()
	require.NoError(t, Register(reg, session.MemoryAuth{Store: session.NewMemory("")}))

	ids, err := discovery.NewBuilder(Modules(), reg, discovery.WithFS(FS)).Controllers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{ErrorsID, HostsID, LoginID, StatusID}, ids)

	require.Error(t, Register(reg, session.MemoryAuth{}), "controllers register once")
}

func TestDemo_AnonymousAccess(t *testing.T) {
	t.Parallel()

	mem := session.NewMemory("")
	r := newDemoRouter(t, session.MemoryAuth{Store: mem}, mem)

	tests := []struct {
		name         string
		method       string
		path         string
		wantStatus   int
		wantLocation string
		wantBody     string
	}{
		{"protected page goes to login", http.MethodGet, "/centreon/hosts/1", http.StatusFound, "/centreon/login?redirect=%2Fhosts%2F1", ""},
		{"stylesheet is public", http.MethodGet, "/centreon/static/theme/dark.css", http.StatusOK, "", "theme/dark"},
		{"login page is public", http.MethodGet, "/centreon/login?redirect=/hosts", http.StatusOK, "", `action="/centreon/login"`},
		{"unknown page", http.MethodGet, "/centreon/nothing", http.StatusNotFound, "", "page not found: /nothing"},
		{"wrong method", http.MethodDelete, "/centreon/hosts", http.StatusMethodNotAllowed, "", "DELETE is not allowed on /hosts"},
		{"outside base url", http.MethodGet, "/hosts", http.StatusNotFound, "", "page not found: /hosts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := do(r, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestDemo_MemorySession(t *testing.T) {
	t.Parallel()

	mem := session.NewMemory("")
	r := newDemoRouter(t, session.MemoryAuth{Store: mem}, mem)

	w, _ := signIn(t, r, " ", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, cookie := signIn(t, r, "admin", "/hosts/1")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/centreon/hosts/1", w.Header().Get("Location"))
	require.NotNil(t, cookie)
	assert.Equal(t, session.DefaultCookie, cookie.Name)

	w = do(r, httptest.NewRequest(http.MethodGet, "/centreon/hosts/1", nil), cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var shown struct {
		Host Host   `json:"host"`
		Tab  string `json:"tab"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shown))
	assert.Equal(t, "central", shown.Host.Name)
	assert.Equal(t, "summary", shown.Tab)

	req := httptest.NewRequest(http.MethodPost, "/centreon/hosts", strings.NewReader(`{"name":"poller-2","address":"10.0.0.12"}`))
	w = do(r, req, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/centreon/hosts/3", w.Header().Get("Location"))

	w = do(r, httptest.NewRequest(http.MethodPost, "/centreon/hosts", strings.NewReader(`{"name":"x"}`)), cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, httptest.NewRequest(http.MethodGet, "/centreon/hosts/export.csv", nil), cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "3,poller-2,10.0.0.12")

	w = do(r, httptest.NewRequest(http.MethodGet, "/centreon/hosts/export.xml", nil), cookie)
	assert.Equal(t, http.StatusNotAcceptable, w.Code)

	w = do(r, httptest.NewRequest(http.MethodGet, "/centreon/hosts/99", nil), cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, httptest.NewRequest(http.MethodGet, "/centreon/api/status", nil), cookie)
	assert.JSONEq(t, `{"status":"ok","user":"admin"}`, w.Body.String())

	w = do(r, httptest.NewRequest(http.MethodPost, "/centreon/logout", nil), cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	w = do(r, httptest.NewRequest(http.MethodGet, "/centreon/hosts", nil), cookie)
	assert.Equal(t, http.StatusFound, w.Code, "session ended")
}

func TestDemo_RedirectStaysLocal(t *testing.T) {
	t.Parallel()

	mem := session.NewMemory("")
	r := newDemoRouter(t, session.MemoryAuth{Store: mem}, mem)

	w, _ := signIn(t, r, "admin", "//evil.example/")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/centreon/hosts", w.Header().Get("Location"))
}

func TestDemo_JWTSession(t *testing.T) {
	t.Parallel()

	store := session.NewJWT([]byte("test-secret"), session.WithCookie("token"))
	r := newDemoRouter(t, session.JWTAuth{Store: store, Cookie: "token", TTL: time.Hour}, store)

	w, cookie := signIn(t, r, "operator", "/api/status")
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.NotNil(t, cookie)
	assert.Equal(t, "token", cookie.Name)

	w = do(r, httptest.NewRequest(http.MethodGet, "/centreon/api/status", nil), cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","user":"operator"}`, w.Body.String())

	w = do(r, httptest.NewRequest(http.MethodPost, "/centreon/logout", nil), cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	expired := w.Result().Cookies()
	require.Len(t, expired, 1)
	assert.Equal(t, -1, expired[0].MaxAge)
}
