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

package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centreon.dev/web/acl"
)

func TestSession_Authenticated(t *testing.T) {
	t.Parallel()

	var nilSession *Session
	assert.False(t, nilSession.Authenticated())
	assert.False(t, Anonymous().Authenticated())
	assert.True(t, (&Session{User: &User{ID: "1"}}).Authenticated())
}

func TestSession_RouteAllowed(t *testing.T) {
	t.Parallel()

	assert.True(t, Anonymous().RouteAllowed("/hosts"), "no evaluator allows")

	s := &Session{ACL: acl.NewSet("/hosts")}
	assert.True(t, s.RouteAllowed("/hosts"))
	assert.False(t, s.RouteAllowed("/services"))
}

func TestContext(t *testing.T) {
	t.Parallel()

	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	s := &Session{ID: "abc"}
	got, ok := FromContext(NewContext(context.Background(), s))
	require.True(t, ok)
	assert.Same(t, s, got)
}

func TestStatic(t *testing.T) {
	t.Parallel()

	s := &Session{ID: "fixed"}
	got, err := Static(s).Load(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestMemory(t *testing.T) {
	t.Parallel()

	m := NewMemory("")
	s := m.Create(&User{ID: "7", Login: "admin"}, acl.AllowAll)
	require.NotEmpty(t, s.ID)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(m.Cookie(s))

	got, err := m.Load(req)
	require.NoError(t, err)
	assert.Same(t, s, got)

	m.Destroy(s.ID)
	got, err = m.Load(req)
	require.NoError(t, err)
	assert.False(t, got.Authenticated())

	got, err = m.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.False(t, got.Authenticated(), "missing cookie is anonymous")
}

func TestJWT(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	store := NewJWT(secret, WithCookie("token"), WithIssuer("centreon"))

	token, err := store.Issue(User{ID: "3", Login: "operator"}, []string{"/hosts", "/services/*"}, time.Hour)
	require.NoError(t, err)

	t.Run("bearer header", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		s, err := store.Load(req)
		require.NoError(t, err)
		require.True(t, s.Authenticated())
		assert.Equal(t, "operator", s.User.Login)
		assert.True(t, s.RouteAllowed("/hosts"))
		assert.True(t, s.RouteAllowed("/services/list"))
		assert.False(t, s.RouteAllowed("/admin"))
	})

	t.Run("cookie", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})

		s, err := store.Load(req)
		require.NoError(t, err)
		assert.True(t, s.Authenticated())
	})

	t.Run("no token", func(t *testing.T) {
		t.Parallel()

		s, err := store.Load(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.False(t, s.Authenticated())
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()

		other := NewJWT([]byte("other"), WithIssuer("centreon"))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		s, err := other.Load(req)
		require.ErrorIs(t, err, ErrInvalidToken)
		assert.False(t, s.Authenticated())
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()

		past := NewJWT(secret, WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }))
		old, err := past.Issue(User{ID: "3"}, nil, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+old)

		s, err := store.Load(req)
		require.ErrorIs(t, err, ErrInvalidToken)
		assert.False(t, s.Authenticated())
	})

	t.Run("admin allows everything", func(t *testing.T) {
		t.Parallel()

		adminToken, err := store.Issue(User{ID: "1", Login: "admin", Admin: true}, nil, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+adminToken)

		s, err := store.Load(req)
		require.NoError(t, err)
		assert.True(t, s.RouteAllowed("/anything"))
	})
}

func TestMemoryAuth(t *testing.T) {
	t.Parallel()

	store := NewMemory("sid")
	auth := MemoryAuth{Store: store, ACL: acl.NewSet("/hosts")}

	tests := []struct {
		name      string
		user      User
		wantAdmin bool
	}{
		{"operator gets the configured acl", User{ID: "2", Login: "operator"}, false},
		{"admin reaches everything", User{ID: "1", Login: "admin", Admin: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			require.NoError(t, auth.SignIn(w, tt.user))
			cookies := w.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, "sid", cookies[0].Name)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(cookies[0])
			s, err := store.Load(req)
			require.NoError(t, err)
			require.True(t, s.Authenticated())
			assert.Equal(t, tt.user.Login, s.User.Login)
			assert.True(t, s.RouteAllowed("/hosts"))
			assert.Equal(t, tt.wantAdmin, s.RouteAllowed("/administration"))

			w = httptest.NewRecorder()
			auth.SignOut(w, s)
			out := w.Result().Cookies()
			require.Len(t, out, 1)
			assert.Equal(t, -1, out[0].MaxAge)

			s, err = store.Load(req)
			require.NoError(t, err)
			assert.False(t, s.Authenticated())
		})
	}
}

func TestJWTAuth(t *testing.T) {
	t.Parallel()

	store := NewJWT([]byte("secret"), WithCookie(DefaultCookie))
	auth := JWTAuth{Store: store, TTL: time.Hour, Routes: []string{"/hosts"}}

	w := httptest.NewRecorder()
	require.NoError(t, auth.SignIn(w, User{ID: "7", Login: "operator"}))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultCookie, cookies[0].Name)
	assert.Equal(t, 3600, cookies[0].MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	s, err := store.Load(req)
	require.NoError(t, err)
	assert.Equal(t, "operator", s.User.Login)
	assert.True(t, s.RouteAllowed("/hosts"))
	assert.False(t, s.RouteAllowed("/administration"))

	w = httptest.NewRecorder()
	auth.SignOut(w, s)
	assert.Equal(t, -1, w.Result().Cookies()[0].MaxAge)
}
