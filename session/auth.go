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
	"net/http"
	"time"

	"centreon.dev/web/acl"
)

// Authenticator starts and ends sessions on behalf of a login page.
type Authenticator interface {
	SignIn(w http.ResponseWriter, u User) error
	SignOut(w http.ResponseWriter, s *Session)
}

// MemoryAuth signs users into an in-memory store. Admins reach every
// route; other users get ACL, or every route when it is nil.
type MemoryAuth struct {
	Store *Memory
	ACL   acl.Evaluator
}

// SignIn implements Authenticator.
func (a MemoryAuth) SignIn(w http.ResponseWriter, u User) error {
	ev := a.ACL
	if u.Admin || ev == nil {
		ev = acl.AllowAll
	}
	http.SetCookie(w, a.Store.Cookie(a.Store.Create(&u, ev)))
	return nil
}

// SignOut implements Authenticator.
func (a MemoryAuth) SignOut(w http.ResponseWriter, s *Session) {
	a.Store.Destroy(s.ID)
	c := a.Store.Cookie(s)
	c.Value = ""
	c.MaxAge = -1
	http.SetCookie(w, c)
}

// JWTAuth hands out signed tokens in a cookie.
type JWTAuth struct {
	Store  *JWT
	Cookie string
	TTL    time.Duration
	// Routes are granted to non-admin users.
	Routes []string
}

// SignIn implements Authenticator.
func (a JWTAuth) SignIn(w http.ResponseWriter, u User) error {
	token, err := a.Store.Issue(u, a.Routes, a.TTL)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookie(),
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// SignOut implements Authenticator. Tokens stay valid until they expire.
func (a JWTAuth) SignOut(w http.ResponseWriter, _ *Session) {
	http.SetCookie(w, &http.Cookie{Name: a.cookie(), Value: "", Path: "/", MaxAge: -1})
}

func (a JWTAuth) cookie() string {
	if a.Cookie == "" {
		return DefaultCookie
	}
	return a.Cookie
}
