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

// Package session resolves the per-request session the router gates on.
//
// A Store loads a Session from an incoming request. A session without a user
// is anonymous: the router sends it to the login flow. The session's ACL
// evaluator is consulted when the router checks routes per request.
package session

import (
	"context"
	"errors"
	"net/http"

	"centreon.dev/web/acl"
)

// ErrInvalidToken is returned by stores that reject a presented credential.
var ErrInvalidToken = errors.New("invalid session token")

// User is the authenticated principal.
type User struct {
	ID    string `json:"id"`
	Login string `json:"login"`
	Admin bool   `json:"admin,omitempty"`
}

// Session is the request-scoped state.
type Session struct {
	ID   string
	User *User
	ACL  acl.Evaluator
}

// Anonymous returns a session without a user.
func Anonymous() *Session { return &Session{} }

// Authenticated reports whether a user is attached.
func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil
}

// RouteAllowed asks the session's evaluator. Sessions without an
// evaluator allow every route.
func (s *Session) RouteAllowed(name string) bool {
	if s == nil || s.ACL == nil {
		return true
	}
	return s.ACL.RouteAllowed(name)
}

// Store loads the session for a request.
type Store interface {
	Load(r *http.Request) (*Session, error)
}

// StoreFunc adapts a function to Store.
type StoreFunc func(r *http.Request) (*Session, error)

// Load calls f(r).
func (f StoreFunc) Load(r *http.Request) (*Session, error) { return f(r) }

// Static returns a store that hands out s for every request.
func Static(s *Session) Store {
	return StoreFunc(func(*http.Request) (*Session, error) { return s, nil })
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
