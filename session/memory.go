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
	"sync"

	"github.com/google/uuid"

	"centreon.dev/web/acl"
)

// DefaultCookie is the cookie holding the session id.
const DefaultCookie = "centreon_session"

// Memory keeps sessions in process memory, keyed by a cookie value.
// It is safe for concurrent use.
type Memory struct {
	cookie   string
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemory creates an in-memory store reading the named cookie.
// An empty name selects DefaultCookie.
func NewMemory(cookie string) *Memory {
	if cookie == "" {
		cookie = DefaultCookie
	}
	return &Memory{
		cookie:   cookie,
		sessions: make(map[string]*Session),
	}
}

// Create starts a session for u and returns it.
func (m *Memory) Create(u *User, ev acl.Evaluator) *Session {
	s := &Session{ID: uuid.NewString(), User: u, ACL: ev}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return s
}

// Destroy ends the session with the given id.
func (m *Memory) Destroy(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Cookie returns the cookie to send back for s.
func (m *Memory) Cookie(s *Session) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookie,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Load implements Store. Unknown or missing cookies yield an anonymous
// session.
func (m *Memory) Load(r *http.Request) (*Session, error) {
	c, err := r.Cookie(m.cookie)
	if err != nil || c.Value == "" {
		return Anonymous(), nil
	}

	m.mu.RLock()
	s, ok := m.sessions[c.Value]
	m.mu.RUnlock()
	if !ok {
		return Anonymous(), nil
	}
	return s, nil
}
