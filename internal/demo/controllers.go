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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"

	"centreon.dev/web/router"
	"centreon.dev/web/router/route"
	"centreon.dev/web/session"
)

const loginPage = `<!doctype html>
<form method="post" action="%s">
<input name="login" placeholder="login">
<input type="hidden" name="redirect" value="%s">
<button>Sign in</button>
</form>
`

func loginRoutes() route.Specs {
	return route.Specs{
		"form":         {Route: "@login", MethodType: http.MethodGet},
		"page":         {Route: "/login", MethodType: http.MethodGet},
		"authenticate": {Route: "/login", MethodType: http.MethodPost},
		"logout":       {Route: "/logout", MethodType: http.MethodPost},
	}
}

type login struct {
	c    *router.Context
	auth session.Authenticator
}

func newLogin(auth session.Authenticator) router.Factory {
	return func(c *router.Context) router.Controller {
		l := &login{c: c, auth: auth}
		return router.Actions{
			"form":         l.form,
			"page":         l.page,
			"authenticate": l.authenticate,
			"logout":       l.logout,
		}
	}
}

// form sends anonymous users to the login page, remembering where they
// were going.
func (l *login) form() error {
	target, err := l.c.PathFor("/login", nil)
	if err != nil {
		return err
	}
	l.c.Redirect(http.StatusFound, target+"?redirect="+url.QueryEscape(l.c.CurrentURI()))
	return nil
}

func (l *login) page() error {
	action, err := l.c.PathFor("/login", nil)
	if err != nil {
		return err
	}
	l.c.Header("Content-Type", "text/html; charset=utf-8")
	redirect := l.c.Request.URL.Query().Get("redirect")
	return l.c.String(http.StatusOK, fmt.Sprintf(loginPage, action, html(redirect)))
}

func (l *login) authenticate() error {
	name := strings.TrimSpace(l.c.Request.PostFormValue("login"))
	if name == "" {
		return l.c.String(http.StatusBadRequest, "login is required")
	}

	u := session.User{ID: name, Login: name, Admin: name == "admin"}
	if err := l.auth.SignIn(l.c.Response, u); err != nil {
		return err
	}

	target := l.c.Request.PostFormValue("redirect")
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		target = "/hosts"
	}
	location, err := l.c.PathFor(target, nil, router.Lenient())
	if err != nil {
		return err
	}
	l.c.Logger().Info("user signed in", "login", name)
	l.c.Redirect(http.StatusSeeOther, location)
	return nil
}

func (l *login) logout() error {
	l.auth.SignOut(l.c.Response, l.c.Session())
	target, err := l.c.PathFor("/login", nil)
	if err != nil {
		return err
	}
	l.c.Redirect(http.StatusSeeOther, target)
	return nil
}

func html(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;").Replace(s)
}

// Host is a monitored host.
type Host struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

var errInvalidHost = errors.New("host name and address are required")

type hostStore struct {
	mu    sync.RWMutex
	hosts []Host
	next  int
}

func newHostStore() *hostStore {
	return &hostStore{
		hosts: []Host{
			{ID: 1, Name: "central", Address: "127.0.0.1"},
			{ID: 2, Name: "poller-1", Address: "10.0.0.11"},
		},
		next: 3,
	}
}

func (s *hostStore) list() []Host {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.hosts)
}

func (s *hostStore) get(id int) (Host, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.hosts, func(h Host) bool { return h.ID == id })
	if i < 0 {
		return Host{}, false
	}
	return s.hosts[i], true
}

func (s *hostStore) add(h Host) Host {
	s.mu.Lock()
	defer s.mu.Unlock()
	h.ID = s.next
	s.next++
	s.hosts = append(s.hosts, h)
	return h
}

func hostRoutes() route.Specs {
	return route.Specs{
		"list":   {Route: "/hosts", MethodType: http.MethodGet},
		"create": {Route: "/hosts", MethodType: http.MethodPost},
		"show":   {Route: "/hosts/[i:id]/[a:tab]?", MethodType: http.MethodGet},
		"export": {Route: "/hosts/export.[:format]?", MethodType: http.MethodGet},
		"theme":  {Route: "/static/[**:file].css", MethodType: http.MethodGet},
	}
}

type hosts struct {
	c     *router.Context
	store *hostStore
}

func (s *hostStore) controller(c *router.Context) router.Controller {
	h := &hosts{c: c, store: s}
	return router.Actions{
		"list":   h.list,
		"create": h.create,
		"show":   h.show,
		"export": h.export,
		"theme":  h.theme,
	}
}

func (h *hosts) list() error {
	return h.c.JSON(http.StatusOK, h.store.list())
}

func (h *hosts) create() error {
	var in Host
	if err := json.NewDecoder(h.c.Request.Body).Decode(&in); err != nil {
		return h.c.String(http.StatusBadRequest, "invalid host: "+err.Error())
	}
	if in.Name == "" || in.Address == "" {
		return h.c.String(http.StatusBadRequest, errInvalidHost.Error())
	}

	created := h.store.add(in)
	location, err := h.c.PathFor("/hosts/[i:id]/[a:tab]?", map[string]string{"id": strconv.Itoa(created.ID)})
	if err != nil {
		return err
	}
	h.c.Header("Location", location)
	return h.c.JSON(http.StatusCreated, created)
}

func (h *hosts) show() error {
	id, err := strconv.Atoi(h.c.Param("id"))
	if err != nil {
		return fmt.Errorf("host id %q: %w", h.c.Param("id"), err)
	}
	host, ok := h.store.get(id)
	if !ok {
		return h.c.String(http.StatusNotFound, "no host with id "+h.c.Param("id"))
	}

	tab := h.c.Param("tab")
	if tab == "" {
		tab = "summary"
	}
	return h.c.JSON(http.StatusOK, map[string]any{"host": host, "tab": tab})
}

func (h *hosts) export() error {
	switch format := h.c.Param("format"); format {
	case "", "json":
		return h.list()
	case "csv":
		var b strings.Builder
		b.WriteString("id,name,address\n")
		for _, host := range h.store.list() {
			fmt.Fprintf(&b, "%d,%s,%s\n", host.ID, host.Name, host.Address)
		}
		h.c.Header("Content-Type", "text/csv; charset=utf-8")
		return h.c.String(http.StatusOK, b.String())
	default:
		return h.c.String(http.StatusNotAcceptable, "unsupported export format "+format)
	}
}

// theme serves stylesheets, reachable before signing in.
func (h *hosts) theme() error {
	h.c.Header("Content-Type", "text/css; charset=utf-8")
	return h.c.String(http.StatusOK, "/* "+h.c.Param("file")+" */\nbody { font-family: sans-serif; }\n")
}

func errorRoutes() route.Specs {
	return route.Specs{
		"notFound":   {Route: route.NotFoundPath, MethodType: http.MethodGet},
		"notAllowed": {Route: route.MethodNotAllowedPath, MethodType: http.MethodGet},
	}
}

func newErrors(c *router.Context) router.Controller {
	return router.Actions{
		"notFound": func() error {
			return c.String(0, "page not found: "+c.CurrentURI())
		},
		"notAllowed": func() error {
			return c.String(0, c.Request.Method+" is not allowed on "+c.CurrentURI())
		},
	}
}

func statusRoutes() route.Specs {
	return route.Specs{
		"status": {Route: "/api/status", MethodType: http.MethodGet},
	}
}

func newStatus(c *router.Context) router.Controller {
	return router.Actions{
		"status": func() error {
			out := map[string]any{"status": "ok"}
			if u := c.Session().User; u != nil {
				out["user"] = u.Login
			}
			return c.JSON(http.StatusOK, out)
		},
	}
}
