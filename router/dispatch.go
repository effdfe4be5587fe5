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

package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	problems "centreon.dev/web/errors"
	"centreon.dev/web/router/compiler"
	"centreon.dev/web/router/route"
	"centreon.dev/web/session"
)

// Problem codes of the canned responses.
const (
	CodeRouteDenied      = "route_denied"
	CodeLoginRequired    = "login_required"
	CodeNotFound         = "route_not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeRoutingFailed    = "routing_unavailable"
)

// ServeHTTP matches the request against the bindings and dispatches it.
// Bindings are built on first use.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	var obsState any

	if r.observability != nil {
		var enrichedCtx context.Context
		enrichedCtx, obsState = r.observability.OnRequestStart(ctx, req)
		if enrichedCtx != ctx {
			ctx = enrichedCtx
			req = req.WithContext(ctx)
		}
		if obsState != nil {
			w = r.observability.WrapResponseWriter(w, obsState)
		}
	}

	pattern := r.dispatch(w, req)

	if obsState != nil {
		r.observability.OnRequestEnd(ctx, obsState, w, pattern)
	}
}

// dispatch serves req and returns the route pattern for observability.
func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) string {
	bs, err := r.live(req.Context())
	if err != nil {
		r.logger.Error("route bindings unavailable", "error", err)
		r.writeProblem(w, req, http.StatusServiceUnavailable, CodeRoutingFailed, err)
		return PatternNotFound
	}

	res := bs.routes.Match(req.Method, req.URL.Path)
	switch {
	case res.Route != nil:
		b := bs.byIndex[res.Route.Index()]
		r.serveBinding(w, req, b, res.Params)
		return b.record.Path

	case res.PathMatched:
		r.methodNotAllowed(w, req, bs)
		return PatternMethodNotAllowed

	default:
		r.notFound(w, req, bs)
		return PatternNotFound
	}
}

// live returns the current bindings, building them if needed.
func (r *Router) live(ctx context.Context) (*bindingSet, error) {
	if bs := r.bindings.Load(); bs != nil {
		return bs, nil
	}

	// Waiters share the build, so the request that started it must not
	// be able to cancel it.
	bctx := context.WithoutCancel(ctx)
	_, err, _ := r.fill.Do("\x00bind", func() (any, error) {
		if r.bindings.Load() != nil {
			return nil, nil
		}
		return nil, r.Build(bctx)
	})
	if err != nil {
		return nil, err
	}
	if bs := r.bindings.Load(); bs != nil {
		return bs, nil
	}
	return nil, errors.New("route bindings were invalidated during build")
}

// Dispatch serves req with the binding registered under name: a virtual
// "@name" route or the "405" route. The binding goes through the same ACL
// and login gates as a matched route.
func (r *Router) Dispatch(name string, w http.ResponseWriter, req *http.Request) error {
	bs, err := r.live(req.Context())
	if err != nil {
		return err
	}
	b, ok := bs.named[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRouteNotFound, name)
	}
	r.serveBinding(w, req, b, nil)
	return nil
}

// serveBinding applies the ACL and login gates, then invokes the action.
func (r *Router) serveBinding(w http.ResponseWriter, req *http.Request, b *binding, params compiler.Params) {
	if b.denied {
		r.writeProblem(w, req, http.StatusForbidden, CodeRouteDenied, ErrRouteDenied)
		return
	}

	req, sess := r.withSession(req)

	if r.perRequestACL && !sess.RouteAllowed(b.record.Name()) {
		r.logger.Debug("route denied for session", "route", b.record.Name(), "session", sess.ID)
		r.writeProblem(w, req, http.StatusForbidden, CodeRouteDenied, ErrRouteDenied)
		return
	}

	if r.requiresLogin(sess, req, b.record) {
		r.loginFlow(w, req, sess)
		return
	}

	r.invoke(r.newContext(w, req, b.record, params, sess))
}

// withSession loads the session of req and stores it in the request
// context for the action.
func (r *Router) withSession(req *http.Request) (*http.Request, *session.Session) {
	sess := r.loadSession(req)
	return req.WithContext(session.NewContext(req.Context(), sess)), sess
}

func (r *Router) loadSession(req *http.Request) *session.Session {
	if s, ok := session.FromContext(req.Context()); ok {
		return s
	}
	if r.sessions == nil {
		return session.Anonymous()
	}

	s, err := r.sessions.Load(req)
	if err != nil {
		r.logger.Debug("session rejected", "error", err)
	}
	if s == nil {
		s = session.Anonymous()
	}
	return s
}

// requiresLogin reports whether an anonymous request must be handed to
// the login flow. Stylesheets and the login controller are exempt.
func (r *Router) requiresLogin(sess *session.Session, req *http.Request, rec route.Record) bool {
	if sess.Authenticated() {
		return false
	}
	if strings.HasSuffix(req.URL.Path, ".css") {
		return false
	}
	if r.login != nil && rec.ControllerID == r.login.controllerID {
		return false
	}
	return true
}

func (r *Router) loginFlow(w http.ResponseWriter, req *http.Request, sess *session.Session) {
	if r.login == nil {
		r.writeProblem(w, req, http.StatusUnauthorized, CodeLoginRequired, ErrLoginRequired)
		return
	}

	rec := route.Record{
		ControllerID: r.login.controllerID,
		Action:       r.login.action,
		Path:         req.URL.Path,
		Method:       req.Method,
	}
	r.invoke(r.newContext(w, req, rec, nil, sess))
}

// invoke creates the controller and runs the action. A controller without
// the action is a programming error and panics with ErrActionNotFound.
func (r *Router) invoke(c *Context) {
	rec := c.record
	ct, ok := r.registry.Lookup(rec.ControllerID)
	if !ok {
		panic(fmt.Errorf("%w: controller %s is not registered", ErrActionNotFound, rec.ControllerID))
	}

	action, ok := ct.New(c).Action(rec.Action)
	if !ok {
		panic(fmt.Errorf("%w: %s::%s", ErrActionNotFound, rec.ControllerID, rec.Action))
	}

	if err := action(); err != nil {
		c.Logger().Error("action failed", "error", err)
		if !c.Written() {
			r.writeError(c.Response, c.Request, err)
			return
		}
	}
	c.finish()
}

// notFound runs the declared 404 action, or writes a canned 404.
func (r *Router) notFound(w http.ResponseWriter, req *http.Request, bs *bindingSet) {
	if bs.notFound == nil {
		r.writeProblem(w, req, http.StatusNotFound, CodeNotFound, ErrNoMatchingRoute)
		return
	}

	req, sess := r.withSession(req)
	c := r.newContext(w, req, bs.notFound.record, nil, sess)
	c.Code(http.StatusNotFound)
	r.invoke(c)
}

// methodNotAllowed runs the "405" route, or writes a canned 405. Both
// carry an Allow header.
func (r *Router) methodNotAllowed(w http.ResponseWriter, req *http.Request, bs *bindingSet) {
	var allowed []string
	for _, cr := range bs.routes.MatchPath(req.URL.Path) {
		if m := cr.Method(); m != compiler.AnyMethod && !slices.Contains(allowed, m) {
			allowed = append(allowed, m)
		}
	}
	slices.Sort(allowed)
	w.Header().Set("Allow", strings.Join(allowed, ", "))

	b, ok := bs.named[route.MethodNotAllowedPath]
	if !ok {
		r.writeProblem(w, req, http.StatusMethodNotAllowed, CodeMethodNotAllowed, ErrMethodNotAllowed)
		return
	}
	if b.denied {
		r.writeProblem(w, req, http.StatusForbidden, CodeRouteDenied, ErrRouteDenied)
		return
	}

	req, sess := r.withSession(req)
	c := r.newContext(w, req, b.record, nil, sess)
	c.Code(http.StatusMethodNotAllowed)
	r.invoke(c)
}

func (r *Router) writeProblem(w http.ResponseWriter, req *http.Request, status int, code string, err error) {
	r.writeError(w, req, problems.WithCode(problems.WithStatus(err, status), code))
}

func (r *Router) writeError(w http.ResponseWriter, req *http.Request, err error) {
	if werr := problems.Write(w, r.formatter.Format(req, err)); werr != nil {
		r.logger.Debug("error response not written", "error", werr)
	}
}
