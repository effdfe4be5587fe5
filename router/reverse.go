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
	"fmt"
	"net/http"
	"strings"

	"centreon.dev/web/router/compiler"
	"centreon.dev/web/router/route"
)

type pathOptions struct {
	lenient     bool
	keepVirtual bool
}

// PathOption configures PathFor.
type PathOption func(*pathOptions)

// Lenient leaves unresolved required tokens in the path as written instead
// of failing. Each unresolved token is reported as a diagnostic.
func Lenient() PathOption {
	return func(o *pathOptions) { o.lenient = true }
}

// KeepVirtual returns token-free "@name" routes prefixed with the base URL
// instead of collapsing them to "/".
func KeepVirtual() PathOption {
	return func(o *pathOptions) { o.keepVirtual = true }
}

// PathFor builds the URL of the route named name, which is its declared
// path, with params substituted.
//
// A token with a value becomes its separator followed by the value. An
// optional token without a value is dropped along with its separator. A
// required token without a value makes PathFor fail with
// ErrMissingRouteParameter, unless Lenient is given. Virtual routes
// without tokens have no URL and resolve to "/"; those with tokens are
// filled like any other route.
//
//	r.PathFor("/hosts/[i:id]/[a:tab]?", map[string]string{"id": "42"})
//	// "/centreon/hosts/42"
func (r *Router) PathFor(name string, params map[string]string, opts ...PathOption) (string, error) {
	var o pathOptions
	for _, opt := range opts {
		opt(&o)
	}

	tpl := compiler.Parse(name)
	if tpl.Virtual() && len(tpl.Tokens()) == 0 && !o.keepVirtual {
		return "/", nil
	}

	path, missing := tpl.Build(params)
	if len(missing) > 0 {
		if !o.lenient {
			return "", fmt.Errorf("%w %s for route %q", ErrMissingRouteParameter, strings.Join(missing, ", "), name)
		}
		r.emit(DiagUnresolvedParam, "route token left unresolved", map[string]any{
			"route":   name,
			"missing": missing,
		})
	}

	return r.baseURL + path, nil
}

// MustPathFor is like PathFor but panics on error.
func (r *Router) MustPathFor(name string, params map[string]string, opts ...PathOption) string {
	p, err := r.PathFor(name, params, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// CurrentURI returns the request path with the base URL removed from its
// start. The removal is a literal prefix match. An empty result is "/".
func (r *Router) CurrentURI(req *http.Request) string {
	p := strings.TrimPrefix(req.URL.Path, r.baseURL)
	if p == "" {
		return "/"
	}
	return p
}

// NotFound returns the handler answering unmatched requests. ok is false
// before the first Build or when no controller declares "404".
func (r *Router) NotFound() (nf route.NotFound, ok bool) {
	bs := r.bindings.Load()
	if bs == nil || bs.notFound == nil {
		return nf, false
	}
	rec := bs.notFound.record
	return route.NotFound{ControllerID: rec.ControllerID, Action: rec.Action, Method: rec.Method}, true
}

// HasRoute reports whether a binding exists for name: a declared path,
// "@name", "405" or "404".
func (r *Router) HasRoute(name string) bool {
	bs := r.bindings.Load()
	if bs == nil {
		return false
	}
	if _, ok := bs.named[name]; ok {
		return true
	}
	if name == route.NotFoundPath {
		return bs.notFound != nil
	}
	for _, b := range bs.byIndex {
		if b.record.Path == name {
			return true
		}
	}
	return false
}
