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

package compiler

// AnyMethod registers a route for every HTTP method.
const AnyMethod = ""

// CompiledRoute is a template bound to a method at a fixed position in the
// route list.
type CompiledRoute struct {
	method   string
	template *Template
	index    int
}

// Method returns the HTTP method, or AnyMethod.
func (r *CompiledRoute) Method() string { return r.method }

// Template returns the compiled template.
func (r *CompiledRoute) Template() *Template { return r.template }

// Index returns the registration position of the route.
func (r *CompiledRoute) Index() int { return r.index }

func (r *CompiledRoute) acceptsMethod(method string) bool {
	return r.method == AnyMethod || r.method == method
}

// Result describes the outcome of a lookup.
type Result struct {
	Route *CompiledRoute // first matching route, nil when none matched
	// Params holds the parameters captured by Route.
	Params Params
	// PathMatched is true when some route matched the path but rejected
	// the method. Only meaningful when Route is nil.
	PathMatched bool
}

// RouteCompiler holds compiled routes in registration order.
// The first registered route that matches both path and method wins.
//
// Static routes are indexed by path so the common case avoids running any
// expression; dynamic routes are scanned in order up to the best static hit.
//
// A RouteCompiler is built once and then only read; it is not safe to add
// routes concurrently with Match.
type RouteCompiler struct {
	routes  []*CompiledRoute
	static  map[string][]*CompiledRoute
	dynamic []*CompiledRoute
}

// NewRouteCompiler creates an empty route compiler.
func NewRouteCompiler() *RouteCompiler {
	return &RouteCompiler{
		static: make(map[string][]*CompiledRoute, 64),
	}
}

// AddRoute appends a compiled template for method and returns the route.
// Virtual templates are rejected with a nil route since they never match.
func (rc *RouteCompiler) AddRoute(method string, t *Template) *CompiledRoute {
	if t == nil || t.Virtual() {
		return nil
	}

	r := &CompiledRoute{method: method, template: t, index: len(rc.routes)}
	rc.routes = append(rc.routes, r)
	if t.Static() {
		rc.static[t.Path()] = append(rc.static[t.Path()], r)
	} else {
		rc.dynamic = append(rc.dynamic, r)
	}

	return r
}

// Len returns the number of compiled routes.
func (rc *RouteCompiler) Len() int { return len(rc.routes) }

// Routes returns the compiled routes in registration order.
func (rc *RouteCompiler) Routes() []*CompiledRoute {
	out := make([]*CompiledRoute, len(rc.routes))
	copy(out, rc.routes)
	return out
}

// Match finds the first route accepting method and path.
func (rc *RouteCompiler) Match(method, path string) Result {
	var res Result

	best := -1
	for _, r := range rc.static[path] {
		if r.acceptsMethod(method) {
			best = r.index
			res.Route = r
			break
		}
		res.PathMatched = true
	}

	for _, r := range rc.dynamic {
		if best >= 0 && r.index > best {
			break
		}
		params, ok := r.template.Match(path)
		if !ok {
			continue
		}
		if !r.acceptsMethod(method) {
			res.PathMatched = true
			continue
		}
		res.Route = r
		res.Params = params
		return res
	}

	return res
}

// MatchPath returns every route whose template matches path, regardless of
// method, in registration order.
func (rc *RouteCompiler) MatchPath(path string) []*CompiledRoute {
	var out []*CompiledRoute
	for _, r := range rc.routes {
		if _, ok := r.template.Match(path); ok {
			out = append(out, r)
		}
	}
	return out
}
