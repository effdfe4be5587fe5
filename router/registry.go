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
	"fmt"
	"sync"

	"centreon.dev/web/discovery"
	"centreon.dev/web/router/route"
)

// Action handles one routed request. The controller owning it was created
// for that request and already holds its Context.
type Action func() error

// Controller exposes its actions by name.
type Controller interface {
	Action(name string) (Action, bool)
}

// Actions is a Controller backed by a map.
//
//	func newHosts(c *router.Context) router.Controller {
//	    h := &hosts{c: c}
//	    return router.Actions{"list": h.list, "show": h.show}
//	}
type Actions map[string]Action

// Action implements Controller.
func (a Actions) Action(name string) (Action, bool) {
	fn, ok := a[name]
	return fn, ok && fn != nil
}

// Factory creates the controller for one request.
type Factory func(c *Context) Controller

// ControllerType is what the registry knows about a controller: the routes
// it declares and how to build it.
type ControllerType struct {
	Routes func() route.Specs
	New    Factory
}

// Registry maps controller ids to controller types. It is the catalog the
// route table builder resolves discovered ids against, and the source of
// factories at dispatch time.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]ControllerType
	order []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]ControllerType)}
}

// Register adds a controller type under id.
func (r *Registry) Register(id string, t ControllerType) error {
	if id == "" || t.Routes == nil || t.New == nil {
		return fmt.Errorf("%w: %q", ErrInvalidController, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateController, id)
	}
	r.types[id] = t
	r.order = append(r.order, id)
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(id string, t ControllerType) {
	if err := r.Register(id, t); err != nil {
		panic(err)
	}
}

// Lookup returns the controller type registered under id.
func (r *Registry) Lookup(id string) (ControllerType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[id]
	return t, ok
}

// IDs returns the registered ids in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// RouteSpecs implements discovery.Catalog.
func (r *Registry) RouteSpecs(id string) (route.Specs, bool) {
	t, ok := r.Lookup(id)
	if !ok {
		return nil, false
	}
	return t.Routes(), true
}

// Build returns the table of every registered controller in registration
// order. It lets a router run without filesystem discovery.
func (r *Registry) Build(context.Context) (route.Table, error) {
	return discovery.Assemble(r.IDs(), r)
}

var _ discovery.Catalog = (*Registry)(nil)

// TableBuilder produces the route table.
// *discovery.Builder and *Registry implement it.
type TableBuilder interface {
	Build(ctx context.Context) (route.Table, error)
}

// TableBuilderFunc adapts a function to TableBuilder.
type TableBuilderFunc func(ctx context.Context) (route.Table, error)

// Build calls f(ctx).
func (f TableBuilderFunc) Build(ctx context.Context) (route.Table, error) { return f(ctx) }
