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
	"io"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"centreon.dev/web/acl"
	"centreon.dev/web/cache"
	"centreon.dev/web/discovery"
	problems "centreon.dev/web/errors"
	"centreon.dev/web/router/compiler"
	"centreon.dev/web/router/route"
	"centreon.dev/web/session"
)

// DefaultCacheKey is the key the encoded route table is stored under.
const DefaultCacheKey = "routes"

// noopLogger is a singleton no-op logger used when no logger is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type loginTarget struct {
	controllerID string
	action       string
}

// binding is a route record made live.
type binding struct {
	record   route.Record
	template *compiler.Template // nil for named bindings
	denied   bool
}

// bindingSet is one immutable generation of live bindings.
type bindingSet struct {
	table    route.Table
	routes   *compiler.RouteCompiler
	byIndex  []*binding // by compiled route index
	named    map[string]*binding
	notFound *binding
	order    []*binding
}

// Router dispatches requests to controller actions declared by the route
// table.
//
// The table comes from the cache, or from the table builder on a miss, and
// is turned into bindings by Build. Requests are matched against bindings
// in declaration order; the first binding whose template and method match
// wins. A binding denied by the ACL answers 403. Anonymous requests are
// handed to the login action.
//
// The Router is safe for concurrent use. Bindings are swapped atomically,
// so a rebuild never blocks requests.
//
//	reg := router.NewRegistry()
//	reg.MustRegister("core/controllers/HostController", hostController)
//
//	r := router.MustNew(
//	    router.WithRegistry(reg),
//	    router.WithBaseURL("/centreon"),
//	    router.WithSessionStore(store),
//	    router.WithLogin("core/controllers/LoginController", "login"),
//	)
//	http.ListenAndServe(":8080", r)
type Router struct {
	baseURL  string
	registry *Registry
	builder  TableBuilder
	cache    cache.Store
	cacheKey string
	codec    cache.Codec

	acl           acl.Evaluator
	perRequestACL bool
	sessions      session.Store
	login         *loginTarget

	formatter     problems.Formatter
	logger        *slog.Logger
	observability ObservabilityRecorder
	diagnostics   DiagnosticHandler

	enableH2C      bool
	serverTimeouts *serverTimeouts

	bindings atomic.Pointer[bindingSet]
	fill     singleflight.Group
}

// New creates a router. It does not build the table; call Build, or let
// the first request do it.
func New(opts ...Option) (*Router, error) {
	r := &Router{
		cacheKey:  DefaultCacheKey,
		codec:     cache.JSON,
		acl:       acl.AllowAll,
		formatter: problems.NewRFC9457(""),
		logger:    noopLogger,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.cache == nil {
		r.cache = cache.NewMemory()
	}
	if r.builder == nil && r.registry != nil {
		r.builder = r.registry
	}
	if r.registry == nil {
		r.registry = NewRegistry()
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("router configuration validation failed: %w", err)
	}

	return r, nil
}

// MustNew creates a new Router and panics if configuration is invalid.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("router.MustNew: %v", err))
	}
	return r
}

func (r *Router) validate() error {
	var errs []error
	if r.builder == nil {
		errs = append(errs, ErrNoTableSource)
	}
	if r.acl == nil {
		r.acl = acl.AllowAll
	}
	if r.logger == nil {
		r.logger = noopLogger
	}
	if r.formatter == nil {
		r.formatter = problems.NewRFC9457("")
	}
	if t := r.serverTimeouts; t != nil {
		if t.readHeader <= 0 || t.read <= 0 || t.write <= 0 || t.idle <= 0 {
			errs = append(errs, ErrServerTimeoutInvalid)
		}
	}
	return errors.Join(errs...)
}

// BaseURL returns the configured base URL without trailing slash.
func (r *Router) BaseURL() string { return r.baseURL }

// Registry returns the controller registry.
func (r *Router) Registry() *Registry { return r.registry }

// emit sends a diagnostic event if a handler is configured.
func (r *Router) emit(kind DiagnosticKind, message string, fields map[string]any) {
	if r.diagnostics != nil {
		r.diagnostics.OnDiagnostic(DiagnosticEvent{
			Kind:    kind,
			Message: message,
			Fields:  fields,
		})
	}
}

// Build loads the route table and replaces the live bindings.
// It fails when the table cannot be produced or a record cannot be bound;
// the previous bindings then stay in place.
func (r *Router) Build(ctx context.Context) error {
	table, err := r.Table(ctx)
	if err != nil {
		return err
	}

	bs, err := r.bind(table)
	if err != nil {
		// The table may have come from the cache; a fixed builder must
		// get a chance to replace it.
		if derr := r.cache.Delete(ctx, r.cacheKey); derr != nil {
			r.logger.Warn("unbindable route table not evicted", "key", r.cacheKey, "error", derr)
		}
		return err
	}

	r.bindings.Store(bs)
	r.logger.Info("routes bound", "routes", table.Len(), "compiled", bs.routes.Len())
	r.emit(DiagTableRebuilt, "route bindings rebuilt", map[string]any{"routes": table.Len()})
	return nil
}

// Table returns the route table, from the cache when present. On a miss
// the builder runs once however many callers are waiting, and its result
// is cached once every record is valid and has a registered controller.
// The build is not cancelled with ctx since other callers may be waiting
// on it.
func (r *Router) Table(ctx context.Context) (route.Table, error) {
	if t, ok := r.cachedTable(ctx); ok {
		return t, nil
	}

	bctx := context.WithoutCancel(ctx)
	v, err, _ := r.fill.Do(r.cacheKey, func() (any, error) {
		t, err := r.builder.Build(bctx)
		if err != nil {
			return nil, fmt.Errorf("build route table: %w", err)
		}
		if err := r.check(t); err != nil {
			return nil, err
		}

		b, err := r.codec.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("encode route table: %w", err)
		}
		if err := r.cache.Set(bctx, r.cacheKey, b); err != nil {
			r.logger.Warn("route table not cached", "key", r.cacheKey, "error", err)
		}
		return t, nil
	})
	if err != nil {
		return route.Table{}, err
	}
	return v.(route.Table), nil
}

func (r *Router) cachedTable(ctx context.Context) (route.Table, bool) {
	b, ok, err := r.cache.Get(ctx, r.cacheKey)
	if err != nil {
		r.logger.Warn("route cache read failed", "key", r.cacheKey, "error", err)
		return route.Table{}, false
	}
	if !ok {
		return route.Table{}, false
	}

	var t route.Table
	if err := r.codec.Unmarshal(b, &t); err != nil {
		r.logger.Warn("route cache entry unreadable", "key", r.cacheKey, "codec", r.codec.Name(), "error", err)
		r.emit(DiagCacheCorrupt, "cached route table could not be decoded", map[string]any{"key": r.cacheKey})
		return route.Table{}, false
	}
	return t, true
}

// Invalidate drops the cached table and the live bindings. The next
// request or Build reloads both. Use Refresh to keep serving the current
// bindings while the table is rebuilt.
func (r *Router) Invalidate(ctx context.Context) error {
	r.bindings.Store(nil)
	if err := r.cache.Delete(ctx, r.cacheKey); err != nil {
		return fmt.Errorf("invalidate route cache: %w", err)
	}
	r.logger.Info("route table invalidated", "key", r.cacheKey)
	return nil
}

// Refresh drops the cached table and builds new bindings from the builder.
// Requests are served by the current bindings until the new ones are
// swapped in; if the rebuild fails they stay in place.
func (r *Router) Refresh(ctx context.Context) error {
	if err := r.cache.Delete(ctx, r.cacheKey); err != nil {
		return fmt.Errorf("refresh route cache: %w", err)
	}
	if err := r.Build(ctx); err != nil {
		return err
	}
	r.logger.Info("route table refreshed", "key", r.cacheKey)
	return nil
}

// checkRecord reports why rec cannot be bound, ignoring its template.
func (r *Router) checkRecord(rec route.Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRoute, err)
	}
	if _, ok := r.registry.Lookup(rec.ControllerID); !ok {
		return fmt.Errorf("%w: %s", discovery.ErrControllerUnresolved, rec.ControllerID)
	}
	return nil
}

// check runs checkRecord over the whole table.
func (r *Router) check(table route.Table) error {
	var errs []error
	for _, rec := range table.Records {
		if err := r.checkRecord(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// bind turns a table into bindings. The ACL is evaluated here, once per
// concrete route.
func (r *Router) bind(table route.Table) (*bindingSet, error) {
	bs := &bindingSet{
		table:  table,
		routes: compiler.NewRouteCompiler(),
		named:  make(map[string]*binding),
	}

	var errs []error
	for _, rec := range table.Records {
		if err := r.checkRecord(rec); err != nil {
			errs = append(errs, err)
			continue
		}

		b := &binding{record: rec}

		switch rec.Kind() {
		case route.KindNotFound:
			if prev := bs.notFound; prev != nil {
				r.emit(DiagNotFoundOverridden, "404 handler declared more than once; last declaration wins", map[string]any{
					"previous": prev.record.ControllerID + "::" + prev.record.Action,
					"current":  rec.ControllerID + "::" + rec.Action,
				})
			}
			bs.notFound = b
			continue

		case route.KindVirtual, route.KindMethodNotAllowed:
			b.denied = !r.acl.RouteAllowed(rec.Name())
			bs.named[rec.Name()] = b

		default:
			tpl, err := compiler.Compile(r.baseURL + rec.Path)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s: %w", ErrInvalidRoute, rec, err))
				continue
			}
			b.template = tpl
			b.denied = !r.acl.RouteAllowed(rec.Name())

			method := rec.Method
			if b.denied {
				method = compiler.AnyMethod
			}
			bs.routes.AddRoute(method, tpl)
			bs.byIndex = append(bs.byIndex, b)
		}

		bs.order = append(bs.order, b)
		if b.denied {
			r.logger.Debug("route denied", "route", rec.Name(), "controller", rec.ControllerID)
			r.emit(DiagRouteDenied, "route denied by ACL", map[string]any{"route": rec.Name()})
		} else {
			r.emit(DiagRouteRegistered, "route registered", map[string]any{"method": rec.Method, "route": rec.Name()})
		}
	}

	if bs.notFound != nil {
		bs.order = append(bs.order, bs.notFound)
	}

	if r.login != nil {
		if _, ok := r.registry.Lookup(r.login.controllerID); !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrLoginNotRegistered, r.login.controllerID))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return bs, nil
}

// Routes describes the live bindings in registration order, the 404
// binding last. It is empty before the first Build.
func (r *Router) Routes() []route.Info {
	bs := r.bindings.Load()
	if bs == nil {
		return nil
	}

	out := make([]route.Info, 0, len(bs.order))
	for _, b := range bs.order {
		info := route.Info{
			Method:       b.record.Method,
			Path:         b.record.Path,
			Kind:         b.record.Kind(),
			ControllerID: b.record.ControllerID,
			Action:       b.record.Action,
			ACL:          b.record.ACL,
			Denied:       b.denied,
		}
		if b.denied && b.template != nil {
			info.Method = compiler.AnyMethod
		}
		if b.template != nil {
			for _, tok := range b.template.Tokens() {
				if tok.Name != "" {
					info.Params = append(info.Params, tok.Name)
				}
			}
		}
		out = append(out, info)
	}
	return out
}
