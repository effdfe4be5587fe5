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

//go:build !integration

package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centreon.dev/web/acl"
	"centreon.dev/web/cache"
	"centreon.dev/web/discovery"
	"centreon.dev/web/router/route"
	"centreon.dev/web/session"
)

const (
	hostsID  = "core/controllers/HostController"
	loginID  = "core/controllers/LoginController"
	errorsID = "core/controllers/ErrorController"
)

// fixture is a registry of three controllers shared by the router tests.
type fixture struct {
	reg      *Registry
	notFound atomic.Int32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{reg: NewRegistry()}

	f.reg.MustRegister(hostsID, ControllerType{
		Routes: func() route.Specs {
			return route.Specs{
				"admin":  {Route: "/administration/[**:rest]", MethodType: http.MethodGet},
				"create": {Route: "/hosts", MethodType: http.MethodPost},
				"export": {Route: "/export.[:format]?", MethodType: http.MethodGet},
				"list":   {Route: "/hosts", MethodType: http.MethodGet},
				"show":   {Route: "/hosts/[i:id]/[a:tab]?", MethodType: http.MethodGet},
				"style":  {Route: "/static/[**:file]", MethodType: http.MethodGet},
			}
		},
		New: func(c *Context) Controller {
			return Actions{
				"admin":  func() error { return c.String(http.StatusOK, "admin "+c.Param("rest")) },
				"create": func() error { return c.String(http.StatusCreated, "created") },
				"export": func() error { return c.String(http.StatusOK, "export "+c.Param("format")) },
				"list":   func() error { return c.String(http.StatusOK, "hosts") },
				"show":   func() error { return c.JSON(0, c.Params()) },
				"style":  func() error { return c.String(http.StatusOK, "style "+c.Param("file")) },
			}
		},
	})

	f.reg.MustRegister(loginID, ControllerType{
		Routes: func() route.Specs {
			return route.Specs{
				"form":  {Route: "@login", MethodType: http.MethodGet},
				"login": {Route: "/login", MethodType: http.MethodGet},
			}
		},
		New: func(c *Context) Controller {
			return Actions{
				"form":  func() error { return c.String(http.StatusOK, "form") },
				"login": func() error { return c.String(http.StatusOK, "login page "+c.CurrentURI()) },
			}
		},
	})

	f.reg.MustRegister(errorsID, ControllerType{
		Routes: func() route.Specs {
			return route.Specs{
				"notAllowed": {Route: "405", MethodType: http.MethodGet},
				"notFound":   {Route: "404", MethodType: http.MethodGet},
			}
		},
		New: func(c *Context) Controller {
			return Actions{
				"notAllowed": func() error { return c.String(0, "not allowed") },
				"notFound": func() error {
					f.notFound.Add(1)
					return c.String(0, "nothing here")
				},
			}
		},
	})

	return f
}

func authenticated() session.Store {
	return session.Static(&session.Session{
		ID:   "s-1",
		User: &session.User{ID: "1", Login: "admin"},
	})
}

// newTestRouter builds a router over the fixture, served under /centreon
// for an authenticated user unless opts say otherwise.
func (f *fixture) newTestRouter(t *testing.T, opts ...Option) *Router {
	t.Helper()

	base := []Option{
		WithRegistry(f.reg),
		WithBaseURL("/centreon"),
		WithSessionStore(authenticated()),
	}
	r, err := New(append(base, opts...)...)
	require.NoError(t, err)
	require.NoError(t, r.Build(t.Context()))
	return r
}

func serve(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	assert.Contains(t, w.Header().Get("Content-Type"), "application/problem+json")
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

type recordingDiagnostics struct {
	mu     sync.Mutex
	events []DiagnosticEvent
}

func (d *recordingDiagnostics) OnDiagnostic(e DiagnosticEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
}

func (d *recordingDiagnostics) kinds() []DiagnosticKind {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DiagnosticKind, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Kind)
	}
	return out
}

func (d *recordingDiagnostics) find(kind DiagnosticKind) (DiagnosticEvent, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, e := range d.events {
		if e.Kind == kind {
			return e, true
		}
	}
	return DiagnosticEvent{}, false
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New()
	require.ErrorIs(t, err, ErrNoTableSource)

	_, err = New(WithRegistry(NewRegistry()), WithServerTimeouts(0, 1, 1, 1))
	require.ErrorIs(t, err, ErrServerTimeoutInvalid)

	assert.Panics(t, func() { MustNew() })

	r := MustNew(WithRegistry(NewRegistry()), WithBaseURL("/centreon/"))
	assert.Equal(t, "/centreon", r.BaseURL())
	assert.NotNil(t, r.Registry())
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	ct := ControllerType{
		Routes: func() route.Specs { return route.Specs{"a": {Route: "/a", MethodType: http.MethodGet}} },
		New:    func(*Context) Controller { return Actions{} },
	}

	require.NoError(t, reg.Register("m/controllers/A", ct))
	require.ErrorIs(t, reg.Register("m/controllers/A", ct), ErrDuplicateController)
	require.ErrorIs(t, reg.Register("", ct), ErrInvalidController)
	require.ErrorIs(t, reg.Register("m/controllers/B", ControllerType{}), ErrInvalidController)

	assert.Equal(t, []string{"m/controllers/A"}, reg.IDs())

	specs, ok := reg.RouteSpecs("m/controllers/A")
	require.True(t, ok)
	assert.Len(t, specs, 1)
	_, ok = reg.RouteSpecs("m/controllers/Z")
	assert.False(t, ok)

	table, err := reg.Build(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []route.Record{{ControllerID: "m/controllers/A", Action: "a", Path: "/a", Method: http.MethodGet}}, table.Records)
}

func TestRouter_Routes(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	r := f.newTestRouter(t, WithACL(acl.Rules{Deny: []string{"/administration/*"}, Default: true}))

	routes := r.Routes()
	require.NotEmpty(t, routes)

	last := routes[len(routes)-1]
	assert.Equal(t, route.KindNotFound, last.Kind, "404 binding is listed last")
	assert.Equal(t, errorsID, last.ControllerID)

	byAction := make(map[string]route.Info)
	for _, info := range routes {
		byAction[info.ControllerID+"::"+info.Action] = info
	}

	admin := byAction[hostsID+"::admin"]
	assert.True(t, admin.Denied)
	assert.Empty(t, admin.Method, "denied routes answer every method")

	show := byAction[hostsID+"::show"]
	assert.False(t, show.Denied)
	assert.Equal(t, http.MethodGet, show.Method)
	assert.Equal(t, []string{"id", "tab"}, show.Params)

	assert.Equal(t, route.KindVirtual, byAction[loginID+"::form"].Kind)
	assert.Equal(t, route.KindMethodNotAllowed, byAction[errorsID+"::notAllowed"].Kind)

	assert.Nil(t, MustNew(WithRegistry(NewRegistry())).Routes(), "no routes before Build")
}

func TestRouter_BuildUsesCache(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	var builds atomic.Int32
	builder := TableBuilderFunc(func(ctx context.Context) (route.Table, error) {
		builds.Add(1)
		return f.reg.Build(ctx)
	})

	store := cache.NewMemory()
	r := MustNew(WithRegistry(f.reg), WithTableBuilder(builder), WithCache(store))

	require.NoError(t, r.Build(t.Context()))
	require.NoError(t, r.Build(t.Context()))
	assert.Equal(t, int32(1), builds.Load(), "second build reads the cache")

	raw, ok, err := store.Get(t.Context(), DefaultCacheKey)
	require.NoError(t, err)
	require.True(t, ok)
	var cached route.Table
	require.NoError(t, json.Unmarshal(raw, &cached))

	table, err := r.Table(t.Context())
	require.NoError(t, err)
	assert.True(t, table.Equal(cached))

	// A second router sharing the cache never calls its builder.
	other := MustNew(WithRegistry(f.reg), WithTableBuilder(builder), WithCache(store))
	require.NoError(t, other.Build(t.Context()))
	assert.Equal(t, int32(1), builds.Load())

	require.NoError(t, r.Invalidate(t.Context()))
	assert.Nil(t, r.Routes())
	_, ok, err = store.Get(t.Context(), DefaultCacheKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Build(t.Context()))
	assert.Equal(t, int32(2), builds.Load())
}

func TestRouter_CacheCodec(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	store := cache.NewMemory()
	r := MustNew(WithRegistry(f.reg), WithCache(store), WithCacheCodec(cache.MsgPack))
	require.NoError(t, r.Build(t.Context()))

	raw, ok, err := store.Get(t.Context(), DefaultCacheKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Error(t, json.Unmarshal(raw, new(route.Table)), "entry is not json")

	var cached route.Table
	require.NoError(t, cache.MsgPack.Unmarshal(raw, &cached))
	table, err := r.Table(t.Context())
	require.NoError(t, err)
	assert.True(t, table.Equal(cached))

	// A json router sharing the store treats the entry as corrupt and rebuilds.
	diag := &recordingDiagnostics{}
	other := MustNew(WithRegistry(f.reg), WithCache(store), WithDiagnostics(diag))
	require.NoError(t, other.Build(t.Context()))
	_, ok = diag.find(DiagCacheCorrupt)
	assert.True(t, ok)
}

func TestRouter_BuildIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	r := MustNew(WithRegistry(f.reg), WithCacheKey("routes:test"))

	first, err := r.Table(t.Context())
	require.NoError(t, err)
	require.NoError(t, r.Invalidate(t.Context()))
	second, err := r.Table(t.Context())
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
}

func TestRouter_ConcurrentFirstRequests(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	var builds atomic.Int32
	builder := TableBuilderFunc(func(ctx context.Context) (route.Table, error) {
		builds.Add(1)
		return f.reg.Build(ctx)
	})
	r := MustNew(WithRegistry(f.reg), WithTableBuilder(builder), WithSessionStore(authenticated()))

	const n = 32
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Go(func() {
			codes[i] = serve(r, http.MethodGet, "/hosts").Code
		})
	}
	wg.Wait()

	for _, c := range codes {
		assert.Equal(t, http.StatusOK, c)
	}
	assert.GreaterOrEqual(t, builds.Load(), int32(1))
	assert.LessOrEqual(t, builds.Load(), int32(n))
}

func TestRouter_CorruptCacheRebuilds(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	store := cache.NewMemory()
	require.NoError(t, store.Set(t.Context(), DefaultCacheKey, []byte("{not json")))

	diag := &recordingDiagnostics{}
	r := MustNew(WithRegistry(f.reg), WithCache(store), WithDiagnostics(diag))
	require.NoError(t, r.Build(t.Context()))

	assert.Contains(t, diag.kinds(), DiagCacheCorrupt)
	assert.Contains(t, diag.kinds(), DiagTableRebuilt)
	assert.NotEmpty(t, r.Routes())
}

func TestRouter_BuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		records []route.Record
		opts    []Option
		wantErr error
	}{
		{
			name:    "unregistered controller",
			records: []route.Record{{ControllerID: "ghost/controllers/Ghost", Action: "a", Path: "/a", Method: http.MethodGet}},
			wantErr: discovery.ErrControllerUnresolved,
		},
		{
			name:    "invalid method",
			records: []route.Record{{ControllerID: hostsID, Action: "list", Path: "/hosts", Method: "get"}},
			wantErr: route.ErrInvalidMethod,
		},
		{
			name:    "invalid custom pattern",
			records: []route.Record{{ControllerID: hostsID, Action: "list", Path: "/bad/[(:x]", Method: http.MethodGet}},
			wantErr: ErrInvalidRoute,
		},
		{
			name:    "login controller not registered",
			records: []route.Record{{ControllerID: hostsID, Action: "list", Path: "/hosts", Method: http.MethodGet}},
			opts:    []Option{WithLogin("core/controllers/Missing", "login")},
			wantErr: ErrLoginNotRegistered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			builder := TableBuilderFunc(func(context.Context) (route.Table, error) {
				return route.Table{Records: tt.records}, nil
			})
			r := MustNew(append([]Option{WithRegistry(f.reg), WithTableBuilder(builder)}, tt.opts...)...)

			err := r.Build(t.Context())
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, r.Routes(), "failed build leaves no bindings")

			w := serve(r, http.MethodGet, "/hosts")
			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
			assert.Equal(t, CodeRoutingFailed, decodeProblem(t, w)["code"])
		})
	}
}

func TestRouter_BuilderFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("module directory unreadable")
	r := MustNew(WithTableBuilder(TableBuilderFunc(func(context.Context) (route.Table, error) {
		return route.Table{}, boom
	})))

	require.ErrorIs(t, r.Build(t.Context()), boom)
	_, err := r.Table(t.Context())
	require.ErrorIs(t, err, boom)
}

func TestRouter_CancelledFirstRequestDoesNotFailWaiters(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	started := make(chan struct{})
	release := make(chan struct{})
	var builds atomic.Int32
	builder := TableBuilderFunc(func(ctx context.Context) (route.Table, error) {
		if builds.Add(1) == 1 {
			close(started)
		}
		<-release
		if err := ctx.Err(); err != nil {
			return route.Table{}, err
		}
		return f.reg.Build(ctx)
	})
	r := MustNew(WithRegistry(f.reg), WithTableBuilder(builder), WithSessionStore(authenticated()))

	ctx, cancel := context.WithCancel(context.Background())
	first := httptest.NewRequest(http.MethodGet, "/hosts", nil).WithContext(ctx)

	var (
		wg   sync.WaitGroup
		code int
	)
	wg.Go(func() { r.ServeHTTP(httptest.NewRecorder(), first) })
	<-started
	wg.Go(func() { code = serve(r, http.MethodGet, "/hosts").Code })

	cancel()
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int32(1), builds.Load())
	assert.NotEmpty(t, r.Routes())
}

func TestRouter_RefreshKeepsBindingsOnFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	var broken atomic.Bool
	builder := TableBuilderFunc(func(ctx context.Context) (route.Table, error) {
		if broken.Load() {
			return route.Table{Records: []route.Record{
				{ControllerID: "ghost/controllers/Ghost", Action: "a", Path: "/a", Method: http.MethodGet},
			}}, nil
		}
		return f.reg.Build(ctx)
	})
	store := cache.NewMemory()
	r := MustNew(WithRegistry(f.reg), WithTableBuilder(builder), WithCache(store), WithSessionStore(authenticated()))
	require.NoError(t, r.Build(t.Context()))
	before := r.Routes()

	broken.Store(true)
	require.ErrorIs(t, r.Refresh(t.Context()), discovery.ErrControllerUnresolved)
	assert.Equal(t, before, r.Routes())
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/hosts").Code)

	broken.Store(false)
	require.NoError(t, r.Refresh(t.Context()))
	assert.True(t, r.HasRoute("/hosts"))
	_, ok, err := store.Get(t.Context(), DefaultCacheKey)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRouter_UnbindableTableIsNotCached(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	store := cache.NewMemory()
	cached := func() bool {
		_, ok, err := store.Get(t.Context(), DefaultCacheKey)
		require.NoError(t, err)
		return ok
	}

	lowercase := TableBuilderFunc(func(context.Context) (route.Table, error) {
		return route.Table{Records: []route.Record{
			{ControllerID: hostsID, Action: "list", Path: "/hosts", Method: "get"},
		}}, nil
	})
	r := MustNew(WithRegistry(f.reg), WithTableBuilder(lowercase), WithCache(store))
	require.ErrorIs(t, r.Build(t.Context()), route.ErrInvalidMethod)
	assert.False(t, cached())

	// An entry the registry cannot serve is evicted when binding fails.
	raw, err := cache.JSON.Marshal(route.Table{Records: []route.Record{
		{ControllerID: "ghost/controllers/Ghost", Action: "a", Path: "/a", Method: http.MethodGet},
	}})
	require.NoError(t, err)
	require.NoError(t, store.Set(t.Context(), DefaultCacheKey, raw))
	require.ErrorIs(t, r.Build(t.Context()), discovery.ErrControllerUnresolved)
	assert.False(t, cached())

	fixed := MustNew(WithRegistry(f.reg), WithCache(store))
	require.NoError(t, fixed.Build(t.Context()))
	assert.True(t, fixed.HasRoute("/hosts"))
	assert.True(t, cached())
}

func TestRouter_NotFoundOverridden(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.reg.MustRegister("extra/controllers/FallbackController", ControllerType{
		Routes: func() route.Specs {
			return route.Specs{"missing": {Route: "404", MethodType: http.MethodGet}}
		},
		New: func(c *Context) Controller {
			return Actions{"missing": func() error { return c.String(0, "fallback") }}
		},
	})

	diag := &recordingDiagnostics{}
	r := f.newTestRouter(t, WithDiagnostics(diag))

	e, ok := diag.find(DiagNotFoundOverridden)
	require.True(t, ok)
	assert.Equal(t, errorsID+"::notFound", e.Fields["previous"])

	w := serve(r, http.MethodGet, "/centreon/nowhere")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "fallback", w.Body.String(), "last declared 404 wins")
	assert.Zero(t, f.notFound.Load())

	nf, ok := r.NotFound()
	require.True(t, ok)
	assert.Equal(t, route.NotFound{ControllerID: "extra/controllers/FallbackController", Action: "missing", Method: http.MethodGet}, nf)

	fresh := MustNew(WithTableBuilder(TableBuilderFunc(func(context.Context) (route.Table, error) {
		return route.Table{}, nil
	})))
	_, ok = fresh.NotFound()
	assert.False(t, ok, "nothing is bound before Build")
}
