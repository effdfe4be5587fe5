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

package discovery

import (
	"context"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centreon.dev/web/router/route"
)

type mapCatalog map[string]route.Specs

func (c mapCatalog) RouteSpecs(id string) (route.Specs, bool) {
	s, ok := c[id]
	return s, ok
}

func testFS(files map[string]fstest.MapFS) func(Module) fs.FS {
	return func(m Module) fs.FS { return files[m.ID] }
}

func file() *fstest.MapFile { return &fstest.MapFile{Data: []byte("package x")} }

func TestBuilder_Build(t *testing.T) {
	t.Parallel()

	files := map[string]fstest.MapFS{
		"core": {
			"controllers/LoginController.go": file(),
			"controllers/HostController.go":  file(),
			"controllers/helpers.go":         file(),
			"api/rest/HostApi.go":            file(),
		},
		"admin": {
			"controllers/EmptyController.go": file(),
		},
	}
	catalog := mapCatalog{
		"core/controllers/HostController": {
			"list": {Route: "/hosts", MethodType: http.MethodGet},
			"show": {Route: "/hosts/[i:id]", MethodType: http.MethodGet, ACL: "hosts"},
		},
		"core/controllers/LoginController": {
			"login": {Route: "/login", MethodType: http.MethodGet},
		},
		"core/api/rest/HostApi": {
			"list": {Route: "/api/hosts", MethodType: http.MethodGet},
		},
		"admin/controllers/EmptyController": {},
	}

	b := NewBuilder(
		StaticModules{{ID: "core"}, {ID: "admin"}},
		catalog,
		WithFS(testFS(files)),
	)

	table, err := b.Build(context.Background())
	require.NoError(t, err)

	want := []route.Record{
		{ControllerID: "core/controllers/HostController", Action: "list", Path: "/hosts", Method: http.MethodGet},
		{ControllerID: "core/controllers/HostController", Action: "show", Path: "/hosts/[i:id]", Method: http.MethodGet, ACL: "hosts"},
		{ControllerID: "core/controllers/LoginController", Action: "login", Path: "/login", Method: http.MethodGet},
		{ControllerID: "core/api/rest/HostApi", Action: "list", Path: "/api/hosts", Method: http.MethodGet},
	}
	assert.Equal(t, want, table.Records)
	assert.NotContains(t, table.Controllers(), "admin/controllers/EmptyController")
}

func TestBuilder_Idempotent(t *testing.T) {
	t.Parallel()

	files := map[string]fstest.MapFS{
		"core": {
			"controllers/AController.go": file(),
			"controllers/BController.go": file(),
		},
	}
	specs := route.Specs{}
	for _, a := range []string{"z", "y", "x", "w", "v", "u"} {
		specs[a] = route.Spec{Route: "/" + a, MethodType: http.MethodGet}
	}
	catalog := mapCatalog{
		"core/controllers/AController": specs,
		"core/controllers/BController": specs,
	}

	b := NewBuilder(StaticModules{{ID: "core"}}, catalog, WithFS(testFS(files)))

	first, err := b.Build(context.Background())
	require.NoError(t, err)
	for range 10 {
		again, err := b.Build(context.Background())
		require.NoError(t, err)
		assert.True(t, first.Equal(again))
	}
}

func TestBuilder_UnresolvedControllerFails(t *testing.T) {
	t.Parallel()

	files := map[string]fstest.MapFS{
		"core": {
			"controllers/HostController":    file(),
			"controllers/GhostController.go": file(),
			"api/rest/PhantomApi.go":         file(),
		},
	}
	b := NewBuilder(StaticModules{{ID: "core"}}, mapCatalog{}, WithFS(testFS(files)))

	_, err := b.Build(context.Background())
	require.ErrorIs(t, err, ErrControllerUnresolved)
	assert.Contains(t, err.Error(), "core/controllers/GhostController")
	assert.Contains(t, err.Error(), "core/api/rest/PhantomApi")
}

func TestBuilder_Controllers(t *testing.T) {
	t.Parallel()

	files := map[string]fstest.MapFS{
		"core": {
			"controllers/Controller.go":          file(),
			"controllers/HostController.go":      file(),
			"controllers/HostController.php":     file(),
			"controllers/HostController_test.go": file(),
			"api/rest/ServiceApi.go":             file(),
			"api/rest/Api.go":                    file(),
		},
	}
	b := NewBuilder(StaticModules{{ID: "core"}}, mapCatalog{}, WithFS(testFS(files)))

	ids, err := b.Controllers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"core/controllers/HostController",
		"core/api/rest/ServiceApi",
	}, ids)
}

func TestBuilder_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBuilder(StaticModules{{ID: "core"}}, mapCatalog{}, WithFS(testFS(nil)))
	_, err := b.Build(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDirModules(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, m := range []string{"realtime", "core", "admin"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, m, "controllers"), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "README"), nil, 0o644))

	mods, err := DirModules{Root: root}.EnabledModules(context.Background())
	require.NoError(t, err)
	require.Len(t, mods, 3)
	assert.Equal(t, "admin", mods[0].ID)
	assert.Equal(t, filepath.Join(root, "admin"), mods[0].Path)

	mods, err = DirModules{Root: root, Enabled: []string{"realtime", "core"}}.EnabledModules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Module{
		{ID: "realtime", Path: filepath.Join(root, "realtime")},
		{ID: "core", Path: filepath.Join(root, "core")},
	}, mods)

	_, err = DirModules{Root: root, Enabled: []string{"missing"}}.EnabledModules(context.Background())
	require.ErrorIs(t, err, ErrModuleScan)

	_, err = DirModules{Root: t.TempDir()}.EnabledModules(context.Background())
	require.ErrorIs(t, err, ErrNoModules)

	_, err = DirModules{Root: filepath.Join(root, "nope")}.EnabledModules(context.Background())
	require.ErrorIs(t, err, ErrModuleScan)
}

func TestBuilder_DirFS(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := filepath.Join(root, "core", "controllers")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "HostController.go"), nil, 0o644))

	catalog := mapCatalog{
		"core/controllers/HostController": {"list": {Route: "/hosts", MethodType: http.MethodGet}},
	}
	table, err := NewBuilder(DirModules{Root: root}, catalog).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestWatcher(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := filepath.Join(root, "core", "controllers")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	paths := WatchPaths([]Module{{ID: "core", Path: filepath.Join(root, "core")}})
	assert.Equal(t, []string{filepath.Join(root, "core"), dir}, paths)

	var calls atomic.Int32
	w, err := NewWatcher(paths, func() { calls.Add(1) }, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "HostController.go"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ServiceController.go"), nil, 0o644))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
