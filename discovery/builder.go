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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"

	"centreon.dev/web/router/route"
)

// Controller locations inside a module, scanned in this order. A file
// qualifies when its base name, extension stripped, ends in suffix.
var locations = []struct {
	dir    string
	suffix string
}{
	{dir: "controllers", suffix: "Controller"},
	{dir: "api/rest", suffix: "Api"},
}

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Catalog resolves a controller id to its route declarations.
type Catalog interface {
	RouteSpecs(id string) (route.Specs, bool)
}

// Builder assembles the route table from the enabled modules.
type Builder struct {
	modules ModuleSource
	catalog Catalog
	fsys    func(Module) fs.FS
	logger  *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithFS replaces the filesystem a module is scanned through.
// The default is os.DirFS(module.Path).
func WithFS(fn func(Module) fs.FS) Option {
	return func(b *Builder) { b.fsys = fn }
}

// WithLogger sets the logger for scan details.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder returns a Builder reading modules and resolving controllers
// through catalog.
func NewBuilder(modules ModuleSource, catalog Catalog, opts ...Option) *Builder {
	b := &Builder{
		modules: modules,
		catalog: catalog,
		fsys:    func(m Module) fs.FS { return os.DirFS(m.Path) },
		logger:  noopLogger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Controllers returns the candidate controller ids of every enabled module,
// in module order. Within a module, controllers come before REST APIs and
// each group is sorted by name.
func (b *Builder) Controllers(ctx context.Context) ([]string, error) {
	modules, err := b.modules.EnabledModules(ctx)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, m := range modules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found, err := scan(b.fsys(m), m.ID)
		if err != nil {
			return nil, err
		}
		b.logger.Debug("module scanned", "module", m.ID, "controllers", len(found))
		ids = append(ids, found...)
	}
	return ids, nil
}

// Build returns the route table. Records follow module order, then
// controller order, then action name. See Assemble.
func (b *Builder) Build(ctx context.Context) (route.Table, error) {
	ids, err := b.Controllers(ctx)
	if err != nil {
		return route.Table{}, err
	}

	table, err := Assemble(ids, b.catalog)
	if err != nil {
		return route.Table{}, err
	}

	b.logger.Debug("route table built", "controllers", len(ids), "routes", table.Len())
	return table, nil
}

// Assemble asks catalog for the routes of each controller id, in order, and
// flattens them into a table. Actions of one controller are sorted by name.
// Controllers without routes are skipped. Every id the catalog cannot
// resolve is reported and the result is ErrControllerUnresolved.
func Assemble(ids []string, catalog Catalog) (route.Table, error) {
	var (
		table route.Table
		errs  []error
	)
	for _, id := range ids {
		specs, ok := catalog.RouteSpecs(id)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrControllerUnresolved, id))
			continue
		}
		if len(specs) == 0 {
			continue
		}

		actions := make([]string, 0, len(specs))
		for a := range specs {
			actions = append(actions, a)
		}
		slices.Sort(actions)

		for _, a := range actions {
			table.Records = append(table.Records, route.NewRecord(id, a, specs[a]))
		}
	}
	if len(errs) > 0 {
		return route.Table{}, errors.Join(errs...)
	}
	return table, nil
}

func scan(fsys fs.FS, module string) ([]string, error) {
	var ids []string
	seen := make(map[string]bool)

	for _, loc := range locations {
		matches, err := fs.Glob(fsys, loc.dir+"/*"+loc.suffix+".*")
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrModuleScan, module, err)
		}
		slices.Sort(matches)

		for _, m := range matches {
			base := path.Base(m)
			base = strings.TrimSuffix(base, path.Ext(base))
			if !strings.HasSuffix(base, loc.suffix) || base == loc.suffix {
				continue
			}
			id := module + "/" + loc.dir + "/" + base
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}
