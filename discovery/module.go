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
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// Module is an enabled module and the directory holding its sources.
type Module struct {
	ID   string `json:"id" yaml:"id"`
	Path string `json:"path" yaml:"path"`
}

// ModuleSource lists the enabled modules in processing order.
type ModuleSource interface {
	EnabledModules(ctx context.Context) ([]Module, error)
}

// StaticModules is a fixed module list.
type StaticModules []Module

// EnabledModules implements ModuleSource.
func (s StaticModules) EnabledModules(context.Context) ([]Module, error) {
	return slices.Clone([]Module(s)), nil
}

// DirModules treats every sub-directory of Root as a module named after the
// directory. When Enabled is not empty only the listed modules are returned,
// in the order they are listed; otherwise directories are sorted by name.
type DirModules struct {
	Root    string
	Enabled []string
}

// EnabledModules implements ModuleSource.
func (d DirModules) EnabledModules(ctx context.Context) ([]Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(d.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrModuleScan, d.Root, err)
	}

	present := make(map[string]bool, len(entries))
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		present[e.Name()] = true
		names = append(names, e.Name())
	}

	if len(d.Enabled) > 0 {
		names = names[:0]
		for _, id := range d.Enabled {
			if !present[id] {
				return nil, fmt.Errorf("%w: module %q not found under %s", ErrModuleScan, id, d.Root)
			}
			names = append(names, id)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoModules, d.Root)
	}

	out := make([]Module, len(names))
	for i, n := range names {
		out[i] = Module{ID: n, Path: filepath.Join(d.Root, n)}
	}
	return out, nil
}
