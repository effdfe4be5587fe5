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

package app

import (
	"io"
	"io/fs"
	"log/slog"

	"centreon.dev/web/discovery"
)

// Option configures an App.
type Option func(*App)

// WithControllers replaces the bundled demo controllers.
func WithControllers(register Registrar) Option {
	return func(a *App) { a.register = register }
}

// WithModules replaces the configured module list. fsys may be nil to read
// modules from disk.
func WithModules(modules discovery.ModuleSource, fsys func(discovery.Module) fs.FS) Option {
	return func(a *App) {
		a.modules = modules
		a.moduleFS = fsys
	}
}

// WithLogger replaces the logger built from the log section.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) { a.logger = logger }
}

// WithOutput sets where the banner, route table and stdout spans go.
// Default: os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// WithVersion sets the version reported in logs, metrics and traces.
func WithVersion(version string) Option {
	return func(a *App) { a.version = version }
}

// WithReadinessCheck adds a check run by the readiness endpoint.
func WithReadinessCheck(name string, fn CheckFunc) Option {
	return func(a *App) { a.checks[name] = fn }
}
