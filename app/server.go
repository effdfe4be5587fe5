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
	"context"
	"fmt"
	"slices"
	"time"

	"centreon.dev/web/discovery"
	"centreon.dev/web/router"
)

// shutdownTimeout bounds the shutdown hooks run after the server stops.
const shutdownTimeout = 10 * time.Second

// Build loads the route table and binds it. The first request would
// otherwise do it.
func (a *App) Build(ctx context.Context) error {
	return a.router.Build(ctx)
}

// Run builds the routes, serves HTTP on the configured address until ctx
// is done, then shuts down gracefully. Module directories are watched and
// the route table is rebuilt when they change.
func (a *App) Run(ctx context.Context) error {
	a.OnStart(a.Build)
	if len(a.roots) > 0 {
		a.OnStart(a.watchModules)
	}
	a.OnShutdown(a.shutdownObservability)

	if err := a.executeStartHooks(ctx); err != nil {
		a.executeStopHooks()
		return err
	}

	addr := a.config.Server.Addr
	a.printBanner(addr)
	a.logger.Info("server starting",
		"address", addr,
		"base_url", a.router.BaseURL(),
		"routes", len(a.router.Routes()),
		"metrics_enabled", a.metrics != nil,
		"tracing_enabled", a.tracing != nil,
	)

	err := router.ServeHandler(ctx, a.router.ServerFor(addr, a.handler), a.logger)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.executeShutdownHooks(shutdownCtx)
	a.executeStopHooks()

	a.logger.Info("server exited")
	return err
}

// watchModules rebuilds the route table when a module directory changes.
// A failed rebuild keeps the routes already in place. The watcher stops
// with ctx.
func (a *App) watchModules(ctx context.Context) error {
	modules, err := a.modules.EnabledModules(ctx)
	if err != nil {
		return err
	}

	rebuild := func() {
		if err := a.router.Refresh(ctx); err != nil {
			a.logger.Error("route table rebuild failed, keeping previous routes", "error", err)
		}
	}

	paths := slices.Concat(a.roots, discovery.WatchPaths(modules))
	w, err := discovery.NewWatcher(paths, rebuild, discovery.WithWatcherLogger(a.logger))
	if err != nil {
		return fmt.Errorf("watch modules: %w", err)
	}

	go func() {
		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error("module watcher stopped", "error", err)
		}
	}()
	a.OnStop(func() { _ = w.Close() })
	return nil
}

func (a *App) shutdownObservability(ctx context.Context) {
	if a.metrics != nil {
		if err := a.metrics.Shutdown(ctx); err != nil {
			a.logger.Warn("metrics shutdown failed", "error", err)
		}
	}
	if a.tracing != nil {
		if err := a.tracing.Shutdown(ctx); err != nil {
			a.logger.Warn("tracing shutdown failed", "error", err)
		}
	}
}
