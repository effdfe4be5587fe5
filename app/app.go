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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"centreon.dev/web/cache"
	"centreon.dev/web/config"
	"centreon.dev/web/discovery"
	problems "centreon.dev/web/errors"
	"centreon.dev/web/internal/demo"
	"centreon.dev/web/logging"
	"centreon.dev/web/metrics"
	"centreon.dev/web/middleware"
	"centreon.dev/web/router"
	"centreon.dev/web/session"
	"centreon.dev/web/tracing"
)

// ServiceName identifies the process in logs, metrics and traces.
const ServiceName = "centreon-web"

// tokenTTL is the lifetime of session tokens issued by the jwt driver.
const tokenTTL = 8 * time.Hour

// Registrar adds controllers to the registry. Login pages sign users in
// through auth.
type Registrar func(reg *router.Registry, auth session.Authenticator) error

// App assembles the router and its collaborators from a Config.
type App struct {
	config  *config.Config
	version string
	out     io.Writer

	logging  *logging.Logger
	logger   *slog.Logger
	registry *router.Registry
	router   *router.Router
	handler  http.Handler

	cache    cache.Store
	sessions session.Store
	auth     session.Authenticator
	modules  discovery.ModuleSource
	moduleFS func(discovery.Module) fs.FS
	roots    []string

	metrics *metrics.Recorder
	tracing *tracing.Tracer

	register Registrar
	checks   map[string]CheckFunc
	hooks    Hooks
}

// New creates an App from cfg. Controllers come from the bundled demo
// module unless WithControllers is given.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}

	a := &App{
		config:   cfg,
		version:  "dev",
		out:      os.Stdout,
		register: demo.Register,
		checks:   make(map[string]CheckFunc),
	}
	for _, opt := range opts {
		opt(a)
	}

	steps := []func() error{
		a.initLogging,
		a.initCache,
		a.initSessions,
		a.initRegistry,
		a.initModules,
		a.initObservability,
		a.initRouter,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			a.closeResources()
			return nil, err
		}
	}

	a.handler = a.mux()
	return a, nil
}

// Router returns the application router.
func (a *App) Router() *router.Router { return a.router }

// Handler returns the HTTP entry point: the router plus health and
// metrics endpoints.
func (a *App) Handler() http.Handler { return a.handler }

// Logger returns the process logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Config returns the configuration the App was built from.
func (a *App) Config() *config.Config { return a.config }

func (a *App) initLogging() error {
	if a.logger != nil {
		return nil
	}

	level, err := logging.ParseLevel(a.config.Log.Level)
	if err != nil {
		return err
	}
	handler := logging.WithTextHandler()
	if a.config.Log.Format == "json" {
		handler = logging.WithJSONHandler()
	}

	a.logging, err = logging.New(
		handler,
		logging.WithLevel(level),
		logging.WithOutput(os.Stderr),
		logging.WithServiceName(ServiceName),
		logging.WithServiceVersion(a.version),
	)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	a.logger = a.logging.Logger()
	return nil
}

func (a *App) initCache() error {
	c := a.config.Cache
	switch c.Driver {
	case "redis":
		store, err := cache.NewRedisFromURL(c.RedisURL, cache.WithPrefix(c.Prefix), cache.WithExpiration(c.TTL))
		if err != nil {
			return fmt.Errorf("route cache: %w", err)
		}
		a.cache = store
		a.OnStop(func() {
			if err := store.Close(); err != nil {
				a.logger.Warn("redis close failed", "error", err)
			}
		})
	default:
		var opts []cache.MemoryOption
		if c.TTL > 0 {
			opts = append(opts, cache.WithTTL(c.TTL))
		}
		a.cache = cache.NewMemory(opts...)
	}
	return nil
}

func (a *App) initSessions() error {
	s := a.config.Session
	switch s.Driver {
	case "jwt":
		jwtOpts := []session.JWTOption{session.WithCookie(s.Cookie)}
		if s.Issuer != "" {
			jwtOpts = append(jwtOpts, session.WithIssuer(s.Issuer))
		}
		store := session.NewJWT([]byte(s.Secret), jwtOpts...)
		a.sessions = store
		a.auth = session.JWTAuth{Store: store, Cookie: s.Cookie, TTL: tokenTTL}
	default:
		store := session.NewMemory(s.Cookie)
		a.sessions = store
		a.auth = session.MemoryAuth{Store: store}
	}
	return nil
}

func (a *App) initRegistry() error {
	a.registry = router.NewRegistry()
	if err := a.register(a.registry, a.auth); err != nil {
		return fmt.Errorf("register controllers: %w", err)
	}
	return nil
}

func (a *App) initModules() error {
	if a.modules != nil {
		return nil
	}

	m := a.config.Modules
	if m.Root == "" {
		a.modules = demo.Modules()
		a.moduleFS = demo.FS
		return nil
	}

	a.modules = discovery.DirModules{Root: m.Root, Enabled: m.Enabled}
	a.roots = []string{m.Root}
	return nil
}

func (a *App) initObservability() error {
	if a.config.Metrics.Enabled {
		opts := []metrics.Option{
			metrics.WithServiceName(a.config.Metrics.ServiceName),
			metrics.WithServiceVersion(a.version),
			metrics.WithLogger(a.logger),
			metrics.WithExcludePaths(healthzPath, readyzPath, a.config.Metrics.Path),
		}
		if a.config.Metrics.OTLPEndpoint != "" {
			opts = append(opts, metrics.WithOTLP(a.config.Metrics.OTLPEndpoint))
		}
		if a.config.Metrics.Stdout {
			opts = append(opts, metrics.WithStdout(a.out))
		}
		opts = append(opts, metrics.WithExportInterval(a.config.Metrics.ExportInterval))
		rec, err := metrics.New(opts...)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		a.metrics = rec
	}

	if a.config.Tracing.Enabled {
		opts := []tracing.Option{
			tracing.WithServiceName(ServiceName),
			tracing.WithServiceVersion(a.version),
			tracing.WithSampleRate(a.config.Tracing.SampleRate),
			tracing.WithLogger(a.logger),
		}
		if a.config.Tracing.Stdout {
			opts = append(opts, tracing.WithStdout(a.out))
		}
		switch {
		case a.config.Tracing.OTLPEndpoint == "":
		case a.config.Tracing.OTLPProtocol == "grpc":
			opts = append(opts, tracing.WithOTLPGRPC(a.config.Tracing.OTLPEndpoint))
		default:
			opts = append(opts, tracing.WithOTLP(a.config.Tracing.OTLPEndpoint))
		}
		t, err := tracing.New(opts...)
		if err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
		a.tracing = t
	}
	return nil
}

func (a *App) initRouter() error {
	var builderOpts []discovery.Option
	builderOpts = append(builderOpts, discovery.WithLogger(a.logger))
	if a.moduleFS != nil {
		builderOpts = append(builderOpts, discovery.WithFS(a.moduleFS))
	}
	builder := discovery.NewBuilder(a.modules, a.registry, builderOpts...)

	codec, err := cache.CodecByName(a.config.Cache.Codec)
	if err != nil {
		return err
	}

	srv := a.config.Server
	opts := []router.Option{
		router.WithBaseURL(a.config.BaseURL),
		router.WithRegistry(a.registry),
		router.WithTableBuilder(builder),
		router.WithCache(a.cache),
		router.WithCacheKey(a.config.Cache.Key),
		router.WithCacheCodec(codec),
		router.WithACL(a.config.ACL.Evaluator()),
		router.WithSessionStore(a.sessions),
		router.WithLogger(a.logger),
		router.WithH2C(srv.H2C),
		router.WithServerTimeouts(srv.ReadHeaderTimeout, srv.ReadTimeout, srv.WriteTimeout, srv.IdleTimeout),
	}

	if login := a.config.Login; login.Controller != "" {
		opts = append(opts, router.WithLogin(login.Controller, login.Action))
	} else if _, ok := a.registry.Lookup(demo.LoginID); ok {
		opts = append(opts, router.WithLogin(demo.LoginID, demo.LoginAction))
	}

	var recorders []router.ObservabilityRecorder
	if a.metrics != nil {
		recorders = append(recorders, a.metrics)
		opts = append(opts, router.WithDiagnostics(a.metrics))
	}
	if a.tracing != nil {
		recorders = append(recorders, a.tracing)
	}
	if len(recorders) > 0 {
		opts = append(opts, router.WithObservability(router.MultiRecorder(recorders...)))
	}

	r, err := router.New(opts...)
	if err != nil {
		return fmt.Errorf("router: %w", err)
	}
	a.router = r
	return nil
}

func (a *App) mux() http.Handler {
	mux := http.NewServeMux()
	a.registerHealthEndpoints(mux)
	if a.metrics != nil {
		mux.Handle(a.config.Metrics.Path, a.metrics.Handler())
	}
	mux.Handle("/", a.router)

	var accessLog middleware.Middleware
	if a.config.Log.Access {
		accessLog = middleware.AccessLog(a.logger, middleware.WithExcludePaths(healthzPath, readyzPath, a.config.Metrics.Path))
	}
	var compress middleware.Middleware
	if a.config.Server.Compression {
		compress = middleware.Compress()
	}
	return middleware.Chain(mux,
		middleware.RequestID(),
		accessLog,
		compress,
		middleware.Recovery(
			middleware.WithRecoveryLogger(a.logger),
			middleware.WithFormatter(problems.NewRFC9457("")),
		),
		middleware.SecurityHeaders(middleware.WithHSTS(a.config.Server.HSTSMaxAge)),
	)
}

// closeResources releases what the init steps opened when New fails.
func (a *App) closeResources() {
	a.executeStopHooks()
}
