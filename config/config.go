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

package config

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"centreon.dev/web/acl"
)

// Config holds the settings of the web front controller.
type Config struct {
	// BaseURL is the prefix the application is mounted under, e.g. "/centreon".
	BaseURL string  `config:"base_url" validate:"omitempty,startswith=/"`
	Modules Modules `config:"modules"`
	Cache   Cache   `config:"cache"`
	Session Session `config:"session"`
	Login   Login   `config:"login"`
	ACL     ACL     `config:"acl"`
	Server  Server  `config:"server"`
	Log     Log     `config:"log"`
	Metrics Metrics `config:"metrics"`
	Tracing Tracing `config:"tracing"`
}

// Modules locates the installed modules. With no Root the built-in module
// list is used.
type Modules struct {
	Root    string   `config:"root"`
	Enabled []string `config:"enabled"`
}

// Cache selects where the route table is kept between builds.
type Cache struct {
	Driver   string        `config:"driver" default:"memory" validate:"oneof=memory redis"`
	RedisURL string        `config:"redis_url" validate:"required_if=Driver redis,omitempty,url"`
	Prefix   string        `config:"prefix" default:"centreon:"`
	Key      string        `config:"key" default:"routes"`
	Codec    string        `config:"codec" default:"json" validate:"oneof=json msgpack"`
	TTL      time.Duration `config:"ttl" validate:"gte=0"`
}

// Session selects how the logged-in user is recovered from a request.
type Session struct {
	Driver string `config:"driver" default:"memory" validate:"oneof=memory jwt"`
	Secret string `config:"secret" validate:"required_if=Driver jwt"`
	Cookie string `config:"cookie" default:"centreon_session"`
	Issuer string `config:"issuer"`
}

// Login names the action anonymous users are sent to.
type Login struct {
	Controller string `config:"controller"`
	Action     string `config:"action" validate:"required_with=Controller"`
}

// ACL is a static allow/deny list applied to route paths.
type ACL struct {
	Allow       []string `config:"allow"`
	Deny        []string `config:"deny"`
	DefaultDeny bool     `config:"default_deny"`
}

// Evaluator returns the evaluator described by the section. An empty section
// allows everything.
func (a ACL) Evaluator() acl.Evaluator {
	if len(a.Allow) == 0 && len(a.Deny) == 0 && !a.DefaultDeny {
		return acl.AllowAll
	}
	return acl.Rules{Allow: a.Allow, Deny: a.Deny, Default: !a.DefaultDeny}
}

// Server holds the HTTP listener settings.
type Server struct {
	Addr              string        `config:"addr" default:":8080" validate:"required"`
	ReadHeaderTimeout time.Duration `config:"read_header_timeout" default:"5s" validate:"gt=0"`
	ReadTimeout       time.Duration `config:"read_timeout" default:"15s" validate:"gt=0"`
	WriteTimeout      time.Duration `config:"write_timeout" default:"30s" validate:"gt=0"`
	IdleTimeout       time.Duration `config:"idle_timeout" default:"60s" validate:"gt=0"`
	H2C               bool          `config:"h2c"`
	Compression       bool          `config:"compression"`
	// HSTSMaxAge is sent as Strict-Transport-Security on TLS requests, in
	// seconds. Zero disables the header.
	HSTSMaxAge int `config:"hsts_max_age" validate:"gte=0"`
}

// Log configures the process logger.
type Log struct {
	Level  string `config:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `config:"format" default:"text" validate:"oneof=text json"`
	// Access enables one log line per HTTP request.
	Access bool `config:"access"`
}

// Metrics configures the Prometheus endpoint.
type Metrics struct {
	Enabled     bool   `config:"enabled"`
	Path        string `config:"path" default:"/metrics" validate:"startswith=/"`
	ServiceName string `config:"service_name" default:"centreon-web"`
	// OTLPEndpoint also pushes metrics over OTLP/HTTP every
	// ExportInterval, as "host:port" or a URL. Stdout writes them to the
	// process output at the same pace.
	OTLPEndpoint   string        `config:"otlp_endpoint" validate:"omitempty,hostname_port|url"`
	Stdout         bool          `config:"stdout"`
	ExportInterval time.Duration `config:"export_interval" default:"30s" validate:"gt=0"`
}

// Tracing configures request spans.
type Tracing struct {
	Enabled    bool    `config:"enabled"`
	SampleRate float64 `config:"sample_rate" default:"1" validate:"gte=0,lte=1"`
	Stdout     bool    `config:"stdout"`
	// OTLPEndpoint receives spans over OTLPProtocol, as "host:port" or a URL.
	OTLPEndpoint string `config:"otlp_endpoint" validate:"omitempty,hostname_port|url"`
	OTLPProtocol string `config:"otlp_protocol" default:"http" validate:"oneof=http grpc"`
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("config"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every section and reports one error per invalid key.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewError("binding", "validate", err)
	}

	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace is "Config.<key path>".
		_, field, _ := strings.Cut(fe.Namespace(), ".")
		errs = append(errs, NewFieldError("binding", field, "validate", fieldError(fe)))
	}
	return errors.Join(errs...)
}

func fieldError(fe validator.FieldError) error {
	if fe.Param() != "" {
		return fmt.Errorf("value %v fails %s=%s", fe.Value(), fe.Tag(), fe.Param())
	}
	return fmt.Errorf("value %v fails %s", fe.Value(), fe.Tag())
}

// Load reads the configuration from the given sources. Without options it
// reads "centreon.yaml" when present, then CENTREON_ variables and ".env".
func Load(ctx context.Context, opts ...Option) (*Config, error) {
	if len(opts) == 0 {
		opts = []Option{
			WithOptionalFile("centreon.yaml"),
			WithEnv(DefaultEnvPrefix, ".env"),
		}
	}

	l, err := New(opts...)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err = l.Load(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(ctx context.Context, opts ...Option) *Config {
	cfg, err := Load(ctx, opts...)
	if err != nil {
		panic(err)
	}
	return cfg
}
