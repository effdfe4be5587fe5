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
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
)

// DefaultEnvPrefix prefixes the environment variables read by WithEnv callers
// that do not choose their own.
const DefaultEnvPrefix = "CENTREON_"

// Option configures a Loader.
type Option func(l *Loader) error

// Validator is implemented by binding targets that check themselves after
// decoding.
type Validator interface {
	Validate() error
}

// Loader merges configuration sources in order, later ones overriding
// earlier ones, and decodes the result into a struct.
type Loader struct {
	sources []Source
	tagName string
	values  map[string]any
}

// WithSource appends a custom source.
func WithSource(src Source) Option {
	return func(l *Loader) error {
		if src == nil {
			return errors.New("source cannot be nil")
		}
		l.sources = append(l.sources, src)
		return nil
	}
}

// WithFile reads a YAML, JSON or TOML file chosen by extension. The file
// must exist.
func WithFile(path string) Option {
	return func(l *Loader) error {
		decode, err := decoderFor(path)
		if err != nil {
			return err
		}
		l.sources = append(l.sources, &fileSource{path: path, decode: decode})
		return nil
	}
}

// WithOptionalFile is like WithFile but skips a missing file.
func WithOptionalFile(path string) Option {
	return func(l *Loader) error {
		decode, err := decoderFor(path)
		if err != nil {
			return err
		}
		l.sources = append(l.sources, &fileSource{path: path, decode: decode, optional: true})
		return nil
	}
}

// WithContent decodes YAML (or JSON) held in memory.
func WithContent(data []byte) Option {
	return func(l *Loader) error {
		l.sources = append(l.sources, &fileSource{data: data})
		return nil
	}
}

// WithEnv reads environment variables starting with prefix. Variables found
// in the dotenv files are used unless the process environment sets them too;
// missing dotenv files are ignored.
//
//	CENTREON_BASE_URL=/centreon        -> base_url
//	CENTREON_CACHE__REDIS_URL=redis:// -> cache.redis_url
func WithEnv(prefix string, dotenv ...string) Option {
	return func(l *Loader) error {
		l.sources = append(l.sources, newEnvSource(prefix, dotenv...))
		return nil
	}
}

// WithTag replaces the "config" struct tag used when decoding.
func WithTag(name string) Option {
	return func(l *Loader) error {
		if name == "" {
			return errors.New("tag name cannot be empty")
		}
		l.tagName = name
		return nil
	}
}

// New creates a Loader.
func New(opts ...Option) (*Loader, error) {
	l := &Loader{tagName: "config"}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Load merges every source and decodes the result into target, which must be
// a pointer to a struct. Fields still zero after decoding receive the value of
// their "default" tag. If target implements Validator it is validated last.
func (l *Loader) Load(ctx context.Context, target any) error {
	values, err := l.merge(ctx)
	if err != nil {
		return err
	}

	decoder, err := mapstructure.NewDecoder(l.decoderConfig(target))
	if err != nil {
		return NewError("binding", "bind", err)
	}
	if err = decoder.Decode(values); err != nil {
		return NewError("binding", "bind", err)
	}
	if err = applyDefaults(target); err != nil {
		return NewError("binding", "bind", err)
	}

	if v, ok := target.(Validator); ok {
		if err = v.Validate(); err != nil {
			return err
		}
	}

	l.values = values
	return nil
}

// Values returns the merged tree from the last successful Load.
func (l *Loader) Values() map[string]any { return l.values }

func (l *Loader) decoderConfig(target any) *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		TagName:          l.tagName,
		Squash:           true,
		WeaklyTypedInput: true,
		Result:           target,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	}
}

func (l *Loader) merge(ctx context.Context) (map[string]any, error) {
	merged := make(map[string]any)
	for i, src := range l.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		conf, err := src.Load(ctx)
		if err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "load", err)
		}
		if conf == nil {
			continue
		}

		if err = mergo.Map(&merged, normalizeMapKeys(conf), mergo.WithOverride); err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "merge", err)
		}
	}
	return merged, nil
}

// normalizeMapKeys lowercases keys at every level.
func normalizeMapKeys(m map[string]any) map[string]any {
	normalized := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = normalizeMapKeys(nested)
		}
		normalized[strings.ToLower(k)] = v
	}
	return normalized
}

func applyDefaults(target any) error {
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("binding target must be a pointer to a struct, got %T", target)
	}
	return setDefaults(val.Elem())
}

func setDefaults(val reflect.Value) error {
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct {
			if err := setDefaults(field); err != nil {
				return err
			}
			continue
		}

		tag := typ.Field(i).Tag.Get("default")
		if tag == "" || !field.IsZero() {
			continue
		}
		if err := setDefaultValue(field, tag); err != nil {
			return fmt.Errorf("failed to set default for field %s: %w", typ.Field(i).Name, err)
		}
	}
	return nil
}

func setDefaultValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeFor[time.Duration]() {
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported type for default tag: %s", field.Kind())
	}
	return nil
}
