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
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Source produces a configuration tree. Keys are matched case-insensitively.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (map[string]any, error)

// Load implements Source.
func (f SourceFunc) Load(ctx context.Context) (map[string]any, error) { return f(ctx) }

type decodeFunc func(data []byte, v any) error

// decoders maps file extensions to their decoder. JSON documents are
// valid YAML, so both go through the same one.
var decoders = map[string]decodeFunc{
	".yaml": yaml.Unmarshal,
	".yml":  yaml.Unmarshal,
	".json": yaml.Unmarshal,
	".toml": toml.Unmarshal,
}

func decoderFor(path string) (decodeFunc, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("cannot detect format from extension %q", ext)
	}
	return decode, nil
}

type fileSource struct {
	path     string
	data     []byte
	decode   decodeFunc
	optional bool
}

func (f *fileSource) Load(context.Context) (map[string]any, error) {
	data := f.data
	if f.path != "" {
		var err error
		data, err = os.ReadFile(f.path)
		if err != nil {
			if f.optional && errors.Is(err, fs.ErrNotExist) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
	}

	decode := f.decode
	if decode == nil {
		decode = yaml.Unmarshal
	}
	var conf map[string]any
	if err := decode(data, &conf); err != nil {
		return nil, fmt.Errorf("failed to decode file: %w", err)
	}
	return conf, nil
}

// envSeparator separates nesting levels in variable names:
// CENTREON_CACHE__REDIS_URL sets cache.redis_url.
const envSeparator = "__"

type envSource struct {
	prefix   string
	dotenv   []string
	environ  func() []string
	readFile func(filenames ...string) (map[string]string, error)
}

func newEnvSource(prefix string, dotenv ...string) *envSource {
	return &envSource{
		prefix:   prefix,
		dotenv:   dotenv,
		environ:  os.Environ,
		readFile: godotenv.Read,
	}
}

// Load collects prefixed variables, .env files first so the process
// environment wins, and nests them on envSeparator.
func (e *envSource) Load(context.Context) (map[string]any, error) {
	vars := make(map[string]string)

	for _, file := range e.dotenv {
		values, err := e.readFile(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		for k, v := range values {
			vars[k] = v
		}
	}
	for _, kv := range e.environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			vars[k] = v
		}
	}

	conf := make(map[string]any)
	for k, v := range vars {
		if !strings.HasPrefix(k, e.prefix) {
			continue
		}
		setNested(conf, strings.Split(strings.ToLower(strings.TrimPrefix(k, e.prefix)), envSeparator), strings.TrimSpace(v))
	}
	return conf, nil
}

// setNested stores value under the key path, replacing scalars that sit where
// a nested map is needed.
func setNested(conf map[string]any, parts []string, value string) {
	keys := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			keys = append(keys, p)
		}
	}
	if len(keys) == 0 {
		return
	}

	current := conf
	for _, k := range keys[:len(keys)-1] {
		next, ok := current[k].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[k] = next
		}
		current = next
	}
	current[keys[len(keys)-1]] = value
}
