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

// Package acl decides whether a route may be reached.
//
// The router asks an Evaluator about every concrete route while it builds
// its bindings; a denied route answers 403 for every method.
//
//	rules := acl.Rules{
//	    Deny:    []string{"/administration/*"},
//	    Default: true,
//	}
//	r := router.MustNew(router.WithACL(rules))
package acl

import "strings"

// Evaluator reports whether the route registered under name is allowed.
type Evaluator interface {
	RouteAllowed(name string) bool
}

// Func adapts a function to Evaluator.
type Func func(name string) bool

// RouteAllowed calls f(name).
func (f Func) RouteAllowed(name string) bool { return f(name) }

type constant bool

func (c constant) RouteAllowed(string) bool { return bool(c) }

// AllowAll allows every route.
var AllowAll Evaluator = constant(true)

// DenyAll denies every route.
var DenyAll Evaluator = constant(false)

// Rules is a static allow/deny list.
//
// Entries match a route name exactly, or by prefix when they end in "*".
// Deny entries win over allow entries; names matching neither get Default.
type Rules struct {
	Allow   []string `json:"allow" yaml:"allow"`
	Deny    []string `json:"deny" yaml:"deny"`
	Default bool     `json:"default" yaml:"default"`
}

// RouteAllowed implements Evaluator.
func (r Rules) RouteAllowed(name string) bool {
	if matchAny(r.Deny, name) {
		return false
	}
	if matchAny(r.Allow, name) {
		return true
	}
	return r.Default
}

// Set allows exactly the listed route names.
type Set map[string]struct{}

// NewSet builds a Set from names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// RouteAllowed implements Evaluator.
func (s Set) RouteAllowed(name string) bool {
	_, ok := s[name]
	return ok
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if prefix, ok := strings.CutSuffix(p, "*"); ok {
			if strings.HasPrefix(name, prefix) {
				return true
			}
			continue
		}
		if p == name {
			return true
		}
	}
	return false
}
