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

package route

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel paths.
const (
	NotFoundPath         = "404"
	MethodNotAllowedPath = "405"
	VirtualPrefix        = "@"
)

// ErrInvalidMethod is returned for a method_type outside the supported set.
var ErrInvalidMethod = errors.New("invalid method type")

// Kind classifies a record by its path.
type Kind uint8

const (
	KindPath Kind = iota
	KindNotFound
	KindMethodNotAllowed
	KindVirtual
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	case KindVirtual:
		return "virtual"
	default:
		return "path"
	}
}

// KindOf classifies a route path.
func KindOf(path string) Kind {
	switch {
	case path == NotFoundPath:
		return KindNotFound
	case path == MethodNotAllowedPath:
		return KindMethodNotAllowed
	case strings.HasPrefix(path, VirtualPrefix):
		return KindVirtual
	default:
		return KindPath
	}
}

// Methods lists the accepted method types. Matching is case-sensitive.
var Methods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
	http.MethodPatch,
}

// ValidMethod reports whether m is one of Methods.
func ValidMethod(m string) bool {
	for _, v := range Methods {
		if v == m {
			return true
		}
	}
	return false
}

// Spec is a single route declaration as returned by a controller.
type Spec struct {
	Route      string `json:"route" yaml:"route"`
	MethodType string `json:"method_type" yaml:"method_type"`
	ACL        string `json:"acl,omitempty" yaml:"acl,omitempty"`
}

// Specs maps action names to their declaration.
type Specs map[string]Spec

// Record is one declared endpoint bound to its controller.
type Record struct {
	ControllerID string `json:"controller"`
	Action       string `json:"action"`
	Path         string `json:"path"`
	Method       string `json:"method"`
	ACL          string `json:"acl,omitempty"`
}

// NewRecord binds a declaration to a controller and action.
func NewRecord(controllerID, action string, s Spec) Record {
	return Record{
		ControllerID: controllerID,
		Action:       action,
		Path:         s.Route,
		Method:       s.MethodType,
		ACL:          s.ACL,
	}
}

// Kind classifies the record by its path.
func (r Record) Kind() Kind { return KindOf(r.Path) }

// Name returns the name the record is registered and checked under.
// Routes are named after their path.
func (r Record) Name() string { return r.Path }

// Validate checks the method type. Sentinel and virtual records are
// validated the same way since they are registered under a method too.
func (r Record) Validate() error {
	if !ValidMethod(r.Method) {
		return fmt.Errorf("%w %q for %s::%s", ErrInvalidMethod, r.Method, r.ControllerID, r.Action)
	}
	return nil
}

// String returns "METHOD path -> controller::action".
func (r Record) String() string {
	return r.Method + " " + r.Path + " -> " + r.ControllerID + "::" + r.Action
}
