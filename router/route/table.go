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

import "slices"

// Table is the ordered list of records across all controllers.
// Order is declaration order and decides matching precedence.
type Table struct {
	Records []Record `json:"records"`
}

// Len returns the number of records.
func (t Table) Len() int { return len(t.Records) }

// Equal reports whether both tables hold the same records in the same order.
func (t Table) Equal(o Table) bool {
	return slices.Equal(t.Records, o.Records)
}

// Controllers returns the distinct controller ids in first-seen order.
func (t Table) Controllers() []string {
	seen := make(map[string]struct{}, len(t.Records))
	var out []string
	for _, r := range t.Records {
		if _, ok := seen[r.ControllerID]; ok {
			continue
		}
		seen[r.ControllerID] = struct{}{}
		out = append(out, r.ControllerID)
	}
	return out
}

// ByController returns the records declared by id, in order.
func (t Table) ByController(id string) []Record {
	var out []Record
	for _, r := range t.Records {
		if r.ControllerID == id {
			out = append(out, r)
		}
	}
	return out
}

// NotFound is the not-found handler captured from a "404" declaration.
type NotFound struct {
	ControllerID string
	Action       string
	Method       string
}

// NotFound returns the handler of the last "404" record. Earlier
// declarations are shadowed without error.
func (t Table) NotFound() (NotFound, bool) {
	for i := len(t.Records) - 1; i >= 0; i-- {
		if r := t.Records[i]; r.Kind() == KindNotFound {
			return NotFound{ControllerID: r.ControllerID, Action: r.Action, Method: r.Method}, true
		}
	}
	return NotFound{}, false
}

// Info describes a live binding for introspection.
type Info struct {
	Method       string // HTTP method, "" for any
	Path         string // route path as declared
	Kind         Kind
	ControllerID string
	Action       string
	ACL          string
	Denied       bool // registered as a 403 responder
	Params       []string
}
