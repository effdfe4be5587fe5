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

// Package compiler turns route path templates into matchers.
//
// A template is a path with optional placeholder tokens:
//
//	/hosts/[i:id]
//	/hosts/[i:id]/services/[a:name]?
//	/files/[**:path]
//	/export.[:format]?
//
// Each token has the shape [type:name], [type] or [:name], may be preceded by
// a "/" or "." separator, and may be followed by "?" to make the token and
// its separator optional.
//
// # Type Tags
//
//	i   digits
//	a   letters and digits
//	h   hexadecimal digits
//	*   anything, shortest match
//	**  anything, longest match
//	""  one segment without "/" or "."
//
// Any other tag is used verbatim as a regular expression, for example
// [\d{4}:year]. Custom tags cannot contain ":" or "]".
//
// # Virtual Templates
//
// A path beginning with "@" is a virtual template: it names an endpoint that
// is invoked by name and never matched against a URL.
//
// # Matching and Building
//
// The same parsed segments drive both directions:
//
//	t := compiler.MustCompile("/hosts/[i:id]/[a:tab]?")
//	params, ok := t.Match("/hosts/42")        // id=42, ok
//	url, missing := t.Build(map[string]string{"id": "42"}) // "/hosts/42", none
//
// RouteCompiler keeps compiled templates in registration order and returns
// the first one accepting a method and path.
package compiler
