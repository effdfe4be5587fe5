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

// Package errors renders errors as HTTP responses.
//
// A Formatter turns an error into a Response: status, content type and a
// body ready to be encoded as JSON. Two formats are provided:
//   - RFC9457: Problem Details (application/problem+json)
//   - Simple: {"error": "...", "code": "..."} (application/json)
//
// Errors choose their status and code by implementing ErrorType and
// ErrorCode, or by being wrapped with WithStatus and WithCode:
//
//	err := errors.WithCode(errors.WithStatus(ErrRouteDenied, http.StatusForbidden), "route_denied")
//	errors.Write(w, errors.NewRFC9457("").Format(r, err))
//
// The router renders its canned 403, 404 and 405 answers and failed
// actions this way.
package errors
