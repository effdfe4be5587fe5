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

package router

import "errors"

var (
	// ErrRouteNotFound indicates that no binding is registered under a name.
	ErrRouteNotFound = errors.New("route not found")

	// ErrMissingRouteParameter indicates that a required parameter for the route is missing.
	ErrMissingRouteParameter = errors.New("missing required parameter")

	// ErrActionNotFound indicates that a controller does not expose the routed action.
	// Dispatch panics with it.
	ErrActionNotFound = errors.New("controller action not found")

	// ErrInvalidRoute indicates a route record that cannot be bound.
	ErrInvalidRoute = errors.New("invalid route")

	// ErrInvalidController indicates a controller type without routes or factory.
	ErrInvalidController = errors.New("invalid controller type")

	// ErrDuplicateController indicates a controller id registered twice.
	ErrDuplicateController = errors.New("controller already registered")

	// ErrNoTableSource indicates a router with neither a registry nor a table builder.
	ErrNoTableSource = errors.New("no route table source configured")

	// ErrLoginNotRegistered indicates a login target missing from the registry.
	ErrLoginNotRegistered = errors.New("login controller not registered")

	// ErrRouteDenied is the error behind the canned 403 response.
	ErrRouteDenied = errors.New("access to this route is denied")

	// ErrLoginRequired is the error behind the canned 401 response.
	ErrLoginRequired = errors.New("authentication required")

	// ErrNoMatchingRoute is the error behind the canned 404 response.
	ErrNoMatchingRoute = errors.New("no route matches the request")

	// ErrMethodNotAllowed is the error behind the canned 405 response.
	ErrMethodNotAllowed = errors.New("method not allowed for this route")

	// ErrServerTimeoutInvalid indicates that the server timeout value must be positive.
	ErrServerTimeoutInvalid = errors.New("server timeout must be positive")

	// ErrResponseWriterNotHijacker indicates that ResponseWriter does not implement the http.Hijacker interface.
	ErrResponseWriterNotHijacker = errors.New("response writer does not implement http.Hijacker")
)
