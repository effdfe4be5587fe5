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

package discovery

import "errors"

var (
	// ErrControllerUnresolved is returned when a discovered controller id
	// has no registered implementation.
	ErrControllerUnresolved = errors.New("controller could not be resolved")

	// ErrModuleScan is returned when a module directory cannot be read.
	ErrModuleScan = errors.New("module scan failed")

	// ErrNoModules is returned by DirModules when the root holds no module.
	ErrNoModules = errors.New("no enabled module found")
)
