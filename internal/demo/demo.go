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

// Package demo provides a small set of controllers so the web binary can
// run without any installed module.
package demo

import (
	"embed"
	"io/fs"

	"centreon.dev/web/discovery"
	"centreon.dev/web/router"
	"centreon.dev/web/session"
)

// Controller ids of the bundled "core" module.
const (
	LoginID  = "core/controllers/LoginController"
	HostsID  = "core/controllers/HostController"
	ErrorsID = "core/controllers/ErrorController"
	StatusID = "core/api/rest/StatusApi"
)

// LoginAction is the action anonymous users are handed to.
const LoginAction = "form"

//go:embed modules
var files embed.FS

// Modules returns the bundled module list.
func Modules() discovery.StaticModules {
	return discovery.StaticModules{{ID: "core", Path: "modules/core"}}
}

// FS serves the bundled module sources to a discovery.Builder.
func FS(m discovery.Module) fs.FS {
	sub, err := fs.Sub(files, m.Path)
	if err != nil {
		// Paths come from Modules and always exist.
		panic(err)
	}
	return sub
}

// Register adds the bundled controllers to reg. Sign-in goes through auth.
func Register(reg *router.Registry, auth session.Authenticator) error {
	h := newHostStore()

	types := []struct {
		id string
		t  router.ControllerType
	}{
		{LoginID, router.ControllerType{Routes: loginRoutes, New: newLogin(auth)}},
		{HostsID, router.ControllerType{Routes: hostRoutes, New: h.controller}},
		{ErrorsID, router.ControllerType{Routes: errorRoutes, New: newErrors}},
		{StatusID, router.ControllerType{Routes: statusRoutes, New: newStatus}},
	}
	for _, ct := range types {
		if err := reg.Register(ct.id, ct.t); err != nil {
			return err
		}
	}
	return nil
}
