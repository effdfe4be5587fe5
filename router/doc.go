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

// Package router dispatches HTTP requests to controller actions.
//
// Controllers declare their routes as a map from action name to a path
// template and a method. The route table lists those declarations across
// every enabled module in a stable order; the router compiles it once
// into bindings and matches each request against them, first match
// winning.
//
// # Quick Start
//
//	reg := router.NewRegistry()
//	reg.MustRegister("core/controllers/HostController", router.ControllerType{
//	    Routes: func() route.Specs {
//	        return route.Specs{
//	            "list": {Route: "/hosts", MethodType: http.MethodGet},
//	            "show": {Route: "/hosts/[i:id]", MethodType: http.MethodGet},
//	        }
//	    },
//	    New: func(c *router.Context) router.Controller {
//	        return router.Actions{
//	            "list": func() error { return c.String(http.StatusOK, "hosts") },
//	            "show": func() error { return c.JSON(http.StatusOK, c.Params()) },
//	        }
//	    },
//	})
//
//	r := router.MustNew(router.WithRegistry(reg), router.WithBaseURL("/centreon"))
//	log.Fatal(r.Serve(ctx, ":8080"))
//
// # Special Routes
//
// A route declared with path "404" handles requests no binding matches.
// When several controllers declare one, the last declaration wins. Path
// "405" handles requests whose path matched under another method. Paths
// starting with "@" are virtual: they are reached with Dispatch, never by
// URL.
//
// # Access Control
//
// The ACL evaluator set with WithACL is asked about every concrete route
// when bindings are built. A denied route still matches, for every method,
// and answers 403. Anonymous sessions are handed to the login action set
// with WithLogin; stylesheet requests and the login controller itself are
// exempt.
//
// # Route Table Cache
//
// The table is kept JSON-encoded in a cache.Store under "routes". Several
// processes sharing a Redis store build it once. Invalidate drops it.
//
// # Reverse Routing
//
// PathFor turns a route name and parameters back into a URL under the
// base URL. CurrentURI strips the base URL from a request path.
package router
