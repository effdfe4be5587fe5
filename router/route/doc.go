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

// Package route defines the records that make up a route table.
//
// Controllers declare their endpoints as a map of action name to Spec:
//
//	route.Specs{
//	    "show":   {Route: "/hosts/[i:id]", MethodType: "GET", ACL: "hosts.read"},
//	    "list":   {Route: "/hosts", MethodType: "GET"},
//	    "notFound": {Route: "404", MethodType: "GET"},
//	}
//
// A table builder turns each declaration into a Record bound to its
// controller. Records are classified by their path:
//
//	KindPath              ordinary path template
//	KindNotFound          "404", the catch-all page
//	KindMethodNotAllowed  "405", the wrong-method page
//	KindVirtual           "@name", invoked by name only
//
// Tables are plain data and encode to JSON so they can be kept in any cache.
package route
