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

// Package middleware provides the net/http layers wrapped around the
// front controller: request ids, access logging, response compression,
// panic recovery and security headers.
//
//	h := middleware.Chain(mux,
//	    middleware.RequestID(),
//	    middleware.AccessLog(logger, middleware.WithExcludePaths("/healthz")),
//	    middleware.Compress(),
//	    middleware.Recovery(middleware.WithRecoveryLogger(logger)),
//	    middleware.SecurityHeaders(),
//	)
//
// The first middleware given to Chain is the outermost one.
package middleware
