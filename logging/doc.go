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

// Package logging builds the structured logger shared by the router, the
// route table builder and the command line.
//
// It wraps [log/slog] with a JSON or text handler, attaches service
// metadata to every entry and redacts credential-like attributes:
//
//	logger := logging.MustNew(
//	    logging.WithTextHandler(),
//	    logging.WithServiceName("centreon-web"),
//	    logging.WithLevel(logging.LevelDebug),
//	)
//	r := router.MustNew(router.WithLogger(logger.Logger()))
//
// Tests use NewTestHelper to capture and inspect entries.
package logging
