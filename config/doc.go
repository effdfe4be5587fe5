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

// Package config loads the web front controller settings.
//
// Sources are merged in the order they are given, later ones overriding
// earlier ones: usually a YAML file followed by CENTREON_ environment
// variables, which may themselves come from a .env file. The merged tree is
// decoded into [Config] through the "config" struct tags, zero fields take
// their "default" tag, and the result is validated.
//
//	cfg, err := config.Load(ctx,
//	    config.WithFile("/etc/centreon/web.yaml"),
//	    config.WithEnv(config.DefaultEnvPrefix, ".env"),
//	)
//
// Nested keys are addressed in variables with a double underscore:
// CENTREON_SESSION__SECRET sets session.secret. Comma separated values fill
// lists, and durations use Go syntax ("5s").
package config
