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

// Command centreon-web serves the Centreon web front controller.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"centreon.dev/web/config"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile string
	envFile    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "centreon-web",
		Short: "Centreon web front controller",
		Long: `centreon-web discovers the controllers of the enabled modules,
builds their route table and dispatches HTTP requests to them.

Configuration is read from a YAML file and CENTREON_ environment
variables, which may also come from a .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&g.configFile, "config", "c", "", "configuration file (default: ./centreon.yaml when present)")
	root.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "dotenv file with CENTREON_ variables")

	root.AddCommand(
		serveCmd(g),
		routesCmd(g),
		pathCmd(g),
		versionCmd(),
	)
	return root
}

func (g *globalFlags) options() []config.Option {
	var opts []config.Option
	if g.configFile != "" {
		opts = append(opts, config.WithFile(g.configFile))
	} else {
		opts = append(opts, config.WithOptionalFile("centreon.yaml"))
	}
	return append(opts, config.WithEnv(config.DefaultEnvPrefix, g.envFile))
}
