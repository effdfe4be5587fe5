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

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"centreon.dev/web/app"
	"centreon.dev/web/config"
	"centreon.dev/web/router"
	"centreon.dev/web/router/compiler"
)

// overrides is a config source built from command-line flags.
type overrides map[string]any

func (o overrides) Load(context.Context) (map[string]any, error) { return o, nil }

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// loadApp builds an App for one-shot commands, logging nothing.
func loadApp(cmd *cobra.Command, g *globalFlags) (*app.App, error) {
	cfg, err := config.Load(cmd.Context(), g.options()...)
	if err != nil {
		return nil, err
	}
	return app.New(cfg, app.WithVersion(version), app.WithLogger(quiet), app.WithOutput(cmd.OutOrStdout()))
}

func routesCmd(g *globalFlags) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		Long: `Discover the controllers of the enabled modules and print the
routes they declare, in matching order. The 404 route comes last.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			if err := a.Build(cmd.Context()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !plain {
				a.PrintRoutes(out)
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, info := range a.Router().Routes() {
				method := info.Method
				if method == compiler.AnyMethod {
					method = "ANY"
				}
				denied := ""
				if info.Denied {
					denied = "denied"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s::%s\t%s\n", method, info.Path, info.Kind.String(), info.ControllerID, info.Action, denied)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "tab separated output without borders or colors")
	return cmd
}

func pathCmd(g *globalFlags) *cobra.Command {
	var (
		lenient     bool
		keepVirtual bool
		check       bool
	)

	cmd := &cobra.Command{
		Use:   "path NAME [KEY=VALUE...]",
		Short: "Resolve a route name to a URL",
		Long: `Build the URL of a route from its name, which is its declared path,
and parameter values. The base URL is prepended.`,
		Example: `  centreon-web path '/hosts/[i:id]/[a:tab]?' id=42
  centreon-web path '/hosts/[i:id]' --lenient`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}

			a, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			if check {
				if err := a.Build(cmd.Context()); err != nil {
					return err
				}
				if !a.Router().HasRoute(args[0]) {
					return fmt.Errorf("no route named %q", args[0])
				}
			}

			var opts []router.PathOption
			if lenient {
				opts = append(opts, router.Lenient())
			}
			if keepVirtual {
				opts = append(opts, router.KeepVirtual())
			}
			p, err := a.Router().PathFor(args[0], params, opts...)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), p)
			return err
		},
	}

	cmd.Flags().BoolVar(&lenient, "lenient", false, "leave missing required tokens in place instead of failing")
	cmd.Flags().BoolVar(&keepVirtual, "keep-virtual", false, "print virtual routes as written instead of \"/\"")
	cmd.Flags().BoolVar(&check, "check", false, "fail unless the route is declared by an enabled module")
	return cmd
}

func parseParams(args []string) (map[string]string, error) {
	params := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("parameter %q is not KEY=VALUE", arg)
		}
		params[k] = v
	}
	return params, nil
}
