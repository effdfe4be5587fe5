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

package app

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/common-nighthawk/go-figure"
	"golang.org/x/term"

	"centreon.dev/web/router/compiler"
	"centreon.dev/web/router/route"
)

var methodStyles = map[string]lipgloss.Style{
	http.MethodGet:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	http.MethodPost:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	http.MethodPut:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	http.MethodDelete: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	http.MethodPatch:  lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
}

var deniedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

// colorWriter downsamples ANSI colors to what w supports; pipes and files
// get none.
func colorWriter(w io.Writer) *colorprofile.Writer {
	return colorprofile.NewWriter(w, os.Environ())
}

// printBanner writes the service name in large letters and where it
// listens.
func (a *App) printBanner(addr string) {
	w := colorWriter(a.out)
	colors := []string{"12", "14", "10", "11"}

	for i, line := range figure.NewFigure("centreon", "", false).Slicify() {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i%len(colors)]))
		_, _ = fmt.Fprintln(w, style.Render(line))
	}

	info := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	_, _ = fmt.Fprintln(w, info.Render(fmt.Sprintf("  %s %s on %s%s", ServiceName, a.version, addr, a.router.BaseURL())))
	_, _ = fmt.Fprintln(w)
}

// PrintRoutes writes the live route table. Build must have run.
func (a *App) PrintRoutes(w io.Writer) {
	routes := a.router.Routes()
	if len(routes) == 0 {
		_, _ = fmt.Fprintln(w, "no routes")
		return
	}

	rows := make([][]string, 0, len(routes))
	for _, info := range routes {
		rows = append(rows, routeRow(info))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			style := lipgloss.NewStyle().Align(lipgloss.Left).Padding(0, 1)
			if row == table.HeaderRow {
				style = style.Bold(true)
			}
			return style
		}).
		Headers("Method", "Path", "Kind", "Action", "Params").
		Rows(rows...)

	// Shrink to the terminal; other writers get the natural width.
	out := t.Render()
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 && lipgloss.Width(out) > tw {
			out = t.Width(tw).Render()
		}
	}

	_, _ = fmt.Fprintln(colorWriter(w), out)
}

func routeRow(info route.Info) []string {
	method := info.Method
	if method == compiler.AnyMethod {
		method = "ANY"
	}
	if style, ok := methodStyles[method]; ok {
		method = style.Render(method)
	}

	path := info.Path
	if info.Denied {
		path = deniedStyle.Render(path + " (denied)")
	}

	return []string{
		method,
		path,
		info.Kind.String(),
		info.ControllerID + "::" + info.Action,
		strings.Join(info.Params, ", "),
	}
}
