// Copyright 2025 walteh LLC
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

package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/protobridge/cmd/protobridge/opts"
	"github.com/walteh/protobridge/pkg/log"
	"github.com/walteh/protobridge/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewInspectCmd creates a new inspect command
func NewInspectCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file.proto>",
		Short: "Show the messages, oneofs and module annotation of a proto file",
		Long: `Inspect prints what protobridge sees in a proto file: its package and
imports, the module annotation if there is one, and every message with its
oneofs, their field counts and the number the next appended field would get.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			ins, err := operation.Inspect(cmd.Context(), o.Files, args[0])
			if err != nil {
				return errors.Errorf("inspecting: %w", err)
			}

			table, err := InspectionTable(ins)
			if err != nil {
				return errors.Errorf("rendering table: %w", err)
			}

			console := log.FromContext(cmd.Context())
			console.Header("inspecting " + ins.Path)

			if ins.File.Syntax != nil {
				console.Infof("syntax: %s", ins.File.Syntax.Value)
			}
			if ins.File.Package != nil {
				console.Infof("package: %s", ins.File.Package.Value)
			}
			for _, imp := range ins.File.Imports {
				if imp.Modifier != "" {
					console.Infof("import: %s (%s)", imp.Path, imp.Modifier)
					continue
				}
				console.Infof("import: %s", imp.Path)
			}
			if d := ins.Module; d != nil {
				console.Infof("module: %s [%s] (line %d)", d.QualifiedModule, strings.Join(d.MessageNames, ", "), d.Line)
				if missing := d.Verify(ins.File); len(missing) > 0 {
					console.Warningf("annotated but not declared: %s", strings.Join(missing, ", "))
				}
			}

			console.LogNewline()
			console.Print(table)
			return nil
		},
	}

	return cmd
}

// InspectionTable renders every message and its oneofs as a table
func InspectionTable(ins *operation.Inspection) (string, error) {
	data := pterm.TableData{
		{"Message", "Oneof", "Fields", "Max", "Next"},
	}

	for _, m := range ins.File.Messages {
		if len(m.Oneofs) == 0 {
			data = append(data, []string{m.FullName, "-", "-", "-", "-"})
			continue
		}
		for _, o := range m.Oneofs {
			data = append(data, []string{
				m.FullName,
				o.Name,
				strconv.Itoa(len(o.Fields)),
				strconv.FormatInt(o.MaxNumber(), 10),
				strconv.FormatInt(o.NextNumber(), 10),
			})
		}
	}

	if len(data) == 1 {
		return fmt.Sprintf("no messages in %s", ins.Path), nil
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}
