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
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/protobridge/cmd/protobridge/opts"
	"github.com/walteh/protobridge/pkg/bridge"
	"github.com/walteh/protobridge/pkg/log"
	"github.com/walteh/protobridge/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewRegisterCmd creates the register command, which protobridge runs by default
func NewRegisterCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "protobridge [flags] <bridge.proto> <module.proto> [module.proto...]",
		Short: "Register module proto files into a bridge proto file",
		Long: `protobridge reads the module annotation of each module file, a line comment
of the form

	// <namespace>.<module> [<Message>, <Message>, ...]

and for each module adds an import of the module file to the bridge file and a
field "<namespace>.<module>.<Message> <module> = <n>;" to the oneof of every
listed bridge message, numbered one past the highest number already used.

Module arguments may be glob patterns such as "proto/modules/**/*.proto".
Nothing is written unless every edit succeeds.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Arguments are valid past this point, so errors are not usage errors
			cmd.SilenceUsage = true

			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "register").Logger().WithContext(cmd.Context())
			return runRegister(ctx, o, args[0], args[1:])
		},
	}

	cmd.Flags().StringVarP(&o.Union, "union", "u", "", "oneof to append module fields to (default from config, \"subsystem\")")
	cmd.Flags().BoolVar(&o.DryRun, "dry-run", false, "print the change as a diff and write nothing")
	cmd.Flags().BoolVar(&o.AllowUnmatched, "allow-unmatched", false, "apply the edits that succeed when some targets cannot be edited")
	cmd.Flags().BoolVar(&o.AllowDuplicateImports, "allow-duplicate-imports", false, "insert the import even when the bridge already has it")
	cmd.Flags().StringVar(&o.ImportStyle, "import-style", "", "import path style, basename or relative")
	cmd.Flags().StringVar(&o.ImportPrefix, "import-prefix", "", "prefix for basename import paths")
	cmd.Flags().BoolVar(&o.VerifyModule, "verify-module", false, "fail when a module file does not declare every annotated message")

	return cmd
}

func runRegister(ctx context.Context, o *opts.RootOpts, bridgePath string, modulePaths []string) error {
	console := log.FromContext(ctx)

	op, err := operation.New(operation.Options{
		Config: o.Config,
		Files:  o.Files,
		Status: o.Files,
	})
	if err != nil {
		return errors.Errorf("creating operator: %w", err)
	}

	plan, err := op.Plan(ctx, bridgePath, modulePaths)
	if err != nil {
		return errors.Errorf("planning: %w", err)
	}

	console.Print(fmt.Sprintf("Bridge main proto file: '%s'", bridgePath))
	paths := make([]string, 0, len(plan.Modules))
	for _, m := range plan.Modules {
		console.Print(fmt.Sprintf("Bridge module proto file: '%s'", m.Path))
		paths = append(paths, m.Path)
	}
	console.LogNewline()

	console.StartFileOperation(ctx, log.FileOperation{Path: bridgePath, Modules: paths, DryRun: o.DryRun})
	for _, m := range plan.Modules {
		logModule(ctx, console, m)
	}
	console.EndFileOperation(ctx)

	for _, m := range plan.Modules {
		if len(m.Undeclared) > 0 {
			console.Warningf("%s does not declare %s", m.Path, strings.Join(m.Undeclared, ", "))
		}
	}
	for _, w := range plan.Warnings {
		console.Warning(w.Error())
	}

	if o.DryRun && plan.Changed() {
		console.LogNewline()
		console.Print(strings.TrimSuffix(plan.Diff(), "\n"))
	}

	if err := op.Apply(ctx, plan, o.DryRun); err != nil {
		return err
	}

	console.LogNewline()
	for _, line := range o.Files.Summary(ctx) {
		console.Print(line)
	}

	switch {
	case !plan.Changed():
		console.Success("bridge already up to date")
	case o.DryRun:
		console.Successf("dry run, %d edits planned", plan.Edits())
	default:
		console.Successf("registered %d modules into %s", len(plan.Modules), bridgePath)
	}
	return nil
}

func logModule(ctx context.Context, console *log.Logger, m *operation.ModulePlan) {
	console.LogEdit(ctx, log.Edit{
		Kind:    log.EditImport,
		Target:  m.ImportPath,
		Detail:  m.Import.Status.String(),
		Applied: m.Import.Modified(),
	})

	for _, t := range m.Fields.Targets {
		e := log.Edit{
			Kind:   log.EditField,
			Target: t.Declaration,
		}
		if t.Status == bridge.TargetAppended {
			e.Detail = t.Line
			e.Applied = true
		} else {
			e.Detail = t.Status.String()
			e.Failed = true
		}
		console.LogEdit(ctx, e)
	}
}
