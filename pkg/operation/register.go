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

package operation

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/protobridge/pkg/bridge"
	"github.com/walteh/protobridge/pkg/module"
	"github.com/walteh/protobridge/pkg/protoscan"
	"github.com/walteh/protobridge/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentReads bounds how many module files are read at once
const maxConcurrentReads = 8

// 🏗️ Plan computes every edit to the bridge in memory. Nothing is written.
func (r *Registrar) Plan(ctx context.Context, bridgePath string, modulePaths []string) (*Plan, error) {
	logger := zerolog.Ctx(ctx)

	paths, err := ExpandModules(bridgePath, modulePaths)
	if err != nil {
		return nil, errors.Errorf("resolving module files: %w", err)
	}

	// Check every input before reading any of them
	if err := r.files.RequireFile(ctx, bridgePath); err != nil {
		return nil, errors.Errorf("bridge file: %w", err)
	}
	for _, p := range paths {
		if err := r.files.RequireFile(ctx, p); err != nil {
			return nil, errors.Errorf("module file: %w", err)
		}
	}

	original, err := r.files.ReadFile(ctx, bridgePath)
	if err != nil {
		return nil, errors.Errorf("reading bridge file: %w", err)
	}

	modules, err := r.extractModules(ctx, paths)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		BridgePath: bridgePath,
		Original:   string(original),
		Modules:    modules,
	}

	doc := plan.Original
	var failures []error

	for _, m := range modules {
		d := m.Descriptor

		m.ImportPath, err = ImportPath(r.config, bridgePath, m.Path)
		if err != nil {
			return nil, errors.Errorf("%s: %w", m.Path, err)
		}

		m.Fields, err = bridge.AppendField(doc, r.config.Union, d.QualifiedModule, d.ModuleName, d.MessageNames)
		if err != nil {
			return nil, errors.Errorf("%s: appending fields: %w", m.Path, err)
		}
		doc = m.Fields.Document

		// a module with no appended field is not imported
		if m.Fields.Appended() == 0 {
			m.Import = &bridge.ImportResult{Document: doc, Path: m.ImportPath, Status: bridge.ImportSkipped, Offset: -1}
		} else {
			m.Import, err = bridge.InjectImport(doc, m.ImportPath, bridge.ImportOptions{
				AllowDuplicate: r.config.AllowDuplicateImports,
			})
			if err != nil {
				return nil, errors.Errorf("%s: injecting import: %w", m.Path, err)
			}
			doc = m.Import.Document
		}

		if err := m.Fields.Err(); err != nil {
			failures = append(failures, errors.Errorf("%s: %w", m.Path, err))
		}

		logger.Debug().
			Str("module", d.QualifiedModule).
			Str("import", m.ImportPath).
			Str("import_status", m.Import.Status.String()).
			Int("fields", m.Fields.Appended()).
			Msg("planned module")
	}

	plan.Updated = doc

	if len(failures) > 0 {
		if !r.config.AllowUnmatched {
			return nil, errors.Join(append([]error{ErrUnmatchedTargets}, failures...)...)
		}
		plan.Warnings = failures
	}

	return plan, nil
}

// extractModules reads and extracts every module concurrently, keeping argument order.
func (r *Registrar) extractModules(ctx context.Context, paths []string) ([]*ModulePlan, error) {
	modules := make([]*ModulePlan, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)

	for i, p := range paths {
		g.Go(func() error {
			m, err := r.extractModule(gctx, p)
			if err != nil {
				return err
			}
			modules[i] = m
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *Registrar) extractModule(ctx context.Context, path string) (*ModulePlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := r.files.ReadFile(ctx, path)
	if err != nil {
		return nil, errors.Errorf("reading module file: %w", err)
	}

	d, err := module.Extract(string(content))
	if err != nil {
		return nil, errors.Errorf("%s: %w", path, err)
	}

	m := &ModulePlan{Path: path, Descriptor: d}

	file, err := protoscan.Scan(string(content))
	if err != nil {
		if r.config.VerifyModule {
			return nil, errors.Errorf("%s: scanning module file: %w", path, err)
		}
		zerolog.Ctx(ctx).Debug().Err(err).Str("module", path).Msg("module file not scanned, skipping verification")
		return m, nil
	}

	m.Undeclared = d.Verify(file)
	if len(m.Undeclared) > 0 && r.config.VerifyModule {
		return nil, errors.Errorf("%s: %s: %w", path, strings.Join(m.Undeclared, ", "), ErrUndeclaredMessages)
	}

	return m, nil
}

// 💾 Apply writes the updated bridge. A dry run, or a plan that changes
// nothing, only records the outcome.
func (r *Registrar) Apply(ctx context.Context, plan *Plan, dryRun bool) error {
	info := status.FileInfo{
		Size:     int64(len(plan.Updated)),
		Checksum: status.Checksum([]byte(plan.Updated)),
		Edits:    plan.Edits(),
	}

	switch {
	case !plan.Changed():
		info.Status = status.StatusUnchanged
		info.Checksum = status.Checksum([]byte(plan.Original))
	case dryRun:
		info.Status = status.StatusPlanned
	default:
		if err := r.files.WriteFileAtomic(ctx, plan.BridgePath, []byte(plan.Updated)); err != nil {
			info.Status = status.StatusFailed
			info.Error = err
			r.status.TrackFile(ctx, plan.BridgePath, info)
			return errors.Errorf("writing bridge file: %w", err)
		}
		info.Status = status.StatusModified
	}

	r.status.TrackFile(ctx, plan.BridgePath, info)
	return nil
}
