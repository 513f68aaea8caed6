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

	"github.com/walteh/protobridge/pkg/config"
	"github.com/walteh/protobridge/pkg/status"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrNoModules          = errors.Base("at least one module file is required")
	ErrNoMatches          = errors.Base("pattern matched no module files")
	ErrUndeclaredMessages = errors.Base("module file does not declare annotated messages")
	ErrUnmatchedTargets   = errors.Base("some bridge edits could not be made")
)

// 🎯 Operator defines the main interface for protobridge operations
type Operator interface {
	// Plan computes every edit to the bridge in memory
	Plan(ctx context.Context, bridgePath string, modulePaths []string) (*Plan, error)
	// Apply writes a plan, or only records it when dryRun is set
	Apply(ctx context.Context, plan *Plan, dryRun bool) error
}

// 🔧 Options contains configuration for the operator
type Options struct {
	// Config is the protobridge configuration
	Config *config.Config
	// Files reads and writes proto files
	Files status.FileManager
	// Status records the outcome per file
	Status status.StatusReporter
}

var _ Operator = (*Registrar)(nil)

// 🏭 New creates a new registrar with the given options
func New(opts Options) (*Registrar, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Files == nil {
		return nil, errors.Errorf("file manager is required")
	}
	if opts.Status == nil {
		return nil, errors.Errorf("status reporter is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return &Registrar{
		config: opts.Config,
		files:  opts.Files,
		status: opts.Status,
	}, nil
}

// 🎮 Registrar implements the Operator interface
type Registrar struct {
	config *config.Config
	files  status.FileManager
	status status.StatusReporter
}
