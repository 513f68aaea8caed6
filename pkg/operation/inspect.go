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

	"github.com/rs/zerolog"
	"github.com/walteh/protobridge/pkg/module"
	"github.com/walteh/protobridge/pkg/protoscan"
	"github.com/walteh/protobridge/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔬 Inspection is the outline of one proto file
type Inspection struct {
	Path   string
	File   *protoscan.File
	Module *module.Descriptor // nil when the file has no module annotation
}

// Inspect reads and scans path. A file without a module annotation is not an error.
func Inspect(ctx context.Context, files status.FileManager, path string) (*Inspection, error) {
	if err := files.RequireFile(ctx, path); err != nil {
		return nil, err
	}

	content, err := files.ReadFile(ctx, path)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}

	file, err := protoscan.Scan(string(content))
	if err != nil {
		return nil, errors.Errorf("%s: %w", path, err)
	}

	ins := &Inspection{Path: path, File: file}

	d, err := module.Extract(string(content))
	switch {
	case err == nil:
		ins.Module = d
	case errors.Is(err, module.ErrMissingAnnotation):
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no module annotation")
	default:
		return nil, errors.Errorf("%s: %w", path, err)
	}

	return ins, nil
}
