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

package bridge

import (
	"strings"

	"github.com/walteh/protobridge/pkg/protoscan"
	"gitlab.com/tozd/go/errors"
)

// 📥 ImportStatus describes what InjectImport did
type ImportStatus int

const (
	ImportInserted             ImportStatus = iota // appended after the last import
	ImportInsertedAfterPackage                     // first import, placed after the package statement
	ImportAlreadyPresent                           // path was already imported, document unchanged
	ImportSkipped                                  // no field uses the path, document unchanged
)

// String returns a string representation of ImportStatus
func (s ImportStatus) String() string {
	switch s {
	case ImportInserted:
		return "inserted"
	case ImportInsertedAfterPackage:
		return "inserted after package"
	case ImportAlreadyPresent:
		return "already present"
	case ImportSkipped:
		return "skipped, no field appended"
	default:
		return "unknown"
	}
}

// 🔧 ImportOptions controls InjectImport
type ImportOptions struct {
	// AllowDuplicate inserts the import even when the path is already imported.
	AllowDuplicate bool
}

// 📄 ImportResult is the outcome of InjectImport
type ImportResult struct {
	Document string
	Path     string
	Status   ImportStatus
	Offset   int // where the statement was inserted, -1 when nothing changed
}

// Modified reports whether the document changed.
func (r *ImportResult) Modified() bool {
	return r.Status == ImportInserted || r.Status == ImportInsertedAfterPackage
}

// InjectImport adds `import "<importPath>";` to doc after the last existing
// import, or after the package statement when the file has no imports.
func InjectImport(doc string, importPath string, opts ImportOptions) (*ImportResult, error) {
	if importPath == "" || strings.ContainsAny(importPath, "\"\\\n\r") {
		return nil, errors.Errorf("%q: %w", importPath, ErrInvalidImportPath)
	}

	file, err := protoscan.Scan(doc)
	if err != nil {
		return nil, errors.Errorf("scanning bridge file: %w", err)
	}

	if !opts.AllowDuplicate && file.HasImport(importPath) {
		return &ImportResult{Document: doc, Path: importPath, Status: ImportAlreadyPresent, Offset: -1}, nil
	}

	nl := newlineOf(doc)
	stmt := `import "` + importPath + `";`

	if n := len(file.Imports); n > 0 {
		at := file.Imports[n-1].End
		return &ImportResult{
			Document: doc[:at] + nl + stmt + doc[at:],
			Path:     importPath,
			Status:   ImportInserted,
			Offset:   at + len(nl),
		}, nil
	}

	if file.Package != nil {
		at := file.Package.End
		return &ImportResult{
			Document: doc[:at] + nl + nl + stmt + doc[at:],
			Path:     importPath,
			Status:   ImportInsertedAfterPackage,
			Offset:   at + 2*len(nl),
		}, nil
	}

	return nil, ErrNoImportAnchor
}
