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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestInjectImport(t *testing.T) {
	tests := []struct {
		name       string
		doc        string
		path       string
		opts       ImportOptions
		want       string
		wantStatus ImportStatus
		wantErr    error
	}{
		{
			name:       "after_last_import",
			doc:        "syntax = \"proto3\";\npackage a;\n\nimport \"x.proto\";\nimport public \"y.proto\";\n\nmessage A {}\n",
			path:       "m.proto",
			want:       "syntax = \"proto3\";\npackage a;\n\nimport \"x.proto\";\nimport public \"y.proto\";\nimport \"m.proto\";\n\nmessage A {}\n",
			wantStatus: ImportInserted,
		},
		{
			name:       "after_package_when_no_imports",
			doc:        "syntax = \"proto3\";\n\npackage a;\n\nmessage A {}\n",
			path:       "m.proto",
			want:       "syntax = \"proto3\";\n\npackage a;\n\nimport \"m.proto\";\n\nmessage A {}\n",
			wantStatus: ImportInsertedAfterPackage,
		},
		{
			name:       "commented_import_is_not_an_anchor",
			doc:        "package a;\n// import \"fake.proto\";\nmessage A {}\n",
			path:       "m.proto",
			want:       "package a;\n\nimport \"m.proto\";\n// import \"fake.proto\";\nmessage A {}\n",
			wantStatus: ImportInsertedAfterPackage,
		},
		{
			name:       "crlf",
			doc:        "package a;\r\nimport \"x.proto\";\r\n",
			path:       "m.proto",
			want:       "package a;\r\nimport \"x.proto\";\r\nimport \"m.proto\";\r\n",
			wantStatus: ImportInserted,
		},
		{
			name:       "already_present",
			doc:        "package a;\nimport \"m.proto\";\n",
			path:       "m.proto",
			want:       "package a;\nimport \"m.proto\";\n",
			wantStatus: ImportAlreadyPresent,
		},
		{
			name:       "already_present_allowed",
			doc:        "package a;\nimport \"m.proto\";\n",
			path:       "m.proto",
			opts:       ImportOptions{AllowDuplicate: true},
			want:       "package a;\nimport \"m.proto\";\nimport \"m.proto\";\n",
			wantStatus: ImportInserted,
		},
		{
			name:    "no_anchor",
			doc:     "message A {}\n",
			path:    "m.proto",
			wantErr: ErrNoImportAnchor,
		},
		{
			name:    "quote_in_path",
			doc:     "package a;\n",
			path:    "m\".proto",
			wantErr: ErrInvalidImportPath,
		},
		{
			name:    "empty_path",
			doc:     "package a;\n",
			path:    "",
			wantErr: ErrInvalidImportPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := InjectImport(tt.doc, tt.path, tt.opts)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Document)
			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Equal(t, tt.path, result.Path)
			assert.Equal(t, tt.wantStatus != ImportAlreadyPresent, result.Modified())
			if result.Modified() {
				assert.True(t, strings.HasPrefix(result.Document[result.Offset:], `import "`+tt.path+`";`))
			} else {
				assert.Equal(t, -1, result.Offset)
			}
		})
	}
}

func TestInjectImport_Twice(t *testing.T) {
	doc := "syntax = \"proto3\";\n\npackage a;\n\nimport \"core.proto\";\n"

	t.Run("deduplicated_by_default", func(t *testing.T) {
		first, err := InjectImport(doc, "m.proto", ImportOptions{})
		require.NoError(t, err)
		second, err := InjectImport(first.Document, "m.proto", ImportOptions{})
		require.NoError(t, err)

		assert.Equal(t, ImportAlreadyPresent, second.Status)
		assert.Equal(t, first.Document, second.Document)
		assert.Equal(t, 1, strings.Count(second.Document, `import "m.proto";`))
	})

	t.Run("duplicated_when_allowed", func(t *testing.T) {
		opts := ImportOptions{AllowDuplicate: true}
		first, err := InjectImport(doc, "m.proto", opts)
		require.NoError(t, err)
		second, err := InjectImport(first.Document, "m.proto", opts)
		require.NoError(t, err)

		assert.Equal(t, 2, strings.Count(second.Document, `import "m.proto";`))
	})
}

func TestImportResult_ModifiedWhenSkipped(t *testing.T) {
	r := &ImportResult{Document: "x", Path: "m.proto", Status: ImportSkipped, Offset: -1}
	assert.False(t, r.Modified())
}

func TestImportStatus_String(t *testing.T) {
	assert.Equal(t, "inserted", ImportInserted.String())
	assert.Equal(t, "inserted after package", ImportInsertedAfterPackage.String())
	assert.Equal(t, "already present", ImportAlreadyPresent.String())
	assert.Equal(t, "skipped, no field appended", ImportSkipped.String())
	assert.Equal(t, "unknown", ImportStatus(42).String())
}
