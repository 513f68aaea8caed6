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

package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/protobridge/pkg/protoscan"
	"gitlab.com/tozd/go/errors"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    *Descriptor
		wantErr error
	}{
		{
			name: "quotes_and_whitespace_stripped",
			doc:  "// pkg.mymodule [Foo, \"Bar\", Baz]\n",
			want: &Descriptor{
				QualifiedModule: "pkg.mymodule",
				Namespace:       "pkg",
				ModuleName:      "mymodule",
				MessageNames:    []string{"Foo", "Bar", "Baz"},
				Line:            1,
			},
		},
		{
			name: "dotted_namespace",
			doc: `syntax = "proto3";

package zmk.bridge.underglow;

//zmk.bridge.underglow['Request' ,  'Response']
message Request {}
`,
			want: &Descriptor{
				QualifiedModule: "zmk.bridge.underglow",
				Namespace:       "zmk.bridge",
				ModuleName:      "underglow",
				MessageNames:    []string{"Request", "Response"},
				Line:            5,
			},
		},
		{
			name: "first_annotation_wins",
			doc:  "// some other comment\n// a.first [A]\n// b.second [B]\n",
			want: &Descriptor{
				QualifiedModule: "a.first",
				Namespace:       "a",
				ModuleName:      "first",
				MessageNames:    []string{"A"},
				Line:            2,
			},
		},
		{
			name: "empty_items_dropped",
			doc:  "// a.b [A, , \"\"]\n",
			want: &Descriptor{
				QualifiedModule: "a.b",
				Namespace:       "a",
				ModuleName:      "b",
				MessageNames:    []string{"A"},
				Line:            1,
			},
		},
		{
			name:    "annotation_in_string_is_ignored",
			doc:     "option note = \"// a.b [A]\";\n",
			wantErr: ErrMissingAnnotation,
		},
		{
			name:    "block_comment_is_ignored",
			doc:     "/* a.b [A] */\n",
			wantErr: ErrMissingAnnotation,
		},
		{
			name:    "missing",
			doc:     "syntax = \"proto3\";\n",
			wantErr: ErrMissingAnnotation,
		},
		{
			name:    "no_namespace",
			doc:     "// module [A]\n",
			wantErr: ErrMissingAnnotation,
		},
		{
			name:    "empty_list",
			doc:     "// a.b []\n",
			wantErr: ErrEmptyMessageList,
		},
		{
			name:    "unterminated_comment",
			doc:     "/* a.b [A]\n",
			wantErr: protoscan.ErrSyntax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.doc)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDescriptor_FieldType(t *testing.T) {
	d := &Descriptor{QualifiedModule: "pkg.bar", ModuleName: "bar"}
	assert.Equal(t, "pkg.bar.Foo", d.FieldType("Foo"))
}

func TestDescriptor_Verify(t *testing.T) {
	file, err := protoscan.Scan("// a.b [Request, Response, Notification]\nmessage Request {}\nmessage Response {}\n")
	require.NoError(t, err)

	d, err := Extract(file.Source)
	require.NoError(t, err)
	assert.Equal(t, []string{"Notification"}, d.Verify(file))
}
