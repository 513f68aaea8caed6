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

package protoscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

const bridgeProto = `syntax = "proto3";

package zmk.bridge;

import "core.proto";
import public "underglow.proto";

// Request { oneof subsystem { ... } } in a comment must not confuse the scanner
message Request {
    uint32 request_id = 1;

    oneof subsystem {
        zmk.core.Request core = 3;
        zmk.underglow.Request underglow = 4 [deprecated = true];
    }
}

message Response {
    message Inner {
        oneof subsystem {
        }
    }
    oneof subsystem {
        option (custom) = 9;
        string note = 0x10;
    }
    string label = 2; /* } */
}
`

func TestScan(t *testing.T) {
	f, err := Scan(bridgeProto)
	require.NoError(t, err)

	require.NotNil(t, f.Syntax, "syntax should be recorded")
	assert.Equal(t, "proto3", f.Syntax.Value)
	require.NotNil(t, f.Package, "package should be recorded")
	assert.Equal(t, "zmk.bridge", f.Package.Value)
	assert.Equal(t, "package zmk.bridge;", bridgeProto[f.Package.Start:f.Package.End])

	require.Len(t, f.Imports, 2)
	assert.Equal(t, "core.proto", f.Imports[0].Path)
	assert.Equal(t, "", f.Imports[0].Modifier)
	assert.Equal(t, "underglow.proto", f.Imports[1].Path)
	assert.Equal(t, "public", f.Imports[1].Modifier)
	assert.Equal(t, `import public "underglow.proto";`, bridgeProto[f.Imports[1].Start:f.Imports[1].End])
	assert.True(t, f.HasImport("core.proto"))
	assert.False(t, f.HasImport("other.proto"))

	require.Len(t, f.Messages, 3)
	assert.Equal(t, "Request", f.Messages[0].FullName)
	assert.Equal(t, "Response", f.Messages[1].FullName)
	assert.Equal(t, "Response.Inner", f.Messages[2].FullName)
	assert.Equal(t, 1, f.Messages[2].Depth)
	assert.Same(t, f.Messages[1], f.Messages[2].Parent)

	req := f.Messages[0]
	assert.Equal(t, byte('{'), bridgeProto[req.Open])
	assert.Equal(t, byte('}'), bridgeProto[req.Close])

	sub := req.Oneof("subsystem")
	require.NotNil(t, sub)
	require.Len(t, sub.Fields, 2)
	assert.Equal(t, OneofField{
		Type:   "zmk.core.Request",
		Name:   "core",
		Number: 3,
		Start:  sub.Fields[0].Start,
		End:    sub.Fields[0].End,
	}, sub.Fields[0])
	assert.Equal(t, "zmk.core.Request core = 3;", bridgeProto[sub.Fields[0].Start:sub.Fields[0].End])
	assert.Equal(t, int64(4), sub.Fields[1].Number, "options after the number should be ignored")
	assert.Equal(t, int64(5), sub.NextNumber())
	assert.NotNil(t, sub.Field("underglow"))
	assert.Nil(t, sub.Field("missing"))

	resp := f.Messages[1]
	require.Len(t, resp.Oneofs, 1, "nested message oneofs belong to the nested message")
	respSub := resp.Oneof("subsystem")
	require.Len(t, respSub.Fields, 1, "option statements are not fields")
	assert.Equal(t, int64(16), respSub.Fields[0].Number)

	inner := f.Messages[2].Oneof("subsystem")
	require.NotNil(t, inner)
	assert.Empty(t, inner.Fields)
	assert.Equal(t, int64(1), inner.NextNumber())

	assert.Len(t, f.Comments, 2)
}

func TestMessagesNamed(t *testing.T) {
	f, err := Scan(bridgeProto)
	require.NoError(t, err)

	tests := []struct {
		name string
		want []string
	}{
		{name: "Request", want: []string{"Request"}},
		{name: "Inner", want: []string{"Response.Inner"}},
		{name: "Response.Inner", want: []string{"Response.Inner"}},
		{name: "Inner.Response", want: nil},
		{name: "Missing", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, m := range f.MessagesNamed(tt.name) {
				got = append(got, m.FullName)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScan_OneofGroup(t *testing.T) {
	src := "message Foo {\n  oneof subsystem {\n    group G = 1 {\n      optional int32 x = 7;\n    }\n    A.Foo a = 2;\n  }\n}\n"

	f, err := Scan(src)
	require.NoError(t, err)
	require.Len(t, f.Messages, 1)

	sub := f.Messages[0].Oneof("subsystem")
	require.NotNil(t, sub)
	require.Len(t, sub.Fields, 2, "the group and the field after it")
	assert.Equal(t, "G", sub.Fields[0].Name)
	assert.Equal(t, int64(1), sub.Fields[0].Number)
	assert.Equal(t, byte('}'), src[sub.Fields[0].End-1], "group ends at its closing brace")
	assert.Equal(t, "a", sub.Fields[1].Name)
	assert.Equal(t, int64(2), sub.Fields[1].Number)
	assert.Equal(t, int64(3), sub.NextNumber())
}

func TestParseFieldNumber(t *testing.T) {
	tests := []struct {
		text    string
		want    int64
		wantErr bool
	}{
		{text: "12", want: 12},
		{text: "0x1F", want: 31},
		{text: "0xbE", want: 190},
		{text: "017", want: 15},
		{text: "1_0", wantErr: true},
		{text: "0x1_0", wantErr: true},
		{text: "0o17", wantErr: true},
		{text: "0b11", wantErr: true},
		{text: "1.5", wantErr: true},
		{text: "1e3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			n, err := parseFieldNumber(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestScan_Errors(t *testing.T) {
	tests := []struct {
		name        string
		src         string
		errContains string
	}{
		{
			name:        "unterminated_block_comment",
			src:         "message A { /* oops",
			errContains: "unterminated block comment",
		},
		{
			name:        "unterminated_string",
			src:         "import \"a.proto;\nmessage A {}",
			errContains: "newline in string literal",
		},
		{
			name:        "unclosed_message",
			src:         "message A {\n  oneof s {\n  }\n",
			errContains: "message A is never closed",
		},
		{
			name:        "unclosed_oneof",
			src:         "message A {\n  oneof s {\n    B b = 1;\n",
			errContains: "oneof s is never closed",
		},
		{
			name:        "underscore_field_number",
			src:         "message A {\n  oneof s {\n    B b = 1_0;\n  }\n}\n",
			errContains: "invalid field number 1_0",
		},
		{
			name:        "binary_field_number",
			src:         "message A {\n  oneof s {\n    B b = 0b11;\n  }\n}\n",
			errContains: "invalid field number 0b11",
		},
		{
			name:        "stray_brace",
			src:         "}\n",
			errContains: "line 1: unexpected }",
		},
		{
			name:        "import_without_path",
			src:         "import foo;\n",
			errContains: "import is missing a quoted path",
		},
		{
			name:        "package_without_semicolon",
			src:         "package foo\nmessage A {}\n",
			errContains: "package statement is missing a semicolon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Scan(tt.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSyntax), "error should wrap ErrSyntax")
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLex(t *testing.T) {
	toks, err := Lex("a.B = 0x1f; // trailing {\r\n'x\\'y'")
	require.NoError(t, err)

	var kinds []TokenKind
	var texts []string
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
		texts = append(texts, tok.Text)
	}
	assert.Equal(t, []TokenKind{TokenIdent, TokenSymbol, TokenIdent, TokenSymbol, TokenNumber, TokenSymbol, TokenComment, TokenString}, kinds)
	assert.Equal(t, []string{"a", ".", "B", "=", "0x1f", ";", "// trailing {", `'x\'y'`}, texts)
	assert.True(t, toks[6].IsLineComment())
	assert.Equal(t, " trailing {", toks[6].CommentText())

	s, err := toks[7].Unquote()
	require.NoError(t, err)
	assert.Equal(t, "x'y", s)
}

func TestIsFullIdent(t *testing.T) {
	assert.True(t, IsFullIdent("zmk.bridge"))
	assert.True(t, IsFullIdent("_a1"))
	assert.False(t, IsFullIdent(""))
	assert.False(t, IsFullIdent("a..b"))
	assert.False(t, IsFullIdent("1a"))
	assert.False(t, IsFullIdent("a b"))
	assert.True(t, IsIdent("subsystem"))
	assert.False(t, IsIdent("sub.system"))
}

func TestLineOf(t *testing.T) {
	src := "a\nb\nc"
	assert.Equal(t, 1, LineOf(src, 0))
	assert.Equal(t, 2, LineOf(src, 2))
	assert.Equal(t, 3, LineOf(src, len(src)+10))
}
