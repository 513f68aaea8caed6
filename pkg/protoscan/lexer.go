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
	"strconv"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

// ErrSyntax is returned when the source cannot be tokenized or its braces do not balance.
var ErrSyntax = errors.Base("protobuf syntax error")

// 🏷️ TokenKind classifies a token
type TokenKind int

const (
	TokenIdent   TokenKind = iota // message, Foo, int32
	TokenNumber                   // 12, 0x1f, 1.5
	TokenString                   // "path/to.proto"
	TokenSymbol                   // { } ; = . [ ] ...
	TokenComment                  // // line or /* block */
)

// String returns a string representation of TokenKind
func (k TokenKind) String() string {
	switch k {
	case TokenIdent:
		return "ident"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenSymbol:
		return "symbol"
	case TokenComment:
		return "comment"
	default:
		return "unknown"
	}
}

// 🔤 Token is one lexical element with its byte span in the source
type Token struct {
	Kind  TokenKind
	Text  string // raw text, quotes and comment markers included
	Start int    // offset of the first byte
	End   int    // offset one past the last byte
}

// Is reports whether t is the symbol or identifier s.
func (t Token) Is(s string) bool {
	return (t.Kind == TokenSymbol || t.Kind == TokenIdent) && t.Text == s
}

// Unquote returns the value of a string token.
func (t Token) Unquote() (string, error) {
	if t.Kind != TokenString {
		return "", errors.Errorf("token %q is not a string", t.Text)
	}
	// protobuf allows single quoted strings, strconv does not
	text := t.Text
	if strings.HasPrefix(text, "'") {
		text = `"` + strings.ReplaceAll(strings.ReplaceAll(text[1:len(text)-1], `\'`, `'`), `"`, `\"`) + `"`
	}
	s, err := strconv.Unquote(text)
	if err != nil {
		return "", errors.Errorf("unquoting %s: %w", t.Text, err)
	}
	return s, nil
}

// IsLineComment reports whether t is a // comment.
func (t Token) IsLineComment() bool {
	return t.Kind == TokenComment && strings.HasPrefix(t.Text, "//")
}

// CommentText returns the comment body without its markers.
func (t Token) CommentText() string {
	switch {
	case t.Kind != TokenComment:
		return ""
	case strings.HasPrefix(t.Text, "//"):
		return t.Text[2:]
	default:
		return strings.TrimSuffix(strings.TrimPrefix(t.Text, "/*"), "*/")
	}
}

// Lex splits src into tokens. Whitespace is dropped, comments are kept.
func Lex(src string) ([]Token, error) {
	var toks []Token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case isSpace(c):
			i++

		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				end = len(src)
			} else {
				end += i
			}
			// keep a trailing \r out of the comment text
			textEnd := end
			if textEnd > i && src[textEnd-1] == '\r' {
				textEnd--
			}
			toks = append(toks, Token{Kind: TokenComment, Text: src[i:textEnd], Start: i, End: textEnd})
			i = end

		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return nil, errors.Errorf("line %d: unterminated block comment: %w", LineOf(src, i), ErrSyntax)
			}
			end += i + 4
			toks = append(toks, Token{Kind: TokenComment, Text: src[i:end], Start: i, End: end})
			i = end

		case c == '"' || c == '\'':
			end, err := scanString(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, Token{Kind: TokenString, Text: src[i:end], Start: i, End: end})
			i = end

		case isIdentStart(c):
			end := i + 1
			for end < len(src) && isIdentPart(src[end]) {
				end++
			}
			toks = append(toks, Token{Kind: TokenIdent, Text: src[i:end], Start: i, End: end})
			i = end

		case isDigit(c):
			end := i + 1
			for end < len(src) && (isIdentPart(src[end]) || src[end] == '.') {
				end++
			}
			toks = append(toks, Token{Kind: TokenNumber, Text: src[i:end], Start: i, End: end})
			i = end

		default:
			_, size := utf8.DecodeRuneInString(src[i:])
			toks = append(toks, Token{Kind: TokenSymbol, Text: src[i : i+size], Start: i, End: i + size})
			i += size
		}
	}
	return toks, nil
}

// scanString returns the offset one past the closing quote of the string starting at start.
func scanString(src string, start int) (int, error) {
	quote := src[start]
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '\n':
			return 0, errors.Errorf("line %d: newline in string literal: %w", LineOf(src, start), ErrSyntax)
		case quote:
			return i + 1, nil
		}
	}
	return 0, errors.Errorf("line %d: unterminated string literal: %w", LineOf(src, start), ErrSyntax)
}

// LineOf returns the 1-based line number of offset in src.
func LineOf(src string, offset int) int {
	if offset > len(src) {
		offset = len(src)
	}
	return strings.Count(src[:offset], "\n") + 1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

// IsIdent reports whether s is a valid protobuf identifier.
func IsIdent(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}

// IsFullIdent reports whether s is a dot separated identifier path such as foo.bar.Baz.
func IsFullIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if !IsIdent(part) {
			return false
		}
	}
	return true
}
