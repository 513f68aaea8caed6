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
	"fmt"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 📄 File is the structural outline of a protobuf source file.
// Only the constructs protobridge edits are recorded; everything else is
// tracked as anonymous brace blocks so offsets stay correct.
type File struct {
	Source   string
	Syntax   *Statement // syntax or edition statement
	Package  *Statement
	Imports  []Import
	Messages []*Message // every message at any depth, in source order
	Comments []Token
}

// 📌 Statement is a top level statement ending in a semicolon
type Statement struct {
	Value string // package name, syntax value
	Start int    // offset of the keyword
	End   int    // offset one past the semicolon
}

// 📥 Import is a top level import statement
type Import struct {
	Path     string
	Modifier string // "", "public" or "weak"
	Start    int
	End      int // offset one past the semicolon
}

// 📦 Message is a message declaration
type Message struct {
	Name     string
	FullName string // dotted path of enclosing messages, e.g. Outer.Inner
	Parent   *Message
	Depth    int // 0 for top level messages
	Start    int // offset of the message keyword
	Open     int // offset of {
	Close    int // offset of }
	Oneofs   []*Oneof
}

// Oneof returns the direct child oneof with the given name.
func (m *Message) Oneof(name string) *Oneof {
	for _, o := range m.Oneofs {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// 🔀 Oneof is a oneof block inside a message
type Oneof struct {
	Name    string
	Message *Message
	Start   int // offset of the oneof keyword
	Open    int // offset of {
	Close   int // offset of }
	Fields  []OneofField
}

// MaxNumber returns the highest field number in the oneof, or 0 when it is empty.
func (o *Oneof) MaxNumber() int64 {
	var max int64
	for _, f := range o.Fields {
		if f.Number > max {
			max = f.Number
		}
	}
	return max
}

// NextNumber returns the number the next appended field should take.
func (o *Oneof) NextNumber() int64 {
	return o.MaxNumber() + 1
}

// Field returns the field with the given name.
func (o *Oneof) Field(name string) *OneofField {
	for i := range o.Fields {
		if o.Fields[i].Name == name {
			return &o.Fields[i]
		}
	}
	return nil
}

// 🧩 OneofField is one alternative of a oneof
type OneofField struct {
	Type   string
	Name   string
	Number int64
	Start  int // offset of the first type token
	End    int // offset one past the semicolon
}

// MessagesNamed returns the messages matching name. A plain name matches
// messages at any depth; a dotted name matches the nested full name.
func (f *File) MessagesNamed(name string) []*Message {
	dotted := strings.Contains(name, ".")
	var out []*Message
	for _, m := range f.Messages {
		if (dotted && m.FullName == name) || (!dotted && m.Name == name) {
			out = append(out, m)
		}
	}
	return out
}

// HasImport reports whether path is already imported.
func (f *File) HasImport(path string) bool {
	for _, imp := range f.Imports {
		if imp.Path == path {
			return true
		}
	}
	return false
}

type frameKind int

const (
	frameBlock frameKind = iota
	frameMessage
	frameOneof
)

type frame struct {
	kind    frameKind
	message *Message
	oneof   *Oneof
}

type scanner struct {
	src   string
	toks  []Token // comments removed
	pos   int
	stack []frame
	file  *File
}

// Scan tokenizes src and records its structural outline.
func Scan(src string) (*File, error) {
	all, err := Lex(src)
	if err != nil {
		return nil, err
	}

	s := &scanner{src: src, file: &File{Source: src}}
	for _, t := range all {
		if t.Kind == TokenComment {
			s.file.Comments = append(s.file.Comments, t)
			continue
		}
		s.toks = append(s.toks, t)
	}

	if err := s.run(); err != nil {
		return nil, err
	}
	return s.file, nil
}

func (s *scanner) peek(n int) Token {
	if s.pos+n < len(s.toks) {
		return s.toks[s.pos+n]
	}
	return Token{Kind: TokenSymbol, Start: len(s.src), End: len(s.src)}
}

func (s *scanner) top() *frame {
	if len(s.stack) == 0 {
		return nil
	}
	return &s.stack[len(s.stack)-1]
}

func (s *scanner) errorf(offset int, format string, args ...any) error {
	return errors.Errorf("line %d: %s: %w", LineOf(s.src, offset), strings.TrimSpace(fmt.Sprintf(format, args...)), ErrSyntax)
}

func (s *scanner) run() error {
	for s.pos < len(s.toks) {
		tok := s.toks[s.pos]
		top := s.top()

		switch {
		case top != nil && top.kind == frameOneof && !tok.Is("}"):
			if err := s.oneofStatement(top.oneof); err != nil {
				return err
			}

		case top == nil && tok.Kind == TokenIdent && (tok.Text == "syntax" || tok.Text == "edition"):
			stmt, err := s.statement()
			if err != nil {
				return err
			}
			s.file.Syntax = stmt

		case top == nil && tok.Is("package"):
			stmt, err := s.statement()
			if err != nil {
				return err
			}
			s.file.Package = stmt

		case top == nil && tok.Is("import"):
			if err := s.importStatement(); err != nil {
				return err
			}

		case tok.Is("message") && s.peek(1).Kind == TokenIdent && s.peek(2).Is("{"):
			s.openMessage(tok)

		case top != nil && top.kind == frameMessage && tok.Is("oneof") && s.peek(1).Kind == TokenIdent && s.peek(2).Is("{"):
			s.openOneof(tok, top.message)

		case tok.Is("{"):
			s.stack = append(s.stack, frame{kind: frameBlock})
			s.pos++

		case tok.Is("}"):
			if top == nil {
				return s.errorf(tok.Start, "unexpected }")
			}
			switch top.kind {
			case frameMessage:
				top.message.Close = tok.Start
			case frameOneof:
				top.oneof.Close = tok.Start
			}
			s.stack = s.stack[:len(s.stack)-1]
			s.pos++

		default:
			s.pos++
		}
	}

	if top := s.top(); top != nil {
		switch top.kind {
		case frameMessage:
			return s.errorf(top.message.Open, "message %s is never closed", top.message.Name)
		case frameOneof:
			return s.errorf(top.oneof.Open, "oneof %s is never closed", top.oneof.Name)
		default:
			return s.errorf(len(s.src), "unbalanced braces")
		}
	}
	return nil
}

// statement consumes keyword ... ; and records the value between them.
func (s *scanner) statement() (*Statement, error) {
	start := s.toks[s.pos]
	var value strings.Builder
	for i := s.pos + 1; i < len(s.toks); i++ {
		t := s.toks[i]
		switch {
		case t.Is(";"):
			s.pos = i + 1
			return &Statement{
				Value: strings.Trim(strings.TrimSpace(strings.TrimPrefix(value.String(), "=")), `"'`),
				Start: start.Start,
				End:   t.End,
			}, nil
		case t.Is("{") || t.Is("}"):
			return nil, s.errorf(start.Start, "%s statement is missing a semicolon", start.Text)
		}
		value.WriteString(t.Text)
	}
	return nil, s.errorf(start.Start, "%s statement is missing a semicolon", start.Text)
}

func (s *scanner) importStatement() error {
	start := s.toks[s.pos]
	i := s.pos + 1
	var modifier string
	if t := s.peek(1); t.Is("public") || t.Is("weak") {
		modifier = t.Text
		i++
	}
	if i >= len(s.toks) || s.toks[i].Kind != TokenString {
		return s.errorf(start.Start, "import is missing a quoted path")
	}
	path, err := s.toks[i].Unquote()
	if err != nil {
		return s.errorf(start.Start, "import path: %v", err)
	}
	if i+1 >= len(s.toks) || !s.toks[i+1].Is(";") {
		return s.errorf(start.Start, "import %q is missing a semicolon", path)
	}
	s.file.Imports = append(s.file.Imports, Import{
		Path:     path,
		Modifier: modifier,
		Start:    start.Start,
		End:      s.toks[i+1].End,
	})
	s.pos = i + 2
	return nil
}

func (s *scanner) openMessage(keyword Token) {
	name := s.peek(1).Text
	msg := &Message{
		Name:     name,
		FullName: name,
		Start:    keyword.Start,
		Open:     s.peek(2).Start,
	}
	// nearest enclosing message, skipping anonymous blocks
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i].kind == frameMessage {
			msg.Parent = s.stack[i].message
			msg.FullName = msg.Parent.FullName + "." + name
			msg.Depth = msg.Parent.Depth + 1
			break
		}
	}
	s.file.Messages = append(s.file.Messages, msg)
	s.stack = append(s.stack, frame{kind: frameMessage, message: msg})
	s.pos += 3
}

func (s *scanner) openOneof(keyword Token, msg *Message) {
	o := &Oneof{
		Name:    s.peek(1).Text,
		Message: msg,
		Start:   keyword.Start,
		Open:    s.peek(2).Start,
	}
	msg.Oneofs = append(msg.Oneofs, o)
	s.stack = append(s.stack, frame{kind: frameOneof, oneof: o})
	s.pos += 3
}

// oneofStatement consumes one statement inside a oneof body. Fields of the
// form <type> <name> = <number> [options]; are recorded, as are groups
// (group <Name> = <number> { ... }), which end at their closing brace.
// Anything else (option statements, malformed lines) is skipped.
func (s *scanner) oneofStatement(o *Oneof) error {
	start := s.pos
	depth := 0
	end := -1
	body := -1 // index of the { opening a group body
	for i := start; i < len(s.toks); i++ {
		t := s.toks[i]
		if t.Is("{") && depth == 0 {
			body = i
			depth++
		} else if t.Is("{") || t.Is("[") || t.Is("(") {
			depth++
		} else if t.Is("]") || t.Is(")") || (t.Is("}") && depth > 0) {
			depth--
			if depth == 0 && body >= 0 && t.Is("}") {
				end = i
				break
			}
		} else if t.Is("}") {
			// missing semicolon before the closing brace
			s.pos = i
			return nil
		} else if t.Is(";") && depth == 0 {
			end = i
			break
		}
	}
	if end < 0 {
		return s.errorf(s.toks[start].Start, "oneof %s is never closed", o.Name)
	}
	s.pos = end + 1

	stmt := s.toks[start:end]
	if body >= 0 {
		stmt = s.toks[start:body]
	}
	if len(stmt) == 0 || stmt[0].Is("option") {
		return nil
	}

	for i := 2; i+1 < len(stmt); i++ {
		if !stmt[i].Is("=") || stmt[i-1].Kind != TokenIdent || stmt[i+1].Kind != TokenNumber {
			continue
		}
		n, err := parseFieldNumber(stmt[i+1].Text)
		if err != nil {
			return s.errorf(stmt[i+1].Start, "invalid field number %s", stmt[i+1].Text)
		}
		var typ strings.Builder
		for _, t := range stmt[:i-1] {
			typ.WriteString(t.Text)
		}
		o.Fields = append(o.Fields, OneofField{
			Type:   typ.String(),
			Name:   stmt[i-1].Text,
			Number: n,
			Start:  stmt[0].Start,
			End:    s.toks[end].End,
		})
		break
	}
	return nil
}

// parseFieldNumber accepts the decimal, hex (0x) and octal (leading 0) forms of
// the protobuf grammar.
func parseFieldNumber(text string) (int64, error) {
	hex := strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X")
	if strings.Contains(text, "_") || (!hex && strings.ContainsAny(text, ".eEoObB")) {
		return 0, errors.Errorf("%q is not an integer", text)
	}
	return strconv.ParseInt(text, 0, 64)
}
