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

// Package module reads the registration annotation of a bridge module file.
//
// A module file announces itself with a single line comment:
//
//	// zmk.underglow [Request, Response]
//
// The dotted prefix is the protobuf package of the module, its last segment
// is the module name, and the bracketed list names the bridge messages the
// module extends.
package module

import (
	"regexp"
	"strings"

	"github.com/walteh/protobridge/pkg/protoscan"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrMissingAnnotation = errors.Base("module annotation not found")
	ErrEmptyMessageList  = errors.Base("module annotation lists no messages")
)

var annotationPattern = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*)\.([A-Za-z_][A-Za-z0-9_]*)\s*\[([^\]]*)\]`)

// 📦 Descriptor is the parsed module annotation
type Descriptor struct {
	QualifiedModule string   // namespace + "." + module name
	Namespace       string   // e.g. zmk
	ModuleName      string   // e.g. underglow
	MessageNames    []string // bridge messages to extend, in annotation order
	Line            int      // line of the annotation in the module file
}

// FieldType returns the fully qualified type the bridge should reference for message.
func (d *Descriptor) FieldType(message string) string {
	return d.QualifiedModule + "." + message
}

// Extract returns the first module annotation found in doc.
func Extract(doc string) (*Descriptor, error) {
	toks, err := protoscan.Lex(doc)
	if err != nil {
		return nil, errors.Errorf("tokenizing module file: %w", err)
	}

	for _, tok := range toks {
		if !tok.IsLineComment() {
			continue
		}
		m := annotationPattern.FindStringSubmatch(tok.CommentText())
		if m == nil {
			continue
		}

		d := &Descriptor{
			QualifiedModule: m[1] + "." + m[2],
			Namespace:       m[1],
			ModuleName:      m[2],
			Line:            protoscan.LineOf(doc, tok.Start),
		}
		for _, name := range strings.Split(m[3], ",") {
			name = strings.Trim(name, " \t\"'")
			if name == "" {
				continue
			}
			d.MessageNames = append(d.MessageNames, name)
		}
		if len(d.MessageNames) == 0 {
			return nil, errors.Errorf("line %d: %s: %w", d.Line, d.QualifiedModule, ErrEmptyMessageList)
		}
		return d, nil
	}

	return nil, ErrMissingAnnotation
}

// Verify returns the annotated messages that the module file does not declare.
func (d *Descriptor) Verify(file *protoscan.File) []string {
	var missing []string
	for _, name := range d.MessageNames {
		if len(file.MessagesNamed(name)) == 0 {
			missing = append(missing, name)
		}
	}
	return missing
}
