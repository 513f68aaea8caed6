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
	"fmt"
	"strings"

	"github.com/walteh/protobridge/pkg/protoscan"
	"gitlab.com/tozd/go/errors"
)

// 🎯 TargetStatus is the outcome of appending to one declaration
type TargetStatus int

const (
	TargetAppended       TargetStatus = iota // field added
	TargetNotFound                           // no message with that name
	TargetAmbiguous                          // more than one message with that name
	TargetUnionNotFound                      // message has no oneof with the union name
	TargetDuplicateField                     // oneof already has a field with the field name
)

// String returns a string representation of TargetStatus
func (s TargetStatus) String() string {
	switch s {
	case TargetAppended:
		return "appended"
	case TargetNotFound:
		return "not found"
	case TargetAmbiguous:
		return "ambiguous"
	case TargetUnionNotFound:
		return "union not found"
	case TargetDuplicateField:
		return "duplicate field"
	default:
		return "unknown"
	}
}

// 📝 TargetResult reports what happened to one target declaration
type TargetResult struct {
	Declaration string
	Status      TargetStatus
	Line        string // the appended field, without indentation
	Number      int64  // the appended field number
	Offset      int    // offset of the appended line in the returned document
	Err         error  // set for every status but TargetAppended
}

// 📄 AppendResult is the outcome of AppendField
type AppendResult struct {
	Document string
	Targets  []TargetResult
}

// Appended returns how many fields were added.
func (r *AppendResult) Appended() int {
	n := 0
	for _, t := range r.Targets {
		if t.Status == TargetAppended {
			n++
		}
	}
	return n
}

// Err joins the errors of every target that was not appended.
func (r *AppendResult) Err() error {
	var errs []error
	for _, t := range r.Targets {
		if t.Err != nil {
			errs = append(errs, t.Err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

// AppendField appends `<fieldTypeNamespace>.<target> <fieldName> = <n>;` to the
// oneof named unionName of every target declaration, where n is one more than
// the highest number already in that oneof (1 when it is empty).
//
// Targets are processed in order, each against the document as left by the
// previous one. A target that cannot be edited is reported in the result and
// leaves the document untouched; only scanner failures and invalid names are
// returned as errors.
func AppendField(doc, unionName, fieldTypeNamespace, fieldName string, targets []string) (*AppendResult, error) {
	if !protoscan.IsIdent(unionName) {
		return nil, errors.Errorf("invalid oneof name %q", unionName)
	}
	if !protoscan.IsIdent(fieldName) {
		return nil, errors.Errorf("invalid field name %q", fieldName)
	}
	if !protoscan.IsFullIdent(fieldTypeNamespace) {
		return nil, errors.Errorf("invalid type namespace %q", fieldTypeNamespace)
	}

	result := &AppendResult{Document: doc}

	for _, target := range targets {
		file, err := protoscan.Scan(result.Document)
		if err != nil {
			return nil, errors.Errorf("scanning bridge file: %w", err)
		}

		tr := TargetResult{Declaration: target, Offset: -1}
		matches := file.MessagesNamed(target)

		switch {
		case len(matches) == 0:
			tr.Status = TargetNotFound
			tr.Err = errors.Errorf("message %s: %w", target, ErrDeclarationNotFound)

		case len(matches) > 1:
			tr.Status = TargetAmbiguous
			tr.Err = errors.Errorf("message %s matches %d declarations: %w", target, len(matches), ErrAmbiguousDeclaration)

		default:
			msg := matches[0]
			union := msg.Oneof(unionName)
			if union == nil {
				tr.Status = TargetUnionNotFound
				tr.Err = errors.Errorf("message %s has no oneof %s: %w", msg.FullName, unionName, ErrUnionNotFound)
				break
			}
			if existing := union.Field(fieldName); existing != nil {
				tr.Status = TargetDuplicateField
				tr.Err = errors.Errorf("%s.%s already has %s %s = %d: %w",
					msg.FullName, unionName, existing.Type, existing.Name, existing.Number, ErrDuplicateField)
				break
			}

			tr.Status = TargetAppended
			tr.Number = union.NextNumber()
			tr.Line = fmt.Sprintf("%s.%s %s = %d;", fieldTypeNamespace, target, fieldName, tr.Number)
			result.Document, tr.Offset = appendToOneof(result.Document, union, tr.Line)
		}

		result.Targets = append(result.Targets, tr)
	}

	return result, nil
}

// appendToOneof inserts line as the last entry of o and returns the new
// document and the offset of the inserted line.
func appendToOneof(doc string, o *protoscan.Oneof, line string) (string, int) {
	nl := newlineOf(doc)
	indent := fieldIndent(doc, o)

	closeLine := lineStart(doc, o.Close)
	if closeLine > o.Open && strings.TrimSpace(doc[closeLine:o.Close]) == "" {
		return doc[:closeLine] + indent + line + nl + doc[closeLine:], closeLine + len(indent)
	}

	// the closing brace shares a line with other content, move it to its own line
	at := o.Close
	for at > o.Open+1 && (doc[at-1] == ' ' || doc[at-1] == '\t') {
		at--
	}
	insert := nl + indent + line + nl + indentOf(doc, o.Start)
	return doc[:at] + insert + doc[o.Close:], at + len(nl) + len(indent)
}

// fieldIndent returns the indentation of the last field of o, or the indentation
// of the oneof plus one level when it has no field on a line of its own.
func fieldIndent(doc string, o *protoscan.Oneof) string {
	if n := len(o.Fields); n > 0 {
		last := o.Fields[n-1].Start
		if lineStart(doc, last) > o.Open {
			return indentOf(doc, last)
		}
	}

	base := indentOf(doc, o.Start)
	unit := "    "
	if o.Message != nil && lineStart(doc, o.Message.Start) != lineStart(doc, o.Start) {
		outer := indentOf(doc, o.Message.Start)
		if len(base) > len(outer) && strings.HasPrefix(base, outer) {
			unit = base[len(outer):]
		}
	}
	return base + unit
}
