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
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/walteh/protobridge/pkg/bridge"
	"github.com/walteh/protobridge/pkg/module"
)

// diffContext is the number of unchanged lines shown around each change
const diffContext = 2

// 📦 ModulePlan is what one module file contributes to the bridge
type ModulePlan struct {
	Path       string
	Descriptor *module.Descriptor
	ImportPath string
	Import     *bridge.ImportResult
	Fields     *bridge.AppendResult
	Undeclared []string // annotated messages the module file does not declare
}

// Edits returns how many changes the module made to the bridge.
func (m *ModulePlan) Edits() int {
	n := 0
	if m.Import != nil && m.Import.Modified() {
		n++
	}
	if m.Fields != nil {
		n += m.Fields.Appended()
	}
	return n
}

// 📋 Plan holds the bridge before and after every module edit
type Plan struct {
	BridgePath string
	Original   string
	Updated    string
	Modules    []*ModulePlan
	Warnings   []error // target failures kept because AllowUnmatched is set
}

// Changed reports whether the bridge content differs.
func (p *Plan) Changed() bool {
	return p.Original != p.Updated
}

// Edits returns the total number of changes across modules.
func (p *Plan) Edits() int {
	n := 0
	for _, m := range p.Modules {
		n += m.Edits()
	}
	return n
}

// Diff renders the change to the bridge as unified style line diff.
// It is empty when nothing changed.
func (p *Plan) Diff() string {
	if !p.Changed() {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(p.Original, p.Updated)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s\n", p.BridgePath, p.BridgePath)

	for i, d := range diffs {
		text := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			writeLines(&sb, "+", text)
		case diffmatchpatch.DiffDelete:
			writeLines(&sb, "-", text)
		case diffmatchpatch.DiffEqual:
			var head, tail []string
			if i > 0 {
				head = text[:min(diffContext, len(text))]
			}
			if i < len(diffs)-1 {
				tail = text[max(len(text)-diffContext, 0):]
			}
			if len(head)+len(tail) >= len(text) {
				writeLines(&sb, " ", text)
				continue
			}
			// @@ marks the unchanged lines left out
			writeLines(&sb, " ", head)
			sb.WriteString("@@\n")
			writeLines(&sb, " ", tail)
		}
	}

	return sb.String()
}

func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func writeLines(sb *strings.Builder, prefix string, lines []string) {
	for _, l := range lines {
		sb.WriteString(prefix)
		sb.WriteString(strings.TrimRight(l, "\r\n"))
		sb.WriteString("\n")
	}
}
