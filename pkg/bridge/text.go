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

import "strings"

// lineStart returns the offset of the first byte of the line containing offset.
func lineStart(doc string, offset int) int {
	return strings.LastIndexByte(doc[:offset], '\n') + 1
}

// indentOf returns the leading whitespace of the line containing offset.
func indentOf(doc string, offset int) string {
	start := lineStart(doc, offset)
	end := start
	for end < len(doc) && (doc[end] == ' ' || doc[end] == '\t') {
		end++
	}
	return doc[start:end]
}

// newlineOf returns the line ending used by doc.
func newlineOf(doc string) string {
	if strings.Contains(doc, "\r\n") {
		return "\r\n"
	}
	return "\n"
}
