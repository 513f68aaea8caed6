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

import "gitlab.com/tozd/go/errors"

var (
	ErrNoImportAnchor       = errors.Base("bridge file has neither an import nor a package statement")
	ErrInvalidImportPath    = errors.Base("invalid import path")
	ErrDeclarationNotFound  = errors.Base("message declaration not found")
	ErrAmbiguousDeclaration = errors.Base("message declaration is ambiguous")
	ErrUnionNotFound        = errors.Base("oneof not found in message")
	ErrDuplicateField       = errors.Base("field already present in oneof")
)
