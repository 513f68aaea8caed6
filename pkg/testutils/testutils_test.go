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

package testutils

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestWriteFiles(t *testing.T) {
	dir := WriteFiles(t, map[string]string{
		"bridge.proto":            "syntax = \"proto3\";\n",
		"modules/led/under.proto": "// zmk.under [A]\n",
	})

	assert.Equal(t, "syntax = \"proto3\";\n", ReadFile(t, dir, "bridge.proto"))
	assert.Equal(t, "// zmk.under [A]\n", ReadFile(t, dir, "modules/led/under.proto"))
}

func TestContext(t *testing.T) {
	ctx := Context(t)
	assert.NotEqual(t, zerolog.Disabled, zerolog.Ctx(ctx).GetLevel())
	zerolog.Ctx(ctx).Debug().Msg("logged through the test writer")
}
