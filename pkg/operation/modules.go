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
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/protobridge/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 🔍 ExpandModules expands doublestar patterns into module paths.
// Plain paths are kept as given so a missing file is reported later by name.
// Matches are sorted per pattern, the bridge itself is never a match, and a
// path listed twice is only kept the first time.
func ExpandModules(bridgePath string, patterns []string) ([]string, error) {
	bridgeClean := filepath.Clean(bridgePath)
	seen := make(map[string]bool)

	var out []string
	add := func(p string) {
		key := filepath.Clean(p)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, p)
	}

	for _, pattern := range patterns {
		if !isPattern(pattern) {
			add(pattern)
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding %s: %w", pattern, err)
		}
		sort.Strings(matches)

		n := 0
		for _, m := range matches {
			if filepath.Clean(m) == bridgeClean {
				continue
			}
			n++
			add(m)
		}
		if n == 0 {
			return nil, errors.Errorf("%s: %w", pattern, ErrNoMatches)
		}
	}

	if len(out) == 0 {
		return nil, ErrNoModules
	}
	return out, nil
}

func isPattern(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

// 📥 ImportPath returns the path the bridge should import modulePath by.
func ImportPath(cfg *config.Config, bridgePath, modulePath string) (string, error) {
	if cfg.ImportStyle != config.ImportStyleRelative {
		return cfg.ImportPrefix + filepath.Base(modulePath), nil
	}

	bridgeDir, err := filepath.Abs(filepath.Dir(bridgePath))
	if err != nil {
		return "", errors.Errorf("resolving bridge directory: %w", err)
	}
	moduleAbs, err := filepath.Abs(modulePath)
	if err != nil {
		return "", errors.Errorf("resolving module path: %w", err)
	}
	rel, err := filepath.Rel(bridgeDir, moduleAbs)
	if err != nil {
		return "", errors.Errorf("relativizing module path: %w", err)
	}
	return filepath.ToSlash(rel), nil
}
