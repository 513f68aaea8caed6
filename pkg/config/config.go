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

package config

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/protobridge/pkg/protoscan"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultUnion        = "subsystem"
	DefaultFile         = ".protobridge.yaml"
	ImportStyleBase     = "basename" // module file name only
	ImportStyleRelative = "relative" // module path relative to the bridge file
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config represents the complete configuration
type Config struct {
	// Union is the oneof every bridge message carries module fields in
	Union string `json:"union,omitempty" yaml:"union,omitempty" hcl:"union,optional"`

	// ImportStyle is basename or relative
	ImportStyle string `json:"import_style,omitempty" yaml:"import_style,omitempty" hcl:"import_style,optional"`

	// ImportPrefix is prepended to basename imports, e.g. "proto/"
	ImportPrefix string `json:"import_prefix,omitempty" yaml:"import_prefix,omitempty" hcl:"import_prefix,optional"`

	// AllowUnmatched applies the edits that succeeded when some targets could not be edited
	AllowUnmatched bool `json:"allow_unmatched,omitempty" yaml:"allow_unmatched,omitempty" hcl:"allow_unmatched,optional"`

	// AllowDuplicateImports inserts an import even when the bridge already has it
	AllowDuplicateImports bool `json:"allow_duplicate_imports,omitempty" yaml:"allow_duplicate_imports,omitempty" hcl:"allow_duplicate_imports,optional"`

	// VerifyModule fails when the module file does not declare every annotated message
	VerifyModule bool `json:"verify_module,omitempty" yaml:"verify_module,omitempty" hcl:"verify_module,optional"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills unset fields.
func (cfg *Config) SetDefaults() {
	if cfg.Union == "" {
		cfg.Union = DefaultUnion
	}
	if cfg.ImportStyle == "" {
		cfg.ImportStyle = ImportStyleBase
	}
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	cfg.SetDefaults()

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("config", cfg.String()).Msg("configuration loaded")
	return cfg, nil
}

// LoadOrDefault loads path when it exists. A missing file yields the defaults
// unless required is set.
func LoadOrDefault(ctx context.Context, path string, required bool) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !required {
			zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no config file, using defaults")
			return Default(), nil
		}
		return nil, errors.Errorf("checking config file: %w", err)
	}
	return Load(ctx, path)
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if !protoscan.IsIdent(cfg.Union) {
		return errors.Errorf("union %q is not a valid oneof name", cfg.Union)
	}
	switch cfg.ImportStyle {
	case ImportStyleBase, ImportStyleRelative:
	default:
		return errors.Errorf("import_style must be %q or %q, got %q", ImportStyleBase, ImportStyleRelative, cfg.ImportStyle)
	}
	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("union=%s import_style=%s import_prefix=%q allow_unmatched=%t allow_duplicate_imports=%t verify_module=%t",
		cfg.Union, cfg.ImportStyle, cfg.ImportPrefix, cfg.AllowUnmatched, cfg.AllowDuplicateImports, cfg.VerifyModule)
}
