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
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/rsyncverify/pkg/analyzer"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse decodes the config from bytes; defaults are applied by Validate
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

const (
	FormatText = "text"
	FormatJSON = "json"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"

	DefaultConcurrency = 4
)

// 🖨️ OutputArgs controls how reports are rendered
type OutputArgs struct {
	Format      string `json:"format,omitempty" yaml:"format,omitempty"`             // text or json
	Color       string `json:"color,omitempty" yaml:"color,omitempty"`               // auto, always or never
	ShowChanges bool   `json:"show_changes,omitempty" yaml:"show_changes,omitempty"` // list itemized changes in full reports
	ShowFlags   bool   `json:"show_flags,omitempty" yaml:"show_flags,omitempty"`     // show changed attributes instead of update labels
}

// 🔎 FilterArgs selects which itemized changes are reported
type FilterArgs struct {
	Include []string `json:"include,omitempty" yaml:"include,omitempty"` // doublestar globs
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"` // doublestar globs
	Types   []string `json:"types,omitempty" yaml:"types,omitempty"`     // change type names
}

// 📚 Config represents the complete configuration
type Config struct {
	Output       OutputArgs `json:"output" yaml:"output"`
	Filter       FilterArgs `json:"filter" yaml:"filter"`
	Strict       bool       `json:"strict,omitempty" yaml:"strict,omitempty"`                 // fail on output that cannot be analyzed
	FailOnErrors bool       `json:"fail_on_errors,omitempty" yaml:"fail_on_errors,omitempty"` // fail when rsync reported errors
	Concurrency  int        `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`       // inputs analyzed in parallel
	Cache        *bool      `json:"cache,omitempty" yaml:"cache,omitempty"`                   // memoize identical outputs (default true)
}

// 🏭 Default returns a validated config with every default applied
func Default() *Config {
	cfg := &Config{}
	_ = cfg.Validate()
	return cfg
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

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields Default()
func LoadOrDefault(ctx context.Context, path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("config file not found, using defaults")
		return Default(), nil
	}
	return Load(ctx, path)
}

// 🔍 Validate checks the configuration and fills in defaults
func (cfg *Config) Validate() error {
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	switch cfg.Output.Format {
	case "":
		cfg.Output.Format = FormatText
	case FormatText, FormatJSON:
	default:
		return errors.Errorf("output.format must be %q or %q, got %q", FormatText, FormatJSON, cfg.Output.Format)
	}

	cfg.Output.Color = strings.ToLower(strings.TrimSpace(cfg.Output.Color))
	switch cfg.Output.Color {
	case "":
		cfg.Output.Color = ColorAuto
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.Errorf("output.color must be one of auto, always, never, got %q", cfg.Output.Color)
	}

	if cfg.Concurrency < 0 {
		return errors.Errorf("concurrency must not be negative, got %d", cfg.Concurrency)
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConcurrency
	}

	if cfg.Cache == nil {
		enabled := true
		cfg.Cache = &enabled
	}

	if _, err := cfg.AnalyzerFilter(); err != nil {
		return err
	}

	return nil
}

// CacheEnabled reports whether identical outputs should be memoized
func (cfg *Config) CacheEnabled() bool {
	return cfg.Cache == nil || *cfg.Cache
}

// AnalyzerFilter converts the filter section into an analyzer.Filter
func (cfg *Config) AnalyzerFilter() (analyzer.Filter, error) {
	f := analyzer.Filter{
		Include: cfg.Filter.Include,
		Exclude: cfg.Filter.Exclude,
	}
	for _, name := range cfg.Filter.Types {
		t, err := analyzer.ParseChangeType(name)
		if err != nil {
			return analyzer.Filter{}, errors.Errorf("filter.types: %w", err)
		}
		f.Types = append(f.Types, t)
	}
	if err := f.Validate(); err != nil {
		return analyzer.Filter{}, errors.Errorf("filter: %w", err)
	}
	return f, nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("format=%s color=%s strict=%t fail_on_errors=%t concurrency=%d cache=%t",
		cfg.Output.Format, cfg.Output.Color, cfg.Strict, cfg.FailOnErrors, cfg.Concurrency, cfg.CacheEnabled())
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	return &cfg, nil
}
