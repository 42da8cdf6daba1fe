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
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
	Register(&RCParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"change_types": changeTypeNames(),
		},
	}

	// Define HCL schema
	type hclConfig struct {
		Output *struct {
			Format      string `hcl:"format,optional"`
			Color       string `hcl:"color,optional"`
			ShowChanges bool   `hcl:"show_changes,optional"`
			ShowFlags   bool   `hcl:"show_flags,optional"`
		} `hcl:"output,block"`
		Filter *struct {
			Include []string `hcl:"include,optional"`
			Exclude []string `hcl:"exclude,optional"`
			Types   []string `hcl:"types,optional"`
		} `hcl:"filter,block"`
		Strict       bool  `hcl:"strict,optional"`
		FailOnErrors bool  `hcl:"fail_on_errors,optional"`
		Concurrency  int   `hcl:"concurrency,optional"`
		Cache        *bool `hcl:"cache,optional"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Strict:       hclCfg.Strict,
		FailOnErrors: hclCfg.FailOnErrors,
		Concurrency:  hclCfg.Concurrency,
		Cache:        hclCfg.Cache,
	}

	if hclCfg.Output != nil {
		cfg.Output = OutputArgs{
			Format:      hclCfg.Output.Format,
			Color:       hclCfg.Output.Color,
			ShowChanges: hclCfg.Output.ShowChanges,
			ShowFlags:   hclCfg.Output.ShowFlags,
		}
	}

	if hclCfg.Filter != nil {
		cfg.Filter = FilterArgs{
			Include: hclCfg.Filter.Include,
			Exclude: hclCfg.Filter.Exclude,
			Types:   hclCfg.Filter.Types,
		}
	}

	return cfg, nil
}

// changeTypeNames exposes the change type names to HCL expressions, so
// `types = [change_types.deletion]` works as well as string literals.
func changeTypeNames() cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"file":      cty.StringVal("file"),
		"directory": cty.StringVal("directory"),
		"symlink":   cty.StringVal("symlink"),
		"device":    cty.StringVal("device"),
		"special":   cty.StringVal("special"),
		"deletion":  cty.StringVal("deletion"),
		"unknown":   cty.StringVal("unknown"),
	})
}

// 🔧 RCParser handles the extension-less ".rsyncverify" file, which may be
// written in YAML or HCL
type RCParser struct{}

// RCFileName is the conventional config file name
const RCFileName = ".rsyncverify"

func (p *RCParser) CanParse(filename string) bool {
	return filepath.Base(filename) == RCFileName
}

func (p *RCParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	// Try YAML first
	cfg, yamlErr := (&YAMLParser{}).Parse(ctx, data)
	if yamlErr == nil {
		return cfg, nil
	}

	// Try HCL next
	cfg, hclErr := (&HCLParser{}).Parse(ctx, data)
	if hclErr == nil {
		return cfg, nil
	}

	return nil, errors.Errorf("failed to parse %s as YAML (%v) or HCL: %w", RCFileName, yamlErr, hclErr)
}
