// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sink roles accepted in SinkSpec.Role
const (
	RoleUnsafe  = "unsafe"
	RoleFormat  = "format"
	RoleCommand = "command"
	RoleSource  = "source"
)

// DefaultWorkers is the number of functions analyzed in parallel when the config does not specify it
const DefaultWorkers = 4

// Config contains the options of the analysis and the additional sinks, sources and pointer names the detectors use.
// To add elements to a config file, add fields to this struct.
// If some field is not defined in the config file, it will be empty/zero in the struct.
// private fields are not populated from a yaml file, but computed after initialization
type Config struct {
	Options `yaml:"options"`

	sourceFile string

	// if the FunctionFilter is specified
	functionFilterRegex *regexp.Regexp

	// TaintSources lists additional functions whose arguments become tainted when called
	TaintSources []string `yaml:"taint-sources"`

	// PointerNames lists additional variable names treated as possibly-null pointers by the null dereference detector
	PointerNames []string `yaml:"pointer-names"`

	// DisabledDetectors lists the detectors that should not run, by finding kind (e.g. "null-dereference")
	DisabledDetectors []string `yaml:"disabled-detectors"`

	// Sinks lists additional sink functions, or overrides the default ones
	Sinks []SinkSpec `yaml:"sinks"`

	// ExcludePaths lists glob patterns ("**" matches any number of directories) of unit files that are not loaded
	// when a directory is analyzed
	ExcludePaths []string `yaml:"exclude-paths"`
}

// SinkSpec specifies a function that is a sink for one of the detectors
type SinkSpec struct {
	// Callee is the name of the function
	Callee string `yaml:"callee"`

	// Role is one of "unsafe" (the default), "format", "command" or "source"
	Role string `yaml:"role"`

	// Severity of the findings reported on calls to the function: "High", "Medium" or "Low"
	Severity string `yaml:"severity"`

	// CWE of the findings reported on calls to the function, e.g. "CWE-120"
	CWE string `yaml:"cwe"`

	// Risk describes what a call may cause, e.g. "a buffer overflow"
	Risk string `yaml:"risk"`

	// Fix is the suggested remediation attached to findings on calls to the function
	Fix string `yaml:"fix"`

	// FormatArg is the index of the format argument of a function with the "format" role
	FormatArg int `yaml:"format-arg"`
}

type Options struct {
	// ReportsDir is the directory where all the reports will be stored. When empty, reports are only written to
	// the files given on the command line.
	ReportsDir string `yaml:"reports-dir"`

	// FunctionFilter is a regex that function names must match to be analyzed. If the filter cannot be compiled to a
	// regex, it is used as a prefix. An empty filter matches all functions.
	FunctionFilter string `yaml:"function-filter"`

	// Workers is the number of functions analyzed in parallel
	Workers int `yaml:"workers"`

	// MaxAlarms sets a limit for the number of alarms reported by an analysis.  If MaxAlarms > 0, then at most
	// MaxAlarms will be reported. Otherwise, if MaxAlarms <= 0, it is ignored.
	MaxAlarms int `yaml:"max-alarms"`

	// ForwardLoops builds loops without back-edges: the loop body is seen once by the dataflow analysis
	ForwardLoops bool `yaml:"forward-loops"`

	// IntraBlockFacts makes the detectors use the facts holding just before each statement instead of the facts on
	// entry to the statement's block
	IntraBlockFacts bool `yaml:"intra-block-facts"`

	// SeedParameters considers the parameters of functions as defined on entry
	SeedParameters bool `yaml:"seed-parameters"`

	// SeedArrays considers the arrays declared by functions as defined on entry
	SeedArrays bool `yaml:"seed-arrays"`

	// FilteredReads leaves member names, callees and C keywords out of the variables read by statements
	FilteredReads bool `yaml:"filtered-reads"`

	// Loglevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level"`

	// Suppress warnings
	SilenceWarn bool `yaml:"silence-warn"`
}

// NewDefault returns an empty default config.
func NewDefault() *Config {
	return &Config{
		sourceFile:        "",
		TaintSources:      nil,
		PointerNames:      nil,
		DisabledDetectors: nil,
		Sinks:             nil,
		ExcludePaths:      nil,
		Options: Options{
			ReportsDir:      "",
			FunctionFilter:  "",
			Workers:         DefaultWorkers,
			MaxAlarms:       0,
			ForwardLoops:    false,
			IntraBlockFacts: false,
			SeedParameters:  false,
			SeedArrays:      false,
			FilteredReads:   false,
			LogLevel:        int(InfoLevel),
			SilenceWarn:     false,
		},
	}
}

// Load reads a configuration from a file
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return LoadFromBytes(filename, b)
}

// LoadFromBytes parses the configuration in b. The filename is used to resolve relative paths and in error
// messages.
func LoadFromBytes(filename string, b []byte) (*Config, error) {
	cfg := NewDefault()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file %s: %w", filename, err)
	}

	cfg.sourceFile = filename

	if cfg.ReportsDir != "" {
		if err := setReportsDir(cfg); err != nil {
			return nil, err
		}
	}

	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}

	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}

	if cfg.FunctionFilter != "" {
		r, err := regexp.Compile(cfg.FunctionFilter)
		if err == nil {
			cfg.functionFilterRegex = r
		}
	}

	for i, sink := range cfg.Sinks {
		if sink.Callee == "" {
			return nil, fmt.Errorf("sink %d in %s has no callee", i, filename)
		}
		switch sink.Role {
		case "":
			cfg.Sinks[i].Role = RoleUnsafe
		case RoleUnsafe, RoleFormat, RoleCommand, RoleSource:
		default:
			return nil, fmt.Errorf("sink %s in %s has unknown role %q", sink.Callee, filename, sink.Role)
		}
	}

	return cfg, nil
}

func setReportsDir(c *Config) error {
	if !path.IsAbs(c.ReportsDir) && c.sourceFile != "" {
		c.ReportsDir = c.RelPath(c.ReportsDir)
	}
	err := os.MkdirAll(c.ReportsDir, 0750)
	if err != nil {
		return fmt.Errorf("could not create directory %s: %w", c.ReportsDir, err)
	}
	return nil
}

// RelPath returns filename path relative to the config source file
func (c Config) RelPath(filename string) string {
	return path.Join(path.Dir(c.sourceFile), filename)
}

// MatchFunctionFilter returns true if the function name matches the function filter set in the config file. If no
// function filter has been set in the config file, the regex will match anything and return true. This function
// safely considers the case where a filter has been specified by the user, but it could not be compiled to a regex.
// The safe case is to check whether the function filter string is a prefix of the name
func (c Config) MatchFunctionFilter(name string) bool {
	if c.functionFilterRegex != nil {
		return c.functionFilterRegex.MatchString(name)
	} else if c.FunctionFilter != "" {
		return strings.HasPrefix(name, c.FunctionFilter)
	} else {
		return true
	}
}

// IsDetectorDisabled returns true if the detector of the kind named name is disabled in the config
func (c Config) IsDetectorDisabled(name string) bool {
	for _, d := range c.DisabledDetectors {
		if strings.EqualFold(strings.TrimSpace(d), name) {
			return true
		}
	}
	return false
}
