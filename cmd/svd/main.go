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

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/awslabs/argot-svd/analysis"
	"github.com/awslabs/argot-svd/analysis/config"
	"github.com/awslabs/argot-svd/analysis/report"
	"github.com/awslabs/argot-svd/internal/formatutil"
)

// flags
type disableFlags []string

var (
	configPath               = ""
	sarifPath                = ""
	jsonPath                 = ""
	dotDir                   = ""
	mermaidDir               = ""
	verbose                  = false
	details                  = false
	disabled    disableFlags = []string{}
)

func (d *disableFlags) String() string {
	return ""
}

func (d *disableFlags) Set(value string) error {
	*d = append(*d, value)
	return nil
}

func init() {
	flag.StringVar(&configPath, "config", "", "config file path")
	flag.StringVar(&sarifPath, "sarif", "", "write a SARIF report to this file")
	flag.StringVar(&jsonPath, "json", "", "write a JSON export to this file")
	flag.StringVar(&dotDir, "dot", "", "write the CFG of each function in DOT format to this directory")
	flag.StringVar(&mermaidDir, "mermaid", "", "write the CFG of each function as a mermaid flowchart to this directory")
	flag.BoolVar(&verbose, "verbose", false, "verbose printing on standard output")
	flag.BoolVar(&details, "details", false, "print the statements of each CFG block")
	flag.Var(&disabled, "disable", "finding kind whose detector is disabled")
}

const usage = `Detect vulnerabilities in lowered C functions.

Usage:
  svd [options] unit.yaml|directory...

Use the -help flag to display the options.

Examples:
% svd -config config.yaml -sarif report.sarif unit.yaml
% svd -json findings.json units/
`

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		_, _ = fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "svd: %s\n", err)
		os.Exit(1)
	}
}

func run(paths []string) error {
	c := config.NewDefault()
	if configPath != "" {
		var err error
		c, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("could not load config %s: %w", configPath, err)
		}
	}
	if verbose {
		c.LogLevel = int(config.DebugLevel)
	}
	c.DisabledDetectors = append(c.DisabledDetectors, disabled...)
	logger := config.NewLogGroup(c)

	logger.Infof(formatutil.Faint("Reading units"))
	units, err := analysis.LoadUnits(paths, c.ExcludePaths, logger)
	if err != nil {
		return err
	}
	if len(units) == 0 {
		return fmt.Errorf("no unit to analyze")
	}

	state, err := analysis.NewState(c, logger)
	if err != nil {
		return err
	}
	var results []*analysis.UnitResult
	for _, unit := range units {
		result := analysis.AnalyzeUnit(state, unit)
		results = append(results, result)
		if len(units) > 1 {
			fmt.Println(formatutil.Bold("== " + unit.Filename + " =="))
		}
		if err := report.WriteText(os.Stdout, result); err != nil {
			return err
		}
		if details {
			fmt.Println()
			if err := report.WriteDetails(os.Stdout, result); err != nil {
				return err
			}
		}
		if logger.LogsLevel(config.InfoLevel) {
			fmt.Println()
			if err := report.WriteMetrics(os.Stdout, result.Metrics()); err != nil {
				return err
			}
		}
	}

	if sarifPath == "" && c.ReportsDir != "" {
		sarifPath = filepath.Join(c.ReportsDir, "report.sarif")
	}
	if jsonPath == "" && c.ReportsDir != "" {
		jsonPath = filepath.Join(c.ReportsDir, "report.json")
	}
	if sarifPath != "" {
		if err := writeFile(sarifPath, func(w io.Writer) error { return report.WriteSARIF(w, results...) }); err != nil {
			return err
		}
		logger.Infof("SARIF report written to %s", sarifPath)
	}
	if jsonPath != "" {
		if err := writeFile(jsonPath, func(w io.Writer) error { return report.WriteJSON(w, results...) }); err != nil {
			return err
		}
		logger.Infof("JSON export written to %s", jsonPath)
	}
	if dotDir != "" {
		if err := writeGraphs(dotDir, ".dot", results, func(f analysis.FunctionResult) (string, error) {
			return f.CFG.Dot()
		}); err != nil {
			return err
		}
	}
	if mermaidDir != "" {
		if err := writeGraphs(mermaidDir, ".mmd", results, func(f analysis.FunctionResult) (string, error) {
			return f.CFG.Mermaid(), nil
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(filename string, write func(io.Writer) error) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", filename, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("could not write %s: %w", filename, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not close %s: %w", filename, err)
	}
	return nil
}

// writeGraphs writes one file per function whose CFG could be built, with the content returned by render. When
// there are several units, the files of each unit are in a subdirectory of dir named after the unit's file.
func writeGraphs(dir string, ext string, results []*analysis.UnitResult,
	render func(analysis.FunctionResult) (string, error)) error {
	for _, result := range results {
		unitDir := dir
		if len(results) > 1 {
			base := filepath.Base(result.Unit.Filename)
			unitDir = filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base)))
		}
		if err := os.MkdirAll(unitDir, 0750); err != nil {
			return fmt.Errorf("could not create directory %s: %w", unitDir, err)
		}
		for _, f := range result.Functions {
			if f.CFG == nil {
				continue
			}
			content, err := render(f)
			if err != nil {
				return fmt.Errorf("could not render CFG of %s: %w", f.Function.Name, err)
			}
			filename := filepath.Join(unitDir, f.Function.Name+ext)
			if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
				return fmt.Errorf("could not write %s: %w", filename, err)
			}
		}
	}
	return nil
}
