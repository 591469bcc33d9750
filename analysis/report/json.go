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

package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/awslabs/argot-svd/analysis"
	"github.com/awslabs/argot-svd/analysis/findings"
)

// Export is the JSON export of the result of the analysis of a unit
type Export struct {
	File     string         `json:"file"`
	Metrics  map[string]any `json:"metrics"`
	Findings []ExportedItem `json:"findings"`
	Errors   []string       `json:"errors,omitempty"`
}

// ExportedItem is a finding in the JSON export
type ExportedItem struct {
	Function    string         `json:"function"`
	Severity    string         `json:"severity"`
	Kind        string         `json:"kind"`
	Rule        string         `json:"rule"`
	Message     string         `json:"message"`
	CWE         string         `json:"cwe"`
	Block       string         `json:"block"`
	Stmt        int            `json:"stmt"`
	Evidence    map[string]any `json:"evidence"`
	Fix         string         `json:"fix,omitempty"`
	Fingerprint string         `json:"fingerprint"`
}

// NewExport returns the JSON export of the result
func NewExport(result *analysis.UnitResult) Export {
	e := Export{
		File:     fileOf(result),
		Metrics:  metricsMap(result.Metrics()),
		Findings: []ExportedItem{},
	}
	for _, f := range result.Findings() {
		e.Findings = append(e.Findings, exportFinding(f))
	}
	for _, err := range result.Errors() {
		e.Errors = append(e.Errors, err.Error())
	}
	return e
}

func exportFinding(f findings.Finding) ExportedItem {
	evidence := map[string]any{}
	if f.Evidence != nil {
		evidence = f.Evidence.Fields()
	}
	return ExportedItem{
		Function:    f.Function,
		Severity:    f.Severity.String(),
		Kind:        f.Kind.Title(),
		Rule:        f.Kind.String(),
		Message:     f.Message,
		CWE:         f.CWE.String(),
		Block:       f.BlockString(),
		Stmt:        int(f.Stmt()),
		Evidence:    evidence,
		Fix:         f.Fix,
		Fingerprint: Fingerprint(f),
	}
}

// WriteJSON writes the JSON export of each result to w, indented. Each export is a separate JSON document.
func WriteJSON(w io.Writer, results ...*analysis.UnitResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	for _, result := range results {
		if err := enc.Encode(NewExport(result)); err != nil {
			return fmt.Errorf("error writing JSON report: %w", err)
		}
	}
	return nil
}
