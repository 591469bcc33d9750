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

// Package report exports the results of an analysis: SARIF and JSON reports for other tools, and a text report for
// the terminal.
package report

import (
	"fmt"

	"github.com/awslabs/argot-svd/analysis"
	"github.com/awslabs/argot-svd/analysis/findings"
	"github.com/google/uuid"
)

// ToolName is the name of the analyzer in reports
const ToolName = "argot-svd"

// ToolURI is the information URI of the analyzer in SARIF reports
const ToolURI = "https://github.com/awslabs/argot-svd"

// fingerprintNamespace is the namespace of finding fingerprints
var fingerprintNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte(ToolURI))

// Fingerprint returns a stable identifier of the finding. Two findings with the same kind, function, statement and
// message have the same fingerprint across runs.
func Fingerprint(f findings.Finding) string {
	key := fmt.Sprintf("%s|%s|%d|%s", f.Kind, f.Function, f.Stmt(), f.Message)
	return uuid.NewSHA1(fingerprintNamespace, []byte(key)).String()
}

// fileOf returns the file name of the unit of the result, or "<unit>" when the unit has no file name
func fileOf(result *analysis.UnitResult) string {
	if result.Unit != nil && result.Unit.Filename != "" {
		return result.Unit.Filename
	}
	return "<unit>"
}

// metricsMap returns the metrics in the shape of the JSON export
func metricsMap(m analysis.Metrics) map[string]any {
	bySeverity := map[string]int{}
	for sev, n := range m.BySeverity {
		bySeverity[sev.String()] = n
	}
	return map[string]any{
		"functions":   m.Functions,
		"analyzed":    m.Analyzed,
		"failed":      m.Failed,
		"cfg_nodes":   m.Blocks,
		"cfg_edges":   m.Edges,
		"loops":       m.Loops,
		"unreachable": m.Unreachable,
		"passes":      m.Passes,
		"issues":      m.Issues,
		"by_severity": bySeverity,
		"analysis_ms": m.Time.Milliseconds(),
	}
}
