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
	"fmt"
	"io"

	"github.com/awslabs/argot-svd/analysis"
	"github.com/awslabs/argot-svd/analysis/findings"
	"github.com/owenrumney/go-sarif/v2/sarif"
)

// SARIF returns a SARIF 2.1.0 report of the results, with a single run. There is one rule per finding kind, and one
// result per finding located at the line of its statement in the file of its unit. Findings without a statement are
// located at the file only.
func SARIF(results ...*analysis.UnitResult) (*sarif.Report, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(ToolName, ToolURI)
	for _, kind := range findings.Kinds() {
		run.AddRule(kind.String()).
			WithDescription(kind.Title()).
			WithProperties(sarif.Properties{"title": kind.Title()})
	}

	for _, result := range results {
		file := fileOf(result)
		for _, f := range result.Findings() {
			physical := sarif.NewPhysicalLocation().WithArtifactLocation(sarif.NewArtifactLocation().WithUri(file))
			// SARIF lines start at 1
			if f.Stmt() > 0 {
				physical.WithRegion(sarif.NewRegion().WithStartLine(int(f.Stmt())))
			}
			location := sarif.NewLocation().WithPhysicalLocation(physical)
			res := sarif.NewRuleResult(f.Kind.String()).
				WithMessage(sarif.NewTextMessage(f.Message)).
				WithLevel(toSarifLevel(f.Severity)).
				WithLocations([]*sarif.Location{location})
			res.Properties = resultProperties(f)
			run.AddResult(res)
		}
	}
	report.AddRun(run)
	return report, nil
}

// WriteSARIF writes the SARIF report of the results to w
func WriteSARIF(w io.Writer, results ...*analysis.UnitResult) error {
	report, err := SARIF(results...)
	if err != nil {
		return err
	}
	if err := report.PrettyWrite(w); err != nil {
		return fmt.Errorf("error writing SARIF report: %w", err)
	}
	return nil
}

func resultProperties(f findings.Finding) sarif.Properties {
	props := sarif.Properties{
		"function":    f.Function,
		"block":       f.BlockString(),
		"severity":    f.Severity.String(),
		"fingerprint": Fingerprint(f),
	}
	if f.CWE != findings.NoCWE {
		props["cwe"] = f.CWE.String()
	}
	if f.Fix != "" {
		props["fix"] = f.Fix
	}
	if f.Evidence != nil {
		props["evidence"] = f.Evidence.Fields()
	}
	return props
}

func toSarifLevel(s findings.Severity) string {
	switch s {
	case findings.High:
		return "error"
	case findings.Medium:
		return "warning"
	default:
		return "note"
	}
}
