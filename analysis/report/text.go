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
	"strings"

	"github.com/awslabs/argot-svd/analysis"
	"github.com/awslabs/argot-svd/analysis/findings"
	"github.com/awslabs/argot-svd/internal/formatutil"
)

var columnWidths = [...]int{8, 24, 60, 9, 16}

var columnNames = [...]string{"Severity", "Type", "Message", "CWE", "Function"}

// severityColor returns the color of the severity in the text report
func severityColor(s findings.Severity) func(...interface{}) string {
	switch s {
	case findings.High:
		return formatutil.Red
	case findings.Medium:
		return formatutil.Yellow
	default:
		return formatutil.Cyan
	}
}

// WriteText writes a table of the findings of the result to w, followed by the suggested fixes and the errors of
// the functions that could not be analyzed. Colors are used when stdout is a terminal.
func WriteText(w io.Writer, result *analysis.UnitResult) error {
	var b strings.Builder
	all := result.Findings()
	if len(all) == 0 {
		b.WriteString(formatutil.Green("No issues found.") + "\n")
	} else {
		header := make([]string, len(columnNames))
		for i, name := range columnNames {
			header[i] = formatutil.PadRight(formatutil.Bold(name), name, columnWidths[i])
		}
		b.WriteString(strings.Join(header, " ") + "\n")
		for _, f := range all {
			writeRow(&b, f)
		}
		fixes := 0
		for _, f := range all {
			if f.Fix == "" {
				continue
			}
			if fixes == 0 {
				b.WriteString("\n" + formatutil.Bold("Suggested fixes") + "\n")
			}
			fixes++
			fmt.Fprintf(&b, "  %s:%d %s\n", f.Function, f.Stmt(), f.Fix)
		}
	}
	for _, err := range result.Errors() {
		fmt.Fprintf(&b, "%s %s\n", formatutil.Red("error:"), formatutil.Sanitize(err.Error()))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeRow(b *strings.Builder, f findings.Finding) {
	cells := [...]string{
		f.Severity.String(),
		f.Kind.Title(),
		formatutil.Truncate(formatutil.Sanitize(f.Message), columnWidths[2]),
		f.CWE.String(),
		f.Function,
	}
	row := make([]string, len(cells))
	for i, cell := range cells {
		colored := cell
		if i == 0 {
			colored = severityColor(f.Severity)(cell)
		}
		row[i] = formatutil.PadRight(colored, cell, columnWidths[i])
	}
	b.WriteString(strings.TrimRight(strings.Join(row, " "), " ") + "\n")
}

// WriteMetrics writes the metrics of the result to w, one per line
func WriteMetrics(w io.Writer, m analysis.Metrics) error {
	rows := []struct {
		name  string
		value any
	}{
		{"functions", m.Functions},
		{"analyzed", m.Analyzed},
		{"failed", m.Failed},
		{"cfg nodes", m.Blocks},
		{"cfg edges", m.Edges},
		{"loops", m.Loops},
		{"unreachable blocks", m.Unreachable},
		{"dataflow passes", m.Passes},
		{"issues", fmt.Sprintf("%d (High: %d, Medium: %d, Low: %d)", m.Issues,
			m.BySeverity[findings.High], m.BySeverity[findings.Medium], m.BySeverity[findings.Low])},
		{"analysis time", fmt.Sprintf("%d ms", m.Time.Milliseconds())},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%-20s %v\n", r.name+":", r.value); err != nil {
			return err
		}
	}
	return nil
}

// WriteDetails writes the statements of each block of the CFGs of the result, function by function. Functions
// whose CFG could not be built are left out.
func WriteDetails(w io.Writer, result *analysis.UnitResult) error {
	for _, f := range result.Functions {
		if f.CFG == nil {
			continue
		}
		if _, err := fmt.Fprintln(w, formatutil.Bold(f.Function.Name)); err != nil {
			return err
		}
		for _, block := range f.CFG.Details() {
			if _, err := fmt.Fprintf(w, "  %s\n", block.ID); err != nil {
				return err
			}
			for _, line := range block.Lines {
				if _, err := fmt.Fprintf(w, "    %s\n", line); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
