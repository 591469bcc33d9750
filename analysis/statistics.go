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

package analysis

import (
	"time"

	"github.com/awslabs/argot-svd/analysis/findings"
)

// Metrics summarizes the analysis of a unit
type Metrics struct {
	// Functions is the number of functions in the unit
	Functions int
	// Analyzed is the number of functions analyzed, including the ones that failed
	Analyzed int
	// Failed is the number of functions whose CFG could not be built
	Failed int
	// Blocks is the total number of CFG blocks
	Blocks int
	// Edges is the total number of CFG edges
	Edges int
	// Loops is the total number of loop headers, i.e. blocks entering a cycle of their CFG
	Loops int
	// Unreachable is the total number of blocks that cannot be reached from the entry of their CFG
	Unreachable int
	// Passes is the total number of dataflow passes
	Passes int
	// Issues is the total number of findings, before max-alarms applies
	Issues int
	// BySeverity counts the findings of each severity
	BySeverity map[findings.Severity]int
	// Time is the wall-clock time of the analysis
	Time time.Duration
}

// Metrics returns the metrics of the analysis
func (r *UnitResult) Metrics() Metrics {
	m := Metrics{
		Analyzed:   len(r.Functions),
		BySeverity: map[findings.Severity]int{},
		Time:       r.Time,
	}
	if r.Unit != nil {
		m.Functions = len(r.Unit.Functions)
	}
	for _, f := range r.Functions {
		if f.Err != nil {
			m.Failed++
			continue
		}
		m.Blocks += f.CFG.NumBlocks()
		m.Edges += f.CFG.NumEdges()
		m.Loops += len(f.CFG.LoopHeaders())
		m.Unreachable += f.CFG.NumBlocks() - len(f.CFG.Reachable())
		m.Passes += f.Facts.Passes
		m.Issues += f.Findings.Len()
		for sev, n := range f.Findings.CountBySeverity() {
			m.BySeverity[sev] += n
		}
	}
	return m
}
