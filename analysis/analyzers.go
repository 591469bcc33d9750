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

// Package analysis runs the analysis pipeline on lowered functions: for each function, it builds the CFG, computes
// the dataflow facts, runs the detectors and post-processes their findings.
package analysis

import (
	"fmt"
	"time"

	"github.com/awslabs/argot-svd/analysis/cfg"
	"github.com/awslabs/argot-svd/analysis/config"
	"github.com/awslabs/argot-svd/analysis/dataflow"
	"github.com/awslabs/argot-svd/analysis/detect"
	"github.com/awslabs/argot-svd/analysis/findings"
	"github.com/awslabs/argot-svd/analysis/ir"
	"github.com/awslabs/argot-svd/analysis/postprocess"
	"github.com/awslabs/argot-svd/analysis/registry"
	"github.com/awslabs/argot-svd/internal/funcutil"
)

// State contains the information shared by the analyses of all the functions of a unit. It is read-only once
// built.
type State struct {
	Config   *config.Config
	Logger   *config.LogGroup
	Registry *registry.Registry

	disabled     map[findings.Kind]bool
	pointerNames map[string]bool
	extractor    ir.Extractor
}

// NewState returns the state of an analysis with the config and logger provided. It returns an error if the config
// names an unknown detector or specifies an invalid sink.
func NewState(c *config.Config, logger *config.LogGroup) (*State, error) {
	reg, err := registry.FromConfig(c)
	if err != nil {
		return nil, fmt.Errorf("invalid sinks in config: %w", err)
	}
	disabled := map[findings.Kind]bool{}
	for _, name := range c.DisabledDetectors {
		kind, err := findings.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("invalid disabled detector: %w", err)
		}
		disabled[kind] = true
	}
	pointerNames := funcutil.Union(funcutil.Clone(detect.DefaultPointerNames), funcutil.SetOf(c.PointerNames...))
	extractor := ir.DefaultExtractor
	if c.FilteredReads {
		extractor = ir.FilteredExtractor{}
	}
	return &State{
		Config:       c,
		Logger:       logger,
		Registry:     reg,
		disabled:     disabled,
		pointerNames: pointerNames,
		extractor:    extractor,
	}, nil
}

// FunctionResult is the result of the analysis of one function.
// When Err is not nil, the CFG could not be built and CFG, Facts and Findings are nil.
type FunctionResult struct {
	Function *ir.Function
	CFG      *cfg.CFG
	Facts    *dataflow.Facts
	Findings *findings.FindingSet
	Err      error
	Time     time.Duration
}

// AnalyzeFunction runs the whole pipeline on function. An error is returned in the result when the control
// structure of the function is malformed; the other stages never fail.
func AnalyzeFunction(state *State, function *ir.Function) FunctionResult {
	start := time.Now()
	res := FunctionResult{Function: function}

	g, err := cfg.Build(function, cfg.Options{ForwardLoops: state.Config.ForwardLoops})
	if err != nil {
		res.Err = err
		res.Time = time.Since(start)
		return res
	}
	res.CFG = g

	res.Facts = dataflow.Analyze(g, dataflow.Options{
		TaintSources:   state.Registry.TaintSources(),
		SeedParameters: state.Config.SeedParameters,
		SeedArrays:     state.Config.SeedArrays,
		Extractor:      state.extractor,
		PostPassCallback: func(pass int, _ *dataflow.Facts) {
			state.Logger.Tracef("%s: dataflow pass %d done", function.Name, pass)
		},
	})

	detected := detect.Detect(g, res.Facts, detect.Options{
		Registry:        state.Registry,
		PointerNames:    state.pointerNames,
		Disabled:        state.disabled,
		IntraBlockFacts: state.Config.IntraBlockFacts,
		Extractor:       state.extractor,
	})

	res.Findings = postprocess.Run(function, detected, postprocess.Options{
		Registry: state.Registry,
		Disabled: state.disabled,
		CFG:      g,
	})
	res.Time = time.Since(start)
	return res
}

// UnitResult is the result of the analysis of a unit
type UnitResult struct {
	Unit *ir.Unit

	// Functions contains the results of the functions analyzed, in the order of the unit
	Functions []FunctionResult

	// Skipped are the names of the functions that do not match the function filter
	Skipped []string

	// Time is the wall-clock time of the analysis
	Time time.Duration

	maxAlarms int
}

// AnalyzeUnit analyzes all the functions of unit that match the function filter of the config, using
// state.Config.Workers goroutines. A function whose analysis fails does not prevent the analysis of the others.
func AnalyzeUnit(state *State, unit *ir.Unit) *UnitResult {
	state.Logger.Infof("Starting analysis of %d functions ...", len(unit.Functions))
	start := time.Now()
	res := &UnitResult{Unit: unit, maxAlarms: state.Config.MaxAlarms}

	var jobs []singleFunctionJob
	for _, function := range unit.Functions {
		if state.Config.MatchFunctionFilter(function.Name) {
			jobs = append(jobs, singleFunctionJob{state: state, function: function})
		} else {
			res.Skipped = append(res.Skipped, function.Name)
			state.Logger.Debugf("Skipping %s", function.Name)
		}
	}

	res.Functions = runJobs(jobs, state.Config.Workers)
	res.Time = time.Since(start)
	state.Logger.Infof("Analysis done (%.2f s).", res.Time.Seconds())
	return res
}

// singleFunctionJob contains all the information necessary to run the analysis on function.
type singleFunctionJob struct {
	state    *State
	function *ir.Function
}

// runJobs runs the analysis on each job in jobs in parallel and returns a slice with all the results, in the order
// of the jobs.
func runJobs(jobs []singleFunctionJob, numRoutines int) []FunctionResult {
	return funcutil.MapParallel(jobs, runSingleFunctionJob, numRoutines)
}

// runSingleFunctionJob runs the analysis with the information in job and returns the result of the analysis.
func runSingleFunctionJob(job singleFunctionJob) FunctionResult {
	logger := job.state.Logger
	logger.Debugf("%-10sFunc: %-30s ...", "Analyzing", job.function.Name)
	result := AnalyzeFunction(job.state, job.function)

	if result.Err != nil {
		logger.Errorf("error while analyzing %s:\n\t%v\n", job.function.Name, result.Err)
		return result
	}

	logger.Debugf("%-10sFunc: %-30s | %3d blocks | %3d passes | %3d findings | %.2f s\n",
		" ", job.function.Name, result.CFG.NumBlocks(), result.Facts.Passes, result.Findings.Len(),
		result.Time.Seconds())
	if logger.LogsLevel(config.TraceLevel) {
		reachable := result.CFG.Reachable()
		for _, b := range result.CFG.Blocks() {
			if !reachable[b.ID] {
				logger.Tracef("%s: block %s is unreachable", job.function.Name, b.ID)
			}
		}
		for _, loop := range result.CFG.Loops() {
			logger.Tracef("%s: loop %v", job.function.Name, loop)
		}
	}
	for _, f := range result.Findings.All() {
		logger.Tracef("%s", f)
	}
	return result
}

// Errors returns the errors of the functions whose analysis failed
func (r *UnitResult) Errors() []error {
	var errs []error
	for _, f := range r.Functions {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}

// Function returns the result of the function named name, if it has been analyzed
func (r *UnitResult) Function(name string) (FunctionResult, bool) {
	for _, f := range r.Functions {
		if f.Function.Name == name {
			return f, true
		}
	}
	return FunctionResult{}, false
}

// Findings returns the findings of all functions, in the order of the functions, each function's findings being
// sorted by severity. If the config sets max-alarms, at most that many findings are returned.
func (r *UnitResult) Findings() []findings.Finding {
	var all []findings.Finding
	for _, f := range r.Functions {
		if f.Findings != nil {
			all = append(all, f.Findings.BySeverity()...)
		}
	}
	if r.maxAlarms > 0 && len(all) > r.maxAlarms {
		all = all[:r.maxAlarms]
	}
	return all
}
