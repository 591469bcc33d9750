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

// Package postprocess enriches the findings of a function once the detectors have run: it adds the findings of the
// pattern-based injection detectors and attaches suggested fixes. Running it on its own output adds nothing.
package postprocess

import (
	"github.com/awslabs/argot-svd/analysis/cfg"
	"github.com/awslabs/argot-svd/analysis/findings"
	"github.com/awslabs/argot-svd/analysis/ir"
	"github.com/awslabs/argot-svd/analysis/registry"
	"github.com/awslabs/argot-svd/internal/funcutil"
)

// Options parameterizes the post-processing
type Options struct {
	// Registry is the table of library functions. When nil, registry.Default() is used.
	Registry *registry.Registry

	// Disabled is the set of kinds whose detector does not run
	Disabled map[findings.Kind]bool

	// CFG of the function, if available. It is used to locate the block of the new findings.
	CFG *cfg.CFG
}

// Run returns a new set containing the findings of fs, followed by the findings of the injection detectors on
// function, with fixes attached. The set fs is not modified.
func Run(function *ir.Function, fs *findings.FindingSet, opts Options) *findings.FindingSet {
	if opts.Registry == nil {
		opts.Registry = registry.Default()
	}
	res := fs.Map(func(f findings.Finding) findings.Finding { return f })
	detectInjections(function, res, opts)
	return res.Map(func(f findings.Finding) findings.Finding { return attachFix(f, opts.Registry) })
}

// detectInjections adds the findings of the format string and command injection detectors. A finding is added only
// if there is no finding of the same kind on the statement already.
func detectInjections(function *ir.Function, fs *findings.FindingSet, opts Options) {
	if function == nil {
		return
	}
	for _, stmt := range function.Body {
		e, ok := opts.Registry.Lookup(stmt.Callee)
		if stmt.Op != ir.OpCall || !ok {
			continue
		}
		block := blockOf(opts.CFG, stmt.ID)
		if !opts.Disabled[findings.FormatString] && e.Triggers(registry.FormatFunction, stmt) {
			fs.AddUnique(findings.NewFormatString(function.Name, block, stmt, e.Severity, e.CWE))
		}
		if !opts.Disabled[findings.CommandInjection] && e.Triggers(registry.CommandSink, stmt) {
			fs.AddUnique(findings.NewCommandInjection(function.Name, block, stmt, e.Severity, e.CWE))
		}
	}
}

// attachFix returns the finding with the fix of its call's callee, if the finding is on a call to a registered
// function and has no fix yet.
func attachFix(f findings.Finding, r *registry.Registry) findings.Finding {
	if f.Fix != "" {
		return f
	}
	call, ok := findings.CallOf(f)
	if !ok {
		return f
	}
	if fix, ok := r.FixFor(call); ok {
		return f.WithFix(fix)
	}
	return f
}

func blockOf(g *cfg.CFG, id ir.StmtID) funcutil.Optional[cfg.BlockID] {
	if g == nil {
		return funcutil.None[cfg.BlockID]()
	}
	if b, ok := g.BlockOf(id); ok {
		return funcutil.Some(b)
	}
	return funcutil.None[cfg.BlockID]()
}
