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

package findings

import (
	"fmt"
	"strings"

	"github.com/awslabs/argot-svd/analysis/cfg"
	"github.com/awslabs/argot-svd/analysis/ir"
	"github.com/awslabs/argot-svd/internal/funcutil"
)

// Evidence is the kind-specific context of a finding. The implementations are ReadEvidence, DivisionEvidence and
// CallEvidence; use EvidenceSwitch to handle each of them.
type Evidence interface {
	// Stmt returns the id of the statement that triggered the finding
	Stmt() ir.StmtID

	// Fields returns the evidence as a flat key-value map, for export
	Fields() map[string]any

	isEvidence()
}

// ReadEvidence is the evidence of findings triggered by the variables read by a statement
type ReadEvidence struct {
	StmtID ir.StmtID

	// Reads are all the variables read by the statement
	Reads []string

	// Matched are the variables read that triggered the finding
	Matched []string
}

// DivisionEvidence is the evidence of a possible division by zero
type DivisionEvidence struct {
	StmtID ir.StmtID

	// Expr is the divided expression
	Expr string

	// Denominator is the text of the denominator
	Denominator string
}

// CallEvidence is the evidence of findings triggered by a call
type CallEvidence struct {
	StmtID ir.StmtID

	// Callee is the name of the function called
	Callee string

	// Call is the text of the call, e.g. "strcpy(d, s)"
	Call string

	// Tainted are the arguments' variables that are tainted, if relevant
	Tainted []string
}

func (e ReadEvidence) Stmt() ir.StmtID     { return e.StmtID }
func (e DivisionEvidence) Stmt() ir.StmtID { return e.StmtID }
func (e CallEvidence) Stmt() ir.StmtID     { return e.StmtID }

func (ReadEvidence) isEvidence()     {}
func (DivisionEvidence) isEvidence() {}
func (CallEvidence) isEvidence()     {}

// Fields implements Evidence.Fields
func (e ReadEvidence) Fields() map[string]any {
	return map[string]any{"sid": int(e.StmtID), "reads": e.Reads, "matched": e.Matched}
}

// Fields implements Evidence.Fields
func (e DivisionEvidence) Fields() map[string]any {
	return map[string]any{"sid": int(e.StmtID), "expr": e.Expr, "denominator": e.Denominator}
}

// Fields implements Evidence.Fields
func (e CallEvidence) Fields() map[string]any {
	m := map[string]any{"sid": int(e.StmtID), "call": e.Call}
	if len(e.Tainted) > 0 {
		m["tainted"] = e.Tainted
	}
	return m
}

// An EvidenceOp must implement methods for ALL the evidence types
type EvidenceOp interface {
	DoRead(ReadEvidence)
	DoDivision(DivisionEvidence)
	DoCall(CallEvidence)
}

// EvidenceSwitch maps the different evidence types to the methods of the visitor. Nil evidence is ignored.
func EvidenceSwitch(visitor EvidenceOp, e Evidence) {
	switch x := e.(type) {
	case ReadEvidence:
		visitor.DoRead(x)
	case DivisionEvidence:
		visitor.DoDivision(x)
	case CallEvidence:
		visitor.DoCall(x)
	}
}

// CallOf returns the call evidence of the finding, if its evidence is a call
func CallOf(f Finding) (CallEvidence, bool) {
	c, ok := f.Evidence.(CallEvidence)
	return c, ok
}

// The constructors below pair each kind with its evidence type.

// NewUninitializedRead returns a finding for the read of the undefined variables by stmt
func NewUninitializedRead(function string, block cfg.BlockID, stmt ir.StmtID, reads, undefined []string) Finding {
	return Finding{
		Kind:     UninitializedRead,
		Message:  fmt.Sprintf("Use of %s may be uninitialized", strings.Join(undefined, ", ")),
		Severity: High,
		CWE:      457,
		Function: function,
		Block:    funcutil.Some(block),
		Evidence: ReadEvidence{StmtID: stmt, Reads: reads, Matched: undefined},
	}
}

// NewDivisionByZero returns a finding for a division of expr by denominator
func NewDivisionByZero(function string, block cfg.BlockID, stmt ir.StmtID, expr, denominator string) Finding {
	return Finding{
		Kind:     DivisionByZero,
		Message:  fmt.Sprintf("Possible division by zero in '%s'", expr),
		Severity: Medium,
		CWE:      369,
		Function: function,
		Block:    funcutil.Some(block),
		Evidence: DivisionEvidence{StmtID: stmt, Expr: expr, Denominator: denominator},
	}
}

// NewNullDereference returns a finding for the dereference of the pointers by stmt
func NewNullDereference(function string, block cfg.BlockID, stmt ir.StmtID, reads, pointers []string) Finding {
	return Finding{
		Kind:     NullDereference,
		Message:  fmt.Sprintf("Pointer %s may be null before dereference", strings.Join(pointers, ", ")),
		Severity: High,
		CWE:      476,
		Function: function,
		Block:    funcutil.Some(block),
		Evidence: ReadEvidence{StmtID: stmt, Reads: reads, Matched: pointers},
	}
}

// NewUnsafeCall returns a finding for a call to an unsafe function
func NewUnsafeCall(function string, block cfg.BlockID, stmt ir.Statement, severity Severity, cwe CWE,
	risk string) Finding {
	return Finding{
		Kind:     UnsafeCall,
		Message:  fmt.Sprintf("Call to %s may cause %s", stmt.Callee, risk),
		Severity: severity,
		CWE:      cwe,
		Function: function,
		Block:    funcutil.Some(block),
		Evidence: CallEvidence{StmtID: stmt.ID, Callee: stmt.Callee, Call: ir.CallText(stmt)},
	}
}

// NewTaintedSink returns a finding for a call to an unsafe function with tainted arguments
func NewTaintedSink(function string, block cfg.BlockID, stmt ir.Statement, tainted []string) Finding {
	return Finding{
		Kind:     TaintedSink,
		Message:  fmt.Sprintf("Tainted input %s reaches %s", strings.Join(tainted, ", "), stmt.Callee),
		Severity: High,
		CWE:      20,
		Function: function,
		Block:    funcutil.Some(block),
		Evidence: CallEvidence{StmtID: stmt.ID, Callee: stmt.Callee, Call: ir.CallText(stmt), Tainted: tainted},
	}
}

// NewFormatString returns a finding for a call whose format argument is not a literal
func NewFormatString(function string, block funcutil.Optional[cfg.BlockID], stmt ir.Statement,
	severity Severity, cwe CWE) Finding {
	format := ""
	if len(stmt.Args) > 0 {
		format = stmt.Args[0]
	}
	return Finding{
		Kind:     FormatString,
		Message:  fmt.Sprintf("%s called with non-literal format argument: %s", stmt.Callee, format),
		Severity: severity,
		CWE:      cwe,
		Function: function,
		Block:    block,
		Evidence: CallEvidence{StmtID: stmt.ID, Callee: stmt.Callee, Call: ir.CallText(stmt)},
	}
}

// NewCommandInjection returns a finding for a call running a shell command
func NewCommandInjection(function string, block funcutil.Optional[cfg.BlockID], stmt ir.Statement,
	severity Severity, cwe CWE) Finding {
	command := ""
	if len(stmt.Args) > 0 {
		command = stmt.Args[0]
	}
	return Finding{
		Kind:     CommandInjection,
		Message:  fmt.Sprintf("%s invoked with possibly user-controlled data: %s", stmt.Callee, command),
		Severity: severity,
		CWE:      cwe,
		Function: function,
		Block:    block,
		Evidence: CallEvidence{StmtID: stmt.ID, Callee: stmt.Callee, Call: ir.CallText(stmt)},
	}
}
