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

// Package ir defines the lowered, statement-level representation of C-like functions consumed by the analyses.
// A function body is a flat sequence of statements where structured control flow is expressed with marker
// statements (if/else/endif, loop/endloop). The package also provides a visitor interface over statements and the
// read/write extraction used by the dataflow analyses.
package ir

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// StmtID identifies a statement inside its function. Ids are strictly increasing along the body.
type StmtID int

// Op is the operation tag of a statement.
type Op int

const (
	// OpInvalid is the zero value and never appears in a well-formed body
	OpInvalid Op = iota
	// OpAssign is "lhs = rhs"
	OpAssign
	// OpCall is a call statement "callee(args...)" whose result is discarded
	OpCall
	// OpReturn is "return expr"
	OpReturn
	// OpIf opens a conditional scope
	OpIf
	// OpElse separates the two branches of a conditional scope
	OpElse
	// OpEndIf closes a conditional scope
	OpEndIf
	// OpLoop opens a loop scope
	OpLoop
	// OpEndLoop closes a loop scope
	OpEndLoop
)

var opNames = [...]string{
	OpInvalid: "invalid",
	OpAssign:  "assign",
	OpCall:    "call",
	OpReturn:  "return",
	OpIf:      "if",
	OpElse:    "else",
	OpEndIf:   "endif",
	OpLoop:    "loop",
	OpEndLoop: "endloop",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("op(%d)", int(op))
	}
	return opNames[op]
}

// ParseOp returns the operation named s, or an error if s is not an operation tag.
func ParseOp(s string) (Op, error) {
	for i, name := range opNames {
		if Op(i) != OpInvalid && name == strings.ToLower(strings.TrimSpace(s)) {
			return Op(i), nil
		}
	}
	return OpInvalid, fmt.Errorf("unknown statement operation %q", s)
}

// IsControl returns true when the operation is a structured control marker.
func (op Op) IsControl() bool {
	switch op {
	case OpIf, OpElse, OpEndIf, OpLoop, OpEndLoop:
		return true
	}
	return false
}

// UnmarshalYAML decodes an operation from its tag.
func (op *Op) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseOp(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*op = parsed
	return nil
}

// MarshalYAML encodes an operation as its tag.
func (op Op) MarshalYAML() (interface{}, error) {
	return op.String(), nil
}

// Operands holds the textual operands of a statement. Which fields are meaningful depends on the operation; an
// operand that was not provided is the empty value.
type Operands struct {
	// LHS is the assigned expression of an assign statement
	LHS string `yaml:"lhs,omitempty"`
	// RHS is the assigned value of an assign statement
	RHS string `yaml:"rhs,omitempty"`
	// Callee is the name of the function called by a call statement
	Callee string `yaml:"func,omitempty"`
	// Args are the argument expressions of a call statement, in order
	Args []string `yaml:"args,omitempty"`
	// Cond is the condition of an if or loop statement
	Cond string `yaml:"cond,omitempty"`
	// Expr is the returned expression of a return statement, empty for a bare return
	Expr string `yaml:"expr,omitempty"`
}

// Statement is a single lowered statement. Statements are values and are not mutated after lowering.
type Statement struct {
	ID       StmtID `yaml:"id"`
	Op       Op     `yaml:"op"`
	Operands `yaml:",inline"`
}

// Function is a lowered function body.
type Function struct {
	Name   string         `yaml:"name"`
	Params []string       `yaml:"params,omitempty"`
	Body   []Statement    `yaml:"body"`
	Arrays map[string]int `yaml:"arrays,omitempty"`
}

// Unit is the collection of functions of one translation unit.
type Unit struct {
	// Filename is the name of the source the unit was lowered from. It may be empty.
	Filename  string      `yaml:"file,omitempty"`
	Functions []*Function `yaml:"functions"`
}

// CallText reconstructs the source-like text of a call statement, e.g. "strcpy(d, argv[1])"
func CallText(s Statement) string {
	return fmt.Sprintf("%s(%s)", s.Callee, strings.Join(s.Args, ", "))
}

// Line returns a short human-readable rendering of the statement, prefixed by its id
func Line(s Statement) string {
	switch s.Op {
	case OpAssign:
		return fmt.Sprintf("%d: %s = %s", s.ID, s.LHS, s.RHS)
	case OpCall:
		return fmt.Sprintf("%d: call %s", s.ID, CallText(s))
	case OpReturn:
		return strings.TrimSpace(fmt.Sprintf("%d: return %s", s.ID, s.Expr))
	case OpIf, OpLoop:
		return fmt.Sprintf("%d: %s (%s)", s.ID, s.Op, s.Cond)
	default:
		return fmt.Sprintf("%d: %s", s.ID, s.Op)
	}
}

func (s Statement) String() string {
	return Line(s)
}

// Function returns the function named name in the unit, if there is one
func (u *Unit) Function(name string) (*Function, bool) {
	for _, f := range u.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}
