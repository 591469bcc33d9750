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

// Package findings defines the findings reported by the detectors: their kind, severity, CWE classification and
// kind-specific evidence, and the ordered sets they are collected in.
package findings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/awslabs/argot-svd/analysis/cfg"
	"github.com/awslabs/argot-svd/analysis/ir"
	"github.com/awslabs/argot-svd/internal/funcutil"
)

// Kind is the closed enumeration of finding kinds
type Kind int

const (
	// UninitializedRead is the read of a variable that is not defined on entry to the block
	UninitializedRead Kind = iota
	// DivisionByZero is a division whose denominator may be zero
	DivisionByZero
	// NullDereference is a dereference of a pointer that may be null
	NullDereference
	// UnsafeCall is a call to an unsafe library function
	UnsafeCall
	// TaintedSink is a call to an unsafe library function with tainted arguments
	TaintedSink
	// FormatString is a call to a printf-like function with a non-literal format
	FormatString
	// CommandInjection is a call executing a shell command
	CommandInjection
)

var kindNames = [...]string{
	UninitializedRead: "uninitialized-read",
	DivisionByZero:    "division-by-zero",
	NullDereference:   "null-dereference",
	UnsafeCall:        "unsafe-call",
	TaintedSink:       "tainted-sink",
	FormatString:      "format-string",
	CommandInjection:  "command-injection",
}

var kindTitles = [...]string{
	UninitializedRead: "Uninitialized Variable",
	DivisionByZero:    "Division by Zero",
	NullDereference:   "Null Dereference",
	UnsafeCall:        "Unsafe Library Call",
	TaintedSink:       "Tainted Data to Sink",
	FormatString:      "Format String Risk",
	CommandInjection:  "Command Injection Risk",
}

// Kinds returns all the finding kinds, in declaration order
func Kinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kindNames {
		kinds[i] = Kind(i)
	}
	return kinds
}

// String returns the identifier of the kind, e.g. "unsafe-call". It is used as a rule id in reports and to name
// detectors in the configuration.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Title returns the human-readable name of the kind, e.g. "Unsafe Library Call"
func (k Kind) Title() string {
	if k < 0 || int(k) >= len(kindTitles) {
		return k.String()
	}
	return kindTitles[k]
}

// ParseKind returns the kind identified by s. Both identifiers and titles are accepted, ignoring case.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	for _, k := range Kinds() {
		if strings.EqualFold(k.String(), s) || strings.EqualFold(k.Title(), s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown finding kind %q", s)
}

// Severity is the severity of a finding. Lower values are more severe.
type Severity int

const (
	// High severity
	High Severity = iota
	// Medium severity
	Medium
	// Low severity
	Low
)

func (s Severity) String() string {
	switch s {
	case High:
		return "High"
	case Medium:
		return "Medium"
	case Low:
		return "Low"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// ParseSeverity parses "High", "Medium" or "Low", ignoring case
func ParseSeverity(s string) (Severity, error) {
	for _, sev := range []Severity{High, Medium, Low} {
		if strings.EqualFold(sev.String(), strings.TrimSpace(s)) {
			return sev, nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Severity) UnmarshalText(b []byte) error {
	sev, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CWE is a Common Weakness Enumeration identifier. The zero value means no classification.
type CWE int

// NoCWE is the CWE of findings without classification
const NoCWE CWE = 0

// String returns "CWE-<n>", or the empty string for NoCWE
func (c CWE) String() string {
	if c == NoCWE {
		return ""
	}
	return "CWE-" + strconv.Itoa(int(c))
}

// ParseCWE parses "CWE-<n>" or "<n>". The empty string is NoCWE.
func ParseCWE(s string) (CWE, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoCWE, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(strings.ToUpper(s), "CWE-"))
	if err != nil || n < 0 {
		return NoCWE, fmt.Errorf("invalid CWE identifier %q", s)
	}
	return CWE(n), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *CWE) UnmarshalText(b []byte) error {
	cwe, err := ParseCWE(string(b))
	if err != nil {
		return err
	}
	*c = cwe
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (c CWE) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// A Finding is a defect reported in a function. Findings are values: use WithFix to obtain a copy with a suggested
// fix.
type Finding struct {
	Kind     Kind
	Message  string
	Severity Severity
	CWE      CWE

	// Function is the name of the function the finding is in
	Function string

	// Block is the block the statement of the finding is in. Findings produced outside the CFG have no block.
	Block funcutil.Optional[cfg.BlockID]

	// Evidence is the kind-specific context of the finding
	Evidence Evidence

	// Fix is a suggested remediation, empty when there is none
	Fix string
}

// WithFix returns a copy of the finding with the suggested fix
func (f Finding) WithFix(fix string) Finding {
	f.Fix = fix
	return f
}

// Stmt returns the id of the statement the finding is reported on
func (f Finding) Stmt() ir.StmtID {
	if f.Evidence == nil {
		return 0
	}
	return f.Evidence.Stmt()
}

// BlockString returns the block of the finding as text, or "-" when the finding has no block
func (f Finding) BlockString() string {
	if b, ok := f.blockID(); ok {
		return b.String()
	}
	return "-"
}

func (f Finding) blockID() (cfg.BlockID, bool) {
	if f.Block == nil {
		return 0, false
	}
	return f.Block.Get()
}

func (f Finding) String() string {
	s := fmt.Sprintf("[%s] %s in %s at statement %d: %s", f.Severity, f.Kind.Title(), f.Function, f.Stmt(), f.Message)
	if f.CWE != NoCWE {
		s += " (" + f.CWE.String() + ")"
	}
	return s
}
