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

// Package registry holds the table of library functions the detectors know about. Every function is registered
// once, with all its roles: a function can be a taint source and an unsafe sink at the same time. The detectors
// and the post-processing both query the same registry, so the severity, CWE and fix of a call site are always
// consistent.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/awslabs/argot-svd/analysis/config"
	"github.com/awslabs/argot-svd/analysis/findings"
	"github.com/awslabs/argot-svd/analysis/ir"
)

// Role is a set of roles of a function
type Role int

const (
	// TaintSource functions taint the variables in their arguments
	TaintSource Role = 1 << iota
	// UnsafeSink functions are unsafe to call
	UnsafeSink
	// FormatFunction functions take a format string argument
	FormatFunction
	// CommandSink functions run a shell command
	CommandSink
)

// Has returns true when r contains all the roles of x
func (r Role) Has(x Role) bool {
	return r&x == x
}

func (r Role) String() string {
	var names []string
	for _, x := range []struct {
		role Role
		name string
	}{{TaintSource, "source"}, {UnsafeSink, "unsafe"}, {FormatFunction, "format"}, {CommandSink, "command"}} {
		if r.Has(x.role) {
			names = append(names, x.name)
		}
	}
	return strings.Join(names, "|")
}

// Entry describes a library function
type Entry struct {
	// Callee is the name of the function
	Callee string

	// Roles of the function
	Roles Role

	// Severity of the findings on calls to the function
	Severity findings.Severity

	// CWE of the findings on calls to the function
	CWE findings.CWE

	// Risk completes "Call to <callee> may cause ...", e.g. "a buffer overflow"
	Risk string

	// Fix is the remediation suggested for findings on calls to the function
	Fix string

	// FixApplies restricts the calls the fix applies to. When nil, the fix applies to all calls.
	FixApplies func(call string) bool

	// FormatArg is the index of the format argument of a FormatFunction
	FormatArg int
}

// Triggers returns true if the call stmt triggers the pattern-based detector of role: for a FormatFunction, the
// format is not a string literal, and for a CommandSink, a command is passed. The entry must have the role.
func (e *Entry) Triggers(role Role, stmt ir.Statement) bool {
	if stmt.Op != ir.OpCall || stmt.Callee != e.Callee || !e.Roles.Has(role) {
		return false
	}
	switch role {
	case FormatFunction:
		return e.FormatArg < len(stmt.Args) && !ir.IsStringLiteral(stmt.Args[e.FormatArg])
	case CommandSink:
		return len(stmt.Args) > 0
	}
	return false
}

// FixFor returns the fix suggested for the call, if any
func (e *Entry) FixFor(call string) (string, bool) {
	if e.Fix == "" || (e.FixApplies != nil && !e.FixApplies(call)) {
		return "", false
	}
	return e.Fix, true
}

// Registry maps function names to their entries. A Registry is read-only once built and can be shared by concurrent
// analyses.
type Registry struct {
	entries map[string]*Entry
}

// New returns a registry with the entries provided. Later entries override earlier ones with the same callee.
func New(entries ...Entry) *Registry {
	r := &Registry{entries: map[string]*Entry{}}
	for _, e := range entries {
		e := e
		r.entries[e.Callee] = &e
	}
	return r
}

func widthlessStringScan(call string) bool {
	return strings.Contains(call, "%s")
}

// DefaultEntries returns the entries of the default registry
func DefaultEntries() []Entry {
	return []Entry{
		{
			Callee:   "gets",
			Roles:    TaintSource | UnsafeSink,
			Severity: findings.High,
			CWE:      120,
			Risk:     "a buffer overflow",
			Fix:      "fgets(buf, sizeof(buf), stdin); /* avoid gets() */",
		},
		{
			Callee: "fgets",
			Roles:  TaintSource,
		},
		{
			Callee:     "scanf",
			Roles:      TaintSource | UnsafeSink,
			Severity:   findings.Medium,
			CWE:        120,
			Risk:       "a buffer overflow",
			Fix:        `scanf("%15s", buf); /* add width to avoid overflow */`,
			FixApplies: widthlessStringScan,
		},
		{
			Callee:   "strcpy",
			Roles:    UnsafeSink,
			Severity: findings.High,
			CWE:      120,
			Risk:     "a buffer overflow",
			Fix:      `strncpy(dst, src, sizeof(dst)-1); dst[sizeof(dst)-1] = '\0';`,
		},
		{
			Callee:   "strcat",
			Roles:    UnsafeSink,
			Severity: findings.Medium,
			CWE:      120,
			Risk:     "a buffer overflow",
			Fix:      "strncat(dst, src, sizeof(dst)-strlen(dst)-1);",
		},
		{
			Callee:   "memcpy",
			Roles:    UnsafeSink,
			Severity: findings.Medium,
			CWE:      120,
			Risk:     "a buffer overflow",
			Fix:      "memcpy(dst, src, len); /* ensure len <= sizeof(dst) */",
		},
		{
			Callee:   "system",
			Roles:    UnsafeSink | CommandSink,
			Severity: findings.High,
			CWE:      78,
			Risk:     "command injection",
		},
		{
			Callee:    "printf",
			Roles:     FormatFunction,
			Severity:  findings.Medium,
			CWE:       134,
			FormatArg: 0,
			Fix:       `printf("%s", msg); /* never use data as the format */`,
		},
	}
}

// Default returns the default registry
func Default() *Registry {
	return New(DefaultEntries()...)
}

// FromConfig returns the default registry extended with the taint sources and sinks of the config. A sink of the
// config overrides the default entry of the same callee.
func FromConfig(c *config.Config) (*Registry, error) {
	r := Default()
	for _, sink := range c.Sinks {
		e, err := entryOfSpec(sink)
		if err != nil {
			return nil, err
		}
		r.entries[e.Callee] = &e
	}
	for _, src := range c.TaintSources {
		if e, ok := r.entries[src]; ok {
			e.Roles |= TaintSource
		} else {
			r.entries[src] = &Entry{Callee: src, Roles: TaintSource}
		}
	}
	return r, nil
}

func entryOfSpec(spec config.SinkSpec) (Entry, error) {
	e := Entry{Callee: spec.Callee, Fix: spec.Fix, Risk: spec.Risk, FormatArg: spec.FormatArg, Severity: findings.Medium}
	switch spec.Role {
	case config.RoleFormat:
		e.Roles = FormatFunction
	case config.RoleCommand:
		e.Roles = UnsafeSink | CommandSink
	case config.RoleSource:
		e.Roles = TaintSource
	default:
		e.Roles = UnsafeSink
	}
	if spec.Severity != "" {
		sev, err := findings.ParseSeverity(spec.Severity)
		if err != nil {
			return e, fmt.Errorf("sink %s: %w", spec.Callee, err)
		}
		e.Severity = sev
	}
	cwe, err := findings.ParseCWE(spec.CWE)
	if err != nil {
		return e, fmt.Errorf("sink %s: %w", spec.Callee, err)
	}
	e.CWE = cwe
	if e.Risk == "" {
		e.Risk = "a security issue"
	}
	return e, nil
}

// Lookup returns the entry of callee
func (r *Registry) Lookup(callee string) (*Entry, bool) {
	e, ok := r.entries[callee]
	return e, ok
}

// Is returns true if callee is registered with all the roles of role
func (r *Registry) Is(callee string, role Role) bool {
	e, ok := r.entries[callee]
	return ok && e.Roles.Has(role)
}

// WithRole returns the entries with all the roles of role, sorted by callee
func (r *Registry) WithRole(role Role) []*Entry {
	var entries []*Entry
	for _, e := range r.entries {
		if e.Roles.Has(role) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Callee < entries[j].Callee })
	return entries
}

// TaintSources returns the set of the names of the taint sources
func (r *Registry) TaintSources() map[string]bool {
	sources := map[string]bool{}
	for _, e := range r.WithRole(TaintSource) {
		sources[e.Callee] = true
	}
	return sources
}

// FixFor returns the fix for the call in the evidence, if the callee is registered with a fix
func (r *Registry) FixFor(call findings.CallEvidence) (string, bool) {
	e, ok := r.entries[call.Callee]
	if !ok {
		return "", false
	}
	return e.FixFor(call.Call)
}
