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
	"github.com/awslabs/argot-svd/analysis/ir"
	"golang.org/x/exp/slices"
)

// Key identifies the statement-level site of a finding: two findings with the same key report the same kind of
// defect on the same statement.
type Key struct {
	Kind     Kind
	Function string
	Stmt     ir.StmtID
}

// KeyOf returns the key of the finding
func KeyOf(f Finding) Key {
	return Key{Kind: f.Kind, Function: f.Function, Stmt: f.Stmt()}
}

// A FindingSet is the ordered collection of the findings of a function. The order is the order in which findings
// were added.
type FindingSet struct {
	findings []Finding
	keys     map[Key]int
}

// NewFindingSet returns a set containing fs, in order
func NewFindingSet(fs ...Finding) *FindingSet {
	s := &FindingSet{keys: map[Key]int{}}
	for _, f := range fs {
		s.Add(f)
	}
	return s
}

// Add appends the finding to the set
func (s *FindingSet) Add(f Finding) {
	if s.keys == nil {
		s.keys = map[Key]int{}
	}
	s.findings = append(s.findings, f)
	s.keys[KeyOf(f)]++
}

// AddUnique appends the finding to the set if no finding with the same key is present. Returns true if the finding
// has been added.
func (s *FindingSet) AddUnique(f Finding) bool {
	if s.Contains(KeyOf(f)) {
		return false
	}
	s.Add(f)
	return true
}

// Contains returns true if a finding with key k is in the set
func (s *FindingSet) Contains(k Key) bool {
	return s != nil && s.keys[k] > 0
}

// Len returns the number of findings in the set
func (s *FindingSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.findings)
}

// All returns the findings in insertion order. The slice returned is a copy.
func (s *FindingSet) All() []Finding {
	if s == nil {
		return nil
	}
	return slices.Clone(s.findings)
}

// BySeverity returns the findings sorted by severity, High first. Findings of equal severity keep their insertion
// order.
func (s *FindingSet) BySeverity() []Finding {
	fs := s.All()
	slices.SortStableFunc(fs, func(a, b Finding) bool { return a.Severity < b.Severity })
	return fs
}

// OfKind returns the findings of kind k, in insertion order
func (s *FindingSet) OfKind(k Kind) []Finding {
	var fs []Finding
	for _, f := range s.All() {
		if f.Kind == k {
			fs = append(fs, f)
		}
	}
	return fs
}

// Map returns a new set with the result of f on each finding, in order
func (s *FindingSet) Map(f func(Finding) Finding) *FindingSet {
	res := NewFindingSet()
	for _, x := range s.All() {
		res.Add(f(x))
	}
	return res
}

// CountBySeverity returns the number of findings of each severity
func (s *FindingSet) CountBySeverity() map[Severity]int {
	counts := map[Severity]int{}
	for _, f := range s.All() {
		counts[f.Severity]++
	}
	return counts
}
