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

package ir

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseUnit decodes a lowered unit from its YAML representation and validates it. For example:
//
//	file: main.c
//	functions:
//	  - name: f
//	    params: [argc, argv]
//	    body:
//	      - {id: 1, op: assign, lhs: x, rhs: "a / b"}
//	      - {id: 2, op: call, func: strcpy, args: ["d", "argv[1]"]}
//	      - {id: 3, op: return, expr: x}
func ParseUnit(b []byte) (*Unit, error) {
	unit := &Unit{}
	if err := yaml.Unmarshal(b, unit); err != nil {
		return nil, fmt.Errorf("could not decode unit: %w", err)
	}
	for _, f := range unit.Functions {
		if err := Validate(f); err != nil {
			return nil, err
		}
	}
	return unit, nil
}

// Validate checks the invariants of a lowered function that do not depend on its control structure: the function
// is named, and statement ids are strictly increasing.
func Validate(f *Function) error {
	if f == nil {
		return fmt.Errorf("nil function")
	}
	if f.Name == "" {
		return fmt.Errorf("function without a name")
	}
	prev := StmtID(0)
	for i, stmt := range f.Body {
		if stmt.Op == OpInvalid {
			return fmt.Errorf("function %s: statement %d has no operation", f.Name, stmt.ID)
		}
		if i > 0 && stmt.ID <= prev {
			return fmt.Errorf("function %s: statement id %d does not follow %d", f.Name, stmt.ID, prev)
		}
		prev = stmt.ID
	}
	return nil
}
