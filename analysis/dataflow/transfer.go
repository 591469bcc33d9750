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

package dataflow

import (
	"github.com/awslabs/argot-svd/analysis/ir"
	"github.com/awslabs/argot-svd/internal/funcutil"
)

// transfer applies the effect of statements on the running defined and tainted sets.
//
// A call to a taint source taints every variable it reads. An assignment defines the variable it writes, and taints
// it when one of the variables it reads is tainted. No other statement changes the sets.
type transfer struct {
	ir.NoopStmtOp
	extractor ir.Extractor
	sources   map[string]bool
	defined   Set
	tainted   Set
}

func (t *transfer) DoCall(stmt ir.Statement) {
	if t.sources[stmt.Callee] {
		funcutil.AddAll(t.tainted, t.extractor.Reads(stmt)...)
	}
}

func (t *transfer) DoAssign(stmt ir.Statement) {
	writes := t.extractor.Writes(stmt)
	funcutil.AddAll(t.defined, writes...)
	if funcutil.Exists(t.extractor.Reads(stmt), t.tainted.Has) {
		funcutil.AddAll(t.tainted, writes...)
	}
}

var _ ir.StmtOp = (*transfer)(nil)
