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

// A StmtOp must implement methods for ALL the statement operations
type StmtOp interface {
	DoAssign(Statement)
	DoCall(Statement)
	DoReturn(Statement)
	DoIf(Statement)
	DoElse(Statement)
	DoEndIf(Statement)
	DoLoop(Statement)
	DoEndLoop(Statement)
}

// StmtSwitch maps the different statement operations to the methods of the visitor.
func StmtSwitch(visitor StmtOp, stmt Statement) {
	switch stmt.Op {
	case OpAssign:
		visitor.DoAssign(stmt)
	case OpCall:
		visitor.DoCall(stmt)
	case OpReturn:
		visitor.DoReturn(stmt)
	case OpIf:
		visitor.DoIf(stmt)
	case OpElse:
		visitor.DoElse(stmt)
	case OpEndIf:
		visitor.DoEndIf(stmt)
	case OpLoop:
		visitor.DoLoop(stmt)
	case OpEndLoop:
		visitor.DoEndLoop(stmt)
	}
}

// NoopStmtOp implements every method of StmtOp as a no-op. Embed it in visitors that are only interested in a few
// operations.
type NoopStmtOp struct{}

func (NoopStmtOp) DoAssign(Statement)  {}
func (NoopStmtOp) DoCall(Statement)    {}
func (NoopStmtOp) DoReturn(Statement)  {}
func (NoopStmtOp) DoIf(Statement)      {}
func (NoopStmtOp) DoElse(Statement)    {}
func (NoopStmtOp) DoEndIf(Statement)   {}
func (NoopStmtOp) DoLoop(Statement)    {}
func (NoopStmtOp) DoEndLoop(Statement) {}

// IterateStatements calls f on every statement of the function body, in order.
func IterateStatements(function *Function, f func(index int, stmt Statement)) {
	for i, stmt := range function.Body {
		f(i, stmt)
	}
}
