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

/*
Package dataflow computes the per-block dataflow facts of a function's control-flow graph.

Two forward may-analyses are computed together: the set of variables that may be defined on entry to each block, and
the set of variables that may carry tainted data on entry to each block. Given a CFG g built by the cfg package, the
facts are obtained with:

	facts := dataflow.Analyze(g, dataflow.Options{})

The facts stored are the block-entry sets. Use [Facts.Before] to obtain the sets just before a given statement of a
block, and [Facts.Exit] for the sets flowing out of a block.

Variables are names, as returned by the [ir.Extractor] in the options. The analysis is syntactic: there is no symbol
table and no memory model.
*/
package dataflow
