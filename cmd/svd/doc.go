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
The svd tool detects vulnerabilities in the functions of a lowered C unit: uninitialized reads, divisions by zero,
null dereferences, calls to unsafe library functions, tainted data reaching sinks, format string and command
injection risks.

Usage:

	svd [flags] unit.yaml|directory...

A unit file is the YAML serialization of the lowered functions of a C file (see the ir package). Directories are
walked for files with a .yaml or .yml extension; files matching the exclude-paths patterns of the configuration are
skipped.

The flags are:

	-config path      a path to the configuration file (see the config package)

	-sarif path       write a SARIF report of the findings to path

	-json path        write a JSON export of the findings and metrics to path, one document per unit

	-dot dir          write the CFG of each function to dir/<function>.dot

	-mermaid dir      write the CFG of each function to dir/<function>.mmd as a mermaid flowchart

	-disable kind     disable the detector of the finding kind (e.g. null-dereference); can be repeated

	-verbose=false    setting verbose mode, overrides config file options if set

	-details=false    print the statements of each block of the CFGs after the findings

When the configuration sets a reports directory, the SARIF and JSON reports are written there by default.
*/
package main
