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
Package config provides a simple way to manage configuration files.

Use [Load](filename) to load a configuration from a specific filename, or [LoadFromBytes] when the content of the
file has already been read.

A config file should be in yaml format. The top-level fields can be any of the fields defined in the Config
struct type. The other fields are defined by the types of the fields of [Config] and nested struct types.
For example, a valid config file is as follows:

	options:
	  log-level: 4
	  workers: 8
	  function-filter: "^(main|handle_.*)$"
	  seed-arrays: true

	taint-sources:
	  - recv

	pointer-names:
	  - node

	disabled-detectors:
	  - division-by-zero

	sinks:
	  - callee: sprintf
	    severity: High
	    cwe: CWE-120
	    risk: a buffer overflow
	    fix: "snprintf(buf, sizeof(buf), fmt, ...);"
	  - callee: syslog
	    role: format
	    format-arg: 1
	    severity: Medium
	    cwe: CWE-134

	exclude-paths:
	  - "vendor/**"

# Logging

The [LogGroup] returned by [NewLogGroup] prints messages at the level set by the log-level option, from 1 (errors
only) to 5 (trace).
*/
package config
