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

// Package formatutil manipulates string colors and other formatting operations.
package formatutil

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

var (
	Bold    = Color("\033[1m%s\033[0m")
	Faint   = Color("\033[2m%s\033[0m")
	Red     = Color("\033[1;31m%s\033[0m")
	Green   = Color("\033[1;32m%s\033[0m")
	Yellow  = Color("\033[1;33m%s\033[0m")
	Magenta = Color("\033[1;35m%s\033[0m")
	Cyan    = Color("\033[1;36m%s\033[0m")
)

// colorMode forces colors on (1) or off (-1). When 0, colors are used when stdout is a terminal.
var colorMode = 0

// SetColors forces colored output on or off, regardless of whether stdout is a terminal
func SetColors(enabled bool) {
	if enabled {
		colorMode = 1
	} else {
		colorMode = -1
	}
}

func colorsEnabled() bool {
	if colorMode != 0 {
		return colorMode > 0
	}
	return term.IsTerminal(1)
}

func Color(colorString string) func(...interface{}) string {
	result := func(args ...interface{}) string {
		if colorsEnabled() {
			return fmt.Sprintf(colorString,
				fmt.Sprint(args...))
		} else {
			return fmt.Sprint(args...)
		}
	}
	return result
}

// Sanitize is a simple sanitizer that removes all escape sequences
func Sanitize(s string) string {
	r := fmt.Sprintf("%q", s)
	if len(r) >= 2 {
		return r[1 : len(r)-1]
	} else {
		return r
	}
}

// Truncate shortens s to at most n runes, ending it with "..." when it has been shortened
func Truncate(s string, n int) string {
	if n <= 3 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// PadRight pads s with spaces to n runes. The padding is computed on the uncolored text plain, so that colored
// strings line up in tables.
func PadRight(s string, plain string, n int) string {
	k := utf8.RuneCountInString(plain)
	if k >= n {
		return s
	}
	return s + strings.Repeat(" ", n-k)
}
