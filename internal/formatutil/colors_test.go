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

package formatutil

import "testing"

func TestColorsCanBeForced(t *testing.T) {
	defer func() { colorMode = 0 }()
	SetColors(true)
	if s := Red("x"); s != "\033[1;31mx\033[0m" {
		t.Errorf("expected colored string, got %q", s)
	}
	SetColors(false)
	if s := Red("x"); s != "x" {
		t.Errorf("expected plain string, got %q", s)
	}
}

func TestTruncate(t *testing.T) {
	for _, test := range []struct {
		in       string
		n        int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abc", 3, "abc"},
	} {
		if got := Truncate(test.in, test.n); got != test.expected {
			t.Errorf("Truncate(%q, %d) = %q, expected %q", test.in, test.n, got, test.expected)
		}
	}
}

func TestPadRight(t *testing.T) {
	defer func() { colorMode = 0 }()
	SetColors(true)
	colored := Bold("ab")
	padded := PadRight(colored, "ab", 5)
	if padded != colored+"   " {
		t.Errorf("expected padding computed on the plain text, got %q", padded)
	}
	if PadRight("abcdef", "abcdef", 3) != "abcdef" {
		t.Errorf("longer strings should not be padded")
	}
}
