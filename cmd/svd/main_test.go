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

package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "report.json")
	err := writeFile(filename, func(w io.Writer) error {
		_, err := io.WriteString(w, "{}\n")
		return err
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := os.ReadFile(filename)
	if err != nil || string(b) != "{}\n" {
		t.Errorf("unexpected content %q (%v)", b, err)
	}
}

func TestWriteFileErrors(t *testing.T) {
	failure := errors.New("disk full")
	filename := filepath.Join(t.TempDir(), "report.sarif")
	err := writeFile(filename, func(io.Writer) error { return failure })
	if !errors.Is(err, failure) || !strings.Contains(err.Error(), filename) {
		t.Errorf("expected the write error on %s, got %v", filename, err)
	}

	missing := filepath.Join(t.TempDir(), "no-such-dir", "report.sarif")
	if err := writeFile(missing, func(io.Writer) error { return nil }); err == nil {
		t.Errorf("expected an error when the file cannot be created")
	}
}
