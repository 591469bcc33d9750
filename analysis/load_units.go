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

package analysis

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/awslabs/argot-svd/analysis/config"
	"github.com/awslabs/argot-svd/analysis/ir"
	"github.com/bmatcuk/doublestar/v4"
)

// UnitExtensions are the extensions of the unit files loaded when a directory is walked
var UnitExtensions = []string{".yaml", ".yml"}

// LoadUnits loads the units at paths. A path that is a directory is walked, and every file with one of the
// UnitExtensions is loaded. Files matching one of the exclude patterns are skipped: patterns are matched against the
// path relative to the directory walked, or against the path itself when it is a file. Units without a file name
// are named after the file they were loaded from.
// Units are returned in the order of paths, and in lexical order inside directories.
func LoadUnits(paths []string, exclude []string, logger *config.LogGroup) ([]*ir.Unit, error) {
	var files []string
	keep := func(path string, rel string) error {
		excluded, err := IsExcluded(rel, exclude)
		if err != nil {
			return err
		}
		if excluded {
			logger.Infof("Unit %s excluded", path)
		} else {
			files = append(files, path)
		}
		return nil
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("could not load units: %w", err)
		}
		if !info.IsDir() {
			if err := keep(p, p); err != nil {
				return nil, err
			}
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isUnitFile(path) {
				return nil
			}
			rel, err := filepath.Rel(p, path)
			if err != nil {
				return err
			}
			return keep(path, rel)
		})
		if err != nil {
			return nil, fmt.Errorf("could not walk %s: %w", p, err)
		}
	}

	var units []*ir.Unit
	for _, file := range files {
		unit, err := loadUnit(file)
		if err != nil {
			return nil, err
		}
		logger.Debugf("Loaded %s (%d functions)", file, len(unit.Functions))
		units = append(units, unit)
	}
	return units, nil
}

func loadUnit(filename string) (*ir.Unit, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read unit: %w", err)
	}
	unit, err := ir.ParseUnit(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if unit.Filename == "" {
		unit.Filename = filename
	}
	return unit, nil
}

func isUnitFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range UnitExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// IsExcluded returns true if the path matches one of the exclude patterns. Patterns are matched against the
// slash-separated path, and "**" matches any number of directories. An error is returned if a pattern is malformed.
func IsExcluded(path string, exclude []string) (bool, error) {
	slashed := filepath.ToSlash(path)
	for _, pattern := range exclude {
		matched, err := doublestar.Match(pattern, slashed)
		if err != nil {
			return false, fmt.Errorf("malformed exclude pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}
