/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaluator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Save writes the summary to path as indented JSON.
func (s *Summary) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// SaveAll writes each summary to <dir>/<name>_results.json and returns the
// written paths.
func SaveAll(dir string, summaries map[string]*Summary) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating results directory: %w", err)
	}
	paths := make([]string, 0, len(summaries))
	for name, s := range summaries {
		p := filepath.Join(dir, name+"_results.json")
		if err := s.Save(p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
