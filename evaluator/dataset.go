/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaluator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chainguard.dev/gradekit/grading/codegrader"
	"chainguard.dev/gradekit/grading/formatgrader"
	"gopkg.in/yaml.v3"
)

// TestCase is one prompt to answer and grade.
type TestCase struct {
	Name             string         `json:"name,omitempty" yaml:"name,omitempty"`
	Prompt           string         `json:"prompt" yaml:"prompt"`
	ExpectedResponse string         `json:"expected_response,omitempty" yaml:"expected_response,omitempty"`
	Format           string         `json:"format,omitempty" yaml:"format,omitempty"`
	SolutionCriteria string         `json:"solution_criteria,omitempty" yaml:"solution_criteria,omitempty"`
	GradingConfig    *GradingConfig `json:"grading_config,omitempty" yaml:"grading_config,omitempty"`
}

// GradingConfig overrides grader criteria for one test case.
type GradingConfig struct {
	Code   *codegrader.Config   `json:"code,omitempty" yaml:"code,omitempty"`
	Format *formatgrader.Config `json:"format,omitempty" yaml:"format,omitempty"`
}

// reference is what the model grader is shown about a good answer.
type reference struct {
	ExpectedResponse string `yaml:"expected_response,omitempty"`
	SolutionCriteria string `yaml:"solution_criteria,omitempty"`
}

// reference returns the case's reference, or nil when it has none.
func (tc TestCase) reference() *reference {
	if tc.ExpectedResponse == "" && tc.SolutionCriteria == "" {
		return nil
	}
	return &reference{ExpectedResponse: tc.ExpectedResponse, SolutionCriteria: tc.SolutionCriteria}
}

// Validate reports whether the case can be run.
func (tc TestCase) Validate() error {
	if strings.TrimSpace(tc.Prompt) == "" {
		return errors.New("prompt is required")
	}
	if tc.Format != "" && !codegrader.SupportsLanguage(tc.Format) && tc.Format != "text" {
		if _, err := formatgrader.ParseFormat(tc.Format); err != nil {
			return fmt.Errorf("format: %w", err)
		}
	}
	return nil
}

// language returns the code grader language for the case.
func (tc TestCase) language() string {
	if codegrader.SupportsLanguage(tc.Format) {
		return strings.ToLower(tc.Format)
	}
	return "text"
}

// format returns the structured format the case requires, if any.
func (tc TestCase) format() (formatgrader.Format, bool) {
	f, err := formatgrader.ParseFormat(tc.Format)
	if err != nil || f == formatgrader.Text {
		return "", false
	}
	return f, true
}

// LoadDataset reads test cases from a JSON or YAML file, chosen by
// extension. Every case is validated.
func LoadDataset(path string) ([]TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	var cases []TestCase
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &cases)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cases)
	default:
		return nil, fmt.Errorf("unsupported dataset extension %q (expected .json, .yaml or .yml)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
	}

	for i, tc := range cases {
		if err := tc.Validate(); err != nil {
			return nil, fmt.Errorf("test case %d: %w", i, err)
		}
	}
	return cases, nil
}

// DatasetName derives a dataset name from its file path.
func DatasetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
