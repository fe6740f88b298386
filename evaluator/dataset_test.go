/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaluator_test

import (
	"os"
	"path/filepath"
	"testing"

	"chainguard.dev/gradekit/evaluator"
	"chainguard.dev/gradekit/grading/codegrader"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoadDataset(t *testing.T) {
	yes := true
	want := []evaluator.TestCase{{
		Prompt:           "Write a Python function that reverses a list.",
		Format:           "python",
		SolutionCriteria: "Uses slicing or reversed().",
		GradingConfig: &evaluator.GradingConfig{
			Code: &codegrader.Config{SyntaxCheck: &yes, RequiredWords: []string{"def"}},
		},
	}, {
		Prompt:           "List three primary colors as JSON.",
		ExpectedResponse: `["red", "yellow", "blue"]`,
		Format:           "json",
	}}

	tests := []struct {
		name    string
		file    string
		content string
	}{{
		name:    "yaml",
		file:    "cases.yaml",
		content: `
- prompt: Write a Python function that reverses a list.
  format: python
  solution_criteria: Uses slicing or reversed().
  grading_config:
    code:
      syntax_check: true
      required_words: [def]
- prompt: List three primary colors as JSON.
  expected_response: '["red", "yellow", "blue"]'
  format: json
`,
	}, {
		name:    "json",
		file:    "cases.json",
		content: `[
  {
    "prompt": "Write a Python function that reverses a list.",
    "format": "python",
    "solution_criteria": "Uses slicing or reversed().",
    "grading_config": {"code": {"syntax_check": true, "required_words": ["def"]}}
  },
  {
    "prompt": "List three primary colors as JSON.",
    "expected_response": "[\"red\", \"yellow\", \"blue\"]",
    "format": "json"
  }
]`,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evaluator.LoadDataset(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("LoadDataset: (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadDatasetErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "extension", file: "cases.txt", content: "[]"},
		{name: "malformed json", file: "cases.json", content: "[{"},
		{name: "missing prompt", file: "cases.yaml", content: "- format: json\n"},
		{name: "unknown format", file: "cases.yaml", content: "- prompt: p\n  format: docx\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := evaluator.LoadDataset(writeFile(t, tt.file, tt.content)); err == nil {
				t.Error("LoadDataset(): got = nil error, wanted = error")
			}
		})
	}

	if _, err := evaluator.LoadDataset(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadDataset(missing): got = nil error, wanted = error")
	}
}

func TestDatasetName(t *testing.T) {
	if got := evaluator.DatasetName("/data/smoke_tests.yaml"); got != "smoke_tests" {
		t.Errorf("DatasetName: got = %q, wanted = smoke_tests", got)
	}
}
