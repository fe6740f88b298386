/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"chainguard.dev/gradekit/evals/report"
	"chainguard.dev/gradekit/grading/grader"
	"chainguard.dev/gradekit/llm/llmtest"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoadProfile(t *testing.T) {
	env := envConfig{Threshold: 7, Concurrency: 4}

	tests := []struct {
		name    string
		file    string
		content string
	}{{
		name:    "yaml",
		file:    "profile.yaml",
		content: `
threshold: 6.5
code:
  min_length: 20
  required_words: [def]
format:
  required_format: json
  required_fields: [name]
`,
	}, {
		name:    "json",
		file:    "profile.json",
		content: `{
  "threshold": 6.5,
  "code": {"min_length": 20, "required_words": ["def"]},
  "format": {"required_format": "json", "required_fields": ["name"]}
}`,
	}, {
		name:    "toml",
		file:    "profile.toml",
		content: `
threshold = 6.5

[code]
min_length = 20
required_words = ["def"]

[format]
required_format = "json"
required_fields = ["name"]
`,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := loadProfile(writeFile(t, tt.file, tt.content), env)
			require.NoError(t, err)

			if p.Threshold != 6.5 {
				t.Errorf("Threshold: got = %v, wanted = 6.5", p.Threshold)
			}
			if p.Concurrency != 4 {
				t.Errorf("Concurrency: got = %d, wanted = 4 from the environment", p.Concurrency)
			}
			if p.Code.MinLength == nil || *p.Code.MinLength != 20 {
				t.Errorf("Code.MinLength: got = %v, wanted = 20", p.Code.MinLength)
			}
			if diff := cmp.Diff([]string{"def"}, p.Code.RequiredWords); diff != "" {
				t.Errorf("Code.RequiredWords: (-want +got):\n%s", diff)
			}
			if p.Format.RequiredFormat != "json" {
				t.Errorf("Format.RequiredFormat: got = %q, wanted = json", p.Format.RequiredFormat)
			}
			if diff := cmp.Diff([]string{"name"}, p.Format.RequiredFields); diff != "" {
				t.Errorf("Format.RequiredFields: (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadProfileErrors(t *testing.T) {
	if _, err := loadProfile(filepath.Join(t.TempDir(), "missing.yaml"), envConfig{}); err == nil {
		t.Error("loadProfile(missing): got = nil error, wanted = error")
	}
	if _, err := loadProfile(writeFile(t, "bad.yaml", "threshold: [1"), envConfig{}); err == nil {
		t.Error("loadProfile(malformed): got = nil error, wanted = error")
	}
}

func TestSettings(t *testing.T) {
	profilePath := writeFile(t, "profile.yaml", "threshold: 6\nconcurrency: 2\n")

	tests := []struct {
		name            string
		profile         string
		args            []string
		wantThreshold   float64
		wantConcurrency int
		wantErr         bool
	}{{
		name:            "environment",
		wantThreshold:   7,
		wantConcurrency: 4,
	}, {
		name:            "profile overrides environment",
		profile:         profilePath,
		wantThreshold:   6,
		wantConcurrency: 2,
	}, {
		name:            "flags override profile",
		profile:         profilePath,
		args:            []string{"--threshold=8.5", "--concurrency=9"},
		wantThreshold:   8.5,
		wantConcurrency: 9,
	}, {
		name:    "threshold out of range",
		args:    []string{"--threshold=11"},
		wantErr: true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &options{
				env:         envConfig{Threshold: 7, Concurrency: 4},
				profilePath: tt.profile,
			}
			cmd := &cobra.Command{}
			cmd.Flags().Float64Var(&opts.threshold, "threshold", 0, "")
			cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "")
			require.NoError(t, cmd.ParseFlags(tt.args))

			p, err := opts.settings(cmd)
			if (err != nil) != tt.wantErr {
				t.Fatalf("settings() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if p.Threshold != tt.wantThreshold || p.Concurrency != tt.wantConcurrency {
				t.Errorf("settings: got = (%v, %d), wanted = (%v, %d)", p.Threshold, p.Concurrency, tt.wantThreshold, tt.wantConcurrency)
			}
		})
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := newClient(context.Background(), envConfig{}, "claude-3-haiku-20240307"); err == nil {
		t.Error("newClient(no credentials): got = nil error, wanted = error")
	}
	if _, err := newClient(context.Background(), envConfig{AnthropicAPIKey: "sk-test"}, "gemini-2.5-flash"); err == nil {
		t.Error("newClient(gemini via API key): got = nil error, wanted = error")
	}
}

func TestNewGrader(t *testing.T) {
	judge := llmtest.Reply(`{"overall_score": 8, "overall_feedback": "solid"}`)
	rubricPath := writeFile(t, "rubric.txt", "Rate this.\n{{prompt}}\n{{response}}\n")

	minLength := 10
	p := &profile{Threshold: 7, Concurrency: 2, Rubric: rubricPath}
	p.Code.MinLength = &minLength
	p.Format.RequiredFormat = "json"

	obs := newObservers("test")
	g, err := newGrader(p, judge, obs.scope("unit")...)
	require.NoError(t, err)

	got := g.GradeComprehensive(context.Background(), "Give me JSON", `{"ok": true}`, "json", true)
	if got[grader.ModelGrader].Score != 8 {
		t.Errorf("model score: got = %v, wanted = 8", got[grader.ModelGrader].Score)
	}
	if got[grader.FormatGrader].Details["auto_detected"] != false {
		t.Errorf("format auto_detected: got = %v, wanted = false", got[grader.FormatGrader].Details["auto_detected"])
	}

	reqs := judge.Requests()
	require.Len(t, reqs, 1)
	if !strings.HasPrefix(reqs[0].Prompt, "Rate this.") {
		t.Errorf("rubric prompt: got = %q, wanted custom rubric", reqs[0].Prompt)
	}

	text, _ := report.Collected(obs.collected, 0.7)
	for _, ns := range []string{"/unit/code_grader", "/unit/format_grader", "/unit/model_grader"} {
		if !strings.Contains(text, ns) {
			t.Errorf("collected report: missing namespace %s in\n%s", ns, text)
		}
		if got := obs.metrics.Scope("unit", path.Base(ns)).Total(); got != 1 {
			t.Errorf("metrics %s Total: got = %d, wanted = 1", ns, got)
		}
	}
}

func TestNewGraderInvalidProfile(t *testing.T) {
	judge := llmtest.Reply("{}")
	tests := []struct {
		name string
		p    *profile
	}{{
		name: "missing rubric",
		p:    &profile{Threshold: 7, Rubric: filepath.Join(t.TempDir(), "missing.txt")},
	}, {
		name: "conflicting words",
		p:    func() *profile {
			p := &profile{Threshold: 7}
			p.Code.RequiredWords = []string{"x"}
			p.Code.ForbiddenWords = []string{"X"}
			return p
		}(),
	}, {
		name: "unknown format",
		p:    func() *profile {
			p := &profile{Threshold: 7}
			p.Format.RequiredFormat = "docx"
			return p
		}(),
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newGrader(tt.p, judge); err == nil {
				t.Error("newGrader(): got = nil error, wanted = error")
			}
		})
	}
}

func TestLoadEvaluations(t *testing.T) {
	want := []grader.Evaluation{{Prompt: "p1", Response: "r1"}, {Prompt: "p2", Response: "r2"}}

	for name, content := range map[string]string{
		"in.json": `[{"prompt": "p1", "response": "r1"}, {"prompt": "p2", "response": "r2"}]`,
		"in.yaml": "- prompt: p1\n  response: r1\n- prompt: p2\n  response: r2\n",
	} {
		got, err := loadEvaluations(writeFile(t, name, content))
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("loadEvaluations(%s): (-want +got):\n%s", name, diff)
		}
	}

	if _, err := loadEvaluations(writeFile(t, "in.csv", "prompt,response\n")); err == nil {
		t.Error("loadEvaluations(csv): got = nil error, wanted = error")
	}
}

func TestDetectCommand(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
		want  []string
	}{{
		name:  "json from stdin",
		args:  []string{"detect", "-"},
		stdin: `{"name": "Ada"}`,
		want:  []string{"json"},
	}, {
		name:  "markdown with validation",
		args:  []string{"detect", "--validate", "-"},
		stdin: "# Title\n\n- one\n- two\n",
		want:  []string{"markdown", "PASS"},
	}, {
		name:  "prompt hint",
		args:  []string{"detect", "--prompt", "Return the rows as CSV", "-"},
		stdin: "name,age\nAda,36\n",
		want:  []string{"csv"},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cmd := newRootCmd()
			cmd.SetArgs(tt.args)
			cmd.SetIn(strings.NewReader(tt.stdin))
			cmd.SetOut(&out)

			require.NoError(t, cmd.ExecuteContext(context.Background()))
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output: got = %q, wanted to contain %q", out.String(), w)
				}
			}
		})
	}
}

func TestGradeCommandRequiresResponse(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"grade", "--prompt", "hi"})
	cmd.SetOut(&bytes.Buffer{})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("grade without response: got = nil error, wanted = error")
	}
}
