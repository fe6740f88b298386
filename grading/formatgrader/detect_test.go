/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package formatgrader_test

import (
	"testing"

	"chainguard.dev/gradekit/grading/formatgrader"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		output string
		want   formatgrader.Format
	}{
		{"prompt names json", "Return the result as JSON.", "whatever", formatgrader.JSON},
		{"prompt names markdown", "Summarize in Markdown", "plain words", formatgrader.Markdown},
		{"md as a word", "Write it as an .md file", "plain words", formatgrader.Markdown},
		{"md inside a word is ignored", "Run this in cmd to list files", "ls -la", formatgrader.Text},
		{"comma separated", "Give me comma-separated values", "x", formatgrader.CSV},
		{"yml", "Produce a yml config", "x", formatgrader.YAML},
		{"several cues, shape decides", "Convert this JSON to YAML", "name: x\nage: 3\n", formatgrader.YAML},
		{"several cues, no shape match", "Convert this JSON to YAML", "???", formatgrader.JSON},
		{"json object", "", `{"a": 1}`, formatgrader.JSON},
		{"json array", "", "  [1, 2]\n", formatgrader.JSON},
		{"xml", "", "<a><b/></a>", formatgrader.XML},
		{"markdown heading", "", "# Title\n\ntext", formatgrader.Markdown},
		{"markdown fence", "", "Here:\n```\ncode\n```", formatgrader.Markdown},
		{"csv", "", "a,b\n1,2\n3,4", formatgrader.CSV},
		{"yaml", "", "name: x\nage: 3\ntags:\n  - a\n", formatgrader.YAML},
		{"single colon sentence is text", "", "Note: this is prose.", formatgrader.Text},
		{"prose", "", "Hello there, friend.", formatgrader.Text},
		{"empty", "", "", formatgrader.Text},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatgrader.Detect(tt.prompt, tt.output)
			if got != tt.want {
				t.Errorf("Detect(): got = %v, wanted = %v", got, tt.want)
			}
			if again := formatgrader.Detect(tt.prompt, tt.output); again != got {
				t.Errorf("Detect() not idempotent: got = %v then %v", got, again)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]formatgrader.Format{
		"JSON":     formatgrader.JSON,
		" md ":     formatgrader.Markdown,
		"markdown": formatgrader.Markdown,
		"yml":      formatgrader.YAML,
		"txt":      formatgrader.Text,
		"xml":      formatgrader.XML,
		"csv":      formatgrader.CSV,
	}
	for in, want := range tests {
		got, err := formatgrader.ParseFormat(in)
		if err != nil {
			t.Errorf("ParseFormat(%q) = %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseFormat(%q): got = %v, wanted = %v", in, got, want)
		}
	}
	if _, err := formatgrader.ParseFormat("pdf"); err == nil {
		t.Error("ParseFormat(pdf): got nil error, wanted error")
	}
}
