/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package formatgrader

import (
	"encoding/csv"
	"regexp"
	"strings"
)

// promptCues are whole-word cues that a prompt asks for a format, in
// priority order.
var promptCues = []struct {
	format Format
	re     *regexp.Regexp
}{
	{JSON, regexp.MustCompile(`(?i)\bjson\b`)},
	{XML, regexp.MustCompile(`(?i)\bxml\b`)},
	{Markdown, regexp.MustCompile(`(?i)\b(markdown|md)\b`)},
	{CSV, regexp.MustCompile(`(?i)\bcsv\b|\bcomma[- ]separated\b|\bspreadsheet\b`)},
	{YAML, regexp.MustCompile(`(?i)\b(yaml|yml)\b`)},
}

var (
	markdownHeading = regexp.MustCompile(`(?m)^#{1,6}\s+\S`)
	markdownFence   = regexp.MustCompile("(?m)^[ \\t]*(```|~~~)")
	markdownTable   = regexp.MustCompile(`(?m)^\s*\|.*\|\s*$`)
	yamlKeyLine     = regexp.MustCompile(`^\s*(-\s+)?[A-Za-z0-9_"'.-]+\s*:(\s|$)`)
	yamlListLine    = regexp.MustCompile(`^\s*-\s+\S`)
)

// Detect infers the format of output. Whole-word cues in the prompt win;
// when the prompt names several formats the one matching the output's shape
// is chosen. Without cues the output's shape decides, falling back to Text.
// Detect is pure: the same inputs always yield the same format.
func Detect(prompt, output string) Format {
	var cued []Format
	for _, cue := range promptCues {
		if cue.re.MatchString(prompt) {
			cued = append(cued, cue.format)
		}
	}
	shape := shapeOf(output)
	switch len(cued) {
	case 0:
		return shape
	case 1:
		return cued[0]
	}
	for _, f := range cued {
		if f == shape {
			return f
		}
	}
	return cued[0]
}

// shapeOf infers a format from the output alone.
func shapeOf(output string) Format {
	t := strings.TrimSpace(output)
	switch {
	case t == "":
		return Text
	case strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}"),
		strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]"):
		return JSON
	case strings.HasPrefix(t, "<") && strings.HasSuffix(t, ">"):
		return XML
	case markdownHeading.MatchString(t), markdownFence.MatchString(t), markdownTable.MatchString(t):
		return Markdown
	case looksLikeCSV(t):
		return CSV
	case looksLikeYAML(t):
		return YAML
	}
	return Text
}

// looksLikeCSV requires at least two rows with the same number of fields,
// more than one field per row.
func looksLikeCSV(t string) bool {
	if !strings.Contains(t, ",") || !strings.Contains(t, "\n") {
		return false
	}
	r := csv.NewReader(strings.NewReader(t))
	r.FieldsPerRecord = 0
	records, err := r.ReadAll()
	if err != nil || len(records) < 2 {
		return false
	}
	return len(records[0]) > 1
}

// looksLikeYAML requires at least two key lines and that most non-empty
// lines are keys, list items or indented continuations.
func looksLikeYAML(t string) bool {
	var keys, matching, total int
	for _, line := range strings.Split(t, "\n") {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		total++
		switch {
		case yamlKeyLine.MatchString(line):
			keys++
			matching++
		case yamlListLine.MatchString(line), strings.HasPrefix(line, "  "):
			matching++
		}
	}
	return keys > 1 && matching*5 >= total*4
}
