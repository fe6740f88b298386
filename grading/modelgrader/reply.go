/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package modelgrader

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
)

// Assessment is the model's verdict on one aspect.
type Assessment struct {
	Score     *float64 `json:"score" jsonschema:"required,minimum=1,maximum=10,description=Score from 1 (poor) to 10 (excellent)"`
	Reasoning string   `json:"reasoning" jsonschema:"required,description=Short justification for the score"`
}

// value returns the score when the model supplied one on the 1-10 scale.
func (a *Assessment) value() (float64, bool) {
	if a == nil || a.Score == nil {
		return 0, false
	}
	if v := *a.Score; v >= 1 && v <= 10 {
		return v, true
	}
	return 0, false
}

// Evaluation is the model's reply to the comprehensive rubric.
type Evaluation struct {
	ResponseQuality      *Assessment `json:"response_quality,omitempty" jsonschema:"required"`
	InstructionFollowing *Assessment `json:"instruction_following,omitempty" jsonschema:"required"`
	Completeness         *Assessment `json:"completeness,omitempty" jsonschema:"required"`
	Helpfulness          *Assessment `json:"helpfulness,omitempty" jsonschema:"required"`
	Safety               *Assessment `json:"safety,omitempty" jsonschema:"required"`
	OverallScore         *float64    `json:"overall_score,omitempty" jsonschema:"required,minimum=1,maximum=10"`
	OverallFeedback      string      `json:"overall_feedback,omitempty" jsonschema:"required,description=Summary of the evaluation"`
}

// assessments returns the aspects present in the reply.
func (e *Evaluation) assessments() map[Aspect]*Assessment {
	out := make(map[Aspect]*Assessment, 5)
	for a, v := range map[Aspect]*Assessment{
		ResponseQuality:      e.ResponseQuality,
		InstructionFollowing: e.InstructionFollowing,
		Completeness:         e.Completeness,
		Helpfulness:          e.Helpfulness,
		Safety:               e.Safety,
	} {
		if v != nil {
			out[a] = v
		}
	}
	return out
}

// overall returns overall_score, or the mean of the aspect scores when the
// model omitted it.
func (e *Evaluation) overall() (float64, bool) {
	if e.OverallScore != nil {
		return *e.OverallScore, true
	}
	var total float64
	var n int
	for _, a := range e.assessments() {
		if v, ok := a.value(); ok {
			total += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return total / float64(n), true
}

var (
	reflector = jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}

	evaluationSchema = sync.OnceValue(func() *jsonschema.Schema { return reflectSchema(&Evaluation{}) })
	assessmentSchema = sync.OnceValue(func() *jsonschema.Schema { return reflectSchema(&Assessment{}) })
)

func reflectSchema(v any) *jsonschema.Schema {
	s := reflector.Reflect(v)
	s.Version = ""
	return s
}

// extractJSON pulls a JSON object out of a reply that may wrap it in a code
// fence or surround it with prose.
func extractJSON(text string) string {
	lines := strings.Split(text, "\n")
	var buf bytes.Buffer
	in, found := false, false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !in && (trimmed == "```json" || trimmed == "```") {
			in, found = true, true
			continue
		}
		if in && trimmed == "```" {
			break
		}
		if in {
			if buf.Len() > 0 {
				buf.WriteString("\n")
			}
			buf.WriteString(line)
		}
	}
	if found {
		return strings.TrimSpace(buf.String())
	}

	text = strings.TrimSpace(text)
	start, end := strings.Index(text, "{"), strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

func parse[T any](text string) (T, error) {
	var v T
	src := extractJSON(text)
	if src == "" {
		return v, errors.New("reply contains no JSON")
	}
	if err := json.Unmarshal([]byte(src), &v); err != nil {
		return v, err
	}
	return v, nil
}

var salvagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)overall[_ ]score["']?\s*[:=]\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*/\s*10\b`),
	regexp.MustCompile(`(?i)\bscore["']?\s*[:=]\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)\brat(?:e|ing)\s*(?:of|is|:)?\s*(\d+(?:\.\d+)?)\b`),
}

// salvageScore finds a score in a reply that is not valid JSON.
func salvageScore(text string) (float64, bool) {
	for _, re := range salvagePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v < 1 || v > 10 {
			continue
		}
		return v, true
	}
	return 0, false
}
