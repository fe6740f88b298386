/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package codegrader

import (
	"fmt"
	"regexp"
	"strings"
)

var sentenceBreak = regexp.MustCompile(`[.!?]+`)

// Readability is the outcome of readability scoring.
type Readability struct {
	Score               float64 `json:"score"`
	Passed              bool    `json:"passed"`
	Feedback            string  `json:"feedback"`
	WordCount           int     `json:"word_count"`
	SentenceCount       int     `json:"sentence_count"`
	AvgWordsPerSentence float64 `json:"avg_words_per_sentence"`
}

// Readability scores output on a 1-10 scale. Outputs of moderate length,
// with moderate sentence length and line structure score highest.
func (g *Grader) Readability(output string) Readability {
	words := strings.Fields(output)
	if len(words) == 0 {
		return Readability{
			Score:    1,
			Passed:   1 >= g.criteria.readabilityThreshold,
			Feedback: "No readable content found",
		}
	}

	var sentences int
	for _, s := range sentenceBreak.Split(output, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	var avg float64
	if sentences > 0 {
		avg = float64(len(words)) / float64(sentences)
	}

	score := 5.0
	switch n := len(words); {
	case n >= 10 && n <= 100:
		score += 2
	case n > 100:
		score++
	}
	switch {
	case avg >= 5 && avg <= 20:
		score += 2
	case avg < 5:
		score++
	}
	if strings.Contains(strings.TrimSpace(output), "\n") {
		score++
	}
	score = max(1, min(10, score))

	passed := score >= g.criteria.readabilityThreshold
	feedback := fmt.Sprintf("Readability score: %.0f/10", score)
	if !passed {
		feedback = fmt.Sprintf("Readability score %.0f/10 below threshold %.1f", score, g.criteria.readabilityThreshold)
	}
	return Readability{
		Score:               score,
		Passed:              passed,
		Feedback:            feedback,
		WordCount:           len(words),
		SentenceCount:       sentences,
		AvgWordsPerSentence: avg,
	}
}
