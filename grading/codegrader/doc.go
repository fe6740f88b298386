/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package codegrader grades raw model output with deterministic checks that
// need no external service.
//
// A Grader runs up to four checks against an output:
//
//   - length: the trimmed output must fall inside the configured bounds
//   - words: required words must appear and forbidden words must not
//     (case-insensitive substring match)
//   - syntax: python, json and regex outputs must parse
//   - readability: a 1-10 heuristic built from word count, sentence length
//     and line structure
//
// Each active check owns an equal share of the 10-point scale. Length, word
// and syntax checks earn their whole share by passing; readability earns its
// share scaled by its own score. Length and word checks are active only when their criteria are set, syntax
// only when the language is recognized, readability always.
//
// # Usage
//
//	criteria, err := codegrader.NewCriteria(
//		codegrader.WithMinLength(20),
//		codegrader.WithRequiredWords("def", "return"),
//	)
//	if err != nil {
//		return err
//	}
//	g, err := codegrader.New(criteria)
//	if err != nil {
//		return err
//	}
//	result := g.Grade(output, "python")
package codegrader
