/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package modelgrader grades responses by asking a language model to apply a
// rubric.
//
// Grade sends the comprehensive rubric, which scores five aspects (response
// quality, instruction following, completeness, helpfulness and safety) and
// an overall score. Assess and the Assess* helpers send a rubric for a single
// aspect. Every call issues exactly one model request.
//
// Grading is total: the methods return a grading.Result and never an error.
// A model API failure becomes a failed result with score 0 and the error in
// the feedback. A reply that cannot be parsed falls back to a score salvaged
// from "N/10" style text, or to a neutral 5.0, with the raw reply kept in
// the details.
//
// # Usage
//
//	client, err := llm.NewAnthropic(apiKey, nil)
//	if err != nil {
//		return err
//	}
//	g, err := modelgrader.New(client, modelgrader.WithThreshold(7.5))
//	if err != nil {
//		return err
//	}
//	result := g.Grade(ctx, prompt, response)
//
// A custom comprehensive rubric can be supplied with WithRubric. It must
// contain the {{prompt}} and {{response}} placeholders and may contain
// {{schema}}, which receives the JSON schema of the expected reply.
package modelgrader
