/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package grader combines the code, format and model graders.
//
// GradeComprehensive runs every grader over one prompt and response and
// returns their results keyed by grader name (code_grader, model_grader
// and, when requested, format_grader). The graders run independently: a
// grader that panics yields a failed result under its own name and the
// others still report.
//
// GradeBatch grades many items with bounded concurrency and returns one
// BatchItem per input, in input order. GenerateReport summarizes a batch:
// per-grader score statistics, pass rates and the number of results below
// the threshold.
//
// # Usage
//
//	mg, err := modelgrader.New(client)
//	if err != nil {
//		return err
//	}
//	g, err := grader.New(mg, grader.WithConcurrency(8))
//	if err != nil {
//		return err
//	}
//	items := g.GradeBatch(ctx, evaluations, "python")
//	report := g.GenerateReport(items)
package grader
