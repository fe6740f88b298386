/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package grading holds the types shared by every grader: the Result each
// grader returns, the Check sub-result its validators produce, and the
// threshold that decides whether a score passes.
//
// Scores live on a 0-10 scale. A Result passes when its score is at or above
// the grader's threshold, which defaults to DefaultThreshold.
//
// # Sub-packages
//
//   - codegrader: deterministic checks on raw output (length, words, syntax, readability)
//   - formatgrader: structural checks on JSON, XML, Markdown, CSV, YAML and text
//   - modelgrader: rubric-based grading by a language model
//   - grader: orchestration of the three, batches and aggregate reports
package grading
