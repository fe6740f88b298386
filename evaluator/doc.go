/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package evaluator runs datasets of test cases end to end: a responder
// model answers each prompt and the grader scores the answer.
//
// A TestCase may carry its own grading configuration, which replaces the
// code or format grader for that case only. The case's format selects the
// code grader's syntax language (python, json, regex) and the format the
// format grader requires (json, xml, markdown, csv, yaml).
//
// Run grades a dataset with bounded concurrency and returns a Summary with
// per-case results, pass counts and the grader's batch report. RunBatch runs
// several named datasets. AnalyzeFailures groups the failures of a Summary
// by the grader that caused them.
package evaluator
