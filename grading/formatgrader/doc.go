/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package formatgrader checks that model output conforms to a structured
// format and to structural requirements within it.
//
// Supported formats are JSON, XML, Markdown, CSV, YAML and plain text. When
// no format is given the grader detects one from the prompt and the shape of
// the output (see Detect).
//
// # Scoring
//
// An output that does not parse as its format scores 0. Otherwise every
// validation error deducts ErrorPenalty and every warning deducts
// WarningPenalty from 10, so an output with one missing header still
// scores 8 and passes at the default threshold.
//
// # Field paths
//
// Required and forbidden fields use dotted paths for JSON and YAML
// ("user.address.city", "items.0.id"), tag names for XML and column names
// for CSV.
package formatgrader
