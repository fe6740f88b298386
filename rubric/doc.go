/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package rubric builds grading prompts from templates with named
// placeholders.
//
// A template contains {{name}} placeholders. Each placeholder must be bound
// exactly once before the template renders; binding returns a new Template
// and never mutates the receiver, so a parsed rubric can be shared across
// goroutines and bound per request.
//
// Untrusted text (the prompt and response under evaluation) should be bound
// with BindXML so it arrives escaped inside a delimiting element:
//
//	tmpl := rubric.MustParse("Evaluate:\n{{response}}")
//	tmpl, err := tmpl.BindXML("response", rubric.Element("response", text))
//
// Trusted text supplied by the caller, such as an aspect description, can
// be bound verbatim with BindText.
package rubric
