/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package formatgrader

import (
	"fmt"
	"strings"

	"chainguard.dev/gradekit/grading"
)

// Format names an output format.
type Format string

const (
	JSON     Format = "json"
	XML      Format = "xml"
	Markdown Format = "markdown"
	CSV      Format = "csv"
	YAML     Format = "yaml"
	Text     Format = "text"
)

// Formats lists every supported format.
var Formats = []Format{JSON, XML, Markdown, CSV, YAML, Text}

// ParseFormat resolves a format name, accepting common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "xml":
		return XML, nil
	case "markdown", "md":
		return Markdown, nil
	case "csv":
		return CSV, nil
	case "yaml", "yml":
		return YAML, nil
	case "text", "txt", "plain":
		return Text, nil
	}
	return "", fmt.Errorf("%w: unsupported format %q", grading.ErrInvalidCriteria, s)
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	switch f {
	case JSON, XML, Markdown, CSV, YAML, Text:
		return true
	}
	return false
}
