/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package formatgrader

import (
	"encoding/csv"
	"slices"
	"strings"

	"chainguard.dev/gradekit/grading"
)

func validateCSV(crit *Criteria, output string) (grading.Check, bool) {
	var c grading.Check
	src := strings.TrimSpace(output)
	if src == "" {
		c.Errorf("Empty CSV content")
		return c, true
	}

	r := csv.NewReader(strings.NewReader(src))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		c.Errorf("Invalid CSV format: %v", err)
		return c, true
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if seen[strings.ToLower(h)] {
			c.Warnf("Duplicate column %q", h)
		}
		seen[strings.ToLower(h)] = true
	}

	if len(records) < 2 {
		c.Errorf("CSV has a header but no data rows")
	}
	for i, rec := range records[1:] {
		if len(rec) != len(header) {
			c.Warnf("Row %d has %d fields, expected %d", i+2, len(rec), len(header))
		}
	}

	hasColumn := func(name string) bool {
		return slices.ContainsFunc(header, func(h string) bool { return strings.EqualFold(h, name) })
	}
	for _, f := range crit.requiredFields {
		if !hasColumn(f) {
			c.Errorf("Missing required column: %q", f)
		}
	}
	for _, f := range crit.forbiddenFields {
		if hasColumn(f) {
			c.Errorf("Contains forbidden column: %q", f)
		}
	}
	return c, false
}
