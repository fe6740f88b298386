/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package formatgrader

import (
	"strings"

	"chainguard.dev/gradekit/grading"
	"gopkg.in/yaml.v3"
)

func validateYAML(crit *Criteria, output string) (grading.Check, bool) {
	var c grading.Check
	if strings.TrimSpace(output) == "" {
		c.Errorf("Empty YAML content")
		return c, true
	}

	var doc any
	if err := yaml.Unmarshal([]byte(output), &doc); err != nil {
		c.Errorf("Invalid YAML format: %v", err)
		return c, true
	}
	if doc == nil {
		c.Errorf("Empty YAML content")
		return c, true
	}

	switch kindOf(doc) {
	case "object", "array":
	default:
		c.Errorf("YAML document is a %s, expected a mapping or sequence", kindOf(doc))
		return c, true
	}

	checkFields(&c, doc, crit)
	if crit.requiredStructure != nil {
		checkStructure(&c, "", doc, crit.requiredStructure)
	}
	return c, false
}
