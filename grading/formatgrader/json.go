/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package formatgrader

import (
	"encoding/json"
	"strings"

	"chainguard.dev/gradekit/grading"
	"github.com/xeipuuv/gojsonschema"
)

func validateJSON(crit *Criteria, output string) (grading.Check, bool) {
	var c grading.Check
	src := strings.TrimSpace(output)

	var doc any
	if err := json.Unmarshal([]byte(src), &doc); err != nil {
		c.Errorf("Invalid JSON format: %v", err)
		return c, true
	}

	checkFields(&c, doc, crit)
	if crit.requiredStructure != nil {
		checkStructure(&c, "", doc, crit.requiredStructure)
	}
	if crit.schema != nil {
		res, err := crit.schema.Validate(gojsonschema.NewStringLoader(src))
		switch {
		case err != nil:
			c.Errorf("JSON schema validation failed: %v", err)
		case !res.Valid():
			for _, e := range res.Errors() {
				c.Errorf("Schema violation: %s", e.String())
			}
		}
	}
	return c, false
}
