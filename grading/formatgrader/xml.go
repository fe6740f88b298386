/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package formatgrader

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"chainguard.dev/gradekit/grading"
)

func validateXML(crit *Criteria, output string) (grading.Check, bool) {
	var c grading.Check
	src := strings.TrimSpace(output)
	if !strings.HasPrefix(src, "<") {
		c.Errorf("Invalid XML format: content does not start with '<'")
		return c, true
	}

	tags := make(map[string]bool)
	var depth, roots int
	dec := xml.NewDecoder(strings.NewReader(src))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			c.Errorf("Invalid XML format: %v", err)
			return c, true
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
			}
			depth++
			tags[t.Name.Local] = true
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && strings.TrimSpace(string(t)) != "" {
				c.Errorf("Text outside of the root element")
			}
		}
	}
	switch {
	case roots == 0:
		c.Errorf("Invalid XML format: no root element")
		return c, true
	case roots > 1:
		c.Warnf("Document has %d root elements", roots)
	}

	for _, s := range crit.requiredSections {
		if !tags[s] {
			c.Errorf("Missing required section: <%s>", s)
		}
	}
	for _, f := range crit.requiredFields {
		if !tags[f] {
			c.Errorf("Missing required field: <%s>", f)
		}
	}
	for _, f := range crit.forbiddenFields {
		if tags[f] {
			c.Errorf("Contains forbidden field: <%s>", f)
		}
	}
	return c, false
}
