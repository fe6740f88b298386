/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package formatgrader

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"chainguard.dev/gradekit/grading"
)

// typeAliases maps accepted type names onto canonical ones.
var typeAliases = map[string]string{
	"string":  "string",
	"str":     "string",
	"number":  "number",
	"float":   "number",
	"integer": "integer",
	"int":     "integer",
	"boolean": "boolean",
	"bool":    "boolean",
	"object":  "object",
	"dict":    "object",
	"array":   "array",
	"list":    "array",
	"null":    "null",
	"any":     "any",
}

// normalizeShape validates a structure descriptor and converts it into
// canonical form: type names, map[string]any and one-element []any.
func normalizeShape(path string, shape any) (any, error) {
	switch s := shape.(type) {
	case string:
		canonical, ok := typeAliases[strings.ToLower(s)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown type %q at %q", grading.ErrInvalidCriteria, s, displayPath(path))
		}
		return canonical, nil
	case map[string]any:
		out := make(map[string]any, len(s))
		for k, v := range s {
			n, err := normalizeShape(join(path, k), v)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(s))
		for k, v := range s {
			key := fmt.Sprint(k)
			n, err := normalizeShape(join(path, key), v)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case []any:
		if len(s) != 1 {
			return nil, fmt.Errorf("%w: array shape at %q must have exactly one element", grading.ErrInvalidCriteria, displayPath(path))
		}
		n, err := normalizeShape(path+"[]", s[0])
		if err != nil {
			return nil, err
		}
		return []any{n}, nil
	case []string:
		if len(s) != 1 {
			return nil, fmt.Errorf("%w: array shape at %q must have exactly one element", grading.ErrInvalidCriteria, displayPath(path))
		}
		return normalizeShape(path, []any{s[0]})
	}
	return nil, fmt.Errorf("%w: invalid shape %T at %q", grading.ErrInvalidCriteria, shape, displayPath(path))
}

// checkStructure records an error on c for every place value deviates from
// the normalized shape.
func checkStructure(c *grading.Check, path string, value, shape any) {
	switch s := shape.(type) {
	case string:
		if got := kindOf(value); !typeMatches(s, value) {
			c.Errorf("Field %q: expected %s, got %s", displayPath(path), s, got)
		}
	case map[string]any:
		obj, ok := asMap(value)
		if !ok {
			c.Errorf("Field %q: expected object, got %s", displayPath(path), kindOf(value))
			return
		}
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			child, ok := obj[k]
			if !ok {
				c.Errorf("Missing required structure key %q", join(path, k))
				continue
			}
			checkStructure(c, join(path, k), child, s[k])
		}
	case []any:
		arr, ok := value.([]any)
		if !ok {
			c.Errorf("Field %q: expected array, got %s", displayPath(path), kindOf(value))
			return
		}
		for i, elem := range arr {
			checkStructure(c, join(path, strconv.Itoa(i)), elem, s[0])
		}
	}
}

func typeMatches(want string, value any) bool {
	got := kindOf(value)
	switch want {
	case "any":
		return true
	case "number":
		return got == "number" || got == "integer"
	}
	return want == got
}

// kindOf names the JSON type of a decoded JSON or YAML value.
func kindOf(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return "integer"
		}
		return "number"
	case float32:
		return "number"
	case int, int64, uint64, int32, uint32:
		return "integer"
	case []any:
		return "array"
	case map[string]any, map[any]any:
		return "object"
	}
	return fmt.Sprintf("%T", value)
}

// asMap views decoded objects from either JSON or YAML as map[string]any.
func asMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

// lookup resolves a dotted path through objects and array indices.
func lookup(value any, path string) (any, bool) {
	cur := value
	for _, seg := range strings.Split(path, ".") {
		if obj, ok := asMap(cur); ok {
			next, ok := obj[seg]
			if !ok {
				return nil, false
			}
			cur = next
			continue
		}
		arr, ok := cur.([]any)
		if !ok {
			return nil, false
		}
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(arr) {
			return nil, false
		}
		cur = arr[i]
	}
	return cur, true
}

// checkFields records missing required and present forbidden paths.
func checkFields(c *grading.Check, doc any, crit *Criteria) {
	for _, f := range crit.requiredFields {
		if _, ok := lookup(doc, f); !ok {
			c.Errorf("Missing required field: %q", f)
		}
	}
	for _, f := range crit.forbiddenFields {
		if _, ok := lookup(doc, f); ok {
			c.Errorf("Contains forbidden field: %q", f)
		}
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func displayPath(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}
