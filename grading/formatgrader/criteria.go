/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package formatgrader

import (
	"fmt"
	"slices"
	"strings"

	"chainguard.dev/gradekit/grading"
	"github.com/xeipuuv/gojsonschema"
)

// Criteria configures the structural checks a Grader runs. It is immutable
// once built; use NewCriteria or Config.Criteria to construct one.
type Criteria struct {
	requiredFormat      *Format
	requiredStructure   map[string]any
	requiredFields      []string
	forbiddenFields     []string
	schema              *gojsonschema.Schema
	requiredSections    []string
	requiredHeaders     []string
	requireCodeBlocks   bool
	requireBulletPoints bool
	requireNumbering    bool
	requireTables       bool
	requiredLanguage    *string
	localeSpecific      bool
}

// CriteriaOption configures a Criteria.
type CriteriaOption func(*Criteria) error

// WithRequiredFormat fixes the format instead of detecting it.
func WithRequiredFormat(f Format) CriteriaOption {
	return func(c *Criteria) error {
		if !f.Valid() {
			return fmt.Errorf("%w: unsupported format %q", grading.ErrInvalidCriteria, f)
		}
		c.requiredFormat = &f
		return nil
	}
}

// WithRequiredStructure requires the document to match a shape. Each key
// maps to a type name (string, number, integer, boolean, object, array,
// null, any), a nested shape, or a one-element list holding the shape of
// every array element.
func WithRequiredStructure(shape map[string]any) CriteriaOption {
	return func(c *Criteria) error {
		normalized, err := normalizeShape("", shape)
		if err != nil {
			return err
		}
		c.requiredStructure = normalized.(map[string]any)
		return nil
	}
}

// WithRequiredFields adds fields that must be present.
func WithRequiredFields(fields ...string) CriteriaOption {
	return func(c *Criteria) error {
		c.requiredFields = append(c.requiredFields, trimmed(fields)...)
		return nil
	}
}

// WithForbiddenFields adds fields that must be absent.
func WithForbiddenFields(fields ...string) CriteriaOption {
	return func(c *Criteria) error {
		c.forbiddenFields = append(c.forbiddenFields, trimmed(fields)...)
		return nil
	}
}

// WithJSONSchema enables JSON Schema validation against schema.
func WithJSONSchema(schema map[string]any) CriteriaOption {
	return func(c *Criteria) error {
		if len(schema) == 0 {
			return fmt.Errorf("%w: JSON schema validation requested without a schema", grading.ErrInvalidCriteria)
		}
		compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
		if err != nil {
			return fmt.Errorf("%w: compiling JSON schema: %w", grading.ErrInvalidCriteria, err)
		}
		c.schema = compiled
		return nil
	}
}

// WithRequiredSections adds sections that must appear: tag names for XML,
// case-insensitive text for Markdown.
func WithRequiredSections(sections ...string) CriteriaOption {
	return func(c *Criteria) error {
		c.requiredSections = append(c.requiredSections, trimmed(sections)...)
		return nil
	}
}

// WithRequiredHeaders adds Markdown headings that must appear, at any level.
func WithRequiredHeaders(headers ...string) CriteriaOption {
	return func(c *Criteria) error {
		for _, h := range trimmed(headers) {
			c.requiredHeaders = append(c.requiredHeaders, strings.TrimSpace(strings.TrimLeft(h, "#")))
		}
		return nil
	}
}

// WithCodeBlocks requires at least one Markdown code block.
func WithCodeBlocks() CriteriaOption {
	return func(c *Criteria) error { c.requireCodeBlocks = true; return nil }
}

// WithBulletPoints requires at least one Markdown bullet list.
func WithBulletPoints() CriteriaOption {
	return func(c *Criteria) error { c.requireBulletPoints = true; return nil }
}

// WithNumbering requires at least one Markdown ordered list.
func WithNumbering() CriteriaOption {
	return func(c *Criteria) error { c.requireNumbering = true; return nil }
}

// WithTables requires at least one Markdown table.
func WithTables() CriteriaOption {
	return func(c *Criteria) error { c.requireTables = true; return nil }
}

// WithRequiredLanguage records the natural language the output should be
// written in. It is advisory and reported in result details.
func WithRequiredLanguage(lang string) CriteriaOption {
	return func(c *Criteria) error {
		lang = strings.TrimSpace(lang)
		if lang == "" {
			return fmt.Errorf("%w: empty required language", grading.ErrInvalidCriteria)
		}
		c.requiredLanguage = &lang
		return nil
	}
}

// WithLocaleSpecific marks the output as locale specific. It is advisory.
func WithLocaleSpecific(v bool) CriteriaOption {
	return func(c *Criteria) error { c.localeSpecific = v; return nil }
}

// NewCriteria builds a Criteria from options and validates it.
func NewCriteria(opts ...CriteriaOption) (*Criteria, error) {
	c := &Criteria{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	for _, f := range c.requiredFields {
		if slices.Contains(c.forbiddenFields, f) {
			return nil, fmt.Errorf("%w: field %q is both required and forbidden", grading.ErrInvalidCriteria, f)
		}
	}
	return c, nil
}

// RequiredFormat returns the fixed format and whether one is set.
func (c *Criteria) RequiredFormat() (Format, bool) {
	if c.requiredFormat == nil {
		return "", false
	}
	return *c.requiredFormat, true
}

// RequiredFields returns a copy of the required fields.
func (c *Criteria) RequiredFields() []string { return slices.Clone(c.requiredFields) }

// ForbiddenFields returns a copy of the forbidden fields.
func (c *Criteria) ForbiddenFields() []string { return slices.Clone(c.forbiddenFields) }

// ValidatesJSONSchema reports whether JSON Schema validation is enabled.
func (c *Criteria) ValidatesJSONSchema() bool { return c.schema != nil }

// RequiredLanguage returns the advisory language and whether one is set.
func (c *Criteria) RequiredLanguage() (string, bool) {
	if c.requiredLanguage == nil {
		return "", false
	}
	return *c.requiredLanguage, true
}

// Config is the serialized form of Criteria, as found in grading profiles
// and dataset grading configuration.
type Config struct {
	RequiredFormat      string         `json:"required_format,omitempty" yaml:"required_format,omitempty" mapstructure:"required_format"`
	RequiredStructure   map[string]any `json:"required_structure,omitempty" yaml:"required_structure,omitempty" mapstructure:"required_structure"`
	RequiredFields      []string       `json:"required_fields,omitempty" yaml:"required_fields,omitempty" mapstructure:"required_fields"`
	ForbiddenFields     []string       `json:"forbidden_fields,omitempty" yaml:"forbidden_fields,omitempty" mapstructure:"forbidden_fields"`
	ValidateJSONSchema  bool           `json:"validate_json_schema,omitempty" yaml:"validate_json_schema,omitempty" mapstructure:"validate_json_schema"`
	JSONSchema          map[string]any `json:"json_schema,omitempty" yaml:"json_schema,omitempty" mapstructure:"json_schema"`
	RequiredSections    []string       `json:"required_sections,omitempty" yaml:"required_sections,omitempty" mapstructure:"required_sections"`
	RequiredHeaders     []string       `json:"required_headers,omitempty" yaml:"required_headers,omitempty" mapstructure:"required_headers"`
	RequireCodeBlocks   bool           `json:"require_code_blocks,omitempty" yaml:"require_code_blocks,omitempty" mapstructure:"require_code_blocks"`
	RequireBulletPoints bool           `json:"require_bullet_points,omitempty" yaml:"require_bullet_points,omitempty" mapstructure:"require_bullet_points"`
	RequireNumbering    bool           `json:"require_numbering,omitempty" yaml:"require_numbering,omitempty" mapstructure:"require_numbering"`
	RequireTables       bool           `json:"require_tables,omitempty" yaml:"require_tables,omitempty" mapstructure:"require_tables"`
	RequiredLanguage    string         `json:"required_language,omitempty" yaml:"required_language,omitempty" mapstructure:"required_language"`
	LocaleSpecific      bool           `json:"locale_specific,omitempty" yaml:"locale_specific,omitempty" mapstructure:"locale_specific"`
}

// Criteria converts the config into validated Criteria.
func (cfg Config) Criteria() (*Criteria, error) {
	opts := []CriteriaOption{
		WithRequiredFields(cfg.RequiredFields...),
		WithForbiddenFields(cfg.ForbiddenFields...),
		WithRequiredSections(cfg.RequiredSections...),
		WithRequiredHeaders(cfg.RequiredHeaders...),
		WithLocaleSpecific(cfg.LocaleSpecific),
	}
	if cfg.RequiredFormat != "" {
		f, err := ParseFormat(cfg.RequiredFormat)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithRequiredFormat(f))
	}
	if cfg.RequiredStructure != nil {
		opts = append(opts, WithRequiredStructure(cfg.RequiredStructure))
	}
	switch {
	case cfg.ValidateJSONSchema:
		opts = append(opts, WithJSONSchema(cfg.JSONSchema))
	case cfg.JSONSchema != nil:
		return nil, fmt.Errorf("%w: json_schema given without validate_json_schema", grading.ErrInvalidCriteria)
	}
	if cfg.RequireCodeBlocks {
		opts = append(opts, WithCodeBlocks())
	}
	if cfg.RequireBulletPoints {
		opts = append(opts, WithBulletPoints())
	}
	if cfg.RequireNumbering {
		opts = append(opts, WithNumbering())
	}
	if cfg.RequireTables {
		opts = append(opts, WithTables())
	}
	if cfg.RequiredLanguage != "" {
		opts = append(opts, WithRequiredLanguage(cfg.RequiredLanguage))
	}
	return NewCriteria(opts...)
}

func trimmed(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
