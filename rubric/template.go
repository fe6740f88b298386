/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import (
	"encoding/xml"
	"fmt"
	"maps"
	"slices"
)

// Template is a rubric prompt with named placeholders.
type Template struct {
	text  string
	slots map[string]slot
}

// Parse parses text into a Template, collecting its placeholders.
func Parse(text string) (*Template, error) {
	slots := make(map[string]slot)
	if _, err := scan(text, func(name string) (string, error) {
		if _, ok := slots[name]; !ok {
			slots[name] = &unbound{name: name}
		}
		return "", nil
	}); err != nil {
		return nil, err
	}
	return &Template{text: text, slots: slots}, nil
}

// MustParse is Parse that panics on error, for package-level templates.
func MustParse(text string) *Template {
	t, err := Parse(text)
	if err != nil {
		panic(fmt.Sprintf("rubric: %v", err))
	}
	return t
}

// Placeholders returns the sorted placeholder names in the template.
func (t *Template) Placeholders() []string {
	return slices.Sorted(maps.Keys(t.slots))
}

// Require returns an error unless the template has every named placeholder.
func (t *Template) Require(names ...string) error {
	for _, name := range names {
		if _, ok := t.slots[name]; !ok {
			return fmt.Errorf("template is missing placeholder {{%s}}", name)
		}
	}
	return nil
}

// BindText binds trusted text verbatim.
func (t *Template) BindText(name, value string) (*Template, error) {
	return t.bind(name, &text{val: value})
}

// BindXML binds data marshaled as XML.
func (t *Template) BindXML(name string, data any) (*Template, error) {
	return t.bind(name, &xmlSlot{data: data})
}

// BindJSON binds data marshaled as indented JSON.
func (t *Template) BindJSON(name string, data any) (*Template, error) {
	return t.bind(name, &jsonSlot{data: data})
}

// BindYAML binds data marshaled as YAML.
func (t *Template) BindYAML(name string, data any) (*Template, error) {
	return t.bind(name, &yamlSlot{data: data})
}

func (t *Template) bind(name string, s slot) (*Template, error) {
	cur, ok := t.slots[name]
	if !ok {
		return nil, fmt.Errorf("placeholder %q not found in template", name)
	}
	if _, isUnbound := cur.(*unbound); !isUnbound {
		return nil, fmt.Errorf("placeholder %q already bound", name)
	}
	next := &Template{text: t.text, slots: maps.Clone(t.slots)}
	next.slots[name] = s
	return next, nil
}

// Render substitutes every placeholder, failing if any is unbound.
func (t *Template) Render() (string, error) {
	values := make(map[string]string, len(t.slots))
	for name, s := range t.slots {
		v, err := s.value()
		if err != nil {
			return "", err
		}
		values[name] = v
	}
	return scan(t.text, func(name string) (string, error) {
		return values[name], nil
	})
}

// Bindable is implemented by requests that know how to fill a template.
type Bindable interface {
	Bind(t *Template) (*Template, error)
}

// Element wraps body in an XML element named tag, for use with BindXML.
func Element(tag, body string) any {
	return struct {
		XMLName xml.Name
		Body    string `xml:",chardata"`
	}{
		XMLName: xml.Name{Local: tag},
		Body:    body,
	}
}
