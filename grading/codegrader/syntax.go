/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package codegrader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/gradekit/grading"
	"github.com/dlclark/regexp2"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Languages with a syntax validator.
const (
	LanguagePython = "python"
	LanguageJSON   = "json"
	LanguageRegex  = "regex"
	LanguageText   = "text"
)

// SyntaxCheck is the outcome of syntax validation.
type SyntaxCheck struct {
	grading.Check
	Language string `json:"language"`
	Skipped  bool   `json:"skipped"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

// SupportsLanguage reports whether language has a syntax validator.
func SupportsLanguage(language string) bool {
	switch strings.ToLower(language) {
	case LanguagePython, LanguageJSON, LanguageRegex:
		return true
	}
	return false
}

// ValidateSyntax parses output as language. It is skipped when syntax
// checking is disabled or the language has no validator.
func (g *Grader) ValidateSyntax(output, language string) SyntaxCheck {
	lang := strings.ToLower(strings.TrimSpace(language))
	sc := SyntaxCheck{Language: lang}
	switch {
	case !g.criteria.syntaxCheck:
		sc.Skipped = true
		sc.Finish("Syntax check disabled")
		return sc
	case !SupportsLanguage(lang):
		sc.Skipped = true
		sc.Finish(fmt.Sprintf("No syntax validator for %q", language))
		return sc
	}

	switch lang {
	case LanguagePython:
		checkPython(&sc, stripFence(output))
	case LanguageJSON:
		checkJSON(&sc, stripFence(output))
	case LanguageRegex:
		checkRegex(&sc, strings.TrimSpace(output))
	}
	sc.Finish(fmt.Sprintf("Valid %s syntax", lang))
	return sc
}

func checkPython(sc *SyntaxCheck, src string) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, []byte(src))
	if err != nil {
		sc.Errorf("Python syntax error: %v", err)
		return
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return
	}
	n := firstError(root)
	if n == nil {
		sc.Errorf("Python syntax error")
		return
	}
	p := n.StartPoint()
	sc.Line, sc.Column = int(p.Row)+1, int(p.Column)+1
	if n.IsMissing() {
		sc.Errorf("Python syntax error at line %d, column %d: missing %q", sc.Line, sc.Column, n.Type())
		return
	}
	sc.Errorf("Python syntax error at line %d, column %d", sc.Line, sc.Column)
}

// firstError returns the first ERROR or MISSING node in document order.
func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !child.HasError() {
			continue
		}
		if found := firstError(child); found != nil {
			return found
		}
	}
	return nil
}

func checkJSON(sc *SyntaxCheck, src string) {
	var v any
	err := json.Unmarshal([]byte(src), &v)
	if err == nil {
		return
	}
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		sc.Line, sc.Column = position(src, syn.Offset)
		sc.Errorf("JSON syntax error at line %d, column %d: %v", sc.Line, sc.Column, err)
		return
	}
	sc.Errorf("JSON syntax error: %v", err)
}

func checkRegex(sc *SyntaxCheck, pattern string) {
	if _, err := regexp2.Compile(pattern, regexp2.None); err != nil {
		sc.Errorf("Regex syntax error: %v", err)
	}
}

// stripFence removes a surrounding markdown code fence, if any.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	body := strings.TrimSuffix(s, "```")
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		return strings.TrimSpace(body[i+1:])
	}
	return ""
}

// position converts a byte offset into 1-based line and column.
func position(src string, offset int64) (int, int) {
	if offset > int64(len(src)) {
		offset = int64(len(src))
	}
	before := src[:offset]
	line := strings.Count(before, "\n") + 1
	col := int(offset) - strings.LastIndexByte(before, '\n')
	return line, col
}
