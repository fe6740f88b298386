/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package formatgrader

import (
	"strings"

	"chainguard.dev/gradekit/grading"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var markdownParser = goldmark.New(goldmark.WithExtensions(extension.Table)).Parser()

// markdownOutline is what the validator needs to know about a document.
type markdownOutline struct {
	headings    []string
	codeBlocks  int
	bulletLists int
	orderedList int
	tables      int
}

func outline(src []byte) markdownOutline {
	var o markdownOutline
	doc := markdownParser.Parse(text.NewReader(src))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			o.headings = append(o.headings, strings.TrimSpace(inlineText(node, src)))
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			o.codeBlocks++
		case *ast.List:
			if node.IsOrdered() {
				o.orderedList++
			} else {
				o.bulletLists++
			}
		case *east.Table:
			o.tables++
		}
		return ast.WalkContinue, nil
	})
	return o
}

// inlineText concatenates the text segments beneath n.
func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		default:
			sb.WriteString(inlineText(c, src))
		}
	}
	return sb.String()
}

func validateMarkdown(crit *Criteria, output string) (grading.Check, bool) {
	var c grading.Check
	if strings.TrimSpace(output) == "" {
		c.Errorf("Empty Markdown content")
		return c, true
	}

	o := outline([]byte(output))

	for _, want := range crit.requiredHeaders {
		found := false
		for _, h := range o.headings {
			if strings.EqualFold(h, want) {
				found = true
				break
			}
		}
		if !found {
			c.Errorf("Missing required header: %q", want)
		}
	}

	lower := strings.ToLower(output)
	for _, s := range crit.requiredSections {
		if !strings.Contains(lower, strings.ToLower(s)) {
			c.Errorf("Missing required section: %q", s)
		}
	}

	if crit.requireCodeBlocks && o.codeBlocks == 0 {
		c.Errorf("Missing required code block")
	}
	if crit.requireBulletPoints && o.bulletLists == 0 {
		c.Errorf("Missing required bullet points")
	}
	if crit.requireNumbering && o.orderedList == 0 {
		c.Errorf("Missing required numbered list")
	}
	if crit.requireTables && o.tables == 0 {
		c.Errorf("Missing required table")
	}

	if len(markdownFence.FindAllString(output, -1))%2 != 0 {
		c.Warnf("Unclosed code block")
	}
	return c, false
}
