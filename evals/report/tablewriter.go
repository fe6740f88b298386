/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

const maxTableWidth = 120

// markdown is the rendition every report table uses: pipe-delimited rows
// without top or bottom rules.
var markdown = tw.Rendition{
	Symbols: tw.NewSymbols(tw.StyleMarkdown),
	Borders: tw.Border{Left: tw.On, Right: tw.On, Top: tw.Off, Bottom: tw.Off},
}

// newTable returns a left-aligned markdown table writing to w.
func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	left := tw.CellAlignment{Global: tw.AlignLeft}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  left,
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
			},
			Row:      tw.CellConfig{Alignment: left},
			MaxWidth: maxTableWidth,
			Behavior: tw.Behavior{TrimSpace: tw.Off},
		}),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(markdown),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}
