// Package format renders report tables for the terminal, for Markdown
// documents and as delimited text.
package format

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Mode selects how a table is rendered.
type Mode int

const (
	ASCII    Mode = iota // box-drawn terminal table
	Markdown             // GitHub-flavoured Markdown
	CSV                  // RFC 4180 comma-separated values
)

func (m Mode) String() string {
	switch m {
	case Markdown:
		return "markdown"
	case CSV:
		return "csv"
	default:
		return "table"
	}
}

// ParseMode resolves a --format value. "table" and "ascii" are the same
// mode; "md" is short for "markdown".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table", "ascii":
		return ASCII, nil
	case "markdown", "md":
		return Markdown, nil
	case "csv":
		return CSV, nil
	}
	return ASCII, fmt.Errorf("unknown table format %q", s)
}

// ColumnAlign is the horizontal alignment of a column.
type ColumnAlign int

const (
	AlignDefault ColumnAlign = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// ColumnConfig sets per-column formatting. Number is 1-based; MaxWidth 0
// means unlimited. Both are ignored by CSV.
type ColumnConfig struct {
	Number   int
	Align    ColumnAlign
	MaxWidth int
}

// TableBuilder collects a table and renders it in the Mode chosen at
// creation.
type TableBuilder interface {
	Header(cols ...string)
	// Row appends a data row; values are printed with fmt.Sprint.
	Row(vals ...any)
	Footer(vals ...any)
	Columns(cfgs ...ColumnConfig)
	String() string
}

// NewTable returns a TableBuilder backed by go-pretty. CSV goes through
// encoding/csv instead of RenderCSV, which backslash-escapes commas.
func NewTable(m Mode) TableBuilder {
	w := table.NewWriter()
	if m == ASCII {
		w.SetStyle(table.StyleLight)
		w.Style().Format.Header = text.FormatDefault
		w.Style().Format.Footer = text.FormatDefault
	}
	return &prettyTable{w: w, mode: m}
}

type prettyTable struct {
	w       table.Writer
	mode    Mode
	records [][]string
}

func (p *prettyTable) Header(cols ...string) {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	p.w.AppendHeader(row)
	p.records = append(p.records, append([]string(nil), cols...))
}

func (p *prettyTable) Row(vals ...any) {
	p.w.AppendRow(append(table.Row(nil), vals...))
	p.records = append(p.records, stringify(vals))
}

func (p *prettyTable) Footer(vals ...any) {
	p.w.AppendFooter(append(table.Row(nil), vals...))
	p.records = append(p.records, stringify(vals))
}

func stringify(vals []any) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = fmt.Sprint(v)
	}
	return out
}

func (p *prettyTable) Columns(cfgs ...ColumnConfig) {
	if p.mode == CSV {
		return
	}
	out := make([]table.ColumnConfig, len(cfgs))
	for i, c := range cfgs {
		out[i] = table.ColumnConfig{Number: c.Number, Align: align(c.Align), WidthMax: c.MaxWidth}
	}
	p.w.SetColumnConfigs(out)
}

func (p *prettyTable) String() string {
	switch p.mode {
	case Markdown:
		return p.w.RenderMarkdown()
	case CSV:
		var b strings.Builder
		cw := csv.NewWriter(&b)
		if err := cw.WriteAll(p.records); err != nil {
			return ""
		}
		return strings.TrimSuffix(b.String(), "\n")
	default:
		return p.w.Render()
	}
}

func align(a ColumnAlign) text.Align {
	switch a {
	case AlignLeft:
		return text.AlignLeft
	case AlignCenter:
		return text.AlignCenter
	case AlignRight:
		return text.AlignRight
	}
	return text.AlignDefault
}
