package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Table renders rows of cells in aligned columns under a colored header.
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
	right   map[int]bool
	noColor bool
}

// TableOptions configures table behavior
type TableOptions struct {
	NoColor bool
	// RightAlign lists the column indexes rendered flush right, e.g. counts.
	RightAlign []int
}

// NewTable creates a new table with the given headers
func NewTable(w io.Writer, headers []string, opts *TableOptions) *Table {
	t := &Table{writer: w, headers: headers, right: map[int]bool{}}
	if opts != nil {
		t.noColor = opts.NoColor
		for _, i := range opts.RightAlign {
			t.right[i] = true
		}
	}
	return t
}

// AddRow adds a row. Missing cells render empty and extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows added.
func (t *Table) Len() int { return len(t.rows) }

// Render writes the table. A table without headers renders nothing.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	head := t.style(color.Bold, color.FgCyan)
	rule := t.style(color.FgHiBlack)

	t.line(widths, t.headers, head.Sprint)

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("─", w)
	}
	t.line(widths, sep, rule.Sprint)

	for _, row := range t.rows {
		t.line(widths, row, fmt.Sprint)
	}
}

func (t *Table) line(widths []int, cells []string, paint func(...any) string) {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString("  ")
		}
		last := i == len(cells)-1
		switch {
		case t.right[i]:
			b.WriteString(paint(pad(cell, widths[i], true)))
		case last:
			b.WriteString(paint(cell))
		default:
			b.WriteString(paint(pad(cell, widths[i], false)))
		}
	}
	fmt.Fprintln(t.writer, b.String())
}

func (t *Table) style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if t.noColor {
		c.DisableColor()
	}
	return c
}

func pad(s string, width int, left bool) string {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	if left {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

// Details renders "key: value" lines with the keys aligned.
type Details struct {
	writer  io.Writer
	keys    []string
	values  []string
	noColor bool
}

// NewDetails creates an empty key-value block.
func NewDetails(w io.Writer, noColor bool) *Details {
	return &Details{writer: w, noColor: noColor}
}

// Add appends a pair. Pairs with an empty value are skipped.
func (d *Details) Add(key, value string) {
	if value == "" {
		return
	}
	d.keys = append(d.keys, key)
	d.values = append(d.values, value)
}

// Render writes the pairs.
func (d *Details) Render() {
	width := 0
	for _, k := range d.keys {
		width = max(width, utf8.RuneCountInString(k)+1)
	}

	cyan := color.New(color.FgCyan)
	if d.noColor {
		cyan.DisableColor()
	}
	for i, k := range d.keys {
		cyan.Fprint(d.writer, pad(k+":", width, false))
		fmt.Fprintf(d.writer, " %s\n", d.values[i])
	}
}

// Header renders a title underlined to its own width.
func Header(w io.Writer, title string, noColor bool) {
	bold := color.New(color.Bold, color.FgCyan)
	gray := color.New(color.FgHiBlack)
	if noColor {
		bold.DisableColor()
		gray.DisableColor()
	}
	bold.Fprintln(w, title)
	gray.Fprintln(w, strings.Repeat("─", utf8.RuneCountInString(title)))
}
