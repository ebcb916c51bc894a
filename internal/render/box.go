// Package render turns a column collection into text for terminals.
package render

import (
	"fmt"
	"strings"

	"golang.org/x/text/width"

	"github.com/tuannm99/novaresult/internal/collection"
	"github.com/tuannm99/novaresult/internal/record"
	"github.com/tuannm99/novaresult/internal/value"
)

type Config struct {
	// MaxRows is the number of rows shown before the middle is elided.
	MaxRows int `mapstructure:"max_rows"`
	// MaxWidth is the total line width; columns beyond it are dropped.
	MaxWidth int `mapstructure:"max_width"`
	// MaxColWidth truncates long cells.
	MaxColWidth int    `mapstructure:"max_col_width"`
	NullValue   string `mapstructure:"null_value"`
}

func DefaultConfig() Config {
	return Config{
		MaxRows:     40,
		MaxWidth:    120,
		MaxColWidth: 20,
		NullValue:   "NULL",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxRows <= 0 {
		c.MaxRows = d.MaxRows
	}
	if c.MaxWidth <= 0 {
		c.MaxWidth = d.MaxWidth
	}
	if c.MaxColWidth <= 0 {
		c.MaxColWidth = d.MaxColWidth
	}
	if c.NullValue == "" {
		c.NullValue = d.NullValue
	}
	return c
}

// Header renders the column names and the column types as two tab-separated lines.
func Header(names []string, types []record.LogicalType) string {
	var sb strings.Builder
	for _, n := range names {
		sb.WriteString(n)
		sb.WriteByte('\t')
	}
	sb.WriteByte('\n')
	for _, t := range types {
		sb.WriteString(t.String())
		sb.WriteByte('\t')
	}
	sb.WriteByte('\n')
	return sb.String()
}

// EscapeCell keeps a rendered value on one line: NUL becomes \0.
func EscapeCell(s string) string {
	return strings.ReplaceAll(s, "\x00", `\0`)
}

const (
	ellipsis    = "…"
	rowEllipsis = "·"
)

type BoxRenderer struct {
	cfg Config
}

func NewBoxRenderer(cfg Config) *BoxRenderer {
	return &BoxRenderer{cfg: cfg.withDefaults()}
}

// Render draws names and every (or the first and last) row of coll as a box.
func (r *BoxRenderer) Render(names []string, coll *collection.Collection) string {
	types := coll.Types()
	ncols := len(types)
	if ncols == 0 {
		return "(no columns)\n"
	}

	rows := coll.Rows()
	total := rows.Len()

	// 1) pick rows: all of them, or head + tail around an ellipsis row (-1)
	var picked []int
	if total <= r.cfg.MaxRows {
		for i := 0; i < total; i++ {
			picked = append(picked, i)
		}
	} else {
		top := (r.cfg.MaxRows + 1) / 2
		bottom := r.cfg.MaxRows / 2
		for i := 0; i < top; i++ {
			picked = append(picked, i)
		}
		picked = append(picked, -1)
		for i := total - bottom; i < total; i++ {
			picked = append(picked, i)
		}
	}

	// 2) render cells and compute widths
	header := make([]string, ncols)
	typeRow := make([]string, ncols)
	widths := make([]int, ncols)
	for c := 0; c < ncols; c++ {
		name := ""
		if c < len(names) {
			name = names[c]
		}
		header[c] = r.truncate(name)
		typeRow[c] = r.truncate(strings.ToLower(types[c].String()))
		widths[c] = max(displayWidth(header[c]), displayWidth(typeRow[c]), 1)
	}

	cells := make([][]string, len(picked))
	for i, idx := range picked {
		cells[i] = make([]string, ncols)
		for c := 0; c < ncols; c++ {
			if idx < 0 {
				cells[i][c] = rowEllipsis
				continue
			}
			cells[i][c] = r.cell(rows.Row(idx).Value(c))
			widths[c] = max(widths[c], displayWidth(cells[i][c]))
		}
	}

	// 3) drop columns from the right while the box is too wide
	shown := ncols
	for shown > 1 && boxWidth(widths[:shown], shown < ncols) > r.cfg.MaxWidth {
		shown--
	}
	dropped := shown < ncols

	cols := make([]int, shown)
	for c := range cols {
		cols[c] = widths[c]
	}
	if dropped {
		cols = append(cols, displayWidth(ellipsis))
	}
	pick := func(values []string) []string {
		out := make([]string, 0, len(cols))
		out = append(out, values[:shown]...)
		if dropped {
			out = append(out, ellipsis)
		}
		return out
	}
	numeric := make([]bool, len(cols))
	for c := 0; c < shown; c++ {
		numeric[c] = types[c].ID.IsNumeric()
	}

	// 4) draw
	var sb strings.Builder
	line := func(left, fill, mid, right string) {
		sb.WriteString(left)
		for c, w := range cols {
			if c > 0 {
				sb.WriteString(mid)
			}
			sb.WriteString(strings.Repeat(fill, w+2))
		}
		sb.WriteString(right)
		sb.WriteByte('\n')
	}
	row := func(values []string, align func(c int, s string, w int) string) {
		sb.WriteString("│")
		for c, w := range cols {
			sb.WriteString(" ")
			sb.WriteString(align(c, values[c], w))
			sb.WriteString(" │")
		}
		sb.WriteByte('\n')
	}
	centered := func(_ int, s string, w int) string { return padCenter(s, w) }
	aligned := func(c int, s string, w int) string {
		if s == rowEllipsis {
			return padCenter(s, w)
		}
		if numeric[c] {
			return padLeft(s, w)
		}
		return padRight(s, w)
	}

	line("┌", "─", "┬", "┐")
	row(pick(header), centered)
	row(pick(typeRow), centered)
	line("├", "─", "┼", "┤")
	for _, values := range cells {
		row(pick(values), aligned)
	}
	line("└", "─", "┴", "┘")

	// 5) footer
	footer := plural(total, "row")
	if total > r.cfg.MaxRows {
		footer += fmt.Sprintf(" (%d shown)", r.cfg.MaxRows)
	}
	if dropped {
		footer += fmt.Sprintf("  %s (%d shown)", plural(ncols, "column"), shown)
	}
	sb.WriteString(footer)
	sb.WriteByte('\n')
	return sb.String()
}

func (r *BoxRenderer) cell(v value.Value) string {
	if v.IsNull() {
		return r.truncate(r.cfg.NullValue)
	}
	s := EscapeCell(v.String())
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\r", `\r`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return r.truncate(s)
}

func (r *BoxRenderer) truncate(s string) string {
	if displayWidth(s) <= r.cfg.MaxColWidth {
		return s
	}
	limit := r.cfg.MaxColWidth - displayWidth(ellipsis)
	var sb strings.Builder
	w := 0
	for _, c := range s {
		cw := runeWidth(c)
		if w+cw > limit {
			break
		}
		sb.WriteRune(c)
		w += cw
	}
	return sb.String() + ellipsis
}

// boxWidth is the printed width of a line with the given column widths.
func boxWidth(widths []int, withEllipsis bool) int {
	total := 1
	for _, w := range widths {
		total += w + 3
	}
	if withEllipsis {
		total += displayWidth(ellipsis) + 3
	}
	return total
}

// displayWidth counts terminal cells: East Asian wide and fullwidth runes
// take two.
func displayWidth(s string) int {
	n := 0
	for _, c := range s {
		n += runeWidth(c)
	}
	return n
}

func runeWidth(c rune) int {
	switch width.LookupRune(c).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

func padRight(s string, w int) string {
	if n := displayWidth(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}

func padLeft(s string, w int) string {
	if n := displayWidth(s); n < w {
		return strings.Repeat(" ", w-n) + s
	}
	return s
}

func padCenter(s string, w int) string {
	n := displayWidth(s)
	if n >= w {
		return s
	}
	left := (w - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", w-n-left)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
