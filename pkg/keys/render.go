package keys

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

const (
	ellipsis    = "…"
	minColWidth = 6
)

// Renderer lays key binds out in columns for help output.
type Renderer struct {
	columns [][]*KeyBind
}

// AddColumn adds a column of binds. Empty columns are ignored.
func (r *Renderer) AddColumn(kbs ...*KeyBind) {
	if len(kbs) == 0 {
		return
	}

	r.columns = append(r.columns, kbs)
}

// Render renders the columns side by side within width cells.
func (r *Renderer) Render(width int) string {
	if len(r.columns) == 0 {
		return ""
	}

	colWidth := max(minColWidth, width/len(r.columns)-2)

	cols := make([][]string, 0, len(r.columns))
	rows := 0

	for _, col := range r.columns {
		lines := renderColumn(colWidth, col)
		cols = append(cols, lines)
		rows = max(rows, len(lines))
	}

	out := make([]string, 0, rows)
	for row := range rows {
		var sb strings.Builder

		for _, lines := range cols {
			cell := strings.Repeat(" ", colWidth)
			if row < len(lines) {
				cell = lines[row]
			}

			sb.WriteString(" " + cell + " ")
		}

		out = append(out, strings.TrimRight(sb.String(), " "))
	}

	return strings.Join(out, "\n")
}

// renderColumn renders one line per bind with visible keys, padded to
// width.
func renderColumn(width int, kbs []*KeyBind) []string {
	keyWidth := 0
	for _, kb := range kbs {
		keyWidth = max(keyWidth, ansi.PrintableRuneWidth(kb.String()))
	}

	descWidth := max(0, width-keyWidth-2)

	lines := make([]string, 0, len(kbs))
	for _, kb := range kbs {
		k := kb.String()
		if k == "" {
			continue
		}

		desc := truncate.StringWithTail(kb.Description, uint(descWidth), ellipsis) //nolint:gosec // G115: non-negative.
		line := pad(k, keyWidth) + "  " + desc
		lines = append(lines, pad(line, width))
	}

	return lines
}

func pad(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-ansi.PrintableRuneWidth(s)))
}
