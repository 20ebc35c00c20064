package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/rivo/uniseg"
)

// table renders left-aligned columns. Widths are measured in terminal cells,
// so full-width item names line up with ASCII ones.
type table struct {
	indent string
	rows   [][]string
}

func (t *table) add(cols ...string) {
	t.rows = append(t.rows, cols)
}

func (t *table) write(w io.Writer) {
	var widths []int
	for _, row := range t.rows {
		for i, col := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], uniseg.StringWidth(col))
		}
	}

	for _, row := range t.rows {
		var b strings.Builder
		b.WriteString(t.indent)
		for i, col := range row {
			b.WriteString(col)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-uniseg.StringWidth(col)+2))
			}
		}
		fmt.Fprintln(w, b.String())
	}
}
