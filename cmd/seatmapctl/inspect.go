package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/milk9111/seatgrid/layout"
	"github.com/milk9111/seatgrid/style"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	frameStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9e9e9e"))
)

// glyph is the one-character marker for a cell in the grid view.
func glyph(c *layout.Cell) string {
	if c == nil {
		return "."
	}
	switch c.Type {
	case layout.TypeSeat:
		return "s"
	case layout.TypeAisle:
		return "a"
	case layout.TypeWall:
		return "#"
	case layout.TypeDoor:
		return "d"
	case layout.TypeCustom:
		return "c"
	}
	return "?"
}

func gridView(l *layout.Layout, color bool) string {
	theme := style.Builtin().With(l.Global.CellStyle)
	var b strings.Builder
	for row := 0; row < l.Height; row++ {
		for col := 0; col < l.Width; col++ {
			c := l.Cells[l.Index(col, row)]
			g := glyph(c)
			if color && c != nil {
				st := theme.Resolve(c, false, false)
				g = lipgloss.NewStyle().
					Background(lipgloss.Color(st.BackgroundColor)).
					Foreground(lipgloss.Color(st.BorderColor)).
					Render(g)
			} else if color {
				g = dimStyle.Render(g)
			}
			b.WriteString(g)
		}
		if row < l.Height-1 {
			b.WriteByte('\n')
		}
	}
	if !color {
		return b.String()
	}
	return frameStyle.Render(b.String())
}

// counts tallies cells by type. Empty positions count under "empty".
func counts(l *layout.Layout) map[string]int {
	out := map[string]int{}
	for _, c := range l.Cells {
		if c == nil {
			out["empty"]++
			continue
		}
		out[c.Type.String()]++
	}
	return out
}

func summary(l *layout.Layout) string {
	n := counts(l)
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%dx%d", l.Width, l.Height)))
	fmt.Fprintf(&b, " highest seat %d, zoom %g\n", l.HighestSeatNumber, l.Global.ZoomLevel)
	for _, t := range layout.CellTypes {
		if n[t.String()] > 0 {
			fmt.Fprintf(&b, "  %-8s %d\n", t, n[t.String()])
		}
	}
	if n["unset"] > 0 {
		fmt.Fprintf(&b, "  %-8s %d\n", "unset", n["unset"])
	}
	fmt.Fprintf(&b, "  %-8s %d", "empty", n["empty"])
	return b.String()
}
