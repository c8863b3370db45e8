// Package style resolves the paint style of a grid cell from its type
// defaults and per-cell overrides.
package style

import (
	"github.com/milk9111/seatgrid/layout"
)

// Style is a fully resolved paint style.
type Style struct {
	BackgroundColor string
	BorderColor     string
	BorderWidth     float64
	Text            string
	Opacity         float64
}

// Invisible is the style of empty grid positions.
var Invisible = Style{BackgroundColor: "transparent", BorderColor: "transparent"}

// Visible reports whether anything painted with s would show.
func (s Style) Visible() bool { return s.Opacity > 0 }

// Apply overlays the supplied fields of p onto s.
func Apply(s Style, p *layout.StyleProps) Style {
	if p == nil {
		return s
	}
	if p.BackgroundColor != nil {
		s.BackgroundColor = *p.BackgroundColor
	}
	if p.BorderColor != nil {
		s.BorderColor = *p.BorderColor
	}
	if p.BorderWidth != nil {
		s.BorderWidth = *p.BorderWidth
	}
	if p.Text != nil {
		s.Text = *p.Text
	}
	if p.Opacity != nil {
		s.Opacity = *p.Opacity
	}
	return s
}

// Resolve computes the concrete style for cell in the given interaction
// state. Layers apply lowest first: type default, type hover, type selected,
// cell custom, cell hover, cell selected. Selected partials land after hover
// partials, so a cell that is both takes the selected values.
func (t *Theme) Resolve(cell *layout.Cell, hovered, selected bool) Style {
	if cell == nil {
		return Invisible
	}
	def := t.entry(cell.Type)
	s := def.base
	if hovered {
		s = Apply(s, def.hover)
	}
	if selected {
		s = Apply(s, def.selected)
	}
	if o := cell.Style; o != nil {
		s = Apply(s, &o.StyleProps)
		if hovered {
			s = Apply(s, o.Hover)
		}
		if selected {
			s = Apply(s, o.Selected)
		}
	}
	return s
}
