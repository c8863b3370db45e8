package layout

import "fmt"

// CellType identifies what occupies a grid position.
type CellType string

const (
	TypeUnset  CellType = ""
	TypeSeat   CellType = "seat"
	TypeAisle  CellType = "aisle"
	TypeWall   CellType = "wall"
	TypeDoor   CellType = "door"
	TypeCustom CellType = "custom"
)

// CellTypes lists the built-in types in display order.
var CellTypes = []CellType{TypeSeat, TypeAisle, TypeWall, TypeDoor, TypeCustom}

// Valid reports whether t is a built-in type or unset.
func (t CellType) Valid() bool {
	switch t {
	case TypeUnset, TypeSeat, TypeAisle, TypeWall, TypeDoor, TypeCustom:
		return true
	}
	return false
}

func (t CellType) String() string {
	if t == TypeUnset {
		return "unset"
	}
	return string(t)
}

// StyleProps is a partial set of the five paint properties. A nil field is
// "not supplied" and leaves the lower layer's value in place.
type StyleProps struct {
	BackgroundColor *string  `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
	BorderColor     *string  `json:"borderColor,omitempty" yaml:"borderColor,omitempty"`
	BorderWidth     *float64 `json:"borderWidth,omitempty" yaml:"borderWidth,omitempty"`
	Text            *string  `json:"text,omitempty" yaml:"text,omitempty"`
	Opacity         *float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`
}

// Empty reports whether no property is supplied.
func (p *StyleProps) Empty() bool {
	return p == nil || (p.BackgroundColor == nil && p.BorderColor == nil &&
		p.BorderWidth == nil && p.Text == nil && p.Opacity == nil)
}

// Clone returns a deep copy of p.
func (p *StyleProps) Clone() *StyleProps {
	if p == nil {
		return nil
	}
	out := &StyleProps{
		BackgroundColor: cloneString(p.BackgroundColor),
		BorderColor:     cloneString(p.BorderColor),
		BorderWidth:     cloneFloat(p.BorderWidth),
		Text:            cloneString(p.Text),
		Opacity:         cloneFloat(p.Opacity),
	}
	return out
}

// Merge overlays the supplied fields of top onto a copy of p.
func (p *StyleProps) Merge(top *StyleProps) *StyleProps {
	out := p.Clone()
	if out == nil {
		out = &StyleProps{}
	}
	if top == nil {
		return out
	}
	if top.BackgroundColor != nil {
		out.BackgroundColor = cloneString(top.BackgroundColor)
	}
	if top.BorderColor != nil {
		out.BorderColor = cloneString(top.BorderColor)
	}
	if top.BorderWidth != nil {
		out.BorderWidth = cloneFloat(top.BorderWidth)
	}
	if top.Text != nil {
		out.Text = cloneString(top.Text)
	}
	if top.Opacity != nil {
		out.Opacity = cloneFloat(top.Opacity)
	}
	return out
}

// StyleOverride layers a default partial with hover and selected partials.
type StyleOverride struct {
	StyleProps `yaml:",inline"`
	Hover      *StyleProps `json:"hoverOverride,omitempty" yaml:"hoverOverride,omitempty"`
	Selected   *StyleProps `json:"selectedOverride,omitempty" yaml:"selectedOverride,omitempty"`
}

// Empty reports whether the override supplies nothing in any layer.
func (o *StyleOverride) Empty() bool {
	return o == nil || (o.StyleProps.Empty() && o.Hover.Empty() && o.Selected.Empty())
}

// Clone returns a deep copy of o.
func (o *StyleOverride) Clone() *StyleOverride {
	if o == nil {
		return nil
	}
	return &StyleOverride{
		StyleProps: *o.StyleProps.Clone(),
		Hover:      o.Hover.Clone(),
		Selected:   o.Selected.Clone(),
	}
}

// Merge overlays top onto a copy of o layer by layer.
func (o *StyleOverride) Merge(top *StyleOverride) *StyleOverride {
	out := o.Clone()
	if out == nil {
		out = &StyleOverride{}
	}
	if top == nil {
		return out
	}
	out.StyleProps = *out.StyleProps.Merge(&top.StyleProps)
	if top.Hover != nil {
		out.Hover = out.Hover.Merge(top.Hover)
	}
	if top.Selected != nil {
		out.Selected = out.Selected.Merge(top.Selected)
	}
	return out
}

// Cell is the content of one grid position.
type Cell struct {
	Name  string         `json:"name,omitempty" yaml:"name,omitempty"`
	Type  CellType       `json:"type,omitempty" yaml:"type,omitempty"`
	Style *StyleOverride `json:"styleOverride,omitempty" yaml:"styleOverride,omitempty"`
}

// Clone returns a deep copy of c.
func (c *Cell) Clone() *Cell {
	if c == nil {
		return nil
	}
	return &Cell{Name: c.Name, Type: c.Type, Style: c.Style.Clone()}
}

func (c *Cell) String() string {
	if c == nil {
		return "empty"
	}
	if c.Name != "" {
		return fmt.Sprintf("%s %q", c.Type, c.Name)
	}
	return c.Type.String()
}

// String, Float return pointers for building partials inline.
func String(s string) *string { return &s }

func Float(f float64) *float64 { return &f }

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
