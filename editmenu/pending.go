package editmenu

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/milk9111/seatgrid/layout"
)

// ErrInvalidValue is returned by Apply when a numeric input does not parse
// or is out of range.
var ErrInvalidValue = errors.New("editmenu: invalid value")

// Field is one of the five style inputs.
type Field int

const (
	FieldNone Field = iota - 1
	FieldBackgroundColor
	FieldBorderColor
	FieldBorderWidth
	FieldText
	FieldOpacity

	numFields = 5
)

var fieldLabels = [numFields]string{"background", "border", "width", "text", "opacity"}

func (f Field) String() string {
	if f < 0 || f >= numFields {
		return "none"
	}
	return fieldLabels[f]
}

// Layer selects which partial of the cell's override is being edited.
type Layer int

const (
	LayerDefault Layer = iota
	LayerHover
	LayerSelected

	numLayers = 3
)

func (l Layer) String() string {
	switch l {
	case LayerDefault:
		return "default"
	case LayerHover:
		return "hover"
	case LayerSelected:
		return "selected"
	}
	return "unknown"
}

// Pending holds the raw text typed into each field of one layer. Untouched
// fields are unset; an empty string clears the property on apply.
type Pending struct {
	set    [numFields]bool
	values [numFields]string
}

// Set records v for f.
func (p *Pending) Set(f Field, v string) {
	p.set[f] = true
	p.values[f] = v
}

// Get returns the pending text for f.
func (p Pending) Get(f Field) (string, bool) {
	return p.values[f], p.set[f]
}

// Empty reports whether nothing was typed.
func (p Pending) Empty() bool {
	return p.set == [numFields]bool{}
}

// Changes is the pending edit of the selected cell, one slot per layer.
type Changes struct {
	Default  Pending
	Hover    Pending
	Selected Pending
}

func (c *Changes) slot(l Layer) *Pending {
	switch l {
	case LayerHover:
		return &c.Hover
	case LayerSelected:
		return &c.Selected
	}
	return &c.Default
}

// Empty reports whether no layer has pending text.
func (c Changes) Empty() bool {
	return c.Default.Empty() && c.Hover.Empty() && c.Selected.Empty()
}

// propsFor returns the partial of o that layer l edits, creating it when
// create is set.
func propsFor(o *layout.StyleOverride, l Layer, create bool) *layout.StyleProps {
	if o == nil {
		return nil
	}
	switch l {
	case LayerHover:
		if o.Hover == nil && create {
			o.Hover = &layout.StyleProps{}
		}
		return o.Hover
	case LayerSelected:
		if o.Selected == nil && create {
			o.Selected = &layout.StyleProps{}
		}
		return o.Selected
	}
	return &o.StyleProps
}

// fieldText formats a stored property for display in an input.
func fieldText(p *layout.StyleProps, f Field) string {
	if p == nil {
		return ""
	}
	var s *string
	var n *float64
	switch f {
	case FieldBackgroundColor:
		s = p.BackgroundColor
	case FieldBorderColor:
		s = p.BorderColor
	case FieldText:
		s = p.Text
	case FieldBorderWidth:
		n = p.BorderWidth
	case FieldOpacity:
		n = p.Opacity
	}
	switch {
	case s != nil:
		return *s
	case n != nil:
		return strconv.FormatFloat(*n, 'f', -1, 64)
	}
	return ""
}

// applyPending writes p onto props. Empty text deletes the property.
func applyPending(props *layout.StyleProps, p *Pending) error {
	for f := Field(0); f < numFields; f++ {
		v, ok := p.Get(f)
		if !ok {
			continue
		}
		switch f {
		case FieldBackgroundColor:
			props.BackgroundColor = optString(v)
		case FieldBorderColor:
			props.BorderColor = optString(v)
		case FieldText:
			props.Text = optString(v)
		case FieldBorderWidth, FieldOpacity:
			n, err := optFloat(f, v)
			if err != nil {
				return err
			}
			if f == FieldBorderWidth {
				props.BorderWidth = n
			} else {
				props.Opacity = n
			}
		}
	}
	return nil
}

func optString(v string) *string {
	if v == "" {
		return nil
	}
	return layout.String(v)
}

func optFloat(f Field, v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", ErrInvalidValue, f, v)
	}
	if n < 0 || (f == FieldOpacity && n > 1) {
		return nil, fmt.Errorf("%w: %s %q out of range", ErrInvalidValue, f, v)
	}
	return layout.Float(n), nil
}

// merge returns a copy of cell with changes applied. Partials left empty are
// dropped, and so is an override with nothing left in it. A nil result means
// the position is empty.
func merge(cell *layout.Cell, changes *Changes) (*layout.Cell, error) {
	out := cell.Clone()
	if out == nil {
		out = &layout.Cell{}
	}
	o := out.Style
	if o == nil {
		o = &layout.StyleOverride{}
	}
	for l := Layer(0); l < numLayers; l++ {
		p := changes.slot(l)
		if p.Empty() {
			continue
		}
		if err := applyPending(propsFor(o, l, true), p); err != nil {
			return nil, fmt.Errorf("%s layer: %w", l, err)
		}
	}
	if o.Hover.Empty() {
		o.Hover = nil
	}
	if o.Selected.Empty() {
		o.Selected = nil
	}
	out.Style = o
	if o.Empty() {
		out.Style = nil
	}
	// an untyped, unnamed cell with no style left is empty space again
	if out.Type == layout.TypeUnset && out.Name == "" && out.Style == nil {
		return nil, nil
	}
	return out, nil
}
