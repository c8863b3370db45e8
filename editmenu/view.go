package editmenu

import (
	"fmt"

	"github.com/milk9111/seatgrid/collision"
	"github.com/milk9111/seatgrid/layout"
	"github.com/milk9111/seatgrid/render"
)

// Hit-test references for the menu's controls.
const (
	noElement = -1
	elemLayer = 0
	elemField = elemLayer + numLayers
	elemType  = elemField + numFields
	elemApply = elemType + len(typeChoices)
)

const clearChoice layout.CellType = "none"

var typeChoices = [...]layout.CellType{
	layout.TypeSeat, layout.TypeAisle, layout.TypeWall, layout.TypeDoor, layout.TypeCustom, clearChoice,
}

const (
	pad      = 8.0
	rowH     = 24.0
	labelW   = 80.0
	textSize = 12.0

	panelColor   = "#fafafa"
	ctrlColor    = "#ffffff"
	activeColor  = "#bbdefb"
	hoverColor   = "#e3f2fd"
	edgeColor    = "#9e9e9e"
	focusColor   = "#1976d2"
	inkColor     = "#212121"
	mutedColor   = "#757575"
	errorColor   = "#d32f2f"
	placeholder  = "Select a cell to edit its style"
	applyCaption = "Apply"
)

// view is everything the menu's pixels depend on.
type view struct {
	state    State
	index    int
	cellType layout.CellType
	empty    bool
	layer    Layer
	inputs   [numFields]string
	focus    Field
	caret    bool
	hover    int
	err      string
	w, h     float64
}

func (m *Menu) view() view {
	w, h := m.surface.Size()
	v := view{
		state:  m.state,
		index:  m.index,
		layer:  m.layer,
		inputs: m.inputs,
		focus:  m.focus,
		caret:  m.CaretVisible(),
		hover:  m.hover,
		err:    m.err,
		w:      w,
		h:      h,
		empty:  m.cell == nil,
	}
	if m.cell != nil {
		v.cellType = m.cell.Type
	}
	return v
}

// Render paints the menu if its visible state changed since the last paint
// and reports whether it did. Control hit rectangles are refreshed either
// way.
func (m *Menu) Render() bool {
	v := m.view()
	m.recs = m.recs[:0]
	m.frame.Background = panelColor
	m.frame.Fill = m.frame.Fill[:0]
	m.frame.Border = m.frame.Border[:0]
	m.frame.Text = m.frame.Text[:0]
	m.build(v)
	m.hits.SetRecords(m.recs)
	if m.painted && v == m.prev {
		return false
	}
	m.frame.Paint(m.surface)
	m.prev = v
	m.painted = true
	return true
}

// Invalidate forces the next Render to paint.
func (m *Menu) Invalidate() { m.painted = false }

func (m *Menu) build(v view) {
	y := pad
	if v.state == Unselected {
		m.label(pad, y, placeholder, mutedColor)
		return
	}

	title := fmt.Sprintf("Cell %d: %s", v.index, v.cellType)
	if v.empty {
		title = fmt.Sprintf("Cell %d: empty", v.index)
	}
	m.label(pad, y, title, inkColor)
	y += rowH + pad

	// layer tabs
	tw := (v.w - 2*pad) / numLayers
	for l := Layer(0); l < numLayers; l++ {
		m.button(elemLayer+int(l), pad+float64(l)*tw, y, tw, rowH, l.String(), l == v.layer, v.hover)
	}
	y += rowH + pad

	for f := Field(0); f < numFields; f++ {
		m.label(pad, y+(rowH-textSize)/2, f.String(), inkColor)
		m.field(v, f, pad+labelW, y, v.w-2*pad-labelW, rowH)
		y += rowH + pad/2
	}
	y += pad / 2

	bw := (v.w - 2*pad) / float64(len(typeChoices))
	for i, t := range typeChoices {
		active := t == v.cellType && !v.empty
		if t == clearChoice {
			active = false
		}
		m.button(elemType+i, pad+float64(i)*bw, y, bw, rowH, string(t), active, v.hover)
	}
	y += rowH + pad

	m.button(elemApply, pad, y, v.w-2*pad, rowH, applyCaption, false, v.hover)
	y += rowH + pad

	if v.err != "" {
		m.label(pad, y, v.err, errorColor)
	}
}

func (m *Menu) register(el int, x, y, w, h float64) {
	m.recs = append(m.recs, collision.NewRecord(x, y, w, h, el))
}

func (m *Menu) label(x, y float64, s, color string) {
	m.frame.Text = append(m.frame.Text, render.Instruction{
		Op: render.OpText, X: x, Y: y, Text: s, Size: textSize, Color: color, Alpha: 1,
	})
}

func (m *Menu) button(el int, x, y, w, h float64, caption string, active bool, hover int) {
	m.register(el, x, y, w, h)
	bg := ctrlColor
	switch {
	case active:
		bg = activeColor
	case hover == el:
		bg = hoverColor
	}
	m.frame.Fill = append(m.frame.Fill, render.Instruction{Op: render.OpFillRect, X: x, Y: y, W: w, H: h, Color: bg, Alpha: 1})
	m.frame.Border = append(m.frame.Border, render.Instruction{Op: render.OpStrokeRect, X: x, Y: y, W: w, H: h, LineWidth: 1, Color: edgeColor, Alpha: 1})
	tw, asc, desc := m.measurer.Measure(caption, textSize)
	m.frame.Text = append(m.frame.Text, render.Instruction{
		Op:    render.OpText,
		X:     x + (w-tw)/2,
		Y:     y + (h-(asc+desc))/2,
		Text:  caption,
		Size:  textSize,
		Color: inkColor,
		Alpha: 1,
	})
}

func (m *Menu) field(v view, f Field, x, y, w, h float64) {
	m.register(elemField+int(f), x, y, w, h)
	edge, lw := edgeColor, 1.0
	if v.focus == f {
		edge, lw = focusColor, 2
	}
	m.frame.Fill = append(m.frame.Fill, render.Instruction{Op: render.OpFillRect, X: x, Y: y, W: w, H: h, Color: ctrlColor, Alpha: 1})
	m.frame.Border = append(m.frame.Border, render.Instruction{Op: render.OpStrokeRect, X: x, Y: y, W: w, H: h, LineWidth: lw, Color: edge, Alpha: 1})

	s := v.inputs[f]
	tw, _, _ := m.measurer.Measure(s, textSize)
	_, asc, desc := m.measurer.Measure("M", textSize)
	ty := y + (h-(asc+desc))/2
	if s != "" {
		m.frame.Text = append(m.frame.Text, render.Instruction{
			Op: render.OpText, X: x + pad/2, Y: ty, Text: s, Size: textSize, Color: inkColor, Alpha: 1,
		})
	}
	if v.focus == f && v.caret {
		m.frame.Border = append(m.frame.Border, render.Instruction{
			Op: render.OpLine, X: x + pad/2 + tw + 1, Y: ty, H: asc + desc, LineWidth: 1, Color: inkColor, Alpha: 1,
		})
	}
}
