// Package render turns the grid, camera and interaction state into layered
// draw instructions and paints them onto a Surface, skipping frames that did
// not change.
package render

import (
	"slices"
)

// Mode selects how the grid is presented and which cells are interactive.
type Mode int

const (
	ModeView Mode = iota
	ModeEdit
	ModePreview
)

func (m Mode) String() string {
	switch m {
	case ModeView:
		return "view"
	case ModeEdit:
		return "edit"
	case ModePreview:
		return "preview"
	}
	return "unknown"
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, bool) {
	for _, m := range []Mode{ModeView, ModeEdit, ModePreview} {
		if m.String() == s {
			return m, true
		}
	}
	return 0, false
}

// Op is a draw primitive.
type Op uint8

const (
	OpFillRect Op = iota
	OpStrokeRect
	// OpLine draws from (X, Y) to (X+W, Y+H).
	OpLine
	OpText
)

// Instruction is one draw call. It is comparable so frames can be diffed
// structurally.
type Instruction struct {
	Op        Op
	X, Y      float64
	W, H      float64
	LineWidth float64
	Color     string
	Alpha     float64
	Text      string
	Size      float64
}

// Frame is the full set of instructions for one render, split into layers
// painted in order: fills, then borders and grid lines, then text.
type Frame struct {
	Background string
	Fill       []Instruction
	Border     []Instruction
	Text       []Instruction
}

// Equal reports whether f and o would paint identical output.
func (f *Frame) Equal(o *Frame) bool {
	return f.Background == o.Background &&
		slices.Equal(f.Fill, o.Fill) &&
		slices.Equal(f.Border, o.Border) &&
		slices.Equal(f.Text, o.Text)
}

// Len returns the instruction count over all layers.
func (f *Frame) Len() int { return len(f.Fill) + len(f.Border) + len(f.Text) }

// Paint issues the frame's draw calls.
func (f *Frame) Paint(s Surface) {
	s.Clear(f.Background)
	for _, layer := range [][]Instruction{f.Fill, f.Border, f.Text} {
		for _, in := range layer {
			paint(s, in)
		}
	}
}

func paint(s Surface, in Instruction) {
	switch in.Op {
	case OpFillRect:
		s.FillRect(in.X, in.Y, in.W, in.H, in.Color, in.Alpha)
	case OpStrokeRect:
		s.StrokeRect(in.X, in.Y, in.W, in.H, in.LineWidth, in.Color, in.Alpha)
	case OpLine:
		s.Line(in.X, in.Y, in.X+in.W, in.Y+in.H, in.LineWidth, in.Color, in.Alpha)
	case OpText:
		s.Text(in.X, in.Y, in.Text, in.Size, in.Color, in.Alpha)
	}
}

func (f *Frame) reset() {
	f.Background = ""
	f.Fill = f.Fill[:0]
	f.Border = f.Border[:0]
	f.Text = f.Text[:0]
}
