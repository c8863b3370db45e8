package layout

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultBackgroundColor = "#f4f4f4"
	DefaultZoomLevel       = 1.0
)

// ZoomLevels is the discrete zoom ladder, ascending.
var ZoomLevels = []float64{0.25, 0.5, 0.75, 1, 1.25, 1.5, 2, 3, 4}

var (
	ErrShapeMismatch   = errors.New("layout: cell count does not match width*height")
	ErrInvalidToken    = errors.New("layout: invalid empty-run token")
	ErrUnknownCellType = errors.New("layout: unknown cell type")
	ErrBadDimensions   = errors.New("layout: width and height must be positive")
)

// GlobalOverride holds layout-wide presentation defaults.
type GlobalOverride struct {
	BackgroundColor string                     `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
	ZoomLevel       float64                    `json:"zoomLevel,omitempty" yaml:"zoomLevel,omitempty"`
	CellStyle       map[CellType]StyleOverride `json:"cellStyleOverride,omitempty" yaml:"cellStyleOverride,omitempty"`
}

func (g GlobalOverride) clone() GlobalOverride {
	out := GlobalOverride{BackgroundColor: g.BackgroundColor, ZoomLevel: g.ZoomLevel}
	if g.CellStyle != nil {
		out.CellStyle = make(map[CellType]StyleOverride, len(g.CellStyle))
		for t, o := range g.CellStyle {
			out.CellStyle[t] = *o.Clone()
		}
	}
	return out
}

// Layout is the dense, decoded grid. Cells are row-major: index = row*Width + col.
type Layout struct {
	Width             int
	Height            int
	HighestSeatNumber int
	Cells             []*Cell
	Global            GlobalOverride
}

// Len returns the number of grid positions.
func (l *Layout) Len() int { return l.Width * l.Height }

// InRange reports whether i addresses a grid position.
func (l *Layout) InRange(i int) bool { return l != nil && i >= 0 && i < len(l.Cells) }

// At returns the cell at i. ok is false when i is out of range.
func (l *Layout) At(i int) (*Cell, bool) {
	if !l.InRange(i) {
		return nil, false
	}
	return l.Cells[i], true
}

// Set replaces the cell at i. It reports false when i is out of range.
func (l *Layout) Set(i int, c *Cell) bool {
	if !l.InRange(i) {
		return false
	}
	l.Cells[i] = c
	return true
}

// Index converts a column/row pair to a cell index, or -1 if off-grid.
func (l *Layout) Index(col, row int) int {
	if col < 0 || row < 0 || col >= l.Width || row >= l.Height {
		return -1
	}
	return row*l.Width + col
}

// Coords converts a cell index to column and row.
func (l *Layout) Coords(i int) (col, row int) {
	if l.Width == 0 {
		return 0, 0
	}
	return i % l.Width, i / l.Width
}

// Clone returns a deep copy of l.
func (l *Layout) Clone() *Layout {
	if l == nil {
		return nil
	}
	cells := make([]*Cell, len(l.Cells))
	for i, c := range l.Cells {
		cells[i] = c.Clone()
	}
	return &Layout{
		Width:             l.Width,
		Height:            l.Height,
		HighestSeatNumber: l.HighestSeatNumber,
		Cells:             cells,
		Global:            l.Global.clone(),
	}
}

// Serialized is the wire/storage form of a layout.
type Serialized struct {
	X                 int             `json:"x" yaml:"x"`
	Y                 int             `json:"y" yaml:"y"`
	HighestSeatNumber int             `json:"highestSeatNumber" yaml:"highestSeatNumber"`
	Cells             Tokens          `json:"cells" yaml:"cells"`
	GlobalOverride    *GlobalOverride `json:"globalOverride,omitempty" yaml:"globalOverride,omitempty"`
}

// DecodeCells expands empty-run tokens into nil cells and checks the result
// against width*height.
func DecodeCells(tokens []Token, width, height int) ([]*Cell, error) {
	want := width * height
	cells := make([]*Cell, 0, want)
	for i, tok := range tokens {
		if tok.Cell != nil {
			cells = append(cells, tok.Cell)
			continue
		}
		if tok.Empty < 0 {
			return nil, fmt.Errorf("%w: token %d has count %d", ErrInvalidToken, i, tok.Empty)
		}
		if len(cells)+tok.Empty > want {
			return nil, fmt.Errorf("%w: decoded more than %d cells (%dx%d)", ErrShapeMismatch, want, width, height)
		}
		for n := 0; n < tok.Empty; n++ {
			cells = append(cells, nil)
		}
	}
	if len(cells) != want {
		return nil, fmt.Errorf("%w: decoded %d cells, want %d (%dx%d)", ErrShapeMismatch, len(cells), want, width, height)
	}
	return cells, nil
}

// EncodeCells folds consecutive nil cells into run tokens.
func EncodeCells(cells []*Cell) []Token {
	out := make([]Token, 0, len(cells))
	run := 0
	for _, c := range cells {
		if c == nil {
			run++
			continue
		}
		if run > 0 {
			out = append(out, Token{Empty: run})
			run = 0
		}
		out = append(out, Token{Cell: c.Clone()})
	}
	if run > 0 {
		out = append(out, Token{Empty: run})
	}
	return out
}

// Decode builds a dense Layout from its serialized form, injecting defaults
// for anything the global block leaves out.
func Decode(s Serialized) (*Layout, error) {
	if s.X <= 0 || s.Y <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrBadDimensions, s.X, s.Y)
	}
	cells, err := DecodeCells(s.Cells, s.X, s.Y)
	if err != nil {
		return nil, err
	}
	for i, c := range cells {
		if c == nil {
			continue
		}
		if !c.Type.Valid() {
			return nil, fmt.Errorf("%w: %q at index %d", ErrUnknownCellType, c.Type, i)
		}
		cells[i] = c.Clone()
	}

	var global GlobalOverride
	if s.GlobalOverride != nil {
		global = s.GlobalOverride.clone()
		for t := range global.CellStyle {
			if !t.Valid() || t == TypeUnset {
				return nil, fmt.Errorf("%w: %q in cellStyleOverride", ErrUnknownCellType, t)
			}
		}
	}
	if global.BackgroundColor == "" {
		global.BackgroundColor = DefaultBackgroundColor
	}
	if global.ZoomLevel == 0 {
		global.ZoomLevel = DefaultZoomLevel
	}
	global.ZoomLevel = NearestZoomLevel(global.ZoomLevel)
	if global.CellStyle == nil {
		global.CellStyle = map[CellType]StyleOverride{}
	}

	return &Layout{
		Width:             s.X,
		Height:            s.Y,
		HighestSeatNumber: s.HighestSeatNumber,
		Cells:             cells,
		Global:            global,
	}, nil
}

// Encode is the inverse of Decode.
func Encode(l *Layout) Serialized {
	global := l.Global.clone()
	return Serialized{
		X:                 l.Width,
		Y:                 l.Height,
		HighestSeatNumber: l.HighestSeatNumber,
		Cells:             EncodeCells(l.Cells),
		GlobalOverride:    &global,
	}
}

// NearestZoomLevel snaps z to the closest ladder value.
func NearestZoomLevel(z float64) float64 {
	best := ZoomLevels[0]
	for _, lvl := range ZoomLevels[1:] {
		if math.Abs(lvl-z) < math.Abs(best-z) {
			best = lvl
		}
	}
	return best
}
