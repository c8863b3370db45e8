package render

import (
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Surface is a 2D drawing target. Colours are CSS-style strings (see
// ParseColor); alpha multiplies the colour's own alpha. Text is positioned
// by the top-left corner of its bounding box.
type Surface interface {
	Size() (w, h float64)
	Clear(bg string)
	FillRect(x, y, w, h float64, color string, alpha float64)
	StrokeRect(x, y, w, h, lineWidth float64, color string, alpha float64)
	Line(x1, y1, x2, y2, lineWidth float64, color string, alpha float64)
	Text(x, y float64, text string, size float64, color string, alpha float64)
}

// Cursor is a pointer shape hint.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorPointer
	CursorNotAllowed
)

// CursorSetter is implemented by surfaces that can change the pointer shape.
type CursorSetter interface {
	SetCursor(Cursor)
}

// StatusWriter is implemented by surfaces with a status line drawn outside
// the diffed layers (the FPS readout).
type StatusWriter interface {
	SetStatus(string)
}

// Measurer reports the bounding box of text rendered at size pixels.
type Measurer interface {
	Measure(text string, size float64) (width, ascent, descent float64)
}

// FontMeasurer measures glyph bounds with an x/image font face, scaled from
// the face's native pixel size.
type FontMeasurer struct {
	Face font.Face
	Size float64
}

// NewFontMeasurer measures with basicfont.Face7x13.
func NewFontMeasurer() *FontMeasurer {
	return &FontMeasurer{Face: basicfont.Face7x13, Size: 13}
}

func (m *FontMeasurer) Measure(text string, size float64) (float64, float64, float64) {
	if text == "" || m.Size <= 0 {
		return 0, 0, 0
	}
	bounds, advance := font.BoundString(m.Face, text)
	scale := size / m.Size
	w := float64(advance) / 64
	ascent := -float64(bounds.Min.Y) / 64
	descent := float64(bounds.Max.Y) / 64
	return w * scale, ascent * scale, descent * scale
}

// ParseColor parses #rgb, #rgba, #rrggbb, #rrggbbaa, "transparent" and CSS
// colour names. ok is false for anything else.
func ParseColor(s string) (color.RGBA, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "transparent" {
		return color.RGBA{}, true
	}
	if c, ok := colornames.Map[s]; ok {
		return c, true
	}
	if len(s) == 0 || s[0] != '#' {
		return color.RGBA{}, false
	}
	hex := s[1:]
	var v []uint8
	switch len(hex) {
	case 3, 4:
		for i := 0; i < len(hex); i++ {
			n, ok := hexNibble(hex[i])
			if !ok {
				return color.RGBA{}, false
			}
			v = append(v, n<<4|n)
		}
	case 6, 8:
		for i := 0; i < len(hex); i += 2 {
			hi, ok1 := hexNibble(hex[i])
			lo, ok2 := hexNibble(hex[i+1])
			if !ok1 || !ok2 {
				return color.RGBA{}, false
			}
			v = append(v, hi<<4|lo)
		}
	default:
		return color.RGBA{}, false
	}
	c := color.RGBA{R: v[0], G: v[1], B: v[2], A: 0xff}
	if len(v) == 4 {
		// color.RGBA is alpha-premultiplied
		a := uint16(v[3])
		c = color.RGBA{R: uint8(uint16(v[0]) * a / 0xff), G: uint8(uint16(v[1]) * a / 0xff), B: uint8(uint16(v[2]) * a / 0xff), A: v[3]}
	}
	return c, true
}

func hexNibble(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	}
	return 0, false
}
