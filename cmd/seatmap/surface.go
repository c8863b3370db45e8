package main

import (
	"bytes"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/milk9111/seatgrid/input"
	"github.com/milk9111/seatgrid/render"
)

// fonts caches goregular faces by pixel size.
type fonts struct {
	src   *text.GoTextFaceSource
	faces map[float64]*text.GoTextFace
}

func newFonts() *fonts {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Fatalf("seatmap: load font: %v", err)
	}
	return &fonts{src: s, faces: map[float64]*text.GoTextFace{}}
}

func (f *fonts) face(size float64) *text.GoTextFace {
	if face, ok := f.faces[size]; ok {
		return face
	}
	face := &text.GoTextFace{Source: f.src, Size: size}
	f.faces[size] = face
	return face
}

// Measure implements render.Measurer with the same faces the surfaces draw
// with.
func (f *fonts) Measure(s string, size float64) (float64, float64, float64) {
	face := f.face(size)
	w, _ := text.Measure(s, face, 0)
	m := face.Metrics()
	return w, m.HAscent, m.HDescent
}

// imageSurface is an offscreen ebiten image the engine paints into. The
// image keeps its pixels between engine renders and is blitted every frame.
type imageSurface struct {
	img    *ebiten.Image
	fonts  *fonts
	subs   map[int]func(input.Event)
	nextID int
	cursor render.Cursor
	status string
}

func newImageSurface(w, h int, f *fonts) *imageSurface {
	return &imageSurface{img: ebiten.NewImage(max(w, 1), max(h, 1)), fonts: f, subs: map[int]func(input.Event){}}
}

// resize replaces the backing image. It reports whether the size changed.
func (s *imageSurface) resize(w, h int) bool {
	w, h = max(w, 1), max(h, 1)
	b := s.img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return false
	}
	s.img.Deallocate()
	s.img = ebiten.NewImage(w, h)
	return true
}

func (s *imageSurface) Size() (float64, float64) {
	b := s.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (s *imageSurface) Clear(bg string) {
	c, ok := render.ParseColor(bg)
	if !ok {
		c = color.RGBA{0xff, 0xff, 0xff, 0xff}
	}
	s.img.Fill(c)
}

func (s *imageSurface) FillRect(x, y, w, h float64, col string, alpha float64) {
	if c, ok := paint(col, alpha); ok {
		vector.FillRect(s.img, float32(x), float32(y), float32(w), float32(h), c, true)
	}
}

func (s *imageSurface) StrokeRect(x, y, w, h, lw float64, col string, alpha float64) {
	if c, ok := paint(col, alpha); ok {
		vector.StrokeRect(s.img, float32(x), float32(y), float32(w), float32(h), float32(lw), c, true)
	}
}

func (s *imageSurface) Line(x1, y1, x2, y2, lw float64, col string, alpha float64) {
	if c, ok := paint(col, alpha); ok {
		vector.StrokeLine(s.img, float32(x1), float32(y1), float32(x2), float32(y2), float32(lw), c, true)
	}
}

func (s *imageSurface) Text(x, y float64, str string, size float64, col string, alpha float64) {
	c, ok := paint(col, alpha)
	if !ok {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(s.img, str, s.fonts.face(size), op)
}

func (s *imageSurface) SetCursor(c render.Cursor) { s.cursor = c }

func (s *imageSurface) SetStatus(v string) { s.status = v }

func (s *imageSurface) Subscribe(fn func(input.Event)) func() {
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *imageSurface) emit(ev input.Event) {
	for _, fn := range s.subs {
		fn(ev)
	}
}

// paint resolves a colour string scaled by alpha. Fully transparent results
// are skipped.
func paint(col string, alpha float64) (color.RGBA, bool) {
	c, ok := render.ParseColor(col)
	if !ok || alpha <= 0 || c.A == 0 {
		return color.RGBA{}, false
	}
	if alpha < 1 {
		c = color.RGBA{
			R: uint8(float64(c.R) * alpha),
			G: uint8(float64(c.G) * alpha),
			B: uint8(float64(c.B) * alpha),
			A: uint8(float64(c.A) * alpha),
		}
	}
	return c, true
}

func cursorShape(c render.Cursor) ebiten.CursorShapeType {
	switch c {
	case render.CursorPointer:
		return ebiten.CursorShapePointer
	case render.CursorNotAllowed:
		return ebiten.CursorShapeNotAllowed
	}
	return ebiten.CursorShapeDefault
}
