package main

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/seatgrid/input"
)

// region places a surface on the window.
type region struct {
	rect    image.Rectangle
	surface *imageSurface
}

var keyMap = map[ebiten.Key]input.Key{
	ebiten.KeyArrowUp:    input.KeyArrowUp,
	ebiten.KeyArrowDown:  input.KeyArrowDown,
	ebiten.KeyArrowLeft:  input.KeyArrowLeft,
	ebiten.KeyArrowRight: input.KeyArrowRight,
	ebiten.KeyEscape:     input.KeyEscape,
	ebiten.KeyEnter:      input.KeyEnter,
	ebiten.KeyBackspace:  input.KeyBackspace,
	ebiten.KeyTab:        input.KeyTab,
	ebiten.KeyShiftLeft:  input.KeyShift,
	ebiten.KeyShiftRight: input.KeyShift,
}

var buttonMap = []struct {
	mb ebiten.MouseButton
	b  input.Buttons
}{
	{ebiten.MouseButtonLeft, input.ButtonLeft},
	{ebiten.MouseButtonRight, input.ButtonRight},
	{ebiten.MouseButtonMiddle, input.ButtonMiddle},
}

// translator turns ebiten's polled input into engine events, routed to the
// surface under the pointer. A press captures the pointer until release.
type translator struct {
	hover   *imageSurface
	capture *imageSurface
	lastX   int
	lastY   int
	held    input.Buttons
	touchIn *imageSurface
	chars   []rune
	touchID []ebiten.TouchID
}

func (t *translator) update(regions []region, keys *imageSurface) {
	t.pointer(regions)
	t.touches(regions)
	t.keys(keys)
}

func at(regions []region, x, y int) *region {
	p := image.Pt(x, y)
	for i := range regions {
		if p.In(regions[i].rect) {
			return &regions[i]
		}
	}
	return nil
}

func find(regions []region, s *imageSurface) *region {
	for i := range regions {
		if regions[i].surface == s {
			return &regions[i]
		}
	}
	return nil
}

func local(r *region, x, y int) (float64, float64) {
	return float64(x - r.rect.Min.X), float64(y - r.rect.Min.Y)
}

func (t *translator) pointer(regions []region) {
	x, y := ebiten.CursorPosition()
	under := at(regions, x, y)
	var underSurface *imageSurface
	if under != nil {
		underSurface = under.surface
	}

	if t.capture == nil && underSurface != t.hover {
		if t.hover != nil {
			t.hover.emit(input.PointerLeave{})
		}
		t.hover = underSurface
	}
	target := under
	if t.capture != nil {
		target = find(regions, t.capture)
	}

	var pressed, released input.Buttons
	for _, m := range buttonMap {
		if inpututil.IsMouseButtonJustPressed(m.mb) {
			pressed |= m.b
		}
		if inpututil.IsMouseButtonJustReleased(m.mb) {
			released |= m.b
		}
	}

	if target != nil && (x != t.lastX || y != t.lastY) {
		lx, ly := local(target, x, y)
		target.surface.emit(input.PointerMove{X: lx, Y: ly, Buttons: t.held})
	}
	t.lastX, t.lastY = x, y

	if pressed != 0 && target != nil {
		t.held |= pressed
		t.capture = target.surface
		lx, ly := local(target, x, y)
		target.surface.emit(input.PointerDown{X: lx, Y: ly, Buttons: t.held})
	}
	if released != 0 && t.held != 0 {
		buttons := t.held
		t.held &^= released
		if r := find(regions, t.capture); r != nil {
			lx, ly := local(r, x, y)
			r.surface.emit(input.PointerUp{X: lx, Y: ly, Buttons: buttons})
		}
		if t.held == 0 {
			t.capture = nil
		}
	}

	if _, wy := ebiten.Wheel(); wy != 0 && under != nil {
		lx, ly := local(under, x, y)
		// ebiten reports scrolling up as positive
		under.surface.emit(input.Wheel{X: lx, Y: ly, DY: -wy})
	}
}

func (t *translator) touches(regions []region) {
	t.touchID = ebiten.AppendTouchIDs(t.touchID[:0])
	started := inpututil.AppendJustPressedTouchIDs(nil)
	ended := inpututil.AppendJustReleasedTouchIDs(nil)
	if len(t.touchID) == 0 && len(ended) == 0 {
		t.touchIn = nil
		return
	}
	if t.touchIn == nil && len(t.touchID) > 0 {
		x, y := ebiten.TouchPosition(t.touchID[0])
		if r := at(regions, x, y); r != nil {
			t.touchIn = r.surface
		}
	}
	r := find(regions, t.touchIn)
	if r == nil {
		return
	}

	var cur []input.Touch
	moved := false
	for _, id := range t.touchID {
		x, y := ebiten.TouchPosition(id)
		px, py := inpututil.TouchPositionInPreviousTick(id)
		if x != px || y != py {
			moved = true
		}
		lx, ly := local(r, x, y)
		cur = append(cur, input.Touch{ID: int(id), X: lx, Y: ly})
	}

	switch {
	case len(started) > 0:
		r.surface.emit(input.TouchStart{Touches: cur})
	case len(ended) > 0:
		r.surface.emit(input.TouchEnd{Touches: cur})
	case moved:
		r.surface.emit(input.TouchMove{Touches: cur})
	}
	if len(cur) == 0 {
		t.touchIn = nil
	}
}

func modifiers() input.Modifiers {
	var m input.Modifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		m |= input.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		m |= input.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		m |= input.ModAlt
	}
	return m
}

// keys sends keyboard and text input to s; the engine routes it onward to
// the edit menu itself.
func (t *translator) keys(s *imageSurface) {
	mods := modifiers()
	for ek, k := range keyMap {
		if inpututil.IsKeyJustPressed(ek) {
			s.emit(input.KeyDown{Key: k, Mods: mods})
		}
		if inpututil.IsKeyJustReleased(ek) {
			s.emit(input.KeyUp{Key: k, Mods: mods})
		}
	}
	t.chars = ebiten.AppendInputChars(t.chars[:0])
	for _, r := range t.chars {
		s.emit(input.Char{Rune: r})
	}
}
