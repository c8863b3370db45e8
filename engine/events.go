package engine

import (
	"github.com/milk9111/seatgrid/collision"
	"github.com/milk9111/seatgrid/editmenu"
	"github.com/milk9111/seatgrid/input"
	"github.com/milk9111/seatgrid/layout"
	"github.com/milk9111/seatgrid/render"
)

// handle processes input from the grid surface.
func (e *Engine) handle(ev input.Event) {
	if e.destroyed {
		return
	}
	switch ev := ev.(type) {
	case input.PointerDown:
		e.hits.PointerDown(ev.X, ev.Y, ev.Buttons)
	case input.PointerMove:
		e.hits.PointerMove(ev.X, ev.Y)
	case input.PointerUp:
		e.hits.PointerUp(ev.X, ev.Y)
	case input.PointerLeave:
		e.hits.Leave()
	case input.Wheel:
		if e.cam.Wheel(ev.DY, ev.X, ev.Y) {
			e.dirty = true
		}
	case input.TouchStart:
		e.touch(ev.Touches, true)
	case input.TouchMove:
		e.touch(ev.Touches, false)
	case input.TouchEnd:
		e.touchEnd(ev.Touches)
	case input.KeyDown:
		e.keyDown(ev.Key, ev.Mods)
	case input.KeyUp:
		e.cam.KeyUp(ev.Key, ev.Mods)
	case input.Char:
		e.char(ev.Rune)
	}
	if e.dirty {
		e.Render()
	}
}

// handleMenu processes input from the edit menu surface.
func (e *Engine) handleMenu(ev input.Event) {
	if e.destroyed || e.mode != ModeEdit {
		return
	}
	switch ev := ev.(type) {
	case input.PointerDown:
		e.menu.PointerDown(ev.X, ev.Y, ev.Buttons)
	case input.PointerMove:
		e.menu.PointerMove(ev.X, ev.Y)
	case input.PointerUp:
		e.menu.PointerUp(ev.X, ev.Y)
	case input.PointerLeave:
		e.menu.Leave()
	case input.KeyDown:
		e.keyDown(ev.Key, ev.Mods)
	case input.KeyUp:
		e.cam.KeyUp(ev.Key, ev.Mods)
	case input.Char:
		e.char(ev.Rune)
	}
	e.Render()
}

// touch feeds touch points to the camera for pinch zoom. A single touch is a
// pointer for hit-testing, so it either taps or, past the drag threshold,
// pans through onDrag.
func (e *Engine) touch(ts []input.Touch, start bool) {
	n := e.touches
	e.touches = len(ts)
	if e.cam.Touches(ts) {
		e.dirty = true
	}
	switch {
	case len(ts) == 1 && start && n == 0:
		e.tapX, e.tapY = ts[0].X, ts[0].Y
		e.hits.PointerDown(ts[0].X, ts[0].Y, input.ButtonLeft)
	case len(ts) == 1:
		e.tapX, e.tapY = ts[0].X, ts[0].Y
		e.hits.PointerMove(ts[0].X, ts[0].Y)
	default:
		e.hits.Cancel()
	}
}

func (e *Engine) touchEnd(remaining []input.Touch) {
	e.cam.EndTouches(remaining)
	if len(remaining) == 0 && e.touches == 1 {
		e.hits.PointerUp(e.tapX, e.tapY)
	} else {
		e.hits.Cancel()
	}
	e.touches = len(remaining)
}

func (e *Engine) keyDown(k input.Key, mods input.Modifiers) {
	switch k {
	case input.KeyArrowUp, input.KeyArrowDown, input.KeyArrowLeft, input.KeyArrowRight, input.KeyShift:
		e.cam.KeyDown(k, mods)
		return
	}
	if e.mode == ModeEdit && e.menu.KeyDown(k) {
		e.dirty = true
		return
	}
	if k == input.KeyEscape && e.selected >= 0 {
		e.clearSelection()
		e.dirty = true
	}
}

func (e *Engine) char(r rune) {
	if e.mode == ModeEdit && e.menu.Input(r) {
		e.dirty = true
	}
}

func (e *Engine) onHover(ev collision.HoverEvent[int]) {
	if ev.Ref != e.hovered {
		e.hovered = ev.Ref
		e.dirty = true
	}
	cs, ok := e.surface.(render.CursorSetter)
	if !ok || e.hits.Dragging() {
		return
	}
	cs.SetCursor(e.cursorFor(ev.Ref))
}

func (e *Engine) cursorFor(i int) render.Cursor {
	c, ok := e.layout.At(i)
	if !ok {
		return render.CursorDefault
	}
	switch e.mode {
	case ModeView:
		if c != nil && c.Type == layout.TypeSeat {
			return render.CursorPointer
		}
	case ModeEdit:
		if e.locked[i] {
			return render.CursorNotAllowed
		}
		return render.CursorPointer
	}
	return render.CursorDefault
}

func (e *Engine) onClick(ev collision.ClickEvent[int]) {
	if !ev.Buttons.Has(input.ButtonLeft) {
		return
	}
	i := ev.Ref
	switch e.mode {
	case ModeView:
		c, _ := e.layout.At(i)
		if c == nil || c.Type != layout.TypeSeat {
			return
		}
		e.selectCell(i)
		e.dirty = true
		if e.opts.OnSelect != nil {
			e.opts.OnSelect(i)
		}
	case ModeEdit:
		if e.locked[i] {
			e.reject(i, ErrLocked)
			return
		}
		if i == e.selected && e.menu.State() == editmenu.Selected {
			return
		}
		e.selectCell(i)
		e.dirty = true
	}
}

func (e *Engine) onDrag(ev collision.DragEvent) {
	if e.cam.PanScreen(ev.DX, ev.DY) {
		e.dirty = true
	}
	if cs, ok := e.surface.(render.CursorSetter); ok {
		cs.SetCursor(render.CursorDefault)
	}
}

func (e *Engine) onDragEnd(ev collision.DragEndEvent) {
	if cs, ok := e.surface.(render.CursorSetter); ok {
		cs.SetCursor(e.cursorFor(e.hovered))
	}
}
