// Package collision maps pointer positions to the hit rectangles registered
// for the current frame and turns pointer gestures into hover, click and drag
// events.
package collision

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/seatgrid/input"
)

// DragThreshold is how far, in screen pixels, a held pointer must travel
// before the gesture counts as a drag instead of a click.
const DragThreshold = 4.0

// Record is a screen-space hit rectangle tagged with a reference.
type Record[R comparable] struct {
	Bounds cp.BB
	Ref    R
}

// Box returns the rectangle with top-left corner (x, y) and size w by h.
func Box(x, y, w, h float64) cp.BB {
	return cp.BB{L: x, B: y, R: x + w, T: y + h}
}

// NewRecord builds a record from a top-left corner and size.
func NewRecord[R comparable](x, y, w, h float64, ref R) Record[R] {
	return Record[R]{Bounds: Box(x, y, w, h), Ref: ref}
}

// Contains reports whether (x, y) lies in bb. The right and bottom edges are
// exclusive so neighbouring cells never both match.
func Contains(bb cp.BB, x, y float64) bool {
	return x >= bb.L && x < bb.R && y >= bb.B && y < bb.T
}

// HoverEvent is fired for every record under the pointer on each move, or
// once with the manager's none reference when nothing matches.
type HoverEvent[R comparable] struct {
	Ref  R
	X, Y float64
}

// ClickEvent is fired on release for a record that was pressed and is still
// under the pointer.
type ClickEvent[R comparable] struct {
	Ref     R
	X, Y    float64
	Buttons input.Buttons
}

// DragEvent carries the screen-space movement since the previous drag event.
type DragEvent struct {
	X, Y    float64
	DX, DY  float64
	Buttons input.Buttons
}

// DragEndEvent is fired on release after a drag.
type DragEndEvent struct {
	X, Y             float64
	TotalDX, TotalDY float64
	Buttons          input.Buttons
}

type pointerState struct {
	down     bool
	buttons  input.Buttons
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	dragging bool
}

// Manager holds one frame's hit records and the listeners for gestures on
// them.
type Manager[R comparable] struct {
	none    R
	records []Record[R]
	active  []R
	ptr     pointerState

	nextID  uint32
	hover   []listener[HoverEvent[R]]
	click   []listener[ClickEvent[R]]
	drag    []listener[DragEvent]
	dragEnd []listener[DragEndEvent]
}

type listener[E any] struct {
	id uint32
	fn func(E)
}

// NewManager creates a manager. none is the reference reported by hover
// events when the pointer is over no record.
func NewManager[R comparable](none R) *Manager[R] {
	return &Manager[R]{none: none}
}

// None returns the sentinel reference.
func (m *Manager[R]) None() R { return m.none }

// Reset drops all records.
func (m *Manager[R]) Reset() { m.records = m.records[:0] }

// Add registers a record for the current frame.
func (m *Manager[R]) Add(r Record[R]) { m.records = append(m.records, r) }

// SetRecords replaces the current frame's records.
func (m *Manager[R]) SetRecords(recs []Record[R]) {
	m.records = append(m.records[:0], recs...)
}

// Records returns the current frame's records. The slice is owned by the
// manager.
func (m *Manager[R]) Records() []Record[R] { return m.records }

// Hits returns the references of every record containing (x, y), in
// registration order.
func (m *Manager[R]) Hits(x, y float64) []R {
	var out []R
	for _, r := range m.records {
		if Contains(r.Bounds, x, y) {
			out = append(out, r.Ref)
		}
	}
	return out
}

// Pressed reports whether a pointer gesture is in progress.
func (m *Manager[R]) Pressed() bool { return m.ptr.down }

// Dragging reports whether the current gesture has become a drag.
func (m *Manager[R]) Dragging() bool { return m.ptr.dragging }

// PointerDown starts a gesture and captures the records under the pointer.
func (m *Manager[R]) PointerDown(x, y float64, buttons input.Buttons) {
	m.ptr = pointerState{down: true, buttons: buttons, startX: x, startY: y, lastX: x, lastY: y}
	m.active = m.Hits(x, y)
}

// PointerMove updates hover state and, while a button is held, either
// re-targets the pressed records or reports drag movement.
func (m *Manager[R]) PointerMove(x, y float64) {
	m.fireHover(x, y)
	if !m.ptr.down {
		m.ptr.lastX, m.ptr.lastY = x, y
		return
	}
	if !m.ptr.dragging && math.Hypot(x-m.ptr.startX, y-m.ptr.startY) > DragThreshold {
		m.ptr.dragging = true
		m.active = nil
		// report the movement made inside the threshold too
		m.ptr.lastX, m.ptr.lastY = m.ptr.startX, m.ptr.startY
	}
	if m.ptr.dragging {
		ev := DragEvent{X: x, Y: y, DX: x - m.ptr.lastX, DY: y - m.ptr.lastY, Buttons: m.ptr.buttons}
		m.ptr.lastX, m.ptr.lastY = x, y
		if ev.DX != 0 || ev.DY != 0 {
			for _, l := range m.drag {
				l.fn(ev)
			}
		}
		return
	}
	m.ptr.lastX, m.ptr.lastY = x, y
	m.active = m.Hits(x, y)
}

// PointerUp ends the gesture. A drag ends with a DragEndEvent; otherwise
// every captured record still under the pointer gets a click.
func (m *Manager[R]) PointerUp(x, y float64) {
	if !m.ptr.down {
		return
	}
	ptr := m.ptr
	active := m.active
	m.ptr = pointerState{lastX: x, lastY: y}
	m.active = nil

	if ptr.dragging {
		ev := DragEndEvent{X: x, Y: y, TotalDX: x - ptr.startX, TotalDY: y - ptr.startY, Buttons: ptr.buttons}
		for _, l := range m.dragEnd {
			l.fn(ev)
		}
		return
	}
	for _, ref := range active {
		if !m.stillUnder(ref, x, y) {
			continue
		}
		ev := ClickEvent[R]{Ref: ref, X: x, Y: y, Buttons: ptr.buttons}
		for _, l := range m.click {
			l.fn(ev)
		}
	}
}

// Cancel abandons the current gesture without firing click or drag-end.
func (m *Manager[R]) Cancel() {
	m.ptr = pointerState{lastX: m.ptr.lastX, lastY: m.ptr.lastY}
	m.active = nil
}

// Leave reports that the pointer left the surface.
func (m *Manager[R]) Leave() {
	m.Cancel()
	ev := HoverEvent[R]{Ref: m.none, X: math.NaN(), Y: math.NaN()}
	for _, l := range m.hover {
		l.fn(ev)
	}
}

func (m *Manager[R]) stillUnder(ref R, x, y float64) bool {
	for _, r := range m.records {
		if r.Ref == ref && Contains(r.Bounds, x, y) {
			return true
		}
	}
	return false
}

func (m *Manager[R]) fireHover(x, y float64) {
	hits := m.Hits(x, y)
	if len(hits) == 0 {
		ev := HoverEvent[R]{Ref: m.none, X: x, Y: y}
		for _, l := range m.hover {
			l.fn(ev)
		}
		return
	}
	for _, ref := range hits {
		ev := HoverEvent[R]{Ref: ref, X: x, Y: y}
		for _, l := range m.hover {
			l.fn(ev)
		}
	}
}
