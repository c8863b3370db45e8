package collision

import "slices"

// Handle removes a listener registered on a Manager.
type Handle struct {
	remove func()
}

// Remove unregisters the listener. It is safe to call more than once.
func (h Handle) Remove() {
	if h.remove != nil {
		h.remove()
	}
}

// OnHover registers fn for hover events.
func (m *Manager[R]) OnHover(fn func(HoverEvent[R])) Handle {
	id := m.id(fn == nil)
	m.hover = append(m.hover, listener[HoverEvent[R]]{id: id, fn: fn})
	return Handle{remove: func() { m.hover = without(m.hover, id) }}
}

// OnClick registers fn for click events.
func (m *Manager[R]) OnClick(fn func(ClickEvent[R])) Handle {
	id := m.id(fn == nil)
	m.click = append(m.click, listener[ClickEvent[R]]{id: id, fn: fn})
	return Handle{remove: func() { m.click = without(m.click, id) }}
}

// OnDrag registers fn for drag movement.
func (m *Manager[R]) OnDrag(fn func(DragEvent)) Handle {
	id := m.id(fn == nil)
	m.drag = append(m.drag, listener[DragEvent]{id: id, fn: fn})
	return Handle{remove: func() { m.drag = without(m.drag, id) }}
}

// OnDragEnd registers fn for the end of a drag.
func (m *Manager[R]) OnDragEnd(fn func(DragEndEvent)) Handle {
	id := m.id(fn == nil)
	m.dragEnd = append(m.dragEnd, listener[DragEndEvent]{id: id, fn: fn})
	return Handle{remove: func() { m.dragEnd = without(m.dragEnd, id) }}
}

// Clear removes every listener.
func (m *Manager[R]) Clear() {
	m.hover = nil
	m.click = nil
	m.drag = nil
	m.dragEnd = nil
}

// Listeners returns the number of registered listeners.
func (m *Manager[R]) Listeners() int {
	return len(m.hover) + len(m.click) + len(m.drag) + len(m.dragEnd)
}

func (m *Manager[R]) id(nilFn bool) uint32 {
	if nilFn {
		panic("collision: nil listener")
	}
	m.nextID++
	return m.nextID
}

// without returns a copy of s minus the listener id. Dispatch loops range
// over the old slice, so it must not be modified in place.
func without[E any](s []listener[E], id uint32) []listener[E] {
	return slices.DeleteFunc(slices.Clone(s), func(l listener[E]) bool { return l.id == id })
}
