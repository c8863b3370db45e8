// Package editmenu is the side panel used in edit mode to inspect and change
// the style override of the selected grid cell. It draws onto its own surface
// and hit-tests its controls with a collision manager of its own.
package editmenu

import (
	"errors"
	"unicode"
	"unicode/utf8"

	"github.com/milk9111/seatgrid/collision"
	"github.com/milk9111/seatgrid/input"
	"github.com/milk9111/seatgrid/layout"
	"github.com/milk9111/seatgrid/render"
)

// ErrNotSelected is returned by operations that need a selected cell.
var ErrNotSelected = errors.New("editmenu: no cell selected")

const (
	// BlinkInterval is how often Tick expects to be called.
	BlinkInterval = 50
	// blinkTicks is the number of ticks between caret toggles.
	blinkTicks = 10
)

// State is the menu's top-level state.
type State int

const (
	Unselected State = iota
	Selected
)

func (s State) String() string {
	if s == Selected {
		return "selected"
	}
	return "unselected"
}

// CommitFunc writes cell (nil to clear) into the grid at index. A non-nil
// error rejects the change and the menu keeps its pending edits.
type CommitFunc func(index int, cell *layout.Cell) error

// Options configures a Menu.
type Options struct {
	Commit CommitFunc
	// OnCancel runs after escape returns the menu to Unselected.
	OnCancel func()
	Measurer render.Measurer
}

// Menu is the edit menu state machine.
type Menu struct {
	surface  render.Surface
	measurer render.Measurer
	commit   CommitFunc
	onCancel func()

	hits *collision.Manager[int]

	state   State
	index   int
	cell    *layout.Cell
	layer   Layer
	changes Changes
	inputs  [numFields]string
	focus   Field
	ticks   int
	caret   bool
	err     string
	hover   int

	frame   render.Frame
	prev    view
	painted bool
	recs    []collision.Record[int]
}

// New creates a menu drawing onto surface.
func New(surface render.Surface, opts Options) *Menu {
	m := &Menu{
		surface:  surface,
		measurer: opts.Measurer,
		commit:   opts.Commit,
		onCancel: opts.OnCancel,
		hits:     collision.NewManager(noElement),
		index:    -1,
		focus:    FieldNone,
		hover:    noElement,
	}
	if m.measurer == nil {
		m.measurer = render.NewFontMeasurer()
	}
	m.hits.OnClick(func(e collision.ClickEvent[int]) {
		if e.Buttons.Has(input.ButtonLeft) {
			m.click(e.Ref)
		}
	})
	m.hits.OnHover(func(e collision.HoverEvent[int]) {
		m.hover = e.Ref
	})
	return m
}

func (m *Menu) State() State { return m.state }

// Index returns the selected cell index, or -1.
func (m *Menu) Index() int { return m.index }

// Cell returns the selected cell as last committed. It is nil for an empty
// grid position.
func (m *Menu) Cell() *layout.Cell { return m.cell }

func (m *Menu) Layer() Layer { return m.layer }

func (m *Menu) Focused() Field { return m.focus }

// Value returns the text shown in input f.
func (m *Menu) Value(f Field) string { return m.inputs[f] }

// Pending returns the uncommitted edits.
func (m *Menu) Pending() Changes { return m.changes }

// Err returns the message of the last rejected apply, if any.
func (m *Menu) Err() string { return m.err }

// CaretVisible reports the blink phase of the text caret.
func (m *Menu) CaretVisible() bool { return m.focus != FieldNone && m.caret }

// Select moves to Selected for the cell at index, discarding any pending
// edits of a previous selection. cell may be nil for an empty position.
func (m *Menu) Select(index int, cell *layout.Cell) {
	m.state = Selected
	m.index = index
	m.cell = cell.Clone()
	m.layer = LayerDefault
	m.changes = Changes{}
	m.err = ""
	m.blur()
	m.seed()
}

// Deselect returns to Unselected and drops pending edits.
func (m *Menu) Deselect() {
	m.state = Unselected
	m.index = -1
	m.cell = nil
	m.layer = LayerDefault
	m.changes = Changes{}
	m.inputs = [numFields]string{}
	m.err = ""
	m.blur()
}

// SetLayer switches the layer being edited. Inputs are re-seeded from the
// new layer; text already typed for any layer stays pending.
func (m *Menu) SetLayer(l Layer) {
	if m.state != Selected || l < 0 || l >= numLayers || l == m.layer {
		return
	}
	m.layer = l
	m.seed()
}

// seed fills the inputs from the cell's override for the active layer,
// preferring text still pending for it.
func (m *Menu) seed() {
	var o *layout.StyleOverride
	if m.cell != nil {
		o = m.cell.Style
	}
	props := propsFor(o, m.layer, false)
	p := m.changes.slot(m.layer)
	for f := Field(0); f < numFields; f++ {
		if v, ok := p.Get(f); ok {
			m.inputs[f] = v
			continue
		}
		m.inputs[f] = fieldText(props, f)
	}
}

// Focus gives input f the keyboard. FieldNone removes focus.
func (m *Menu) Focus(f Field) {
	if m.state != Selected || f < FieldNone || f >= numFields {
		return
	}
	if f == FieldNone {
		m.blur()
		return
	}
	m.focus = f
	m.ticks = 0
	m.caret = true
}

func (m *Menu) blur() {
	m.focus = FieldNone
	m.ticks = 0
	m.caret = false
}

// Input types r into the focused field.
func (m *Menu) Input(r rune) bool {
	if m.focus == FieldNone || unicode.IsControl(r) {
		return false
	}
	m.edit(m.inputs[m.focus] + string(r))
	return true
}

// Backspace deletes the last rune of the focused field.
func (m *Menu) Backspace() bool {
	if m.focus == FieldNone || m.inputs[m.focus] == "" {
		return false
	}
	s := m.inputs[m.focus]
	_, size := utf8.DecodeLastRuneInString(s)
	m.edit(s[:len(s)-size])
	return true
}

func (m *Menu) edit(v string) {
	m.inputs[m.focus] = v
	m.changes.slot(m.layer).Set(m.focus, v)
	m.err = ""
	m.ticks = 0
	m.caret = true
}

// KeyDown handles escape (cancel), enter (apply) and tab (next input). It
// reports whether the key was consumed.
func (m *Menu) KeyDown(k input.Key) bool {
	if m.state != Selected {
		return false
	}
	switch k {
	case input.KeyEscape:
		m.Deselect()
		if m.onCancel != nil {
			m.onCancel()
		}
		return true
	case input.KeyEnter:
		m.Apply()
		return true
	case input.KeyTab:
		m.Focus((m.focus + 1) % numFields)
		return true
	case input.KeyBackspace:
		return m.Backspace()
	}
	return false
}

// Apply merges the pending edits onto the cell's override and commits the
// result. With nothing pending it commits nothing. On error the pending
// edits are kept.
func (m *Menu) Apply() error {
	if m.state != Selected {
		return ErrNotSelected
	}
	if m.changes.Empty() {
		return nil
	}
	cell, err := merge(m.cell, &m.changes)
	if err == nil {
		err = m.write(cell)
	}
	if err != nil {
		m.err = err.Error()
		return err
	}
	m.changes = Changes{}
	m.seed()
	return nil
}

// SetType places content of type t on the selected position, keeping any
// existing name and override.
func (m *Menu) SetType(t layout.CellType) error {
	if m.state != Selected {
		return ErrNotSelected
	}
	cell := m.cell.Clone()
	if cell == nil {
		cell = &layout.Cell{}
	}
	cell.Type = t
	return m.write(cell)
}

// ClearCell removes the content of the selected position.
func (m *Menu) ClearCell() error {
	if m.state != Selected {
		return ErrNotSelected
	}
	if err := m.write(nil); err != nil {
		return err
	}
	m.changes = Changes{}
	m.seed()
	return nil
}

func (m *Menu) write(cell *layout.Cell) error {
	if m.commit != nil {
		if err := m.commit(m.index, cell); err != nil {
			m.err = err.Error()
			return err
		}
	}
	m.cell = cell.Clone()
	m.err = ""
	return nil
}

// Tick advances the caret blink. It is a no-op unless an input is focused,
// and paints only when the visible state changed.
func (m *Menu) Tick() bool {
	if m.focus == FieldNone {
		return false
	}
	m.ticks++
	if m.ticks%blinkTicks == 0 {
		m.caret = !m.caret
	}
	return m.Render()
}

// PointerDown presses on the menu surface. Pressing outside any control
// removes focus.
func (m *Menu) PointerDown(x, y float64, b input.Buttons) {
	if len(m.hits.Hits(x, y)) == 0 {
		m.blur()
	}
	m.hits.PointerDown(x, y, b)
}

func (m *Menu) PointerMove(x, y float64) {
	m.hits.PointerMove(x, y)
	if cs, ok := m.surface.(render.CursorSetter); ok {
		if m.hover == noElement {
			cs.SetCursor(render.CursorDefault)
		} else {
			cs.SetCursor(render.CursorPointer)
		}
	}
}

func (m *Menu) PointerUp(x, y float64) { m.hits.PointerUp(x, y) }

// Leave cancels any press and clears hover.
func (m *Menu) Leave() { m.hits.Leave() }

// Close drops the menu's listeners.
func (m *Menu) Close() {
	m.hits.Clear()
	m.hits.SetRecords(nil)
}

func (m *Menu) click(el int) {
	switch {
	case el >= elemLayer && el < elemLayer+numLayers:
		m.SetLayer(Layer(el - elemLayer))
	case el >= elemField && el < elemField+numFields:
		m.Focus(Field(el - elemField))
	case el >= elemType && el < elemType+len(typeChoices):
		if t := typeChoices[el-elemType]; t == clearChoice {
			m.ClearCell()
		} else {
			m.SetType(t)
		}
	case el == elemApply:
		m.Apply()
	}
}
