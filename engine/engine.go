// Package engine wires the grid model, camera, hit-testing, rendering and the
// edit menu into a single seat-map instance hosted on one or two surfaces.
// The host feeds it input events and clock ticks; it never performs I/O.
package engine

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/milk9111/seatgrid/camera"
	"github.com/milk9111/seatgrid/collision"
	"github.com/milk9111/seatgrid/editmenu"
	"github.com/milk9111/seatgrid/input"
	"github.com/milk9111/seatgrid/layout"
	"github.com/milk9111/seatgrid/render"
	"github.com/milk9111/seatgrid/style"
)

var (
	ErrMissingMount = errors.New("engine: mount point not found")
	ErrBadMode      = errors.New("engine: bad mode")
	ErrLocked       = errors.New("engine: cell is locked")
	ErrOutOfRange   = errors.New("engine: cell index out of range")
	ErrDestroyed    = errors.New("engine: destroyed")
)

// Modes, re-exported for hosts.
const (
	ModeView    = render.ModeView
	ModeEdit    = render.ModeEdit
	ModePreview = render.ModePreview
)

const (
	KeyPollInterval = camera.KeyPollInterval
	BlinkInterval   = editmenu.BlinkInterval * time.Millisecond
	fpsWindow       = time.Second
)

// Surface is a drawing target that also delivers input.
type Surface interface {
	render.Surface
	// Subscribe registers fn for every input event on the surface and
	// returns a function that removes it.
	Subscribe(fn func(input.Event)) (unsubscribe func())
}

// Host resolves mount point ids to surfaces.
type Host interface {
	Surface(id string) (Surface, bool)
}

// Options configures Create.
type Options struct {
	Mode      render.Mode
	SurfaceID string
	// EditMenuID is required in edit mode and optional in preview mode.
	EditMenuID string
	Layout     layout.Serialized
	// Locked cells are drawn but refuse selection and edits in edit mode.
	Locked []int
	// Theme defaults to style.Builtin. The layout's per-type overrides are
	// layered on top of it.
	Theme *style.Theme
	// Measurer defaults to render.NewFontMeasurer.
	Measurer render.Measurer
	ShowFPS  bool

	// OnSelect fires in view mode when a seat is clicked.
	OnSelect func(index int)
	// OnSave receives the exported layout when Save is called.
	OnSave func(layout.Serialized)
	// OnReject fires whenever an interaction or edit is refused.
	OnReject func(index int, err error)

	Logger *log.Logger
}

// Engine is one seat-map instance. It is not safe for concurrent use; all
// calls must come from the host's main loop.
type Engine struct {
	opts   Options
	log    *log.Logger
	mode   render.Mode
	layout *layout.Layout
	base   *style.Theme
	theme  *style.Theme
	locked map[int]bool

	surface     Surface
	menuSurface Surface
	cam         *camera.Camera
	hits        *collision.Manager[int]
	pipe        *render.Pipeline
	menu        *editmenu.Menu
	unsubscribe []func()

	hovered  int
	selected int
	touches  int
	tapX     float64
	tapY     float64
	dirty    bool

	lastPoll  time.Time
	lastBlink time.Time
	fpsStart  time.Time
	frames    int

	destroyed bool
}

// Create mounts an engine on the host's surfaces.
func Create(host Host, opts Options) (*Engine, error) {
	switch opts.Mode {
	case ModeView, ModeEdit, ModePreview:
	default:
		return nil, fmt.Errorf("%w: %d", ErrBadMode, opts.Mode)
	}
	surface, ok := host.Surface(opts.SurfaceID)
	if !ok {
		return nil, fmt.Errorf("%w: surface %q", ErrMissingMount, opts.SurfaceID)
	}
	var menuSurface Surface
	if opts.EditMenuID != "" {
		menuSurface, ok = host.Surface(opts.EditMenuID)
		if !ok {
			return nil, fmt.Errorf("%w: edit menu %q", ErrMissingMount, opts.EditMenuID)
		}
	}
	if opts.Mode == ModeEdit && menuSurface == nil {
		return nil, fmt.Errorf("%w: edit mode needs an edit menu", ErrMissingMount)
	}

	l, err := layout.Decode(opts.Layout)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	e := &Engine{
		opts:     opts,
		log:      opts.Logger,
		mode:     opts.Mode,
		layout:   l,
		base:     opts.Theme,
		locked:   map[int]bool{},
		surface:  surface,
		cam:      camera.New(l.Global.ZoomLevel),
		hits:     collision.NewManager(-1),
		hovered:  -1,
		selected: -1,
	}
	if e.log == nil {
		e.log = log.Default()
	}
	if e.base == nil {
		e.base = style.Builtin()
	}
	e.theme = e.base.With(l.Global.CellStyle)
	for _, i := range opts.Locked {
		if !l.InRange(i) {
			e.log.Printf("engine: ignoring locked index %d outside %dx%d grid", i, l.Width, l.Height)
			continue
		}
		e.locked[i] = true
	}

	e.cam.SetMapSize(float64(l.Width)*render.BaseCellSize, float64(l.Height)*render.BaseCellSize)
	e.cam.SetViewport(surface.Size())

	e.hits.OnHover(e.onHover)
	e.hits.OnClick(e.onClick)
	e.hits.OnDrag(e.onDrag)
	e.hits.OnDragEnd(e.onDragEnd)
	e.pipe = render.NewPipeline(surface, opts.Measurer, e.hits)
	e.unsubscribe = append(e.unsubscribe, surface.Subscribe(e.handle))

	if menuSurface != nil {
		e.menuSurface = menuSurface
		e.menu = editmenu.New(menuSurface, editmenu.Options{
			Commit:   e.commit,
			OnCancel: e.onMenuCancel,
			Measurer: opts.Measurer,
		})
		e.unsubscribe = append(e.unsubscribe, menuSurface.Subscribe(e.handleMenu))
	}

	e.log.Printf("engine: created %s engine for %dx%d layout (%d locked)", e.mode, l.Width, l.Height, len(e.locked))
	e.Render()
	return e, nil
}

// Mode returns the current mode.
func (e *Engine) Mode() render.Mode { return e.mode }

// Selected returns the selected cell index, or -1.
func (e *Engine) Selected() int { return e.selected }

// Hovered returns the hovered cell index, or -1.
func (e *Engine) Hovered() int { return e.hovered }

// Camera exposes the camera for hosts that drive it directly.
func (e *Engine) Camera() *camera.Camera { return e.cam }

// Menu returns the edit menu, or nil when none is mounted.
func (e *Engine) Menu() *editmenu.Menu { return e.menu }

// Cell returns the cell at index.
func (e *Engine) Cell(i int) (*layout.Cell, bool) {
	c, ok := e.layout.At(i)
	return c.Clone(), ok
}

// Locked reports whether index is locked.
func (e *Engine) Locked(i int) bool { return e.locked[i] }

// Draws returns how many grid frames have been painted.
func (e *Engine) Draws() int { return e.pipe.Draws() }

// ExportLayout serializes the current grid.
func (e *Engine) ExportLayout() (layout.Serialized, error) {
	if e.destroyed {
		return layout.Serialized{}, ErrDestroyed
	}
	return layout.Encode(e.layout), nil
}

// Save exports the layout and hands it to OnSave.
func (e *Engine) Save() error {
	s, err := e.ExportLayout()
	if err != nil {
		return err
	}
	if e.opts.OnSave != nil {
		e.opts.OnSave(s)
	}
	return nil
}

// TogglePreview switches between edit and preview. Committed edits are kept;
// the selection and any uncommitted menu input are dropped.
func (e *Engine) TogglePreview() (render.Mode, error) {
	if e.destroyed {
		return e.mode, ErrDestroyed
	}
	switch e.mode {
	case ModeEdit:
		e.mode = ModePreview
	case ModePreview:
		if e.menu == nil {
			return e.mode, fmt.Errorf("%w: edit mode needs an edit menu", ErrMissingMount)
		}
		e.mode = ModeEdit
	default:
		return e.mode, fmt.Errorf("%w: cannot toggle preview from %s", ErrBadMode, e.mode)
	}
	e.clearSelection()
	e.hovered = -1
	e.Render()
	return e.mode, nil
}

// Select selects index as if it had been clicked, without emitting
// OnSelect. An out-of-range index clears the selection.
func (e *Engine) Select(i int) error {
	if e.destroyed {
		return ErrDestroyed
	}
	if !e.layout.InRange(i) {
		e.clearSelection()
		e.Render()
		return nil
	}
	if e.mode == ModeEdit && e.locked[i] {
		return e.reject(i, ErrLocked)
	}
	e.selectCell(i)
	e.Render()
	return nil
}

// SetCell replaces the content of index; nil empties it. A stale index
// clears the selection and reports ErrOutOfRange.
func (e *Engine) SetCell(i int, c *layout.Cell) error {
	if e.destroyed {
		return ErrDestroyed
	}
	if !e.layout.InRange(i) {
		e.clearSelection()
		e.Render()
		return e.reject(i, fmt.Errorf("%w: %d", ErrOutOfRange, i))
	}
	if c != nil && !c.Type.Valid() {
		return e.reject(i, fmt.Errorf("engine: %w: %q", layout.ErrUnknownCellType, c.Type))
	}
	if err := e.commit(i, c); err != nil {
		return err
	}
	if e.menu != nil && e.menu.Index() == i {
		e.menu.Select(i, c)
	}
	e.Render()
	return nil
}

// SetCellStyle replaces the style override of index, placing an untyped
// cell on an empty position.
func (e *Engine) SetCellStyle(i int, o *layout.StyleOverride) error {
	c, ok := e.layout.At(i)
	if !ok {
		return e.SetCell(i, nil)
	}
	c = c.Clone()
	if c == nil {
		c = &layout.Cell{}
	}
	c.Style = o.Clone()
	if c.Style.Empty() {
		c.Style = nil
	}
	return e.SetCell(i, c)
}

// ReplaceLayout swaps in a new layout, e.g. after the host reloaded it. The
// old layout stays in place if s does not decode. Selection is cleared and
// locked indexes outside the new grid are dropped.
func (e *Engine) ReplaceLayout(s layout.Serialized) error {
	if e.destroyed {
		return ErrDestroyed
	}
	l, err := layout.Decode(s)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	e.layout = l
	e.theme = e.base.With(l.Global.CellStyle)
	for i := range e.locked {
		if !l.InRange(i) {
			delete(e.locked, i)
		}
	}
	e.clearSelection()
	e.hovered = -1
	e.cam.SetMapSize(float64(l.Width)*render.BaseCellSize, float64(l.Height)*render.BaseCellSize)
	e.pipe.Invalidate()
	e.log.Printf("engine: layout replaced with %dx%d grid", l.Width, l.Height)
	e.Render()
	return nil
}

// SetTheme replaces the base theme.
func (e *Engine) SetTheme(t *style.Theme) {
	if t == nil {
		t = style.Builtin()
	}
	e.base = t
	e.theme = t.With(e.layout.Global.CellStyle)
	e.Render()
}

// Update advances the engine's two interval timers to now: held-key camera
// panning and the edit menu's caret blink. Missed intervals coalesce into a
// single step. It also picks up surface resizes.
func (e *Engine) Update(now time.Time) {
	if e.destroyed {
		return
	}
	if e.cam.SetViewport(e.surface.Size()) {
		e.pipe.Invalidate()
		e.dirty = true
	}
	if e.cam.Holding() {
		if now.Sub(e.lastPoll) >= KeyPollInterval {
			e.lastPoll = now
			if e.cam.PollKeys() {
				e.dirty = true
			}
		}
	} else {
		e.lastPoll = now
	}
	if e.menu != nil && now.Sub(e.lastBlink) >= BlinkInterval {
		e.lastBlink = now
		e.menu.Tick()
	}
	if e.dirty {
		e.Render()
	}
	e.fps(now)
}

func (e *Engine) fps(now time.Time) {
	if !e.opts.ShowFPS {
		return
	}
	if e.fpsStart.IsZero() {
		e.fpsStart = now
		return
	}
	e.frames++
	if d := now.Sub(e.fpsStart); d >= fpsWindow {
		if sw, ok := e.surface.(render.StatusWriter); ok {
			sw.SetStatus(fmt.Sprintf("%.0f fps", float64(e.frames)/d.Seconds()))
		}
		e.frames = 0
		e.fpsStart = now
	}
}

// Render paints the grid, and the edit menu when mounted, skipping draws for
// anything unchanged. Hit rectangles are refreshed on every call.
func (e *Engine) Render() {
	if e.destroyed {
		return
	}
	e.dirty = false
	e.pipe.Render(render.State{
		Layout:   e.layout,
		Camera:   e.cam,
		Theme:    e.theme,
		Mode:     e.mode,
		Hovered:  e.hovered,
		Selected: e.selected,
		Locked:   e.locked,
	})
	if e.menu != nil {
		e.menu.Render()
	}
}

// Invalidate makes the next Render repaint both surfaces, e.g. after the
// host recreated them.
func (e *Engine) Invalidate() {
	e.pipe.Invalidate()
	if e.menu != nil {
		e.menu.Invalidate()
	}
	e.dirty = true
}

// Destroy removes the engine's input subscriptions and listeners. The
// engine is inert afterwards.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	for _, fn := range e.unsubscribe {
		fn()
	}
	e.unsubscribe = nil
	e.hits.Clear()
	e.hits.SetRecords(nil)
	if e.menu != nil {
		e.menu.Close()
	}
	e.cam.ReleaseKeys()
	e.destroyed = true
	e.log.Printf("engine: destroyed")
}

func (e *Engine) selectCell(i int) {
	e.selected = i
	if e.mode == ModeEdit && e.menu != nil {
		e.menu.Select(i, e.layout.Cells[i])
	}
}

func (e *Engine) clearSelection() {
	e.selected = -1
	if e.menu != nil && e.menu.State() == editmenu.Selected {
		e.menu.Deselect()
	}
}

func (e *Engine) onMenuCancel() {
	e.selected = -1
	e.dirty = true
}

// commit writes c into the grid on behalf of the edit menu and the public
// setters.
func (e *Engine) commit(i int, c *layout.Cell) error {
	if e.destroyed {
		return ErrDestroyed
	}
	if !e.layout.InRange(i) {
		return e.reject(i, fmt.Errorf("%w: %d", ErrOutOfRange, i))
	}
	if e.mode == ModeEdit && e.locked[i] {
		return e.reject(i, fmt.Errorf("%w: %d", ErrLocked, i))
	}
	e.layout.Set(i, c.Clone())
	e.dirty = true
	return nil
}

func (e *Engine) reject(i int, err error) error {
	e.log.Printf("engine: rejected cell %d: %v", i, err)
	if e.opts.OnReject != nil {
		e.opts.OnReject(i, err)
	}
	return err
}
