package engine

import (
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/milk9111/seatgrid/editmenu"
	"github.com/milk9111/seatgrid/input"
	"github.com/milk9111/seatgrid/layout"
	"github.com/milk9111/seatgrid/render"
)

type fakeSurface struct {
	w, h   float64
	draws  int
	subs   map[int]func(input.Event)
	nextID int
	cursor render.Cursor
	status string
}

func newSurface(w, h float64) *fakeSurface {
	return &fakeSurface{w: w, h: h, subs: map[int]func(input.Event){}}
}

func (s *fakeSurface) Size() (float64, float64) { return s.w, s.h }
func (s *fakeSurface) Clear(string)             { s.draws++ }
func (s *fakeSurface) FillRect(x, y, w, h float64, c string, a float64) {
	s.draws++
}
func (s *fakeSurface) StrokeRect(x, y, w, h, lw float64, c string, a float64) {
	s.draws++
}
func (s *fakeSurface) Line(x1, y1, x2, y2, lw float64, c string, a float64) { s.draws++ }
func (s *fakeSurface) Text(x, y float64, t string, size float64, c string, a float64) {
	s.draws++
}
func (s *fakeSurface) SetCursor(c render.Cursor) { s.cursor = c }
func (s *fakeSurface) SetStatus(v string)        { s.status = v }

func (s *fakeSurface) Subscribe(fn func(input.Event)) func() {
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *fakeSurface) emit(evs ...input.Event) {
	for _, ev := range evs {
		for _, fn := range s.subs {
			fn(ev)
		}
	}
}

type fakeHost map[string]*fakeSurface

func (h fakeHost) Surface(id string) (Surface, bool) {
	s, ok := h[id]
	if !ok {
		return nil, false
	}
	return s, true
}

func seat(name string) layout.Token {
	return layout.Literal(&layout.Cell{Name: name, Type: layout.TypeSeat})
}

func aisle() layout.Token {
	return layout.Literal(&layout.Cell{Type: layout.TypeAisle})
}

var quiet = log.New(io.Discard, "", 0)

type harness struct {
	e    *Engine
	grid *fakeSurface
	menu *fakeSurface

	selected []int
	rejected []error
	saved    []layout.Serialized
}

func newHarness(t *testing.T, mode render.Mode, s layout.Serialized, locked ...int) *harness {
	t.Helper()
	h := &harness{grid: newSurface(400, 400), menu: newSurface(320, 480)}
	e, err := Create(fakeHost{"grid": h.grid, "menu": h.menu}, Options{
		Mode:       mode,
		SurfaceID:  "grid",
		EditMenuID: "menu",
		Layout:     s,
		Locked:     locked,
		OnSelect:   func(i int) { h.selected = append(h.selected, i) },
		OnReject:   func(i int, err error) { h.rejected = append(h.rejected, err) },
		OnSave:     func(s layout.Serialized) { h.saved = append(h.saved, s) },
		Logger:     quiet,
		ShowFPS:    true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	h.e = e
	return h
}

// cellCenter returns the screen position of the middle of cell i.
func (h *harness) cellCenter(i int) (float64, float64) {
	col, row := h.e.layout.Coords(i)
	return h.e.Camera().GridToScreen((float64(col)+0.5)*render.BaseCellSize, (float64(row)+0.5)*render.BaseCellSize)
}

func (h *harness) click(i int) {
	x, y := h.cellCenter(i)
	h.grid.emit(
		input.PointerMove{X: x, Y: y},
		input.PointerDown{X: x, Y: y, Buttons: input.ButtonLeft},
		input.PointerUp{X: x, Y: y, Buttons: input.ButtonLeft},
	)
}

func row(tokens ...layout.Token) layout.Serialized {
	n := 0
	for _, t := range tokens {
		n += t.Count()
	}
	return layout.Serialized{X: n, Y: 1, Cells: tokens}
}

func TestCreateErrors(t *testing.T) {
	good := row(seat("1"))
	tests := []struct {
		name string
		host fakeHost
		opts Options
		want error
	}{
		{"bad mode", fakeHost{"g": newSurface(1, 1)}, Options{Mode: 7, SurfaceID: "g", Layout: good}, ErrBadMode},
		{"missing surface", fakeHost{}, Options{SurfaceID: "g", Layout: good}, ErrMissingMount},
		{"edit without menu", fakeHost{"g": newSurface(1, 1)}, Options{Mode: ModeEdit, SurfaceID: "g", Layout: good}, ErrMissingMount},
		{"menu id not found", fakeHost{"g": newSurface(1, 1)}, Options{Mode: ModeEdit, SurfaceID: "g", EditMenuID: "m", Layout: good}, ErrMissingMount},
		{"shape mismatch", fakeHost{"g": newSurface(1, 1)}, Options{SurfaceID: "g", Layout: layout.Serialized{X: 2, Y: 2, Cells: []layout.Token{layout.Run(3)}}}, layout.ErrShapeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Logger = quiet
			_, err := Create(tt.host, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Create err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestViewModeSelectsSeats(t *testing.T) {
	h := newHarness(t, ModeView, row(seat("1"), aisle(), layout.Run(1)))

	h.click(1)
	h.click(2)
	if len(h.selected) != 0 {
		t.Fatalf("selected = %v, want none for aisle and empty cell", h.selected)
	}
	h.click(0)
	if len(h.selected) != 1 || h.selected[0] != 0 {
		t.Fatalf("selected = %v, want [0]", h.selected)
	}
	if h.e.Selected() != 0 {
		t.Fatalf("Selected() = %d", h.e.Selected())
	}
	if h.grid.cursor != render.CursorPointer {
		t.Fatalf("cursor = %v over seat", h.grid.cursor)
	}
}

func TestRenderTwiceDoesNotRedraw(t *testing.T) {
	h := newHarness(t, ModeView, row(seat("1"), seat("2")))
	h.e.Render()
	n := h.grid.draws
	h.e.Render()
	if h.grid.draws != n {
		t.Fatalf("draws = %d after second render, want %d", h.grid.draws, n)
	}
}

func TestEditEmptyGrid(t *testing.T) {
	h := newHarness(t, ModeEdit, row(layout.Run(2)))

	h.click(0)
	m := h.e.Menu()
	if m.State() != editmenu.Selected || m.Index() != 0 || m.Cell() != nil {
		t.Fatalf("menu = %v index %d cell %v", m.State(), m.Index(), m.Cell())
	}
	m.Focus(editmenu.FieldBackgroundColor)
	for _, r := range "#ff0000" {
		h.menu.emit(input.Char{Rune: r})
	}
	h.menu.emit(input.KeyDown{Key: input.KeyEnter})

	s, err := h.e.ExportLayout()
	if err != nil {
		t.Fatalf("ExportLayout: %v", err)
	}
	if len(s.Cells) != 2 {
		t.Fatalf("tokens = %d, want 2", len(s.Cells))
	}
	c := s.Cells[0].Cell
	if c == nil || c.Style == nil || *c.Style.BackgroundColor != "#ff0000" {
		t.Fatalf("token 0 = %+v", s.Cells[0])
	}
	if s.Cells[1].Cell != nil || s.Cells[1].Empty != 1 {
		t.Fatalf("token 1 = %+v, want run of 1", s.Cells[1])
	}

	if err := h.e.Save(); err != nil || len(h.saved) != 1 {
		t.Fatalf("Save: %v, saved %d", err, len(h.saved))
	}
}

func TestEnterOnEmptyCellWritesNothing(t *testing.T) {
	h := newHarness(t, ModeEdit, row(layout.Run(2)))
	h.click(0)
	h.grid.emit(input.KeyDown{Key: input.KeyEnter})

	s, err := h.e.ExportLayout()
	if err != nil {
		t.Fatalf("ExportLayout: %v", err)
	}
	if len(s.Cells) != 1 || s.Cells[0].Cell != nil || s.Cells[0].Empty != 2 {
		t.Fatalf("tokens = %+v, want one run of 2", s.Cells)
	}
}

func TestLockedCells(t *testing.T) {
	h := newHarness(t, ModeEdit, row(seat("1"), seat("2")), 1)

	h.click(1)
	if len(h.rejected) != 1 || !errors.Is(h.rejected[0], ErrLocked) {
		t.Fatalf("rejected = %v, want ErrLocked", h.rejected)
	}
	if h.e.Menu().State() != editmenu.Unselected {
		t.Fatalf("locked click selected the cell")
	}
	if h.grid.cursor != render.CursorNotAllowed {
		t.Fatalf("cursor = %v over locked cell", h.grid.cursor)
	}
	if err := h.e.Select(1); !errors.Is(err, ErrLocked) {
		t.Fatalf("Select(locked) = %v", err)
	}
	if err := h.e.SetCell(1, nil); !errors.Is(err, ErrLocked) {
		t.Fatalf("SetCell(locked) = %v", err)
	}
	if c, _ := h.e.Cell(1); c == nil {
		t.Fatalf("locked cell was cleared")
	}

	if err := h.e.SetCellStyle(0, &layout.StyleOverride{StyleProps: layout.StyleProps{Text: layout.String("x")}}); err != nil {
		t.Fatalf("SetCellStyle: %v", err)
	}
	if c, _ := h.e.Cell(0); c.Style == nil || *c.Style.Text != "x" || c.Type != layout.TypeSeat {
		t.Fatalf("cell 0 = %+v", c)
	}
}

func TestSelectOutOfRangeClears(t *testing.T) {
	h := newHarness(t, ModeEdit, row(seat("1")))
	if err := h.e.Select(0); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if err := h.e.Select(5); err != nil {
		t.Fatalf("Select(5) = %v", err)
	}
	if h.e.Selected() != -1 || h.e.Menu().State() != editmenu.Unselected {
		t.Fatalf("selection not cleared")
	}

	h.click(0)
	err := h.e.SetCellStyle(9, &layout.StyleOverride{})
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("SetCellStyle(9) = %v, want ErrOutOfRange", err)
	}
	if h.e.Selected() != -1 {
		t.Fatalf("stale index kept the selection")
	}
}

func TestEscapeClearsSelection(t *testing.T) {
	h := newHarness(t, ModeEdit, row(seat("1")))
	h.click(0)
	h.grid.emit(input.KeyDown{Key: input.KeyEscape})
	if h.e.Selected() != -1 || h.e.Menu().State() != editmenu.Unselected {
		t.Fatalf("escape did not clear selection")
	}
}

func TestTogglePreview(t *testing.T) {
	h := newHarness(t, ModeEdit, row(seat("1"), layout.Run(1)))
	if err := h.e.SetCell(1, &layout.Cell{Type: layout.TypeWall}); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if m, err := h.e.TogglePreview(); err != nil || m != ModePreview {
		t.Fatalf("TogglePreview = %v, %v", m, err)
	}
	h.click(0)
	if h.e.Selected() != -1 {
		t.Fatalf("preview click selected a cell")
	}
	if m, _ := h.e.TogglePreview(); m != ModeEdit {
		t.Fatalf("mode = %v, want edit", m)
	}
	if c, _ := h.e.Cell(1); c == nil || c.Type != layout.TypeWall {
		t.Fatalf("edit lost across preview: %v", c)
	}

	v := newHarness(t, ModeView, row(seat("1")))
	if _, err := v.e.TogglePreview(); !errors.Is(err, ErrBadMode) {
		t.Fatalf("TogglePreview in view = %v", err)
	}
}

func bigGrid() layout.Serialized {
	return layout.Serialized{X: 20, Y: 20, Cells: []layout.Token{seat("1"), layout.Run(399)}}
}

func TestDragPansWithoutClick(t *testing.T) {
	h := newHarness(t, ModeView, bigGrid())
	cam := h.e.Camera()
	x0 := cam.X
	h.grid.emit(
		input.PointerDown{X: 20, Y: 20, Buttons: input.ButtonLeft},
		input.PointerMove{X: 70, Y: 20, Buttons: input.ButtonLeft},
		input.PointerUp{X: 70, Y: 20, Buttons: input.ButtonLeft},
	)
	if cam.X != x0-50 {
		t.Fatalf("camera x = %g, want %g", cam.X, x0-50)
	}
	if len(h.selected) != 0 {
		t.Fatalf("drag also clicked: %v", h.selected)
	}
}

func TestTapSelectsPinchZooms(t *testing.T) {
	h := newHarness(t, ModeView, bigGrid())
	x, y := h.cellCenter(0)
	h.grid.emit(
		input.TouchStart{Touches: []input.Touch{{ID: 1, X: x, Y: y}}},
		input.TouchEnd{},
	)
	if len(h.selected) != 1 {
		t.Fatalf("tap selected %v, want [0]", h.selected)
	}

	z := h.e.Camera().Zoom
	h.grid.emit(
		input.TouchStart{Touches: []input.Touch{{ID: 1, X: 100, Y: 100}}},
		input.TouchStart{Touches: []input.Touch{{ID: 1, X: 100, Y: 100}, {ID: 2, X: 200, Y: 100}}},
		input.TouchMove{Touches: []input.Touch{{ID: 1, X: 50, Y: 100}, {ID: 2, X: 250, Y: 100}}},
		input.TouchEnd{Touches: []input.Touch{{ID: 2, X: 250, Y: 100}}},
		input.TouchEnd{},
	)
	if got := h.e.Camera().Zoom; got != z*2 {
		t.Fatalf("zoom = %g, want %g", got, z*2)
	}
	if len(h.selected) != 1 {
		t.Fatalf("pinch clicked: %v", h.selected)
	}
}

func TestTouchTapOrPanNeverBoth(t *testing.T) {
	tests := []struct {
		name     string
		dx       float64
		selected int
		panned   bool
	}{
		{"small_move_taps", 3, 1, false},
		{"past_threshold_pans", 20, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, ModeView, bigGrid())
			cam := h.e.Camera()
			x0, y0 := cam.X, cam.Y
			x, y := h.cellCenter(0)
			h.grid.emit(
				input.TouchStart{Touches: []input.Touch{{ID: 1, X: x, Y: y}}},
				input.TouchMove{Touches: []input.Touch{{ID: 1, X: x + tc.dx, Y: y}}},
				input.TouchEnd{},
			)
			if len(h.selected) != tc.selected {
				t.Fatalf("selected %v, want %d selections", h.selected, tc.selected)
			}
			if moved := cam.X != x0 || cam.Y != y0; moved != tc.panned {
				t.Fatalf("camera moved = %v, want %v", moved, tc.panned)
			}
		})
	}
}

func TestUpdatePollsHeldKeys(t *testing.T) {
	h := newHarness(t, ModeView, bigGrid())
	cam := h.e.Camera()
	t0 := time.Unix(100, 0)
	h.e.Update(t0)

	h.grid.emit(input.KeyDown{Key: input.KeyArrowRight})
	x := cam.X
	h.e.Update(t0.Add(20 * time.Millisecond))
	if cam.X <= x {
		t.Fatalf("camera did not move on poll")
	}
	x = cam.X
	h.e.Update(t0.Add(25 * time.Millisecond))
	if cam.X != x {
		t.Fatalf("camera moved before the poll interval")
	}
	// a long stall coalesces into one step
	h.e.Update(t0.Add(500 * time.Millisecond))
	step := cam.X - x
	h.grid.emit(input.KeyUp{Key: input.KeyArrowRight})
	x = cam.X
	h.e.Update(t0.Add(600 * time.Millisecond))
	if cam.X != x {
		t.Fatalf("camera moved after key release")
	}
	if step <= 0 || step > 8.0001 {
		t.Fatalf("coalesced step = %g", step)
	}
}

func TestWheelZoomsOnLadder(t *testing.T) {
	h := newHarness(t, ModeView, bigGrid())
	h.grid.emit(input.Wheel{X: 200, Y: 200, DY: 1})
	if got := h.e.Camera().Zoom; got != 0.75 {
		t.Fatalf("zoom = %g after scrolling down, want 0.75", got)
	}
	h.grid.emit(input.Wheel{X: 200, Y: 200, DY: -1}, input.Wheel{X: 200, Y: 200, DY: -1})
	if got := h.e.Camera().Zoom; got != 1.25 {
		t.Fatalf("zoom = %g, want 1.25", got)
	}
}

func TestFPSStatus(t *testing.T) {
	h := newHarness(t, ModeView, row(seat("1")))
	t0 := time.Unix(0, 0)
	for i := 0; i <= 60; i++ {
		h.e.Update(t0.Add(time.Duration(i) * time.Second / 60))
	}
	if h.grid.status != "60 fps" {
		t.Fatalf("status = %q, want 60 fps", h.grid.status)
	}
}

func TestReplaceLayout(t *testing.T) {
	h := newHarness(t, ModeEdit, row(seat("1"), seat("2")), 1)
	h.click(0)
	if err := h.e.ReplaceLayout(layout.Serialized{X: 1, Y: 1, Cells: []layout.Token{layout.Run(2)}}); !errors.Is(err, layout.ErrShapeMismatch) {
		t.Fatalf("ReplaceLayout(bad) = %v", err)
	}
	if h.e.Selected() != 0 {
		t.Fatalf("failed replace cleared selection")
	}
	if err := h.e.ReplaceLayout(row(aisle())); err != nil {
		t.Fatalf("ReplaceLayout: %v", err)
	}
	if h.e.Selected() != -1 || h.e.Locked(1) {
		t.Fatalf("selected = %d locked(1) = %v", h.e.Selected(), h.e.Locked(1))
	}
	s, _ := h.e.ExportLayout()
	if s.X != 1 || s.Cells[0].Cell.Type != layout.TypeAisle {
		t.Fatalf("export = %+v", s)
	}
}

func TestDestroy(t *testing.T) {
	h := newHarness(t, ModeEdit, row(seat("1")))
	h.e.Destroy()
	if len(h.grid.subs) != 0 || len(h.menu.subs) != 0 {
		t.Fatalf("subscriptions left: %d grid, %d menu", len(h.grid.subs), len(h.menu.subs))
	}
	if _, err := h.e.ExportLayout(); !errors.Is(err, ErrDestroyed) {
		t.Fatalf("ExportLayout after destroy = %v", err)
	}
	if err := h.e.Select(0); !errors.Is(err, ErrDestroyed) {
		t.Fatalf("Select after destroy = %v", err)
	}
	n := h.grid.draws
	h.e.Update(time.Now())
	h.e.Render()
	if h.grid.draws != n {
		t.Fatalf("destroyed engine drew")
	}
	h.e.Destroy()
}
