package render

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/seatgrid/camera"
	"github.com/milk9111/seatgrid/collision"
	"github.com/milk9111/seatgrid/layout"
	"github.com/milk9111/seatgrid/style"
)

// BaseCellSize is the unscaled edge length of a cell in grid pixels.
const BaseCellSize = 40.0

const (
	TextColor      = "#212121"
	TextScale      = 0.3
	HighlightColor = "#1976d2"
	LockedColor    = "#9e9e9e"
	EditFrameColor = "#757575"
	EditGridColor  = "#000000"
	EditGridAlpha  = 0.08
)

// State is everything a frame depends on.
type State struct {
	Layout   *layout.Layout
	Camera   *camera.Camera
	Theme    *style.Theme
	Mode     Mode
	Hovered  int
	Selected int
	Locked   map[int]bool
}

// Build computes the frame for s and the hit records of the cells it shows.
// Records are appended to recs, which may be nil.
func Build(s State, m Measurer, frame *Frame, recs []collision.Record[int]) []collision.Record[int] {
	frame.reset()
	l, cam := s.Layout, s.Camera
	frame.Background = l.Global.BackgroundColor

	cs := BaseCellSize * cam.Zoom
	vw, vh := cam.Viewport()
	edit := s.Mode == ModeEdit

	// cells overlapping the viewport grown by half a cell are kept, which
	// keeps one ring of partially hidden cells
	view := collision.Box(-cs/2, -cs/2, vw+cs, vh+cs)
	gx0, gy0 := cam.ScreenToGrid(0, 0)
	gx1, gy1 := cam.ScreenToGrid(vw, vh)
	col0 := max(0, int(math.Floor(gx0/BaseCellSize))-1)
	row0 := max(0, int(math.Floor(gy0/BaseCellSize))-1)
	col1 := min(l.Width-1, int(math.Ceil(gx1/BaseCellSize))+1)
	row1 := min(l.Height-1, int(math.Ceil(gy1/BaseCellSize))+1)

	if edit {
		editAffordance(s, frame, cs, view)
	}

	for row := row0; row <= row1; row++ {
		for col := col0; col <= col1; col++ {
			i := row*l.Width + col
			x, y := cam.GridToScreen(float64(col)*BaseCellSize, float64(row)*BaseCellSize)
			if !view.Intersects(collision.Box(x, y, cs, cs)) {
				continue
			}
			cell := l.Cells[i]
			hovered, selected := i == s.Hovered, i == s.Selected

			if cell != nil || edit {
				recs = append(recs, collision.NewRecord(x, y, cs, cs, i))
			}

			st := s.Theme.Resolve(cell, hovered, selected)
			if cell == nil || !st.Visible() {
				if edit && (hovered || selected) {
					highlight(frame, x, y, cs, selected)
				}
				continue
			}
			cellInstructions(frame, m, cell, st, x, y, cs, cam.Zoom)
			if edit && s.Locked[i] {
				frame.Border = append(frame.Border, Instruction{
					Op:        OpLine,
					X:         x + 3,
					Y:         y + 3,
					W:         cs - 6,
					H:         cs - 6,
					LineWidth: 1,
					Color:     LockedColor,
					Alpha:     1,
				})
			}
		}
	}
	return recs
}

func cellInstructions(frame *Frame, m Measurer, cell *layout.Cell, st style.Style, x, y, cs, zoom float64) {
	if st.BackgroundColor != "" && st.BackgroundColor != "transparent" {
		frame.Fill = append(frame.Fill, Instruction{
			Op:    OpFillRect,
			X:     x,
			Y:     y,
			W:     cs,
			H:     cs,
			Color: st.BackgroundColor,
			Alpha: st.Opacity,
		})
	}
	if st.BorderWidth > 0 && st.BorderColor != "" && st.BorderColor != "transparent" {
		frame.Border = append(frame.Border, Instruction{
			Op:        OpStrokeRect,
			X:         x,
			Y:         y,
			W:         cs,
			H:         cs,
			LineWidth: st.BorderWidth * zoom,
			Color:     st.BorderColor,
			Alpha:     st.Opacity,
		})
	}
	label := st.Text
	if label == "" {
		label = cell.Name
	}
	if label == "" || m == nil {
		return
	}
	size := cs * TextScale
	w, ascent, descent := m.Measure(label, size)
	frame.Text = append(frame.Text, Instruction{
		Op:    OpText,
		X:     x + (cs-w)/2,
		Y:     y + (cs-(ascent+descent))/2,
		W:     w,
		H:     ascent + descent,
		Color: TextColor,
		Alpha: st.Opacity,
		Text:  label,
		Size:  size,
	})
}

func highlight(frame *Frame, x, y, cs float64, selected bool) {
	in := Instruction{Op: OpStrokeRect, X: x, Y: y, W: cs, H: cs, LineWidth: 1, Color: HighlightColor, Alpha: 0.5}
	if selected {
		in.LineWidth, in.Alpha = 2, 1
	}
	frame.Border = append(frame.Border, in)
}

// editAffordance draws faint grid lines and an outer frame one cell beyond
// the playable area.
func editAffordance(s State, frame *Frame, cs float64, view cp.BB) {
	l, cam := s.Layout, s.Camera
	left, top := cam.GridToScreen(-BaseCellSize, -BaseCellSize)
	right, bottom := cam.GridToScreen(float64(l.Width+1)*BaseCellSize, float64(l.Height+1)*BaseCellSize)

	for col := 0; col <= l.Width; col++ {
		x := left + float64(col+1)*cs
		if x < view.L || x > view.R {
			continue
		}
		frame.Border = append(frame.Border, Instruction{
			Op:        OpLine,
			X:         x,
			Y:         top,
			W:         0,
			H:         bottom - top,
			LineWidth: 1,
			Color:     EditGridColor,
			Alpha:     EditGridAlpha,
		})
	}
	for row := 0; row <= l.Height; row++ {
		y := top + float64(row+1)*cs
		if y < view.B || y > view.T {
			continue
		}
		frame.Border = append(frame.Border, Instruction{
			Op:        OpLine,
			X:         left,
			Y:         y,
			W:         right - left,
			H:         0,
			LineWidth: 1,
			Color:     EditGridColor,
			Alpha:     EditGridAlpha,
		})
	}
	frame.Border = append(frame.Border, Instruction{
		Op:        OpStrokeRect,
		X:         left,
		Y:         top,
		W:         right - left,
		H:         bottom - top,
		LineWidth: 1,
		Color:     EditFrameColor,
		Alpha:     1,
	})
}

// Pipeline renders frames onto a surface and keeps the hit manager in sync
// with what was rendered.
type Pipeline struct {
	surface  Surface
	measurer Measurer
	hits     *collision.Manager[int]

	cur, prev Frame
	painted   bool
	recs      []collision.Record[int]
	draws     int
}

// NewPipeline creates a pipeline. A nil measurer uses NewFontMeasurer.
func NewPipeline(surface Surface, measurer Measurer, hits *collision.Manager[int]) *Pipeline {
	if measurer == nil {
		measurer = NewFontMeasurer()
	}
	return &Pipeline{surface: surface, measurer: measurer, hits: hits}
}

// Render builds the frame for s and refreshes the hit records. Draw calls
// are issued only when the frame differs from the last painted one; it
// reports whether it painted.
func (p *Pipeline) Render(s State) bool {
	p.recs = Build(s, p.measurer, &p.cur, p.recs[:0])
	p.hits.SetRecords(p.recs)
	if p.painted && p.cur.Equal(&p.prev) {
		return false
	}
	p.cur.Paint(p.surface)
	p.cur, p.prev = p.prev, p.cur
	p.painted = true
	p.draws++
	return true
}

// Invalidate forces the next Render to paint.
func (p *Pipeline) Invalidate() { p.painted = false }

// Draws returns how many frames have been painted.
func (p *Pipeline) Draws() int { return p.draws }

// Last returns the most recently painted frame.
func (p *Pipeline) Last() *Frame { return &p.prev }
