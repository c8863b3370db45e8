// Package camera holds the pan/zoom transform between grid and screen space
// and turns wheel, touch and held-key input into camera motion.
package camera

import (
	"math"
	"time"

	"github.com/milk9111/seatgrid/input"
	"github.com/milk9111/seatgrid/layout"
)

const (
	// KeyPanStep is the grid-pixel distance moved per poll while an arrow
	// key is held.
	KeyPanStep        = 8.0
	FastPanMultiplier = 3.0
	KeyPollInterval   = 16 * time.Millisecond

	zoomEpsilon = 1e-9
)

var (
	MinZoom = layout.ZoomLevels[0]
	MaxZoom = layout.ZoomLevels[len(layout.ZoomLevels)-1]
)

// Camera maps grid coordinates (unscaled pixels) to screen coordinates.
// X and Y are the grid point shown at the top-left of the viewport.
type Camera struct {
	X, Y float64
	Zoom float64

	viewW, viewH float64
	mapW, mapH   float64

	held map[input.Key]bool
	fast bool

	pinch pinchState
}

type pinchState struct {
	count    int
	prevDist float64
}

// New creates a camera at the origin with zoom clamped to the ladder range.
func New(zoom float64) *Camera {
	return &Camera{Zoom: clamp(zoom, MinZoom, MaxZoom), held: map[input.Key]bool{}}
}

// SetViewport sets the screen size in pixels.
func (c *Camera) SetViewport(w, h float64) bool {
	if c.viewW == w && c.viewH == h {
		return false
	}
	c.viewW, c.viewH = w, h
	c.Clamp()
	return true
}

// SetMapSize sets the grid size in unscaled pixels.
func (c *Camera) SetMapSize(w, h float64) bool {
	if c.mapW == w && c.mapH == h {
		return false
	}
	c.mapW, c.mapH = w, h
	c.Clamp()
	return true
}

// Viewport returns the screen size.
func (c *Camera) Viewport() (float64, float64) { return c.viewW, c.viewH }

// MapSize returns the grid size in unscaled pixels.
func (c *Camera) MapSize() (float64, float64) { return c.mapW, c.mapH }

// ViewSize returns the viewport size in grid units.
func (c *Camera) ViewSize() (float64, float64) {
	return c.viewW / c.Zoom, c.viewH / c.Zoom
}

// GridToScreen converts a grid point to screen space.
func (c *Camera) GridToScreen(gx, gy float64) (float64, float64) {
	return (gx - c.X) * c.Zoom, (gy - c.Y) * c.Zoom
}

// ScreenToGrid converts a screen point to grid space.
func (c *Camera) ScreenToGrid(sx, sy float64) (float64, float64) {
	return sx/c.Zoom + c.X, sy/c.Zoom + c.Y
}

// Margin returns the screen offset of the map origin on axes where the map
// is smaller than the viewport and therefore centered; zero otherwise.
func (c *Camera) Margin() (float64, float64) {
	mx := math.Max(0, (c.viewW-c.mapW*c.Zoom)/2)
	my := math.Max(0, (c.viewH-c.mapH*c.Zoom)/2)
	return mx, my
}

// Bounds returns the allowed pan range: never more than half a viewport of
// empty space beyond any map edge.
func (c *Camera) Bounds() (minX, maxX, minY, maxY float64) {
	vw, vh := c.ViewSize()
	return -vw / 2, c.mapW - vw/2, -vh / 2, c.mapH - vh/2
}

// Clamp pulls the pan back into Bounds. On an axis where the whole map fits
// in the viewport the pan is pinned so the map sits centered. It reports
// whether anything moved.
func (c *Camera) Clamp() bool {
	minX, maxX, minY, maxY := c.Bounds()
	x := clamp(c.X, minX, maxX)
	y := clamp(c.Y, minY, maxY)
	vw, vh := c.ViewSize()
	if c.mapW <= vw {
		x = (c.mapW - vw) / 2
	}
	if c.mapH <= vh {
		y = (c.mapH - vh) / 2
	}
	changed := x != c.X || y != c.Y
	c.X, c.Y = x, y
	return changed
}

// Pan moves the camera by a grid-space delta.
func (c *Camera) Pan(dx, dy float64) bool {
	x, y := c.X, c.Y
	c.X += dx
	c.Y += dy
	c.Clamp()
	return x != c.X || y != c.Y
}

// PanScreen moves the view with a screen-space drag delta, so the content
// follows the pointer.
func (c *Camera) PanScreen(dx, dy float64) bool {
	return c.Pan(-dx/c.Zoom, -dy/c.Zoom)
}

// CenterOn places grid point (gx, gy) at the middle of the viewport.
func (c *Camera) CenterOn(gx, gy float64) bool {
	vw, vh := c.ViewSize()
	return c.Pan(gx-vw/2-c.X, gy-vh/2-c.Y)
}

// SetZoom changes zoom, keeping the grid point under screen (sx, sy) fixed.
func (c *Camera) SetZoom(z, sx, sy float64) bool {
	z = clamp(z, MinZoom, MaxZoom)
	if z == c.Zoom {
		return false
	}
	gx, gy := c.ScreenToGrid(sx, sy)
	c.Zoom = z
	c.X = gx - sx/z
	c.Y = gy - sy/z
	c.Clamp()
	return true
}

// StepZoom moves to the next ladder level strictly above (dir > 0) or below
// (dir < 0) the current zoom. At either end of the ladder it stays put.
func (c *Camera) StepZoom(dir int, sx, sy float64) bool {
	next, ok := nextLevel(c.Zoom, dir)
	if !ok {
		return false
	}
	return c.SetZoom(next, sx, sy)
}

// Wheel applies one discrete wheel step at screen (sx, sy). Scrolling down
// (dy > 0) zooms out.
func (c *Camera) Wheel(dy, sx, sy float64) bool {
	switch {
	case dy > 0:
		return c.StepZoom(-1, sx, sy)
	case dy < 0:
		return c.StepZoom(1, sx, sy)
	}
	return false
}

func nextLevel(z float64, dir int) (float64, bool) {
	levels := layout.ZoomLevels
	if dir < 0 {
		for i := len(levels) - 1; i >= 0; i-- {
			if levels[i] < z-zoomEpsilon {
				return levels[i], true
			}
		}
		return 0, false
	}
	for _, lvl := range levels {
		if lvl > z+zoomEpsilon {
			return lvl, true
		}
	}
	return 0, false
}

// Touches consumes the current set of touch points. Two touches pinch-zoom
// by the ratio of successive distances. A single touch is only tracked: the
// engine pans it as a pointer drag so a tap is never also a pan.
func (c *Camera) Touches(touches []input.Touch) bool {
	switch len(touches) {
	case 1:
		c.pinch = pinchState{count: 1}
		return false
	case 2:
		a, b := touches[0], touches[1]
		dist := math.Hypot(b.X-a.X, b.Y-a.Y)
		midX, midY := (a.X+b.X)/2, (a.Y+b.Y)/2
		if c.pinch.count != 2 || c.pinch.prevDist == 0 {
			c.pinch = pinchState{count: 2, prevDist: dist}
			return false
		}
		ratio := dist / c.pinch.prevDist
		c.pinch.prevDist = dist
		if dist == 0 {
			return false
		}
		return c.SetZoom(c.Zoom*ratio, midX, midY)
	}
	c.pinch = pinchState{}
	return false
}

// EndTouches resets gesture tracking for the touches still down.
func (c *Camera) EndTouches(remaining []input.Touch) {
	c.pinch = pinchState{}
	if len(remaining) > 0 {
		c.Touches(remaining)
	}
}

// KeyDown records a held key.
func (c *Camera) KeyDown(k input.Key, mods input.Modifiers) {
	c.fast = mods&input.ModShift != 0 || k == input.KeyShift || c.fast
	if isArrow(k) {
		c.held[k] = true
	}
}

// KeyUp releases a held key.
func (c *Camera) KeyUp(k input.Key, mods input.Modifiers) {
	if k == input.KeyShift {
		c.fast = false
	} else {
		c.fast = mods&input.ModShift != 0
	}
	delete(c.held, k)
}

// ReleaseKeys forgets all held keys, e.g. when the host loses focus.
func (c *Camera) ReleaseKeys() {
	clear(c.held)
	c.fast = false
}

// Holding reports whether any arrow key is held.
func (c *Camera) Holding() bool { return len(c.held) > 0 }

// PollKeys moves the camera for the arrow keys currently held. Diagonal
// motion is scaled by 1/√2 so it is no faster than axis motion.
func (c *Camera) PollKeys() bool {
	if len(c.held) == 0 {
		return false
	}
	var dx, dy float64
	if c.held[input.KeyArrowLeft] {
		dx--
	}
	if c.held[input.KeyArrowRight] {
		dx++
	}
	if c.held[input.KeyArrowUp] {
		dy--
	}
	if c.held[input.KeyArrowDown] {
		dy++
	}
	if dx != 0 && dy != 0 {
		dx *= math.Sqrt2 / 2
		dy *= math.Sqrt2 / 2
	}
	step := KeyPanStep
	if c.fast {
		step *= FastPanMultiplier
	}
	return c.Pan(dx*step, dy*step)
}

func isArrow(k input.Key) bool {
	return k == input.KeyArrowUp || k == input.KeyArrowDown || k == input.KeyArrowLeft || k == input.KeyArrowRight
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
