package camera

import (
	"math"
	"math/rand"
	"testing"

	"github.com/milk9111/seatgrid/input"
	"github.com/milk9111/seatgrid/layout"
)

func newTestCamera() *Camera {
	c := New(1)
	c.SetViewport(800, 600)
	c.SetMapSize(2000, 1200)
	return c
}

func TestClampAfterPans(t *testing.T) {
	c := newTestCamera()
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		switch r.Intn(3) {
		case 0:
			c.Pan(r.Float64()*4000-2000, r.Float64()*4000-2000)
		case 1:
			c.PanScreen(r.Float64()*600-300, r.Float64()*600-300)
		case 2:
			c.Wheel(float64(r.Intn(3)-1), r.Float64()*800, r.Float64()*600)
		}
		vw, vh := c.ViewSize()
		if c.X < -vw/2-1e-9 || c.X > 2000-vw/2+1e-9 {
			t.Fatalf("step %d: pan.x %v outside [%v, %v]", i, c.X, -vw/2, 2000-vw/2)
		}
		if c.Y < -vh/2-1e-9 || c.Y > 1200-vh/2+1e-9 {
			t.Fatalf("step %d: pan.y %v outside [%v, %v]", i, c.Y, -vh/2, 1200-vh/2)
		}
	}
}

func TestZoomLadderOut(t *testing.T) {
	c := newTestCamera()
	c.SetZoom(MaxZoom, 400, 300)
	steps := 0
	for c.StepZoom(-1, 400, 300) {
		steps++
		if steps > len(layout.ZoomLevels) {
			t.Fatalf("zoom out never settled")
		}
	}
	if c.Zoom != MinZoom {
		t.Fatalf("expected min zoom %v, got %v", MinZoom, c.Zoom)
	}
	if steps != len(layout.ZoomLevels)-1 {
		t.Fatalf("expected %d steps, got %d", len(layout.ZoomLevels)-1, steps)
	}
	if c.Wheel(1, 400, 300) {
		t.Fatalf("wheel past the minimum should be a no-op")
	}
}

func TestZoomStepFromOffLadder(t *testing.T) {
	c := newTestCamera()
	c.Zoom = 1.1
	if !c.StepZoom(1, 0, 0) || c.Zoom != 1.25 {
		t.Fatalf("expected step up to 1.25, got %v", c.Zoom)
	}
	c.Zoom = 1.1
	if !c.StepZoom(-1, 0, 0) || c.Zoom != 1 {
		t.Fatalf("expected step down to 1, got %v", c.Zoom)
	}
}

func TestSetZoomKeepsAnchor(t *testing.T) {
	c := newTestCamera()
	c.Pan(300, 200)
	gx, gy := c.ScreenToGrid(400, 300)
	c.SetZoom(2, 400, 300)
	ax, ay := c.ScreenToGrid(400, 300)
	if math.Abs(ax-gx) > 1e-9 || math.Abs(ay-gy) > 1e-9 {
		t.Fatalf("anchor moved from (%v,%v) to (%v,%v)", gx, gy, ax, ay)
	}
}

func TestPinch(t *testing.T) {
	c := newTestCamera()
	c.Touches([]input.Touch{{ID: 1, X: 100, Y: 100}, {ID: 2, X: 200, Y: 100}})
	if !c.Touches([]input.Touch{{ID: 1, X: 50, Y: 100}, {ID: 2, X: 250, Y: 100}}) {
		t.Fatalf("expected pinch to change zoom")
	}
	if math.Abs(c.Zoom-2) > 1e-9 {
		t.Fatalf("expected zoom 2, got %v", c.Zoom)
	}
	c.Touches([]input.Touch{{ID: 1, X: 0, Y: 100}, {ID: 2, X: 10000, Y: 100}})
	if c.Zoom != MaxZoom {
		t.Fatalf("expected zoom clamped to %v, got %v", MaxZoom, c.Zoom)
	}
}

func TestSingleTouchDoesNotPan(t *testing.T) {
	c := newTestCamera()
	c.Pan(500, 500)
	x, y := c.X, c.Y
	c.Touches([]input.Touch{{ID: 1, X: 100, Y: 100}})
	if c.Touches([]input.Touch{{ID: 1, X: 140, Y: 80}}) {
		t.Fatalf("single touch reported a camera change")
	}
	if c.X != x || c.Y != y {
		t.Fatalf("single touch panned to (%v,%v)", c.X, c.Y)
	}
}

func TestKeyboardPan(t *testing.T) {
	tests := []struct {
		name string
		keys []input.Key
		mods input.Modifiers
		dist float64
	}{
		{"single_axis", []input.Key{input.KeyArrowRight}, 0, KeyPanStep},
		{"diagonal", []input.Key{input.KeyArrowRight, input.KeyArrowDown}, 0, KeyPanStep},
		{"fast", []input.Key{input.KeyArrowLeft}, input.ModShift, KeyPanStep * FastPanMultiplier},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCamera()
			c.Pan(600, 400)
			x, y := c.X, c.Y
			for _, k := range tc.keys {
				c.KeyDown(k, tc.mods)
			}
			if !c.PollKeys() {
				t.Fatalf("expected movement")
			}
			d := math.Hypot(c.X-x, c.Y-y)
			if math.Abs(d-tc.dist) > 1e-9 {
				t.Fatalf("expected distance %v, got %v", tc.dist, d)
			}
			for _, k := range tc.keys {
				c.KeyUp(k, 0)
			}
			if c.PollKeys() {
				t.Fatalf("expected no movement after release")
			}
		})
	}
}

func TestMarginCentersSmallMap(t *testing.T) {
	c := New(1)
	c.SetViewport(800, 600)
	c.SetMapSize(200, 100)
	mx, my := c.Margin()
	if mx != 300 || my != 250 {
		t.Fatalf("expected margin (300,250), got (%v,%v)", mx, my)
	}
	sx, sy := c.GridToScreen(0, 0)
	if sx != 300 || sy != 250 {
		t.Fatalf("expected origin at (300,250), got (%v,%v)", sx, sy)
	}
	if c.Pan(50, 50) {
		t.Fatalf("a map that fits the viewport should not pan")
	}
	minX, maxX, minY, maxY := c.Bounds()
	if c.X < minX || c.X > maxX || c.Y < minY || c.Y > maxY {
		t.Fatalf("centered pan (%v,%v) outside bounds", c.X, c.Y)
	}
}
