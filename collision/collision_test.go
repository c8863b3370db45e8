package collision

import (
	"testing"

	"github.com/milk9111/seatgrid/input"
)

type recorder struct {
	hovers   []int
	clicks   []int
	drags    []DragEvent
	dragEnds int
}

func newGridManager(t *testing.T) (*Manager[int], *recorder) {
	t.Helper()
	m := NewManager(-1)
	// 2x2 grid of 10px cells
	for i := 0; i < 4; i++ {
		m.Add(NewRecord(float64(i%2)*10, float64(i/2)*10, 10, 10, i))
	}
	rec := &recorder{}
	m.OnHover(func(e HoverEvent[int]) { rec.hovers = append(rec.hovers, e.Ref) })
	m.OnClick(func(e ClickEvent[int]) { rec.clicks = append(rec.clicks, e.Ref) })
	m.OnDrag(func(e DragEvent) { rec.drags = append(rec.drags, e) })
	m.OnDragEnd(func(DragEndEvent) { rec.dragEnds++ })
	return m, rec
}

func TestClickWithoutMove(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float64
		clicks []int
	}{
		{"first_cell", 5, 5, []int{0}},
		{"last_cell", 15, 15, []int{3}},
		{"shared_edge_goes_right", 10, 5, []int{1}},
		{"outside", 25, 25, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, rec := newGridManager(t)
			m.PointerDown(tc.x, tc.y, input.ButtonLeft)
			m.PointerUp(tc.x, tc.y)
			if len(rec.clicks) != len(tc.clicks) {
				t.Fatalf("expected clicks %v, got %v", tc.clicks, rec.clicks)
			}
			for i := range tc.clicks {
				if rec.clicks[i] != tc.clicks[i] {
					t.Fatalf("expected clicks %v, got %v", tc.clicks, rec.clicks)
				}
			}
			if len(rec.drags) != 0 || rec.dragEnds != 0 {
				t.Fatalf("a click must never also drag")
			}
		})
	}
}

func TestOverlappingRecordsAllClick(t *testing.T) {
	m := NewManager(-1)
	m.Add(NewRecord(0, 0, 20, 20, 7))
	m.Add(NewRecord(5, 5, 5, 5, 8))
	var got []int
	var buttons input.Buttons
	m.OnClick(func(e ClickEvent[int]) {
		got = append(got, e.Ref)
		buttons = e.Buttons
	})
	m.PointerDown(6, 6, input.ButtonRight)
	m.PointerUp(6, 6)
	if len(got) != 2 || got[0] != 7 || got[1] != 8 {
		t.Fatalf("expected clicks [7 8], got %v", got)
	}
	if buttons != input.ButtonRight {
		t.Fatalf("expected right button, got %v", buttons)
	}
}

func TestDragSuppressesClick(t *testing.T) {
	m, rec := newGridManager(t)
	m.PointerDown(2, 2, input.ButtonLeft)
	m.PointerMove(12, 2)
	m.PointerMove(14, 4)
	m.PointerUp(14, 4)
	if len(rec.clicks) != 0 {
		t.Fatalf("expected no clicks after drag, got %v", rec.clicks)
	}
	if len(rec.drags) != 2 {
		t.Fatalf("expected 2 drag events, got %d", len(rec.drags))
	}
	if rec.drags[0].DX != 10 || rec.drags[1].DX != 2 || rec.drags[1].DY != 2 {
		t.Fatalf("unexpected drag deltas %+v", rec.drags)
	}
	if rec.dragEnds != 1 {
		t.Fatalf("expected one drag end, got %d", rec.dragEnds)
	}
}

func TestSmallMoveRetargetsPress(t *testing.T) {
	m, rec := newGridManager(t)
	m.PointerDown(8, 5, input.ButtonLeft)
	m.PointerMove(11, 5)
	m.PointerUp(11, 5)
	if len(rec.clicks) != 1 || rec.clicks[0] != 1 {
		t.Fatalf("expected click on cell 1, got %v", rec.clicks)
	}
	if len(rec.drags) != 0 {
		t.Fatalf("movement inside the threshold must not drag")
	}
}

func TestHoverSentinel(t *testing.T) {
	m, rec := newGridManager(t)
	m.PointerMove(15, 5)
	m.PointerMove(50, 50)
	if len(rec.hovers) != 2 || rec.hovers[0] != 1 || rec.hovers[1] != -1 {
		t.Fatalf("expected hovers [1 -1], got %v", rec.hovers)
	}
	m.Leave()
	if rec.hovers[len(rec.hovers)-1] != -1 {
		t.Fatalf("expected leave to report the sentinel")
	}
}

func TestRemoveListener(t *testing.T) {
	m := NewManager(-1)
	m.Add(NewRecord(0, 0, 10, 10, 0))
	calls := 0
	h := m.OnClick(func(ClickEvent[int]) { calls++ })
	m.PointerDown(1, 1, input.ButtonLeft)
	m.PointerUp(1, 1)
	h.Remove()
	h.Remove()
	m.PointerDown(1, 1, input.ButtonLeft)
	m.PointerUp(1, 1)
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if m.Listeners() != 0 {
		t.Fatalf("expected no listeners, got %d", m.Listeners())
	}
}

func TestRemoveListenerDuringDispatch(t *testing.T) {
	m := NewManager(-1)
	m.Add(NewRecord(0, 0, 10, 10, 0))
	var order []string
	var first Handle
	first = m.OnClick(func(ClickEvent[int]) {
		order = append(order, "first")
		first.Remove()
	})
	m.OnClick(func(ClickEvent[int]) { order = append(order, "second") })

	m.PointerDown(1, 1, input.ButtonLeft)
	m.PointerUp(1, 1)
	if len(order) != 2 || order[1] != "second" {
		t.Fatalf("removing a listener mid-dispatch skipped the next one: %v", order)
	}

	order = nil
	m.PointerDown(1, 1, input.ButtonLeft)
	m.PointerUp(1, 1)
	if len(order) != 1 || order[0] != "second" {
		t.Fatalf("expected only the remaining listener, got %v", order)
	}
}

func TestBoxEdges(t *testing.T) {
	bb := Box(10, 20, 30, 40)
	if bb.L != 10 || bb.B != 20 || bb.R != 40 || bb.T != 60 {
		t.Fatalf("Box = %v", bb)
	}
	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"inside", 11, 21, true},
		{"top_left_corner", 10, 20, true},
		{"right_edge", 40, 30, false},
		{"bottom_edge", 20, 60, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Contains(bb, tc.x, tc.y); got != tc.want {
				t.Fatalf("Contains(%v, %v) = %v, want %v", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestNilListenerPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for nil listener")
		}
	}()
	NewManager(-1).OnClick(nil)
}

func TestCancelDropsGesture(t *testing.T) {
	m, rec := newGridManager(t)
	m.PointerDown(5, 5, input.ButtonLeft)
	m.Cancel()
	m.PointerUp(5, 5)
	if len(rec.clicks) != 0 {
		t.Fatalf("expected no click after cancel, got %v", rec.clicks)
	}
}

func TestRecordsRefreshPerFrame(t *testing.T) {
	m := NewManager(-1)
	m.SetRecords([]Record[int]{NewRecord(0, 0, 10, 10, 1)})
	m.SetRecords([]Record[int]{NewRecord(20, 0, 10, 10, 2)})
	if hits := m.Hits(5, 5); len(hits) != 0 {
		t.Fatalf("stale record still hit: %v", hits)
	}
	if hits := m.Hits(25, 5); len(hits) != 1 || hits[0] != 2 {
		t.Fatalf("expected hit 2, got %v", hits)
	}
}
