package style

import (
	"errors"
	"testing"

	"github.com/milk9111/seatgrid/layout"
)

func TestResolveCascade(t *testing.T) {
	theme := Builtin()
	seat := &layout.Cell{Type: layout.TypeSeat}
	base := theme.Base(layout.TypeSeat)

	tests := []struct {
		name     string
		cell     *layout.Cell
		hovered  bool
		selected bool
		want     Style
	}{
		{"nil_cell", nil, true, true, Invisible},
		{"seat_plain", seat, false, false, base},
		{"seat_hover", seat, true, false, Apply(base, builtin[layout.TypeSeat].hover)},
		{"seat_selected", seat, false, true, Apply(base, builtin[layout.TypeSeat].selected)},
		{
			name:     "selected_beats_hover",
			cell:     seat,
			hovered:  true,
			selected: true,
			want:     Apply(Apply(base, builtin[layout.TypeSeat].hover), builtin[layout.TypeSeat].selected),
		},
		{
			name: "cell_custom_over_type_hover",
			cell: &layout.Cell{Type: layout.TypeSeat, Style: &layout.StyleOverride{
				StyleProps: layout.StyleProps{BackgroundColor: layout.String("#123456")},
			}},
			hovered: true,
			want: func() Style {
				s := Apply(base, builtin[layout.TypeSeat].hover)
				s.BackgroundColor = "#123456"
				return s
			}(),
		},
		{
			name: "cell_selected_beats_cell_hover",
			cell: &layout.Cell{Type: layout.TypeWall, Style: &layout.StyleOverride{
				Hover:    &layout.StyleProps{Text: layout.String("h")},
				Selected: &layout.StyleProps{Text: layout.String("s")},
			}},
			hovered:  true,
			selected: true,
			want: func() Style {
				s := Apply(Apply(theme.Base(layout.TypeWall), builtin[layout.TypeWall].hover), builtin[layout.TypeWall].selected)
				s.Text = "s"
				return s
			}(),
		},
		{"unset_type_uses_custom", &layout.Cell{}, false, false, theme.Base(layout.TypeCustom)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := theme.Resolve(tc.cell, tc.hovered, tc.selected)
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	theme := Builtin()
	cell := &layout.Cell{Type: layout.TypeDoor, Style: &layout.StyleOverride{Hover: &layout.StyleProps{Opacity: layout.Float(0.4)}}}
	first := theme.Resolve(cell, true, false)
	for i := 0; i < 10; i++ {
		if got := theme.Resolve(cell, true, false); got != first {
			t.Fatalf("resolve changed between calls: %+v vs %+v", got, first)
		}
	}
	if cell.Style.Hover.BackgroundColor != nil {
		t.Fatalf("resolve mutated the cell")
	}
}

func TestThemeOverridesDoNotLeak(t *testing.T) {
	custom := NewTheme(map[layout.CellType]layout.StyleOverride{
		layout.TypeSeat: {StyleProps: layout.StyleProps{BackgroundColor: layout.String("#000000")}},
	})
	if got := custom.Base(layout.TypeSeat).BackgroundColor; got != "#000000" {
		t.Fatalf("expected override background, got %q", got)
	}
	if got := Builtin().Base(layout.TypeSeat).BackgroundColor; got == "#000000" {
		t.Fatalf("override leaked into the builtin theme")
	}
	if got := custom.Base(layout.TypeSeat).BorderColor; got != Builtin().Base(layout.TypeSeat).BorderColor {
		t.Fatalf("expected builtin border color to survive, got %q", got)
	}
}

func TestLoadTheme(t *testing.T) {
	theme, err := LoadTheme(DefaultThemeYAML)
	if err != nil {
		t.Fatalf("load default theme: %v", err)
	}
	if got := theme.Base(layout.TypeDoor).Text; got != "door" {
		t.Fatalf("expected door text, got %q", got)
	}

	theme, err = LoadTheme([]byte("types:\n  wall:\n    backgroundColor: red\n    hoverOverride:\n      opacity: 0.5\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s := theme.Resolve(&layout.Cell{Type: layout.TypeWall}, false, false); s.BackgroundColor != "red" || s.Opacity != 1 {
		t.Fatalf("unexpected wall style %+v", s)
	}
	if s := theme.Resolve(&layout.Cell{Type: layout.TypeWall}, true, false); s.Opacity != 0.5 {
		t.Fatalf("expected hover opacity 0.5, got %+v", s)
	}

	if _, err := LoadTheme([]byte("types:\n  stage: {}\n")); !errors.Is(err, layout.ErrUnknownCellType) {
		t.Fatalf("expected ErrUnknownCellType, got %v", err)
	}
}
