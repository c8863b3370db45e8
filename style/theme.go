package style

import (
	_ "embed"
	"fmt"

	"github.com/milk9111/seatgrid/layout"
	"gopkg.in/yaml.v3"
)

//go:embed theme.yaml
var DefaultThemeYAML []byte

type typeDefault struct {
	base     Style
	hover    *layout.StyleProps
	selected *layout.StyleProps
}

// Theme is an immutable table of per-type default styles.
type Theme struct {
	types map[layout.CellType]typeDefault
}

var builtin = map[layout.CellType]typeDefault{
	layout.TypeSeat: {
		base:     Style{BackgroundColor: "#4caf50", BorderColor: "#2e7d32", BorderWidth: 2, Opacity: 1},
		hover:    &layout.StyleProps{BackgroundColor: layout.String("#81c784")},
		selected: &layout.StyleProps{BackgroundColor: layout.String("#ffc107"), BorderColor: layout.String("#ff6f00"), BorderWidth: layout.Float(3)},
	},
	layout.TypeAisle: {
		base:     Style{BackgroundColor: "#eeeeee", BorderColor: "#e0e0e0", BorderWidth: 1, Opacity: 1},
		hover:    &layout.StyleProps{BorderColor: layout.String("#bdbdbd")},
		selected: &layout.StyleProps{BorderColor: layout.String("#ff6f00"), BorderWidth: layout.Float(2)},
	},
	layout.TypeWall: {
		base:     Style{BackgroundColor: "#424242", BorderColor: "#212121", BorderWidth: 1, Opacity: 1},
		hover:    &layout.StyleProps{BackgroundColor: layout.String("#616161")},
		selected: &layout.StyleProps{BorderColor: layout.String("#ff6f00"), BorderWidth: layout.Float(2)},
	},
	layout.TypeDoor: {
		base:     Style{BackgroundColor: "#8d6e63", BorderColor: "#5d4037", BorderWidth: 1, Text: "door", Opacity: 1},
		hover:    &layout.StyleProps{BackgroundColor: layout.String("#a1887f")},
		selected: &layout.StyleProps{BorderColor: layout.String("#ff6f00"), BorderWidth: layout.Float(2)},
	},
	layout.TypeCustom: {
		base:     Style{BackgroundColor: "#90caf9", BorderColor: "#1e88e5", BorderWidth: 1, Opacity: 1},
		hover:    &layout.StyleProps{BackgroundColor: layout.String("#bbdefb")},
		selected: &layout.StyleProps{BorderColor: layout.String("#ff6f00"), BorderWidth: layout.Float(2)},
	},
}

var builtinTheme = &Theme{types: builtin}

// Builtin returns the compiled-in theme.
func Builtin() *Theme { return builtinTheme }

// NewTheme layers overrides on top of the builtin table. The result shares
// nothing with overrides.
func NewTheme(overrides map[layout.CellType]layout.StyleOverride) *Theme {
	return Builtin().With(overrides)
}

// With returns a new theme with overrides layered over t.
func (t *Theme) With(overrides map[layout.CellType]layout.StyleOverride) *Theme {
	types := make(map[layout.CellType]typeDefault, len(t.types))
	for k, v := range t.types {
		types[k] = v
	}
	for typ, o := range overrides {
		cur, ok := types[typ]
		if !ok {
			cur = types[layout.TypeCustom]
		}
		cur.base = Apply(cur.base, &o.StyleProps)
		if o.Hover != nil {
			cur.hover = cur.hover.Merge(o.Hover)
		}
		if o.Selected != nil {
			cur.selected = cur.selected.Merge(o.Selected)
		}
		types[typ] = cur
	}
	return &Theme{types: types}
}

// Base returns the unhovered, unselected default for typ.
func (t *Theme) Base(typ layout.CellType) Style {
	return t.entry(typ).base
}

func (t *Theme) entry(typ layout.CellType) typeDefault {
	if t == nil {
		t = builtinTheme
	}
	if d, ok := t.types[typ]; ok {
		return d
	}
	return t.types[layout.TypeCustom]
}

type themeFile struct {
	Types map[layout.CellType]layout.StyleOverride `yaml:"types"`
}

// LoadTheme parses a YAML theme file and layers it over the builtin table.
func LoadTheme(data []byte) (*Theme, error) {
	var f themeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("style: unmarshal theme: %w", err)
	}
	for typ := range f.Types {
		if !typ.Valid() || typ == layout.TypeUnset {
			return nil, fmt.Errorf("style: theme: %w: %q", layout.ErrUnknownCellType, typ)
		}
	}
	return NewTheme(f.Types), nil
}
