// Package numbering names the seats of a layout with a small tengo script.
// The script sees the seat's position and running counters as globals and
// assigns the global `name`.
package numbering

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/seatgrid/layout"
)

//go:embed scripts/*.tengo
var scriptsFS embed.FS

var ErrNoName = errors.New("numbering: script left name empty")

// Vars are the globals a numbering script can read.
type Vars struct {
	Index int // cell index
	Row   int
	Col   int
	// Seq counts seats in reading order, starting at Options.Start.
	Seq int
	// SeatRow counts rows that contain at least one seat, from 0.
	SeatRow int
	// RowSeq counts seats within the row, from 1.
	RowSeq int
	// Name is the seat's current name.
	Name string
}

// Script is a compiled numbering script. It is not safe for concurrent use.
type Script struct {
	compiled *tengo.Compiled
}

// Compile compiles src. The fmt, text and math modules are importable.
func Compile(src []byte) (*Script, error) {
	s := tengo.NewScript(src)
	for _, v := range []string{"index", "row", "col", "seq", "seat_row", "row_seq"} {
		_ = s.Add(v, 0)
	}
	_ = s.Add("name", "")
	s.SetImports(stdlib.GetModuleMap("fmt", "text", "math"))
	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("numbering: compile: %w", err)
	}
	return &Script{compiled: compiled}, nil
}

// Name runs the script for one seat.
func (s *Script) Name(v Vars) (string, error) {
	set := map[string]any{
		"index":    v.Index,
		"row":      v.Row,
		"col":      v.Col,
		"seq":      v.Seq,
		"seat_row": v.SeatRow,
		"row_seq":  v.RowSeq,
		"name":     v.Name,
	}
	for k, val := range set {
		if err := s.compiled.Set(k, val); err != nil {
			return "", err
		}
	}
	if err := s.compiled.Run(); err != nil {
		return "", fmt.Errorf("numbering: seat %d: %w", v.Index, err)
	}
	name := strings.TrimSpace(s.compiled.Get("name").String())
	if name == "" {
		return "", fmt.Errorf("%w: seat %d", ErrNoName, v.Index)
	}
	return name, nil
}

// Options tunes Apply.
type Options struct {
	// Start is the first seq value; 0 means 1.
	Start int
}

// Apply names every seat of l in reading order and raises
// l.HighestSeatNumber to the last seq handed out. It returns the number of
// seats named. On error l is left unchanged.
func Apply(l *layout.Layout, s *Script, opts Options) (int, error) {
	seq := opts.Start
	if seq <= 0 {
		seq = 1
	}
	names := map[int]string{}
	seatRow := -1
	for row := 0; row < l.Height; row++ {
		rowSeq := 0
		for col := 0; col < l.Width; col++ {
			i := l.Index(col, row)
			c := l.Cells[i]
			if c == nil || c.Type != layout.TypeSeat {
				continue
			}
			if rowSeq == 0 {
				seatRow++
			}
			rowSeq++
			name, err := s.Name(Vars{Index: i, Row: row, Col: col, Seq: seq, SeatRow: seatRow, RowSeq: rowSeq, Name: c.Name})
			if err != nil {
				return 0, err
			}
			names[i] = name
			seq++
		}
	}
	for i, name := range names {
		c := l.Cells[i].Clone()
		c.Name = name
		l.Cells[i] = c
	}
	if last := seq - 1; last > l.HighestSeatNumber {
		l.HighestSeatNumber = last
	}
	return len(names), nil
}

// Builtin lists the embedded scripts by name.
func Builtin() []string {
	entries, _ := scriptsFS.ReadDir("scripts")
	var out []string
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".tengo"))
	}
	sort.Strings(out)
	return out
}

// Load reads a script from disk when name is an existing file, otherwise
// from the embedded scripts.
func Load(name string) (*Script, error) {
	if data, err := os.ReadFile(name); err == nil {
		return Compile(data)
	}
	clean := strings.TrimSuffix(path.Base(name), ".tengo")
	data, err := scriptsFS.ReadFile("scripts/" + clean + ".tengo")
	if err != nil {
		return nil, fmt.Errorf("numbering: no script %q: %w", name, err)
	}
	return Compile(data)
}

// MaxNumber returns the largest seat name that parses as an integer, or 0.
func MaxNumber(l *layout.Layout) int {
	best := 0
	for _, c := range l.Cells {
		if c == nil || c.Type != layout.TypeSeat {
			continue
		}
		if n, err := strconv.Atoi(c.Name); err == nil && n > best {
			best = n
		}
	}
	return best
}
