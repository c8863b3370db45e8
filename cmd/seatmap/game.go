package main

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"golang.design/x/clipboard"

	"github.com/milk9111/seatgrid/engine"
	"github.com/milk9111/seatgrid/layout"
	"github.com/milk9111/seatgrid/layoutfile"
	"github.com/milk9111/seatgrid/render"
	"github.com/milk9111/seatgrid/style"
	"github.com/milk9111/seatgrid/watch"
)

const menuWidth = 320

// Game hosts one engine in an ebiten window: the grid on the left, the edit
// menu on the right and a toolbar on top.
type Game struct {
	engine  *engine.Engine
	fonts   *fonts
	grid    *imageSurface
	menu    *imageSurface
	toolbar *toolbar
	input   translator

	layoutPath string
	themePath  string
	outPath    string
	watcher    *watch.Watcher
	clipboard  bool

	w, h int
}

type config struct {
	layout  string
	out     string
	theme   string
	mode    render.Mode
	locked  []int
	watch   bool
	showFPS bool
	width   int
	height  int
}

func NewGame(cfg config) (*Game, error) {
	src, err := layoutfile.Load(cfg.layout)
	if err != nil {
		return nil, err
	}

	theme := style.Builtin()
	if cfg.theme != "" {
		theme, err = loadTheme(cfg.theme)
		if err != nil {
			return nil, err
		}
	}

	g := &Game{
		fonts:      newFonts(),
		layoutPath: cfg.layout,
		themePath:  cfg.theme,
		outPath:    cfg.out,
		w:          cfg.width,
		h:          cfg.height,
	}
	if g.outPath == "" {
		if _, err := os.Stat(cfg.layout); err == nil {
			g.outPath = cfg.layout
		} else {
			g.outPath = filepath.Join(".", cfg.layout+".json")
		}
	}

	gw, gh := g.gridSize(cfg.mode)
	g.grid = newImageSurface(gw, gh, g.fonts)
	g.menu = newImageSurface(menuWidth, gh, g.fonts)

	host := surfaces{"grid": g.grid}
	opts := engine.Options{
		Mode:      cfg.mode,
		SurfaceID: "grid",
		Layout:    src,
		Locked:    cfg.locked,
		Theme:     theme,
		Measurer:  g.fonts,
		ShowFPS:   cfg.showFPS,
		OnSelect: func(i int) {
			log.Printf("seatmap: selected cell %d", i)
		},
		OnSave:   g.write,
		OnReject: func(i int, err error) { log.Printf("seatmap: %v", err) },
	}
	if cfg.mode != engine.ModeView {
		host["menu"] = g.menu
		opts.EditMenuID = "menu"
	}
	g.engine, err = engine.Create(host, opts)
	if err != nil {
		return nil, err
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("seatmap: clipboard unavailable: %v", err)
	} else {
		g.clipboard = true
	}

	if cfg.watch {
		var files []string
		if _, err := os.Stat(cfg.layout); err == nil {
			files = append(files, cfg.layout)
		}
		if cfg.theme != "" {
			files = append(files, cfg.theme)
		}
		if len(files) > 0 {
			g.watcher, err = watch.New(files...)
			if err != nil {
				log.Printf("seatmap: watch disabled: %v", err)
			}
		}
	}

	g.toolbar = newToolbar(g.fonts, g)
	g.toolbar.setMode(g.engine.Mode().String())
	return g, nil
}

// surfaces is the engine.Host of the window.
type surfaces map[string]*imageSurface

func (s surfaces) Surface(id string) (engine.Surface, bool) {
	surf, ok := s[id]
	if !ok {
		return nil, false
	}
	return surf, true
}

func (g *Game) gridSize(mode render.Mode) (int, int) {
	w := g.w
	if mode == engine.ModeEdit {
		w -= menuWidth
	}
	return w, g.h - toolbarHeight
}

func (g *Game) regions() []region {
	gw, gh := g.gridSize(g.engine.Mode())
	r := []region{{rect: image.Rect(0, toolbarHeight, gw, toolbarHeight+gh), surface: g.grid}}
	if g.engine.Mode() == engine.ModeEdit {
		r = append(r, region{rect: image.Rect(gw, toolbarHeight, gw+menuWidth, toolbarHeight+gh), surface: g.menu})
	}
	return r
}

func (g *Game) Update() error {
	g.toolbar.ui.Update()
	g.input.update(g.regions(), g.grid)
	g.reload()
	g.engine.Update(time.Now())
	ebiten.SetCursorShape(cursorShape(g.grid.cursor))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, toolbarHeight)
	screen.DrawImage(g.grid.img, op)
	if g.engine.Mode() == engine.ModeEdit {
		gw, _ := g.gridSize(g.engine.Mode())
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(gw), toolbarHeight)
		screen.DrawImage(g.menu.img, op)
	}
	g.toolbar.ui.Draw(screen)
	if g.grid.status != "" {
		ebitenutil.DebugPrintAt(screen, g.grid.status, 8, g.h-20)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.w || outsideHeight != g.h {
		g.w, g.h = outsideWidth, outsideHeight
		g.resize()
	}
	return outsideWidth, outsideHeight
}

func (g *Game) resize() {
	gw, gh := g.gridSize(g.engine.Mode())
	a := g.grid.resize(gw, gh)
	b := g.menu.resize(menuWidth, gh)
	if a || b {
		g.engine.Invalidate()
	}
}

func (g *Game) save() {
	if err := g.engine.Save(); err != nil {
		log.Printf("seatmap: save: %v", err)
	}
}

func (g *Game) write(s layout.Serialized) {
	if err := layoutfile.Write(g.outPath, s); err != nil {
		log.Printf("seatmap: save: %v", err)
		return
	}
	log.Printf("Saved layout: %s", g.outPath)
}

func (g *Game) copyLayout() {
	if !g.clipboard {
		log.Printf("seatmap: clipboard unavailable")
		return
	}
	s, err := g.engine.ExportLayout()
	if err != nil {
		log.Printf("seatmap: export: %v", err)
		return
	}
	data, err := json.Marshal(s)
	if err != nil {
		log.Printf("seatmap: export: %v", err)
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	log.Printf("seatmap: copied %d bytes of layout JSON", len(data))
}

func (g *Game) togglePreview() {
	mode, err := g.engine.TogglePreview()
	if err != nil {
		log.Printf("seatmap: %v", err)
		return
	}
	g.toolbar.setMode(mode.String())
	g.resize()
}

// reload picks up on-disk edits to the layout or theme file.
func (g *Game) reload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if err := g.reloadFile(name); err != nil {
				log.Printf("seatmap: reload %s: %v", name, err)
			}
		case err := <-g.watcher.Errors:
			log.Printf("seatmap: watch: %v", err)
		default:
			return
		}
	}
}

func (g *Game) reloadFile(name string) error {
	if sameFile(name, g.themePath) {
		t, err := loadTheme(name)
		if err != nil {
			return err
		}
		g.engine.SetTheme(t)
		log.Printf("seatmap: theme reloaded")
		return nil
	}
	s, err := layoutfile.Read(name)
	if err != nil {
		return err
	}
	if err := g.engine.ReplaceLayout(s); err != nil {
		return err
	}
	log.Printf("seatmap: layout reloaded")
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		g.watcher.Close()
	}
	g.engine.Destroy()
}

func loadTheme(path string) (*style.Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	return style.LoadTheme(data)
}

func sameFile(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	return err1 == nil && err2 == nil && aa == bb
}
