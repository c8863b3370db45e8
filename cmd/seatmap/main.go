// Command seatmap opens a seat-map layout in a window for viewing or
// editing.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"

	"github.com/milk9111/seatgrid/layoutfile"
	"github.com/milk9111/seatgrid/render"
)

func main() {
	var cfg config
	var mode string
	pflag.StringVarP(&cfg.layout, "layout", "l", "theater", "layout file, or the name of an embedded sample")
	pflag.StringVarP(&cfg.out, "out", "o", "", "where Save writes (default: the layout file)")
	pflag.StringVarP(&cfg.theme, "theme", "t", "", "YAML theme file")
	pflag.StringVarP(&mode, "mode", "m", "edit", "view, edit or preview")
	pflag.IntSliceVar(&cfg.locked, "locked", nil, "cell indexes that cannot be edited")
	pflag.BoolVarP(&cfg.watch, "watch", "w", false, "reload the layout and theme when they change on disk")
	pflag.BoolVar(&cfg.showFPS, "fps", false, "show the frame rate")
	pflag.IntVar(&cfg.width, "width", 1280, "window width")
	pflag.IntVar(&cfg.height, "height", 720, "window height")
	samples := pflag.Bool("samples", false, "list embedded sample layouts and exit")
	pflag.Parse()

	if *samples {
		for _, name := range layoutfile.Samples() {
			fmt.Println(name)
		}
		return
	}

	m, ok := render.ParseMode(mode)
	if !ok {
		fmt.Fprintf(os.Stderr, "seatmap: unknown mode %q\n", mode)
		os.Exit(2)
	}
	cfg.mode = m

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.width, cfg.height)
	ebiten.SetWindowTitle("seatmap")

	game, err := NewGame(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
