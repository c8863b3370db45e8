package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/milk9111/seatgrid/engine"
)

const toolbarHeight = 40

// toolbar is the row of host controls above the grid.
type toolbar struct {
	ui      *ebitenui.UI
	mode    *widget.Text
	preview *widget.Button
}

func newToolbar(f *fonts, g *Game) *toolbar {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0xec, G: 0xef, B: 0xf1, A: 0xff})
	btnImg := &widget.ButtonImage{
		Idle:    imageui.NewNineSliceColor(color.NRGBA{R: 0x37, G: 0x47, B: 0x4f, A: 0xff}),
		Hover:   imageui.NewNineSliceColor(color.NRGBA{R: 0x45, G: 0x5a, B: 0x64, A: 0xff}),
		Pressed: imageui.NewNineSliceColor(color.NRGBA{R: 0x26, G: 0x32, B: 0x38, A: 0xff}),
	}
	var face text.Face = f.face(14)
	btnTextColor := &widget.ButtonTextColor{Idle: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(btnImg),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(72, toolbarHeight-12)),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	tb := &toolbar{}
	tb.mode = widget.NewText(
		widget.TextOpts.Text("", &face, color.NRGBA{R: 0x26, G: 0x32, B: 0x38, A: 0xff}),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)

	row := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 6, Bottom: 6, Left: 8, Right: 8}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(0, toolbarHeight),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchHorizontal:  true,
			}),
		),
	)
	row.AddChild(button("Save", g.save))
	row.AddChild(button("Copy", g.copyLayout))
	if g.engine.Mode() != engine.ModeView {
		tb.preview = button("Preview", g.togglePreview)
		row.AddChild(tb.preview)
	}
	row.AddChild(tb.mode)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(row)
	tb.ui = &ebitenui.UI{Container: root}
	return tb
}

func (tb *toolbar) setMode(label string) {
	tb.mode.Label = label
}
