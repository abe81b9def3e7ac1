package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/tilephysics/ecs"
	"github.com/milk9111/tilephysics/ecs/component"
	"golang.org/x/image/font/basicfont"
)

// HUD is a text overlay with the control scheme and a status line.
type HUD struct {
	ui     *ebitenui.UI
	status *widget.Text
}

// NewHUD builds the overlay. Text uses the built-in basic font so no theme
// fonts have to be loaded.
func NewHUD(controls string) *HUD {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{A: 160})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	title := widget.NewText(
		widget.TextOpts.Text(controls, &face, white),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionStart})),
	)
	status := widget.NewText(
		widget.TextOpts.Text("", &face, color.NRGBA{R: 0xc0, G: 0xc0, B: 0xc0, A: 0xff}),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionStart})),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(4),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 6, Bottom: 6, Left: 8, Right: 8}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionStart, VerticalPosition: widget.AnchorLayoutPositionStart}),
		),
	)
	panel.AddChild(title)
	panel.AddChild(status)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout(
			widget.AnchorLayoutOpts.Padding(widget.NewInsetsSimple(8)),
		)),
	)
	root.AddChild(panel)

	return &HUD{ui: &ebitenui.UI{Container: root}, status: status}
}

// Update refreshes the status line from the world and lets the UI process input.
func (h *HUD) Update(w *ecs.World, debug bool) {
	if h == nil {
		return
	}
	h.status.Label = statusLine(w, debug)
	h.ui.Update()
}

func (h *HUD) Draw(screen *ebiten.Image) {
	if h == nil {
		return
	}
	h.ui.Draw(screen)
}

func statusLine(w *ecs.World, debug bool) string {
	dbg := "off"
	if debug {
		dbg = "on"
	}
	e, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return fmt.Sprintf("player: none  debug(F3): %s", dbg)
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return fmt.Sprintf("player: %s  debug(F3): %s", e, dbg)
	}
	return fmt.Sprintf("player: (%.1f, %.1f)  debug(F3): %s", t.X, t.Y, dbg)
}
