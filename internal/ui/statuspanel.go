package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"dig/internal/event"
	"dig/internal/sim"
)

// StatusPanel is the sidebar summarising resources, credits, held
// artifacts and daemon activity. It reads the systems every frame and
// keeps no state of its own.
type StatusPanel struct {
	face      *text.GoTextFace
	lineH     float64
	resources *sim.Resources
	artifacts *sim.Artifacts
	daemons   *sim.Daemons
	events    *event.Queue
}

// NewStatusPanel wires the panel to the systems it displays.
func NewStatusPanel(fontSize float64, res *sim.Resources, arts *sim.Artifacts, daemons *sim.Daemons, events *event.Queue) *StatusPanel {
	face := Face(fontSize)
	_, h := text.Measure("M", face, 0)
	return &StatusPanel{
		face:      face,
		lineH:     h + lineSpacingPad,
		resources: res,
		artifacts: arts,
		daemons:   daemons,
		events:    events,
	}
}

// Draw renders the panel into the rectangle at (x, y) with width w and
// height h.
func (p *StatusPanel) Draw(screen *ebiten.Image, x, y, w, h float64) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), ColorPanel, false)

	pad := 8.0
	cx, cy := x+pad, y+pad

	cy = p.heading(screen, "RESOURCES", cx, cy)
	for _, r := range sim.AllResources {
		label := fmt.Sprintf("%-6s %5.1f", r, p.resources.Current(r))
		p.line(screen, label, cx, cy, ColorText)
		cy += p.lineH
		p.bar(screen, cx, cy, w-2*pad, 6, p.resources.Ratio(r))
		cy += 12
	}

	cy += p.lineH / 2
	cy = p.heading(screen, "TURN", cx, cy)
	p.line(screen, fmt.Sprintf("%d", p.events.Turn()), cx, cy, ColorText)
	cy += p.lineH

	cy += p.lineH / 2
	cy = p.heading(screen, "CREDITS", cx, cy)
	p.line(screen, fmt.Sprintf("%.0f  (%d sold)", p.artifacts.Credits(), p.artifacts.SoldCount()), cx, cy, ColorText)
	cy += p.lineH

	cy += p.lineH / 2
	cy = p.heading(screen, "MEMORY BANK", cx, cy)
	held := p.artifacts.Collected()
	if len(held) == 0 {
		p.line(screen, "(empty)", cx, cy, ColorDim)
		cy += p.lineH
	}
	for _, a := range held {
		p.line(screen, fmt.Sprintf("%s %.0fc", a.Name, a.SellValue), cx, cy, ColorText)
		cy += p.lineH
	}

	cy += p.lineH / 2
	cy = p.heading(screen, "PROCESSES", cx, cy)
	for _, d := range p.daemons.All() {
		clr := color.Color(ColorDim)
		switch d.AlertState {
		case sim.Suspicious:
			clr = ColorWarn
		case sim.Alert:
			clr = ColorAlert
		}
		state := d.AlertState.String()
		if d.Pacified {
			state = "PACIFIED"
		}
		p.line(screen, fmt.Sprintf("%s %s", d.Name, state), cx, cy, clr)
		cy += p.lineH
	}
}

func (p *StatusPanel) heading(screen *ebiten.Image, s string, x, y float64) float64 {
	p.line(screen, s, x, y, ColorDim)
	return y + p.lineH
}

func (p *StatusPanel) line(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, p.face, op)
}

func (p *StatusPanel) bar(screen *ebiten.Image, x, y, w, h, ratio float64) {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), ColorBarEmpty, false)
	fill := ColorBarFill
	if ratio < 0.25 {
		fill = ColorAlert
	}
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w*ratio), float32(h), fill, false)
}
