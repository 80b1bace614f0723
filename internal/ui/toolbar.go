package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ToolbarHeight is the pixel height reserved at the top of the screen.
const ToolbarHeight = 28

// Action is what the toolbar reports after a click.
type Action int

const (
	ActionNone Action = iota
	ActionMenu
	ActionHelp
)

type button struct {
	label  string
	action Action
	x, w   float64
}

// Toolbar is the clickable strip along the top of the gameplay screen.
type Toolbar struct {
	face    *text.GoTextFace
	buttons []button
	width   float64
	hover   int // index into buttons, -1 when none

	// Title is drawn left-aligned, e.g. the site name.
	Title string
}

// NewToolbar lays out the buttons right-aligned inside width pixels.
func NewToolbar(width float64, fontSize float64) *Toolbar {
	t := &Toolbar{
		face:  Face(fontSize),
		width: width,
		hover: -1,
		buttons: []button{
			{label: "[HELP]", action: ActionHelp},
			{label: "[MENU]", action: ActionMenu},
		},
	}

	pad := 10.0
	x := width
	for i := len(t.buttons) - 1; i >= 0; i-- {
		w, _ := text.Measure(t.buttons[i].label, t.face, 0)
		x -= w + pad
		t.buttons[i].x = x
		t.buttons[i].w = w
	}
	return t
}

// Update tracks hover and reports the clicked action, if any.
func (t *Toolbar) Update() Action {
	mx, my := ebiten.CursorPosition()
	t.hover = -1
	if my < 0 || my >= ToolbarHeight {
		return ActionNone
	}
	for i, b := range t.buttons {
		if float64(mx) >= b.x && float64(mx) < b.x+b.w {
			t.hover = i
			if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
				return b.action
			}
		}
	}
	return ActionNone
}

// Draw renders the strip at the top of the screen.
func (t *Toolbar) Draw(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, float32(t.width), ToolbarHeight, ColorPanel, false)

	t.text(screen, t.Title, 10, 5, ColorDim)
	for i, b := range t.buttons {
		clr := color.Color(ColorText)
		if i == t.hover {
			clr = ColorWarn
		}
		t.text(screen, b.label, b.x, 5, clr)
	}
}

func (t *Toolbar) text(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, t.face, op)
}
