package gamestate

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"dig/internal/save"
	"dig/internal/ui"
)

var titleArt = []string{
	` ____  ___ ____    _______  _______    ___     ___ _____ ___ ___  _  _ `,
	`|  _ \|_ _/ ___|  | ____\ \/ / ___|  / \ \   / / \|_   _|_ _/ _ \| \ | |`,
	`| | | || | |  _   |  _|  \  / |     / _ \ \ / / _ \ | |  | | | | |  \| |`,
	`| |_| || | |_| |_ | |___ /  \ |___ / ___ \ V / ___ \| |  | | |_| | |\  |`,
	`|____/|___\____(_)|_____/_/\_\____/_/   \_\_/_/   \_\_| |___\___/|_| \_|`,
}

type menuItem int

const (
	menuNewRun menuItem = iota
	menuTutorial
	menuExit
	menuItemCount
)

func (m menuItem) String() string {
	switch m {
	case menuNewRun:
		return "NEW RUN"
	case menuTutorial:
		return "TUTORIAL"
	case menuExit:
		return "EXIT"
	}
	return ""
}

// Menu is the title screen.
type Menu struct {
	face     *text.GoTextFace
	selected menuItem

	career string
}

func NewMenu() *Menu {
	return &Menu{face: ui.Face(16)}
}

// Enter reloads the career line from past run stats. Best effort; an
// unreadable saves dir just leaves the line empty.
func (m *Menu) Enter(ctx Context) {
	cfg := ctx.Config()
	if !cfg.Saves.Enabled {
		return
	}
	runs, err := save.List(cfg.Saves.Dir)
	if err != nil || len(runs) == 0 {
		m.career = ""
		return
	}
	credits := 0.0
	recovered := 0
	for _, r := range runs {
		credits += r.CreditsEarned
		recovered += r.ArtifactsRecovered
	}
	m.career = fmt.Sprintf("%d runs on record / %d artifacts / %.0f credits",
		len(runs), recovered, credits)
}

func (m *Menu) Exit(Context) {}

func (m *Menu) Update(ctx Context) error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		m.selected = (m.selected + menuItemCount - 1) % menuItemCount
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		m.selected = (m.selected + 1) % menuItemCount
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace):
		m.activate(ctx)
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		ctx.Quit()
	}
	return nil
}

func (m *Menu) activate(ctx Context) {
	switch m.selected {
	case menuNewRun:
		ctx.Push(NewGameplay())
	case menuTutorial:
		ctx.Push(NewTutorial())
	case menuExit:
		ctx.Quit()
	}
}

func (m *Menu) Draw(screen *ebiten.Image) {
	screen.Fill(ui.ColorBackground)

	small := ui.Face(11)
	y := 60.0
	for _, line := range titleArt {
		drawText(screen, line, small, 60, y, ui.ColorText)
		y += 14
	}

	y += 50
	for i := menuItem(0); i < menuItemCount; i++ {
		clr := color.Color(ui.ColorDim)
		label := "  " + i.String()
		if i == m.selected {
			clr = ui.ColorText
			label = "> " + i.String()
		}
		drawText(screen, label, m.face, 100, y, clr)
		y += 28
	}

	drawText(screen, "arrows to choose, ENTER to confirm", small, 100, y+30, ui.ColorDim)
	if m.career != "" {
		drawText(screen, m.career, small, 100, y+50, ui.ColorDim)
	}
}

func drawText(screen *ebiten.Image, s string, face *text.GoTextFace, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, face, op)
}
