package gamestate

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"dig/internal/ui"
)

var tutorialLines = []string{
	"DIGITAL EXCAVATION BRIEFING",
	"",
	"You are a licensed data archaeologist. Each run connects you to a",
	"derelict filesystem: a dig site full of corrupted nodes, buried",
	"artifacts and the security daemons still patrolling it.",
	"",
	"  LS / CD / PWD      navigate the site",
	"  SCAN <node>        reveal what a node really is (costs POWER)",
	"  CARVE <debris>     cut a damaged node back into a FILE",
	"  RECON <file>       reconstruct the artifact inside (costs MEMORY)",
	"  SELL <artifact>    trade finds for credits, freeing MEMORY",
	"  STATUS / HELP      check yourself",
	"",
	"Every command advances one turn. Corruption spreads, ENERGY drains",
	"and daemons listen for noise. If one corners you it drains POWER",
	"fast. Get in, dig, get out.",
	"",
	"Press ENTER to start a run, ESCAPE to go back.",
}

// Tutorial is a static briefing screen shown before the first run.
type Tutorial struct{}

func NewTutorial() *Tutorial { return &Tutorial{} }

func (t *Tutorial) Enter(Context) {}
func (t *Tutorial) Exit(Context)  {}

func (t *Tutorial) Update(ctx Context) error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace):
		ctx.Pop()
		ctx.Push(NewGameplay())
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		ctx.Pop()
	}
	return nil
}

func (t *Tutorial) Draw(screen *ebiten.Image) {
	screen.Fill(ui.ColorBackground)

	face := ui.Face(13)
	y := 60.0
	for i, line := range tutorialLines {
		clr := ui.ColorText
		if i == 0 {
			clr = ui.ColorWarn
		}
		drawText(screen, line, face, 60, y, clr)
		y += 20
	}
}
