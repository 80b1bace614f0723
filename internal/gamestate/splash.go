package gamestate

import (
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"dig/internal/shell"
)

// Splash is the boot screen. It hosts the application shell and forwards
// the engine's lifecycle to it: one Load at entry, one Draw per frame,
// one KeyPressed per key event. Enter or Space moves on to the menu.
type Splash struct {
	shell  *shell.Shell
	loaded bool
	keys   []ebiten.Key
}

// NewSplash wires the shell to standard output.
func NewSplash() *Splash {
	return &Splash{shell: shell.New(os.Stdout)}
}

func (s *Splash) Enter(Context) {
	if !s.loaded {
		s.shell.Load()
		s.loaded = true
	}
}

func (s *Splash) Exit(Context) {}

// quitter adapts the context's shutdown to the shell's Quitter.
type quitter struct{ ctx Context }

func (q quitter) RequestQuit() { q.ctx.Quit() }

func (s *Splash) Update(ctx Context) error {
	s.keys = inpututil.AppendJustPressedKeys(s.keys[:0])
	for _, k := range s.keys {
		s.shell.KeyPressed(strings.ToLower(k.String()), quitter{ctx})
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		ctx.Push(NewMenu())
	}
	return nil
}

// debugRenderer adapts the screen to the shell's TextRenderer.
type debugRenderer struct{ screen *ebiten.Image }

func (r debugRenderer) DrawText(s string, x, y int) {
	ebitenutil.DebugPrintAt(r.screen, s, x, y)
}

func (s *Splash) Draw(screen *ebiten.Image) {
	s.shell.Draw(debugRenderer{screen})
	ebitenutil.DebugPrintAt(screen, "press ENTER", 100, 130)
}
