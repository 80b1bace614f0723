// Package gamestate implements the pushdown state machine the game runs
// on: splash, menu, tutorial and gameplay. The engine loop owns a stack
// of States and updates only the top one.
package gamestate

import (
	"github.com/hajimehoshi/ebiten/v2"

	"dig/internal/config"
)

// Context is what the engine exposes to states: stack control, clean
// shutdown and settings. States never see the engine itself.
type Context interface {
	Push(State)
	Pop()
	Quit()
	Config() config.Config
}

// State is one screen of the game. Enter and Exit bracket its time on the
// stack; Update runs only while it is on top.
type State interface {
	Enter(ctx Context)
	Exit(ctx Context)
	Update(ctx Context) error
	Draw(screen *ebiten.Image)
}
