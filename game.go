package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"dig/internal/config"
	"dig/internal/gamestate"
)

// Game drives the state stack and satisfies ebiten.Game. The top state
// gets Update and Draw; everything below it waits.
type Game struct {
	cfg    config.Config
	states []gamestate.State
	quit   bool
}

func NewGame(cfg config.Config) *Game {
	g := &Game{cfg: cfg}
	g.Push(gamestate.NewSplash())
	return g
}

// Push puts s on top of the stack and enters it.
func (g *Game) Push(s gamestate.State) {
	g.states = append(g.states, s)
	s.Enter(g)
}

// Pop exits and removes the top state.
func (g *Game) Pop() {
	if len(g.states) == 0 {
		return
	}
	top := g.states[len(g.states)-1]
	g.states = g.states[:len(g.states)-1]
	top.Exit(g)
}

// Quit ends the run loop at the next Update.
func (g *Game) Quit() { g.quit = true }

// Config returns the loaded settings.
func (g *Game) Config() config.Config { return g.cfg }

func (g *Game) Update() error {
	if g.quit || len(g.states) == 0 {
		return ebiten.Termination
	}
	return g.states[len(g.states)-1].Update(g)
}

func (g *Game) Draw(screen *ebiten.Image) {
	if len(g.states) == 0 {
		return
	}
	g.states[len(g.states)-1].Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}
