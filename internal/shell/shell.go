// Package shell implements the engine-facing application shell: the three
// lifecycle hooks the host engine invokes on startup, per frame, and per key
// event. The shell holds no state between calls and talks to the engine only
// through the small capability interfaces below, so it can run against the
// real engine or a test fake.
package shell

import (
	"fmt"
	"io"
)

// TextRenderer draws a string at pixel coordinates using the engine's
// default font and colour.
type TextRenderer interface {
	DrawText(s string, x, y int)
}

// Quitter receives a clean-shutdown request. The engine decides when and how
// teardown actually happens.
type Quitter interface {
	RequestQuit()
}

const (
	startupMessage = "Game started!"

	bannerText = "Hello //DIG.EXCAVATION!"
	bannerX    = 100
	bannerY    = 100

	// Key identifier that triggers a quit request. Compared by equality;
	// the shell does no further validation of key names.
	quitKey = "escape"
)

// Shell is the application shell. Construct with New and hand the hooks to
// the engine's run loop.
type Shell struct {
	out io.Writer
}

// New returns a Shell that writes its startup message to out. The writer
// must be unbuffered so the message is visible immediately; os.Stdout
// qualifies.
func New(out io.Writer) *Shell {
	return &Shell{out: out}
}

// Load is invoked once at startup. Writes the startup line; a failed write
// is ignored.
func (s *Shell) Load() {
	fmt.Fprintln(s.out, startupMessage)
}

// Draw is invoked once per rendered frame. Issues exactly one render request
// for the banner text at fixed coordinates. Idempotent across calls.
func (s *Shell) Draw(r TextRenderer) {
	r.DrawText(bannerText, bannerX, bannerY)
}

// KeyPressed is invoked once per key event with the engine's name for the
// pressed key. The escape key requests a clean shutdown; every other value
// has no effect.
func (s *Shell) KeyPressed(key string, q Quitter) {
	if key == quitKey {
		q.RequestQuit()
	}
}
