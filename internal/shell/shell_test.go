package shell

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeRenderer struct {
	calls []renderCall
}

type renderCall struct {
	s    string
	x, y int
}

func (r *fakeRenderer) DrawText(s string, x, y int) {
	r.calls = append(r.calls, renderCall{s, x, y})
}

type fakeQuitter struct {
	requests int
}

func (q *fakeQuitter) RequestQuit() { q.requests++ }

func TestLoadWritesStartupLine(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Load()
	assert.Equal(t, "Game started!\n", buf.String())
}

func TestDrawIssuesOneRenderRequest(t *testing.T) {
	s := New(&bytes.Buffer{})
	r := &fakeRenderer{}

	s.Draw(r)

	assert.Len(t, r.calls, 1)
	assert.Equal(t, renderCall{"Hello //DIG.EXCAVATION!", 100, 100}, r.calls[0])
}

func TestDrawIsIdempotent(t *testing.T) {
	s := New(&bytes.Buffer{})
	r := &fakeRenderer{}

	for i := 0; i < 5; i++ {
		s.Draw(r)
	}

	assert.Len(t, r.calls, 5)
	for _, c := range r.calls {
		assert.Equal(t, renderCall{"Hello //DIG.EXCAVATION!", 100, 100}, c)
	}
}

func TestEscapeRequestsQuit(t *testing.T) {
	s := New(&bytes.Buffer{})
	q := &fakeQuitter{}

	s.KeyPressed("escape", q)

	assert.Equal(t, 1, q.requests)
}

func TestOtherKeysDoNothing(t *testing.T) {
	s := New(&bytes.Buffer{})
	q := &fakeQuitter{}

	for _, key := range []string{"a", "space", "", "Escape", "esc"} {
		s.KeyPressed(key, q)
	}

	assert.Zero(t, q.requests)
}

func TestHooksAreOrderIndependent(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf)
	r := &fakeRenderer{}
	q := &fakeQuitter{}

	// Draw and KeyPressed before Load must behave the same as after.
	s.Draw(r)
	s.KeyPressed("a", q)
	s.Load()
	s.Draw(r)

	assert.Len(t, r.calls, 2)
	assert.Zero(t, q.requests)
	assert.Equal(t, "Game started!\n", buf.String())
}
