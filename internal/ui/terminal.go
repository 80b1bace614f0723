package ui

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"dig/internal/event"
)

const (
	promptText     = "dig> "
	maxScrollback  = 500
	maxHistory     = 50
	blinkPeriod    = 60 // ticks for a full on/off cycle
	lineSpacingPad = 4
)

// Terminal is the scrolling text surface the player types commands into.
// It owns input editing and display only; submitted lines go to OnSubmit.
type Terminal struct {
	cols, rows int
	face       *text.GoTextFace
	cellW      float64
	cellH      float64

	lines   []string // wrapped scrollback, newest last
	scroll  int      // lines scrolled up from the bottom
	input   []rune
	cursor  int
	history []string
	histIdx int // len(history) means "editing a fresh line"
	pending string
	blink   int

	// OnSubmit receives each entered line. Nil is allowed; input is then
	// echoed and dropped.
	OnSubmit func(string)

	// Candidates supplies completion targets for the token under the
	// cursor. Nil disables tab completion.
	Candidates func() []string
}

// NewTerminal sizes the widget in character cells.
func NewTerminal(cols, rows int, fontSize float64) *Terminal {
	face := Face(fontSize)
	w, h := text.Measure("M", face, 0)
	return &Terminal{
		cols:    cols,
		rows:    rows,
		face:    face,
		cellW:   w,
		cellH:   h + lineSpacingPad,
		histIdx: 0,
	}
}

// Print appends lines to the scrollback, wrapping each to the column
// width. Printing snaps the view back to the bottom.
func (t *Terminal) Print(lines ...string) {
	for _, line := range lines {
		t.lines = append(t.lines, wrap(line, t.cols)...)
	}
	if len(t.lines) > maxScrollback {
		t.lines = t.lines[len(t.lines)-maxScrollback:]
	}
	t.scroll = 0
}

// AttachEvents subscribes the terminal to the alerts worth echoing while
// the player types.
func (t *Terminal) AttachEvents(q *event.Queue) {
	q.Subscribe(event.DaemonSpotted, func(ev event.Event) {
		t.Print(fmt.Sprintf("[!] Process %v is getting suspicious.", ev.Payload["name"]))
	})
	q.Subscribe(event.DaemonAlerted, func(ev event.Event) {
		t.Print(fmt.Sprintf("[!!] Daemon %v is ALERTED and hunting.", ev.Payload["name"]))
	})
	q.Subscribe(event.DaemonPacified, func(ev event.Event) {
		t.Print(fmt.Sprintf("[ok] Daemon %v pacified.", ev.Payload["name"]))
	})
	q.Subscribe(event.NodeCorrupted, func(ev event.Event) {
		t.Print(fmt.Sprintf("[~] Corruption spreading on %v (%.0f%%).",
			ev.Payload["name"], asFloat(ev.Payload["corruption"])*100))
	})
	q.Subscribe(event.ArtifactFound, func(ev event.Event) {
		t.Print(fmt.Sprintf("[*] Artifact signature on %v.", ev.Payload["name"]))
	})
	q.Subscribe(event.ResourceDepleted, func(ev event.Event) {
		t.Print(fmt.Sprintf("[!!] %v DEPLETED.", ev.Payload["resource"]))
	})
}

func asFloat(v any) float64 {
	f, _ := v.(float64)
	return f
}

// Update consumes this frame's keyboard input.
func (t *Terminal) Update() {
	t.blink++

	for _, r := range ebiten.AppendInputChars(nil) {
		if r >= ' ' {
			t.insertRune(r)
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter):
		t.submit()
	case keyRepeats(ebiten.KeyBackspace):
		t.backspace()
	case keyRepeats(ebiten.KeyDelete):
		t.deleteAhead()
	case keyRepeats(ebiten.KeyLeft):
		t.moveCursor(-1)
	case keyRepeats(ebiten.KeyRight):
		t.moveCursor(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		t.cursor = 0
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		t.cursor = len(t.input)
	case keyRepeats(ebiten.KeyUp):
		t.historyPrev()
	case keyRepeats(ebiten.KeyDown):
		t.historyNext()
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		t.completeInput()
	case keyRepeats(ebiten.KeyPageUp):
		t.scrollBy(t.rows / 2)
	case keyRepeats(ebiten.KeyPageDown):
		t.scrollBy(-t.rows / 2)
	}
}

// keyRepeats fires on the initial press, then auto-repeats while held.
func keyRepeats(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d >= 24 && d%5 == 0)
}

func (t *Terminal) insertRune(r rune) {
	t.input = append(t.input[:t.cursor], append([]rune{r}, t.input[t.cursor:]...)...)
	t.cursor++
	t.blink = 0
}

func (t *Terminal) backspace() {
	if t.cursor == 0 {
		return
	}
	t.input = append(t.input[:t.cursor-1], t.input[t.cursor:]...)
	t.cursor--
	t.blink = 0
}

func (t *Terminal) deleteAhead() {
	if t.cursor >= len(t.input) {
		return
	}
	t.input = append(t.input[:t.cursor], t.input[t.cursor+1:]...)
}

func (t *Terminal) moveCursor(delta int) {
	t.cursor += delta
	if t.cursor < 0 {
		t.cursor = 0
	}
	if t.cursor > len(t.input) {
		t.cursor = len(t.input)
	}
	t.blink = 0
}

func (t *Terminal) submit() {
	raw := strings.TrimSpace(string(t.input))
	t.Print(promptText + string(t.input))
	t.input = t.input[:0]
	t.cursor = 0

	if raw != "" {
		if len(t.history) == 0 || t.history[len(t.history)-1] != raw {
			t.history = append(t.history, raw)
			if len(t.history) > maxHistory {
				t.history = t.history[1:]
			}
		}
		if t.OnSubmit != nil {
			t.OnSubmit(raw)
		}
	}
	t.histIdx = len(t.history)
	t.pending = ""
}

func (t *Terminal) historyPrev() {
	if t.histIdx == 0 || len(t.history) == 0 {
		return
	}
	if t.histIdx == len(t.history) {
		t.pending = string(t.input)
	}
	t.histIdx--
	t.setInput(t.history[t.histIdx])
}

func (t *Terminal) historyNext() {
	if t.histIdx >= len(t.history) {
		return
	}
	t.histIdx++
	if t.histIdx == len(t.history) {
		t.setInput(t.pending)
		return
	}
	t.setInput(t.history[t.histIdx])
}

func (t *Terminal) setInput(s string) {
	t.input = []rune(s)
	t.cursor = len(t.input)
	t.blink = 0
}

// completeInput fuzzy-matches the token under the cursor against the
// candidate list and replaces it with the best hit.
func (t *Terminal) completeInput() {
	if t.Candidates == nil {
		return
	}
	head := string(t.input[:t.cursor])
	start := strings.LastIndexByte(head, ' ') + 1
	token := head[start:]
	if token == "" {
		return
	}

	replacement := complete(token, t.Candidates())
	if replacement == "" {
		return
	}
	tail := string(t.input[t.cursor:])
	t.setInput(head[:start] + replacement + tail)
	t.cursor = start + len([]rune(replacement))
}

func (t *Terminal) scrollBy(delta int) {
	t.scroll += delta
	max := len(t.lines) - (t.rows - 1)
	if max < 0 {
		max = 0
	}
	if t.scroll > max {
		t.scroll = max
	}
	if t.scroll < 0 {
		t.scroll = 0
	}
}

// Width and Height report the widget's pixel size.
func (t *Terminal) Width() float64  { return float64(t.cols) * t.cellW }
func (t *Terminal) Height() float64 { return float64(t.rows) * t.cellH }

// Draw renders the scrollback and the input line at (x, y).
func (t *Terminal) Draw(screen *ebiten.Image, x, y float64) {
	vector.DrawFilledRect(screen,
		float32(x), float32(y), float32(t.Width()), float32(t.Height()),
		ColorBackground, false)

	visible := t.rows - 1
	end := len(t.lines) - t.scroll
	start := end - visible
	if start < 0 {
		start = 0
	}

	row := 0
	for _, line := range t.lines[start:end] {
		t.drawLine(screen, line, x, y+float64(row)*t.cellH, lineColor(line))
		row++
	}

	inputLine := promptText + string(t.input)
	inputY := y + float64(t.rows-1)*t.cellH
	t.drawLine(screen, inputLine, x, inputY, ColorText)

	if t.blink%blinkPeriod < blinkPeriod/2 {
		cx := x + float64(runewidth.StringWidth(promptText+string(t.input[:t.cursor])))*t.cellW
		vector.DrawFilledRect(screen,
			float32(cx), float32(inputY+2), float32(t.cellW), float32(t.cellH-4),
			ColorText, false)
	}
}

func (t *Terminal) drawLine(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, t.face, op)
}

// lineColor keys off the alert sigils AttachEvents prints with.
func lineColor(line string) color.Color {
	switch {
	case strings.HasPrefix(line, "[!!]"), strings.HasPrefix(line, "ERROR:"):
		return ColorAlert
	case strings.HasPrefix(line, "[!]"), strings.HasPrefix(line, "[~]"):
		return ColorWarn
	case strings.HasPrefix(line, promptText):
		return ColorDim
	}
	return ColorText
}

// wrap breaks s into display rows no wider than width cells. Wide runes
// count double.
func wrap(s string, width int) []string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return []string{s}
	}

	var rows []string
	var row strings.Builder
	used := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if used+w > width {
			rows = append(rows, row.String())
			row.Reset()
			used = 0
		}
		row.WriteRune(r)
		used += w
	}
	if row.Len() > 0 {
		rows = append(rows, row.String())
	}
	return rows
}

// complete returns the best fuzzy match for token, or "" when nothing
// matches. Matching is case-insensitive; the candidate's own casing wins.
func complete(token string, candidates []string) string {
	matches := fuzzy.Find(token, candidates)
	if len(matches) == 0 {
		return ""
	}
	return candidates[matches[0].Index]
}
