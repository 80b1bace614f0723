package gamestate

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dig/internal/config"
	"dig/internal/save"
	"dig/internal/sim"
	"dig/internal/world"
)

// fakeContext records stack operations instead of running an engine.
type fakeContext struct {
	cfg    config.Config
	pushed []State
	pops   int
	quit   bool
}

func (f *fakeContext) Push(s State)          { f.pushed = append(f.pushed, s) }
func (f *fakeContext) Pop()                  { f.pops++ }
func (f *fakeContext) Quit()                 { f.quit = true }
func (f *fakeContext) Config() config.Config { return f.cfg }

func newRunContext(t *testing.T) *fakeContext {
	t.Helper()
	cfg := config.Default()
	cfg.Gameplay.Seed = 1337
	cfg.Saves.Dir = filepath.Join(t.TempDir(), "saves")
	return &fakeContext{cfg: cfg}
}

func enterRun(t *testing.T) (*Gameplay, *fakeContext) {
	t.Helper()
	ctx := newRunContext(t)
	g := NewGameplay()
	g.Enter(ctx)
	require.Zero(t, ctx.pops, "a valid site must not pop the state")
	return g, ctx
}

func TestEnterBuildsARun(t *testing.T) {
	g, _ := enterRun(t)

	assert.Equal(t, int64(1337), g.seed)
	assert.Equal(t, "Abandoned Corporate Server", g.profile.Name)
	assert.NotNil(t, g.fs)
	assert.NotNil(t, g.terminal)
	assert.Zero(t, g.events.Turn())
}

func TestSuccessfulCommandAdvancesTurn(t *testing.T) {
	g, _ := enterRun(t)

	g.runCommand("LS")
	assert.Equal(t, 1, g.events.Turn())
	g.runCommand("STATUS")
	assert.Equal(t, 2, g.events.Turn())
}

func TestFailedCommandCostsNoTurn(t *testing.T) {
	g, _ := enterRun(t)

	g.runCommand("FROB")
	assert.Zero(t, g.events.Turn())
}

func TestTurnsDrainEnergy(t *testing.T) {
	g, ctx := enterRun(t)
	start := ctx.cfg.Gameplay.StartEnergy

	g.runCommand("LS")
	assert.Less(t, g.resources.Current(sim.Energy), start)
}

func TestQuitCommandEndsRun(t *testing.T) {
	g, _ := enterRun(t)

	g.runCommand("QUIT")
	assert.True(t, g.runOver)
}

func TestCompletionCandidatesIncludeVerbs(t *testing.T) {
	g, _ := enterRun(t)

	got := g.completionCandidates()
	for _, v := range sim.Verbs {
		assert.Contains(t, got, v)
	}
}

func TestArtifactsMatchGeneratedSite(t *testing.T) {
	g, _ := enterRun(t)

	n := 0
	for _, node := range g.fs.Nodes() {
		if node.HasArtifact() {
			n++
			assert.NotNil(t, g.artifacts.Get(node.ArtifactID),
				"every seeded artifact id must be registered")
		}
	}
	t.Logf("site carries %d artifacts", n)
}

func TestDaemonsSpawnOffRoot(t *testing.T) {
	g, _ := enterRun(t)

	for _, d := range g.daemons.All() {
		node := g.fs.Get(d.NodeID)
		require.NotNil(t, node)
		assert.False(t, node.IsRoot())
		assert.True(t, node.IsDirectory())
	}
}

func TestExitWritesRunStats(t *testing.T) {
	g, ctx := enterRun(t)
	g.runCommand("LS")

	g.Exit(ctx)

	entries, err := os.ReadDir(ctx.cfg.Saves.Dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "run_"))

	// Exit is idempotent.
	g.Exit(ctx)
	entries, err = os.ReadDir(ctx.cfg.Saves.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestExitHonoursSavesDisabled(t *testing.T) {
	ctx := newRunContext(t)
	ctx.cfg.Saves.Enabled = false
	g := NewGameplay()
	g.Enter(ctx)

	g.Exit(ctx)
	_, err := os.Stat(ctx.cfg.Saves.Dir)
	assert.True(t, os.IsNotExist(err))
}

func TestMenuEnterSummarisesPastRuns(t *testing.T) {
	ctx := newRunContext(t)

	m := NewMenu()
	m.Enter(ctx)
	assert.Empty(t, m.career, "no saves yet")

	_, err := save.Write(ctx.cfg.Saves.Dir, save.RunStats{
		Site: "x", ArtifactsRecovered: 2, CreditsEarned: 120,
	})
	require.NoError(t, err)

	m.Enter(ctx)
	assert.Contains(t, m.career, "1 runs on record")
	assert.Contains(t, m.career, "120 credits")
}

func TestProfileByName(t *testing.T) {
	assert.Equal(t, "Abandoned Corporate Server", profileByName("").Name)
	assert.Equal(t, "Personal Databank", profileByName("personal").Name)
	assert.Equal(t, "Research Terminal", profileByName("research").Name)
	// Unknown names fall back rather than crash.
	assert.Equal(t, "Abandoned Corporate Server", profileByName("no/such/file.yaml").Name)
}

func TestRollRarityIsSeedStable(t *testing.T) {
	a := rand.New(rand.NewSource(7))
	b := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		assert.Equal(t, rollRarity(a), rollRarity(b))
	}
}

func TestWalkSiteVisitsEveryNodeOnce(t *testing.T) {
	site := world.NewGenerator(world.CorporateProfile(), 99).Generate()

	seen := map[string]int{}
	walkSite(site, func(n *world.Node) { seen[n.ID]++ })

	assert.Len(t, seen, len(site.Nodes))
	for id, count := range seen {
		assert.Equal(t, 1, count, "node %s visited more than once", id)
	}
}
