package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dig/internal/event"
	"dig/internal/world"
)

// chainSite builds a linear site root -> a -> b -> c so BFS distances are
// easy to reason about.
func chainSite(t *testing.T) (map[string]*world.Node, map[string]*world.Node) {
	t.Helper()

	root := world.NewNode("root", world.Directory, "")
	a := world.NewNode("a", world.Directory, root.ID)
	b := world.NewNode("b", world.Directory, a.ID)
	c := world.NewNode("c", world.Directory, b.ID)
	require.NoError(t, root.AddChild(a.ID))
	require.NoError(t, a.AddChild(b.ID))
	require.NoError(t, b.AddChild(c.ID))

	nodes := map[string]*world.Node{root.ID: root, a.ID: a, b.ID: b, c.ID: c}
	named := map[string]*world.Node{"root": root, "a": a, "b": b, "c": c}
	return nodes, named
}

func newDaemons(t *testing.T) (*Daemons, *Resources, *event.Queue, map[string]*world.Node) {
	t.Helper()
	nodes, named := chainSite(t)
	q := event.New()
	rs := NewResources(q, 100, 50, 80, 1)
	return NewDaemons(q, rs, nodes, 1), rs, q, named
}

func TestAddRejectsUnknownNode(t *testing.T) {
	ds, _, _, _ := newDaemons(t)
	err := ds.Add(NewDaemon("WATCHDOG-7", Aggressive, "nowhere"))
	assert.Error(t, err)
}

func TestPersonalityModifiers(t *testing.T) {
	ds, _, _, named := newDaemons(t)

	paranoid := NewDaemon("SENTRY-2", Paranoid, named["a"].ID)
	sleepy := NewDaemon("DOZER-1", Sleepy, named["b"].ID)
	require.NoError(t, ds.Add(paranoid))
	require.NoError(t, ds.Add(sleepy))

	assert.Equal(t, 2, paranoid.DetectionRadius)
	assert.Equal(t, 3, sleepy.MoveCooldown)
}

func TestAlertEscalatesNearPlayer(t *testing.T) {
	ds, _, q, named := newDaemons(t)
	d := NewDaemon("WATCHDOG-7", Aggressive, named["a"].ID)
	d.MoveCooldown = 100 // hold position for this test
	require.NoError(t, ds.Add(d))

	var spotted, alerted bool
	q.Subscribe(event.DaemonSpotted, func(event.Event) { spotted = true })
	q.Subscribe(event.DaemonAlerted, func(event.Event) { alerted = true })

	// Player shares the daemon's node: +0.2 per turn.
	ds.Tick(named["a"].ID, "")
	ds.Tick(named["a"].ID, "")
	assert.Equal(t, Suspicious, d.AlertState)

	ds.Tick(named["a"].ID, "")
	ds.Tick(named["a"].ID, "")
	assert.Equal(t, Alert, d.AlertState)

	q.Flush()
	assert.True(t, spotted)
	assert.True(t, alerted)
}

func TestAlertDecaysWhenPlayerFar(t *testing.T) {
	ds, _, _, named := newDaemons(t)
	d := NewDaemon("WATCHDOG-7", Aggressive, named["root"].ID)
	d.MoveCooldown = 100
	d.AlertLevel = 0.5
	d.AlertState = Suspicious
	require.NoError(t, ds.Add(d))

	// Player three hops away, no noise.
	for i := 0; i < 5; i++ {
		ds.Tick(named["c"].ID, "")
	}
	assert.Equal(t, Idle, d.AlertState)
	assert.InDelta(t, 0.25, d.AlertLevel, 1e-9)
}

func TestNoiseRaisesAlertIndirectly(t *testing.T) {
	ds, _, _, named := newDaemons(t)
	d := NewDaemon("WATCHDOG-7", Aggressive, named["a"].ID)
	d.MoveCooldown = 100
	require.NoError(t, ds.Add(d))

	// Player out of detection range (distance 3 > radius 1) but acting at
	// distance 2 <= radius+1.
	ds.Tick(named["c"].ID, named["b"].ID)
	assert.InDelta(t, 0.1, d.AlertLevel, 1e-9)
}

func TestAlertedDaemonPursuesPlayer(t *testing.T) {
	ds, _, _, named := newDaemons(t)
	d := NewDaemon("WATCHDOG-7", Aggressive, named["root"].ID)
	d.AlertLevel = 1.0
	d.AlertState = Alert
	require.NoError(t, ds.Add(d))

	// Player stays far enough that the level holds above the threshold.
	ds.Tick(named["c"].ID, "")
	assert.Equal(t, named["a"].ID, d.NodeID, "daemon should step toward the player")

	ds.Tick(named["c"].ID, "")
	assert.Equal(t, named["b"].ID, d.NodeID)
}

func TestContactDrainsPower(t *testing.T) {
	ds, rs, _, named := newDaemons(t)
	d := NewDaemon("WATCHDOG-7", Sleepy, named["a"].ID)
	require.NoError(t, ds.Add(d)) // Sleepy: cooldown 3, stays put

	ds.Tick(named["a"].ID, "")
	assert.Equal(t, 90.0, rs.Current(Power))
}

func TestOccupiedNodeCorrodes(t *testing.T) {
	ds, _, _, named := newDaemons(t)
	d := NewDaemon("WATCHDOG-7", Sleepy, named["a"].ID)
	require.NoError(t, ds.Add(d))

	before := named["a"].Corruption
	ds.Tick(named["c"].ID, "")
	assert.InDelta(t, before+0.05, named["a"].Corruption, 1e-9)
}

func TestPacify(t *testing.T) {
	ds, rs, q, named := newDaemons(t)
	d := NewDaemon("WATCHDOG-7", Aggressive, named["a"].ID)
	d.AlertLevel = 1.0
	d.AlertState = Alert
	require.NoError(t, ds.Add(d))

	pacified := ""
	q.Subscribe(event.DaemonPacified, func(ev event.Event) {
		pacified = ev.Payload["name"].(string)
	})

	assert.True(t, ds.Pacify(d.ID))
	assert.False(t, ds.Pacify("missing"))

	q.Flush()
	assert.Equal(t, "WATCHDOG-7", pacified)
	assert.Equal(t, Idle, d.AlertState)
	assert.Empty(t, ds.At(named["a"].ID), "pacified daemons are inactive")

	// Pacified daemons no longer drain or move.
	ds.Tick(named["a"].ID, "")
	assert.Equal(t, 100.0, rs.Current(Power))
}
