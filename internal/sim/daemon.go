package sim

import (
	"log"
	"math/rand"

	"github.com/google/uuid"

	"dig/internal/event"
	"dig/internal/world"
)

// Personality is a daemon's behavioural archetype.
type Personality int

const (
	// Aggressive daemons move toward the player every turn once alerted.
	Aggressive Personality = iota
	// Paranoid daemons patrol randomly but detect at a wider radius and
	// escalate faster.
	Paranoid
	// Sleepy daemons are slow to move and quick to calm down.
	Sleepy
)

func (p Personality) String() string {
	switch p {
	case Aggressive:
		return "AGGRESSIVE"
	case Paranoid:
		return "PARANOID"
	case Sleepy:
		return "SLEEPY"
	}
	return "UNKNOWN"
}

// AlertState is how aware a daemon currently is of the player.
type AlertState int

const (
	Idle AlertState = iota
	Suspicious
	Alert
)

func (s AlertState) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Suspicious:
		return "SUSPICIOUS"
	case Alert:
		return "ALERT"
	}
	return "UNKNOWN"
}

// Daemon is a single security process living in the site's filesystem.
type Daemon struct {
	ID              string
	Name            string
	Personality     Personality
	NodeID          string
	DetectionRadius int
	AlertLevel      float64
	AlertState      AlertState
	MoveCooldown    int
	Pacified        bool

	turnsSinceMove int
}

// NewDaemon places a daemon of the given personality at nodeID.
func NewDaemon(name string, p Personality, nodeID string) *Daemon {
	return &Daemon{
		ID:              uuid.NewString(),
		Name:            name,
		Personality:     p,
		NodeID:          nodeID,
		DetectionRadius: 1,
		MoveCooldown:    1,
	}
}

// Alert thresholds on the 0..1 alert level.
const (
	suspiciousThreshold = 0.3
	alertThreshold      = 0.7
)

// Tuning constants for the per-turn alert and contact rules.
const (
	alertGainNear    = 0.2  // player inside detection radius
	alertGainNoise   = 0.1  // player acted near the daemon
	alertDecay       = 0.05 // player out of range
	contactDrain     = 10.0 // power drained while sharing the player's node
	daemonCorruption = 0.05 // corruption applied to the occupied node
)

// Daemons manages every daemon on a dig site. Movement and detection work
// on the node tree shared with the filesystem; the RNG is seeded alongside
// the site so runs stay reproducible.
type Daemons struct {
	events    *event.Queue
	resources *Resources
	nodes     map[string]*world.Node
	registry  map[string]*Daemon
	order     []string // registration order, for deterministic ticks
	rng       *rand.Rand
}

// NewDaemons returns an empty daemon system over the site's node registry.
func NewDaemons(events *event.Queue, resources *Resources, nodes map[string]*world.Node, seed int64) *Daemons {
	return &Daemons{
		events:    events,
		resources: resources,
		nodes:     nodes,
		registry:  map[string]*Daemon{},
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Add registers d, applying personality modifiers. The daemon's node must
// exist in the registry.
func (ds *Daemons) Add(d *Daemon) error {
	if _, ok := ds.nodes[d.NodeID]; !ok {
		return fsErrorf("daemon %q placed on unknown node %q", d.Name, d.NodeID)
	}
	switch d.Personality {
	case Paranoid:
		d.DetectionRadius++
	case Sleepy:
		d.MoveCooldown = 3
	}
	ds.registry[d.ID] = d
	ds.order = append(ds.order, d.ID)
	return nil
}

// Remove deletes a daemon, e.g. after pacification.
func (ds *Daemons) Remove(id string) {
	delete(ds.registry, id)
	for i, did := range ds.order {
		if did == id {
			ds.order = append(ds.order[:i:i], ds.order[i+1:]...)
			return
		}
	}
}

// Tick advances every active daemon by one turn. playerNodeID is where the
// player currently is; noiseNodeID, if non-empty, is where the player last
// acted and creates indirect detection pressure.
func (ds *Daemons) Tick(playerNodeID, noiseNodeID string) {
	for _, id := range ds.order {
		d := ds.registry[id]
		if d == nil || d.Pacified {
			continue
		}
		ds.updateAlert(d, playerNodeID, noiseNodeID)
		ds.maybeMove(d, playerNodeID)
		ds.applyContact(d, playerNodeID)
		ds.corruptNode(d)
	}
}

func (ds *Daemons) updateAlert(d *Daemon, playerNodeID, noiseNodeID string) {
	dist := ds.distance(d.NodeID, playerNodeID)

	var gain float64
	switch {
	case dist <= d.DetectionRadius:
		gain = alertGainNear
		if d.Personality == Paranoid {
			gain *= 1.5
		}
	case noiseNodeID != "" && ds.distance(d.NodeID, noiseNodeID) <= d.DetectionRadius+1:
		gain = alertGainNoise
	default:
		gain = -alertDecay
		if d.Personality == Sleepy {
			gain *= 2
		}
	}

	previous := d.AlertState
	d.AlertLevel += gain
	if d.AlertLevel < 0 {
		d.AlertLevel = 0
	}
	if d.AlertLevel > 1 {
		d.AlertLevel = 1
	}

	switch {
	case d.AlertLevel >= alertThreshold:
		d.AlertState = Alert
	case d.AlertLevel >= suspiciousThreshold:
		d.AlertState = Suspicious
	default:
		d.AlertState = Idle
	}

	if d.AlertState != previous {
		ds.postAlertEvent(d, previous)
	}
}

func (ds *Daemons) postAlertEvent(d *Daemon, previous AlertState) {
	payload := map[string]any{
		"daemon_id": d.ID,
		"name":      d.Name,
		"node_id":   d.NodeID,
	}
	if d.AlertState == Suspicious && previous == Idle {
		ds.events.PostImmediate(event.DaemonSpotted, payload, "Daemons")
	} else if d.AlertState == Alert {
		ds.events.PostImmediate(event.DaemonAlerted, payload, "Daemons")
	}
	log.Printf("sim: daemon %q %s -> %s", d.Name, previous, d.AlertState)
}

func (ds *Daemons) maybeMove(d *Daemon, playerNodeID string) {
	d.turnsSinceMove++
	if d.turnsSinceMove < d.MoveCooldown {
		return
	}
	d.turnsSinceMove = 0

	neighbours := ds.neighbours(d.NodeID)
	if len(neighbours) == 0 {
		return
	}

	var target string
	if d.AlertState == Alert && d.Personality != Sleepy {
		// Pursue: pick the neighbour closest to the player.
		target = neighbours[0]
		best := ds.distance(target, playerNodeID)
		for _, nid := range neighbours[1:] {
			if dist := ds.distance(nid, playerNodeID); dist < best {
				best = dist
				target = nid
			}
		}
	} else {
		target = neighbours[ds.rng.Intn(len(neighbours))]
	}
	d.NodeID = target
}

func (ds *Daemons) applyContact(d *Daemon, playerNodeID string) {
	if d.NodeID != playerNodeID {
		return
	}
	ds.resources.Consume(Power, contactDrain, d.Name)
}

func (ds *Daemons) corruptNode(d *Daemon) {
	if n := ds.nodes[d.NodeID]; n != nil {
		n.ApplyCorruption(daemonCorruption)
	}
}

// Pacify neutralises a daemon: alert resets and it stops acting. Returns
// false if the daemon is unknown.
func (ds *Daemons) Pacify(id string) bool {
	d := ds.registry[id]
	if d == nil {
		return false
	}
	d.Pacified = true
	d.AlertState = Idle
	d.AlertLevel = 0
	ds.events.PostImmediate(event.DaemonPacified, map[string]any{
		"daemon_id": d.ID,
		"name":      d.Name,
	}, "Daemons")
	return true
}

// At returns the active daemons occupying nodeID.
func (ds *Daemons) At(nodeID string) []*Daemon {
	var out []*Daemon
	for _, id := range ds.order {
		d := ds.registry[id]
		if d != nil && d.NodeID == nodeID && !d.Pacified {
			out = append(out, d)
		}
	}
	return out
}

// All returns every registered daemon in registration order.
func (ds *Daemons) All() []*Daemon {
	out := make([]*Daemon, 0, len(ds.order))
	for _, id := range ds.order {
		if d := ds.registry[id]; d != nil {
			out = append(out, d)
		}
	}
	return out
}

// neighbours returns the adjacent node ids (parent plus children).
func (ds *Daemons) neighbours(nodeID string) []string {
	n := ds.nodes[nodeID]
	if n == nil {
		return nil
	}
	adjacent := append([]string(nil), n.ChildIDs...)
	if n.ParentID != "" {
		adjacent = append(adjacent, n.ParentID)
	}
	out := adjacent[:0]
	for _, id := range adjacent {
		if _, ok := ds.nodes[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// unreachable sentinel for distance.
const unreachable = 999

// distance is the BFS hop count between two nodes in the tree.
func (ds *Daemons) distance(fromID, toID string) int {
	if fromID == toID {
		return 0
	}
	visited := map[string]bool{fromID: true}
	queue := []struct {
		id   string
		dist int
	}{{fromID, 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nid := range ds.neighbours(cur.id) {
			if nid == toID {
				return cur.dist + 1
			}
			if !visited[nid] {
				visited[nid] = true
				queue = append(queue, struct {
					id   string
					dist int
				}{nid, cur.dist + 1})
			}
		}
	}
	return unreachable
}
