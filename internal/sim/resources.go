package sim

import (
	"log"

	"dig/internal/event"
)

// Resource is one of the three spendable player resources.
type Resource int

const (
	// Power is processing power, spent by SCAN / CARVE / RECON.
	Power Resource = iota
	// Memory holds collected artifacts.
	Memory
	// Energy drains passively each turn.
	Energy
)

func (r Resource) String() string {
	switch r {
	case Power:
		return "POWER"
	case Memory:
		return "MEMORY"
	case Energy:
		return "ENERGY"
	}
	return "UNKNOWN"
}

// AllResources lists every resource in display order.
var AllResources = []Resource{Power, Memory, Energy}

type resourceSlot struct {
	current float64
	max     float64
}

// Resources owns and mediates access to the player's resource pools.
// Systems spend through Consume and check its return value; none of them
// mutate pools directly, which keeps spending auditable.
type Resources struct {
	events      *event.Queue
	slots       map[Resource]*resourceSlot
	energyDrain float64
}

// NewResources sets each pool's starting and maximum value. energyDrain is
// consumed automatically by each Tick.
func NewResources(events *event.Queue, power, memory, energy, energyDrain float64) *Resources {
	return &Resources{
		events: events,
		slots: map[Resource]*resourceSlot{
			Power:  {current: power, max: power},
			Memory: {current: memory, max: memory},
			Energy: {current: energy, max: energy},
		},
		energyDrain: energyDrain,
	}
}

// Current returns the present amount of r.
func (rs *Resources) Current(r Resource) float64 { return rs.slots[r].current }

// Maximum returns the cap for r.
func (rs *Resources) Maximum(r Resource) float64 { return rs.slots[r].max }

// Ratio returns current/maximum clamped to [0,1].
func (rs *Resources) Ratio(r Resource) float64 {
	s := rs.slots[r]
	if s.max <= 0 {
		return 0
	}
	ratio := s.current / s.max
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

// Depleted reports whether r is at zero.
func (rs *Resources) Depleted(r Resource) bool { return rs.slots[r].current <= 0 }

// CanAfford reports whether amount of r is available.
func (rs *Resources) CanAfford(r Resource, amount float64) bool {
	return rs.slots[r].current >= amount
}

// Consume spends amount of r. Returns false and leaves the pool unchanged
// when funds are insufficient. amount must be non-negative.
func (rs *Resources) Consume(r Resource, amount float64, source string) bool {
	if amount < 0 {
		log.Printf("sim: ignoring negative consume of %s from %s", r, source)
		return false
	}
	s := rs.slots[r]
	if s.current < amount {
		return false
	}

	s.current -= amount
	rs.postChanged(r, -amount, source)

	if s.current <= 0 {
		rs.events.PostImmediate(event.ResourceDepleted, map[string]any{
			"resource": r.String(),
			"source":   source,
		}, "Resources")
		log.Printf("sim: %s depleted (triggered by %s)", r, source)
	}
	return true
}

// Restore adds amount of r, capped at the maximum.
func (rs *Resources) Restore(r Resource, amount float64, source string) {
	if amount < 0 {
		log.Printf("sim: ignoring negative restore of %s from %s", r, source)
		return
	}
	s := rs.slots[r]
	gain := amount
	if room := s.max - s.current; gain > room {
		gain = room
	}
	s.current += gain
	if gain > 0 {
		rs.postChanged(r, gain, source)
	}
}

// SetMaximum updates the cap for r (e.g. after an upgrade), clamping the
// current value if it would exceed the new cap.
func (rs *Resources) SetMaximum(r Resource, newMax float64) {
	if newMax <= 0 {
		log.Printf("sim: ignoring non-positive maximum for %s", r)
		return
	}
	s := rs.slots[r]
	s.max = newMax
	if s.current > newMax {
		s.current = newMax
	}
	rs.postChanged(r, 0, "Upgrade")
}

// Tick applies the passive energy drain for one turn.
func (rs *Resources) Tick() {
	rs.Consume(Energy, rs.energyDrain, "PassiveDrain")
}

func (rs *Resources) postChanged(r Resource, delta float64, source string) {
	s := rs.slots[r]
	rs.events.PostImmediate(event.ResourceChanged, map[string]any{
		"resource": r.String(),
		"delta":    delta,
		"current":  s.current,
		"maximum":  s.max,
		"source":   source,
	}, "Resources")
}
