package sim

import (
	"log"
	"math"

	"dig/internal/event"
)

// ArtifactState is the lifecycle position of an artifact:
// Undiscovered -> Found -> Collected -> Sold.
type ArtifactState int

const (
	// Undiscovered artifacts exist in the filesystem but have not surfaced.
	Undiscovered ArtifactState = iota
	// Found artifacts were surfaced by a SCAN but not yet collected.
	Found
	// Collected artifacts occupy a memory slot.
	Collected
	// Sold artifacts have been traded for credits.
	Sold
)

func (s ArtifactState) String() string {
	switch s {
	case Undiscovered:
		return "UNDISCOVERED"
	case Found:
		return "FOUND"
	case Collected:
		return "COLLECTED"
	case Sold:
		return "SOLD"
	}
	return "UNKNOWN"
}

// Rarity tier; affects base sell value.
type Rarity int

const (
	Common Rarity = iota
	Uncommon
	Rare
	Legendary
)

func (r Rarity) String() string {
	switch r {
	case Common:
		return "COMMON"
	case Uncommon:
		return "UNCOMMON"
	case Rare:
		return "RARE"
	case Legendary:
		return "LEGENDARY"
	}
	return "UNKNOWN"
}

// Multiplier is the sell-value factor for the tier.
func (r Rarity) Multiplier() float64 {
	switch r {
	case Uncommon:
		return 2.5
	case Rare:
		return 6.0
	case Legendary:
		return 15.0
	default:
		return 1.0
	}
}

// Artifact is a recoverable digital relic found in the filesystem.
// Condition is set at collection time as 1 - node corruption; SellValue is
// computed from rarity and condition and is zero until collected.
type Artifact struct {
	ID          string
	Name        string
	Description string
	NodeID      string
	Rarity      Rarity
	State       ArtifactState
	Condition   float64
	SellValue   float64
}

// Memory cost of holding one collected artifact.
const artifactMemoryCost = 10.0

// Base sell value before rarity and condition multipliers.
const artifactBaseValue = 50.0

// Artifacts manages every artifact across a dig session.
type Artifacts struct {
	events    *event.Queue
	resources *Resources
	registry  map[string]*Artifact
	credits   float64
	sold      int
}

// NewArtifacts returns an empty registry that allocates memory through
// resources when artifacts are collected.
func NewArtifacts(events *event.Queue, resources *Resources) *Artifacts {
	return &Artifacts{
		events:    events,
		resources: resources,
		registry:  map[string]*Artifact{},
	}
}

// Register adds an artifact to the registry. Typically called while loading
// a generated site. Duplicate ids are skipped.
func (a *Artifacts) Register(art *Artifact) {
	if _, ok := a.registry[art.ID]; ok {
		log.Printf("sim: artifact %q already registered — skipping", art.ID)
		return
	}
	a.registry[art.ID] = art
}

// MarkFound transitions an artifact from Undiscovered to Found. Called when
// the filesystem posts ArtifactFound. No-op if already progressed.
func (a *Artifacts) MarkFound(id string) *Artifact {
	art := a.registry[id]
	if art == nil {
		log.Printf("sim: MarkFound: artifact %q not in registry", id)
		return nil
	}
	if art.State == Undiscovered {
		art.State = Found
	}
	return art
}

// Collect moves a Found artifact into memory (RECON succeeded). Computes
// condition from the node's corruption at collection time and posts
// ReconstructEnded either way. Returns false when the artifact is in the
// wrong state or memory is insufficient.
func (a *Artifacts) Collect(id string, nodeCorruption float64) bool {
	art := a.registry[id]
	if art == nil || art.State != Found {
		return false
	}

	if !a.resources.Consume(Memory, artifactMemoryCost, "Artifacts") {
		a.events.PostImmediate(event.ReconstructEnded, map[string]any{
			"artifact_id": id,
			"success":     false,
			"reason":      "insufficient_memory",
		}, "Artifacts")
		return false
	}

	art.Condition = math.Max(0.01, 1.0-nodeCorruption)
	art.SellValue = a.value(art)
	art.State = Collected

	a.events.PostImmediate(event.ReconstructEnded, map[string]any{
		"artifact_id": id,
		"success":     true,
		"condition":   art.Condition,
		"sell_value":  art.SellValue,
		"name":        art.Name,
	}, "Artifacts")
	return true
}

// Sell trades a Collected artifact for credits, freeing its memory slot.
// Returns the credits earned, zero if the artifact cannot be sold.
func (a *Artifacts) Sell(id string) float64 {
	art := a.registry[id]
	if art == nil || art.State != Collected {
		return 0
	}

	earned := art.SellValue
	art.State = Sold
	art.SellValue = 0
	a.credits += earned
	a.sold++

	a.resources.Restore(Memory, artifactMemoryCost, "Artifacts")

	a.events.PostImmediate(event.LogEntryAdded, map[string]any{
		"artifact_id": id,
		"name":        art.Name,
		"earned":      earned,
		"description": art.Description,
	}, "Artifacts")
	return earned
}

func (a *Artifacts) value(art *Artifact) float64 {
	return math.Round(artifactBaseValue*art.Rarity.Multiplier()*art.Condition*10) / 10
}

// Credits is the total currency earned from sales this session.
func (a *Artifacts) Credits() float64 { return a.credits }

// SoldCount is how many artifacts have been sold this session.
func (a *Artifacts) SoldCount() int { return a.sold }

// Get returns the artifact for id, or nil.
func (a *Artifacts) Get(id string) *Artifact { return a.registry[id] }

// Collected returns all artifacts currently held in memory.
func (a *Artifacts) Collected() []*Artifact { return a.inState(Collected) }

// FoundArtifacts returns artifacts surfaced but not yet collected.
func (a *Artifacts) FoundArtifacts() []*Artifact { return a.inState(Found) }

func (a *Artifacts) inState(s ArtifactState) []*Artifact {
	var out []*Artifact
	for _, art := range a.registry {
		if art.State == s {
			out = append(out, art)
		}
	}
	return out
}
