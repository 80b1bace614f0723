// Package event provides the turn-aware message bus that connects the game
// systems (filesystem, daemons, resources, UI) without direct references
// between them.
//
// Two dispatch timings exist: immediate events are delivered during the
// current Flush, deferred events are held in a staging buffer and promoted
// at the start of the next turn by AdvanceTurn. The queue is strictly
// synchronous and single-threaded, matching the engine's cooperative loop.
package event

import "log"

// Type identifies a kind of event.
type Type string

// All event types recognised by the game. Adding one requires a member
// here, a Post somewhere, and a Subscribe somewhere else; nothing more.
const (
	// Gameplay
	CommandEntered   Type = "command.entered"
	ScanComplete     Type = "scan.complete"
	CarveComplete    Type = "carve.complete"
	ReconstructEnded Type = "reconstruct.ended"

	// Filesystem
	NodeRevealed  Type = "node.revealed"
	NodeCorrupted Type = "node.corrupted"
	ArtifactFound Type = "artifact.found"

	// Daemons
	DaemonSpotted  Type = "daemon.spotted"
	DaemonAlerted  Type = "daemon.alerted"
	DaemonPacified Type = "daemon.pacified"

	// Resources
	ResourceChanged  Type = "resource.changed"
	ResourceDepleted Type = "resource.depleted"

	// Narrative
	LogEntryAdded Type = "log.entry_added"

	// System
	TurnAdvanced  Type = "turn.advanced"
	QuitRequested Type = "quit.requested"
)

// Timing says when an event is delivered.
type Timing int

const (
	// Immediate events are dispatched in the current Flush cycle.
	Immediate Timing = iota
	// Deferred events are held until AdvanceTurn promotes them.
	Deferred
)

// Event is the record passed to subscribers. Payload keys are flat strings
// so handlers can pick values without importing the producer.
type Event struct {
	Type    Type
	Payload map[string]any
	Timing  Timing
	Source  string
}

// Handler receives dispatched events.
type Handler func(Event)

// Subscription identifies a registered handler so it can be removed later.
type Subscription struct {
	eventType Type
	id        int
}

type subscriber struct {
	id      int
	handler Handler
}

// Queue is the central bus. Zero value is not usable; construct with New.
type Queue struct {
	pending     []Event
	deferred    []Event
	subscribers map[Type][]subscriber
	turn        int
	nextID      int
	flushing    bool
}

// New returns an empty queue at turn zero.
func New() *Queue {
	return &Queue{subscribers: map[Type][]subscriber{}}
}

// Subscribe registers handler for events of type t. Handlers for a type run
// in registration order.
func (q *Queue) Subscribe(t Type, handler Handler) Subscription {
	q.nextID++
	q.subscribers[t] = append(q.subscribers[t], subscriber{id: q.nextID, handler: handler})
	return Subscription{eventType: t, id: q.nextID}
}

// Unsubscribe removes a previous registration. Safe to call twice.
func (q *Queue) Unsubscribe(sub Subscription) {
	subs := q.subscribers[sub.eventType]
	for i, s := range subs {
		if s.id == sub.id {
			q.subscribers[sub.eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// UnsubscribeAll removes every handler for type t.
func (q *Queue) UnsubscribeAll(t Type) {
	delete(q.subscribers, t)
}

// Post enqueues ev according to its timing.
func (q *Queue) Post(ev Event) {
	if ev.Timing == Deferred {
		q.deferred = append(q.deferred, ev)
		return
	}
	q.pending = append(q.pending, ev)
}

// PostImmediate is shorthand for posting a simple immediate event.
func (q *Queue) PostImmediate(t Type, payload map[string]any, source string) {
	if payload == nil {
		payload = map[string]any{}
	}
	q.Post(Event{Type: t, Payload: payload, Source: source})
}

// AdvanceTurn promotes staged deferred events into the pending buffer and
// posts TurnAdvanced. Call at the beginning of each game turn, before Flush,
// so events posted at the end of turn N arrive at the start of turn N+1.
func (q *Queue) AdvanceTurn() {
	q.turn++
	q.pending = append(q.pending, q.deferred...)
	q.deferred = q.deferred[:0]
	q.PostImmediate(TurnAdvanced, map[string]any{"turn": q.turn}, "event.Queue")
}

// Flush delivers all pending immediate events in order. Events posted by a
// handler during dispatch are delivered in the same cycle. A handler panic
// is logged and skips the remaining handlers for that event only.
func (q *Queue) Flush() {
	if q.flushing {
		// Re-entrant Flush from inside a handler; the outer loop will pick
		// up anything it posted.
		return
	}
	q.flushing = true
	defer func() {
		q.pending = q.pending[:0]
		q.flushing = false
	}()

	// Index loop so appends during dispatch are included.
	for i := 0; i < len(q.pending); i++ {
		q.dispatch(q.pending[i])
	}
}

func (q *Queue) dispatch(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("event: handler panic on %s: %v", ev.Type, r)
		}
	}()
	for _, s := range q.subscribers[ev.Type] {
		s.handler(ev)
	}
}

// Turn is the current turn counter.
func (q *Queue) Turn() int { return q.turn }

// PendingCount is the number of immediate events waiting for Flush.
func (q *Queue) PendingCount() int { return len(q.pending) }

// DeferredCount is the number of events waiting for the next turn.
func (q *Queue) DeferredCount() int { return len(q.deferred) }
