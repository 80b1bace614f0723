// Package sim contains the game systems that drive a dig-site run: the
// virtual filesystem, player resources, artifact lifecycle, security
// daemons, and the command handler that ties them together. Nothing in this
// package renders or reads input.
package sim

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"dig/internal/event"
	"dig/internal/world"
)

// ErrFilesystem marks invalid filesystem operations (bad path, wrong node
// type, not visible). The command layer shows the wrapped message to the
// player; anything not matching this sentinel is a bug.
var ErrFilesystem = errors.New("filesystem")

func fsErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFilesystem, fmt.Sprintf(format, args...))
}

// Corruption added to every visible node per turn.
const corruptionTick = 0.02

// Corruption at or above which Carve fails.
const carveFailThreshold = 0.8

// Filesystem is the runtime state of a loaded dig site: the flat node
// registry plus the player's current directory. It is the single source of
// truth for node state; other systems subscribe to the events it posts.
type Filesystem struct {
	events *event.Queue
	nodes  map[string]*world.Node
	rootID string
	cwdID  string
}

// NewFilesystem wraps a generated site. The site root must be a directory.
func NewFilesystem(site world.Site, events *event.Queue) (*Filesystem, error) {
	if site.Root == nil || !site.Root.IsDirectory() {
		return nil, errors.New("site root must be a directory")
	}
	return &Filesystem{
		events: events,
		nodes:  site.Nodes,
		rootID: site.Root.ID,
		cwdID:  site.Root.ID,
	}, nil
}

// Cwd is the node for the current working directory.
func (fs *Filesystem) Cwd() *world.Node { return fs.nodes[fs.cwdID] }

// Root is the site root node.
func (fs *Filesystem) Root() *world.Node { return fs.nodes[fs.rootID] }

// Get returns the node for id, or nil.
func (fs *Filesystem) Get(id string) *world.Node { return fs.nodes[id] }

// Nodes is the flat node registry. Shared with the daemon system; treat as
// read-mostly.
func (fs *Filesystem) Nodes() map[string]*world.Node { return fs.nodes }

func (fs *Filesystem) childByName(name string, parent *world.Node) *world.Node {
	for _, cid := range parent.ChildIDs {
		if c := fs.nodes[cid]; c != nil && c.Name == name {
			return c
		}
	}
	return nil
}

// ChangeDir moves into a child directory, or up with "..". The target must
// be at least Detected.
func (fs *Filesystem) ChangeDir(name string) (*world.Node, error) {
	cwd := fs.Cwd()

	var target *world.Node
	if name == ".." {
		if cwd.IsRoot() {
			return nil, fsErrorf("already at root — cannot go up")
		}
		target = fs.nodes[cwd.ParentID]
	} else {
		target = fs.childByName(name, cwd)
		switch {
		case target == nil:
			return nil, fsErrorf("no such directory: %q", name)
		case target.Visibility == world.Hidden:
			return nil, fsErrorf("%q is not visible. Run SCAN first", name)
		case !target.IsDirectory():
			return nil, fsErrorf("%q is not a directory", name)
		}
	}

	fs.cwdID = target.ID
	return target, nil
}

// List returns the children of the current directory in tree order. Hidden
// nodes are skipped unless includeHidden is set.
func (fs *Filesystem) List(includeHidden bool) []*world.Node {
	var out []*world.Node
	for _, cid := range fs.Cwd().ChildIDs {
		n := fs.nodes[cid]
		if n == nil {
			continue
		}
		if includeHidden || n.Visibility != world.Hidden {
			out = append(out, n)
		}
	}
	return out
}

// Path returns the /-separated path from the root to the cwd, e.g.
// "/invoices/q3".
func (fs *Filesystem) Path() string {
	var parts []string
	n := fs.Cwd()
	for !n.IsRoot() {
		parts = append(parts, n.Name)
		n = fs.nodes[n.ParentID]
	}
	if len(parts) == 0 {
		return "/"
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return "/" + strings.Join(parts, "/")
}

// Scan reveals a child of the current directory one step: Hidden becomes
// Detected, Detected becomes Revealed. A fully revealed File with an
// artifact posts ArtifactFound. Always posts ScanComplete.
func (fs *Filesystem) Scan(name string) (*world.Node, error) {
	target := fs.childByName(name, fs.Cwd())
	if target == nil {
		return nil, fsErrorf("SCAN: no target named %q in current directory", name)
	}

	previous := target.Visibility
	switch target.Visibility {
	case world.Hidden:
		target.Visibility = world.Detected
	case world.Detected:
		target.Visibility = world.Revealed
	}

	if target.Visibility != previous {
		fs.events.PostImmediate(event.NodeRevealed, map[string]any{
			"node_id":    target.ID,
			"name":       target.Name,
			"visibility": target.Visibility.String(),
		}, "Filesystem")
	}

	if target.Visibility == world.Revealed && target.IsFile() && target.HasArtifact() {
		fs.events.PostImmediate(event.ArtifactFound, map[string]any{
			"node_id":     target.ID,
			"artifact_id": target.ArtifactID,
			"name":        target.Name,
		}, "Filesystem")
	}

	fs.events.PostImmediate(event.ScanComplete, map[string]any{
		"node_id": target.ID,
		"name":    target.Name,
		"success": true,
	}, "Filesystem")
	return target, nil
}

// Carve converts a visible Debris node into a Revealed File. Fails without
// error — posting CarveComplete with success=false — when the node's
// corruption is at or above the carve threshold.
func (fs *Filesystem) Carve(name string) (*world.Node, error) {
	target := fs.childByName(name, fs.Cwd())
	switch {
	case target == nil:
		return nil, fsErrorf("CARVE: no target named %q in current directory", name)
	case target.Visibility == world.Hidden:
		return nil, fsErrorf("CARVE: %q is not visible. Run SCAN first", name)
	case !target.IsDebris():
		return nil, fsErrorf("CARVE: %q is not DEBRIS", name)
	}

	if target.Corruption >= carveFailThreshold {
		fs.events.PostImmediate(event.CarveComplete, map[string]any{
			"node_id": target.ID,
			"name":    target.Name,
			"success": false,
			"reason":  "corruption_too_high",
		}, "Filesystem")
		return target, nil
	}

	target.Type = world.File
	target.Visibility = world.Revealed
	fs.events.PostImmediate(event.CarveComplete, map[string]any{
		"node_id": target.ID,
		"name":    target.Name,
		"success": true,
	}, "Filesystem")
	return target, nil
}

// Tick advances corruption on all visible nodes by one turn. Hidden nodes
// are inert until discovered. Posts NodeCorrupted when a node crosses a
// quarter threshold so the UI can react.
func (fs *Filesystem) Tick() {
	thresholds := [...]float64{0.25, 0.50, 0.75, 1.0}

	for _, n := range fs.nodes {
		if n.Visibility == world.Hidden {
			continue
		}
		before := n.Corruption
		n.ApplyCorruption(corruptionTick)
		after := n.Corruption

		for _, th := range thresholds {
			if before < th && th <= after {
				fs.events.PostImmediate(event.NodeCorrupted, map[string]any{
					"node_id":    n.ID,
					"name":       n.Name,
					"corruption": after,
					"threshold":  th,
				}, "Filesystem")
				log.Printf("sim: node %q crossed corruption threshold %.2f", n.Name, th)
				break
			}
		}
	}
}
