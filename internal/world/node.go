// Package world holds the data model for dig sites: the virtual filesystem
// node tree and the procedural generator that builds it. No game logic and
// no rendering live here.
package world

import (
	"fmt"

	"github.com/google/uuid"
)

// NodeType is the kind of a filesystem node.
type NodeType int

const (
	// Directory is a container holding child nodes.
	Directory NodeType = iota
	// File is a leaf node that may hold an artifact.
	File
	// Debris is a corrupted block that can be carved into a File.
	Debris
)

func (t NodeType) String() string {
	switch t {
	case Directory:
		return "DIRECTORY"
	case File:
		return "FILE"
	case Debris:
		return "DEBRIS"
	}
	return "UNKNOWN"
}

// Visibility is how much the player knows about a node.
type Visibility int

const (
	// Hidden nodes have not been detected yet.
	Hidden Visibility = iota
	// Detected nodes are known to exist but not their contents.
	Detected
	// Revealed nodes are fully visible.
	Revealed
)

func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "HIDDEN"
	case Detected:
		return "DETECTED"
	case Revealed:
		return "REVEALED"
	}
	return "UNKNOWN"
}

// Node is a single entry in a dig-site filesystem tree. Corruption is a
// decay level in [0,1]; at 1.0 the node is fully decayed. The struct
// enforces no game rules beyond tree shape — systems own the consequences.
type Node struct {
	ID         string
	Name       string
	Type       NodeType
	ParentID   string // empty for the root
	ChildIDs   []string
	Corruption float64
	Visibility Visibility
	ArtifactID string // non-empty if this File holds a recoverable artifact
	Meta       map[string]string
}

// NewNode constructs a node with a fresh id. parentID is empty for roots.
func NewNode(name string, t NodeType, parentID string) *Node {
	return &Node{
		ID:       uuid.NewString(),
		Name:     name,
		Type:     t,
		ParentID: parentID,
		Meta:     map[string]string{},
	}
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.ParentID == "" }

// IsDirectory reports whether the node is a Directory.
func (n *Node) IsDirectory() bool { return n.Type == Directory }

// IsFile reports whether the node is a File.
func (n *Node) IsFile() bool { return n.Type == File }

// IsDebris reports whether the node is Debris.
func (n *Node) IsDebris() bool { return n.Type == Debris }

// FullyCorrupted reports whether corruption has reached 1.0.
func (n *Node) FullyCorrupted() bool { return n.Corruption >= 1.0 }

// HasArtifact reports whether the node carries an unrecovered artifact.
func (n *Node) HasArtifact() bool { return n.ArtifactID != "" }

// AddChild registers childID under this directory. Duplicates are ignored.
func (n *Node) AddChild(childID string) error {
	if !n.IsDirectory() {
		return fmt.Errorf("cannot add child to %s node %q", n.Type, n.Name)
	}
	for _, id := range n.ChildIDs {
		if id == childID {
			return nil
		}
	}
	n.ChildIDs = append(n.ChildIDs, childID)
	return nil
}

// RemoveChild drops childID from the child list. Safe if absent.
func (n *Node) RemoveChild(childID string) {
	for i, id := range n.ChildIDs {
		if id == childID {
			n.ChildIDs = append(n.ChildIDs[:i:i], n.ChildIDs[i+1:]...)
			return
		}
	}
}

// ApplyCorruption adds delta to the corruption level, clamped to [0,1].
// Negative deltas repair.
func (n *Node) ApplyCorruption(delta float64) {
	n.Corruption += delta
	if n.Corruption < 0 {
		n.Corruption = 0
	}
	if n.Corruption > 1 {
		n.Corruption = 1
	}
}

// Site is a generated dig site: the root node plus the flat registry of
// every node in the tree (root included).
type Site struct {
	Root  *Node
	Nodes map[string]*Node
}
