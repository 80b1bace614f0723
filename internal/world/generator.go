package world

import (
	"fmt"
	"log"
	"math/rand"
)

// Generator builds a Site from a SiteProfile in three passes: directory
// skeleton, file/debris population of leaf directories, artifact seeding.
// Results are deterministic for a given (profile, seed) pair, which keeps
// sites reproducible for save files.
type Generator struct {
	profile SiteProfile
	seed    int64
}

// NewGenerator returns a generator for profile. seed overrides the
// profile's own seed when non-zero.
func NewGenerator(profile SiteProfile, seed int64) *Generator {
	if seed == 0 {
		seed = profile.Seed
	}
	profile.fillDefaults()
	return &Generator{profile: profile, seed: seed}
}

// Generate runs all three passes and returns a ready-to-play Site. The
// generator keeps no state between calls.
func (g *Generator) Generate() Site {
	rng := rand.New(rand.NewSource(g.seed))
	nodes := map[string]*Node{}

	root := g.makeNode("root", Directory, "", rng)
	root.Visibility = Revealed // root is always visible
	nodes[root.ID] = root

	g.buildTree(root, 0, nodes, rng)
	g.populate(nodes, rng)
	g.seedArtifacts(nodes, rng)

	log.Printf("world: generated site %q seed=%d nodes=%d", g.profile.Name, g.seed, len(nodes))
	return Site{Root: root, Nodes: nodes}
}

// buildTree recursively creates child directories under parent.
func (g *Generator) buildTree(parent *Node, depth int, nodes map[string]*Node, rng *rand.Rand) {
	if depth >= g.profile.MaxDepth {
		return
	}

	branches := int(rng.NormFloat64()*0.8 + g.profile.BranchFactor + 0.5)
	if branches < 0 {
		branches = 0
	}
	pool := append([]string(nil), g.profile.DirNames...)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	for i := 0; i < branches; i++ {
		name := pool[i%len(pool)]
		if g.childNameExists(name, parent, nodes) {
			name = fmt.Sprintf("%s_%d", name, i)
		}

		child := g.makeNode(name, Directory, parent.ID, rng)
		nodes[child.ID] = child
		parent.AddChild(child.ID)

		g.buildTree(child, depth+1, nodes, rng)
	}
}

// populate adds File and Debris nodes to leaf directories. A leaf is a
// directory with no child directories.
func (g *Generator) populate(nodes map[string]*Node, rng *rand.Rand) {
	debrisRatio := clamp01(g.profile.DebrisRatio)

	var leaves []*Node
	for _, n := range nodes {
		if n.IsDirectory() && !g.hasSubdirs(n, nodes) {
			leaves = append(leaves, n)
		}
	}
	// Map order is random; sort-free determinism comes from walking the
	// tree instead.
	leaves = g.sortByTreeOrder(leaves, nodes)

	for _, leaf := range leaves {
		count := int(rng.NormFloat64()*1.0 + g.profile.FilesPerDir + 0.5)
		if count < 0 {
			count = 0
		}
		filePool := append([]string(nil), g.profile.FileNames...)
		debrisPool := append([]string(nil), g.profile.DebrisNames...)
		rng.Shuffle(len(filePool), func(i, j int) { filePool[i], filePool[j] = filePool[j], filePool[i] })
		rng.Shuffle(len(debrisPool), func(i, j int) { debrisPool[i], debrisPool[j] = debrisPool[j], debrisPool[i] })

		for i := 0; i < count; i++ {
			var name string
			var t NodeType
			if rng.Float64() < debrisRatio {
				name = debrisPool[i%len(debrisPool)]
				t = Debris
			} else {
				name = filePool[i%len(filePool)]
				t = File
			}
			if g.childNameExists(name, leaf, nodes) {
				name = fmt.Sprintf("%s_%d", name, i)
			}

			child := g.makeNode(name, t, leaf.ID, rng)
			nodes[child.ID] = child
			leaf.AddChild(child.ID)
		}
	}
}

// seedArtifacts assigns artifact ids to a fraction of File nodes.
func (g *Generator) seedArtifacts(nodes map[string]*Node, rng *rand.Rand) {
	density := clamp01(g.profile.ArtifactDensity)

	files := g.sortByTreeOrder(filterNodes(nodes, (*Node).IsFile), nodes)
	for i, n := range files {
		if rng.Float64() < density {
			n.ArtifactID = fmt.Sprintf("arc_%s_%04d", g.profile.Theme, i)
			n.Meta["artifact"] = "true"
		}
	}
}

// makeNode constructs a node with base corruption plus slight variance so
// the site does not decay uniformly.
func (g *Generator) makeNode(name string, t NodeType, parentID string, rng *rand.Rand) *Node {
	n := NewNode(name, t, parentID)
	c := g.profile.BaseCorruption + (rng.Float64()*0.06 - 0.03)
	if c < 0 {
		c = 0
	}
	if c > 0.99 {
		c = 0.99
	}
	n.Corruption = c
	n.Meta["theme"] = g.profile.Theme
	n.Meta["site"] = g.profile.Name
	if t == Directory {
		n.Visibility = Detected
	}
	return n
}

func (g *Generator) childNameExists(name string, parent *Node, nodes map[string]*Node) bool {
	for _, cid := range parent.ChildIDs {
		if c := nodes[cid]; c != nil && c.Name == name {
			return true
		}
	}
	return false
}

func (g *Generator) hasSubdirs(n *Node, nodes map[string]*Node) bool {
	for _, cid := range n.ChildIDs {
		if c := nodes[cid]; c != nil && c.IsDirectory() {
			return true
		}
	}
	return false
}

// sortByTreeOrder returns the subset of want in deterministic depth-first
// tree order, so generation never depends on Go map iteration order.
func (g *Generator) sortByTreeOrder(want []*Node, nodes map[string]*Node) []*Node {
	inWant := map[string]bool{}
	for _, n := range want {
		inWant[n.ID] = true
	}
	var ordered []*Node
	var root *Node
	for _, n := range nodes {
		if n.IsRoot() {
			root = n
			break
		}
	}
	if root == nil {
		return want
	}
	var walk func(*Node)
	walk = func(n *Node) {
		if inWant[n.ID] {
			ordered = append(ordered, n)
		}
		for _, cid := range n.ChildIDs {
			if c := nodes[cid]; c != nil {
				walk(c)
			}
		}
	}
	walk(root)
	return ordered
}

func filterNodes(nodes map[string]*Node, keep func(*Node) bool) []*Node {
	var out []*Node
	for _, n := range nodes {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
