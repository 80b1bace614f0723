package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddChildOnlyOnDirectories(t *testing.T) {
	dir := NewNode("archive", Directory, "")
	file := NewNode("memo.doc", File, dir.ID)

	require.NoError(t, dir.AddChild(file.ID))
	assert.Equal(t, []string{file.ID}, dir.ChildIDs)

	// Duplicate registration is ignored.
	require.NoError(t, dir.AddChild(file.ID))
	assert.Len(t, dir.ChildIDs, 1)

	err := file.AddChild("whatever")
	assert.Error(t, err)
}

func TestRemoveChildSafeWhenAbsent(t *testing.T) {
	dir := NewNode("logs", Directory, "")
	dir.AddChild("a")
	dir.AddChild("b")

	dir.RemoveChild("a")
	assert.Equal(t, []string{"b"}, dir.ChildIDs)

	dir.RemoveChild("missing")
	assert.Equal(t, []string{"b"}, dir.ChildIDs)
}

func TestApplyCorruptionClamps(t *testing.T) {
	n := NewNode("shard_02", Debris, "parent")

	n.ApplyCorruption(0.4)
	assert.InDelta(t, 0.4, n.Corruption, 1e-9)

	n.ApplyCorruption(2.0)
	assert.Equal(t, 1.0, n.Corruption)
	assert.True(t, n.FullyCorrupted())

	n.ApplyCorruption(-5.0)
	assert.Equal(t, 0.0, n.Corruption)
}

func TestNodePredicates(t *testing.T) {
	root := NewNode("root", Directory, "")
	assert.True(t, root.IsRoot())
	assert.True(t, root.IsDirectory())

	f := NewNode("readme.txt", File, root.ID)
	assert.False(t, f.IsRoot())
	assert.True(t, f.IsFile())
	assert.False(t, f.HasArtifact())

	f.ArtifactID = "arc_corporate_0001"
	assert.True(t, f.HasArtifact())
}
