package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dig/internal/event"
	"dig/internal/world"
)

// buildSite makes a small fixed site:
//
//	root/
//	  archive/        (Detected)
//	    memo.doc      (Hidden, artifact)
//	    shard_02      (Detected, Debris)
//	  readme.txt      (Hidden)
func buildSite(t *testing.T) (world.Site, map[string]*world.Node) {
	t.Helper()

	root := world.NewNode("root", world.Directory, "")
	root.Visibility = world.Revealed

	archive := world.NewNode("archive", world.Directory, root.ID)
	archive.Visibility = world.Detected

	memo := world.NewNode("memo.doc", world.File, archive.ID)
	memo.ArtifactID = "arc_corporate_0001"

	shard := world.NewNode("shard_02", world.Debris, archive.ID)
	shard.Visibility = world.Detected

	readme := world.NewNode("readme.txt", world.File, root.ID)

	require.NoError(t, root.AddChild(archive.ID))
	require.NoError(t, root.AddChild(readme.ID))
	require.NoError(t, archive.AddChild(memo.ID))
	require.NoError(t, archive.AddChild(shard.ID))

	nodes := map[string]*world.Node{
		root.ID: root, archive.ID: archive, memo.ID: memo,
		shard.ID: shard, readme.ID: readme,
	}
	named := map[string]*world.Node{
		"root": root, "archive": archive, "memo.doc": memo,
		"shard_02": shard, "readme.txt": readme,
	}
	return world.Site{Root: root, Nodes: nodes}, named
}

func newFs(t *testing.T) (*Filesystem, *event.Queue, map[string]*world.Node) {
	t.Helper()
	site, named := buildSite(t)
	q := event.New()
	fs, err := NewFilesystem(site, q)
	require.NoError(t, err)
	return fs, q, named
}

func TestNewFilesystemRejectsNonDirectoryRoot(t *testing.T) {
	bad := world.NewNode("loose.txt", world.File, "")
	_, err := NewFilesystem(world.Site{Root: bad, Nodes: map[string]*world.Node{bad.ID: bad}}, event.New())
	assert.Error(t, err)
}

func TestChangeDir(t *testing.T) {
	fs, _, _ := newFs(t)

	n, err := fs.ChangeDir("archive")
	require.NoError(t, err)
	assert.Equal(t, "archive", n.Name)
	assert.Equal(t, "/archive", fs.Path())

	_, err = fs.ChangeDir("..")
	require.NoError(t, err)
	assert.Equal(t, "/", fs.Path())
}

func TestChangeDirErrors(t *testing.T) {
	fs, _, _ := newFs(t)

	_, err := fs.ChangeDir("..")
	assert.ErrorIs(t, err, ErrFilesystem)

	_, err = fs.ChangeDir("nope")
	assert.ErrorIs(t, err, ErrFilesystem)

	// readme.txt exists but is hidden.
	_, err = fs.ChangeDir("readme.txt")
	assert.ErrorIs(t, err, ErrFilesystem)
}

func TestListSkipsHidden(t *testing.T) {
	fs, _, _ := newFs(t)

	names := func(nodes []*world.Node) []string {
		var out []string
		for _, n := range nodes {
			out = append(out, n.Name)
		}
		return out
	}

	assert.Equal(t, []string{"archive"}, names(fs.List(false)))
	assert.Equal(t, []string{"archive", "readme.txt"}, names(fs.List(true)))
}

func TestScanProgressesVisibility(t *testing.T) {
	fs, q, named := newFs(t)
	var revealed []string
	q.Subscribe(event.NodeRevealed, func(ev event.Event) {
		revealed = append(revealed, ev.Payload["visibility"].(string))
	})

	n, err := fs.Scan("readme.txt")
	require.NoError(t, err)
	assert.Equal(t, world.Detected, n.Visibility)

	n, err = fs.Scan("readme.txt")
	require.NoError(t, err)
	assert.Equal(t, world.Revealed, n.Visibility)

	// A third scan changes nothing.
	_, err = fs.Scan("readme.txt")
	require.NoError(t, err)
	assert.Equal(t, world.Revealed, named["readme.txt"].Visibility)

	q.Flush()
	assert.Equal(t, []string{"DETECTED", "REVEALED"}, revealed)
}

func TestScanPostsArtifactFound(t *testing.T) {
	fs, q, _ := newFs(t)
	var found []string
	q.Subscribe(event.ArtifactFound, func(ev event.Event) {
		found = append(found, ev.Payload["artifact_id"].(string))
	})

	_, err := fs.ChangeDir("archive")
	require.NoError(t, err)

	// Hidden -> Detected -> Revealed; artifact surfaces on the second scan.
	_, err = fs.Scan("memo.doc")
	require.NoError(t, err)
	_, err = fs.Scan("memo.doc")
	require.NoError(t, err)

	q.Flush()
	assert.Equal(t, []string{"arc_corporate_0001"}, found)
}

func TestScanUnknownTarget(t *testing.T) {
	fs, _, _ := newFs(t)
	_, err := fs.Scan("ghost.bin")
	assert.ErrorIs(t, err, ErrFilesystem)
}

func TestCarveConvertsDebris(t *testing.T) {
	fs, q, named := newFs(t)
	var results []bool
	q.Subscribe(event.CarveComplete, func(ev event.Event) {
		results = append(results, ev.Payload["success"].(bool))
	})

	_, err := fs.ChangeDir("archive")
	require.NoError(t, err)

	n, err := fs.Carve("shard_02")
	require.NoError(t, err)
	assert.True(t, n.IsFile())
	assert.Equal(t, world.Revealed, n.Visibility)
	assert.Same(t, named["shard_02"], n)

	q.Flush()
	assert.Equal(t, []bool{true}, results)
}

func TestCarveFailsOnHighCorruption(t *testing.T) {
	fs, q, named := newFs(t)
	named["shard_02"].Corruption = 0.9

	var results []bool
	q.Subscribe(event.CarveComplete, func(ev event.Event) {
		results = append(results, ev.Payload["success"].(bool))
	})

	_, err := fs.ChangeDir("archive")
	require.NoError(t, err)

	n, err := fs.Carve("shard_02")
	require.NoError(t, err)
	assert.True(t, n.IsDebris(), "failed carve must not convert the node")

	q.Flush()
	assert.Equal(t, []bool{false}, results)
}

func TestCarveErrors(t *testing.T) {
	fs, _, _ := newFs(t)

	// Hidden target.
	_, err := fs.ChangeDir("archive")
	require.NoError(t, err)
	_, err = fs.Carve("memo.doc")
	assert.ErrorIs(t, err, ErrFilesystem)

	// Not debris.
	_, err = fs.Scan("memo.doc")
	require.NoError(t, err)
	_, err = fs.Carve("memo.doc")
	assert.ErrorIs(t, err, ErrFilesystem)
}

func TestTickCorruptsOnlyVisibleNodes(t *testing.T) {
	fs, _, named := newFs(t)

	hiddenBefore := named["readme.txt"].Corruption
	visibleBefore := named["archive"].Corruption

	fs.Tick()

	assert.Equal(t, hiddenBefore, named["readme.txt"].Corruption)
	assert.InDelta(t, visibleBefore+0.02, named["archive"].Corruption, 1e-9)
}

func TestTickPostsThresholdEvents(t *testing.T) {
	fs, q, named := newFs(t)
	named["archive"].Corruption = 0.24

	var crossed []float64
	q.Subscribe(event.NodeCorrupted, func(ev event.Event) {
		if ev.Payload["name"] == "archive" {
			crossed = append(crossed, ev.Payload["threshold"].(float64))
		}
	})

	fs.Tick()
	q.Flush()

	assert.Equal(t, []float64{0.25}, crossed)
}
