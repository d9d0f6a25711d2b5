package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKinds() []Kind {
	return []Kind{
		{Name: "videotestsrc", Rank: 5, Sockets: []SocketSpec{{Name: "src", Direction: Out, Caps: "video/x-raw, format=I420"}}},
		{Name: "autovideosink", Rank: 10, Sockets: []SocketSpec{{Name: "sink", Direction: In, Caps: "video/x-raw"}}},
		{Name: "fakesink", Rank: 0, Sockets: []SocketSpec{{Name: "sink", Direction: In, Caps: "ANY"}}},
		{Name: "alsasink", Rank: 10, Sockets: []SocketSpec{{Name: "sink", Direction: In, Caps: "audio/x-raw"}}},
		{Name: "tee", Rank: 1,
			Sockets:   []SocketSpec{{Name: "sink", Direction: In, Caps: "ANY"}},
			Templates: []Template{{Name: "src_%u", Direction: Out, Caps: "ANY"}}},
	}
}

func TestMemoryAddElementNaming(t *testing.T) {
	m := NewMemory(testKinds()...)
	a, err := m.AddElement("tee")
	require.NoError(t, err)
	b, err := m.AddElement("tee")
	require.NoError(t, err)
	assert.Equal(t, "tee0", a)
	assert.Equal(t, "tee1", b)

	require.NoError(t, m.AddNamed("tee", "tee2"))
	c, err := m.AddElement("tee")
	require.NoError(t, err)
	assert.Equal(t, "tee3", c, "explicit names are skipped")

	_, err = m.AddElement("nope")
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.ErrorIs(t, m.AddNamed("tee", "tee0"), ErrDuplicateElement)
}

func TestMemoryKindsByRank(t *testing.T) {
	m := NewMemory(testKinds()...)
	assert.Equal(t, []string{"alsasink", "autovideosink", "videotestsrc", "tee", "fakesink"}, m.Kinds())
}

func TestMemoryConnectDisconnect(t *testing.T) {
	m := NewMemory(testKinds()...)
	require.NoError(t, m.AddNamed("videotestsrc", "src"))
	require.NoError(t, m.AddNamed("autovideosink", "out"))
	require.NoError(t, m.AddNamed("alsasink", "speaker"))

	assert.ErrorIs(t, m.Connect("out", "sink", "src", "src"), ErrDirection)
	assert.ErrorIs(t, m.Connect("src", "src", "speaker", "sink"), ErrIncompatible)
	assert.ErrorIs(t, m.Connect("src", "nope", "out", "sink"), ErrUnknownSocket)
	assert.ErrorIs(t, m.Connect("ghost", "src", "out", "sink"), ErrUnknownElement)

	require.NoError(t, m.Connect("src", "src", "out", "sink"))
	assert.ErrorIs(t, m.Connect("src", "src", "out", "sink"), ErrAlreadyLinked)

	snap, err := m.Snapshot()
	require.NoError(t, err)
	require.NoError(t, snap.Validate())
	id, _ := snap.Lookup("src")
	assert.Equal(t, Peer{"out", "sink"}, snap.Element(id).Sockets[0].Peer)

	assert.ErrorIs(t, m.Disconnect("src", "src", "speaker", "sink"), ErrNotLinked)
	require.NoError(t, m.Disconnect("src", "src", "out", "sink"))

	after, err := m.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, after.Links())
	assert.Len(t, snap.Links(), 2, "earlier snapshots are not affected")
}

func TestMemoryRemoveElementUnlinksPeers(t *testing.T) {
	m := NewMemory(testKinds()...)
	require.NoError(t, m.AddNamed("videotestsrc", "src"))
	require.NoError(t, m.AddNamed("fakesink", "sink"))
	require.NoError(t, m.Connect("src", "src", "sink", "sink"))

	require.NoError(t, m.RemoveElement("sink"))
	assert.ErrorIs(t, m.RemoveElement("sink"), ErrUnknownElement)

	snap, err := m.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, []string{"src"}, snap.Names())
	assert.False(t, snap.Element(0).Sockets[0].Peer.Connected())
}

func TestMemoryCanConnect(t *testing.T) {
	m := NewMemory(testKinds()...)
	require.NoError(t, m.AddNamed("videotestsrc", "src"))

	assert.True(t, m.CanConnect("src", "src", "autovideosink", false))
	assert.True(t, m.CanConnect("src", "src", "fakesink", false))
	assert.False(t, m.CanConnect("src", "src", "alsasink", false))
	assert.True(t, m.CanConnect("src", "src", "alsasink", true))
	assert.False(t, m.CanConnect("src", "src", "videotestsrc", true), "no in socket")
	assert.False(t, m.CanConnect("src", "src", "missing", true))
	assert.False(t, m.CanConnect("src", "nope", "fakesink", true))
}

func TestMemoryRequestSocket(t *testing.T) {
	m := NewMemory(testKinds()...)
	require.NoError(t, m.AddNamed("tee", "t"))

	tmpls, err := m.SocketTemplates("t")
	require.NoError(t, err)
	require.Len(t, tmpls, 1)
	assert.Equal(t, "src_%u", tmpls[0].Name)

	require.NoError(t, m.RequestAdditionalSocket("t", "src_%u"))
	require.NoError(t, m.RequestAdditionalSocket("t", "src_%u"))
	assert.ErrorIs(t, m.RequestAdditionalSocket("t", "bogus"), ErrNoTemplate)
	assert.ErrorIs(t, m.RequestAdditionalSocket("ghost", "src_%u"), ErrUnknownElement)

	snap, err := m.Snapshot()
	require.NoError(t, err)
	e := snap.Element(0)
	require.Len(t, e.Sockets, 3)
	assert.Equal(t, "src_0", e.Sockets[1].Name)
	assert.Equal(t, "src_1", e.Sockets[2].Name)
	in, out := e.Counts()
	assert.Equal(t, 1, in)
	assert.Equal(t, 2, out)
}

func TestMemoryStateAndClear(t *testing.T) {
	m := NewMemory(testKinds()...)
	assert.False(t, m.IsActive())
	m.SetState(StatePaused)
	assert.True(t, m.IsActive())
	m.SetState(StatePlaying)
	assert.True(t, m.IsActive())
	assert.Equal(t, "playing", m.State().String())
	m.SetState(StateReady)
	assert.False(t, m.IsActive())

	_, err := m.AddElement("tee")
	require.NoError(t, err)
	m.Clear()
	snap, err := m.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Len())
	name, err := m.AddElement("tee")
	require.NoError(t, err)
	assert.Equal(t, "tee0", name)
}

func TestCapsCompatible(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"", "video/x-raw", true},
		{"ANY", "audio/x-raw", true},
		{"video/x-raw, format=I420", "video/x-raw", true},
		{"video/x-raw", "audio/x-raw", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CapsCompatible(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}
