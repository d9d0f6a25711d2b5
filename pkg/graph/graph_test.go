package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linked(src, srcSock, dst, dstSock string) []Element {
	return []Element{
		{Name: src, Sockets: []Socket{{Name: srcSock, Direction: Out, Peer: Peer{dst, dstSock}}}},
		{Name: dst, Sockets: []Socket{{Name: dstSock, Direction: In, Peer: Peer{src, srcSock}}}},
	}
}

func TestNewSnapshotIndexes(t *testing.T) {
	snap, err := NewSnapshot([]Element{
		{Name: "a", Sockets: []Socket{
			{Name: "sink", Direction: In},
			{Name: "src_0", Direction: Out},
			{Name: "aux", Direction: In},
			{Name: "src_1", Direction: Out},
		}},
		{Name: "b"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, snap.Len())
	assert.Equal(t, []string{"a", "b"}, snap.Names())

	id, ok := snap.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, ElementID(1), id)

	ref, ok := snap.Resolve("a", "src_1")
	require.True(t, ok)
	assert.Equal(t, SocketRef{Element: 0, Socket: 3}, ref)

	idx, count := snap.Rank(ref)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, count)

	idx, count = snap.Rank(SocketRef{Element: 0, Socket: 2})
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, count)

	_, ok = snap.Resolve("a", "missing")
	assert.False(t, ok)
	_, ok = snap.Resolve("missing", "sink")
	assert.False(t, ok)
}

func TestNewSnapshotRejects(t *testing.T) {
	tests := []struct {
		name     string
		elements []Element
		want     error
	}{
		{"empty element name", []Element{{Name: ""}}, ErrEmptyName},
		{"duplicate element", []Element{{Name: "a"}, {Name: "a"}}, ErrDuplicateElement},
		{"empty socket name", []Element{{Name: "a", Sockets: []Socket{{}}}}, ErrEmptyName},
		{"duplicate socket", []Element{{Name: "a", Sockets: []Socket{{Name: "s"}, {Name: "s", Direction: Out}}}}, ErrDuplicateSocket},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSnapshot(tt.elements)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSnapshotIsolatedFromInput(t *testing.T) {
	elements := linked("x", "src", "y", "sink")
	snap := MustSnapshot(elements...)
	elements[0].Sockets[0].Name = "changed"
	assert.Equal(t, "src", snap.Element(0).Sockets[0].Name)
}

func TestLinksBothSides(t *testing.T) {
	snap := MustSnapshot(linked("x", "src", "y", "sink")...)
	links := snap.Links()
	require.Len(t, links, 2)
	assert.Equal(t, Link{From: SocketRef{0, 0}, To: SocketRef{1, 0}}, links[0])
	assert.Equal(t, Link{From: SocketRef{1, 0}, To: SocketRef{0, 0}}, links[1])
	assert.NoError(t, snap.Validate())
}

func TestValidate(t *testing.T) {
	dangling := MustSnapshot(Element{Name: "x", Sockets: []Socket{{Name: "src", Direction: Out, Peer: Peer{"gone", "sink"}}}})
	assert.ErrorContains(t, dangling.Validate(), "not in graph")

	same := linked("x", "src", "y", "sink")
	same[1].Sockets[0].Direction = Out
	assert.ErrorContains(t, MustSnapshot(same...).Validate(), "same direction")

	oneSided := linked("x", "src", "y", "sink")
	oneSided[1].Sockets[0].Peer = Peer{}
	assert.ErrorContains(t, MustSnapshot(oneSided...).Validate(), "not mirrored")
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{"in": In, "SINK": In, "out": Out, " src ": Out} {
		got, err := ParseDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDirection("sideways")
	assert.Error(t, err)
	assert.Equal(t, "out", Out.String())
	assert.Equal(t, In, Out.Opposite())
}

func TestEquivalent(t *testing.T) {
	base := linked("x", "src", "y", "sink")
	a := MustSnapshot(base...)

	t.Run("identical", func(t *testing.T) {
		assert.True(t, Equivalent(a, MustSnapshot(base...)))
	})

	t.Run("reordered elements", func(t *testing.T) {
		b := MustSnapshot(base[1], base[0])
		assert.True(t, Equivalent(a, b))
		assert.False(t, SameOrder(a, b))
	})

	t.Run("caps and kind ignored", func(t *testing.T) {
		changed := linked("x", "src", "y", "sink")
		changed[0].Kind = "other"
		changed[0].Sockets[0].Caps = "video/x-raw"
		assert.True(t, Equivalent(a, MustSnapshot(changed...)))
	})

	t.Run("added element", func(t *testing.T) {
		assert.False(t, Equivalent(a, MustSnapshot(append(linked("x", "src", "y", "sink"), Element{Name: "z"})...)))
	})

	t.Run("renamed element", func(t *testing.T) {
		changed := linked("x", "src", "y", "sink")
		changed[1].Name = "w"
		assert.False(t, Equivalent(a, MustSnapshot(changed...)))
	})

	t.Run("socket reordered", func(t *testing.T) {
		one := MustSnapshot(Element{Name: "x", Sockets: []Socket{{Name: "a"}, {Name: "b"}}})
		two := MustSnapshot(Element{Name: "x", Sockets: []Socket{{Name: "b"}, {Name: "a"}}})
		assert.False(t, Equivalent(one, two))
	})

	t.Run("direction changed", func(t *testing.T) {
		changed := linked("x", "src", "y", "sink")
		changed[1].Sockets[0].Direction = Out
		assert.False(t, Equivalent(a, MustSnapshot(changed...)))
	})

	t.Run("connection removed", func(t *testing.T) {
		changed := linked("x", "src", "y", "sink")
		changed[0].Sockets[0].Peer = Peer{}
		changed[1].Sockets[0].Peer = Peer{}
		assert.False(t, Equivalent(a, MustSnapshot(changed...)))
	})

	t.Run("nil", func(t *testing.T) {
		assert.True(t, Equivalent(nil, MustSnapshot()))
		assert.False(t, Equivalent(nil, a))
	})
}
