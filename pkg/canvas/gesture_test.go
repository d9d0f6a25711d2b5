package canvas

import (
	"image"
	"testing"

	"github.com/ha1tch/padgraph/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionThreshold(t *testing.T) {
	c, rec, _ := newTestCanvas(t, sourceAndSink)

	ev := c.PointerDown(image.Pt(0, 0))
	assert.Equal(t, EventBeginSelect, ev.Kind)
	assert.IsType(t, Selecting{}, c.Gesture())

	ev = c.PointerUp(image.Pt(10, 1))
	assert.Equal(t, EventSelectRect, ev.Kind, "area 10 exceeds the threshold")
	assert.Empty(t, ev.Selected, "nothing lies inside the band")
	assert.IsType(t, Idle{}, c.Gesture())

	c.PointerDown(image.Pt(0, 0))
	ev = c.PointerUp(image.Pt(1, 1))
	assert.Equal(t, EventNone, ev.Kind, "area 1 is too small to select")

	c.PointerDown(image.Pt(0, 0))
	ev = c.PointerUp(image.Pt(20, 20))
	assert.Equal(t, EventSelectRect, ev.Kind)
	assert.Equal(t, []string{"src"}, ev.Selected)
	assert.Equal(t, []string{"src"}, c.Layout().Selected())
	assert.Empty(t, rec.calls)
}

func TestPointerDownClearsSelection(t *testing.T) {
	c, _, _ := newTestCanvas(t, sourceAndSink)
	c.Layout().Select("src")
	c.Layout().Select("out")

	c.PointerDown(image.Pt(600, 600))
	assert.Empty(t, c.Layout().Selected())
}

func TestZeroDeltaClickSelects(t *testing.T) {
	c, rec, _ := newTestCanvas(t, sourceAndSink)
	before := rectOf(t, c, "src")

	ev := c.PointerDown(image.Pt(50, 30))
	assert.Equal(t, EventBeginMove, ev.Kind)
	assert.Equal(t, "src", ev.Element)

	ev = c.PointerUp(image.Pt(50, 30))
	assert.Equal(t, EventToggleSelect, ev.Kind)
	assert.Equal(t, []string{"src"}, c.Layout().Selected())
	assert.Equal(t, before, rectOf(t, c, "src"))
	assert.Empty(t, rec.calls)
}

func TestMoveUsesDeltaSinceLastEvent(t *testing.T) {
	c, _, _ := newTestCanvas(t, sourceAndSink)
	start := rectOf(t, c, "src")

	c.PointerDown(image.Pt(100, 30))
	ev := c.PointerMove(image.Pt(110, 40))
	assert.Equal(t, EventMoved, ev.Kind)
	assert.Equal(t, start.Add(image.Pt(10, 10)), rectOf(t, c, "src"))

	ev = c.PointerMove(image.Pt(2000, 40))
	assert.Equal(t, EventNone, ev.Kind, "move would leave the bounds")
	assert.Equal(t, start.Add(image.Pt(10, 10)), rectOf(t, c, "src"))

	ev = c.PointerMove(image.Pt(2010, 40))
	assert.Equal(t, EventMoved, ev.Kind, "delta is measured from the rejected position")
	assert.Equal(t, start.Add(image.Pt(20, 10)), rectOf(t, c, "src"))

	ev = c.PointerUp(image.Pt(2010, 40))
	assert.Equal(t, EventMoveDone, ev.Kind)
	assert.Empty(t, c.Layout().Selected())
}

func TestConnectIssuesOneCommand(t *testing.T) {
	c, rec, sh := newTestCanvas(t, sourceAndSink)
	from := socketPoint(t, c, "src", "src")
	to := socketPoint(t, c, "out", "sink")

	ev := c.PointerDown(from)
	require.Equal(t, EventBeginConnect, ev.Kind)
	ev = c.PointerMove(image.Pt(80, 80))
	assert.Equal(t, EventRubberBand, ev.Kind)

	ev = c.PointerUp(to)
	assert.Equal(t, EventConnect, ev.Kind)
	assert.NoError(t, ev.Err)
	assert.Equal(t, "out", ev.Target)
	assert.Equal(t, "sink", ev.TargetSocket)
	assert.Equal(t, []string{"connect src.src out.sink"}, rec.calls)
	assert.Equal(t, 1, rec.snapshots, "the canvas resyncs after the command")
	assert.Empty(t, sh.warnings)
	assert.Len(t, c.Snapshot().Links(), 2)
}

func TestConnectSameElementDiscarded(t *testing.T) {
	c, rec, _ := newTestCanvas(t, func(m *graph.Memory) {
		if err := m.AddNamed("identity", "x"); err != nil {
			panic(err)
		}
	})

	c.PointerDown(socketPoint(t, c, "x", "src"))
	ev := c.PointerUp(socketPoint(t, c, "x", "sink"))
	assert.Equal(t, EventDiscard, ev.Kind)
	assert.Empty(t, rec.calls)
	assert.Zero(t, rec.snapshots)
}

func TestConnectReleasedOffSocket(t *testing.T) {
	c, rec, _ := newTestCanvas(t, sourceAndSink)

	c.PointerDown(socketPoint(t, c, "src", "src"))
	ev := c.PointerUp(image.Pt(100, 110))
	assert.Equal(t, EventDiscard, ev.Kind, "element body is not a socket")
	assert.Empty(t, rec.calls)
}

func TestRejectedConnectWarnsAndRefreshes(t *testing.T) {
	c, rec, sh := newTestCanvas(t, func(m *graph.Memory) {
		if err := m.AddNamed("videotestsrc", "src"); err != nil {
			panic(err)
		}
		if err := m.AddNamed("alsasink", "speaker"); err != nil {
			panic(err)
		}
	})

	c.PointerDown(socketPoint(t, c, "src", "src"))
	ev := c.PointerUp(socketPoint(t, c, "speaker", "sink"))
	assert.Equal(t, EventConnect, ev.Kind)
	assert.ErrorIs(t, ev.Err, graph.ErrIncompatible)
	assert.Len(t, rec.calls, 1)
	assert.Len(t, sh.warnings, 1)
	assert.Contains(t, sh.warnings[0], "Connection failed")
	assert.Equal(t, 1, rec.snapshots)
	assert.Empty(t, c.Snapshot().Links())
}

func TestConnectFromInSocketIsPassedThrough(t *testing.T) {
	c, rec, sh := newTestCanvas(t, sourceAndSink)

	c.PointerDown(socketPoint(t, c, "out", "sink"))
	ev := c.PointerUp(socketPoint(t, c, "src", "src"))
	assert.Equal(t, []string{"connect out.sink src.src"}, rec.calls, "orientation is the backend's call")
	assert.ErrorIs(t, ev.Err, graph.ErrDirection)
	assert.Len(t, sh.warnings, 1)
}

func TestHoverTooltip(t *testing.T) {
	c, _, _ := newTestCanvas(t, sourceAndSink)

	ev := c.PointerMove(socketPoint(t, c, "src", "src"))
	assert.Equal(t, EventHover, ev.Kind)
	assert.Equal(t, "video/x-raw, format=I420", c.Tooltip())

	ev = c.PointerMove(image.Pt(600, 600))
	assert.Equal(t, EventNone, ev.Kind)
	assert.Empty(t, c.Tooltip())
}

func TestCancel(t *testing.T) {
	c, rec, _ := newTestCanvas(t, sourceAndSink)
	c.PointerDown(socketPoint(t, c, "src", "src"))
	c.Cancel()
	assert.IsType(t, Idle{}, c.Gesture())

	ev := c.PointerUp(socketPoint(t, c, "out", "sink"))
	assert.Equal(t, EventNone, ev.Kind)
	assert.Empty(t, rec.calls)
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "select-rect", EventSelectRect.String())
	assert.Equal(t, "EventKind(99)", EventKind(99).String())
}
