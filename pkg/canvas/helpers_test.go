package canvas

import (
	"errors"
	"image"
	"testing"

	"github.com/ha1tch/padgraph/pkg/graph"
	"github.com/stretchr/testify/require"
)

var errRefused = errors.New("refused")

func testKinds() []graph.Kind {
	video := "video/x-raw, format=I420"
	return []graph.Kind{
		{Name: "videotestsrc", Rank: 5, Sockets: []graph.SocketSpec{{Name: "src", Direction: graph.Out, Caps: video}}},
		{Name: "autovideosink", Rank: 10, Sockets: []graph.SocketSpec{{Name: "sink", Direction: graph.In, Caps: "video/x-raw"}}},
		{Name: "alsasink", Rank: 10, Sockets: []graph.SocketSpec{{Name: "sink", Direction: graph.In, Caps: "audio/x-raw"}}},
		{Name: "identity", Rank: 1, Sockets: []graph.SocketSpec{
			{Name: "sink", Direction: graph.In, Caps: "ANY"},
			{Name: "src", Direction: graph.Out, Caps: "ANY"},
		}},
		{Name: "tee", Rank: 1,
			Sockets:   []graph.SocketSpec{{Name: "sink", Direction: graph.In, Caps: "ANY"}},
			Templates: []graph.Template{{Name: "src_%u", Direction: graph.Out, Caps: "ANY"}}},
	}
}

// recorder logs every structural call made to the wrapped Memory.
type recorder struct {
	*graph.Memory
	calls     []string
	snapshots int
	active    bool
	refuse    map[string]bool // element names whose removal fails
}

func (r *recorder) Snapshot() (*graph.Snapshot, error) {
	r.snapshots++
	return r.Memory.Snapshot()
}

func (r *recorder) IsActive() bool { return r.active }

func (r *recorder) Connect(src, srcSocket, dst, dstSocket string) error {
	r.calls = append(r.calls, "connect "+src+"."+srcSocket+" "+dst+"."+dstSocket)
	return r.Memory.Connect(src, srcSocket, dst, dstSocket)
}

func (r *recorder) Disconnect(src, srcSocket, dst, dstSocket string) error {
	r.calls = append(r.calls, "disconnect "+src+"."+srcSocket+" "+dst+"."+dstSocket)
	return r.Memory.Disconnect(src, srcSocket, dst, dstSocket)
}

func (r *recorder) RemoveElement(name string) error {
	r.calls = append(r.calls, "remove "+name)
	if r.refuse[name] {
		return errRefused
	}
	return r.Memory.RemoveElement(name)
}

func (r *recorder) AddElement(kind string) (string, error) {
	r.calls = append(r.calls, "add "+kind)
	return r.Memory.AddElement(kind)
}

func (r *recorder) RequestAdditionalSocket(element, template string) error {
	r.calls = append(r.calls, "request "+element+" "+template)
	return r.Memory.RequestAdditionalSocket(element, template)
}

type fakeShell struct {
	warnings   []string
	addReqs    int
	clearReqs  int
	properties []string
	templates  []graph.Template
}

func (s *fakeShell) RequestAddElement() { s.addReqs++ }
func (s *fakeShell) RequestClearGraph() { s.clearReqs++ }
func (s *fakeShell) Warn(title, msg string) { s.warnings = append(s.warnings, title+": "+msg) }
func (s *fakeShell) ShowElementProperties(e string) {
	s.properties = append(s.properties, e)
}
func (s *fakeShell) ShowSocketProperties(e, sock string) {
	s.properties = append(s.properties, e+"."+sock)
}
func (s *fakeShell) ShowSocketTemplates(_ string, t []graph.Template) { s.templates = t }

// newTestCanvas builds a canvas over a Memory prepared by setup, loads
// the first snapshot and resets the recorder.
func newTestCanvas(t *testing.T, setup func(m *graph.Memory)) (*Canvas, *recorder, *fakeShell) {
	t.Helper()
	m := graph.NewMemory(testKinds()...)
	if setup != nil {
		setup(m)
	}
	rec := &recorder{Memory: m, refuse: map[string]bool{}}
	sh := &fakeShell{}
	c := New(rec, sh, DefaultOptions())
	_, err := c.Refresh()
	require.NoError(t, err)
	rec.calls, rec.snapshots = nil, 0
	return c, rec, sh
}

// sourceAndSink adds src (videotestsrc) and out (autovideosink), unlinked.
func sourceAndSink(m *graph.Memory) {
	if err := m.AddNamed("videotestsrc", "src"); err != nil {
		panic(err)
	}
	if err := m.AddNamed("autovideosink", "out"); err != nil {
		panic(err)
	}
}

func linkedPair(m *graph.Memory) {
	sourceAndSink(m)
	if err := m.Connect("src", "src", "out", "sink"); err != nil {
		panic(err)
	}
}

func socketPoint(t *testing.T, c *Canvas, element, socket string) image.Point {
	t.Helper()
	ref, ok := c.Snapshot().Resolve(element, socket)
	require.True(t, ok, "%s.%s", element, socket)
	return c.Layout().SocketPoint(c.Snapshot(), ref)
}

func rectOf(t *testing.T, c *Canvas, name string) image.Rectangle {
	t.Helper()
	r, ok := c.Layout().Record(name)
	require.True(t, ok, name)
	return r.Rect
}
