package canvas

import (
	"image"
	"testing"

	"github.com/ha1tch/padgraph/pkg/graph"
)

// FuzzGestures drives the pointer with arbitrary event sequences.
// Each three bytes are one event: op, x/2, y/2.
// Run with: go test -fuzz=FuzzGestures -fuzztime=30s ./pkg/canvas/
func FuzzGestures(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0, 10, 17, 1, 80, 17, 2, 80, 17})           // drag an element
	f.Add([]byte{0, 79, 17, 1, 5, 55, 2, 5, 55})             // drag a link
	f.Add([]byte{0, 120, 120, 1, 1, 1, 2, 1, 1})             // rubber band
	f.Add([]byte{0, 10, 17, 3, 0, 0, 1, 255, 255, 2, 0, 0}) // cancel mid-drag
	f.Add([]byte{2, 0, 0, 1, 40, 40, 0, 255, 255})

	f.Fuzz(func(t *testing.T, data []byte) {
		c, _, _ := newTestCanvas(t, func(m *graph.Memory) {
			linkedPair(m)
			if err := m.AddNamed("identity", "mid"); err != nil {
				panic(err)
			}
		})
		bounds := c.Options().Bounds

		for i := 0; i+2 < len(data); i += 3 {
			pt := image.Pt(int(data[i+1])*2, int(data[i+2])*2)
			switch data[i] % 4 {
			case 0:
				c.PointerDown(pt)
			case 1:
				c.PointerMove(pt)
			case 2:
				c.PointerUp(pt)
				if _, ok := c.Gesture().(Idle); !ok {
					t.Fatalf("gesture %T after release", c.Gesture())
				}
			case 3:
				c.Cancel()
			}

			snap := c.Snapshot()
			if err := snap.Validate(); err != nil {
				t.Fatalf("snapshot: %v", err)
			}
			records := c.Layout().Records()
			if len(records) != snap.Len() {
				t.Fatalf("%d records for %d elements", len(records), snap.Len())
			}
			for _, r := range records {
				if !r.Rect.In(bounds) {
					t.Fatalf("%s at %v left %v", r.Name, r.Rect, bounds)
				}
			}
			_ = c.Scene()
		}
	})
}
