package graphfile

import (
	"bytes"
	"testing"

	"github.com/ha1tch/padgraph/pkg/canvas"
)

// FuzzParse feeds arbitrary descriptions through the whole pipeline:
// parse, build, lay out and render. Looking for panics.
// Run with: go test -fuzz=FuzzParse -fuzztime=30s ./pkg/graphfile/
func FuzzParse(f *testing.F) {
	f.Add([]byte(sampleYAML), true)
	f.Add([]byte(`{"kinds":[{"name":"a","sockets":[{"name":"o","direction":"out"}]}],"elements":[{"name":"x","kind":"a"}]}`), false)
	f.Add([]byte(`{"kinds":[],"elements":[{"name":"x","kind":"missing"}]}`), false)
	f.Add([]byte(`{"links":[{"from":"a","to":"b.c"}]}`), false)
	f.Add([]byte(`{}`), false)
	f.Add([]byte(`null`), false)
	f.Add([]byte(``), true)
	f.Add([]byte("kinds: [{name: t, templates: [{name: 'p_%u', direction: out}]}]\nelements: [{name: e, kind: t, request: [p_%u, p_%u, nope]}]"), true)

	f.Fuzz(func(t *testing.T, data []byte, yaml bool) {
		format := FormatJSON
		if yaml {
			format = FormatYAML
		}
		d, err := Parse(data, format)
		if err != nil {
			return
		}
		m, err := d.Backend()
		if err != nil {
			return
		}

		c := canvas.New(m, nil, canvas.DefaultOptions())
		if _, err := c.Refresh(); err != nil {
			t.Fatalf("refresh after a successful build: %v", err)
		}
		if err := c.Snapshot().Validate(); err != nil {
			t.Fatalf("built graph is inconsistent: %v", err)
		}

		scene := c.Scene()
		_ = GenerateDOT(c.Snapshot(), d.Name)
		_ = GenerateSVG(scene, DefaultSVGOptions())
		if len(scene.Elements) < 20 {
			var buf bytes.Buffer
			opts := DefaultPNGOptions()
			opts.Width, opts.Height = 64, 64
			if err := RenderPNG(scene, &buf, opts); err != nil {
				t.Fatalf("png: %v", err)
			}
		}

		d.Update(c.Snapshot())
		if _, err := ToJSON(d, false); err != nil {
			t.Fatalf("json: %v", err)
		}
	})
}
