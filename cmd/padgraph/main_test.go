package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pipelineYAML = `
name: preview
kinds:
  - name: videotestsrc
    sockets:
      - {name: src, direction: out, caps: video/x-raw}
  - name: tee
    sockets:
      - {name: sink, direction: in}
    templates:
      - {name: "src_%u", direction: out}
  - name: autovideosink
    sockets:
      - {name: sink, direction: in, caps: video/x-raw}
elements:
  - {name: camera, kind: videotestsrc}
  - {name: split, kind: tee, request: ["src_%u", "src_%u"]}
  - {name: screen, kind: autovideosink}
links:
  - {from: camera.src, to: split.sink}
  - {from: split.src_1, to: screen.sink}
`

func writePipeline(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(pipelineYAML), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", writePipeline(t))
	require.NoError(t, err)
	assert.Contains(t, out, "valid pipeline with 3 elements, 2 links")
}

func TestValidateRejectsBadLink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	body := strings.Replace(pipelineYAML, "split.src_1", "split.src_7", 1)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := run(t, "validate", path)
	assert.Error(t, err)
}

func TestLayout(t *testing.T) {
	out, err := run(t, "layout", writePipeline(t))
	require.NoError(t, err)
	assert.Contains(t, out, "preview")
	assert.Contains(t, out, "(10,10)-(160,60)")
	assert.Contains(t, out, "(10,85)-(160,135)")
	assert.Contains(t, out, "2 links")
}

func TestHit(t *testing.T) {
	path := writePipeline(t)
	tests := []struct {
		x, y string
		want string
	}{
		{"50", "30", "element camera"},
		{"159", "35", "socket  camera.src"},
		{"84", "72", "link    camera.src -> split.sink"},
		{"900", "900", "nothing"},
	}
	for _, tt := range tests {
		out, err := run(t, "hit", path, tt.x, tt.y)
		require.NoError(t, err)
		assert.Equal(t, tt.want, strings.TrimSpace(out), "%s,%s", tt.x, tt.y)
	}

	_, err := run(t, "hit", path, "left", "1")
	assert.Error(t, err)
}

func TestDot(t *testing.T) {
	out, err := run(t, "dot", writePipeline(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph pipeline {"))
	assert.Contains(t, out, `label="preview";`)
}

func TestRender(t *testing.T) {
	path := writePipeline(t)
	dir := t.TempDir()

	for _, name := range []string{"out.png", "out.svg"} {
		target := filepath.Join(dir, name)
		out, err := run(t, "render", path, "-o", target, "--width", "200")
		require.NoError(t, err, name)
		assert.Contains(t, out, "Written: "+target)
		info, err := os.Stat(target)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	_, err := run(t, "render", path, "-o", filepath.Join(dir, "out.gif"))
	assert.Error(t, err)
	_, err = run(t, "render", path)
	assert.Error(t, err, "output is required")
}
