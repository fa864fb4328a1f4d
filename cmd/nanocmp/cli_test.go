package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/nanocmp"
)

const testManifest = `components:
  - tag: my-card
    style: ".title { color: red; } self-tag { display: block; }"
    attrs:
      role: region
    class: card
    template: "<span class=title>default</span>"
    members:
      kind: card
  - tag: my-badge
    styleFile: badge.css
`

const testPage = `<!DOCTYPE html><html><head><title>t</title></head><body>` +
	`<my-card></my-card><my-card><p>custom</p></my-card><my-badge></my-badge></body></html>`

func writeFixture(t *testing.T) (dir, manifest, page string) {
	t.Helper()
	dir = t.TempDir()
	manifest = filepath.Join(dir, "nanocmp.yaml")
	page = filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(manifest, []byte(testManifest), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "badge.css"), []byte(".dot { width: 4px; }"), 0o644))
	require.NoError(t, os.WriteFile(page, []byte(testPage), 0o644))
	return dir, manifest, page
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommandOutputsBuildInfo(t *testing.T) {
	originalVersion, originalCommit, originalDate := version, commit, date
	t.Cleanup(func() {
		version, commit, date = originalVersion, originalCommit, originalDate
	})
	version, commit, date = "1.2.3", "abcdef1", "2026-01-02"

	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "abcdef1")
	assert.Contains(t, out, "2026-01-02")
}

func TestRenderCommand(t *testing.T) {
	_, manifest, page := writeFixture(t)

	out, _, err := execute(t, "", "render", "-m", manifest, page)
	require.NoError(t, err)

	assert.Contains(t, out, "my-card .title { color: red; }")
	assert.Contains(t, out, "my-card { display: block; }")
	assert.Contains(t, out, "my-badge .dot { width: 4px; }")
	assert.Contains(t, out, `role="region"`)
	assert.Contains(t, out, `class="card"`)
	assert.Equal(t, 1, strings.Count(out, `<span class="title">default</span>`), "template only fills empty elements")
	assert.Contains(t, out, "<p>custom</p>")
	assert.Equal(t, 3, strings.Count(out, `is-nc=""`))
}

func TestRenderCommandStdinAndOutputFile(t *testing.T) {
	dir, manifest, _ := writeFixture(t)
	target := filepath.Join(dir, "out.html")

	out, _, err := execute(t, `<my-badge></my-badge>`, "render", "-m", manifest, "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<my-badge is-nc="">`)
}

func TestRenderCommandStateKey(t *testing.T) {
	_, manifest, page := writeFixture(t)

	out, _, err := execute(t, "", "render", "-m", manifest, "--state-key", "secret", page)
	require.NoError(t, err)
	assert.Contains(t, out, nanocmp.StateAttr+`="`)
}

func TestRenderCommandVerboseLogs(t *testing.T) {
	_, manifest, page := writeFixture(t)

	_, logs, err := execute(t, "", "render", "-v", "-m", manifest, page)
	require.NoError(t, err)
	assert.Contains(t, logs, "manifest loaded")
	assert.Contains(t, logs, "template applied")
	assert.Contains(t, logs, "document rendered")
}

func TestRenderCommandInvalidTag(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "nanocmp.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("components:\n  - tag: Card\n"), 0o644))

	_, _, err := execute(t, "<p></p>", "render", "-m", manifest)
	require.Error(t, err)
	assert.True(t, nanocmp.IsInvalidName(err))
}

func TestRenderCommandMissingManifest(t *testing.T) {
	_, _, err := execute(t, "", "render", "-m", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read manifest")
}

func TestCSSCommand(t *testing.T) {
	_, manifest, _ := writeFixture(t)

	out, _, err := execute(t, "", "css", "-m", manifest)
	require.NoError(t, err)
	assert.Equal(t,
		"my-card .title { color: red; }\nmy-card { display: block; }\nmy-badge .dot { width: 4px; }\n",
		out)
}

func TestCSSCommandWrap(t *testing.T) {
	_, manifest, _ := writeFixture(t)

	out, _, err := execute(t, "", "css", "--wrap", "-m", manifest)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<style>my-card .title"))
	assert.True(t, strings.HasSuffix(out, "</style>"))
}
