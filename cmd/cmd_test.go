package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/notepipe/config"
	"github.com/gaurav-prasanna/notepipe/core"
	"github.com/gaurav-prasanna/notepipe/core/markdown"
)

// isolate keeps user config files out of the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", filepath.Join(dir, "home"))
	t.Chdir(dir)
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRenderStdoutSanitizesByDefault(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "todo.md")
	writeFile(t, path, "# Hi\n\n<script>alert(1)</script> **b**")

	out, _, err := run(t, "", "render", path, "--stdout")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Hi</h1>")
	assert.Contains(t, out, "<strong>b</strong>")
	assert.NotContains(t, out, "<script>")

	out, _, err = run(t, "", "render", path, "--stdout", "--sanitize=false")
	require.NoError(t, err)
	assert.Contains(t, out, "<script>alert(1)</script>")
}

func TestRenderFromStdin(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "*x*", "render", "-", "--stdout")
	require.NoError(t, err)
	assert.Equal(t, "<p><em>x</em></p>", out)
}

func TestRenderChatPreset(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "[a](http://x.test) <b>", "render", "-", "--stdout", "--preset", "chat", "--sanitize=false")
	require.NoError(t, err)
	assert.Contains(t, out, `rel="noopener"`)
	assert.Contains(t, out, "&lt;b&gt;")
}

func TestRenderWritesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "Plan 2024.md")
	writeFile(t, path, "# Plan")
	outDir := filepath.Join(dir, "out")

	out, _, err := run(t, "", "render", path, "--document", "--output_dir", outDir)
	require.NoError(t, err)

	want := filepath.Join(outDir, "Plan_2024.html")
	assert.Contains(t, out, "✓ Written: "+want)
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<title>Plan</title>")
}

func TestRenderAll(t *testing.T) {
	dir := isolate(t)
	notes := filepath.Join(dir, "notes")
	writeFile(t, filepath.Join(notes, "a.md"), "alpha")
	writeFile(t, filepath.Join(notes, "sub", "b.markdown"), "beta")
	writeFile(t, filepath.Join(notes, "skip.txt"), "nope")
	outDir := filepath.Join(dir, "out")

	out, _, err := run(t, "", "render", notes, "--all", "--json", "--output_dir", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 notes to render in 2 directories")
	assert.FileExists(t, filepath.Join(outDir, "a.json"))
	assert.FileExists(t, filepath.Join(outDir, "sub", "b.json"))
}

func TestRenderAllMaxNotes(t *testing.T) {
	dir := isolate(t)
	notes := filepath.Join(dir, "notes")
	writeFile(t, filepath.Join(notes, "a.md"), "alpha")
	writeFile(t, filepath.Join(notes, "b.md"), "beta")

	out, _, err := run(t, "", "render", notes, "--all", "--max_notes", "1", "--output_dir", filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 notes to render in 1 directories")
}

func TestRenderFlagErrors(t *testing.T) {
	isolate(t)

	_, _, err := run(t, "", "render", "x.md", "--pdf", "--json")
	assert.EqualError(t, err, "only one output format allowed per run (got 2)")

	_, _, err = run(t, "", "render", "x.md", "--all", "--stdout")
	assert.EqualError(t, err, "--all and --stdout are mutually exclusive")

	_, _, err = run(t, "", "render", "x.md", "--preset", "fancy")
	require.ErrorIs(t, err, config.ErrInvalid)
	assert.ErrorContains(t, err, "render.preset")

	_, _, err = run(t, "", "render", "missing.md", "--stdout")
	assert.ErrorContains(t, err, "fetch: ")
}

func TestExplicitConfigFile(t *testing.T) {
	dir := isolate(t)
	cfgPath := filepath.Join(dir, "notepipe.yaml")
	writeFile(t, cfgPath, "render:\n  engine: strict\n")

	out, _, err := run(t, "| a |\n|---|\n| 1 |", "--config", cfgPath, "render", "-", "--stdout")
	require.NoError(t, err)
	assert.Contains(t, out, "<th>a</th>")

	_, _, err = run(t, "", "--config", filepath.Join(dir, "absent.yaml"), "render", "-", "--stdout")
	assert.ErrorContains(t, err, "reading config")
}

func TestImport(t *testing.T) {
	dir := isolate(t)
	page := filepath.Join(dir, "saved.html")
	writeFile(t, page, `<html lang="de"><head><title>Page</title></head><body>
<nav>menu</nav><main><h2>Sub</h2><p>Hello <a href="/x">link</a></p></main></body></html>`)

	out, _, err := run(t, "", "import", page, "--stdout")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "---\ntitle: Page\n---\n\n"))
	assert.Contains(t, out, "## Sub")
	assert.Contains(t, out, "[link](/x)")
	assert.NotContains(t, out, "menu")

	out, _, err = run(t, "", "import", page, "--output_dir", filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "out", "saved.md"))
}

func TestImportEmptyPage(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "<html><body><nav>only nav</nav></body></html>", "import", "-", "--stdout")
	assert.ErrorIs(t, err, core.ErrEmptyNote)
}

func TestConfigCommand(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "preset: notes")
}

func TestBuildConverter(t *testing.T) {
	base := config.Config{Preset: "notes", Engine: "pipeline", HighlightStyle: "github"}

	strict := base
	strict.Engine = "strict"
	assert.IsType(t, &markdown.Strict{}, buildConverter(strict))

	conv, ok := buildConverter(base).(*markdown.Renderer)
	require.True(t, ok)
	assert.False(t, conv.Highlighted())

	chat := base
	chat.Preset = "chat"
	conv, ok = buildConverter(chat).(*markdown.Renderer)
	require.True(t, ok)
	assert.True(t, conv.Highlighted())
}
