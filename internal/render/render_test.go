package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	siteerrors "git.home.luguber.info/inful/xmlsite/internal/errors"
	"git.home.luguber.info/inful/xmlsite/internal/xmltree"
)

func writeTemplate(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func parseDoc(t *testing.T, doc string) *xmltree.Node {
	t.Helper()
	root, err := xmltree.Parse(strings.NewReader(doc), "test.xml")
	require.NoError(t, err)
	return root
}

func TestRender_NodeWrapperContext(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "echo.tmpl", `{{.node.TagName}}`)

	engine := NewEngine(Config{SearchPaths: []string{dir}})
	root := parseDoc(t, `<root/>`)

	out, sections, err := engine.Render("echo.tmpl", map[string]any{"node": Wrap(root)})
	require.NoError(t, err)
	require.Equal(t, "root", out)
	require.Empty(t, sections)
}

func TestRender_SearchPathOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeTemplate(t, first, "a.tmpl", "first")
	writeTemplate(t, second, "a.tmpl", "second")

	engine := NewEngine(Config{SearchPaths: []string{first, second}})
	out, _, err := engine.Render("a.tmpl", nil)
	require.NoError(t, err)
	require.Equal(t, "first", out)
}

func TestRender_MissingTemplateIsResolutionError(t *testing.T) {
	engine := NewEngine(Config{SearchPaths: []string{t.TempDir()}})
	_, _, err := engine.Render("nope.tmpl", nil)
	require.Error(t, err)
	require.True(t, siteerrors.IsCategory(err, siteerrors.CategoryResolution))
}

func TestRender_Sections(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "s.tmpl", `body{{section "file:sidebar.html" "aside"}}more`)

	engine := NewEngine(Config{SearchPaths: []string{dir}})
	out, sections, err := engine.Render("s.tmpl", nil)
	require.NoError(t, err)
	require.Equal(t, "bodymore", out)
	require.Len(t, sections, 1)
	require.Equal(t, "file:sidebar.html", sections[0].Name)
	require.Equal(t, "aside", sections[0].Body)
}

func TestRender_EscFunc(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "e.tmpl", `{{esc .node.Text}}`)

	engine := NewEngine(Config{SearchPaths: []string{dir}})
	root := parseDoc(t, `<p>a &lt; b</p>`)
	out, _, err := engine.Render("e.tmpl", map[string]any{"node": Wrap(root)})
	require.NoError(t, err)
	require.Equal(t, "a &lt; b", out)
}

func TestRender_MarkdownFunc(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "m.tmpl", `{{markdown "# Title"}}`)

	engine := NewEngine(Config{SearchPaths: []string{dir}})
	out, _, err := engine.Render("m.tmpl", nil)
	require.NoError(t, err)
	require.Contains(t, out, "<h1>Title</h1>")
}

func TestHighlight_PlaintextFallback(t *testing.T) {
	out, err := Highlight("hello world", "no-such-syntax", HighlightOptions{Classes: true})
	require.NoError(t, err)
	require.Contains(t, out, "hello world")
	// PreventSurroundingPre keeps the fragment embeddable.
	require.NotContains(t, out, "<pre")
}

func TestWrapper_FindAndChildren(t *testing.T) {
	root := parseDoc(t, `<entry><info><title>Hi</title></info><p>one</p><p>two</p></entry>`)
	w := Wrap(root)

	title := w.Find("info/title")
	require.NotNil(t, title)
	require.Equal(t, "Hi", title.Text())
	require.Nil(t, w.Find("missing"))

	kids := w.Children()
	require.Len(t, kids, 3)
	require.Equal(t, "info", kids[0].TagName())
	require.Equal(t, "two", kids[2].AllText())
}
