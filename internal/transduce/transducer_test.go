package transduce

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/xmlsite/internal/render"
	"git.home.luguber.info/inful/xmlsite/internal/rules"
	"git.home.luguber.info/inful/xmlsite/internal/xmltree"
)

// fakeRenderer resolves templates by base name to fixed strings, and can be
// told to fail for a given name.
type fakeRenderer struct {
	bodies map[string]string
	fail   map[string]bool
}

func (f *fakeRenderer) Render(id string, ctx map[string]any) (string, []render.Section, error) {
	name := filepath.Base(id)
	if f.fail[name] {
		return "", nil, fmt.Errorf("render %s: boom", name)
	}
	body, ok := f.bodies[name]
	if !ok {
		return "", nil, fmt.Errorf("template not found: %s", name)
	}
	return body, nil, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func parseDoc(t *testing.T, doc string) *xmltree.Node {
	t.Helper()
	root, err := xmltree.Parse(strings.NewReader(doc), "test.xml")
	require.NoError(t, err)
	return root
}

func TestResolveToken(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "r.ini", "[namespaces]\na = urn:x\n")
	reg, err := rules.Load(path)
	require.NoError(t, err)

	aliased := &xmltree.Node{Tag: "{urn:x}foo"}
	require.Equal(t, "p/a:foo", ResolveToken(aliased, "p/", reg))
	require.Equal(t, "p/a:foo", ResolveToken(aliased, "p", reg)) // separator appended

	unaliased := &xmltree.Node{Tag: "{urn:y}foo"}
	require.Equal(t, "p/{urn:y}foo", ResolveToken(unaliased, "p", reg))

	plain := &xmltree.Node{Tag: "foo"}
	require.Equal(t, "foo", ResolveToken(plain, "", reg))
}

func TestProcessNode_UnmatchedNodeStopsRecursion(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "r.ini", `
[root]
text = emit

[p]
template = p.tmpl
`)
	// <skip> has no rule: its subtree must produce nothing even though <p>
	// inside it would have matched. Its tail still follows root's policy.
	doc := parseDoc(t, `<root>a<skip><p>inner</p></skip>b</root>`)

	tr := New(rules.NewCache(), &fakeRenderer{bodies: map[string]string{"p.tmpl": "[P]"}}, nil)
	require.NoError(t, tr.Run(doc, path))
	require.Equal(t, "ab", tr.Output().String())
}

func TestProcessNode_MatchedChildrenRender(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "r.ini", `
[root]
text = emit

[p]
template = p.tmpl
`)
	doc := parseDoc(t, `<root>a<p>inner</p>b</root>`)

	tr := New(rules.NewCache(), &fakeRenderer{bodies: map[string]string{"p.tmpl": "[P]"}}, nil)
	require.NoError(t, tr.Run(doc, path))
	require.Equal(t, "a[P]b", tr.Output().String())
}

func TestProcessNode_EmitStateInherited(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "r.ini", `
[root]
text = emit

[mid]

[quiet]
text = off
`)
	// <mid> has no text policy, so it inherits emit from root; <quiet>
	// overrides to suppress for its own subtree only.
	doc := parseDoc(t, `<root><mid>kept<quiet>dropped</quiet>tail-kept</mid>after</root>`)

	tr := New(rules.NewCache(), &fakeRenderer{}, nil)
	require.NoError(t, tr.Run(doc, path))
	require.Equal(t, "kepttail-keptafter", tr.Output().String())
}

func TestProcessNode_StackBalancedOnRenderError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "r.ini", `
[root]

[bad]
text = emit
template = bad.tmpl
`)
	doc := parseDoc(t, `<root><bad/></root>`)

	tr := New(rules.NewCache(), &fakeRenderer{fail: map[string]bool{"bad.tmpl": true}}, nil)
	err := tr.Run(doc, path)
	require.Error(t, err)
	require.Equal(t, 1, tr.emit.depth()) // only the implicit suppress frame remains
	require.False(t, tr.emit.top())
}

func TestProcessNode_TemplateReplacesRecursion(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "r.ini", `
[page]
template = page.tmpl
nested = other.ini

[p]
template = p.tmpl
`)
	// template takes precedence: neither the nested registry (which does not
	// even exist) nor the children are visited.
	doc := parseDoc(t, `<page><p>child</p></page>`)

	tr := New(rules.NewCache(), &fakeRenderer{bodies: map[string]string{"page.tmpl": "PAGE"}}, nil)
	require.NoError(t, tr.Run(doc, path))
	require.Equal(t, "PAGE", tr.Output().String())
}

func TestProcessNode_NestedRegistryWithPrefix(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.ini", `
[root]
nested = sub/inner.ini
prefix = in
`)
	writeFile(t, dir, "sub/inner.ini", `
[in/item]
template = item.tmpl
`)
	doc := parseDoc(t, `<root><item/><item/></root>`)

	tr := New(rules.NewCache(), &fakeRenderer{bodies: map[string]string{"item.tmpl": "I"}}, nil)
	require.NoError(t, tr.Run(doc, path))
	require.Equal(t, "II", tr.Output().String())
}

func TestProcessNode_SelfDelegationPrefix(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "r.ini", `
[wrap]
prefix = w

[w/item]
template = item.tmpl
`)
	doc := parseDoc(t, `<wrap><item/></wrap>`)

	tr := New(rules.NewCache(), &fakeRenderer{bodies: map[string]string{"item.tmpl": "I"}}, nil)
	require.NoError(t, tr.Run(doc, path))
	require.Equal(t, "I", tr.Output().String())
}

func TestProcessNode_PreAndPostTemplates(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "r.ini", `
[root]
pre-template = open.tmpl
post-template = close.tmpl
text = emit
`)
	doc := parseDoc(t, `<root>body</root>`)

	tr := New(rules.NewCache(), &fakeRenderer{bodies: map[string]string{
		"open.tmpl":  "<div>",
		"close.tmpl": "</div>",
	}}, nil)
	require.NoError(t, tr.Run(doc, path))
	require.Equal(t, "<div>body</div>", tr.Output().String())
}

func TestRun_EchoTemplateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "r.ini", "[root]\ntemplate = echo.tmpl\n")
	writeFile(t, dir, "echo.tmpl", `{{.node.TagName}}`)

	engine := render.NewEngine(render.Config{})
	tr := New(rules.NewCache(), engine, nil)
	doc := parseDoc(t, `<root/>`)

	require.NoError(t, tr.Run(doc, path))
	require.Equal(t, "root", tr.Output().String())
}

func TestRun_TrimFlags(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "r.ini", "[root]\ntemplate = body.tmpl\ntrim = true\n")
	writeFile(t, dir, "body.tmpl", "\n  padded  \n")

	engine := render.NewEngine(render.Config{})
	tr := New(rules.NewCache(), engine, nil)

	require.NoError(t, tr.Run(parseDoc(t, `<root/>`), path))
	require.Equal(t, "padded", tr.Output().String())
}

func TestRun_MutualDelegationTerminates(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.ini", `
[outer]
nested = b.ini

[inner]
template = leaf.tmpl
`)
	writeFile(t, dir, "b.ini", `
[outer]
nested = a.ini

[inner]
nested = a.ini
`)
	// a.ini delegates <outer> to b.ini, which delegates back. Every
	// delegation descends one tree level, so this terminates.
	doc := parseDoc(t, `<outer><outer><inner><inner/></inner></outer></outer>`)

	tr := New(rules.NewCache(), &fakeRenderer{bodies: map[string]string{"leaf.tmpl": "L"}}, nil)
	require.NoError(t, tr.Run(doc, a))
	require.Equal(t, "L", tr.Output().String())
}
