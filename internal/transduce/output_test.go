package transduce

import (
	"testing"

	"github.com/stretchr/testify/require"

	siteerrors "git.home.luguber.info/inful/xmlsite/internal/errors"
	"git.home.luguber.info/inful/xmlsite/internal/render"
)

func TestOutput_OrderedFragments(t *testing.T) {
	out := NewOutput()
	out.Append("a")
	out.Append("")
	out.Append("b")
	out.Append("c")
	require.Equal(t, "abc", out.String())
}

func TestOutput_NamedSections(t *testing.T) {
	out := NewOutput()
	out.AddSections([]render.Section{{Name: "toc", Body: "<ul/>"}})

	body, ok := out.Section("toc")
	require.True(t, ok)
	require.Equal(t, "<ul/>", body)

	_, ok = out.Section("missing")
	require.False(t, ok)
}

func TestOutput_FileSections(t *testing.T) {
	out := NewOutput()
	out.AddSections([]render.Section{
		{Name: "file:sidebar.html", Body: "aside"},
		{Name: "toc", Body: "ignored, not a file section"},
		{Name: "file:../escape.html", Body: "evil"},
		{Name: "file:a/b.html", Body: "evil"},
		{Name: "file:", Body: "empty"},
	})

	files, errs := out.FileSections()
	require.Len(t, files, 1)
	require.Equal(t, "sidebar.html", files[0].Filename)
	require.Equal(t, "aside", files[0].Body)

	require.Len(t, errs, 3)
	for _, err := range errs {
		require.True(t, siteerrors.IsCategory(err, siteerrors.CategoryOutput))
	}
}

func TestEmitStack_ImplicitSuppressFrame(t *testing.T) {
	s := newEmitStack()
	require.False(t, s.top())

	s.push(true)
	require.True(t, s.top())
	s.push(false)
	require.False(t, s.top())

	s.pop()
	require.True(t, s.top())
	s.pop()
	require.False(t, s.top())

	// The implicit frame can never be popped off.
	s.pop()
	require.Equal(t, 1, s.depth())
}
