// Package render loads and renders the text templates referenced by rule
// entries. Templates receive the current node through a NodeWrapper and may
// emit named auxiliary sections through the "section" function.
package render

import (
	"git.home.luguber.info/inful/xmlsite/internal/xmltree"
)

// NodeWrapper adapts an xmltree.Node to the capability contract templates
// depend on. Templates never see the concrete tree type.
type NodeWrapper struct {
	node  *xmltree.Node
	ns    string
	local string
}

// Wrap creates a wrapper for a node. Wrapping nil returns nil so template
// pipelines can test the result directly.
func Wrap(n *xmltree.Node) *NodeWrapper {
	if n == nil {
		return nil
	}
	ns, local := xmltree.SplitTag(n.Tag)
	return &NodeWrapper{node: n, ns: ns, local: local}
}

// Tag returns the qualified tag, "{namespace}local" when namespaced.
func (w *NodeWrapper) Tag() string { return w.node.Tag }

// NS returns the namespace URI, or "" when the tag has none.
func (w *NodeWrapper) NS() string { return w.ns }

// TagName returns the local name without any namespace prefix.
func (w *NodeWrapper) TagName() string { return w.local }

// Text returns the character data inside the opening tag.
func (w *NodeWrapper) Text() string { return w.node.Text }

// Tail returns the character data after the closing tag.
func (w *NodeWrapper) Tail() string { return w.node.Tail }

// AllText returns the concatenated text of the whole subtree.
func (w *NodeWrapper) AllText() string { return w.node.AllText() }

// Attr returns the named attribute, or "" when absent.
func (w *NodeWrapper) Attr(name string) string { return w.node.Attr(name, "") }

// AttrOr returns the named attribute, or defval when absent.
func (w *NodeWrapper) AttrOr(name, defval string) string { return w.node.Attr(name, defval) }

// Children returns the wrapped child nodes in document order.
func (w *NodeWrapper) Children() []*NodeWrapper {
	out := make([]*NodeWrapper, len(w.node.Children))
	for i, c := range w.node.Children {
		out[i] = Wrap(c)
	}
	return out
}

// Find returns the first descendant matching a slash-separated path, or nil.
func (w *NodeWrapper) Find(path string) *NodeWrapper {
	return Wrap(w.node.Find(path))
}

// FindAll returns every descendant matching the path, in document order.
func (w *NodeWrapper) FindAll(path string) []*NodeWrapper {
	nodes := w.node.FindAll(path)
	out := make([]*NodeWrapper, len(nodes))
	for i, n := range nodes {
		out[i] = Wrap(n)
	}
	return out
}
