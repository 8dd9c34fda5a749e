// Package xmltree provides the parsed XML document model consumed by the
// transducer and the metadata index.
//
// Nodes follow ElementTree conventions: a namespaced tag is spelled
// "{uri}local", Text is the character data immediately inside the opening
// tag, and Tail is the character data immediately after the closing tag.
// Trees are built once by Parse and treated as read-only afterwards.
package xmltree

import "strings"

// Node is one element of a parsed document.
type Node struct {
	Tag      string            // qualified name, "{namespace}local" when namespaced
	Text     string            // character data inside the opening tag
	Tail     string            // character data after the closing tag
	Attrs    map[string]string // attribute name -> value
	Children []*Node           // document order
}

// SplitTag splits a qualified tag into its namespace URI and local name.
// A tag without a brace-delimited prefix has an empty namespace.
func SplitTag(tag string) (ns, local string) {
	if strings.HasPrefix(tag, "{") {
		if end := strings.Index(tag, "}"); end >= 0 {
			return tag[1:end], tag[end+1:]
		}
	}
	return "", tag
}

// LocalName returns the tag without its namespace prefix.
func (n *Node) LocalName() string {
	_, local := SplitTag(n.Tag)
	return local
}

// Namespace returns the namespace URI of the tag, or "" if none.
func (n *Node) Namespace() string {
	ns, _ := SplitTag(n.Tag)
	return ns
}

// Attr returns the named attribute, or defval when absent.
func (n *Node) Attr(name, defval string) string {
	if v, ok := n.Attrs[name]; ok {
		return v
	}
	return defval
}

// AllText concatenates all text content of the subtree in document order,
// including the tails of inner elements but not the tail of n itself.
func (n *Node) AllText() string {
	var sb strings.Builder
	n.appendText(&sb)
	return sb.String()
}

func (n *Node) appendText(sb *strings.Builder) {
	sb.WriteString(n.Text)
	for _, c := range n.Children {
		c.appendText(sb)
		sb.WriteString(c.Tail)
	}
}
