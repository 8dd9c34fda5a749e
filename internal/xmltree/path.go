package xmltree

import "strings"

// Find returns the first descendant matching a slash-separated child path,
// or nil when nothing matches. Each segment matches either the qualified
// tag or the local name of a child; "." matches the current node.
func (n *Node) Find(path string) *Node {
	matches := n.findAll(path, true)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// FindAll returns every descendant matching the path, in document order.
func (n *Node) FindAll(path string) []*Node {
	return n.findAll(path, false)
}

func (n *Node) findAll(path string, first bool) []*Node {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	current := []*Node{n}

	for _, seg := range segments {
		if seg == "" || seg == "." {
			continue
		}
		var next []*Node
		for _, node := range current {
			for _, c := range node.Children {
				if c.Tag == seg || c.LocalName() == seg {
					next = append(next, c)
				}
			}
		}
		current = next
		if len(current) == 0 {
			return nil
		}
	}
	if first && len(current) > 0 {
		return current[:1]
	}
	return current
}
