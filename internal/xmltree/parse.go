package xmltree

import (
	"encoding/xml"
	"io"
	"os"

	siteerrors "git.home.luguber.info/inful/xmlsite/internal/errors"
)

// Parse reads an XML document into a Node tree. The decoder resolves
// namespace prefixes, so tags and namespaced attributes come out in
// "{uri}local" form. Comments, processing instructions and directives are
// dropped. The path is only used for error reporting.
func Parse(r io.Reader, path string) (*Node, error) {
	dec := xml.NewDecoder(r)

	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, siteerrors.Wrap(err, siteerrors.CategoryParse, siteerrors.SeverityFatal,
				"malformed XML").WithContext("path", path)
		}

		switch tok := tok.(type) {
		case xml.StartElement:
			node := &Node{
				Tag:   qualify(tok.Name),
				Attrs: make(map[string]string, len(tok.Attr)),
			}
			for _, a := range tok.Attr {
				if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
					continue
				}
				node.Attrs[qualify(a.Name)] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, siteerrors.ParseError(path, "multiple root elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				continue // whitespace outside the root
			}
			cur := stack[len(stack)-1]
			if len(cur.Children) > 0 {
				last := cur.Children[len(cur.Children)-1]
				last.Tail += string(tok)
			} else {
				cur.Text += string(tok)
			}
		}
	}

	if root == nil {
		return nil, siteerrors.ParseError(path, "document has no root element")
	}
	return root, nil
}

// ParseFile parses the XML document at path.
func ParseFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, siteerrors.Wrap(err, siteerrors.CategoryFileSystem, siteerrors.SeverityFatal,
			"open input document").WithContext("path", path)
	}
	defer func() {
		_ = f.Close()
	}()
	return Parse(f, path)
}

func qualify(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return "{" + name.Space + "}" + name.Local
}
