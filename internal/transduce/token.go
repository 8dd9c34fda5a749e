package transduce

import (
	"strings"

	"git.home.luguber.info/inful/xmlsite/internal/rules"
	"git.home.luguber.info/inful/xmlsite/internal/xmltree"
)

// prefixSeparator terminates a non-empty scope prefix inside a token.
const prefixSeparator = "/"

// ResolveToken builds the registry lookup token for a node under an
// inherited prefix. An aliased namespace contributes "alias:local"; a
// namespace without an alias keeps its verbatim "{uri}local" spelling so
// tokens stay unique even for unmapped namespaces.
func ResolveToken(n *xmltree.Node, prefix string, reg *rules.Registry) string {
	if prefix != "" && !strings.HasSuffix(prefix, prefixSeparator) {
		prefix += prefixSeparator
	}

	ns, local := xmltree.SplitTag(n.Tag)
	if ns == "" {
		return prefix + local
	}
	if alias, ok := reg.Alias(ns); ok {
		return prefix + alias + ":" + local
	}
	return prefix + "{" + ns + "}" + local
}
