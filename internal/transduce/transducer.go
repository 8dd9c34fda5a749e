// Package transduce implements the rule-driven tree walker at the heart of
// xmlsite. For every node it resolves a lookup token, consults the active
// rule registry, and either renders templates, copies literal text, or
// delegates the node's children to another registry.
package transduce

import (
	"strings"

	"git.home.luguber.info/inful/xmlsite/internal/render"
	"git.home.luguber.info/inful/xmlsite/internal/rules"
	"git.home.luguber.info/inful/xmlsite/internal/xmltree"
)

// Renderer is the template-rendering contract the transducer depends on.
// render.Engine satisfies it.
type Renderer interface {
	Render(id string, ctx map[string]any) (string, []render.Section, error)
}

// Transducer drives one document's transduction. It owns the per-run
// output accumulator and text-emission stack; the registry cache may be
// shared with other documents of the same run.
type Transducer struct {
	cache    *rules.Cache
	renderer Renderer
	base     map[string]any
	out      *Output
	emit     *emitStack
}

// New creates a transducer. The base context is merged into every template
// render beneath the per-node wrapper.
func New(cache *rules.Cache, renderer Renderer, base map[string]any) *Transducer {
	return &Transducer{
		cache:    cache,
		renderer: renderer,
		base:     base,
		out:      NewOutput(),
		emit:     newEmitStack(),
	}
}

// Output returns the accumulator this transducer appends to.
func (t *Transducer) Output() *Output {
	return t.out
}

// Run loads the starting registry and processes the document root.
func (t *Transducer) Run(root *xmltree.Node, rulesPath string) error {
	reg, err := t.cache.Load(rulesPath)
	if err != nil {
		return err
	}
	return t.ProcessNode(root, reg, "")
}

// ProcessNode resolves the node's token against the registry. An unmatched
// node is skipped entirely: no output and no recursion, so its subtree
// produces nothing. A matched node renders its pre-template, then either
// its body template or its children (through a nested registry when one is
// declared), then its post-template.
func (t *Transducer) ProcessNode(n *xmltree.Node, reg *rules.Registry, prefix string) error {
	entry, ok := reg.Lookup(ResolveToken(n, prefix, reg))
	if !ok {
		return nil
	}

	if entry.TextMode != rules.TextUnset {
		t.emit.push(entry.TextMode == rules.TextEmit)
		defer t.emit.pop()
	}

	if entry.PreTemplate != "" {
		if err := t.renderInto(reg, entry.PreTemplate, n, entry.TrimPre); err != nil {
			return err
		}
	}

	switch {
	case entry.Template != "":
		// A body template fully replaces recursion into children.
		if err := t.renderInto(reg, entry.Template, n, entry.TrimBody); err != nil {
			return err
		}
	case entry.Nested != "":
		nested, err := t.cache.Load(reg.ResolvePath(entry.Nested))
		if err != nil {
			return err
		}
		if err := t.ProcessChildren(n, nested, entry.NestedPrefix); err != nil {
			return err
		}
	default:
		if err := t.ProcessChildren(n, reg, entry.NestedPrefix); err != nil {
			return err
		}
	}

	if entry.PostTemplate != "" {
		if err := t.renderInto(reg, entry.PostTemplate, n, entry.TrimPost); err != nil {
			return err
		}
	}
	return nil
}

// ProcessChildren walks the node's children in document order. Literal text
// and tails are copied to output while the current emission policy is
// "emit". A child's tail belongs to the parent's text flow, so it is copied
// under the parent's policy whether or not the child itself matched.
func (t *Transducer) ProcessChildren(n *xmltree.Node, reg *rules.Registry, prefix string) error {
	if t.emit.top() && n.Text != "" {
		t.out.Append(n.Text)
	}
	for _, c := range n.Children {
		if err := t.ProcessNode(c, reg, prefix); err != nil {
			return err
		}
		if t.emit.top() && c.Tail != "" {
			t.out.Append(c.Tail)
		}
	}
	return nil
}

func (t *Transducer) renderInto(reg *rules.Registry, id string, n *xmltree.Node, trim bool) error {
	ctx := make(map[string]any, len(t.base)+1)
	for k, v := range t.base {
		ctx[k] = v
	}
	ctx["node"] = render.Wrap(n)

	text, sections, err := t.renderer.Render(reg.ResolvePath(id), ctx)
	if err != nil {
		return err
	}
	if trim {
		text = strings.TrimSpace(text)
	}
	t.out.Append(text)
	t.out.AddSections(sections)
	return nil
}
