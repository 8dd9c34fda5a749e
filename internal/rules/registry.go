// Package rules loads and caches the declarative rule registries that drive
// the transducer. A registry file is an INI document: every section name is a
// match token, except the reserved "namespaces" section which declares the
// alias table used when building tokens.
package rules

import "path/filepath"

// TextMode is the tri-state text-emission policy of a rule entry.
type TextMode int

const (
	TextUnset    TextMode = iota // inherit the current policy
	TextEmit                     // copy literal text/tail to output
	TextSuppress                 // drop literal text/tail
)

// Entry is one rule: what to do when a node's token matches its section.
type Entry struct {
	PreTemplate  string
	Template     string
	PostTemplate string
	Nested       string // path of a nested registry, relative to the owning file
	NestedPrefix string
	TextMode     TextMode
	TrimPre      bool
	TrimBody     bool
	TrimPost     bool
}

// Registry is the loaded content of one rule file.
type Registry struct {
	Path    string // canonical absolute path of the source file
	Entries map[string]*Entry
	aliases map[string]string // namespace URI -> alias
}

// Lookup returns the entry for a resolved token, if any.
func (r *Registry) Lookup(token string) (*Entry, bool) {
	e, ok := r.Entries[token]
	return e, ok
}

// Alias returns the short alias assigned to a namespace URI in this registry.
func (r *Registry) Alias(ns string) (string, bool) {
	alias, ok := r.aliases[ns]
	return alias, ok
}

// ResolvePath resolves a path declared inside this registry relative to the
// directory containing the registry file.
func (r *Registry) ResolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(r.Path), path)
}
