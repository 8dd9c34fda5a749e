package rules

import (
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	siteerrors "git.home.luguber.info/inful/xmlsite/internal/errors"
)

// aliasSection is the reserved section declaring alias -> namespace URI pairs.
const aliasSection = "namespaces"

var knownKeys = map[string]bool{
	"pre-template":  true,
	"template":      true,
	"post-template": true,
	"nested":        true,
	"prefix":        true,
	"text":          true,
	"trim-pre":      true,
	"trim":          true,
	"trim-post":     true,
}

// Load parses one rule file into a Registry. Section names are opaque match
// tokens; the loader never reinterprets them. Callers normally go through a
// Cache so repeated delegations reuse the parse.
func Load(path string) (*Registry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, siteerrors.Wrap(err, siteerrors.CategoryConfig, siteerrors.SeverityFatal,
			"resolve rule file path").WithContext("path", path)
	}
	abs = filepath.Clean(abs)

	f, err := ini.Load(abs)
	if err != nil {
		return nil, siteerrors.Wrap(err, siteerrors.CategoryConfig, siteerrors.SeverityFatal,
			"load rule file").WithContext("path", abs)
	}

	reg := &Registry{
		Path:    abs,
		Entries: make(map[string]*Entry),
		aliases: make(map[string]string),
	}

	for _, sec := range f.Sections() {
		name := sec.Name()
		if name == ini.DefaultSection {
			if len(sec.Keys()) > 0 {
				return nil, siteerrors.ConfigError(abs, "keys outside a section")
			}
			continue
		}
		if name == aliasSection {
			for _, key := range sec.Keys() {
				reg.aliases[key.Value()] = key.Name()
			}
			continue
		}
		entry, err := parseEntry(abs, name, sec)
		if err != nil {
			return nil, err
		}
		reg.Entries[name] = entry
	}

	return reg, nil
}

func parseEntry(path, token string, sec *ini.Section) (*Entry, error) {
	entry := &Entry{}
	for _, key := range sec.Keys() {
		if !knownKeys[key.Name()] {
			return nil, siteerrors.ConfigError(path, "unknown key "+key.Name()).
				WithContext("token", token)
		}
	}

	entry.PreTemplate = sec.Key("pre-template").String()
	entry.Template = sec.Key("template").String()
	entry.PostTemplate = sec.Key("post-template").String()
	entry.Nested = sec.Key("nested").String()
	entry.NestedPrefix = sec.Key("prefix").String()

	if sec.HasKey("text") {
		if strings.EqualFold(sec.Key("text").String(), "emit") {
			entry.TextMode = TextEmit
		} else {
			entry.TextMode = TextSuppress
		}
	}

	entry.TrimPre = sec.Key("trim-pre").MustBool(false)
	entry.TrimBody = sec.Key("trim").MustBool(false)
	entry.TrimPost = sec.Key("trim-post").MustBool(false)

	return entry, nil
}
