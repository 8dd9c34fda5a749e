package transduce

import (
	"strings"

	siteerrors "git.home.luguber.info/inful/xmlsite/internal/errors"
	"git.home.luguber.info/inful/xmlsite/internal/render"
)

// FilePrefix marks a named section destined for a sibling file of the
// primary output; the remainder of the name is the bare filename.
const FilePrefix = "file:"

// FileSection is a validated auxiliary section ready to be written next to
// the primary output.
type FileSection struct {
	Filename string
	Body     string
}

// Output accumulates rendered fragments in strict document order, plus the
// named sections emitted by template renders.
type Output struct {
	fragments []string
	sections  []render.Section
}

// NewOutput creates an empty accumulator.
func NewOutput() *Output {
	return &Output{}
}

// Append adds a fragment to the primary stream.
func (o *Output) Append(s string) {
	if s != "" {
		o.fragments = append(o.fragments, s)
	}
}

// AddSections records named sections from one render, preserving order.
func (o *Output) AddSections(sections []render.Section) {
	o.sections = append(o.sections, sections...)
}

// String concatenates the primary stream.
func (o *Output) String() string {
	return strings.Join(o.fragments, "")
}

// Section returns the body of the named section, if any was emitted.
func (o *Output) Section(name string) (string, bool) {
	for _, s := range o.sections {
		if s.Name == name {
			return s.Body, true
		}
	}
	return "", false
}

// FileSections validates and returns the sections named with FilePrefix.
// A remainder that is empty, contains a path separator, or climbs out of
// the output directory yields an OutputError instead; the caller skips the
// section and the primary output still completes.
func (o *Output) FileSections() ([]FileSection, []error) {
	var files []FileSection
	var errs []error

	for _, s := range o.sections {
		if !strings.HasPrefix(s.Name, FilePrefix) {
			continue
		}
		filename := s.Name[len(FilePrefix):]
		if err := validateFilename(s.Name, filename); err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, FileSection{Filename: filename, Body: s.Body})
	}
	return files, errs
}

func validateFilename(section, filename string) error {
	switch {
	case filename == "":
		return siteerrors.OutputError(section, "empty auxiliary filename")
	case strings.ContainsAny(filename, `/\`):
		return siteerrors.OutputError(section, "path separator in auxiliary filename")
	case filename == "." || filename == "..":
		return siteerrors.OutputError(section, "auxiliary filename must be a bare filename")
	}
	return nil
}
