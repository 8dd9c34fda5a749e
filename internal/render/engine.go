package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/yuin/goldmark"

	siteerrors "git.home.luguber.info/inful/xmlsite/internal/errors"
)

// Section is one named auxiliary block produced by a template render.
type Section struct {
	Name string
	Body string
}

// Config holds the engine settings shared by every render of one run.
type Config struct {
	// SearchPaths are tried in order when a template identifier is not an
	// existing path by itself.
	SearchPaths []string
	Highlight   HighlightOptions
}

// Engine renders templates with the xmlsite function map. One engine serves
// one transduction run; parsed file contents are cached per path.
type Engine struct {
	cfg    Config
	docDir string
	files  map[string]string
	md     goldmark.Markdown
}

// NewEngine creates a template engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:   cfg,
		files: make(map[string]string),
		md:    goldmark.New(),
	}
}

// SetDocumentDir sets the directory of the input document currently being
// transduced. highlightFile resolves its argument against it.
func (e *Engine) SetDocumentDir(dir string) {
	e.docDir = dir
}

// Render renders the identified template with the given context and returns
// the primary text plus any named sections the template emitted.
func (e *Engine) Render(id string, ctx map[string]any) (string, []Section, error) {
	path, err := e.locate(id)
	if err != nil {
		return "", nil, err
	}
	content, err := e.read(path)
	if err != nil {
		return "", nil, err
	}

	var sections []Section
	funcs := Funcs(e)
	funcs["section"] = func(name, body string) string {
		sections = append(sections, Section{Name: name, Body: body})
		return ""
	}

	tpl, err := template.New(filepath.Base(path)).Funcs(funcs).Option("missingkey=error").Parse(content)
	if err != nil {
		return "", nil, fmt.Errorf("parse template %s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, ctx); err != nil {
		return "", nil, fmt.Errorf("render template %s: %w", path, err)
	}
	return buf.String(), sections, nil
}

func (e *Engine) locate(id string) (string, error) {
	if fileExists(id) {
		return id, nil
	}
	if !filepath.IsAbs(id) {
		for _, dir := range e.cfg.SearchPaths {
			candidate := filepath.Join(dir, id)
			if fileExists(candidate) {
				return candidate, nil
			}
		}
	}
	return "", siteerrors.ResolutionError(id, "template not found")
}

func (e *Engine) read(path string) (string, error) {
	if content, ok := e.files[path]; ok {
		return content, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", siteerrors.Wrap(err, siteerrors.CategoryFileSystem, siteerrors.SeverityFatal,
			"read template").WithContext("path", path)
	}
	e.files[path] = string(data)
	return string(data), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
