package render

import (
	"bytes"
	"html"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// HighlightOptions controls the HTML produced by the highlight functions.
type HighlightOptions struct {
	Style       string // chroma style name, used when Classes is false
	Classes     bool   // emit CSS classes instead of inline styles
	ClassPrefix string
}

// Funcs returns the function map available to every template. The "section"
// function is added per render by the engine.
func Funcs(e *Engine) template.FuncMap {
	return template.FuncMap{
		"esc": func(s string) string {
			return html.EscapeString(s)
		},
		"trim": strings.TrimSpace,
		"markdown": func(s string) (string, error) {
			var buf bytes.Buffer
			if err := e.md.Convert([]byte(s), &buf); err != nil {
				return "", err
			}
			return buf.String(), nil
		},
		"highlight": func(code, syntax string) (string, error) {
			return Highlight(code, syntax, e.cfg.Highlight)
		},
		"highlightFile": func(rel, syntax string) (string, error) {
			data, err := os.ReadFile(filepath.Join(e.docDir, rel))
			if err != nil {
				return "", err
			}
			return Highlight(string(data), syntax, e.cfg.Highlight)
		},
	}
}

// Highlight renders source code as HTML using chroma. Unknown syntax names
// fall back to the plaintext lexer.
func Highlight(code, syntax string, opts HighlightOptions) (string, error) {
	lexer := lexers.Get(syntax)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(opts.Style)
	if style == nil {
		style = styles.Fallback
	}

	formatter := chromahtml.New(
		chromahtml.WithClasses(opts.Classes),
		chromahtml.ClassPrefix(opts.ClassPrefix),
		chromahtml.PreventSurroundingPre(true),
	)

	iterator, err := lexer.Tokenise(nil, strings.TrimSpace(code))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", err
	}
	return buf.String(), nil
}
