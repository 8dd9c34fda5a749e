// Package site drives whole-site builds: it walks the input root for XML
// documents, transduces each one through the configured rule registry, and
// renders the metadata index pages afterwards.
package site

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/xmlsite/internal/config"
	siteerrors "git.home.luguber.info/inful/xmlsite/internal/errors"
	"git.home.luguber.info/inful/xmlsite/internal/metaindex"
	"git.home.luguber.info/inful/xmlsite/internal/observability"
	"git.home.luguber.info/inful/xmlsite/internal/render"
	"git.home.luguber.info/inful/xmlsite/internal/rules"
	"git.home.luguber.info/inful/xmlsite/internal/transduce"
	"git.home.luguber.info/inful/xmlsite/internal/xmltree"
)

// Builder owns the per-run state of one site build: the registry cache, the
// template engine, and the metadata index. Builders are not safe for
// concurrent use; concurrent runs need separate builders.
type Builder struct {
	cfg    *config.Config
	engine *render.Engine
	cache  *rules.Cache
	index  *metaindex.Index
	base   map[string]any
	runID  string
	force  bool
}

// Options tweaks one build run.
type Options struct {
	// Params are CLI-supplied name=value template parameters; they override
	// same-named params from the config file.
	Params map[string]any
	// Force rebuilds documents even when the output is newer than its inputs.
	Force bool
}

// NewBuilder creates a builder for one run.
func NewBuilder(cfg *config.Config, opts Options) *Builder {
	params := make(map[string]any, len(cfg.Params)+len(opts.Params))
	for k, v := range cfg.Params {
		params[k] = v
	}
	for k, v := range opts.Params {
		params[k] = v
	}

	return &Builder{
		cfg: cfg,
		engine: render.NewEngine(render.Config{
			SearchPaths: cfg.Templates,
			Highlight:   cfg.HighlightOptions(),
		}),
		cache: rules.NewCache(),
		index: metaindex.New(cfg.Index.Queries),
		base:  map[string]any{"params": params},
		runID: uuid.NewString(),
		force: opts.Force,
	}
}

// Build transduces every XML document under the input root and then renders
// the configured index pages.
func (b *Builder) Build(ctx context.Context) error {
	ctx = observability.WithRunID(ctx, b.runID)

	inputs, err := b.Discover()
	if err != nil {
		return err
	}
	observability.InfoContext(observability.WithStage(ctx, "discover"), "documents discovered",
		slog.Int("count", len(inputs)))

	for _, relPath := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.BuildDocument(ctx, relPath); err != nil {
			return err
		}
	}

	return b.buildIndexPages(observability.WithStage(ctx, "index"))
}

// Discover returns the relative paths of every .xml document under the
// input root, sorted for deterministic build order.
func (b *Builder) Discover() ([]string, error) {
	var inputs []string
	err := filepath.Walk(b.cfg.Input, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.EqualFold(filepath.Ext(path), ".xml") {
			return nil
		}
		rel, err := filepath.Rel(b.cfg.Input, path)
		if err != nil {
			return err
		}
		inputs = append(inputs, rel)
		return nil
	})
	if err != nil {
		return nil, siteerrors.Wrap(err, siteerrors.CategoryFileSystem, siteerrors.SeverityFatal,
			"walk input root").WithContext("path", b.cfg.Input)
	}
	sort.Strings(inputs)
	return inputs, nil
}

// BuildDocument transduces one document identified by its path relative to
// the input root. The document is always parsed and decoded into the
// metadata index; transduction and writing are skipped when the output is
// newer than both the document and the starting rule file.
func (b *Builder) BuildDocument(ctx context.Context, relPath string) error {
	ctx = observability.WithDocument(observability.WithRunID(ctx, b.runID), relPath)

	inPath := filepath.Join(b.cfg.Input, relPath)
	outRel := replaceExt(relPath, ".html")
	outPath := filepath.Join(b.cfg.Output, outRel)

	root, err := xmltree.ParseFile(inPath)
	if err != nil {
		return err
	}
	if b.index.Decode(root, filepath.ToSlash(relPath)) {
		observability.DebugContext(ctx, "metadata record retained")
	}

	if !b.force && upToDate(outPath, inPath, b.cfg.Rules) {
		observability.DebugContext(ctx, "output up to date, skipping")
		return nil
	}

	observability.InfoContext(observability.WithStage(ctx, "transduce"), "building document",
		slog.String("output", outPath))

	b.engine.SetDocumentDir(filepath.Dir(inPath))

	base := make(map[string]any, len(b.base)+2)
	for k, v := range b.base {
		base[k] = v
	}
	base["xml"] = render.Wrap(root)
	base["toroot"] = toRoot(outRel)

	tr := transduce.New(b.cache, b.engine, base)
	if err := tr.Run(root, b.cfg.Rules); err != nil {
		return err
	}

	return b.writeOutputs(ctx, outRel, tr.Output())
}

func (b *Builder) writeOutputs(ctx context.Context, outRel string, out *transduce.Output) error {
	data, err := encodeOutput(out.String(), b.cfg.Encoding)
	if err != nil {
		return err
	}
	if err := writeOutputFile(b.cfg.Output, outRel, data); err != nil {
		return err
	}

	files, errs := out.FileSections()
	for _, serr := range errs {
		// A rejected section never aborts the primary output.
		observability.WarnContext(ctx, "skipping auxiliary section", slog.Any("error", serr))
	}
	for _, fs := range files {
		sibling := filepath.Join(filepath.Dir(outRel), fs.Filename)
		data, err := encodeOutput(fs.Body, b.cfg.Encoding)
		if err != nil {
			return err
		}
		if err := writeOutputFile(b.cfg.Output, sibling, data); err != nil {
			return err
		}
		observability.DebugContext(ctx, "auxiliary section written", slog.String("file", sibling))
	}
	return nil
}

// Index exposes the metadata index accumulated so far, for index-page
// rendering and for hosts that want the records directly.
func (b *Builder) Index() *metaindex.Index {
	return b.index
}

func (b *Builder) buildIndexPages(ctx context.Context) error {
	if len(b.cfg.Index.Pages) == 0 {
		return nil
	}

	records := b.index.Get()
	views := make([]map[string]any, len(records))
	for i, rec := range records {
		views[i] = recordView(rec)
	}

	byTag := make(map[string][]map[string]any)
	for tag, recs := range b.index.ByTag() {
		group := make([]map[string]any, len(recs))
		for i, rec := range recs {
			group[i] = recordView(rec)
		}
		byTag[tag] = group
	}

	for _, page := range b.cfg.Index.Pages {
		tctx := make(map[string]any, len(b.base)+4)
		for k, v := range b.base {
			tctx[k] = v
		}
		tctx["records"] = views
		tctx["tags"] = b.index.Tags()
		tctx["bytag"] = byTag
		tctx["toroot"] = toRoot(page.Output)

		text, _, err := b.engine.Render(page.Template, tctx)
		if err != nil {
			return err
		}
		data, err := encodeOutput(text, b.cfg.Encoding)
		if err != nil {
			return err
		}
		if err := writeOutputFile(b.cfg.Output, page.Output, data); err != nil {
			return err
		}
	}

	observability.InfoContext(ctx, "index pages written",
		slog.Int("pages", len(b.cfg.Index.Pages)),
		slog.Int("records", len(records)))
	return nil
}

func recordView(rec *metaindex.Record) map[string]any {
	var summary *render.NodeWrapper
	if rec.Summary != nil {
		summary = render.Wrap(rec.Summary)
	}
	return map[string]any{
		"path":    rec.RelPath,
		"url":     replaceExt(rec.RelPath, ".html"),
		"year":    rec.Year,
		"month":   rec.Month,
		"day":     rec.Day,
		"title":   rec.Title,
		"tags":    sortedTags(rec),
		"summary": summary,
	}
}

func sortedTags(rec *metaindex.Record) []string {
	tags := make([]string, 0, len(rec.Tags))
	for tag := range rec.Tags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// upToDate reports whether the output exists and is newer than every input.
func upToDate(output string, inputs ...string) bool {
	outInfo, err := os.Stat(output)
	if err != nil {
		return false
	}
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil || !outInfo.ModTime().After(info.ModTime()) {
			return false
		}
	}
	return true
}
