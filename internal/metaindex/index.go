// Package metaindex extracts per-document metadata records via node-path
// queries and exposes sorted and tag-grouped views for index-page
// generation.
package metaindex

import (
	"sort"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/xmlsite/internal/util/sets"
	"git.home.luguber.info/inful/xmlsite/internal/xmltree"
)

// Queries configures where each metadata field is found inside a document.
// An empty query leaves the field at its missing sentinel.
type Queries struct {
	Year    string `yaml:"year"`
	Month   string `yaml:"month"`
	Day     string `yaml:"day"`
	Title   string `yaml:"title"`
	Tags    string `yaml:"tags"`
	Summary string `yaml:"summary"`
}

// Record is the metadata extracted from one document. Zero date fields and
// an empty title mark missing values.
type Record struct {
	RelPath string
	Year    int
	Month   int
	Day     int
	Title   string
	Tags    sets.Set[string]
	Summary *xmltree.Node
}

// Index accumulates records over one scan pass. A record is retained only
// when year, month and day are all non-zero and a title is present;
// incomplete documents are expected and discarded without error.
type Index struct {
	queries Queries
	records []*Record
	allTags sets.Set[string]
}

// New creates an index with the given field queries.
func New(queries Queries) *Index {
	return &Index{queries: queries, allTags: sets.New[string]()}
}

// Decode extracts a record candidate from a document and retains it when
// complete. It reports whether the record was retained.
func (ix *Index) Decode(root *xmltree.Node, relPath string) bool {
	rec := &Record{
		RelPath: relPath,
		Year:    ix.intField(root, ix.queries.Year),
		Month:   ix.intField(root, ix.queries.Month),
		Day:     ix.intField(root, ix.queries.Day),
		Title:   ix.textField(root, ix.queries.Title),
		Tags:    ix.tagField(root, ix.queries.Tags),
	}
	if ix.queries.Summary != "" {
		rec.Summary = root.Find(ix.queries.Summary)
	}
	for tag := range rec.Tags {
		ix.allTags.Add(tag)
	}

	if rec.Year == 0 || rec.Month == 0 || rec.Day == 0 || rec.Title == "" {
		return false
	}
	ix.records = append(ix.records, rec)
	return true
}

// Get returns the retained records sorted by (year, month, day) descending,
// newest first. The sort is stable: same-date records keep insertion order.
func (ix *Index) Get() []*Record {
	out := make([]*Record, len(ix.records))
	copy(out, ix.records)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		if a.Month != b.Month {
			return a.Month > b.Month
		}
		return a.Day > b.Day
	})
	return out
}

// Tags returns every tag seen across every decoded record, ascending.
// Tags from discarded records count too.
func (ix *Index) Tags() []string {
	return sets.SortedStrings(ix.allTags)
}

// ByTag groups the retained records by tag, preserving the descending date
// order of Get within each group.
func (ix *Index) ByTag() map[string][]*Record {
	out := make(map[string][]*Record)
	for _, rec := range ix.Get() {
		for tag := range rec.Tags {
			out[tag] = append(out[tag], rec)
		}
	}
	return out
}

func (ix *Index) intField(root *xmltree.Node, query string) int {
	text := ix.textField(root, query)
	if text == "" {
		return 0
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0
	}
	return v
}

func (ix *Index) textField(root *xmltree.Node, query string) string {
	if query == "" {
		return ""
	}
	node := root.Find(query)
	if node == nil {
		return ""
	}
	return strings.TrimSpace(node.AllText())
}

func (ix *Index) tagField(root *xmltree.Node, query string) sets.Set[string] {
	tags := sets.New[string]()
	if query == "" {
		return tags
	}
	node := root.Find(query)
	if node == nil {
		return tags
	}
	for _, tag := range strings.Fields(node.AllText()) {
		tags.Add(tag)
	}
	return tags
}
