package site

import (
	"path"
	"path/filepath"
	"strings"
)

// replaceExt swaps the extension of a relative path for ext.
func replaceExt(relPath, ext string) string {
	old := filepath.Ext(relPath)
	return relPath[:len(relPath)-len(old)] + ext
}

// toRoot returns the relative path from the directory of an output file
// back to the output root, with forward slashes and a trailing slash.
// Templates prepend it to site-absolute links.
func toRoot(outRel string) string {
	dir := path.Dir(filepath.ToSlash(outRel))
	if dir == "." || dir == "/" {
		return "./"
	}
	return strings.Repeat("../", strings.Count(dir, "/")+1)
}
