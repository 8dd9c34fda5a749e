package site

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	siteerrors "git.home.luguber.info/inful/xmlsite/internal/errors"
)

// writeOutputFile writes data under the output root, creating parent
// directories as needed. The relative path must stay inside the root;
// existing files are overwritten since site rebuilds are routine.
func writeOutputFile(outputRoot, relPath string, data []byte) error {
	cleanRel := filepath.Clean(relPath)
	if filepath.IsAbs(cleanRel) || strings.HasPrefix(cleanRel, "..") {
		return siteerrors.New(siteerrors.CategoryOutput, siteerrors.SeverityFatal,
			"output path escapes output root").WithContext("path", relPath)
	}

	fullPath := filepath.Join(outputRoot, cleanRel)
	rel, err := filepath.Rel(outputRoot, fullPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return siteerrors.New(siteerrors.CategoryOutput, siteerrors.SeverityFatal,
			"output path escapes output root").WithContext("path", relPath)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return siteerrors.Wrap(err, siteerrors.CategoryFileSystem, siteerrors.SeverityFatal,
			"create output directory").WithContext("path", fullPath)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return siteerrors.Wrap(err, siteerrors.CategoryFileSystem, siteerrors.SeverityFatal,
			"write output file").WithContext("path", fullPath)
	}
	return nil
}

// encodeOutput converts rendered text to the configured output charset.
// UTF-8 (the default) is passed through unchanged.
func encodeOutput(text, charset string) ([]byte, error) {
	if charset == "" || strings.EqualFold(charset, "utf-8") {
		return []byte(text), nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, siteerrors.Wrap(err, siteerrors.CategoryConfig, siteerrors.SeverityFatal,
			"unknown output encoding").WithContext("encoding", charset)
	}
	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, siteerrors.Wrap(err, siteerrors.CategoryOutput, siteerrors.SeverityFatal,
			"encode output").WithContext("encoding", charset)
	}
	return out, nil
}
