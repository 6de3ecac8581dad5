package manifest

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	errs "github.com/hiroksarker/jina/pkg/errors"
)

// DefaultFilename is the conventional name of an extras manifest.
const DefaultFilename = "extra-requirements.txt"

// ParseEntries reads manifest text and returns its entries in order.
// The first malformed line stops parsing; no partial result is returned.
func ParseEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		entry, ok, err := ParseLine(scanner.Text())
		if err != nil {
			var mle *MalformedLineError
			if errors.As(err, &mle) {
				mle.Line = lineNo
			}
			return nil, err
		}
		if !ok {
			continue
		}
		entry.Line = lineNo
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "read manifest")
	}

	return entries, nil
}

// Parse reads manifest text from r and builds its Index.
//
// Structural problems abort the load: the returned error wraps either a
// *MalformedLineError or a *ReservedTagError under ErrCodeInvalidManifest,
// and the index is nil.
func Parse(r io.Reader) (*Index, error) {
	idx, err := build(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "invalid manifest")
	}
	return idx, nil
}

func build(r io.Reader) (*Index, error) {
	entries, err := ParseEntries(r)
	if err != nil {
		return nil, err
	}
	return Build(entries)
}

// Load builds an Index from manifest text.
func Load(text string) (*Index, error) {
	return Parse(strings.NewReader(text))
}

// LoadFile builds an Index from the manifest at path.
func LoadFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer f.Close()

	idx, err := build(f)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "load %s", path)
	}
	return idx, nil
}

func openError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return errs.Wrap(errs.ErrCodeFileNotFound, err, "manifest not found: %s", path)
	}
	return errs.Wrap(errs.ErrCodeInvalidManifest, err, "open %s", path)
}
