// Package spriter reads Spriter SCML files and converts them into the
// animation model played by package anim.
package spriter

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

var (
	// ErrUnsupportedVersion is returned for files of an incompatible SCML
	// version.
	ErrUnsupportedVersion = errors.New("unsupported scml version")
	// ErrNoData is returned when a file holds no entities.
	ErrNoData = errors.New("no animation data")
)

// Parse decodes an SCML document and checks its version.
func Parse(r io.Reader) (*File, error) {
	var f File
	if err := xml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("spriter: decode: %w", err)
	}
	if !CompatibleVersion(SupportedVersion, f.Version) {
		return nil, fmt.Errorf("spriter: version %q: %w", f.Version, ErrUnsupportedVersion)
	}
	return &f, nil
}

// ParseFile parses the SCML file at path.
func ParseFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("spriter: open %s: %w", path, err)
	}
	defer fh.Close()

	f, err := Parse(fh)
	if err != nil {
		return nil, fmt.Errorf("spriter: parse %s: %w", path, err)
	}
	return f, nil
}

// ParseFS parses the SCML file called name in fsys.
func ParseFS(fsys fs.FS, name string) (*File, error) {
	fh, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("spriter: open %s: %w", name, err)
	}
	defer fh.Close()

	f, err := Parse(fh)
	if err != nil {
		return nil, fmt.Errorf("spriter: parse %s: %w", name, err)
	}
	return f, nil
}
