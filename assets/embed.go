// Package assets embeds the sample animation shipped with the viewer.
package assets

import (
	"embed"
	"io/fs"
	"path/filepath"
	"strings"
)

// HeroFile is the name of the embedded sample animation.
const HeroFile = "hero.scml"

//go:embed *.scml gfx fx
var assetsFS embed.FS

// FS returns the embedded assets.
func FS() fs.FS {
	return assetsFS
}

// LoadFile loads an embedded asset by assets-relative path.
func LoadFile(path string) ([]byte, error) {
	clean := cleanAssetPath(path)
	return assetsFS.ReadFile(clean)
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	s = strings.TrimPrefix(s, "./")
	if strings.HasPrefix(s, "assets/") {
		return strings.TrimPrefix(s, "assets/")
	}
	return s
}
