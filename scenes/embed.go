package scenes

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/milk9111/spriterkit/assets"
)

// Dir is the on-disk directory checked before the embedded scenes, so edits
// show up without rebuilding.
const Dir = "scenes"

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskScenePath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

//go:embed *.yaml
var ScenesFS embed.FS

func Load(name string) ([]byte, error) {
	clean := cleanScenePath(name)
	if data, err := os.ReadFile(diskScenePath(clean)); err == nil {
		return data, nil
	}
	return ScenesFS.ReadFile(clean)
}

func ModTime(name string) (time.Time, bool) {
	clean := cleanScenePath(name)
	info, err := os.Stat(diskScenePath(clean))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Names returns the embedded scene names without extension.
func Names() []string {
	entries, err := fs.ReadDir(ScenesFS, ".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if isSpecFile(e.Name()) {
			names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		}
	}
	return names
}

// ResolveFile returns the file system and name to read a scene's SCML file
// from. An empty file selects the embedded sample.
func ResolveFile(file string) (fs.FS, string) {
	if strings.TrimSpace(file) == "" {
		return assets.FS(), assets.HeroFile
	}
	dir, name := filepath.Split(filepath.Clean(file))
	if dir == "" {
		dir = "."
	}
	return os.DirFS(dir), name
}

func cleanScenePath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "scenes/") {
		return strings.TrimPrefix(s, "scenes/")
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "scenes/scripts/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scenes/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	if !isScriptFile(s) {
		s += ".tengo"
	}

	return fmt.Sprintf("scripts/%s", s)
}

func diskScenePath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}
