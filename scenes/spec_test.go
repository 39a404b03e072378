package scenes

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/milk9111/spriterkit/assets"
	"golang.org/x/image/colornames"
)

func TestEmbeddedScenesLoad(t *testing.T) {
	names := Names()
	if len(names) != 4 {
		t.Fatalf("expected 4 embedded scenes, got %v", names)
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScene(name)
			if err != nil {
				t.Fatalf("LoadScene(%s): %v", name, err)
			}
			if s.Name != name || s.Background.Color == nil {
				t.Fatalf("unexpected scene %+v", s)
			}
			for _, a := range s.Actors {
				if a.Entity != "Hero" || a.Scale <= 0 {
					t.Fatalf("unexpected actor %+v", a)
				}
			}
		})
	}
}

func TestSceneValues(t *testing.T) {
	basic, err := LoadScene("basic.yaml")
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	if basic.Background.Color != colornames.Darkslategray {
		t.Fatalf("unexpected background %v", basic.Background.Color)
	}
	if a := basic.Actors[0]; a.Animation != "Idle" || a.X != 320 || a.Y != 360 || a.SpeedOrDefault() != 1 || a.Loop != nil {
		t.Fatalf("unexpected actor %+v", a)
	}

	loop, err := LoadScene("loop_non_looping")
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	if loop.Actors[0].Loop == nil || !*loop.Actors[0].Loop || loop.Actors[1].Loop != nil {
		t.Fatalf("expected loop override only on the first actor")
	}
	if got := loop.Background.Color; got != (color.NRGBA{R: 0x1e, G: 0x2a, B: 0x38, A: 0xff}) {
		t.Fatalf("unexpected background %v", got)
	}

	speed, err := LoadScene("speed")
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	if !speed.Debug || speed.Actors[0].SpeedOrDefault() != 0.5 || speed.Actors[2].SpeedOrDefault() != -2 || speed.Actors[2].Time != 0.4 {
		t.Fatalf("unexpected speed scene %+v", speed)
	}

	seq, err := LoadScene("sequence")
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	if seq.Actors[0].Script != "sequence" {
		t.Fatalf("expected sequencing script")
	}
	src, err := LoadScript(seq.Actors[0].Script)
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	if !strings.Contains(string(src), "on_event") {
		t.Fatalf("script does not define on_event")
	}
}

func TestSceneErrors(t *testing.T) {
	if _, err := LoadScene("missing"); err == nil {
		t.Fatalf("expected error for missing scene")
	}

	cases := []struct {
		name string
		spec SceneSpec
		want error
	}{
		{"no_actors", SceneSpec{Name: "empty"}, ErrNoActors},
		{"no_entity", SceneSpec{Actors: []ActorSpec{{Entity: "Hero"}, {Animation: "Idle"}}}, ErrNoEntity},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.spec.Validate(); !errors.Is(err, c.want) {
				t.Fatalf("Validate() = %v, want %v", err, c.want)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.Color
		wantErr bool
	}{
		{"red", colornames.Red, false},
		{"DarkSlateGray", colornames.Darkslategray, false},
		{"#ff0000", color.NRGBA{R: 255, A: 255}, false},
		{"00ff0080", color.NRGBA{G: 255, A: 128}, false},
		{"#12345", nil, true},
		{"#gg0000", nil, true},
		{"not-a-color", nil, true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := ParseColor(c.in)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", c.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor(%q): %v", c.in, err)
			}
			if got != c.want {
				t.Fatalf("ParseColor(%q) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestCleanScriptPath(t *testing.T) {
	for _, in := range []string{"sequence", "sequence.tengo", "scripts/sequence.tengo", "scenes/scripts/sequence.tengo", "scenes/sequence"} {
		if got := cleanScriptPath(in); got != "scripts/sequence.tengo" {
			t.Fatalf("cleanScriptPath(%q) = %q", in, got)
		}
	}
}

func TestResolveFile(t *testing.T) {
	fsys, name := ResolveFile("")
	if name != assets.HeroFile {
		t.Fatalf("expected embedded sample, got %q", name)
	}
	if _, err := fsys.Open(name); err != nil {
		t.Fatalf("embedded sample not readable: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "anim.scml")
	if err := os.WriteFile(path, []byte("<spriter_data/>"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fsys, name = ResolveFile(path)
	if name != "anim.scml" {
		t.Fatalf("unexpected name %q", name)
	}
	if _, err := fsys.Open(name); err != nil {
		t.Fatalf("resolved file not readable: %v", err)
	}
}

func TestIsWatched(t *testing.T) {
	cases := map[string]bool{
		"scenes/basic.yaml":        true,
		"scenes/other.YML":         true,
		"scenes/scripts/seq.tengo": true,
		"assets/hero.scml":         true,
		"assets/gfx/torso.png":     true,
		"scenes/notes.txt":         false,
		"scenes/scripts/old.lua":   false,
		"scenes/.basic.yaml.swp":   false,
	}
	for path, want := range cases {
		if got := IsWatched(path); got != want {
			t.Fatalf("IsWatched(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	target := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(target, []byte("name: x\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case name := <-w.Events:
		if name != target {
			t.Fatalf("unexpected event for %q", name)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("no event for %s", target)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
