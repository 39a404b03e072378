package spriter

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/milk9111/spriterkit/anim"
	"github.com/milk9111/spriterkit/assets"
	"github.com/milk9111/spriterkit/common"
)

func heroData(t *testing.T) *anim.Data {
	t.Helper()
	f, err := Parse(strings.NewReader(heroSCML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	data, err := f.AnimationData()
	if err != nil {
		t.Fatalf("AnimationData: %v", err)
	}
	return data
}

func TestAnimationDataTextures(t *testing.T) {
	data := heroData(t)
	if len(data.Textures) != 3 {
		t.Fatalf("expected 3 textures, got %d", len(data.Textures))
	}
	idle := data.Textures[0]
	if idle.ID != "0_0" || idle.RelativePath != "gfx/" || idle.FileName != "idle_01.png" || idle.Width != 32 || idle.Height != 48 {
		t.Fatalf("unexpected texture %+v", idle)
	}
	dust := data.Textures[2]
	if dust.ID != "1_0" || dust.RelativePath != "" || dust.FileName != "dust.png" {
		t.Fatalf("unexpected texture %+v", dust)
	}

	m := anim.NewManager(data, nil, nil)
	want := map[string][]string{
		"gfx/": {"blink_01.png", "idle_01.png"},
		"":     {"dust.png"},
	}
	if got := m.AllTextureNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected texture names %v", got)
	}
	if got := m.AllAnimationNamesForEntity("Hero"); !reflect.DeepEqual(got, []string{"Jump", "Walk"}) {
		t.Fatalf("unexpected animations %v", got)
	}
}

func TestAnimationDataWalk(t *testing.T) {
	data := heroData(t)
	e, ok := data.Entity("Hero")
	if !ok {
		t.Fatalf("missing entity Hero")
	}
	walk, ok := e.Animation("Walk")
	if !ok {
		t.Fatalf("missing animation Walk")
	}
	if walk.Length != 1 || !walk.Looping || len(walk.Timelines) != 3 {
		t.Fatalf("unexpected animation length=%v looping=%v timelines=%d", walk.Length, walk.Looping, len(walk.Timelines))
	}

	t.Run("bone_values", func(t *testing.T) {
		body := walk.Timeline("0")
		if body.Len() != 3 {
			t.Fatalf("expected two keys plus terminal, got %d", body.Len())
		}
		k0, k1 := body.Spatials[0], body.Spatials[1]
		if k0.Kind != anim.KindBone || k0.X != 10 || k0.Y != 20 || math.Abs(k0.Angle-math.Pi/2) > 1e-12 {
			t.Fatalf("unexpected first key %+v", k0)
		}
		if k0.Spin != common.SpinCounterClockwise || k1.Spin != common.SpinClockwise {
			t.Fatalf("unexpected spins %v %v", k0.Spin, k1.Spin)
		}
		if k1.Time != 0.5 || k1.ScaleX != 2 || k1.ScaleY != 1 || k1.Alpha != 1 {
			t.Fatalf("unexpected second key %+v", k1)
		}
		if end := body.Spatials[2]; end.Time != 1 || end.Angle != k0.Angle {
			t.Fatalf("looping terminal should copy the first key")
		}
	})

	t.Run("sprite_values", func(t *testing.T) {
		head := walk.Timeline("1")
		k0, k1 := head.Spatials[0], head.Spatials[1]
		if k0.Kind != anim.KindSprite || k0.Texture == nil || k0.Texture.FileName != "idle_01.png" {
			t.Fatalf("unexpected sprite key %+v", k0)
		}
		if k0.PivotX != 0.5 || k0.PivotY != 0 || k0.Alpha != 0.5 || k0.ZIndex != 1 {
			t.Fatalf("expected file pivot, alpha and z, got %+v", k0)
		}
		if k0.ParentNodeName != anim.ComposeNodeName("0", "0", "0") {
			t.Fatalf("unexpected parent %q", k0.ParentNodeName)
		}
		if k1.Texture.FileName != "blink_01.png" || k1.PivotX != 0.25 || k1.PivotY != 0.75 || k1.Spin != common.SpinNone {
			t.Fatalf("unexpected second sprite key %+v", k1)
		}
		if k0.NodeName != "spriterkit__0_0_1" {
			t.Fatalf("unexpected node name %q", k0.NodeName)
		}
	})

	t.Run("unreferenced_timeline_hidden", func(t *testing.T) {
		dust := walk.Timeline("2")
		if dust.Len() != 3 {
			t.Fatalf("expected visible, hidden and terminal keys, got %d", dust.Len())
		}
		if dust.Spatials[0].Hidden || dust.Spatials[0].ParentNodeName != "" {
			t.Fatalf("dust should start visible below the root")
		}
		if dust.Spatials[0].PivotX != 0 || dust.Spatials[0].PivotY != 1 {
			t.Fatalf("expected default pivot 0,1")
		}
		if h := dust.Spatials[1]; !h.Hidden || h.Time != 0.5 {
			t.Fatalf("expected hidden key at 0.5, got hidden=%v time=%v", h.Hidden, h.Time)
		}
		if s := dust.SpatialForTime(0.75); !s.Hidden {
			t.Fatalf("dust should be hidden in the second half")
		}
	})
}

func TestAnimationDataLateTimelineHiddenUntilReferenced(t *testing.T) {
	data := heroData(t)
	e, _ := data.Entity("Hero")
	jump, _ := e.Animation("Jump")
	if jump.Looping || jump.Length != 0.8 {
		t.Fatalf("unexpected Jump length=%v looping=%v", jump.Length, jump.Looping)
	}
	body := jump.Timeline("0")
	if body.Len() != 3 {
		t.Fatalf("expected hidden start, key and terminal, got %d", body.Len())
	}
	if !body.Spatials[0].Hidden || body.Spatials[0].Time != 0 {
		t.Fatalf("expected hidden key at 0")
	}
	if s := body.SpatialForTime(0.3); s.Hidden {
		t.Fatalf("body should be visible after 0.2s")
	}
	if end := body.Spatials[2]; end.Time != 0.8 || end.Hidden || end.Next() != nil {
		t.Fatalf("non-looping terminal should hold the last key")
	}
}

func TestAnimationDataPlays(t *testing.T) {
	data := heroData(t)
	m := anim.NewManager(data, nil, nil)
	p := anim.NewPlayer(nil)
	if !p.LoadEntity("Hero", m) {
		t.Fatalf("LoadEntity failed")
	}
	if !p.PlayAnimation("Walk") || p.State() != anim.StatePlaying {
		t.Fatalf("PlayAnimation(Walk) failed")
	}
	p.UpdateTime(0.25)
	if p.CurrentAnimationTime() != 0.25 {
		t.Fatalf("expected time 0.25, got %v", p.CurrentAnimationTime())
	}
}

func TestAnimationDataErrors(t *testing.T) {
	var nilFile *File
	if _, err := nilFile.AnimationData(); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	f, err := Parse(strings.NewReader(`<spriter_data scml_version="1.0"></spriter_data>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := f.AnimationData(); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestEmbeddedSample(t *testing.T) {
	f, err := ParseFS(assets.FS(), assets.HeroFile)
	if err != nil {
		t.Fatalf("ParseFS: %v", err)
	}
	data, err := f.AnimationData()
	if err != nil {
		t.Fatalf("AnimationData: %v", err)
	}
	m := anim.NewManager(data, nil, nil)
	if got := m.AllAnimationNamesForEntity("Hero"); !reflect.DeepEqual(got, []string{"Idle", "Jump", "Walk"}) {
		t.Fatalf("unexpected animations %v", got)
	}
	if got := m.AllTextureNames()["gfx/"]; len(got) != 5 {
		t.Fatalf("expected 5 gfx textures, got %v", got)
	}

	e, _ := data.Entity("Hero")
	jump, _ := e.Animation("Jump")
	dust := jump.Timeline("6")
	if dust.SpatialForTime(0).Hidden || !dust.SpatialForTime(0.45).Hidden {
		t.Fatalf("dust should only show at the start of the jump")
	}
	for _, tl := range jump.Timelines {
		if tl.ID == "0" {
			continue
		}
		if s := tl.SpatialForTime(0); s.ParentNodeName == "" && tl.ID != "6" {
			t.Fatalf("timeline %s should hang below the hip", tl.Name)
		}
	}
}
