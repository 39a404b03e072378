package spriter

import (
	"fmt"
	"log"
	"path"
	"sort"

	"github.com/milk9111/spriterkit/anim"
	"github.com/milk9111/spriterkit/common"
)

// Spriter's default pivot is the top left corner in its y-up space.
const (
	defaultPivotX = 0
	defaultPivotY = 1
)

type textureFile struct {
	info   anim.TextureInfo
	pivotX float64
	pivotY float64
}

// trackState is the last pose source written to a timeline.
type trackState struct {
	key    string
	parent string
	z      int
	hidden bool
}

// AnimationData converts the file into linked animation data ready for an
// anim.Manager. Times become seconds and angles radians. Parents and z-order
// come from the mainline; a timeline that a mainline key does not reference
// is hidden from that key's time on.
func (f *File) AnimationData() (*anim.Data, error) {
	if f == nil || len(f.Entities) == 0 {
		return nil, ErrNoData
	}

	files, textures := f.textureFiles()
	data := &anim.Data{
		Entities: make(map[string]*anim.Entity, len(f.Entities)),
		Textures: textures,
	}

	for i := range f.Entities {
		raw := &f.Entities[i]
		if _, dup := data.Entities[raw.Name]; dup {
			log.Printf("spriter: duplicate entity %q ignored", raw.Name)
			continue
		}
		e := &anim.Entity{
			ID:         raw.ID,
			Name:       raw.Name,
			Animations: make(map[string]*anim.Animation, len(raw.Animations)),
		}
		for j := range raw.Animations {
			ra := &raw.Animations[j]
			if _, dup := e.Animations[ra.Name]; dup {
				log.Printf("spriter: duplicate animation %q in entity %q ignored", ra.Name, raw.Name)
				continue
			}
			a, err := convertAnimation(ra, files)
			if err != nil {
				return nil, fmt.Errorf("spriter: entity %s animation %s: %w", raw.Name, ra.Name, err)
			}
			a.Link(raw.ID)
			e.Animations[a.Name] = a
		}
		data.Entities[e.Name] = e
	}
	return data, nil
}

func (f *File) textureFiles() (map[string]textureFile, []anim.TextureInfo) {
	files := make(map[string]textureFile)
	var list []anim.TextureInfo
	for _, folder := range f.Folders {
		for _, file := range folder.Files {
			dir, name := path.Split(file.Name)
			tf := textureFile{
				info: anim.TextureInfo{
					ID:           textureID(folder.ID, file.ID),
					RelativePath: dir,
					FileName:     name,
					Width:        file.Width,
					Height:       file.Height,
				},
				pivotX: valueOr(file.PivotX, defaultPivotX),
				pivotY: valueOr(file.PivotY, defaultPivotY),
			}
			files[tf.info.ID] = tf
			list = append(list, tf.info)
		}
	}
	return files, list
}

func textureID(folder, file string) string {
	return folder + "_" + file
}

func seconds(ms int) float64 {
	return float64(ms) / 1000
}

func convertAnimation(ra *Animation, files map[string]textureFile) (*anim.Animation, error) {
	if ra.Length < 0 {
		return nil, fmt.Errorf("negative length %d", ra.Length)
	}

	rawTimelines := make(map[string]*Timeline, len(ra.Timelines))
	tracks := make(map[string]*anim.Timeline, len(ra.Timelines))
	for i := range ra.Timelines {
		tl := &ra.Timelines[i]
		rawTimelines[tl.ID] = tl
		tracks[tl.ID] = &anim.Timeline{ID: tl.ID, Name: tl.Name}
	}

	keys := append([]MainlineKey(nil), ra.Mainline.Keys...)
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].Time < keys[j].Time })

	states := make(map[string]trackState)
	for _, mk := range keys {
		t := seconds(mk.Time)
		bones := make(map[string]string, len(mk.BoneRefs))
		for _, ref := range mk.BoneRefs {
			bones[ref.ID] = ref.Timeline
		}

		referenced := make(map[string]bool)
		refs := append(append([]Ref(nil), mk.BoneRefs...), mk.ObjectRefs...)
		for _, ref := range refs {
			rt := rawTimelines[ref.Timeline]
			if rt == nil {
				log.Printf("spriter: animation %s: mainline key %s references missing timeline %s", ra.Name, mk.ID, ref.Timeline)
				continue
			}
			tk := rt.Key(ref.Key)
			if tk == nil {
				log.Printf("spriter: animation %s: timeline %s has no key %s", ra.Name, ref.Timeline, ref.Key)
				continue
			}
			referenced[ref.Timeline] = true

			next := trackState{key: ref.Key, parent: bones[ref.Parent], z: ref.ZIndex}
			if prev, ok := states[ref.Timeline]; ok && prev == next {
				continue
			}
			s := convertKey(tk, files)
			if s == nil {
				continue
			}
			s.ParentTimelineID = next.parent
			s.ZIndex = next.z

			track := tracks[ref.Timeline]
			if n := len(track.Spatials); n > 0 && s.Time < track.Spatials[n-1].Time {
				// a key shown again, or re-parented, takes effect at the mainline time
				s.Time = t
			}
			track.Spatials = append(track.Spatials, s)
			states[ref.Timeline] = next
		}

		for id, st := range states {
			if referenced[id] || st.hidden {
				continue
			}
			track := tracks[id]
			hidden := cloneSpatial(track.Spatials[len(track.Spatials)-1])
			hidden.Time = t
			hidden.Hidden = true
			track.Spatials = append(track.Spatials, hidden)
			st.hidden = true
			states[id] = st
		}
	}

	a := &anim.Animation{
		ID:      ra.ID,
		Name:    ra.Name,
		Length:  seconds(ra.Length),
		Looping: ra.IsLooping(),
	}
	for i := range ra.Timelines {
		track := tracks[ra.Timelines[i].ID]
		if len(track.Spatials) == 0 {
			continue
		}
		// parts that appear later are hidden until then
		if first := track.Spatials[0]; first.Time > anim.TimeTolerance {
			hidden := cloneSpatial(first)
			hidden.Time = 0
			hidden.Hidden = true
			track.Spatials = append([]*anim.Spatial{hidden}, track.Spatials...)
		}
		a.Timelines = append(a.Timelines, track)
	}
	return a, nil
}

func convertKey(tk *TimelineKey, files map[string]textureFile) *anim.Spatial {
	sample, kind := tk.Bone, anim.KindBone
	if tk.Object != nil {
		sample, kind = tk.Object, anim.KindSprite
	}
	if sample == nil {
		return nil
	}

	s := &anim.Spatial{
		ID:     tk.ID,
		Time:   seconds(tk.Time),
		Kind:   kind,
		X:      sample.X,
		Y:      sample.Y,
		ScaleX: valueOr(sample.ScaleX, 1),
		ScaleY: valueOr(sample.ScaleY, 1),
		Alpha:  valueOr(sample.Alpha, 1),
		Angle:  common.Radians(sample.Angle),
		Spin:   spin(tk.SpinValue()),
	}
	if kind != anim.KindSprite {
		return s
	}

	tf, ok := files[textureID(sample.Folder, sample.File)]
	if !ok {
		log.Printf("spriter: key %s references missing file %s/%s", tk.ID, sample.Folder, sample.File)
		s.PivotX = valueOr(sample.PivotX, defaultPivotX)
		s.PivotY = valueOr(sample.PivotY, defaultPivotY)
		return s
	}
	info := tf.info
	s.Texture = &info
	s.PivotX = valueOr(sample.PivotX, tf.pivotX)
	s.PivotY = valueOr(sample.PivotY, tf.pivotY)
	return s
}

func spin(v int) common.Spin {
	switch {
	case v > 0:
		return common.SpinClockwise
	case v < 0:
		return common.SpinCounterClockwise
	default:
		return common.SpinNone
	}
}

func cloneSpatial(s *anim.Spatial) *anim.Spatial {
	c := *s
	return &c
}
