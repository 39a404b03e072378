package anim

import (
	"sort"
)

// Animation is one named animation of an entity. It is read-only once Link
// has been called.
type Animation struct {
	ID   string
	Name string
	// Length in seconds.
	Length  float64
	Looping bool

	Timelines []*Timeline
}

// Timeline returns the timeline with the given ID.
func (a *Animation) Timeline(id string) *Timeline {
	if a == nil {
		return nil
	}
	for _, tl := range a.Timelines {
		if tl.ID == id {
			return tl
		}
	}
	return nil
}

// Link prepares a parser-built animation for playback. Keyframes are sorted
// by time, a terminal keyframe at Length is added where missing, successor
// links are set and node names are composed for the given entity.
//
// The terminal keyframe copies the first keyframe of a looping animation so
// the last segment interpolates into the next cycle, and the last keyframe of
// a non-looping one so the pose holds. Either way the player may change the
// loop policy at runtime without special cases.
func (a *Animation) Link(entityID string) {
	if a == nil {
		return
	}
	ids := make(map[string]bool, len(a.Timelines))
	for _, tl := range a.Timelines {
		ids[tl.ID] = true
	}

	for _, tl := range a.Timelines {
		sort.SliceStable(tl.Spatials, func(i, j int) bool {
			return tl.Spatials[i].Time < tl.Spatials[j].Time
		})
		n := len(tl.Spatials)
		if n == 0 {
			continue
		}

		last := tl.Spatials[n-1]
		if last.Time < a.Length && !last.EqualsTime(a.Length) {
			src := last
			if a.Looping {
				src = tl.Spatials[0]
			}
			end := src.clone()
			end.Time = a.Length
			tl.Spatials = append(tl.Spatials, end)
			n++
		}

		nodeName := ComposeNodeName(tl.ID, a.ID, entityID)
		for i, s := range tl.Spatials {
			s.TimelineID = tl.ID
			s.NodeName = nodeName
			s.ParentNodeName = ""
			if s.ParentTimelineID != "" && ids[s.ParentTimelineID] {
				s.ParentNodeName = ComposeNodeName(s.ParentTimelineID, a.ID, entityID)
			}

			switch {
			case i+1 < n:
				s.next = tl.Spatials[i+1]
			case a.Looping && n > 1:
				s.next = tl.Spatials[0]
			default:
				s.next = nil
			}
		}
	}
}

// Entity is a playable character or object.
type Entity struct {
	ID         string
	Name       string
	Animations map[string]*Animation
}

// Animation returns the animation with the given name.
func (e *Entity) Animation(name string) (*Animation, bool) {
	if e == nil || name == "" {
		return nil, false
	}
	a, ok := e.Animations[name]
	return a, ok
}

// AnimationNames returns the entity's animation names sorted.
func (e *Entity) AnimationNames() []string {
	if e == nil || len(e.Animations) == 0 {
		return nil
	}
	names := make([]string, 0, len(e.Animations))
	for name := range e.Animations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Data is the complete object graph of one animation file.
type Data struct {
	Entities map[string]*Entity
	Textures []TextureInfo
}

// Entity returns the entity with the given name.
func (d *Data) Entity(name string) (*Entity, bool) {
	if d == nil || name == "" {
		return nil, false
	}
	e, ok := d.Entities[name]
	return e, ok
}
