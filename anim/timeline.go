package anim

import "sort"

// Timeline is the keyframe track of one bone or sprite slot.
type Timeline struct {
	ID   string
	Name string
	// Spatials are ordered by non-decreasing time.
	Spatials []*Spatial
}

// SpatialForTime returns the keyframe active at t: the latest one whose time
// is at or before t. Times before the first keyframe yield the first one; an
// empty timeline yields nil.
func (tl *Timeline) SpatialForTime(t float64) *Spatial {
	if tl == nil || len(tl.Spatials) == 0 {
		return nil
	}
	// first index whose time is strictly after t, allowing for tolerance
	i := sort.Search(len(tl.Spatials), func(i int) bool {
		s := tl.Spatials[i]
		return s.Time > t && !s.EqualsTime(t)
	})
	if i == 0 {
		return tl.Spatials[0]
	}
	return tl.Spatials[i-1]
}

// Len returns the number of keyframes.
func (tl *Timeline) Len() int {
	if tl == nil {
		return 0
	}
	return len(tl.Spatials)
}
