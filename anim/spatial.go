package anim

import (
	"fmt"
	"math"

	"github.com/milk9111/spriterkit/common"
)

// TimeTolerance is the largest difference in seconds at which two keyframe
// times are considered equal.
const TimeTolerance = 1e-4

// SpatialKind distinguishes bones from sprite-bearing parts.
type SpatialKind int

const (
	KindBone SpatialKind = iota
	KindSprite
)

func (k SpatialKind) String() string {
	switch k {
	case KindBone:
		return "bone"
	case KindSprite:
		return "sprite"
	default:
		return fmt.Sprintf("SpatialKind(%d)", int(k))
	}
}

// Spatial is one keyframe of a timeline.
type Spatial struct {
	TimelineID string
	ID         string
	// Time of the keyframe in seconds.
	Time float64
	Kind SpatialKind

	// NodeName correlates this part with a host node across keyframes.
	NodeName         string
	ParentNodeName   string
	ParentTimelineID string

	Hidden bool
	X      float64
	Y      float64
	ScaleX float64
	ScaleY float64
	Alpha  float64
	// Angle in radians.
	Angle  float64
	Spin   common.Spin
	ZIndex int

	Texture *TextureInfo
	PivotX  float64
	PivotY  float64

	next *Spatial
}

// ComposeNodeName builds the unique node name for a timeline of an
// animation of an entity.
func ComposeNodeName(timelineID, animationID, entityID string) string {
	return fmt.Sprintf("spriterkit__%s_%s_%s", entityID, animationID, timelineID)
}

// Next returns the chronological successor, or nil at the end of a
// non-looping timeline.
func (s *Spatial) Next() *Spatial {
	if s == nil {
		return nil
	}
	return s.next
}

// EqualsTime reports whether t is within TimeTolerance of the keyframe time.
func (s *Spatial) EqualsTime(t float64) bool {
	return math.Abs(s.Time-t) <= TimeTolerance
}

// InterpolationRatio returns how far t lies between this keyframe and the
// next one, in [0, 1]. Without a later successor the pose is held.
func (s *Spatial) InterpolationRatio(t float64) float64 {
	if s == nil || s.next == nil || s.next.Time <= s.Time {
		return 0
	}
	return common.Clamp((t-s.Time)/(s.next.Time-s.Time), 0, 1)
}

// CreateNode builds the host node for this keyframe and writes its pose.
// Sprites resolve their texture through the manager.
func (s *Spatial) CreateNode(m *Manager) *VisualNode {
	if s == nil || m == nil || m.factory == nil {
		return nil
	}

	var v *VisualNode
	switch s.Kind {
	case KindSprite:
		tex := s.loadTexture(m)
		v = newVisualNode(m.factory.NewSpriteNode(s.NodeName, tex, s.PivotX, s.PivotY))
		v.texture = s.textureID()
		v.hasTex = true
	default:
		v = newVisualNode(m.factory.NewNode(s.NodeName))
	}
	if v.Node == nil {
		return nil
	}
	v.parent = s.ParentNodeName
	s.UpdateNode(v, 0, m)
	return v
}

// UpdateNode writes the pose interpolated towards the next keyframe. Hidden,
// z-index, texture and pivot are steps taken from this keyframe.
func (s *Spatial) UpdateNode(v *VisualNode, ratio float64, m *Manager) {
	if s == nil || v == nil || v.Node == nil {
		return
	}
	target := s
	if s.next != nil {
		target = s.next
	}

	n := v.Node
	n.SetPosition(common.Lerp(s.X, target.X, ratio), common.Lerp(s.Y, target.Y, ratio))
	n.SetScale(common.Lerp(s.ScaleX, target.ScaleX, ratio), common.Lerp(s.ScaleY, target.ScaleY, ratio))
	n.SetRotation(common.LerpAngle(s.Angle, target.Angle, s.Spin, ratio))
	n.SetAlpha(common.Lerp(s.Alpha, target.Alpha, ratio))
	n.SetHidden(s.Hidden)
	n.SetZIndex(s.ZIndex)

	if s.Kind != KindSprite {
		return
	}
	n.SetAnchor(s.PivotX, s.PivotY)
	id := s.textureID()
	if v.hasTex && v.texture == id {
		return
	}
	n.SetTexture(s.loadTexture(m))
	v.texture = id
	v.hasTex = true
}

func (s *Spatial) textureID() string {
	if s.Texture == nil {
		return ""
	}
	return s.Texture.ID
}

func (s *Spatial) loadTexture(m *Manager) *Texture {
	if s.Texture == nil || m == nil {
		return nil
	}
	return m.TextureNamed(s.Texture.FileName, s.Texture.RelativePath)
}

// clone returns a copy without the navigation link.
func (s *Spatial) clone() *Spatial {
	c := *s
	c.next = nil
	return &c
}
