package anim

// Node is the host scene-graph capability set the player drives. The player
// only writes to nodes and never reads values back.
type Node interface {
	Name() string
	SetPosition(x, y float64)
	SetScale(x, y float64)
	// SetRotation takes radians, counter-clockwise positive.
	SetRotation(radians float64)
	SetAlpha(alpha float64)
	SetHidden(hidden bool)
	SetZIndex(z int)
	SetTexture(tex *Texture)
	// SetAnchor sets the normalized 0-1 pivot of a textured node.
	SetAnchor(x, y float64)
	AddChild(child Node)
	RemoveFromParent()
}

// NodeFactory creates host nodes for timelines.
type NodeFactory interface {
	// NewNode returns an empty structural node used for bones.
	NewNode(name string) Node
	// NewSpriteNode returns a textured node. tex may be nil when the texture
	// could not be loaded; anchorX and anchorY are normalized 0-1 pivots.
	NewSpriteNode(name string, tex *Texture, anchorX, anchorY float64) Node
}

// VisualNode is the player's handle on one host node together with the step
// values last written to it.
type VisualNode struct {
	Node Node

	parent  string
	texture string
	hasTex  bool
}

func newVisualNode(n Node) *VisualNode {
	return &VisualNode{Node: n}
}

// Parent returns the node name this node is currently attached to, or "" for
// the player's root.
func (v *VisualNode) Parent() string {
	if v == nil {
		return ""
	}
	return v.parent
}
