// Package render hosts animation players on ebiten. Nodes keep the authored
// y-up coordinates; the GeoM passed to Draw maps them onto the screen.
package render

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/spriterkit/anim"
)

// Node is a scene-graph node driven by an anim.Player.
type Node struct {
	name     string
	parent   *Node
	children []*Node

	x, y     float64
	scaleX   float64
	scaleY   float64
	rotation float64
	alpha    float64
	hidden   bool
	z        int

	sprite  bool
	texture *anim.Texture
	img     *ebiten.Image
	anchorX float64
	anchorY float64
}

// NewNode returns an empty node with identity transform.
func NewNode(name string) *Node {
	return &Node{name: name, scaleX: 1, scaleY: 1, alpha: 1}
}

func (n *Node) Name() string { return n.name }

func (n *Node) SetPosition(x, y float64) { n.x, n.y = x, y }

func (n *Node) Position() (float64, float64) { return n.x, n.y }

func (n *Node) SetScale(x, y float64) { n.scaleX, n.scaleY = x, y }

func (n *Node) SetRotation(radians float64) { n.rotation = radians }

func (n *Node) Rotation() float64 { return n.rotation }

func (n *Node) SetAlpha(alpha float64) { n.alpha = alpha }

func (n *Node) Alpha() float64 { return n.alpha }

func (n *Node) SetHidden(hidden bool) { n.hidden = hidden }

func (n *Node) Hidden() bool { return n.hidden }

func (n *Node) SetZIndex(z int) { n.z = z }

func (n *Node) ZIndex() int { return n.z }

// SetTexture replaces the drawn image. A nil texture draws nothing.
func (n *Node) SetTexture(tex *anim.Texture) {
	n.texture = tex
	n.img = nil
}

func (n *Node) Texture() *anim.Texture { return n.texture }

// Sprite reports whether the node was created for a textured part.
func (n *Node) Sprite() bool { return n.sprite }

// SetAnchor sets the pivot in normalized image coordinates measured from the
// bottom left corner.
func (n *Node) SetAnchor(x, y float64) { n.anchorX, n.anchorY = x, y }

// AddChild attaches child, detaching it from its previous parent. Nodes of
// other implementations are ignored.
func (n *Node) AddChild(child anim.Node) {
	c, ok := child.(*Node)
	if !ok || c == nil || c == n {
		return
	}
	c.RemoveFromParent()
	c.parent = n
	n.children = append(n.children, c)
}

func (n *Node) RemoveFromParent() {
	if n.parent == nil {
		return
	}
	if i := slices.Index(n.parent.children, n); i >= 0 {
		n.parent.children = slices.Delete(n.parent.children, i, i+1)
	}
	n.parent = nil
}

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) Children() []*Node { return n.children }

// Find returns the node called name in the subtree rooted at n.
func (n *Node) Find(name string) *Node {
	if n == nil {
		return nil
	}
	if n.name == name {
		return n
	}
	for _, c := range n.children {
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

// LocalGeoM returns the transform from this node's space to its parent's.
func (n *Node) LocalGeoM() ebiten.GeoM {
	var g ebiten.GeoM
	g.Scale(n.scaleX, n.scaleY)
	g.Rotate(n.rotation)
	g.Translate(n.x, n.y)
	return g
}

// Walk visits the visible nodes of the subtree depth first together with
// their transform to screen space.
func (n *Node) Walk(geo ebiten.GeoM, fn func(n *Node, world ebiten.GeoM)) {
	if n == nil || n.hidden {
		return
	}
	world := n.LocalGeoM()
	world.Concat(geo)
	fn(n, world)
	for _, c := range n.children {
		c.Walk(world, fn)
	}
}

// imageGeoM maps image pixels into node space so that the anchor lands on
// the node origin and the image is upright in y-up space.
func (n *Node) imageGeoM() (ebiten.GeoM, bool) {
	if n.texture == nil || n.texture.Image == nil {
		return ebiten.GeoM{}, false
	}
	b := n.texture.Image.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w <= 0 || h <= 0 {
		return ebiten.GeoM{}, false
	}
	var g ebiten.GeoM
	g.Translate(0, -h)
	g.Scale(1, -1)
	g.Translate(-n.anchorX*w, -n.anchorY*h)
	return g, true
}

func (n *Node) ebitenImage() *ebiten.Image {
	if n.img != nil {
		return n.img
	}
	if n.texture == nil || n.texture.Image == nil {
		return nil
	}
	switch im := n.texture.Image.(type) {
	case *ebiten.Image:
		n.img = im
	default:
		n.img = ebiten.NewImageFromImage(im)
	}
	return n.img
}
