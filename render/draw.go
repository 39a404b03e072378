package render

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/spriterkit/anim"
)

// Factory creates render nodes for anim players.
type Factory struct{}

func (Factory) NewNode(name string) anim.Node {
	return NewNode(name)
}

func (Factory) NewSpriteNode(name string, tex *anim.Texture, anchorX, anchorY float64) anim.Node {
	n := NewNode(name)
	n.sprite = true
	n.texture = tex
	n.anchorX, n.anchorY = anchorX, anchorY
	return n
}

// ScreenGeoM places the authored origin at (x, y) on screen, flipping the y
// axis and scaling uniformly.
func ScreenGeoM(x, y, scale float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.Scale(scale, -scale)
	g.Translate(x, y)
	return g
}

type drawItem struct {
	node  *Node
	geo   ebiten.GeoM
	alpha float64
}

// collect gathers the textured nodes of the subtree in draw order: by
// z-index, ties keep tree order.
func (n *Node) collect(geo ebiten.GeoM, alpha float64) []drawItem {
	var items []drawItem
	var visit func(n *Node, parent ebiten.GeoM, parentAlpha float64)
	visit = func(n *Node, parent ebiten.GeoM, parentAlpha float64) {
		if n.hidden {
			return
		}
		world := n.LocalGeoM()
		world.Concat(parent)
		a := parentAlpha * n.alpha
		if img, ok := n.imageGeoM(); ok && a > 0 {
			img.Concat(world)
			items = append(items, drawItem{node: n, geo: img, alpha: a})
		}
		for _, c := range n.children {
			visit(c, world, a)
		}
	}
	visit(n, geo, alpha)

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].node.z < items[j].node.z
	})
	return items
}

// Draw renders the subtree onto screen. geo maps the node's parent space to
// the screen, see ScreenGeoM.
func (n *Node) Draw(screen *ebiten.Image, geo ebiten.GeoM, alpha float64) {
	if n == nil || screen == nil {
		return
	}
	for _, it := range n.collect(geo, alpha) {
		img := it.node.ebitenImage()
		if img == nil {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM = it.geo
		op.ColorScale.ScaleAlpha(float32(it.alpha))
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(img, op)
	}
}
