package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/milk9111/spriterkit/render"
	"golang.org/x/image/colornames"
)

const debugCrossSize = 3

type bone struct {
	x0, y0 float64
	x1, y1 float64
	hue    float64
}

// skeleton returns a segment from every visible node's parent origin to its
// own origin in screen space. The root contributes no segment.
func skeleton(root *render.Node, geo ebiten.GeoM) []bone {
	if root == nil {
		return nil
	}
	origins := map[*render.Node][2]float64{}
	var bones []bone
	root.Walk(geo, func(n *render.Node, world ebiten.GeoM) {
		x, y := world.Apply(0, 0)
		origins[n] = [2]float64{x, y}
		p, ok := origins[n.Parent()]
		if n == root || !ok {
			return
		}
		bones = append(bones, bone{x0: p[0], y0: p[1], x1: x, y1: y, hue: float64(len(bones)*47%360)})
	})
	return bones
}

func drawSkeletons(screen *ebiten.Image, s *stage) {
	if s == nil {
		return
	}
	for _, a := range s.actors {
		geo := actorGeoM(a)
		ox, oy := geo.Apply(0, 0)
		vector.StrokeRect(screen, float32(ox-debugCrossSize), float32(oy-debugCrossSize), debugCrossSize*2, debugCrossSize*2, 1, colornames.Yellow, false)
		for _, b := range skeleton(a.root, geo) {
			c := colorful.Hcl(b.hue, 0.6, 0.75).Clamped()
			vector.StrokeLine(screen, float32(b.x0), float32(b.y0), float32(b.x1), float32(b.y1), 1, c, true)
			vector.StrokeLine(screen, float32(b.x1-debugCrossSize), float32(b.y1), float32(b.x1+debugCrossSize), float32(b.y1), 1, c, false)
			vector.StrokeLine(screen, float32(b.x1), float32(b.y1-debugCrossSize), float32(b.x1), float32(b.y1+debugCrossSize), 1, c, false)
		}
	}
}
