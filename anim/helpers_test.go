package anim

import (
	"image"
	"math"
	"slices"

	"github.com/milk9111/spriterkit/common"
)

type fakeNode struct {
	name     string
	sprite   bool
	parent   *fakeNode
	children []*fakeNode

	x, y     float64
	sx, sy   float64
	rotation float64
	alpha    float64
	hidden   bool
	z        int
	tex      *Texture
	ax, ay   float64
	texSets  int
}

func newFakeNode(name string) *fakeNode {
	return &fakeNode{name: name, sx: 1, sy: 1, alpha: 1}
}

func (n *fakeNode) Name() string                { return n.name }
func (n *fakeNode) SetPosition(x, y float64)    { n.x, n.y = x, y }
func (n *fakeNode) SetScale(x, y float64)       { n.sx, n.sy = x, y }
func (n *fakeNode) SetRotation(radians float64) { n.rotation = radians }
func (n *fakeNode) SetAlpha(alpha float64)      { n.alpha = alpha }
func (n *fakeNode) SetHidden(hidden bool)       { n.hidden = hidden }
func (n *fakeNode) SetZIndex(z int)             { n.z = z }
func (n *fakeNode) SetAnchor(x, y float64)      { n.ax, n.ay = x, y }

func (n *fakeNode) SetTexture(tex *Texture) {
	n.tex = tex
	n.texSets++
}

func (n *fakeNode) AddChild(child Node) {
	c := child.(*fakeNode)
	c.RemoveFromParent()
	c.parent = n
	n.children = append(n.children, c)
}

func (n *fakeNode) RemoveFromParent() {
	if n.parent == nil {
		return
	}
	if i := slices.Index(n.parent.children, n); i >= 0 {
		n.parent.children = slices.Delete(n.parent.children, i, i+1)
	}
	n.parent = nil
}

// find searches the subtree for a node by name.
func (n *fakeNode) find(name string) *fakeNode {
	if n.name == name {
		return n
	}
	for _, c := range n.children {
		if f := c.find(name); f != nil {
			return f
		}
	}
	return nil
}

func (n *fakeNode) rotationDegrees() float64 {
	return n.rotation * 180 / math.Pi
}

// fakeFactory counts created nodes without retaining them.
type fakeFactory struct {
	created map[string]int
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{created: make(map[string]int)}
}

func (f *fakeFactory) NewNode(name string) Node {
	f.created[name]++
	return newFakeNode(name)
}

func (f *fakeFactory) NewSpriteNode(name string, tex *Texture, anchorX, anchorY float64) Node {
	f.created[name]++
	n := newFakeNode(name)
	n.sprite = true
	n.tex = tex
	n.ax, n.ay = anchorX, anchorY
	return n
}

// countingLoader hands out a fresh texture per call.
type countingLoader struct {
	calls   map[textureKey]int
	missing map[string]bool
}

func newCountingLoader() *countingLoader {
	return &countingLoader{calls: make(map[textureKey]int), missing: make(map[string]bool)}
}

func (l *countingLoader) TextureNamed(name, path string) *Texture {
	l.calls[textureKey{name: name, path: path}]++
	if l.missing[name] {
		return nil
	}
	return &Texture{Name: name, Path: path, Image: image.NewRGBA(image.Rect(0, 0, 4, 4))}
}

func (l *countingLoader) count(name, path string) int {
	return l.calls[textureKey{name: name, path: path}]
}

func deg(d float64) float64 {
	return d * math.Pi / 180
}

func key(t, angleDeg float64, spin common.Spin) *Spatial {
	return &Spatial{
		Time:   t,
		ScaleX: 1,
		ScaleY: 1,
		Alpha:  1,
		Angle:  deg(angleDeg),
		Spin:   spin,
	}
}

var idleTexture = &TextureInfo{ID: "0_0", RelativePath: "gfx/", FileName: "idle_01.png", Width: 32, Height: 32}
var blinkTexture = &TextureInfo{ID: "0_1", RelativePath: "gfx/", FileName: "blink_01.png", Width: 32, Height: 32}

// heroData builds entity "Hero" with:
//   - "Walk": 1s looping; "body" bone 0 -> 90 degrees clockwise, "arm" bone
//     with a single 30 degree key parented to body, "head" sprite whose
//     texture switches at 0.5s.
//   - "Jump": 1s non-looping; "body" moves from x=0 to x=100.
func heroData() *Data {
	body := &Timeline{ID: "0", Name: "body", Spatials: []*Spatial{
		key(0, 0, common.SpinClockwise),
		key(1, 90, common.SpinClockwise),
	}}

	armKey := key(0, 30, common.SpinClockwise)
	armKey.ParentTimelineID = "0"
	arm := &Timeline{ID: "1", Name: "arm", Spatials: []*Spatial{armKey}}

	head0 := key(0, 0, common.SpinNone)
	head0.Kind = KindSprite
	head0.Texture = idleTexture
	head0.PivotX, head0.PivotY = 0.5, 0.25
	head0.ParentTimelineID = "0"
	head1 := head0.clone()
	head1.Time = 0.5
	head1.Texture = blinkTexture
	head1.Hidden = true
	head := &Timeline{ID: "2", Name: "head", Spatials: []*Spatial{head0, head1}}

	walk := &Animation{ID: "0", Name: "Walk", Length: 1, Looping: true, Timelines: []*Timeline{body, arm, head}}
	walk.Link("0")

	j0 := key(0, 0, common.SpinNone)
	j1 := key(1, 0, common.SpinNone)
	j1.X = 100
	j1.Alpha = 0
	jump := &Animation{ID: "1", Name: "Jump", Length: 1, Looping: false, Timelines: []*Timeline{
		{ID: "0", Name: "body", Spatials: []*Spatial{j0, j1}},
	}}
	jump.Link("0")

	return &Data{
		Entities: map[string]*Entity{
			"Hero": {ID: "0", Name: "Hero", Animations: map[string]*Animation{"Walk": walk, "Jump": jump}},
		},
		Textures: []TextureInfo{*idleTexture, *blinkTexture, {ID: "1_0", RelativePath: "fx/", FileName: "dust.png"}},
	}
}

type testRig struct {
	manager *Manager
	loader  *countingLoader
	factory *fakeFactory
	root    *fakeNode
	player  *Player
	events  *EventQueue
}

func newTestRig() *testRig {
	loader := newCountingLoader()
	factory := newFakeFactory()
	m := NewManager(heroData(), loader, factory)
	root := newFakeNode("root")
	p := NewPlayer(root)
	events := &EventQueue{}
	p.SetDelegate(events)
	return &testRig{manager: m, loader: loader, factory: factory, root: root, player: p, events: events}
}

func (r *testRig) node(timelineID, animationID string) *fakeNode {
	return r.root.find(ComposeNodeName(timelineID, animationID, "0"))
}
