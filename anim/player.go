package anim

import (
	"fmt"
	"math"
)

// State is the playback state of a Player.
type State int

const (
	// StateUnbound has no entity assigned.
	StateUnbound State = iota
	// StateIdle has an entity but no animation was started yet.
	StateIdle
	StatePlaying
	// StateStopped follows an explicit StopAnimation.
	StateStopped
	// StateFinished holds the final pose of a non-looping animation.
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateStopped:
		return "stopped"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Player plays the animations of one entity on a host node tree. Nodes for
// the current animation are created below root; nothing else should be
// attached to root.
//
// A player is driven by the Manager it was bound to with LoadEntity and must
// only be used from the goroutine calling Manager.Update.
type Player struct {
	root     Node
	manager  *Manager
	entity   *Entity
	delegate Delegate

	animation *Animation
	nodes     map[string]*VisualNode

	time   float64
	length float64
	speed  float64
	loop   bool
	state  State
}

// NewPlayer returns an unbound player that attaches its nodes to root.
func NewPlayer(root Node) *Player {
	return &Player{
		root:  root,
		speed: 1,
		state: StateUnbound,
	}
}

// LoadEntity binds the entity called name from m and registers the player
// for updates. Any running animation is stopped. It returns false, leaving
// the player untouched, when m has no such entity.
func (p *Player) LoadEntity(name string, m *Manager) bool {
	if p == nil || m == nil {
		return false
	}
	e := m.EntityNamed(name)
	if e == nil {
		return false
	}

	p.StopAnimation()
	if p.manager != nil && p.manager != m {
		p.manager.RemovePlayer(p)
	}
	p.manager = m
	p.entity = e
	p.state = StateIdle
	m.AddPlayer(p)
	return true
}

// PlayAnimation starts the bound entity's animation called name from the
// beginning, replacing any current one. The loop flag is reset to the
// authored value; the speed is kept. It returns false, leaving the current
// playback untouched, if no entity is bound or the animation is unknown.
func (p *Player) PlayAnimation(name string) bool {
	if p == nil || p.entity == nil || p.manager == nil {
		return false
	}
	a, ok := p.entity.Animation(name)
	if !ok || a == nil {
		return false
	}

	p.teardown()
	p.animation = a
	p.time = 0
	p.length = a.Length
	p.loop = a.Looping
	p.build()
	p.state = StatePlaying
	p.applyPose()
	return true
}

// StopAnimation removes the current animation's nodes. It does nothing when
// no animation is set.
func (p *Player) StopAnimation() {
	if p == nil || p.animation == nil {
		return
	}
	p.teardown()
	p.state = StateStopped
}

// Release stops playback and deregisters the player from its manager.
func (p *Player) Release() {
	if p == nil {
		return
	}
	p.StopAnimation()
	if p.manager != nil {
		p.manager.RemovePlayer(p)
	}
}

// UpdateTime advances playback by dt seconds scaled by the animation speed
// and updates every node. The manager calls it each frame.
func (p *Player) UpdateTime(dt float64) {
	if p == nil || p.animation == nil {
		return
	}
	if p.state != StatePlaying && p.state != StateFinished {
		return
	}

	delta := dt * p.speed
	if p.loop {
		t, wrapped := p.wrap(p.time + delta)
		p.time = t
		p.state = StatePlaying
		p.applyPose()
		if wrapped {
			p.notify(true)
		}
		return
	}

	if p.state == StateFinished {
		inward := (p.time >= p.length && delta < 0) || (p.time <= 0 && delta > 0)
		if !inward {
			return
		}
	}

	t := p.time + delta
	atEnd := (delta > 0 && t >= p.length) || (delta < 0 && t <= 0)
	p.time = p.clamp(t)
	p.applyPose()
	if atEnd {
		p.state = StateFinished
		p.notify(false)
		return
	}
	p.state = StatePlaying
}

// CurrentAnimationTime returns the playback position in seconds.
func (p *Player) CurrentAnimationTime() float64 {
	if p == nil {
		return 0
	}
	return p.time
}

// SetCurrentAnimationTime seeks to t, wrapped or clamped like UpdateTime, and
// updates the nodes immediately. No notifications are sent.
func (p *Player) SetCurrentAnimationTime(t float64) {
	if p == nil || p.animation == nil {
		return
	}
	if p.loop {
		t, _ = p.wrap(t)
	} else {
		t = p.clamp(t)
	}
	p.time = t
	p.state = StatePlaying
	p.applyPose()
}

// AnimationLength returns the current animation's length in seconds.
func (p *Player) AnimationLength() float64 {
	if p == nil {
		return 0
	}
	return p.length
}

// CurrentAnimationName returns the playing animation's name or "".
func (p *Player) CurrentAnimationName() string {
	if p == nil || p.animation == nil {
		return ""
	}
	return p.animation.Name
}

// AnimationSpeed is the playback time factor, 1 by default. 0 pauses and a
// negative value plays backwards. It survives animation and entity changes.
func (p *Player) AnimationSpeed() float64 {
	if p == nil {
		return 0
	}
	return p.speed
}

func (p *Player) SetAnimationSpeed(speed float64) {
	if p == nil {
		return
	}
	p.speed = speed
}

// LoopAnimation reports whether playback wraps at the end.
func (p *Player) LoopAnimation() bool {
	return p != nil && p.loop
}

// SetLoopAnimation overrides the authored loop flag until the next
// PlayAnimation. The playback position is not touched.
func (p *Player) SetLoopAnimation(loop bool) {
	if p == nil {
		return
	}
	p.loop = loop
}

func (p *Player) SetDelegate(d Delegate) {
	if p == nil {
		return
	}
	p.delegate = d
}

func (p *Player) Delegate() Delegate {
	if p == nil {
		return nil
	}
	return p.delegate
}

func (p *Player) State() State {
	if p == nil {
		return StateUnbound
	}
	return p.state
}

// Entity returns the bound entity or nil.
func (p *Player) Entity() *Entity {
	if p == nil {
		return nil
	}
	return p.entity
}

// Manager returns the manager the player is bound to or nil.
func (p *Player) Manager() *Manager {
	if p == nil {
		return nil
	}
	return p.manager
}

func (p *Player) Root() Node {
	if p == nil {
		return nil
	}
	return p.root
}

// NodeNamed returns the node of the current animation with the given
// composed name.
func (p *Player) NodeNamed(name string) (Node, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.nodes[name]
	if !ok {
		return nil, false
	}
	return v.Node, true
}

// Clone returns a player on root bound to the same entity and manager,
// playing the same animation at the same position with the same settings.
func (p *Player) Clone(root Node) *Player {
	c := NewPlayer(root)
	if p == nil {
		return c
	}
	c.speed = p.speed
	c.delegate = p.delegate
	if p.manager == nil || p.entity == nil {
		return c
	}
	if !c.LoadEntity(p.entity.Name, p.manager) || p.animation == nil {
		return c
	}
	if !c.PlayAnimation(p.animation.Name) {
		return c
	}
	c.loop = p.loop
	c.SetCurrentAnimationTime(p.time)
	c.state = p.state
	return c
}

func (p *Player) wrap(t float64) (float64, bool) {
	if p.length <= 0 {
		return 0, false
	}
	if t >= 0 && t < p.length {
		return t, false
	}
	t = math.Mod(t, p.length)
	if t < 0 {
		t += p.length
	}
	if t >= p.length {
		t = 0
	}
	return t, true
}

func (p *Player) clamp(t float64) float64 {
	if t > p.length {
		return p.length
	}
	if t < 0 {
		return 0
	}
	return t
}

func (p *Player) notify(looping bool) {
	if p.delegate != nil {
		p.delegate.AnimationDidFinish(p, looping)
	}
}

// build creates a node per timeline and attaches each to its parent.
func (p *Player) build() {
	p.nodes = make(map[string]*VisualNode, len(p.animation.Timelines))
	created := make([]*VisualNode, 0, len(p.animation.Timelines))
	for _, tl := range p.animation.Timelines {
		s := tl.SpatialForTime(0)
		if s == nil {
			continue
		}
		if _, dup := p.nodes[s.NodeName]; dup {
			continue
		}
		v := s.CreateNode(p.manager)
		if v == nil {
			continue
		}
		p.nodes[s.NodeName] = v
		created = append(created, v)
	}
	for _, v := range created {
		p.attach(v, v.parent)
	}
}

// attach moves v below the node called parent, or below root when there is
// no such node.
func (p *Player) attach(v *VisualNode, parent string) {
	v.Node.RemoveFromParent()
	v.parent = parent
	if pv, ok := p.nodes[parent]; ok && pv != v {
		pv.Node.AddChild(v.Node)
		return
	}
	if p.root != nil {
		p.root.AddChild(v.Node)
	}
}

func (p *Player) teardown() {
	for _, v := range p.nodes {
		v.Node.RemoveFromParent()
	}
	p.nodes = nil
	p.animation = nil
}

// applyPose writes the pose at the current time to every node. Each
// timeline only writes its own node's local transform.
func (p *Player) applyPose() {
	if p.animation == nil {
		return
	}
	for _, tl := range p.animation.Timelines {
		s := tl.SpatialForTime(p.time)
		if s == nil {
			continue
		}
		v := p.nodes[s.NodeName]
		if v == nil {
			continue
		}
		if s.ParentNodeName != v.parent {
			p.attach(v, s.ParentNodeName)
		}
		s.UpdateNode(v, s.InterpolationRatio(p.time), p.manager)
	}
}
