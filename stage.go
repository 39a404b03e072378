package main

import (
	"fmt"
	"io/fs"
	"log"
	"slices"

	"github.com/milk9111/spriterkit/anim"
	"github.com/milk9111/spriterkit/render"
	"github.com/milk9111/spriterkit/scenes"
	"github.com/milk9111/spriterkit/script"
	"github.com/milk9111/spriterkit/spriter"
)

const (
	speedStep = 0.25
	maxSpeed  = 4.0
)

// LoaderFunc builds the texture loader for the directory holding the SCML
// file.
type LoaderFunc func(fsys fs.FS) anim.TextureLoader

type actor struct {
	spec   scenes.ActorSpec
	root   *render.Node
	player *anim.Player
	events *anim.EventQueue
	seq    *script.Sequencer
}

// stage is one loaded scene: the manager, its players and the shared clock.
type stage struct {
	spec    *scenes.SceneSpec
	manager *anim.Manager
	actors  []*actor
	clock   float64
	paused  bool
}

func newStage(spec *scenes.SceneSpec, newLoader LoaderFunc) (*stage, error) {
	if spec == nil {
		return nil, fmt.Errorf("viewer: nil scene")
	}

	fsys, name := scenes.ResolveFile(spec.File)
	f, err := spriter.ParseFS(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}
	data, err := f.AnimationData()
	if err != nil {
		return nil, fmt.Errorf("viewer: %s: %w", name, err)
	}

	var loader anim.TextureLoader
	if newLoader != nil {
		loader = newLoader(fsys)
	}

	s := &stage{
		spec:    spec,
		manager: anim.NewManager(data, loader, render.Factory{}),
	}
	for i, a := range spec.Actors {
		act, err := s.addActor(i, a)
		if err != nil {
			s.release()
			return nil, err
		}
		s.actors = append(s.actors, act)
	}
	s.manager.Update(s.clock)
	return s, nil
}

func (s *stage) addActor(i int, a scenes.ActorSpec) (*actor, error) {
	root := render.NewNode(fmt.Sprintf("actor_%d", i))
	p := anim.NewPlayer(root)
	if !p.LoadEntity(a.Entity, s.manager) {
		return nil, fmt.Errorf("viewer: actor %d: unknown entity %q", i, a.Entity)
	}
	act := &actor{spec: a, root: root, player: p, events: &anim.EventQueue{}}
	p.SetDelegate(act.events)

	if a.Script != "" {
		src, err := scenes.LoadScript(a.Script)
		if err != nil {
			p.Release()
			return nil, fmt.Errorf("viewer: actor %d: %w", i, err)
		}
		seq, err := script.NewSequencer(a.Script, src)
		if err != nil {
			p.Release()
			return nil, fmt.Errorf("viewer: actor %d: %w", i, err)
		}
		act.seq = seq
	}

	name := a.Animation
	if name == "" {
		name = act.seq.InitialAnimation()
	}
	if name == "" {
		if names := p.Entity().AnimationNames(); len(names) > 0 {
			name = names[0]
		}
	}
	if !p.PlayAnimation(name) {
		p.Release()
		return nil, fmt.Errorf("viewer: actor %d: unknown animation %q", i, name)
	}
	if a.Loop != nil {
		p.SetLoopAnimation(*a.Loop)
	}
	p.SetAnimationSpeed(a.SpeedOrDefault())
	if a.Time != 0 {
		p.SetCurrentAnimationTime(a.Time)
	}
	return act, nil
}

// update advances the shared clock by dt seconds unless paused, then hands
// the collected playback events to the actors' scripts.
func (s *stage) update(dt float64) {
	if s == nil {
		return
	}
	if !s.paused {
		s.clock += dt
		s.manager.Update(s.clock)
	}
	for _, a := range s.actors {
		for _, ev := range a.events.Drain() {
			if a.seq == nil {
				continue
			}
			d, err := a.seq.Next(script.FromAnim(ev))
			if err != nil {
				log.Printf("viewer: %v", err)
				continue
			}
			if !d.Empty() && !d.Apply(a.player) {
				log.Printf("viewer: script %s: could not play %q", a.seq.Name(), d.Next)
			}
		}
	}
}

func (s *stage) togglePause() {
	s.paused = !s.paused
}

func (s *stage) toggleLoop() {
	for _, a := range s.actors {
		a.player.SetLoopAnimation(!a.player.LoopAnimation())
	}
}

func (s *stage) reverse() {
	for _, a := range s.actors {
		a.player.SetAnimationSpeed(-a.player.AnimationSpeed())
	}
}

// changeSpeed adds delta to every player's speed magnitude, keeping the
// direction.
func (s *stage) changeSpeed(delta float64) {
	for _, a := range s.actors {
		speed := a.player.AnimationSpeed()
		sign := 1.0
		if speed < 0 {
			sign = -1
		}
		mag := min(max(sign*speed+delta, 0), maxSpeed)
		a.player.SetAnimationSpeed(sign * mag)
	}
}

// nextAnimation switches every player to the entity's next animation in name
// order, keeping speed.
func (s *stage) nextAnimation() {
	for _, a := range s.actors {
		names := a.player.Entity().AnimationNames()
		if len(names) == 0 {
			continue
		}
		i := slices.Index(names, a.player.CurrentAnimationName())
		a.player.PlayAnimation(names[(i+1)%len(names)])
	}
}

func (s *stage) release() {
	if s == nil {
		return
	}
	for _, a := range s.actors {
		a.player.Release()
	}
	s.actors = nil
}
