// Package script runs tengo scripts that decide what a player does when its
// animation finishes or loops.
//
// A script defines
//
//	on_event := func(engine, state, ev) { ... }
//
// ev carries kind ("finished" or "looped"), entity, animation, looping and
// animations. state is a map kept between calls. engine exposes play, speed,
// loop, has and log. A script may set the global initial_animation to pick
// the animation started before any event.
package script

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/spriterkit/anim"
)

const dispatchScript = `
if __phase == "event" {
	on_event(__engine, __state, __event)
}
`

// Event is the playback notification handed to a script.
type Event struct {
	Kind       anim.EventKind
	Entity     string
	Animation  string
	Looping    bool
	Animations []string
}

// FromAnim converts a queued playback event, reading the loop flag and the
// available animations from its player.
func FromAnim(ev anim.Event) Event {
	out := Event{Kind: ev.Kind, Entity: ev.Entity, Animation: ev.Animation}
	if ev.Player != nil {
		out.Looping = ev.Player.LoopAnimation()
		if e := ev.Player.Entity(); e != nil {
			out.Animations = e.AnimationNames()
		}
	}
	return out
}

// Decision is what a script asked for while handling one event.
type Decision struct {
	Next  string
	Speed *float64
	Loop  *bool
}

// Empty reports whether the script asked for nothing.
func (d Decision) Empty() bool {
	return d.Next == "" && d.Speed == nil && d.Loop == nil
}

// Apply plays d.Next on p and then applies the loop and speed overrides. It
// returns false when the next animation could not be started.
func (d Decision) Apply(p *anim.Player) bool {
	if p == nil {
		return false
	}
	ok := true
	if d.Next != "" {
		ok = p.PlayAnimation(d.Next)
	}
	if d.Loop != nil {
		p.SetLoopAnimation(*d.Loop)
	}
	if d.Speed != nil {
		p.SetAnimationSpeed(*d.Speed)
	}
	return ok
}

// Sequencer is one compiled script with its persistent state. It is not safe
// for concurrent use.
type Sequencer struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	initial  string
}

// NewSequencer compiles src. name is used in log and error messages.
func NewSequencer(name string, src []byte) (*Sequencer, error) {
	full := string(src) + "\n" + dispatchScript
	s := tengo.NewScript([]byte(full))
	_ = s.Add("__phase", "")
	_ = s.Add("__engine", map[string]any{})
	_ = s.Add("__state", map[string]any{})
	_ = s.Add("__event", map[string]any{})

	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", name, err)
	}

	seq := &Sequencer{
		name:     name,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}

	// Run the top level once so globals such as initial_animation are set.
	noop := &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	if err := seq.run("noop", noop, noop); err != nil {
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	if compiled.IsDefined("initial_animation") {
		if v, ok := tengo.ToString(compiled.Get("initial_animation").Object()); ok {
			seq.initial = strings.TrimSpace(v)
		}
	}

	return seq, nil
}

// Name returns the name the sequencer was created with.
func (s *Sequencer) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// InitialAnimation returns the script's initial_animation global, or "".
func (s *Sequencer) InitialAnimation() string {
	if s == nil {
		return ""
	}
	return s.initial
}

// Next runs on_event for ev and returns what the script asked for.
func (s *Sequencer) Next(ev Event) (Decision, error) {
	var d Decision
	if s == nil || s.compiled == nil {
		return d, fmt.Errorf("nil sequencer")
	}
	engine := s.buildEngine(ev, &d)
	if err := s.run("event", engine, eventObject(ev)); err != nil {
		return Decision{}, fmt.Errorf("script %s: %w", s.name, err)
	}
	return d, nil
}

// State returns a copy of the script's persistent state.
func (s *Sequencer) State() map[string]any {
	if s == nil || s.state == nil {
		return nil
	}
	out, _ := objectToAny(s.state).(map[string]any)
	return out
}

func (s *Sequencer) run(phase string, engine *tengo.ImmutableMap, event tengo.Object) error {
	if err := s.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := s.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := s.compiled.Set("__state", s.state); err != nil {
		return err
	}
	if err := s.compiled.Set("__event", event); err != nil {
		return err
	}
	return s.compiled.Run()
}

func (s *Sequencer) buildEngine(ev Event, d *Decision) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["play"] = &tengo.UserFunction{Name: "play", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" || !slices.Contains(ev.Animations, name) {
			return tengo.FalseValue, nil
		}
		d.Next = name
		return tengo.TrueValue, nil
	}}

	values["speed"] = &tengo.UserFunction{Name: "speed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		v, ok := tengo.ToFloat64(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		d.Speed = &v
		return tengo.TrueValue, nil
	}}

	values["loop"] = &tengo.UserFunction{Name: "loop", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		v := !args[0].IsFalsy()
		d.Loop = &v
		return tengo.TrueValue, nil
	}}

	values["has"] = &tengo.UserFunction{Name: "has", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		if slices.Contains(ev.Animations, strings.TrimSpace(objectAsString(args[0]))) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		log.Printf("script %s: %s", s.name, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func eventObject(ev Event) *tengo.ImmutableMap {
	names := make([]tengo.Object, 0, len(ev.Animations))
	for _, n := range ev.Animations {
		names = append(names, &tengo.String{Value: n})
	}
	looping := tengo.FalseValue
	if ev.Looping {
		looping = tengo.TrueValue
	}
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"kind":       &tengo.String{Value: string(ev.Kind)},
		"entity":     &tengo.String{Value: ev.Entity},
		"animation":  &tengo.String{Value: ev.Animation},
		"looping":    looping,
		"animations": &tengo.ImmutableArray{Value: names},
	}}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}

	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
