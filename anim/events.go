package anim

// Delegate is informed when playback reaches the end of an animation.
// looping is true when the animation wraps around and keeps playing.
type Delegate interface {
	AnimationDidFinish(p *Player, looping bool)
}

// DelegateFunc adapts a function to Delegate.
type DelegateFunc func(p *Player, looping bool)

func (f DelegateFunc) AnimationDidFinish(p *Player, looping bool) {
	if f != nil {
		f(p, looping)
	}
}

// EventKind identifies playback events.
type EventKind string

const (
	EventFinished EventKind = "finished"
	EventLooped   EventKind = "looped"
)

// Event is a playback notification recorded by an EventQueue.
type Event struct {
	Kind      EventKind
	Player    *Player
	Entity    string
	Animation string
}

// EventQueue is a Delegate that records notifications for the host to drain
// after the manager update.
type EventQueue struct {
	items []Event
}

func (q *EventQueue) AnimationDidFinish(p *Player, looping bool) {
	kind := EventFinished
	if looping {
		kind = EventLooped
	}
	evt := Event{Kind: kind, Player: p}
	if p != nil {
		evt.Animation = p.CurrentAnimationName()
		if e := p.Entity(); e != nil {
			evt.Entity = e.Name
		}
	}
	q.Push(evt)
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
