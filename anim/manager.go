package anim

import (
	"sort"
	"weak"
)

// Manager owns the animation data of one file, updates every player bound to
// it and caches textures.
//
// Normally one manager per scene is enough; players of different managers
// should live in different node trees so their node names cannot clash.
// The manager is not safe for concurrent use: call all methods, and those of
// its players, from the goroutine that runs the frame loop.
type Manager struct {
	data    *Data
	loader  TextureLoader
	factory NodeFactory

	players  map[weak.Pointer[Player]]struct{}
	textures *textureCache

	lastTime    float64
	hasBaseline bool
}

// NewManager returns a manager for data. loader is asked for textures on a
// cache miss and factory creates host nodes.
func NewManager(data *Data, loader TextureLoader, factory NodeFactory) *Manager {
	if data == nil {
		data = &Data{}
	}
	return &Manager{
		data:     data,
		loader:   loader,
		factory:  factory,
		players:  make(map[weak.Pointer[Player]]struct{}),
		textures: newTextureCache(),
	}
}

// Update advances every registered player to currentTime, an absolute clock
// in seconds. The first call only records the baseline. A clock that moves
// backwards is taken as the new baseline.
func (m *Manager) Update(currentTime float64) {
	if m == nil {
		return
	}
	if !m.hasBaseline || currentTime < m.lastTime {
		m.lastTime = currentTime
		m.hasBaseline = true
		return
	}
	dt := currentTime - m.lastTime
	m.lastTime = currentTime

	for _, p := range m.livePlayers() {
		p.UpdateTime(dt)
	}
	m.textures.sweep()
}

// AddPlayer registers p for updates without keeping it alive. Players add
// themselves in LoadEntity.
func (m *Manager) AddPlayer(p *Player) {
	if m == nil || p == nil {
		return
	}
	m.players[weak.Make(p)] = struct{}{}
}

// RemovePlayer stops updating p. Players that are garbage collected drop out
// on their own.
func (m *Manager) RemovePlayer(p *Player) {
	if m == nil || p == nil {
		return
	}
	delete(m.players, weak.Make(p))
}

// PlayerCount returns the number of live registered players.
func (m *Manager) PlayerCount() int {
	if m == nil {
		return 0
	}
	return len(m.livePlayers())
}

// livePlayers prunes collected players and returns the rest.
func (m *Manager) livePlayers() []*Player {
	live := make([]*Player, 0, len(m.players))
	for wp := range m.players {
		p := wp.Value()
		if p == nil {
			delete(m.players, wp)
			continue
		}
		live = append(live, p)
	}
	return live
}

// Data returns the animation data.
func (m *Manager) Data() *Data {
	if m == nil {
		return nil
	}
	return m.data
}

// NodeFactory returns the factory players create nodes with.
func (m *Manager) NodeFactory() NodeFactory {
	if m == nil {
		return nil
	}
	return m.factory
}

// EntityNamed returns the entity called name or nil.
func (m *Manager) EntityNamed(name string) *Entity {
	if m == nil {
		return nil
	}
	e, _ := m.data.Entity(name)
	return e
}

// AllEntityNames returns the names of all entities sorted, or nil if there
// are none.
func (m *Manager) AllEntityNames() []string {
	if m == nil || len(m.data.Entities) == 0 {
		return nil
	}
	names := make([]string, 0, len(m.data.Entities))
	for name := range m.data.Entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllAnimationNamesForEntity returns the sorted animation names of the
// entity, or nil for an unknown entity or one without animations.
func (m *Manager) AllAnimationNamesForEntity(name string) []string {
	return m.EntityNamed(name).AnimationNames()
}

// AllTextureNames groups the file names of all textures by relative path.
// Useful for preloading before any player asks for them.
func (m *Manager) AllTextureNames() map[string][]string {
	if m == nil || len(m.data.Textures) == 0 {
		return nil
	}
	out := make(map[string][]string)
	seen := make(map[textureKey]bool, len(m.data.Textures))
	for _, t := range m.data.Textures {
		key := textureKey{name: t.FileName, path: t.RelativePath}
		if seen[key] {
			continue
		}
		seen[key] = true
		out[t.RelativePath] = append(out[t.RelativePath], t.FileName)
	}
	for path := range out {
		sort.Strings(out[path])
	}
	return out
}

// TextureNamed returns the texture for a file name and relative path. A
// cached texture is returned while anything still holds it; otherwise the
// loader is asked and its result cached. Returns nil if the loader has none.
func (m *Manager) TextureNamed(name, path string) *Texture {
	if m == nil {
		return nil
	}
	if tex := m.textures.get(name, path); tex != nil {
		return tex
	}
	if m.loader == nil {
		return nil
	}
	tex := m.loader.TextureNamed(name, path)
	m.textures.put(name, path, tex)
	return tex
}

// CachedTextureCount returns the number of texture cache entries, including
// ones not swept yet.
func (m *Manager) CachedTextureCount() int {
	if m == nil {
		return 0
	}
	return m.textures.len()
}
