package anim

import (
	"image"
	"weak"
)

// TextureInfo describes an image referenced by the animation data.
type TextureInfo struct {
	// ID is the Spriter folder and file ID joined by an underscore.
	ID           string
	RelativePath string
	FileName     string
	Width        float64
	Height       float64
}

// Texture is a loaded image. Visual nodes keep it alive; the manager's cache
// only observes it.
type Texture struct {
	Name  string
	Path  string
	Image image.Image
}

// TextureLoader delivers textures on a manager cache miss. It is called
// synchronously and returns nil when the texture is unavailable.
type TextureLoader interface {
	TextureNamed(name, path string) *Texture
}

// TextureLoaderFunc adapts a function to TextureLoader.
type TextureLoaderFunc func(name, path string) *Texture

func (f TextureLoaderFunc) TextureNamed(name, path string) *Texture {
	if f == nil {
		return nil
	}
	return f(name, path)
}

type textureKey struct {
	name string
	path string
}

// textureCache maps (name, path) to textures without extending their
// lifetime. Entries whose texture was collected are dropped lazily.
type textureCache struct {
	entries map[textureKey]weak.Pointer[Texture]
}

func newTextureCache() *textureCache {
	return &textureCache{entries: make(map[textureKey]weak.Pointer[Texture])}
}

func (c *textureCache) get(name, path string) *Texture {
	if c == nil {
		return nil
	}
	key := textureKey{name: name, path: path}
	wp, ok := c.entries[key]
	if !ok {
		return nil
	}
	tex := wp.Value()
	if tex == nil {
		delete(c.entries, key)
	}
	return tex
}

func (c *textureCache) put(name, path string, tex *Texture) {
	if c == nil || tex == nil {
		return
	}
	c.entries[textureKey{name: name, path: path}] = weak.Make(tex)
}

// sweep removes entries whose textures are gone.
func (c *textureCache) sweep() {
	if c == nil {
		return
	}
	for key, wp := range c.entries {
		if wp.Value() == nil {
			delete(c.entries, key)
		}
	}
}

func (c *textureCache) len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
