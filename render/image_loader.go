package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"log"
	"path"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/spriterkit/anim"
	"github.com/milk9111/spriterkit/assets"
)

// Loader delivers textures for an animation manager. Images are looked up
// relative to dir, first in fsys and then in the embedded assets.
type Loader struct {
	fsys fs.FS
	dir  string
}

// NewLoader returns a loader for an SCML file located in dir. fsys may be nil
// to only use embedded assets.
func NewLoader(fsys fs.FS, dir string) *Loader {
	return &Loader{fsys: fsys, dir: dir}
}

// TextureNamed implements anim.TextureLoader. It returns nil and logs when the
// image cannot be read or decoded.
func (l *Loader) TextureNamed(name, relPath string) *anim.Texture {
	key := l.key(name, relPath)
	img, err := l.loadImage(key)
	if err != nil {
		log.Printf("render: load texture %s: %v", key, err)
		return nil
	}
	return &anim.Texture{Name: name, Path: relPath, Image: img}
}

func (l *Loader) key(name, relPath string) string {
	dir := "."
	if l != nil && l.dir != "" {
		dir = l.dir
	}
	return path.Join(dir, relPath, name)
}

func (l *Loader) loadImage(key string) (*ebiten.Image, error) {
	if img := GetImage(key); img != nil {
		return img, nil
	}
	b, err := l.readFile(key)
	if err != nil {
		return nil, err
	}
	im, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	img := ebiten.NewImageFromImage(im)
	RegisterImage(key, img)
	return img, nil
}

func (l *Loader) readFile(key string) ([]byte, error) {
	if l != nil && l.fsys != nil {
		if b, err := fs.ReadFile(l.fsys, key); err == nil {
			return b, nil
		}
	}
	b, err := assets.LoadFile(key)
	if err != nil {
		return nil, fmt.Errorf("not found in filesystem or embedded assets: %w", err)
	}
	return b, nil
}
