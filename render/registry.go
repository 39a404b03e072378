package render

import "github.com/hajimehoshi/ebiten/v2"

// images keeps decoded GPU images alive across texture reloads so a texture
// dropped by the animation manager can be handed out again without decoding.
var images = map[string]*ebiten.Image{}

// RegisterImage stores an image by key.
func RegisterImage(key string, img *ebiten.Image) {
	if key == "" || img == nil {
		return
	}
	images[key] = img
}

// GetImage returns a cached image by key.
func GetImage(key string) *ebiten.Image {
	if key == "" {
		return nil
	}
	return images[key]
}

// ClearImages drops every registered image, e.g. after image files changed on
// disk. Images still referenced by nodes stay valid.
func ClearImages() {
	clear(images)
}
