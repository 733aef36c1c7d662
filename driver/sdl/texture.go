// +build sdl2

package sdl

import (
	"image"

	"github.com/pkg/errors"
	sdl2 "github.com/veandco/go-sdl2/sdl"

	"github.com/db47h/mdl/driver"
)

// Texture wraps an SDL texture. Creation parameters, blend mode and
// modulation are shadowed so queries do not round-trip through SDL.
//
type Texture struct {
	tex    *sdl2.Texture
	format driver.PixelFormat
	access driver.TextureAccess
	w, h   int

	blend            driver.BlendMode
	modR, modG, modB uint8
	modA             uint8
}

func newTexture(tex *sdl2.Texture, f driver.PixelFormat, access driver.TextureAccess, w, h int, blend driver.BlendMode) *Texture {
	return &Texture{
		tex:    tex,
		format: f,
		access: access,
		w:      w,
		h:      h,
		blend:  blend,
		modR:   0xff, modG: 0xff, modB: 0xff,
		modA: 0xff,
	}
}

func (t *Texture) Query() (f driver.PixelFormat, access driver.TextureAccess, w, h int, err error) {
	if t.tex == nil {
		return 0, 0, 0, 0, errors.New("invalid texture")
	}
	return t.format, t.access, t.w, t.h, nil
}

func (t *Texture) Update(r image.Rectangle, pix []byte, pitch int) error {
	return t.tex.Update(rect(r), pix, pitch)
}

func (t *Texture) Lock(r image.Rectangle) (pix []byte, pitch int, err error) {
	return t.tex.Lock(rect(r))
}

func (t *Texture) Unlock() {
	t.tex.Unlock()
}

func (t *Texture) SetBlendMode(bm driver.BlendMode) error {
	if err := t.tex.SetBlendMode(blendMode(bm)); err != nil {
		return err
	}
	t.blend = bm
	return nil
}

func (t *Texture) BlendMode() (driver.BlendMode, error) {
	if t.tex == nil {
		return 0, errors.New("invalid texture")
	}
	return t.blend, nil
}

func (t *Texture) SetColorMod(r, g, b uint8) error {
	if err := t.tex.SetColorMod(r, g, b); err != nil {
		return err
	}
	t.modR, t.modG, t.modB = r, g, b
	return nil
}

func (t *Texture) ColorMod() (r, g, b uint8, err error) {
	if t.tex == nil {
		return 0, 0, 0, errors.New("invalid texture")
	}
	return t.modR, t.modG, t.modB, nil
}

func (t *Texture) SetAlphaMod(a uint8) error {
	if err := t.tex.SetAlphaMod(a); err != nil {
		return err
	}
	t.modA = a
	return nil
}

func (t *Texture) AlphaMod() (uint8, error) {
	if t.tex == nil {
		return 0, errors.New("invalid texture")
	}
	return t.modA, nil
}

func (t *Texture) SetScaleMode(m driver.ScaleMode) error {
	if m == driver.ScaleLinear {
		return t.tex.SetScaleMode(sdl2.ScaleModeLinear)
	}
	return t.tex.SetScaleMode(sdl2.ScaleModeNearest)
}

func (t *Texture) Destroy() {
	if t.tex == nil {
		return
	}
	_ = t.tex.Destroy()
	t.tex = nil
}
