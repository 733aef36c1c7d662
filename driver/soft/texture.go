package soft

import (
	"image"
	"image/color"

	"github.com/pkg/errors"

	"github.com/db47h/mdl/driver"
)

// Texture is an in-memory texture. Pixels are kept non-premultiplied
// whatever the declared format; Update and Lock convert at the boundary.
//
type Texture struct {
	format driver.PixelFormat
	access driver.TextureAccess
	img    *image.NRGBA

	blend            driver.BlendMode
	modR, modG, modB uint8
	modA             uint8
	scale            driver.ScaleMode

	lockRect image.Rectangle
	lockBuf  []byte
	locked   bool
}

func newTexture(f driver.PixelFormat, access driver.TextureAccess, w, h int) (*Texture, error) {
	if f.BytesPerPixel() == 0 {
		return nil, errors.Errorf("invalid pixel format %s", f)
	}
	if w <= 0 || h <= 0 {
		return nil, errors.Errorf("invalid texture size %dx%d", w, h)
	}
	return &Texture{
		format: f,
		access: access,
		img:    image.NewNRGBA(image.Rect(0, 0, w, h)),
		blend:  driver.BlendNone,
		modR:   0xff, modG: 0xff, modB: 0xff,
		modA: 0xff,
	}, nil
}

func (t *Texture) Query() (f driver.PixelFormat, access driver.TextureAccess, w, h int, err error) {
	if t.img == nil {
		return 0, 0, 0, 0, errors.New("invalid texture")
	}
	b := t.img.Bounds()
	return t.format, t.access, b.Dx(), b.Dy(), nil
}

func (t *Texture) Update(r image.Rectangle, pix []byte, pitch int) error {
	if t.img == nil {
		return errors.New("invalid texture")
	}
	if !r.In(t.img.Bounds()) {
		return errors.Errorf("update region %v out of bounds", r)
	}
	bpp := t.format.BytesPerPixel()
	if pitch < r.Dx()*bpp {
		return errors.Errorf("pitch %d too small for width %d", pitch, r.Dx())
	}
	if len(pix) < (r.Dy()-1)*pitch+r.Dx()*bpp {
		return errors.New("pixel buffer too small")
	}
	for y := 0; y < r.Dy(); y++ {
		row := pix[y*pitch:]
		for x := 0; x < r.Dx(); x++ {
			t.img.SetNRGBA(r.Min.X+x, r.Min.Y+y, getPixel(row, x*bpp, t.format))
		}
	}
	return nil
}

// Lock returns a write-only staging buffer for the region. The buffer
// contents are undefined until written; Unlock uploads them.
//
func (t *Texture) Lock(r image.Rectangle) (pix []byte, pitch int, err error) {
	if t.img == nil {
		return nil, 0, errors.New("invalid texture")
	}
	if t.access != driver.AccessStreaming {
		return nil, 0, errors.New("texture not streaming")
	}
	if t.locked {
		return nil, 0, errors.New("texture already locked")
	}
	if !r.In(t.img.Bounds()) {
		return nil, 0, errors.Errorf("lock region %v out of bounds", r)
	}
	bpp := t.format.BytesPerPixel()
	t.lockRect = r
	t.lockBuf = make([]byte, r.Dy()*r.Dx()*bpp)
	t.locked = true
	return t.lockBuf, r.Dx() * bpp, nil
}

func (t *Texture) Unlock() {
	if !t.locked {
		return
	}
	r := t.lockRect
	bpp := t.format.BytesPerPixel()
	pitch := r.Dx() * bpp
	for y := 0; y < r.Dy(); y++ {
		row := t.lockBuf[y*pitch:]
		for x := 0; x < r.Dx(); x++ {
			t.img.SetNRGBA(r.Min.X+x, r.Min.Y+y, getPixel(row, x*bpp, t.format))
		}
	}
	t.locked = false
	t.lockBuf = nil
	t.lockRect = image.Rectangle{}
}

func (t *Texture) SetBlendMode(bm driver.BlendMode) error {
	if t.img == nil {
		return errors.New("invalid texture")
	}
	t.blend = bm
	return nil
}

func (t *Texture) BlendMode() (driver.BlendMode, error) {
	if t.img == nil {
		return 0, errors.New("invalid texture")
	}
	return t.blend, nil
}

func (t *Texture) SetColorMod(r, g, b uint8) error {
	if t.img == nil {
		return errors.New("invalid texture")
	}
	t.modR, t.modG, t.modB = r, g, b
	return nil
}

func (t *Texture) ColorMod() (r, g, b uint8, err error) {
	if t.img == nil {
		return 0, 0, 0, errors.New("invalid texture")
	}
	return t.modR, t.modG, t.modB, nil
}

func (t *Texture) SetAlphaMod(a uint8) error {
	if t.img == nil {
		return errors.New("invalid texture")
	}
	t.modA = a
	return nil
}

func (t *Texture) AlphaMod() (uint8, error) {
	if t.img == nil {
		return 0, errors.New("invalid texture")
	}
	return t.modA, nil
}

func (t *Texture) SetScaleMode(m driver.ScaleMode) error {
	if t.img == nil {
		return errors.New("invalid texture")
	}
	t.scale = m
	return nil
}

func (t *Texture) Destroy() {
	t.img = nil
	t.lockBuf = nil
	t.locked = false
}

// at samples the texture at (x, y), clamped to the texture bounds.
//
func (t *Texture) at(x, y int) color.NRGBA {
	b := t.img.Bounds()
	if x < b.Min.X {
		x = b.Min.X
	} else if x >= b.Max.X {
		x = b.Max.X - 1
	}
	if y < b.Min.Y {
		y = b.Min.Y
	} else if y >= b.Max.Y {
		y = b.Max.Y - 1
	}
	return t.img.NRGBAAt(x, y)
}
