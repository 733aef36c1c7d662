package mdl

import (
	"github.com/db47h/mdl/driver"
)

// ScaleMode selects the filtering used when a copy scales a texture.
//
type ScaleMode driver.ScaleMode

const (
	Nearest = ScaleMode(driver.ScaleNearest)
	Linear  = ScaleMode(driver.ScaleLinear)
)

// A Texture wraps a native texture handle. A Texture is created by a
// Renderer and is usable only with that Renderer.
//
type Texture struct {
	h      driver.Texture
	noCopy noCopy
}

// TextureOption is implemented by option functions passed as arguments to
// the texture factory methods of Renderer.
//
type TextureOption interface {
	set(*texCfg)
}

type texCfg struct {
	scale    ScaleMode
	blend    BlendMode
	hasScale bool
	hasBlend bool
}

type texOption func(*texCfg)

func (f texOption) set(cfg *texCfg) {
	f(cfg)
}

// Filter sets the scale mode of the new texture.
//
func Filter(m ScaleMode) TextureOption {
	return texOption(func(cfg *texCfg) {
		cfg.scale = m
		cfg.hasScale = true
	})
}

// Blend sets the blend mode of the new texture.
//
func Blend(bm BlendMode) TextureOption {
	return texOption(func(cfg *texCfg) {
		cfg.blend = bm
		cfg.hasBlend = true
	})
}

func (t *Texture) apply(opts ...TextureOption) error {
	var cfg texCfg
	for _, o := range opts {
		o.set(&cfg)
	}
	if cfg.hasScale {
		if err := t.h.SetScaleMode(driver.ScaleMode(cfg.scale)); err != nil {
			return opErr("SetTextureScaleMode", err)
		}
	}
	if cfg.hasBlend {
		if err := t.h.SetBlendMode(driver.BlendMode(cfg.blend)); err != nil {
			return opErr("SetTextureBlendMode", err)
		}
	}
	return nil
}

// TextureFrom wraps an already acquired native texture handle. It panics if
// h is nil.
//
func TextureFrom(h driver.Texture) *Texture {
	if h == nil {
		panic("mdl: TextureFrom: nil native handle")
	}
	return &Texture{h: h}
}

// Native returns the wrapped native handle without transferring ownership.
// It returns nil on an empty Texture.
//
func (t *Texture) Native() driver.Texture {
	return t.h
}

// Destroy releases the native texture. It is a no-op on an empty Texture.
//
func (t *Texture) Destroy() {
	if t.h == nil {
		return
	}
	t.h.Destroy()
	t.h = nil
}

// Take transfers ownership of src's handle to t, destroying any handle t
// currently owns. After the call src is empty and releases nothing. Taking
// from itself is a no-op.
//
func (t *Texture) Take(src *Texture) {
	if t == src {
		return
	}
	t.Destroy()
	t.h = src.h
	src.h = nil
}

// Detach relinquishes ownership of the native handle and returns it without
// releasing it. The Texture is left empty.
//
func (t *Texture) Detach() driver.Texture {
	h := t.h
	t.h = nil
	return h
}

func (t *Texture) native() driver.Texture {
	if t.h == nil {
		panic("mdl: use of empty Texture")
	}
	return t.h
}

// Query returns the format, access mode and size of the texture.
//
func (t *Texture) Query() (f PixelFormat, access TextureAccess, w, h int, err error) {
	df, da, w, h, err := t.native().Query()
	return PixelFormat(df), TextureAccess(da), w, h, opErr("QueryTexture", err)
}

// Size returns the size of the texture.
//
func (t *Texture) Size() (w, h int, err error) {
	_, _, w, h, err = t.Query()
	return w, h, err
}

// Update replaces the pixels of the rect region with pix, one row every
// pitch bytes, in the texture's own format. A nil rect selects the entire
// texture.
//
func (t *Texture) Update(rect *Rect, pix []byte, pitch int) error {
	r, err := t.resolveRect(rect)
	if err != nil {
		return err
	}
	return opErr("UpdateTexture", t.native().Update(r.Bounds(), pix, pitch))
}

// UpdateSurface replaces the pixels of the rect region with the top-left
// pixels of s. The region is clamped to the size of s, and s is converted
// first if its format differs from the texture's. A nil rect selects the
// entire texture.
//
func (t *Texture) UpdateSurface(rect *Rect, s *Surface) error {
	f, _, tw, th, err := t.native().Query()
	if err != nil {
		return opErr("QueryTexture", err)
	}
	r := Rect{W: tw, H: th}
	if rect != nil {
		r = *rect
	}
	sw, sh := s.native().Size()
	r.W = min(r.W, sw)
	r.H = min(r.H, sh)
	if s.Format() != PixelFormat(f) {
		conv, err := s.Convert(PixelFormat(f))
		if err != nil {
			return err
		}
		defer conv.Free()
		s = conv
	}
	l, err := s.Lock()
	if err != nil {
		return err
	}
	defer l.Unlock()
	return opErr("UpdateTexture", t.native().Update(r.Bounds(), l.Pixels(), l.Pitch()))
}

// Lock locks the rect region for direct write access and returns a handle
// to its pixels. The texture must have been created with AccessStreaming.
// The pixels are write-only: their initial content is undefined and the
// full region must be rewritten before Unlock. A nil rect selects the
// entire texture.
//
func (t *Texture) Lock(rect *Rect) (*TextureLock, error) {
	r, err := t.resolveRect(rect)
	if err != nil {
		return nil, err
	}
	pix, pitch, err := t.native().Lock(r.Bounds())
	if err != nil {
		return nil, opErr("LockTexture", err)
	}
	return &TextureLock{t: t.h, pix: pix, pitch: pitch}, nil
}

func (t *Texture) resolveRect(rect *Rect) (Rect, error) {
	if rect != nil {
		return *rect, nil
	}
	_, _, w, h, err := t.native().Query()
	if err != nil {
		return Rect{}, opErr("QueryTexture", err)
	}
	return Rect{W: w, H: h}, nil
}

func (t *Texture) SetBlendMode(bm BlendMode) error {
	return opErr("SetTextureBlendMode", t.native().SetBlendMode(driver.BlendMode(bm)))
}

func (t *Texture) BlendMode() (BlendMode, error) {
	bm, err := t.native().BlendMode()
	return BlendMode(bm), opErr("GetTextureBlendMode", err)
}

func (t *Texture) SetColorMod(r, g, b uint8) error {
	return opErr("SetTextureColorMod", t.native().SetColorMod(r, g, b))
}

func (t *Texture) ColorMod() (r, g, b uint8, err error) {
	r, g, b, err = t.native().ColorMod()
	return r, g, b, opErr("GetTextureColorMod", err)
}

func (t *Texture) SetAlphaMod(a uint8) error {
	return opErr("SetTextureAlphaMod", t.native().SetAlphaMod(a))
}

func (t *Texture) AlphaMod() (uint8, error) {
	a, err := t.native().AlphaMod()
	return a, opErr("GetTextureAlphaMod", err)
}

func (t *Texture) SetScaleMode(m ScaleMode) error {
	return opErr("SetTextureScaleMode", t.native().SetScaleMode(driver.ScaleMode(m)))
}

// A TextureLock exposes the pixels of a locked texture region. The zero
// value is an unlocked no-op handle.
//
// A lock exclusively borrows its parent texture: the texture must not be
// locked again, drawn from or destroyed while the lock is live. This is not
// checked.
//
type TextureLock struct {
	t      driver.Texture
	pix    []byte
	pitch  int
	noCopy noCopy
}

// Pixels returns the locked pixel region, one row every Pitch bytes. It
// returns nil on an unlocked handle.
//
func (l *TextureLock) Pixels() []byte {
	return l.pix
}

// Pitch returns the row stride of the locked region in bytes.
//
func (l *TextureLock) Pitch() int {
	return l.pitch
}

// Unlock commits the pixels and releases the lock. Exactly one unlock
// reaches the native texture however many times Unlock is called; a no-op
// handle unlocks nothing.
//
func (l *TextureLock) Unlock() {
	if l.t == nil {
		return
	}
	l.t.Unlock()
	l.t = nil
	l.pix = nil
	l.pitch = 0
}

// Take transfers the lock held by src to l, releasing any lock l currently
// holds. After the call src is a no-op handle. Taking from itself is a
// no-op.
//
func (l *TextureLock) Take(src *TextureLock) {
	if l == src {
		return
	}
	l.Unlock()
	l.t, l.pix, l.pitch = src.t, src.pix, src.pitch
	src.t = nil
	src.pix = nil
	src.pitch = 0
}
