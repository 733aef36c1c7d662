// +build sdl2

package sdl

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
	sdl2 "github.com/veandco/go-sdl2/sdl"

	"github.com/db47h/mdl/driver"
)

// Surface wraps an SDL surface. The color key, blend mode and modulation
// are shadowed; pix keeps a caller supplied buffer alive when the surface
// was built around one.
//
type Surface struct {
	s      *sdl2.Surface
	format driver.PixelFormat
	pix    []byte

	clip             image.Rectangle
	key              color.NRGBA
	hasKey           bool
	blend            driver.BlendMode
	modR, modG, modB uint8
	modA             uint8
}

func newSurface(s *sdl2.Surface, f driver.PixelFormat, pix []byte) *Surface {
	return &Surface{
		s:      s,
		format: f,
		pix:    pix,
		clip:   image.Rect(0, 0, int(s.W), int(s.H)),
		blend:  driver.BlendAlpha,
		modR:   0xff, modG: 0xff, modB: 0xff,
		modA: 0xff,
	}
}

func (s *Surface) Size() (w, h int) {
	return int(s.s.W), int(s.s.H)
}

func (s *Surface) Format() driver.PixelFormat {
	return s.format
}

func (s *Surface) Pitch() int {
	return int(s.s.Pitch)
}

func (s *Surface) Lock() (pix []byte, pitch int, err error) {
	if err := s.s.Lock(); err != nil {
		return nil, 0, err
	}
	return s.s.Pixels(), int(s.s.Pitch), nil
}

func (s *Surface) Unlock() {
	s.s.Unlock()
}

func (s *Surface) Convert(f driver.PixelFormat) (driver.Surface, error) {
	sf, err := pixelFormat(f)
	if err != nil {
		return nil, err
	}
	cs, err := s.s.ConvertFormat(sf, 0)
	if err != nil {
		return nil, err
	}
	ns := newSurface(cs, f, nil)
	ns.key, ns.hasKey = s.key, s.hasKey
	ns.blend = s.blend
	ns.modA, ns.modR, ns.modG, ns.modB = s.modA, s.modR, s.modG, s.modB
	return ns, nil
}

func (s *Surface) Blit(src image.Rectangle, dst driver.Surface, dstPos image.Point) error {
	ds, ok := dst.(*Surface)
	if !ok {
		return errors.New("surface not owned by this driver")
	}
	return s.s.Blit(rect(src), ds.s, &sdl2.Rect{X: int32(dstPos.X), Y: int32(dstPos.Y)})
}

func (s *Surface) BlitScaled(src image.Rectangle, dst driver.Surface, dstRect image.Rectangle) error {
	ds, ok := dst.(*Surface)
	if !ok {
		return errors.New("surface not owned by this driver")
	}
	return s.s.BlitScaled(rect(src), ds.s, rect(dstRect))
}

func (s *Surface) FillRect(r image.Rectangle, c color.NRGBA) error {
	return s.s.FillRect(rect(r), sdl2.MapRGBA(s.s.Format, c.R, c.G, c.B, c.A))
}

func (s *Surface) SetClipRect(r image.Rectangle) bool {
	ok := s.s.SetClipRect(rect(r))
	w, h := s.Size()
	s.clip = r.Intersect(image.Rect(0, 0, w, h))
	return ok
}

func (s *Surface) ClipRect() image.Rectangle {
	return s.clip
}

func (s *Surface) SetColorKey(enable bool, c color.NRGBA) error {
	if err := s.s.SetColorKey(enable, sdl2.MapRGBA(s.s.Format, c.R, c.G, c.B, c.A)); err != nil {
		return err
	}
	s.key, s.hasKey = c, enable
	return nil
}

func (s *Surface) ColorKey() (c color.NRGBA, enabled bool, err error) {
	return s.key, s.hasKey, nil
}

func (s *Surface) SetBlendMode(bm driver.BlendMode) error {
	if err := s.s.SetBlendMode(blendMode(bm)); err != nil {
		return err
	}
	s.blend = bm
	return nil
}

func (s *Surface) BlendMode() (driver.BlendMode, error) {
	return s.blend, nil
}

func (s *Surface) SetAlphaMod(a uint8) error {
	if err := s.s.SetAlphaMod(a); err != nil {
		return err
	}
	s.modA = a
	return nil
}

func (s *Surface) AlphaMod() (uint8, error) {
	return s.modA, nil
}

func (s *Surface) SetColorMod(r, g, b uint8) error {
	if err := s.s.SetColorMod(r, g, b); err != nil {
		return err
	}
	s.modR, s.modG, s.modB = r, g, b
	return nil
}

func (s *Surface) ColorMod() (r, g, b uint8, err error) {
	return s.modR, s.modG, s.modB, nil
}

func (s *Surface) Free() {
	s.s.Free()
	s.pix = nil
}
