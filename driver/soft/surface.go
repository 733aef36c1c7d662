package soft

import (
	"image"
	"image/color"

	"github.com/pkg/errors"

	"github.com/db47h/mdl/driver"
)

// Surface is an in-memory pixel buffer in its declared format.
//
type Surface struct {
	pix    []byte
	w, h   int
	pitch  int
	format driver.PixelFormat

	clip   image.Rectangle
	key    color.NRGBA
	hasKey bool
	blend  driver.BlendMode
	modA   uint8
	modR   uint8
	modG   uint8
	modB   uint8
	locked int
}

func newSurface(pix []byte, w, h, pitch int, f driver.PixelFormat) *Surface {
	return &Surface{
		pix:    pix,
		w:      w,
		h:      h,
		pitch:  pitch,
		format: f,
		clip:   image.Rect(0, 0, w, h),
		blend:  driver.BlendAlpha,
		modA:   0xff,
		modR:   0xff,
		modG:   0xff,
		modB:   0xff,
	}
}

func (s *Surface) Size() (w, h int)           { return s.w, s.h }
func (s *Surface) Format() driver.PixelFormat { return s.format }
func (s *Surface) Pitch() int                 { return s.pitch }
func (s *Surface) bounds() image.Rectangle    { return image.Rect(0, 0, s.w, s.h) }

// Lock returns the surface pixels for direct access. Locks nest; the
// buffer stays valid until the surface is freed.
//
func (s *Surface) Lock() (pix []byte, pitch int, err error) {
	if s.pix == nil {
		return nil, 0, errors.New("invalid surface")
	}
	s.locked++
	return s.pix, s.pitch, nil
}

func (s *Surface) Unlock() {
	if s.locked > 0 {
		s.locked--
	}
}

func (s *Surface) at(x, y int) color.NRGBA {
	return getPixel(s.pix, y*s.pitch+x*s.format.BytesPerPixel(), s.format)
}

func (s *Surface) put(x, y int, c color.NRGBA) {
	putPixel(s.pix, y*s.pitch+x*s.format.BytesPerPixel(), s.format, c)
}

// Convert returns a copy of the surface in format f, carrying over the
// color key, blend mode and modulation.
//
func (s *Surface) Convert(f driver.PixelFormat) (driver.Surface, error) {
	if s.pix == nil {
		return nil, errors.New("invalid surface")
	}
	bpp := f.BytesPerPixel()
	if bpp == 0 {
		return nil, errors.Errorf("invalid pixel format %s", f)
	}
	d := newSurface(make([]byte, s.h*s.w*bpp), s.w, s.h, s.w*bpp, f)
	for y := 0; y < s.h; y++ {
		for x := 0; x < s.w; x++ {
			d.put(x, y, s.at(x, y))
		}
	}
	d.clip = s.clip
	d.key, d.hasKey = s.key, s.hasKey
	d.blend = s.blend
	d.modA, d.modR, d.modG, d.modB = s.modA, s.modR, s.modG, s.modB
	return d, nil
}

// Blit copies the src region to dst with its top-left corner at dstPos,
// clipped by the destination clip rectangle and honoring the source color
// key, blend mode and modulation.
//
func (s *Surface) Blit(src image.Rectangle, dst driver.Surface, dstPos image.Point) error {
	d, ok := dst.(*Surface)
	if !ok {
		return errors.New("surface not owned by this driver")
	}
	if s.pix == nil || d.pix == nil {
		return errors.New("invalid surface")
	}
	sr := src.Intersect(s.bounds())
	// shift the destination by the amount cropped off the source origin
	dstPos = dstPos.Add(sr.Min.Sub(src.Min))
	dr := image.Rectangle{Min: dstPos, Max: dstPos.Add(sr.Size())}
	cdr := dr.Intersect(d.clip).Intersect(d.bounds())
	if cdr.Empty() {
		return nil
	}
	off := sr.Min.Sub(dr.Min)
	for y := cdr.Min.Y; y < cdr.Max.Y; y++ {
		for x := cdr.Min.X; x < cdr.Max.X; x++ {
			s.blitPixel(d, x, y, s.at(x+off.X, y+off.Y))
		}
	}
	return nil
}

// BlitScaled copies the src region scaled to the dstRect region of dst
// using nearest neighbor sampling, through the same pixel pipeline as
// Blit.
//
func (s *Surface) BlitScaled(src image.Rectangle, dst driver.Surface, dstRect image.Rectangle) error {
	d, ok := dst.(*Surface)
	if !ok {
		return errors.New("surface not owned by this driver")
	}
	if s.pix == nil || d.pix == nil {
		return errors.New("invalid surface")
	}
	sr := src.Intersect(s.bounds())
	if sr.Empty() || dstRect.Empty() {
		return nil
	}
	cdr := dstRect.Intersect(d.clip).Intersect(d.bounds())
	for y := cdr.Min.Y; y < cdr.Max.Y; y++ {
		sy := sr.Min.Y + (y-dstRect.Min.Y)*sr.Dy()/dstRect.Dy()
		for x := cdr.Min.X; x < cdr.Max.X; x++ {
			sx := sr.Min.X + (x-dstRect.Min.X)*sr.Dx()/dstRect.Dx()
			s.blitPixel(d, x, y, s.at(sx, sy))
		}
	}
	return nil
}

// blitPixel runs one source pixel through the color key, modulation and
// blend stages and writes the result to dst at (x, y).
//
func (s *Surface) blitPixel(dst *Surface, x, y int, c color.NRGBA) {
	if s.hasKey && c.R == s.key.R && c.G == s.key.G && c.B == s.key.B {
		return
	}
	c = modColor(c, s.modR, s.modG, s.modB, s.modA)
	dst.put(x, y, blend(dst.at(x, y), c, s.blend))
}

// FillRect fills the region with a color without blending, clipped by the
// surface clip rectangle.
//
func (s *Surface) FillRect(r image.Rectangle, c color.NRGBA) error {
	if s.pix == nil {
		return errors.New("invalid surface")
	}
	cr := r.Intersect(s.clip).Intersect(s.bounds())
	for y := cr.Min.Y; y < cr.Max.Y; y++ {
		for x := cr.Min.X; x < cr.Max.X; x++ {
			s.put(x, y, c)
		}
	}
	return nil
}

// SetClipRect sets the clip rectangle to the intersection of r with the
// surface bounds and reports whether that intersection is non-empty.
//
func (s *Surface) SetClipRect(r image.Rectangle) bool {
	s.clip = r.Intersect(s.bounds())
	return !s.clip.Empty()
}

func (s *Surface) ClipRect() image.Rectangle { return s.clip }

func (s *Surface) SetColorKey(enable bool, c color.NRGBA) error {
	if s.pix == nil {
		return errors.New("invalid surface")
	}
	s.key, s.hasKey = c, enable
	return nil
}

func (s *Surface) ColorKey() (c color.NRGBA, enabled bool, err error) {
	if s.pix == nil {
		return color.NRGBA{}, false, errors.New("invalid surface")
	}
	return s.key, s.hasKey, nil
}

func (s *Surface) SetBlendMode(bm driver.BlendMode) error {
	if s.pix == nil {
		return errors.New("invalid surface")
	}
	s.blend = bm
	return nil
}

func (s *Surface) BlendMode() (driver.BlendMode, error) {
	if s.pix == nil {
		return 0, errors.New("invalid surface")
	}
	return s.blend, nil
}

func (s *Surface) SetAlphaMod(a uint8) error {
	if s.pix == nil {
		return errors.New("invalid surface")
	}
	s.modA = a
	return nil
}

func (s *Surface) AlphaMod() (uint8, error) {
	if s.pix == nil {
		return 0, errors.New("invalid surface")
	}
	return s.modA, nil
}

func (s *Surface) SetColorMod(r, g, b uint8) error {
	if s.pix == nil {
		return errors.New("invalid surface")
	}
	s.modR, s.modG, s.modB = r, g, b
	return nil
}

func (s *Surface) ColorMod() (r, g, b uint8, err error) {
	if s.pix == nil {
		return 0, 0, 0, errors.New("invalid surface")
	}
	return s.modR, s.modG, s.modB, nil
}

func (s *Surface) Free() {
	s.pix = nil
}
