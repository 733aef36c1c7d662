package mdl

import (
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"

	"github.com/db47h/mdl/driver"
)

// A Surface wraps a native software pixel buffer.
//
type Surface struct {
	h      driver.Surface
	noCopy noCopy
}

// NewSurface creates a blank surface of the given size and format.
//
func (l *Lib) NewSurface(w, h int, f PixelFormat) (*Surface, error) {
	sh, err := l.driver().NewSurface(w, h, driver.PixelFormat(f))
	if err != nil {
		return nil, acquireErr("CreateSurface", err)
	}
	return &Surface{h: sh}, nil
}

// NewSurfaceFrom creates a surface wrapping the caller supplied pixel
// buffer, one row every pitch bytes. The buffer is not copied and must
// remain valid for the lifetime of the surface.
//
func (l *Lib) NewSurfaceFrom(pix []byte, w, h, pitch int, f PixelFormat) (*Surface, error) {
	sh, err := l.driver().NewSurfaceFrom(pix, w, h, pitch, driver.PixelFormat(f))
	if err != nil {
		return nil, acquireErr("CreateSurfaceFrom", err)
	}
	return &Surface{h: sh}, nil
}

// SurfaceFromImage creates an RGBA8888 surface holding a copy of the pixels
// of img.
//
func (l *Lib) SurfaceFromImage(img image.Image) (*Surface, error) {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return l.NewSurfaceFrom(dst.Pix, b.Dx(), b.Dy(), dst.Stride, FormatRGBA8888)
}

// LoadSurface creates a surface from an image stream (PNG, JPEG or BMP).
//
func (l *Lib) LoadSurface(r io.Reader) (*Surface, error) {
	sh, err := l.driver().LoadSurface(r)
	if err != nil {
		return nil, acquireErr("LoadSurface", err)
	}
	return &Surface{h: sh}, nil
}

// LoadSurfaceFile creates a surface from an image file.
//
func (l *Lib) LoadSurfaceFile(path string) (*Surface, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return l.LoadSurface(f)
}

// SurfaceFrom wraps an already acquired native surface handle. It panics if
// h is nil.
//
func SurfaceFrom(h driver.Surface) *Surface {
	if h == nil {
		panic("mdl: SurfaceFrom: nil native handle")
	}
	return &Surface{h: h}
}

// Native returns the wrapped native handle without transferring ownership.
// It returns nil on an empty Surface.
//
func (s *Surface) Native() driver.Surface {
	return s.h
}

// Free releases the native surface. It is a no-op on an empty Surface.
//
func (s *Surface) Free() {
	if s.h == nil {
		return
	}
	s.h.Free()
	s.h = nil
}

// Take transfers ownership of src's handle to s, freeing any handle s
// currently owns. After the call src is empty and releases nothing. Taking
// from itself is a no-op.
//
func (s *Surface) Take(src *Surface) {
	if s == src {
		return
	}
	s.Free()
	s.h = src.h
	src.h = nil
}

// Detach relinquishes ownership of the native handle and returns it without
// releasing it. The Surface is left empty.
//
func (s *Surface) Detach() driver.Surface {
	h := s.h
	s.h = nil
	return h
}

func (s *Surface) native() driver.Surface {
	if s.h == nil {
		panic("mdl: use of empty Surface")
	}
	return s.h
}

// Size returns the size of the surface.
//
func (s *Surface) Size() (w, h int) {
	return s.native().Size()
}

func (s *Surface) Width() int {
	w, _ := s.native().Size()
	return w
}

func (s *Surface) Height() int {
	_, h := s.native().Size()
	return h
}

func (s *Surface) Format() PixelFormat {
	return PixelFormat(s.native().Format())
}

// Pitch returns the row stride of the surface in bytes.
//
func (s *Surface) Pitch() int {
	return s.native().Pitch()
}

// Lock locks the surface for direct pixel access.
//
func (s *Surface) Lock() (*SurfaceLock, error) {
	pix, pitch, err := s.native().Lock()
	if err != nil {
		return nil, opErr("LockSurface", err)
	}
	return &SurfaceLock{s: s.h, pix: pix, pitch: pitch}, nil
}

// Convert returns a copy of the surface converted to the given format.
//
func (s *Surface) Convert(f PixelFormat) (*Surface, error) {
	sh, err := s.native().Convert(driver.PixelFormat(f))
	if err != nil {
		return nil, opErr("ConvertSurface", err)
	}
	return &Surface{h: sh}, nil
}

// Blit copies the src region of s to dst, placing its top-left corner at
// dstPos. The copy is clipped by the destination clip rectangle and honors
// the source color key, blend mode and color/alpha modulation. A nil src
// selects the entire surface.
//
func (s *Surface) Blit(src *Rect, dst *Surface, dstPos Point) error {
	return opErr("BlitSurface", s.native().Blit(s.srcBounds(src), dst.native(), dstPos.Image()))
}

// BlitScaled copies the src region of s scaled to the dstRect region of
// dst. A nil src selects the entire source surface, a nil dstRect the
// entire destination.
//
func (s *Surface) BlitScaled(src *Rect, dst *Surface, dstRect *Rect) error {
	dr := dstRect
	if dr == nil {
		w, h := dst.native().Size()
		dr = &Rect{W: w, H: h}
	}
	return opErr("BlitScaled", s.native().BlitScaled(s.srcBounds(src), dst.native(), dr.Bounds()))
}

func (s *Surface) srcBounds(src *Rect) image.Rectangle {
	if src != nil {
		return src.Bounds()
	}
	w, h := s.native().Size()
	return image.Rect(0, 0, w, h)
}

// FillRect fills the rect region with a color, without blending. A nil rect
// selects the entire surface.
//
func (s *Surface) FillRect(rect *Rect, c color.NRGBA) error {
	r := rect
	if r == nil {
		w, h := s.native().Size()
		r = &Rect{W: w, H: h}
	}
	return opErr("FillRect", s.native().FillRect(r.Bounds(), c))
}

// FillRects fills each given region with a color.
//
func (s *Surface) FillRects(rects []Rect, c color.NRGBA) error {
	for i := range rects {
		if err := s.native().FillRect(rects[i].Bounds(), c); err != nil {
			return opErr("FillRects", err)
		}
	}
	return nil
}

// SetClipRect sets the clip rectangle applied to blits targeting s, and
// reports whether the rectangle intersects the surface. A nil rect disables
// clipping.
//
func (s *Surface) SetClipRect(rect *Rect) bool {
	if rect == nil {
		w, h := s.native().Size()
		return s.native().SetClipRect(image.Rect(0, 0, w, h))
	}
	return s.native().SetClipRect(rect.Bounds())
}

func (s *Surface) ClipRect() Rect {
	return RectOf(s.native().ClipRect())
}

// SetColorKey makes blits treat pixels of color c as transparent. Passing
// enable false removes the key.
//
func (s *Surface) SetColorKey(enable bool, c color.NRGBA) error {
	return opErr("SetColorKey", s.native().SetColorKey(enable, c))
}

func (s *Surface) ColorKey() (c color.NRGBA, enabled bool, err error) {
	c, enabled, err = s.native().ColorKey()
	return c, enabled, opErr("GetColorKey", err)
}

func (s *Surface) SetBlendMode(bm BlendMode) error {
	return opErr("SetSurfaceBlendMode", s.native().SetBlendMode(driver.BlendMode(bm)))
}

func (s *Surface) BlendMode() (BlendMode, error) {
	bm, err := s.native().BlendMode()
	return BlendMode(bm), opErr("GetSurfaceBlendMode", err)
}

func (s *Surface) SetAlphaMod(a uint8) error {
	return opErr("SetSurfaceAlphaMod", s.native().SetAlphaMod(a))
}

func (s *Surface) AlphaMod() (uint8, error) {
	a, err := s.native().AlphaMod()
	return a, opErr("GetSurfaceAlphaMod", err)
}

func (s *Surface) SetColorMod(r, g, b uint8) error {
	return opErr("SetSurfaceColorMod", s.native().SetColorMod(r, g, b))
}

func (s *Surface) ColorMod() (r, g, b uint8, err error) {
	r, g, b, err = s.native().ColorMod()
	return r, g, b, opErr("GetSurfaceColorMod", err)
}

// A SurfaceLock exposes the pixels of a locked surface. The zero value is
// an unlocked no-op handle.
//
// A lock exclusively borrows its parent surface, which must not be freed
// while the lock is live. This is not checked.
//
type SurfaceLock struct {
	s      driver.Surface
	pix    []byte
	pitch  int
	noCopy noCopy
}

// Pixels returns the surface pixels, one row every Pitch bytes. It returns
// nil on an unlocked handle.
//
func (l *SurfaceLock) Pixels() []byte {
	return l.pix
}

// Pitch returns the row stride of the pixel data in bytes.
//
func (l *SurfaceLock) Pitch() int {
	return l.pitch
}

// Unlock releases the lock. Exactly one unlock reaches the native surface
// however many times Unlock is called; a no-op handle unlocks nothing.
//
func (l *SurfaceLock) Unlock() {
	if l.s == nil {
		return
	}
	l.s.Unlock()
	l.s = nil
	l.pix = nil
	l.pitch = 0
}

// Take transfers the lock held by src to l, releasing any lock l currently
// holds. After the call src is a no-op handle. Taking from itself is a
// no-op.
//
func (l *SurfaceLock) Take(src *SurfaceLock) {
	if l == src {
		return
	}
	l.Unlock()
	l.s, l.pix, l.pitch = src.s, src.pix, src.pitch
	src.s = nil
	src.pix = nil
	src.pitch = 0
}
