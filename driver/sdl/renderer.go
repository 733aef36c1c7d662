// +build sdl2

package sdl

import (
	"image"
	"image/color"
	"unsafe"

	"github.com/pkg/errors"
	sdl2 "github.com/veandco/go-sdl2/sdl"

	"github.com/db47h/mdl/driver"
)

// Renderer wraps an SDL renderer. The draw color, blend mode, target,
// clip, viewport, scale and logical size are shadowed and reported from
// the last value set; the renderer state is initialized to match.
//
type Renderer struct {
	ren *sdl2.Renderer

	color       color.NRGBA
	blend       driver.BlendMode
	target      *Texture
	clip        image.Rectangle
	clipEnabled bool
	vp          image.Rectangle
	hasVp       bool
	sx, sy      float32
	logW, logH  int
}

func newRenderer(ren *sdl2.Renderer) *Renderer {
	r := &Renderer{ren: ren, color: color.NRGBA{A: 0xff}, sx: 1, sy: 1}
	_ = ren.SetDrawColor(0, 0, 0, 255)
	_ = ren.SetDrawBlendMode(sdl2.BLENDMODE_NONE)
	return r
}

func textureAccess(a driver.TextureAccess) int {
	switch a {
	case driver.AccessStreaming:
		return sdl2.TEXTUREACCESS_STREAMING
	case driver.AccessTarget:
		return sdl2.TEXTUREACCESS_TARGET
	}
	return sdl2.TEXTUREACCESS_STATIC
}

func (r *Renderer) CreateTexture(f driver.PixelFormat, access driver.TextureAccess, w, h int) (driver.Texture, error) {
	sf, err := pixelFormat(f)
	if err != nil {
		return nil, err
	}
	tex, err := r.ren.CreateTexture(sf, textureAccess(access), int32(w), int32(h))
	if err != nil {
		return nil, err
	}
	return newTexture(tex, f, access, w, h, driver.BlendNone), nil
}

func (r *Renderer) CreateTextureFromSurface(s driver.Surface) (driver.Texture, error) {
	ss, ok := s.(*Surface)
	if !ok {
		return nil, errors.New("surface not owned by this driver")
	}
	tex, err := r.ren.CreateTextureFromSurface(ss.s)
	if err != nil {
		return nil, err
	}
	blend := driver.BlendNone
	if ss.format != driver.FormatRGB24 || ss.hasKey {
		blend = driver.BlendAlpha
	}
	w, h := ss.Size()
	return newTexture(tex, ss.format, driver.AccessStatic, w, h, blend), nil
}

func (r *Renderer) Clear() error {
	return r.ren.Clear()
}

func (r *Renderer) Present() {
	r.ren.Present()
}

func (r *Renderer) SetDrawColor(c color.NRGBA) error {
	if err := r.ren.SetDrawColor(c.R, c.G, c.B, c.A); err != nil {
		return err
	}
	r.color = c
	return nil
}

func (r *Renderer) DrawColor() (color.NRGBA, error) {
	return r.color, nil
}

func (r *Renderer) SetDrawBlendMode(bm driver.BlendMode) error {
	if err := r.ren.SetDrawBlendMode(blendMode(bm)); err != nil {
		return err
	}
	r.blend = bm
	return nil
}

func (r *Renderer) DrawBlendMode() (driver.BlendMode, error) {
	return r.blend, nil
}

func (r *Renderer) DrawPoints(pts []image.Point) error {
	return r.ren.DrawPoints(sdlPoints(pts))
}

func (r *Renderer) DrawLines(pts []image.Point) error {
	return r.ren.DrawLines(sdlPoints(pts))
}

func (r *Renderer) DrawRects(rs []image.Rectangle) error {
	return r.ren.DrawRects(sdlRects(rs))
}

func (r *Renderer) FillRects(rs []image.Rectangle) error {
	return r.ren.FillRects(sdlRects(rs))
}

func (r *Renderer) Copy(t driver.Texture, src, dst image.Rectangle, flip driver.Flip) error {
	tex, ok := t.(*Texture)
	if !ok {
		return errors.New("texture not owned by this driver")
	}
	if flip == driver.FlipNone {
		return r.ren.Copy(tex.tex, rect(src), rect(dst))
	}
	var sf sdl2.RendererFlip = sdl2.FLIP_NONE
	if flip&driver.FlipHorizontal != 0 {
		sf |= sdl2.FLIP_HORIZONTAL
	}
	if flip&driver.FlipVertical != 0 {
		sf |= sdl2.FLIP_VERTICAL
	}
	return r.ren.CopyEx(tex.tex, rect(src), rect(dst), 0, nil, sf)
}

func (r *Renderer) SetTarget(t driver.Texture) error {
	if t == nil {
		if err := r.ren.SetRenderTarget(nil); err != nil {
			return err
		}
		r.target = nil
		return nil
	}
	tex, ok := t.(*Texture)
	if !ok {
		return errors.New("texture not owned by this driver")
	}
	if err := r.ren.SetRenderTarget(tex.tex); err != nil {
		return err
	}
	r.target = tex
	return nil
}

func (r *Renderer) Target() driver.Texture {
	if r.target == nil {
		return nil
	}
	return r.target
}

func (r *Renderer) SetClipRect(rc image.Rectangle, enable bool) error {
	var err error
	if enable {
		err = r.ren.SetClipRect(rect(rc))
	} else {
		err = r.ren.SetClipRect(nil)
	}
	if err != nil {
		return err
	}
	r.clip, r.clipEnabled = rc, enable
	return nil
}

func (r *Renderer) ClipRect() (rc image.Rectangle, enabled bool) {
	return r.clip, r.clipEnabled
}

func (r *Renderer) SetViewport(rc image.Rectangle) error {
	var err error
	if rc.Empty() {
		err = r.ren.SetViewport(nil)
	} else {
		err = r.ren.SetViewport(rect(rc))
	}
	if err != nil {
		return err
	}
	r.vp, r.hasVp = rc, !rc.Empty()
	return nil
}

func (r *Renderer) Viewport() image.Rectangle {
	if !r.hasVp {
		w, h, err := r.OutputSize()
		if err != nil {
			return image.Rectangle{}
		}
		return image.Rect(0, 0, w, h)
	}
	return r.vp
}

func (r *Renderer) SetLogicalSize(w, h int) error {
	if err := r.ren.SetLogicalSize(int32(w), int32(h)); err != nil {
		return err
	}
	r.logW, r.logH = w, h
	return nil
}

func (r *Renderer) LogicalSize() (w, h int) {
	return r.logW, r.logH
}

func (r *Renderer) SetScale(sx, sy float32) error {
	if err := r.ren.SetScale(sx, sy); err != nil {
		return err
	}
	r.sx, r.sy = sx, sy
	return nil
}

func (r *Renderer) Scale() (sx, sy float32) {
	return r.sx, r.sy
}

func (r *Renderer) OutputSize() (w, h int, err error) {
	ow, oh, err := r.ren.GetOutputSize()
	return int(ow), int(oh), err
}

func (r *Renderer) ReadPixels(rc image.Rectangle, f driver.PixelFormat, pix []byte, pitch int) error {
	sf, err := pixelFormat(f)
	if err != nil {
		return err
	}
	if len(pix) == 0 {
		return errors.New("pixel buffer too small")
	}
	return r.ren.ReadPixels(rect(rc), sf, unsafe.Pointer(&pix[0]), pitch)
}

func (r *Renderer) Destroy() {
	_ = r.ren.Destroy()
}

func sdlPoints(pts []image.Point) []sdl2.Point {
	sp := make([]sdl2.Point, len(pts))
	for i, p := range pts {
		sp[i] = sdl2.Point{X: int32(p.X), Y: int32(p.Y)}
	}
	return sp
}

func sdlRects(rs []image.Rectangle) []sdl2.Rect {
	sr := make([]sdl2.Rect, len(rs))
	for i, r := range rs {
		sr[i] = *rect(r)
	}
	return sr
}
