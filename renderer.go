package mdl

import (
	"image"
	"image/color"
	"io"
	"os"

	"github.com/db47h/mdl/driver"
	"github.com/pkg/errors"
)

// BlendMode selects how copy and draw operations are composited onto the
// render target.
//
type BlendMode driver.BlendMode

const (
	BlendNone  = BlendMode(driver.BlendNone)
	BlendAlpha = BlendMode(driver.BlendAlpha)
	BlendAdd   = BlendMode(driver.BlendAdd)
	BlendMod   = BlendMode(driver.BlendMod)
)

// Flip is a bit set selecting source mirroring in copy operations.
//
type Flip driver.Flip

const (
	FlipNone       = Flip(driver.FlipNone)
	FlipHorizontal = Flip(driver.FlipHorizontal)
	FlipVertical   = Flip(driver.FlipVertical)
)

// A Renderer wraps a native 2D rendering context. A Renderer is bound to the
// window it was created for during its entire lifetime; textures created
// through it are usable only with it.
//
type Renderer struct {
	l      *Lib
	h      driver.Renderer
	target *Texture
	noCopy noCopy
}

// RendererOption is implemented by option functions passed as arguments to
// CreateRenderer.
//
type RendererOption interface {
	set(*rdrCfg)
}

type rdrCfg struct {
	flags driver.RendererFlags
}

type rdrOption func(*rdrCfg)

func (f rdrOption) set(cfg *rdrCfg) {
	f(cfg)
}

// Accelerated requests a hardware accelerated renderer.
//
func Accelerated() RendererOption {
	return rdrOption(func(cfg *rdrCfg) {
		cfg.flags |= driver.RendererAccelerated
	})
}

// Software requests a software renderer.
//
func Software() RendererOption {
	return rdrOption(func(cfg *rdrCfg) {
		cfg.flags |= driver.RendererSoftware
	})
}

// PresentVSync synchronizes Present with the display refresh rate.
//
func PresentVSync() RendererOption {
	return rdrOption(func(cfg *rdrCfg) {
		cfg.flags |= driver.RendererPresentVSync
	})
}

// TargetTexture requests support for render-to-texture.
//
func TargetTexture() RendererOption {
	return rdrOption(func(cfg *rdrCfg) {
		cfg.flags |= driver.RendererTargetTexture
	})
}

// CreateRenderer creates a renderer bound to w.
//
func (l *Lib) CreateRenderer(w *Window, opts ...RendererOption) (*Renderer, error) {
	var cfg rdrCfg
	for _, o := range opts {
		o.set(&cfg)
	}
	h, err := l.driver().CreateRenderer(w.native(), cfg.flags)
	if err != nil {
		return nil, acquireErr("CreateRenderer", err)
	}
	return &Renderer{l: l, h: h}, nil
}

// RendererFrom wraps an already acquired native renderer handle. It panics
// if h is nil.
//
func RendererFrom(l *Lib, h driver.Renderer) *Renderer {
	if h == nil {
		panic("mdl: RendererFrom: nil native handle")
	}
	return &Renderer{l: l, h: h}
}

// Native returns the wrapped native handle without transferring ownership.
// It returns nil on an empty Renderer.
//
func (r *Renderer) Native() driver.Renderer {
	return r.h
}

// Destroy releases the native renderer. It is a no-op on an empty Renderer.
//
func (r *Renderer) Destroy() {
	if r.h == nil {
		return
	}
	r.h.Destroy()
	r.h = nil
	r.target = nil
}

// Take transfers ownership of src's handle to r, destroying any handle r
// currently owns. After the call src is empty and releases nothing. Taking
// from itself is a no-op.
//
func (r *Renderer) Take(src *Renderer) {
	if r == src {
		return
	}
	r.Destroy()
	r.l, r.h, r.target = src.l, src.h, src.target
	src.h = nil
	src.target = nil
}

// Detach relinquishes ownership of the native handle and returns it without
// releasing it. The Renderer is left empty.
//
func (r *Renderer) Detach() driver.Renderer {
	h := r.h
	r.h = nil
	r.target = nil
	return h
}

func (r *Renderer) native() driver.Renderer {
	if r.h == nil {
		panic("mdl: use of empty Renderer")
	}
	return r.h
}

// CreateTexture creates a texture of the given format, access mode and size.
//
func (r *Renderer) CreateTexture(f PixelFormat, access TextureAccess, w, h int, opts ...TextureOption) (*Texture, error) {
	th, err := r.native().CreateTexture(driver.PixelFormat(f), driver.TextureAccess(access), w, h)
	if err != nil {
		return nil, acquireErr("CreateTexture", err)
	}
	t := &Texture{h: th}
	if err := t.apply(opts...); err != nil {
		t.Destroy()
		return nil, err
	}
	return t, nil
}

// CreateTextureFromSurface creates a static texture from the pixels of s.
//
func (r *Renderer) CreateTextureFromSurface(s *Surface, opts ...TextureOption) (*Texture, error) {
	th, err := r.native().CreateTextureFromSurface(s.native())
	if err != nil {
		return nil, acquireErr("CreateTextureFromSurface", err)
	}
	t := &Texture{h: th}
	if err := t.apply(opts...); err != nil {
		t.Destroy()
		return nil, err
	}
	return t, nil
}

// LoadTexture creates a static texture from an image stream (PNG, JPEG or
// BMP).
//
func (r *Renderer) LoadTexture(rd io.Reader, opts ...TextureOption) (*Texture, error) {
	s, err := r.l.LoadSurface(rd)
	if err != nil {
		return nil, err
	}
	defer s.Free()
	return r.CreateTextureFromSurface(s, opts...)
}

// LoadTextureFile creates a static texture from an image file.
//
func (r *Renderer) LoadTextureFile(path string, opts ...TextureOption) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return r.LoadTexture(f, opts...)
}

// Present flips the backbuffer to the screen. Present has no failure path.
//
func (r *Renderer) Present() {
	r.native().Present()
}

// Clear fills the render target with the current draw color.
//
func (r *Renderer) Clear() error {
	return opErr("RenderClear", r.native().Clear())
}

func (r *Renderer) SetDrawColor(c color.NRGBA) error {
	return opErr("SetRenderDrawColor", r.native().SetDrawColor(c))
}

func (r *Renderer) DrawColor() (color.NRGBA, error) {
	c, err := r.native().DrawColor()
	return c, opErr("GetRenderDrawColor", err)
}

func (r *Renderer) SetDrawBlendMode(bm BlendMode) error {
	return opErr("SetRenderDrawBlendMode", r.native().SetDrawBlendMode(driver.BlendMode(bm)))
}

func (r *Renderer) DrawBlendMode() (BlendMode, error) {
	bm, err := r.native().DrawBlendMode()
	return BlendMode(bm), opErr("GetRenderDrawBlendMode", err)
}

func (r *Renderer) DrawPoint(p Point) error {
	return opErr("RenderDrawPoints", r.native().DrawPoints([]image.Point{p.Image()}))
}

func (r *Renderer) DrawPoints(pts []Point) error {
	return opErr("RenderDrawPoints", r.native().DrawPoints(imagePoints(pts)))
}

func (r *Renderer) DrawLine(p1, p2 Point) error {
	return opErr("RenderDrawLines", r.native().DrawLines([]image.Point{p1.Image(), p2.Image()}))
}

// DrawLines draws a connected series of lines through the given points.
//
func (r *Renderer) DrawLines(pts []Point) error {
	return opErr("RenderDrawLines", r.native().DrawLines(imagePoints(pts)))
}

func (r *Renderer) DrawRect(rect Rect) error {
	return opErr("RenderDrawRects", r.native().DrawRects([]image.Rectangle{rect.Bounds()}))
}

// DrawRectCoords draws the outline of the rectangle with opposite corners
// (x1,y1) and (x2,y2), both corners included.
//
func (r *Renderer) DrawRectCoords(x1, y1, x2, y2 int) error {
	return r.DrawRect(Rect{x1, y1, x2 - x1 + 1, y2 - y1 + 1})
}

func (r *Renderer) DrawRects(rects []Rect) error {
	return opErr("RenderDrawRects", r.native().DrawRects(imageRects(rects)))
}

func (r *Renderer) FillRect(rect Rect) error {
	return opErr("RenderFillRects", r.native().FillRects([]image.Rectangle{rect.Bounds()}))
}

func (r *Renderer) FillRects(rects []Rect) error {
	return opErr("RenderFillRects", r.native().FillRects(imageRects(rects)))
}

// Copy copies src from the texture to dst on the current render target,
// scaling as needed. A nil src selects the entire texture, a nil dst the
// entire target.
//
func (r *Renderer) Copy(t *Texture, src, dst *Rect) error {
	return r.copy(t, src, dst, FlipNone)
}

// CopyFlip is Copy with the source mirrored per flip.
//
func (r *Renderer) CopyFlip(t *Texture, src, dst *Rect, flip Flip) error {
	return r.copy(t, src, dst, flip)
}

func (r *Renderer) copy(t *Texture, src, dst *Rect, flip Flip) error {
	sr, err := r.resolveSrc(t, src)
	if err != nil {
		return err
	}
	dr, err := r.resolveDst(dst)
	if err != nil {
		return err
	}
	return opErr("RenderCopy", r.native().Copy(t.native(), sr.Bounds(), dr.Bounds(), driver.Flip(flip)))
}

// FillCopy fills dst with repeated copies of the src region of the texture,
// laid out as a regular tiling. offset displaces the tiling phase relative
// to the origin of dst and may be any integer value; edge tiles are clipped,
// not stretched. flip mirrors the sampled source of every tile.
//
// A nil src selects the entire texture and a nil dst the entire render
// target. The source region must have positive extent.
//
// Tiles are emitted row by row, left to right. The first tile copy that
// fails aborts the fill; already emitted tiles remain on the target.
//
func (r *Renderer) FillCopy(t *Texture, src, dst *Rect, offset Point, flip Flip) error {
	sr, err := r.resolveSrc(t, src)
	if err != nil {
		return err
	}
	dr, err := r.resolveDst(dst)
	if err != nil {
		return err
	}
	if sr.W <= 0 || sr.H <= 0 {
		return opErr("FillCopy", errors.New("source tile has non-positive extent"))
	}

	rh, th := r.native(), t.native()

	// Position the start tile so that it is the leftmost/topmost tile still
	// overlapping or preceding the origin of dst, whatever the sign or
	// magnitude of the requested offset.
	tile := Rect{X: offset.X, Y: offset.Y, W: sr.W, H: sr.H}
	if tile.X+tile.W <= 0 {
		tile.X += -tile.X / tile.W * tile.W
	} else if tile.X > 0 {
		tile.X -= (tile.X + tile.W - 1) / tile.W * tile.W
	}
	if tile.Y+tile.H <= 0 {
		tile.Y += -tile.Y / tile.H * tile.H
	} else if tile.Y > 0 {
		tile.Y -= (tile.Y + tile.H - 1) / tile.H * tile.H
	}

	for y := tile.Y; y < dr.H; y += tile.H {
		for x := tile.X; x < dr.W; x += tile.W {
			tileSrc := sr
			tileDst := Rect{X: x, Y: y, W: tile.W, H: tile.H}

			// Crop the parts hanging out of dst. Cropping the left and top
			// edges shifts the origins; cropping the right and bottom edges
			// only shrinks the extents.
			if under := -x; under > 0 {
				tileSrc.W -= under
				tileSrc.X += under
				tileDst.W -= under
				tileDst.X += under
			}
			if under := -y; under > 0 {
				tileSrc.H -= under
				tileSrc.Y += under
				tileDst.H -= under
				tileDst.Y += under
			}
			if over := tileDst.X + tileDst.W - dr.W; over > 0 {
				tileSrc.W -= over
				tileDst.W -= over
			}
			if over := tileDst.Y + tileDst.H - dr.H; over > 0 {
				tileSrc.H -= over
				tileDst.H -= over
			}
			if tileDst.W <= 0 || tileDst.H <= 0 {
				// fully clipped edge tile
				continue
			}

			tileDst.X += dr.X
			tileDst.Y += dr.Y

			// Mirror the sampled region inside src before copying, so that
			// clipped tiles sample the visually correct edge of the source.
			if flip&FlipHorizontal != 0 {
				tileSrc.X = sr.X + sr.W - (tileSrc.X - sr.X) - tileSrc.W
			}
			if flip&FlipVertical != 0 {
				tileSrc.Y = sr.Y + sr.H - (tileSrc.Y - sr.Y) - tileSrc.H
			}

			if err := rh.Copy(th, tileSrc.Bounds(), tileDst.Bounds(), driver.Flip(flip)); err != nil {
				return opErr("RenderCopy", err)
			}
		}
	}
	return nil
}

func (r *Renderer) resolveSrc(t *Texture, src *Rect) (Rect, error) {
	if src != nil {
		return *src, nil
	}
	_, _, w, h, err := t.native().Query()
	if err != nil {
		return Rect{}, opErr("QueryTexture", err)
	}
	return Rect{W: w, H: h}, nil
}

func (r *Renderer) resolveDst(dst *Rect) (Rect, error) {
	if dst != nil {
		return *dst, nil
	}
	w, h, err := r.native().OutputSize()
	if err != nil {
		return Rect{}, opErr("GetRendererOutputSize", err)
	}
	return Rect{W: w, H: h}, nil
}

// SetTarget redirects rendering to the given texture, which must have been
// created with AccessTarget. A nil target restores rendering to the window
// backbuffer.
//
func (r *Renderer) SetTarget(t *Texture) error {
	var th driver.Texture
	if t != nil {
		th = t.native()
	}
	if err := r.native().SetTarget(th); err != nil {
		return opErr("SetRenderTarget", err)
	}
	r.target = t
	return nil
}

// Target returns the current render target, or nil when rendering to the
// window backbuffer.
//
func (r *Renderer) Target() *Texture {
	return r.target
}

// SetClipRect restricts drawing to rect. A nil rect disables clipping.
//
func (r *Renderer) SetClipRect(rect *Rect) error {
	if rect == nil {
		return opErr("RenderSetClipRect", r.native().SetClipRect(image.Rectangle{}, false))
	}
	return opErr("RenderSetClipRect", r.native().SetClipRect(rect.Bounds(), true))
}

// ClipRect returns the current clip rectangle and whether clipping is
// enabled.
//
func (r *Renderer) ClipRect() (Rect, bool) {
	cr, ok := r.native().ClipRect()
	return RectOf(cr), ok
}

func (r *Renderer) SetViewport(rect Rect) error {
	return opErr("RenderSetViewport", r.native().SetViewport(rect.Bounds()))
}

func (r *Renderer) Viewport() Rect {
	return RectOf(r.native().Viewport())
}

// SetLogicalSize makes the render target appear as w x h regardless of its
// actual pixel size by scaling all coordinates accordingly.
//
func (r *Renderer) SetLogicalSize(w, h int) error {
	return opErr("RenderSetLogicalSize", r.native().SetLogicalSize(w, h))
}

func (r *Renderer) LogicalSize() (w, h int) {
	return r.native().LogicalSize()
}

func (r *Renderer) SetScale(sx, sy float32) error {
	return opErr("RenderSetScale", r.native().SetScale(sx, sy))
}

func (r *Renderer) Scale() (sx, sy float32) {
	return r.native().Scale()
}

// OutputSize returns the pixel size of the current render target.
//
func (r *Renderer) OutputSize() (w, h int, err error) {
	w, h, err = r.native().OutputSize()
	return w, h, opErr("GetRendererOutputSize", err)
}

// ReadPixels reads the rect area of the current render target into pix,
// converted to the requested format, one row every pitch bytes. A nil rect
// selects the entire target.
//
func (r *Renderer) ReadPixels(rect *Rect, f PixelFormat, pix []byte, pitch int) error {
	dr, err := r.resolveDst(rect)
	if err != nil {
		return err
	}
	return opErr("RenderReadPixels", r.native().ReadPixels(dr.Bounds(), driver.PixelFormat(f), pix, pitch))
}

func imagePoints(pts []Point) []image.Point {
	ps := make([]image.Point, len(pts))
	for i, p := range pts {
		ps[i] = p.Image()
	}
	return ps
}

func imageRects(rects []Rect) []image.Rectangle {
	rs := make([]image.Rectangle, len(rects))
	for i, r := range rects {
		rs[i] = r.Bounds()
	}
	return rs
}
