package soft

import (
	"image"
	"image/color"
	"math"

	"github.com/pkg/errors"

	"github.com/db47h/mdl/driver"
)

// Renderer draws into an in-memory backbuffer, or into a target texture.
//
// Draw and copy coordinates are scaled by the current scale factors, then
// offset by the viewport origin. The clip rectangle is kept in render
// coordinates and transformed the same way when applied. Present is a
// no-op: the backbuffer is only observable through ReadPixels.
//
type Renderer struct {
	win    *Window
	flags  driver.RendererFlags
	back   *image.NRGBA
	target *Texture

	color color.NRGBA
	blend driver.BlendMode

	vp          image.Rectangle // device pixels
	clip        image.Rectangle // render coordinates
	clipEnabled bool
	sx, sy      float64
	logW, logH  int
}

func newRenderer(win *Window, flags driver.RendererFlags) *Renderer {
	w, h := win.DrawableSize()
	return &Renderer{
		win:   win,
		flags: flags,
		back:  image.NewNRGBA(image.Rect(0, 0, w, h)),
		color: color.NRGBA{A: 0xff},
		vp:    image.Rect(0, 0, w, h),
		sx:    1,
		sy:    1,
	}
}

func (r *Renderer) resize(w, h int) {
	r.back = image.NewNRGBA(image.Rect(0, 0, w, h))
	if r.target == nil {
		r.vp = image.Rect(0, 0, w, h)
	}
}

// canvas returns the pixels of the current target, nil after Destroy.
//
func (r *Renderer) canvas() *image.NRGBA {
	if r.target != nil {
		return r.target.img
	}
	return r.back
}

func (r *Renderer) tx(x int) int { return r.vp.Min.X + int(math.Floor(float64(x)*r.sx)) }
func (r *Renderer) ty(y int) int { return r.vp.Min.Y + int(math.Floor(float64(y)*r.sy)) }

func (r *Renderer) devRect(rc image.Rectangle) image.Rectangle {
	return image.Rect(r.tx(rc.Min.X), r.ty(rc.Min.Y), r.tx(rc.Max.X), r.ty(rc.Max.Y))
}

func (r *Renderer) scaleRect(rc image.Rectangle) image.Rectangle {
	return image.Rect(
		int(math.Floor(float64(rc.Min.X)*r.sx)), int(math.Floor(float64(rc.Min.Y)*r.sy)),
		int(math.Floor(float64(rc.Max.X)*r.sx)), int(math.Floor(float64(rc.Max.Y)*r.sy)))
}

// clipDev returns the drawable device region of the current target.
//
func (r *Renderer) clipDev(img *image.NRGBA) image.Rectangle {
	c := img.Bounds()
	if r.clipEnabled {
		c = c.Intersect(r.devRect(r.clip))
	}
	return c
}

func (r *Renderer) CreateTexture(f driver.PixelFormat, access driver.TextureAccess, w, h int) (driver.Texture, error) {
	return newTexture(f, access, w, h)
}

// CreateTextureFromSurface builds a static texture from the surface
// pixels. A set color key becomes transparency, and the texture blend
// mode defaults to BlendAlpha unless the source is fully opaque.
//
func (r *Renderer) CreateTextureFromSurface(s driver.Surface) (driver.Texture, error) {
	ss, ok := s.(*Surface)
	if !ok {
		return nil, errors.New("surface not owned by this driver")
	}
	if ss.pix == nil {
		return nil, errors.New("invalid surface")
	}
	t, err := newTexture(ss.format, driver.AccessStatic, ss.w, ss.h)
	if err != nil {
		return nil, err
	}
	for y := 0; y < ss.h; y++ {
		for x := 0; x < ss.w; x++ {
			c := ss.at(x, y)
			if ss.hasKey && c.R == ss.key.R && c.G == ss.key.G && c.B == ss.key.B {
				c = color.NRGBA{}
			}
			t.img.SetNRGBA(x, y, c)
		}
	}
	if ss.format != driver.FormatRGB24 || ss.hasKey {
		t.blend = driver.BlendAlpha
	}
	return t, nil
}

// Clear fills the entire target with the draw color, ignoring the
// viewport, the clip rectangle and the blend mode.
//
func (r *Renderer) Clear() error {
	img := r.canvas()
	if img == nil {
		return errors.New("invalid renderer")
	}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = r.color.R
		img.Pix[i+1] = r.color.G
		img.Pix[i+2] = r.color.B
		img.Pix[i+3] = r.color.A
	}
	return nil
}

func (r *Renderer) Present() {}

func (r *Renderer) SetDrawColor(c color.NRGBA) error {
	r.color = c
	return nil
}

func (r *Renderer) DrawColor() (color.NRGBA, error) {
	return r.color, nil
}

func (r *Renderer) SetDrawBlendMode(bm driver.BlendMode) error {
	r.blend = bm
	return nil
}

func (r *Renderer) DrawBlendMode() (driver.BlendMode, error) {
	return r.blend, nil
}

// DrawPoints draws each point as a scale sized block.
//
func (r *Renderer) DrawPoints(pts []image.Point) error {
	img := r.canvas()
	if img == nil {
		return errors.New("invalid renderer")
	}
	clip := r.clipDev(img)
	for _, p := range pts {
		for y := r.ty(p.Y); y < r.ty(p.Y+1); y++ {
			for x := r.tx(p.X); x < r.tx(p.X+1); x++ {
				blendAt(img, x, y, r.color, r.blend, clip)
			}
		}
	}
	return nil
}

// DrawLines draws a polyline connecting consecutive points. Lines are one
// device pixel wide regardless of scale.
//
func (r *Renderer) DrawLines(pts []image.Point) error {
	if len(pts) < 2 {
		return errors.New("at least two points required")
	}
	img := r.canvas()
	if img == nil {
		return errors.New("invalid renderer")
	}
	clip := r.clipDev(img)
	for i := 1; i < len(pts); i++ {
		r.line(img, clip, pts[i-1], pts[i])
	}
	return nil
}

// line rasterizes a segment between the transformed endpoints, inclusive.
//
func (r *Renderer) line(img *image.NRGBA, clip image.Rectangle, p0, p1 image.Point) {
	x0, y0 := r.tx(p0.X), r.ty(p0.Y)
	x1, y1 := r.tx(p1.X), r.ty(p1.Y)
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		blendAt(img, x0, y0, r.color, r.blend, clip)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (r *Renderer) DrawRects(rs []image.Rectangle) error {
	img := r.canvas()
	if img == nil {
		return errors.New("invalid renderer")
	}
	clip := r.clipDev(img)
	for _, rc := range rs {
		dr := r.devRect(rc)
		if dr.Empty() {
			continue
		}
		for x := dr.Min.X; x < dr.Max.X; x++ {
			blendAt(img, x, dr.Min.Y, r.color, r.blend, clip)
			blendAt(img, x, dr.Max.Y-1, r.color, r.blend, clip)
		}
		for y := dr.Min.Y + 1; y < dr.Max.Y-1; y++ {
			blendAt(img, dr.Min.X, y, r.color, r.blend, clip)
			blendAt(img, dr.Max.X-1, y, r.color, r.blend, clip)
		}
	}
	return nil
}

func (r *Renderer) FillRects(rs []image.Rectangle) error {
	img := r.canvas()
	if img == nil {
		return errors.New("invalid renderer")
	}
	clip := r.clipDev(img)
	for _, rc := range rs {
		dr := r.devRect(rc).Intersect(clip)
		for y := dr.Min.Y; y < dr.Max.Y; y++ {
			for x := dr.Min.X; x < dr.Max.X; x++ {
				blendAt(img, x, y, r.color, r.blend, clip)
			}
		}
	}
	return nil
}

// Copy samples the src region of the texture over the transformed dst
// region, mirroring per flip, and composites it through the texture color
// and alpha modulation and blend mode. Sampling is nearest neighbor
// unless the texture scale mode is ScaleLinear.
//
func (r *Renderer) Copy(t driver.Texture, src, dst image.Rectangle, flip driver.Flip) error {
	tex, ok := t.(*Texture)
	if !ok {
		return errors.New("texture not owned by this driver")
	}
	if tex.img == nil {
		return errors.New("invalid texture")
	}
	img := r.canvas()
	if img == nil {
		return errors.New("invalid renderer")
	}
	sr := src.Intersect(tex.img.Bounds())
	if sr.Empty() || dst.Empty() {
		return nil
	}
	dr := r.devRect(dst)
	cr := dr.Intersect(r.clipDev(img))
	for y := cr.Min.Y; y < cr.Max.Y; y++ {
		v := (float64(y-dr.Min.Y) + 0.5) / float64(dr.Dy())
		if flip&driver.FlipVertical != 0 {
			v = 1 - v
		}
		for x := cr.Min.X; x < cr.Max.X; x++ {
			u := (float64(x-dr.Min.X) + 0.5) / float64(dr.Dx())
			if flip&driver.FlipHorizontal != 0 {
				u = 1 - u
			}
			var c color.NRGBA
			if tex.scale == driver.ScaleLinear {
				c = sampleLinear(tex, sr, u, v)
			} else {
				c = sampleNearest(tex, sr, u, v)
			}
			c = modColor(c, tex.modR, tex.modG, tex.modB, tex.modA)
			blendAt(img, x, y, c, tex.blend, cr)
		}
	}
	return nil
}

func sampleNearest(t *Texture, sr image.Rectangle, u, v float64) color.NRGBA {
	x := sr.Min.X + int(u*float64(sr.Dx()))
	y := sr.Min.Y + int(v*float64(sr.Dy()))
	return t.at(clampInt(x, sr.Min.X, sr.Max.X-1), clampInt(y, sr.Min.Y, sr.Max.Y-1))
}

// sampleLinear interpolates the four texels around the sample point,
// clamping at the edges of the source rectangle. Channels interpolate
// independently, alpha included.
//
func sampleLinear(t *Texture, sr image.Rectangle, u, v float64) color.NRGBA {
	fx := float64(sr.Min.X) + u*float64(sr.Dx()) - 0.5
	fy := float64(sr.Min.Y) + v*float64(sr.Dy()) - 0.5
	x0, y0 := int(math.Floor(fx)), int(math.Floor(fy))
	ax, ay := fx-float64(x0), fy-float64(y0)
	get := func(x, y int) color.NRGBA {
		return t.at(clampInt(x, sr.Min.X, sr.Max.X-1), clampInt(y, sr.Min.Y, sr.Max.Y-1))
	}
	c00, c10 := get(x0, y0), get(x0+1, y0)
	c01, c11 := get(x0, y0+1), get(x0+1, y0+1)
	top := lerpColor(c00, c10, ax)
	bot := lerpColor(c01, c11, ax)
	return lerpColor(top, bot, ay)
}

func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-t) + float64(b)*t + 0.5)
	}
	return color.NRGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}

// SetTarget redirects rendering to t, or to the window backbuffer when t
// is nil. The viewport is reset to the full new target and the clip
// rectangle is disabled; the scale factors are kept.
//
func (r *Renderer) SetTarget(t driver.Texture) error {
	if t == nil {
		r.target = nil
		r.vp = r.back.Bounds()
		r.clipEnabled = false
		return nil
	}
	tex, ok := t.(*Texture)
	if !ok {
		return errors.New("texture not owned by this driver")
	}
	if tex.img == nil {
		return errors.New("invalid texture")
	}
	if tex.access != driver.AccessTarget {
		return errors.New("texture not a render target")
	}
	r.target = tex
	r.vp = tex.img.Bounds()
	r.clipEnabled = false
	return nil
}

func (r *Renderer) Target() driver.Texture {
	if r.target == nil {
		return nil
	}
	return r.target
}

func (r *Renderer) SetClipRect(rc image.Rectangle, enable bool) error {
	r.clip = rc
	r.clipEnabled = enable
	return nil
}

func (r *Renderer) ClipRect() (rc image.Rectangle, enabled bool) {
	return r.clip, r.clipEnabled
}

func (r *Renderer) SetViewport(rc image.Rectangle) error {
	img := r.canvas()
	if img == nil {
		return errors.New("invalid renderer")
	}
	if rc.Empty() {
		r.vp = img.Bounds()
		return nil
	}
	r.vp = r.scaleRect(rc)
	return nil
}

func (r *Renderer) Viewport() image.Rectangle {
	return image.Rect(
		int(float64(r.vp.Min.X)/r.sx), int(float64(r.vp.Min.Y)/r.sy),
		int(float64(r.vp.Max.X)/r.sx), int(float64(r.vp.Max.Y)/r.sy))
}

// SetLogicalSize sets a device independent resolution: the scale factors
// and the viewport are adjusted so that a w by h render area maps to the
// largest centered region of the backbuffer with the same aspect ratio.
// A non-positive size restores direct device coordinates.
//
func (r *Renderer) SetLogicalSize(w, h int) error {
	if w <= 0 || h <= 0 {
		r.logW, r.logH = 0, 0
		r.sx, r.sy = 1, 1
		r.vp = r.back.Bounds()
		return nil
	}
	b := r.back.Bounds()
	scale := float64(b.Dx()) / float64(w)
	if s := float64(b.Dy()) / float64(h); s < scale {
		scale = s
	}
	vw, vh := int(float64(w)*scale), int(float64(h)*scale)
	x, y := (b.Dx()-vw)/2, (b.Dy()-vh)/2
	r.sx, r.sy = scale, scale
	r.vp = image.Rect(x, y, x+vw, y+vh)
	r.logW, r.logH = w, h
	return nil
}

func (r *Renderer) LogicalSize() (w, h int) {
	return r.logW, r.logH
}

func (r *Renderer) SetScale(sx, sy float32) error {
	if sx <= 0 || sy <= 0 {
		return errors.Errorf("invalid scale %vx%v", sx, sy)
	}
	r.sx, r.sy = float64(sx), float64(sy)
	return nil
}

func (r *Renderer) Scale() (sx, sy float32) {
	return float32(r.sx), float32(r.sy)
}

func (r *Renderer) OutputSize() (w, h int, err error) {
	img := r.canvas()
	if img == nil {
		return 0, 0, errors.New("invalid renderer")
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}

// ReadPixels copies the region of the current target, offset by the
// viewport origin, into pix converted to format f. The region is clipped
// to the target; rows are written from the top-left of the clipped
// region, pitch bytes apart.
//
func (r *Renderer) ReadPixels(rc image.Rectangle, f driver.PixelFormat, pix []byte, pitch int) error {
	img := r.canvas()
	if img == nil {
		return errors.New("invalid renderer")
	}
	bpp := f.BytesPerPixel()
	if bpp == 0 {
		return errors.Errorf("invalid pixel format %s", f)
	}
	rr := rc.Add(r.vp.Min).Intersect(img.Bounds())
	if rr.Empty() {
		return nil
	}
	if pitch < rr.Dx()*bpp || len(pix) < (rr.Dy()-1)*pitch+rr.Dx()*bpp {
		return errors.New("pixel buffer too small")
	}
	for y := 0; y < rr.Dy(); y++ {
		row := pix[y*pitch:]
		for x := 0; x < rr.Dx(); x++ {
			putPixel(row, x*bpp, f, img.NRGBAAt(rr.Min.X+x, rr.Min.Y+y))
		}
	}
	return nil
}

func (r *Renderer) Destroy() {
	if r.win != nil && r.win.renderer == r {
		r.win.renderer = nil
	}
	r.win = nil
	r.back = nil
	r.target = nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
