package soft

import (
	"image"
	"image/color"
	"testing"

	"github.com/db47h/mdl/driver"
	"github.com/stretchr/testify/assert"
)

var (
	red   = color.NRGBA{R: 0xff, A: 0xff}
	green = color.NRGBA{G: 0xff, A: 0xff}
	blue  = color.NRGBA{B: 0xff, A: 0xff}
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

func newTestRenderer(t *testing.T, w, h int) (*Driver, *Renderer) {
	t.Helper()
	d := newTestDriver(t)
	win := newTestWindow(t, d, w, h)
	r, err := d.CreateRenderer(win, 0)
	if err != nil {
		t.Fatal(err)
	}
	return d, r.(*Renderer)
}

func newStaticTexture(t *testing.T, r *Renderer, w, h int, pix []byte) *Texture {
	t.Helper()
	tex, err := r.CreateTexture(driver.FormatRGBA8888, driver.AccessStatic, w, h)
	if err != nil {
		t.Fatal(err)
	}
	if err := tex.Update(image.Rect(0, 0, w, h), pix, w*4); err != nil {
		t.Fatal(err)
	}
	return tex.(*Texture)
}

func countPixels(img *image.NRGBA, c color.NRGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.NRGBAAt(x, y) == c {
				n++
			}
		}
	}
	return n
}

func TestRenderer_defaults(t *testing.T) {
	_, r := newTestRenderer(t, 8, 6)

	c, err := r.DrawColor()
	assert.NoError(t, err)
	assert.Equal(t, color.NRGBA{A: 0xff}, c)
	bm, err := r.DrawBlendMode()
	assert.NoError(t, err)
	assert.Equal(t, driver.BlendNone, bm)
	sx, sy := r.Scale()
	assert.Equal(t, float32(1), sx)
	assert.Equal(t, float32(1), sy)
	assert.Equal(t, image.Rect(0, 0, 8, 6), r.Viewport())
	_, enabled := r.ClipRect()
	assert.False(t, enabled)
	assert.Nil(t, r.Target())
	w, h, err := r.OutputSize()
	assert.NoError(t, err)
	assert.Equal(t, 8, w)
	assert.Equal(t, 6, h)
	lw, lh := r.LogicalSize()
	assert.Zero(t, lw)
	assert.Zero(t, lh)

	assert.EqualError(t, r.SetScale(0, 1), "invalid scale 0x1")
	r.Present()
}

func TestRenderer_Clear_ignores_state(t *testing.T) {
	_, r := newTestRenderer(t, 4, 4)
	assert.NoError(t, r.SetDrawBlendMode(driver.BlendAlpha))
	assert.NoError(t, r.SetClipRect(image.Rect(0, 0, 1, 1), true))
	assert.NoError(t, r.SetViewport(image.Rect(1, 1, 2, 2)))
	c := color.NRGBA{R: 0xff, A: 0x80}
	assert.NoError(t, r.SetDrawColor(c))
	assert.NoError(t, r.Clear())
	assert.Equal(t, 16, countPixels(r.back, c))
}

func TestRenderer_FillRects_transform(t *testing.T) {
	_, r := newTestRenderer(t, 16, 16)
	assert.NoError(t, r.SetScale(2, 2))
	assert.NoError(t, r.SetViewport(image.Rect(2, 2, 6, 6)))
	r.SetDrawColor(red)
	assert.NoError(t, r.FillRects([]image.Rectangle{image.Rect(0, 0, 2, 2)}))
	assert.Equal(t, red, r.back.NRGBAAt(4, 4))
	assert.Equal(t, red, r.back.NRGBAAt(7, 7))
	assert.Equal(t, color.NRGBA{}, r.back.NRGBAAt(3, 4))
	assert.Equal(t, color.NRGBA{}, r.back.NRGBAAt(8, 4))
	assert.Equal(t, 16, countPixels(r.back, red))

	// the clip rectangle is transformed like draw coordinates
	assert.NoError(t, r.SetClipRect(image.Rect(0, 0, 1, 2), true))
	r.SetDrawColor(blue)
	assert.NoError(t, r.FillRects([]image.Rectangle{image.Rect(0, 0, 2, 2)}))
	assert.Equal(t, blue, r.back.NRGBAAt(4, 4))
	assert.Equal(t, blue, r.back.NRGBAAt(5, 7))
	assert.Equal(t, red, r.back.NRGBAAt(6, 4))
	assert.Equal(t, 8, countPixels(r.back, blue))
	assert.Equal(t, 8, countPixels(r.back, red))
}

func TestRenderer_FillRects_blend(t *testing.T) {
	_, r := newTestRenderer(t, 2, 2)
	r.SetDrawColor(color.NRGBA{R: 100, G: 100, B: 100, A: 0xff})
	assert.NoError(t, r.Clear())
	r.SetDrawColor(color.NRGBA{R: 200, A: 128})
	assert.NoError(t, r.SetDrawBlendMode(driver.BlendAlpha))
	assert.NoError(t, r.FillRects([]image.Rectangle{image.Rect(0, 0, 2, 2)}))
	assert.Equal(t, 4, countPixels(r.back, color.NRGBA{R: 149, G: 49, B: 49, A: 255}))
}

func TestRenderer_DrawPoints_scale_blocks(t *testing.T) {
	_, r := newTestRenderer(t, 8, 8)
	assert.NoError(t, r.SetScale(3, 3))
	r.SetDrawColor(red)
	assert.NoError(t, r.DrawPoints([]image.Point{{0, 0}, {1, 1}}))
	assert.Equal(t, 18, countPixels(r.back, red))
	assert.Equal(t, red, r.back.NRGBAAt(2, 2))
	assert.Equal(t, red, r.back.NRGBAAt(3, 3))
	assert.Equal(t, red, r.back.NRGBAAt(5, 5))
	assert.Equal(t, color.NRGBA{}, r.back.NRGBAAt(2, 3))
	assert.Equal(t, color.NRGBA{}, r.back.NRGBAAt(6, 6))
}

func TestRenderer_DrawLines(t *testing.T) {
	_, r := newTestRenderer(t, 4, 4)
	assert.EqualError(t, r.DrawLines([]image.Point{{0, 0}}), "at least two points required")

	r.SetDrawColor(red)
	assert.NoError(t, r.DrawLines([]image.Point{{0, 0}, {3, 3}}))
	for i := 0; i < 4; i++ {
		assert.Equal(t, red, r.back.NRGBAAt(i, i))
	}
	assert.Equal(t, 4, countPixels(r.back, red))

	_, r = newTestRenderer(t, 4, 4)
	r.SetDrawColor(red)
	assert.NoError(t, r.DrawLines([]image.Point{{0, 0}, {3, 0}, {3, 3}}))
	assert.Equal(t, red, r.back.NRGBAAt(2, 0))
	assert.Equal(t, red, r.back.NRGBAAt(3, 2))
	assert.Equal(t, 7, countPixels(r.back, red))
}

func TestRenderer_DrawRects_outline(t *testing.T) {
	_, r := newTestRenderer(t, 6, 6)
	r.SetDrawColor(red)
	assert.NoError(t, r.DrawRects([]image.Rectangle{image.Rect(1, 1, 5, 5)}))
	assert.Equal(t, 12, countPixels(r.back, red))
	assert.Equal(t, red, r.back.NRGBAAt(1, 1))
	assert.Equal(t, red, r.back.NRGBAAt(4, 4))
	assert.Equal(t, red, r.back.NRGBAAt(1, 4))
	assert.Equal(t, red, r.back.NRGBAAt(4, 1))
	assert.Equal(t, color.NRGBA{}, r.back.NRGBAAt(2, 2))
	assert.Equal(t, color.NRGBA{}, r.back.NRGBAAt(0, 0))
}

func TestRenderer_Copy_nearest(t *testing.T) {
	_, r := newTestRenderer(t, 4, 4)
	tex := newStaticTexture(t, r, 2, 2, []byte{
		0xff, 0, 0, 0xff, 0, 0xff, 0, 0xff,
		0, 0, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	})

	assert.NoError(t, r.Copy(tex, image.Rect(0, 0, 2, 2), image.Rect(0, 0, 4, 4), driver.FlipNone))
	assert.Equal(t, red, r.back.NRGBAAt(0, 0))
	assert.Equal(t, red, r.back.NRGBAAt(1, 1))
	assert.Equal(t, green, r.back.NRGBAAt(2, 0))
	assert.Equal(t, blue, r.back.NRGBAAt(1, 2))
	assert.Equal(t, white, r.back.NRGBAAt(3, 3))

	assert.NoError(t, r.Copy(tex, image.Rect(0, 0, 2, 2), image.Rect(0, 0, 4, 4), driver.FlipHorizontal))
	assert.Equal(t, green, r.back.NRGBAAt(0, 0))
	assert.Equal(t, red, r.back.NRGBAAt(3, 0))
	assert.Equal(t, white, r.back.NRGBAAt(0, 3))
	assert.Equal(t, blue, r.back.NRGBAAt(3, 3))

	assert.NoError(t, r.Copy(tex, image.Rect(0, 0, 2, 2), image.Rect(0, 0, 4, 4), driver.FlipVertical))
	assert.Equal(t, blue, r.back.NRGBAAt(0, 0))
	assert.Equal(t, white, r.back.NRGBAAt(3, 0))
	assert.Equal(t, red, r.back.NRGBAAt(0, 3))
	assert.Equal(t, green, r.back.NRGBAAt(3, 3))

	// a single texel source stretches over the whole destination
	assert.NoError(t, r.Copy(tex, image.Rect(1, 0, 2, 1), image.Rect(0, 0, 4, 4), driver.FlipNone))
	assert.Equal(t, 16, countPixels(r.back, green))
}

func TestRenderer_Copy_linear(t *testing.T) {
	_, r := newTestRenderer(t, 4, 1)
	tex := newStaticTexture(t, r, 2, 1, []byte{
		0, 0, 0, 0xff, 0xff, 0xff, 0xff, 0xff,
	})
	assert.NoError(t, tex.SetScaleMode(driver.ScaleLinear))
	assert.NoError(t, r.Copy(tex, image.Rect(0, 0, 2, 1), image.Rect(0, 0, 4, 1), driver.FlipNone))
	want := []uint8{0, 64, 191, 255}
	for x, v := range want {
		assert.Equal(t, v, r.back.NRGBAAt(x, 0).R, "x=%d", x)
	}
}

func TestRenderer_Copy_mod_blend(t *testing.T) {
	_, r := newTestRenderer(t, 1, 1)
	r.SetDrawColor(color.NRGBA{R: 100, G: 100, B: 100, A: 0xff})
	assert.NoError(t, r.Clear())
	tex := newStaticTexture(t, r, 1, 1, []byte{200, 0, 0, 0xff})
	assert.NoError(t, tex.SetBlendMode(driver.BlendAlpha))
	assert.NoError(t, tex.SetAlphaMod(128))
	assert.NoError(t, r.Copy(tex, image.Rect(0, 0, 1, 1), image.Rect(0, 0, 1, 1), driver.FlipNone))
	assert.Equal(t, color.NRGBA{R: 149, G: 49, B: 49, A: 255}, r.back.NRGBAAt(0, 0))

	_, r = newTestRenderer(t, 1, 1)
	tex = newStaticTexture(t, r, 1, 1, []byte{200, 100, 50, 0xff})
	assert.NoError(t, tex.SetColorMod(128, 0xff, 0xff))
	assert.NoError(t, r.Copy(tex, image.Rect(0, 0, 1, 1), image.Rect(0, 0, 1, 1), driver.FlipNone))
	assert.Equal(t, color.NRGBA{R: 100, G: 100, B: 50, A: 255}, r.back.NRGBAAt(0, 0))
}

func TestRenderer_Copy_guards(t *testing.T) {
	_, r := newTestRenderer(t, 4, 4)
	err := r.Copy(otherTexture{}, image.Rect(0, 0, 1, 1), image.Rect(0, 0, 1, 1), driver.FlipNone)
	assert.EqualError(t, err, "texture not owned by this driver")

	tex := newStaticTexture(t, r, 2, 2, make([]byte, 16))
	assert.NoError(t, r.Copy(tex, image.Rect(5, 5, 8, 8), image.Rect(0, 0, 4, 4), driver.FlipNone))
	assert.NoError(t, r.Copy(tex, image.Rect(0, 0, 2, 2), image.Rectangle{}, driver.FlipNone))
	assert.Equal(t, 16, countPixels(r.back, color.NRGBA{}))

	tex.Destroy()
	err = r.Copy(tex, image.Rect(0, 0, 1, 1), image.Rect(0, 0, 1, 1), driver.FlipNone)
	assert.EqualError(t, err, "invalid texture")
}

func TestRenderer_CreateTextureFromSurface(t *testing.T) {
	d, r := newTestRenderer(t, 4, 4)

	_, err := r.CreateTextureFromSurface(otherSurface{})
	assert.EqualError(t, err, "surface not owned by this driver")

	s, err := d.NewSurface(4, 1, driver.FormatRGBA8888)
	assert.NoError(t, err)
	semi := color.NRGBA{R: 10, G: 20, B: 30, A: 40}
	assert.NoError(t, s.FillRect(image.Rect(0, 0, 1, 1), red))
	assert.NoError(t, s.FillRect(image.Rect(1, 0, 2, 1), color.NRGBA{R: 0xff, B: 0xff, A: 0xff}))
	assert.NoError(t, s.FillRect(image.Rect(2, 0, 3, 1), semi))
	assert.NoError(t, s.FillRect(image.Rect(3, 0, 4, 1), white))
	assert.NoError(t, s.SetColorKey(true, color.NRGBA{R: 0xff, B: 0xff}))

	tt, err := r.CreateTextureFromSurface(s)
	assert.NoError(t, err)
	tex := tt.(*Texture)
	assert.Equal(t, driver.BlendAlpha, tex.blend)
	assert.Equal(t, red, tex.img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{}, tex.img.NRGBAAt(1, 0)) // keyed out
	assert.Equal(t, semi, tex.img.NRGBAAt(2, 0))
	f, access, tw, th, err := tt.Query()
	assert.NoError(t, err)
	assert.Equal(t, driver.FormatRGBA8888, f)
	assert.Equal(t, driver.AccessStatic, access)
	assert.Equal(t, 4, tw)
	assert.Equal(t, 1, th)

	// fully opaque formats keep BlendNone unless a color key is set
	s24, err := d.NewSurface(2, 1, driver.FormatRGB24)
	assert.NoError(t, err)
	tt, err = r.CreateTextureFromSurface(s24)
	assert.NoError(t, err)
	assert.Equal(t, driver.BlendNone, tt.(*Texture).blend)
	assert.NoError(t, s24.SetColorKey(true, color.NRGBA{}))
	tt, err = r.CreateTextureFromSurface(s24)
	assert.NoError(t, err)
	assert.Equal(t, driver.BlendAlpha, tt.(*Texture).blend)

	s.Free()
	_, err = r.CreateTextureFromSurface(s)
	assert.EqualError(t, err, "invalid surface")
}

func TestRenderer_SetTarget(t *testing.T) {
	_, r := newTestRenderer(t, 8, 8)

	static, err := r.CreateTexture(driver.FormatRGBA8888, driver.AccessStatic, 4, 4)
	assert.NoError(t, err)
	assert.EqualError(t, r.SetTarget(static), "texture not a render target")
	assert.EqualError(t, r.SetTarget(otherTexture{}), "texture not owned by this driver")

	target, err := r.CreateTexture(driver.FormatRGBA8888, driver.AccessTarget, 4, 4)
	assert.NoError(t, err)
	assert.NoError(t, r.SetScale(2, 2))
	assert.NoError(t, r.SetClipRect(image.Rect(0, 0, 1, 1), true))
	assert.NoError(t, r.SetTarget(target))
	assert.Equal(t, target, r.Target())
	_, enabled := r.ClipRect()
	assert.False(t, enabled)
	sx, _ := r.Scale()
	assert.Equal(t, float32(2), sx)
	w, h, err := r.OutputSize()
	assert.NoError(t, err)
	assert.Equal(t, 4, w)
	assert.Equal(t, 4, h)

	assert.NoError(t, r.SetScale(1, 1))
	r.SetDrawColor(red)
	assert.NoError(t, r.FillRects([]image.Rectangle{image.Rect(0, 0, 4, 4)}))
	tex := target.(*Texture)
	assert.Equal(t, 16, countPixels(tex.img, red))
	assert.Equal(t, color.NRGBA{}, r.back.NRGBAAt(0, 0))

	assert.NoError(t, r.SetTarget(nil))
	assert.Nil(t, r.Target())
	assert.Equal(t, image.Rect(0, 0, 8, 8), r.vp)
	w, h, _ = r.OutputSize()
	assert.Equal(t, 8, w)
	assert.Equal(t, 8, h)
}

func TestRenderer_SetLogicalSize(t *testing.T) {
	_, r := newTestRenderer(t, 6, 4)
	assert.NoError(t, r.SetLogicalSize(2, 2))
	lw, lh := r.LogicalSize()
	assert.Equal(t, 2, lw)
	assert.Equal(t, 2, lh)
	sx, sy := r.Scale()
	assert.Equal(t, float32(2), sx)
	assert.Equal(t, float32(2), sy)
	assert.Equal(t, image.Rect(1, 0, 5, 4), r.vp)
	assert.Equal(t, image.Rect(0, 0, 2, 2), r.Viewport())

	r.SetDrawColor(red)
	assert.NoError(t, r.FillRects([]image.Rectangle{image.Rect(0, 0, 1, 1)}))
	assert.Equal(t, color.NRGBA{}, r.back.NRGBAAt(0, 0)) // letterbox band
	assert.Equal(t, red, r.back.NRGBAAt(1, 0))
	assert.Equal(t, red, r.back.NRGBAAt(2, 1))
	assert.Equal(t, color.NRGBA{}, r.back.NRGBAAt(3, 0))

	assert.NoError(t, r.SetLogicalSize(0, 0))
	sx, sy = r.Scale()
	assert.Equal(t, float32(1), sx)
	assert.Equal(t, float32(1), sy)
	assert.Equal(t, image.Rect(0, 0, 6, 4), r.vp)
}

func TestRenderer_SetViewport(t *testing.T) {
	_, r := newTestRenderer(t, 4, 4)
	assert.NoError(t, r.SetViewport(image.Rect(1, 1, 3, 3)))
	assert.Equal(t, image.Rect(1, 1, 3, 3), r.Viewport())
	r.SetDrawColor(red)
	assert.NoError(t, r.FillRects([]image.Rectangle{image.Rect(0, 0, 1, 1)}))
	assert.Equal(t, red, r.back.NRGBAAt(1, 1))
	assert.Equal(t, 1, countPixels(r.back, red))

	assert.NoError(t, r.SetViewport(image.Rectangle{}))
	assert.Equal(t, image.Rect(0, 0, 4, 4), r.Viewport())
}

func TestRenderer_ReadPixels(t *testing.T) {
	_, r := newTestRenderer(t, 4, 2)
	r.back.SetNRGBA(1, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	r.back.SetNRGBA(2, 0, color.NRGBA{R: 5, G: 6, B: 7, A: 8})
	r.back.SetNRGBA(1, 1, color.NRGBA{R: 9, G: 10, B: 11, A: 12})
	r.back.SetNRGBA(2, 1, color.NRGBA{R: 13, G: 14, B: 15, A: 16})

	pix := make([]byte, 16)
	assert.NoError(t, r.ReadPixels(image.Rect(1, 0, 3, 2), driver.FormatRGBA8888, pix, 8))
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}, pix)

	// rows land pitch bytes apart
	pix = make([]byte, 20)
	assert.NoError(t, r.ReadPixels(image.Rect(1, 0, 3, 2), driver.FormatRGBA8888, pix, 12))
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, pix[0:8])
	assert.Equal(t, []byte{9, 10, 11, 12, 13, 14, 15, 16}, pix[12:20])

	pix = make([]byte, 4)
	assert.NoError(t, r.ReadPixels(image.Rect(1, 0, 2, 1), driver.FormatBGRA8888, pix, 4))
	assert.Equal(t, []byte{3, 2, 1, 4}, pix)

	// the region is offset by the viewport origin
	assert.NoError(t, r.SetViewport(image.Rect(1, 0, 4, 2)))
	pix = make([]byte, 4)
	assert.NoError(t, r.ReadPixels(image.Rect(0, 0, 1, 1), driver.FormatRGBA8888, pix, 4))
	assert.Equal(t, []byte{1, 2, 3, 4}, pix)
	assert.NoError(t, r.SetViewport(image.Rectangle{}))

	assert.EqualError(t, r.ReadPixels(image.Rect(0, 0, 1, 1), driver.FormatUnknown, pix, 4), "invalid pixel format Unknown")
	assert.EqualError(t, r.ReadPixels(image.Rect(0, 0, 2, 1), driver.FormatRGBA8888, pix, 4), "pixel buffer too small")

	pix = []byte{0xaa, 0xaa, 0xaa, 0xaa}
	assert.NoError(t, r.ReadPixels(image.Rect(10, 10, 12, 12), driver.FormatRGBA8888, pix, 8))
	assert.Equal(t, []byte{0xaa, 0xaa, 0xaa, 0xaa}, pix)
}

func TestRenderer_Destroy(t *testing.T) {
	_, r := newTestRenderer(t, 4, 4)
	r.Destroy()
	assert.EqualError(t, r.Clear(), "invalid renderer")
	assert.EqualError(t, r.DrawPoints([]image.Point{{0, 0}}), "invalid renderer")
	assert.EqualError(t, r.SetViewport(image.Rect(0, 0, 1, 1)), "invalid renderer")
	_, _, err := r.OutputSize()
	assert.EqualError(t, err, "invalid renderer")
}
