// Package text draws strings through a Renderer using a glyph atlas cache.
//
package text

import (
	"image"
	"image/color"
	"unicode/utf8"

	"github.com/db47h/mdl"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	// see subPixels() in github.com/golang/freetype/truetype/face.go
	SubPixelsX    = 8
	subPixelBiasX = 4
	subPixelMaskX = -8
	SubPixelsY    = 8
	subPixelBiasY = 4
	subPixelMaskY = -8
)

// TextureSize is the size of the glyph atlas textures. It should be no
// larger than the maximum texture size supported by the renderer, and is
// only read when a Drawer creates a new atlas texture.
//
var TextureSize int = 1024

// Hinting selects how to quantize a vector font's glyph nodes.
//
// Not all fonts support hinting.
//
// This is a convenience duplicate of golang.org/x/image/font#Hinting
//
type Hinting int

const (
	HintingNone     Hinting = Hinting(font.HintingNone)
	HintingVertical         = Hinting(font.HintingVertical)
	HintingFull             = Hinting(font.HintingFull)
)

// A Glyph is a single glyph rasterized into a Drawer's texture atlas.
// Bounds locates the glyph pixels within Texture; Origin is the offset from
// the integer drawing dot to the top-left corner of Bounds on the target.
//
type Glyph struct {
	Texture *mdl.Texture
	Bounds  mdl.Rect
	Origin  mdl.Point
}

// A Drawer draws text on a render target using a font.Face. Rasterized
// glyphs are cached in atlas textures created through the Renderer passed
// to the drawing methods; a Drawer must not be shared between renderers.
//
type Drawer struct {
	face   font.Face
	glyphs []Glyph
	cache  map[cacheKey]cacheValue
	ts     []*mdl.Texture // atlas textures, current is last
	tsz    image.Point    // size of the current texture
	p      image.Point    // current packing point
	lh     int            // line height in current texture
	filter mdl.ScaleMode
}

type cacheKey struct {
	r  rune
	fx uint8
	fy uint8
}

type cacheValue struct {
	index int // glyph index, -1 for empty glyphs
	adv   fixed.Int26_6
}

func NewDrawer(f font.Face, filter mdl.ScaleMode) *Drawer {
	return &Drawer{
		face:   f,
		cache:  make(map[cacheKey]cacheValue),
		filter: filter,
	}
}

func (d *Drawer) Face() font.Face {
	return d.face
}

// DrawString draws s on the current render target of rd with the baseline
// dot at the given point. It returns how far dot advanced. The first glyph
// that fails to upload or copy aborts the draw.
//
func (d *Drawer) DrawString(rd *mdl.Renderer, s string, dot mdl.Point, c color.NRGBA) (advance fixed.Int26_6, err error) {
	pos := fixed.P(dot.X, dot.Y)
	sp := pos.X
	prev := rune(-1)
	for _, r := range s {
		if prev >= 0 {
			pos.X += d.face.Kern(prev, r)
		}
		dp, g, adv, err := d.Glyph(rd, pos, r)
		if err != nil {
			return pos.X - sp, err
		}
		if g != nil {
			if err = d.draw(rd, g, dp, c); err != nil {
				return pos.X - sp, err
			}
		}
		pos.X += adv
		prev = r
	}
	return pos.X - sp, nil
}

// DrawBytes is DrawString for a UTF-8 encoded byte slice.
//
func (d *Drawer) DrawBytes(rd *mdl.Renderer, s []byte, dot mdl.Point, c color.NRGBA) (advance fixed.Int26_6, err error) {
	pos := fixed.P(dot.X, dot.Y)
	sp := pos.X
	prev := rune(-1)
	for len(s) > 0 {
		r, sz := utf8.DecodeRune(s)
		s = s[sz:]
		if prev >= 0 {
			pos.X += d.face.Kern(prev, r)
		}
		dp, g, adv, err := d.Glyph(rd, pos, r)
		if err != nil {
			return pos.X - sp, err
		}
		if g != nil {
			if err = d.draw(rd, g, dp, c); err != nil {
				return pos.X - sp, err
			}
		}
		pos.X += adv
		prev = r
	}
	return pos.X - sp, nil
}

func (d *Drawer) draw(rd *mdl.Renderer, g *Glyph, dp mdl.Point, c color.NRGBA) error {
	if err := g.Texture.SetColorMod(c.R, c.G, c.B); err != nil {
		return err
	}
	if err := g.Texture.SetAlphaMod(c.A); err != nil {
		return err
	}
	dst := mdl.Rect{X: dp.X + g.Origin.X, Y: dp.Y + g.Origin.Y, W: g.Bounds.W, H: g.Bounds.H}
	return rd.Copy(g.Texture, &g.Bounds, &dst)
}

func (d *Drawer) currentTexture() *mdl.Texture {
	l := len(d.ts)
	if l == 0 {
		return nil
	}
	return d.ts[l-1]
}

// Glyph returns the atlas glyph for r drawn at dot, rasterizing and
// uploading it through rd on a cache miss. dp is the integer pixel the
// returned glyph's Origin is relative to. Glyphs without pixels, like
// spaces, return a nil Glyph with a non-zero advance.
//
func (d *Drawer) Glyph(rd *mdl.Renderer, dot fixed.Point26_6, r rune) (dp mdl.Point, g *Glyph, advance fixed.Int26_6, err error) {
	dx, dy := (dot.X+subPixelBiasX)&subPixelMaskX, (dot.Y+subPixelBiasY)&subPixelMaskY
	ix, iy := int(dx>>6), int(dy>>6)

	key := cacheKey{r, uint8(dx & 0x3f), uint8(dy & 0x3f)}
	if v, ok := d.cache[key]; ok {
		if idx := v.index; idx >= 0 {
			return mdl.Pt(ix, iy), &d.glyphs[idx], v.adv, nil
		}
		return mdl.Point{}, nil, v.adv, nil
	}

	dr, mask, maskp, advance, ok := d.face.Glyph(fixed.Point26_6{X: dot.X & 0x3f, Y: dot.Y & 0x3f}, r)
	if !ok {
		return mdl.Point{}, nil, 0, nil
	}
	sz := dr.Size()
	if sz.X == 0 || sz.Y == 0 {
		// empty glyph
		d.cache[key] = cacheValue{-1, advance}
		return mdl.Point{}, nil, advance, nil
	}
	// adjust point of origin to account for rounding when quantizing subPixels
	org := mdl.Pt(dr.Min.X-(ix-dot.X.Floor()), dr.Min.Y-(iy-dot.Y.Floor()))
	tr := dr.Add(image.Pt(-dr.Min.X+d.p.X, -dr.Min.Y+d.p.Y))
	t := d.currentTexture()
	if t != nil {
		if tr.Max.X > d.tsz.X {
			d.p = image.Pt(0, d.p.Y+d.lh)
			tr = tr.Add(image.Pt(-tr.Min.X, d.lh))
		}
		if tr.Max.Y > d.tsz.Y {
			t = nil
		}
	}
	if t == nil {
		t, err = d.newAtlas(rd)
		if err != nil {
			return mdl.Point{}, nil, 0, err
		}
		tr = dr.Add(image.Pt(-dr.Min.X, -dr.Min.Y))
	}
	if err = d.upload(t, tr, mask, maskp); err != nil {
		return mdl.Point{}, nil, 0, err
	}
	d.p.X += tr.Dx() + 1
	if h := tr.Dy() + 1; h > d.lh {
		d.lh = h
	}
	index := len(d.glyphs)
	d.glyphs = append(d.glyphs, Glyph{Texture: t, Bounds: mdl.RectOf(tr), Origin: org})
	d.cache[key] = cacheValue{index, advance}
	return mdl.Pt(ix, iy), &d.glyphs[index], advance, nil
}

// newAtlas creates a blank TextureSize x TextureSize atlas texture and
// makes it current.
//
func (d *Drawer) newAtlas(rd *mdl.Renderer) (*mdl.Texture, error) {
	t, err := rd.CreateTexture(mdl.FormatRGBA8888, mdl.AccessStreaming, TextureSize, TextureSize,
		mdl.Filter(d.filter), mdl.Blend(mdl.BlendAlpha))
	if err != nil {
		return nil, err
	}
	// native texture contents start undefined
	if err = t.Update(nil, make([]byte, TextureSize*TextureSize*4), TextureSize*4); err != nil {
		t.Destroy()
		return nil, err
	}
	d.ts = append(d.ts, t)
	d.tsz = image.Pt(TextureSize, TextureSize)
	d.p = image.Point{}
	d.lh = 0
	return t, nil
}

// upload writes the glyph mask to the tr region of the atlas as white
// pixels carrying the mask coverage in their alpha channel, so that color
// modulation tints the glyph at copy time.
//
func (d *Drawer) upload(t *mdl.Texture, tr image.Rectangle, mask image.Image, maskp image.Point) error {
	var (
		sz    = tr.Size()
		pitch = sz.X * 4
		pix   = make([]byte, sz.Y*pitch)
	)
	if m, ok := mask.(*image.Alpha); ok {
		for y := 0; y < sz.Y; y++ {
			src := m.Pix[(maskp.Y+y-m.Rect.Min.Y)*m.Stride+(maskp.X-m.Rect.Min.X):]
			row := pix[y*pitch : y*pitch+pitch]
			for x := 0; x < sz.X; x++ {
				row[x*4+0] = 0xff
				row[x*4+1] = 0xff
				row[x*4+2] = 0xff
				row[x*4+3] = src[x]
			}
		}
	} else {
		for y := 0; y < sz.Y; y++ {
			row := pix[y*pitch : y*pitch+pitch]
			for x := 0; x < sz.X; x++ {
				_, _, _, a := mask.At(maskp.X+x, maskp.Y+y).RGBA()
				row[x*4+0] = 0xff
				row[x*4+1] = 0xff
				row[x*4+2] = 0xff
				row[x*4+3] = uint8(a >> 8)
			}
		}
	}
	r := mdl.RectOf(tr)
	return t.Update(&r, pix, pitch)
}

// Close destroys the atlas textures and closes the font face.
//
func (d *Drawer) Close() error {
	for _, t := range d.ts {
		t.Destroy()
	}
	d.ts = nil
	d.glyphs = nil
	d.cache = make(map[cacheKey]cacheValue)
	return d.face.Close()
}

// BoundBytes returns the bounding box of s with f, drawn at a dot equal to the origin, as well as the advance.
//
// It is equivalent to BoundString(string(s)) but may be more efficient.
//
func (d *Drawer) BoundBytes(s []byte) (bounds fixed.Rectangle26_6, advance fixed.Int26_6) {
	return font.BoundBytes(d.face, s)
}

// BoundString returns the bounding box of s with f, drawn at a dot equal to the origin, as well as the advance.
//
func (d *Drawer) BoundString(s string) (bounds fixed.Rectangle26_6, advance fixed.Int26_6) {
	return font.BoundString(d.face, s)
}

// MeasureBytes returns how far dot would advance by drawing s.
//
func (d *Drawer) MeasureBytes(s []byte) (advance fixed.Int26_6) {
	return font.MeasureBytes(d.face, s)
}

// MeasureString returns how far dot would advance by drawing s.
//
func (d *Drawer) MeasureString(s string) (advance fixed.Int26_6) {
	return font.MeasureString(d.face, s)
}
