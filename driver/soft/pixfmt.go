package soft

import (
	"image"
	"image/color"

	"github.com/db47h/mdl/driver"
)

// getPixel reads the pixel at byte offset off in a buffer laid out in
// format f. RGB24 reads as fully opaque.
//
func getPixel(pix []byte, off int, f driver.PixelFormat) color.NRGBA {
	switch f {
	case driver.FormatRGBA8888:
		return color.NRGBA{R: pix[off], G: pix[off+1], B: pix[off+2], A: pix[off+3]}
	case driver.FormatABGR8888:
		return color.NRGBA{A: pix[off], B: pix[off+1], G: pix[off+2], R: pix[off+3]}
	case driver.FormatARGB8888:
		return color.NRGBA{A: pix[off], R: pix[off+1], G: pix[off+2], B: pix[off+3]}
	case driver.FormatBGRA8888:
		return color.NRGBA{B: pix[off], G: pix[off+1], R: pix[off+2], A: pix[off+3]}
	case driver.FormatRGB24:
		return color.NRGBA{R: pix[off], G: pix[off+1], B: pix[off+2], A: 0xff}
	}
	return color.NRGBA{}
}

// putPixel writes c at byte offset off in a buffer laid out in format f.
// RGB24 drops the alpha.
//
func putPixel(pix []byte, off int, f driver.PixelFormat, c color.NRGBA) {
	switch f {
	case driver.FormatRGBA8888:
		pix[off], pix[off+1], pix[off+2], pix[off+3] = c.R, c.G, c.B, c.A
	case driver.FormatABGR8888:
		pix[off], pix[off+1], pix[off+2], pix[off+3] = c.A, c.B, c.G, c.R
	case driver.FormatARGB8888:
		pix[off], pix[off+1], pix[off+2], pix[off+3] = c.A, c.R, c.G, c.B
	case driver.FormatBGRA8888:
		pix[off], pix[off+1], pix[off+2], pix[off+3] = c.B, c.G, c.R, c.A
	case driver.FormatRGB24:
		pix[off], pix[off+1], pix[off+2] = c.R, c.G, c.B
	}
}

// mul8 multiplies two 8 bit values with truncating 1/255 scaling.
//
func mul8(a, b uint32) uint32 {
	return a * b / 255
}

// modColor applies color and alpha modulation to c.
//
func modColor(c color.NRGBA, r, g, b, a uint8) color.NRGBA {
	if r != 0xff || g != 0xff || b != 0xff {
		c.R = uint8(mul8(uint32(c.R), uint32(r)))
		c.G = uint8(mul8(uint32(c.G), uint32(g)))
		c.B = uint8(mul8(uint32(c.B), uint32(b)))
	}
	if a != 0xff {
		c.A = uint8(mul8(uint32(c.A), uint32(a)))
	}
	return c
}

// blend composites src onto dst and returns the result.
//
func blend(dst, src color.NRGBA, bm driver.BlendMode) color.NRGBA {
	switch bm {
	case driver.BlendNone:
		return src
	case driver.BlendAlpha:
		sa := uint32(src.A)
		da := 255 - sa
		return color.NRGBA{
			R: uint8(mul8(uint32(src.R), sa) + mul8(uint32(dst.R), da)),
			G: uint8(mul8(uint32(src.G), sa) + mul8(uint32(dst.G), da)),
			B: uint8(mul8(uint32(src.B), sa) + mul8(uint32(dst.B), da)),
			A: uint8(sa + mul8(uint32(dst.A), da)),
		}
	case driver.BlendAdd:
		sa := uint32(src.A)
		return color.NRGBA{
			R: clamp8(mul8(uint32(src.R), sa) + uint32(dst.R)),
			G: clamp8(mul8(uint32(src.G), sa) + uint32(dst.G)),
			B: clamp8(mul8(uint32(src.B), sa) + uint32(dst.B)),
			A: dst.A,
		}
	case driver.BlendMod:
		return color.NRGBA{
			R: uint8(mul8(uint32(src.R), uint32(dst.R))),
			G: uint8(mul8(uint32(src.G), uint32(dst.G))),
			B: uint8(mul8(uint32(src.B), uint32(dst.B))),
			A: dst.A,
		}
	}
	return dst
}

func clamp8(v uint32) uint8 {
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// blendAt composites c onto the pixel of img at (x, y), skipping points
// outside clip.
//
func blendAt(img *image.NRGBA, x, y int, c color.NRGBA, bm driver.BlendMode, clip image.Rectangle) {
	if !image.Pt(x, y).In(clip) {
		return
	}
	off := img.PixOffset(x, y)
	d := color.NRGBA{R: img.Pix[off], G: img.Pix[off+1], B: img.Pix[off+2], A: img.Pix[off+3]}
	d = blend(d, c, bm)
	img.Pix[off], img.Pix[off+1], img.Pix[off+2], img.Pix[off+3] = d.R, d.G, d.B, d.A
}
