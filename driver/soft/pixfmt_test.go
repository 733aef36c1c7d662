package soft

import (
	"image"
	"image/color"
	"testing"

	"github.com/db47h/mdl/driver"
	"github.com/stretchr/testify/assert"
)

func TestPixelIO(t *testing.T) {
	c := color.NRGBA{R: 1, G: 2, B: 3, A: 4}
	layouts := []struct {
		format driver.PixelFormat
		bytes  []byte
	}{
		{driver.FormatRGBA8888, []byte{1, 2, 3, 4}},
		{driver.FormatABGR8888, []byte{4, 3, 2, 1}},
		{driver.FormatARGB8888, []byte{4, 1, 2, 3}},
		{driver.FormatBGRA8888, []byte{3, 2, 1, 4}},
		{driver.FormatRGB24, []byte{1, 2, 3}},
	}
	for _, l := range layouts {
		t.Run(l.format.String(), func(t *testing.T) {
			buf := make([]byte, 8)
			putPixel(buf, 4, l.format, c)
			assert.Equal(t, l.bytes, buf[4:4+len(l.bytes)])
			got := getPixel(buf, 4, l.format)
			if l.format == driver.FormatRGB24 {
				// alpha is dropped on write and reads back opaque
				assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 0xff}, got)
			} else {
				assert.Equal(t, c, got)
			}
		})
	}

	buf := make([]byte, 4)
	putPixel(buf, 0, driver.FormatUnknown, c)
	assert.Equal(t, []byte{0, 0, 0, 0}, buf)
	assert.Equal(t, color.NRGBA{}, getPixel(buf, 0, driver.FormatUnknown))
}

func TestBlend(t *testing.T) {
	tests := []struct {
		name string
		dst  color.NRGBA
		src  color.NRGBA
		bm   driver.BlendMode
		want color.NRGBA
	}{
		{"none", color.NRGBA{R: 9, G: 9, B: 9, A: 9}, color.NRGBA{R: 12, G: 34, B: 56, A: 78}, driver.BlendNone,
			color.NRGBA{R: 12, G: 34, B: 56, A: 78}},
		{"alpha_opaque", color.NRGBA{R: 100, G: 100, B: 100, A: 255}, color.NRGBA{R: 200, G: 0, B: 0, A: 255}, driver.BlendAlpha,
			color.NRGBA{R: 200, G: 0, B: 0, A: 255}},
		// 200*128/255 + 100*127/255 = 100 + 49
		{"alpha_half", color.NRGBA{R: 100, G: 100, B: 100, A: 255}, color.NRGBA{R: 200, G: 0, B: 0, A: 128}, driver.BlendAlpha,
			color.NRGBA{R: 149, G: 49, B: 49, A: 255}},
		{"alpha_zero", color.NRGBA{R: 100, G: 100, B: 100, A: 255}, color.NRGBA{R: 200, G: 0, B: 0, A: 0}, driver.BlendAlpha,
			color.NRGBA{R: 100, G: 100, B: 100, A: 255}},
		{"add_clamps", color.NRGBA{R: 200, G: 200, B: 200, A: 77}, color.NRGBA{R: 200, G: 0, B: 50, A: 255}, driver.BlendAdd,
			color.NRGBA{R: 255, G: 200, B: 250, A: 77}},
		// src scaled by its alpha before the add: 200*128/255 = 100
		{"add_scaled", color.NRGBA{R: 100, G: 0, B: 0, A: 1}, color.NRGBA{R: 200, G: 200, B: 200, A: 128}, driver.BlendAdd,
			color.NRGBA{R: 200, G: 100, B: 100, A: 1}},
		{"mod", color.NRGBA{R: 100, G: 50, B: 255, A: 9}, color.NRGBA{R: 128, G: 255, B: 0, A: 200}, driver.BlendMod,
			color.NRGBA{R: 50, G: 50, B: 0, A: 9}},
		{"unknown_keeps_dst", color.NRGBA{R: 1, G: 2, B: 3, A: 4}, color.NRGBA{R: 9, G: 9, B: 9, A: 9}, driver.BlendMode(42),
			color.NRGBA{R: 1, G: 2, B: 3, A: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, blend(tt.dst, tt.src, tt.bm))
		})
	}
}

func TestModColor(t *testing.T) {
	c := color.NRGBA{R: 200, G: 100, B: 50, A: 255}
	assert.Equal(t, c, modColor(c, 0xff, 0xff, 0xff, 0xff))
	assert.Equal(t, color.NRGBA{R: 100, G: 100, B: 50, A: 255}, modColor(c, 128, 0xff, 0xff, 0xff))
	assert.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 128}, modColor(c, 0xff, 0xff, 0xff, 128))
	assert.Equal(t, color.NRGBA{R: 100, G: 50, B: 25, A: 64}, modColor(c, 128, 128, 128, 64))
}

func TestBlendAt(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	clip := image.Rect(1, 1, 2, 2)
	c := color.NRGBA{R: 10, G: 20, B: 30, A: 40}

	blendAt(img, 0, 0, c, driver.BlendNone, clip)
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(0, 0))

	blendAt(img, 1, 1, c, driver.BlendNone, clip)
	assert.Equal(t, c, img.NRGBAAt(1, 1))
}
