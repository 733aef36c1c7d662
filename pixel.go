package mdl

import (
	"github.com/db47h/mdl/driver"
)

// PixelFormat describes the in-memory byte order of a pixel buffer. See
// driver.PixelFormat for the exact semantics.
//
type PixelFormat driver.PixelFormat

const (
	FormatUnknown  = PixelFormat(driver.FormatUnknown)
	FormatRGBA8888 = PixelFormat(driver.FormatRGBA8888)
	FormatABGR8888 = PixelFormat(driver.FormatABGR8888)
	FormatARGB8888 = PixelFormat(driver.FormatARGB8888)
	FormatBGRA8888 = PixelFormat(driver.FormatBGRA8888)
	FormatRGB24    = PixelFormat(driver.FormatRGB24)
)

// BytesPerPixel returns the pixel stride of the format.
//
func (f PixelFormat) BytesPerPixel() int {
	return driver.PixelFormat(f).BytesPerPixel()
}

func (f PixelFormat) String() string {
	return driver.PixelFormat(f).String()
}

// TextureAccess selects the update path of a texture at creation time.
//
type TextureAccess driver.TextureAccess

const (
	AccessStatic    = TextureAccess(driver.AccessStatic)
	AccessStreaming = TextureAccess(driver.AccessStreaming)
	AccessTarget    = TextureAccess(driver.AccessTarget)
)
