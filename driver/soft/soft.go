// Package soft is a pure Go implementation of the driver interfaces. It
// renders into in-memory pixel buffers and sends audio to a null sink,
// which makes it suitable for headless use and for tests.
//
// Rendering follows the usual 2D accelerator semantics with truncating
// 8 bit blend arithmetic: BlendNone replaces the destination, BlendAlpha
// composites src over dst using the non-premultiplied source alpha,
// BlendAdd adds the alpha-scaled source and clamps, and BlendMod
// multiplies. Draw and copy coordinates are scaled by the current scale
// factors and offset by the viewport origin; lines are always drawn one
// device pixel wide.
//
// The audio device keeps full channel, group and music bookkeeping but
// never advances a clock: a played chunk remains playing until halted,
// fades never complete on their own, and timed plays and expirations are
// recorded but do not trigger. Finished callbacks run synchronously from
// the halting call.
//
package soft

import (
	"image"
	"image/color"
	"io"

	_ "image/jpeg" // decoders for LoadSurface
	_ "image/png"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"

	"github.com/db47h/mdl/driver"
)

// Driver is the soft backend. The zero value is not usable, use New.
//
type Driver struct {
	inited bool
	quit   bool
	audio  *Audio
}

// New returns a new soft driver.
//
func New() *Driver {
	return &Driver{}
}

func (d *Driver) Name() string { return "soft" }

func (d *Driver) Init() error {
	d.inited = true
	d.quit = false
	return nil
}

func (d *Driver) Quit() {
	if d.audio != nil {
		d.audio.Close()
	}
	d.inited = false
}

// Pump reports whether RequestQuit has been called. The soft driver has no
// native event source.
//
func (d *Driver) Pump() (quit bool) {
	return d.quit
}

// RequestQuit makes subsequent Pump calls report a quit request.
//
func (d *Driver) RequestQuit() {
	d.quit = true
}

func (d *Driver) CreateWindow(title string, x, y, w, h int, flags driver.WindowFlags) (driver.Window, error) {
	if !d.inited {
		return nil, errors.New("driver not initialized")
	}
	if w <= 0 || h <= 0 {
		return nil, errors.Errorf("invalid window size %dx%d", w, h)
	}
	if x == driver.WindowPosCentered {
		x = (desktopW - w) / 2
	}
	if y == driver.WindowPosCentered {
		y = (desktopH - h) / 2
	}
	return &Window{d: d, title: title, x: x, y: y, w: w, h: h, flags: flags, opacity: 1}, nil
}

func (d *Driver) CreateRenderer(w driver.Window, flags driver.RendererFlags) (driver.Renderer, error) {
	win, ok := w.(*Window)
	if !ok {
		return nil, errors.New("window not owned by this driver")
	}
	if win.renderer != nil {
		return nil, errors.New("window already has a renderer")
	}
	r := newRenderer(win, flags)
	win.renderer = r
	return r, nil
}

func (d *Driver) NewSurface(w, h int, f driver.PixelFormat) (driver.Surface, error) {
	bpp := f.BytesPerPixel()
	if bpp == 0 {
		return nil, errors.Errorf("invalid pixel format %s", f)
	}
	if w <= 0 || h <= 0 {
		return nil, errors.Errorf("invalid surface size %dx%d", w, h)
	}
	return newSurface(make([]byte, h*w*bpp), w, h, w*bpp, f), nil
}

func (d *Driver) NewSurfaceFrom(pix []byte, w, h, pitch int, f driver.PixelFormat) (driver.Surface, error) {
	bpp := f.BytesPerPixel()
	if bpp == 0 {
		return nil, errors.Errorf("invalid pixel format %s", f)
	}
	if w <= 0 || h <= 0 {
		return nil, errors.Errorf("invalid surface size %dx%d", w, h)
	}
	if pitch < w*bpp {
		return nil, errors.Errorf("pitch %d too small for width %d", pitch, w)
	}
	if len(pix) < (h-1)*pitch+w*bpp {
		return nil, errors.New("pixel buffer too small")
	}
	return newSurface(pix, w, h, pitch, f), nil
}

// LoadSurface decodes a PNG, JPEG or BMP stream into an RGBA8888 surface.
//
func (d *Driver) LoadSurface(r io.Reader) (driver.Surface, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	s, err := d.NewSurface(b.Dx(), b.Dy(), driver.FormatRGBA8888)
	if err != nil {
		return nil, err
	}
	ss := s.(*Surface)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			ss.put(x-b.Min.X, y-b.Min.Y, c)
		}
	}
	return ss, nil
}

func (d *Driver) OpenAudio(freq int, f driver.AudioFormat, channels, chunkSize int) (driver.Audio, error) {
	if d.audio != nil {
		return nil, errors.New("audio device already open")
	}
	if freq <= 0 || channels <= 0 || chunkSize <= 0 {
		return nil, errors.New("invalid audio device parameters")
	}
	a := newAudio(d, freq, f, channels, chunkSize)
	d.audio = a
	return a, nil
}

// Virtual desktop size used to resolve centered window positions.
const (
	desktopW = 1920
	desktopH = 1080
)
