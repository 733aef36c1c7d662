// +build sdl2

// Package sdl implements the driver interfaces on top of SDL2, SDL_image
// and SDL_mixer through the go-sdl2 bindings.
//
// Pixel formats are mapped by byte order in memory, so FormatRGBA8888
// selects the SDL format whose first byte is red on both little and big
// endian hosts. State that SDL does not expose uniformly across versions
// (blend modes, modulation, clip and viewport rectangles) is shadowed in
// the wrappers and reported from the last value set.
//
package sdl

import (
	"image"
	"io"
	"io/ioutil"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/mix"
	sdl2 "github.com/veandco/go-sdl2/sdl"

	"github.com/db47h/mdl/driver"
)

// Driver is the SDL2 backend.
//
type Driver struct {
	inited    bool
	audioOpen bool
}

// New returns a new SDL2 driver.
//
func New() *Driver {
	return &Driver{}
}

func (d *Driver) Name() string { return "sdl2" }

func (d *Driver) Init() error {
	if err := sdl2.Init(sdl2.INIT_EVERYTHING); err != nil {
		return err
	}
	// decoder setup failures surface later, in LoadSurface
	_ = img.Init(img.INIT_PNG | img.INIT_JPG)
	d.inited = true
	return nil
}

func (d *Driver) Quit() {
	if d.audioOpen {
		mix.CloseAudio()
		d.audioOpen = false
	}
	img.Quit()
	sdl2.Quit()
	d.inited = false
}

// Pump drains the SDL event queue and reports whether a quit event or a
// window close was seen.
//
func (d *Driver) Pump() (quit bool) {
	for {
		e := sdl2.PollEvent()
		if e == nil {
			return quit
		}
		switch e := e.(type) {
		case *sdl2.QuitEvent:
			quit = true
		case *sdl2.WindowEvent:
			if e.Event == sdl2.WINDOWEVENT_CLOSE {
				quit = true
			}
		}
	}
}

func (d *Driver) CreateWindow(title string, x, y, w, h int, flags driver.WindowFlags) (driver.Window, error) {
	if x == driver.WindowPosCentered {
		x = sdl2.WINDOWPOS_CENTERED
	}
	if y == driver.WindowPosCentered {
		y = sdl2.WINDOWPOS_CENTERED
	}
	win, err := sdl2.CreateWindow(title, int32(x), int32(y), int32(w), int32(h), windowFlags(flags))
	if err != nil {
		return nil, err
	}
	return &Window{win: win, opacity: 1}, nil
}

func (d *Driver) CreateRenderer(w driver.Window, flags driver.RendererFlags) (driver.Renderer, error) {
	win, ok := w.(*Window)
	if !ok {
		return nil, errors.New("window not owned by this driver")
	}
	r, err := sdl2.CreateRenderer(win.win, -1, rendererFlags(flags))
	if err != nil {
		return nil, err
	}
	return newRenderer(r), nil
}

func (d *Driver) NewSurface(w, h int, f driver.PixelFormat) (driver.Surface, error) {
	sf, err := pixelFormat(f)
	if err != nil {
		return nil, err
	}
	s, err := sdl2.CreateRGBSurfaceWithFormat(0, int32(w), int32(h), int32(f.BytesPerPixel()*8), sf)
	if err != nil {
		return nil, err
	}
	return newSurface(s, f, nil), nil
}

func (d *Driver) NewSurfaceFrom(pix []byte, w, h, pitch int, f driver.PixelFormat) (driver.Surface, error) {
	sf, err := pixelFormat(f)
	if err != nil {
		return nil, err
	}
	if len(pix) < (h-1)*pitch+w*f.BytesPerPixel() {
		return nil, errors.New("pixel buffer too small")
	}
	s, err := sdl2.CreateRGBSurfaceWithFormatFrom(unsafe.Pointer(&pix[0]), int32(w), int32(h), int32(f.BytesPerPixel()*8), int32(pitch), sf)
	if err != nil {
		return nil, err
	}
	// keep pix referenced for the lifetime of the surface
	return newSurface(s, f, pix), nil
}

func (d *Driver) LoadSurface(r io.Reader) (driver.Surface, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	rw, err := sdl2.RWFromMem(data)
	if err != nil {
		return nil, err
	}
	s, err := img.LoadRW(rw, true)
	if err != nil {
		return nil, err
	}
	return newSurface(s, formatOf(s), nil), nil
}

func (d *Driver) OpenAudio(freq int, f driver.AudioFormat, channels, chunkSize int) (driver.Audio, error) {
	if d.audioOpen {
		return nil, errors.New("audio device already open")
	}
	if err := mix.OpenAudio(freq, audioFormat(f), channels, chunkSize); err != nil {
		return nil, err
	}
	d.audioOpen = true
	return &Audio{d: d}, nil
}

// pixelFormat maps a byte order format to the matching SDL format.
//
func pixelFormat(f driver.PixelFormat) (uint32, error) {
	switch f {
	case driver.FormatRGBA8888:
		return uint32(sdl2.PIXELFORMAT_RGBA32), nil
	case driver.FormatABGR8888:
		return uint32(sdl2.PIXELFORMAT_ABGR32), nil
	case driver.FormatARGB8888:
		return uint32(sdl2.PIXELFORMAT_ARGB32), nil
	case driver.FormatBGRA8888:
		return uint32(sdl2.PIXELFORMAT_BGRA32), nil
	case driver.FormatRGB24:
		return uint32(sdl2.PIXELFORMAT_RGB24), nil
	}
	return 0, errors.Errorf("invalid pixel format %s", f)
}

// formatOf returns the byte order format of an SDL surface, or
// FormatUnknown for formats the driver does not handle.
//
func formatOf(s *sdl2.Surface) driver.PixelFormat {
	switch s.Format.Format {
	case uint32(sdl2.PIXELFORMAT_RGBA32):
		return driver.FormatRGBA8888
	case uint32(sdl2.PIXELFORMAT_ABGR32):
		return driver.FormatABGR8888
	case uint32(sdl2.PIXELFORMAT_ARGB32):
		return driver.FormatARGB8888
	case uint32(sdl2.PIXELFORMAT_BGRA32):
		return driver.FormatBGRA8888
	case uint32(sdl2.PIXELFORMAT_RGB24):
		return driver.FormatRGB24
	}
	return driver.FormatUnknown
}

func windowFlags(f driver.WindowFlags) uint32 {
	var sf uint32
	if f&driver.WindowFullscreen != 0 {
		sf |= sdl2.WINDOW_FULLSCREEN
	}
	if f&driver.WindowHidden != 0 {
		sf |= sdl2.WINDOW_HIDDEN
	}
	if f&driver.WindowBorderless != 0 {
		sf |= sdl2.WINDOW_BORDERLESS
	}
	if f&driver.WindowResizable != 0 {
		sf |= sdl2.WINDOW_RESIZABLE
	}
	if f&driver.WindowMinimized != 0 {
		sf |= sdl2.WINDOW_MINIMIZED
	}
	if f&driver.WindowMaximized != 0 {
		sf |= sdl2.WINDOW_MAXIMIZED
	}
	if f&driver.WindowAllowHighDPI != 0 {
		sf |= sdl2.WINDOW_ALLOW_HIGHDPI
	}
	return sf
}

func rendererFlags(f driver.RendererFlags) uint32 {
	var sf uint32
	if f&driver.RendererSoftware != 0 {
		sf |= sdl2.RENDERER_SOFTWARE
	}
	if f&driver.RendererAccelerated != 0 {
		sf |= sdl2.RENDERER_ACCELERATED
	}
	if f&driver.RendererPresentVSync != 0 {
		sf |= sdl2.RENDERER_PRESENTVSYNC
	}
	if f&driver.RendererTargetTexture != 0 {
		sf |= sdl2.RENDERER_TARGETTEXTURE
	}
	return sf
}

func blendMode(bm driver.BlendMode) sdl2.BlendMode {
	switch bm {
	case driver.BlendAlpha:
		return sdl2.BLENDMODE_BLEND
	case driver.BlendAdd:
		return sdl2.BLENDMODE_ADD
	case driver.BlendMod:
		return sdl2.BLENDMODE_MOD
	}
	return sdl2.BLENDMODE_NONE
}

func audioFormat(f driver.AudioFormat) uint16 {
	switch f {
	case driver.AudioU8:
		return sdl2.AUDIO_U8
	case driver.AudioS8:
		return sdl2.AUDIO_S8
	case driver.AudioS16BE:
		return sdl2.AUDIO_S16MSB
	case driver.AudioF32:
		return sdl2.AUDIO_F32
	}
	return sdl2.AUDIO_S16LSB
}

func rect(r image.Rectangle) *sdl2.Rect {
	return &sdl2.Rect{X: int32(r.Min.X), Y: int32(r.Min.Y), W: int32(r.Dx()), H: int32(r.Dy())}
}
