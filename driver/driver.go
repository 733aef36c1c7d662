// Package driver defines the capability surface that a native 2D multimedia
// toolkit must provide in order to back the wrapper types of package mdl.
//
// A Driver implementation owns all toolkit-global state (library init/quit,
// event pump, the process-wide audio device). Individual resources are
// returned as opaque handles; the mdl wrappers own their lifecycle and call
// the matching release method exactly once.
//
// Drivers return plain errors carrying the toolkit's own diagnostic text.
// Operation identity is added by the caller.
//
package driver

import (
	"image"
	"image/color"
	"io"
)

// PixelFormat describes the in-memory byte order of a pixel buffer. Formats
// are named by byte order, not packed-integer order: RGBA8888 means the bytes
// R, G, B, A at increasing addresses regardless of host endianness.
//
type PixelFormat uint32

const (
	FormatUnknown PixelFormat = iota
	FormatRGBA8888
	FormatABGR8888
	FormatARGB8888
	FormatBGRA8888
	FormatRGB24
)

// BytesPerPixel returns the pixel stride of the format, or 0 for
// FormatUnknown.
//
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatRGBA8888, FormatABGR8888, FormatARGB8888, FormatBGRA8888:
		return 4
	case FormatRGB24:
		return 3
	}
	return 0
}

func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA8888:
		return "RGBA8888"
	case FormatABGR8888:
		return "ABGR8888"
	case FormatARGB8888:
		return "ARGB8888"
	case FormatBGRA8888:
		return "BGRA8888"
	case FormatRGB24:
		return "RGB24"
	}
	return "Unknown"
}

// TextureAccess selects the update path of a texture.
//
type TextureAccess int

const (
	AccessStatic    TextureAccess = iota // rarely updated, via Update only
	AccessStreaming                      // lockable for direct writes
	AccessTarget                         // usable as a render target
)

// BlendMode selects how copy and draw operations are composited onto the
// target.
//
type BlendMode int

const (
	BlendNone  BlendMode = iota // dst = src
	BlendAlpha                  // src-over using the source alpha
	BlendAdd                    // additive
	BlendMod                    // color modulate
)

// Flip is a bit set selecting source mirroring in copy operations.
//
type Flip int

const (
	FlipNone       Flip = 0x0
	FlipHorizontal Flip = 0x1
	FlipVertical   Flip = 0x2
)

// ScaleMode selects the filtering used when a copy scales its source.
//
type ScaleMode int

const (
	ScaleNearest ScaleMode = iota
	ScaleLinear
)

// WindowFlags is a bit set of window creation attributes.
//
type WindowFlags uint32

const (
	WindowFullscreen WindowFlags = 1 << iota
	WindowHidden
	WindowBorderless
	WindowResizable
	WindowMinimized
	WindowMaximized
	WindowAllowHighDPI
)

// WindowPosCentered requests that the windowing system center the window on
// the screen when passed as the x or y coordinate of CreateWindow.
//
const WindowPosCentered = -(1 << 29)

// RendererFlags is a bit set of renderer creation attributes.
//
type RendererFlags uint32

const (
	RendererSoftware RendererFlags = 1 << iota
	RendererAccelerated
	RendererPresentVSync
	RendererTargetTexture
)

// AudioFormat selects the sample format of the audio device.
//
type AudioFormat int

const (
	AudioU8 AudioFormat = iota
	AudioS8
	AudioS16
	AudioS16BE
	AudioF32
)

// Fading reports the fade state of a channel or of the music stream.
//
type Fading int

const (
	NoFading Fading = iota
	FadingOut
	FadingIn
)

// MaxVolume is the maximum volume of a channel, a chunk or the music stream.
//
const MaxVolume = 128

// Driver is the entry point of a toolkit backend.
//
// Init must be called once before any other method and Quit once after all
// resources have been released. Pump processes pending native events and
// reports whether the application has been asked to quit.
//
type Driver interface {
	Name() string
	Init() error
	Quit()
	Pump() (quit bool)

	CreateWindow(title string, x, y, w, h int, flags WindowFlags) (Window, error)
	CreateRenderer(w Window, flags RendererFlags) (Renderer, error)

	NewSurface(w, h int, f PixelFormat) (Surface, error)
	// NewSurfaceFrom wraps pix without copying it. The buffer must remain
	// valid for the lifetime of the surface.
	NewSurfaceFrom(pix []byte, w, h, pitch int, f PixelFormat) (Surface, error)
	LoadSurface(r io.Reader) (Surface, error)

	OpenAudio(freq int, f AudioFormat, channels, chunkSize int) (Audio, error)
}

// Window is a native window handle. The soft driver implements it as an
// off-screen backbuffer.
//
type Window interface {
	SetTitle(title string)
	Title() string
	SetPosition(x, y int)
	Position() (x, y int)
	SetSize(w, h int)
	Size() (w, h int)
	DrawableSize() (w, h int)
	SetIcon(s Surface) error
	SetOpacity(o float32) error
	Opacity() (float32, error)
	SetFullscreen(fs bool) error
	SetGrab(grabbed bool)
	Grabbed() bool
	Show()
	Hide()
	Raise()
	Maximize()
	Minimize()
	Restore()
	Destroy()
}

// Renderer is a native 2D rendering context bound to a single window.
//
// All rectangles are in target coordinates, already resolved by the caller:
// implementations never see optional (nil) geometry except where documented.
//
type Renderer interface {
	CreateTexture(f PixelFormat, access TextureAccess, w, h int) (Texture, error)
	CreateTextureFromSurface(s Surface) (Texture, error)

	Clear() error
	Present()
	SetDrawColor(c color.NRGBA) error
	DrawColor() (color.NRGBA, error)
	SetDrawBlendMode(bm BlendMode) error
	DrawBlendMode() (BlendMode, error)

	DrawPoints(pts []image.Point) error
	DrawLines(pts []image.Point) error
	DrawRects(rs []image.Rectangle) error
	FillRects(rs []image.Rectangle) error

	// Copy copies src from the texture to dst on the current target,
	// scaling as needed and mirroring the source per flip.
	Copy(t Texture, src, dst image.Rectangle, flip Flip) error

	// SetTarget redirects rendering to t, or back to the window
	// backbuffer when t is nil.
	SetTarget(t Texture) error
	Target() Texture

	SetClipRect(r image.Rectangle, enable bool) error
	ClipRect() (r image.Rectangle, enabled bool)
	SetViewport(r image.Rectangle) error
	Viewport() image.Rectangle
	SetLogicalSize(w, h int) error
	LogicalSize() (w, h int)
	SetScale(sx, sy float32) error
	Scale() (sx, sy float32)

	// OutputSize reports the pixel size of the current render target.
	OutputSize() (w, h int, err error)
	ReadPixels(r image.Rectangle, f PixelFormat, pix []byte, pitch int) error

	Destroy()
}

// Texture is a native texture handle, usable only with the renderer that
// created it.
//
type Texture interface {
	Query() (f PixelFormat, access TextureAccess, w, h int, err error)
	Update(r image.Rectangle, pix []byte, pitch int) error
	Lock(r image.Rectangle) (pix []byte, pitch int, err error)
	Unlock()
	SetBlendMode(bm BlendMode) error
	BlendMode() (BlendMode, error)
	SetColorMod(r, g, b uint8) error
	ColorMod() (r, g, b uint8, err error)
	SetAlphaMod(a uint8) error
	AlphaMod() (uint8, error)
	SetScaleMode(m ScaleMode) error
	Destroy()
}

// Surface is a software pixel buffer.
//
type Surface interface {
	Size() (w, h int)
	Format() PixelFormat
	Pitch() int
	Lock() (pix []byte, pitch int, err error)
	Unlock()
	Convert(f PixelFormat) (Surface, error)
	// Blit copies src from the surface to dst starting at the origin of
	// dst, clipped by the destination clip rectangle. dst extents are
	// ignored (no scaling).
	Blit(src image.Rectangle, dst Surface, dstPos image.Point) error
	BlitScaled(src image.Rectangle, dst Surface, dstRect image.Rectangle) error
	FillRect(r image.Rectangle, c color.NRGBA) error
	SetClipRect(r image.Rectangle) bool
	ClipRect() image.Rectangle
	SetColorKey(enable bool, c color.NRGBA) error
	ColorKey() (c color.NRGBA, enabled bool, err error)
	SetBlendMode(bm BlendMode) error
	BlendMode() (BlendMode, error)
	SetAlphaMod(a uint8) error
	AlphaMod() (uint8, error)
	SetColorMod(r, g, b uint8) error
	ColorMod() (r, g, b uint8, err error)
	Free()
}

// Audio is an open audio device. Toolkits support a single open device at a
// time; OpenAudio fails while another device is open.
//
// Channel arguments follow the native convention: -1 selects the first free
// channel in play calls and all channels in control calls.
//
type Audio interface {
	AllocateChannels(n int) int
	ReserveChannels(n int) int
	Volume(ch, v int) int

	LoadChunk(r io.Reader) (Chunk, error)
	LoadMusic(r io.Reader) (Music, error)

	PlayChannel(ch int, c Chunk, loops int) (int, error)
	PlayChannelTimed(ch int, c Chunk, loops, ticks int) (int, error)
	FadeInChannel(ch int, c Chunk, loops, ms int) (int, error)
	FadeInChannelTimed(ch int, c Chunk, loops, ms, ticks int) (int, error)
	Pause(ch int)
	Resume(ch int)
	HaltChannel(ch int)
	ExpireChannel(ch, ticks int) int
	FadeOutChannel(ch, ms int) int
	Playing(ch int) int
	Paused(ch int) int
	FadingChannel(ch int) Fading
	ChannelFinished(f func(ch int))

	GroupChannel(ch, tag int) bool
	GroupChannels(from, to, tag int) int
	GroupCount(tag int) int
	GroupAvailable(tag int) int
	GroupOldest(tag int) int
	GroupNewer(tag int) int
	FadeOutGroup(tag, ms int) int
	HaltGroup(tag int)

	PlayMusic(m Music, loops int) error
	FadeInMusic(m Music, loops, ms int) error
	VolumeMusic(v int) int
	PauseMusic()
	ResumeMusic()
	RewindMusic()
	SetMusicPosition(pos float64) error
	HaltMusic()
	FadeOutMusic(ms int) bool
	PlayingMusic() bool
	PausedMusic() bool
	FadingMusic() Fading
	MusicFinished(f func())
	// SetMusicHook diverts music playback to f, which must fill the
	// passed buffer with sample data. A nil hook restores normal playback.
	SetMusicHook(f func(buf []byte))

	SetPanning(ch int, left, right uint8) error
	SetDistance(ch int, distance uint8) error
	SetPosition(ch int, angle int16, distance uint8) error
	SetReverseStereo(ch int, reverse bool) error

	Close()
}

// Chunk is a decoded sound usable on mixer channels.
//
type Chunk interface {
	// Volume sets the chunk volume and returns the previous value. A
	// negative v only queries.
	Volume(v int) int
	Free()
}

// Music is a streamed music track.
//
type Music interface {
	Free()
}
