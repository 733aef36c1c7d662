package mdl

import (
	"image"
	"image/color"
	"io"
	"io/ioutil"
	"testing"

	"github.com/pkg/errors"

	"github.com/db47h/mdl/driver"
)

// errNative is the failure injected into mock calls.
var errNative = errors.New("native failure")

// mockDriver implements driver.Driver, recording every native call by its
// interface method name and failing the ones listed in the fail map. It
// backs the ownership and error path tests, where the soft driver is too
// well behaved to be of any use.
//
type mockDriver struct {
	calls []string
	fail  map[string]error
	quit  bool
	audio *mockAudio
}

func newMock() *mockDriver {
	return &mockDriver{fail: make(map[string]error)}
}

func (d *mockDriver) failOn(names ...string) {
	for _, n := range names {
		d.fail[n] = errNative
	}
}

// op records a native call and returns the injected failure, if any.
func (d *mockDriver) op(name string) error {
	d.calls = append(d.calls, name)
	return d.fail[name]
}

// count returns the number of recorded calls to name.
func (d *mockDriver) count(name string) int {
	n := 0
	for _, c := range d.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (d *mockDriver) Name() string { return "mock" }
func (d *mockDriver) Init() error  { return d.op("Init") }
func (d *mockDriver) Quit()        { d.op("Quit") }

func (d *mockDriver) Pump() bool {
	d.op("Pump")
	return d.quit
}

func (d *mockDriver) CreateWindow(title string, x, y, w, h int, flags driver.WindowFlags) (driver.Window, error) {
	if err := d.op("CreateWindow"); err != nil {
		return nil, err
	}
	return &mockWindow{d: d, title: title, x: x, y: y, w: w, h: h, flags: flags}, nil
}

func (d *mockDriver) CreateRenderer(w driver.Window, flags driver.RendererFlags) (driver.Renderer, error) {
	if err := d.op("CreateRenderer"); err != nil {
		return nil, err
	}
	mw := w.(*mockWindow)
	return &mockRenderer{d: d, w: mw.w, h: mw.h, sx: 1, sy: 1, failAfter: -1}, nil
}

func (d *mockDriver) NewSurface(w, h int, f driver.PixelFormat) (driver.Surface, error) {
	if err := d.op("NewSurface"); err != nil {
		return nil, err
	}
	pitch := w * f.BytesPerPixel()
	return &mockSurface{d: d, w: w, h: h, pitch: pitch, format: f,
		pix: make([]byte, h*pitch), clip: image.Rect(0, 0, w, h)}, nil
}

func (d *mockDriver) NewSurfaceFrom(pix []byte, w, h, pitch int, f driver.PixelFormat) (driver.Surface, error) {
	if err := d.op("NewSurfaceFrom"); err != nil {
		return nil, err
	}
	return &mockSurface{d: d, w: w, h: h, pitch: pitch, format: f,
		pix: pix, clip: image.Rect(0, 0, w, h)}, nil
}

func (d *mockDriver) LoadSurface(r io.Reader) (driver.Surface, error) {
	if err := d.op("LoadSurface"); err != nil {
		return nil, err
	}
	if _, err := ioutil.ReadAll(r); err != nil {
		return nil, err
	}
	return d.NewSurface(1, 1, driver.FormatRGBA8888)
}

func (d *mockDriver) OpenAudio(freq int, f driver.AudioFormat, channels, chunkSize int) (driver.Audio, error) {
	if err := d.op("OpenAudio"); err != nil {
		return nil, err
	}
	if d.audio != nil {
		return nil, errors.New("audio device already open")
	}
	d.audio = &mockAudio{d: d}
	return d.audio, nil
}

type mockWindow struct {
	d         *mockDriver
	title     string
	x, y      int
	w, h      int
	flags     driver.WindowFlags
	grabbed   bool
	destroyed int
}

func (w *mockWindow) SetTitle(title string) { w.title = title }
func (w *mockWindow) Title() string         { return w.title }
func (w *mockWindow) SetPosition(x, y int)  { w.x, w.y = x, y }
func (w *mockWindow) Position() (int, int)  { return w.x, w.y }

func (w *mockWindow) SetSize(width, height int) { w.w, w.h = width, height }
func (w *mockWindow) Size() (int, int)          { return w.w, w.h }
func (w *mockWindow) DrawableSize() (int, int)  { return w.w, w.h }

func (w *mockWindow) SetIcon(s driver.Surface) error { return w.d.op("SetIcon") }
func (w *mockWindow) SetOpacity(o float32) error     { return w.d.op("SetOpacity") }
func (w *mockWindow) Opacity() (float32, error)      { return 1, w.d.op("Opacity") }
func (w *mockWindow) SetFullscreen(fs bool) error    { return w.d.op("SetFullscreen") }

func (w *mockWindow) SetGrab(grabbed bool) { w.grabbed = grabbed }
func (w *mockWindow) Grabbed() bool        { return w.grabbed }

func (w *mockWindow) Show()     {}
func (w *mockWindow) Hide()     {}
func (w *mockWindow) Raise()    {}
func (w *mockWindow) Maximize() {}
func (w *mockWindow) Minimize() {}
func (w *mockWindow) Restore()  {}

func (w *mockWindow) Destroy() { w.destroyed++ }

// copyCall records the resolved geometry of one native copy.
type copyCall struct {
	src, dst image.Rectangle
	flip     driver.Flip
}

type mockRenderer struct {
	d      *mockDriver
	w, h   int
	copies []copyCall
	// failAfter fails the copy once this many have been recorded, -1 never.
	failAfter int

	color       color.NRGBA
	blend       driver.BlendMode
	target      driver.Texture
	clip        image.Rectangle
	clipEnabled bool
	vp          image.Rectangle
	logW, logH  int
	sx, sy      float32
	lastTex     *mockTexture
	destroyed   int
}

func (r *mockRenderer) CreateTexture(f driver.PixelFormat, access driver.TextureAccess, w, h int) (driver.Texture, error) {
	if err := r.d.op("CreateTexture"); err != nil {
		return nil, err
	}
	r.lastTex = newMockTexture(r.d, f, access, w, h)
	return r.lastTex, nil
}

func (r *mockRenderer) CreateTextureFromSurface(s driver.Surface) (driver.Texture, error) {
	if err := r.d.op("CreateTextureFromSurface"); err != nil {
		return nil, err
	}
	ms := s.(*mockSurface)
	r.lastTex = newMockTexture(r.d, ms.format, driver.AccessStatic, ms.w, ms.h)
	return r.lastTex, nil
}

func (r *mockRenderer) Clear() error { return r.d.op("Clear") }
func (r *mockRenderer) Present()     { r.d.op("Present") }

func (r *mockRenderer) SetDrawColor(c color.NRGBA) error {
	r.color = c
	return r.d.op("SetDrawColor")
}

func (r *mockRenderer) DrawColor() (color.NRGBA, error) {
	return r.color, r.d.op("DrawColor")
}

func (r *mockRenderer) SetDrawBlendMode(bm driver.BlendMode) error {
	r.blend = bm
	return r.d.op("SetDrawBlendMode")
}

func (r *mockRenderer) DrawBlendMode() (driver.BlendMode, error) {
	return r.blend, r.d.op("DrawBlendMode")
}

func (r *mockRenderer) DrawPoints(pts []image.Point) error   { return r.d.op("DrawPoints") }
func (r *mockRenderer) DrawLines(pts []image.Point) error    { return r.d.op("DrawLines") }
func (r *mockRenderer) DrawRects(rs []image.Rectangle) error { return r.d.op("DrawRects") }
func (r *mockRenderer) FillRects(rs []image.Rectangle) error { return r.d.op("FillRects") }

func (r *mockRenderer) Copy(t driver.Texture, src, dst image.Rectangle, flip driver.Flip) error {
	if err := r.d.op("Copy"); err != nil {
		return err
	}
	if r.failAfter >= 0 && len(r.copies) >= r.failAfter {
		return errNative
	}
	r.copies = append(r.copies, copyCall{src: src, dst: dst, flip: flip})
	return nil
}

func (r *mockRenderer) SetTarget(t driver.Texture) error {
	if err := r.d.op("SetTarget"); err != nil {
		return err
	}
	r.target = t
	return nil
}

func (r *mockRenderer) Target() driver.Texture { return r.target }

func (r *mockRenderer) SetClipRect(rc image.Rectangle, enable bool) error {
	r.clip, r.clipEnabled = rc, enable
	return r.d.op("SetClipRect")
}

func (r *mockRenderer) ClipRect() (image.Rectangle, bool) {
	return r.clip, r.clipEnabled
}

func (r *mockRenderer) SetViewport(rc image.Rectangle) error {
	r.vp = rc
	return r.d.op("SetViewport")
}

func (r *mockRenderer) Viewport() image.Rectangle { return r.vp }

func (r *mockRenderer) SetLogicalSize(w, h int) error {
	r.logW, r.logH = w, h
	return r.d.op("SetLogicalSize")
}

func (r *mockRenderer) LogicalSize() (int, int) { return r.logW, r.logH }

func (r *mockRenderer) SetScale(sx, sy float32) error {
	r.sx, r.sy = sx, sy
	return r.d.op("SetScale")
}

func (r *mockRenderer) Scale() (float32, float32) { return r.sx, r.sy }

func (r *mockRenderer) OutputSize() (int, int, error) {
	return r.w, r.h, r.d.op("OutputSize")
}

func (r *mockRenderer) ReadPixels(rc image.Rectangle, f driver.PixelFormat, pix []byte, pitch int) error {
	return r.d.op("ReadPixels")
}

func (r *mockRenderer) Destroy() { r.destroyed++ }

type mockTexture struct {
	d                *mockDriver
	format           driver.PixelFormat
	access           driver.TextureAccess
	w, h             int
	blend            driver.BlendMode
	scale            driver.ScaleMode
	modR, modG, modB uint8
	modA             uint8
	lastUpdate       image.Rectangle
	locks, unlocks   int
	destroyed        int
}

func newMockTexture(d *mockDriver, f driver.PixelFormat, access driver.TextureAccess, w, h int) *mockTexture {
	return &mockTexture{d: d, format: f, access: access, w: w, h: h,
		modR: 0xff, modG: 0xff, modB: 0xff, modA: 0xff}
}

func (t *mockTexture) Query() (driver.PixelFormat, driver.TextureAccess, int, int, error) {
	return t.format, t.access, t.w, t.h, t.d.op("Query")
}

func (t *mockTexture) Update(r image.Rectangle, pix []byte, pitch int) error {
	t.lastUpdate = r
	return t.d.op("Update")
}

func (t *mockTexture) Lock(r image.Rectangle) ([]byte, int, error) {
	if err := t.d.op("Lock"); err != nil {
		return nil, 0, err
	}
	t.locks++
	pitch := r.Dx() * t.format.BytesPerPixel()
	return make([]byte, r.Dy()*pitch), pitch, nil
}

func (t *mockTexture) Unlock() { t.unlocks++ }

func (t *mockTexture) SetBlendMode(bm driver.BlendMode) error {
	if err := t.d.op("SetBlendMode"); err != nil {
		return err
	}
	t.blend = bm
	return nil
}

func (t *mockTexture) BlendMode() (driver.BlendMode, error) {
	return t.blend, t.d.op("BlendMode")
}

func (t *mockTexture) SetColorMod(r, g, b uint8) error {
	t.modR, t.modG, t.modB = r, g, b
	return t.d.op("SetColorMod")
}

func (t *mockTexture) ColorMod() (uint8, uint8, uint8, error) {
	return t.modR, t.modG, t.modB, t.d.op("ColorMod")
}

func (t *mockTexture) SetAlphaMod(a uint8) error {
	t.modA = a
	return t.d.op("SetAlphaMod")
}

func (t *mockTexture) AlphaMod() (uint8, error) {
	return t.modA, t.d.op("AlphaMod")
}

func (t *mockTexture) SetScaleMode(m driver.ScaleMode) error {
	if err := t.d.op("SetScaleMode"); err != nil {
		return err
	}
	t.scale = m
	return nil
}

func (t *mockTexture) Destroy() { t.destroyed++ }

type mockSurface struct {
	d              *mockDriver
	w, h           int
	pitch          int
	format         driver.PixelFormat
	pix            []byte
	clip           image.Rectangle
	key            color.NRGBA
	hasKey         bool
	blend          driver.BlendMode
	modR, modG     uint8
	modB, modA     uint8
	lastBlitSrc    image.Rectangle
	lastBlitPos    image.Point
	lastScaledDst  image.Rectangle
	lastFill       image.Rectangle
	locks, unlocks int
	freed          int
}

func (s *mockSurface) Size() (int, int)           { return s.w, s.h }
func (s *mockSurface) Format() driver.PixelFormat { return s.format }
func (s *mockSurface) Pitch() int                 { return s.pitch }

func (s *mockSurface) Lock() ([]byte, int, error) {
	if err := s.d.op("SurfaceLock"); err != nil {
		return nil, 0, err
	}
	s.locks++
	return s.pix, s.pitch, nil
}

func (s *mockSurface) Unlock() { s.unlocks++ }

func (s *mockSurface) Convert(f driver.PixelFormat) (driver.Surface, error) {
	if err := s.d.op("Convert"); err != nil {
		return nil, err
	}
	pitch := s.w * f.BytesPerPixel()
	return &mockSurface{d: s.d, w: s.w, h: s.h, pitch: pitch, format: f,
		pix: make([]byte, s.h*pitch), clip: image.Rect(0, 0, s.w, s.h)}, nil
}

func (s *mockSurface) Blit(src image.Rectangle, dst driver.Surface, dstPos image.Point) error {
	s.lastBlitSrc, s.lastBlitPos = src, dstPos
	return s.d.op("Blit")
}

func (s *mockSurface) BlitScaled(src image.Rectangle, dst driver.Surface, dstRect image.Rectangle) error {
	s.lastBlitSrc, s.lastScaledDst = src, dstRect
	return s.d.op("BlitScaled")
}

func (s *mockSurface) FillRect(r image.Rectangle, c color.NRGBA) error {
	s.lastFill = r
	return s.d.op("FillRect")
}

func (s *mockSurface) SetClipRect(r image.Rectangle) bool {
	s.d.op("SetClipRect")
	s.clip = r.Intersect(image.Rect(0, 0, s.w, s.h))
	return !s.clip.Empty()
}

func (s *mockSurface) ClipRect() image.Rectangle { return s.clip }

func (s *mockSurface) SetColorKey(enable bool, c color.NRGBA) error {
	s.key, s.hasKey = c, enable
	return s.d.op("SetColorKey")
}

func (s *mockSurface) ColorKey() (color.NRGBA, bool, error) {
	return s.key, s.hasKey, s.d.op("ColorKey")
}

func (s *mockSurface) SetBlendMode(bm driver.BlendMode) error {
	s.blend = bm
	return s.d.op("SurfaceSetBlendMode")
}

func (s *mockSurface) BlendMode() (driver.BlendMode, error) {
	return s.blend, s.d.op("SurfaceBlendMode")
}

func (s *mockSurface) SetAlphaMod(a uint8) error {
	s.modA = a
	return s.d.op("SurfaceSetAlphaMod")
}

func (s *mockSurface) AlphaMod() (uint8, error) {
	return s.modA, s.d.op("SurfaceAlphaMod")
}

func (s *mockSurface) SetColorMod(r, g, b uint8) error {
	s.modR, s.modG, s.modB = r, g, b
	return s.d.op("SurfaceSetColorMod")
}

func (s *mockSurface) ColorMod() (uint8, uint8, uint8, error) {
	return s.modR, s.modG, s.modB, s.d.op("SurfaceColorMod")
}

func (s *mockSurface) Free() { s.freed++ }

// mockAudio implements driver.Audio with fixed return values; behavioral
// audio tests run against the soft driver instead.
//
type mockAudio struct {
	d        *mockDriver
	finished func(int)
	done     func()
	hook     func([]byte)
	lastCh   int
	closed   int
}

func (a *mockAudio) AllocateChannels(n int) int { a.d.op("AllocateChannels"); return n }
func (a *mockAudio) ReserveChannels(n int) int  { a.d.op("ReserveChannels"); return n }

func (a *mockAudio) Volume(ch, v int) int {
	a.d.op("Volume")
	return driver.MaxVolume
}

func (a *mockAudio) LoadChunk(r io.Reader) (driver.Chunk, error) {
	if err := a.d.op("LoadChunk"); err != nil {
		return nil, err
	}
	if _, err := ioutil.ReadAll(r); err != nil {
		return nil, err
	}
	return &mockChunk{vol: driver.MaxVolume}, nil
}

func (a *mockAudio) LoadMusic(r io.Reader) (driver.Music, error) {
	if err := a.d.op("LoadMusic"); err != nil {
		return nil, err
	}
	if _, err := ioutil.ReadAll(r); err != nil {
		return nil, err
	}
	return &mockMusic{}, nil
}

// play resolves the channel the way the native mixer does: -1 picks one.
func (a *mockAudio) play(name string, ch int) (int, error) {
	if err := a.d.op(name); err != nil {
		return -1, err
	}
	if ch == -1 {
		ch = 0
	}
	a.lastCh = ch
	return ch, nil
}

func (a *mockAudio) PlayChannel(ch int, c driver.Chunk, loops int) (int, error) {
	return a.play("PlayChannel", ch)
}

func (a *mockAudio) PlayChannelTimed(ch int, c driver.Chunk, loops, ticks int) (int, error) {
	return a.play("PlayChannelTimed", ch)
}

func (a *mockAudio) FadeInChannel(ch int, c driver.Chunk, loops, ms int) (int, error) {
	return a.play("FadeInChannel", ch)
}

func (a *mockAudio) FadeInChannelTimed(ch int, c driver.Chunk, loops, ms, ticks int) (int, error) {
	return a.play("FadeInChannelTimed", ch)
}

func (a *mockAudio) Pause(ch int)       { a.d.op("Pause") }
func (a *mockAudio) Resume(ch int)      { a.d.op("Resume") }
func (a *mockAudio) HaltChannel(ch int) { a.d.op("HaltChannel") }

func (a *mockAudio) ExpireChannel(ch, ticks int) int { a.d.op("ExpireChannel"); return 1 }
func (a *mockAudio) FadeOutChannel(ch, ms int) int   { a.d.op("FadeOutChannel"); return 1 }

func (a *mockAudio) Playing(ch int) int { a.d.op("Playing"); return 0 }
func (a *mockAudio) Paused(ch int) int  { a.d.op("Paused"); return 0 }

func (a *mockAudio) FadingChannel(ch int) driver.Fading { return driver.NoFading }

func (a *mockAudio) ChannelFinished(f func(ch int)) { a.finished = f }

func (a *mockAudio) GroupChannel(ch, tag int) bool {
	a.d.op("GroupChannel")
	return ch >= 0 && ch < 8
}

func (a *mockAudio) GroupChannels(from, to, tag int) int {
	a.d.op("GroupChannels")
	n := 0
	for ch := from; ch <= to; ch++ {
		if ch >= 0 && ch < 8 {
			n++
		}
	}
	return n
}

func (a *mockAudio) GroupCount(tag int) int     { return 8 }
func (a *mockAudio) GroupAvailable(tag int) int { return -1 }
func (a *mockAudio) GroupOldest(tag int) int    { return -1 }
func (a *mockAudio) GroupNewer(tag int) int     { return -1 }

func (a *mockAudio) FadeOutGroup(tag, ms int) int { return 0 }
func (a *mockAudio) HaltGroup(tag int)            { a.d.op("HaltGroup") }

func (a *mockAudio) PlayMusic(m driver.Music, loops int) error {
	return a.d.op("PlayMusic")
}

func (a *mockAudio) FadeInMusic(m driver.Music, loops, ms int) error {
	return a.d.op("FadeInMusic")
}

func (a *mockAudio) VolumeMusic(v int) int { a.d.op("VolumeMusic"); return driver.MaxVolume }

func (a *mockAudio) PauseMusic()  { a.d.op("PauseMusic") }
func (a *mockAudio) ResumeMusic() { a.d.op("ResumeMusic") }
func (a *mockAudio) RewindMusic() { a.d.op("RewindMusic") }

func (a *mockAudio) SetMusicPosition(pos float64) error { return a.d.op("SetMusicPosition") }

func (a *mockAudio) HaltMusic()               { a.d.op("HaltMusic") }
func (a *mockAudio) FadeOutMusic(ms int) bool { a.d.op("FadeOutMusic"); return true }

func (a *mockAudio) PlayingMusic() bool         { return false }
func (a *mockAudio) PausedMusic() bool          { return false }
func (a *mockAudio) FadingMusic() driver.Fading { return driver.NoFading }

func (a *mockAudio) MusicFinished(f func())          { a.done = f }
func (a *mockAudio) SetMusicHook(f func(buf []byte)) { a.hook = f }

func (a *mockAudio) SetPanning(ch int, left, right uint8) error {
	return a.d.op("SetPanning")
}

func (a *mockAudio) SetDistance(ch int, distance uint8) error {
	return a.d.op("SetDistance")
}

func (a *mockAudio) SetPosition(ch int, angle int16, distance uint8) error {
	return a.d.op("SetPosition")
}

func (a *mockAudio) SetReverseStereo(ch int, reverse bool) error {
	return a.d.op("SetReverseStereo")
}

func (a *mockAudio) Close() {
	a.closed++
	a.d.audio = nil
}

type mockChunk struct {
	vol   int
	freed int
}

func (c *mockChunk) Volume(v int) int {
	prev := c.vol
	if v >= 0 {
		c.vol = v
	}
	return prev
}

func (c *mockChunk) Free() { c.freed++ }

type mockMusic struct {
	freed int
}

func (m *mockMusic) Free() { m.freed++ }

// newTestLib returns a Lib backed by a fresh mock driver.
func newTestLib(t *testing.T) (*Lib, *mockDriver) {
	t.Helper()
	d := newMock()
	l, err := Init(WithDriver(d))
	if err != nil {
		t.Fatal(err)
	}
	return l, d
}
