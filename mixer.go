package mdl

import (
	"io"
	"os"

	"github.com/db47h/mdl/driver"
	"github.com/pkg/errors"
)

// AudioFormat is the sample format of the audio device.
//
type AudioFormat driver.AudioFormat

const (
	AudioU8    = AudioFormat(driver.AudioU8)
	AudioS8    = AudioFormat(driver.AudioS8)
	AudioS16   = AudioFormat(driver.AudioS16)
	AudioS16BE = AudioFormat(driver.AudioS16BE)
	AudioF32   = AudioFormat(driver.AudioF32)
)

// Fading reports the fade state of a channel or of the music stream.
//
type Fading driver.Fading

const (
	NoFading  = Fading(driver.NoFading)
	FadingOut = Fading(driver.FadingOut)
	FadingIn  = Fading(driver.FadingIn)
)

// MaxVolume is the maximum value accepted by the volume setters.
const MaxVolume = driver.MaxVolume

// Default audio device parameters used by OpenMixer when no option
// overrides them.
const (
	DefaultFrequency = 22050
	DefaultFormat    = AudioS16
	DefaultChannels  = 2
	DefaultChunkSize = 1024
)

// AnyChannel selects the first free channel when passed to the play
// functions. AllChannels addresses every channel in the halt, pause,
// volume and expire functions.
const (
	AnyChannel  = -1
	AllChannels = -1
)

type mixCfg struct {
	freq      int
	format    AudioFormat
	channels  int
	chunkSize int
}

// A MixerOption is an option for OpenMixer.
//
type MixerOption interface {
	set(*mixCfg)
}

type mixOption func(*mixCfg)

func (f mixOption) set(c *mixCfg) { f(c) }

// Frequency sets the output sampling frequency in Hz.
//
func Frequency(hz int) MixerOption {
	return mixOption(func(c *mixCfg) { c.freq = hz })
}

// SampleFormat sets the output sample format.
//
func SampleFormat(f AudioFormat) MixerOption {
	return mixOption(func(c *mixCfg) { c.format = f })
}

// OutputChannels sets the number of output channels: 1 for mono, 2 for
// stereo.
//
func OutputChannels(n int) MixerOption {
	return mixOption(func(c *mixCfg) { c.channels = n })
}

// ChunkSize sets the size of the mixing buffer in sample frames.
//
func ChunkSize(n int) MixerOption {
	return mixOption(func(c *mixCfg) { c.chunkSize = n })
}

// A Mixer wraps an open audio device together with its mixing channels.
// Only one device can be open at a time per driver; OpenMixer fails while
// another Mixer is live.
//
type Mixer struct {
	h      driver.Audio
	noCopy noCopy
}

// OpenMixer opens the audio device. Parameters not set by an option take
// the package defaults (22050 Hz, signed 16 bit, stereo, 1024 sample
// frames).
//
func (l *Lib) OpenMixer(opts ...MixerOption) (*Mixer, error) {
	c := mixCfg{
		freq:      DefaultFrequency,
		format:    DefaultFormat,
		channels:  DefaultChannels,
		chunkSize: DefaultChunkSize,
	}
	for _, o := range opts {
		o.set(&c)
	}
	h, err := l.driver().OpenAudio(c.freq, driver.AudioFormat(c.format), c.channels, c.chunkSize)
	if err != nil {
		return nil, acquireErr("OpenAudio", err)
	}
	return &Mixer{h: h}, nil
}

// MixerFrom wraps an already open native audio device. It panics if h is
// nil.
//
func MixerFrom(h driver.Audio) *Mixer {
	if h == nil {
		panic("mdl: MixerFrom: nil native handle")
	}
	return &Mixer{h: h}
}

// Native returns the wrapped native device without transferring ownership.
// It returns nil on an empty Mixer.
//
func (m *Mixer) Native() driver.Audio {
	return m.h
}

// Close halts playback and closes the audio device. It is a no-op on an
// empty Mixer.
//
func (m *Mixer) Close() {
	if m.h == nil {
		return
	}
	m.h.Close()
	m.h = nil
}

// Take transfers ownership of src's device to m, closing any device m
// currently owns. After the call src is empty and releases nothing. Taking
// from itself is a no-op.
//
func (m *Mixer) Take(src *Mixer) {
	if m == src {
		return
	}
	m.Close()
	m.h = src.h
	src.h = nil
}

// Detach relinquishes ownership of the native device and returns it
// without closing it. The Mixer is left empty.
//
func (m *Mixer) Detach() driver.Audio {
	h := m.h
	m.h = nil
	return h
}

func (m *Mixer) native() driver.Audio {
	if m.h == nil {
		panic("mdl: use of empty Mixer")
	}
	return m.h
}

// AllocateChannels sets the number of mixing channels and returns the
// number allocated. Channels cut by a shrink are halted first.
//
func (m *Mixer) AllocateChannels(n int) int {
	return m.native().AllocateChannels(n)
}

// ReserveChannels reserves the first n channels from being used by plays
// on AnyChannel. It returns the number reserved.
//
func (m *Mixer) ReserveChannels(n int) int {
	return m.native().ReserveChannels(n)
}

// SetVolume sets the volume of a channel, 0 to MaxVolume, and returns the
// previous value. AllChannels sets every channel and returns the average.
//
func (m *Mixer) SetVolume(ch, v int) int {
	return m.native().Volume(ch, v)
}

// Volume returns the volume of a channel, or the average over all
// channels for AllChannels.
//
func (m *Mixer) Volume(ch int) int {
	return m.native().Volume(ch, -1)
}

// LoadChunk loads a sound sample from a WAV stream.
//
func (m *Mixer) LoadChunk(r io.Reader) (*Chunk, error) {
	h, err := m.native().LoadChunk(r)
	if err != nil {
		return nil, acquireErr("LoadWAV", err)
	}
	return &Chunk{h: h}, nil
}

// LoadChunkFile loads a sound sample from a WAV file.
//
func (m *Mixer) LoadChunkFile(path string) (*Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return m.LoadChunk(f)
}

// LoadMusic loads a music stream.
//
func (m *Mixer) LoadMusic(r io.Reader) (*Music, error) {
	h, err := m.native().LoadMusic(r)
	if err != nil {
		return nil, acquireErr("LoadMusic", err)
	}
	return &Music{h: h}, nil
}

// LoadMusicFile loads a music stream from a file.
//
func (m *Mixer) LoadMusicFile(path string) (*Music, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return m.LoadMusic(f)
}

// PlayChannel plays a chunk on the given channel, AnyChannel for the first
// free one, looping loops extra times (-1 loops forever). It returns the
// channel the chunk plays on.
//
func (m *Mixer) PlayChannel(ch int, c *Chunk, loops int) (int, error) {
	ch, err := m.native().PlayChannel(ch, c.native(), loops)
	return ch, opErr("PlayChannel", err)
}

// PlayChannelTimed is PlayChannel with playback cut after ticks
// milliseconds (-1 for no limit).
//
func (m *Mixer) PlayChannelTimed(ch int, c *Chunk, loops, ticks int) (int, error) {
	ch, err := m.native().PlayChannelTimed(ch, c.native(), loops, ticks)
	return ch, opErr("PlayChannelTimed", err)
}

// FadeInChannel is PlayChannel with the volume faded in over ms
// milliseconds.
//
func (m *Mixer) FadeInChannel(ch int, c *Chunk, loops, ms int) (int, error) {
	ch, err := m.native().FadeInChannel(ch, c.native(), loops, ms)
	return ch, opErr("FadeInChannel", err)
}

// FadeInChannelTimed is FadeInChannel with playback cut after ticks
// milliseconds (-1 for no limit).
//
func (m *Mixer) FadeInChannelTimed(ch int, c *Chunk, loops, ms, ticks int) (int, error) {
	ch, err := m.native().FadeInChannelTimed(ch, c.native(), loops, ms, ticks)
	return ch, opErr("FadeInChannelTimed", err)
}

// Pause pauses a channel, or every channel for AllChannels.
//
func (m *Mixer) Pause(ch int) {
	m.native().Pause(ch)
}

// Resume unpauses a channel, or every channel for AllChannels.
//
func (m *Mixer) Resume(ch int) {
	m.native().Resume(ch)
}

// HaltChannel stops a channel, or every channel for AllChannels.
//
func (m *Mixer) HaltChannel(ch int) {
	m.native().HaltChannel(ch)
}

// ExpireChannel halts a channel after ticks milliseconds and returns the
// number of channels set to expire. AllChannels addresses every channel, a
// negative ticks cancels a pending expiration.
//
func (m *Mixer) ExpireChannel(ch, ticks int) int {
	return m.native().ExpireChannel(ch, ticks)
}

// FadeOutChannel fades a channel out over ms milliseconds, halting it
// afterwards. It returns the number of channels set to fade.
//
func (m *Mixer) FadeOutChannel(ch, ms int) int {
	return m.native().FadeOutChannel(ch, ms)
}

// Playing reports whether the given channel is playing.
//
func (m *Mixer) Playing(ch int) bool {
	return m.native().Playing(ch) != 0
}

// PlayingCount returns the number of channels currently playing.
//
func (m *Mixer) PlayingCount() int {
	return m.native().Playing(-1)
}

// Paused reports whether the given channel is paused.
//
func (m *Mixer) Paused(ch int) bool {
	return m.native().Paused(ch) != 0
}

// PausedCount returns the number of channels currently paused.
//
func (m *Mixer) PausedCount() int {
	return m.native().Paused(-1)
}

// FadingChannel returns the fade state of a channel.
//
func (m *Mixer) FadingChannel(ch int) Fading {
	return Fading(m.native().FadingChannel(ch))
}

// ChannelFinished registers f to be called whenever a channel stops
// playing. A nil f removes the callback. f must not call back into the
// Mixer.
//
func (m *Mixer) ChannelFinished(f func(ch int)) {
	m.native().ChannelFinished(f)
}

// GroupChannel adds a channel to the group identified by tag. A tag of -1
// removes the channel from its group.
//
func (m *Mixer) GroupChannel(ch, tag int) error {
	if !m.native().GroupChannel(ch, tag) {
		return opErr("GroupChannel", errors.Errorf("invalid channel %d", ch))
	}
	return nil
}

// GroupChannels adds channels from through to, inclusive, to the group
// identified by tag.
//
func (m *Mixer) GroupChannels(from, to, tag int) error {
	if n := m.native().GroupChannels(from, to, tag); n != to-from+1 {
		return opErr("GroupChannels", errors.Errorf("grouped %d of %d channels", n, to-from+1))
	}
	return nil
}

// GroupCount returns the number of channels in a group, or the total
// number of channels for a tag of -1.
//
func (m *Mixer) GroupCount(tag int) int {
	return m.native().GroupCount(tag)
}

// GroupAvailable returns the first idle channel in a group, or -1 if none
// is free.
//
func (m *Mixer) GroupAvailable(tag int) int {
	return m.native().GroupAvailable(tag)
}

// GroupOldest returns the group channel playing for the longest time, or
// -1 if none plays.
//
func (m *Mixer) GroupOldest(tag int) int {
	return m.native().GroupOldest(tag)
}

// GroupNewer returns the group channel that started playing last, or -1 if
// none plays.
//
func (m *Mixer) GroupNewer(tag int) int {
	return m.native().GroupNewer(tag)
}

// FadeOutGroup fades out every playing channel of a group over ms
// milliseconds and returns the number of channels set to fade.
//
func (m *Mixer) FadeOutGroup(tag, ms int) int {
	return m.native().FadeOutGroup(tag, ms)
}

// HaltGroup stops every channel of a group.
//
func (m *Mixer) HaltGroup(tag int) {
	m.native().HaltGroup(tag)
}

// PlayMusic plays a music stream, looping loops times (-1 loops forever).
// Any music already playing is halted first.
//
func (m *Mixer) PlayMusic(mus *Music, loops int) error {
	return opErr("PlayMusic", m.native().PlayMusic(mus.native(), loops))
}

// FadeInMusic is PlayMusic with the volume faded in over ms milliseconds.
//
func (m *Mixer) FadeInMusic(mus *Music, loops, ms int) error {
	return opErr("FadeInMusic", m.native().FadeInMusic(mus.native(), loops, ms))
}

// SetMusicVolume sets the music volume, 0 to MaxVolume, and returns the
// previous value.
//
func (m *Mixer) SetMusicVolume(v int) int {
	return m.native().VolumeMusic(v)
}

// MusicVolume returns the music volume.
//
func (m *Mixer) MusicVolume() int {
	return m.native().VolumeMusic(-1)
}

// PauseMusic pauses the music stream.
//
func (m *Mixer) PauseMusic() {
	m.native().PauseMusic()
}

// ResumeMusic unpauses the music stream.
//
func (m *Mixer) ResumeMusic() {
	m.native().ResumeMusic()
}

// RewindMusic restarts the music stream from the beginning.
//
func (m *Mixer) RewindMusic() {
	m.native().RewindMusic()
}

// SetMusicPosition seeks the music stream to a position in seconds.
//
func (m *Mixer) SetMusicPosition(pos float64) error {
	return opErr("SetMusicPosition", m.native().SetMusicPosition(pos))
}

// HaltMusic stops the music stream.
//
func (m *Mixer) HaltMusic() {
	m.native().HaltMusic()
}

// FadeOutMusic fades the music out over ms milliseconds, halting it
// afterwards. It reports whether a fade was scheduled.
//
func (m *Mixer) FadeOutMusic(ms int) bool {
	return m.native().FadeOutMusic(ms)
}

// PlayingMusic reports whether music is playing. Paused music counts as
// playing.
//
func (m *Mixer) PlayingMusic() bool {
	return m.native().PlayingMusic()
}

// PausedMusic reports whether the music stream is paused.
//
func (m *Mixer) PausedMusic() bool {
	return m.native().PausedMusic()
}

// FadingMusic returns the fade state of the music stream.
//
func (m *Mixer) FadingMusic() Fading {
	return Fading(m.native().FadingMusic())
}

// MusicFinished registers f to be called when the music stops. A nil f
// removes the callback. f must not call back into the Mixer.
//
func (m *Mixer) MusicFinished(f func()) {
	m.native().MusicFinished(f)
}

// SetMusicHook diverts music playback to f, which must fill the passed
// buffer with sample data in the device format. A nil f restores normal
// playback.
//
func (m *Mixer) SetMusicHook(f func(buf []byte)) {
	m.native().SetMusicHook(f)
}

// SetPanning sets the left/right panning of a channel. 255/255 restores
// the default. The channel must be playing for the effect to register.
//
func (m *Mixer) SetPanning(ch int, left, right uint8) error {
	return opErr("SetPanning", m.native().SetPanning(ch, left, right))
}

// SetDistance attenuates a channel to simulate distance, 0 for near to 255
// for far.
//
func (m *Mixer) SetDistance(ch int, distance uint8) error {
	return opErr("SetDistance", m.native().SetDistance(ch, distance))
}

// SetPosition places a channel at an angle in degrees clockwise from
// front and a distance from the listener.
//
func (m *Mixer) SetPosition(ch int, angle int16, distance uint8) error {
	return opErr("SetPosition", m.native().SetPosition(ch, angle, distance))
}

// SetReverseStereo swaps the left and right output of a channel.
//
func (m *Mixer) SetReverseStereo(ch int, reverse bool) error {
	return opErr("SetReverseStereo", m.native().SetReverseStereo(ch, reverse))
}

// A Chunk wraps a native sound sample.
//
type Chunk struct {
	h      driver.Chunk
	noCopy noCopy
}

// ChunkFrom wraps an already loaded native chunk. It panics if h is nil.
//
func ChunkFrom(h driver.Chunk) *Chunk {
	if h == nil {
		panic("mdl: ChunkFrom: nil native handle")
	}
	return &Chunk{h: h}
}

// Native returns the wrapped native chunk without transferring ownership.
// It returns nil on an empty Chunk.
//
func (c *Chunk) Native() driver.Chunk {
	return c.h
}

// Free releases the native chunk. The chunk must not be playing on any
// channel. Free is a no-op on an empty Chunk.
//
func (c *Chunk) Free() {
	if c.h == nil {
		return
	}
	c.h.Free()
	c.h = nil
}

// Take transfers ownership of src's chunk to c, freeing any chunk c
// currently owns. After the call src is empty and releases nothing. Taking
// from itself is a no-op.
//
func (c *Chunk) Take(src *Chunk) {
	if c == src {
		return
	}
	c.Free()
	c.h = src.h
	src.h = nil
}

// Detach relinquishes ownership of the native chunk and returns it without
// freeing it. The Chunk is left empty.
//
func (c *Chunk) Detach() driver.Chunk {
	h := c.h
	c.h = nil
	return h
}

func (c *Chunk) native() driver.Chunk {
	if c.h == nil {
		panic("mdl: use of empty Chunk")
	}
	return c.h
}

// SetVolume sets the volume the chunk plays at, 0 to MaxVolume, and
// returns the previous value.
//
func (c *Chunk) SetVolume(v int) int {
	return c.native().Volume(v)
}

// Volume returns the volume the chunk plays at.
//
func (c *Chunk) Volume() int {
	return c.native().Volume(-1)
}

// A Music wraps a native music stream.
//
type Music struct {
	h      driver.Music
	noCopy noCopy
}

// MusicFrom wraps an already loaded native music stream. It panics if h is
// nil.
//
func MusicFrom(h driver.Music) *Music {
	if h == nil {
		panic("mdl: MusicFrom: nil native handle")
	}
	return &Music{h: h}
}

// Native returns the wrapped native music stream without transferring
// ownership. It returns nil on an empty Music.
//
func (mu *Music) Native() driver.Music {
	return mu.h
}

// Free releases the native music stream, halting it if it is playing. Free
// is a no-op on an empty Music.
//
func (mu *Music) Free() {
	if mu.h == nil {
		return
	}
	mu.h.Free()
	mu.h = nil
}

// Take transfers ownership of src's stream to mu, freeing any stream mu
// currently owns. After the call src is empty and releases nothing. Taking
// from itself is a no-op.
//
func (mu *Music) Take(src *Music) {
	if mu == src {
		return
	}
	mu.Free()
	mu.h = src.h
	src.h = nil
}

// Detach relinquishes ownership of the native stream and returns it
// without freeing it. The Music is left empty.
//
func (mu *Music) Detach() driver.Music {
	h := mu.h
	mu.h = nil
	return h
}

func (mu *Music) native() driver.Music {
	if mu.h == nil {
		panic("mdl: use of empty Music")
	}
	return mu.h
}
