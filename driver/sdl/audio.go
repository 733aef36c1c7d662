// +build sdl2

package sdl

import (
	"io"
	"io/ioutil"

	"github.com/veandco/go-sdl2/mix"
	sdl2 "github.com/veandco/go-sdl2/sdl"

	"github.com/db47h/mdl/driver"
)

// Audio wraps the SDL_mixer device. Mixer state is global in SDL_mixer,
// so the value is a token for the single open device.
//
type Audio struct {
	d *Driver
}

func (a *Audio) AllocateChannels(n int) int {
	return mix.AllocateChannels(n)
}

func (a *Audio) ReserveChannels(n int) int {
	return mix.ReserveChannels(n)
}

func (a *Audio) Volume(ch, v int) int {
	return mix.Volume(ch, v)
}

func (a *Audio) LoadChunk(r io.Reader) (driver.Chunk, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	rw, err := sdl2.RWFromMem(data)
	if err != nil {
		return nil, err
	}
	c, err := mix.LoadWAVRW(rw, true)
	if err != nil {
		return nil, err
	}
	return &Chunk{c: c}, nil
}

func (a *Audio) LoadMusic(r io.Reader) (driver.Music, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	rw, err := sdl2.RWFromMem(data)
	if err != nil {
		return nil, err
	}
	m, err := mix.LoadMUSRW(rw, 1)
	if err != nil {
		return nil, err
	}
	// music streams from the buffer while playing, keep it referenced
	return &Music{m: m, data: data}, nil
}

func (a *Audio) PlayChannel(ch int, c driver.Chunk, loops int) (int, error) {
	return c.(*Chunk).c.Play(ch, loops)
}

func (a *Audio) PlayChannelTimed(ch int, c driver.Chunk, loops, ticks int) (int, error) {
	return c.(*Chunk).c.PlayTimed(ch, loops, ticks)
}

func (a *Audio) FadeInChannel(ch int, c driver.Chunk, loops, ms int) (int, error) {
	return c.(*Chunk).c.FadeIn(ch, loops, ms)
}

func (a *Audio) FadeInChannelTimed(ch int, c driver.Chunk, loops, ms, ticks int) (int, error) {
	return c.(*Chunk).c.FadeInTimed(ch, loops, ms, ticks)
}

func (a *Audio) Pause(ch int)  { mix.Pause(ch) }
func (a *Audio) Resume(ch int) { mix.Resume(ch) }

func (a *Audio) HaltChannel(ch int) {
	mix.HaltChannel(ch)
}

func (a *Audio) ExpireChannel(ch, ticks int) int {
	return mix.ExpireChannel(ch, ticks)
}

func (a *Audio) FadeOutChannel(ch, ms int) int {
	return mix.FadeOutChannel(ch, ms)
}

func (a *Audio) Playing(ch int) int {
	return mix.Playing(ch)
}

func (a *Audio) Paused(ch int) int {
	return mix.Paused(ch)
}

func (a *Audio) FadingChannel(ch int) driver.Fading {
	return fading(mix.FadingChannel(ch))
}

func (a *Audio) ChannelFinished(f func(ch int)) {
	mix.ChannelFinished(f)
}

func (a *Audio) GroupChannel(ch, tag int) bool {
	return mix.GroupChannel(ch, tag)
}

func (a *Audio) GroupChannels(from, to, tag int) int {
	return mix.GroupChannels(from, to, tag)
}

func (a *Audio) GroupCount(tag int) int {
	return mix.GroupCount(tag)
}

func (a *Audio) GroupAvailable(tag int) int {
	return mix.GroupAvailable(tag)
}

func (a *Audio) GroupOldest(tag int) int {
	return mix.GroupOldest(tag)
}

func (a *Audio) GroupNewer(tag int) int {
	return mix.GroupNewer(tag)
}

func (a *Audio) FadeOutGroup(tag, ms int) int {
	return mix.FadeOutGroup(tag, ms)
}

func (a *Audio) HaltGroup(tag int) {
	mix.HaltGroup(tag)
}

func (a *Audio) PlayMusic(m driver.Music, loops int) error {
	return m.(*Music).m.Play(loops)
}

func (a *Audio) FadeInMusic(m driver.Music, loops, ms int) error {
	return m.(*Music).m.FadeIn(loops, ms)
}

func (a *Audio) VolumeMusic(v int) int {
	return mix.VolumeMusic(v)
}

func (a *Audio) PauseMusic()  { mix.PauseMusic() }
func (a *Audio) ResumeMusic() { mix.ResumeMusic() }
func (a *Audio) RewindMusic() { mix.RewindMusic() }

func (a *Audio) SetMusicPosition(pos float64) error {
	return mix.SetMusicPosition(int64(pos))
}

func (a *Audio) HaltMusic() {
	mix.HaltMusic()
}

func (a *Audio) FadeOutMusic(ms int) bool {
	return mix.FadeOutMusic(ms)
}

func (a *Audio) PlayingMusic() bool {
	return mix.PlayingMusic()
}

func (a *Audio) PausedMusic() bool {
	return mix.PausedMusic()
}

func (a *Audio) FadingMusic() driver.Fading {
	return fading(mix.FadingMusic())
}

func (a *Audio) MusicFinished(f func()) {
	mix.HookMusicFinished(f)
}

func (a *Audio) SetMusicHook(f func(buf []byte)) {
	mix.HookMusic(f)
}

func (a *Audio) SetPanning(ch int, left, right uint8) error {
	return mix.SetPanning(ch, left, right)
}

func (a *Audio) SetDistance(ch int, distance uint8) error {
	return mix.SetDistance(ch, distance)
}

func (a *Audio) SetPosition(ch int, angle int16, distance uint8) error {
	return mix.SetPosition(ch, angle, distance)
}

func (a *Audio) SetReverseStereo(ch int, reverse bool) error {
	flip := 0
	if reverse {
		flip = 1
	}
	return mix.SetReverseStereo(ch, flip)
}

func (a *Audio) Close() {
	mix.CloseAudio()
	if a.d != nil {
		a.d.audioOpen = false
		a.d = nil
	}
}

func fading(f mix.Fading) driver.Fading {
	switch f {
	case mix.FADING_OUT:
		return driver.FadingOut
	case mix.FADING_IN:
		return driver.FadingIn
	}
	return driver.NoFading
}

// Chunk wraps an SDL_mixer sample.
//
type Chunk struct {
	c *mix.Chunk
}

func (c *Chunk) Volume(v int) int {
	return c.c.Volume(v)
}

func (c *Chunk) Free() {
	c.c.Free()
}

// Music wraps an SDL_mixer music stream.
//
type Music struct {
	m    *mix.Music
	data []byte
}

func (m *Music) Free() {
	m.m.Free()
	m.data = nil
}
