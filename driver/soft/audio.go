package soft

import (
	"bytes"
	"io"
	"io/ioutil"

	"github.com/pkg/errors"

	"github.com/db47h/mdl/driver"
)

// defaultChannels is the number of mixing channels allocated when the
// device opens.
const defaultChannels = 8

type channel struct {
	chunk   *Chunk
	playing bool
	paused  bool
	fading  driver.Fading
	vol     int
	tag     int
	seq     uint64
	loops   int
	ticks   int // play time limit in ms, -1 none
	expire  int // pending expiration in ms, -1 none

	panL, panR uint8
	distance   uint8
	angle      int16
	reverse    bool
}

func newChannel() channel {
	return channel{vol: driver.MaxVolume, tag: -1, ticks: -1, expire: -1, panL: 255, panR: 255}
}

// Audio is a null audio device: it keeps full channel, group and music
// state but produces no sound and never advances time. Playing channels
// stay playing until halted, fades keep their state forever, and play
// time limits and expirations are recorded without effect. Finished
// callbacks run synchronously from the halting call.
//
type Audio struct {
	d         *Driver
	freq      int
	format    driver.AudioFormat
	channels  int
	chunkSize int

	chans    []channel
	reserved int
	seq      uint64
	finished func(ch int)

	music        *Music
	musicPlaying bool
	musicPaused  bool
	musicFading  driver.Fading
	musicVol     int
	musicPos     float64
	musicLoops   int
	musicDone    func()
	musicHook    func([]byte)
}

func newAudio(d *Driver, freq int, f driver.AudioFormat, channels, chunkSize int) *Audio {
	a := &Audio{
		d:         d,
		freq:      freq,
		format:    f,
		channels:  channels,
		chunkSize: chunkSize,
		chans:     make([]channel, defaultChannels),
		musicVol:  driver.MaxVolume,
	}
	for i := range a.chans {
		a.chans[i] = newChannel()
	}
	return a
}

// Spec returns the parameters the device was opened with.
//
func (a *Audio) Spec() (freq int, f driver.AudioFormat, channels, chunkSize int) {
	return a.freq, a.format, a.channels, a.chunkSize
}

func (a *Audio) AllocateChannels(n int) int {
	if n < 0 {
		return len(a.chans)
	}
	for i := n; i < len(a.chans); i++ {
		a.halt(i)
	}
	if n <= len(a.chans) {
		a.chans = a.chans[:n]
	} else {
		for len(a.chans) < n {
			a.chans = append(a.chans, newChannel())
		}
	}
	if a.reserved > len(a.chans) {
		a.reserved = len(a.chans)
	}
	return len(a.chans)
}

func (a *Audio) ReserveChannels(n int) int {
	if n < 0 {
		n = 0
	}
	if n > len(a.chans) {
		n = len(a.chans)
	}
	a.reserved = n
	return n
}

// Volume sets the volume of a channel and returns the previous value. A
// negative v only queries. Channel -1 addresses every channel and returns
// the average volume.
//
func (a *Audio) Volume(ch, v int) int {
	if v > driver.MaxVolume {
		v = driver.MaxVolume
	}
	if ch == -1 {
		if len(a.chans) == 0 {
			return 0
		}
		sum := 0
		for i := range a.chans {
			sum += a.chans[i].vol
			if v >= 0 {
				a.chans[i].vol = v
			}
		}
		return sum / len(a.chans)
	}
	if ch < 0 || ch >= len(a.chans) {
		return 0
	}
	prev := a.chans[ch].vol
	if v >= 0 {
		a.chans[ch].vol = v
	}
	return prev
}

// LoadChunk reads a WAV stream. Only the RIFF/WAVE header is checked; the
// sample data is kept as-is.
//
func (a *Audio) LoadChunk(r io.Reader) (driver.Chunk, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < 12 || !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WAVE")) {
		return nil, errors.New("unsupported sample format")
	}
	return &Chunk{data: data, vol: driver.MaxVolume}, nil
}

func (a *Audio) LoadMusic(r io.Reader) (driver.Music, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty music stream")
	}
	return &Music{data: data}, nil
}

func (a *Audio) PlayChannel(ch int, c driver.Chunk, loops int) (int, error) {
	return a.play(ch, c, loops, -1, driver.NoFading)
}

func (a *Audio) PlayChannelTimed(ch int, c driver.Chunk, loops, ticks int) (int, error) {
	return a.play(ch, c, loops, ticks, driver.NoFading)
}

func (a *Audio) FadeInChannel(ch int, c driver.Chunk, loops, ms int) (int, error) {
	return a.play(ch, c, loops, -1, driver.FadingIn)
}

func (a *Audio) FadeInChannelTimed(ch int, c driver.Chunk, loops, ms, ticks int) (int, error) {
	return a.play(ch, c, loops, ticks, driver.FadingIn)
}

func (a *Audio) play(ch int, c driver.Chunk, loops, ticks int, fading driver.Fading) (int, error) {
	cc, ok := c.(*Chunk)
	if !ok {
		return -1, errors.New("chunk not owned by this driver")
	}
	if cc.data == nil {
		return -1, errors.New("invalid chunk")
	}
	if ch == -1 {
		free := -1
		for i := a.reserved; i < len(a.chans); i++ {
			if !a.chans[i].playing {
				free = i
				break
			}
		}
		if free == -1 {
			return -1, errors.New("no free channel")
		}
		ch = free
	} else if ch < 0 || ch >= len(a.chans) {
		return -1, errors.Errorf("invalid channel %d", ch)
	} else if a.chans[ch].playing {
		a.halt(ch)
	}
	a.seq++
	cs := &a.chans[ch]
	cs.chunk = cc
	cs.playing = true
	cs.paused = false
	cs.fading = fading
	cs.loops = loops
	cs.ticks = ticks
	cs.expire = -1
	cs.seq = a.seq
	return ch, nil
}

// halt stops channel i and runs the finished callback if it was playing.
//
func (a *Audio) halt(i int) {
	cs := &a.chans[i]
	if !cs.playing {
		return
	}
	cs.playing = false
	cs.paused = false
	cs.fading = driver.NoFading
	cs.chunk = nil
	cs.ticks = -1
	cs.expire = -1
	if a.finished != nil {
		a.finished(i)
	}
}

func (a *Audio) Pause(ch int) {
	a.each(ch, func(cs *channel) {
		if cs.playing {
			cs.paused = true
		}
	})
}

func (a *Audio) Resume(ch int) {
	a.each(ch, func(cs *channel) { cs.paused = false })
}

func (a *Audio) HaltChannel(ch int) {
	if ch == -1 {
		for i := range a.chans {
			a.halt(i)
		}
		return
	}
	if ch >= 0 && ch < len(a.chans) {
		a.halt(ch)
	}
}

func (a *Audio) ExpireChannel(ch, ticks int) int {
	if ticks < 0 {
		ticks = -1
	}
	n := 0
	a.each(ch, func(cs *channel) {
		cs.expire = ticks
		n++
	})
	return n
}

func (a *Audio) FadeOutChannel(ch, ms int) int {
	n := 0
	a.each(ch, func(cs *channel) {
		if cs.playing {
			cs.fading = driver.FadingOut
			n++
		}
	})
	return n
}

// each applies f to channel ch, or to every channel when ch is -1.
//
func (a *Audio) each(ch int, f func(*channel)) {
	if ch == -1 {
		for i := range a.chans {
			f(&a.chans[i])
		}
		return
	}
	if ch >= 0 && ch < len(a.chans) {
		f(&a.chans[ch])
	}
}

// Playing reports whether a channel is playing; paused channels count as
// playing. Channel -1 returns the number of playing channels.
//
func (a *Audio) Playing(ch int) int {
	if ch == -1 {
		n := 0
		for i := range a.chans {
			if a.chans[i].playing {
				n++
			}
		}
		return n
	}
	if ch >= 0 && ch < len(a.chans) && a.chans[ch].playing {
		return 1
	}
	return 0
}

func (a *Audio) Paused(ch int) int {
	if ch == -1 {
		n := 0
		for i := range a.chans {
			if a.chans[i].paused {
				n++
			}
		}
		return n
	}
	if ch >= 0 && ch < len(a.chans) && a.chans[ch].paused {
		return 1
	}
	return 0
}

func (a *Audio) FadingChannel(ch int) driver.Fading {
	if ch < 0 || ch >= len(a.chans) {
		return driver.NoFading
	}
	return a.chans[ch].fading
}

func (a *Audio) ChannelFinished(f func(ch int)) {
	a.finished = f
}

func (a *Audio) GroupChannel(ch, tag int) bool {
	if ch < 0 || ch >= len(a.chans) {
		return false
	}
	a.chans[ch].tag = tag
	return true
}

func (a *Audio) GroupChannels(from, to, tag int) int {
	n := 0
	for ch := from; ch <= to; ch++ {
		if a.GroupChannel(ch, tag) {
			n++
		}
	}
	return n
}

// GroupCount returns the number of channels in the group, or the total
// channel count for a tag of -1.
//
func (a *Audio) GroupCount(tag int) int {
	if tag == -1 {
		return len(a.chans)
	}
	n := 0
	for i := range a.chans {
		if a.chans[i].tag == tag {
			n++
		}
	}
	return n
}

func (a *Audio) GroupAvailable(tag int) int {
	for i := range a.chans {
		if (tag == -1 || a.chans[i].tag == tag) && !a.chans[i].playing {
			return i
		}
	}
	return -1
}

// GroupOldest returns the channel of the group that has been playing the
// longest, -1 when none plays.
//
func (a *Audio) GroupOldest(tag int) int {
	best, bestSeq := -1, ^uint64(0)
	for i := range a.chans {
		cs := &a.chans[i]
		if cs.playing && (tag == -1 || cs.tag == tag) && cs.seq < bestSeq {
			best, bestSeq = i, cs.seq
		}
	}
	return best
}

// GroupNewer returns the channel of the group that started playing last,
// -1 when none plays.
//
func (a *Audio) GroupNewer(tag int) int {
	best := -1
	var bestSeq uint64
	for i := range a.chans {
		cs := &a.chans[i]
		if cs.playing && (tag == -1 || cs.tag == tag) && cs.seq >= bestSeq {
			best, bestSeq = i, cs.seq
		}
	}
	return best
}

func (a *Audio) FadeOutGroup(tag, ms int) int {
	n := 0
	for i := range a.chans {
		cs := &a.chans[i]
		if cs.playing && (tag == -1 || cs.tag == tag) {
			cs.fading = driver.FadingOut
			n++
		}
	}
	return n
}

func (a *Audio) HaltGroup(tag int) {
	for i := range a.chans {
		if tag == -1 || a.chans[i].tag == tag {
			a.halt(i)
		}
	}
}

func (a *Audio) PlayMusic(m driver.Music, loops int) error {
	return a.playMusic(m, loops, driver.NoFading)
}

func (a *Audio) FadeInMusic(m driver.Music, loops, ms int) error {
	return a.playMusic(m, loops, driver.FadingIn)
}

func (a *Audio) playMusic(m driver.Music, loops int, fading driver.Fading) error {
	mm, ok := m.(*Music)
	if !ok {
		return errors.New("music not owned by this driver")
	}
	if mm.data == nil {
		return errors.New("invalid music")
	}
	a.HaltMusic()
	a.music = mm
	a.musicPlaying = true
	a.musicPaused = false
	a.musicFading = fading
	a.musicPos = 0
	a.musicLoops = loops
	return nil
}

func (a *Audio) VolumeMusic(v int) int {
	prev := a.musicVol
	if v > driver.MaxVolume {
		v = driver.MaxVolume
	}
	if v >= 0 {
		a.musicVol = v
	}
	return prev
}

func (a *Audio) PauseMusic() {
	if a.musicPlaying {
		a.musicPaused = true
	}
}

func (a *Audio) ResumeMusic() {
	a.musicPaused = false
}

func (a *Audio) RewindMusic() {
	a.musicPos = 0
}

func (a *Audio) SetMusicPosition(pos float64) error {
	if !a.musicPlaying {
		return errors.New("music not playing")
	}
	if pos < 0 {
		return errors.Errorf("invalid music position %v", pos)
	}
	a.musicPos = pos
	return nil
}

func (a *Audio) HaltMusic() {
	if !a.musicPlaying {
		return
	}
	a.musicPlaying = false
	a.musicPaused = false
	a.musicFading = driver.NoFading
	a.music = nil
	if a.musicDone != nil {
		a.musicDone()
	}
}

func (a *Audio) FadeOutMusic(ms int) bool {
	if !a.musicPlaying {
		return false
	}
	a.musicFading = driver.FadingOut
	return true
}

// PlayingMusic reports whether music is playing; paused music counts as
// playing.
//
func (a *Audio) PlayingMusic() bool {
	return a.musicPlaying
}

func (a *Audio) PausedMusic() bool {
	return a.musicPaused
}

func (a *Audio) FadingMusic() driver.Fading {
	return a.musicFading
}

func (a *Audio) MusicFinished(f func()) {
	a.musicDone = f
}

// SetMusicHook stores the hook. The null device never invokes it.
//
func (a *Audio) SetMusicHook(f func(buf []byte)) {
	a.musicHook = f
}

func (a *Audio) SetPanning(ch int, left, right uint8) error {
	if ch < 0 || ch >= len(a.chans) {
		return errors.Errorf("invalid channel %d", ch)
	}
	a.chans[ch].panL, a.chans[ch].panR = left, right
	return nil
}

func (a *Audio) SetDistance(ch int, distance uint8) error {
	if ch < 0 || ch >= len(a.chans) {
		return errors.Errorf("invalid channel %d", ch)
	}
	a.chans[ch].distance = distance
	return nil
}

func (a *Audio) SetPosition(ch int, angle int16, distance uint8) error {
	if ch < 0 || ch >= len(a.chans) {
		return errors.Errorf("invalid channel %d", ch)
	}
	a.chans[ch].angle = angle
	a.chans[ch].distance = distance
	return nil
}

func (a *Audio) SetReverseStereo(ch int, reverse bool) error {
	if ch < 0 || ch >= len(a.chans) {
		return errors.Errorf("invalid channel %d", ch)
	}
	a.chans[ch].reverse = reverse
	return nil
}

// Close halts every channel and the music, then releases the device so a
// new one can be opened.
//
func (a *Audio) Close() {
	for i := range a.chans {
		a.halt(i)
	}
	a.HaltMusic()
	if a.d != nil && a.d.audio == a {
		a.d.audio = nil
	}
	a.d = nil
	a.chans = nil
}

// Chunk is a loaded sound sample. The null device keeps the raw stream
// bytes only.
//
type Chunk struct {
	data []byte
	vol  int
}

func (c *Chunk) Volume(v int) int {
	prev := c.vol
	if v > driver.MaxVolume {
		v = driver.MaxVolume
	}
	if v >= 0 {
		c.vol = v
	}
	return prev
}

func (c *Chunk) Free() {
	c.data = nil
}

// Music is a loaded music stream.
//
type Music struct {
	data []byte
}

func (m *Music) Free() {
	m.data = nil
}
