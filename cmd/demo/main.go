// Command demo bounces a sprite over a scrolling tiled background, with an
// fps overlay and a beep on every bounce.
//
// Without build tags it runs on the software driver; build with -tags sdl2
// for an interactive window. With -frames n it exits after n frames, and
// -out writes a PNG screenshot of the last frame, which makes the demo
// usable headless:
//
//	demo -frames 300 -out shot.png
//
package main

import (
	"bytes"
	"encoding/binary"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"time"

	"github.com/db47h/ofs"
	"golang.org/x/image/font/basicfont"

	"github.com/db47h/mdl"
	"github.com/db47h/mdl/app"
	"github.com/db47h/mdl/asset"
	"github.com/db47h/mdl/debug"
	"github.com/db47h/mdl/text"
)

var (
	frames   = flag.Int("frames", 0, "exit after `n` frames (0 runs until closed)")
	out      = flag.String("out", "", "write a PNG screenshot of the last frame to `file`")
	assetDir = flag.String("assets", "assets", "asset directory (optional, for TTF text)")
)

const spriteSize = 32

type demo struct {
	app *app.App

	bg     *mdl.Texture
	sprite *mdl.Texture
	mgr    *asset.Manager
	td     *text.Drawer
	ownTD  bool
	ov     debug.Overlay

	mx   *mdl.Mixer
	beep *mdl.Chunk

	w, h   int
	x, y   float64 // sprite position, pixels
	vx, vy float64 // sprite velocity, pixels per second
	phase  float64 // background scroll, pixels
	flip   mdl.Flip

	ft   debug.Timer
	last time.Time
	n    int
}

func (d *demo) OnInit(a *app.App) error {
	d.app = a
	rd := a.Renderer()

	var err error
	if d.w, d.h, err = rd.OutputSize(); err != nil {
		return err
	}
	if d.bg, err = checkerTexture(rd); err != nil {
		return err
	}
	if d.sprite, err = discTexture(rd); err != nil {
		return err
	}

	// a TTF from the asset directory when present, the builtin bitmap
	// font otherwise
	var ovl ofs.Overlay
	if err := ovl.Add(false, *assetDir); err == nil {
		d.mgr = asset.NewManager(a.Lib(), &ovl, asset.FontPath("fonts"))
		td, err := d.mgr.TextDrawer("Go-Regular.ttf", 16, text.HintingFull, mdl.Nearest)
		if err == nil {
			d.td = td
		} else {
			log.Print(err)
		}
	}
	if d.td == nil {
		d.td = text.NewDrawer(basicfont.Face7x13, mdl.Nearest)
		d.ownTD = true
	}
	d.ov = debug.Overlay{TD: d.td}

	if mx, err := a.Lib().OpenMixer(); err == nil {
		d.mx = mx
		if c, err := mx.LoadChunk(bytes.NewReader(beepWAV())); err == nil {
			d.beep = c
		} else {
			log.Print(err)
		}
	} else {
		log.Print("audio disabled: ", err)
	}

	d.x = float64(d.w-spriteSize) / 2
	d.y = float64(d.h-spriteSize) / 2
	d.vx, d.vy = 180, 140
	return nil
}

func (d *demo) bounce(flip mdl.Flip) {
	d.flip ^= flip
	if d.beep != nil {
		_, _ = d.mx.PlayChannel(-1, d.beep, 0)
	}
}

func (d *demo) OnUpdate(dt time.Duration) {
	secs := dt.Seconds()
	d.phase += 24 * secs
	d.x += d.vx * secs
	d.y += d.vy * secs
	if d.x < 0 {
		d.x, d.vx = -d.x, -d.vx
		d.bounce(mdl.FlipHorizontal)
	}
	if max := float64(d.w - spriteSize); d.x > max {
		d.x, d.vx = 2*max-d.x, -d.vx
		d.bounce(mdl.FlipHorizontal)
	}
	if d.y < 0 {
		d.y, d.vy = -d.y, -d.vy
		d.bounce(mdl.FlipVertical)
	}
	if max := float64(d.h - spriteSize); d.y > max {
		d.y, d.vy = 2*max-d.y, -d.vy
		d.bounce(mdl.FlipVertical)
	}
}

func (d *demo) FrameStart(now time.Time) {
	if !d.last.IsZero() {
		d.ft.Add(now.Sub(d.last))
	}
	d.last = now
}

func (d *demo) OnDraw(rd *mdl.Renderer, lerp time.Duration) {
	if w, h, err := rd.OutputSize(); err == nil {
		d.w, d.h = w, h
	}
	if err := rd.SetDrawColor(color.NRGBA{R: 0x20, G: 0x28, B: 0x30, A: 0xff}); err != nil {
		log.Print(err)
	}
	if err := rd.Clear(); err != nil {
		log.Print(err)
	}
	off := int(d.phase)
	if err := rd.FillCopy(d.bg, nil, nil, mdl.Pt(off, off/2), d.flip); err != nil {
		log.Print(err)
	}
	// extrapolate the sprite by the time left in the accumulator
	dst := mdl.Rect{
		X: int(d.x + d.vx*lerp.Seconds()),
		Y: int(d.y + d.vy*lerp.Seconds()),
		W: spriteSize, H: spriteSize,
	}
	if err := rd.Copy(d.sprite, nil, &dst); err != nil {
		log.Print(err)
	}
	if d.ft.Average() > 0 {
		s := fmt.Sprintf("%.0f fps", d.ft.AveragePerSecond())
		if err := d.ov.InfoBox(rd, debug.TopRight, s); err != nil {
			log.Print(err)
		}
	}

	d.n++
	if *frames > 0 && d.n >= *frames {
		if *out != "" {
			if err := screenshot(rd, *out); err != nil {
				log.Print(err)
			}
		}
		d.app.Quit()
	}
}

func (d *demo) OnQuit() error {
	if d.beep != nil {
		d.beep.Free()
	}
	if d.mx != nil {
		d.mx.Close()
	}
	if d.ownTD {
		if err := d.td.Close(); err != nil {
			log.Print(err)
		}
	}
	if d.mgr != nil {
		if err := d.mgr.Close(); err != nil {
			log.Print(err)
		}
	}
	d.sprite.Destroy()
	d.bg.Destroy()
	return nil
}

func main() {
	flag.Parse()
	opts := []app.Option{
		app.Title("mdl demo"),
		app.Size(640, 360),
		app.Resizable(),
	}
	if *frames == 0 {
		opts = append(opts, app.MinFrameTime(time.Second/60))
	}
	if err := app.Main(&demo{}, opts...); err != nil {
		log.Fatal(err)
	}
}

// checkerTexture builds a 32x32 two tone background tile.
func checkerTexture(rd *mdl.Renderer) (*mdl.Texture, error) {
	const sz, half = 32, 16
	t, err := rd.CreateTexture(mdl.FormatRGBA8888, mdl.AccessStatic, sz, sz, mdl.Filter(mdl.Nearest))
	if err != nil {
		return nil, err
	}
	pix := make([]byte, sz*sz*4)
	for y := 0; y < sz; y++ {
		for x := 0; x < sz; x++ {
			off := (y*sz + x) * 4
			c := byte(0x26)
			if (x < half) != (y < half) {
				c = 0x3a
			}
			pix[off], pix[off+1], pix[off+2], pix[off+3] = c, c, c+0x10, 0xff
		}
	}
	if err := t.Update(nil, pix, sz*4); err != nil {
		t.Destroy()
		return nil, err
	}
	return t, nil
}

// discTexture builds the sprite, an orange disc on a transparent
// background.
func discTexture(rd *mdl.Renderer) (*mdl.Texture, error) {
	const sz, r = spriteSize, spriteSize/2 - 1
	t, err := rd.CreateTexture(mdl.FormatRGBA8888, mdl.AccessStatic, sz, sz,
		mdl.Filter(mdl.Linear), mdl.Blend(mdl.BlendAlpha))
	if err != nil {
		return nil, err
	}
	pix := make([]byte, sz*sz*4)
	for y := 0; y < sz; y++ {
		for x := 0; x < sz; x++ {
			dx, dy := x-sz/2, y-sz/2
			if dx*dx+dy*dy > r*r {
				continue
			}
			off := (y*sz + x) * 4
			pix[off], pix[off+1], pix[off+2], pix[off+3] = 0xff, 0x8c, 0x1a, 0xff
		}
	}
	if err := t.Update(nil, pix, sz*4); err != nil {
		t.Destroy()
		return nil, err
	}
	return t, nil
}

func screenshot(rd *mdl.Renderer, path string) error {
	w, h, err := rd.OutputSize()
	if err != nil {
		return err
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	if err := rd.ReadPixels(nil, mdl.FormatRGBA8888, img.Pix, img.Stride); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// beepWAV returns a 100ms 8 bit mono square wave in canonical WAV format.
func beepWAV() []byte {
	const (
		rate = 22050
		freq = 440
		n    = rate / 10
	)
	var b bytes.Buffer
	w16 := func(v uint16) { binary.Write(&b, binary.LittleEndian, v) }
	w32 := func(v uint32) { binary.Write(&b, binary.LittleEndian, v) }
	b.WriteString("RIFF")
	w32(36 + n)
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	w32(16)
	w16(1) // PCM
	w16(1) // mono
	w32(rate)
	w32(rate) // byte rate
	w16(1)    // block align
	w16(8)    // bits per sample
	b.WriteString("data")
	w32(n)
	for i := 0; i < n; i++ {
		if (i*2*freq/rate)&1 == 0 {
			b.WriteByte(0x30)
		} else {
			b.WriteByte(0xd0)
		}
	}
	return b.Bytes()
}
