// Package debug provides frame timing statistics and a small text overlay
// for displaying them on screen.
//
package debug

import (
	"image/color"
	"time"

	"github.com/db47h/mdl"
	"github.com/db47h/mdl/text"
)

const samples = 32

// A Timer keeps a moving average over the last 32 recorded durations.
//
type Timer struct {
	times [samples]time.Duration
	index int
}

func (t *Timer) Add(dt time.Duration) {
	t.times[t.index] = dt
	t.index = (t.index + 1) & (samples - 1)
}

func (t *Timer) Average() time.Duration {
	var avg time.Duration
	for _, dt := range t.times {
		avg += dt
	}
	return avg / time.Duration(len(t.times))
}

// AveragePerSecond returns the frequency corresponding to the average
// duration.
//
func (t *Timer) AveragePerSecond() float64 {
	return float64(time.Second) / float64(t.Average())
}

// Corner positions accepted by InfoBox.
const (
	TopLeft = iota
	TopRight
)

// An Overlay draws short debug strings over the frame.
//
type Overlay struct {
	TD *text.Drawer
}

// InfoBox draws s on a black box in the given corner of the current render
// target.
//
func (dbg *Overlay) InfoBox(rd *mdl.Renderer, pos int, s string) error {
	b, _ := dbg.TD.BoundString(s)
	szX := (b.Max.X - b.Min.X).Ceil() + 2
	szY := (b.Max.Y - b.Min.Y).Ceil() + 2
	w, _, err := rd.OutputSize()
	if err != nil {
		return err
	}
	box := mdl.Rect{X: 0, Y: 0, W: szX, H: szY}
	if pos == TopRight {
		box.X = w - szX
	}
	if err := rd.SetDrawColor(color.NRGBA{A: 0xff}); err != nil {
		return err
	}
	if err := rd.FillRect(box); err != nil {
		return err
	}
	dot := mdl.Pt(box.X+1-b.Min.X.Floor(), box.Y+1-b.Min.Y.Floor())
	_, err = dbg.TD.DrawString(rd, s, dot, color.NRGBA{0xff, 0xff, 0xff, 0xff})
	return err
}
