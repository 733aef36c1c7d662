// +build sdl2

package sdl

import (
	"github.com/pkg/errors"
	sdl2 "github.com/veandco/go-sdl2/sdl"

	"github.com/db47h/mdl/driver"
)

// Window wraps an SDL window.
//
type Window struct {
	win     *sdl2.Window
	opacity float32
}

func (w *Window) SetTitle(title string) { w.win.SetTitle(title) }
func (w *Window) Title() string         { return w.win.GetTitle() }

func (w *Window) SetPosition(x, y int) {
	if x == driver.WindowPosCentered {
		x = sdl2.WINDOWPOS_CENTERED
	}
	if y == driver.WindowPosCentered {
		y = sdl2.WINDOWPOS_CENTERED
	}
	w.win.SetPosition(int32(x), int32(y))
}

func (w *Window) Position() (x, y int) {
	px, py := w.win.GetPosition()
	return int(px), int(py)
}

func (w *Window) SetSize(width, height int) {
	w.win.SetSize(int32(width), int32(height))
}

func (w *Window) Size() (width, height int) {
	ww, wh := w.win.GetSize()
	return int(ww), int(wh)
}

// DrawableSize reports the window size; high DPI backbuffer sizes are
// only available through the renderer output size.
//
func (w *Window) DrawableSize() (width, height int) {
	return w.Size()
}

func (w *Window) SetIcon(s driver.Surface) error {
	ss, ok := s.(*Surface)
	if !ok {
		return errors.New("surface not owned by this driver")
	}
	w.win.SetIcon(ss.s)
	return nil
}

func (w *Window) SetOpacity(o float32) error {
	if err := w.win.SetWindowOpacity(o); err != nil {
		return err
	}
	w.opacity = o
	return nil
}

func (w *Window) Opacity() (float32, error) {
	return w.opacity, nil
}

func (w *Window) SetFullscreen(fs bool) error {
	if fs {
		return w.win.SetFullscreen(sdl2.WINDOW_FULLSCREEN)
	}
	return w.win.SetFullscreen(0)
}

func (w *Window) SetGrab(grabbed bool) { w.win.SetGrab(grabbed) }
func (w *Window) Grabbed() bool        { return w.win.GetGrab() }

func (w *Window) Show()     { w.win.Show() }
func (w *Window) Hide()     { w.win.Hide() }
func (w *Window) Raise()    { w.win.Raise() }
func (w *Window) Maximize() { w.win.Maximize() }
func (w *Window) Minimize() { w.win.Minimize() }
func (w *Window) Restore()  { w.win.Restore() }

func (w *Window) Destroy() {
	_ = w.win.Destroy()
}
