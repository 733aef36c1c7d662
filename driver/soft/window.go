package soft

import (
	"github.com/pkg/errors"

	"github.com/db47h/mdl/driver"
)

// Window is a virtual window. It has a position and size on a fixed
// 1920x1080 virtual desktop but is never displayed.
//
type Window struct {
	d        *Driver
	renderer *Renderer
	title    string
	x, y     int
	w, h     int
	flags    driver.WindowFlags
	opacity  float32
	grabbed  bool
	icon     driver.Surface
}

func (w *Window) SetTitle(title string) { w.title = title }
func (w *Window) Title() string         { return w.title }

func (w *Window) SetPosition(x, y int) {
	if x == driver.WindowPosCentered {
		x = (desktopW - w.w) / 2
	}
	if y == driver.WindowPosCentered {
		y = (desktopH - w.h) / 2
	}
	w.x, w.y = x, y
}

func (w *Window) Position() (x, y int) { return w.x, w.y }

func (w *Window) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	w.w, w.h = width, height
	if w.renderer != nil {
		w.renderer.resize(width, height)
	}
}

func (w *Window) Size() (width, height int) { return w.w, w.h }

// DrawableSize equals Size: the virtual desktop has no high DPI scaling.
//
func (w *Window) DrawableSize() (width, height int) { return w.w, w.h }

func (w *Window) SetIcon(s driver.Surface) error {
	if _, ok := s.(*Surface); !ok {
		return errors.New("surface not owned by this driver")
	}
	w.icon = s
	return nil
}

func (w *Window) SetOpacity(o float32) error {
	if o < 0 || o > 1 {
		return errors.Errorf("opacity %v out of range", o)
	}
	w.opacity = o
	return nil
}

func (w *Window) Opacity() (float32, error) { return w.opacity, nil }

func (w *Window) SetFullscreen(fs bool) error {
	if fs {
		w.flags |= driver.WindowFullscreen
	} else {
		w.flags &^= driver.WindowFullscreen
	}
	return nil
}

func (w *Window) SetGrab(grabbed bool) { w.grabbed = grabbed }
func (w *Window) Grabbed() bool        { return w.grabbed }

func (w *Window) Show() { w.flags &^= driver.WindowHidden }
func (w *Window) Hide() { w.flags |= driver.WindowHidden }

// Raise shows the window. The virtual desktop has no stacking order.
//
func (w *Window) Raise() { w.flags &^= driver.WindowHidden }

func (w *Window) Maximize() {
	w.flags |= driver.WindowMaximized
	w.flags &^= driver.WindowMinimized
}

func (w *Window) Minimize() {
	w.flags |= driver.WindowMinimized
	w.flags &^= driver.WindowMaximized
}

func (w *Window) Restore() {
	w.flags &^= driver.WindowMinimized | driver.WindowMaximized
}

func (w *Window) Destroy() {
	w.renderer = nil
	w.icon = nil
}

// Flags returns the current window state flags.
//
func (w *Window) Flags() driver.WindowFlags { return w.flags }
