package mdl

import (
	"github.com/db47h/mdl/driver"
)

// A Window wraps a native window handle.
//
type Window struct {
	h      driver.Window
	noCopy noCopy
}

// WindowOption is implemented by option functions passed as arguments to
// CreateWindow.
//
type WindowOption interface {
	set(*winCfg)
}

type winCfg struct {
	x, y, w, h int
	title      string
	flags      driver.WindowFlags
}

type winOption func(*winCfg)

func (f winOption) set(cfg *winCfg) {
	f(cfg)
}

func Title(title string) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.title = title
	})
}

func Pos(x, y int) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.x, cfg.y = x, y
	})
}

func Size(w, h int) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.w, cfg.h = w, h
	})
}

func FullScreen() WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.flags |= driver.WindowFullscreen
	})
}

func Visible(b bool) WindowOption {
	return winOption(func(cfg *winCfg) {
		if b {
			cfg.flags &^= driver.WindowHidden
		} else {
			cfg.flags |= driver.WindowHidden
		}
	})
}

func Resizable() WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.flags |= driver.WindowResizable
	})
}

func Borderless() WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.flags |= driver.WindowBorderless
	})
}

func AllowHighDPI() WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.flags |= driver.WindowAllowHighDPI
	})
}

// CreateWindow creates a new window. The default configuration is a visible,
// centered 800x600 window titled "mdl".
//
func (l *Lib) CreateWindow(opts ...WindowOption) (*Window, error) {
	cfg := winCfg{title: "mdl", x: driver.WindowPosCentered, y: driver.WindowPosCentered, w: 800, h: 600}
	for _, o := range opts {
		o.set(&cfg)
	}
	h, err := l.driver().CreateWindow(cfg.title, cfg.x, cfg.y, cfg.w, cfg.h, cfg.flags)
	if err != nil {
		return nil, acquireErr("CreateWindow", err)
	}
	return &Window{h: h}, nil
}

// WindowFrom wraps an already acquired native window handle. It panics if h
// is nil.
//
func WindowFrom(h driver.Window) *Window {
	if h == nil {
		panic("mdl: WindowFrom: nil native handle")
	}
	return &Window{h: h}
}

// Native returns the wrapped native handle without transferring ownership.
// It returns nil on an empty Window.
//
func (w *Window) Native() driver.Window {
	return w.h
}

// Destroy releases the native window. It is a no-op on an empty Window.
//
func (w *Window) Destroy() {
	if w.h == nil {
		return
	}
	w.h.Destroy()
	w.h = nil
}

// Take transfers ownership of src's handle to w, destroying any handle w
// currently owns. After the call src is empty and releases nothing. Taking
// from itself is a no-op.
//
func (w *Window) Take(src *Window) {
	if w == src {
		return
	}
	w.Destroy()
	w.h = src.h
	src.h = nil
}

// Detach relinquishes ownership of the native handle and returns it without
// releasing it. The Window is left empty.
//
func (w *Window) Detach() driver.Window {
	h := w.h
	w.h = nil
	return h
}

func (w *Window) native() driver.Window {
	if w.h == nil {
		panic("mdl: use of empty Window")
	}
	return w.h
}

func (w *Window) SetTitle(title string) {
	w.native().SetTitle(title)
}

func (w *Window) Title() string {
	return w.native().Title()
}

func (w *Window) SetPosition(x, y int) {
	w.native().SetPosition(x, y)
}

func (w *Window) Position() (x, y int) {
	return w.native().Position()
}

func (w *Window) SetSize(width, height int) {
	w.native().SetSize(width, height)
}

func (w *Window) Size() (width, height int) {
	return w.native().Size()
}

// DrawableSize returns the size of the window's backbuffer in pixels, which
// may differ from Size on high DPI displays.
//
func (w *Window) DrawableSize() (width, height int) {
	return w.native().DrawableSize()
}

func (w *Window) SetIcon(s *Surface) error {
	return opErr("SetWindowIcon", w.native().SetIcon(s.native()))
}

func (w *Window) SetOpacity(o float32) error {
	return opErr("SetWindowOpacity", w.native().SetOpacity(o))
}

func (w *Window) Opacity() (float32, error) {
	o, err := w.native().Opacity()
	return o, opErr("GetWindowOpacity", err)
}

func (w *Window) SetFullscreen(fs bool) error {
	return opErr("SetWindowFullscreen", w.native().SetFullscreen(fs))
}

func (w *Window) SetGrab(grabbed bool) {
	w.native().SetGrab(grabbed)
}

func (w *Window) Grabbed() bool {
	return w.native().Grabbed()
}

func (w *Window) Show()     { w.native().Show() }
func (w *Window) Hide()     { w.native().Hide() }
func (w *Window) Raise()    { w.native().Raise() }
func (w *Window) Maximize() { w.native().Maximize() }
func (w *Window) Minimize() { w.native().Minimize() }
func (w *Window) Restore()  { w.native().Restore() }
