// Package mdl wraps the primitive handles of a native 2D multimedia toolkit
// (windows, renderers, textures, surfaces, audio mixer) in resource safe
// types: each wrapper owns exactly one native handle, acquires it on
// construction, and releases it exactly once.
//
// Ownership is single-owner and move-only. Take transfers a handle between
// two wrappers of the same type, emptying the source; Detach relinquishes a
// handle without releasing it; the teardown method (Destroy, Free, Close or
// Unlock depending on the type) is a no-op on an empty wrapper. Wrapper
// values must not be copied; the API traffics in pointers only and go vet
// flags accidental copies.
//
// Operations that can fail per the native contract return an error naming
// the failing native call: *AcquireError for resource creation, *OpError for
// everything else. Misuse (operating on an empty wrapper, wrapping a nil
// handle) panics.
//
// Package mdl performs no internal locking. Every resource is meant to be
// used from a single goroutine, typically the main thread the toolkit was
// initialized on; concurrent access to the same handle is a caller error.
//
// The native toolkit is abstracted by the interfaces of package driver. The
// default backend is the pure Go, headless driver/soft; building with
// -tags sdl2 selects the SDL2 backend instead.
//
package mdl

import (
	"github.com/db47h/mdl/driver"
)

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Lib represents the initialized toolkit. All resource factories hang off a
// Lib. Like every other wrapper it is a scoped resource: Init acquires the
// toolkit, Close shuts it down exactly once.
//
type Lib struct {
	drv    driver.Driver
	noCopy noCopy
}

// Option is implemented by option functions passed as arguments to Init.
//
type Option interface {
	set(*cfg)
}

type cfg struct {
	drv driver.Driver
}

type optionFunc func(*cfg)

func (f optionFunc) set(c *cfg) {
	f(c)
}

// WithDriver makes Init use d instead of the default, build selected
// driver.
//
func WithDriver(d driver.Driver) Option {
	return optionFunc(func(c *cfg) {
		c.drv = d
	})
}

// Init initializes the toolkit and returns a Lib ready to create resources.
//
func Init(opts ...Option) (*Lib, error) {
	var c cfg
	for _, o := range opts {
		o.set(&c)
	}
	if c.drv == nil {
		c.drv = defaultDriver()
	}
	if err := c.drv.Init(); err != nil {
		return nil, acquireErr("Init", err)
	}
	return &Lib{drv: c.drv}, nil
}

// Close shuts the toolkit down. All resources created through l must have
// been released beforehand. Close is a no-op on a closed Lib.
//
func (l *Lib) Close() {
	if l.drv == nil {
		return
	}
	l.drv.Quit()
	l.drv = nil
}

// Driver returns the backing driver, or nil after Close.
//
func (l *Lib) Driver() driver.Driver {
	return l.drv
}

// Pump processes pending native events and reports whether the application
// has been asked to quit.
//
func (l *Lib) Pump() bool {
	return l.driver().Pump()
}

func (l *Lib) driver() driver.Driver {
	if l.drv == nil {
		panic("mdl: use of closed Lib")
	}
	return l.drv
}
