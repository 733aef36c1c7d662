// Package app runs a window, its renderer and a fixed timestep loop on top
// of package mdl, so that a program only implements the Interface
// callbacks. Main owns the toolkit resources and tears them down when the
// loop exits.
//
package app

import (
	"runtime"
	"time"

	"github.com/db47h/mdl"
	"github.com/db47h/mdl/driver"
)

func init() {
	// the native windowing backend must run on the main thread
	runtime.LockOSThread()
}

// Default loop timings.
const (
	DefaultDT    time.Duration = time.Second / 240
	DefaultMaxFT time.Duration = time.Second
)

// Interface is implemented by applications run by Main.
//
type Interface interface {
	// OnInit creates the application resources. The App gives access to
	// the Lib, Window and Renderer owned by Main.
	OnInit(a *App) error

	// OnUpdate advances the simulation state by a fixed timestep.
	OnUpdate(dt time.Duration)

	// OnDraw renders a frame. lerp is the time left in the accumulator,
	// always less than the timestep, for interpolating between the two
	// last simulation states.
	OnDraw(r *mdl.Renderer, lerp time.Duration)

	// OnQuit releases the resources created by OnInit. Its error is
	// returned by Main.
	OnQuit() error
}

// FrameStarter is the interface implemented by any application that wants
// the time stamp at the beginning of each loop iteration.
//
type FrameStarter interface {
	FrameStart(time.Time)
}

// App bundles the resources Main owns while the loop runs.
//
type App struct {
	l    *mdl.Lib
	win  *mdl.Window
	rd   *mdl.Renderer
	quit bool
}

func (a *App) Lib() *mdl.Lib           { return a.l }
func (a *App) Window() *mdl.Window     { return a.win }
func (a *App) Renderer() *mdl.Renderer { return a.rd }

// Quit makes the loop exit before its next iteration.
//
func (a *App) Quit() {
	a.quit = true
}

type config struct {
	libOpts []mdl.Option
	winOpts []mdl.WindowOption
	dt      time.Duration
	maxFT   time.Duration
	minFT   time.Duration
}

// Option is implemented by option functions passed as arguments to Main.
//
type Option interface {
	set(*config)
}

type option func(*config)

func (f option) set(cfg *config) {
	f(cfg)
}

// Driver makes Main initialize the toolkit with d instead of the build
// selected driver.
//
func Driver(d driver.Driver) Option {
	return option(func(cfg *config) {
		cfg.libOpts = append(cfg.libOpts, mdl.WithDriver(d))
	})
}

// Title sets the window title.
//
func Title(title string) Option {
	return option(func(cfg *config) {
		cfg.winOpts = append(cfg.winOpts, mdl.Title(title))
	})
}

// Pos sets the window position.
//
func Pos(x, y int) Option {
	return option(func(cfg *config) {
		cfg.winOpts = append(cfg.winOpts, mdl.Pos(x, y))
	})
}

// Size sets the window size.
//
func Size(w, h int) Option {
	return option(func(cfg *config) {
		cfg.winOpts = append(cfg.winOpts, mdl.Size(w, h))
	})
}

// FullScreen makes the window full screen.
//
func FullScreen() Option {
	return option(func(cfg *config) {
		cfg.winOpts = append(cfg.winOpts, mdl.FullScreen())
	})
}

// Visible sets the initial window visibility.
//
func Visible(b bool) Option {
	return option(func(cfg *config) {
		cfg.winOpts = append(cfg.winOpts, mdl.Visible(b))
	})
}

// Resizable makes the window resizable.
//
func Resizable() Option {
	return option(func(cfg *config) {
		cfg.winOpts = append(cfg.winOpts, mdl.Resizable())
	})
}

// TimeStep sets the fixed simulation timestep. The default is DefaultDT.
//
func TimeStep(dt time.Duration) Option {
	return option(func(cfg *config) {
		cfg.dt = dt
	})
}

// MaxFrameTime clamps the measured frame time so that a long stall does not
// flood OnUpdate with catch-up steps. The default is DefaultMaxFT.
//
func MaxFrameTime(d time.Duration) Option {
	return option(func(cfg *config) {
		cfg.maxFT = d
	})
}

// MinFrameTime caps the frame rate to time.Second/d frames per second.
//
func MinFrameTime(d time.Duration) Option {
	return option(func(cfg *config) {
		cfg.minFT = d
	})
}

// Main initializes the toolkit, creates a window and its renderer, then
// calls a.OnInit and runs the loop until the event pump reports a quit
// request or the application calls Quit. It must be called from the main
// goroutine.
//
func Main(a Interface, opts ...Option) error {
	cfg := config{dt: DefaultDT, maxFT: DefaultMaxFT}
	for _, o := range opts {
		o.set(&cfg)
	}

	l, err := mdl.Init(cfg.libOpts...)
	if err != nil {
		return err
	}
	defer l.Close()
	win, err := l.CreateWindow(cfg.winOpts...)
	if err != nil {
		return err
	}
	defer win.Destroy()
	rd, err := l.CreateRenderer(win)
	if err != nil {
		return err
	}
	defer rd.Destroy()

	app := &App{l: l, win: win, rd: rd}
	if err = a.OnInit(app); err != nil {
		return err
	}
	run(a, app, &cfg)
	return a.OnQuit()
}

func run(a Interface, app *App, cfg *config) {
	var ticker *time.Ticker
	if cfg.minFT > 0 {
		ticker = time.NewTicker(cfg.minFT)
		defer ticker.Stop()
	}
	fStart, _ := a.(FrameStarter)

	var (
		tPrev = time.Now()
		tAcc  time.Duration
	)
	for !app.quit && !app.l.Pump() {
		now := time.Now()
		if ticker != nil {
			now = <-ticker.C
		}
		ft := now.Sub(tPrev)
		if ft > cfg.maxFT {
			ft = cfg.maxFT
		}
		tAcc += ft
		tPrev = now
		if fStart != nil {
			fStart.FrameStart(now)
		}
		for dt := cfg.dt; tAcc >= dt; tAcc -= dt {
			a.OnUpdate(dt)
		}
		a.OnDraw(app.rd, tAcc)
		app.rd.Present()
	}
}
