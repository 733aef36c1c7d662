package asset

import (
	"io"
	"io/ioutil"

	"github.com/db47h/mdl"
	"github.com/db47h/mdl/text"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/xerrors"
)

type fnt struct {
	name string
	f    *truetype.Font
	ds   map[fntOpts]*text.Drawer
}

func (f *fnt) Close() error {
	var errs errorList
	for opts, d := range f.ds {
		if err := d.Close(); err != nil {
			errs = append(errs, xerrors.Errorf("close drawer %v: %w", opts, err))
		}
	}
	f.ds = nil
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type fntOpts struct {
	sz float64
	h  text.Hinting
	sm mdl.ScaleMode
}

// FontPath returns an Option that sets the default font path.
//
func FontPath(name string) Option {
	return cfn(func(cfg *config) {
		cfg.fontPath = name
	})
}

func loadFont(r io.Reader, name string) (interface{}, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, err
	}
	return &fnt{name, ttf, make(map[fntOpts]*text.Drawer)}, nil
}

// Font returns the named font asset.
//
func (m *Manager) Font(name string) (*truetype.Font, error) {
	m.m.Lock()
	defer m.m.Unlock()
	a, err := m.get(Font(name))
	if err != nil {
		return nil, err
	}
	if f, ok := a.(*fnt); ok {
		return f.f, nil
	}
	return nil, xerrors.Errorf("asset %s is not a font", name)
}

// TextDrawer returns a text.Drawer for the given font face (with a default
// DPI of 72).
//
// Note that this function caches any text.Drawer created. The only way to
// clean the cache is to Discard the corresponding font asset. If an
// application needs to be able to discard drawers, it should use Font()
// instead and manage font.Face and text.Drawer creation and caching
// manually.
//
func (m *Manager) TextDrawer(name string, size float64, hinting text.Hinting, filter mdl.ScaleMode) (*text.Drawer, error) {
	m.m.Lock()
	defer m.m.Unlock()
	a, err := m.get(Font(name))
	if err != nil {
		return nil, err
	}
	f, ok := a.(*fnt)
	if !ok {
		return nil, xerrors.Errorf("asset %s is not a font", name)
	}
	opts := fntOpts{size, hinting, filter}
	if d := f.ds[opts]; d != nil {
		return d, nil
	}
	d := text.NewDrawer(truetype.NewFace(f.f, &truetype.Options{
		Size:       size,
		Hinting:    font.Hinting(hinting),
		DPI:        72,
		SubPixelsX: text.SubPixelsX,
		SubPixelsY: text.SubPixelsY,
	}), filter)
	f.ds[opts] = d
	return d, nil
}
