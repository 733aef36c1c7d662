package asset

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/db47h/mdl"
	_ "golang.org/x/image/bmp"
	"golang.org/x/xerrors"
)

// srfImage is a decoded image not yet bound to a library surface.
type srfImage struct {
	img image.Image
}

func (*srfImage) Close() error { return nil }

type srf struct {
	s *mdl.Surface
}

func (s *srf) Close() error {
	s.s.Free()
	return nil
}

// SurfacePath returns an Option that sets the default surface path.
//
func SurfacePath(name string) Option {
	return cfn(func(cfg *config) {
		cfg.surfacePath = name
	})
}

func loadSurface(r io.Reader, name string) (interface{}, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return &srfImage{src}, nil
}

// Surface returns the named surface asset, binding it to a library surface
// on first use.
//
func (m *Manager) Surface(name string) (*mdl.Surface, error) {
	m.m.Lock()
	defer m.m.Unlock()
	a, err := m.get(Surface(name))
	if err != nil {
		return nil, err
	}
	switch t := a.(type) {
	case *srf:
		return t.s, nil
	case *srfImage:
		s, err := m.l.SurfaceFromImage(t.img)
		if err != nil {
			return nil, xerrors.Errorf("load %s: %w", Surface(name), err)
		}
		m.assets[Surface(name)] = &srf{s}
		return s, nil
	}
	return nil, xerrors.Errorf("asset %s is not a surface", name)
}
