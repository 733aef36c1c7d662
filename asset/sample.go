package asset

import (
	"bytes"
	"io"
	"io/ioutil"

	"github.com/db47h/mdl"
	"golang.org/x/xerrors"
)

// smp and mus hold raw audio file contents. Decoding is done by the mixer
// when the asset is first bound, so preloading audio does not require an
// open audio device.
type smp []byte

type mus []byte

type chk struct {
	c *mdl.Chunk
}

func (c *chk) Close() error {
	c.c.Free()
	return nil
}

type msc struct {
	m *mdl.Music
}

func (m *msc) Close() error {
	m.m.Free()
	return nil
}

// AudioPath returns an Option that sets the default path for audio samples
// and music.
//
func AudioPath(name string) Option {
	return cfn(func(cfg *config) {
		cfg.audioPath = name
	})
}

func loadChunk(r io.Reader, name string) (interface{}, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return smp(data), nil
}

func loadMusic(r io.Reader, name string) (interface{}, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return mus(data), nil
}

// Chunk returns the named chunk asset, binding it through mx on first use.
//
func (m *Manager) Chunk(mx *mdl.Mixer, name string) (*mdl.Chunk, error) {
	m.m.Lock()
	defer m.m.Unlock()
	a, err := m.get(Chunk(name))
	if err != nil {
		return nil, err
	}
	switch t := a.(type) {
	case *chk:
		return t.c, nil
	case smp:
		c, err := mx.LoadChunk(bytes.NewReader(t))
		if err != nil {
			return nil, xerrors.Errorf("load %s: %w", Chunk(name), err)
		}
		m.assets[Chunk(name)] = &chk{c}
		return c, nil
	}
	return nil, xerrors.Errorf("asset %s is not a chunk", name)
}

// Music returns the named music asset, binding it through mx on first use.
//
func (m *Manager) Music(mx *mdl.Mixer, name string) (*mdl.Music, error) {
	m.m.Lock()
	defer m.m.Unlock()
	a, err := m.get(Music(name))
	if err != nil {
		return nil, err
	}
	switch t := a.(type) {
	case *msc:
		return t.m, nil
	case mus:
		mu, err := mx.LoadMusic(bytes.NewReader(t))
		if err != nil {
			return nil, xerrors.Errorf("load %s: %w", Music(name), err)
		}
		m.assets[Music(name)] = &msc{mu}
		return mu, nil
	}
	return nil, xerrors.Errorf("asset %s is not a music stream", name)
}
