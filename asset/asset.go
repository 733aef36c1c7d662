// Package asset provides asynchronous loading and caching of the data
// files used by a game: surfaces, fonts, audio samples, music and raw
// files.
//
// Assets are loaded from an overlay filesystem (see github.com/db47h/ofs)
// and go through two stages: the raw file is read and decoded on any
// goroutine (this is the part Preload parallelizes), then the decoded data
// is bound to its library resource the first time it is requested.
//
package asset

import (
	"io"
	"path"
	"strings"

	"golang.org/x/xerrors"
)

var errMissingAsset = xerrors.New("asset not found")

// Type designates the type of an asset.
//
type Type int

const (
	TypeSurface = iota
	TypeFont
	TypeChunk
	TypeMusic
	TypeFile
	typeLast
)

// Asset uniquely describes an asset.
//
type Asset struct {
	Type
	Name string
}

func (a Asset) String() string {
	switch a.Type {
	case TypeSurface:
		return "surface asset " + a.Name
	case TypeFont:
		return "font asset " + a.Name
	case TypeChunk:
		return "chunk asset " + a.Name
	case TypeMusic:
		return "music asset " + a.Name
	case TypeFile:
		return "file asset " + a.Name
	}
	return "unknown asset " + a.Name
}

func Surface(name string) Asset { return Asset{TypeSurface, name} }
func Font(name string) Asset    { return Asset{TypeFont, name} }
func Chunk(name string) Asset   { return Asset{TypeChunk, name} }
func Music(name string) Asset   { return Asset{TypeMusic, name} }
func File(name string) Asset    { return Asset{TypeFile, name} }

// Result wraps the result from preloading an asset.
//
type Result struct {
	Asset
	Err error
}

// loaders turn a raw asset stream into its cached form. They run outside
// the manager lock and must not touch library resources.
//
var loaders = [typeLast]func(r io.Reader, name string) (interface{}, error){
	TypeSurface: loadSurface,
	TypeFont:    loadFont,
	TypeChunk:   loadChunk,
	TypeMusic:   loadMusic,
	TypeFile:    loadFile,
}

type config struct {
	surfacePath string
	fontPath    string
	audioPath   string
	filePath    string
}

func (cfg *config) assetPath(a Asset) string {
	switch a.Type {
	case TypeSurface:
		return path.Join(cfg.surfacePath, a.Name)
	case TypeFont:
		return path.Join(cfg.fontPath, a.Name)
	case TypeChunk, TypeMusic:
		return path.Join(cfg.audioPath, a.Name)
	case TypeFile:
		return path.Join(cfg.filePath, a.Name)
	}
	return a.Name
}

// Option is implemented by option functions passed as arguments to NewManager.
//
type Option interface {
	set(*config)
}

type cfn func(*config)

func (f cfn) set(cfg *config) {
	f(cfg)
}

type closer interface {
	Close() error
}

type errorList []error

func (e errorList) Error() string {
	var sb strings.Builder
	for i, err := range e {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}
