package imageproc

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Engine names the rasterizer used to turn a parsed font into faces.
type Engine string

const (
	EngineOpenType Engine = "opentype"
	EngineFreeType Engine = "freetype"
)

var ErrUnknownEngine = errors.New("unknown font engine")

// Font is a parsed font shared read-only by every request. Faces built from
// it are not safe for concurrent use, so each caller gets its own provider
// through NewProvider.
type Font struct {
	Name   string
	Engine Engine

	newFace func(size float64) (font.Face, error)
}

// ParseFont parses TrueType/OpenType data with the given engine.
func ParseFont(name string, data []byte, engine Engine) (*Font, error) {
	switch engine {
	case EngineOpenType, "":
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("can't parse font %s: %w", name, err)
		}
		return &Font{
			Name:   name,
			Engine: EngineOpenType,
			newFace: func(size float64) (font.Face, error) {
				return opentype.NewFace(f, &opentype.FaceOptions{
					Size: size, DPI: 72, Hinting: font.HintingNone,
				})
			},
		}, nil
	case EngineFreeType:
		f, err := truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("can't parse font %s: %w", name, err)
		}
		return &Font{
			Name:   name,
			Engine: EngineFreeType,
			newFace: func(size float64) (font.Face, error) {
				if size <= 0 {
					return nil, fmt.Errorf("invalid font size %v", size)
				}
				return truetype.NewFace(f, &truetype.Options{
					Size: size, DPI: 72, Hinting: font.HintingNone,
				}), nil
			},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}
}

// DefaultFont returns the embedded Go Regular font.
func DefaultFont(engine Engine) (*Font, error) {
	return ParseFont("goregular", goregular.TTF, engine)
}

// LoadFont reads a font file from disk. An empty path selects the embedded
// default font.
func LoadFont(path string, engine Engine) (*Font, error) {
	if path == "" {
		return DefaultFont(engine)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read font: %w", err)
	}
	return ParseFont(path, data, engine)
}

// NewProvider returns a metrics provider backed by fresh faces of f.
func (f *Font) NewProvider() *FaceProvider {
	return &FaceProvider{
		newFace: f.newFace,
		faces:   make(map[float64]font.Face),
	}
}
