package imageproc

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidOptions = errors.New("invalid options")

// Options configures how a caption is laid out on an animation and how the
// result is encoded.
type Options struct {
	Scale        float64     `yaml:"scale"`
	Color        HexColor    `yaml:"color"`
	BottomMargin int         `yaml:"bottom_margin"`
	HorizPadding int         `yaml:"horiz_padding"`
	Frames       FrameRange  `yaml:"frames"`
	Delay        DelayPolicy `yaml:"delay"`

	Dither      bool `yaml:"dither"`
	Workers     int  `yaml:"workers"`
	WebPQuality int  `yaml:"webp_quality"`
}

func DefaultOptions() Options {
	return Options{
		Scale:        18,
		Color:        HexColor{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		BottomMargin: 20,
		HorizPadding: 16,
		Frames:       FrameRange{Start: 12, End: 36},
		Delay:        DelayPolicy{Fixed: 60 * time.Millisecond},
		Workers:      runtime.NumCPU(),
		WebPQuality:  75,
	}
}

// LoadOptions overlays the YAML file at path onto DefaultOptions.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("failed to read layout file: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("failed to parse layout file: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("invalid layout file: %w", err)
	}
	return opts, nil
}

func (o Options) Validate() error {
	if o.Scale <= 0 {
		return fmt.Errorf("%w: scale must be positive, got %v", ErrInvalidOptions, o.Scale)
	}
	if o.BottomMargin < 0 || o.HorizPadding < 0 {
		return fmt.Errorf("%w: margins must not be negative", ErrInvalidOptions)
	}
	if o.Frames.End > 0 && o.Frames.End <= o.Frames.Start+1 {
		return fmt.Errorf("%w: frame range (%d, %d) is empty", ErrInvalidOptions, o.Frames.Start, o.Frames.End)
	}
	if o.Delay.Fixed < 0 {
		return fmt.Errorf("%w: negative delay %v", ErrInvalidOptions, o.Delay.Fixed)
	}
	if o.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidOptions)
	}
	if o.WebPQuality < 0 || o.WebPQuality > 100 {
		return fmt.Errorf("%w: webp_quality must be in [0, 100]", ErrInvalidOptions)
	}
	return nil
}

// HexColor is an opaque or translucent RGBA color written as "#rrggbb" or
// "#rrggbbaa".
type HexColor color.RGBA

func (c HexColor) RGBA() (r, g, b, a uint32) {
	return color.RGBA(c).RGBA()
}

func (c HexColor) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func ParseHexColor(s string) (HexColor, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return HexColor{}, fmt.Errorf("bad color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return HexColor{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	return HexColor{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func (c *HexColor) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseHexColor(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}

func (c HexColor) MarshalYAML() (any, error) {
	return c.String(), nil
}
