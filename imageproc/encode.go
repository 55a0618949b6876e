package imageproc

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"strings"
	"time"

	"github.com/creachadair/taskgroup"
	"github.com/deepteams/webp/animation"
)

// Format is an output container format.
type Format string

const (
	FormatGIF  Format = "gif"
	FormatWebP Format = "webp"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatGIF, nil
	case FormatGIF, FormatWebP:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// EncodeOptions describes the output canvas. Output always repeats forever.
type EncodeOptions struct {
	Width  int
	Height int
	// Color is the caption color, guaranteed a palette slot in GIF output.
	Color   color.Color
	Dither  bool
	Workers int
	Quality int
}

// EncodeOptions derives encoder settings for an animation of the given size.
func (o Options) EncodeOptions(width, height int) EncodeOptions {
	return EncodeOptions{
		Width:   width,
		Height:  height,
		Color:   o.Color,
		Dither:  o.Dither,
		Workers: o.Workers,
		Quality: o.WebPQuality,
	}
}

func Encode(w io.Writer, format Format, frames []OutputFrame, opts EncodeOptions) error {
	switch format {
	case FormatGIF, "":
		return EncodeGIF(w, frames, opts)
	case FormatWebP:
		return EncodeWebP(w, frames, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// EncodeGIF quantizes every frame to its own palette and writes a looping GIF.
func EncodeGIF(w io.Writer, frames []OutputFrame, opts EncodeOptions) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}

	out := &gif.GIF{
		Image:     make([]*image.Paletted, len(frames)),
		Delay:     make([]int, len(frames)),
		Disposal:  make([]byte, len(frames)),
		LoopCount: 0,
		Config:    image.Config{Width: opts.Width, Height: opts.Height},
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	g, start := taskgroup.New(nil).Limit(workers)
	for i, f := range frames {
		out.Delay[i] = int(f.Delay / (10 * time.Millisecond))
		out.Disposal[i] = gif.DisposalNone
		start(func() error {
			out.Image[i] = quantize(f.Image, framePalette(f.Palette, opts.Color), opts.Dither)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("can't quantize frames: %w", err)
	}

	if err := gif.EncodeAll(w, out); err != nil {
		return fmt.Errorf("can't encode gif: %w", err)
	}
	return nil
}

// EncodeWebP writes a looping animated WebP.
func EncodeWebP(w io.Writer, frames []OutputFrame, opts EncodeOptions) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}

	enc := animation.NewEncoder(w, opts.Width, opts.Height, &animation.EncodeOptions{
		LoopCount: 0,
		Quality:   opts.Quality,
	})
	for i, f := range frames {
		if err := enc.AddFrame(f.Image, f.Delay); err != nil {
			return fmt.Errorf("can't encode webp frame %d: %w", i+1, err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("can't encode webp: %w", err)
	}
	return nil
}

// framePalette copies src and makes sure c is one of its colors. A full
// palette gives up the entry closest to c.
func framePalette(src color.Palette, c color.Color) color.Palette {
	if len(src) == 0 {
		src = palette.Plan9
	}
	pal := make(color.Palette, len(src), len(src)+1)
	copy(pal, src)
	if c == nil {
		return pal
	}

	want := color.RGBAModel.Convert(c)
	i := pal.Index(want)
	if color.RGBAModel.Convert(pal[i]) == want {
		return pal
	}
	if len(pal) < 256 {
		return append(pal, want)
	}
	pal[i] = want
	return pal
}

func quantize(src *image.RGBA, pal color.Palette, dither bool) *image.Paletted {
	b := src.Bounds()
	dst := image.NewPaletted(b, pal)
	if dither {
		draw.FloydSteinberg.Draw(dst, b, src, b.Min)
	} else {
		draw.Draw(dst, b, src, b.Min, draw.Src)
	}
	return dst
}
