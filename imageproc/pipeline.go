package imageproc

import (
	"image"
	"image/color"
	"time"
)

// OutputFrame is a rendered frame ready for encoding.
type OutputFrame struct {
	Image   *image.RGBA
	Delay   time.Duration
	Palette color.Palette
}

// Pipeline captions the frames of an animation. It holds no per-request
// state and is safe for concurrent use.
type Pipeline struct {
	opts Options
}

func NewPipeline(opts Options) *Pipeline {
	return &Pipeline{opts: opts}
}

func (p *Pipeline) Options() Options {
	return p.opts
}

// Produce renders caption onto a copy of every selected frame of src, in
// source order. src is never modified.
func (p *Pipeline) Produce(src *Animation, m MetricsProvider, caption string) []OutputFrame {
	maxLinePx := float64(src.Width - 2*p.opts.HorizPadding)
	lines := WrapLines(caption, m, p.opts.Scale, maxLinePx)

	total := len(src.Frames)
	out := make([]OutputFrame, 0, total)
	for _, f := range src.Frames {
		buf := f.Clone()
		if p.opts.Frames.ShouldCaption(f.Index, total) {
			DrawLines(buf, p.opts.Color, m, lines, p.opts.Scale, p.opts.BottomMargin)
		}
		out = append(out, OutputFrame{
			Image:   buf,
			Delay:   p.opts.Delay.For(f),
			Palette: f.Palette,
		})
	}
	return out
}
