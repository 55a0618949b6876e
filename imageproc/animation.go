package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"time"

	"github.com/gabriel-vasile/mimetype"

	_ "github.com/deepteams/webp"
	"github.com/deepteams/webp/animation"
)

var (
	ErrNoFrames      = errors.New("animation has no frames")
	ErrUnknownFormat = errors.New("unsupported animation format")
)

// Frame is one fully composited frame of an animation.
type Frame struct {
	Image *image.RGBA
	Delay time.Duration
	// Index is the 1-based position of the frame in its animation.
	Index int
	// Palette is the source palette for GIF input, nil otherwise.
	Palette color.Palette
}

// Clone returns a copy of the frame's pixels that can be drawn on.
func (f Frame) Clone() *image.RGBA {
	return cloneRGBA(f.Image)
}

// Animation is a decoded source animation. It is treated as read-only once
// loaded and may be shared between goroutines.
type Animation struct {
	Frames []Frame
	Width  int
	Height int
}

// LoadAnimation reads a GIF or animated WebP file.
func LoadAnimation(path string) (*Animation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read animation: %w", err)
	}
	return DecodeAnimation(data)
}

// DecodeAnimation sniffs the container format of data and decodes it.
func DecodeAnimation(data []byte) (*Animation, error) {
	switch mt := mimetype.Detect(data); {
	case mt.Is("image/gif"):
		return DecodeGIF(bytes.NewReader(data))
	case mt.Is("image/webp"):
		return DecodeWebP(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, mt.String())
	}
}

// DecodeGIF decodes every frame of a GIF and composites it onto the logical
// screen, honoring each frame's disposal method.
func DecodeGIF(r io.Reader) (*Animation, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("can't decode gif: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, ErrNoFrames
	}

	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		b := g.Image[0].Bounds()
		w, h = b.Max.X, b.Max.Y
	}

	anim := &Animation{
		Frames: make([]Frame, 0, len(g.Image)),
		Width:  w,
		Height: h,
	}
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, frame := range g.Image {
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}

		var prev *image.RGBA
		if disposal == gif.DisposalPrevious {
			prev = cloneRGBA(canvas)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		anim.Frames = append(anim.Frames, Frame{
			Image:   cloneRGBA(canvas),
			Delay:   time.Duration(g.Delay[i]) * 10 * time.Millisecond,
			Index:   i + 1,
			Palette: frame.Palette,
		})

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = prev
		}
	}
	return anim, nil
}

// DecodeWebP decodes an animated WebP into composited frames.
func DecodeWebP(r io.Reader) (*Animation, error) {
	wa, err := animation.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("can't decode webp: %w", err)
	}
	if len(wa.Frames) == 0 {
		return nil, ErrNoFrames
	}
	if err := wa.DecodeFrames(); err != nil {
		return nil, fmt.Errorf("can't decode webp frames: %w", err)
	}

	anim := &Animation{
		Frames: make([]Frame, 0, len(wa.Frames)),
		Width:  wa.CanvasWidth,
		Height: wa.CanvasHeight,
	}
	dec := animation.NewAnimDecoder(wa)
	for dec.HasNext() {
		img, delay, err := dec.NextFrame()
		if err != nil {
			return nil, fmt.Errorf("can't composite webp frame %d: %w", len(anim.Frames)+1, err)
		}
		rgba := image.NewRGBA(img.Bounds())
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
		anim.Frames = append(anim.Frames, Frame{
			Image: rgba,
			Delay: delay,
			Index: len(anim.Frames) + 1,
		})
	}
	return anim, nil
}

func cloneRGBA(img *image.RGBA) *image.RGBA {
	cp := image.NewRGBA(img.Bounds())
	copy(cp.Pix, img.Pix)
	return cp
}
