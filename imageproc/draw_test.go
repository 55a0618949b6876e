package imageproc

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/math/fixed"
)

func TestBlend(t *testing.T) {
	src := color.RGBA{10, 20, 30, 255}
	over := color.RGBA{250, 200, 100, 255}

	if got := Blend(src, over, 0); got != src {
		t.Errorf("Blend at 0 = %v, want %v", got, src)
	}
	if got := Blend(src, over, 1); got != over {
		t.Errorf("Blend at 1 = %v, want %v", got, over)
	}
	want := color.RGBA{130, 110, 65, 255}
	if got := Blend(src, over, 0.5); got != want {
		t.Errorf("Blend at 0.5 = %v, want %v", got, want)
	}
}

func TestDrawCaptionEmpty(t *testing.T) {
	img := filledRGBA(100, 100, gray)
	before := append([]uint8(nil), img.Pix...)

	DrawCaption(img, white, gridProvider{}, "", 18, 20, 10)
	DrawCaption(img, white, gridProvider{}, "   ", 18, 20, 10)

	if !bytes.Equal(img.Pix, before) {
		t.Error("empty caption changed pixels")
	}
}

func TestDrawCaptionZeroCoverage(t *testing.T) {
	img := filledRGBA(100, 100, gray)
	before := append([]uint8(nil), img.Pix...)

	DrawCaption(img, white, zeroInk{}, "Hello World", 18, 20, 10)

	if !bytes.Equal(img.Pix, before) {
		t.Error("zero coverage changed pixels")
	}
}

// zeroInk reports glyph boxes whose coverage is all zero.
type zeroInk struct{ gridProvider }

func (z zeroInk) Layout(text string, scale float64, origin fixed.Point26_6) []PositionedGlyph {
	glyphs := z.gridProvider.Layout(text, scale, origin)
	for _, g := range glyphs {
		if g.Coverage != nil {
			clear(g.Coverage.Pix)
		}
	}
	return glyphs
}

func TestDrawCaptionTwoLines(t *testing.T) {
	img := filledRGBA(100, 100, gray)

	// 80px budget: "Hello World" is 105px, so it breaks into two lines
	DrawCaption(img, white, gridProvider{}, "Hello World", 18, 20, 10)

	// line height 16, first line top at 100 - 20 - 2*16 = 48
	// each line is 50px wide, centered at 50 - 25 = 25
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{25, 48, white},
		{74, 48, white},
		{24, 48, gray},
		{75, 48, gray},
		{50, 47, gray},
		{50, 57, white},
		{50, 58, gray},
		{50, 63, gray},
		{25, 64, white},
		{74, 73, white},
		{50, 74, gray},
		{50, 80, gray},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDrawTextCenteredClips(t *testing.T) {
	// draw onto a window of a larger image; nothing outside the window may change
	outer := filledRGBA(60, 60, gray)
	window := outer.SubImage(image.Rect(20, 20, 40, 40)).(*image.RGBA)

	DrawTextCentered(window, white, gridProvider{}, "wider than the window", 18, -5)
	DrawTextCentered(window, white, gridProvider{}, "low", 18, 15)
	DrawLines(window, white, gridProvider{}, WrapLines("a b c d e f g h", gridProvider{}, 18, 10), 18, 0)

	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			if image.Pt(x, y).In(window.Bounds()) {
				continue
			}
			if got := outer.RGBAAt(x, y); got != gray {
				t.Fatalf("pixel (%d, %d) outside the window = %v", x, y, got)
			}
		}
	}
	if got := window.RGBAAt(20, 20); got != white {
		t.Errorf("window corner = %v, want caption color", got)
	}
}

func TestDrawTextCenteredNonRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	DrawTextCentered(img, white, gridProvider{}, "ab", 18, 0)

	if got := img.NRGBAAt(10, 0); got != (color.NRGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("pixel = %v, want white", got)
	}
	if got := img.NRGBAAt(9, 0); got.A != 0 {
		t.Errorf("pixel left of text = %v, want transparent", got)
	}
}

func TestLineWidth(t *testing.T) {
	m := gridProvider{}
	if got := LineWidth(nil); got != 0 {
		t.Errorf("LineWidth(nil) = %d", got)
	}
	if got := LineWidth(m.Layout("abc", 18, fixed.P(0, 10))); got != 30 {
		t.Errorf("LineWidth(abc) = %d, want 30", got)
	}
	// the last glyph has no ink
	if got := LineWidth(m.Layout("abc ", 18, fixed.P(0, 10))); got != 0 {
		t.Errorf("LineWidth(abc ) = %d, want 0", got)
	}
}
