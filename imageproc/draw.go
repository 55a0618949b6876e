package imageproc

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/math/fixed"
)

// DrawCaption wraps caption to the width of dst minus horizPadding on each
// side and draws it bottom anchored, bottomMargin pixels above the bottom
// edge.
func DrawCaption(dst draw.Image, c color.Color, m MetricsProvider, caption string, scale float64, bottomMargin, horizPadding int) {
	maxLinePx := float64(dst.Bounds().Dx() - 2*horizPadding)
	lines := WrapLines(caption, m, scale, maxLinePx)
	DrawLines(dst, c, m, lines, scale, bottomMargin)
}

// DrawLines stacks lines one line height apart so that the last line ends
// bottomMargin pixels above the bottom of dst. Each line is centered on its
// own.
func DrawLines(dst draw.Image, c color.Color, m MetricsProvider, lines []Line, scale float64, bottomMargin int) {
	if len(lines) == 0 {
		return
	}
	lineHeight := m.VMetrics(scale).LineHeight()
	lineY := dst.Bounds().Dy() - bottomMargin - lineHeight*len(lines)
	for _, line := range lines {
		DrawTextCentered(dst, c, m, line.String(), scale, lineY)
		lineY += lineHeight
	}
}

// DrawTextCentered draws text horizontally centered on dst with the top of
// the line at y. Pixels falling outside dst are skipped.
func DrawTextCentered(dst draw.Image, c color.Color, m MetricsProvider, text string, scale float64, y int) {
	over := color.RGBAModel.Convert(c).(color.RGBA)
	b := dst.Bounds()

	vm := m.VMetrics(scale)
	glyphs := m.Layout(text, scale, fixed.Point26_6{Y: floatToFixed(vm.Ascent)})

	x := (b.Dx() / 2) - (LineWidth(glyphs) / 2)

	for _, g := range glyphs {
		bb, ok := g.PixelBoundingBox()
		if !ok {
			continue
		}
		g.Draw(func(gx, gy int, gv float32) {
			p := image.Pt(b.Min.X+x+bb.Min.X+gx, b.Min.Y+y+bb.Min.Y+gy)
			if !p.In(b) {
				return
			}
			blendPixel(dst, p.X, p.Y, over, gv)
		})
	}
}

// LineWidth is the right edge of the last glyph's ink box. A trailing glyph
// without ink yields 0.
// TODO: measure with the summed advances WrapLines uses, accepting that
// wrap points shift for existing captions.
func LineWidth(glyphs []PositionedGlyph) int {
	if len(glyphs) == 0 {
		return 0
	}
	if bb, ok := glyphs[len(glyphs)-1].PixelBoundingBox(); ok {
		return bb.Max.X
	}
	return 0
}

// Blend mixes over into src by coverage gv: src*(1-gv) + over*gv per channel.
func Blend(src, over color.RGBA, gv float32) color.RGBA {
	if gv <= 0 {
		return src
	}
	if gv >= 1 {
		return over
	}
	return color.RGBA{
		R: weightedSum(src.R, over.R, gv),
		G: weightedSum(src.G, over.G, gv),
		B: weightedSum(src.B, over.B, gv),
		A: weightedSum(src.A, over.A, gv),
	}
}

func weightedSum(a, b uint8, gv float32) uint8 {
	v := float32(a)*(1-gv) + float32(b)*gv + 0.5
	switch {
	case v < 0:
		return 0
	case v > 0xff:
		return 0xff
	}
	return uint8(v)
}

func blendPixel(dst draw.Image, x, y int, over color.RGBA, gv float32) {
	if rgba, ok := dst.(*image.RGBA); ok {
		rgba.SetRGBA(x, y, Blend(rgba.RGBAAt(x, y), over, gv))
		return
	}
	src := color.RGBAModel.Convert(dst.At(x, y)).(color.RGBA)
	dst.Set(x, y, Blend(src, over, gv))
}
