package imageproc

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// MetricsProvider answers the glyph queries needed to wrap and draw a
// caption. Scale is the font size in pixels per em.
type MetricsProvider interface {
	// AdvanceWidth measures a single rune in isolation, without kerning.
	AdvanceWidth(r rune, scale float64) float64
	VMetrics(scale float64) VMetrics
	// Layout positions one glyph per rune of text, starting the pen at origin.
	Layout(text string, scale float64, origin fixed.Point26_6) []PositionedGlyph
}

// VMetrics are the vertical font metrics at one scale, in pixels.
// Descent is a positive distance below the baseline.
type VMetrics struct {
	Ascent  float64
	Descent float64
	LineGap float64
}

// LineHeight is the baseline to baseline distance, truncated to whole pixels.
func (m VMetrics) LineHeight() int {
	return int(m.Ascent + math.Abs(m.Descent) + m.LineGap)
}

// PositionedGlyph is a laid out glyph that owns its coverage mask.
type PositionedGlyph struct {
	Rune rune
	// Dot is the pen position the glyph was drawn at.
	Dot fixed.Point26_6
	// Bounds is the pixel bounding box relative to the layout origin.
	// It is empty for glyphs without ink.
	Bounds image.Rectangle
	// Coverage has the same size as Bounds, anchored at (0, 0).
	Coverage *image.Alpha
}

// PixelBoundingBox reports the glyph's ink box, if it has any ink.
func (g PositionedGlyph) PixelBoundingBox() (image.Rectangle, bool) {
	if g.Coverage == nil || g.Bounds.Empty() {
		return image.Rectangle{}, false
	}
	return g.Bounds, true
}

// Draw calls fn for every pixel of the bounding box with coordinates local
// to the box and a coverage value in [0, 1].
func (g PositionedGlyph) Draw(fn func(x, y int, coverage float32)) {
	bb, ok := g.PixelBoundingBox()
	if !ok {
		return
	}
	for y := 0; y < bb.Dy(); y++ {
		for x := 0; x < bb.Dx(); x++ {
			fn(x, y, float32(g.Coverage.AlphaAt(x, y).A)/0xff)
		}
	}
}

// FaceProvider implements MetricsProvider on top of font.Face values, one
// per scale. It is not safe for concurrent use.
type FaceProvider struct {
	newFace func(size float64) (font.Face, error)
	faces   map[float64]font.Face
}

var _ MetricsProvider = (*FaceProvider)(nil)

func (p *FaceProvider) face(scale float64) font.Face {
	if f, ok := p.faces[scale]; ok {
		return f
	}
	f, err := p.newFace(scale)
	if err != nil {
		// keeps every query answerable
		f = basicfont.Face7x13
	}
	p.faces[scale] = f
	return f
}

// Close releases every face created by p.
func (p *FaceProvider) Close() error {
	var firstErr error
	for scale, f := range p.faces {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.faces, scale)
	}
	return firstErr
}

func (p *FaceProvider) AdvanceWidth(r rune, scale float64) float64 {
	// a missing rune still reports the advance of the font's notdef glyph
	adv, _ := p.face(scale).GlyphAdvance(r)
	return fixedToFloat(adv)
}

func (p *FaceProvider) VMetrics(scale float64) VMetrics {
	m := p.face(scale).Metrics()
	vm := VMetrics{
		Ascent:  fixedToFloat(m.Ascent),
		Descent: fixedToFloat(m.Descent),
	}
	if gap := fixedToFloat(m.Height) - vm.Ascent - vm.Descent; gap > 0 {
		vm.LineGap = gap
	}
	return vm
}

func (p *FaceProvider) Layout(text string, scale float64, origin fixed.Point26_6) []PositionedGlyph {
	face := p.face(scale)
	glyphs := make([]PositionedGlyph, 0, len(text))

	dot := origin
	prevC := rune(-1)
	for _, c := range text {
		if prevC >= 0 {
			dot.X += face.Kern(prevC, c)
		}
		g := PositionedGlyph{Rune: c, Dot: dot}
		dr, mask, maskp, advance, ok := face.Glyph(dot, c)
		if ok {
			if !dr.Empty() {
				// faces reuse their mask buffer between calls
				cov := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
				draw.Draw(cov, cov.Bounds(), mask, maskp, draw.Src)
				if hasInk(cov) {
					g.Bounds = dr
					g.Coverage = cov
				}
			}
		} else {
			advance, _ = face.GlyphAdvance(c)
		}
		glyphs = append(glyphs, g)

		dot.X += advance
		prevC = c
	}
	return glyphs
}

func hasInk(a *image.Alpha) bool {
	for _, v := range a.Pix {
		if v != 0 {
			return true
		}
	}
	return false
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
