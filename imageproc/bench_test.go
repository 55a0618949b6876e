package imageproc

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

var benchCaption = strings.TrimSpace(`
hello darkness my old friend
i've come to talk with you again
`)

func benchmarkSource(b *testing.B) *Animation {
	data, err := os.ReadFile("../binderslap_opt.gif")
	if err != nil {
		return testAnimation(b, 48, 480, 240)
	}
	anim, err := DecodeAnimation(data)
	if err != nil {
		b.Skipf("failed to decode source gif")
	}
	return anim
}

func BenchmarkDrawCaption(b *testing.B) {
	for _, engine := range engines {
		b.Run(string(engine), func(b *testing.B) {
			m := testProvider(b, engine)
			src := benchmarkSource(b)
			frame := src.Frames[0].Clone()
			original := append([]uint8(nil), frame.Pix...)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				DrawCaption(frame, white, m, benchCaption, 18, 20, 16)
				copy(frame.Pix, original)
			}
		})
	}
}

func BenchmarkWrapLines(b *testing.B) {
	m := testProvider(b, EngineOpenType)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		WrapLines(benchCaption, m, 18, 448)
	}
}

func BenchmarkProduceAndEncode(b *testing.B) {
	src := benchmarkSource(b)
	m := testProvider(b, EngineOpenType)
	opts := DefaultOptions()
	p := NewPipeline(opts)
	encOpts := opts.EncodeOptions(src.Width, src.Height)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		frames := p.Produce(src, m, benchCaption)
		if err := EncodeGIF(bytes.NewBuffer(nil), frames, encOpts); err != nil {
			b.Fatal(err)
		}
	}
}
