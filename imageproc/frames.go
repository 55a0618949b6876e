package imageproc

import "time"

// FrameRange selects the frames that receive the caption. Both ends are
// exclusive and frame indices are 1-based. An End of zero or less counts back
// from the end of the animation: 0 captions through the last frame, -1 stops
// before it.
type FrameRange struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

func (r FrameRange) ShouldCaption(frameIndex, totalFrames int) bool {
	end := r.End
	if end <= 0 {
		end += totalFrames + 1
	}
	return r.Start < frameIndex && frameIndex < end
}

// DelayPolicy decides the display time of every output frame.
type DelayPolicy struct {
	Fixed time.Duration `yaml:"fixed"`
	// PreserveSource keeps each source frame's own delay when it has one.
	PreserveSource bool `yaml:"preserve_source"`
}

func (p DelayPolicy) For(f Frame) time.Duration {
	if p.PreserveSource && f.Delay > 0 {
		return f.Delay
	}
	return p.Fixed
}
