package decodepipeline

import (
	"time"

	"github.com/fathomsound/oggdecode/internal/pixconv"
)

// Options configures a decode Handle, per spec.md §6.
type Options struct {
	// MaxBufferedVideoFrames bounds the video output queue; the worker
	// blocks once it is reached. Defaults to 20 if zero.
	MaxBufferedVideoFrames int

	// OutputPixelFormat selects the layout VideoFrame.Pixels is packed
	// into. Defaults to pixconv.YV12 if unset (zero value).
	OutputPixelFormat pixconv.Format
}

// withDefaults fills the zero-value fields of o with their documented
// defaults and returns the result.
func (o Options) withDefaults() Options {
	if o.MaxBufferedVideoFrames <= 0 {
		o.MaxBufferedVideoFrames = 20
	}
	return o
}

// VideoFrame is one decoded, presentation-ready video frame. It carries no
// client-visible "next" pointer: ownership transfer on GetVideo is
// expressed by returning a value the caller now exclusively owns, per
// spec.md §9 ("implementations should adopt the newer surface").
type VideoFrame struct {
	PlayTime time.Duration
	Width    int
	Height   int
	Format   pixconv.Format
	Pixels   []byte
}

// AudioPacket is one decoded, interleaved-float32 audio buffer.
type AudioPacket struct {
	PlayTime time.Duration
	Channels int
	Frames   int
	Samples  []float32
}
