package decodepipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionsWithDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, 20, o.MaxBufferedVideoFrames)

	o = Options{MaxBufferedVideoFrames: 5}.withDefaults()
	assert.Equal(t, 5, o.MaxBufferedVideoFrames)

	o = Options{MaxBufferedVideoFrames: -1}.withDefaults()
	assert.Equal(t, 20, o.MaxBufferedVideoFrames)
}

func TestFrameTimeAndSampleTime(t *testing.T) {
	assert.Equal(t, int64(0), frameTime(0, 30).Milliseconds())
	assert.InDelta(t, 1000.0/30.0, float64(frameTime(1, 30).Milliseconds()), 1)
	assert.Equal(t, frameTime(10, 0).Nanoseconds(), int64(0))

	assert.InDelta(t, 1000.0, float64(sampleTime(48000, 48000).Milliseconds()), 1)
	assert.Equal(t, sampleTime(100, 0).Nanoseconds(), int64(0))
}

func TestInterleave(t *testing.T) {
	pcm := [][]float32{
		{1, 2, 3},
		{10, 20, 30},
	}
	got := interleave(pcm, 3)
	assert.Equal(t, []float32{1, 10, 2, 20, 3, 30}, got)
}
