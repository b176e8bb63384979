package decodepipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuesFIFOOrder(t *testing.T) {
	q := newQueues(10)

	for i := 0; i < 3; i++ {
		require.NoError(t, q.acquireVideoSlot(context.Background()))
		q.pushVideo(VideoFrame{PlayTime: time.Duration(i)})
	}

	for i := 0; i < 3; i++ {
		f, ok := q.popVideo()
		require.True(t, ok)
		assert.Equal(t, time.Duration(i), f.PlayTime)
	}

	_, ok := q.popVideo()
	assert.False(t, ok)
}

func TestQueuesAudioIsUnbounded(t *testing.T) {
	q := newQueues(1)
	for i := 0; i < 50; i++ {
		q.pushAudio(AudioPacket{Frames: i})
	}
	for i := 0; i < 50; i++ {
		p, ok := q.popAudio()
		require.True(t, ok)
		assert.Equal(t, i, p.Frames)
	}
}

func TestQueuesVideoDepthTracksPushPop(t *testing.T) {
	q := newQueues(10)
	assert.Equal(t, 0, q.videoDepth())

	require.NoError(t, q.acquireVideoSlot(context.Background()))
	q.pushVideo(VideoFrame{})
	assert.Equal(t, 1, q.videoDepth())

	_, ok := q.popVideo()
	require.True(t, ok)
	assert.Equal(t, 0, q.videoDepth())
}

// TestQueuesBackpressureBlocksUntilDequeue exercises the semaphore gate:
// once MaxBufferedVideoFrames permits are acquired, a further acquire
// blocks until a pop releases one.
func TestQueuesBackpressureBlocksUntilDequeue(t *testing.T) {
	q := newQueues(1)
	require.NoError(t, q.acquireVideoSlot(context.Background()))
	q.pushVideo(VideoFrame{PlayTime: 1})

	acquired := make(chan struct{})
	go func() {
		_ = q.acquireVideoSlot(context.Background())
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("acquireVideoSlot should have blocked with the queue full")
	case <-time.After(50 * time.Millisecond):
	}

	_, ok := q.popVideo()
	require.True(t, ok)

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("acquireVideoSlot did not unblock after popVideo released a permit")
	}
}

// TestQueuesBackpressureRespectsContextCancellation mirrors Handle.Stop
// cancelling a worker parked on a full video queue.
func TestQueuesBackpressureRespectsContextCancellation(t *testing.T) {
	q := newQueues(1)
	require.NoError(t, q.acquireVideoSlot(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- q.acquireVideoSlot(ctx) }()

	cancel()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("acquireVideoSlot did not return after context cancellation")
	}
}

func TestQueuesDrainEmptiesBoth(t *testing.T) {
	q := newQueues(10)
	require.NoError(t, q.acquireVideoSlot(context.Background()))
	q.pushVideo(VideoFrame{})
	q.pushAudio(AudioPacket{})

	q.drain()

	_, ok := q.popVideo()
	assert.False(t, ok)
	_, ok = q.popAudio()
	assert.False(t, ok)
	assert.Equal(t, 0, q.videoDepth())
}
