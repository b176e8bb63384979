package decodepipeline

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// videoNode and audioNode are the intrusive linked-queue nodes: items are
// owned exclusively by the queue while their node is reachable from head,
// and handed off entirely (node discarded) on pop, per spec.md §4.6/§9.
type videoNode struct {
	frame VideoFrame
	next  *videoNode
}

type audioNode struct {
	packet AudioPacket
	next   *audioNode
}

// queues holds both output queues behind the single mutex spec.md §4.6
// requires, plus the backpressure gate for video (spec.md §5, §9: the
// poll-sleep design note's suggested semaphore/condvar upgrade).
type queues struct {
	mu sync.Mutex

	videoHead, videoTail *videoNode
	videoLen             atomic.Int64

	audioHead, audioTail *audioNode

	// videoSem has MaxBufferedVideoFrames total permits. The worker
	// acquires one before enqueuing a video frame (blocking when the
	// queue is saturated) and GetVideo releases one on every successful
	// dequeue.
	videoSem *semaphore.Weighted
}

func newQueues(maxVideoFrames int) *queues {
	return &queues{videoSem: semaphore.NewWeighted(int64(maxVideoFrames))}
}

// acquireVideoSlot blocks until there is room for one more video frame, or
// ctx is cancelled (which Stop arranges to happen promptly on halt).
func (q *queues) acquireVideoSlot(ctx context.Context) error {
	return q.videoSem.Acquire(ctx, 1)
}

// pushVideo enqueues a fully-initialised frame at the tail. The caller
// must have already called acquireVideoSlot successfully.
func (q *queues) pushVideo(f VideoFrame) {
	node := &videoNode{frame: f}
	q.mu.Lock()
	if q.videoTail != nil {
		q.videoTail.next = node
	} else {
		q.videoHead = node
	}
	q.videoTail = node
	q.mu.Unlock()
	q.videoLen.Add(1)
}

// popVideo dequeues the head video frame, if any, releasing one
// backpressure permit on success.
func (q *queues) popVideo() (VideoFrame, bool) {
	q.mu.Lock()
	node := q.videoHead
	if node != nil {
		q.videoHead = node.next
		if q.videoHead == nil {
			q.videoTail = nil
		}
		node.next = nil
	}
	q.mu.Unlock()

	if node == nil {
		return VideoFrame{}, false
	}
	q.videoLen.Add(-1)
	q.videoSem.Release(1)
	return node.frame, true
}

// pushAudio enqueues a fully-initialised packet at the tail. Audio is
// deliberately unbounded (spec.md §4.4: "audio items are small and the
// consumer mixes from them in real time").
func (q *queues) pushAudio(a AudioPacket) {
	node := &audioNode{packet: a}
	q.mu.Lock()
	if q.audioTail != nil {
		q.audioTail.next = node
	} else {
		q.audioHead = node
	}
	q.audioTail = node
	q.mu.Unlock()
}

// popAudio dequeues the head audio packet, if any.
func (q *queues) popAudio() (AudioPacket, bool) {
	q.mu.Lock()
	node := q.audioHead
	if node != nil {
		q.audioHead = node.next
		if q.audioHead == nil {
			q.audioTail = nil
		}
		node.next = nil
	}
	q.mu.Unlock()

	if node == nil {
		return AudioPacket{}, false
	}
	return node.packet, true
}

// videoDepth returns the current video queue length without taking the
// mutex, per spec.md §4.6's "length counter ... to avoid O(n) inspection".
func (q *queues) videoDepth() int {
	return int(q.videoLen.Load())
}

// drain empties both queues, releasing any outstanding backpressure
// permits, for use during Stop's teardown (spec.md §4.1: "drains any
// items still queued").
func (q *queues) drain() {
	q.mu.Lock()
	for n := q.videoHead; n != nil; {
		next := n.next
		n.next = nil
		n = next
	}
	q.videoHead, q.videoTail = nil, nil
	for n := q.audioHead; n != nil; {
		next := n.next
		n.next = nil
		n = next
	}
	q.audioHead, q.audioTail = nil, nil
	q.mu.Unlock()
	if n := q.videoLen.Swap(0); n > 0 {
		q.videoSem.Release(n)
	}
}
