// Package decodepipeline ties the Ogg page reassembly, Theora/Vorbis
// bootstrap, and steady-state decode loop together behind the Handle type,
// the library's public surface.
package decodepipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/fathomsound/oggdecode/internal/observability"
	"github.com/fathomsound/oggdecode/internal/oggwire"
)

// Handle is one decode session: one input, one worker goroutine, two
// output queues, per spec.md §3/§4.1.
type Handle struct {
	id   string
	opts Options

	log     *slog.Logger
	metrics *observability.Metrics

	q *queues

	cancel context.CancelFunc
	done   chan struct{}

	decoding atomic.Bool

	errMu sync.Mutex
	err   error

	metaMu sync.Mutex
	vendor string
	tags   []string
}

// NewHandle builds a Handle that is not yet decoding; call Start to begin.
// log and metrics may be nil: a nil log falls back to slog.Default(), and
// a nil metrics leaves decode events uninstrumented.
func NewHandle(opts Options, log *slog.Logger, metrics *observability.Metrics) *Handle {
	if log == nil {
		log = slog.Default()
	}
	o := opts.withDefaults()
	return &Handle{
		id:      uuid.NewString(),
		opts:    o,
		log:     log,
		metrics: metrics,
		q:       newQueues(o.MaxBufferedVideoFrames),
	}
}

// ID identifies this Handle in logs and metrics labels.
func (h *Handle) ID() string { return h.id }

// Start opens path and launches the worker goroutine that bootstraps the
// container's substreams and then decodes until end of stream, a decode
// failure, or Stop, per spec.md §4.1. Start returns once the byte source
// has been opened; bootstrap and decode happen asynchronously, observable
// through IsDecoding/HadError/Err.
func (h *Handle) Start(path string) error {
	src, err := openSource(path)
	if err != nil {
		return wrapErr(ErrOpenFailure, err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.done = make(chan struct{})
	h.decoding.Store(true)

	p := &pipeline{
		h:       h,
		src:     src,
		syn:     oggwire.NewSyncState(),
		log:     h.log,
		metrics: h.metrics,
	}

	go h.run(ctx, p)
	return nil
}

func (h *Handle) run(ctx context.Context, p *pipeline) {
	defer close(h.done)
	defer p.close()
	defer h.decoding.Store(false)

	if err := bootstrapStreams(p); err != nil {
		h.setErr(err)
		return
	}

	h.captureMetadata(p)

	if h.log != nil {
		videoCodec, audioCodec := "", ""
		if p.video != nil {
			videoCodec = string(p.video.tag)
		}
		if p.audio != nil {
			audioCodec = string(p.audio.tag)
		}
		h.log.Info("decode started", "handle", h.id,
			"video_codec", videoCodec, "audio_codec", audioCodec)
	}

	if err := steadyState(ctx, p, h.q); err != nil {
		h.setErr(err)
		return
	}

	if h.log != nil {
		h.log.Info("decode reached end of stream", "handle", h.id)
	}
}

// captureMetadata records the Vorbis vendor string and comment list once
// header bootstrap completes, NFC-normalising both (spec.md §3's
// [SUPPLEMENT] Tags/Vendor accessors — comment fields are free-form UTF-8
// and different encoders emit different normalisation forms).
func (h *Handle) captureMetadata(p *pipeline) {
	if p.audio == nil {
		return
	}
	comments := p.audio.codec.Comments()
	tags := make([]string, len(comments))
	for i, c := range comments {
		tags[i] = norm.NFC.String(c)
	}

	h.metaMu.Lock()
	h.vendor = norm.NFC.String(p.audio.codec.Vendor())
	h.tags = tags
	h.metaMu.Unlock()
}

// Stop halts decoding, unblocking a worker parked on backpressure, waits
// for the worker goroutine to exit, and drains any items still queued, per
// spec.md §4.1. Stop is safe to call at most once per Handle; a Handle is
// not reusable after Stop, matching theoraplay.c's one-shot THEORAPLAY_Stop.
func (h *Handle) Stop() {
	if h.cancel != nil {
		h.cancel()
	}
	if h.done != nil {
		<-h.done
	}
	h.q.drain()
}

// IsDecoding reports whether the worker goroutine is still running.
func (h *Handle) IsDecoding() bool {
	return h.decoding.Load()
}

// GetVideo dequeues the oldest pending decoded video frame, if any.
func (h *Handle) GetVideo() (VideoFrame, bool) {
	return h.q.popVideo()
}

// GetAudio dequeues the oldest pending decoded audio packet, if any.
func (h *Handle) GetAudio() (AudioPacket, bool) {
	return h.q.popAudio()
}

// VideoQueueDepth reports how many decoded video frames are presently
// queued, per spec.md §4.6.
func (h *Handle) VideoQueueDepth() int {
	return h.q.videoDepth()
}

// HadError reports whether the worker stopped because of a failure rather
// than a clean end of stream.
func (h *Handle) HadError() bool {
	h.errMu.Lock()
	defer h.errMu.Unlock()
	return h.err != nil
}

// Err returns the failure that stopped the worker, or nil on a clean end
// of stream (or if decoding is still in progress).
func (h *Handle) Err() error {
	h.errMu.Lock()
	defer h.errMu.Unlock()
	return h.err
}

// Vendor returns the Vorbis encoder's vendor string, available once
// bootstrap completes; it is empty if the container carries no audio
// substream.
func (h *Handle) Vendor() string {
	h.metaMu.Lock()
	defer h.metaMu.Unlock()
	return h.vendor
}

// Tags returns the Vorbis comment ("TAG=value") list, available once
// bootstrap completes.
func (h *Handle) Tags() []string {
	h.metaMu.Lock()
	defer h.metaMu.Unlock()
	out := make([]string, len(h.tags))
	copy(out, h.tags)
	return out
}

func (h *Handle) setErr(err error) {
	h.errMu.Lock()
	h.err = err
	h.errMu.Unlock()

	if h.log != nil {
		h.log.Error("decode pipeline stopped", "handle", h.id, "error", err)
	}
	if h.metrics != nil {
		h.metrics.DecodeErrors.WithLabelValues(h.id, errorKind(err)).Inc()
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrOpenFailure):
		return "open"
	case errors.Is(err, ErrBootstrapFailure):
		return "bootstrap"
	case errors.Is(err, ErrAllocFailure):
		return "alloc"
	case errors.Is(err, ErrDecodeFailure):
		return "decode"
	default:
		return "unknown"
	}
}
