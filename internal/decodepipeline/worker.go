package decodepipeline

import (
	"context"
	"time"

	"github.com/fathomsound/oggdecode/internal/oggwire"
	"github.com/fathomsound/oggdecode/internal/pixconv"
	"github.com/fathomsound/oggdecode/internal/theoracodec"
)

// steadyState runs the main decode loop described in spec.md §4.4, grounded
// on original_source/theoraplay.c's WorkerThread steady-state body: drain
// whatever audio and video packets are already reassembled, and only read
// more of the byte source once neither substream made progress. ctx
// cancellation (arranged by Handle.Stop) unblocks a worker parked on
// backpressure and ends the loop on the next iteration.
func steadyState(ctx context.Context, p *pipeline, q *queues) error {
	if p.pending != nil {
		p.routePage(p.pending)
		p.pending = nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		progressed := false

		if p.audio != nil {
			ok, err := p.decodeAudioPacket(q)
			if err != nil {
				return err
			}
			progressed = progressed || ok
		}

		if p.video != nil {
			ok, err := p.decodeVideoPacket(ctx, q)
			if err != nil {
				return err
			}
			progressed = progressed || ok
		}

		if progressed {
			continue
		}

		page, ok := p.nextPage()
		if !ok {
			return nil
		}
		p.routePage(page)
	}
}

// decodeAudioPacket pulls and decodes at most one reassembled Vorbis
// packet, pushing every PCM block it yields. ok is false only when the
// substream's reassembly buffer has no complete packet right now.
func (p *pipeline) decodeAudioPacket(q *queues) (bool, error) {
	var pkt oggwire.Packet
	if err := p.audio.oggStream.PacketOut(&pkt); err != nil {
		return false, nil
	}
	if err := p.audio.codec.FeedPacket(&pkt); err != nil {
		return false, wrapErr(ErrDecodeFailure, "audio: "+err.Error())
	}

	for {
		pcm, frames := p.audio.codec.PCMOut(4096)
		if frames == 0 {
			return true, nil
		}

		playTime := sampleTime(p.audio.sampleCounter, int(p.audio.info.SampleRate))
		p.audio.sampleCounter += uint64(frames)
		samples := interleave(pcm, frames)
		p.audio.codec.Read(frames)

		q.pushAudio(AudioPacket{
			PlayTime: playTime,
			Channels: p.audio.info.Channels,
			Frames:   frames,
			Samples:  samples,
		})

		if p.metrics != nil {
			p.metrics.SamplesDecoded.WithLabelValues(p.h.id, string(p.audio.tag)).Add(float64(frames))
		}
	}
}

// interleave packs per-channel PCM slices into the single interleaved
// buffer AudioPacket.Samples carries. The outer loop runs over frames and
// the inner loop over channels, matching PCM interleaving order; an
// earlier draft of this routine (and the original C it was ported from)
// had these two loop bounds swapped, which only happens to produce correct
// output for mono streams.
func interleave(pcm [][]float32, frames int) []float32 {
	channels := len(pcm)
	out := make([]float32, frames*channels)
	for frameidx := 0; frameidx < frames; frameidx++ {
		for chanidx := 0; chanidx < channels; chanidx++ {
			out[frameidx*channels+chanidx] = pcm[chanidx][frameidx]
		}
	}
	return out
}

// decodeVideoPacket pulls and decodes at most one reassembled Theora
// packet. ok is false only when the substream's reassembly buffer has no
// complete packet right now; a halt observed while waiting for a queue
// slot is reported as no-progress rather than an error, letting the caller
// unwind through the normal ctx.Done path.
func (p *pipeline) decodeVideoPacket(ctx context.Context, q *queues) (bool, error) {
	var pkt oggwire.Packet
	if err := p.video.oggStream.PacketOut(&pkt); err != nil {
		return false, nil
	}

	frame, duplicate, err := p.video.codec.DecodePacket(&pkt)
	if err != nil {
		return false, wrapErr(ErrDecodeFailure, "video: "+err.Error())
	}

	playTime := frameTime(p.video.frameCounter, p.video.fps)
	p.video.frameCounter++

	// A duplicate frame only advances the frame counter (spec.md §4.4): no
	// item is built, and no backpressure slot is spent on a frame nobody
	// asked for.
	if duplicate {
		return true, nil
	}

	if err := q.acquireVideoSlot(ctx); err != nil {
		return false, nil
	}

	out := p.h.opts.OutputPixelFormat
	pixels := make([]byte, pixconv.PayloadSize(out, p.video.info.PicWidth, p.video.info.PicHeight))
	pixconv.Convert(out, p.video.info.PicWidth, p.video.info.PicHeight,
		asPlane(frame.Y), asPlane(frame.Cb), asPlane(frame.Cr),
		pixels,
	)

	q.pushVideo(VideoFrame{
		PlayTime: playTime,
		Width:    p.video.info.PicWidth,
		Height:   p.video.info.PicHeight,
		Format:   out,
		Pixels:   pixels,
	})

	if p.metrics != nil {
		p.metrics.FramesDecoded.WithLabelValues(p.h.id, string(p.video.tag)).Inc()
		p.metrics.VideoQueueDepth.WithLabelValues(p.h.id).Set(float64(q.videoDepth()))
	}
	return true, nil
}

// asPlane adapts a theoracodec.Plane to pixconv.Plane. theoracodec.ycbcrOut
// has already applied the picture region offset (spec.md §4.5), so no
// further cropping happens here.
func asPlane(pl theoracodec.Plane) pixconv.Plane {
	return pixconv.Plane{Data: pl.Data, Stride: pl.Stride, Width: pl.Width, Height: pl.Height}
}

func frameTime(frameCounter uint64, fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(frameCounter) / fps * float64(time.Second))
}

func sampleTime(sampleCounter uint64, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(sampleCounter) / float64(sampleRate) * float64(time.Second))
}
