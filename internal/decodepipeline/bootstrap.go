package decodepipeline

import (
	"github.com/fathomsound/oggdecode/internal/codec"
	"github.com/fathomsound/oggdecode/internal/oggwire"
	"github.com/fathomsound/oggdecode/internal/theoracodec"
	"github.com/fathomsound/oggdecode/internal/vorbiscodec"
)

// bootstrapStreams runs the two-phase startup spec.md §4.3 describes:
// first it scans leading beginning-of-stream pages, binding at most one
// Theora and one Vorbis logical stream by probing each candidate's first
// packet against both header parsers; then it pumps pages until every
// bound substream has consumed its three-header preamble. It is grounded
// line-for-line on original_source/theoraplay.c's WorkerThread bootstrap
// phase (the "look for bos pages" loop followed by the "get the rest of
// the headers" loop).
func bootstrapStreams(p *pipeline) error {
	for {
		page, ok := p.nextPage()
		if !ok {
			return wrapErr(ErrBootstrapFailure, "end of stream before any stream was found")
		}
		if !page.IsBOS() {
			// First non-BOS page: bootstrap's scanning phase is over. The
			// page is held in p.pending and routed before any further page
			// is read.
			p.pending = page
			break
		}
		p.bindCandidate(page)

		// theoraplay.c keeps scanning BOS pages until the logical
		// container signals otherwise; two matched substreams is as many
		// as this pipeline ever uses, but further BOS pages (e.g. a
		// skeleton or subtitle stream) are harmless to keep scanning
		// past.
	}

	if p.video == nil && p.audio == nil {
		return wrapErr(ErrBootstrapFailure, "no recognised video or audio substream")
	}

	for !headersComplete(p) {
		if !p.pumpHeaderPacket() {
			return wrapErr(ErrBootstrapFailure, "end of stream before headers complete")
		}
	}

	if p.video != nil {
		info, err := p.video.codec.Setup()
		if err != nil {
			return wrapErr(ErrBootstrapFailure, "video setup: "+err.Error())
		}
		p.video.info = info
		p.video.fps = info.FPS()
	}
	if p.audio != nil {
		info, err := p.audio.codec.Setup()
		if err != nil {
			return wrapErr(ErrBootstrapFailure, "audio setup: "+err.Error())
		}
		p.audio.info = info
	}
	return nil
}

func headersComplete(p *pipeline) bool {
	if p.video != nil && !p.video.codec.HeadersComplete() {
		return false
	}
	if p.audio != nil && !p.audio.codec.HeadersComplete() {
		return false
	}
	return true
}

// nextPage pulls the next complete page out of the sync buffer, feeding
// more bytes from the source as needed. ok is false on end of stream.
func (p *pipeline) nextPage() (*oggwire.Page, bool) {
	page := new(oggwire.Page)
	for {
		if err := p.syn.PageOut(page); err == nil {
			return page, true
		}
		if !p.feedMore() {
			return nil, false
		}
	}
}

// bindCandidate inspects a beginning-of-stream page's first packet and, if
// it is recognised as a Theora or Vorbis identification header and that
// slot is not already taken, binds the logical stream. Anything else
// (an already-bound codec, or an unrecognised stream) is dropped, matching
// theoraplay.c's "Not Theora, not Vorbis? Skip it" behaviour.
func (p *pipeline) bindCandidate(page *oggwire.Page) {
	serial := page.Serial()
	ss := oggwire.NewStreamState(serial)
	ss.PageIn(page)

	var pkt oggwire.Packet
	if err := ss.PacketOut(&pkt); err != nil {
		ss.Free()
		return
	}

	if p.video == nil {
		ts := theoracodec.NewStream()
		if accepted, err := ts.HeaderIn(&pkt); err == nil && accepted {
			p.video = &videoSub{serial: serial, oggStream: ss, codec: ts, tag: codec.VideoTheora}
			return
		}
		ts.Close()
	}

	if p.audio == nil {
		vs := vorbiscodec.NewStream()
		if accepted, err := vs.HeaderIn(&pkt); err == nil && accepted {
			p.audio = &audioSub{serial: serial, oggStream: ss, codec: vs, tag: codec.AudioVorbis}
			return
		}
		vs.Close()
	}

	ss.Free()
}

// pumpHeaderPacket feeds exactly one more header packet into whichever
// bound substream still needs one, reading further pages first if neither
// substream's reassembly buffer currently holds a complete packet. It
// returns false on end of stream or a rejected header.
func (p *pipeline) pumpHeaderPacket() bool {
	for {
		if p.video != nil && !p.video.codec.HeadersComplete() {
			var pkt oggwire.Packet
			if err := p.video.oggStream.PacketOut(&pkt); err == nil {
				accepted, err := p.video.codec.HeaderIn(&pkt)
				return err == nil && accepted
			}
		}
		if p.audio != nil && !p.audio.codec.HeadersComplete() {
			var pkt oggwire.Packet
			if err := p.audio.oggStream.PacketOut(&pkt); err == nil {
				accepted, err := p.audio.codec.HeaderIn(&pkt)
				return err == nil && accepted
			}
		}

		if p.pending != nil {
			p.routePage(p.pending)
			p.pending = nil
			continue
		}

		page, ok := p.nextPage()
		if !ok {
			return false
		}
		p.routePage(page)
	}
}
