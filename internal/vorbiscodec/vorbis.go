// Package vorbiscodec provides a cgo binding over libvorbis, exposing the
// synthesis entry points original_source/theoraplay.c drives, grouped into
// HeaderIn (vorbis_synthesis_headerin), Setup (vorbis_synthesis_init and
// vorbis_block_init), FeedPacket (vorbis_synthesis and
// vorbis_synthesis_blockin), PCMOut (vorbis_synthesis_pcmout) and Read
// (vorbis_synthesis_read).
package vorbiscodec

/*
#cgo pkg-config: vorbis ogg
#include <vorbis/codec.h>
#include <ogg/ogg.h>
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"unsafe"

	"github.com/fathomsound/oggdecode/internal/oggwire"
)

// Info is the subset of vorbis_info the decode pipeline needs.
type Info struct {
	Channels   int
	SampleRate int64
}

// Stream wraps one Vorbis logical substream's decode state.
type Stream struct {
	info    C.vorbis_info
	comment C.vorbis_comment
	dsp     C.vorbis_dsp_state
	block   C.vorbis_block

	headersRead int
	infoInit    bool
	dspInit     bool
	blockInit   bool
}

// NewStream allocates header-parsing state for a new Vorbis substream.
func NewStream() *Stream {
	s := &Stream{}
	C.vorbis_info_init(&s.info)
	C.vorbis_comment_init(&s.comment)
	s.infoInit = true
	return s
}

// HeaderIn attempts to interpret pkt as the next Vorbis header packet.
// It returns accepted=false (nil error) when the packet is not a Vorbis
// header at all, per spec.md §4.3's "otherwise discard" fallthrough.
func (s *Stream) HeaderIn(pkt *oggwire.Packet) (accepted bool, err error) {
	raw := (*C.ogg_packet)(pkt.RawPointer())
	if C.vorbis_synthesis_headerin(&s.info, &s.comment, raw) < 0 {
		return false, nil
	}
	s.headersRead++
	return true, nil
}

// HeadersComplete reports whether all three Vorbis headers have been read.
func (s *Stream) HeadersComplete() bool {
	return s.headersRead >= 3
}

// Setup finalizes decode state after all three headers: initializes
// synthesis and block state, per theoraplay.c.
func (s *Stream) Setup() (Info, error) {
	if C.vorbis_synthesis_init(&s.dsp, &s.info) != 0 {
		return Info{}, errors.New("vorbiscodec: vorbis_synthesis_init failed")
	}
	s.dspInit = true

	if C.vorbis_block_init(&s.dsp, &s.block) != 0 {
		return Info{}, errors.New("vorbiscodec: vorbis_block_init failed")
	}
	s.blockInit = true

	return Info{
		Channels:   int(s.info.channels),
		SampleRate: int64(s.info.rate),
	}, nil
}

// Vendor returns the bitstream's Vorbis comment vendor string.
func (s *Stream) Vendor() string {
	if s.comment.vendor == nil {
		return ""
	}
	return C.GoString(s.comment.vendor)
}

// Comments returns the bitstream's user comment ("TAG=value") list.
func (s *Stream) Comments() []string {
	n := int(s.comment.comments)
	if n == 0 {
		return nil
	}
	lengths := unsafe.Slice(s.comment.comment_lengths, n)
	ptrs := unsafe.Slice(s.comment.user_comments, n)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if ptrs[i] == nil {
			continue
		}
		out = append(out, C.GoStringN(ptrs[i], lengths[i]))
	}
	return out
}

// FeedPacket hands one Vorbis packet to the synthesis block, making any
// PCM it produces available via PCMOut.
func (s *Stream) FeedPacket(pkt *oggwire.Packet) error {
	raw := (*C.ogg_packet)(pkt.RawPointer())
	if C.vorbis_synthesis(&s.block, raw) == 0 {
		C.vorbis_synthesis_blockin(&s.dsp, &s.block)
	}
	return nil
}

// PCMOut returns up to maxFrames of currently synthesised PCM, deinterleaved
// as pcm[channel][frame]. The returned frame count may be less than
// maxFrames, or zero if nothing is buffered. Call Read with however many
// frames were consumed once the caller has copied them out.
func (s *Stream) PCMOut(maxFrames int) (pcm [][]float32, frames int) {
	var cpcm **C.float
	n := int(C.vorbis_synthesis_pcmout(&s.dsp, &cpcm))
	if n <= 0 {
		return nil, 0
	}
	if n > maxFrames {
		n = maxFrames
	}

	channels := int(s.info.channels)
	chanPtrs := unsafe.Slice(cpcm, channels)
	pcm = make([][]float32, channels)
	for c := 0; c < channels; c++ {
		pcm[c] = unsafe.Slice((*float32)(unsafe.Pointer(chanPtrs[c])), n)
	}
	return pcm, n
}

// Read advances the synthesis state past the given number of frames,
// marking them consumed.
func (s *Stream) Read(frames int) {
	C.vorbis_synthesis_read(&s.dsp, C.int(frames))
}

// Close releases all decode state owned by this stream.
func (s *Stream) Close() {
	if s.blockInit {
		C.vorbis_block_clear(&s.block)
		s.blockInit = false
	}
	if s.dspInit {
		C.vorbis_dsp_clear(&s.dsp)
		s.dspInit = false
	}
	if s.infoInit {
		C.vorbis_comment_clear(&s.comment)
		C.vorbis_info_clear(&s.info)
		s.infoInit = false
	}
}
