// Package oggwire provides a thin cgo binding over libogg, exposing the
// page/packet extraction entry points the decode pipeline drives.
//
// Ogg framing is codec-agnostic: a single sync buffer yields pages that
// may belong to either the Theora or the Vorbis logical substream, so this
// package does not know about either codec. The binding style mirrors
// github.com/xlab/vorbis-go's vorbis.OggSyncState/OggStreamState wrapper
// idiom (receiver methods per libogg entry point, an explicit Free() to
// release cgo-owned memory).
package oggwire

/*
#cgo pkg-config: ogg
#include <ogg/ogg.h>
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"unsafe"
)

// ErrNeedMoreData indicates the sync buffer has no complete page pending.
var ErrNeedMoreData = errors.New("oggwire: need more data")

// ErrCorrupt indicates the sync layer skipped unsynced bytes.
var ErrCorrupt = errors.New("oggwire: corrupt or missing data in bitstream")

// SyncState wraps ogg_sync_state, the buffering/resync layer that turns a
// raw byte stream into a sequence of Pages.
type SyncState struct {
	state C.ogg_sync_state
	init  bool
}

// NewSyncState initializes a SyncState ready to accept bytes via Buffer/Wrote.
func NewSyncState() *SyncState {
	s := &SyncState{}
	C.ogg_sync_init(&s.state)
	s.init = true
	return s
}

// Buffer returns a writable span of the requested size backed by libogg's
// internal buffer. Callers fill it with raw stream bytes, then call Wrote.
func (s *SyncState) Buffer(size int) []byte {
	ptr := C.ogg_sync_buffer(&s.state, C.long(size))
	if ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(ptr)), size)
}

// Wrote tells libogg how many of the bytes returned by Buffer were filled.
func (s *SyncState) Wrote(n int) error {
	if C.ogg_sync_wrote(&s.state, C.long(n)) != 0 {
		return errors.New("oggwire: ogg_sync_wrote failed")
	}
	return nil
}

// PageOut extracts the next complete page from the sync buffer.
// It returns ErrNeedMoreData when no full page is buffered yet, or
// ErrCorrupt when bytes were skipped to resynchronize (the caller should
// simply try again; this is not fatal).
func (s *SyncState) PageOut(page *Page) error {
	ret := C.ogg_sync_pageout(&s.state, &page.page)
	switch {
	case ret > 0:
		return nil
	case ret == 0:
		return ErrNeedMoreData
	default:
		return ErrCorrupt
	}
}

// Free releases the sync state's internal buffer.
func (s *SyncState) Free() {
	if s.init {
		C.ogg_sync_clear(&s.state)
		s.init = false
	}
}

// Page wraps ogg_page, one page of Ogg framing.
type Page struct {
	page C.ogg_page
}

// IsBOS reports whether this page opens a new logical substream.
func (p *Page) IsBOS() bool {
	return C.ogg_page_bos(&p.page) != 0
}

// IsEOS reports whether this page closes a logical substream.
func (p *Page) IsEOS() bool {
	return C.ogg_page_eos(&p.page) != 0
}

// Serial returns the page's logical substream serial number.
func (p *Page) Serial() uint32 {
	return uint32(C.ogg_page_serialno(&p.page))
}

// Packet wraps ogg_packet, a single codec-level payload unit.
type Packet struct {
	packet C.ogg_packet
}

// Bytes returns the raw packet payload.
func (p *Packet) Bytes() []byte {
	if p.packet.packet == nil || p.packet.bytes == 0 {
		return nil
	}
	return C.GoBytes(unsafe.Pointer(p.packet.packet), C.int(p.packet.bytes))
}

// BOS reports whether this packet is the first of its logical substream.
func (p *Packet) BOS() bool {
	return p.packet.b_o_s != 0
}

// RawPointer exposes the underlying ogg_packet's address for codec
// header/decode calls made from sibling cgo packages (internal/theoracodec,
// internal/vorbiscodec) that link the same libogg headers. cgo gives each
// package its own nominal C.ogg_packet type even though the memory layout
// is identical, so callers on the other side convert this back with
// (*C.ogg_packet)(unsafe.Pointer(...)) rather than sharing a Go type.
func (p *Packet) RawPointer() unsafe.Pointer {
	return unsafe.Pointer(&p.packet)
}

// StreamState wraps ogg_stream_state, the per-substream packet reassembly
// state bound to one serial number.
type StreamState struct {
	state C.ogg_stream_state
	init  bool
}

// NewStreamState initializes a StreamState bound to the given serial number.
func NewStreamState(serial uint32) *StreamState {
	s := &StreamState{}
	C.ogg_stream_init(&s.state, C.int(serial))
	s.init = true
	return s
}

// PageIn feeds a complete page into the substream's reassembly buffer.
// It is safe to call with a page that does not belong to this substream;
// libogg silently ignores pages addressed to a different serial number.
func (s *StreamState) PageIn(page *Page) {
	C.ogg_stream_pagein(&s.state, &page.page)
}

// PacketOut extracts the next reassembled packet from the substream.
// It returns ErrNeedMoreData when no packet is ready, or ErrCorrupt when
// data is missing (the substream should be treated as having lost sync on
// a packet boundary).
func (s *StreamState) PacketOut(pkt *Packet) error {
	ret := C.ogg_stream_packetout(&s.state, &pkt.packet)
	switch {
	case ret > 0:
		return nil
	case ret == 0:
		return ErrNeedMoreData
	default:
		return ErrCorrupt
	}
}

// Free releases the stream state.
func (s *StreamState) Free() {
	if s.init {
		C.ogg_stream_clear(&s.state)
		s.init = false
	}
}
