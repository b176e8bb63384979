// Package theoracodec provides a cgo binding over libtheora, exposing the
// decode entry points original_source/theoraplay.c drives: header
// bootstrap, post-processing setup, per-packet decode, and YCbCr plane
// extraction. The library is treated as the opaque, documented decoder
// spec.md §1 assumes; this package is the boundary.
package theoracodec

/*
#cgo pkg-config: theoradec ogg
#include <theora/theoradec.h>
#include <ogg/ogg.h>
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"unsafe"

	"github.com/fathomsound/oggdecode/internal/oggwire"
)

// ErrUnsupportedChroma is returned when the stream is not 4:2:0.
var ErrUnsupportedChroma = errors.New("theoracodec: only 4:2:0 chroma subsampling is supported")

// ErrFrameTooLarge is returned when either frame dimension is unreasonable.
var ErrFrameTooLarge = errors.New("theoracodec: frame dimensions exceed limit")

// maxFrameDimension mirrors theoraplay.c's sanity check ("th_decode_alloc()
// docs say to check for insanely large frames yourself").
const maxFrameDimension = 100000

// Info is the subset of th_info the decode pipeline needs after bootstrap.
type Info struct {
	FrameWidth, FrameHeight int
	PicWidth, PicHeight     int
	PicX, PicY              int
	FPSNumerator            int64
	FPSDenominator          int64
}

// FPS returns the stream's nominal frame rate, or 0 if the denominator is
// zero (legal but degenerate, per spec.md §4.3).
func (i Info) FPS() float64 {
	if i.FPSDenominator == 0 {
		return 0
	}
	return float64(i.FPSNumerator) / float64(i.FPSDenominator)
}

// Plane is one Y/Cb/Cr plane of a decoded frame, with its own stride.
type Plane struct {
	Data   []byte
	Stride int
	Width  int
	Height int
}

// Frame holds the three planes of a decoded 4:2:0 YCbCr frame, already
// offset to the picture region per spec.md §4.4.
type Frame struct {
	Y, Cb, Cr Plane
}

// Stream wraps one Theora logical substream's decode state.
type Stream struct {
	info    C.th_info
	comment C.th_comment
	setup   *C.th_setup_info
	dec     *C.th_dec_ctx

	headersRead int
	infoInit    bool
}

// NewStream allocates header-parsing state for a new Theora substream.
func NewStream() *Stream {
	s := &Stream{}
	C.th_info_init(&s.info)
	C.th_comment_init(&s.comment)
	s.infoInit = true
	return s
}

// HeaderIn attempts to interpret pkt as the next Theora header packet.
// It returns accepted=false (with a nil error) when the packet does not
// belong to this codec at all — the caller should then try the packet
// against the other codec's HeaderIn, per spec.md §4.3.
func (s *Stream) HeaderIn(pkt *oggwire.Packet) (accepted bool, err error) {
	raw := (*C.ogg_packet)(pkt.RawPointer())
	rc := C.th_decode_headerin(&s.info, &s.comment, &s.setup, raw)
	if rc < 0 {
		return false, nil
	}
	s.headersRead++
	return true, nil
}

// HeadersComplete reports whether all three Theora headers have been read.
func (s *Stream) HeadersComplete() bool {
	return s.headersRead >= 3
}

// Setup finalizes decode state after all three headers have been consumed:
// validates dimensions and chroma format, allocates the decode context,
// and requests maximum post-processing quality (mirrors theoraplay.c).
func (s *Stream) Setup() (Info, error) {
	info := Info{
		FrameWidth:     int(s.info.frame_width),
		FrameHeight:    int(s.info.frame_height),
		PicWidth:       int(s.info.pic_width),
		PicHeight:      int(s.info.pic_height),
		PicX:           int(s.info.pic_x),
		PicY:           int(s.info.pic_y),
		FPSNumerator:   int64(s.info.fps_numerator),
		FPSDenominator: int64(s.info.fps_denominator),
	}

	if info.FrameWidth >= maxFrameDimension || info.FrameHeight >= maxFrameDimension {
		return Info{}, ErrFrameTooLarge
	}
	if s.info.pixel_fmt != C.TH_PF_420 {
		return Info{}, ErrUnsupportedChroma
	}

	s.dec = C.th_decode_alloc(&s.info, s.setup)
	if s.dec == nil {
		return Info{}, errors.New("theoracodec: th_decode_alloc failed")
	}

	if s.setup != nil {
		C.th_setup_free(s.setup)
		s.setup = nil
	}

	var ppMax C.int
	C.th_decode_ctl(s.dec, C.TH_DECCTL_GET_PPLEVEL_MAX, unsafe.Pointer(&ppMax), C.size_t(unsafe.Sizeof(ppMax)))
	C.th_decode_ctl(s.dec, C.TH_DECCTL_SET_PPLEVEL, unsafe.Pointer(&ppMax), C.size_t(unsafe.Sizeof(ppMax)))

	return info, nil
}

// DecodePacket feeds one Theora packet to the decoder. duplicate reports
// the codec's dup-frame indicator (spec.md §4.4): only the frame counter
// should advance, no new item should be produced. frame is nil unless a
// genuinely new frame was decoded.
func (s *Stream) DecodePacket(pkt *oggwire.Packet) (frame *Frame, duplicate bool, err error) {
	raw := (*C.ogg_packet)(pkt.RawPointer())
	var granulePos C.ogg_int64_t
	rc := C.th_decode_packetin(s.dec, raw, &granulePos)
	switch {
	case rc == C.TH_DUPFRAME:
		return nil, true, nil
	case rc == 0:
		f, err := s.ycbcrOut()
		if err != nil {
			return nil, false, err
		}
		return f, false, nil
	default:
		return nil, false, errors.New("theoracodec: th_decode_packetin rejected packet")
	}
}

func (s *Stream) ycbcrOut() (*Frame, error) {
	var buf [3]C.th_img_plane
	if C.th_decode_ycbcr_out(s.dec, &buf[0]) != 0 {
		return nil, errors.New("theoracodec: th_decode_ycbcr_out failed")
	}

	w, h := int(s.info.pic_width), int(s.info.pic_height)
	// Luma origin must align to even coordinates (spec.md §4.4).
	yOff := int(s.info.pic_x&^1) + int(buf[0].stride)*int(s.info.pic_y&^1)
	// Chroma offsets use the picture origin divided by two.
	uvOff := int(s.info.pic_x/2) + int(buf[1].stride)*int(s.info.pic_y/2)

	return &Frame{
		Y:  planeFromBuffer(buf[0], yOff, w, h),
		Cb: planeFromBuffer(buf[1], uvOff, w/2, h/2), // th_ycbcr_buffer[1] == Cb (U)
		Cr: planeFromBuffer(buf[2], uvOff, w/2, h/2), // th_ycbcr_buffer[2] == Cr (V)
	}, nil
}

func planeFromBuffer(b C.th_img_plane, off, w, h int) Plane {
	stride := int(b.stride)
	absStride := stride
	if absStride < 0 {
		absStride = -absStride
	}
	total := absStride * h
	data := unsafe.Slice((*byte)(unsafe.Pointer(b.data)), off+total)
	return Plane{Data: data[off:], Stride: stride, Width: w, Height: h}
}

// Close releases the decoder and any still-owned setup/header state.
func (s *Stream) Close() {
	if s.dec != nil {
		C.th_decode_free(s.dec)
		s.dec = nil
	}
	if s.setup != nil {
		C.th_setup_free(s.setup)
		s.setup = nil
	}
	if s.infoInit {
		C.th_comment_clear(&s.comment)
		C.th_info_clear(&s.info)
		s.infoInit = false
	}
}
