package decodepipeline

import (
	"io"
	"log/slog"

	"github.com/fathomsound/oggdecode/internal/codec"
	"github.com/fathomsound/oggdecode/internal/observability"
	"github.com/fathomsound/oggdecode/internal/oggwire"
	"github.com/fathomsound/oggdecode/internal/theoracodec"
	"github.com/fathomsound/oggdecode/internal/vorbiscodec"
)

// videoHeaderDecoder and audioHeaderDecoder are the narrow contract
// bootstrapStreams needs from a candidate codec during the BOS-scanning
// phase: "does this packet belong to you?" Both internal/theoracodec.Stream
// and internal/vorbiscodec.Stream satisfy these independently of one
// another, which is what lets bindCandidate try an unknown first packet
// against both without either codec package knowing the other exists.
type videoHeaderDecoder interface {
	HeaderIn(pkt *oggwire.Packet) (accepted bool, err error)
}

type audioHeaderDecoder interface {
	HeaderIn(pkt *oggwire.Packet) (accepted bool, err error)
}

var (
	_ videoHeaderDecoder = (*theoracodec.Stream)(nil)
	_ audioHeaderDecoder = (*vorbiscodec.Stream)(nil)
)

// videoSub is the bound Theora substream: its Ogg stream reassembly state,
// its codec decode state, and the counters the timestamp formulas in
// spec.md §3 require.
type videoSub struct {
	serial    uint32
	oggStream *oggwire.StreamState
	codec     *theoracodec.Stream
	info      theoracodec.Info
	fps       float64

	// tag identifies this substream's elementary codec for logging and
	// metrics labels (internal/codec's registry; this pipeline only ever
	// binds VideoTheora here, but the label keeps those series named by
	// codec rather than implicitly "the video one").
	tag codec.Video

	// frameCounter increments on both decoded and duplicate frames
	// (spec.md §3).
	frameCounter uint64
}

// audioSub is the bound Vorbis substream.
type audioSub struct {
	serial    uint32
	oggStream *oggwire.StreamState
	codec     *vorbiscodec.Stream
	info      vorbiscodec.Info

	// tag identifies this substream's elementary codec (internal/codec),
	// always AudioVorbis for this pipeline.
	tag codec.Audio

	// sampleCounter is the cumulative audio-frame counter (spec.md §3).
	sampleCounter uint64
}

// pipeline is the worker's private state: the byte source, sync buffer,
// bound substreams, and a back-reference to the Handle it feeds. Nothing
// here is touched by any goroutine other than the worker (spec.md §5:
// "shared-resource policy ... worker-private").
type pipeline struct {
	h   *Handle
	src io.ReadCloser
	syn *oggwire.SyncState

	// pending holds a page read during bootstrap that turned out not to
	// be a beginning-of-stream page. pumpHeaderPacket routes it before
	// reading any further page; steadyState routes it if it is still set.
	pending *oggwire.Page

	video *videoSub
	audio *audioSub

	log     *slog.Logger
	metrics *observability.Metrics
}

// feedMore requests one more span from the byte source and hands it to the
// sync buffer. It returns false on EOF or permanent read failure, both of
// which spec.md §4.2 treats identically ("permanent read failure is
// reported as end-of-stream").
func (p *pipeline) feedMore() bool {
	buf := p.syn.Buffer(readChunkSize)
	if buf == nil {
		return false
	}
	n, _ := p.src.Read(buf)
	if n <= 0 {
		return false
	}
	_ = p.syn.Wrote(n)
	return true
}

// routePage hands a complete page to whichever bound substream(s) it
// belongs to; the Ogg stream layer silently ignores pages addressed to a
// different serial number, so it is always safe to offer a page to both
// (spec.md §4.3: "QueueOggPage").
func (p *pipeline) routePage(page *oggwire.Page) {
	if p.video != nil {
		p.video.oggStream.PageIn(page)
	}
	if p.audio != nil {
		p.audio.oggStream.PageIn(page)
	}
}

// close releases every worker-private resource. Safe to call once, after
// the worker loop (bootstrap or steady state) has returned.
func (p *pipeline) close() {
	if p.video != nil {
		p.video.codec.Close()
		p.video.oggStream.Free()
	}
	if p.audio != nil {
		p.audio.codec.Close()
		p.audio.oggStream.Free()
	}
	p.syn.Free()
	_ = p.src.Close()
}
