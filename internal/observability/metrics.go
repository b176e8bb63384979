package observability

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors the decode pipeline updates.
// One Metrics is shared by every Handle registered against it; per-handle
// series are distinguished by the "handle" label, and per-substream
// counters additionally carry a "codec" label (internal/codec's
// VideoTheora/AudioVorbis tags).
type Metrics struct {
	VideoQueueDepth *prometheus.GaugeVec
	FramesDecoded   *prometheus.CounterVec
	SamplesDecoded  *prometheus.CounterVec
	DecodeErrors    *prometheus.CounterVec
}

// NewMetrics constructs and registers the decode pipeline's collectors
// against reg. Pass prometheus.NewRegistry() for an isolated registry, or
// prometheus.DefaultRegisterer to expose them on the process-wide
// /metrics endpoint.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		VideoQueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "oggdecode",
			Name:      "video_queue_depth",
			Help:      "Current number of decoded video frames buffered in the output queue.",
		}, []string{"handle"}),
		FramesDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oggdecode",
			Name:      "video_frames_decoded_total",
			Help:      "Total new video frames produced by the decode pipeline; duplicate frames are not counted.",
		}, []string{"handle", "codec"}),
		SamplesDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oggdecode",
			Name:      "audio_frames_decoded_total",
			Help:      "Total audio sample frames produced by the decode pipeline.",
		}, []string{"handle", "codec"}),
		DecodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oggdecode",
			Name:      "decode_errors_total",
			Help:      "Total fatal decode errors observed, by kind.",
		}, []string{"handle", "kind"}),
	}

	reg.MustRegister(m.VideoQueueDepth, m.FramesDecoded, m.SamplesDecoded, m.DecodeErrors)
	return m
}
