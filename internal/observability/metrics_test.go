package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.VideoQueueDepth.WithLabelValues("h1").Set(3)
	m.FramesDecoded.WithLabelValues("h1", "theora").Inc()
	m.SamplesDecoded.WithLabelValues("h1", "vorbis").Add(1024)
	m.DecodeErrors.WithLabelValues("h1", "decode").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["oggdecode_video_queue_depth"])
	require.True(t, names["oggdecode_video_frames_decoded_total"])
	require.True(t, names["oggdecode_audio_frames_decoded_total"])
	require.True(t, names["oggdecode_decode_errors_total"])
}

func TestMetricsLabelsDistinguishHandles(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.FramesDecoded.WithLabelValues("a", "theora").Inc()
	m.FramesDecoded.WithLabelValues("b", "theora").Inc()
	m.FramesDecoded.WithLabelValues("b", "theora").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	var metrics []*dto.Metric
	for _, f := range families {
		if f.GetName() == "oggdecode_video_frames_decoded_total" {
			metrics = f.GetMetric()
		}
	}
	require.Len(t, metrics, 2)
}
