package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	v := viper.New()
	v.Set("decode.input", "movie.ogv")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "movie.ogv", cfg.Decode.Input)
	assert.Equal(t, defaultMaxBufferedVideoFrames, cfg.Decode.MaxBufferedVideoFrames)
	assert.Equal(t, defaultOutputPixelFormat, cfg.Decode.OutputPixelFormat)
	assert.Equal(t, defaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, defaultLogFormat, cfg.Logging.Format)
	assert.Equal(t, "", cfg.Metrics.ListenAddr)
}

func TestLoadRequiresInput(t *testing.T) {
	v := viper.New()
	_, err := Load(v)
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveBufferSize(t *testing.T) {
	v := viper.New()
	v.Set("decode.input", "movie.ogv")
	v.Set("decode.max_buffered_video_frames", 0)

	_, err := Load(v)
	assert.Error(t, err)
}

func TestLoadHonoursEnv(t *testing.T) {
	v := viper.New()
	v.Set("decode.input", "movie.ogv")
	t.Setenv("OGGDECODE_LOGGING_LEVEL", "debug")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
