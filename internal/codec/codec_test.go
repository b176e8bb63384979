package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodecTagValues(t *testing.T) {
	assert.Equal(t, Video("theora"), VideoTheora)
	assert.Equal(t, Audio("vorbis"), AudioVorbis)
	assert.Equal(t, Container("ogg"), ContainerOgg)
}
