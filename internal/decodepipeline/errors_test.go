package decodepipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapErrPreservesSentinel(t *testing.T) {
	err := wrapErr(ErrBootstrapFailure, "no recognised substream")
	assert.True(t, errors.Is(err, ErrBootstrapFailure))
	assert.Contains(t, err.Error(), "no recognised substream")
	assert.Contains(t, err.Error(), ErrBootstrapFailure.Error())
}

func TestWrapErrWithoutDetail(t *testing.T) {
	err := wrapErr(ErrDecodeFailure, "")
	assert.Equal(t, ErrDecodeFailure.Error(), err.Error())
}

func TestErrorKind(t *testing.T) {
	cases := map[error]string{
		ErrOpenFailure:      "open",
		ErrBootstrapFailure: "bootstrap",
		ErrAllocFailure:     "alloc",
		ErrDecodeFailure:    "decode",
		errors.New("other"): "unknown",
	}
	for err, want := range cases {
		assert.Equal(t, want, errorKind(err))
	}
}
