package pixconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"YV12": YV12,
		"yv12": YV12,
		"IYUV": IYUV,
		"RGB":  RGB,
		"rgba": RGBA,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("nv12")
	assert.Error(t, err)
}

func TestPayloadSize(t *testing.T) {
	assert.Equal(t, 16*16+2*(8*8), PayloadSize(YV12, 16, 16))
	assert.Equal(t, 16*16+2*(8*8), PayloadSize(IYUV, 16, 16))
	assert.Equal(t, 16*16*3, PayloadSize(RGB, 16, 16))
	assert.Equal(t, 16*16*4, PayloadSize(RGBA, 16, 16))
}

// solidPlanes builds a 4x4 luma plane and 2x2 chroma planes, each with a
// stride strictly larger than its width so packPlanar's per-plane stride
// handling (spec.md §9's corrected latent bug) is actually exercised: a
// caller that borrowed one plane's stride for another would read garbage
// padding bytes into the packed output.
func solidPlanes(yVal, cbVal, crVal byte) (y, cb, cr Plane) {
	const yStride, cStride = 6, 5 // both larger than the plane width

	yData := make([]byte, yStride*4)
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			yData[row*yStride+col] = yVal
		}
	}
	cbData := make([]byte, cStride*2)
	crData := make([]byte, cStride*2)
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			cbData[row*cStride+col] = cbVal
			crData[row*cStride+col] = crVal
		}
	}

	y = Plane{Data: yData, Stride: yStride, Width: 4, Height: 4}
	cb = Plane{Data: cbData, Stride: cStride, Width: 2, Height: 2}
	cr = Plane{Data: crData, Stride: cStride, Width: 2, Height: 2}
	return
}

func TestConvertYV12PacksVAheadOfU(t *testing.T) {
	y, cb, cr := solidPlanes(100, 50, 200)
	dst := make([]byte, PayloadSize(YV12, 4, 4))
	Convert(YV12, 4, 4, y, cb, cr, dst)

	// Y plane first, unpadded.
	for _, b := range dst[:16] {
		assert.EqualValues(t, 100, b)
	}
	// YV12 orders V (Cr) before U (Cb).
	for _, b := range dst[16:20] {
		assert.EqualValues(t, 200, b)
	}
	for _, b := range dst[20:24] {
		assert.EqualValues(t, 50, b)
	}
}

func TestConvertIYUVPacksUAheadOfV(t *testing.T) {
	y, cb, cr := solidPlanes(100, 50, 200)
	dst := make([]byte, PayloadSize(IYUV, 4, 4))
	Convert(IYUV, 4, 4, y, cb, cr, dst)

	for _, b := range dst[16:20] {
		assert.EqualValues(t, 50, b)
	}
	for _, b := range dst[20:24] {
		assert.EqualValues(t, 200, b)
	}
}

// TestConvertRGBUsesEachChromaPlanesOwnStride exercises packRGB with Cb and
// Cr planes that have different strides, so that borrowing one plane's
// stride to index the other (spec.md §9's corrected latent bug) would read
// past each row into the next row's padding instead of reproducing a flat
// color.
func TestConvertRGBUsesEachChromaPlanesOwnStride(t *testing.T) {
	const yStride, cbStride, crStride = 6, 5, 9

	yData := make([]byte, yStride*4)
	for i := range yData {
		yData[i] = 180
	}

	cbData := make([]byte, cbStride*2)
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			cbData[row*cbStride+col] = 128
		}
	}

	crData := make([]byte, crStride*2)
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			crData[row*crStride+col] = 128
		}
	}

	y := Plane{Data: yData, Stride: yStride, Width: 4, Height: 4}
	cb := Plane{Data: cbData, Stride: cbStride, Width: 2, Height: 2}
	cr := Plane{Data: crData, Stride: crStride, Width: 2, Height: 2}

	dst := make([]byte, PayloadSize(RGB, 4, 4))
	Convert(RGB, 4, 4, y, cb, cr, dst)

	for px := 0; px < 16; px++ {
		o := px * 3
		assert.InDelta(t, 190, dst[o], 3)
		assert.Equal(t, dst[o], dst[o+1])
		assert.Equal(t, dst[o+1], dst[o+2])
	}
}

func TestConvertRGBAAlphaAlwaysOpaque(t *testing.T) {
	y, cb, cr := solidPlanes(180, 128, 128) // neutral chroma, mid-grey luma
	dst := make([]byte, PayloadSize(RGBA, 4, 4))
	Convert(RGBA, 4, 4, y, cb, cr, dst)

	for px := 0; px < 16; px++ {
		assert.EqualValues(t, 0xFF, dst[px*4+3])
	}
	// Neutral chroma should produce R == G == B, not be skewed by
	// accidentally reusing the wrong plane's geometry.
	assert.Equal(t, dst[0], dst[1])
	assert.Equal(t, dst[1], dst[2])
	assert.InDelta(t, 190, dst[0], 3)
}

// TestYCbCrRoundTrip is the pixel-format round-trip property from spec.md
// §8: converting RGB to YCbCr and back should reproduce the original
// colour within the rounding error the fixed-point BT.601 approximation
// allows.
func TestYCbCrRoundTrip(t *testing.T) {
	samples := [][3]byte{
		{0, 0, 0},
		{255, 255, 255},
		{200, 80, 40},
		{16, 200, 230},
		{128, 128, 128},
	}

	for _, s := range samples {
		yy, cb, cr := RGBToYCbCr(s[0], s[1], s[2])
		r, g, b := bt601ToRGB(int(yy), int(cb), int(cr))
		assert.InDelta(t, int(s[0]), int(r), 4)
		assert.InDelta(t, int(s[1]), int(g), 4)
		assert.InDelta(t, int(s[2]), int(b), 4)
	}
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "YV12", YV12.String())
	assert.Equal(t, "RGBA", RGBA.String())
	assert.Contains(t, Format(99).String(), "Format(99)")
}
