// Package pixconv converts decoded 4:2:0 YCbCr planes into one of the
// output pixel layouts a client can memcpy straight to a display surface,
// per spec.md §4.5/§4.6. The conversion is carried here, in the worker's
// path, rather than the client's, so enqueued frames are already in their
// target presentation layout.
package pixconv

import "fmt"

// Format identifies an output pixel layout.
type Format int

// Supported output formats (spec.md §6).
const (
	YV12 Format = iota
	IYUV
	RGB
	RGBA
)

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case YV12:
		return "YV12"
	case IYUV:
		return "IYUV"
	case RGB:
		return "RGB"
	case RGBA:
		return "RGBA"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat maps a configuration string to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "YV12", "yv12":
		return YV12, nil
	case "IYUV", "iyuv":
		return IYUV, nil
	case "RGB", "rgb":
		return RGB, nil
	case "RGBA", "rgba":
		return RGBA, nil
	default:
		return 0, fmt.Errorf("pixconv: unknown output format %q", s)
	}
}

// PayloadSize returns the byte size of a frame in the given format.
func PayloadSize(f Format, w, h int) int {
	switch f {
	case YV12, IYUV:
		return w*h + 2*((w/2)*(h/2))
	case RGB:
		return w * h * 3
	case RGBA:
		return w * h * 4
	default:
		return 0
	}
}

// Plane is one source plane with its own stride, per spec.md §9's
// corrected latent bug (never borrow another plane's stride).
type Plane struct {
	Data   []byte
	Stride int
	Width  int
	Height int
}

// Convert packs the Y/Cb/Cr planes of a 4:2:0 frame into dst, which must
// be at least PayloadSize(f, w, h) bytes.
func Convert(f Format, w, h int, y, cb, cr Plane, dst []byte) {
	switch f {
	case YV12:
		packPlanar(w, h, y, cr, cb, dst) // Y, V, U
	case IYUV:
		packPlanar(w, h, y, cb, cr, dst) // Y, U, V
	case RGB:
		packRGB(w, h, y, cb, cr, dst, false)
	case RGBA:
		packRGB(w, h, y, cb, cr, dst, true)
	}
}

// packPlanar copies luma at full resolution then the two half-resolution
// chroma planes, each using its own stride, with no inter-row padding in
// the destination.
func packPlanar(w, h int, y, a, b Plane, dst []byte) {
	off := 0
	for row := 0; row < h; row++ {
		copy(dst[off:off+w], y.Data[row*y.Stride:row*y.Stride+w])
		off += w
	}
	cw, ch := w/2, h/2
	for row := 0; row < ch; row++ {
		copy(dst[off:off+cw], a.Data[row*a.Stride:row*a.Stride+cw])
		off += cw
	}
	for row := 0; row < ch; row++ {
		copy(dst[off:off+cw], b.Data[row*b.Stride:row*b.Stride+cw])
		off += cw
	}
}

// packRGB converts 4:2:0 YCbCr to packed RGB/RGBA using the BT.601
// full-range integer approximation from spec.md §4.5, upsampling chroma
// by nearest-neighbour (each chroma sample covers a 2x2 luma block).
func packRGB(w, h int, y, cb, cr Plane, dst []byte, alpha bool) {
	bpp := 3
	if alpha {
		bpp = 4
	}
	for row := 0; row < h; row++ {
		crow := row / 2
		yRowOff := row * y.Stride
		cbRowOff := crow * cb.Stride
		crRowOff := crow * cr.Stride
		dstRowOff := row * w * bpp
		for col := 0; col < w; col++ {
			ccol := col / 2
			yy := int(y.Data[yRowOff+col])
			cbv := int(cb.Data[cbRowOff+ccol])
			crv := int(cr.Data[crRowOff+ccol])
			r, g, b := bt601ToRGB(yy, cbv, crv)
			o := dstRowOff + col*bpp
			dst[o] = r
			dst[o+1] = g
			dst[o+2] = b
			if alpha {
				dst[o+3] = 0xFF
			}
		}
	}
}

// bt601ToRGB applies the standard BT.601 full-range integer approximation:
// offset Y by -16, Cb/Cr by -128, scale by the 1.164/1.596/-0.813/-0.392/
// 2.017 coefficients (fixed-point, >>16), saturating to [0,255].
func bt601ToRGB(y, cb, cr int) (r, g, b byte) {
	const (
		cY  = 76309  // 1.164 * 65536
		cR  = 104597 // 1.596 * 65536
		cGU = -25675 // -0.392 * 65536
		cGV = -53279 // -0.813 * 65536
		cB  = 132201 // 2.017 * 65536
	)
	c := y - 16
	d := cb - 128
	e := cr - 128

	rr := (cY*c + cR*e) >> 16
	gg := (cY*c + cGU*d + cGV*e) >> 16
	bb := (cY*c + cB*d) >> 16

	return clamp8(rr), clamp8(gg), clamp8(bb)
}

func clamp8(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// RGBToYCbCr is the inverse BT.601 full-range transform, used by the
// pixel-format round-trip test property in spec.md §8.
func RGBToYCbCr(r, g, b byte) (y, cb, cr byte) {
	rr, gg, bb := float64(r), float64(g), float64(b)
	yy := 16 + (0.257*rr + 0.504*gg + 0.098*bb)
	cbv := 128 + (-0.148*rr - 0.291*gg + 0.439*bb)
	crv := 128 + (0.439*rr - 0.368*gg - 0.071*bb)
	return clampF(yy), clampF(cbv), clampF(crv)
}

func clampF(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v + 0.5)
}
