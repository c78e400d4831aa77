package extractor

import (
	"image"
	"image/color"
)

// PixelBuffer holds a decoded capture as interleaved 8-bit RGB samples.
// Width and height are fixed at construction; Pix has length W*H*3.
// Buffers are treated as immutable once handed to the engine.
type PixelBuffer struct {
	W, H int
	Pix  []uint8
}

// NewPixelBuffer allocates a zeroed W×H RGB buffer.
func NewPixelBuffer(w, h int) *PixelBuffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &PixelBuffer{W: w, H: h, Pix: make([]uint8, w*h*3)}
}

// FromImage normalizes any decoded image to a 3-channel 8-bit RGB buffer.
// Any alpha present in the source is discarded; the captures are expected
// to be opaque composites over their respective backgrounds.
func FromImage(img image.Image) *PixelBuffer {
	bounds := img.Bounds()
	buf := NewPixelBuffer(bounds.Dx(), bounds.Dy())

	// Fast path for the most common decoder output.
	if src, ok := img.(*image.NRGBA); ok {
		i := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			row := src.Pix[(y-src.Rect.Min.Y)*src.Stride:]
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				o := (x - src.Rect.Min.X) * 4
				buf.Pix[i] = row[o]
				buf.Pix[i+1] = row[o+1]
				buf.Pix[i+2] = row[o+2]
				i += 3
			}
		}
		return buf
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			// NRGBAModel un-premultiplies, so stored color survives even
			// when the source carries alpha we are about to drop.
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			buf.Pix[i] = c.R
			buf.Pix[i+1] = c.G
			buf.Pix[i+2] = c.B
			i += 3
		}
	}
	return buf
}

// RGB returns the sample triple at (x, y). Indices are bounds-checked by
// the underlying slice access.
func (b *PixelBuffer) RGB(x, y int) (r, g, bl uint8) {
	o := (y*b.W + x) * 3
	return b.Pix[o], b.Pix[o+1], b.Pix[o+2]
}

// SetRGB stores the sample triple at (x, y). Intended for test fixtures
// and decoders; the engine never mutates its inputs.
func (b *PixelBuffer) SetRGB(x, y int, r, g, bl uint8) {
	o := (y*b.W + x) * 3
	b.Pix[o] = r
	b.Pix[o+1] = g
	b.Pix[o+2] = bl
}

// RGBABuffer is the engine's terminal output: interleaved 8-bit RGBA with
// un-premultiplied color. Pix has length W*H*4.
type RGBABuffer struct {
	W, H int
	Pix  []uint8
}

// NewRGBABuffer allocates a zeroed W×H RGBA buffer.
func NewRGBABuffer(w, h int) *RGBABuffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &RGBABuffer{W: w, H: h, Pix: make([]uint8, w*h*4)}
}

// RGBA returns the four samples at (x, y).
func (b *RGBABuffer) RGBA(x, y int) (r, g, bl, a uint8) {
	o := (y*b.W + x) * 4
	return b.Pix[o], b.Pix[o+1], b.Pix[o+2], b.Pix[o+3]
}

// ToNRGBA wraps the buffer as an *image.NRGBA without copying, ready for
// lossless PNG encoding. NRGBA stores un-premultiplied color, which is
// exactly what the recovery step produces.
func (b *RGBABuffer) ToNRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.W * 4,
		Rect:   image.Rect(0, 0, b.W, b.H),
	}
}
