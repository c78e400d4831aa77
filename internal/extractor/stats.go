package extractor

import (
	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"
)

// MatteStats summarizes a recovered matte. Stats are advisory metadata
// for callers and logs; they never feed back into the output buffer.
type MatteStats struct {
	// MeanAlpha is the average quantized alpha over all pixels, in [0,255].
	MeanAlpha float64
	// TransparentFraction is the share of pixels with alpha == 0.
	TransparentFraction float64
	// OpaqueFraction is the share of pixels with alpha == 255.
	OpaqueFraction float64
	// Coverage is MeanAlpha normalized to [0,1].
	Coverage float64
	// DominantColor is the dominant recovered foreground color as a hex
	// string, or empty for a zero-size matte.
	DominantColor string
}

// ComputeStats derives summary statistics from an extracted matte.
func ComputeStats(m *RGBABuffer) MatteStats {
	n := m.W * m.H
	if n == 0 {
		return MatteStats{}
	}

	alphas := make([]float64, n)
	transparent, opaque := 0, 0
	for i := 0; i < n; i++ {
		a := m.Pix[i*4+3]
		alphas[i] = float64(a)
		switch a {
		case 0:
			transparent++
		case 255:
			opaque++
		}
	}

	mean := stat.Mean(alphas, nil)
	dom := dominantcolor.Find(m.ToNRGBA())
	hex := colorful.Color{
		R: float64(dom.R) / 255.0,
		G: float64(dom.G) / 255.0,
		B: float64(dom.B) / 255.0,
	}.Hex()

	return MatteStats{
		MeanAlpha:           mean,
		TransparentFraction: float64(transparent) / float64(n),
		OpaqueFraction:      float64(opaque) / float64(n),
		Coverage:            mean / 255.0,
		DominantColor:       hex,
	}
}
