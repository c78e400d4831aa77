// Package extractor recovers a foreground color and alpha channel from two
// captures of the same subject, one photographed over a pure white
// background and one over pure black. The per-pixel inversion is the whole
// algorithm: everything else in this repository is plumbing around it.
package extractor

import (
	"fmt"
	"math"
	"runtime"
)

// bgDist is the channel-space distance between the two canonical
// backgrounds, sqrt(3 * 255^2) ~= 441.67. The formula is specialized to
// the white/black pair and is not parameterized on other backgrounds.
var bgDist = math.Sqrt(3.0 * 255.0 * 255.0)

// alphaFloor is the coverage below which a pixel is treated as fully
// transparent noise instead of being un-premultiplied. Fixed policy
// constant; changing it changes reference output.
const alphaFloor = 0.01

// ShapeMismatchError reports inputs whose dimensions differ. It is the
// only error the engine can return; every numeric edge case inside a
// pixel is absorbed by clamping.
type ShapeMismatchError struct {
	WhiteW, WhiteH int
	BlackW, BlackH int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("capture dimensions differ: white %dx%d, black %dx%d",
		e.WhiteW, e.WhiteH, e.BlackW, e.BlackH)
}

// Options configures an Engine. The alpha floor and rounding mode are
// deliberately not configurable.
type Options struct {
	// Workers is the number of row strips processed concurrently.
	// Values <= 0 use runtime.NumCPU().
	Workers int
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{Workers: 0}
}

// Engine performs two-pass alpha recovery. An Engine is safe for
// concurrent use; each Extract call tracks its own jobs with a pool
// batch, so calls only share the worker goroutines.
type Engine struct {
	workers int
	pool    *WorkerPool
}

// NewEngine creates an engine with the given options and starts its
// worker pool.
func NewEngine(opts Options) *Engine {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	pool := NewWorkerPool(workers)
	pool.Start()
	return &Engine{
		workers: workers,
		pool:    pool,
	}
}

// Close releases the engine's worker pool.
func (e *Engine) Close() error {
	e.pool.Close()
	return nil
}

// Extract inverts the two composited observations into an RGBA buffer
// with un-premultiplied color. It fails only when the inputs differ in
// width or height; given matching shapes it is total and deterministic,
// with byte-identical output for byte-identical input.
func (e *Engine) Extract(white, black *PixelBuffer) (*RGBABuffer, error) {
	if white.W != black.W || white.H != black.H {
		return nil, &ShapeMismatchError{
			WhiteW: white.W, WhiteH: white.H,
			BlackW: black.W, BlackH: black.H,
		}
	}

	out := NewRGBABuffer(white.W, white.H)
	if white.W == 0 || white.H == 0 {
		return out, nil
	}

	// Horizontal strips: each worker owns a disjoint row range of the
	// output, so no synchronization is needed beyond the final wait.
	strips := e.workers
	if strips > white.H {
		strips = white.H
	}
	rowsPerStrip := (white.H + strips - 1) / strips

	batch := e.pool.NewBatch()
	for i := 0; i < strips; i++ {
		y0 := i * rowsPerStrip
		y1 := y0 + rowsPerStrip
		if y1 > white.H {
			y1 = white.H
		}
		batch.Submit(func() {
			extractRows(white, black, out, y0, y1)
		})
	}
	batch.Wait()

	return out, nil
}

func extractRows(white, black *PixelBuffer, out *RGBABuffer, y0, y1 int) {
	w := white.W
	for y := y0; y < y1; y++ {
		in := y * w * 3
		o := y * w * 4
		for x := 0; x < w; x++ {
			r, g, b, a := recoverPixel(
				white.Pix[in], white.Pix[in+1], white.Pix[in+2],
				black.Pix[in], black.Pix[in+1], black.Pix[in+2],
			)
			out.Pix[o] = r
			out.Pix[o+1] = g
			out.Pix[o+2] = b
			out.Pix[o+3] = a
			in += 3
			o += 4
		}
	}
}

// recoverPixel applies the two-pass inversion to one pixel pair.
//
// A fully opaque pixel renders identically over both backgrounds
// (distance 0, alpha 1); a fully transparent pixel renders as the
// backgrounds themselves (distance bgDist, alpha 0). Coverage
// interpolates linearly in observed distance between those extremes.
// The color is then un-premultiplied from the black capture: with a
// (0,0,0) background, recovered color is simply C / alpha.
func recoverPixel(rw, gw, bw, rb, gb, bb uint8) (r, g, b, a uint8) {
	dr := float64(rw) - float64(rb)
	dg := float64(gw) - float64(gb)
	db := float64(bw) - float64(bb)
	dist := math.Sqrt(dr*dr + dg*dg + db*db)

	alpha := 1.0 - dist/bgDist
	// Real captures are never perfectly pure, so raw alpha can land
	// outside [0,1]; clamping is the tolerance policy, not an error.
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}

	var rOut, gOut, bOut float64
	if alpha > alphaFloor {
		rOut = float64(rb) / alpha
		gOut = float64(gb) / alpha
		bOut = float64(bb) / alpha
	}
	// else: near-zero coverage, zero the color instead of dividing.

	return quantize(rOut), quantize(gOut), quantize(bOut), quantize(alpha * 255.0)
}

// quantize rounds ties-to-even, matching the reference output, then
// clamps to the 8-bit sample range.
func quantize(v float64) uint8 {
	v = math.RoundToEven(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
