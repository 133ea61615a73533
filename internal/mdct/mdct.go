// Package mdct implements the inverse modified discrete cosine transform
// used to synthesize WMA spectral blocks into time-domain samples.
//
// go-aac's internal/mdct (FFT-based, via a complex FFT of size N/4) is
// hardwired to AAC's two transform sizes (256 and 2048) through precomputed
// twiddle tables; WMA needs seven sizes (2^7 .. 2^13) chosen per-packet, so
// the precomputed-table approach doesn't carry over. This implements the
// direct O(n^2) trigonometric definition instead — see the root package's
// DESIGN.md for why no pack library covers a variable-size IMDCT.
package mdct

import "math"

// MDCT computes the inverse MDCT for a fixed transform size N (a power of
// two), with N/2 frequency-domain inputs and N time-domain outputs.
type MDCT struct {
	n     int
	n2    int
	scale float32
	step  float64 // 2*pi/N, the base angular increment
}

// New creates an inverse MDCT of size n (n must be a power of two) with the
// given overall scale factor applied to every output sample.
func New(n int, scale float32) *MDCT {
	return &MDCT{
		n:     n,
		n2:    n / 2,
		scale: scale,
		step:  2.0 * math.Pi / float64(n),
	}
}

// Len returns the transform's output length (n).
func (m *MDCT) Len() int {
	return m.n
}

// Inverse computes out[0..n) from in[0..n2), per the standard IMDCT
// definition:
//
//	out[i] = sum_k in[k] * cos( (2*pi/N) * (i + 0.5 + N/4) * (k + 0.5) )
//
// This is the direct trigonometric sum rather than an FFT-accelerated form;
// see the package doc comment for why.
func (m *MDCT) Inverse(out, in []float32) {
	quarter := float64(m.n) / 4.0
	for i := 0; i < m.n; i++ {
		phase := m.step * (float64(i) + 0.5 + quarter)
		var sum float64
		for k := 0; k < m.n2; k++ {
			sum += float64(in[k]) * math.Cos(phase*(float64(k)+0.5))
		}
		out[i] = float32(sum) * m.scale
	}
}
