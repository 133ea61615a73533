package wmadata

import "math"

// lspCodebook holds, per LSP coefficient index, the quantization levels
// decodeExpLSP indexes with the 3- or 4-bit code it reads for that
// coefficient (3 bits, 8 levels, for index 0 and indices >= 8; 4 bits, 16
// levels, otherwise), matching wma.cpp's decodeExpLSP. The real FFmpeg
// codebook was trained on audio data and isn't reproducible from the
// pack; this substitutes a uniform cosine-spaced ladder covering the same
// (-1, 1) range at the same per-row resolution, computed once at package
// init rather than listed as a literal table.
var lspCodebook [LSPCoefCount][]float32

func init() {
	for i := 0; i < LSPCoefCount; i++ {
		n := lspLevelCount(i)
		row := make([]float32, n)
		for v := 0; v < n; v++ {
			frac := (float64(v) + 0.5) / float64(n)
			row[v] = float32(-math.Cos(math.Pi * frac))
		}
		lspCodebook[i] = row
	}
}

// lspLevelCount returns the number of quantization levels decodeExpLSP
// expects for LSP coefficient index i: 8 (3 bits) for i==0 or i>=8, 16 (4
// bits) otherwise.
func lspLevelCount(i int) int {
	if i == 0 || i >= 8 {
		return 8
	}
	return 16
}

// LSPCoef returns the dequantized value for LSP coefficient index i and
// its coded value val, clamped to the valid range for that index.
func LSPCoef(i, val int) float32 {
	row := lspCodebook[i]
	if val < 0 {
		val = 0
	}
	if val >= len(row) {
		val = len(row) - 1
	}
	return row[val]
}

// LSPLevelBits returns the number of bits decodeExpLSP reads for LSP
// coefficient index i.
func LSPLevelBits(i int) int {
	if lspLevelCount(i) == 8 {
		return 3
	}
	return 4
}
