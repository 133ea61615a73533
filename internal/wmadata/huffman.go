package wmadata

// balancedLengths returns a complete canonical-Huffman bit-length
// assignment for an alphabet of n symbols. For n >= 2 it is a perfect
// binary code where every length is either L or L-1 for L = ceil(log2(n)),
// satisfying the Kraft equality exactly. For n == 1 it returns a single
// 1-bit length (a length of 0 would mark the symbol unused), which fills
// only half the code space. Real WMA Huffman tables are frequency-shaped
// (short codes for common symbols) rather than balanced, but those exact
// bit-lengths live in wmadata.h upstream, which the retrieval pack didn't
// include; a balanced code of the same alphabet size is a structurally
// valid stand-in that internal/huffman can build a decoder from.
func balancedLengths(n int) []uint8 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []uint8{1}
	}
	l := 1
	for (1 << uint(l)) < n {
		l++
	}
	numLong := 2*n - (1 << uint(l))
	numShort := (1 << uint(l)) - n

	lengths := make([]uint8, 0, n)
	for i := 0; i < numLong; i++ {
		lengths = append(lengths, uint8(l))
	}
	for i := 0; i < numShort; i++ {
		lengths = append(lengths, uint8(l-1))
	}
	return lengths
}

// ExpHuffmanLengths returns the bit-length table for the Huffman-coded
// exponent alphabet (used when the stream signals Huffman rather than LSP
// exponent coding). The real alphabet spans a signed delta range centered
// on an offset of 60; only the size (121 symbols) is preserved here.
func ExpHuffmanLengths() []uint8 {
	return balancedLengths(121)
}

// HgainHuffmanLengths returns the bit-length table for the perceptual
// noise ("hgain") Huffman alphabet.
func HgainHuffmanLengths() []uint8 {
	return balancedLengths(21)
}

// CoefHuffmanParam describes one coefficient run/level Huffman alphabet:
// its bit-length table (N symbols, canonical codes assigned by
// internal/huffman) and the per-level run-length counts used to derive
// the run/level/int side tables that decodeRunLevel consults once a
// symbol has been decoded.
type CoefHuffmanParam struct {
	Lengths []uint8
	Levels  []int
}

// coefHuffmanParam holds the three (low/mid/high bitrate) x 2 (value
// table 0 and 1) parameter sets initCoefHuffman selects between, keyed by
// [table][0 or 1]. Table selection itself (by sample rate and bits per
// sample) is the configurator's job; this only supplies the shapes.
var coefHuffmanParam = [3][2]CoefHuffmanParam{
	0: {
		{Lengths: balancedLengths(60), Levels: levelRunLengths(60, 14)},
		{Lengths: balancedLengths(600), Levels: levelRunLengths(600, 40)},
	},
	1: {
		{Lengths: balancedLengths(98), Levels: levelRunLengths(98, 20)},
		{Lengths: balancedLengths(866), Levels: levelRunLengths(866, 48)},
	},
	2: {
		{Lengths: balancedLengths(120), Levels: levelRunLengths(120, 24)},
		{Lengths: balancedLengths(1474), Levels: levelRunLengths(1474, 64)},
	},
}

// CoefHuffmanTable returns the run-table and level-table Huffman
// parameters for coefHuffTable (selected by sample rate and bitrate, see
// the root package's configurator), table index 0 or 1.
func CoefHuffmanTable(coefHuffTable, index int) CoefHuffmanParam {
	return coefHuffmanParam[coefHuffTable][index]
}

// levelRunLengths splits an n-symbol alphabet (reserving the first two
// codes for escape/end markers, matching initCoefHuffman's "i starts at
// 2" loop) into nLevels runs of decreasing length, the shape
// initCoefHuffman expects for its levels table.
func levelRunLengths(n, nLevels int) []int {
	remaining := n - 2
	levels := make([]int, 0, nLevels)
	for i := 0; i < nLevels && remaining > 0; i++ {
		left := nLevels - i
		run := (remaining + left - 1) / left
		if run < 1 {
			run = 1
		}
		if run > remaining {
			run = remaining
		}
		levels = append(levels, run)
		remaining -= run
	}
	return levels
}
