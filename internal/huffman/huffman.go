// Package huffman builds canonical Huffman decoders from per-symbol bit
// lengths and decodes single symbols from a bitstream.Reader.
//
// The canonical code assignment (shorter codes take the lowest code values,
// and symbols of one length get consecutive values in symbol order) is
// built from a bit-length histogram, as the CHD V5 map decoder in
// go-gameid's internal huffman table builder does, generalized from a fixed
// 5/4/3-bit run-length preamble into a plain bit-length input.
package huffman

import "github.com/phaethon-tools/go-wma/internal/bitstream"

// maxCodeLen bounds the lookup table size. WMA's largest Huffman alphabets
// (coefficient run/level tables) use codes no longer than this.
const maxCodeLen = 24

// Table is a canonical Huffman decoder: a flat lookup table indexed by the
// next maxBits bits of the stream.
type Table struct {
	lookup  []uint32 // (symbol << 6) | codeLen, indexed by maxBits-bit prefix
	maxBits int
}

// New builds a canonical Huffman decoder from lengths[i] = bit length of
// symbol i (0 meaning "symbol unused"). It matches spec's "build a canonical
// decoder from {codes, bit-lengths}" contract: codes are a pure function of
// lengths under the canonical assignment rule, so only lengths need to be
// supplied.
func New(lengths []uint8) (*Table, error) {
	maxBits := 0
	var histo [maxCodeLen + 1]int
	for _, l := range lengths {
		if int(l) > maxCodeLen {
			return nil, errTooLong
		}
		if int(l) > maxBits {
			maxBits = int(l)
		}
		if l > 0 {
			histo[l]++
		}
	}
	if maxBits == 0 {
		return nil, errEmpty
	}

	// First code for each length, canonical (shorter codes sort first).
	firstCode := make([]uint32, maxBits+2)
	code := uint32(0)
	for l := 1; l <= maxBits; l++ {
		firstCode[l] = code
		code = (code + uint32(histo[l])) << 1
	}

	t := &Table{
		lookup:  make([]uint32, 1<<uint(maxBits)),
		maxBits: maxBits,
	}

	next := append([]uint32(nil), firstCode...)
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		c := next[l]
		next[l]++

		shift := uint(maxBits - int(l))
		base := int(c) << shift
		end := (int(c)+1)<<shift - 1
		entry := (uint32(sym) << 6) | uint32(l)
		for i := base; i <= end; i++ {
			t.lookup[i] = entry
		}
	}

	return t, nil
}

// Decode reads one symbol from r. It returns an error if the next maxBits
// bits (or however many remain) don't resolve to an assigned code.
func (t *Table) Decode(r *bitstream.Reader) (int, error) {
	start := r.Pos()
	peek := r.Bits(t.maxBits)
	// Bits() always consumes maxBits positions even past EOF; rewind and
	// re-read only the code length once resolved.
	r.SetPos(start)

	entry := t.lookup[peek]
	length := int(entry & 0x3f)
	if length == 0 {
		r.SkipBits(t.maxBits)
		return 0, errInvalidCode
	}

	r.SkipBits(length)
	return int(entry >> 6), nil
}

// MaxBits returns the longest code length in this table.
func (t *Table) MaxBits() int {
	return t.maxBits
}
