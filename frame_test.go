package wma

import (
	"testing"

	"github.com/phaethon-tools/go-wma/internal/bitstream"
)

func TestIntLog2(t *testing.T) {
	cases := map[int]int{1: 0, 2: 1, 3: 1, 4: 2, 7: 2, 8: 3, 127: 6, 128: 7}
	for n, want := range cases {
		if got := intLog2(n); got != want {
			t.Errorf("intLog2(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestBlockLenOfIsPowerOfTwo(t *testing.T) {
	for bits := blockBitsMin; bits <= blockBitsMax; bits++ {
		n := blockLenOf(bits)
		if n != 1<<uint(bits) {
			t.Fatalf("blockLenOf(%d) = %d, want %d", bits, n, 1<<uint(bits))
		}
	}
}

func TestTotalGainToBitsMonotonicallyDecreases(t *testing.T) {
	prev := totalGainToBits(0)
	for g := 1; g < 60; g++ {
		cur := totalGainToBits(g)
		if cur > prev {
			t.Fatalf("totalGainToBits(%d) = %d > totalGainToBits(%d) = %d, want non-increasing", g, cur, g-1, prev)
		}
		prev = cur
	}
}

func TestReadTotalGainConsumesEscapeRuns(t *testing.T) {
	// 7-bit chunks "1111111" (127, an escape) then "0000101" (5, terminal).
	r := bitstream.New([]byte{0b11111110, 0b00010100})
	got := readTotalGain(r)
	want := 1 + 127 + 5
	if got != want {
		t.Fatalf("readTotalGain() = %d, want %d", got, want)
	}
}

func TestGetLargeValNoContinuationReadsEightBits(t *testing.T) {
	// Leading 0 bit: no continuation, an 8-bit value follows (the last bit
	// reads past EOF as zero).
	r := bitstream.New([]byte{0b01010101})
	if got := getLargeVal(r); got != 0xAA {
		t.Fatalf("getLargeVal() = %#x, want %#x", got, 0xAA)
	}
}

func TestGetLargeValSingleContinuationReadsSixteenBits(t *testing.T) {
	// Leading 1 bit (continue), then 0 bit (stop): a 16-bit value follows.
	r := bitstream.New([]byte{0b10000000, 0b00000000, 0b10000000})
	got := getLargeVal(r)
	if got != 0x0002 {
		t.Fatalf("getLargeVal() = %#x, want %#x", got, 0x0002)
	}
}

func TestButterflyFloatsIsInvolutoryUnderReapplication(t *testing.T) {
	v1 := []float32{1, 2, 3}
	v2 := []float32{4, 5, 6}
	orig1 := append([]float32(nil), v1...)
	orig2 := append([]float32(nil), v2...)

	butterflyFloats(v1, v2, len(v1))

	// Forward butterfly: (a,b) -> (a+b, a-b). Applying it again with a
	// halving step recovers the original inputs.
	for i := range v1 {
		a, b := v1[i], v2[i]
		recovered1 := (a + b) / 2
		recovered2 := (a - b) / 2
		if recovered1 != orig1[i] || recovered2 != orig2[i] {
			t.Fatalf("butterfly not invertible at %d: got (%v,%v), want (%v,%v)", i, recovered1, recovered2, orig1[i], orig2[i])
		}
	}
}
