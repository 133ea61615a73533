package huffman

import (
	"testing"

	"github.com/phaethon-tools/go-wma/internal/bitstream"
)

func TestCanonicalRoundTrip(t *testing.T) {
	// Symbol 0: len 1, symbol 1: len 2, symbol 2: len 2 -> codes 0, 10, 11
	lengths := []uint8{1, 2, 2}
	table, err := New(lengths)
	if err != nil {
		t.Fatal(err)
	}

	// Encode symbols 0, 1, 2 back to back: 0 | 10 | 11 = 0b01011, pad to byte.
	r := bitstream.New([]byte{0b01011000})
	for _, want := range []int{0, 1, 2} {
		got, err := table.Decode(r)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("Decode() = %d, want %d", got, want)
		}
	}
}

func TestNewRejectsAllZeroLengths(t *testing.T) {
	if _, err := New([]uint8{0, 0, 0}); err == nil {
		t.Fatal("expected error for all-zero lengths")
	}
}

func TestDecodeInvalidCodeErrors(t *testing.T) {
	// Only symbol 0 (code "0") is assigned; stream of all 1s has no valid code.
	table, err := New([]uint8{1})
	if err != nil {
		t.Fatal(err)
	}
	r := bitstream.New([]byte{0xFF})
	if _, err := table.Decode(r); err == nil {
		t.Fatal("expected error decoding unassigned code")
	}
}
