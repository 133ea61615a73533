package bitstream

import "testing"

func TestBitsMSBFirst(t *testing.T) {
	r := New([]byte{0xB4}) // 1011 0100
	want := []int{1, 0, 1, 1, 0, 1, 0, 0}
	for i, w := range want {
		if got := r.Bit(); got != w {
			t.Fatalf("bit %d: got %d, want %d", i, got, w)
		}
	}
}

func TestBitsPastEndIsZero(t *testing.T) {
	r := New([]byte{0xFF})
	r.SkipBits(8)
	if got := r.Bits(4); got != 0 {
		t.Fatalf("reading past end: got %d, want 0", got)
	}
}

func TestSkipBitsNegativeClampsToZero(t *testing.T) {
	r := New([]byte{0xFF, 0xFF})
	r.SkipBits(4)
	r.SkipBits(-100)
	if r.Pos() != 0 {
		t.Fatalf("Pos() = %d, want 0", r.Pos())
	}
}

func TestAlignDownNoopWhenAligned(t *testing.T) {
	r := New([]byte{0xFF, 0xFF})
	r.SetPos(8)
	r.AlignDown()
	if r.Pos() != 8 {
		t.Fatalf("Pos() = %d, want 8 (no-op)", r.Pos())
	}
}

func TestAlignDownRewindsToByteBoundary(t *testing.T) {
	r := New([]byte{0xFF, 0xFF})
	r.SetPos(11)
	r.AlignDown()
	if r.Pos() != 8 {
		t.Fatalf("Pos() = %d, want 8", r.Pos())
	}
}

func TestBitsReadsMultiByteValue(t *testing.T) {
	r := New([]byte{0x01, 0x23})
	if got := r.Bits(16); got != 0x0123 {
		t.Fatalf("Bits(16) = 0x%x, want 0x0123", got)
	}
}
