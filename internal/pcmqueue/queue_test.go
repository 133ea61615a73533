package pcmqueue

import "testing"

func TestPushFloatThenReadRoundTrips(t *testing.T) {
	q := New()
	q.PushFloat([]float32{0, 1, -1, 0.5})

	buf := make([]byte, 8)
	n := q.Read(buf)
	if n != 8 {
		t.Fatalf("Read() = %d, want 8", n)
	}
	if q.Len() != 0 {
		t.Fatalf("Len() after full read = %d, want 0", q.Len())
	}
}

func TestReadPartialLeavesRemainder(t *testing.T) {
	q := New()
	q.PushFloat([]float32{0, 1})

	small := make([]byte, 2)
	n := q.Read(small)
	if n != 2 {
		t.Fatalf("Read() = %d, want 2", n)
	}
	if q.Len() != 2 {
		t.Fatalf("Len() after partial read = %d, want 2", q.Len())
	}
}

func TestPushFloatClampsOutOfRange(t *testing.T) {
	q := New()
	q.PushFloat([]float32{2.0, -2.0})
	buf := make([]byte, 4)
	q.Read(buf)

	maxPos := int16(buf[0]) | int16(buf[1])<<8
	if maxPos != 32767 {
		t.Fatalf("clamped positive sample = %d, want 32767", maxPos)
	}
	minNeg := int16(buf[2]) | int16(buf[3])<<8
	if minNeg != -32767 {
		t.Fatalf("clamped negative sample = %d, want -32767", minNeg)
	}
}

func TestResetDiscardsBufferedBytes(t *testing.T) {
	q := New()
	q.PushFloat([]float32{0.1, 0.2, 0.3})
	q.Reset()
	if q.Len() != 0 {
		t.Fatalf("Len() after Reset = %d, want 0", q.Len())
	}
}
