package wmadata

import "testing"

func TestPowTabOffsetIsUnity(t *testing.T) {
	if v := PowTab[PowTabOffset]; v < 0.999 || v > 1.001 {
		t.Fatalf("PowTab[PowTabOffset] = %v, want ~1.0", v)
	}
}

func TestCriticalFreqsMonotonic(t *testing.T) {
	for i := 1; i < len(CriticalFreqs); i++ {
		if CriticalFreqs[i] <= CriticalFreqs[i-1] {
			t.Fatalf("CriticalFreqs not strictly increasing at %d: %d <= %d", i, CriticalFreqs[i], CriticalFreqs[i-1])
		}
	}
}

func TestExponentBandTableFallsBackWhenUncovered(t *testing.T) {
	if _, ok := ExponentBandTable(8000, 0); ok {
		t.Fatal("expected no hardcoded table for an uncovered sample rate")
	}
	if _, ok := ExponentBandTable(44100, 1); ok {
		t.Fatal("expected no hardcoded table for an uncovered t")
	}
}

func TestExponentBandTableCovers44100T0(t *testing.T) {
	bands, ok := ExponentBandTable(44100, 0)
	if !ok {
		t.Fatal("expected a hardcoded table for (44100, 0)")
	}
	sum := 0
	for _, b := range bands {
		sum += b
	}
	if sum != 128 {
		t.Fatalf("band sum = %d, want 128 (the covered block length)", sum)
	}
}

func TestBalancedLengthsSatisfyKraftEquality(t *testing.T) {
	for _, n := range []int{1, 2, 3, 21, 60, 121, 1474} {
		lengths := balancedLengths(n)
		if len(lengths) != n {
			t.Fatalf("balancedLengths(%d) returned %d lengths", n, len(lengths))
		}
		var kraft float64
		for _, l := range lengths {
			kraft += 1.0 / float64(int(1)<<l)
		}
		// A lone symbol still gets a 1-bit code (internal/huffman reads a
		// length of 0 as "unused"), so half the code space stays unassigned.
		want := 1.0
		if n == 1 {
			want = 0.5
		}
		if kraft < want-0.000001 || kraft > want+0.000001 {
			t.Fatalf("balancedLengths(%d): Kraft sum = %v, want %v", n, kraft, want)
		}
	}
}

func TestCoefHuffmanTableShapes(t *testing.T) {
	for table := 0; table < 3; table++ {
		for idx := 0; idx < 2; idx++ {
			p := CoefHuffmanTable(table, idx)
			if len(p.Lengths) == 0 {
				t.Fatalf("CoefHuffmanTable(%d, %d) has no lengths", table, idx)
			}
			sum := 2
			for _, l := range p.Levels {
				sum += l
			}
			if sum > len(p.Lengths) {
				t.Fatalf("CoefHuffmanTable(%d, %d): levels overrun alphabet size (sum=%d, n=%d)", table, idx, sum, len(p.Lengths))
			}
		}
	}
}

func TestLSPCoefMonotonicPerRow(t *testing.T) {
	for i := 0; i < LSPCoefCount; i++ {
		n := lspLevelCount(i)
		for v := 1; v < n; v++ {
			if LSPCoef(i, v) <= LSPCoef(i, v-1) {
				t.Fatalf("LSPCoef(%d, .) not increasing at %d", i, v)
			}
		}
	}
}

func TestLSPLevelBitsMatchesTableWidth(t *testing.T) {
	if LSPLevelBits(0) != 3 || LSPLevelBits(9) != 3 {
		t.Fatal("expected 3-bit coding for LSP index 0 and indices >= 8")
	}
	if LSPLevelBits(4) != 4 {
		t.Fatal("expected 4-bit coding for interior LSP indices")
	}
}
