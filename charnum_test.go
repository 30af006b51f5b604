package ebidx

import "testing"

func TestCharSchemeSuccessorPredecessorRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		scheme charScheme
		start  int32
	}{
		{"jis x0208", jisX0208Scheme, 0xa121},
		{"iso8859-1", iso88591Scheme, 0xa101},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.start
			for i := 0; i < 300; i++ {
				c = tc.scheme.successor(c)
			}
			for i := 0; i < 300; i++ {
				c = tc.scheme.predecessor(c)
			}
			if c != tc.start {
				t.Fatalf("round trip got %#x, want %#x", c, tc.start)
			}
		})
	}
}

func TestJISX0208RowWrap(t *testing.T) {
	// 0x7e is the rightmost column; successor must jump to the next row's
	// leftmost column (0x21), grounded on narwalt.c's 0xa3 row jump.
	got := jisX0208Scheme.successor(0xa17e)
	want := int32(0xa221)
	if got != want {
		t.Fatalf("successor(0xa17e) = %#x, want %#x", got, want)
	}
	if back := jisX0208Scheme.predecessor(got); back != 0xa17e {
		t.Fatalf("predecessor(%#x) = %#x, want 0xa17e", got, back)
	}
}

func TestISO88591RowWrap(t *testing.T) {
	got := iso88591Scheme.successor(0xa1fe)
	want := int32(0xa201)
	if got != want {
		t.Fatalf("successor(0xa1fe) = %#x, want %#x", got, want)
	}
	if back := iso88591Scheme.predecessor(got); back != 0xa1fe {
		t.Fatalf("predecessor(%#x) = %#x, want 0xa1fe", got, back)
	}
}

func TestValidLowByte(t *testing.T) {
	if !jisX0208Scheme.validLowByte(0xa121) {
		t.Error("0xa121 should be a valid JIS X 0208 low byte")
	}
	if jisX0208Scheme.validLowByte(0xa120) {
		t.Error("0xa120 should be below the JIS X 0208 low-byte range")
	}
	if !iso88591Scheme.validLowByte(0xa101) {
		t.Error("0xa101 should be a valid ISO 8859-1 low byte")
	}
	if iso88591Scheme.validLowByte(0xa100) {
		t.Error("0xa100 should be below the ISO 8859-1 low-byte range")
	}
}

func TestRowCol(t *testing.T) {
	row, col := jisX0208Scheme.rowCol(0xa230, 0xa121)
	if row != 1 || col != (0x30-0x21) {
		t.Fatalf("rowCol = (%d, %d), want (1, %d)", row, col, 0x30-0x21)
	}
}
