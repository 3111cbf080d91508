package charset

import "testing"

func TestByteAndSpan(t *testing.T) {
	b := Byte('a')
	if b.Population() != 1 {
		t.Fatalf("Byte population = %d, want 1", b.Population())
	}
	if !b.Get(uint32('a')) {
		t.Fatalf("Byte('a') missing 'a'")
	}

	span := Span('a', 'z')
	if span.Population() != 26 {
		t.Fatalf("Span('a','z') population = %d, want 26", span.Population())
	}
}

func TestDigitSpaceWord(t *testing.T) {
	d := Digit()
	for c := byte('0'); c <= '9'; c++ {
		if !d.Get(uint32(c)) {
			t.Fatalf("Digit() missing %q", c)
		}
	}
	if d.Get(uint32('a')) {
		t.Fatalf("Digit() should not contain 'a'")
	}

	w := Word()
	for _, c := range []byte("Az09_") {
		if !w.Get(uint32(c)) {
			t.Fatalf("Word() missing %q", c)
		}
	}
	if w.Get(uint32(' ')) {
		t.Fatalf("Word() should not contain space")
	}

	sp := Space()
	if !sp.Get(uint32(' ')) || !sp.Get(uint32('\t')) {
		t.Fatalf("Space() missing whitespace byte")
	}
}

func TestNegateIsComplement(t *testing.T) {
	d := Digit()
	nd := NotDigit()
	for c := 0; c < AlphabetSize; c++ {
		if d.Get(uint32(c)) == nd.Get(uint32(c)) {
			t.Fatalf("byte %d: Digit and NotDigit agree", c)
		}
	}
}

func TestEndMarkRoundTrip(t *testing.T) {
	tests := []uint32{1, 2, 255, 1000}
	for _, result := range tests {
		mc := EndMark(result)
		idx := uint32(0)
		it := mc.Iterator()
		for {
			v, ok := it.Next()
			if !ok {
				break
			}
			idx = v
		}
		got, ok := IsEndMark(idx)
		if !ok {
			t.Fatalf("IsEndMark(%d) = false, want true", idx)
		}
		if got != result {
			t.Fatalf("IsEndMark round trip = %d, want %d", got, result)
		}
	}
}

func TestCaseFoldAddsBothCases(t *testing.T) {
	mc := Byte('a')
	folded := CaseFold(mc)
	if !folded.Get(uint32('a')) || !folded.Get(uint32('A')) {
		t.Fatalf("CaseFold(Byte('a')) missing one of 'a'/'A'")
	}
	if folded.Population() != 2 {
		t.Fatalf("CaseFold(Byte('a')) population = %d, want 2", folded.Population())
	}
}
