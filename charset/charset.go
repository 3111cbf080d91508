// Package charset builds the MultiChar label sets that NFA and DFA
// transitions carry: dense sets of byte values, plus the synthetic
// "end-mark" symbols used to recover which pattern matched after
// powerset conversion collapses per-pattern automata into one.
//
// MultiChar is a plain bitset.Set; this package supplies the
// domain-specific constructors (single byte, byte span, POSIX-flavoured
// escape classes, end-marks, case folding) instead of a distinct type, so
// every bitset.Set algebra operation (union, intersect, subtract...)
// applies to character sets for free.
package charset

import "github.com/zezax/red/bitset"

// AlphabetSize is the number of plain byte values, before any end-marks
// or equivalence-class remapping.
const AlphabetSize = 256

// EndMarkBase is added to a pattern's result to form its end-mark symbol.
const EndMarkBase = AlphabetSize

// MultiChar is a set of character indices in [0, 256+K): values below 256
// are plain bytes, values at or above 256 are end-marks (see EndMark).
type MultiChar = bitset.Set

// Byte returns a MultiChar containing only b.
func Byte(b byte) *MultiChar {
	return bitset.NewBit(bitset.Index(b))
}

// Span returns a MultiChar containing every byte in [first, last] inclusive.
func Span(first, last byte) *MultiChar {
	return bitset.NewSpan(bitset.Index(first), bitset.Index(last))
}

// All returns a MultiChar containing every byte value, used for "." and
// for the wildcard NFA construction.
func All() *MultiChar {
	return Span(0, 255)
}

// EndMark returns a MultiChar containing the single synthetic symbol that
// records a match of the given result.
func EndMark(result uint32) *MultiChar {
	return bitset.NewBit(bitset.Index(EndMarkBase) + bitset.Index(result))
}

// IsEndMark reports whether idx denotes an end-mark, and if so which result.
func IsEndMark(idx bitset.Index) (result uint32, ok bool) {
	if idx < EndMarkBase {
		return 0, false
	}
	return uint32(idx - EndMarkBase), true
}

// Digit is \d: the ASCII digits.
func Digit() *MultiChar { return Span('0', '9') }

// Space is \s: the ASCII whitespace bytes, matching the original
// implementation's hardcoded set rather than Go's broader unicode.IsSpace.
func Space() *MultiChar {
	s := &MultiChar{}
	for _, b := range []byte{'\t', '\n', '\v', '\f', '\r', ' '} {
		s.Set(bitset.Index(b))
	}
	return s
}

// Word is \w: ASCII letters, digits, and underscore.
func Word() *MultiChar {
	s := Span('A', 'Z')
	s.UnionWith(Span('a', 'z'))
	s.UnionWith(Span('0', '9'))
	s.Set(bitset.Index('_'))
	return s
}

// Negate returns the complement of mc within the plain byte alphabet
// [0, 256): negation never reaches into end-mark territory.
func Negate(mc *MultiChar) *MultiChar {
	neg := mc.Clone()
	neg.Resize(AlphabetSize)
	neg.FlipAll()
	return neg
}

// NotDigit is \D.
func NotDigit() *MultiChar { return Negate(Digit()) }

// NotSpace is \S.
func NotSpace() *MultiChar { return Negate(Space()) }

// NotWord is \W.
func NotWord() *MultiChar { return Negate(Word()) }

// CaseFold returns a new MultiChar equal to mc with, for every letter it
// contains, the opposite-case peer also added. Non-letter members and
// end-marks pass through untouched.
func CaseFold(mc *MultiChar) *MultiChar {
	folded := mc.Clone()
	it := mc.Iterator()
	for {
		idx, ok := it.Next()
		if !ok {
			break
		}
		if idx >= AlphabetSize {
			continue
		}
		b := byte(idx)
		switch {
		case b >= 'A' && b <= 'Z':
			folded.Set(bitset.Index(b - 'A' + 'a'))
		case b >= 'a' && b <= 'z':
			folded.Set(bitset.Index(b - 'a' + 'A'))
		}
	}
	return folded
}
