// Package accel provides SWAR (SIMD Within A Register) acceleration for
// scanning an input buffer for the single leading byte of a matcher's
// required fixed prefix. It replaces the byte-at-a-time leader probe
// with an 8-bytes-at-a-time zero-detection scan, falling back to a
// plain loop for short inputs the same way the SWAR memchr fallback
// does for its own platform-independent path.
package accel

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/sys/cpu"
)

// haveFastPath records whether the host CPU exposes the feature set the
// generic SWAR path is tuned for (unaligned 64-bit loads). It is read
// once at init and only ever widens which inputs take the chunked path;
// correctness never depends on it.
var haveFastPath = cpu.X86.HasSSE2 || cpu.ARM64.HasASIMD

// FindByte returns the index of the first occurrence of b in haystack
// at or after from, or -1 if absent. It is the single-byte primitive
// the leader fast-reject uses to relocate a matcher's anchor before
// falling back to a full DFA walk.
func FindByte(haystack []byte, b byte, from int) int {
	if from >= len(haystack) {
		return -1
	}
	haystack = haystack[from:]

	if !haveFastPath || len(haystack) < 8 {
		for i, c := range haystack {
			if c == b {
				return from + i
			}
		}
		return -1
	}

	mask := uint64(b) * 0x0101010101010101
	i := 0
	for i+8 <= len(haystack) {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		x := chunk ^ mask
		// Zero-byte detection: a byte position is zero iff, after
		// subtracting 1 with borrow from the byte above, its high bit
		// is set while the original high bit was clear.
		hit := (x - 0x0101010101010101) & ^x & 0x8080808080808080
		if hit != 0 {
			return from + i + bits.TrailingZeros64(hit)/8
		}
		i += 8
	}
	for ; i < len(haystack); i++ {
		if haystack[i] == b {
			return from + i
		}
	}
	return -1
}
