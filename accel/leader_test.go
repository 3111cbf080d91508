package accel

import (
	"bytes"
	"testing"
)

func TestFindByteShortInput(t *testing.T) {
	hay := []byte("abc")
	if got := FindByte(hay, 'b', 0); got != 1 {
		t.Fatalf("FindByte = %d, want 1", got)
	}
	if got := FindByte(hay, 'z', 0); got != -1 {
		t.Fatalf("FindByte = %d, want -1", got)
	}
}

func TestFindByteLongInputChunkBoundary(t *testing.T) {
	hay := bytes.Repeat([]byte{'x'}, 37)
	hay[16] = 'y' // lands inside the third 8-byte chunk
	if got := FindByte(hay, 'y', 0); got != 16 {
		t.Fatalf("FindByte = %d, want 16", got)
	}
	hay[36] = 'z' // trailing byte past the last full chunk
	if got := FindByte(hay, 'z', 0); got != 36 {
		t.Fatalf("FindByte = %d, want 36", got)
	}
}

func TestFindByteRespectsFromOffset(t *testing.T) {
	hay := []byte("aaaaaaaaaaaaaaaaab")
	if got := FindByte(hay, 'a', 5); got != 5 {
		t.Fatalf("FindByte with from=5 = %d, want 5", got)
	}
	if got := FindByte(hay, 'b', len(hay)); got != -1 {
		t.Fatalf("FindByte with from past end = %d, want -1", got)
	}
}

func TestFindByteAbsent(t *testing.T) {
	hay := bytes.Repeat([]byte{'q'}, 64)
	if got := FindByte(hay, 'z', 0); got != -1 {
		t.Fatalf("FindByte = %d, want -1", got)
	}
}
