// Package serialize turns a minimised dfa.DFA into a self-contained byte
// image, and reads that image back as a Program a matcher can step
// without touching the dfa package's state arena at all. The format is
// branch-free by construction: a state record is a fixed-width result
// entry followed by one target-offset entry per equivalence class, so
// stepping a byte is exactly one array index and one load.
package serialize

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/zezax/red/charset"
	"github.com/zezax/red/internal/conv"
	"github.com/zezax/red/rerr"
)

// Width identifies one of the three on-disk transition-entry sizes.
type Width int

const (
	// WidthAuto asks Encode to pick the smallest width that fits.
	WidthAuto Width = 0
	Width1    Width = 1
	Width2    Width = 2
	Width4    Width = 4
)

const (
	magic        = "REDA"
	majorVersion = 1
	minorVersion = 0

	headerLen    = 24 // bytes 0..23, before the equivMap
	equivMapLen  = charset.AlphabetSize
	equivMapOff  = headerLen
	leaderOff    = equivMapOff + equivMapLen // 280

	offMagic     = 0
	offMajor     = 4
	offMinor     = 6
	offChecksum  = 8
	offFormat    = 12
	offMaxChar   = 13
	offLeaderLen = 14
	offPad       = 15
	offStateCnt  = 16
	offInitial   = 20
)

func deadEndBit(width Width) uint64 { return 1 << uint(width*8-1) }
func resultMask(width Width) uint64 { return deadEndBit(width) - 1 }

// padTo8 returns the number of zero bytes needed to round n up to the
// next multiple of 8.
func padTo8(n int) int {
	rem := n % 8
	if rem == 0 {
		return 0
	}
	return 8 - rem
}

func fnv1a(data []byte) uint32 {
	h := fnv.New32a()
	h.Write(data) //nolint:errcheck // hash.Hash.Write never errors
	return h.Sum32()
}

func putWidth(buf []byte, width Width, v uint64) {
	switch width {
	case Width1:
		buf[0] = byte(v)
	case Width2:
		binary.LittleEndian.PutUint16(buf, uint16(v))
	case Width4:
		binary.LittleEndian.PutUint32(buf, uint32(v))
	}
}

func getWidth(buf []byte, width Width) uint64 {
	switch width {
	case Width1:
		return uint64(buf[0])
	case Width2:
		return uint64(binary.LittleEndian.Uint16(buf))
	case Width4:
		return uint64(binary.LittleEndian.Uint32(buf))
	}
	return 0
}

// chooseWidth auto-selects the smallest width for which maxResult fits
// in width*8-1 bits and the full state-table byte length fits an
// unsigned width*8-bit integer.
func chooseWidth(maxResult uint64, numStates, entriesPerState int) (Width, error) {
	for _, w := range []Width{Width1, Width2, Width4} {
		if !conv.FitsUint(maxResult, int(w)*8-1) {
			continue
		}
		tableLen := uint64(numStates) * uint64(entriesPerState) * uint64(w)
		if !conv.FitsUint(tableLen, int(w)*8) {
			continue
		}
		return w, nil
	}
	return 0, rerr.New(rerr.KindLimit, "no entry width fits this automaton's results and state count")
}
