package serialize

import (
	"encoding/binary"

	"github.com/zezax/red/dfa"
	"github.com/zezax/red/internal/conv"
	"github.com/zezax/red/rerr"
)

// Encode serializes d into a contiguous byte image. leader, if non-nil,
// is written verbatim as the fixed required prefix (already expressed in
// equivalence-class terms by the caller). width selects an explicit
// entry size, or WidthAuto to pick the smallest one that fits.
func Encode(d *dfa.DFA, leader []byte, width Width) ([]byte, error) {
	ids := d.AllStateIDs()
	numStates := len(ids)
	entriesPerState := d.MaxChar + 2 // 1 result entry + (maxChar+1) transition entries

	maxResult := uint64(0)
	for _, id := range ids {
		if r := uint64(d.State(id).Result); r > maxResult {
			maxResult = r
		}
	}

	if width == WidthAuto {
		w, err := chooseWidth(maxResult, numStates, entriesPerState)
		if err != nil {
			return nil, err
		}
		width = w
	} else if !conv.FitsUint(maxResult, int(width)*8-1) {
		return nil, rerr.New(rerr.KindLimit, "result does not fit the requested entry width")
	}

	// newIndex[ids[i]] is i, the position of ids[i] in the state table.
	newIndex := make(map[dfa.StateID]int, numStates)
	for i, id := range ids {
		newIndex[id] = i
	}

	recordLen := entriesPerState * int(width)
	stateTableLen := numStates * recordLen
	if !conv.FitsUint(uint64(stateTableLen), int(width)*8) {
		return nil, rerr.New(rerr.KindSerialize, "state table size overflows the chosen entry width")
	}

	if len(leader) > 255 {
		return nil, rerr.New(rerr.KindLimit, "leader prefix longer than 255 bytes")
	}

	stateTableOff := leaderOff + len(leader)
	pad := padTo8(stateTableOff)
	stateTableOff += pad

	buf := make([]byte, stateTableOff+stateTableLen)

	copy(buf[offMagic:], magic)
	binary.LittleEndian.PutUint16(buf[offMajor:], majorVersion)
	binary.LittleEndian.PutUint16(buf[offMinor:], minorVersion)
	buf[offFormat] = byte(width)
	buf[offMaxChar] = byte(d.MaxChar)
	buf[offLeaderLen] = byte(len(leader))
	buf[offPad] = 0
	binary.LittleEndian.PutUint32(buf[offStateCnt:], conv.IntToUint32(numStates))

	initOffVal := uint64(newIndex[dfa.InitialState] * recordLen)
	if !conv.FitsUint(initOffVal, 32) {
		return nil, rerr.New(rerr.KindSerialize, "initial state offset overflow")
	}
	binary.LittleEndian.PutUint32(buf[offInitial:], uint32(initOffVal))

	copy(buf[equivMapOff:equivMapOff+equivMapLen], d.EquivMap[:])
	copy(buf[leaderOff:leaderOff+len(leader)], leader)

	for i, id := range ids {
		st := d.State(id)
		rec := buf[stateTableOff+i*recordLen:]

		resVal := uint64(st.Result) & resultMask(width)
		if st.DeadEnd {
			resVal |= deadEndBit(width)
		}
		putWidth(rec, width, resVal)

		for c := 0; c <= d.MaxChar; c++ {
			to := d.Step(id, uint32(c))
			off := newIndex[to] * recordLen / int(width)
			if !conv.FitsUint(uint64(off), int(width)*8) {
				return nil, rerr.New(rerr.KindLimit, "transition offset does not fit the chosen entry width")
			}
			putWidth(rec[(c+1)*int(width):], width, uint64(off))
		}
	}

	checksum := fnv1a(buf[offFormat:])
	binary.LittleEndian.PutUint32(buf[offChecksum:], checksum)

	return buf, nil
}
