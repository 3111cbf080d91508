package serialize

import (
	"encoding/binary"

	"github.com/zezax/red/rerr"
)

// Program is a decoded, validated serialized image, ready for a matcher
// to step directly. It holds the raw byte slice and the offsets the
// header describes; no state is copied out of it.
type Program struct {
	buf           []byte
	Width         Width
	MaxChar       int
	LeaderLen     int
	StateCnt      int
	InitialOff    int
	EquivMap      [256]byte
	stateTableOff int
	recordLen     int
}

// Decode validates header, version, and checksum, then returns a Program
// backed by buf (not copied; callers must not mutate buf afterward).
func Decode(buf []byte) (*Program, error) {
	if len(buf) < headerLen+equivMapLen {
		return nil, rerr.New(rerr.KindExec, "serialized image too short for header")
	}
	if string(buf[offMagic:offMagic+4]) != magic {
		return nil, rerr.New(rerr.KindExec, "bad magic")
	}
	major := binary.LittleEndian.Uint16(buf[offMajor:])
	if major != majorVersion {
		return nil, rerr.Newf(rerr.KindExec, "unsupported major version %d", major)
	}

	wantSum := binary.LittleEndian.Uint32(buf[offChecksum:])
	gotSum := fnv1a(buf[offFormat:])
	if wantSum != gotSum {
		return nil, rerr.New(rerr.KindExec, "checksum mismatch")
	}

	width := Width(buf[offFormat])
	switch width {
	case Width1, Width2, Width4:
	default:
		return nil, rerr.Newf(rerr.KindExec, "unsupported entry width %d", width)
	}

	maxChar := int(buf[offMaxChar])
	leaderLen := int(buf[offLeaderLen])
	stateCnt := int(binary.LittleEndian.Uint32(buf[offStateCnt:]))
	initialOff := int(binary.LittleEndian.Uint32(buf[offInitial:]))

	p := &Program{
		buf:       buf,
		Width:     width,
		MaxChar:   maxChar,
		LeaderLen: leaderLen,
		StateCnt:  stateCnt,
		InitialOff: initialOff,
		recordLen: (maxChar + 2) * int(width),
	}
	copy(p.EquivMap[:], buf[equivMapOff:equivMapOff+equivMapLen])

	stateTableOff := leaderOff + leaderLen
	stateTableOff += padTo8(stateTableOff)
	p.stateTableOff = stateTableOff

	wantLen := stateTableOff + stateCnt*p.recordLen
	if len(buf) < wantLen {
		return nil, rerr.New(rerr.KindExec, "serialized image truncated before end of state table")
	}

	return p, nil
}

// Leader returns the required-prefix bytes, in equivalence-class space.
func (p *Program) Leader() []byte {
	if p.LeaderLen == 0 {
		return nil
	}
	return p.buf[leaderOff : leaderOff+p.LeaderLen]
}

// Class maps a raw input byte to its equivalence class.
func (p *Program) Class(b byte) byte { return p.EquivMap[b] }

// Initial returns the byte offset, within the state table, of the
// initial state's record.
func (p *Program) Initial() int { return p.InitialOff }

// Result returns the record's result value and dead-end flag.
func (p *Program) Result(off int) (result uint32, deadEnd bool) {
	v := getWidth(p.buf[p.stateTableOff+off:], p.Width)
	return uint32(v & resultMask(p.Width)), v&deadEndBit(p.Width) != 0
}

// Step follows the transition for class cls out of the state whose
// record begins at off, returning the target record's offset.
func (p *Program) Step(off int, cls byte) int {
	if int(cls) > p.MaxChar {
		cls = byte(p.MaxChar) // defensive: a validated program never sees this
	}
	entry := p.buf[p.stateTableOff+off+(int(cls)+1)*int(p.Width):]
	return int(getWidth(entry, p.Width)) * int(p.Width)
}

// MatchFull runs input from the initial state, stepping through the
// equivalence map on each byte, and returns the final result. It exists
// for cross-checking against dfa.DFA.MatchFull in tests.
func (p *Program) MatchFull(input []byte) uint32 {
	off := p.Initial()
	for _, b := range input {
		cls := p.Class(b)
		off = p.Step(off, cls)
		if res, dead := p.Result(off); dead {
			return res
		}
	}
	res, _ := p.Result(off)
	return res
}
