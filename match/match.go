package match

import (
	"github.com/zezax/red/accel"
	"github.com/zezax/red/prefilter"
	"github.com/zezax/red/serialize"
)

// Match is a single recognised occurrence: the result tag of whichever
// pattern matched, and the half-open [Start,End) byte range within the
// haystack it was found in.
//
// Grounded on the teacher's own position-pair Match type: here the
// haystack is not retained, since callers already hold the slice they
// passed in.
type Match struct {
	Result uint32
	Start  int
	End    int
}

// Len returns the length in bytes of the matched range.
func (m Match) Len() int { return m.End - m.Start }

// Ok reports whether this Match represents an actual match.
func (m Match) Ok() bool { return m.Result != 0 }

// Matcher runs one compiled Program's entry points against input bytes.
// A Matcher is immutable once built and safe for concurrent use by any
// number of callers, since it never mutates prog and allocates no
// shared state of its own.
type Matcher struct {
	prog          *serialize.Program
	leaderOpt     bool
	multi         *prefilter.MultiLeader
	leaderByte    byte
	hasLeaderByte bool
}

// New returns a Matcher over prog. doLeader enables the fixed-prefix
// fast-reject whenever prog carries a non-empty leader. When the
// leader's first class maps back to exactly one raw byte, Scan also
// uses accel.FindByte to relocate the anchor straight to the next
// candidate instead of probing every position in between.
func New(prog *serialize.Program, doLeader bool) *Matcher {
	m := &Matcher{prog: prog, leaderOpt: doLeader}
	if doLeader {
		if leader := prog.Leader(); len(leader) > 0 {
			if b, ok := singleRawByte(prog, leader[0]); ok {
				m.leaderByte = b
				m.hasLeaderByte = true
			}
		}
	}
	return m
}

// singleRawByte returns the one raw byte mapping to class cls, or
// ok=false when more than one byte shares that class (several
// equivalence classes commonly span ranges, e.g. a digit class, for
// which no single byte can stand in for a skip-scan).
func singleRawByte(prog *serialize.Program, cls byte) (byte, bool) {
	found := -1
	for b := 0; b < 256; b++ {
		if prog.Class(byte(b)) == cls {
			if found != -1 {
				return 0, false
			}
			found = b
		}
	}
	if found == -1 {
		return 0, false
	}
	return byte(found), true
}

// WithMultiLeader attaches a multi-pattern Aho-Corasick prefilter that
// Scan/Search use to jump straight to the next anchor some pattern
// could possibly start at, skipping the single fixed-leader probe (and
// the walk attempt) at every position in between. It never changes
// what a scan finds.
func (m *Matcher) WithMultiLeader(ml *prefilter.MultiLeader) *Matcher {
	m.multi = ml
	return m
}

// Check reports only the result of an anchored walk from input's start;
// 0 means no pattern matched there.
func (m *Matcher) Check(input []byte, style Style) uint32 {
	if m.leaderOpt && leaderMismatch(m.prog, input, 0) {
		return 0
	}
	return walk(m.prog, input, 0, style).result
}

// MatchAt runs an anchored walk from input's start and reports the full
// Match, including the byte range.
func (m *Matcher) MatchAt(input []byte, style Style) Match {
	if m.leaderOpt && leaderMismatch(m.prog, input, 0) {
		return Match{}
	}
	wr := walk(m.prog, input, 0, style)
	if wr.result == 0 {
		return Match{}
	}
	return Match{Result: wr.result, Start: wr.startRel, End: wr.endRel}
}

// Scan slides the anchor forward one byte at a time, starting at from,
// until a match is found or input is exhausted. When a multi-pattern
// prefilter is attached, anchors it rules out are skipped entirely.
func (m *Matcher) Scan(input []byte, from int, style Style) Match {
	anchor := from
	for anchor <= len(input) {
		if m.multi != nil {
			next := m.multi.Next(input, anchor)
			if next < 0 {
				break
			}
			anchor = next
		} else if m.hasLeaderByte {
			next := accel.FindByte(input, m.leaderByte, anchor)
			if next < 0 {
				break
			}
			anchor = next
		}
		if m.leaderOpt && leaderMismatch(m.prog, input, anchor) {
			anchor++
			continue
		}
		wr := walk(m.prog, input, anchor, style)
		if wr.result != 0 {
			return Match{Result: wr.result, Start: anchor + wr.startRel, End: anchor + wr.endRel}
		}
		anchor++
	}
	return Match{}
}

// Search is Scan starting from the beginning of input.
func (m *Matcher) Search(input []byte, style Style) Match {
	return m.Scan(input, 0, style)
}

// MatchAll returns every non-overlapping match in input, always under
// Tangent semantics: the loop resumes scanning immediately after each
// match's end, the way the original match_all behaves.
func (m *Matcher) MatchAll(input []byte) []Match {
	var out []Match
	pos := 0
	for pos <= len(input) {
		mt := m.Scan(input, pos, Tangent)
		if !mt.Ok() {
			break
		}
		out = append(out, mt)
		if mt.End > pos {
			pos = mt.End
		} else {
			pos++
		}
	}
	return out
}

// Replace walks input left to right, substituting repl for each
// non-overlapping match (under style) and copying every other byte
// verbatim, up to max replacements (max <= 0 means unlimited).
func (m *Matcher) Replace(input, repl []byte, max int, style Style) []byte {
	var out []byte
	pos := 0
	count := 0
	for pos < len(input) {
		if max > 0 && count >= max {
			break
		}
		mt := m.Scan(input, pos, style)
		if !mt.Ok() {
			break
		}
		out = append(out, input[pos:mt.Start]...)
		out = append(out, repl...)
		count++
		if mt.End > mt.Start {
			pos = mt.End
		} else {
			out = append(out, input[mt.Start])
			pos = mt.Start + 1
		}
	}
	out = append(out, input[pos:]...)
	return out
}
