// Package prefilter narrows down where a multi-pattern matcher needs to
// run a full DFA walk, ahead of the single fixed-leader fast-reject the
// matcher already performs on its own.
package prefilter

import "github.com/coregx/ahocorasick"

// MultiLeader finds the next byte offset that could possibly start any
// one of a compilation's patterns, by running an Aho-Corasick automaton
// built over each pattern's own required literal leader. It never
// changes what a search finds, only which anchors scan/search bother to
// try a full walk from; a caller that ignores MultiLeader and walks
// every position still gets identical results, just slower.
type MultiLeader struct {
	auto *ahocorasick.Automaton
}

// NewMultiLeader builds a MultiLeader over the given set of per-pattern
// leader byte sequences. Patterns whose leader is empty contribute
// nothing to the automaton (they cannot be fast-rejected this way); if
// every leader is empty, NewMultiLeader returns nil, and callers should
// fall back to scanning without a prefilter.
func NewMultiLeader(leaders [][]byte) (*MultiLeader, error) {
	builder := ahocorasick.NewBuilder()
	any := false
	for _, l := range leaders {
		if len(l) == 0 {
			continue
		}
		builder.AddPattern(l)
		any = true
	}
	if !any {
		return nil, nil
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &MultiLeader{auto: auto}, nil
}

// Next returns the byte offset, at or after from, of the next position
// where some pattern's leader begins, or -1 if none remains.
func (m *MultiLeader) Next(haystack []byte, from int) int {
	if m == nil || m.auto == nil {
		return from
	}
	match := m.auto.Find(haystack, from)
	if match == nil {
		return -1
	}
	return match.Start
}
