package dfa

import (
	"sort"

	"github.com/zezax/red/charset"
)

// ChopEndMarks scans every reachable state for outgoing edges whose
// character index is an end-mark (>= charset.EndMarkBase). The first
// such edge (by ascending character index, for determinism) sets the
// state's result to the encoded pattern result; every end-mark edge is
// then removed, since it never corresponds to a real input byte.
func ChopEndMarks(d *DFA) {
	for i := range d.states {
		st := &d.states[i]
		if len(st.Trans) == 0 {
			continue
		}
		var marks []uint32
		for c := range st.Trans {
			if c >= charset.EndMarkBase {
				marks = append(marks, c)
			}
		}
		if len(marks) == 0 {
			continue
		}
		sort.Slice(marks, func(a, b int) bool { return marks[a] < marks[b] })
		for _, c := range marks {
			if st.Result == 0 {
				st.Result = c - charset.EndMarkBase
			}
			delete(st.Trans, c)
		}
	}
}
