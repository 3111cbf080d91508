package dfa

// ComputeLeader walks the DFA from its initial state collecting the
// required fixed prefix every match must begin with, expressed in
// equivalence-class space (one byte per class index, as the serialized
// header stores it). At each non-accepting state it looks for a single
// class whose transition leaves the error state; a self-loop counts as
// a candidate too, since it means the next byte isn't pinned to one
// value. The walk stops, returning the prefix collected so far, as soon
// as more than one class leaves the error state, none does, or the lone
// one loops back to the current state. The prefix lets a matcher reject
// most inputs with a plain scan before ever touching the automaton.
func ComputeLeader(d *DFA) []byte {
	var out []byte
	cur := InitialState
	seen := map[StateID]bool{}

	for {
		if seen[cur] {
			break
		}
		seen[cur] = true

		st := &d.states[cur]
		if st.Result != 0 {
			break
		}

		found := -1
		conflict := false
		for c := 0; c <= d.MaxChar; c++ {
			to := d.Step(cur, uint32(c))
			if to == ErrorState {
				continue
			}
			if found != -1 {
				conflict = true
				break
			}
			found = c
		}
		if conflict || found == -1 {
			break
		}

		next := d.Step(cur, uint32(found))
		if next == cur {
			break
		}
		out = append(out, byte(found))
		cur = next
	}

	return out
}
