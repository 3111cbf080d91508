package dfa

import (
	"github.com/zezax/red/bitset"
	"github.com/zezax/red/budget"
	"github.com/zezax/red/nfa"
	"github.com/zezax/red/rerr"
)

// subsetEntry pairs a subset of NFA state ids with the DFA state id
// allocated for it, kept in a hash-bucketed table so that equal subsets
// collapse onto the same DFA state regardless of insertion order.
type subsetEntry struct {
	set *bitset.Set
	id  StateID
}

// Convert performs Rabin-Scott subset construction over n starting at
// start, producing a DFA whose end-mark edges have already been chopped
// back into per-state results. The DFA is not yet minimised and its
// equivalence map is still the identity.
func Convert(n *nfa.NFA, start nfa.StateID, bud budget.Budget) (*DFA, error) {
	basis := buildBasis(n.AllMultiChars(start))

	d := New()
	table := make(map[uint64][]*subsetEntry)
	idOf := make(map[StateID]*bitset.Set)

	initSet := bitset.NewBit(bitset.Index(start))
	initID := d.newRawState() // allocates id 1, matching InitialState
	table[initSet.Hash()] = []*subsetEntry{{set: initSet, id: initID}}
	idOf[initID] = initSet

	find := func(s *bitset.Set) (StateID, bool) {
		for _, e := range table[s.Hash()] {
			if e.set.Equal(s) {
				return e.id, true
			}
		}
		return 0, false
	}

	todo := []*bitset.Set{initSet}
	for len(todo) > 0 {
		s := todo[0]
		todo = todo[1:]
		sid, _ := find(s)

		for _, bc := range basis {
			succ := successorSet(n, s, bc)
			if succ.Population() == 0 {
				continue
			}
			tid, existed := find(succ)
			if !existed {
				tid = d.newRawState()
				table[succ.Hash()] = append(table[succ.Hash()], &subsetEntry{set: succ, id: tid})
				idOf[tid] = succ
				todo = append(todo, succ)
				if !bud.AllowStates(d.NumStates()) {
					return nil, rerr.Newf(rerr.KindLimit, "dfa exceeded state budget (%d states)", d.NumStates())
				}
			}
			assignBasisEdge(d, sid, bc, tid)
		}
	}

	assignResults(n, idOf, d)
	ChopEndMarks(d)
	return d, nil
}

func successorSet(n *nfa.NFA, s *bitset.Set, basisChars *bitset.Set) *bitset.Set {
	out := &bitset.Set{}
	it := s.Iterator()
	for {
		id, ok := it.Next()
		if !ok {
			break
		}
		st := n.State(nfa.StateID(id))
		for _, t := range st.Trans {
			if t.Chars.HasIntersection(basisChars) {
				out.Set(bitset.Index(t.Next))
			}
		}
	}
	return out
}

func assignBasisEdge(d *DFA, from StateID, basisChars *bitset.Set, to StateID) {
	st := &d.states[from]
	if st.Trans == nil {
		st.Trans = make(map[uint32]StateID)
	}
	it := basisChars.Iterator()
	for {
		idx, ok := it.Next()
		if !ok {
			break
		}
		st.Trans[idx] = to
	}
}

// assignResults applies the rarity tie-breaker of the powerset stage:
// among accepting NFA states in a subset, the one whose original state
// appears in the fewest subset-states overall wins, so more specific
// patterns beat more general ones when both would otherwise accept.
// Ties are broken by ascending NFA id, which is exactly the order the
// subset's own bitset iterator produces.
func assignResults(n *nfa.NFA, idOf map[StateID]*bitset.Set, d *DFA) {
	rarity := make(map[nfa.StateID]int)
	for _, set := range idOf {
		it := set.Iterator()
		for {
			idx, ok := it.Next()
			if !ok {
				break
			}
			nid := nfa.StateID(idx)
			if n.State(nid).Accepts() {
				rarity[nid]++
			}
		}
	}

	for dfaID, set := range idOf {
		best := nfa.InvalidState
		bestCount := -1
		it := set.Iterator()
		for {
			idx, ok := it.Next()
			if !ok {
				break
			}
			nid := nfa.StateID(idx)
			st := n.State(nid)
			if !st.Accepts() {
				continue
			}
			c := rarity[nid]
			if bestCount == -1 || c < bestCount {
				bestCount = c
				best = nid
			}
		}
		if bestCount >= 0 {
			d.states[dfaID].Result = n.State(best).Result
		}
	}
}
