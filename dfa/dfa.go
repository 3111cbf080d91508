// Package dfa implements the deterministic automaton that powerset
// conversion produces, the operations it supports before and after
// minimisation, and the Gries/Hopcroft-style minimiser itself.
//
// The arena shape (flat []State, reserved sentinel ids) follows the same
// id-addressed-vector idiom the nfa package uses, adapted from
// epsilon-free NFA states to dense transition maps plus a default target,
// the structure the teacher's nfa.ByteClasses equivalence reduction
// gestures at but never needed a full DFA arena to hold.
package dfa

import "github.com/zezax/red/charset"

// StateID indexes a DFA's state arena.
type StateID uint32

// ErrorState is the permanent all-self-loop, result-0, dead-end state.
const ErrorState StateID = 0

// InitialState is the id powerset conversion always assigns to the start
// subset, and the id minimisation always preserves for the block
// containing the original initial state.
const InitialState StateID = 1

// State is one DFA node: a result (0 means no match), a dead-end flag,
// and a transition map plus a default target for characters it omits.
//
// Trans is keyed by a full character index rather than a narrower
// equivalence-class byte because, before InstallEquivalenceMap runs, an
// index may be an end-mark symbol (charset.EndMarkBase+result, result
// up to 0x7fffffff) that does not fit in 16 bits. Once the equivalence
// map is installed every key collapses into [0,256), but the map stays
// wide so the two phases share one type.
type State struct {
	Result  uint32
	DeadEnd bool
	Trans   map[uint32]StateID
	Default StateID
}

// DFA is an arena of States, indexed by StateID, plus the 256-entry
// equivalence map installed by InstallEquivalenceMap (identity until
// then).
type DFA struct {
	states   []State
	EquivMap [256]byte
	MaxChar  int
}

// New returns a DFA containing only the error state at id 0, with an
// identity equivalence map over the full byte alphabet.
func New() *DFA {
	d := &DFA{MaxChar: charset.AlphabetSize - 1}
	d.states = append(d.states, State{Result: 0, DeadEnd: true})
	for i := range d.EquivMap {
		d.EquivMap[i] = byte(i)
	}
	return d
}

func (d *DFA) newRawState() StateID {
	id := StateID(len(d.states))
	d.states = append(d.states, State{})
	return id
}

// NumStates returns the number of allocated states, live or not.
func (d *DFA) NumStates() int { return len(d.states) }

// State returns a pointer to the state with the given id. As with the
// nfa package, the pointer is invalidated by any later state allocation.
func (d *DFA) State(id StateID) *State { return &d.states[id] }

// Step follows the transition for char c out of id, falling back to the
// state's default target when c has no explicit entry.
func (d *DFA) Step(id StateID, c uint32) StateID {
	st := &d.states[id]
	if to, ok := st.Trans[c]; ok {
		return to
	}
	return st.Default
}

// AllStateIDs returns every state reachable from the initial state, with
// the error state always included first, in breadth-first order.
func (d *DFA) AllStateIDs() []StateID {
	seen := map[StateID]bool{ErrorState: true, InitialState: true}
	order := []StateID{ErrorState, InitialState}
	queue := []StateID{InitialState}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		st := &d.states[id]
		next := map[StateID]bool{st.Default: true}
		for _, to := range st.Trans {
			next[to] = true
		}
		for to := range next {
			if !seen[to] {
				seen[to] = true
				order = append(order, to)
				queue = append(queue, to)
			}
		}
	}
	return order
}

// FindMaxChar returns the largest character index carrying any explicit
// (non-default) edge across every reachable state.
func (d *DFA) FindMaxChar() int {
	max := -1
	for _, id := range d.AllStateIDs() {
		for c := range d.states[id].Trans {
			if int(c) > max {
				max = int(c)
			}
		}
	}
	if max < 0 {
		max = 0
	}
	return max
}

// FlagDeadEnds sets DeadEnd on every reachable state whose every outgoing
// edge within [0, maxChar], explicit or default, targets itself.
func (d *DFA) FlagDeadEnds(maxChar int) {
	for _, id := range d.AllStateIDs() {
		st := &d.states[id]
		allSelf := true
		for c := 0; c <= maxChar; c++ {
			to, ok := st.Trans[uint32(c)]
			if !ok {
				to = st.Default
			}
			if to != id {
				allSelf = false
				break
			}
		}
		st.DeadEnd = allSelf
	}
}

// MatchFull runs input from the initial state and returns the final
// state's result, short-circuiting on a dead end. It is the spec's
// single-step interpreter used for testing and for cross-checking the
// serialized program, not the production matcher's entry point.
func (d *DFA) MatchFull(input []byte) uint32 {
	cur := InitialState
	for _, b := range input {
		cls := uint32(d.EquivMap[b])
		cur = d.Step(cur, cls)
		if d.states[cur].DeadEnd {
			break
		}
	}
	return d.states[cur].Result
}

// InstallEquivalenceMap collapses the byte alphabet into equivalence
// classes: two bytes share a class iff every reachable state's transition
// on one equals its transition on the other. Transitions are remapped to
// use class indices and EquivMap/MaxChar are updated accordingly.
//
// The straightforward O(classes*states) fate comparison below is the
// same incremental dedup-by-comparison idiom the original's
// makeEquivalenceMap uses (it reuses an earlier class's fate vector when
// a new byte matches it instead of hashing), kept here as a plain slice
// of representative fate vectors scanned in order.
func (d *DFA) InstallEquivalenceMap() {
	ids := d.AllStateIDs()
	maxChar := d.FindMaxChar()

	fateOf := func(c int) []StateID {
		f := make([]StateID, len(ids))
		for i, id := range ids {
			f[i] = d.Step(id, uint32(c))
		}
		return f
	}
	sameFate := func(a, b []StateID) bool {
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}

	var reps [][]StateID
	classOf := make([]byte, maxChar+1)
	for c := 0; c <= maxChar; c++ {
		f := fateOf(c)
		found := -1
		for ci, rf := range reps {
			if sameFate(f, rf) {
				found = ci
				break
			}
		}
		if found == -1 {
			found = len(reps)
			reps = append(reps, f)
		}
		classOf[c] = byte(found)
	}

	defFate := make([]StateID, len(ids))
	for i, id := range ids {
		defFate[i] = d.states[id].Default
	}
	defClass := -1
	for ci, rf := range reps {
		if sameFate(defFate, rf) {
			defClass = ci
			break
		}
	}
	if defClass == -1 {
		defClass = len(reps)
		reps = append(reps, defFate)
	}

	var equivMap [256]byte
	for c := 0; c < charset.AlphabetSize; c++ {
		if c <= maxChar {
			equivMap[c] = classOf[c]
		} else {
			equivMap[c] = byte(defClass)
		}
	}

	for _, id := range ids {
		st := &d.states[id]
		newTrans := make(map[uint32]StateID, len(st.Trans))
		for c, to := range st.Trans {
			newTrans[uint32(equivMap[c])] = to
		}
		st.Trans = newTrans
	}
	d.EquivMap = equivMap
	d.MaxChar = len(reps) - 1
}

// Transcribe compacts the arena down to only reachable states, preserving
// the error=0/initial=1 convention.
func (d *DFA) Transcribe() *DFA {
	ids := d.AllStateIDs()
	remap := make(map[StateID]StateID, len(ids))
	for newID, old := range ids {
		remap[old] = StateID(newID)
	}
	nd := &DFA{EquivMap: d.EquivMap, MaxChar: d.MaxChar}
	nd.states = make([]State, len(ids))
	for newID, old := range ids {
		st := d.states[old]
		newTrans := make(map[uint32]StateID, len(st.Trans))
		for c, to := range st.Trans {
			newTrans[c] = remap[to]
		}
		nd.states[newID] = State{
			Result:  st.Result,
			DeadEnd: st.DeadEnd,
			Trans:   newTrans,
			Default: remap[st.Default],
		}
	}
	return nd
}
