// Package nfa implements the ε-free NFA arena the parser builds and the
// powerset stage consumes: states carry an outgoing set of
// character-set-labelled transitions, a "result" marking acceptance, and
// no epsilon edges at all. Concatenation, union, and closure are built by
// grafting transitions across states rather than by threading epsilon
// edges between them, the way the original library's NfaObj does.
//
// The arena shape (an id-newtype, a reserved zero id, a flat []State
// backing array) follows the teacher's nfa.NFA arena; the state shape
// itself does not, since the teacher's states carry ε/split/capture kinds
// this package has no use for.
package nfa

import (
	"fmt"

	"github.com/zezax/red/charset"
)

// StateID indexes into an NFA's state arena. The zero value, InvalidState,
// is reserved and never assigned to a live state.
type StateID uint32

// InvalidState is the reserved, never-allocated id 0.
const InvalidState StateID = 0

func (id StateID) String() string {
	return fmt.Sprintf("n%d", uint32(id))
}

// Transition is a single labelled edge: consuming any character in Chars
// moves to Next.
type Transition struct {
	Chars *charset.MultiChar
	Next  StateID
}

// State is one NFA node: a result (0 means non-accepting) and its
// outgoing transitions.
type State struct {
	Result uint32
	Trans  []Transition
}

// Accepts reports whether the state is accepting.
func (s *State) Accepts() bool { return s.Result > 0 }

// NFA is an arena of States. Id 0 is reserved; it is never returned by
// NewState and never a valid operand.
type NFA struct {
	states []State
}

// New returns an empty arena with the reserved id 0 occupied by a
// placeholder state.
func New() *NFA {
	return &NFA{states: make([]State, 1)}
}

// NewState allocates a fresh state with the given result and returns its id.
func (n *NFA) NewState(result uint32) StateID {
	id := StateID(len(n.states))
	n.states = append(n.states, State{Result: result})
	return id
}

// NumStates returns the number of allocated states, including the
// reserved id 0.
func (n *NFA) NumStates() int { return len(n.states) }

// State returns a pointer to the state with the given id. The returned
// pointer is invalidated by any subsequent NewState call; callers that
// need to survive further allocation should copy fields out first.
func (n *NFA) State(id StateID) *State { return &n.states[id] }

// Reachable performs a BFS from start and returns every reachable state
// id, including start, each exactly once, in visitation order.
func (n *NFA) Reachable(start StateID) []StateID {
	seen := map[StateID]bool{start: true}
	order := []StateID{start}
	queue := []StateID{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, t := range n.states[id].Trans {
			if !seen[t.Next] {
				seen[t.Next] = true
				order = append(order, t.Next)
				queue = append(queue, t.Next)
			}
		}
	}
	return order
}

// ReachableAccepting is Reachable filtered to accepting states.
func (n *NFA) ReachableAccepting(start StateID) []StateID {
	var out []StateID
	for _, id := range n.Reachable(start) {
		if n.states[id].Accepts() {
			out = append(out, id)
		}
	}
	return out
}

// AllMultiChars returns every transition label reachable from start, one
// entry per transition (duplicates included; callers that need a
// deduplicated basis build it themselves, see the dfa package's powerset
// conversion).
func (n *NFA) AllMultiChars(start StateID) []*charset.MultiChar {
	var out []*charset.MultiChar
	for _, id := range n.Reachable(start) {
		for _, t := range n.states[id].Trans {
			out = append(out, t.Chars)
		}
	}
	return out
}

// HasAccept reports whether any state in ids is accepting.
func (n *NFA) HasAccept(ids []StateID) bool {
	for _, id := range ids {
		if n.states[id].Accepts() {
			return true
		}
	}
	return false
}

func cloneTransitions(ts []Transition) []Transition {
	out := make([]Transition, len(ts))
	copy(out, ts)
	return out
}
