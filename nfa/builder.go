package nfa

import (
	"github.com/zezax/red/budget"
	"github.com/zezax/red/charset"
	"github.com/zezax/red/rerr"
)

// Builder wraps an NFA arena with the transient state a single pattern
// assembly needs: the "goal" result being assigned to newly-accepting
// states, and a budget limiting total allocation. One Builder is shared
// across every pattern added to a compilation; each call to Parser.Add
// sets Goal for the duration of that pattern's construction.
type Builder struct {
	nfa    *NFA
	Goal   uint32
	budget budget.Budget
}

// NewBuilder returns a Builder over a fresh empty arena.
func NewBuilder(b budget.Budget) *Builder {
	return &Builder{nfa: New(), budget: b}
}

// NFA returns the underlying arena.
func (b *Builder) NFA() *NFA { return b.nfa }

// Budget returns the resource budget this Builder was constructed with.
func (b *Builder) Budget() budget.Budget { return b.budget }

// CheckBudget reports a Limit error if the arena has grown past the
// configured state budget. Called once per pattern add rather than per
// allocation, since the individual construction primitives below never
// fail on their own.
func (b *Builder) CheckBudget() error {
	if !b.budget.AllowStates(b.nfa.NumStates()) {
		return rerr.Newf(rerr.KindLimit, "nfa exceeded state budget (%d states)", b.nfa.NumStates())
	}
	return nil
}

// NewState allocates a state carrying the builder's current goal result,
// or a non-accepting state if accepting is false.
func (b *Builder) NewState(accepting bool) StateID {
	if accepting {
		return b.nfa.NewState(b.Goal)
	}
	return b.nfa.NewState(0)
}

// Union merges y's transitions into x. If x was non-accepting and y was
// accepting, x inherits y's result.
func (b *Builder) Union(x, y StateID) StateID {
	ys := b.nfa.states[y]
	xs := &b.nfa.states[x]
	xs.Trans = append(xs.Trans, cloneTransitions(ys.Trans)...)
	if xs.Result == 0 && ys.Result > 0 {
		xs.Result = ys.Result
	}
	return x
}

// Concat appends y after x: every accepting state reachable from x gains
// a copy of y's start transitions, and its result is replaced by y's
// start result (0 if y's start is non-accepting, since acceptance is now
// deferred into y). Non-accepting interior states of x, and accepting
// states of x that also have their own further transitions, are left
// otherwise untouched — concatenation grafts, it never deletes a path.
func (b *Builder) Concat(x, y StateID) StateID {
	accs := b.nfa.ReachableAccepting(x)
	yStart := b.nfa.states[y]
	yTrans := cloneTransitions(yStart.Trans)
	yResult := yStart.Result
	for _, a := range accs {
		as := &b.nfa.states[a]
		as.Trans = append(as.Trans, cloneTransitions(yTrans)...)
		as.Result = yResult
	}
	return x
}

// Optional marks x accepting with the builder's current goal result,
// leaving its transitions untouched (so the empty match and any existing
// continuation both remain possible).
func (b *Builder) Optional(x StateID) StateID {
	b.nfa.states[x].Result = b.Goal
	return x
}

// KleeneStar allows x to repeat zero or more times: every accepting state
// reachable from x gains a copy of x's own start transitions (so
// accepting and continuing are both live options), then x itself is
// marked accepting to allow zero repetitions.
func (b *Builder) KleeneStar(x StateID) StateID {
	accs := b.nfa.ReachableAccepting(x)
	xStart := cloneTransitions(b.nfa.states[x].Trans)
	for _, a := range accs {
		as := &b.nfa.states[a]
		as.Trans = append(as.Trans, cloneTransitions(xStart)...)
	}
	return b.Optional(x)
}

// DeepCopy clones the entire subgraph reachable from x with fresh ids,
// preserving cycles via an old-id to new-id map.
func (b *Builder) DeepCopy(x StateID) StateID {
	mapping := make(map[StateID]StateID)
	var recurse func(old StateID) StateID
	recurse = func(old StateID) StateID {
		if nid, ok := mapping[old]; ok {
			return nid
		}
		result := b.nfa.states[old].Result
		oldTrans := b.nfa.states[old].Trans
		nid := b.nfa.NewState(result)
		mapping[old] = nid
		newTrans := make([]Transition, len(oldTrans))
		for i, t := range oldTrans {
			newTrans[i] = Transition{Chars: t.Chars, Next: recurse(t.Next)}
		}
		b.nfa.states[nid].Trans = newTrans
		return nid
	}
	return recurse(x)
}

// Closure repeats x between min and max times inclusive; max == -1 means
// unbounded. {0,-1} is exactly KleeneStar.
func (b *Builder) Closure(x StateID, min, max int) StateID {
	if min == 0 && max == -1 {
		return b.KleeneStar(x)
	}

	var result StateID
	have := false
	chain := func(part StateID) {
		if !have {
			result = part
			have = true
			return
		}
		result = b.Concat(result, part)
	}

	for i := 0; i < min; i++ {
		chain(b.DeepCopy(x))
	}
	switch {
	case max == -1:
		chain(b.KleeneStar(b.DeepCopy(x)))
	default:
		for i := 0; i < max-min; i++ {
			chain(b.Optional(b.DeepCopy(x)))
		}
	}
	if !have {
		// min == 0 && max == 0: matches only the empty string.
		result = b.NewState(true)
	}
	return result
}

// IgnoreCase case-folds every transition reachable from x in place: any
// set containing an ASCII letter gains its opposite-case peer.
func (b *Builder) IgnoreCase(x StateID) StateID {
	for _, id := range b.nfa.Reachable(x) {
		st := &b.nfa.states[id]
		for i := range st.Trans {
			st.Trans[i].Chars = charset.CaseFold(st.Trans[i].Chars)
		}
	}
	return x
}

// Wildcard returns a single self-looping state accepting any sequence of
// bytes, used for ".*" in the loose-start/loose-end heuristics. A ".*"
// written in a pattern goes through the ordinary Closure path instead.
func (b *Builder) Wildcard() StateID {
	s := b.NewState(true)
	b.nfa.states[s].Trans = append(b.nfa.states[s].Trans, Transition{Chars: charset.All(), Next: s})
	return s
}

// EndMark returns the two-state chain that records a match of result:
// a non-accepting entry state with a single edge labelled by the
// synthetic end-mark symbol into a fresh accepting state.
func (b *Builder) EndMark(result uint32) StateID {
	start := b.nfa.NewState(0)
	end := b.nfa.NewState(result)
	b.nfa.states[start].Trans = append(b.nfa.states[start].Trans, Transition{Chars: charset.EndMark(result), Next: end})
	return start
}

// DropUselessTransitions removes states with no result and no outgoing
// transitions (other than start itself) from the subgraph reachable from
// start, pruning the dangling edges that pointed to them, and merges
// transitions that share a target into one entry with the unioned
// character set.
func (b *Builder) DropUselessTransitions(start StateID) {
	n := b.nfa
	for {
		useless := make(map[StateID]bool)
		for _, id := range n.Reachable(start) {
			st := &n.states[id]
			if id != start && st.Result == 0 && len(st.Trans) == 0 {
				useless[id] = true
			}
		}
		if len(useless) == 0 {
			break
		}
		changed := false
		for _, id := range n.Reachable(start) {
			st := &n.states[id]
			kept := st.Trans[:0]
			for _, t := range st.Trans {
				if useless[t.Next] {
					changed = true
					continue
				}
				kept = append(kept, t)
			}
			st.Trans = kept
		}
		if !changed {
			break
		}
	}

	for _, id := range n.Reachable(start) {
		st := &n.states[id]
		if len(st.Trans) < 2 {
			continue
		}
		order := make([]StateID, 0, len(st.Trans))
		merged := make(map[StateID]*charset.MultiChar, len(st.Trans))
		for _, t := range st.Trans {
			if existing, ok := merged[t.Next]; ok {
				existing.UnionWith(t.Chars)
			} else {
				merged[t.Next] = t.Chars.Clone()
				order = append(order, t.Next)
			}
		}
		newTrans := make([]Transition, 0, len(order))
		for _, next := range order {
			newTrans = append(newTrans, Transition{Chars: merged[next], Next: next})
		}
		st.Trans = newTrans
	}
}
