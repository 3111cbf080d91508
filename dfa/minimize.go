package dfa

import "github.com/zezax/red/bitset"

type invKey struct {
	target StateID
	char   uint32
}

type workItem struct {
	block int
	char  uint32
}

// Minimize reduces d to an equivalent DFA with the fewest possible
// states, using Gries' adaptation of Hopcroft's partition-refinement
// algorithm: states start partitioned by result value, and the worklist
// repeatedly splits blocks whose members disagree on where a given
// character's preimage lands them.
//
// d must already have dead ends flagged and its equivalence map
// installed; Minimize operates over class indices, not raw bytes.
func Minimize(d *DFA) (*DFA, error) {
	ids := d.AllStateIDs()
	numChars := d.MaxChar + 1

	inv := buildInverse(d, ids, numChars)
	blockOf, blocks := initialPartition(d, ids)
	worklist := seedWorklist(blocks, numChars)

	blocks = refine(blockOf, blocks, inv, worklist, numChars)

	nd := makeDfaFromBlocks(d, ids, blockOf, blocks, numChars)
	nd.FlagDeadEnds(nd.MaxChar)
	return nd.Transcribe(), nil
}

// buildInverse maps (target,char) to the set of states transitioning to
// target on char, across every reachable state including their default
// targets (recorded for every character, since a default edge fires on
// any character lacking an explicit entry).
func buildInverse(d *DFA, ids []StateID, numChars int) map[invKey]*bitset.Set {
	inv := make(map[invKey]*bitset.Set)
	add := func(target StateID, ch uint32, src StateID) {
		k := invKey{target, ch}
		s := inv[k]
		if s == nil {
			s = &bitset.Set{}
			inv[k] = s
		}
		s.Set(bitset.Index(src))
	}
	for _, id := range ids {
		st := &d.states[id]
		for c := 0; c < numChars; c++ {
			to, ok := st.Trans[uint32(c)]
			if !ok {
				to = st.Default
			}
			add(to, uint32(c), id)
		}
	}
	return inv
}

// initialPartition groups states by result value. Block 0 always holds
// every result-0 state, including the error state; other results get
// blocks in first-encountered order among the reachable states.
func initialPartition(d *DFA, ids []StateID) ([]int, [][]StateID) {
	blockOf := make([]int, len(d.states))
	resultBlock := map[uint32]int{0: 0}
	blocks := [][]StateID{{}}

	for _, id := range ids {
		r := d.states[id].Result
		b, ok := resultBlock[r]
		if !ok {
			b = len(blocks)
			resultBlock[r] = b
			blocks = append(blocks, nil)
		}
		blocks[b] = append(blocks[b], id)
		blockOf[id] = b
	}
	return blockOf, blocks
}

// seedWorklist primes the refinement queue with (block,char) pairs for
// whichever side, block 0 or the rest, has fewer entries — the standard
// Hopcroft optimization that keeps the worklist from ever holding both a
// block and its complement for the same character.
func seedWorklist(blocks [][]StateID, numChars int) []workItem {
	otherCount := 0
	for b := 1; b < len(blocks); b++ {
		otherCount += len(blocks[b])
	}
	useBlockZero := len(blocks[0]) <= otherCount

	var items []workItem
	if useBlockZero {
		for c := 0; c < numChars; c++ {
			items = append(items, workItem{0, uint32(c)})
		}
	} else {
		for b := 1; b < len(blocks); b++ {
			for c := 0; c < numChars; c++ {
				items = append(items, workItem{b, uint32(c)})
			}
		}
	}
	return items
}

func refine(blockOf []int, blocks [][]StateID, inv map[invKey]*bitset.Set, worklist []workItem, numChars int) [][]StateID {
	queued := make(map[workItem]bool, len(worklist))
	for _, w := range worklist {
		queued[w] = true
	}

	pop := func() (workItem, bool) {
		if len(worklist) == 0 {
			return workItem{}, false
		}
		w := worklist[0]
		worklist = worklist[1:]
		queued[w] = false
		return w, true
	}
	push := func(w workItem) {
		if !queued[w] {
			queued[w] = true
			worklist = append(worklist, w)
		}
	}

	for {
		w, ok := pop()
		if !ok {
			break
		}
		X := preimageOfBlock(blocks[w.block], inv, w.char)
		if X == nil || X.Population() == 0 {
			continue
		}

		numBlocks := len(blocks)
		for y := 0; y < numBlocks; y++ {
			members := blocks[y]
			if len(members) == 0 {
				continue
			}
			var inX, notInX []StateID
			for _, s := range members {
				if X.Get(bitset.Index(s)) {
					inX = append(inX, s)
				} else {
					notInX = append(notInX, s)
				}
			}
			if len(inX) == 0 || len(notInX) == 0 {
				continue // Y is already a subset of X or disjoint from X
			}

			newIdx := len(blocks)
			blocks[y] = inX
			blocks = append(blocks, notInX)
			for _, s := range notInX {
				blockOf[s] = newIdx
			}

			for c := 0; c < numChars; c++ {
				yc := workItem{y, uint32(c)}
				if queued[yc] {
					push(workItem{newIdx, uint32(c)})
				} else if len(inX) <= len(notInX) {
					push(yc)
				} else {
					push(workItem{newIdx, uint32(c)})
				}
			}
		}
	}
	return blocks
}

func preimageOfBlock(members []StateID, inv map[invKey]*bitset.Set, ch uint32) *bitset.Set {
	var out *bitset.Set
	for _, m := range members {
		s := inv[invKey{m, ch}]
		if s == nil {
			continue
		}
		if out == nil {
			out = s.Clone()
		} else {
			out.UnionWith(s)
		}
	}
	return out
}

func indexOfBlockRep(blocks [][]StateID, b int) StateID {
	if len(blocks[b]) == 0 {
		return ErrorState
	}
	return blocks[b][0]
}

// makeDfaFromBlocks renumbers blocks into a fresh arena, keeping the
// error block at id 0 and the initial state's block at id 1. Every
// member of a block shares the same transitions by construction, so any
// representative's edges, remapped through the block assignment, serve
// for the whole block.
func makeDfaFromBlocks(d *DFA, ids []StateID, blockOf []int, blocks [][]StateID, numChars int) *DFA {
	errBlock := blockOf[ErrorState]
	initBlock := blockOf[InitialState]

	order := make([]int, 0, len(blocks))
	order = append(order, errBlock)
	if initBlock != errBlock {
		order = append(order, initBlock)
	}
	for b := range blocks {
		if len(blocks[b]) == 0 || b == errBlock || b == initBlock {
			continue
		}
		order = append(order, b)
	}

	newIDOf := make(map[int]StateID, len(order))
	for newID, b := range order {
		newIDOf[b] = StateID(newID)
	}

	nd := &DFA{EquivMap: d.EquivMap, MaxChar: d.MaxChar}
	nd.states = make([]State, len(order))
	for newID, b := range order {
		rep := indexOfBlockRep(blocks, b)
		st := &d.states[rep]
		trans := make(map[uint32]StateID, len(st.Trans))
		for c, to := range st.Trans {
			trans[c] = newIDOf[blockOf[to]]
		}
		nd.states[newID] = State{
			Result:  st.Result,
			Trans:   trans,
			Default: newIDOf[blockOf[st.Default]],
		}
	}
	return nd
}
