package dfa

import (
	"sort"

	"github.com/zezax/red/bitset"
	"github.com/zezax/red/charset"
)

// buildBasis computes a disjoint character basis from the MultiChars used
// by an NFA's transitions: groups them by population, and for each
// population class, subtracts the union of every strictly smaller class
// and keeps each non-empty remainder. That first pass can still leave
// overlapping elements (two sets of equal population, or a smaller set
// that is not nested inside a larger one), so a final pass splits every
// element against every input set. The result is pairwise disjoint, and
// every input set is an exact union of basis elements.
func buildBasis(multiChars []*charset.MultiChar) []*charset.MultiChar {
	unique := dedupe(multiChars)

	byPop := make(map[int][]*charset.MultiChar)
	for _, m := range unique {
		p := m.Population()
		byPop[p] = append(byPop[p], m)
	}
	pops := make([]int, 0, len(byPop))
	for p := range byPop {
		pops = append(pops, p)
	}
	sort.Ints(pops)

	var basis []*charset.MultiChar
	lowerUnion := &bitset.Set{}
	for _, p := range pops {
		members := byPop[p]
		groupUnion := &bitset.Set{}
		for _, m := range members {
			groupUnion.UnionWith(m)
		}
		for _, m := range members {
			diff := m.Clone()
			diff.Subtract(lowerUnion)
			if diff.Population() > 0 && !containsEqual(basis, diff) {
				basis = append(basis, diff)
			}
		}
		lowerUnion.UnionWith(groupUnion)
	}
	// Split elements until the basis is pairwise disjoint and every
	// input set is an exact union of basis elements.
	for _, m := range unique {
		var next []*charset.MultiChar
		for _, b := range basis {
			in, out := b.Clone(), b.Clone()
			in.IntersectWith(m)
			out.Subtract(m)
			for _, part := range []*charset.MultiChar{in, out} {
				if part.Population() > 0 && !containsEqual(next, part) {
					next = append(next, part)
				}
			}
		}
		basis = next
	}
	return basis
}

func dedupe(sets []*charset.MultiChar) []*charset.MultiChar {
	var out []*charset.MultiChar
	for _, s := range sets {
		if !containsEqual(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func containsEqual(sets []*charset.MultiChar, s *charset.MultiChar) bool {
	for _, o := range sets {
		if o.Equal(s) {
			return true
		}
	}
	return false
}
