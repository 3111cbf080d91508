package nfa

import (
	"testing"

	"github.com/zezax/red/budget"
	"github.com/zezax/red/charset"
)

// simRun is a tiny NFA interpreter used only to cross-check the
// construction primitives below: it tracks the set of live states and
// reports whether any of them is accepting once input is exhausted.
func simRun(n *NFA, start StateID, input []byte) uint32 {
	live := map[StateID]bool{start: true}
	for _, b := range input {
		next := map[StateID]bool{}
		for id := range live {
			for _, t := range n.states[id].Trans {
				if t.Chars.Get(uint32(b)) {
					next[t.Next] = true
				}
			}
		}
		live = next
		if len(live) == 0 {
			return 0
		}
	}
	var best uint32
	for id := range live {
		if r := n.states[id].Result; r > best {
			best = r
		}
	}
	return best
}

func literal(b *Builder, s string) StateID {
	var cur StateID
	have := false
	for i := 0; i < len(s); i++ {
		start := b.NewState(false)
		target := b.NewState(true)
		b.nfa.states[start].Trans = append(b.nfa.states[start].Trans,
			Transition{Chars: charset.Byte(s[i]), Next: target})
		if !have {
			cur = start
			have = true
		} else {
			cur = b.Concat(cur, start)
		}
	}
	return cur
}

func TestConcatMatchesSequence(t *testing.T) {
	b := NewBuilder(budget.Default())
	b.Goal = 1
	ab := literal(b, "ab")

	if simRun(b.nfa, ab, []byte("ab")) != 1 {
		t.Fatalf("expected \"ab\" to match")
	}
	if simRun(b.nfa, ab, []byte("a")) != 0 {
		t.Fatalf("expected \"a\" alone not to match")
	}
	if simRun(b.nfa, ab, []byte("abc")) != 0 {
		t.Fatalf("expected \"abc\" not to match (no trailing wildcard)")
	}
}

func TestKleeneStarAllowsRepeatsAndEmpty(t *testing.T) {
	b := NewBuilder(budget.Default())
	b.Goal = 1
	a := literal(b, "a")
	star := b.KleeneStar(a)

	for _, s := range []string{"", "a", "aa", "aaaa"} {
		if simRun(b.nfa, star, []byte(s)) != 1 {
			t.Fatalf("expected %q to match a*", s)
		}
	}
	if simRun(b.nfa, star, []byte("b")) != 0 {
		t.Fatalf("expected \"b\" not to match a*")
	}
}

// TestSelfLoopSurvivesConcat is the case that rules out rewriting
// Concat as transition-redirection instead of grafting: "a*b" must
// still accept "b" via zero repeats of "a", and also "aab".
func TestSelfLoopSurvivesConcat(t *testing.T) {
	b := NewBuilder(budget.Default())
	b.Goal = 1
	a := literal(b, "a")
	aStar := b.KleeneStar(a)
	bLit := literal(b, "b")
	aStarB := b.Concat(aStar, bLit)

	for _, s := range []string{"b", "ab", "aab", "aaab"} {
		if simRun(b.nfa, aStarB, []byte(s)) != 1 {
			t.Fatalf("expected %q to match a*b", s)
		}
	}
	if simRun(b.nfa, aStarB, []byte("aa")) != 0 {
		t.Fatalf("expected \"aa\" not to match a*b (missing trailing b)")
	}
}

func TestUnionMatchesEither(t *testing.T) {
	b := NewBuilder(budget.Default())
	b.Goal = 1
	cat := literal(b, "cat")
	b.Goal = 2
	dog := literal(b, "dog")
	either := b.Union(cat, dog)

	if got := simRun(b.nfa, either, []byte("cat")); got != 1 {
		t.Fatalf("expected \"cat\" to report result 1, got %d", got)
	}
	if got := simRun(b.nfa, either, []byte("dog")); got != 2 {
		t.Fatalf("expected \"dog\" to report result 2, got %d", got)
	}
	if simRun(b.nfa, either, []byte("fox")) != 0 {
		t.Fatalf("expected \"fox\" not to match")
	}
}

func TestClosureBounds(t *testing.T) {
	b := NewBuilder(budget.Default())
	b.Goal = 1
	a := literal(b, "a")
	c := b.Closure(a, 2, 3)

	for _, s := range []string{"a", "aaaa"} {
		if simRun(b.nfa, c, []byte(s)) != 0 {
			t.Fatalf("expected %q not to match a{2,3}", s)
		}
	}
	for _, s := range []string{"aa", "aaa"} {
		if simRun(b.nfa, c, []byte(s)) != 1 {
			t.Fatalf("expected %q to match a{2,3}", s)
		}
	}
}

func TestDropUselessTransitionsKeepsLanguage(t *testing.T) {
	b := NewBuilder(budget.Default())
	b.Goal = 1
	ab := literal(b, "ab")
	b.DropUselessTransitions(ab)

	if simRun(b.nfa, ab, []byte("ab")) != 1 {
		t.Fatalf("expected \"ab\" to still match after pruning")
	}
}
