package dfa

import (
	"testing"

	"github.com/zezax/red/budget"
	"github.com/zezax/red/resyn"
)

// buildDFA runs the parser and powerset stages and prepares the result
// the way Builder.Build does before handing it to Minimize: dead ends
// flagged and the equivalence map installed.
func buildDFA(t *testing.T, patterns map[string]uint32) *DFA {
	t.Helper()
	p := resyn.NewParser(budget.Default())
	for pat, result := range patterns {
		if err := p.Add([]byte(pat), result, 0); err != nil {
			t.Fatalf("Add(%q) error: %v", pat, err)
		}
	}
	n, start, err := p.Finish()
	if err != nil {
		t.Fatalf("Finish error: %v", err)
	}
	d, err := Convert(n, start, p.Budget())
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	d.FlagDeadEnds(d.FindMaxChar())
	d.InstallEquivalenceMap()
	return d
}

func TestMinimizePreservesLanguage(t *testing.T) {
	d := buildDFA(t, map[string]uint32{"cat": 1, "dog": 2, "bird": 3})
	md, err := Minimize(d)
	if err != nil {
		t.Fatalf("Minimize error: %v", err)
	}

	inputs := []string{"cat", "dog", "bird", "fox", "", "ca", "catdog", "birdbird"}
	for _, in := range inputs {
		if got, want := md.MatchFull([]byte(in)), d.MatchFull([]byte(in)); got != want {
			t.Fatalf("minimized result for %q = %d, want %d (pre-minimization result)", in, got, want)
		}
	}
}

func TestMinimizeMergesSharedSuffix(t *testing.T) {
	// "xcat" and "ycat" share the entire suffix "cat" after their first
	// byte, so a minimal DFA should collapse those suffix states rather
	// than keep two parallel chains.
	d := buildDFA(t, map[string]uint32{"xcat": 1, "ycat": 1})
	md, err := Minimize(d)
	if err != nil {
		t.Fatalf("Minimize error: %v", err)
	}
	if md.NumStates() >= d.NumStates() {
		t.Fatalf("minimized state count %d did not shrink below pre-minimization count %d",
			md.NumStates(), d.NumStates())
	}
	for _, in := range []string{"xcat", "ycat"} {
		if got := md.MatchFull([]byte(in)); got != 1 {
			t.Fatalf("MatchFull(%q) = %d, want 1", in, got)
		}
	}
	if got := md.MatchFull([]byte("zcat")); got != 0 {
		t.Fatalf("MatchFull(\"zcat\") = %d, want 0", got)
	}
}

func TestMinimizeIsIdempotent(t *testing.T) {
	d := buildDFA(t, map[string]uint32{"a+b": 1, "a+c": 2})
	once, err := Minimize(d)
	if err != nil {
		t.Fatalf("first Minimize error: %v", err)
	}

	twice, err := Minimize(once)
	if err != nil {
		t.Fatalf("second Minimize error: %v", err)
	}
	if twice.NumStates() != once.NumStates() {
		t.Fatalf("minimizing an already-minimal DFA changed state count: %d vs %d",
			once.NumStates(), twice.NumStates())
	}
	for _, in := range []string{"ab", "aab", "aaab", "ac", "aac", "a", "b"} {
		if got, want := twice.MatchFull([]byte(in)), once.MatchFull([]byte(in)); got != want {
			t.Fatalf("MatchFull(%q) changed across a second minimization: %d vs %d", in, got, want)
		}
	}
}
