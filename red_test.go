package red

import (
	"testing"

	"github.com/zezax/red/match"
)

func TestCompileSinglePattern(t *testing.T) {
	re, err := Compile(`\d+`, 0, DefaultBudget())
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if got := re.Check([]byte("123 order"), Tangent); got != 1 {
		t.Fatalf("Check = %d, want 1", got)
	}
	if got := re.Check([]byte("order"), Full); got != 0 {
		t.Fatalf("Check(Full) on non-digit input = %d, want 0", got)
	}
}

func TestMustCompilePanicsOnBadPattern(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected MustCompile to panic on an unbalanced pattern")
		}
	}()
	MustCompile("(ab", 0)
}

func TestCompileAutoInfersAnchors(t *testing.T) {
	re, err := CompileAuto(`^cat$`, DefaultBudget())
	if err != nil {
		t.Fatalf("CompileAuto error: %v", err)
	}
	if re.Check([]byte("cat"), Full) != 1 {
		t.Fatalf("expected \"cat\" to match ^cat$")
	}
	if re.Check([]byte("xcatx"), Full) != 0 {
		t.Fatalf("expected \"xcatx\" not to match ^cat$")
	}
}

func TestBuilderMultiplePatterns(t *testing.T) {
	b := NewBuilder(DefaultBudget())
	if err := b.Add("cat", 1, 0); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if err := b.Add("dog", 2, 0); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	re, err := b.Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if got := re.Check([]byte("cat"), Full); got != 1 {
		t.Fatalf("Check(\"cat\") = %d, want 1", got)
	}
	if got := re.Check([]byte("dog"), Full); got != 2 {
		t.Fatalf("Check(\"dog\") = %d, want 2", got)
	}
}

// TestBuilderMultiLeaderSkipsNonMatchingRegion confirms a multi-pattern
// Builder build actually exercises the Aho-Corasick prefilter wired
// into Build rather than only ever walking every anchor: neither "cat"
// nor "dog" starts anywhere in the prefix "xyz ", so a prefilter bug
// that skipped too much (or too little) would show up as a wrong
// Start here, not just a slower scan.
func TestBuilderMultiLeaderSkipsNonMatchingRegion(t *testing.T) {
	b := NewBuilder(DefaultBudget())
	if err := b.Add("cat", 1, 0); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if err := b.Add("dog", 2, 0); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	re, err := b.Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	mt := re.Search([]byte("xyz dog runs"), Tangent)
	if mt.Result != 2 || mt.Start != 4 {
		t.Fatalf("Search = %+v, want Result=2, Start=4", mt)
	}
	if got := re.Search([]byte("no animals here"), Tangent); got.Ok() {
		t.Fatalf("Search = %+v, want no match", got)
	}
}

func TestEndToEndScenarios(t *testing.T) {
	t.Run("scenario 1", func(t *testing.T) {
		re := mustBuild(t, map[string]uint32{"ab*c": 1})
		if got := re.Check([]byte("abbbc"), Full); got != 1 {
			t.Fatalf("got %d, want 1", got)
		}
	})
	t.Run("scenario 2", func(t *testing.T) {
		re := mustBuild(t, map[string]uint32{"ab*c": 1, "ca*b": 2})
		if got := re.Check([]byte("bca"), Full); got != 0 {
			t.Fatalf("got %d, want 0", got)
		}
	})
	t.Run("scenario 3", func(t *testing.T) {
		re := mustBuild(t, map[string]uint32{"ab*c": 1, "ca*b": 2})
		if got := re.Check([]byte("cab"), Full); got != 2 {
			t.Fatalf("got %d, want 2", got)
		}
	})
	t.Run("scenario 4", func(t *testing.T) {
		re := mustBuild(t, map[string]uint32{"a": 1, "aa": 2, "aaa": 3})
		if got := re.Check([]byte("aaa"), Full); got != 3 {
			t.Fatalf("got %d, want 3", got)
		}
	})
	t.Run("scenario 5", func(t *testing.T) {
		re := mustBuild(t, map[string]uint32{"a": 1, "aa": 2, "aaa": 3})
		if got := re.Check([]byte("aaaa"), Full); got != 0 {
			t.Fatalf("got %d, want 0", got)
		}
	})
	t.Run("scenario 6", func(t *testing.T) {
		re := mustBuild(t, map[string]uint32{"[0-9]+": 1})
		mt := re.Match([]byte("0123456789"), Instant)
		if mt.Result != 1 || mt.Start != 0 || mt.End != 1 {
			t.Fatalf("got %+v, want Result=1, Start=0, End=1", mt)
		}
	})
	t.Run("scenario 7", func(t *testing.T) {
		re := mustBuild(t, map[string]uint32{"abc": 1, "abcd": 2})
		mt := re.Match([]byte("abcde"), Tangent)
		if mt.Result != 2 || mt.Start != 0 || mt.End != 4 {
			t.Fatalf("got %+v, want Result=2, Start=0, End=4", mt)
		}
	})
	t.Run("scenario 8", func(t *testing.T) {
		re := mustBuild(t, map[string]uint32{"new": 1, "new york": 2})
		mt := re.Match([]byte("new york"), Last)
		if mt.Result != 2 || mt.Start != 0 || mt.End != 8 {
			t.Fatalf("got %+v, want Result=2, Start=0, End=8", mt)
		}
	})
}

func mustBuild(t *testing.T, patterns map[string]uint32) *Regex {
	t.Helper()
	b := NewBuilder(DefaultBudget())
	for pat, result := range patterns {
		if err := b.Add(pat, result, 0); err != nil {
			t.Fatalf("Add(%q) error: %v", pat, err)
		}
	}
	re, err := b.Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	return re
}

func TestProgramExposesUnderlyingSerializedForm(t *testing.T) {
	re := mustBuild(t, map[string]uint32{"cat": 1})
	prog := re.Program()
	if prog == nil {
		t.Fatalf("Program() returned nil")
	}
	if prog.MatchFull([]byte("cat")) != 1 {
		t.Fatalf("Program().MatchFull(\"cat\") != 1")
	}
}

// Sanity check that the re-exported Style constants line up with the
// match package's own values, since red.Style is a type alias.
func TestStyleAliasesLineUp(t *testing.T) {
	if Instant != Style(match.Instant) || Full != Style(match.Full) {
		t.Fatalf("red.Style constants do not alias match.Style correctly")
	}
}
