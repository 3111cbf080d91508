// Package red compiles one or more regular-expression patterns into a
// single serialized deterministic automaton and matches it against
// input bytes.
//
// Basic usage:
//
//	re, err := red.Compile(`\d+`, 0, red.DefaultBudget())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if re.Check([]byte("123 apples"), red.Tangent) != 0 {
//	    fmt.Println("matched")
//	}
//
// Multiple patterns share one compiled program: each Add call tags its
// pattern with a distinct positive result, and a successful match
// reports which one fired.
package red

import (
	"github.com/zezax/red/budget"
	"github.com/zezax/red/dfa"
	"github.com/zezax/red/match"
	"github.com/zezax/red/prefilter"
	"github.com/zezax/red/resyn"
	"github.com/zezax/red/serialize"
)

// Error and Kind are re-exported so callers never need to import the
// internal error package directly.
type (
	Error = rerrError
	Kind  = rerrKind
)

// Budget limits how many NFA/DFA states and how much parenthesis
// nesting a compilation may use before it fails with a Limit error.
type Budget = budget.Budget

// DefaultBudget returns the library's default resource limits.
func DefaultBudget() Budget { return budget.Default() }

// Flags controls per-pattern matching behavior at compile time.
type Flags = resyn.Flags

const (
	IgnoreCase = resyn.IgnoreCase
	LooseStart = resyn.LooseStart
	LooseEnd   = resyn.LooseEnd
)

// Style selects which accepting state a match call reports from.
type Style = match.Style

const (
	Instant = match.Instant
	First   = match.First
	Tangent = match.Tangent
	Last    = match.Last
	Full    = match.Full
)

// Width picks a serialized entry size, or WidthAuto to let Compile
// choose the smallest one that fits.
type Width = serialize.Width

const (
	WidthAuto = serialize.WidthAuto
	Width1    = serialize.Width1
	Width2    = serialize.Width2
	Width4    = serialize.Width4
)

// Builder accumulates one or more patterns before compiling them into a
// single Regex. Unlike Compile's single-pattern convenience, a Builder
// lets a caller assign distinct results to distinct patterns ahead of
// one compile pass.
type Builder struct {
	parser   *resyn.Parser
	width    Width
	leader   bool
	patterns []patternRecord
}

// patternRecord replays a single Add/AddAuto call against a throwaway
// Parser so Build can recover the literal leader each pattern requires
// on its own, independent of whatever the other patterns contribute to
// the merged automaton.
type patternRecord struct {
	pattern []byte
	flags   Flags
	auto    bool
}

// NewBuilder returns a Builder under the given budget.
func NewBuilder(bud Budget) *Builder {
	return &Builder{parser: resyn.NewParser(bud), width: WidthAuto, leader: true}
}

// Add adds pattern to the builder, tagged with result and flags.
func (b *Builder) Add(pattern string, result uint32, flags Flags) error {
	if err := b.parser.Add([]byte(pattern), result, flags); err != nil {
		return err
	}
	b.patterns = append(b.patterns, patternRecord{pattern: []byte(pattern), flags: flags})
	return nil
}

// AddAuto adds pattern using the library's automatic anchor/case
// inference (see resyn.Parser.AddAuto).
func (b *Builder) AddAuto(pattern string, result uint32) error {
	if err := b.parser.AddAuto([]byte(pattern), result); err != nil {
		return err
	}
	b.patterns = append(b.patterns, patternRecord{pattern: []byte(pattern), auto: true})
	return nil
}

// WithWidth overrides the serialized entry width (default WidthAuto).
func (b *Builder) WithWidth(w Width) *Builder {
	b.width = w
	return b
}

// WithLeader enables or disables the fixed-prefix fast-reject at match
// time (enabled by default).
func (b *Builder) WithLeader(enabled bool) *Builder {
	b.leader = enabled
	return b
}

// Build runs every remaining compilation stage over the accumulated
// patterns: NFA construction, powerset conversion, minimisation,
// serialization, and matcher setup.
func (b *Builder) Build() (*Regex, error) {
	n, start, err := b.parser.Finish()
	if err != nil {
		return nil, err
	}

	d, err := dfa.Convert(n, start, b.parser.Budget())
	if err != nil {
		return nil, err
	}

	d.FlagDeadEnds(d.FindMaxChar())
	d.InstallEquivalenceMap()

	md, err := dfa.Minimize(d)
	if err != nil {
		return nil, err
	}

	var leader []byte
	if b.leader {
		leader = dfa.ComputeLeader(md)
	}

	buf, err := serialize.Encode(md, leader, b.width)
	if err != nil {
		return nil, err
	}

	prog, err := serialize.Decode(buf)
	if err != nil {
		return nil, err
	}

	matcher := match.New(prog, b.leader)
	if len(b.patterns) > 1 {
		ml, err := b.multiLeader()
		if err != nil {
			return nil, err
		}
		if ml != nil {
			matcher = matcher.WithMultiLeader(ml)
		}
	}

	return &Regex{prog: prog, matcher: matcher}, nil
}

// multiLeader compiles each added pattern on its own, under the same
// budget, purely to recover the literal byte prefix that pattern alone
// requires, then folds those per-pattern prefixes into a single
// Aho-Corasick prefilter. A merged multi-pattern automaton has only one
// combined leader (or none); this recovers the per-pattern leaders that
// combined leader throws away, the way MultiLeader needs them. If any
// pattern has an empty leader, it returns nil and no prefilter is used.
func (b *Builder) multiLeader() (*prefilter.MultiLeader, error) {
	bud := b.parser.Budget()
	leaders := make([][]byte, 0, len(b.patterns))
	for _, pr := range b.patterns {
		p := resyn.NewParser(bud)
		var err error
		if pr.auto {
			err = p.AddAuto(pr.pattern, 1)
		} else {
			err = p.Add(pr.pattern, 1, pr.flags)
		}
		if err != nil {
			return nil, err
		}
		n, start, err := p.Finish()
		if err != nil {
			return nil, err
		}
		d, err := dfa.Convert(n, start, bud)
		if err != nil {
			return nil, err
		}
		d.FlagDeadEnds(d.FindMaxChar())
		leader := dfa.ComputeLeader(d)
		if len(leader) == 0 {
			// This pattern can start anywhere, so no prefilter can
			// skip an anchor without risking one of its matches.
			return nil, nil
		}
		leaders = append(leaders, leader)
	}
	return prefilter.NewMultiLeader(leaders)
}

// Regex is a compiled, immutable program together with the matcher that
// runs it. A Regex is safe for concurrent use by any number of callers.
type Regex struct {
	prog    *serialize.Program
	matcher *match.Matcher
}

// Compile is a single-pattern convenience wrapper around Builder: it
// adds pattern with result 1 and the given flags, then builds.
func Compile(pattern string, flags Flags, bud Budget) (*Regex, error) {
	b := NewBuilder(bud)
	if err := b.Add(pattern, 1, flags); err != nil {
		return nil, err
	}
	return b.Build()
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string, flags Flags) *Regex {
	re, err := Compile(pattern, flags, budget.Default())
	if err != nil {
		panic("red: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// CompileAuto compiles pattern using automatic anchor/case inference.
func CompileAuto(pattern string, bud Budget) (*Regex, error) {
	b := NewBuilder(bud)
	if err := b.AddAuto(pattern, 1); err != nil {
		return nil, err
	}
	return b.Build()
}

// Check reports the result of an anchored walk from input's start; 0
// means no pattern matched.
func (r *Regex) Check(input []byte, style Style) uint32 {
	return r.matcher.Check(input, style)
}

// Match reports the full anchored match, including its byte range.
func (r *Regex) Match(input []byte, style Style) match.Match {
	return r.matcher.MatchAt(input, style)
}

// Scan slides the anchor forward from from until a match is found.
func (r *Regex) Scan(input []byte, from int, style Style) match.Match {
	return r.matcher.Scan(input, from, style)
}

// Search is Scan starting from the beginning of input.
func (r *Regex) Search(input []byte, style Style) match.Match {
	return r.matcher.Search(input, style)
}

// MatchAll returns every non-overlapping match in input.
func (r *Regex) MatchAll(input []byte) []match.Match {
	return r.matcher.MatchAll(input)
}

// Replace substitutes repl for up to max non-overlapping matches (max
// <= 0 means unlimited), copying every other byte verbatim.
func (r *Regex) Replace(input, repl []byte, max int, style Style) []byte {
	return r.matcher.Replace(input, repl, max, style)
}

// Program exposes the underlying serialized program, e.g. for
// persisting a compiled Regex to disk and reloading it later via
// serialize.Decode.
func (r *Regex) Program() *serialize.Program { return r.prog }
