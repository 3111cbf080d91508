package resyn

import (
	"bytes"

	"github.com/zezax/red/budget"
	"github.com/zezax/red/nfa"
	"github.com/zezax/red/rerr"
)

const maxResult = 0x7fffffff // largest result the 4-byte entry width holds in its low 31 bits

// Parser turns one or more regex patterns into a single ε-free NFA
// recognising their union, each pattern tagged with its own result. It
// holds an *nfa.Builder the way a recursive-descent AST builder in the
// smaller retrieved repos holds a node factory, generalized here to the
// spec's grammar instead of any one pattern language.
//
// A Parser is not re-entrant: Add/AddAuto must not be called
// concurrently, and Finish must be called exactly once, after every
// pattern has been added.
type Parser struct {
	b        *nfa.Builder
	sc       *Scanner
	cur      Token
	accum    nfa.StateID
	hasAccum bool
	depth    int
}

// NewParser returns a Parser building into a fresh NFA arena under the
// given resource budget.
func NewParser(bud budget.Budget) *Parser {
	return &Parser{b: nfa.NewBuilder(bud)}
}

// Budget returns the resource budget this Parser was constructed with.
func (p *Parser) Budget() budget.Budget { return p.b.Budget() }

func (p *Parser) advance() error {
	t, err := p.sc.Next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

// Add parses pattern under explicit flags and merges it, tagged with
// result, into the accumulated automaton.
func (p *Parser) Add(pattern []byte, result uint32, flags Flags) error {
	if result == 0 || result > maxResult {
		return rerr.Newf(rerr.KindAPI, "result %d out of range [1,%d]", result, maxResult)
	}

	p.sc = NewScanner(pattern)
	p.b.Goal = result
	p.depth = 0
	if err := p.advance(); err != nil {
		return err
	}
	body, err := p.parseExpr()
	if err != nil {
		return err
	}
	if p.cur.Kind != TEnd {
		return rerr.At(rerr.KindParse, p.cur.Pos, "trailing input after expression")
	}

	if flags&IgnoreCase != 0 {
		body = p.b.IgnoreCase(body)
	}
	if flags&LooseStart != 0 {
		body = p.b.Concat(p.b.Wildcard(), body)
	}
	if flags&LooseEnd != 0 {
		body = p.b.Concat(body, p.b.Wildcard())
	}
	body = p.b.Concat(body, p.b.EndMark(result))

	if !p.hasAccum {
		p.accum = body
		p.hasAccum = true
	} else {
		p.accum = p.b.Union(p.accum, body)
	}

	return p.b.CheckBudget()
}

// AddAuto parses pattern the way the library's "auto" mode does: both
// loose flags are set by default, a leading "^" clears loose-start, a
// leading ".*" sets it explicitly, a trailing "$" clears loose-end, a
// trailing ".*" sets it, and a leading "\i" turns on ignore-case. Outside
// those positions "^" and "$" are ordinary literals handled by the
// grammar.
func (p *Parser) AddAuto(pattern []byte, result uint32) error {
	flags := LooseStart | LooseEnd
	body := pattern

	if bytes.HasPrefix(body, []byte(`\i`)) {
		flags |= IgnoreCase
		body = body[2:]
	}

	switch {
	case bytes.HasPrefix(body, []byte("^")):
		flags &^= LooseStart
		body = body[1:]
	case bytes.HasPrefix(body, []byte(".*")):
		flags |= LooseStart
		body = body[2:]
	}

	switch {
	case bytes.HasSuffix(body, []byte("$")):
		flags &^= LooseEnd
		body = body[:len(body)-1]
	case bytes.HasSuffix(body, []byte(".*")):
		flags |= LooseEnd
		body = body[:len(body)-2]
	}

	return p.Add(body, result, flags)
}

// Finish completes construction: if no pattern was ever added, installs a
// single accepting state with result 1 (the empty language matches the
// empty string), drops useless states, and returns the finished arena
// together with its initial state id.
func (p *Parser) Finish() (*nfa.NFA, nfa.StateID, error) {
	if !p.hasAccum {
		p.b.Goal = 1
		p.accum = p.b.NewState(true)
		p.hasAccum = true
	}
	p.b.DropUselessTransitions(p.accum)
	return p.b.NFA(), p.accum, nil
}

// expr := part ( '|' part )*
func (p *Parser) parseExpr() (nfa.StateID, error) {
	left, err := p.parsePart()
	if err != nil {
		return nfa.InvalidState, err
	}
	for p.cur.Kind == TUnion {
		if err := p.advance(); err != nil {
			return nfa.InvalidState, err
		}
		right, err := p.parsePart()
		if err != nil {
			return nfa.InvalidState, err
		}
		left = p.b.Union(left, right)
	}
	return left, nil
}

func (p *Parser) atPartEnd() bool {
	switch p.cur.Kind {
	case TEnd, TUnion, TRight:
		return true
	default:
		return false
	}
}

// part := multi multi*  (an empty part matches the empty string)
func (p *Parser) parsePart() (nfa.StateID, error) {
	if p.atPartEnd() {
		return p.b.NewState(true), nil
	}
	left, err := p.parseMulti()
	if err != nil {
		return nfa.InvalidState, err
	}
	for !p.atPartEnd() {
		right, err := p.parseMulti()
		if err != nil {
			return nfa.InvalidState, err
		}
		left = p.b.Concat(left, right)
	}
	return left, nil
}

// multi := unit ( closure | flags )?
func (p *Parser) parseMulti() (nfa.StateID, error) {
	unit, err := p.parseUnit()
	if err != nil {
		return nfa.InvalidState, err
	}
	switch p.cur.Kind {
	case TClosure:
		min, max := p.cur.Min, p.cur.Max
		if err := p.advance(); err != nil {
			return nfa.InvalidState, err
		}
		return p.b.Closure(unit, min, max), nil
	case TFlags:
		f := p.cur.Flags
		if err := p.advance(); err != nil {
			return nfa.InvalidState, err
		}
		if f&IgnoreCase != 0 {
			unit = p.b.IgnoreCase(unit)
		}
		return unit, nil
	default:
		return unit, nil
	}
}

// unit := '(' expr ')' | chars | ε
func (p *Parser) parseUnit() (nfa.StateID, error) {
	switch p.cur.Kind {
	case TLeft:
		p.depth++
		if !p.Budget().AllowDepth(p.depth) {
			return nfa.InvalidState, rerr.Newf(rerr.KindLimit, "parenthesis nesting depth %d exceeds budget of %d", p.depth, p.Budget().MaxParenDepth)
		}
		if err := p.advance(); err != nil {
			return nfa.InvalidState, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nfa.InvalidState, err
		}
		if p.cur.Kind != TRight {
			return nfa.InvalidState, rerr.At(rerr.KindParse, p.cur.Pos, "unbalanced parentheses")
		}
		if err := p.advance(); err != nil {
			return nfa.InvalidState, err
		}
		p.depth--
		return inner, nil
	case TRight:
		return nfa.InvalidState, rerr.At(rerr.KindParse, p.cur.Pos, "unbalanced parentheses")
	case TChars:
		chars := p.cur.Chars
		if err := p.advance(); err != nil {
			return nfa.InvalidState, err
		}
		start := p.b.NewState(false)
		target := p.b.NewState(true)
		na := p.b.NFA()
		st := na.State(start)
		st.Trans = append(st.Trans, nfa.Transition{Chars: chars, Next: target})
		return start, nil
	default:
		return p.b.NewState(true), nil
	}
}
