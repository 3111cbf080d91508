package resyn

import (
	"strconv"

	"github.com/zezax/red/bitset"
	"github.com/zezax/red/charset"
	"github.com/zezax/red/rerr"
)

// Scanner tokenises a regex pattern byte by byte. Callers pull tokens via
// Next until it reports TEnd.
type Scanner struct {
	src []byte
	pos int
}

// NewScanner returns a Scanner positioned at the start of pattern.
func NewScanner(pattern []byte) *Scanner {
	return &Scanner{src: pattern}
}

func (s *Scanner) eof() bool  { return s.pos >= len(s.src) }
func (s *Scanner) peek() byte { return s.src[s.pos] }

// Next returns the next token, or a TEnd token once the input is
// exhausted. A non-nil error always pairs with a zero Token.
func (s *Scanner) Next() (Token, error) {
	if s.eof() {
		return Token{Kind: TEnd, Pos: s.pos}, nil
	}
	start := s.pos
	c := s.src[s.pos]
	s.pos++
	switch c {
	case '(':
		return Token{Kind: TLeft, Pos: start}, nil
	case ')':
		return Token{Kind: TRight, Pos: start}, nil
	case '|':
		return Token{Kind: TUnion, Pos: start}, nil
	case '*':
		return Token{Kind: TClosure, Pos: start, Min: 0, Max: -1}, nil
	case '+':
		return Token{Kind: TClosure, Pos: start, Min: 1, Max: -1}, nil
	case '?':
		return Token{Kind: TClosure, Pos: start, Min: 0, Max: 1}, nil
	case '{':
		return s.scanCount(start)
	case '.':
		return Token{Kind: TChars, Pos: start, Chars: charset.All()}, nil
	case '[':
		return s.scanClass(start)
	case '\\':
		return s.scanEscape(start)
	default:
		return Token{Kind: TChars, Pos: start, Chars: charset.Byte(c)}, nil
	}
}

func (s *Scanner) readDigits() string {
	start := s.pos
	for !s.eof() && s.src[s.pos] >= '0' && s.src[s.pos] <= '9' {
		s.pos++
	}
	return string(s.src[start:s.pos])
}

// scanCount parses the body of a {m,n}-style closure; the opening '{' has
// already been consumed. Error precedence follows the original parser's
// parseCount: an empty count is rejected before a reversed range, which
// is rejected before a count that matches nothing.
func (s *Scanner) scanCount(start int) (Token, error) {
	minStr := s.readDigits()
	hasComma := false
	maxStr := ""
	if !s.eof() && s.peek() == ',' {
		hasComma = true
		s.pos++
		maxStr = s.readDigits()
	}
	if s.eof() || s.peek() != '}' {
		return Token{}, rerr.At(rerr.KindParse, start, "unterminated brace count")
	}
	s.pos++

	if minStr == "" && !hasComma {
		return Token{}, rerr.At(rerr.KindParse, start, "empty brace count")
	}

	min := 0
	if minStr != "" {
		min, _ = strconv.Atoi(minStr)
	}
	max := -1
	switch {
	case !hasComma:
		max = min
	case maxStr != "":
		max, _ = strconv.Atoi(maxStr)
	}

	if max >= 0 && min > max {
		return Token{}, rerr.At(rerr.KindParse, start, "brace count range is reversed")
	}
	if min == 0 && max == 0 {
		return Token{}, rerr.At(rerr.KindParse, start, "brace count matches nothing")
	}
	return Token{Kind: TClosure, Pos: start, Min: min, Max: max}, nil
}

// scanClass parses the body of a [...] character class; the opening '['
// has already been consumed.
func (s *Scanner) scanClass(start int) (Token, error) {
	set := &charset.MultiChar{}
	negate := false
	if !s.eof() && s.peek() == '^' {
		negate = true
		s.pos++
	}
	first := true
	for {
		if s.eof() {
			return Token{}, rerr.At(rerr.KindParse, start, "unterminated character class")
		}
		if s.peek() == ']' && !first {
			s.pos++
			break
		}
		first = false

		lo, loIsByte, err := s.classAtom(set)
		if err != nil {
			return Token{}, err
		}
		if !loIsByte {
			continue
		}
		if !s.eof() && s.peek() == '-' {
			save := s.pos
			s.pos++
			if s.eof() {
				return Token{}, rerr.At(rerr.KindParse, start, "unterminated character class")
			}
			if s.peek() == ']' {
				// A trailing '-' before ']' is a literal hyphen.
				s.pos = save
				set.Set(bitset.Index(lo))
				continue
			}
			hi, hiIsByte, err := s.classAtom(set)
			if err != nil {
				return Token{}, err
			}
			if !hiIsByte {
				return Token{}, rerr.At(rerr.KindParse, start, "a character class cannot end a range")
			}
			if hi < lo {
				return Token{}, rerr.At(rerr.KindParse, start, "reversed character range")
			}
			set.SetSpan(bitset.Index(lo), bitset.Index(hi))
			continue
		}
		set.Set(bitset.Index(lo))
	}
	if negate {
		set = charset.Negate(set)
	}
	return Token{Kind: TChars, Pos: start, Chars: set}, nil
}

// classAtom reads one element of a character class: either a literal byte
// usable as a range endpoint (isByte == true), or an escape class (\d and
// friends) that is unioned directly into set and cannot participate in a
// range (isByte == false).
func (s *Scanner) classAtom(set *charset.MultiChar) (b byte, isByte bool, err error) {
	pos := s.pos
	c := s.src[s.pos]
	s.pos++
	if c != '\\' {
		return c, true, nil
	}
	if s.eof() {
		return 0, false, rerr.At(rerr.KindParse, pos, "trailing backslash")
	}
	e := s.src[s.pos]
	s.pos++
	switch e {
	case 'd':
		set.UnionWith(charset.Digit())
		return 0, false, nil
	case 'D':
		set.UnionWith(charset.NotDigit())
		return 0, false, nil
	case 's':
		set.UnionWith(charset.Space())
		return 0, false, nil
	case 'S':
		set.UnionWith(charset.NotSpace())
		return 0, false, nil
	case 'w':
		set.UnionWith(charset.Word())
		return 0, false, nil
	case 'W':
		set.UnionWith(charset.NotWord())
		return 0, false, nil
	case 'i':
		return 0, false, rerr.At(rerr.KindParse, pos, `\i is not valid inside a character class`)
	case 'x':
		hb, err := s.readHexByte(pos)
		if err != nil {
			return 0, false, err
		}
		return hb, true, nil
	default:
		lb, err := unescapeLiteral(pos, e)
		if err != nil {
			return 0, false, err
		}
		return lb, true, nil
	}
}

// scanEscape handles a backslash sequence outside a character class; the
// leading '\' has already been consumed.
func (s *Scanner) scanEscape(start int) (Token, error) {
	if s.eof() {
		return Token{}, rerr.At(rerr.KindParse, start, "trailing backslash")
	}
	e := s.src[s.pos]
	s.pos++
	switch e {
	case 'd':
		return Token{Kind: TChars, Pos: start, Chars: charset.Digit()}, nil
	case 'D':
		return Token{Kind: TChars, Pos: start, Chars: charset.NotDigit()}, nil
	case 's':
		return Token{Kind: TChars, Pos: start, Chars: charset.Space()}, nil
	case 'S':
		return Token{Kind: TChars, Pos: start, Chars: charset.NotSpace()}, nil
	case 'w':
		return Token{Kind: TChars, Pos: start, Chars: charset.Word()}, nil
	case 'W':
		return Token{Kind: TChars, Pos: start, Chars: charset.NotWord()}, nil
	case 'i':
		return Token{Kind: TFlags, Pos: start, Flags: IgnoreCase}, nil
	case 'x':
		b, err := s.readHexByte(start)
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: TChars, Pos: start, Chars: charset.Byte(b)}, nil
	default:
		b, err := unescapeLiteral(start, e)
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: TChars, Pos: start, Chars: charset.Byte(b)}, nil
	}
}

func (s *Scanner) readHexByte(pos int) (byte, error) {
	if s.pos+2 > len(s.src) {
		return 0, rerr.At(rerr.KindParse, pos, "incomplete hex escape")
	}
	hi, ok1 := hexVal(s.src[s.pos])
	lo, ok2 := hexVal(s.src[s.pos+1])
	if !ok1 || !ok2 {
		return 0, rerr.At(rerr.KindParse, pos, "invalid hex escape")
	}
	s.pos += 2
	return hi<<4 | lo, nil
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// unescapeLiteral maps the single-character escapes from the original
// gUnescape table, rejects backreferences, and treats anything else as
// the literal escaped byte (so "\." "\(" "\\" and the like work as
// expected without a separate table entry per metacharacter).
func unescapeLiteral(pos int, e byte) (byte, error) {
	switch e {
	case 'a':
		return 0x07, nil
	case 'b':
		return 0x08, nil
	case 'v':
		return 0x0b, nil
	case '0':
		return 0x00, nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case '\\':
		return '\\', nil
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return 0, rerr.At(rerr.KindParse, pos, "back-references are not supported")
	default:
		return e, nil
	}
}
