package match

import "github.com/zezax/red/serialize"

// walkResult is the outcome of walking a Program from a single anchor
// point: the style-selected result, the offset (relative to the anchor)
// of the first byte that left the initial state, and the offset of the
// byte after the last accepting step.
type walkResult struct {
	result   uint32
	startRel int
	endRel   int
}

// walk runs one style-governed pass over input starting at anchor,
// following the state machine described in the matcher's per-byte
// cycle: step, check accept, apply style, stop on dead end or end of
// input.
func walk(prog *serialize.Program, input []byte, anchor int, style Style) walkResult {
	off := prog.Initial()
	startRel := -1
	endRel := -1
	var firstResult uint32
	var lastResult uint32
	haveAccept := false

	for i := anchor; i < len(input); i++ {
		cls := prog.Class(input[i])
		next := prog.Step(off, cls)
		if next != prog.Initial() && startRel == -1 {
			startRel = i - anchor
		}
		off = next
		res, dead := prog.Result(off)

		if res != 0 {
			if style == First && haveAccept && res != firstResult {
				// endRel still holds the prior accepting step's offset;
				// this step's result belongs to a different pattern and
				// must not extend it.
				return walkResult{result: firstResult, startRel: clamp(startRel), endRel: endRel}
			}
			if !haveAccept {
				firstResult = res
				haveAccept = true
			}
			lastResult = res
			endRel = i - anchor + 1

			if style == Instant {
				return walkResult{result: res, startRel: clamp(startRel), endRel: endRel}
			}
		} else if haveAccept && style == Tangent {
			return walkResult{result: lastResult, startRel: clamp(startRel), endRel: endRel}
		}

		if dead {
			if style == Full && res != 0 {
				// An accepting dead end stays accepting through the rest
				// of the input, so the whole input ends in it.
				endRel = len(input) - anchor
			}
			break
		}
	}

	switch style {
	case Full:
		if endRel == len(input)-anchor && haveAccept {
			return walkResult{result: lastResult, startRel: clamp(startRel), endRel: endRel}
		}
		return walkResult{}
	case Instant, First, Tangent, Last:
		if haveAccept {
			r := lastResult
			if style == First {
				r = firstResult
			}
			return walkResult{result: r, startRel: clamp(startRel), endRel: endRel}
		}
	}
	return walkResult{}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// leaderMismatch reports whether input starting at anchor fails to
// match prog's required fixed prefix, expressed in equivalence-class
// space. An empty leader never mismatches.
func leaderMismatch(prog *serialize.Program, input []byte, anchor int) bool {
	leader := prog.Leader()
	if len(leader) == 0 {
		return false
	}
	if anchor+len(leader) > len(input) {
		return true
	}
	for i, want := range leader {
		if prog.Class(input[anchor+i]) != want {
			return true
		}
	}
	return false
}
