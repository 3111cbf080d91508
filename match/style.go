// Package match walks a serialize.Program over input bytes under one of
// five match policies, with an optional fixed-prefix fast-reject ahead
// of the walk.
package match

// Style selects which accepting state along a walk supplies the
// reported result.
type Style int

const (
	// Instant returns the first accepting result seen, without
	// continuing the walk any further.
	Instant Style = iota
	// First continues while the result stays the same as the first
	// accept, stopping as soon as it changes.
	First
	// Tangent continues while the current state is accepting (any
	// result), stopping on the first non-accepting step, returning the
	// last accepting result seen.
	Tangent
	// Last continues to the end of input or a dead end, returning the
	// most recently seen accepting result.
	Last
	// Full requires the walk to end in an accepting state; anything
	// else reports no match.
	Full
)

func (s Style) String() string {
	switch s {
	case Instant:
		return "Instant"
	case First:
		return "First"
	case Tangent:
		return "Tangent"
	case Last:
		return "Last"
	case Full:
		return "Full"
	default:
		return "Unknown"
	}
}
