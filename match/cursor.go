package match

import "github.com/zezax/red/serialize"

// Cursor is a caller-owned walk over a serialize.Program: the current
// state offset lives in the struct, not inside the package, so a caller
// can interleave steps from more than one input source (a streaming
// reader, a rope) without the package holding any state of its own.
//
// Grounded on the DFA onepass stepper's caller-driven
// table[state*stride+class] idiom, adapted to the sparse two-array
// (class table + transition table) layout a serialize.Program stores
// its state records in.
type Cursor struct {
	prog    *serialize.Program
	off     int
	dead    bool
	atStart bool
}

// NewCursor returns a Cursor positioned at prog's initial state.
func NewCursor(prog *serialize.Program) *Cursor {
	return &Cursor{prog: prog, off: prog.Initial(), atStart: true}
}

// Step advances the cursor by one input byte and returns the resulting
// state's result and whether that state is a dead end. Once Dead
// returns true, further Step calls are no-ops that keep returning the
// same values.
func (c *Cursor) Step(b byte) (result uint32, deadEnd bool) {
	if c.dead {
		return c.Result()
	}
	cls := c.prog.Class(b)
	c.off = c.prog.Step(c.off, cls)
	c.atStart = false
	res, dead := c.prog.Result(c.off)
	c.dead = dead
	return res, dead
}

// Result returns the current state's result and dead-end flag without
// advancing.
func (c *Cursor) Result() (uint32, bool) {
	return c.prog.Result(c.off)
}

// Accepting reports whether the current state has a non-zero result.
func (c *Cursor) Accepting() bool {
	r, _ := c.Result()
	return r != 0
}

// Dead reports whether the cursor has reached a dead end.
func (c *Cursor) Dead() bool { return c.dead }

// Reset returns the cursor to the initial state.
func (c *Cursor) Reset() {
	c.off = c.prog.Initial()
	c.dead = false
	c.atStart = true
}
