package match

import "testing"

func TestCursorStepMatchesMatchFull(t *testing.T) {
	prog := buildProgram(t, map[string]uint32{"a+": 1})
	c := NewCursor(prog)

	var last uint32
	for _, b := range []byte("aaa") {
		res, dead := c.Step(b)
		last = res
		if dead {
			t.Fatalf("unexpected dead end mid-walk")
		}
	}
	if last != 1 {
		t.Fatalf("final Step result = %d, want 1", last)
	}
	if !c.Accepting() {
		t.Fatalf("expected cursor to report accepting after \"aaa\"")
	}
}

func TestCursorResetReturnsToInitial(t *testing.T) {
	prog := buildProgram(t, map[string]uint32{"a+": 1})
	c := NewCursor(prog)
	c.Step('a')
	c.Step('a')
	if !c.Accepting() {
		t.Fatalf("expected accepting state before reset")
	}
	c.Reset()
	if c.Accepting() {
		t.Fatalf("expected non-accepting state right after reset")
	}
	if c.Dead() {
		t.Fatalf("expected a fresh cursor not to be dead")
	}
}

func TestCursorDeadEndStaysDead(t *testing.T) {
	prog := buildProgram(t, map[string]uint32{"cat": 1})
	c := NewCursor(prog)
	c.Step('x') // immediately leaves the required leader, hits the dead end
	_, dead := c.Step('x')
	if !dead {
		t.Fatalf("expected cursor to report a dead end after a wrong byte")
	}
	res1, _ := c.Result()
	res2, _ := c.Step('y')
	if res1 != res2 {
		t.Fatalf("dead cursor's result changed across a further Step: %d vs %d", res1, res2)
	}
}
