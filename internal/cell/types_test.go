package cell

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestState_Clone(t *testing.T) {
	s := State{1, 2, 3}
	c := s.Clone()

	c[0] = 99
	if s[0] != 1 {
		t.Error("clone shares backing array with original")
	}
	if len(c) != len(s) {
		t.Errorf("clone length %d, expected %d", len(c), len(s))
	}
}

func TestState_IsValid(t *testing.T) {
	if !(State{1, 2, 3}).IsValid() {
		t.Error("finite state reported invalid")
	}
	if (State{1, math.NaN()}).IsValid() {
		t.Error("NaN state reported valid")
	}
	if (State{math.Inf(1)}).IsValid() {
		t.Error("Inf state reported valid")
	}
	if !(State{}).IsValid() {
		t.Error("empty state should be valid")
	}
}

func TestState_Norm(t *testing.T) {
	s := State{3, 4}
	if math.Abs(s.Norm()-5) > 1e-12 {
		t.Errorf("expected norm 5, got %f", s.Norm())
	}
	if (State{}).Norm() != 0 {
		t.Error("empty state should have zero norm")
	}
}

func TestState_Sub(t *testing.T) {
	a := State{5, 7, 9}
	b := State{1, 2, 3}
	d := a.Sub(b)

	for i, want := range []float64{4, 5, 6} {
		if d[i] != want {
			t.Errorf("component %d: expected %f, got %f", i, want, d[i])
		}
	}
}

func TestSolution_Final(t *testing.T) {
	empty := &Solution{}
	if empty.Final() != nil {
		t.Error("empty solution should have nil final state")
	}

	sol := &Solution{States: []State{{1}, {2}, {3}}}
	final := sol.Final()
	if final == nil || final[0] != 3 {
		t.Errorf("expected final state {3}, got %v", final)
	}
}

func TestSolutionError_Format(t *testing.T) {
	err := &SolutionError{Time: 12.5, Step: 25, Wrapped: ErrInvalidState}
	msg := err.Error()
	if !strings.Contains(msg, "step 25") || !strings.Contains(msg, "t=12.5") {
		t.Errorf("unexpected message: %s", msg)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("wrapped error not reachable through errors.Is")
	}
}
