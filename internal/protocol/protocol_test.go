package protocol

import (
	"math"
	"testing"
)

func TestConstant(t *testing.T) {
	p := NewConstant(5.0)
	for _, tt := range []float64{0, 1, 100, 1e6} {
		if p.Current(tt) != 5.0 {
			t.Errorf("constant current changed at t=%f", tt)
		}
	}
	if p.Label() == "" {
		t.Error("empty label")
	}
}

func TestCRate(t *testing.T) {
	p := NewCRate(2.0, 5.0)
	if p.Current(0) != 10.0 {
		t.Errorf("expected 10 A for 2C on a 5 Ah cell, got %f", p.Current(0))
	}
}

func TestPulse(t *testing.T) {
	p := NewPulse(5.0, 100, 500)

	if p.Current(50) != 5.0 {
		t.Errorf("expected pulse on at t=50, got %f", p.Current(50))
	}
	if p.Current(300) != 0 {
		t.Errorf("expected rest at t=300, got %f", p.Current(300))
	}
	// The second period repeats the first.
	if p.Current(650) != 5.0 {
		t.Errorf("expected pulse on at t=650, got %f", p.Current(650))
	}
	if p.Current(900) != 0 {
		t.Errorf("expected rest at t=900, got %f", p.Current(900))
	}
}

func TestPulse_DegeneratePeriod(t *testing.T) {
	p := NewPulse(5.0, 0, 0)
	if p.Current(10) != 5.0 {
		t.Errorf("zero period should fall back to constant, got %f", p.Current(10))
	}
}

func TestSine(t *testing.T) {
	p := NewSine(5.0, 1.0, 0.25)

	if math.Abs(p.Current(0)-5.0) > 1e-12 {
		t.Errorf("expected offset at t=0, got %f", p.Current(0))
	}
	// Quarter period of 0.25 Hz is 1 s: peak of the ripple.
	if math.Abs(p.Current(1)-6.0) > 1e-9 {
		t.Errorf("expected peak 6.0 at t=1, got %f", p.Current(1))
	}
	if math.Abs(p.Current(3)-4.0) > 1e-9 {
		t.Errorf("expected trough 4.0 at t=3, got %f", p.Current(3))
	}
}
