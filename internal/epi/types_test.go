package epi

import (
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{0.9, 0.1}, true},
		{"zeros", State{0.0, 0.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Sum(t *testing.T) {
	tests := []struct {
		state    State
		expected float64
	}{
		{State{0.5, 0.5}, 1.0},
		{State{0.7, 0.2, 0.1}, 1.0},
		{State{0, 0}, 0.0},
		{State{2, 2}, 4.0},
	}

	for _, tt := range tests {
		if got := tt.state.Sum(); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Sum(%v) = %v, want %v", tt.state, got, tt.expected)
		}
	}
}

func TestState_Clone(t *testing.T) {
	s := State{0.9, 0.1}
	c := s.Clone()

	c[0] = 0.5
	if s[0] != 0.9 {
		t.Errorf("clone aliases original: %v", s)
	}
}

func TestState_Sub(t *testing.T) {
	a := State{0.9, 0.1}
	b := State{0.8, 0.2}

	diff := a.Sub(b)
	if math.Abs(diff[0]-0.1) > 1e-12 || math.Abs(diff[1]+0.1) > 1e-12 {
		t.Errorf("Sub failed: got %v", diff)
	}
}

func TestResult_Series(t *testing.T) {
	r := &Result{
		Times:  []float64{0, 1, 2},
		States: []State{{0.9, 0.1}, {0.8, 0.2}, {0.7, 0.3}},
	}

	infected := r.Series(1)
	want := []float64{0.1, 0.2, 0.3}
	for i := range want {
		if infected[i] != want[i] {
			t.Errorf("Series(1)[%d] = %v, want %v", i, infected[i], want[i])
		}
	}

	if r.Final()[0] != 0.7 {
		t.Errorf("Final()[0] = %v, want 0.7", r.Final()[0])
	}
}

func TestResult_FinalEmpty(t *testing.T) {
	r := &Result{}
	if r.Final() != nil {
		t.Errorf("expected nil final for empty trajectory")
	}
}
