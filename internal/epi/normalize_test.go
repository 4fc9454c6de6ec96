package epi

import (
	"errors"
	"math"
	"testing"
)

func TestNormalizeRescales(t *testing.T) {
	out, err := Normalize([]float64{2, 2})
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	if out[0] != 0.5 || out[1] != 0.5 {
		t.Errorf("expected (0.5, 0.5), got (%v, %v)", out[0], out[1])
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := []float64{0.7, 0.2, 0.1}

	out, err := Normalize(raw)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	// Already unit-sum: values pass through bit-identical.
	for i := range raw {
		if out[i] != raw[i] {
			t.Errorf("component %d changed: %v -> %v", i, raw[i], out[i])
		}
	}

	again, err := Normalize(out)
	if err != nil {
		t.Fatalf("second normalize failed: %v", err)
	}
	for i := range out {
		if again[i] != out[i] {
			t.Errorf("not idempotent at %d: %v -> %v", i, out[i], again[i])
		}
	}
}

func TestNormalizeSmallDriftPassesThrough(t *testing.T) {
	// Within the 0.01 tolerance: do not force-correct.
	raw := []float64{0.99, 0.005}

	out, err := Normalize(raw)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	if out[0] != 0.99 || out[1] != 0.005 {
		t.Errorf("tiny drift was corrected: got (%v, %v)", out[0], out[1])
	}
}

func TestNormalizeLargeDriftRescaled(t *testing.T) {
	out, err := Normalize([]float64{90, 9, 1})
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	if math.Abs(out.Sum()-1) > 1e-12 {
		t.Errorf("sum after rescale = %v, want 1", out.Sum())
	}
	if math.Abs(out[0]-0.9) > 1e-12 {
		t.Errorf("expected 0.9, got %v", out[0])
	}
}

func TestNormalizeZeroSum(t *testing.T) {
	_, err := Normalize([]float64{0, 0})
	if !errors.Is(err, ErrZeroInitial) {
		t.Errorf("expected ErrZeroInitial, got %v", err)
	}

	_, err = Normalize([]float64{0, 0, 0})
	if !errors.Is(err, ErrZeroInitial) {
		t.Errorf("expected ErrZeroInitial for 3 zeros, got %v", err)
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	raw := []float64{3, 1}

	_, err := Normalize(raw)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	if raw[0] != 3 || raw[1] != 1 {
		t.Errorf("input mutated: %v", raw)
	}
}
