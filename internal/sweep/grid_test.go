package sweep

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/episim/internal/experiment"
	"github.com/san-kum/episim/internal/models"
)

func TestRange(t *testing.T) {
	vals := Range(0.1, 0.5, 5)

	if len(vals) != 5 {
		t.Fatalf("expected 5 values, got %d", len(vals))
	}
	if vals[0] != 0.1 || math.Abs(vals[4]-0.5) > 1e-12 {
		t.Errorf("range endpoints wrong: %v", vals)
	}
	if math.Abs(vals[1]-0.2) > 1e-12 {
		t.Errorf("expected even spacing, got %v", vals)
	}

	single := Range(0.3, 0.9, 1)
	if len(single) != 1 || single[0] != 0.3 {
		t.Errorf("n=1 should return just the lower bound, got %v", single)
	}
}

func TestGridRun(t *testing.T) {
	grid := &Grid{
		Base: experiment.Request{
			Model:    models.SIR,
			Initial:  []float64{0.99, 0.01, 0},
			Duration: 50,
			Dt:       0.5,
		},
		Betas:  Range(0.2, 0.4, 3),
		Gammas: Range(0.1, 0.2, 2),
		Metric: "peak_infected",
	}

	points := grid.Run(context.Background())

	if len(points) != 6 {
		t.Fatalf("expected 6 points, got %d", len(points))
	}

	// Row-major: betas outer, gammas inner.
	if points[0].Beta != 0.2 || points[0].Gamma != 0.1 {
		t.Errorf("point 0 = (%v, %v), want (0.2, 0.1)", points[0].Beta, points[0].Gamma)
	}
	if points[1].Beta != 0.2 || math.Abs(points[1].Gamma-0.2) > 1e-12 {
		t.Errorf("point 1 = (%v, %v), want (0.2, 0.2)", points[1].Beta, points[1].Gamma)
	}

	for i, p := range points {
		if p.Err != nil {
			t.Errorf("point %d failed: %v", i, p.Err)
			continue
		}
		if !p.Metric.Defined {
			t.Errorf("point %d has undefined metric", i)
		}
	}
}

func TestGridRunSIWithoutGammas(t *testing.T) {
	grid := &Grid{
		Base: experiment.Request{
			Model:    models.SI,
			Initial:  []float64{0.99, 0.01},
			Duration: 50,
			Dt:       0.5,
		},
		Betas:  Range(0.1, 0.3, 3),
		Metric: "final_infected",
	}

	points := grid.Run(context.Background())

	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	for i, p := range points {
		if p.Err != nil {
			t.Errorf("point %d failed: %v", i, p.Err)
		}
	}
}

func TestBest(t *testing.T) {
	grid := &Grid{
		Base: experiment.Request{
			Model:    models.SIR,
			Initial:  []float64{0.99, 0.01, 0},
			Duration: 100,
			Dt:       0.5,
		},
		Betas:  Range(0.1, 0.5, 3),
		Gammas: []float64{0.1},
		Metric: "peak_infected",
	}

	points := grid.Run(context.Background())

	best, ok := Best(points, true)
	if !ok {
		t.Fatal("expected a defined best point")
	}

	// Higher beta means a higher epidemic peak at fixed gamma.
	if best.Beta != 0.5 {
		t.Errorf("best beta = %v, want 0.5", best.Beta)
	}

	worst, ok := Best(points, false)
	if !ok {
		t.Fatal("expected a defined worst point")
	}
	if worst.Beta != 0.1 {
		t.Errorf("min beta = %v, want 0.1", worst.Beta)
	}
}

func TestBestEmpty(t *testing.T) {
	if _, ok := Best(nil, true); ok {
		t.Error("no points should yield no best")
	}
}
