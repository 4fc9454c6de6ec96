// Package experiment exposes the simulation engine as one explicit pure
// function: Simulate(request) -> response. Presentation layers supply a
// Request and consume the trajectory plus statistics; recomputation
// policy (memoize, rerun) is theirs, not the engine's.
package experiment

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/episim/internal/epi"
	"github.com/san-kum/episim/internal/models"
	"github.com/san-kum/episim/internal/stats"
)

// Request fully determines one simulation. Initial holds raw
// compartment fractions in model order; they need not sum to 1.
type Request struct {
	Model      models.Kind
	Initial    []float64
	Beta       float64
	Gamma      float64
	Duration   float64
	Dt         float64
	Integrator string
	Adaptive   bool
	MaxSteps   int
}

// Key returns a canonical string identifying the request value, used
// for caller-side memoization.
func (r Request) Key() string {
	var b strings.Builder
	b.WriteString(string(r.Model))
	for _, v := range r.Initial {
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	for _, v := range []float64{r.Beta, r.Gamma, r.Duration, r.Dt} {
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	b.WriteByte('|')
	b.WriteString(r.Integrator)
	if r.Adaptive {
		b.WriteString("|a")
	}
	return b.String()
}

// Response pairs the trajectory with its derived statistics. Numerical
// warnings ride on the trajectory.
type Response struct {
	Model      *models.Compartmental
	Trajectory *epi.Result
	Stats      *stats.Record
}

// Simulate runs the full pipeline: normalize initial fractions, build
// the model, integrate over the time grid, derive statistics. It is a
// pure function of the request; identical requests produce identical
// responses.
func Simulate(ctx context.Context, req Request) (*Response, error) {
	if req.Duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %g", req.Duration)
	}
	if req.Dt <= 0 {
		return nil, fmt.Errorf("dt must be positive, got %g", req.Dt)
	}

	model, err := models.New(req.Model, req.Beta, req.Gamma)
	if err != nil {
		return nil, err
	}

	if len(req.Initial) != model.Dim() {
		return nil, fmt.Errorf("%w: %s wants %d fractions, got %d",
			epi.ErrDimensionMismatch, req.Model, model.Dim(), len(req.Initial))
	}

	x0, err := epi.Normalize(req.Initial)
	if err != nil {
		return nil, err
	}

	name := req.Integrator
	if name == "" {
		name = "rk4"
	}
	integ, err := NewRegistry().GetIntegrator(name)
	if err != nil {
		return nil, err
	}

	cfg := epi.DefaultConfig()
	cfg.Dt = req.Dt
	cfg.Duration = req.Duration
	cfg.Adaptive = req.Adaptive
	cfg.MaxSteps = req.MaxSteps

	result, err := epi.New(model, integ).Run(ctx, x0, cfg)
	if err != nil {
		return nil, err
	}

	record, err := stats.Analyze(model, result)
	if err != nil {
		return nil, err
	}

	return &Response{Model: model, Trajectory: result, Stats: record}, nil
}
