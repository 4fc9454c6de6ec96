package epi

import (
	"context"
	"fmt"
	"math"
)

// ConservationTolerance is the maximum compartment-sum drift a run may
// accumulate before a warning is attached to the result.
const ConservationTolerance = 1e-3

// rangeSlack distinguishes harmless numerical excursions outside [0,1]
// from genuine instability.
const rangeSlack = 1e-3

// Simulator integrates a System over a fixed time grid.
type Simulator struct {
	sys   System
	integ Integrator
}

func New(sys System, integ Integrator) *Simulator {
	return &Simulator{sys: sys, integ: integ}
}

// Run integrates from x0 over the grid 0, dt, 2dt, ..., Duration and
// samples every grid point. The run is deterministic: identical inputs
// produce identical trajectories.
//
// Numerical degradation (conservation drift, [0,1] excursions) is
// surfaced as warnings on the Result rather than an error, since the
// caller may still want the degraded trajectory.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	if cfg.MaxSteps > 0 && steps > cfg.MaxSteps {
		steps = cfg.MaxSteps
	}

	result := &Result{
		Times:  make([]float64, 0, steps+1),
		States: make([]State, 0, steps+1),
	}

	x := x0.Clone()
	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, 0)
	s.observe(result, x, 0)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt

		var next State
		var err error
		if cfg.Adaptive {
			next, err = s.adaptiveAdvance(x, t, cfg)
			if err != nil {
				return result, err
			}
		} else {
			next = s.integ.Step(s.sys, x, t, cfg.Dt)
		}

		if !next.IsValid() {
			return result, SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
		}

		x = next
		result.StepsTaken++
		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, float64(i+1)*cfg.Dt)
		s.observe(result, x, float64(i+1)*cfg.Dt)
	}

	if cfg.MaxSteps > 0 && float64(steps)*cfg.Dt < cfg.Duration {
		result.Warnings = append(result.Warnings, Warning{
			Kind:    WarnStepCapReached,
			Time:    float64(steps) * cfg.Dt,
			Message: fmt.Sprintf("stopped after %d steps, before t=%.4g", steps, cfg.Duration),
		})
	}

	return result, nil
}

// observe updates conservation bookkeeping for a new sample and attaches
// warnings on first violation.
func (s *Simulator) observe(result *Result, x State, t float64) {
	drift := math.Abs(x.Sum() - 1)
	if drift > result.ConservationDrift {
		result.ConservationDrift = drift
	}
	if drift > ConservationTolerance && !result.hasWarning(WarnConservationDrift) {
		result.Warnings = append(result.Warnings, Warning{
			Kind:    WarnConservationDrift,
			Time:    t,
			Message: fmt.Sprintf("compartment sum drifted by %.2e", drift),
		})
	}

	for i, v := range x {
		if v < -rangeSlack || v > 1+rangeSlack {
			if !result.hasWarning(WarnOutOfRange) {
				result.Warnings = append(result.Warnings, Warning{
					Kind:    WarnOutOfRange,
					Time:    t,
					Message: fmt.Sprintf("compartment %d left [0,1]: %.6f", i, v),
				})
			}
			break
		}
	}
}

func (r *Result) hasWarning(kind WarningKind) bool {
	for _, w := range r.Warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}

// adaptiveAdvance covers one grid interval [t, t+Dt] with adaptive
// substeps so the trajectory is still sampled exactly on the grid.
func (s *Simulator) adaptiveAdvance(x State, t float64, cfg Config) (State, error) {
	adaptive, ok := s.integ.(AdaptiveIntegrator)
	if !ok {
		return s.integ.Step(s.sys, x, t, cfg.Dt), nil
	}

	end := t + cfg.Dt
	h := cfg.Dt
	cur := x

	for t < end-1e-12 {
		if t+h > end {
			h = end - t
		}

		next, hNext, err := adaptive.StepAdaptive(s.sys, cur, t, h, cfg.Tolerance)
		if err != nil {
			return nil, err
		}

		cur = next
		t += h

		h = hNext
		if cfg.MaxDt > 0 && h > cfg.MaxDt {
			h = cfg.MaxDt
		}
		if h < cfg.MinDt {
			return nil, ErrStepTooSmall
		}
	}

	return cur, nil
}

func (s *Simulator) validate(x0 State, cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive for adaptive stepping")
	}
	if len(x0) != s.sys.Dim() {
		return fmt.Errorf("%w: state has %d components, system wants %d",
			ErrDimensionMismatch, len(x0), s.sys.Dim())
	}
	if !x0.IsValid() {
		return ErrInvalidState
	}
	return nil
}
