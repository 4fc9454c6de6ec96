package epi

import (
	"fmt"
	"math"
)

// State is an ordered vector of compartment fractions. The compartment
// order is fixed by the model: (S, I) for two-compartment variants,
// (S, I, R) for three.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Sum returns the total population fraction. For a well-conditioned
// trajectory this stays at 1 within integration tolerance.
func (s State) Sum() float64 {
	total := 0.0
	for _, v := range s {
		total += v
	}
	return total
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is an autonomous ODE system over compartment fractions.
type System interface {
	Derive(x State, t float64) State
	Dim() int
	Compartments() []string
}

// Integrator advances a state vector by one step of size dt.
type Integrator interface {
	Step(sys System, x State, t float64, dt float64) State
}

// AdaptiveIntegrator additionally proposes the next step size from a
// local error estimate.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, t, dt, tol float64) (State, float64, error)
}

// Config describes the time grid and numerical policy for a run.
type Config struct {
	Dt        float64
	Duration  float64
	Tolerance float64
	MaxDt     float64
	MinDt     float64
	Adaptive  bool
	// MaxSteps bounds worst-case latency for extreme Duration/Dt
	// combinations. Zero means no cap.
	MaxSteps int
}

func DefaultConfig() Config {
	return Config{
		Dt:        0.1,
		Duration:  200.0,
		Tolerance: 1e-6,
		MaxDt:     1.0,
		MinDt:     1e-8,
		Adaptive:  false,
	}
}

// WarningKind labels a non-fatal numerical issue detected during a run.
type WarningKind string

const (
	WarnConservationDrift WarningKind = "conservation_drift"
	WarnOutOfRange        WarningKind = "out_of_range"
	WarnStepCapReached    WarningKind = "step_cap_reached"
)

// Warning is attached to a Result instead of failing the run; the
// caller may still want to inspect the degraded trajectory.
type Warning struct {
	Kind    WarningKind
	Time    float64
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s (t=%.4f): %s", w.Kind, w.Time, w.Message)
}

// Result is the trajectory produced by a run: one (time, state) sample
// per grid point, in time order. Immutable once returned.
type Result struct {
	Times  []float64
	States []State
	// ConservationDrift is max |sum(state) - 1| over all samples.
	ConservationDrift float64
	StepsTaken        int
	Warnings          []Warning
}

// Final returns the last sampled state, or nil for an empty trajectory.
func (r *Result) Final() State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

// Series extracts the time series of a single compartment.
func (r *Result) Series(idx int) []float64 {
	out := make([]float64, len(r.States))
	for i, s := range r.States {
		if idx < len(s) {
			out[i] = s[idx]
		}
	}
	return out
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
