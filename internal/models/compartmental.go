// Package models implements the compartmental epidemic model family.
//
// SI, SIS and SIR share the mass-action infection term beta*S*I and
// differ only in how the recovery term gamma*I is routed: nowhere (SI),
// back into S (SIS), or into a separate immune compartment R (SIR).
// A single Compartmental type parameterized by two booleans covers all
// three, so the shared term cannot drift between variants.
package models

import (
	"fmt"

	"github.com/san-kum/episim/internal/epi"
)

// Kind selects a model variant.
type Kind string

const (
	SI  Kind = "si"
	SIS Kind = "sis"
	SIR Kind = "sir"
)

// Kinds lists the supported variants in presentation order.
func Kinds() []Kind {
	return []Kind{SI, SIS, SIR}
}

// ParseKind maps a model name to its Kind.
func ParseKind(name string) (Kind, error) {
	switch Kind(name) {
	case SI, SIS, SIR:
		return Kind(name), nil
	}
	return "", fmt.Errorf("unknown model: %s", name)
}

// Compartmental is the generalized mass-action model.
//
// Parameters are meaningful for Beta, Gamma > 0; the model does not
// reject values outside that range, but behavior degenerates (Gamma=0
// collapses SIR onto SI).
type Compartmental struct {
	Variant Kind
	Beta    float64
	Gamma   float64

	recovers bool
	immunity bool
}

// NewSI builds the susceptible-infected model: no recovery, infection
// is permanent.
func NewSI(beta float64) *Compartmental {
	return &Compartmental{Variant: SI, Beta: beta}
}

// NewSIS builds the susceptible-infected-susceptible model: recovered
// individuals re-enter S with no immunity.
func NewSIS(beta, gamma float64) *Compartmental {
	return &Compartmental{Variant: SIS, Beta: beta, Gamma: gamma, recovers: true}
}

// NewSIR builds the susceptible-infected-recovered model: recovery
// grants permanent immunity via the R compartment.
func NewSIR(beta, gamma float64) *Compartmental {
	return &Compartmental{Variant: SIR, Beta: beta, Gamma: gamma, recovers: true, immunity: true}
}

// New dispatches on kind. Gamma is ignored for SI.
func New(kind Kind, beta, gamma float64) (*Compartmental, error) {
	switch kind {
	case SI:
		return NewSI(beta), nil
	case SIS:
		return NewSIS(beta, gamma), nil
	case SIR:
		return NewSIR(beta, gamma), nil
	}
	return nil, fmt.Errorf("unknown model: %s", kind)
}

func (m *Compartmental) Dim() int {
	if m.immunity {
		return 3
	}
	return 2
}

func (m *Compartmental) Compartments() []string {
	if m.immunity {
		return []string{"S", "I", "R"}
	}
	return []string{"S", "I"}
}

// Derive computes d(state)/dt. The derivatives sum to zero exactly for
// every variant and parameter value: total fraction is conserved
// structurally, not just numerically.
func (m *Compartmental) Derive(x epi.State, t float64) epi.State {
	s, i := x[0], x[1]

	infection := m.Beta * s * i
	recovery := 0.0
	if m.recovers {
		recovery = m.Gamma * i
	}

	if m.immunity {
		return epi.State{-infection, infection - recovery, recovery}
	}
	return epi.State{-infection + recovery, infection - recovery}
}

// R0 returns the basic reproduction number beta/gamma. The second
// return is false when R0 is undefined: SI has no recovery, and
// gamma=0 would divide by zero.
func (m *Compartmental) R0() (float64, bool) {
	if !m.recovers || m.Gamma == 0 {
		return 0, false
	}
	return m.Beta / m.Gamma, true
}

// EndemicEquilibrium returns the theoretical steady-state infected
// fraction I* = max(0, 1 - 1/R0) for SIS. The second return is false
// when R0 is undefined or the variant has no endemic state.
func (m *Compartmental) EndemicEquilibrium() (float64, bool) {
	if m.Variant != SIS {
		return 0, false
	}
	r0, ok := m.R0()
	if !ok {
		return 0, false
	}
	eq := 1 - 1/r0
	if eq < 0 {
		eq = 0
	}
	return eq, true
}

// HerdImmunityThreshold returns 1 - 1/R0 for SIR when R0 > 1; false
// otherwise ("not applicable").
func (m *Compartmental) HerdImmunityThreshold() (float64, bool) {
	if m.Variant != SIR {
		return 0, false
	}
	r0, ok := m.R0()
	if !ok || r0 <= 1 {
		return 0, false
	}
	return 1 - 1/r0, true
}

// GetParams exposes tunable parameters for interactive adjustment.
func (m *Compartmental) GetParams() map[string]float64 {
	params := map[string]float64{"beta": m.Beta}
	if m.recovers {
		params["gamma"] = m.Gamma
	}
	return params
}

// SetParam updates a tunable parameter by name.
func (m *Compartmental) SetParam(name string, value float64) error {
	switch name {
	case "beta":
		m.Beta = value
	case "gamma":
		if !m.recovers {
			return fmt.Errorf("model %s has no gamma parameter", m.Variant)
		}
		m.Gamma = value
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}
