package epi

import "errors"

// Domain errors for simulation operations.
var (
	// ErrZeroInitial indicates all raw initial fractions are zero (or
	// sum to a non-positive value), so normalization is undefined.
	ErrZeroInitial = errors.New("epi: invalid initial condition (fractions sum to zero)")

	// ErrInvalidState indicates a state vector with NaN or Inf values.
	ErrInvalidState = errors.New("epi: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates the initial state does not match
	// the model's compartment count.
	ErrDimensionMismatch = errors.New("epi: dimension mismatch between state and system")

	// ErrStepTooSmall indicates the adaptive timestep fell below minimum.
	ErrStepTooSmall = errors.New("epi: adaptive timestep below minimum")
)
