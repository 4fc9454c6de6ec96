// Package epi provides core primitives for compartmental epidemic
// simulation.
//
// The package defines the fundamental interfaces and types for numerical
// integration of compartmental ODE models:
//
//   - [State]: vector of compartment fractions (S, I, and optionally R)
//   - [System]: interface for autonomous ODE systems (dX/dt = f(X, t))
//   - [Integrator]: numerical stepper interface
//   - [Simulator]: walks a fixed time grid and records the trajectory
//
// # Example
//
//	model := models.NewSIR(0.3, 0.1)
//	integ := integrators.NewRK4()
//	sim := epi.New(model, integ)
//	result, _ := sim.Run(ctx, x0, cfg)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe, but every Run is a pure
// function of its inputs: independent simulations may execute in
// parallel with no coordination by giving each goroutine its own
// Simulator.
package epi
