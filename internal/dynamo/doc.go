// Package dynamo provides the ODE primitives behind the robot simulator.
//
//   - [State]: vector representing plant state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: fixed-step numerical integrator
//
// # Example
//
//	plant := sim.NewPlant(params)
//	integ := integrators.NewRK4()
//	x = integ.Step(plant, x, u, t, dt)
//
// Integrators keep scratch buffers and are NOT thread-safe; give each
// simulated robot its own.
package dynamo
