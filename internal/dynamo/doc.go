// Package dynamo provides the core primitives shared by every ODE model.
//
// The package defines the fundamental types for numerical solution and
// qualitative analysis of low-dimensional autonomous systems:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X))
//   - [ClosedForm]: systems with an explicit solution x(t)
//   - [NonNegative]: systems whose components are counts
//   - [KnownEquilibria]: systems with analytically known equilibria
//   - [Trajectory]: time-ordered samples produced by a query
//   - [Region]: axis-aligned search rectangle plus grid resolution
//
// # Example
//
//	sys := systems.KindLotkaVolterra.New()
//	traj := sim.Trajectory(sys, sys.DefaultState(), 50, 0.01)
//	fps := analysis.FindFixedPoints(sys, dynamo.DefaultRegion())
//
// # Thread Safety
//
// Everything in the core is a pure function of its inputs. Systems are
// plain parameter records and may be shared between goroutines as long as
// nobody calls SetParam concurrently.
package dynamo
