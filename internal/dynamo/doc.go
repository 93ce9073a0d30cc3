// Package dynamo provides the shared primitives of the rod simulation.
//
// The package is a leaf: every other internal package may import it, it
// imports nothing from the module. It defines:
//
//   - sentinel errors shared across packages ([ErrDimensionMismatch],
//     [ErrInvalidState], [ErrParameterBounds], ...)
//   - [SimulationError]: an error annotated with the step and time it
//     occurred at
//   - [ParallelFor]: chunked fan-out over an index range
//
// # Thread Safety
//
// All functions are safe for concurrent use. [ParallelFor] blocks until every
// chunk has returned.
package dynamo
