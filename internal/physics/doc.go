// Package physics provides the body forces that drive a rod through a
// simulation: gravity, axial stretching of the elements and a constant push.
//
// Each force implements the simulator's force model interface,
// Apply(r *rod.Rod, t float64) error, and only adds into the rod's force
// accumulators. Bending and twisting are not modelled.
//
//   - [Gravity]: m·g on every node (external)
//   - [Stretch]: linear axial spring and dashpot per element (internal),
//     optionally with a travelling rest-length wave
//   - [Push]: a constant total force spread over the nodes (external)
//
// Forces implementing GetParams/SetParam can be tuned at runtime:
//
//	s := physics.NewStretch(500, 1)
//	s.SetParam("amplitude", 0.1)
package physics
