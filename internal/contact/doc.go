// Package contact computes the reaction forces between a rod and a rigid
// plane.
//
// Three pieces are layered, leaves first:
//
//   - [SlipFactor]: smooths the kinetic friction onset near zero slip
//   - [NormalContact]: one-sided penalty (spring + dashpot) contact force
//   - [Friction]: anisotropic Coulomb friction, kinetic and static, axial
//     and lateral, driven by the [NormalForce] the resolver produced
//
// [Model] composes one of each and plugs into the simulator as a force
// model. All kernels write into an explicit node accumulator so they can be
// exercised without a live simulation; element work goes through a
// [linalg.Batch] backend and only the final node scatter is serial.
package contact
