package integrators

import (
	"github.com/san-kum/rodsim/internal/linalg"
	"github.com/san-kum/rodsim/internal/rod"
)

// VelocityVerlet is the kick-drift-kick scheme. Forces at the end of the
// step are evaluated with the half-step velocity, which is what the contact
// dashpot and friction see.
type VelocityVerlet struct {
	acc linalg.Vectors
}

func NewVelocityVerlet() *VelocityVerlet {
	return &VelocityVerlet{}
}

func (v *VelocityVerlet) Step(r *rod.Rod, eval func(*rod.Rod, float64) error, t, dt float64) error {
	n := r.NumNodes()
	resize(&v.acc, n)
	halfDt := 0.5 * dt

	if err := eval(r, t); err != nil {
		return err
	}
	accelerations(r, v.acc)

	axpy(r, r.Velocities, halfDt, v.acc, r.Velocities)
	axpy(r, r.Positions, dt, r.Velocities, r.Positions)
	r.UpdateTangents()

	if err := eval(r, t+dt); err != nil {
		return err
	}
	accelerations(r, v.acc)
	axpy(r, r.Velocities, halfDt, v.acc, r.Velocities)
	return nil
}
