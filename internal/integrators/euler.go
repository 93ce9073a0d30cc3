package integrators

import (
	"github.com/san-kum/rodsim/internal/linalg"
	"github.com/san-kum/rodsim/internal/rod"
)

// SymplecticEuler updates velocities first, then positions with the new
// velocities. One force evaluation per step.
type SymplecticEuler struct {
	acc linalg.Vectors
}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (e *SymplecticEuler) Step(r *rod.Rod, eval func(*rod.Rod, float64) error, t, dt float64) error {
	if err := eval(r, t); err != nil {
		return err
	}
	resize(&e.acc, r.NumNodes())
	accelerations(r, e.acc)

	axpy(r, r.Velocities, dt, e.acc, r.Velocities)
	axpy(r, r.Positions, dt, r.Velocities, r.Positions)
	r.UpdateTangents()
	return nil
}
