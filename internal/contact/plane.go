package contact

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DefaultSurfaceTol is the width of the geometric contact band.
	DefaultSurfaceTol = 1e-4

	unitNormalTol = 1e-9
)

// Plane is an immutable rigid contact surface.
type Plane struct {
	origin     r3.Vec
	normal     r3.Vec
	k          float64
	nu         float64
	surfaceTol float64
}

// NewPlane validates and builds a plane. The normal is not normalized for
// the caller: a non-unit normal is a configuration error.
func NewPlane(origin, normal r3.Vec, k, nu, surfaceTol float64) (Plane, error) {
	if l := r3.Norm(normal); math.Abs(l-1) > unitNormalTol {
		return Plane{}, fmt.Errorf("%w: |n| = %g", ErrNonUnitNormal, l)
	}
	if k < 0 || nu < 0 {
		return Plane{}, fmt.Errorf("%w: k=%g nu=%g", ErrNegativeCoefficient, k, nu)
	}
	if !(surfaceTol > 0) {
		return Plane{}, fmt.Errorf("%w: surface_tol=%g", ErrNonPositiveTolerance, surfaceTol)
	}
	return Plane{origin: origin, normal: normal, k: k, nu: nu, surfaceTol: surfaceTol}, nil
}

func (p Plane) Origin() r3.Vec      { return p.origin }
func (p Plane) Normal() r3.Vec      { return p.normal }
func (p Plane) Stiffness() float64  { return p.k }
func (p Plane) Damping() float64    { return p.nu }
func (p Plane) SurfaceTol() float64 { return p.surfaceTol }

// Distance returns the signed distance of x from the plane along its normal.
func (p Plane) Distance(x r3.Vec) float64 {
	return r3.Dot(p.normal, r3.Sub(x, p.origin))
}
