package contact

import (
	"math"

	"github.com/san-kum/rodsim/internal/linalg"
	"github.com/san-kum/rodsim/internal/rod"
)

const lateralEps = 1e-12

// Friction applies anisotropic Coulomb friction on top of a resolved normal
// force. Axial friction acts along the element tangent, lateral friction
// along the unit direction n×t. Not safe for concurrent use.
type Friction struct {
	params FrictionParams
	normal *NormalContact
	ops    linalg.Batch

	normals  linalg.Vectors
	velocity linalg.Vectors
	lateral  linalg.Vectors
	force    linalg.Vectors
	slip     []float64
	factor   []float64
	load     []float64
	scalars  []float64
}

// NewFriction validates params and binds them to a normal contact resolver.
// A nil ops uses the resolver's backend.
func NewFriction(params FrictionParams, normal *NormalContact, ops linalg.Batch) (*Friction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if ops == nil {
		ops = normal.ops
	}
	return &Friction{params: params, normal: normal, ops: ops}, nil
}

func (f *Friction) Params() FrictionParams { return f.params }

func (f *Friction) ensure(n int) {
	if len(f.velocity) == n {
		return
	}
	f.normals = linalg.Fill(f.normal.plane.normal, n)
	f.velocity = linalg.NewVectors(n)
	f.lateral = linalg.NewVectors(n)
	f.force = linalg.NewVectors(n)
	f.slip = make([]float64, n)
	f.factor = make([]float64, n)
	f.load = make([]float64, n)
	f.scalars = make([]float64, n)
}

// ApplyKineticFriction resolves the normal contact force and then the
// kinetic friction it bounds, both accumulated into out.
func (f *Friction) ApplyKineticFriction(r *rod.Rod, out linalg.Vectors) error {
	nf, err := f.normal.Resolve(r, out)
	if err != nil {
		return err
	}
	return f.Kinetic(r, nf, out)
}

// ApplyStaticFriction resolves the normal contact force and then the static
// friction it bounds, both accumulated into out.
func (f *Friction) ApplyStaticFriction(r *rod.Rod, out linalg.Vectors) error {
	nf, err := f.normal.Resolve(r, out)
	if err != nil {
		return err
	}
	return f.Static(r, nf, out)
}

// Kinetic adds sliding friction for an already resolved normal force.
//
// Axially the coefficient depends on the slip sign: sliding head-to-tail
// (positive slip) uses the backward coefficient, tail-to-head the forward
// one. The force is -(1-s)·mu·|N|·sign(v)·dir, where s is the SlipFactor,
// so it vanishes for slip at or below the tolerance.
func (f *Friction) Kinetic(r *rod.Rod, nf *NormalForce, out linalg.Vectors) error {
	if err := f.prepare(r, nf, out); err != nil {
		return err
	}
	kin := f.params.Kinetic

	f.ops.Dot(f.velocity, r.Tangents, f.slip)
	f.kineticAlong(r.Tangents, nf, out, kin.axial)

	f.ops.Dot(f.velocity, f.lateral, f.slip)
	f.kineticAlong(f.lateral, nf, out, func(float64) float64 { return kin.Sideways })
	return nil
}

func (f *Friction) kineticAlong(dir linalg.Vectors, nf *NormalForce, out linalg.Vectors, mu func(sign float64) float64) {
	SlipFactors(f.slip, f.params.SlipVelocityTol, f.factor)
	for i, v := range f.slip {
		s := sign(v)
		f.scalars[i] = -(1 - f.factor[i]) * mu(s) * nf.Magnitude[i] * s
	}
	linalg.Scale(f.scalars, dir, f.force)
	linalg.Scatter(f.force, out)
}

// Static adds sticking friction for an already resolved normal force.
//
// Static friction cancels the pre-contact load component along each
// direction up to mu_s·|N|, weighted by the SlipFactor so that it fades out
// as kinetic friction takes over. The axial coefficient is picked by the
// direction the load pushes, not by any sliding velocity.
func (f *Friction) Static(r *rod.Rod, nf *NormalForce, out linalg.Vectors) error {
	if err := f.prepare(r, nf, out); err != nil {
		return err
	}
	st := f.params.Static

	f.ops.Dot(f.velocity, r.Tangents, f.slip)
	f.ops.Dot(nf.Load, r.Tangents, f.load)
	f.staticAlong(r.Tangents, nf, out, st.axial)

	f.ops.Dot(f.velocity, f.lateral, f.slip)
	f.ops.Dot(nf.Load, f.lateral, f.load)
	f.staticAlong(f.lateral, nf, out, func(float64) float64 { return st.Sideways })
	return nil
}

func (f *Friction) staticAlong(dir linalg.Vectors, nf *NormalForce, out linalg.Vectors, mu func(sign float64) float64) {
	SlipFactors(f.slip, f.params.SlipVelocityTol, f.factor)
	for i, l := range f.load {
		s := sign(l)
		limit := mu(s) * nf.Magnitude[i]
		f.scalars[i] = -f.factor[i] * s * math.Min(math.Abs(l), limit)
	}
	linalg.Scale(f.scalars, dir, f.force)
	linalg.Scatter(f.force, out)
}

// prepare fills the element velocities and lateral directions shared by the
// kinetic and static paths.
func (f *Friction) prepare(r *rod.Rod, nf *NormalForce, out linalg.Vectors) error {
	if err := r.Validate(); err != nil {
		return err
	}
	n := r.NumElements()
	if len(out) != n+1 {
		return accumulatorMismatch(len(out), n+1)
	}
	if len(nf.Magnitude) != n {
		return elementMismatch(len(nf.Magnitude), n)
	}
	f.ensure(n)

	linalg.Average(r.Velocities, f.velocity)
	f.ops.Cross(f.normals, r.Tangents, f.lateral)
	linalg.Normalize(f.lateral, lateralEps)
	return nil
}
