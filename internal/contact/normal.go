package contact

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/rodsim/internal/dynamo"
	"github.com/san-kum/rodsim/internal/linalg"
	"github.com/san-kum/rodsim/internal/rod"
)

// NormalForce is the per-element outcome of one normal contact resolution.
// Every slice has one entry per element and is reused across calls.
type NormalForce struct {
	// Reaction is the one-sided reaction to the load pressing the element
	// into the plane. Zero off contact. Friction is bounded by its norm.
	Reaction linalg.Vectors
	// Applied is Reaction plus the elastic and damping terms: the vector
	// split onto the element's nodes.
	Applied linalg.Vectors
	// Load is the element-averaged internal+external force seen before any
	// contact force was added.
	Load linalg.Vectors

	Magnitude   []float64
	Distance    []float64
	Penetration []float64
	InContact   []bool
}

func (nf *NormalForce) resize(n int) {
	if len(nf.Reaction) == n {
		return
	}
	*nf = NormalForce{
		Reaction:    linalg.NewVectors(n),
		Applied:     linalg.NewVectors(n),
		Load:        linalg.NewVectors(n),
		Magnitude:   make([]float64, n),
		Distance:    make([]float64, n),
		Penetration: make([]float64, n),
		InContact:   make([]bool, n),
	}
}

// Contacts returns the number of elements within the contact band.
func (nf *NormalForce) Contacts() int {
	c := 0
	for _, in := range nf.InContact {
		if in {
			c++
		}
	}
	return c
}

// NormalContact resolves penalty contact between a rod and a plane.
// A NormalContact owns scratch buffers and is not safe for concurrent use.
type NormalContact struct {
	plane Plane
	ops   linalg.Batch

	normals  linalg.Vectors
	nodeTmp  linalg.Vectors
	elemTmp  linalg.Vectors
	elastic  linalg.Vectors
	damping  linalg.Vectors
	scalars  []float64
	velocity []float64
	result   NormalForce
}

// NewNormalContact builds a resolver. A nil ops uses linalg.Serial.
func NewNormalContact(plane Plane, ops linalg.Batch) *NormalContact {
	if ops == nil {
		ops = linalg.Serial{}
	}
	return &NormalContact{plane: plane, ops: ops}
}

func (c *NormalContact) Plane() Plane { return c.plane }

func (c *NormalContact) ensure(n int) {
	if len(c.normals) == n {
		return
	}
	c.normals = linalg.Fill(c.plane.normal, n)
	c.nodeTmp = linalg.NewVectors(n + 1)
	c.elemTmp = linalg.NewVectors(n)
	c.elastic = linalg.NewVectors(n)
	c.damping = linalg.NewVectors(n)
	c.scalars = make([]float64, n)
	c.velocity = make([]float64, n)
	c.result.resize(n)
}

// Resolve computes the normal contact force of every element, adds it half
// onto each bounding node of out and returns the per-element breakdown.
//
// out must have one entry per node; it may be r.ExternalForces. The returned
// value aliases internal buffers and is valid until the next call.
func (c *NormalContact) Resolve(r *rod.Rod, out linalg.Vectors) (*NormalForce, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if len(out) != r.NumNodes() {
		return nil, accumulatorMismatch(len(out), r.NumNodes())
	}

	n := r.NumElements()
	c.ensure(n)
	nf := &c.result
	p := c.plane

	// signed distance of element midpoints
	linalg.Average(r.Positions, c.elemTmp)
	for i := range c.elemTmp {
		c.elemTmp[i] = r3.Sub(c.elemTmp[i], p.origin)
	}
	c.ops.Dot(c.normals, c.elemTmp, nf.Distance)
	for i, d := range nf.Distance {
		nf.InContact[i] = d <= p.surfaceTol
	}

	// pre-existing load, projected on the normal; only the part pressing
	// into the plane gets a reaction
	r.NetForces(c.nodeTmp)
	linalg.Average(c.nodeTmp, nf.Load)
	c.ops.Dot(c.normals, nf.Load, c.scalars)
	for i, fn := range c.scalars {
		if fn > 0 || !nf.InContact[i] {
			c.scalars[i] = 0
		} else {
			c.scalars[i] = -fn
		}
	}
	c.ops.Outer(p.normal, c.scalars, nf.Reaction)
	linalg.Norms(nf.Reaction, nf.Magnitude)

	// penalty spring on overlap
	for i, d := range nf.Distance {
		nf.Penetration[i] = math.Min(d-r.Radii[i], 0)
		c.scalars[i] = -p.k * nf.Penetration[i]
	}
	c.ops.Outer(p.normal, c.scalars, c.elastic)

	// dashpot on normal velocity
	linalg.Average(r.Velocities, c.elemTmp)
	c.ops.Dot(c.normals, c.elemTmp, c.velocity)
	for i, v := range c.velocity {
		c.scalars[i] = -p.nu * v
	}
	c.ops.Outer(p.normal, c.scalars, c.damping)

	linalg.Add(nf.Reaction, c.elastic, nf.Applied)
	linalg.Add(nf.Applied, c.damping, nf.Applied)

	linalg.Scatter(nf.Applied, out)
	return nf, nil
}

func accumulatorMismatch(got, want int) error {
	return fmt.Errorf("contact: accumulator has %d nodes, rod has %d: %w", got, want, dynamo.ErrDimensionMismatch)
}

func elementMismatch(got, want int) error {
	return fmt.Errorf("contact: normal force has %d elements, rod has %d: %w", got, want, dynamo.ErrDimensionMismatch)
}
