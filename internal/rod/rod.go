// Package rod holds the discretized state of a single elastic rod: N straight
// elements joined at N+1 nodes.
//
// Node arrays (positions, velocities, masses, force accumulators) have N+1
// entries; element arrays (tangents, radii, rest lengths) have N. Forces are
// only ever added into the accumulators; ResetForces clears them at the start
// of each force evaluation.
package rod

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/rodsim/internal/dynamo"
	"github.com/san-kum/rodsim/internal/linalg"
)

type Rod struct {
	Positions  linalg.Vectors
	Velocities linalg.Vectors
	Masses     []float64

	Tangents    linalg.Vectors
	Radii       []float64
	RestLengths []float64

	InternalForces linalg.Vectors
	ExternalForces linalg.Vectors
}

// NewStraight builds a rod of n elements from start along direction.
// Mass is spread evenly, end nodes carry half an element's share.
func NewStraight(n int, start, direction r3.Vec, length, radius, mass float64) (*Rod, error) {
	if n < 1 {
		return nil, fmt.Errorf("rod: need at least one element, got %d: %w", n, dynamo.ErrParameterBounds)
	}
	if length <= 0 || radius < 0 || mass <= 0 {
		return nil, fmt.Errorf("rod: length=%g radius=%g mass=%g: %w", length, radius, mass, dynamo.ErrParameterBounds)
	}
	dirNorm := r3.Norm(direction)
	if dirNorm == 0 {
		return nil, fmt.Errorf("rod: zero direction: %w", dynamo.ErrParameterBounds)
	}
	t := r3.Scale(1/dirNorm, direction)
	dl := length / float64(n)
	dm := mass / float64(n)

	r := &Rod{
		Positions:      linalg.NewVectors(n + 1),
		Velocities:     linalg.NewVectors(n + 1),
		Masses:         make([]float64, n+1),
		Tangents:       linalg.Fill(t, n),
		Radii:          make([]float64, n),
		RestLengths:    make([]float64, n),
		InternalForces: linalg.NewVectors(n + 1),
		ExternalForces: linalg.NewVectors(n + 1),
	}

	for i := range r.Positions {
		r.Positions[i] = r3.Add(start, r3.Scale(float64(i)*dl, t))
	}
	for i := 0; i < n; i++ {
		r.Radii[i] = radius
		r.RestLengths[i] = dl
		r.Masses[i] += 0.5 * dm
		r.Masses[i+1] += 0.5 * dm
	}

	return r, nil
}

func (r *Rod) NumElements() int { return len(r.Tangents) }
func (r *Rod) NumNodes() int    { return len(r.Positions) }

// Validate checks array alignment and finiteness.
func (r *Rod) Validate() error {
	n := len(r.Tangents)
	if n < 1 {
		return fmt.Errorf("rod: no elements: %w", dynamo.ErrDimensionMismatch)
	}

	nodeArrays := []struct {
		name string
		len  int
	}{
		{"positions", len(r.Positions)},
		{"velocities", len(r.Velocities)},
		{"masses", len(r.Masses)},
		{"internal forces", len(r.InternalForces)},
		{"external forces", len(r.ExternalForces)},
	}
	for _, a := range nodeArrays {
		if a.len != n+1 {
			return fmt.Errorf("rod: %s has %d entries, want %d: %w", a.name, a.len, n+1, dynamo.ErrDimensionMismatch)
		}
	}
	if len(r.Radii) != n {
		return fmt.Errorf("rod: radii has %d entries, want %d: %w", len(r.Radii), n, dynamo.ErrDimensionMismatch)
	}
	if r.RestLengths != nil && len(r.RestLengths) != n {
		return fmt.Errorf("rod: rest lengths has %d entries, want %d: %w", len(r.RestLengths), n, dynamo.ErrDimensionMismatch)
	}

	vectors := []struct {
		name string
		v    linalg.Vectors
	}{
		{"positions", r.Positions},
		{"velocities", r.Velocities},
		{"tangents", r.Tangents},
		{"internal forces", r.InternalForces},
		{"external forces", r.ExternalForces},
	}
	for _, a := range vectors {
		if !a.v.IsFinite() {
			return fmt.Errorf("rod: non-finite %s: %w", a.name, dynamo.ErrInvalidState)
		}
	}
	scalars := []struct {
		name string
		v    []float64
	}{
		{"masses", r.Masses},
		{"radii", r.Radii},
		{"rest lengths", r.RestLengths},
	}
	for _, a := range scalars {
		for _, x := range a.v {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return fmt.Errorf("rod: non-finite %s: %w", a.name, dynamo.ErrInvalidState)
			}
		}
	}
	return nil
}

// UpdateTangents recomputes unit element tangents from node positions.
// A degenerate (zero-length) element keeps its previous tangent.
func (r *Rod) UpdateTangents() {
	for i := range r.Tangents {
		d := r3.Sub(r.Positions[i+1], r.Positions[i])
		if l := r3.Norm(d); l > 0 {
			r.Tangents[i] = r3.Scale(1/l, d)
		}
	}
}

func (r *Rod) ResetForces() {
	r.InternalForces.Zero()
	r.ExternalForces.Zero()
}

// NetForces writes internal+external force per node into out.
func (r *Rod) NetForces(out linalg.Vectors) {
	linalg.Add(r.InternalForces, r.ExternalForces, out)
}

func (r *Rod) TotalMass() float64 {
	m := 0.0
	for _, mi := range r.Masses {
		m += mi
	}
	return m
}

func (r *Rod) CenterOfMass() r3.Vec {
	return r.weightedMean(r.Positions)
}

func (r *Rod) Velocity() r3.Vec {
	return r.weightedMean(r.Velocities)
}

func (r *Rod) weightedMean(v linalg.Vectors) r3.Vec {
	var s r3.Vec
	m := 0.0
	for i, p := range v {
		s = r3.Add(s, r3.Scale(r.Masses[i], p))
		m += r.Masses[i]
	}
	if m == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/m, s)
}

func (r *Rod) KineticEnergy() float64 {
	e := 0.0
	for i, v := range r.Velocities {
		e += 0.5 * r.Masses[i] * r3.Dot(v, v)
	}
	return e
}

// Length returns the current arc length.
func (r *Rod) Length() float64 {
	l := 0.0
	for i := 0; i+1 < len(r.Positions); i++ {
		l += r3.Norm(r3.Sub(r.Positions[i+1], r.Positions[i]))
	}
	return l
}

func (r *Rod) Clone() *Rod {
	c := &Rod{
		Positions:      r.Positions.Clone(),
		Velocities:     r.Velocities.Clone(),
		Masses:         append([]float64(nil), r.Masses...),
		Tangents:       r.Tangents.Clone(),
		Radii:          append([]float64(nil), r.Radii...),
		InternalForces: r.InternalForces.Clone(),
		ExternalForces: r.ExternalForces.Clone(),
	}
	if r.RestLengths != nil {
		c.RestLengths = append([]float64(nil), r.RestLengths...)
	}
	return c
}

// SetVelocity assigns v to every node.
func (r *Rod) SetVelocity(v r3.Vec) {
	for i := range r.Velocities {
		r.Velocities[i] = v
	}
}
