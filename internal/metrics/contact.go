package metrics

import (
	"github.com/san-kum/rodsim/internal/contact"
	"github.com/san-kum/rodsim/internal/linalg"
	"github.com/san-kum/rodsim/internal/rod"
	"gonum.org/v1/gonum/floats"
)

// elementGaps holds the signed midpoint distance of every element from
// the plane and the same distance less the element radius.
type elementGaps struct {
	plane contact.Plane
	mid   linalg.Vectors
	dist  []float64
	gaps  []float64
}

func (g *elementGaps) update(r *rod.Rod) {
	n := r.NumElements()
	if len(g.mid) != n {
		g.mid = linalg.NewVectors(n)
		g.dist = make([]float64, n)
		g.gaps = make([]float64, n)
	}
	linalg.Average(r.Positions, g.mid)
	for i, p := range g.mid {
		g.dist[i] = g.plane.Distance(p)
	}
	floats.SubTo(g.gaps, g.dist, r.Radii)
}

// MaxPenetration is the deepest overlap of any element with the plane over
// the run. Zero if the rod never touched it.
type MaxPenetration struct {
	name string
	elementGaps
	max float64
}

func NewMaxPenetration(plane contact.Plane) *MaxPenetration {
	return &MaxPenetration{
		name:        "max_penetration",
		elementGaps: elementGaps{plane: plane},
	}
}

func (m *MaxPenetration) Name() string { return m.name }

func (m *MaxPenetration) Observe(r *rod.Rod, t float64) {
	if r.NumElements() == 0 {
		return
	}
	m.update(r)
	if depth := -floats.Min(m.gaps); depth > m.max {
		m.max = depth
	}
}

func (m *MaxPenetration) Value() float64 { return m.max }
func (m *MaxPenetration) Reset()         { m.max = 0 }

// ContactFraction is the time-averaged share of elements inside the
// contact band of the plane.
type ContactFraction struct {
	name string
	elementGaps
	samples int
	total   float64
}

func NewContactFraction(plane contact.Plane) *ContactFraction {
	return &ContactFraction{
		name:        "contact_fraction",
		elementGaps: elementGaps{plane: plane},
	}
}

func (c *ContactFraction) Name() string { return c.name }

func (c *ContactFraction) Observe(r *rod.Rod, t float64) {
	if r.NumElements() == 0 {
		return
	}
	c.update(r)
	touching := 0
	for _, d := range c.dist {
		if d <= c.plane.SurfaceTol() {
			touching++
		}
	}
	c.total += float64(touching) / float64(len(c.dist))
	c.samples++
}

func (c *ContactFraction) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.total / float64(c.samples)
}

func (c *ContactFraction) Reset() {
	c.total = 0
	c.samples = 0
}
