package physics

import (
	"github.com/san-kum/rodsim/internal/rod"
	"gonum.org/v1/gonum/spatial/r3"
)

// Push applies a constant total force F, split evenly over the nodes,
// between Start and Stop (Stop <= Start means no end).
type Push struct {
	F           r3.Vec
	Start, Stop float64
}

func (p *Push) Name() string { return "push" }

func (p *Push) Apply(r *rod.Rod, t float64) error {
	if t < p.Start || (p.Stop > p.Start && t >= p.Stop) {
		return nil
	}
	f := r3.Scale(1/float64(r.NumNodes()), p.F)
	for i := range r.ExternalForces {
		r.ExternalForces[i] = r3.Add(r.ExternalForces[i], f)
	}
	return nil
}
