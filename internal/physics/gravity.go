package physics

import (
	"github.com/san-kum/rodsim/internal/rod"
	"gonum.org/v1/gonum/spatial/r3"
)

const StandardGravity = 9.81

type Gravity struct {
	G r3.Vec
}

// NewGravity returns standard gravity along -z.
func NewGravity() *Gravity {
	return &Gravity{G: r3.Vec{Z: -StandardGravity}}
}

func (g *Gravity) Name() string { return "gravity" }

func (g *Gravity) Apply(r *rod.Rod, _ float64) error {
	for i, m := range r.Masses {
		r.ExternalForces[i] = r3.Add(r.ExternalForces[i], r3.Scale(m, g.G))
	}
	return nil
}

func (g *Gravity) GetParams() map[string]float64 {
	return map[string]float64{"g": r3.Norm(g.G)}
}

// SetParam rescales the field strength, keeping its direction.
func (g *Gravity) SetParam(name string, value float64) error {
	if name != "g" {
		return unknownParam(name)
	}
	if n := r3.Norm(g.G); n > 0 {
		g.G = r3.Scale(value/n, g.G)
	} else {
		g.G = r3.Vec{Z: -value}
	}
	return nil
}
