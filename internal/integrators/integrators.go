// Package integrators advances rod node positions and velocities in time.
//
// Every integrator calls eval to refill the rod's force accumulators before
// reading them, and re-normalizes element tangents after moving the nodes.
// Nodes with zero mass are pinned: they neither move nor accelerate.
package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/rodsim/internal/dynamo"
	"github.com/san-kum/rodsim/internal/linalg"
	"github.com/san-kum/rodsim/internal/rod"
	"github.com/san-kum/rodsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

var registry = map[string]func() sim.Integrator{
	"euler":  func() sim.Integrator { return NewSymplecticEuler() },
	"verlet": func() sim.Integrator { return NewVelocityVerlet() },
	"rk4":    func() sim.Integrator { return NewRK4() },
}

// New returns a fresh integrator by name.
func New(name string) (sim.Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator %q (available: %v): %w", name, Names(), dynamo.ErrParameterBounds)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// accelerations writes (internal+external)/m per node into out.
func accelerations(r *rod.Rod, out linalg.Vectors) {
	for i, m := range r.Masses {
		if m <= 0 {
			out[i] = r3.Vec{}
			continue
		}
		f := r3.Add(r.InternalForces[i], r.ExternalForces[i])
		out[i] = r3.Scale(1/m, f)
	}
}

// axpy writes x + a·y into out for every non-pinned node.
func axpy(r *rod.Rod, x linalg.Vectors, a float64, y, out linalg.Vectors) {
	for i := range out {
		if r.Masses[i] <= 0 {
			out[i] = x[i]
			continue
		}
		out[i] = r3.Add(x[i], r3.Scale(a, y[i]))
	}
}

func resize(v *linalg.Vectors, n int) {
	if len(*v) != n {
		*v = linalg.NewVectors(n)
	}
}
