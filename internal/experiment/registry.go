package experiment

import (
	"fmt"

	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/contact"
	"github.com/san-kum/rodsim/internal/dynamo"
	"github.com/san-kum/rodsim/internal/integrators"
	"github.com/san-kum/rodsim/internal/metrics"
	"github.com/san-kum/rodsim/internal/physics"
	"github.com/san-kum/rodsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

// ForceBuilder returns the force a config asks for, or nil when the config
// leaves it disabled.
type ForceBuilder func(cfg *config.Config) sim.ForceModel

// Registry maps driver force names to builders. Forces are built in
// registration order, which is also the order they are applied in; plane
// contact is always appended last by Experiment.
type Registry struct {
	order  []string
	forces map[string]ForceBuilder
}

func NewRegistry() *Registry {
	r := &Registry{forces: make(map[string]ForceBuilder)}

	r.Register("gravity", func(cfg *config.Config) sim.ForceModel {
		g := cfg.Forces.Gravity.R3()
		if g == (r3.Vec{}) {
			return nil
		}
		return &physics.Gravity{G: g}
	})
	r.Register("stretch", func(cfg *config.Config) sim.ForceModel {
		sc := cfg.Forces.Stretch
		if sc.Stiffness == 0 && sc.Damping == 0 {
			return nil
		}
		s := physics.NewStretch(sc.Stiffness, sc.Damping)
		s.Amplitude = sc.Amplitude
		s.Frequency = sc.Frequency
		if sc.WaveNumber != 0 {
			s.WaveNumber = sc.WaveNumber
		}
		return s
	})
	r.Register("push", func(cfg *config.Config) sim.ForceModel {
		pc := cfg.Forces.Push
		if pc.Force.R3() == (r3.Vec{}) {
			return nil
		}
		return &physics.Push{F: pc.Force.R3(), Start: pc.Start, Stop: pc.Stop}
	})

	return r
}

// Register adds or replaces a force builder.
func (r *Registry) Register(name string, fn ForceBuilder) {
	if _, ok := r.forces[name]; !ok {
		r.order = append(r.order, name)
	}
	r.forces[name] = fn
}

func (r *Registry) BuildForces(cfg *config.Config) []sim.ForceModel {
	forces := make([]sim.ForceModel, 0, len(r.order))
	for _, name := range r.order {
		if f := r.forces[name](cfg); f != nil {
			forces = append(forces, f)
		}
	}
	return forces
}

func (r *Registry) ListForces() []string {
	return append([]string(nil), r.order...)
}

func (r *Registry) GetIntegrator(name string) (sim.Integrator, error) {
	integ, err := integrators.New(name)
	if err != nil {
		return nil, fmt.Errorf("experiment: %w", err)
	}
	return integ, nil
}

func (r *Registry) GetForce(name string, cfg *config.Config) (sim.ForceModel, error) {
	fn, ok := r.forces[name]
	if !ok {
		return nil, fmt.Errorf("experiment: unknown force %q: %w", name, dynamo.ErrParameterBounds)
	}
	return fn(cfg), nil
}

func DefaultMetrics(plane contact.Plane) []sim.Metric {
	return []sim.Metric{
		metrics.NewKineticEnergy(),
		metrics.NewEnergyDecay(),
		metrics.NewMaxPenetration(plane),
		metrics.NewContactFraction(plane),
		metrics.NewTravel(),
	}
}
