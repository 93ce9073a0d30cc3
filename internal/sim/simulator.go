package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/rodsim/internal/dynamo"
	"github.com/san-kum/rodsim/internal/rod"
)

// Simulator steps one rod under a fixed set of force models. Forces are
// evaluated in registration order, so contact models that read the load
// already on the rod must be added after gravity and internal forces.
type Simulator struct {
	integrator Integrator
	forces     []ForceModel
	metrics    []Metric
	observers  []Observer
}

func New(integrator Integrator, forces ...ForceModel) *Simulator {
	return &Simulator{
		integrator: integrator,
		forces:     forces,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddForce(f ForceModel)  { s.forces = append(s.forces, f) }
func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Forces() []ForceModel { return s.forces }

// Evaluate clears the rod's accumulators and applies every force model.
// Non-finite forces abort the evaluation with ErrInvalidState.
func (s *Simulator) Evaluate(r *rod.Rod, t float64) error {
	r.ResetForces()
	for _, f := range s.forces {
		if err := f.Apply(r, t); err != nil {
			return err
		}
	}
	if !r.InternalForces.IsFinite() || !r.ExternalForces.IsFinite() {
		return dynamo.ErrInvalidState
	}
	return nil
}

// Step advances r from t to t+dt.
func (s *Simulator) Step(r *rod.Rod, t, dt float64) error {
	return s.integrator.Step(r, s.Evaluate, t, dt)
}

// Run integrates r in place for cfg.Duration. On a failed step the partial
// result is returned together with a *dynamo.SimulationError.
func (s *Simulator) Run(ctx context.Context, r *rod.Rod, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	every := cfg.SampleEvery
	if every <= 0 {
		every = 1
	}

	result := &Result{
		Samples: make([]Sample, 0, steps/every+2),
		Metrics: make(map[string]float64),
		Final:   r,
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	result.Samples = append(result.Samples, Snapshot(r, t))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		if err := s.Step(r, t, cfg.Dt); err != nil {
			s.collect(result)
			return result, &dynamo.SimulationError{Step: i, Time: t, Wrapped: err}
		}
		t = float64(i+1) * cfg.Dt
		result.StepsTaken++

		if cfg.ValidateState {
			if err := r.Validate(); err != nil {
				s.collect(result)
				return result, &dynamo.SimulationError{Step: i, Time: t, Wrapped: err}
			}
		}

		for _, m := range s.metrics {
			m.Observe(r, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(r, t)
		}

		if (i+1)%every == 0 || i == steps-1 {
			result.Samples = append(result.Samples, Snapshot(r, t))
		}
	}

	s.collect(result)
	return result, nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
