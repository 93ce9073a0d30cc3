package sim

import (
	"fmt"

	"github.com/san-kum/rodsim/internal/rod"
	"gonum.org/v1/gonum/spatial/r3"
)

// ForceModel adds forces into a rod's accumulators.
type ForceModel interface {
	Apply(r *rod.Rod, t float64) error
}

// Integrator advances a rod by dt. eval resets and refills the rod's force
// accumulators for the current state.
type Integrator interface {
	Step(r *rod.Rod, eval func(*rod.Rod, float64) error, t, dt float64) error
}

type Metric interface {
	Name() string
	Observe(r *rod.Rod, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(r *rod.Rod, t float64)
}

// Configurable is implemented by forces with runtime-tunable parameters.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Config struct {
	Dt            float64
	Duration      float64
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1e-4,
		Duration:      1.0,
		SampleEvery:   100,
		ValidateState: true,
	}
}

func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", c.Duration)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("sample_every must be non-negative, got %d", c.SampleEvery)
	}
	return nil
}

// Sample is a snapshot of the rod's rigid-body summary.
type Sample struct {
	Time          float64 `json:"time"`
	CenterOfMass  r3.Vec  `json:"com"`
	Velocity      r3.Vec  `json:"velocity"`
	KineticEnergy float64 `json:"kinetic_energy"`
}

func Snapshot(r *rod.Rod, t float64) Sample {
	return Sample{
		Time:          t,
		CenterOfMass:  r.CenterOfMass(),
		Velocity:      r.Velocity(),
		KineticEnergy: r.KineticEnergy(),
	}
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
	Final      *rod.Rod
}
