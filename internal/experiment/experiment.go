// Package experiment assembles a runnable simulation from a configuration:
// the rod, the driver forces, the plane contact model, an integrator and the
// default metrics.
package experiment

import (
	"context"
	"fmt"
	"strings"

	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/contact"
	"github.com/san-kum/rodsim/internal/rod"
	"github.com/san-kum/rodsim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	rod       *rod.Rod
	contact   *contact.Model
	simulator *sim.Simulator
	metrics   []sim.Metric
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg, registry: NewRegistry()}
}

// WithRegistry swaps the force registry; call before Setup.
func (e *Experiment) WithRegistry(r *Registry) *Experiment {
	e.registry = r
	return e
}

func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	r, err := e.cfg.BuildRod()
	if err != nil {
		return err
	}
	plane, err := e.cfg.BuildPlane()
	if err != nil {
		return err
	}
	ops, err := e.cfg.BuildBatch()
	if err != nil {
		return err
	}
	model, err := contact.NewModel(plane, e.cfg.Friction, ops)
	if err != nil {
		return err
	}
	integ, err := e.registry.GetIntegrator(e.cfg.Sim.Integrator)
	if err != nil {
		return err
	}

	e.simulator = sim.New(integ, e.registry.BuildForces(e.cfg)...)
	e.simulator.AddForce(model)

	e.metrics = DefaultMetrics(plane)
	for _, m := range e.metrics {
		e.simulator.AddMetric(m)
	}

	e.rod = r
	e.contact = model
	return nil
}

// Run integrates the experiment's rod in place for the configured duration.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.rod, e.cfg.SimConfig())
}

// Reset rebuilds the rod in its initial state and clears metrics.
func (e *Experiment) Reset() error {
	r, err := e.cfg.BuildRod()
	if err != nil {
		return err
	}
	e.rod = r
	for _, m := range e.metrics {
		m.Reset()
	}
	return nil
}

// Job packages the experiment for a sim.Ensemble.
func (e *Experiment) Job() sim.Job {
	return sim.Job{
		Name:      e.cfg.Name,
		Simulator: e.simulator,
		Rod:       e.rod,
		Config:    e.cfg.SimConfig(),
	}
}

func (e *Experiment) Config() *config.Config       { return e.cfg }
func (e *Experiment) Rod() *rod.Rod                { return e.rod }
func (e *Experiment) Contact() *contact.Model      { return e.contact }
func (e *Experiment) Metrics() []sim.Metric        { return e.metrics }
func (e *Experiment) GetSimulator() *sim.Simulator { return e.simulator }

// Params collects the tunable parameters of every configurable force,
// keyed "force.param".
func (e *Experiment) Params() map[string]float64 {
	params := make(map[string]float64)
	for _, f := range e.simulator.Forces() {
		c, ok := f.(sim.Configurable)
		if !ok {
			continue
		}
		prefix := forceName(f)
		for k, v := range c.GetParams() {
			params[prefix+"."+k] = v
		}
	}
	return params
}

// SetParam sets a "force.param" value collected by Params.
func (e *Experiment) SetParam(key string, value float64) error {
	for _, f := range e.simulator.Forces() {
		c, ok := f.(sim.Configurable)
		if !ok {
			continue
		}
		if name, ok := strings.CutPrefix(key, forceName(f)+"."); ok {
			return c.SetParam(name, value)
		}
	}
	return fmt.Errorf("experiment: no force owns parameter %q", key)
}

type named interface{ Name() string }

func forceName(f sim.ForceModel) string {
	if n, ok := f.(named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", f)
}
