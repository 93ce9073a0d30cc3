// Package automation runs scripted scenarios and Monte Carlo batches of rod
// experiments.
package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/experiment"
	"github.com/san-kum/rodsim/internal/sim"
	"github.com/san-kum/rodsim/internal/storage"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single step in a scenario. Config, when set, is a YAML
// config file and wins over Preset.
type ScenarioStep struct {
	Preset     string             `yaml:"preset"`
	Config     string             `yaml:"config"`
	Integrator string             `yaml:"integrator"`
	Duration   float64            `yaml:"duration"`
	Dt         float64            `yaml:"dt"`
	Params     map[string]float64 `yaml:"params"`
	Save       bool               `yaml:"save"`
}

type StepResult struct {
	Name   string
	Result *sim.Result
	RunID  string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

func (s ScenarioStep) resolve() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case s.Config != "":
		c, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = c
	case s.Preset != "":
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	default:
		cfg = config.DefaultConfig()
	}

	if s.Integrator != "" {
		cfg.Sim.Integrator = s.Integrator
	}
	if s.Duration > 0 {
		cfg.Sim.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Sim.Dt = s.Dt
	}
	return cfg, nil
}

// RunScenario executes all steps in a scenario. Steps marked save are
// persisted when store is non-nil. progress, if set, is called before each
// step.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store, progress func(i, n int, name string)) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		if progress != nil {
			progress(i+1, len(scenario.Steps), cfg.Name)
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		for k, v := range step.Params {
			if err := exp.SetParam(k, v); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Name: cfg.Name, Result: result}
		if step.Save && store != nil {
			id, err := store.Save(cfg, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
		}
		results = append(results, sr)
	}

	return results, nil
}

// MonteCarloConfig lifts the base configuration's rod off its plane by a
// random height in [0, Lift] for each trial.
type MonteCarloConfig struct {
	Base      *config.Config
	Lift      float64
	NumTrials int
	Workers   int
	Seed      int64
}

// MonteCarloResult holds the outcome of one trial
type MonteCarloResult struct {
	TrialID        int
	Lift           float64
	FinalHeight    float64
	MaxPenetration float64
	Stable         bool // penetration stayed below one radius
}

// RunMonteCarlo executes the trials concurrently
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	plane, err := cfg.Base.BuildPlane()
	if err != nil {
		return nil, err
	}

	lifts := make([]float64, cfg.NumTrials)
	jobs := make([]sim.Job, cfg.NumTrials)
	for trial := range jobs {
		lifts[trial] = rng.Float64() * cfg.Lift

		c := cfg.Base.Clone()
		c.Name = fmt.Sprintf("%s#%d", cfg.Base.Name, trial)
		start := r3.Add(c.Rod.Start.R3(), r3.Scale(lifts[trial], plane.Normal()))
		c.Rod.Start = config.FromR3(start)

		exp := experiment.New(c)
		if err := exp.Setup(); err != nil {
			return nil, err
		}
		jobs[trial] = exp.Job()
	}

	runs, err := sim.NewEnsemble(cfg.Workers, jobs...).Run(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, cfg.NumTrials)
	for trial, res := range runs {
		pen := res.Metrics["max_penetration"]
		results[trial] = MonteCarloResult{
			TrialID:        trial,
			Lift:           lifts[trial],
			FinalHeight:    plane.Distance(res.Final.CenterOfMass()),
			MaxPenetration: pen,
			Stable:         pen < cfg.Base.Rod.Radius,
		}
	}

	return results, nil
}
