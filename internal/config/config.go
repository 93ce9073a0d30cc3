// Package config loads and saves rodsim run configurations as YAML and
// turns them into the rod, plane and numerical backend of a run.
package config

import (
	"fmt"
	"os"

	"github.com/san-kum/rodsim/internal/contact"
	"github.com/san-kum/rodsim/internal/dynamo"
	"github.com/san-kum/rodsim/internal/integrators"
	"github.com/san-kum/rodsim/internal/linalg"
	"github.com/san-kum/rodsim/internal/rod"
	"github.com/san-kum/rodsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = 1e-4
	DefaultDuration    = 2.0
	DefaultSampleEvery = 100
	DefaultElements    = 20
	DefaultLength      = 1.0
	DefaultRadius      = 0.025
	DefaultMass        = 1.0
	DefaultStiffness   = 1e4
	DefaultDamping     = 2.0
	DefaultSlipTol     = 1e-3
)

const (
	BackendSerial   = "serial"
	BackendParallel = "parallel"
)

// Vec3 is an [x, y, z] triple as written in YAML.
type Vec3 [3]float64

func (v Vec3) R3() r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

func FromR3(v r3.Vec) Vec3 { return Vec3{v.X, v.Y, v.Z} }

type Config struct {
	Name     string                 `yaml:"name"`
	Rod      RodConfig              `yaml:"rod"`
	Plane    PlaneConfig            `yaml:"plane"`
	Friction contact.FrictionParams `yaml:"friction"`
	Forces   ForcesConfig           `yaml:"forces"`
	Sim      SimConfig              `yaml:"sim"`
}

type RodConfig struct {
	Elements  int     `yaml:"elements"`
	Length    float64 `yaml:"length"`
	Radius    float64 `yaml:"radius"`
	Mass      float64 `yaml:"mass"`
	Start     Vec3    `yaml:"start"`
	Direction Vec3    `yaml:"direction"`
	Velocity  Vec3    `yaml:"velocity"`
}

type PlaneConfig struct {
	Origin     Vec3    `yaml:"origin"`
	Normal     Vec3    `yaml:"normal"`
	Stiffness  float64 `yaml:"stiffness"`
	Damping    float64 `yaml:"damping"`
	SurfaceTol float64 `yaml:"surface_tol"`
}

type ForcesConfig struct {
	Gravity Vec3          `yaml:"gravity"`
	Stretch StretchConfig `yaml:"stretch"`
	Push    PushConfig    `yaml:"push"`
}

// StretchConfig sets the axial springs. Zero stiffness leaves the nodes
// unconnected.
type StretchConfig struct {
	Stiffness  float64 `yaml:"stiffness"`
	Damping    float64 `yaml:"damping"`
	Amplitude  float64 `yaml:"amplitude"`
	Frequency  float64 `yaml:"frequency"`
	WaveNumber float64 `yaml:"wave_number"`
}

type PushConfig struct {
	Force Vec3    `yaml:"force"`
	Start float64 `yaml:"start"`
	Stop  float64 `yaml:"stop"`
}

type SimConfig struct {
	Integrator  string  `yaml:"integrator"`
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	SampleEvery int     `yaml:"sample_every"`
	Backend     string  `yaml:"backend"`
	Workers     int     `yaml:"workers"`
}

// DefaultConfig is a rod resting on a horizontal floor.
func DefaultConfig() *Config {
	return &Config{
		Name: "default",
		Rod: RodConfig{
			Elements:  DefaultElements,
			Length:    DefaultLength,
			Radius:    DefaultRadius,
			Mass:      DefaultMass,
			Start:     Vec3{0, 0, DefaultRadius},
			Direction: Vec3{1, 0, 0},
		},
		Plane: PlaneConfig{
			Normal:     Vec3{0, 0, 1},
			Stiffness:  DefaultStiffness,
			Damping:    DefaultDamping,
			SurfaceTol: 1.1 * DefaultRadius,
		},
		Friction: contact.FrictionParams{
			Static:          contact.Coefficients{Forward: 0.2, Backward: 0.4, Sideways: 1.0},
			Kinetic:         contact.Coefficients{Forward: 0.1, Backward: 0.2, Sideways: 0.5},
			SlipVelocityTol: DefaultSlipTol,
		},
		Forces: ForcesConfig{
			Gravity: Vec3{0, 0, -9.81},
			Stretch: StretchConfig{Stiffness: 100, Damping: 0.5, WaveNumber: 1},
		},
		Sim: SimConfig{
			Integrator:  "verlet",
			Dt:          DefaultDt,
			Duration:    DefaultDuration,
			SampleEvery: DefaultSampleEvery,
			Backend:     BackendSerial,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy; Config holds no reference types.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate builds every component once so bad values surface before the
// first step.
func (c *Config) Validate() error {
	if _, err := c.BuildRod(); err != nil {
		return err
	}
	if _, err := c.BuildPlane(); err != nil {
		return err
	}
	if err := c.Friction.Validate(); err != nil {
		return err
	}
	if _, err := c.BuildBatch(); err != nil {
		return err
	}
	if _, err := integrators.New(c.Sim.Integrator); err != nil {
		return err
	}
	if c.Forces.Stretch.Stiffness < 0 || c.Forces.Stretch.Damping < 0 {
		return fmt.Errorf("config: negative stretch stiffness or damping: %w", dynamo.ErrParameterBounds)
	}
	return c.SimConfig().Validate()
}

func (c *Config) BuildRod() (*rod.Rod, error) {
	rc := c.Rod
	r, err := rod.NewStraight(rc.Elements, rc.Start.R3(), rc.Direction.R3(), rc.Length, rc.Radius, rc.Mass)
	if err != nil {
		return nil, err
	}
	r.SetVelocity(rc.Velocity.R3())
	return r, nil
}

// BuildPlane passes the configured normal through unchanged; a normal that
// is not unit length is rejected with contact.ErrNonUnitNormal.
func (c *Config) BuildPlane() (contact.Plane, error) {
	pc := c.Plane
	return contact.NewPlane(pc.Origin.R3(), pc.Normal.R3(), pc.Stiffness, pc.Damping, pc.SurfaceTol)
}

func (c *Config) BuildBatch() (linalg.Batch, error) {
	switch c.Sim.Backend {
	case "", BackendSerial:
		return linalg.Serial{}, nil
	case BackendParallel:
		return linalg.NewParallel(c.Sim.Workers), nil
	default:
		return nil, fmt.Errorf("config: unknown backend %q: %w", c.Sim.Backend, dynamo.ErrParameterBounds)
	}
}

func (c *Config) SimConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Dt = c.Sim.Dt
	cfg.Duration = c.Sim.Duration
	if c.Sim.SampleEvery > 0 {
		cfg.SampleEvery = c.Sim.SampleEvery
	}
	return cfg
}
