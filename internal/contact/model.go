package contact

import (
	"fmt"

	"github.com/san-kum/rodsim/internal/dynamo"
	"github.com/san-kum/rodsim/internal/linalg"
	"github.com/san-kum/rodsim/internal/rod"
)

// Model is a friction-capable contact plane: one normal resolution per call,
// followed by kinetic and static friction bounded by it.
type Model struct {
	normal   *NormalContact
	friction *Friction
	last     *NormalForce
}

// NewModel validates the friction parameters and builds a model over plane.
// A nil ops uses linalg.Serial.
func NewModel(plane Plane, params FrictionParams, ops linalg.Batch) (*Model, error) {
	normal := NewNormalContact(plane, ops)
	friction, err := NewFriction(params, normal, nil)
	if err != nil {
		return nil, err
	}
	return &Model{normal: normal, friction: friction}, nil
}

func (m *Model) Name() string                   { return "plane_contact" }
func (m *Model) Plane() Plane                   { return m.normal.plane }
func (m *Model) FrictionParams() FrictionParams { return m.friction.params }

// Last returns the normal force of the most recent call, or nil.
func (m *Model) Last() *NormalForce { return m.last }

// Accumulate adds normal, kinetic and static friction forces into out.
func (m *Model) Accumulate(r *rod.Rod, out linalg.Vectors) (*NormalForce, error) {
	nf, err := m.normal.Resolve(r, out)
	if err != nil {
		return nil, err
	}
	if err := m.friction.Kinetic(r, nf, out); err != nil {
		return nil, err
	}
	if err := m.friction.Static(r, nf, out); err != nil {
		return nil, err
	}
	m.last = nf
	return nf, nil
}

// Apply accumulates into the rod's external forces.
func (m *Model) Apply(r *rod.Rod, _ float64) error {
	_, err := m.Accumulate(r, r.ExternalForces)
	return err
}

// GetParams exposes the friction coefficients for interactive tuning.
func (m *Model) GetParams() map[string]float64 {
	p := m.friction.params
	return map[string]float64{
		"mu_static_forward":   p.Static.Forward,
		"mu_static_backward":  p.Static.Backward,
		"mu_static_sideways":  p.Static.Sideways,
		"mu_kinetic_forward":  p.Kinetic.Forward,
		"mu_kinetic_backward": p.Kinetic.Backward,
		"mu_kinetic_sideways": p.Kinetic.Sideways,
		"slip_velocity_tol":   p.SlipVelocityTol,
	}
}

// SetParam changes one friction parameter. Values that would fail
// FrictionParams.Validate are rejected and leave the model unchanged.
func (m *Model) SetParam(name string, value float64) error {
	p := m.friction.params
	switch name {
	case "mu_static_forward":
		p.Static.Forward = value
	case "mu_static_backward":
		p.Static.Backward = value
	case "mu_static_sideways":
		p.Static.Sideways = value
	case "mu_kinetic_forward":
		p.Kinetic.Forward = value
	case "mu_kinetic_backward":
		p.Kinetic.Backward = value
	case "mu_kinetic_sideways":
		p.Kinetic.Sideways = value
	case "slip_velocity_tol":
		p.SlipVelocityTol = value
	default:
		return fmt.Errorf("contact: unknown parameter %q: %w", name, dynamo.ErrParameterBounds)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	m.friction.params = p
	return nil
}
