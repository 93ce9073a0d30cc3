package rod

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/rodsim/internal/dynamo"
)

func TestNewStraight(t *testing.T) {
	r, err := NewStraight(4, r3.Vec{Z: 1}, r3.Vec{X: 2}, 2.0, 0.05, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.NumElements() != 4 || r.NumNodes() != 5 {
		t.Fatalf("expected 4 elements and 5 nodes, got %d/%d", r.NumElements(), r.NumNodes())
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("fresh rod should validate: %v", err)
	}

	last := r.Positions[4]
	if math.Abs(last.X-2) > 1e-12 || last.Z != 1 {
		t.Errorf("expected last node at (2,0,1), got %v", last)
	}
	for i, tg := range r.Tangents {
		if tg != (r3.Vec{X: 1}) {
			t.Errorf("tangent %d not unit x: %v", i, tg)
		}
	}
	if math.Abs(r.TotalMass()-1.0) > 1e-12 {
		t.Errorf("expected total mass 1, got %f", r.TotalMass())
	}
	if math.Abs(r.Masses[0]-0.125) > 1e-12 {
		t.Errorf("expected end node mass 0.125, got %f", r.Masses[0])
	}
}

func TestNewStraightRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		dir    r3.Vec
		length float64
	}{
		{"no elements", 0, r3.Vec{X: 1}, 1},
		{"zero direction", 3, r3.Vec{}, 1},
		{"zero length", 3, r3.Vec{X: 1}, 0},
	}

	for _, tt := range tests {
		_, err := NewStraight(tt.n, r3.Vec{}, tt.dir, tt.length, 0.1, 1)
		if !errors.Is(err, dynamo.ErrParameterBounds) {
			t.Errorf("%s: expected ErrParameterBounds, got %v", tt.name, err)
		}
	}
}

func TestValidateMismatch(t *testing.T) {
	r, _ := NewStraight(3, r3.Vec{}, r3.Vec{X: 1}, 1, 0.1, 1)
	r.Radii = r.Radii[:2]
	if err := r.Validate(); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch for short radii, got %v", err)
	}

	r, _ = NewStraight(3, r3.Vec{}, r3.Vec{X: 1}, 1, 0.1, 1)
	r.ExternalForces = r.ExternalForces[:3]
	if err := r.Validate(); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch for short accumulator, got %v", err)
	}

	r, _ = NewStraight(3, r3.Vec{}, r3.Vec{X: 1}, 1, 0.1, 1)
	r.Velocities[1].Y = math.NaN()
	if err := r.Validate(); !errors.Is(err, dynamo.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState for NaN velocity, got %v", err)
	}
}

func TestValidateRejectsNonFinite(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(r *Rod)
	}{
		{"position", func(r *Rod) { r.Positions[0].X = math.Inf(1) }},
		{"tangent", func(r *Rod) { r.Tangents[1].Z = math.NaN() }},
		{"radius", func(r *Rod) { r.Radii[2] = math.NaN() }},
		{"mass", func(r *Rod) { r.Masses[3] = math.Inf(-1) }},
		{"rest length", func(r *Rod) { r.RestLengths[0] = math.NaN() }},
		{"internal force", func(r *Rod) { r.InternalForces[1].Y = math.NaN() }},
		{"external force", func(r *Rod) { r.ExternalForces[2].X = math.Inf(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := NewStraight(3, r3.Vec{}, r3.Vec{X: 1}, 1, 0.1, 1)
			tt.corrupt(r)
			if err := r.Validate(); !errors.Is(err, dynamo.ErrInvalidState) {
				t.Errorf("expected ErrInvalidState, got %v", err)
			}
		})
	}
}

func TestUpdateTangents(t *testing.T) {
	r, _ := NewStraight(2, r3.Vec{}, r3.Vec{X: 1}, 2, 0.1, 1)
	r.Positions[2] = r3.Vec{X: 1, Y: 3}
	r.Positions[1] = r3.Vec{X: 1}
	r.Positions[0] = r3.Vec{X: 1}

	r.UpdateTangents()

	if r.Tangents[0] != (r3.Vec{X: 1}) {
		t.Errorf("degenerate element should keep its tangent, got %v", r.Tangents[0])
	}
	if r.Tangents[1] != (r3.Vec{Y: 1}) {
		t.Errorf("expected unit y tangent, got %v", r.Tangents[1])
	}
}

func TestCenterOfMassAndEnergy(t *testing.T) {
	r, _ := NewStraight(2, r3.Vec{}, r3.Vec{X: 1}, 2, 0.1, 2)
	r.SetVelocity(r3.Vec{Y: 3})

	com := r.CenterOfMass()
	if math.Abs(com.X-1) > 1e-12 {
		t.Errorf("expected com x=1, got %f", com.X)
	}
	if v := r.Velocity(); math.Abs(v.Y-3) > 1e-12 {
		t.Errorf("expected com velocity 3, got %f", v.Y)
	}
	if ke := r.KineticEnergy(); math.Abs(ke-9) > 1e-12 {
		t.Errorf("expected kinetic energy 9, got %f", ke)
	}
	if l := r.Length(); math.Abs(l-2) > 1e-12 {
		t.Errorf("expected length 2, got %f", l)
	}
}

func TestForcesAndClone(t *testing.T) {
	r, _ := NewStraight(1, r3.Vec{}, r3.Vec{X: 1}, 1, 0.1, 1)
	r.InternalForces[0] = r3.Vec{X: 1}
	r.ExternalForces[0] = r3.Vec{Z: -2}

	c := r.Clone()
	net := make([]r3.Vec, 2)
	r.NetForces(net)
	if net[0] != (r3.Vec{X: 1, Z: -2}) {
		t.Errorf("unexpected net force %v", net[0])
	}

	r.ResetForces()
	if r.ExternalForces[0] != (r3.Vec{}) || r.InternalForces[0] != (r3.Vec{}) {
		t.Error("expected forces cleared")
	}
	if c.ExternalForces[0] != (r3.Vec{Z: -2}) {
		t.Error("clone should not share force storage")
	}
}
