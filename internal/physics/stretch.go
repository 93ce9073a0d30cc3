package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/rodsim/internal/dynamo"
	"github.com/san-kum/rodsim/internal/rod"
	"gonum.org/v1/gonum/spatial/r3"
)

// Stretch connects adjacent nodes with linear axial springs and dashpots.
//
// The spring force of an element is K·(l-L)/L along its tangent, where l is
// the current length and L the rest length. When Amplitude is non-zero the
// rest length oscillates as L·(1 + A·sin(2π·(f·t - k·i/N))), a wave travelling
// from head to tail: a peristaltic gait that only produces net motion on an
// anisotropic surface.
type Stretch struct {
	K       float64 // axial stiffness (force per unit strain)
	Damping float64 // dashpot on the elongation rate

	Amplitude  float64
	Frequency  float64
	WaveNumber float64
}

func NewStretch(k, damping float64) *Stretch {
	return &Stretch{K: k, Damping: damping, WaveNumber: 1}
}

func (s *Stretch) Name() string { return "stretch" }

func (s *Stretch) Apply(r *rod.Rod, t float64) error {
	n := r.NumElements()
	if len(r.RestLengths) != n {
		return fmt.Errorf("physics: stretch needs %d rest lengths, got %d: %w", n, len(r.RestLengths), dynamo.ErrDimensionMismatch)
	}

	for i := 0; i < n; i++ {
		d := r3.Sub(r.Positions[i+1], r.Positions[i])
		l := r3.Norm(d)
		if l == 0 {
			continue
		}
		tangent := r3.Scale(1/l, d)

		rest := r.RestLengths[i] * s.restScale(i, n, t)
		rate := r3.Dot(r3.Sub(r.Velocities[i+1], r.Velocities[i]), tangent)

		// Tension (positive) pulls the two nodes together.
		tension := s.K*(l-rest)/r.RestLengths[i] + s.Damping*rate
		f := r3.Scale(tension, tangent)

		r.InternalForces[i] = r3.Add(r.InternalForces[i], f)
		r.InternalForces[i+1] = r3.Sub(r.InternalForces[i+1], f)
	}
	return nil
}

func (s *Stretch) restScale(i, n int, t float64) float64 {
	if s.Amplitude == 0 {
		return 1
	}
	phase := s.Frequency*t - s.WaveNumber*float64(i)/float64(n)
	return 1 + s.Amplitude*math.Sin(2*math.Pi*phase)
}

// Energy returns the elastic energy stored in the springs at rest scale 1.
func (s *Stretch) Energy(r *rod.Rod) float64 {
	e := 0.0
	for i, rest := range r.RestLengths {
		l := r3.Norm(r3.Sub(r.Positions[i+1], r.Positions[i]))
		strain := (l - rest) / rest
		e += 0.5 * s.K * strain * strain * rest
	}
	return e
}

func (s *Stretch) GetParams() map[string]float64 {
	return map[string]float64{
		"k":         s.K,
		"damping":   s.Damping,
		"amplitude": s.Amplitude,
		"frequency": s.Frequency,
	}
}

func (s *Stretch) SetParam(name string, value float64) error {
	switch name {
	case "k":
		s.K = value
	case "damping":
		s.Damping = value
	case "amplitude":
		s.Amplitude = value
	case "frequency":
		s.Frequency = value
	default:
		return unknownParam(name)
	}
	return nil
}

func unknownParam(name string) error {
	return fmt.Errorf("physics: unknown parameter %q: %w", name, dynamo.ErrParameterBounds)
}
