package metrics

import (
	"math"

	"github.com/san-kum/rodsim/internal/rod"
)

// KineticEnergy is the time-averaged kinetic energy of the rod.
type KineticEnergy struct {
	name    string
	samples int
	total   float64
	last    float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(r *rod.Rod, t float64) {
	k.last = r.KineticEnergy()
	k.total += k.last
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

// Last is the most recently observed energy.
func (k *KineticEnergy) Last() float64 { return k.last }

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.last = 0
	k.samples = 0
}

// EnergyDecay tracks the largest relative increase of kinetic energy over
// its first observed value. A dissipative contact never raises it above 0
// once the rod is at rest on the plane.
type EnergyDecay struct {
	name    string
	initial float64
	maxGain float64
	samples int
}

func NewEnergyDecay() *EnergyDecay {
	return &EnergyDecay{name: "energy_gain"}
}

func (e *EnergyDecay) Name() string { return e.name }

func (e *EnergyDecay) Observe(r *rod.Rod, t float64) {
	energy := r.KineticEnergy()
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		gain := (energy - e.initial) / math.Abs(e.initial)
		e.maxGain = math.Max(e.maxGain, gain)
	}
}

func (e *EnergyDecay) Value() float64 { return e.maxGain }

func (e *EnergyDecay) Reset() {
	e.initial = 0
	e.maxGain = 0
	e.samples = 0
}
