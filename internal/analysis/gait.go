package analysis

import (
	"github.com/san-kum/rodsim/internal/sim"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

type Gait struct {
	Speed     float64 // net axial displacement over elapsed time
	Frequency float64 // dominant frequency of the axial velocity
	Stride    float64 // mean advance per period
	Cycles    int
}

// AnalyzeGait measures a trajectory along axis. Samples are assumed
// uniformly spaced in time.
func AnalyzeGait(samples []sim.Sample, axis r3.Vec) Gait {
	var g Gait
	if len(samples) < 3 || r3.Norm(axis) == 0 {
		return g
	}
	axis = r3.Unit(axis)

	first, last := samples[0], samples[len(samples)-1]
	elapsed := last.Time - first.Time
	if elapsed <= 0 {
		return g
	}
	g.Speed = r3.Dot(r3.Sub(last.CenterOfMass, first.CenterOfMass), axis) / elapsed

	v := make([]float64, len(samples))
	for i, s := range samples {
		v[i] = r3.Dot(s.Velocity, axis)
	}
	g.Frequency = DominantFrequency(v, samples[1].Time-first.Time)
	if g.Frequency == 0 {
		return g
	}

	strobe := Stroboscopic(samples, axis, 1/g.Frequency)
	if len(strobe) < 2 {
		return g
	}
	steps := make([]float64, len(strobe)-1)
	floats.SubTo(steps, strobe[1:], strobe[:len(strobe)-1])
	g.Cycles = len(steps)
	g.Stride = floats.Sum(steps) / float64(g.Cycles)
	return g
}

// Stroboscopic returns the axial center-of-mass position at the first
// sample time and every period after it, interpolating between samples.
func Stroboscopic(samples []sim.Sample, axis r3.Vec, period float64) []float64 {
	if len(samples) == 0 || period <= 0 {
		return nil
	}

	var out []float64
	t := samples[0].Time
	j := 0
	for t <= samples[len(samples)-1].Time {
		for j+1 < len(samples) && samples[j+1].Time < t {
			j++
		}
		a := samples[j]
		pos := r3.Dot(a.CenterOfMass, axis)
		if j+1 < len(samples) {
			b := samples[j+1]
			if span := b.Time - a.Time; span > 0 {
				frac := (t - a.Time) / span
				pos += frac * (r3.Dot(b.CenterOfMass, axis) - pos)
			}
		}
		out = append(out, pos)
		t += period
	}
	return out
}
