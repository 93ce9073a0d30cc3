package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rodsim/internal/sim"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

var seriesFields = map[string]func(sim.Sample) float64{
	"x":      func(s sim.Sample) float64 { return s.CenterOfMass.X },
	"y":      func(s sim.Sample) float64 { return s.CenterOfMass.Y },
	"z":      func(s sim.Sample) float64 { return s.CenterOfMass.Z },
	"vx":     func(s sim.Sample) float64 { return s.Velocity.X },
	"vy":     func(s sim.Sample) float64 { return s.Velocity.Y },
	"vz":     func(s sim.Sample) float64 { return s.Velocity.Z },
	"speed":  func(s sim.Sample) float64 { return r3.Norm(s.Velocity) },
	"energy": func(s sim.Sample) float64 { return s.KineticEnergy },
}

// SeriesFields lists the names Series accepts.
func SeriesFields() []string {
	return []string{"x", "y", "z", "vx", "vy", "vz", "speed", "energy"}
}

// Series extracts one quantity from every sample.
func Series(samples []sim.Sample, field string) ([]float64, error) {
	fn, ok := seriesFields[field]
	if !ok {
		return nil, fmt.Errorf("unknown field %q (available: %v)", field, SeriesFields())
	}
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = fn(s)
	}
	return out, nil
}

// PlotSeries renders data as an ASCII line chart with its range in the
// caption.
func PlotSeries(data []float64, caption string, width, height int) string {
	if len(data) == 0 {
		return Subtle.Render("(no data)")
	}
	if len(data) == 1 {
		data = []float64{data[0], data[0]}
	}
	lo, hi := floats.Min(data), floats.Max(data)
	caption = fmt.Sprintf("%s [%.4g, %.4g]", caption, lo, hi)

	return asciigraph.Plot(data,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(caption),
	)
}
