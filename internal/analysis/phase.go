package analysis

import (
	"strings"

	"github.com/san-kum/rodsim/internal/sim"
	"gonum.org/v1/gonum/floats"
)

// PhasePortrait holds two sampled quantities plotted against each other
type PhasePortrait struct {
	X, Y []float64
}

func NewPhasePortrait(samples []sim.Sample, x, y func(sim.Sample) float64) *PhasePortrait {
	p := &PhasePortrait{
		X: make([]float64, len(samples)),
		Y: make([]float64, len(samples)),
	}
	for i, s := range samples {
		p.X[i] = x(s)
		p.Y[i] = y(s)
	}
	return p
}

// ASCII renders the portrait on a width x height grid of runes, with axes
// where zero is in range.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.X) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := padded(p.X)
	minY, maxY := padded(p.Y)
	col := func(x float64) int { return int((x - minX) / (maxX - minX) * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/(maxY-minY)*float64(height-1)) }

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := range canvas {
			canvas[r][c] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := range canvas[r] {
			canvas[r][c] = '─'
		}
	}

	for i := range p.X {
		canvas[row(p.Y[i])][col(p.X[i])] = '•'
	}

	var sb strings.Builder
	for _, r := range canvas {
		sb.WriteString(string(r))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// padded widens the data range by 10% on each side.
func padded(v []float64) (lo, hi float64) {
	lo, hi = floats.Min(v), floats.Max(v)
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return lo - 0.1*span, hi + 0.1*span
}
