// Package optim sweeps experiment parameters over a grid and ranks the runs
// by one of their metrics.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/dynamo"
	"github.com/san-kum/rodsim/internal/experiment"
	"github.com/san-kum/rodsim/internal/sim"
	"gonum.org/v1/gonum/floats"
)

type Goal int

const (
	Minimize Goal = iota
	Maximize
)

func (g Goal) better(a, b float64) bool {
	if g == Maximize {
		return a > b
	}
	return a < b
}

// Point is one grid combination and the metrics its run produced.
type Point struct {
	Params  map[string]float64
	Value   float64
	Metrics map[string]float64
}

// GridSearch enumerates the cartesian product of per-parameter values.
// Parameter names use the experiment's "force.param" keys.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	workers    int
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters, %d ranges: %w", len(params), len(ranges), dynamo.ErrDimensionMismatch)
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("empty range for %s: %w", params[i], dynamo.ErrParameterBounds)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// WithWorkers caps the number of concurrent runs; n <= 0 means no cap.
func (g *GridSearch) WithWorkers(n int) *GridSearch {
	g.workers = n
	return g
}

func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Points lists every combination, last parameter varying fastest.
func (g *GridSearch) Points() []map[string]float64 {
	points := make([]map[string]float64, 0, g.Size())
	g.enumerate(0, make(map[string]float64, len(g.paramNames)), &points)
	return points
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		p := make(map[string]float64, len(current))
		for k, v := range current {
			p[k] = v
		}
		*out = append(*out, p)
		return
	}
	for _, v := range g.ranges[depth] {
		current[g.paramNames[depth]] = v
		g.enumerate(depth+1, current, out)
	}
}

// Search runs one experiment per combination, built from a copy of base,
// and returns every point in grid order plus the best one for metricName.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string, goal Goal) (Point, []Point, error) {
	combos := g.Points()
	jobs := make([]sim.Job, 0, len(combos))

	for i, params := range combos {
		cfg := base.Clone()
		cfg.Name = fmt.Sprintf("%s#%d", base.Name, i)

		exp := experiment.New(cfg)
		if err := exp.Setup(); err != nil {
			return Point{}, nil, err
		}
		for _, name := range g.paramNames {
			if err := exp.SetParam(name, params[name]); err != nil {
				return Point{}, nil, fmt.Errorf("%s: %w", cfg.Name, err)
			}
		}
		jobs = append(jobs, exp.Job())
	}

	results, err := sim.NewEnsemble(g.workers, jobs...).Run(ctx)
	if err != nil {
		return Point{}, nil, err
	}

	best := Point{Value: math.Inf(1)}
	if goal == Maximize {
		best.Value = math.Inf(-1)
	}

	points := make([]Point, len(combos))
	for i, res := range results {
		val, ok := res.Metrics[metricName]
		if !ok {
			return Point{}, nil, fmt.Errorf("unknown metric %q", metricName)
		}
		points[i] = Point{Params: combos[i], Value: val, Metrics: res.Metrics}
		if goal.better(val, best.Value) {
			best = points[i]
		}
	}

	return best, points, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// ParseRange reads "lo:hi:n" as n evenly spaced values, or a comma separated
// list of values.
func ParseRange(s string) ([]float64, error) {
	if parts := strings.Split(s, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(parts[0], 64)
		hi, err2 := strconv.ParseFloat(parts[1], 64)
		n, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil || n < 1 {
			return nil, fmt.Errorf("bad range %q: %w", s, dynamo.ErrParameterBounds)
		}
		return Linspace(lo, hi, n), nil
	}

	var values []float64
	for _, f := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q: %w", f, dynamo.ErrParameterBounds)
		}
		values = append(values, v)
	}
	return values, nil
}

// Rank sorts points best first.
func Rank(points []Point, goal Goal) []Point {
	ranked := append([]Point(nil), points...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return goal.better(ranked[i].Value, ranked[j].Value)
	})
	return ranked
}
