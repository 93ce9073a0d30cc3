package linalg

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/rodsim/internal/dynamo"
)

// Batch is the elementwise vector algebra used by the force kernels.
type Batch interface {
	// Dot writes a[i]·b[i] into out.
	Dot(a, b Vectors, out []float64)
	// Cross writes a[i]×b[i] into out.
	Cross(a, b Vectors, out Vectors)
	// Outer writes s[i]·v into out.
	Outer(v r3.Vec, s []float64, out Vectors)
}

// Serial is the scalar-loop reference backend.
type Serial struct{}

func (Serial) Dot(a, b Vectors, out []float64) {
	mustMatch("dot", len(out), len(a), len(b))
	dotRange(a, b, out, 0, len(out))
}

func (Serial) Cross(a, b, out Vectors) {
	mustMatch("cross", len(out), len(a), len(b))
	crossRange(a, b, out, 0, len(out))
}

func (Serial) Outer(v r3.Vec, s []float64, out Vectors) {
	mustMatch("outer", len(out), len(s))
	outerRange(v, s, out, 0, len(out))
}

// Parallel splits each operation into contiguous chunks processed
// concurrently. Every output index is written by exactly one goroutine.
type Parallel struct {
	Workers  int // <= 0 uses dynamo.DefaultWorkers
	MinChunk int // ranges shorter than this run inline
}

const defaultMinChunk = 256

func NewParallel(workers int) *Parallel {
	return &Parallel{Workers: workers, MinChunk: defaultMinChunk}
}

func (p *Parallel) Dot(a, b Vectors, out []float64) {
	mustMatch("dot", len(out), len(a), len(b))
	dynamo.ParallelFor(len(out), p.Workers, p.MinChunk, func(start, end int) {
		dotRange(a, b, out, start, end)
	})
}

func (p *Parallel) Cross(a, b, out Vectors) {
	mustMatch("cross", len(out), len(a), len(b))
	dynamo.ParallelFor(len(out), p.Workers, p.MinChunk, func(start, end int) {
		crossRange(a, b, out, start, end)
	})
}

func (p *Parallel) Outer(v r3.Vec, s []float64, out Vectors) {
	mustMatch("outer", len(out), len(s))
	dynamo.ParallelFor(len(out), p.Workers, p.MinChunk, func(start, end int) {
		outerRange(v, s, out, start, end)
	})
}

func dotRange(a, b Vectors, out []float64, start, end int) {
	for i := start; i < end; i++ {
		out[i] = r3.Dot(a[i], b[i])
	}
}

func crossRange(a, b, out Vectors, start, end int) {
	for i := start; i < end; i++ {
		out[i] = r3.Cross(a[i], b[i])
	}
}

func outerRange(v r3.Vec, s []float64, out Vectors, start, end int) {
	for i := start; i < end; i++ {
		out[i] = r3.Scale(s[i], v)
	}
}
