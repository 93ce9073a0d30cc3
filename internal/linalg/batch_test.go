package linalg

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func randomVectors(rng *rand.Rand, n int) Vectors {
	v := NewVectors(n)
	for i := range v {
		v[i] = r3.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
	}
	return v
}

func backends() map[string]Batch {
	return map[string]Batch{
		"serial":         Serial{},
		"parallel":       NewParallel(4),
		"parallel-small": &Parallel{Workers: 3, MinChunk: 1},
	}
}

func TestBatchDot(t *testing.T) {
	a := Vectors{{X: 1, Y: 2, Z: 3}, {X: -1, Y: 0, Z: 2}}
	b := Vectors{{X: 4, Y: 5, Z: 6}, {X: 3, Y: 7, Z: -1}}

	for name, ops := range backends() {
		out := make([]float64, 2)
		ops.Dot(a, b, out)
		assert.Equal(t, []float64{32, -5}, out, name)
	}
}

func TestBatchCross(t *testing.T) {
	a := Vectors{{X: 1}, {Y: 1}}
	b := Vectors{{Y: 1}, {Z: 1}}

	for name, ops := range backends() {
		out := NewVectors(2)
		ops.Cross(a, b, out)
		assert.Equal(t, r3.Vec{Z: 1}, out[0], name)
		assert.Equal(t, r3.Vec{X: 1}, out[1], name)
	}
}

func TestBatchOuter(t *testing.T) {
	v := r3.Vec{X: 0, Y: 0, Z: 2}
	s := []float64{1, -0.5, 0}

	for name, ops := range backends() {
		out := NewVectors(3)
		ops.Outer(v, s, out)
		assert.Equal(t, Vectors{{Z: 2}, {Z: -1}, {}}, out, name)
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n := 2000
	a, b := randomVectors(rng, n), randomVectors(rng, n)

	serialDot := make([]float64, n)
	Serial{}.Dot(a, b, serialDot)
	serialCross := NewVectors(n)
	Serial{}.Cross(a, b, serialCross)

	par := &Parallel{Workers: 8, MinChunk: 16}
	parDot := make([]float64, n)
	par.Dot(a, b, parDot)
	parCross := NewVectors(n)
	par.Cross(a, b, parCross)

	assert.Equal(t, serialDot, parDot)
	assert.Equal(t, serialCross, parCross)
}

func TestMismatchedLengthsPanic(t *testing.T) {
	for name, ops := range backends() {
		assert.Panics(t, func() {
			ops.Dot(NewVectors(2), NewVectors(3), make([]float64, 2))
		}, name)
		assert.Panics(t, func() {
			ops.Outer(r3.Vec{X: 1}, []float64{1}, NewVectors(2))
		}, name)
	}
	assert.Panics(t, func() { Average(NewVectors(3), NewVectors(3)) })
	assert.Panics(t, func() { Scatter(NewVectors(2), NewVectors(2)) })
}

func TestAverageAndScatter(t *testing.T) {
	nodes := Vectors{{X: 0}, {X: 2}, {X: 4, Y: 2}}
	mid := NewVectors(2)
	Average(nodes, mid)
	require.Equal(t, Vectors{{X: 1}, {X: 3, Y: 1}}, mid)

	elem := Vectors{{Z: 2}, {Z: -4}}
	acc := NewVectors(3)
	Scatter(elem, acc)
	assert.Equal(t, Vectors{{Z: 1}, {Z: -1}, {Z: -2}}, acc)
	assert.Equal(t, elem.Sum(), acc.Sum())
}

func TestVectorsHelpers(t *testing.T) {
	v := Fill(r3.Vec{X: 3, Y: 4}, 2)
	norms := make([]float64, 2)
	Norms(v, norms)
	assert.Equal(t, []float64{5, 5}, norms)

	c := v.Clone()
	c.Zero()
	assert.Equal(t, r3.Vec{X: 3, Y: 4}, v[0])
	assert.Equal(t, r3.Vec{}, c[0])

	out := NewVectors(2)
	Add(v, v, out)
	assert.Equal(t, r3.Vec{X: 6, Y: 8}, out[1])
	assert.True(t, out.IsFinite())
}

func TestScaleAndNormalize(t *testing.T) {
	v := Vectors{{X: 2}, {Y: -3}, {Z: 1e-15}}
	out := NewVectors(3)
	Scale([]float64{0.5, 2, 1}, v, out)
	assert.Equal(t, Vectors{{X: 1}, {Y: -6}, {Z: 1e-15}}, out)

	Normalize(out, 1e-12)
	assert.Equal(t, Vectors{{X: 1}, {Y: -1}, {}}, out)
}
