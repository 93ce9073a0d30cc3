package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vectors is an ordered sequence of 3-vectors, one per node or element.
type Vectors []r3.Vec

func NewVectors(n int) Vectors {
	return make(Vectors, n)
}

// Fill returns n copies of v.
func Fill(v r3.Vec, n int) Vectors {
	out := make(Vectors, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func (v Vectors) Clone() Vectors {
	c := make(Vectors, len(v))
	copy(c, v)
	return c
}

func (v Vectors) Zero() {
	for i := range v {
		v[i] = r3.Vec{}
	}
}

func (v Vectors) IsFinite() bool {
	for _, p := range v {
		if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
			return false
		}
	}
	return true
}

// Sum returns the vector sum of the sequence.
func (v Vectors) Sum() r3.Vec {
	var s r3.Vec
	for _, p := range v {
		s = r3.Add(s, p)
	}
	return s
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func mustMatch(op string, n int, lens ...int) {
	for _, l := range lens {
		if l != n {
			panic(fmt.Sprintf("linalg: %s length mismatch (%d != %d)", op, l, n))
		}
	}
}

// Average writes the mean of each pair of adjacent nodes into out.
// len(out) must be len(nodes)-1.
func Average(nodes, out Vectors) {
	mustMatch("average", len(nodes)-1, len(out))
	for i := range out {
		out[i] = r3.Scale(0.5, r3.Add(nodes[i], nodes[i+1]))
	}
}

// Scatter adds half of each element vector onto both of its bounding nodes.
// len(nodes) must be len(elem)+1. Adjacent elements share a node, so
// Scatter always runs serially.
func Scatter(elem, nodes Vectors) {
	mustMatch("scatter", len(elem)+1, len(nodes))
	for i, f := range elem {
		h := r3.Scale(0.5, f)
		nodes[i] = r3.Add(nodes[i], h)
		nodes[i+1] = r3.Add(nodes[i+1], h)
	}
}

// Add writes a[i]+b[i] into out. out may alias a or b.
func Add(a, b, out Vectors) {
	mustMatch("add", len(a), len(b), len(out))
	for i := range out {
		out[i] = r3.Add(a[i], b[i])
	}
}

// Norms writes |a[i]| into out.
func Norms(a Vectors, out []float64) {
	mustMatch("norms", len(a), len(out))
	for i, p := range a {
		out[i] = r3.Norm(p)
	}
}

// Scale writes s[i]·v[i] into out. out may alias v.
func Scale(s []float64, v, out Vectors) {
	mustMatch("scale", len(v), len(s), len(out))
	for i := range out {
		out[i] = r3.Scale(s[i], v[i])
	}
}

// Normalize rescales each vector of v to unit length in place. Vectors with
// norm at or below eps are set to zero.
func Normalize(v Vectors, eps float64) {
	for i, p := range v {
		if l := r3.Norm(p); l > eps {
			v[i] = r3.Scale(1/l, p)
		} else {
			v[i] = r3.Vec{}
		}
	}
}
