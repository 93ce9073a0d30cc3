package contact_test

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/rodsim/internal/contact"
	"github.com/san-kum/rodsim/internal/linalg"
	"github.com/san-kum/rodsim/internal/rod"
)

func benchmarkModel(b *testing.B, n int, ops linalg.Batch) {
	r, err := rod.NewStraight(n, r3.Vec{}, r3.Vec{X: 1}, 1, 1e-3, 1)
	if err != nil {
		b.Fatal(err)
	}
	for i := range r.Velocities {
		r.Velocities[i] = r3.Vec{X: 0.01, Y: 0.002}
		r.ExternalForces[i] = r3.Vec{Z: -1}
	}

	p, _ := contact.NewPlane(r3.Vec{}, r3.Vec{Z: 1}, 1e4, 10, 1e-3)
	m, err := contact.NewModel(p, contact.FrictionParams{
		Static:          contact.Coefficients{Forward: 0.4, Backward: 0.4, Sideways: 0.4},
		Kinetic:         contact.Coefficients{Forward: 0.1, Backward: 0.3, Sideways: 0.2},
		SlipVelocityTol: 1e-4,
	}, ops)
	if err != nil {
		b.Fatal(err)
	}
	out := linalg.NewVectors(r.NumNodes())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out.Zero()
		if _, err := m.Accumulate(r, out); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkModelSerial100(b *testing.B)     { benchmarkModel(b, 100, linalg.Serial{}) }
func BenchmarkModelSerial10000(b *testing.B)   { benchmarkModel(b, 10000, linalg.Serial{}) }
func BenchmarkModelParallel10000(b *testing.B) { benchmarkModel(b, 10000, linalg.NewParallel(0)) }
