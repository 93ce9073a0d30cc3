package integrators

import (
	"github.com/san-kum/rodsim/internal/linalg"
	"github.com/san-kum/rodsim/internal/rod"
	"gonum.org/v1/gonum/spatial/r3"
)

// RK4 is the classical fourth-order Runge-Kutta scheme on (x, v). Contact
// forces are not smooth, so its order drops once elements touch the plane;
// it is mainly useful for checking the other integrators in free flight.
type RK4 struct {
	x0, v0 linalg.Vectors
	kv     [4]linalg.Vectors
	ka     [4]linalg.Vectors
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (k *RK4) ensureScratch(n int) {
	resize(&k.x0, n)
	resize(&k.v0, n)
	for i := range k.kv {
		resize(&k.kv[i], n)
		resize(&k.ka[i], n)
	}
}

func (k *RK4) Step(r *rod.Rod, eval func(*rod.Rod, float64) error, t, dt float64) error {
	n := r.NumNodes()
	k.ensureScratch(n)
	copy(k.x0, r.Positions)
	copy(k.v0, r.Velocities)

	offsets := [4]float64{0, 0.5 * dt, 0.5 * dt, dt}
	for s := 0; s < 4; s++ {
		if s > 0 {
			axpy(r, k.x0, offsets[s], k.kv[s-1], r.Positions)
			axpy(r, k.v0, offsets[s], k.ka[s-1], r.Velocities)
			r.UpdateTangents()
		}
		if err := eval(r, t+offsets[s]); err != nil {
			return err
		}
		copy(k.kv[s], r.Velocities)
		accelerations(r, k.ka[s])
	}

	dt6 := dt / 6
	for i := 0; i < n; i++ {
		if r.Masses[i] <= 0 {
			r.Positions[i] = k.x0[i]
			r.Velocities[i] = k.v0[i]
			continue
		}
		dx := weighted(k.kv, i)
		dv := weighted(k.ka, i)
		r.Positions[i] = r3.Add(k.x0[i], r3.Scale(dt6, dx))
		r.Velocities[i] = r3.Add(k.v0[i], r3.Scale(dt6, dv))
	}
	r.UpdateTangents()
	return nil
}

// weighted returns k1 + 2k2 + 2k3 + k4 at node i.
func weighted(k [4]linalg.Vectors, i int) r3.Vec {
	sum := r3.Add(k[0][i], k[3][i])
	return r3.Add(sum, r3.Scale(2, r3.Add(k[1][i], k[2][i])))
}
