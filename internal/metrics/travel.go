package metrics

import (
	"github.com/san-kum/rodsim/internal/rod"
	"gonum.org/v1/gonum/spatial/r3"
)

// Travel is the signed displacement of the center of mass along the rod
// axis seen at the first observation (first node toward last node).
// Positive values mean the rod moved head first.
type Travel struct {
	name    string
	started bool
	origin  r3.Vec
	axis    r3.Vec
	value   float64
}

func NewTravel() *Travel {
	return &Travel{name: "travel"}
}

func (tr *Travel) Name() string { return tr.name }

func (tr *Travel) Observe(r *rod.Rod, t float64) {
	com := r.CenterOfMass()
	if !tr.started {
		tr.started = true
		tr.origin = com
		tr.axis = rodAxis(r)
	}
	tr.value = r3.Dot(r3.Sub(com, tr.origin), tr.axis)
}

func (tr *Travel) Value() float64 { return tr.value }

// Axis is the unit direction travel is measured along.
func (tr *Travel) Axis() r3.Vec { return tr.axis }

func (tr *Travel) Reset() {
	tr.started = false
	tr.value = 0
}

func rodAxis(r *rod.Rod) r3.Vec {
	n := len(r.Positions)
	if n < 2 {
		return r3.Vec{}
	}
	d := r3.Sub(r.Positions[n-1], r.Positions[0])
	if l := r3.Norm(d); l > 0 {
		return r3.Scale(1/l, d)
	}
	return r3.Vec{}
}
