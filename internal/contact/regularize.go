package contact

import "math"

// SlipFactor returns the static weight of an element slipping at speed v.
//
// At or below vTol the element sticks (factor 1). Between vTol and 2·vTol the
// factor falls linearly, |1 - min(1, |v|/vTol - 1)|, reaching 0 at 2·vTol and
// staying there. Kinetic friction is scaled by 1-factor and static friction by
// factor, so the two hand over continuously. vTol must be positive.
func SlipFactor(v, vTol float64) float64 {
	av := math.Abs(v)
	if av <= vTol {
		return 1
	}
	return math.Abs(1 - math.Min(1, av/vTol-1))
}

// SlipFactors applies SlipFactor elementwise into out.
func SlipFactors(v []float64, vTol float64, out []float64) {
	if len(v) != len(out) {
		panic("contact: slip factor length mismatch")
	}
	for i, vi := range v {
		out[i] = SlipFactor(vi, vTol)
	}
}

// sign returns -1, 0 or +1.
func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
