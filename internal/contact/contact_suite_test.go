package contact_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/rodsim/internal/linalg"
	"github.com/san-kum/rodsim/internal/rod"
)

func TestContact(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Contact Suite")
}

var (
	up    = r3.Vec{Z: 1}
	axisX = r3.Vec{X: 1}
	axisY = r3.Vec{Y: 1}
)

// flatRod returns a single-element rod of unit length lying along x at
// height z above the origin.
func flatRod(z, radius float64) *rod.Rod {
	r, err := rod.NewStraight(1, r3.Vec{Z: z}, axisX, 1, radius, 1)
	Expect(err).NotTo(HaveOccurred())
	return r
}

// press sets the same external force on every node, so the element-averaged
// load equals f.
func press(r *rod.Rod, f r3.Vec) {
	for i := range r.ExternalForces {
		r.ExternalForces[i] = f
	}
}

func nodeBuffer(r *rod.Rod) linalg.Vectors {
	return linalg.NewVectors(r.NumNodes())
}
